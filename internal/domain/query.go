package domain

// Severity grades how strictly a restriction must be enforced.
type Severity string

const (
	SeverityPreference  Severity = "preference"
	SeverityIntolerance Severity = "intolerance"
	SeverityAllergy     Severity = "allergy"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityPreference, SeverityIntolerance, SeverityAllergy:
		return true
	}
	return false
}

// Restriction is one entry of a user's dietary profile, e.g. {gluten-free, allergy}.
type Restriction struct {
	Type     string
	Severity Severity
}

// DietaryProfile describes the user's food restrictions and allergies.
type DietaryProfile struct {
	Restrictions []Restriction
}

// Strictest returns the highest severity present in the profile.
// An empty profile is a preference-level profile.
func (p DietaryProfile) Strictest() Severity {
	out := SeverityPreference
	for _, r := range p.Restrictions {
		switch r.Severity {
		case SeverityAllergy:
			return SeverityAllergy
		case SeverityIntolerance:
			out = SeverityIntolerance
		}
	}
	return out
}

// Query is the immutable per-request input to the pipeline.
type Query struct {
	Location string
	Profile  DietaryProfile
	Mission  string
}
