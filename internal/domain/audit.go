package domain

// Verdict is the traffic-light outcome of the safety audit.
type Verdict string

const (
	VerdictGreen  Verdict = "green"
	VerdictYellow Verdict = "yellow"
	VerdictRed    Verdict = "red"
)

// AnnotationStatus grades a single candidate's safety evidence.
type AnnotationStatus string

const (
	StatusSafe    AnnotationStatus = "safe"
	StatusCaution AnnotationStatus = "caution"
	StatusAvoid   AnnotationStatus = "avoid"
	// StatusUnreviewed marks candidates the auditor skipped; the pipeline
	// never drops a candidate from the report silently.
	StatusUnreviewed AnnotationStatus = "unreviewed"
)

func (s AnnotationStatus) Valid() bool {
	switch s {
	case StatusSafe, StatusCaution, StatusAvoid, StatusUnreviewed:
		return true
	}
	return false
}

// Annotation is the auditor's per-candidate note. Candidate matches
// Candidate.Name of exactly one vetted entry.
type Annotation struct {
	Candidate string
	Status    AnnotationStatus
	Note      string
}

// AuditReport is the auditor's assessment of a full candidate list.
// Invariant: len(Annotations) equals the number of audited candidates.
type AuditReport struct {
	Score       int // 0-100, monotonic with evidence strength
	Verdict     Verdict
	Annotations []Annotation
}

// ScoreCutoffs holds the verdict thresholds. Scores below RedBelow are red,
// scores at or above GreenAt are green, everything between is yellow.
type ScoreCutoffs struct {
	RedBelow int
	GreenAt  int
}

// VerdictForScore derives the traffic-light verdict from a confidence score.
// The mapping is monotonic: a higher score never yields a worse verdict.
func VerdictForScore(score int, cutoffs ScoreCutoffs) Verdict {
	switch {
	case score < cutoffs.RedBelow:
		return VerdictRed
	case score >= cutoffs.GreenAt:
		return VerdictGreen
	default:
		return VerdictYellow
	}
}
