package dto

// RestrictionInput is one dietary restriction as submitted by the client.
type RestrictionInput struct {
	Type     string `json:"type" binding:"required"`
	Severity string `json:"severity" binding:"required,oneof=preference intolerance allergy"`
}

type DietaryProfileInput struct {
	Restrictions []RestrictionInput `json:"restrictions" binding:"required,min=1,dive"`
}

type VetRequest struct {
	Location       string              `json:"location" binding:"required"`
	DietaryProfile DietaryProfileInput `json:"dietary_profile" binding:"required"`
	Mission        string              `json:"mission" binding:"required"`
}

type CandidateResponse struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Evidence string `json:"evidence"`
	Source   string `json:"source"`
}

type AnnotationResponse struct {
	Candidate string `json:"candidate"`
	Status    string `json:"status"`
	Note      string `json:"note"`
}

type AuditResponse struct {
	Score       int                  `json:"score"`
	Verdict     string               `json:"verdict"`
	Annotations []AnnotationResponse `json:"annotations"`
}

type VetResponse struct {
	RequestID  string              `json:"request_id"`
	Track      string              `json:"track"`
	Candidates []CandidateResponse `json:"candidates"`
	Audit      *AuditResponse      `json:"audit,omitempty"`
	Note       string              `json:"note,omitempty"`
}

// ErrorResponse is the body for every non-2xx API response. Kind is the
// pipeline failure kind when one applies, empty for plain request errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
