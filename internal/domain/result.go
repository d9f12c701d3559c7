package domain

// Result is the unit returned to the caller for one request. Nothing in it
// outlives the request/response cycle.
type Result struct {
	ID         int64
	Track      Track
	Candidates []Candidate
	// Audit is nil on an empty result: with no candidates there is nothing
	// to score, and the pipeline never fabricates one.
	Audit *AuditReport
	Note  string
}

// Empty reports whether the vetter found no qualifying candidates.
// An empty result is a valid outcome, not an error.
func (r *Result) Empty() bool {
	return len(r.Candidates) == 0
}
