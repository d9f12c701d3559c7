package domain

import "strings"

// Candidate is one vetted venue or product, annotated with the evidence the
// vetter found for it during search grounding.
type Candidate struct {
	Name     string
	Location string
	Evidence string
	Source   string
}

// InGeofence reports whether a candidate location falls inside the requested
// location. Matching is on the requested location's primary locality (the
// text before the first comma), case-insensitively, so "Wicker Park,
// Chicago, IL" passes a "Chicago" geofence while "Evanston, IL" does not.
func InGeofence(candidateLocation, requested string) bool {
	locality := strings.ToLower(strings.TrimSpace(requested))
	if i := strings.Index(locality, ","); i >= 0 {
		locality = strings.TrimSpace(locality[:i])
	}
	if locality == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidateLocation), locality)
}
