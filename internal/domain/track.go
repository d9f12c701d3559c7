package domain

import (
	"fmt"
	"strings"
)

// Track is the classified user-intent category selected by the intent router.
type Track string

const (
	TrackRestaurant Track = "RESTAURANT"
	TrackGrocery    Track = "GROCERY"
)

// Tracks lists every valid track, in routing priority order.
func Tracks() []Track {
	return []Track{TrackRestaurant, TrackGrocery}
}

func (t Track) Valid() bool {
	return t == TrackRestaurant || t == TrackGrocery
}

// ParseTrack extracts a track label from model output. It tolerates
// surrounding prose ("The intent is RESTAURANT.") but refuses to guess:
// output containing no known label is an error, never a default track.
func ParseTrack(s string) (Track, error) {
	upper := strings.ToUpper(s)

	best := Track("")
	bestIdx := -1
	for _, t := range Tracks() {
		idx := strings.Index(upper, string(t))
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best = t
			bestIdx = idx
		}
	}

	if bestIdx < 0 {
		return "", fmt.Errorf("no known track label in %q", s)
	}
	return best, nil
}
