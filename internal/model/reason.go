// Package model defines the core reason and collection data types.
package model

import "fmt"

// MaxRecent is the number of records the recent collection keeps.
const MaxRecent = 10

// Reason is a single timestamped entry in a collection.
// Timestamp is milliseconds since the Unix epoch.
type Reason struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Collection names one of the three reason collections.
type Collection string

const (
	Liked  Collection = "liked"
	Saved  Collection = "saved"
	Recent Collection = "recent"
)

// Collections lists every collection in display order.
var Collections = []Collection{Liked, Saved, Recent}

// ParseCollection resolves a collection by name.
func ParseCollection(name string) (Collection, error) {
	switch Collection(name) {
	case Liked, Saved, Recent:
		return Collection(name), nil
	}
	return "", fmt.Errorf("unknown collection %q (use liked, saved or recent)", name)
}

// State is a point-in-time copy of the whole store.
type State struct {
	CurrentReason string   `json:"currentReason,omitempty"`
	IsLoading     bool     `json:"isLoading"`
	Liked         []Reason `json:"likedReasons"`
	Saved         []Reason `json:"savedReasons"`
	Recent        []Reason `json:"recentReasons"`
}

// Items returns the records of the named collection.
func (s State) Items(c Collection) []Reason {
	switch c {
	case Liked:
		return s.Liked
	case Saved:
		return s.Saved
	case Recent:
		return s.Recent
	}
	return nil
}

// Contains reports whether a record with text exists in list.
func Contains(list []Reason, text string) bool {
	for _, r := range list {
		if r.Text == text {
			return true
		}
	}
	return false
}
