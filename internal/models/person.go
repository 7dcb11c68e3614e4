package models

import (
	"time"

	"github.com/lib/pq"
)

// MaxAltRooms caps how many alternate rooms a person may declare.
const MaxAltRooms = 3

// Person is a bookable professional with ordered room preferences.
// AltRooms are tried in order after DefaultRoom fails; the color/pattern
// pair must be unique across all people.
type Person struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	DefaultRoom string         `db:"default_room" json:"default_room"`
	AltRooms    pq.StringArray `db:"alt_rooms" json:"alt_rooms"`
	Color       string         `db:"color" json:"color"`
	Pattern     string         `db:"pattern" json:"pattern"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// CandidateRooms returns the default room followed by the alternates in
// priority order.
func (p Person) CandidateRooms() []string {
	candidates := make([]string, 0, 1+len(p.AltRooms))
	candidates = append(candidates, p.DefaultRoom)
	candidates = append(candidates, p.AltRooms...)
	return candidates
}

// Flexibility is 1 plus the number of alternate rooms. Lower values are
// scheduled first during assignment.
func (p Person) Flexibility() int {
	return 1 + len(p.AltRooms)
}
