package models

import "time"

// Booking occupies one room for one time range on one calendar day.
// Either PersonID references the occupant, or Title labels an ad-hoc event.
// RoomID may hold ConflictRoomID when no candidate room was available.
// Fixed bookings are immovable blockers for the reoptimization sweep;
// non-fixed bookings follow their person's room preferences and may be
// reassigned across rooms at any time.
type Booking struct {
	ID        string    `db:"id" json:"id"`
	PersonID  *string   `db:"person_id" json:"person_id,omitempty"`
	Title     *string   `db:"title" json:"title,omitempty"`
	Date      string    `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	RoomID    string    `db:"room_id" json:"room_id"`
	Fixed     bool      `db:"fixed" json:"fixed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether the booking belongs to the given person.
func (b Booking) OwnedBy(personID string) bool {
	return b.PersonID != nil && *b.PersonID == personID
}

// Owner returns the person reference or the empty string for ad-hoc events.
func (b Booking) Owner() string {
	if b.PersonID == nil {
		return ""
	}
	return *b.PersonID
}

// InConflict reports whether the booking carries the conflict sentinel.
func (b Booking) InConflict() bool {
	return b.RoomID == ConflictRoomID
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	DateFrom     string
	DateTo       string
	PersonID     string
	RoomID       string
	OnlyConflict bool
}

// RoomChange is a minimal sweep write: move one booking to another room.
type RoomChange struct {
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
}

// Diff is the transactional output of a recurring-schedule expansion:
// the listed bookings are deleted and the listed bookings are inserted in a
// single atomic batch. The slices are ordered so a host that must chunk the
// batch can split them while keeping deletes ahead of inserts.
type Diff struct {
	Deletes []Booking `json:"deletes"`
	Inserts []Booking `json:"inserts"`
}

// Empty reports whether the diff carries no work.
func (d Diff) Empty() bool {
	return len(d.Deletes) == 0 && len(d.Inserts) == 0
}
