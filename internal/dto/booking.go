package dto

import "github.com/ateliersante/room-planner-api/internal/models"

// CreateBookingRequest creates a single booking. Either personId (a
// preference-based booking) or title (an ad-hoc event) must be set. An empty
// roomId asks the planner to suggest one from the person's preferences.
type CreateBookingRequest struct {
	PersonID  string `json:"personId" validate:"required_without=Title"`
	Title     string `json:"title" validate:"required_without=PersonID"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	RoomID    string `json:"roomId"`
	Fixed     bool   `json:"fixed"`
}

// UpdateBookingRequest reschedules an existing booking in place.
type UpdateBookingRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	RoomID    string `json:"roomId" validate:"required"`
}

// BookingCollision describes the occupant blocking an edit, surfaced so the
// caller can show who holds the slot.
type BookingCollision struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	RoomName  string `json:"roomName"`
}

// BookingResponse is the wire shape for a single booking.
type BookingResponse struct {
	ID        string  `json:"id"`
	PersonID  *string `json:"personId,omitempty"`
	Title     *string `json:"title,omitempty"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	RoomID    string  `json:"roomId"`
	Fixed     bool    `json:"fixed"`
	Conflict  bool    `json:"conflict"`
}

// FromBooking converts a stored booking to its wire shape.
func FromBooking(b models.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		PersonID:  b.PersonID,
		Title:     b.Title,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		RoomID:    b.RoomID,
		Fixed:     b.Fixed,
		Conflict:  b.InConflict(),
	}
}

// FromBookings converts a booking list, never returning nil.
func FromBookings(items []models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, FromBooking(b))
	}
	return out
}

// RoomSuggestion reports which preferred room, if any, can take a booking.
type RoomSuggestion struct {
	Status  string `json:"status"` // ok, warning (alternate) or error (none free)
	Message string `json:"message"`
	RoomID  string `json:"roomId,omitempty"`
}
