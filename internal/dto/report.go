package dto

// AvailabilityRequest captures query parameters for /reports/availability.
// To defaults to From when empty.
type AvailabilityRequest struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// RoomAvailability lists the whole hours a room sits free on one day.
type RoomAvailability struct {
	RoomID    string   `json:"roomId"`
	RoomName  string   `json:"roomName"`
	FreeHours []string `json:"freeHours"`
}

// DayAvailability is the free-hour report across all rooms for one day.
type DayAvailability struct {
	Date  string             `json:"date"`
	Rooms []RoomAvailability `json:"rooms"`
}

// AvailabilityResponse covers the requested date range day by day.
type AvailabilityResponse struct {
	From string            `json:"from"`
	To   string            `json:"to"`
	Days []DayAvailability `json:"days"`
}

// SlotSearchRequest asks for open starts for one person on one day.
type SlotSearchRequest struct {
	PersonID string `form:"personId" validate:"required"`
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
	Duration int    `form:"duration" validate:"required,min=30,max=720"`
}

// SlotOption is one bookable start with the room the planner would pick.
type SlotOption struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	RoomID    string `json:"roomId"`
}

// SlotSearchResponse lists every bookable start on the half-hour grid.
type SlotSearchResponse struct {
	PersonID string       `json:"personId"`
	Date     string       `json:"date"`
	Duration int          `json:"duration"`
	Slots    []SlotOption `json:"slots"`
}

// WeeklyGridRequest selects the week to render. Start may fall on any day;
// the report snaps to the Monday of that week. RoomID narrows the grid to one
// room (cells list occupants), PersonID to one person (cells list rooms).
type WeeklyGridRequest struct {
	Start    string `form:"start" validate:"required,datetime=2006-01-02"`
	RoomID   string `form:"roomId" validate:"excluded_with=PersonID"`
	PersonID string `form:"personId"`
}
