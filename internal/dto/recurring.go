package dto

// DayWindowRequest is the weekly template entry for one weekday.
type DayWindowRequest struct {
	Active bool   `json:"active"`
	Start  string `json:"start" validate:"required_if=Active true,omitempty,datetime=15:04"`
	End    string `json:"end" validate:"required_if=Active true,omitempty,datetime=15:04"`
}

// RecurringScheduleRequest expands a weekly template for one person over a
// date range. Week is keyed by lowercase english weekday names.
type RecurringScheduleRequest struct {
	StartDate string                      `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string                      `json:"endDate" validate:"required,datetime=2006-01-02"`
	Week      map[string]DayWindowRequest `json:"week" validate:"required"`
}

// RecurringPreviewResponse summarizes what a commit would change without
// touching storage.
type RecurringPreviewResponse struct {
	DeleteCount   int               `json:"deleteCount"`
	InsertCount   int               `json:"insertCount"`
	ConflictCount int               `json:"conflictCount"`
	Inserts       []BookingResponse `json:"inserts"`
	Deletes       []BookingResponse `json:"deletes"`
}

// RecurringCommitResponse reports the applied diff.
type RecurringCommitResponse struct {
	Deleted       int `json:"deleted"`
	Inserted      int `json:"inserted"`
	ConflictCount int `json:"conflictCount"`
}
