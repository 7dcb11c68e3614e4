package dto

// PersonPayload carries the writable fields of a person. AltRooms are
// ordered by priority and capped at three; the color/pattern pair must be
// unique across people.
type PersonPayload struct {
	Name        string   `json:"name" validate:"required"`
	DefaultRoom string   `json:"defaultRoom" validate:"required"`
	AltRooms    []string `json:"altRooms" validate:"omitempty,max=3,unique"`
	Color       string   `json:"color" validate:"required,hexcolor"`
	Pattern     string   `json:"pattern" validate:"required,oneof=solid v-lines h-lines dots slant zigzag stars diamonds"`
}
