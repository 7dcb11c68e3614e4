package models

// ConflictRoomID is the sentinel room reference assigned when no candidate
// room could take a booking. It occupies no physical room and is excluded
// from every overlap check.
const ConflictRoomID = "CONFLICT"

// Room describes a bookable physical room. Rooms are static configuration
// supplied at startup; they are never persisted or mutated by the planner.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

// RoomRegistry indexes the configured rooms by identifier.
type RoomRegistry struct {
	rooms []Room
	byID  map[string]Room
}

// NewRoomRegistry builds a registry from the configured room list.
func NewRoomRegistry(rooms []Room) *RoomRegistry {
	byID := make(map[string]Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}
	return &RoomRegistry{rooms: rooms, byID: byID}
}

// All returns the configured rooms in declaration order.
func (r *RoomRegistry) All() []Room {
	out := make([]Room, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Get looks up a room by identifier.
func (r *RoomRegistry) Get(id string) (Room, bool) {
	room, ok := r.byID[id]
	return room, ok
}

// Has reports whether the identifier names a configured room.
func (r *RoomRegistry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}
