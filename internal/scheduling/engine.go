package scheduling

import (
	"github.com/ateliersante/room-planner-api/internal/models"
)

// DefaultBufferMinutes is the mandatory transition time between two
// different people sharing a room.
const DefaultBufferMinutes = 30

// DefaultHorizonDays is the rolling reoptimization window.
const DefaultHorizonDays = 30

// Engine evaluates room assignments over point-in-time snapshots of people
// and bookings. It performs no I/O: callers read a fresh snapshot, run one
// engine operation and commit the resulting diff as a single batch.
type Engine struct {
	Buffer      int // minutes of separation required between different occupants
	HorizonDays int // sweep covers today through today+HorizonDays inclusive
}

// NewEngine builds an engine, falling back to defaults for zero values.
func NewEngine(bufferMinutes, horizonDays int) *Engine {
	if bufferMinutes <= 0 {
		bufferMinutes = DefaultBufferMinutes
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Engine{Buffer: bufferMinutes, HorizonDays: horizonDays}
}

// Snapshot is a point-in-time read of the planner state.
type Snapshot struct {
	Bookings []models.Booking
	People   []models.Person
}

func (s Snapshot) peopleByID() map[string]models.Person {
	byID := make(map[string]models.Person, len(s.People))
	for _, p := range s.People {
		byID[p.ID] = p
	}
	return byID
}

// RoomConflicts returns the bookings blocking roomID for the requested range
// on the given date. Sentinel bookings never block. The same-person buffer
// exemption applies when personID matches a blocker's occupant; excludeID
// ignores one booking, used when editing a booking in place.
func (e *Engine) RoomConflicts(bookings []models.Booking, date string, startMins, endMins int, roomID, personID, excludeID string) []models.Booking {
	var conflicts []models.Booking
	for _, b := range bookings {
		if b.InConflict() {
			continue
		}
		if b.Date != date || b.RoomID != roomID {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		same := personID != "" && b.OwnedBy(personID)
		if Conflicts(startMins, endMins, MinutesOrZero(b.StartTime), MinutesOrZero(b.EndTime), same, e.Buffer) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// SuggestRoom returns the first of the person's candidate rooms free for the
// requested range, or the conflict sentinel when every candidate is taken.
// excludeID ignores one booking, used when rescheduling in place.
func (e *Engine) SuggestRoom(snap Snapshot, person models.Person, date string, startMins, endMins int, excludeID string) string {
	for _, roomID := range person.CandidateRooms() {
		if roomID == "" {
			continue
		}
		if len(e.RoomConflicts(snap.Bookings, date, startMins, endMins, roomID, person.ID, excludeID)) == 0 {
			return roomID
		}
	}
	return models.ConflictRoomID
}

// placed is a room occupation already decided within the current pass,
// either a fixed blocker or an earlier pool assignment.
type placed struct {
	roomID   string
	personID string
	start    int
	end      int
}

func placedFromBooking(b models.Booking) placed {
	return placed{
		roomID:   b.RoomID,
		personID: b.Owner(),
		start:    MinutesOrZero(b.StartTime),
		end:      MinutesOrZero(b.EndTime),
	}
}

// pickRoom returns the first candidate room usable against both blocker
// sets, or the conflict sentinel when every candidate is taken.
func (e *Engine) pickRoom(candidates []string, personID string, start, end int, fixed, pool []placed) string {
	for _, roomID := range candidates {
		if roomID == "" {
			continue
		}
		if e.anyBlocks(fixed, roomID, personID, start, end) {
			continue
		}
		if e.anyBlocks(pool, roomID, personID, start, end) {
			continue
		}
		return roomID
	}
	return models.ConflictRoomID
}

func (e *Engine) anyBlocks(blockers []placed, roomID, personID string, start, end int) bool {
	for _, b := range blockers {
		if b.roomID != roomID {
			continue
		}
		same := personID != "" && personID == b.personID
		if Conflicts(start, end, b.start, b.end, same, e.Buffer) {
			return true
		}
	}
	return false
}
