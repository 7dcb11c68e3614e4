package scheduling

import (
	"sort"
	"time"

	"github.com/ateliersante/room-planner-api/internal/models"
)

// Sweep re-derives room assignments for every non-fixed booking over the
// rolling horizon and returns the minimal set of room changes. Fixed
// bookings block rooms but never move; flexible bookings whose owner cannot
// be resolved still block their room but are not moved. When updated is non-nil it
// overrides that person's stored preferences, covering the window right
// after a preference edit before the write is visible in the snapshot.
//
// The sweep is deterministic: the flexibility sort is stable and candidate
// order is fixed, so running it twice over the same snapshot yields the same
// assignments and the second run emits no changes.
func (e *Engine) Sweep(snap Snapshot, updated *models.Person, today time.Time) []models.RoomChange {
	people := snap.peopleByID()
	if updated != nil {
		people[updated.ID] = *updated
	}

	byDate := make(map[string][]models.Booking)
	for _, b := range snap.Bookings {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	var changes []models.RoomChange
	day := today.UTC()
	for i := 0; i <= e.HorizonDays; i++ {
		dateStr := day.AddDate(0, 0, i).Format(dateLayout)
		dayBookings := byDate[dateStr]
		if len(dayBookings) == 0 {
			continue
		}

		var fixed []placed
		type flexEntry struct {
			booking models.Booking
			person  models.Person
			start   int
			end     int
		}
		var pool []flexEntry
		for _, b := range dayBookings {
			if b.Fixed {
				fixed = append(fixed, placedFromBooking(b))
				continue
			}
			owner, known := people[b.Owner()]
			if !known {
				// Orphaned booking: never moved, still occupies its room.
				fixed = append(fixed, placedFromBooking(b))
				continue
			}
			pool = append(pool, flexEntry{
				booking: b,
				person:  owner,
				start:   MinutesOrZero(b.StartTime),
				end:     MinutesOrZero(b.EndTime),
			})
		}

		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].person.Flexibility() < pool[j].person.Flexibility()
		})

		var assigned []placed
		for _, entry := range pool {
			roomID := e.pickRoom(entry.person.CandidateRooms(), entry.person.ID, entry.start, entry.end, fixed, assigned)
			if roomID != entry.booking.RoomID {
				changes = append(changes, models.RoomChange{BookingID: entry.booking.ID, RoomID: roomID})
			}
			if roomID != models.ConflictRoomID {
				assigned = append(assigned, placed{roomID: roomID, personID: entry.person.ID, start: entry.start, end: entry.end})
			}
		}
	}
	return changes
}
