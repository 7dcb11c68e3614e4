package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/ateliersante/room-planner-api/internal/models"
)

const dateLayout = "2006-01-02"

// DayWindow is one weekday's entry in a weekly template.
type DayWindow struct {
	Active bool   `json:"active"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// WeekTemplate maps weekdays to template windows. Missing weekdays count as
// inactive.
type WeekTemplate map[time.Weekday]DayWindow

// poolEntry is a request competing for a room on a single date: either the
// template's new slot or a displaced existing booking being re-derived from
// its owner's preferences.
type poolEntry struct {
	person   models.Person
	original *models.Booking // nil for the template's own request
	startStr string
	endStr   string
	start    int
	end      int
}

// ExpandRecurring replaces the person's bookings between startDate and
// endDate (inclusive) with bookings generated from the weekly template,
// reassigning any other bookings the new slots displace. The whole range is
// cleared for the person, including dates whose weekday is inactive. The
// returned diff is applied atomically by the caller; inserted bookings may
// carry the conflict sentinel when no candidate room was available.
func (e *Engine) ExpandRecurring(person models.Person, tmpl WeekTemplate, startDate, endDate string, snap Snapshot) (models.Diff, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return models.Diff{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return models.Diff{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if start.After(end) {
		return models.Diff{}, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}

	people := snap.peopleByID()
	var diff models.Diff
	deleted := make(map[string]bool)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		window, ok := tmpl[d.Weekday()]
		if !ok || !window.Active {
			continue
		}
		dateStr := d.Format(dateLayout)
		reqStart := MinutesOrZero(window.Start)
		reqEnd := MinutesOrZero(window.End)

		// Split the day's other bookings into those the new slot displaces
		// (time overlap with buffer, irrespective of room) and those that
		// stay put as fixed blockers. The person's own bookings are skipped;
		// the range clearing below removes them.
		var fixed []placed
		pool := []poolEntry{{
			person:   person,
			startStr: window.Start,
			endStr:   window.End,
			start:    reqStart,
			end:      reqEnd,
		}}
		for i := range snap.Bookings {
			b := snap.Bookings[i]
			if b.Date != dateStr || b.OwnedBy(person.ID) {
				continue
			}
			bStart := MinutesOrZero(b.StartTime)
			bEnd := MinutesOrZero(b.EndTime)
			if !Conflicts(reqStart, reqEnd, bStart, bEnd, false, e.Buffer) {
				fixed = append(fixed, placedFromBooking(b))
				continue
			}
			owner, known := people[b.Owner()]
			if !known {
				// Ad-hoc events and orphaned bookings cannot be re-derived
				// from preferences; treat them as immovable.
				fixed = append(fixed, placedFromBooking(b))
				continue
			}
			pool = append(pool, poolEntry{
				person:   owner,
				original: &snap.Bookings[i],
				startStr: b.StartTime,
				endStr:   b.EndTime,
				start:    bStart,
				end:      bEnd,
			})
		}

		// Least flexible first; ties keep pool order.
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].person.Flexibility() < pool[j].person.Flexibility()
		})

		var assigned []placed
		for _, entry := range pool {
			roomID := e.pickRoom(entry.person.CandidateRooms(), entry.person.ID, entry.start, entry.end, fixed, assigned)
			if entry.original != nil {
				diff.Deletes = append(diff.Deletes, *entry.original)
				deleted[entry.original.ID] = true
			}
			personID := entry.person.ID
			diff.Inserts = append(diff.Inserts, models.Booking{
				PersonID:  &personID,
				Date:      dateStr,
				StartTime: entry.startStr,
				EndTime:   entry.endStr,
				RoomID:    roomID,
				Fixed:     false,
			})
			if roomID != models.ConflictRoomID {
				assigned = append(assigned, placed{roomID: roomID, personID: personID, start: entry.start, end: entry.end})
			}
		}
	}

	// The whole range is cleared for the person, active weekday or not.
	for _, b := range snap.Bookings {
		if !b.OwnedBy(person.ID) {
			continue
		}
		if b.Date < startDate || b.Date > endDate {
			continue
		}
		if !deleted[b.ID] {
			diff.Deletes = append(diff.Deletes, b)
			deleted[b.ID] = true
		}
	}

	return diff, nil
}
