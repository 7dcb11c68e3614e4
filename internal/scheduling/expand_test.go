package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersante/room-planner-api/internal/models"
)

func weekdaysTemplate(start, end string, days ...time.Weekday) WeekTemplate {
	tmpl := WeekTemplate{}
	for _, day := range days {
		tmpl[day] = DayWindow{Active: true, Start: start, End: end}
	}
	return tmpl
}

func TestExpandRecurringRejectsInvalidRange(t *testing.T) {
	e := NewEngine(30, 30)
	person := testPerson("alice", "R1")
	tmpl := weekdaysTemplate("09:00", "17:00", time.Monday)

	_, err := e.ExpandRecurring(person, tmpl, "not-a-date", "2026-09-04", Snapshot{})
	assert.Error(t, err)

	_, err = e.ExpandRecurring(person, tmpl, "2026-09-01", "03/09/2026", Snapshot{})
	assert.Error(t, err)

	_, err = e.ExpandRecurring(person, tmpl, "2026-09-04", "2026-09-01", Snapshot{})
	assert.Error(t, err)
}

func TestExpandRecurringGeneratesActiveDaysOnly(t *testing.T) {
	e := NewEngine(30, 30)
	person := testPerson("alice", "R1")
	// 2026-09-01 is a Tuesday; the week runs Tue..Mon.
	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday, time.Thursday)

	diff, err := e.ExpandRecurring(person, tmpl, "2026-09-01", "2026-09-07", Snapshot{People: []models.Person{person}})
	require.NoError(t, err)
	require.Len(t, diff.Inserts, 2)
	assert.Equal(t, "2026-09-01", diff.Inserts[0].Date)
	assert.Equal(t, "2026-09-03", diff.Inserts[1].Date)
	for _, b := range diff.Inserts {
		assert.Equal(t, "R1", b.RoomID)
		assert.Equal(t, "09:00", b.StartTime)
		assert.Equal(t, "12:00", b.EndTime)
		assert.False(t, b.Fixed)
		require.NotNil(t, b.PersonID)
		assert.Equal(t, "alice", *b.PersonID)
	}
	assert.Empty(t, diff.Deletes)
}

func TestExpandRecurringClearsWholeRange(t *testing.T) {
	e := NewEngine(30, 30)
	person := testPerson("alice", "R1")
	// Only Tuesday is active, yet the Friday booking inside the range is
	// still cleared. The booking outside the range survives.
	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday)
	snap := Snapshot{
		People: []models.Person{person},
		Bookings: []models.Booking{
			testBooking("old-tue", "alice", "2026-09-01", "14:00", "15:00", "R1", false),
			testBooking("old-fri", "alice", "2026-09-04", "09:00", "10:00", "R1", false),
			testBooking("outside", "alice", "2026-09-10", "09:00", "10:00", "R1", false),
		},
	}

	diff, err := e.ExpandRecurring(person, tmpl, "2026-09-01", "2026-09-07", snap)
	require.NoError(t, err)

	deleted := make([]string, 0, len(diff.Deletes))
	for _, b := range diff.Deletes {
		deleted = append(deleted, b.ID)
	}
	assert.ElementsMatch(t, []string{"old-tue", "old-fri"}, deleted)
	require.Len(t, diff.Inserts, 1)
	assert.Equal(t, "2026-09-01", diff.Inserts[0].Date)
}

func TestExpandRecurringDisplacesOverlappingBooking(t *testing.T) {
	e := NewEngine(30, 30)
	alice := testPerson("alice", "R1")
	bob := testPerson("bob", "R1", "R2")
	snap := Snapshot{
		People: []models.Person{alice, bob},
		Bookings: []models.Booking{
			// Bob sits in R1 during the slot Alice's template claims.
			testBooking("bob-slot", "bob", "2026-09-01", "10:00", "11:00", "R1", false),
		},
	}

	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday)
	diff, err := e.ExpandRecurring(alice, tmpl, "2026-09-01", "2026-09-01", snap)
	require.NoError(t, err)

	// Alice (0 alternates) is less flexible than Bob (1): she wins R1.
	require.Len(t, diff.Deletes, 1)
	assert.Equal(t, "bob-slot", diff.Deletes[0].ID)
	require.Len(t, diff.Inserts, 2)

	byPerson := map[string]models.Booking{}
	for _, b := range diff.Inserts {
		require.NotNil(t, b.PersonID)
		byPerson[*b.PersonID] = b
	}
	assert.Equal(t, "R1", byPerson["alice"].RoomID)
	assert.Equal(t, "R2", byPerson["bob"].RoomID)
	// Bob keeps his original times; only his room moves.
	assert.Equal(t, "10:00", byPerson["bob"].StartTime)
	assert.Equal(t, "11:00", byPerson["bob"].EndTime)
}

func TestExpandRecurringBufferGapKeepsNeighbours(t *testing.T) {
	e := NewEngine(30, 30)
	alice := testPerson("alice", "R1")
	bob := testPerson("bob", "R1")
	snap := Snapshot{
		People: []models.Person{alice, bob},
		Bookings: []models.Booking{
			// Ends exactly one buffer before the template slot: untouched.
			testBooking("bob-early", "bob", "2026-09-01", "08:00", "08:30", "R1", false),
		},
	}

	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday)
	diff, err := e.ExpandRecurring(alice, tmpl, "2026-09-01", "2026-09-01", snap)
	require.NoError(t, err)
	assert.Empty(t, diff.Deletes)
	require.Len(t, diff.Inserts, 1)
	assert.Equal(t, "R1", diff.Inserts[0].RoomID)
}

func TestExpandRecurringOverlapIsRoomAgnostic(t *testing.T) {
	e := NewEngine(30, 30)
	alice := testPerson("alice", "R1")
	bob := testPerson("bob", "R2")
	snap := Snapshot{
		People: []models.Person{alice, bob},
		Bookings: []models.Booking{
			// Bob overlaps in time but sits in a different room. He is still
			// pooled and re-derived; his default keeps him in R2.
			testBooking("bob-slot", "bob", "2026-09-01", "09:00", "10:00", "R2", false),
		},
	}

	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday)
	diff, err := e.ExpandRecurring(alice, tmpl, "2026-09-01", "2026-09-01", snap)
	require.NoError(t, err)
	require.Len(t, diff.Deletes, 1)
	require.Len(t, diff.Inserts, 2)
}

func TestExpandRecurringAdHocEventStaysFixed(t *testing.T) {
	e := NewEngine(30, 30)
	alice := testPerson("alice", "R1", "R2")
	title := "Rendez-vous"
	event := models.Booking{
		ID:        "evt",
		Title:     &title,
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "10:00",
		RoomID:    "R1",
		Fixed:     true,
	}
	snap := Snapshot{People: []models.Person{alice}, Bookings: []models.Booking{event}}

	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday)
	diff, err := e.ExpandRecurring(alice, tmpl, "2026-09-01", "2026-09-01", snap)
	require.NoError(t, err)

	// The event has no resolvable owner: it blocks R1 instead of moving.
	assert.Empty(t, diff.Deletes)
	require.Len(t, diff.Inserts, 1)
	assert.Equal(t, "R2", diff.Inserts[0].RoomID)
}

func TestExpandRecurringExhaustionWritesSentinel(t *testing.T) {
	e := NewEngine(30, 30)
	alice := testPerson("alice", "R1")
	bob := testPerson("bob", "R1")
	snap := Snapshot{
		People: []models.Person{alice, bob},
		Bookings: []models.Booking{
			testBooking("bob-slot", "bob", "2026-09-01", "09:30", "10:30", "R1", false),
		},
	}

	tmpl := weekdaysTemplate("09:00", "12:00", time.Tuesday)
	diff, err := e.ExpandRecurring(alice, tmpl, "2026-09-01", "2026-09-01", snap)
	require.NoError(t, err)

	require.Len(t, diff.Inserts, 2)
	// Both candidates want R1; ties keep pool order, so the new request
	// (pooled first) wins and Bob lands on the sentinel.
	byPerson := map[string]models.Booking{}
	for _, b := range diff.Inserts {
		byPerson[*b.PersonID] = b
	}
	assert.Equal(t, "R1", byPerson["alice"].RoomID)
	assert.Equal(t, models.ConflictRoomID, byPerson["bob"].RoomID)
}
