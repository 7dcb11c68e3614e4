package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
)

type sweepRepoStub struct {
	bookings []models.Booking
	applied  [][]models.RoomChange
}

func (s *sweepRepoStub) ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *sweepRepoStub) UpdateRooms(ctx context.Context, changes []models.RoomChange) error {
	s.applied = append(s.applied, changes)
	for _, c := range changes {
		for i := range s.bookings {
			if s.bookings[i].ID == c.BookingID {
				s.bookings[i].RoomID = c.RoomID
			}
		}
	}
	return nil
}

type sweepPeopleStub struct {
	people []models.Person
}

func (s *sweepPeopleStub) List(ctx context.Context) ([]models.Person, error) {
	return s.people, nil
}

func newReoptService(bookings *sweepRepoStub, people *sweepPeopleStub) *ReoptimizeService {
	engine := scheduling.NewEngine(30, 30)
	svc := NewReoptimizeService(bookings, people, engine, nil, nil, 0, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestRunSweepMovesBookingToPreferredRoom(t *testing.T) {
	alice := "alice"
	bookings := &sweepRepoStub{bookings: []models.Booking{
		{ID: "a1", PersonID: &alice, Date: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoomID: "R3"},
	}}
	people := &sweepPeopleStub{people: []models.Person{
		{ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newReoptService(bookings, people)

	changes, err := svc.RunSweep(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.RoomChange{BookingID: "a1", RoomID: "R1"}, changes[0])
	require.Len(t, bookings.applied, 1)
}

func TestRunSweepIsIdempotent(t *testing.T) {
	alice := "alice"
	bookings := &sweepRepoStub{bookings: []models.Booking{
		{ID: "a1", PersonID: &alice, Date: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoomID: "R3"},
	}}
	people := &sweepPeopleStub{people: []models.Person{
		{ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newReoptService(bookings, people)

	first, err := svc.RunSweep(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.RunSweep(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, second)
	// No write happens when nothing changed.
	assert.Len(t, bookings.applied, 1)
}

func TestRunSweepIgnoresBookingsOutsideHorizon(t *testing.T) {
	alice := "alice"
	bookings := &sweepRepoStub{bookings: []models.Booking{
		{ID: "past", PersonID: &alice, Date: "2026-08-31", StartTime: "09:00", EndTime: "10:00", RoomID: "R3"},
		{ID: "far", PersonID: &alice, Date: "2026-10-15", StartTime: "09:00", EndTime: "10:00", RoomID: "R3"},
	}}
	people := &sweepPeopleStub{people: []models.Person{
		{ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newReoptService(bookings, people)

	changes, err := svc.RunSweep(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRunSweepAppliesUpdatedPersonOverride(t *testing.T) {
	alice := "alice"
	bookings := &sweepRepoStub{bookings: []models.Booking{
		{ID: "a1", PersonID: &alice, Date: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoomID: "R1"},
	}}
	people := &sweepPeopleStub{people: []models.Person{
		{ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newReoptService(bookings, people)

	// The stored row still says R1; the override moves alice to R2.
	updated := &models.Person{ID: "alice", Name: "Alice", DefaultRoom: "R2"}
	changes, err := svc.RunSweep(context.Background(), updated)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "R2", changes[0].RoomID)
}

func TestRunSweepWaitsForExclusiveCommit(t *testing.T) {
	svc := newReoptService(&sweepRepoStub{}, &sweepPeopleStub{})

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = svc.RunExclusive(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	swept := make(chan struct{})
	go func() {
		_, _ = svc.RunSweep(context.Background(), nil)
		close(swept)
	}()

	select {
	case <-swept:
		t.Fatal("sweep ran while a commit held the gate")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran after the commit released the gate")
	}
}

func TestEnqueueSweepRequiresStart(t *testing.T) {
	svc := newReoptService(&sweepRepoStub{}, &sweepPeopleStub{})
	require.Error(t, svc.EnqueueSweep(nil))
}

func TestStartStopLifecycle(t *testing.T) {
	svc := newReoptService(&sweepRepoStub{}, &sweepPeopleStub{})
	svc.Start(context.Background())
	require.NoError(t, svc.EnqueueSweep(nil))
	svc.Stop()
}
