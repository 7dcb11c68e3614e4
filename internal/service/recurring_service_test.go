package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
)

func (s *bookingRepoStub) ApplyDiff(ctx context.Context, diff models.Diff) error {
	if s.items == nil {
		s.items = map[string]*models.Booking{}
	}
	for _, del := range diff.Deletes {
		delete(s.items, del.ID)
	}
	for i := range diff.Inserts {
		b := diff.Inserts[i]
		if b.ID == "" {
			b.ID = "gen-" + b.Date
		}
		cp := b
		s.items[b.ID] = &cp
	}
	return nil
}

func newRecurringService(bookings *bookingRepoStub, people *personRepoStub, sweeper *sweeperStub) *RecurringService {
	engine := scheduling.NewEngine(30, 30)
	return NewRecurringService(bookings, people, engine, sweeper, validator.New(), zap.NewNop())
}

// 2026-09-01 is a Tuesday.
func tueThuTemplate() dto.RecurringScheduleRequest {
	return dto.RecurringScheduleRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
		Week: map[string]dto.DayWindowRequest{
			"tuesday":  {Active: true, Start: "09:00", End: "12:00"},
			"thursday": {Active: true, Start: "14:00", End: "16:00"},
		},
	}
}

func TestRecurringServicePreviewCountsWithoutWriting(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	bookings := &bookingRepoStub{}
	svc := newRecurringService(bookings, people, &sweeperStub{})

	preview, err := svc.Preview(context.Background(), "alice", tueThuTemplate())
	require.NoError(t, err)
	assert.Equal(t, 0, preview.DeleteCount)
	assert.Equal(t, 2, preview.InsertCount)
	assert.Equal(t, 0, preview.ConflictCount)
	assert.Empty(t, bookings.items)

	dates := []string{preview.Inserts[0].Date, preview.Inserts[1].Date}
	assert.ElementsMatch(t, []string{"2026-09-01", "2026-09-03"}, dates)
}

func TestRecurringServicePreviewClearsStaleBookingsInRange(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	// Wednesday booking falls outside the new template and must go.
	wednesday := bookingOwnedBy("old-wed", "alice", "2026-09-02", "10:00", "11:00", "R1")
	bookings := &bookingRepoStub{items: map[string]*models.Booking{"old-wed": wednesday}}
	svc := newRecurringService(bookings, people, &sweeperStub{})

	preview, err := svc.Preview(context.Background(), "alice", tueThuTemplate())
	require.NoError(t, err)
	assert.Equal(t, 1, preview.DeleteCount)
	assert.Equal(t, "old-wed", preview.Deletes[0].ID)
	assert.Equal(t, 2, preview.InsertCount)
}

func TestRecurringServiceCommitAppliesAndSweeps(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	bookings := &bookingRepoStub{}
	sweeper := &sweeperStub{}
	svc := newRecurringService(bookings, people, sweeper)

	result, err := svc.Commit(context.Background(), "alice", tueThuTemplate())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Deleted)
	assert.Len(t, bookings.items, 2)
	assert.Equal(t, 1, sweeper.calls)
}

func TestRecurringServiceCommitRunsUnderSweepGate(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	bookings := &bookingRepoStub{}
	sweeper := &sweeperStub{}
	svc := newRecurringService(bookings, people, sweeper)

	_, err := svc.Preview(context.Background(), "alice", tueThuTemplate())
	require.NoError(t, err)
	assert.Equal(t, 0, sweeper.exclusive, "preview writes nothing and must not take the gate")

	_, err = svc.Commit(context.Background(), "alice", tueThuTemplate())
	require.NoError(t, err)
	assert.Equal(t, 1, sweeper.exclusive, "commit reads and writes while holding the gate")
}

func TestRecurringServiceRejectsUnknownWeekday(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newRecurringService(&bookingRepoStub{}, people, &sweeperStub{})

	req := tueThuTemplate()
	req.Week["funday"] = dto.DayWindowRequest{Active: true, Start: "09:00", End: "10:00"}
	_, err := svc.Preview(context.Background(), "alice", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecurringServiceRejectsInvertedWindow(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newRecurringService(&bookingRepoStub{}, people, &sweeperStub{})

	req := tueThuTemplate()
	req.Week["tuesday"] = dto.DayWindowRequest{Active: true, Start: "12:00", End: "09:00"}
	_, err := svc.Preview(context.Background(), "alice", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecurringServiceRejectsInvertedRange(t *testing.T) {
	people := &personRepoStub{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	svc := newRecurringService(&bookingRepoStub{}, people, &sweeperStub{})

	req := tueThuTemplate()
	req.StartDate = "2026-09-07"
	req.EndDate = "2026-09-01"
	_, err := svc.Preview(context.Background(), "alice", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecurringServicePersonNotFound(t *testing.T) {
	svc := newRecurringService(&bookingRepoStub{}, &personRepoStub{}, &sweeperStub{})

	_, err := svc.Preview(context.Background(), "ghost", tueThuTemplate())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
