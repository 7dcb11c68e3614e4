package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
)

type recurringBookingRepository interface {
	ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error)
	ApplyDiff(ctx context.Context, diff models.Diff) error
}

type recurringPersonReader interface {
	List(ctx context.Context) ([]models.Person, error)
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// commitGate serializes expansion commits against sweep runs: holding the
// gate covers the snapshot read, the diff computation and the batch write.
type commitGate interface {
	sweepScheduler
	RunExclusive(fn func() error) error
}

// RecurringService expands weekly templates into concrete bookings.
type RecurringService struct {
	bookings  recurringBookingRepository
	people    recurringPersonReader
	engine    *scheduling.Engine
	sweeper   commitGate
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecurringService constructs a RecurringService.
func NewRecurringService(bookings recurringBookingRepository, people recurringPersonReader, engine *scheduling.Engine, sweeper commitGate, validate *validator.Validate, logger *zap.Logger) *RecurringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecurringService{bookings: bookings, people: people, engine: engine, sweeper: sweeper, validator: validate, logger: logger}
}

// Preview computes the expansion diff without touching storage.
func (s *RecurringService) Preview(ctx context.Context, personID string, req dto.RecurringScheduleRequest) (*dto.RecurringPreviewResponse, error) {
	diff, err := s.expand(ctx, personID, req)
	if err != nil {
		return nil, err
	}
	return &dto.RecurringPreviewResponse{
		DeleteCount:   len(diff.Deletes),
		InsertCount:   len(diff.Inserts),
		ConflictCount: countConflicts(diff.Inserts),
		Inserts:       dto.FromBookings(diff.Inserts),
		Deletes:       dto.FromBookings(diff.Deletes),
	}, nil
}

// Commit applies the expansion diff atomically, then resweeps the horizon.
// The expansion and its write run under the sweep gate so no sweep can
// interleave between the snapshot read and the batch commit.
func (s *RecurringService) Commit(ctx context.Context, personID string, req dto.RecurringScheduleRequest) (*dto.RecurringCommitResponse, error) {
	var diff models.Diff
	apply := func() error {
		d, err := s.expand(ctx, personID, req)
		if err != nil {
			return err
		}
		if err := s.bookings.ApplyDiff(ctx, d); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply recurring schedule")
		}
		diff = d
		return nil
	}

	var err error
	if s.sweeper != nil {
		err = s.sweeper.RunExclusive(apply)
	} else {
		err = apply()
	}
	if err != nil {
		return nil, err
	}

	if s.sweeper != nil {
		if err := s.sweeper.EnqueueSweep(nil); err != nil {
			s.logger.Warn("failed to enqueue sweep after recurring commit", zap.String("person_id", personID), zap.Error(err))
		}
	}

	s.logger.Info("recurring schedule committed",
		zap.String("person_id", personID),
		zap.Int("deleted", len(diff.Deletes)),
		zap.Int("inserted", len(diff.Inserts)))
	return &dto.RecurringCommitResponse{
		Deleted:       len(diff.Deletes),
		Inserted:      len(diff.Inserts),
		ConflictCount: countConflicts(diff.Inserts),
	}, nil
}

func (s *RecurringService) expand(ctx context.Context, personID string, req dto.RecurringScheduleRequest) (models.Diff, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Diff{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recurring schedule payload")
	}

	tmpl, err := parseWeekTemplate(req.Week)
	if err != nil {
		return models.Diff{}, err
	}

	person, err := s.people.FindByID(ctx, personID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Diff{}, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return models.Diff{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}

	bookings, err := s.bookings.ListByDateRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return models.Diff{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings")
	}
	people, err := s.people.List(ctx)
	if err != nil {
		return models.Diff{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read people")
	}

	snap := scheduling.Snapshot{Bookings: bookings, People: people}
	diff, err := s.engine.ExpandRecurring(*person, tmpl, req.StartDate, req.EndDate, snap)
	if err != nil {
		return models.Diff{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recurring schedule range")
	}
	return diff, nil
}

func parseWeekTemplate(week map[string]dto.DayWindowRequest) (scheduling.WeekTemplate, error) {
	tmpl := make(scheduling.WeekTemplate, len(week))
	for name, window := range week {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", name))
		}
		if window.Active && scheduling.MinutesOrZero(window.End) <= scheduling.MinutesOrZero(window.Start) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window for %s must end after it starts", name))
		}
		tmpl[day] = scheduling.DayWindow{Active: window.Active, Start: window.Start, End: window.End}
	}
	return tmpl, nil
}

func countConflicts(bookings []models.Booking) int {
	count := 0
	for _, b := range bookings {
		if b.InConflict() {
			count++
		}
	}
	return count
}
