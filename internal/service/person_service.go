package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
)

type personRepository interface {
	List(ctx context.Context) ([]models.Person, error)
	FindByID(ctx context.Context, id string) (*models.Person, error)
	ExistsByAppearance(ctx context.Context, color, pattern, excludeID string) (bool, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id string) error
}

// sweepScheduler triggers a background reoptimization pass.
type sweepScheduler interface {
	EnqueueSweep(updated *models.Person) error
}

// PersonService orchestrates person and room-preference operations.
type PersonService struct {
	repo      personRepository
	rooms     *models.RoomRegistry
	sweeper   sweepScheduler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService constructs a PersonService.
func NewPersonService(repo personRepository, rooms *models.RoomRegistry, sweeper sweepScheduler, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{repo: repo, rooms: rooms, sweeper: sweeper, validator: validate, logger: logger}
}

// List returns every person.
func (s *PersonService) List(ctx context.Context) ([]models.Person, error) {
	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list people")
	}
	return people, nil
}

// Get returns a person by id.
func (s *PersonService) Get(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}
	return person, nil
}

// Create registers a new person.
func (s *PersonService) Create(ctx context.Context, req dto.PersonPayload) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}
	if err := s.validatePreferences(req.DefaultRoom, req.AltRooms); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueAppearance(ctx, req.Color, req.Pattern, ""); err != nil {
		return nil, err
	}

	person := &models.Person{
		Name:        strings.TrimSpace(req.Name),
		DefaultRoom: req.DefaultRoom,
		AltRooms:    pq.StringArray(req.AltRooms),
		Color:       req.Color,
		Pattern:     req.Pattern,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create person")
	}
	return person, nil
}

// Update modifies an existing person. Changing room preferences triggers a
// sweep so existing bookings follow the new priorities.
func (s *PersonService) Update(ctx context.Context, id string, req dto.PersonPayload) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}

	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validatePreferences(req.DefaultRoom, req.AltRooms); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueAppearance(ctx, req.Color, req.Pattern, id); err != nil {
		return nil, err
	}

	preferencesChanged := person.DefaultRoom != req.DefaultRoom || !equalRooms(person.AltRooms, req.AltRooms)

	person.Name = strings.TrimSpace(req.Name)
	person.DefaultRoom = req.DefaultRoom
	person.AltRooms = pq.StringArray(req.AltRooms)
	person.Color = req.Color
	person.Pattern = req.Pattern

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update person")
	}

	if preferencesChanged && s.sweeper != nil {
		if err := s.sweeper.EnqueueSweep(person); err != nil {
			s.logger.Warn("failed to enqueue sweep after preference change", zap.String("person_id", id), zap.Error(err))
		}
	}
	return person, nil
}

// Delete removes a person and their bookings, then resweeps the horizon since
// the freed slots may resolve other people's conflicts.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}
	if s.sweeper != nil {
		if err := s.sweeper.EnqueueSweep(nil); err != nil {
			s.logger.Warn("failed to enqueue sweep after person delete", zap.String("person_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *PersonService) validatePreferences(defaultRoom string, altRooms []string) error {
	if !s.rooms.Has(defaultRoom) {
		return appErrors.Clone(appErrors.ErrUnknownRoom, fmt.Sprintf("default room %q is not configured", defaultRoom))
	}
	if len(altRooms) > models.MaxAltRooms {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d alternate rooms are allowed", models.MaxAltRooms))
	}
	for _, roomID := range altRooms {
		if !s.rooms.Has(roomID) {
			return appErrors.Clone(appErrors.ErrUnknownRoom, fmt.Sprintf("alternate room %q is not configured", roomID))
		}
		if roomID == defaultRoom {
			return appErrors.Clone(appErrors.ErrValidation, "alternate rooms must differ from the default room")
		}
	}
	return nil
}

func (s *PersonService) ensureUniqueAppearance(ctx context.Context, color, pattern, excludeID string) error {
	exists, err := s.repo.ExistsByAppearance(ctx, color, pattern, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check appearance uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrTakenCombination, "")
	}
	return nil
}

func equalRooms(a pq.StringArray, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
