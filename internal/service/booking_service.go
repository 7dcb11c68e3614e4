package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
)

type bookingRepository interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
}

type bookingPersonReader interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

// BookingService orchestrates booking operations and room suggestions.
type BookingService struct {
	bookings  bookingRepository
	people    bookingPersonReader
	rooms     *models.RoomRegistry
	engine    *scheduling.Engine
	sweeper   sweepScheduler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings bookingRepository, people bookingPersonReader, rooms *models.RoomRegistry, engine *scheduling.Engine, sweeper sweepScheduler, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{bookings: bookings, people: people, rooms: rooms, engine: engine, sweeper: sweeper, validator: validate, logger: logger}
}

// List returns bookings matching the filter.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// Get returns a booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

// Create stores a new booking. With an empty roomId the planner walks the
// person's candidate rooms; the returned suggestion reports which one it
// took. An explicit roomId is rejected when another booking blocks it.
func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, *dto.RoomSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	start := scheduling.MinutesOrZero(req.StartTime)
	end := scheduling.MinutesOrZero(req.EndTime)
	if end <= start {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}

	var person *models.Person
	if req.PersonID != "" {
		var err error
		person, err = s.people.FindByID(ctx, req.PersonID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
		}
	}

	dayBookings, err := s.bookings.ListByDateRange(ctx, req.Date, req.Date)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings")
	}
	snap := scheduling.Snapshot{Bookings: dayBookings}

	booking := &models.Booking{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Fixed:     req.Fixed,
	}
	if person != nil {
		booking.PersonID = &person.ID
	}
	if req.Title != "" {
		title := req.Title
		booking.Title = &title
	}

	var suggestion *dto.RoomSuggestion
	if req.RoomID == "" {
		if person == nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "roomId is required for ad-hoc events")
		}
		roomID := s.engine.SuggestRoom(snap, *person, req.Date, start, end, "")
		booking.RoomID = roomID
		suggestion = s.describeSuggestion(*person, roomID)
	} else {
		if !s.rooms.Has(req.RoomID) {
			return nil, nil, appErrors.Clone(appErrors.ErrUnknownRoom, fmt.Sprintf("room %q is not configured", req.RoomID))
		}
		personID := ""
		if person != nil {
			personID = person.ID
		}
		conflicts := s.engine.RoomConflicts(dayBookings, req.Date, start, end, req.RoomID, personID, "")
		if len(conflicts) > 0 {
			collision := s.describeCollision(ctx, conflicts[0])
			return nil, nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("room occupied by %s from %s to %s", collision.Name, collision.StartTime, collision.EndTime))
		}
		booking.RoomID = req.RoomID
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	s.enqueueSweep("create", booking.ID)
	return booking, suggestion, nil
}

// Update reschedules a booking in place. When the requested slot is blocked
// the returned collision names the occupant.
func (s *BookingService) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (*models.Booking, *dto.BookingCollision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	start := scheduling.MinutesOrZero(req.StartTime)
	end := scheduling.MinutesOrZero(req.EndTime)
	if end <= start {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	if !s.rooms.Has(req.RoomID) {
		return nil, nil, appErrors.Clone(appErrors.ErrUnknownRoom, fmt.Sprintf("room %q is not configured", req.RoomID))
	}

	dayBookings, err := s.bookings.ListByDateRange(ctx, req.Date, req.Date)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings")
	}

	conflicts := s.engine.RoomConflicts(dayBookings, req.Date, start, end, req.RoomID, booking.Owner(), id)
	if len(conflicts) > 0 {
		collision := s.describeCollision(ctx, conflicts[0])
		return nil, collision, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("room occupied by %s from %s to %s", collision.Name, collision.StartTime, collision.EndTime))
	}

	booking.Date = req.Date
	booking.StartTime = req.StartTime
	booking.EndTime = req.EndTime
	booking.RoomID = req.RoomID

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking")
	}
	s.enqueueSweep("update", id)
	return booking, nil, nil
}

// Delete removes a booking and resweeps since freed slots may resolve other
// conflicts.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete booking")
	}
	s.enqueueSweep("delete", id)
	return nil
}

func (s *BookingService) enqueueSweep(op, bookingID string) {
	if s.sweeper == nil {
		return
	}
	if err := s.sweeper.EnqueueSweep(nil); err != nil {
		s.logger.Warn("failed to enqueue sweep after booking change",
			zap.String("op", op),
			zap.String("booking_id", bookingID),
			zap.Error(err))
	}
}

func (s *BookingService) describeSuggestion(person models.Person, roomID string) *dto.RoomSuggestion {
	switch roomID {
	case models.ConflictRoomID:
		return &dto.RoomSuggestion{Status: "error", Message: "no preferred room is free for this slot"}
	case person.DefaultRoom:
		return &dto.RoomSuggestion{Status: "ok", Message: "default room is free", RoomID: roomID}
	default:
		return &dto.RoomSuggestion{Status: "warning", Message: "default room is busy, using an alternate", RoomID: roomID}
	}
}

func (s *BookingService) describeCollision(ctx context.Context, blocker models.Booking) *dto.BookingCollision {
	name := "an event"
	if blocker.Title != nil {
		name = *blocker.Title
	}
	if blocker.PersonID != nil {
		if person, err := s.people.FindByID(ctx, *blocker.PersonID); err == nil {
			name = person.Name
		}
	}
	roomName := blocker.RoomID
	if room, ok := s.rooms.Get(blocker.RoomID); ok {
		roomName = room.Name
	}
	return &dto.BookingCollision{
		Name:      name,
		StartTime: blocker.StartTime,
		EndTime:   blocker.EndTime,
		RoomName:  roomName,
	}
}
