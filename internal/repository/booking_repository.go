package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ateliersante/room-planner-api/internal/models"
)

// BookingRepository manages persistence for bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = "id, person_id, title, date, start_time, end_time, room_id, fixed, created_at, updated_at"

// List returns bookings matching the filter, ordered by date and start time.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	base := "FROM bookings WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}
	if filter.PersonID != "" {
		conditions = append(conditions, fmt.Sprintf("person_id = $%d", len(args)+1))
		args = append(args, filter.PersonID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.OnlyConflict {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, models.ConflictRoomID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, start_time ASC", bookingColumns, base)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListByDateRange returns every booking between from and to inclusive.
func (r *BookingRepository) ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE date >= $1 AND date <= $2 ORDER BY date ASC, start_time ASC", bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, from, to); err != nil {
		return nil, fmt.Errorf("list bookings by range: %w", err)
	}
	return bookings, nil
}

// FindByID fetches a booking by ID.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1", bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a new booking record.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	const query = `INSERT INTO bookings (id, person_id, title, date, start_time, end_time, room_id, fixed, created_at, updated_at)
		VALUES (:id, :person_id, :title, :date, :start_time, :end_time, :room_id, :fixed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// Update modifies an existing booking record.
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	const query = `UPDATE bookings SET date = :date, start_time = :start_time, end_time = :end_time, room_id = :room_id, fixed = :fixed, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

// Delete removes a booking record.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// ApplyDiff deletes and inserts bookings in one transaction. Deletes run
// before inserts so a replacement may reuse a vacated slot.
func (r *BookingRepository) ApplyDiff(ctx context.Context, diff models.Diff) error {
	if diff.Empty() {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply diff: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, del := range diff.Deletes {
		if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, del.ID); err != nil {
			return fmt.Errorf("apply diff delete: %w", err)
		}
	}

	const insertQuery = `INSERT INTO bookings (id, person_id, title, date, start_time, end_time, room_id, fixed, created_at, updated_at)
		VALUES (:id, :person_id, :title, :date, :start_time, :end_time, :room_id, :fixed, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range diff.Inserts {
		if diff.Inserts[i].ID == "" {
			diff.Inserts[i].ID = uuid.NewString()
		}
		if diff.Inserts[i].CreatedAt.IsZero() {
			diff.Inserts[i].CreatedAt = now
		}
		diff.Inserts[i].UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, insertQuery, diff.Inserts[i]); err != nil {
			return fmt.Errorf("apply diff insert: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit apply diff: %w", err)
	}
	return nil
}

// UpdateRooms applies a batch of room moves in one transaction.
func (r *BookingRepository) UpdateRooms(ctx context.Context, changes []models.RoomChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update rooms: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, change := range changes {
		if _, err = tx.ExecContext(ctx, `UPDATE bookings SET room_id = $2, updated_at = $3 WHERE id = $1`, change.BookingID, change.RoomID, now); err != nil {
			return fmt.Errorf("update room: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update rooms: %w", err)
	}
	return nil
}
