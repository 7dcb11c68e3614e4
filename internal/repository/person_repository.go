package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ateliersante/room-planner-api/internal/models"
)

// PersonRepository manages persistence for people and their room preferences.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// List returns every person ordered by name.
func (r *PersonRepository) List(ctx context.Context) ([]models.Person, error) {
	const query = `SELECT id, name, default_room, alt_rooms, color, pattern, created_at, updated_at FROM people ORDER BY name ASC`
	var people []models.Person
	if err := r.db.SelectContext(ctx, &people, query); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

// FindByID fetches a person by ID.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	const query = `SELECT id, name, default_room, alt_rooms, color, pattern, created_at, updated_at FROM people WHERE id = $1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// ExistsByAppearance checks if another person already uses the same color and
// pattern combination.
func (r *PersonRepository) ExistsByAppearance(ctx context.Context, color, pattern, excludeID string) (bool, error) {
	query := "SELECT 1 FROM people WHERE LOWER(color) = LOWER($1) AND pattern = $2"
	args := []interface{}{color, pattern}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check person appearance: %w", err)
	}
	return true, nil
}

// Create inserts a new person record.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	person.UpdatedAt = now

	const query = `INSERT INTO people (id, name, default_room, alt_rooms, color, pattern, created_at, updated_at)
		VALUES (:id, :name, :default_room, :alt_rooms, :color, :pattern, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// Update modifies an existing person record.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()
	const query = `UPDATE people SET name = :name, default_room = :default_room, alt_rooms = :alt_rooms, color = :color, pattern = :pattern, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// Delete removes a person together with every booking that references them.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE person_id = $1`, id); err != nil {
		return fmt.Errorf("delete person bookings: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete person: %w", err)
	}
	return nil
}
