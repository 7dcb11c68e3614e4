package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersante/room-planner-api/internal/models"
)

func newBookingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func bookingRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	personID := "p1"
	return sqlmock.NewRows([]string{"id", "person_id", "title", "date", "start_time", "end_time", "room_id", "fixed", "created_at", "updated_at"}).
		AddRow("b1", personID, nil, "2026-09-01", "09:00", "10:00", "R1", false, time.Now(), time.Now())
}

func TestBookingRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, person_id, title, date, start_time, end_time, room_id, fixed, created_at, updated_at FROM bookings WHERE 1=1 AND date >= $1 AND date <= $2 AND person_id = $3 ORDER BY date ASC, start_time ASC")).
		WithArgs("2026-09-01", "2026-09-30", "p1").
		WillReturnRows(bookingRows(t))

	list, err := repo.List(context.Background(), models.BookingFilter{DateFrom: "2026-09-01", DateTo: "2026-09-30", PersonID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListOnlyConflict(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE 1=1 AND room_id = $1 ORDER BY date ASC, start_time ASC")).
		WithArgs(models.ConflictRoomID).
		WillReturnRows(bookingRows(t))

	_, err := repo.List(context.Background(), models.BookingFilter{OnlyConflict: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), "p1", nil, "2026-09-01", "09:00", "10:00", "R1", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	personID := "p1"
	booking := &models.Booking{PersonID: &personID, Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00", RoomID: "R1"}
	require.NoError(t, repo.Create(context.Background(), booking))
	assert.NotEmpty(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryApplyDiff(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	personID := "p1"
	diff := models.Diff{
		Deletes: []models.Booking{{ID: "old-1"}, {ID: "old-2"}},
		Inserts: []models.Booking{{PersonID: &personID, Date: "2026-09-01", StartTime: "09:00", EndTime: "12:00", RoomID: "R1"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs("old-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs("old-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), "p1", nil, "2026-09-01", "09:00", "12:00", "R1", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ApplyDiff(context.Background(), diff))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryApplyDiffEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	require.NoError(t, repo.ApplyDiff(context.Background(), models.Diff{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryApplyDiffRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs("old-1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ApplyDiff(context.Background(), models.Diff{Deletes: []models.Booking{{ID: "old-1"}}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateRooms(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET room_id = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("b1", "R3", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET room_id = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("b2", "R1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changes := []models.RoomChange{{BookingID: "b1", RoomID: "R3"}, {BookingID: "b2", RoomID: "R1"}}
	require.NoError(t, repo.UpdateRooms(context.Background(), changes))
	assert.NoError(t, mock.ExpectationsWereMet())
}
