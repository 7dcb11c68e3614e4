package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	"github.com/ateliersante/room-planner-api/internal/service"
	"github.com/ateliersante/room-planner-api/pkg/response"
)

type memBookingRepo struct {
	items map[string]*models.Booking
}

func (s *memBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memBookingRepo) ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.items {
		if b.Date >= from && b.Date <= to {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (s *memBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = "b-new"
	}
	if s.items == nil {
		s.items = map[string]*models.Booking{}
	}
	cp := *booking
	s.items[booking.ID] = &cp
	return nil
}

func (s *memBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	cp := *booking
	s.items[booking.ID] = &cp
	return nil
}

func (s *memBookingRepo) Delete(ctx context.Context, id string) error {
	delete(s.items, id)
	return nil
}

type memPersonRepo struct {
	items map[string]*models.Person
}

func (s *memPersonRepo) FindByID(ctx context.Context, id string) (*models.Person, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

type noopSweeper struct{}

func (noopSweeper) EnqueueSweep(updated *models.Person) error { return nil }

func newTestBookingHandler(bookings *memBookingRepo, people *memPersonRepo) *BookingHandler {
	registry := models.NewRoomRegistry([]models.Room{
		{ID: "R1", Name: "Bureau 4"},
		{ID: "R2", Name: "Bureau 3"},
	})
	engine := scheduling.NewEngine(30, 30)
	svc := service.NewBookingService(bookings, people, registry, engine, noopSweeper{}, validator.New(), zap.NewNop())
	return NewBookingHandler(svc)
}

func postJSON(t *testing.T, h gin.HandlerFunc, path string, payload interface{}, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	h(c)
	return w
}

func TestBookingHandlerCreateReturnsSuggestionMeta(t *testing.T) {
	people := &memPersonRepo{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
	}}
	handler := newTestBookingHandler(&memBookingRepo{}, people)

	w := postJSON(t, handler.Create, "/bookings", dto.CreateBookingRequest{
		PersonID: "alice", Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	suggestion, ok := envelope.Meta["suggestion"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", suggestion["status"])
	assert.Equal(t, "R1", suggestion["roomId"])
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	handler := newTestBookingHandler(&memBookingRepo{}, &memPersonRepo{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerUpdateConflictCarriesCollision(t *testing.T) {
	alice, bob := "alice", "bob"
	people := &memPersonRepo{items: map[string]*models.Person{
		"alice": {ID: "alice", Name: "Alice", DefaultRoom: "R1"},
		"bob":   {ID: "bob", Name: "Bob", DefaultRoom: "R2"},
	}}
	bookings := &memBookingRepo{items: map[string]*models.Booking{
		"a1": {ID: "a1", PersonID: &alice, Date: "2026-09-01", StartTime: "14:00", EndTime: "15:00", RoomID: "R1"},
		"b1": {ID: "b1", PersonID: &bob, Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00", RoomID: "R2"},
	}}
	handler := newTestBookingHandler(bookings, people)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpdateBookingRequest{Date: "2026-09-01", StartTime: "09:30", EndTime: "10:30", RoomID: "R2"})
	req, _ := http.NewRequest(http.MethodPut, "/bookings/a1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "a1"}}

	handler.Update(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	collision, ok := envelope.Meta["collision"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Bob", collision["name"])
}
