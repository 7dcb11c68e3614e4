package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/dto"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
	"github.com/ateliersante/room-planner-api/pkg/export"
)

// maxAvailabilityDays caps the availability report range.
const maxAvailabilityDays = 31

type reportBookingRepository interface {
	ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error)
}

type reportPersonReader interface {
	List(ctx context.Context) ([]models.Person, error)
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

// ReportService builds availability reports, slot searches and printable
// weekly grids.
type ReportService struct {
	bookings  reportBookingRepository
	people    reportPersonReader
	rooms     *models.RoomRegistry
	engine    *scheduling.Engine
	cache     *CacheService
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	dayStart  int // first bookable hour
	dayEnd    int // first hour past the bookable day
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(bookings reportBookingRepository, people reportPersonReader, rooms *models.RoomRegistry, engine *scheduling.Engine, cache *CacheService, dayStart, dayEnd int, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dayEnd <= dayStart {
		dayStart, dayEnd = 8, 20
	}
	return &ReportService{
		bookings:  bookings,
		people:    people,
		rooms:     rooms,
		engine:    engine,
		cache:     cache,
		pdf:       export.NewPDFExporter(),
		csv:       export.NewCSVExporter(),
		dayStart:  dayStart,
		dayEnd:    dayEnd,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Availability lists, per day and per room, the whole hours still bookable.
// The buffer applies with no same-person exemption: a free hour here is free
// for anybody. Results are cached until the next sweep or TTL expiry.
func (s *ReportService) Availability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}
	if req.To == "" {
		req.To = req.From
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}
	if int(to.Sub(from).Hours()/24) > maxAvailabilityDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("range must not exceed %d days", maxAvailabilityDays))
	}

	cacheKey := "reports:availability:" + req.From + ":" + req.To
	var cached dto.AvailabilityResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	bookings, err := s.bookings.ListByDateRange(ctx, req.From, req.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings")
	}

	resp := &dto.AvailabilityResponse{From: req.From, To: req.To}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		day := dto.DayAvailability{Date: date}
		for _, room := range s.rooms.All() {
			availability := dto.RoomAvailability{RoomID: room.ID, RoomName: room.Name, FreeHours: []string{}}
			for h := s.dayStart; h < s.dayEnd; h++ {
				if len(s.engine.RoomConflicts(bookings, date, h*60, (h+1)*60, room.ID, "", "")) == 0 {
					availability.FreeHours = append(availability.FreeHours, scheduling.FormatMinutes(h*60))
				}
			}
			day.Rooms = append(day.Rooms, availability)
		}
		resp.Days = append(resp.Days, day)
	}

	_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

// SearchSlots walks the half-hour grid and returns every start where one of
// the person's candidate rooms is free for the full duration.
func (s *ReportService) SearchSlots(ctx context.Context, req dto.SlotSearchRequest) (*dto.SlotSearchResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot search query")
	}

	person, err := s.people.FindByID(ctx, req.PersonID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
	}

	bookings, err := s.bookings.ListByDateRange(ctx, req.Date, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings")
	}
	snap := scheduling.Snapshot{Bookings: bookings}

	resp := &dto.SlotSearchResponse{PersonID: req.PersonID, Date: req.Date, Duration: req.Duration, Slots: []dto.SlotOption{}}
	lastStart := s.dayEnd*60 + 30 - req.Duration
	for start := s.dayStart * 60; start <= lastStart; start += 30 {
		end := start + req.Duration
		roomID := s.engine.SuggestRoom(snap, *person, req.Date, start, end, "")
		if roomID == models.ConflictRoomID {
			continue
		}
		resp.Slots = append(resp.Slots, dto.SlotOption{
			StartTime: scheduling.FormatMinutes(start),
			EndTime:   scheduling.FormatMinutes(end),
			RoomID:    roomID,
		})
	}
	return resp, nil
}

// WeeklyGridPDF renders the printable planning week.
func (s *ReportService) WeeklyGridPDF(ctx context.Context, req dto.WeeklyGridRequest) ([]byte, error) {
	grid, err := s.buildWeeklyGrid(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.RenderWeeklyGrid(*grid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render weekly grid pdf")
	}
	return payload, nil
}

// WeeklyGridCSV renders the same week as a spreadsheet.
func (s *ReportService) WeeklyGridCSV(ctx context.Context, req dto.WeeklyGridRequest) ([]byte, error) {
	grid, err := s.buildWeeklyGrid(ctx, req)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: append([]string{"Hour"}, grid.Days...)}
	for i, hour := range grid.Hours {
		row := map[string]string{"Hour": hour}
		for j, day := range grid.Days {
			row[day] = grid.Cells[i][j]
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render weekly grid csv")
	}
	return payload, nil
}

func (s *ReportService) buildWeeklyGrid(ctx context.Context, req dto.WeeklyGridRequest) (*export.WeeklyGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekly grid query")
	}
	if req.RoomID != "" && !s.rooms.Has(req.RoomID) {
		return nil, appErrors.Clone(appErrors.ErrUnknownRoom, fmt.Sprintf("room %q is not configured", req.RoomID))
	}
	var target *models.Person
	if req.PersonID != "" {
		person, err := s.people.FindByID(ctx, req.PersonID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load person")
		}
		target = person
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	monday := start.AddDate(0, 0, -((int(start.Weekday()) + 6) % 7))
	sunday := monday.AddDate(0, 0, 6)

	bookings, err := s.bookings.ListByDateRange(ctx, monday.Format("2006-01-02"), sunday.Format("2006-01-02"))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings")
	}
	people, err := s.people.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read people")
	}
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}

	byDate := make(map[string][]models.Booking)
	for _, b := range bookings {
		if b.InConflict() {
			continue
		}
		if req.RoomID != "" && b.RoomID != req.RoomID {
			continue
		}
		if target != nil && (b.PersonID == nil || *b.PersonID != target.ID) {
			continue
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	grid := &export.WeeklyGrid{
		Title:    "Weekly Planning",
		Subtitle: fmt.Sprintf("%s to %s", monday.Format("Jan 2"), sunday.Format("Jan 2, 2006")),
	}
	if req.RoomID != "" {
		if room, ok := s.rooms.Get(req.RoomID); ok {
			grid.Subtitle = room.Name + " / " + grid.Subtitle
		}
	}
	if target != nil {
		grid.Subtitle = target.Name + " / " + grid.Subtitle
	}

	for i := 0; i < 7; i++ {
		grid.Days = append(grid.Days, monday.AddDate(0, 0, i).Format("Mon 02"))
	}
	for h := s.dayStart; h < s.dayEnd; h++ {
		grid.Hours = append(grid.Hours, scheduling.FormatMinutes(h*60))
	}

	focus := gridFocusNone
	if req.RoomID != "" {
		focus = gridFocusRoom
	}
	if target != nil {
		focus = gridFocusPerson
	}
	for h := s.dayStart; h < s.dayEnd; h++ {
		row := make([]string, 7)
		for i := 0; i < 7; i++ {
			date := monday.AddDate(0, 0, i).Format("2006-01-02")
			row[i] = s.describeHour(byDate[date], names, h, focus)
		}
		grid.Cells = append(grid.Cells, row)
	}
	return grid, nil
}

type gridFocus int

const (
	gridFocusNone gridFocus = iota
	gridFocusRoom
	gridFocusPerson
)

// describeHour summarizes the bookings touching one hour cell. A room focus
// lists occupant names only, a person focus lists room names only.
func (s *ReportService) describeHour(bookings []models.Booking, names map[string]string, hour int, focus gridFocus) string {
	hourStart := hour * 60
	hourEnd := hourStart + 60

	var entries []string
	for _, b := range bookings {
		start := scheduling.MinutesOrZero(b.StartTime)
		end := scheduling.MinutesOrZero(b.EndTime)
		if start >= hourEnd || end <= hourStart {
			continue
		}
		label := "event"
		if b.Title != nil {
			label = *b.Title
		}
		if b.PersonID != nil {
			if name, ok := names[*b.PersonID]; ok {
				label = name
			}
		}
		switch focus {
		case gridFocusPerson:
			label = b.RoomID
			if room, ok := s.rooms.Get(b.RoomID); ok {
				label = room.Name
			}
		case gridFocusNone:
			label = label + " " + b.RoomID
		}
		entries = append(entries, label)
	}
	sort.Strings(entries)
	return strings.Join(entries, ", ")
}
