package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	appErrors "github.com/ateliersante/room-planner-api/pkg/errors"
	"github.com/ateliersante/room-planner-api/pkg/jobs"
)

// reportsCachePattern matches every cached report payload; sweeps invalidate
// the lot because any room move can change availability.
const reportsCachePattern = "reports:*"

type sweepBookingRepository interface {
	ListByDateRange(ctx context.Context, from, to string) ([]models.Booking, error)
	UpdateRooms(ctx context.Context, changes []models.RoomChange) error
}

type sweepPersonRepository interface {
	List(ctx context.Context) ([]models.Person, error)
}

// sweepPayload carries an optional in-flight preference edit so the sweep
// sees it before the row is committed visible to the snapshot read.
type sweepPayload struct {
	Updated *models.Person
}

// ReoptimizeService runs the rolling-horizon sweep. All sweeps funnel through
// a single-worker queue, so at most one runs at a time and bursts collapse
// into a serial sequence.
type ReoptimizeService struct {
	bookings sweepBookingRepository
	people   sweepPersonRepository
	engine   *scheduling.Engine
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	interval time.Duration
	queue    *jobs.Queue
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// commitGate orders sweep runs and expansion commits: each one reads its
	// snapshot and writes its batch while holding the gate, so neither can
	// compute against the other's half-applied state.
	commitGate sync.Mutex
}

// NewReoptimizeService constructs the sweep service and its queue.
func NewReoptimizeService(bookings sweepBookingRepository, people sweepPersonRepository, engine *scheduling.Engine, cache *CacheService, metrics *MetricsService, interval time.Duration, logger *zap.Logger) *ReoptimizeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReoptimizeService{
		bookings: bookings,
		people:   people,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
	s.queue = jobs.NewQueue("reoptimize", s.handleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 16,
		Logger:     logger,
	})
	return s
}

// Start launches the sweep worker and the periodic ticker.
func (s *ReoptimizeService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.queue.Start(runCtx)

	if s.interval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			for {
				select {
				case <-runCtx.Done():
					return
				case <-ticker.C:
					if err := s.EnqueueSweep(nil); err != nil {
						s.logger.Warn("periodic sweep enqueue failed", zap.Error(err))
					}
				}
			}
		}()
	}
}

// Stop halts the ticker and drains the worker.
func (s *ReoptimizeService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.queue.Stop()
}

// EnqueueSweep schedules one sweep. The updated person, when set, overrides
// the stored preferences during the run.
func (s *ReoptimizeService) EnqueueSweep(updated *models.Person) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "sweep",
		Payload: sweepPayload{Updated: updated},
	})
}

func (s *ReoptimizeService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, _ := job.Payload.(sweepPayload)
	_, err := s.RunSweep(ctx, payload.Updated)
	return err
}

// RunExclusive runs fn while no sweep is in flight. Recurring commits go
// through here so their snapshot read and batch write form one unit of work
// relative to sweeps.
func (s *ReoptimizeService) RunExclusive(fn func() error) error {
	s.commitGate.Lock()
	defer s.commitGate.Unlock()
	return fn()
}

// RunSweep reads a fresh snapshot over the horizon, computes the minimal set
// of room moves and commits them in one batch.
func (s *ReoptimizeService) RunSweep(ctx context.Context, updated *models.Person) ([]models.RoomChange, error) {
	s.commitGate.Lock()
	defer s.commitGate.Unlock()

	start := time.Now()
	today := s.now().UTC()
	from := today.Format("2006-01-02")
	to := today.AddDate(0, 0, s.engine.HorizonDays).Format("2006-01-02")

	bookings, err := s.bookings.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bookings for sweep")
	}
	people, err := s.people.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read people for sweep")
	}

	snap := scheduling.Snapshot{Bookings: bookings, People: people}
	changes := s.engine.Sweep(snap, updated, today)

	if len(changes) > 0 {
		if err := s.bookings.UpdateRooms(ctx, changes); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply sweep changes")
		}
	}

	s.metrics.ObserveSweep(len(changes), time.Since(start))
	s.metrics.SetConflictCount(conflictCountAfter(bookings, changes))
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, reportsCachePattern)
	}

	s.logger.Info("sweep completed",
		zap.Int("bookings", len(bookings)),
		zap.Int("changes", len(changes)),
		zap.String("from", from),
		zap.String("to", to),
		zap.Duration("took", time.Since(start)))
	return changes, nil
}

// conflictCountAfter counts sentinel bookings as they stand once the sweep's
// moves are applied.
func conflictCountAfter(bookings []models.Booking, changes []models.RoomChange) int {
	moved := make(map[string]string, len(changes))
	for _, c := range changes {
		moved[c.BookingID] = c.RoomID
	}
	count := 0
	for _, b := range bookings {
		roomID := b.RoomID
		if next, ok := moved[b.ID]; ok {
			roomID = next
		}
		if roomID == models.ConflictRoomID {
			count++
		}
	}
	return count
}
