package perfsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/metrics"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSyncInProgress = errors.New("performance sync already running for this artist")

const (
	StateIdle    = "idle"
	StateSyncing = "syncing"

	// EventSyncStatus is published on every state change.
	EventSyncStatus = "performance_sync"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

type Status struct {
	ArtistID    uuid.UUID  `json:"artist_id"`
	State       string     `json:"state"`
	LastOutcome string     `json:"last_outcome,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Payload, error)
}

// Notifier receives status changes for the artist's team. sse.Hub
// satisfies it.
type Notifier interface {
	Publish(teamID uuid.UUID, eventType string, data any)
}

// SnapshotStore replaces an artist's snapshot row.
type SnapshotStore interface {
	Upsert(ctx context.Context, snapshot *models.PerformanceSnapshot) (*models.PerformanceSnapshot, error)
}

// Syncer runs at most one sync per artist at a time and remembers how the
// last one ended.
type Syncer struct {
	invoker  Invoker
	store    SnapshotStore
	logger   *zap.Logger
	metrics  *metrics.Metrics
	notifier Notifier
	now      func() time.Time

	mu     sync.Mutex
	states map[uuid.UUID]*Status
}

func NewSyncer(invoker Invoker, store SnapshotStore, logger *zap.Logger, m *metrics.Metrics) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		invoker: invoker,
		store:   store,
		logger:  logger.Named("perfsync"),
		metrics: m,
		now:     time.Now,
		states:  make(map[uuid.UUID]*Status),
	}
}

// SetNotifier enables status events. Call before serving requests.
func (s *Syncer) SetNotifier(n Notifier) {
	s.notifier = n
}

// Sync always returns the artist to idle, even when the invoker or the store
// panics. A panic is reported as the sync's error.
func (s *Syncer) Sync(ctx context.Context, req Request) (snapshot *models.PerformanceSnapshot, err error) {
	if !s.begin(req.ArtistID) {
		s.metrics.PerformanceSync("conflict")
		return nil, ErrSyncInProgress
	}
	s.notify(req)

	defer func() {
		if r := recover(); r != nil {
			snapshot = nil
			err = fmt.Errorf("performance sync panicked: %v", r)
		}
		s.finish(req.ArtistID, err)
		s.notify(req)
		s.record(req, err)
	}()

	return s.run(ctx, req)
}

func (s *Syncer) record(req Request, err error) {
	switch {
	case err == nil:
		s.metrics.PerformanceSync(OutcomeSuccess)
		return
	case errors.Is(err, ErrSyncMismatch):
		s.metrics.PerformanceSync("mismatch")
	default:
		s.metrics.PerformanceSync(OutcomeError)
	}
	s.logger.Warn("sync failed",
		zap.String("artist_id", req.ArtistID.String()),
		zap.String("spotify_id", req.SpotifyID),
		zap.Error(err),
	)
}

func (s *Syncer) run(ctx context.Context, req Request) (*models.PerformanceSnapshot, error) {
	payload, err := s.invoker.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.store.Upsert(ctx, &models.PerformanceSnapshot{
		ArtistID:          req.ArtistID,
		LeadStreamsTotal:  payload.LeadStreamsTotal,
		MonthlyStreams:    payload.MonthlyStreams,
		EstMonthlyRevenue: payload.EstMonthlyRevenue,
		Raw:               payload.Raw,
		ScrapedAt:         payload.ScrapedAt,
	})
}

func (s *Syncer) begin(artistID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[artistID]
	if !ok {
		st = &Status{ArtistID: artistID}
		s.states[artistID] = st
	}
	if st.State == StateSyncing {
		return false
	}
	st.State = StateSyncing
	return true
}

func (s *Syncer) finish(artistID uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := s.states[artistID]
	st.State = StateIdle
	st.FinishedAt = &now
	if err != nil {
		st.LastOutcome = OutcomeError
		st.LastError = err.Error()
		return
	}
	st.LastOutcome = OutcomeSuccess
	st.LastError = ""
}

func (s *Syncer) notify(req Request) {
	if s.notifier == nil || req.TeamID == uuid.Nil {
		return
	}
	s.notifier.Publish(req.TeamID, EventSyncStatus, s.Status(req.ArtistID))
}

// Status reports the artist's sync state; artists never synced are idle.
func (s *Syncer) Status(artistID uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[artistID]
	if !ok {
		return Status{ArtistID: artistID, State: StateIdle}
	}
	return *st
}

// Report summarizes a SyncAll run.
type Report struct {
	Synced  int      `json:"synced"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// SyncAll syncs each request in order and stops early when ctx is done.
// Artists with a sync already running are skipped.
func (s *Syncer) SyncAll(ctx context.Context, reqs []Request) Report {
	var report Report
	for _, req := range reqs {
		if ctx.Err() != nil {
			break
		}
		_, err := s.Sync(ctx, req)
		switch {
		case err == nil:
			report.Synced++
		case errors.Is(err, ErrSyncInProgress):
			report.Skipped++
		default:
			report.Failed++
			report.Errors = append(report.Errors, req.ArtistName+": "+err.Error())
		}
	}
	return report
}
