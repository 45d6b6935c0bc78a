package lookup

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vzahanych/weather-lookup-app/internal/units"
	"github.com/vzahanych/weather-lookup-app/internal/validation"
	"github.com/vzahanych/weather-lookup-app/internal/weather"
	"github.com/vzahanych/weather-lookup-app/pkg/logger"
)

// Fetcher produces snapshots; *weather.Fetcher in production.
type Fetcher interface {
	Fetch(ctx context.Context, city string, unit units.Unit) (*weather.Snapshot, error)
}

// Outcome tells the caller what a submission did to the session.
type Outcome string

const (
	OutcomeInvalid    Outcome = "invalid"
	OutcomeSuccess    Outcome = "success"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuperseded Outcome = "superseded"
)

// View is an immutable copy of the session state used for rendering.
type View struct {
	Unit       units.Unit
	Query      string
	InputError string
	FetchError string
	Snapshot   *weather.Snapshot
	Pending    bool
}

// Session holds the unit setting, the last snapshot and the error texts.
// The unit is changed only through ToggleUnit. A newer submission cancels
// the one in flight and only the latest may write results.
type Session struct {
	mu         sync.Mutex
	unit       units.Unit
	query      string
	inputError string
	fetchError string
	snapshot   *weather.Snapshot

	generation uint64
	cancel     context.CancelFunc

	fetcher Fetcher
	logger  *zap.Logger
}

func NewSession(fetcher Fetcher, initial units.Unit, logger *zap.Logger) *Session {
	if !initial.Valid() {
		initial = units.Default
	}
	return &Session{
		unit:    initial,
		fetcher: fetcher,
		logger:  logger,
	}
}

func (s *Session) Unit() units.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unit
}

// ToggleUnit flips the unit and returns the new value. The current
// snapshot is left as is; the next submission uses the new unit.
func (s *Session) ToggleUnit() units.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unit = s.unit.Toggle()
	return s.unit
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Unit:       s.unit,
		Query:      s.query,
		InputError: s.inputError,
		FetchError: s.fetchError,
		Snapshot:   s.snapshot,
		Pending:    s.cancel != nil,
	}
}

// Submit validates raw and, when it is a city name, fetches with the unit
// in effect right now. A failed fetch keeps the previous snapshot.
func (s *Session) Submit(ctx context.Context, raw string) Outcome {
	reqLogger := logger.ForContext(ctx, s.logger)

	city, err := validation.City(raw)

	s.mu.Lock()
	s.query = raw
	if err != nil {
		s.inputError = weather.UserMessage(err)
		s.mu.Unlock()
		reqLogger.Debug("Rejected lookup input", zap.String("input", raw))
		return OutcomeInvalid
	}

	s.inputError = ""
	s.fetchError = ""
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	unit := s.unit
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer cancel()

	snap, err := s.fetcher.Fetch(fetchCtx, city, unit)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		reqLogger.Info("Lookup superseded by a newer submission",
			zap.String("city", city),
			zap.Uint64("generation", gen))
		return OutcomeSuperseded
	}
	s.cancel = nil

	if err != nil {
		s.fetchError = weather.UserMessage(err)
		return OutcomeFailed
	}

	s.snapshot = snap
	return OutcomeSuccess
}
