package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/i474232898/weather-history-dashboard/internal/metrics"
)

// DefaultProviderTimeout bounds a single provider call when no timeout is configured.
const DefaultProviderTimeout = 10 * time.Second

// Service mediates between the provider and the store. It keeps no state
// between requests; every call goes to the provider and/or the store.
type Service struct {
	store    Store
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option customizes a Service.
type Option func(*Service)

// WithProviderTimeout bounds each provider call. Zero or negative disables the bound.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		provider: provider,
		timeout:  DefaultProviderTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit fetches current conditions for city, persists them as a new record
// and returns the stored record. Nothing is persisted on failure.
func (s *Service) Submit(ctx context.Context, city string) (Record, error) {
	const op = "submit"

	rec, err := s.submit(ctx, city)
	if err != nil {
		s.fail(op, city, err)
		s.metrics.ObserveSubmit(false)
		return Record{}, err
	}

	s.metrics.ObserveSubmit(true)
	s.logger.Info("weather record stored",
		"id", rec.ID,
		"city", rec.City,
		"temperature", rec.Temperature,
		"condition", rec.Condition)
	return rec, nil
}

func (s *Service) submit(ctx context.Context, city string) (Record, error) {
	const op = "submit"

	city = strings.TrimSpace(city)
	if city == "" {
		return Record{}, NewError(KindValidation, op, errors.New("city is required"))
	}
	if s.provider == nil {
		return Record{}, NewError(KindProviderFailure, op, errors.New("no weather provider configured"))
	}

	obs, err := s.fetch(ctx, city)
	if err != nil {
		return Record{}, err
	}

	rec, err := s.store.Insert(ctx, obs.ToRecord())
	if err != nil {
		return Record{}, NewError(KindStoreFailure, op, err)
	}
	return rec, nil
}

func (s *Service) fetch(ctx context.Context, city string) (Observation, error) {
	const op = "fetch"

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	obs, err := s.provider.Current(ctx, city)
	s.metrics.ObserveProvider(time.Since(start))

	if err != nil {
		kind := providerKind(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = KindProviderTimeout
		}
		return Observation{}, NewError(kind, op, err)
	}
	if obs.City == "" || obs.Condition == "" {
		return Observation{}, NewError(KindProviderFailure, op, errors.New("incomplete observation from "+s.provider.Name()))
	}
	return obs, nil
}

// History returns stored records whose city contains query (case-insensitive),
// newest first. An unmatched query yields an empty, non-nil slice.
func (s *Service) History(ctx context.Context, query string) ([]Record, error) {
	const op = "history"

	recs, err := s.store.FindByCity(ctx, query)
	if err != nil {
		err = NewError(KindStoreFailure, op, err)
		s.fail(op, query, err)
		s.metrics.ObserveHistory(false)
		return nil, err
	}
	if recs == nil {
		recs = []Record{}
	}

	s.metrics.ObserveHistory(true)
	return recs, nil
}

// CheckStore pings the store.
func (s *Service) CheckStore(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return NewError(KindStoreFailure, "ping", err)
	}
	return nil
}

func (s *Service) fail(op, city string, err error) {
	kind := KindOf(err)
	s.metrics.RecordFailure(kind.String())
	s.logger.Warn("weather operation failed",
		"op", op,
		"kind", kind.String(),
		"city", city,
		"error", err)
}
