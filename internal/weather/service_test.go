package weather_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history-dashboard/internal/store"
	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

type stubProvider struct {
	obs   weather.Observation
	err   error
	block bool
	calls int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(ctx context.Context, _ string) (weather.Observation, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return weather.Observation{}, ctx.Err()
	}
	return p.obs, p.err
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Insert(context.Context, weather.Record) (weather.Record, error) {
	return weather.Record{}, errors.New("disk full")
}

func TestSubmitScenarioParis(t *testing.T) {
	s := store.NewMemoryStore()
	p := &stubProvider{obs: weather.Observation{City: "Paris", TemperatureC: 18.6, Condition: "Clouds"}}
	svc := weather.NewService(s, p)

	rec, err := svc.Submit(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", rec.City)
	assert.Equal(t, 19, rec.Temperature)
	assert.Equal(t, "Clouds", rec.Condition)

	recs, err := svc.History(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec, recs[0])
}

func TestSubmitRoundsTemperature(t *testing.T) {
	for _, temp := range []float64{-12.5, -0.4, 0, 0.5, 18.49, 18.5, 31.99} {
		s := store.NewMemoryStore()
		p := &stubProvider{obs: weather.Observation{City: "Cairo", TemperatureC: temp, Condition: "Clear"}}
		svc := weather.NewService(s, p)

		rec, err := svc.Submit(context.Background(), "cairo")
		require.NoError(t, err)
		assert.Equal(t, int(math.Round(temp)), rec.Temperature, "temp %v", temp)

		recs, err := s.FindByCity(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	}
}

func TestSubmitBlankCityNeverCallsProvider(t *testing.T) {
	p := &stubProvider{}
	svc := weather.NewService(store.NewMemoryStore(), p)

	for _, city := range []string{"", "  ", "\t\n"} {
		_, err := svc.Submit(context.Background(), city)
		require.Error(t, err)
		assert.True(t, weather.IsKind(err, weather.KindValidation))
	}
	assert.Zero(t, p.calls)
}

func TestSubmitProviderFailurePersistsNothing(t *testing.T) {
	s := store.NewMemoryStore()
	p := &stubProvider{err: errors.New("city not found")}
	svc := weather.NewService(s, p)

	_, err := svc.Submit(context.Background(), "Nonexistentville")
	require.Error(t, err)
	assert.Equal(t, weather.KindProviderFailure, weather.KindOf(err))

	recs, err := s.FindByCity(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSubmitIncompleteObservation(t *testing.T) {
	s := store.NewMemoryStore()
	p := &stubProvider{obs: weather.Observation{City: "Paris", TemperatureC: 10}}
	svc := weather.NewService(s, p)

	_, err := svc.Submit(context.Background(), "Paris")
	assert.True(t, weather.IsKind(err, weather.KindProviderFailure))
}

func TestSubmitProviderTimeout(t *testing.T) {
	s := store.NewMemoryStore()
	p := &stubProvider{block: true}
	svc := weather.NewService(s, p, weather.WithProviderTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := svc.Submit(context.Background(), "Paris")
	require.Error(t, err)
	assert.Equal(t, weather.KindProviderTimeout, weather.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSubmitStoreFailure(t *testing.T) {
	p := &stubProvider{obs: weather.Observation{City: "Paris", TemperatureC: 18.6, Condition: "Clouds"}}
	svc := weather.NewService(failingStore{store.NewMemoryStore()}, p)

	_, err := svc.Submit(context.Background(), "Paris")
	assert.Equal(t, weather.KindStoreFailure, weather.KindOf(err))
}

func TestSubmitWithoutProvider(t *testing.T) {
	svc := weather.NewService(store.NewMemoryStore(), nil)

	_, err := svc.Submit(context.Background(), "Paris")
	assert.Equal(t, weather.KindProviderFailure, weather.KindOf(err))
}

func TestHistoryStoreFailure(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Close())
	svc := weather.NewService(s, nil)

	_, err := svc.History(context.Background(), "paris")
	assert.Equal(t, weather.KindStoreFailure, weather.KindOf(err))
	assert.ErrorIs(t, err, store.ErrNotInitialized)

	assert.Equal(t, weather.KindStoreFailure, weather.KindOf(svc.CheckStore(context.Background())))
}

func TestHistoryScenarioTwoParisSubmits(t *testing.T) {
	s := store.NewMemoryStore()
	p := &stubProvider{obs: weather.Observation{City: "Paris", TemperatureC: 18.6, Condition: "Clouds"}}
	svc := weather.NewService(s, p)

	first, err := svc.Submit(context.Background(), "Paris")
	require.NoError(t, err)
	p.obs.TemperatureC = 20.2
	second, err := svc.Submit(context.Background(), "Paris")
	require.NoError(t, err)

	recs, err := svc.History(context.Background(), "par")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID)
	assert.Equal(t, first.ID, recs[1].ID)
	assert.False(t, recs[1].Timestamp.After(recs[0].Timestamp))
}
