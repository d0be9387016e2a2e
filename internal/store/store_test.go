package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// runStoreContract exercises behavior every store must share.
func runStoreContract(t *testing.T, s weather.Store) {
	t.Helper()
	ctx := context.Background()

	london, err := s.Insert(ctx, weather.Record{City: "London", Temperature: 12, Condition: "Rain"})
	require.NoError(t, err)
	paris1, err := s.Insert(ctx, weather.Record{City: "Paris", Temperature: 19, Condition: "Clouds"})
	require.NoError(t, err)
	paris2, err := s.Insert(ctx, weather.Record{City: "Paris", Temperature: 21, Condition: "Clear"})
	require.NoError(t, err)

	t.Run("insert assigns id and timestamp", func(t *testing.T) {
		assert.NotEmpty(t, london.ID)
		assert.False(t, london.Timestamp.IsZero())
		assert.NotEqual(t, paris1.ID, paris2.ID)
		assert.True(t, paris2.Timestamp.After(paris1.Timestamp))
		assert.True(t, paris1.Timestamp.After(london.Timestamp))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		for _, q := range []string{"lon", "LONDON", "don", "London"} {
			recs, err := s.FindByCity(ctx, q)
			require.NoError(t, err, q)
			require.Len(t, recs, 1, q)
			assert.Equal(t, london.ID, recs[0].ID, q)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		recs, err := s.FindByCity(ctx, "par")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, paris2.ID, recs[0].ID)
		assert.Equal(t, paris1.ID, recs[1].ID)
		assert.Equal(t, 21, recs[0].Temperature)
		assert.Equal(t, "Clear", recs[0].Condition)
	})

	t.Run("sorted descending across cities", func(t *testing.T) {
		recs, err := s.FindByCity(ctx, "")
		require.NoError(t, err)
		require.Len(t, recs, 3)
		for i := 1; i < len(recs); i++ {
			assert.False(t, recs[i].Timestamp.After(recs[i-1].Timestamp))
		}
	})

	t.Run("no match is empty not nil", func(t *testing.T) {
		recs, err := s.FindByCity(ctx, "tokyo")
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		recs, err := s.FindByCity(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, recs)

		recs, err = s.FindByCity(ctx, "_aris")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("query is idempotent", func(t *testing.T) {
		first, err := s.FindByCity(ctx, "a")
		require.NoError(t, err)
		second, err := s.FindByCity(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("non ascii letters fold", func(t *testing.T) {
		orebro, err := s.Insert(ctx, weather.Record{City: "Örebro", Temperature: 4, Condition: "Mist"})
		require.NoError(t, err)
		osaka, err := s.Insert(ctx, weather.Record{City: "Ōsaka", Temperature: 27, Condition: "Clear"})
		require.NoError(t, err)

		for _, q := range []string{"örebro", "ÖREBRO", "Örebro", "öre"} {
			recs, err := s.FindByCity(ctx, q)
			require.NoError(t, err, q)
			require.Len(t, recs, 1, q)
			assert.Equal(t, orebro.ID, recs[0].ID, q)
		}

		recs, err := s.FindByCity(ctx, "ōSAKA")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, osaka.ID, recs[0].ID)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	runStoreContract(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQL(DriverSQLite, filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runStoreContract(t, s)
}

func TestSQLiteStore_ClockResumesAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.db")
	ctx := context.Background()

	s, err := OpenSQL(DriverSQLite, path)
	require.NoError(t, err)

	// Force a stored timestamp in the future so the next store must step past it.
	future := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	s.clock = newClock(func() time.Time { return future })
	first, err := s.Insert(ctx, weather.Record{City: "Oslo", Temperature: -3, Condition: "Snow"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQL(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	second, err := s.Insert(ctx, weather.Record{City: "Oslo", Temperature: -2, Condition: "Snow"})
	require.NoError(t, err)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	recs, err := s.FindByCity(ctx, "oslo")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID)
}

func TestSQLiteStore_BackfillsFoldedCity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.db")
	ctx := context.Background()

	s, err := OpenSQL(DriverSQLite, path)
	require.NoError(t, err)
	rec, err := s.Insert(ctx, weather.Record{City: "Århus", Temperature: 8, Condition: "Clouds"})
	require.NoError(t, err)

	// Rows written before the folded column existed have it empty.
	require.NoError(t, s.db.Exec("UPDATE weather_records SET city_fold = NULL").Error)
	require.NoError(t, s.Close())

	s, err = OpenSQL(DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	recs, err := s.FindByCity(ctx, "århus")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
	assert.Equal(t, "Århus", recs[0].City)
}

func TestMemoryStore_ClosedStoreFails(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, err := s.Insert(context.Background(), weather.Record{City: "Rome"})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = s.FindByCity(context.Background(), "rome")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrNotInitialized)
}

func TestClock_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := newClock(func() time.Time { return fixed })

	a := c.next()
	b := c.next()
	assert.Equal(t, fixed, a)
	assert.Equal(t, fixed.Add(time.Millisecond), b)
}

func TestOpen_Drivers(t *testing.T) {
	s, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open("mongodb", "mongodb://localhost")
	assert.Error(t, err)

	_, err = Open("mysql", "")
	assert.Error(t, err)
}
