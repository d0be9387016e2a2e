package weather

import (
	"context"
)

// Provider abstracts a current-conditions source (e.g. OpenWeatherMap, WeatherAPI).
// Implementations always request metric units.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (Observation, error)
}

// Store is the contract every record store (memory, sqlite, mysql) must satisfy.
type Store interface {
	// Insert assigns ID and Timestamp and persists the record.
	Insert(ctx context.Context, rec Record) (Record, error)
	// FindByCity returns records whose city contains query, ignoring case,
	// newest first. No match yields an empty slice.
	FindByCity(ctx context.Context, query string) ([]Record, error)
	Ping(ctx context.Context) error
	Close() error
}
