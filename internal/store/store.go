package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrNotInitialized is returned when a store is used before Open or after Close.
var ErrNotInitialized = errors.New("store not initialized")

// Open returns the record store for driver. dsn is ignored by the memory store.
func Open(driver, dsn string) (weather.Store, error) {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case DriverMemory:
		return NewMemoryStore(), nil
	case "":
		return OpenSQL(DriverSQLite, dsn)
	case DriverSQLite, DriverMySQL:
		return OpenSQL(d, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// cityMatches reports whether city contains query, ignoring case.
func cityMatches(city, query string) bool {
	return strings.Contains(foldCity(city), foldCity(query))
}

// foldCity lowercases a city name with Unicode case rules.
// Every store matches on this form.
func foldCity(city string) string {
	return strings.ToLower(city)
}
