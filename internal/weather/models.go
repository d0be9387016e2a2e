package weather

import (
	"math"
	"time"
)

// Record is one persisted weather observation.
// ID and Timestamp are assigned by the store on insert and never change.
type Record struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Temperature int       `json:"temperature"` // degrees Celsius
	Condition   string    `json:"condition"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
}

// Observation is what a provider reports for a city before it is persisted.
type Observation struct {
	// City is the provider's canonical display name, not the raw query.
	City         string
	TemperatureC float64
	// Condition is the provider's primary condition label, e.g. "Clouds".
	Condition string
}

// ToRecord converts an observation into an unsaved record, rounding the
// temperature to the nearest whole degree.
func (o Observation) ToRecord() Record {
	return Record{
		City:        o.City,
		Temperature: int(math.Round(o.TemperatureC)),
		Condition:   o.Condition,
	}
}
