package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

const (
	NameOpenWeather = "openweather"
	NameWeatherAPI  = "weatherapi"
)

// New returns the provider registered under name. Exactly one provider is
// active per process.
func New(name string, client *http.Client, apiKey string) (weather.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameOpenWeather:
		return NewOpenWeatherProvider(client, apiKey), nil
	case NameWeatherAPI:
		return NewWeatherAPIProvider(client, apiKey), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}
