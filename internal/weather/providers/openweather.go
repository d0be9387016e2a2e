package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherEndpoint is the OpenWeatherMap current weather endpoint.
const OpenWeatherEndpoint = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: OpenWeatherEndpoint,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// openWeatherResponse holds the fields of the current weather payload we use.
type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Current fetches current conditions for city in metric units.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("openweather: %w", errNoAPIKey)
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	resp, err := doRequest(ctx, p.client, p.circuit, p.baseURL+"?"+values.Encode())
	if err != nil {
		return weather.Observation{}, fmt.Errorf("openweather: %w", err)
	}
	defer resp.Body.Close()

	var payload openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("openweather: %w: %v", ErrMalformedResponse, err)
	}

	switch {
	case payload.Name == "":
		return weather.Observation{}, fmt.Errorf("openweather: %w: missing city name", ErrMalformedResponse)
	case payload.Main.Temp == nil:
		return weather.Observation{}, fmt.Errorf("openweather: %w: missing temperature", ErrMalformedResponse)
	case len(payload.Weather) == 0 || payload.Weather[0].Main == "":
		return weather.Observation{}, fmt.Errorf("openweather: %w: no weather conditions", ErrMalformedResponse)
	}

	return weather.Observation{
		City:         payload.Name,
		TemperatureC: *payload.Main.Temp,
		Condition:    payload.Weather[0].Main,
	}, nil
}
