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

// WeatherAPIEndpoint is the WeatherAPI.com current conditions endpoint.
const WeatherAPIEndpoint = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: WeatherAPIEndpoint,
		client:  client,
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIResponse struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current struct {
		TempC     *float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// Current fetches current conditions for city. WeatherAPI always reports
// temp_c, so no unit parameter is needed.
func (p *WeatherAPIProvider) Current(ctx context.Context, city string) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("weatherapi: %w", errNoAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city)
	values.Set("aqi", "no")

	resp, err := doRequest(ctx, p.client, p.circuit, p.baseURL+"?"+values.Encode())
	if err != nil {
		return weather.Observation{}, fmt.Errorf("weatherapi: %w", err)
	}
	defer resp.Body.Close()

	var payload weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("weatherapi: %w: %v", ErrMalformedResponse, err)
	}

	switch {
	case payload.Location.Name == "":
		return weather.Observation{}, fmt.Errorf("weatherapi: %w: missing location name", ErrMalformedResponse)
	case payload.Current.TempC == nil:
		return weather.Observation{}, fmt.Errorf("weatherapi: %w: missing temperature", ErrMalformedResponse)
	case payload.Current.Condition.Text == "":
		return weather.Observation{}, fmt.Errorf("weatherapi: %w: missing condition", ErrMalformedResponse)
	}

	return weather.Observation{
		City:         payload.Location.Name,
		TemperatureC: *payload.Current.TempC,
		Condition:    payload.Current.Condition.Text,
	}, nil
}
