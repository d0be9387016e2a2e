package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// API is the weather service as seen by the dashboard.
type API interface {
	Submit(ctx context.Context, city string) (weather.Record, error)
	History(ctx context.Context, city string) ([]weather.Record, error)
}

// StatusError is an HTTP error answer from the service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
}

// HTTPClient calls the weather service over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the service at baseURL
// (e.g. http://localhost:5000). A nil client uses a 30s timeout.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Submit calls POST /weather.
func (c *HTTPClient) Submit(ctx context.Context, city string) (weather.Record, error) {
	const op = "submit"

	body, err := json.Marshal(map[string]string{"city": city})
	if err != nil {
		return weather.Record{}, weather.NewError(weather.KindValidation, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/weather", bytes.NewReader(body))
	if err != nil {
		return weather.Record{}, weather.NewError(weather.KindTransportFailure, op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var rec weather.Record
	if err := c.do(op, req, &rec); err != nil {
		return weather.Record{}, err
	}
	return rec, nil
}

// History calls GET /weather/:city.
func (c *HTTPClient) History(ctx context.Context, city string) ([]weather.Record, error) {
	const op = "history"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather/"+url.PathEscape(city), http.NoBody)
	if err != nil {
		return nil, weather.NewError(weather.KindTransportFailure, op, err)
	}

	var recs []weather.Record
	if err := c.do(op, req, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []weather.Record{}
	}
	return recs, nil
}

// do sends req and decodes a 2xx JSON body into out. Failing to reach the
// service or to read its answer is a transport failure; an error status is
// returned as *StatusError.
func (c *HTTPClient) do(op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return weather.NewError(weather.KindTransportFailure, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
		return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return weather.NewError(weather.KindTransportFailure, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// IsStatusError reports whether err is an HTTP error answer.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
