package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

// owmClient issues GET requests against OpenWeatherMap endpoints.
type owmClient struct {
	httpClient *http.Client
	apiKey     string
	units      string
}

// openWeatherSettings loads the openweathermap block, falling back to the
// defaults when it does not decode.
func openWeatherSettings() config.OpenWeatherSettings {
	s, err := config.GetOpenWeatherSettings()
	if err != nil {
		config.GetLogger().Errorw("Invalid openweathermap config, using defaults", "error", err)
	}
	return s
}

func newOWMClient(settings config.OpenWeatherSettings, httpClient ...*http.Client) owmClient {
	client := &http.Client{Timeout: settings.Timeout}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return owmClient{
		httpClient: client,
		apiKey:     config.GetOpenWeatherMapAPIKey(),
		units:      settings.Units,
	}
}

func coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return params
}

// getJSON decodes a 2xx body into out. Every failure is a *NetworkError except
// a missing API key.
func (c owmClient) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrAPIKeyMissing
	}
	params.Set("appid", c.apiKey)
	if c.units != "" {
		params.Set("units", c.units)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := errorBody(resp.Body)
		return &NetworkError{StatusCode: resp.StatusCode, Code: body.Code(), Message: body.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Err: fmt.Errorf("failed to parse API response: %w", err)}
	}
	return nil
}

// errorBody decodes an OWM error body; anything unreadable yields the zero value.
func errorBody(body io.Reader) model.OpenWeatherMapError {
	var data model.OpenWeatherMapError
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return data
	}
	_ = json.Unmarshal(raw, &data)
	return data
}
