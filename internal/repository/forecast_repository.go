package repository

import (
	"context"
	"net/http"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// ForecastRepository fetches the raw payloads of both forecast tiers.
type ForecastRepository interface {
	FetchOneCall(ctx context.Context, lat, lon float64) (*model.OneCallResponse, error)
	FetchPeriodic(ctx context.Context, lat, lon float64) (*model.PeriodicForecastResponse, error)
}

type forecastRepository struct {
	client     owmClient
	baseURL    string
	oneCallURL string
}

// NewForecastRepository creates a new forecast repository instance
func NewForecastRepository(httpClient ...*http.Client) ForecastRepository {
	settings := openWeatherSettings()
	return &forecastRepository{
		client:     newOWMClient(settings, httpClient...),
		baseURL:    settings.BaseURL,
		oneCallURL: settings.OneCallURL,
	}
}

// FetchOneCall requests hourly, daily and alert data in one call.
func (r *forecastRepository) FetchOneCall(ctx context.Context, lat, lon float64) (*model.OneCallResponse, error) {
	params := coordParams(lat, lon)
	params.Set("exclude", "minutely")

	var data model.OneCallResponse
	if err := r.client.getJSON(ctx, r.oneCallURL, params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchPeriodic requests the 5-day/3-hour forecast feed.
func (r *forecastRepository) FetchPeriodic(ctx context.Context, lat, lon float64) (*model.PeriodicForecastResponse, error) {
	var data model.PeriodicForecastResponse
	if err := r.client.getJSON(ctx, r.baseURL+"/forecast", coordParams(lat, lon), &data); err != nil {
		return nil, err
	}
	return &data, nil
}
