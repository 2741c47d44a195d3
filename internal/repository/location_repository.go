package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// LocationRepository looks places up through the current-conditions endpoint.
type LocationRepository interface {
	CurrentByName(ctx context.Context, city string) (*model.Weather, error)
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.Weather, error)
}

// locationRepository implements LocationRepository
type locationRepository struct {
	client  owmClient
	baseURL string
}

// NewLocationRepository creates a new location repository instance
func NewLocationRepository(httpClient ...*http.Client) LocationRepository {
	settings := openWeatherSettings()
	return &locationRepository{
		client:  newOWMClient(settings, httpClient...),
		baseURL: settings.BaseURL,
	}
}

func (r *locationRepository) CurrentByName(ctx context.Context, city string) (*model.Weather, error) {
	params := url.Values{}
	params.Set("q", city)
	return r.fetchCurrent(ctx, city, params)
}

func (r *locationRepository) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.Weather, error) {
	return r.fetchCurrent(ctx, "", coordParams(lat, lon))
}

func (r *locationRepository) fetchCurrent(ctx context.Context, query string, params url.Values) (*model.Weather, error) {
	var data model.OpenWeatherMapResponse
	err := r.client.getJSON(ctx, r.baseURL+"/weather", params, &data)
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) && (netErr.StatusCode == http.StatusNotFound || netErr.Code == "404") {
			return nil, &LocationNotFoundError{Query: query, Message: netErr.Message}
		}
		return nil, err
	}
	if data.Code() == "404" {
		return nil, &LocationNotFoundError{Query: query, Message: data.Message}
	}
	return toWeather(&data), nil
}

func toWeather(data *model.OpenWeatherMapResponse) *model.Weather {
	cond := model.FirstCondition(data.Weather)
	return &model.Weather{
		Location: model.Location{
			Latitude:              data.Coord.Lat,
			Longitude:             data.Coord.Lon,
			DisplayName:           data.Name,
			CountryCode:           data.Sys.Country,
			TimezoneOffsetSeconds: data.Timezone,
		},
		Current: model.CurrentConditions{
			TemperatureC:     data.Main.Temp,
			FeelsLikeC:       data.Main.FeelsLike,
			HumidityPct:      data.Main.Humidity,
			WindSpeedMs:      data.Wind.Speed,
			WindDirectionDeg: data.Wind.Deg,
			PressureHPa:      data.Main.Pressure,
			VisibilityM:      data.Visibility,
			ConditionCode:    cond.Icon,
			ConditionMain:    cond.Main,
			Description:      cond.Description,
			SunriseEpoch:     data.Sys.Sunrise,
			SunsetEpoch:      data.Sys.Sunset,
		},
	}
}
