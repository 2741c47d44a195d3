package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/hashicorp/go-multierror"
)

const (
	maxHourlyPoints = 24
	maxDailyPoints  = 14
)

// ForecastServiceInterface defines the interface for the forecast normalizer
type ForecastServiceInterface interface {
	GetForecast(ctx context.Context, lat, lon float64) model.Forecast
}

// ForecastService turns either upstream forecast tier into one model.Forecast.
type ForecastService struct {
	ForecastRepo repository.ForecastRepository
}

// NewForecastService creates a new forecast service
func NewForecastService(repo ...repository.ForecastRepository) *ForecastService {
	var forecastRepo repository.ForecastRepository
	if len(repo) > 0 && repo[0] != nil {
		forecastRepo = repo[0]
	} else {
		forecastRepo = repository.NewForecastRepository()
	}
	return &ForecastService{ForecastRepo: forecastRepo}
}

// GetForecast tries the combined forecast first and only then the periodic
// feed. It never fails: when neither tier answers the result is empty with
// Tier set to model.TierNone.
func (s *ForecastService) GetForecast(ctx context.Context, lat, lon float64) model.Forecast {
	log := config.GetLogger()

	var errs *multierror.Error
	primary, err := s.ForecastRepo.FetchOneCall(ctx, lat, lon)
	if err == nil {
		return normalizeOneCall(primary)
	}
	errs = multierror.Append(errs, fmt.Errorf("one call forecast: %w", err))
	log.Warnw("Combined forecast unavailable, falling back to periodic feed",
		"lat", lat, "lon", lon, "error", err)

	periodic, err := s.ForecastRepo.FetchPeriodic(ctx, lat, lon)
	if err == nil {
		return normalizePeriodic(periodic)
	}
	errs = multierror.Append(errs, fmt.Errorf("periodic forecast: %w", err))
	log.Warnw("Forecast unavailable from every tier",
		"lat", lat, "lon", lon, "error", errs.ErrorOrNil())

	return model.EmptyForecast(model.TierNone)
}

func normalizeOneCall(data *model.OneCallResponse) model.Forecast {
	f := model.EmptyForecast(model.TierPrimary)

	for _, h := range data.Hourly {
		cond := model.FirstCondition(h.Weather)
		f.Hourly = append(f.Hourly, model.HourlyPoint{
			Epoch:                    h.Dt,
			TemperatureC:             h.Temp,
			ConditionCode:            cond.Icon,
			Description:              cond.Description,
			PrecipitationProbability: h.Pop,
		})
	}
	sort.SliceStable(f.Hourly, func(i, j int) bool { return f.Hourly[i].Epoch < f.Hourly[j].Epoch })
	f.Hourly = truncate(f.Hourly, maxHourlyPoints)

	for _, d := range data.Daily {
		cond := model.FirstCondition(d.Weather)
		lo, hi := d.Temp.Min, d.Temp.Max
		if lo > hi {
			lo, hi = hi, lo
		}
		f.Daily = append(f.Daily, model.DailyPoint{
			Epoch:           d.Dt,
			TemperatureMinC: lo,
			TemperatureMaxC: hi,
			ConditionCode:   cond.Icon,
			Description:     cond.Description,
		})
	}
	sort.SliceStable(f.Daily, func(i, j int) bool { return f.Daily[i].Epoch < f.Daily[j].Epoch })
	f.Daily = truncate(f.Daily, maxDailyPoints)

	for _, a := range data.Alerts {
		f.Alerts = append(f.Alerts, model.AlertEvent{
			EventName:    a.Event,
			SenderName:   a.SenderName,
			StartEpoch:   a.Start,
			EndEpoch:     a.End,
			Description:  a.Description,
			SeverityTier: ClassifySeverity(a.Event),
		})
	}
	return f
}

func normalizePeriodic(data *model.PeriodicForecastResponse) model.Forecast {
	f := model.EmptyForecast(model.TierFallback)

	entries := make([]model.PeriodicForecastEntry, len(data.List))
	copy(entries, data.List)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Dt < entries[j].Dt })

	for _, e := range truncate(entries, maxHourlyPoints) {
		cond := model.FirstCondition(e.Weather)
		f.Hourly = append(f.Hourly, model.HourlyPoint{
			Epoch:                    e.Dt,
			TemperatureC:             e.Main.Temp,
			ConditionCode:            cond.Icon,
			Description:              cond.Description,
			PrecipitationProbability: e.Pop,
		})
	}

	f.Daily = truncate(groupDaily(entries, data.City.Timezone), maxDailyPoints)
	return f
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
