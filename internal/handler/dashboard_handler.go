package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/fakhrymubarak/skycast/internal/service"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ErrStaleSnapshot is returned by Refresh when a newer refresh was issued
// while this one was in flight; its result is dropped.
var ErrStaleSnapshot = errors.New("stale snapshot discarded")

// Snapshot is everything one refresh rendered. It replaces the previous
// snapshot wholesale.
type Snapshot struct {
	ID        string         `json:"id"`
	Seq       uint64         `json:"seq"`
	Weather   model.Weather  `json:"weather"`
	Forecast  model.Forecast `json:"forecast"`
	Scene     Scene          `json:"scene"`
	Theme     model.Theme    `json:"theme"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Dashboard owns the view state fed by the location and forecast services.
type Dashboard struct {
	Locations   service.LocationServiceInterface
	Forecasts   service.ForecastServiceInterface
	Preferences repository.PreferenceRepository

	issued atomic.Uint64

	mu      sync.Mutex
	current *Snapshot
	// chosen is the theme set during this session; it wins over the store.
	chosen model.Theme
}

// NewDashboard wires a dashboard. prefs may be nil to run without a store.
func NewDashboard(locations service.LocationServiceInterface, forecasts service.ForecastServiceInterface, prefs repository.PreferenceRepository) *Dashboard {
	return &Dashboard{
		Locations:   locations,
		Forecasts:   forecasts,
		Preferences: prefs,
	}
}

// Refresh resolves q, fetches its forecast and commits the result as the
// current snapshot. Each call takes a sequence number before any I/O; only the
// most recently issued refresh may commit, older ones get ErrStaleSnapshot.
func (d *Dashboard) Refresh(ctx context.Context, q service.Query) (*Snapshot, error) {
	seq := d.issued.Inc()
	id := uuid.NewString()
	log := config.GetLogger().With("snapshot", id, "seq", seq)

	weather, err := d.Locations.Current(ctx, q)
	if err != nil {
		log.Warnw("Location lookup failed", "city", q.City, "error", err)
		return nil, err
	}

	loc := weather.Location
	forecast := d.Forecasts.GetForecast(ctx, loc.Latitude, loc.Longitude)

	snap := &Snapshot{
		ID:        id,
		Seq:       seq,
		Weather:   *weather,
		Forecast:  forecast,
		Scene:     ClassifyScene(weather.Current.ConditionMain, weather.Current.ConditionCode),
		Theme:     d.theme(ctx),
		FetchedAt: time.Now(),
	}

	if !d.commit(snap) {
		log.Infow("Discarding stale snapshot", "latest", d.issued.Load())
		return nil, ErrStaleSnapshot
	}
	log.Infow("Snapshot committed", "location", loc.DisplayName, "tier", forecast.Tier,
		"hourly", len(forecast.Hourly), "daily", len(forecast.Daily), "alerts", len(forecast.Alerts))
	return snap, nil
}

func (d *Dashboard) commit(snap *Snapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if snap.Seq != d.issued.Load() {
		return false
	}
	d.current = snap
	return true
}

// Current returns the last committed snapshot, or nil before the first one.
func (d *Dashboard) Current() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// SetTheme applies theme to the current and later snapshots and persists it.
// The theme is applied even when persisting fails; the store error is returned.
func (d *Dashboard) SetTheme(ctx context.Context, theme model.Theme) error {
	d.applyTheme(theme)
	if d.Preferences == nil {
		return nil
	}
	return d.Preferences.SaveTheme(ctx, theme)
}

func (d *Dashboard) applyTheme(theme model.Theme) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chosen = theme
	if d.current != nil {
		updated := *d.current
		updated.Theme = theme
		d.current = &updated
	}
}

func (d *Dashboard) theme(ctx context.Context) model.Theme {
	d.mu.Lock()
	chosen := d.chosen
	d.mu.Unlock()
	if chosen != "" {
		return chosen
	}
	if d.Preferences == nil {
		return model.ThemeLight
	}
	theme, err := d.Preferences.Theme(ctx)
	if err != nil {
		config.GetLogger().Warnw("Failed to read theme", "error", err)
	}
	return theme
}
