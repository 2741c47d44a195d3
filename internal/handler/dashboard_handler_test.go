package handler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/fakhrymubarak/skycast/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock location service; a city listed in gates blocks until its channel is closed.
type mockLocationService struct {
	mu      sync.Mutex
	places  map[string]model.Location
	gates   map[string]chan struct{}
	started chan string
}

func (m *mockLocationService) ResolveByName(ctx context.Context, city string) (model.Location, error) {
	w, err := m.Current(ctx, service.ByName(city))
	if err != nil {
		return model.Location{}, err
	}
	return w.Location, nil
}

func (m *mockLocationService) ResolveByCoordinates(ctx context.Context, lat, lon float64) (model.Location, error) {
	return model.Location{Latitude: lat, Longitude: lon}, nil
}

func (m *mockLocationService) Current(ctx context.Context, q service.Query) (*model.Weather, error) {
	m.mu.Lock()
	gate := m.gates[q.City]
	loc, ok := m.places[q.City]
	m.mu.Unlock()

	if m.started != nil {
		m.started <- q.City
	}
	if gate != nil {
		<-gate
	}
	if !ok {
		return nil, &repository.LocationNotFoundError{Query: q.City, Message: "city not found"}
	}
	return &model.Weather{Location: loc, Current: model.CurrentConditions{TemperatureC: 10}}, nil
}

var _ service.LocationServiceInterface = (*mockLocationService)(nil)

type mockForecastService struct {
	forecast model.Forecast
}

func (m *mockForecastService) GetForecast(ctx context.Context, lat, lon float64) model.Forecast {
	return m.forecast
}

type memoryPreferences struct {
	theme   model.Theme
	saveErr error
}

func (m *memoryPreferences) SaveLocation(ctx context.Context, loc model.SavedLocation) error {
	return nil
}

func (m *memoryPreferences) LastLocation(ctx context.Context) (model.SavedLocation, error) {
	return model.SavedLocation{}, repository.ErrNoSavedLocation
}

func (m *memoryPreferences) SaveTheme(ctx context.Context, theme model.Theme) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.theme = theme
	return nil
}

func (m *memoryPreferences) Theme(ctx context.Context) (model.Theme, error) {
	if m.theme == "" {
		return model.ThemeLight, nil
	}
	return m.theme, nil
}

func newTestDashboard(locs *mockLocationService) *Dashboard {
	return NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierFallback)}, &memoryPreferences{})
}

func TestRefresh_CommitsSnapshot(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima", CountryCode: "PE"}}}
	d := newTestDashboard(locs)
	assert.Nil(t, d.Current())

	snap, err := d.Refresh(context.Background(), service.ByName("Lima"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Seq)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "Lima", snap.Weather.Location.DisplayName)
	assert.Equal(t, model.TierFallback, snap.Forecast.Tier)
	assert.Equal(t, model.ThemeLight, snap.Theme)
	assert.Same(t, snap, d.Current())
}

func TestRefresh_ReplacesSnapshotWholesale(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{
		"Lima":  {DisplayName: "Lima"},
		"Cusco": {DisplayName: "Cusco"},
	}}
	d := newTestDashboard(locs)
	ctx := context.Background()

	first, err := d.Refresh(ctx, service.ByName("Lima"))
	require.NoError(t, err)
	second, err := d.Refresh(ctx, service.ByName("Cusco"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Cusco", d.Current().Weather.Location.DisplayName)
	assert.Equal(t, "Lima", first.Weather.Location.DisplayName, "old snapshot is not mutated")
}

func TestRefresh_LocationErrorKeepsView(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	d := newTestDashboard(locs)
	ctx := context.Background()

	_, err := d.Refresh(ctx, service.ByName("Lima"))
	require.NoError(t, err)

	_, err = d.Refresh(ctx, service.ByName("Atlantis"))
	assert.ErrorIs(t, err, repository.ErrLocationNotFound)
	assert.Equal(t, "Lima", d.Current().Weather.Location.DisplayName)
}

// A slow first refresh that finishes after a newer one must not overwrite it.
func TestRefresh_DiscardsOutOfOrderResponse(t *testing.T) {
	slowGate := make(chan struct{})
	locs := &mockLocationService{
		places: map[string]model.Location{
			"Slow": {DisplayName: "Slow"},
			"Fast": {DisplayName: "Fast"},
		},
		gates:   map[string]chan struct{}{"Slow": slowGate},
		started: make(chan string, 2),
	}
	d := newTestDashboard(locs)
	ctx := context.Background()

	type result struct {
		snap *Snapshot
		err  error
	}
	slowDone := make(chan result, 1)
	go func() {
		snap, err := d.Refresh(ctx, service.ByName("Slow"))
		slowDone <- result{snap, err}
	}()
	require.Equal(t, "Slow", <-locs.started)

	fast, err := d.Refresh(ctx, service.ByName("Fast"))
	require.NoError(t, err)
	require.Equal(t, "Fast", <-locs.started)

	close(slowGate)
	slow := <-slowDone

	assert.ErrorIs(t, slow.err, ErrStaleSnapshot)
	assert.Nil(t, slow.snap)
	assert.Same(t, fast, d.Current())
	assert.Equal(t, "Fast", d.Current().Weather.Location.DisplayName)
}

func TestSetTheme(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	prefs := &memoryPreferences{}
	d := NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierNone)}, prefs)
	ctx := context.Background()

	before, err := d.Refresh(ctx, service.ByName("Lima"))
	require.NoError(t, err)

	require.NoError(t, d.SetTheme(ctx, model.ThemeDark))
	assert.Equal(t, model.ThemeDark, prefs.theme)
	assert.Equal(t, model.ThemeDark, d.Current().Theme)
	assert.Equal(t, model.ThemeLight, before.Theme, "committed snapshots are immutable")

	after, err := d.Refresh(ctx, service.ByName("Lima"))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, after.Theme)
}

func TestSetTheme_StoreError(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	prefs := &memoryPreferences{saveErr: errors.New("redis down")}
	d := NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierNone)}, prefs)

	assert.Error(t, d.SetTheme(context.Background(), model.ThemeDark))

	snap, err := d.Refresh(context.Background(), service.ByName("Lima"))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, snap.Theme, "the chosen theme still applies to this session")
}

func TestSetTheme_BeforeFirstRefreshWithoutStore(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	d := NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierNone)}, nil)

	require.NoError(t, d.SetTheme(context.Background(), model.ThemeDark))
	assert.Nil(t, d.Current())

	snap, err := d.Refresh(context.Background(), service.ByName("Lima"))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, snap.Theme)
}

func TestSetTheme_OverridesStoredTheme(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	prefs := &memoryPreferences{theme: model.ThemeDark}
	d := NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierNone)}, prefs)
	ctx := context.Background()

	snap, err := d.Refresh(ctx, service.ByName("Lima"))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, snap.Theme, "stored theme applies when none was chosen")

	require.NoError(t, d.SetTheme(ctx, model.ThemeLight))
	snap, err = d.Refresh(ctx, service.ByName("Lima"))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, snap.Theme)
}

func TestRefresh_ClassifiesScene(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	d := NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierNone)}, nil)

	snap, err := d.Refresh(context.Background(), service.ByName("Lima"))
	require.NoError(t, err)
	// the mock reports no condition group or icon
	assert.Equal(t, Scene{Type: "default"}, snap.Scene)
}

func TestRefresh_NoPreferences(t *testing.T) {
	locs := &mockLocationService{places: map[string]model.Location{"Lima": {DisplayName: "Lima"}}}
	d := NewDashboard(locs, &mockForecastService{forecast: model.EmptyForecast(model.TierNone)}, nil)

	snap, err := d.Refresh(context.Background(), service.ByName("Lima"))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, snap.Theme)
	assert.NoError(t, d.SetTheme(context.Background(), model.ThemeDark))
}
