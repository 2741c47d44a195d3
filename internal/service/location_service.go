package service

import (
	"context"
	"errors"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
)

// Query selects how a location is resolved. The zero value means "last known".
type Query struct {
	City           string
	Lat, Lon       float64
	HasCoordinates bool
}

func ByName(city string) Query {
	return Query{City: city}
}

func ByCoordinates(lat, lon float64) Query {
	return Query{Lat: lat, Lon: lon, HasCoordinates: true}
}

// LastKnown reports whether q carries no explicit location.
func (q Query) LastKnown() bool {
	return q.City == "" && !q.HasCoordinates
}

// LocationServiceInterface defines the interface for the location resolver
type LocationServiceInterface interface {
	ResolveByName(ctx context.Context, city string) (model.Location, error)
	ResolveByCoordinates(ctx context.Context, lat, lon float64) (model.Location, error)
	Current(ctx context.Context, q Query) (*model.Weather, error)
}

// LocationService resolves places and remembers the last one that resolved.
// Preferences may be nil, in which case nothing is persisted. Countries may be
// nil, in which case results carry no country details.
type LocationService struct {
	LocationRepo repository.LocationRepository
	Preferences  repository.PreferenceRepository
	Countries    repository.CountryRepository
}

// NewLocationService creates a new location service
func NewLocationService(repo repository.LocationRepository, prefs repository.PreferenceRepository) *LocationService {
	if repo == nil {
		repo = repository.NewLocationRepository()
	}
	return &LocationService{
		LocationRepo: repo,
		Preferences:  prefs,
	}
}

func (s *LocationService) ResolveByName(ctx context.Context, city string) (model.Location, error) {
	w, err := s.CurrentByName(ctx, city)
	if err != nil {
		return model.Location{}, err
	}
	return w.Location, nil
}

func (s *LocationService) ResolveByCoordinates(ctx context.Context, lat, lon float64) (model.Location, error) {
	w, err := s.CurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		return model.Location{}, err
	}
	return w.Location, nil
}

func (s *LocationService) CurrentByName(ctx context.Context, city string) (*model.Weather, error) {
	w, err := s.LocationRepo.CurrentByName(ctx, city)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, w.Location)
	return w, nil
}

func (s *LocationService) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.Weather, error) {
	w, err := s.LocationRepo.CurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, w.Location)
	return w, nil
}

// Current resolves q. An empty query refreshes the last known location; if
// that refresh fails on the network the cached record is returned with
// Cached set. A not-found answer is never masked by the cache.
func (s *LocationService) Current(ctx context.Context, q Query) (*model.Weather, error) {
	w, err := s.current(ctx, q)
	if err != nil || w.Cached {
		return w, err
	}
	return s.withCountry(ctx, w), nil
}

func (s *LocationService) current(ctx context.Context, q Query) (*model.Weather, error) {
	switch {
	case q.HasCoordinates:
		return s.CurrentByCoordinates(ctx, q.Lat, q.Lon)
	case q.City != "":
		return s.CurrentByName(ctx, q.City)
	}

	if s.Preferences == nil {
		return nil, repository.ErrNoSavedLocation
	}
	saved, err := s.Preferences.LastLocation(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.CurrentByCoordinates(ctx, saved.Lat, saved.Lon)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, repository.ErrNetwork) {
		return nil, err
	}
	config.GetLogger().Warnw("Using cached location, refresh failed",
		"location", saved.Name, "error", err)
	return &model.Weather{Location: saved.Location(), Cached: true}, nil
}

func (s *LocationService) remember(ctx context.Context, loc model.Location) {
	if s.Preferences == nil {
		return
	}
	if err := s.Preferences.SaveLocation(ctx, model.NewSavedLocation(loc)); err != nil {
		config.GetLogger().Errorw("Failed to save last location", "location", loc.DisplayName, "error", err)
	}
}

// withCountry attaches country details to a copy of w. Lookup failures only
// cost the details.
func (s *LocationService) withCountry(ctx context.Context, w *model.Weather) *model.Weather {
	if s.Countries == nil || w.Location.CountryCode == "" {
		return w
	}
	country, err := s.Countries.Lookup(ctx, w.Location.CountryCode)
	if err != nil {
		config.GetLogger().Warnw("Country lookup failed", "code", w.Location.CountryCode, "error", err)
		return w
	}
	enriched := *w
	enriched.Country = country
	return &enriched
}
