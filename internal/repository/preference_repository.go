package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/redis"
	redisv9 "github.com/redis/go-redis/v9"
)

// kvStore is the subset of *redisv9.Client the preference store needs.
type kvStore interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// PreferenceRepository keeps the last-known location and display theme.
type PreferenceRepository interface {
	SaveLocation(ctx context.Context, loc model.SavedLocation) error
	LastLocation(ctx context.Context) (model.SavedLocation, error)
	SaveTheme(ctx context.Context, theme model.Theme) error
	Theme(ctx context.Context) (model.Theme, error)
}

type preferenceRepository struct {
	redisClient  kvStore
	prefix       string
	defaultTheme model.Theme
}

// NewPreferenceRepository creates a store on the given client, or the shared one.
func NewPreferenceRepository(client ...*redisv9.Client) PreferenceRepository {
	var c kvStore = redis.GetClient()
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	}
	theme, _ := model.ParseTheme(config.GetDefaultTheme())
	return &preferenceRepository{
		redisClient:  c,
		prefix:       config.GetRedisKeyPrefix(),
		defaultTheme: theme,
	}
}

func (r *preferenceRepository) key(name string) string {
	return r.prefix + ":" + name
}

func (r *preferenceRepository) SaveLocation(ctx context.Context, loc model.SavedLocation) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return r.redisClient.Set(ctx, r.key("location"), b, 0).Err()
}

func (r *preferenceRepository) LastLocation(ctx context.Context) (model.SavedLocation, error) {
	val, err := r.redisClient.Get(ctx, r.key("location")).Result()
	if errors.Is(err, redisv9.Nil) {
		return model.SavedLocation{}, ErrNoSavedLocation
	}
	if err != nil {
		return model.SavedLocation{}, err
	}

	var loc model.SavedLocation
	if err := json.Unmarshal([]byte(val), &loc); err != nil {
		return model.SavedLocation{}, err
	}
	return loc, nil
}

func (r *preferenceRepository) SaveTheme(ctx context.Context, theme model.Theme) error {
	return r.redisClient.Set(ctx, r.key("theme"), string(theme), 0).Err()
}

// Theme returns the stored theme, falling back to the configured default when
// nothing valid is stored.
func (r *preferenceRepository) Theme(ctx context.Context) (model.Theme, error) {
	val, err := r.redisClient.Get(ctx, r.key("theme")).Result()
	if errors.Is(err, redisv9.Nil) {
		return r.defaultTheme, nil
	}
	if err != nil {
		return r.defaultTheme, err
	}
	if theme, ok := model.ParseTheme(val); ok {
		return theme, nil
	}
	return r.defaultTheme, nil
}
