package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/handler"
	"github.com/fakhrymubarak/skycast/internal/middleware"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/redis"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/fakhrymubarak/skycast/internal/service"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	exitOK       = 0
	exitNotFound = 1
	exitNetwork  = 2
	exitOutput   = 3
	exitUsage    = 64
)

const storePingTimeout = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	_ = config.GetLogger().Sync()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("skycast", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	city := fs.String("city", "", "city name to look up, e.g. \"London\" or \"London,GB\"")
	lat := fs.Float64("lat", 0, "latitude (requires --lon)")
	lon := fs.Float64("lon", 0, "longitude (requires --lat)")
	asJSON := fs.Bool("json", false, "print the snapshot as JSON")
	theme := fs.String("theme", "", "set and remember the display theme (light|dark)")
	noStore := fs.Bool("no-store", false, "do not read or remember the last location")
	fs.String("redis-addr", "", "preference store address (overrides redis.addr)")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if err := viper.BindPFlag("redis.addr", fs.Lookup("redis-addr")); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	q := service.Query{City: *city}
	if fs.Changed("lat") || fs.Changed("lon") {
		if !fs.Changed("lat") || !fs.Changed("lon") {
			fmt.Fprintln(stderr, "--lat and --lon must be given together")
			return exitUsage
		}
		if *city != "" {
			fmt.Fprintln(stderr, "use either --city or --lat/--lon")
			return exitUsage
		}
		q = service.ByCoordinates(*lat, *lon)
	}

	var prefs repository.PreferenceRepository
	if !*noStore {
		prefs = openPreferences(ctx)
	}

	settings, err := config.GetOpenWeatherSettings()
	if err != nil {
		config.GetLogger().Errorw("Invalid openweathermap config, using defaults", "error", err)
	}
	httpClient := &http.Client{
		Timeout:   settings.Timeout,
		Transport: middleware.NewConfiguredTransport(nil),
	}
	locations := service.NewLocationService(repository.NewLocationRepository(httpClient), prefs)
	locations.Countries = repository.NewCountryRepository(httpClient)
	forecasts := service.NewForecastService(repository.NewForecastRepository(httpClient))
	dashboard := handler.NewDashboard(locations, forecasts, prefs)

	if *theme != "" {
		t, ok := model.ParseTheme(*theme)
		if !ok {
			fmt.Fprintf(stderr, "unknown theme %q (want light or dark)\n", *theme)
			return exitUsage
		}
		if err := dashboard.SetTheme(ctx, t); err != nil {
			config.GetLogger().Warnw("Failed to save theme", "error", err)
		}
	}

	snap, err := dashboard.Refresh(ctx, q)
	if err != nil {
		return reportError(err, *asJSON, stdout, stderr)
	}

	if *asJSON {
		err = handler.RenderJSON(stdout, snap)
	} else {
		err = handler.RenderText(stdout, snap)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitOutput
	}
	return exitOK
}

// openPreferences returns the Redis-backed store, or nil when it is unreachable.
func openPreferences(ctx context.Context) repository.PreferenceRepository {
	client := redis.GetClient()
	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := redis.Ping(pingCtx, client); err != nil {
		config.GetLogger().Warnw("Preference store unavailable, last location will not be remembered",
			"addr", config.GetRedisAddr(), "error", err)
		return nil
	}
	return repository.NewPreferenceRepository(client)
}

func reportError(err error, asJSON bool, stdout, stderr io.Writer) int {
	var msg string
	code := exitNetwork
	switch {
	case errors.Is(err, repository.ErrLocationNotFound):
		msg = "Could not find weather data for the specified location. Please check the name and try again."
		code = exitNotFound
	case errors.Is(err, repository.ErrNoSavedLocation):
		msg = "No location given and none remembered. Pass --city or --lat/--lon."
		code = exitNotFound
	case errors.Is(err, repository.ErrAPIKeyMissing):
		msg = "OPENWEATHERMAP_API_KEY is not set."
		code = exitUsage
	default:
		msg = "Could not fetch weather data: " + err.Error()
	}

	if asJSON {
		_ = handler.RenderError(stdout, errors.New(msg))
	} else {
		fmt.Fprintln(stderr, msg)
	}
	return code
}
