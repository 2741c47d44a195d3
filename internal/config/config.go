package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// OpenWeatherSettings is the "openweathermap" block of config.yaml.
type OpenWeatherSettings struct {
	BaseURL    string        `mapstructure:"base_url"`
	OneCallURL string        `mapstructure:"onecall_url"`
	Units      string        `mapstructure:"units"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

const (
	defaultBaseURL      = "https://api.openweathermap.org/data/2.5"
	defaultOneCallURL   = "https://api.openweathermap.org/data/3.0/onecall"
	defaultUnits        = "metric"
	defaultTimeout      = 10 * time.Second
	defaultCountriesURL = "https://restcountries.com/v3.1"
)

func setDefaults() {
	viper.SetDefault("openweathermap.base_url", defaultBaseURL)
	viper.SetDefault("openweathermap.onecall_url", defaultOneCallURL)
	viper.SetDefault("openweathermap.units", defaultUnits)
	viper.SetDefault("openweathermap.timeout", defaultTimeout.String())
	viper.SetDefault("countries.base_url", defaultCountriesURL)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.key_prefix", "skycast")
	viper.SetDefault("rate_limiter.rate", 1)
	viper.SetDefault("rate_limiter.burst", 5)
	viper.SetDefault("dashboard.default_theme", "light")
}

func initConfig() {
	once.Do(func() {
		setDefaults()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Debugw("No project root, using defaults", "error", err)
			return
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error reading test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// DefaultOpenWeatherSettings is used when the openweathermap block cannot be decoded.
func DefaultOpenWeatherSettings() OpenWeatherSettings {
	return OpenWeatherSettings{
		BaseURL:    defaultBaseURL,
		OneCallURL: defaultOneCallURL,
		Units:      defaultUnits,
		Timeout:    defaultTimeout,
	}
}

// GetOpenWeatherSettings decodes the whole openweathermap block. On a decode
// error the defaults are returned alongside the error.
func GetOpenWeatherSettings() (OpenWeatherSettings, error) {
	initConfig()
	var root struct {
		OpenWeatherMap OpenWeatherSettings `mapstructure:"openweathermap"`
	}
	// UnmarshalKey would drop file keys once any key of the block is Set.
	err := viper.Unmarshal(&root, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc()))
	if err != nil {
		return DefaultOpenWeatherSettings(), err
	}
	s := root.OpenWeatherMap
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	return s, nil
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

// GetCountriesBaseURL returns the REST Countries API root.
func GetCountriesBaseURL() string {
	initConfig()
	return strings.TrimRight(viper.GetString("countries.base_url"), "/")
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetRedisKeyPrefix() string {
	initConfig()
	return viper.GetString("redis.key_prefix")
}

func GetDefaultTheme() string {
	initConfig()
	return viper.GetString("dashboard.default_theme")
}

// GetRateLimiterConfig returns the outbound request rate and burst.
func GetRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.rate")
	if rate <= 0 {
		rate = 1
	}
	burst = viper.GetInt("rate_limiter.burst")
	if burst <= 0 {
		burst = 5
	}
	return
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}
