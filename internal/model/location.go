package model

// Location is the canonical place a forecast is requested for.
type Location struct {
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	DisplayName           string  `json:"display_name"`
	CountryCode           string  `json:"country_code"`
	TimezoneOffsetSeconds int     `json:"timezone_offset_seconds"`
}

// CurrentConditions holds the observation returned with a location lookup.
type CurrentConditions struct {
	TemperatureC     float64 `json:"temperature_c"`
	FeelsLikeC       float64 `json:"feels_like_c"`
	HumidityPct      int     `json:"humidity_pct"`
	WindSpeedMs      float64 `json:"wind_speed_ms"`
	WindDirectionDeg int     `json:"wind_direction_deg"`
	PressureHPa      int     `json:"pressure_hpa"`
	VisibilityM      int     `json:"visibility_m"`
	ConditionCode    string  `json:"condition_code"`
	ConditionMain    string  `json:"condition_main"`
	Description      string  `json:"description"`
	SunriseEpoch     int64   `json:"sunrise_epoch"`
	SunsetEpoch      int64   `json:"sunset_epoch"`
}

// Weather is the result of a single current-conditions lookup.
// Cached is set when the upstream lookup failed and Location came from the
// last-known record; Current is then empty.
type Weather struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
	Cached   bool              `json:"cached"`
	Country  *Country          `json:"country,omitempty"`
}

// Country is the display name and flag for an ISO 3166-1 alpha-2 code.
type Country struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	FlagURL string `json:"flag_url"`
}

// SavedLocation is the last-known location record kept in the preference store.
type SavedLocation struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
}

// NewSavedLocation converts a resolved location into its cached form.
func NewSavedLocation(loc Location) SavedLocation {
	return SavedLocation{
		Lat:     loc.Latitude,
		Lon:     loc.Longitude,
		Name:    loc.DisplayName,
		Country: loc.CountryCode,
	}
}

// Location converts the cached record back into a Location. The timezone
// offset is not cached and is left at zero.
func (s SavedLocation) Location() Location {
	return Location{
		Latitude:    s.Lat,
		Longitude:   s.Lon,
		DisplayName: s.Name,
		CountryCode: s.Country,
	}
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme named by s, or ok=false when s is not a known theme.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return ThemeLight, false
}
