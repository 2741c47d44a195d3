package model

// SeverityTier is the coarse classification of a weather alert.
type SeverityTier string

const (
	SeverityMinor    SeverityTier = "minor"
	SeverityModerate SeverityTier = "moderate"
	SeveritySevere   SeverityTier = "severe"
	SeverityExtreme  SeverityTier = "extreme"
)

// Tier names the upstream source that produced a Forecast.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
	TierNone     Tier = "none"
)

type HourlyPoint struct {
	Epoch                    int64   `json:"epoch"`
	TemperatureC             float64 `json:"temperature_c"`
	ConditionCode            string  `json:"condition_code"`
	Description              string  `json:"description"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
}

type DailyPoint struct {
	Epoch           int64   `json:"epoch"`
	TemperatureMinC float64 `json:"temperature_min_c"`
	TemperatureMaxC float64 `json:"temperature_max_c"`
	ConditionCode   string  `json:"condition_code"`
	Description     string  `json:"description"`
}

type AlertEvent struct {
	EventName    string       `json:"event_name"`
	SenderName   string       `json:"sender_name"`
	StartEpoch   int64        `json:"start_epoch"`
	EndEpoch     int64        `json:"end_epoch"`
	Description  string       `json:"description"`
	SeverityTier SeverityTier `json:"severity_tier"`
}

// Forecast is the normalized forecast model. Its slices are never nil.
type Forecast struct {
	Tier   Tier          `json:"tier"`
	Hourly []HourlyPoint `json:"hourly"`
	Daily  []DailyPoint  `json:"daily"`
	Alerts []AlertEvent  `json:"alerts"`
}

// EmptyForecast returns a Forecast with no data and the given tier.
func EmptyForecast(tier Tier) Forecast {
	return Forecast{
		Tier:   tier,
		Hourly: []HourlyPoint{},
		Daily:  []DailyPoint{},
		Alerts: []AlertEvent{},
	}
}
