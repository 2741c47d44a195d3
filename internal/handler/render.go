package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
)

var compassPoints = []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// iconAssets maps OWM condition codes to the dashboard's icon set.
var iconAssets = map[string]string{
	"01d": "sun.svg",
	"01n": "moon.svg",
	"02d": "cloudy.svg",
	"02n": "cloudy.svg",
	"03d": "cloudy.svg",
	"03n": "cloudy.svg",
	"04d": "cloudy.svg",
	"04n": "cloudy.svg",
	"09d": "rain.svg",
	"09n": "rain.svg",
	"10d": "rain.svg",
	"10n": "rain.svg",
	"11d": "storm.svg",
	"11n": "storm.svg",
	"13d": "snow.svg",
	"13n": "snow.svg",
	"50d": "haze.svg",
	"50n": "haze.svg",
}

const defaultIconAsset = "default.svg"

// sceneTypes groups OWM "main" conditions into the dashboard's backdrops.
var sceneTypes = map[string]string{
	"clear":        "clear",
	"clouds":       "clouds",
	"rain":         "rain",
	"drizzle":      "rain",
	"thunderstorm": "thunderstorm",
	"snow":         "snow",
	"mist":         "mist",
	"fog":          "mist",
	"haze":         "haze",
	"dust":         "haze",
	"smoke":        "haze",
	"sand":         "haze",
	"ash":          "haze",
	"squall":       "storm",
	"tornado":      "storm",
}

const defaultScene = "default"

// Scene is the backdrop chosen for the current conditions.
type Scene struct {
	Type  string `json:"type"`
	Night bool   `json:"night"`
}

// ClassifyScene maps an OWM condition group and icon code to a Scene. Icons
// ending in "n" are night variants.
func ClassifyScene(conditionMain, iconCode string) Scene {
	t, ok := sceneTypes[strings.ToLower(strings.TrimSpace(conditionMain))]
	if !ok {
		t = defaultScene
	}
	return Scene{Type: t, Night: strings.HasSuffix(iconCode, "n")}
}

func (s Scene) String() string {
	if s.Night {
		return s.Type + ", night"
	}
	return s.Type
}

// WindDirection converts degrees to a 16-point compass label.
func WindDirection(deg int) string {
	d := math.Mod(float64(deg), 360)
	if d < 0 {
		d += 360
	}
	return compassPoints[int(math.Round(d/22.5))%len(compassPoints)]
}

// IconAsset returns the icon file for an OWM condition code.
func IconAsset(code string) string {
	if asset, ok := iconAssets[code]; ok {
		return asset
	}
	return defaultIconAsset
}

// FormatLocalTime renders epoch as a 12-hour clock time at the given UTC offset.
func FormatLocalTime(epoch int64, offsetSeconds int) string {
	return localTime(epoch, offsetSeconds).Format("3:04 PM")
}

func localTime(epoch int64, offsetSeconds int) time.Time {
	return time.Unix(epoch, 0).In(time.FixedZone("", offsetSeconds))
}

func dayLabel(i int, t time.Time) string {
	switch i {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	return t.Format("Mon")
}

// RenderText writes a terminal dashboard for snap.
func RenderText(w io.Writer, snap *Snapshot) error {
	loc := snap.Weather.Location
	cur := snap.Weather.Current
	offset := loc.TimezoneOffsetSeconds

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(tw, format, args...)
	}

	header := loc.DisplayName
	if loc.CountryCode != "" {
		header += ", " + loc.CountryCode
	}
	if snap.Weather.Cached {
		header += "  (offline, last known location)"
	}
	p("%s\t[%s theme]\n", header, snap.Theme)
	p("%.4f, %.4f\n", loc.Latitude, loc.Longitude)
	if c := snap.Weather.Country; c != nil {
		p("%s\t%s\n", c.Name, c.FlagURL)
	}
	p("\n")

	if !snap.Weather.Cached {
		p("Now\t%.1f°C\tfeels like %.1f°C\t%s (%s)\n", cur.TemperatureC, cur.FeelsLikeC, cur.Description, IconAsset(cur.ConditionCode))
		p("Sky\t%s\n", snap.Scene)
		p("Humidity\t%d%%\tPressure %d hPa\tVisibility %.1f km\n", cur.HumidityPct, cur.PressureHPa, float64(cur.VisibilityM)/1000)
		p("Wind\t%.1f m/s\t%s\n", cur.WindSpeedMs, WindDirection(cur.WindDirectionDeg))
		p("Sunrise\t%s\tSunset %s\n\n", FormatLocalTime(cur.SunriseEpoch, offset), FormatLocalTime(cur.SunsetEpoch, offset))
	}

	f := snap.Forecast
	if len(f.Hourly) > 0 {
		p("Hourly (%s)\n", f.Tier)
		for _, h := range f.Hourly {
			p("  %s\t%.0f°\t%.0f%%\t%s\t%s\n", localTime(h.Epoch, offset).Format("15:00"),
				h.TemperatureC, h.PrecipitationProbability*100, h.Description, IconAsset(h.ConditionCode))
		}
		p("\n")
	}

	if len(f.Daily) > 0 {
		p("Daily (%s)\n", f.Tier)
		for i, d := range f.Daily {
			t := localTime(d.Epoch, offset)
			p("  %s\t%s\t%.0f°\t%.0f°\t%s\t%s\n", dayLabel(i, t), t.Format("Jan 2"),
				d.TemperatureMaxC, d.TemperatureMinC, d.Description, IconAsset(d.ConditionCode))
		}
		p("\n")
	}

	if len(f.Hourly) == 0 && len(f.Daily) == 0 {
		p("Forecast unavailable\n\n")
	}

	if len(f.Alerts) > 0 {
		p("Alerts\n")
		for _, a := range f.Alerts {
			p("  [%s]\t%s\tSource: %s\n", strings.ToUpper(string(a.SeverityTier)), a.EventName, a.SenderName)
			p("  \t%s - %s\n", localTime(a.StartEpoch, offset).Format("Jan 2 3:04 PM"), localTime(a.EndEpoch, offset).Format("Jan 2 3:04 PM"))
			if a.Description != "" {
				p("  \t%s\n", strings.TrimSpace(a.Description))
			}
		}
	}

	return tw.Flush()
}

// RenderJSON writes snap in the standard response envelope.
func RenderJSON(w io.Writer, snap *Snapshot) error {
	return writeJSON(w, model.Response{Data: snap, Message: "Success"})
}

// RenderError writes err in the standard response envelope.
func RenderError(w io.Writer, err error) error {
	return writeJSON(w, model.ErrorResponse(err.Error()))
}

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
		return err
	}
	return nil
}
