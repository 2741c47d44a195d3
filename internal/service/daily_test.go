package service

import (
	"testing"
	"time"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(ts time.Time, temp float64, icon, desc string) model.PeriodicForecastEntry {
	e := model.PeriodicForecastEntry{Dt: ts.Unix()}
	e.Main.Temp = temp
	e.Weather = []model.OpenWeatherMapCondition{{Icon: icon, Description: desc}}
	return e
}

func TestGroupDaily_MiddayCondition(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	entries := []model.PeriodicForecastEntry{
		entryAt(day.Add(9*time.Hour), 10, "01d", "clear sky"),
		entryAt(day.Add(12*time.Hour), 15, "10d", "light rain"),
		entryAt(day.Add(15*time.Hour), 13, "03d", "scattered clouds"),
		entryAt(day.Add(18*time.Hour), 8, "04n", "broken clouds"),
	}

	days := groupDaily(entries, 0)
	require.Len(t, days, 1)
	assert.Equal(t, 8.0, days[0].TemperatureMinC)
	assert.Equal(t, 15.0, days[0].TemperatureMaxC)
	assert.Equal(t, "10d", days[0].ConditionCode)
	assert.Equal(t, "light rain", days[0].Description)
	assert.Equal(t, entries[0].Dt, days[0].Epoch)
}

func TestGroupDaily_NoMiddayKeepsFirst(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	entries := []model.PeriodicForecastEntry{
		entryAt(day.Add(15*time.Hour), 20, "01d", "clear sky"),
		entryAt(day.Add(18*time.Hour), 18, "02n", "few clouds"),
		entryAt(day.Add(21*time.Hour), 16, "04n", "overcast"),
	}

	days := groupDaily(entries, 0)
	require.Len(t, days, 1)
	assert.Equal(t, "01d", days[0].ConditionCode)
}

func TestGroupDaily_LastMiddayEntryWins(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	entries := []model.PeriodicForecastEntry{
		entryAt(day.Add(8*time.Hour), 10, "01d", "clear sky"),
		entryAt(day.Add(11*time.Hour), 12, "02d", "few clouds"),
		entryAt(day.Add(14*time.Hour), 14, "09d", "shower rain"),
		entryAt(day.Add(17*time.Hour), 11, "01n", "clear sky"),
	}

	days := groupDaily(entries, 0)
	require.Len(t, days, 1)
	assert.Equal(t, "09d", days[0].ConditionCode)
}

func TestGroupDaily_UsesLocalCalendarDay(t *testing.T) {
	// 22:00 UTC and 01:00 UTC the next day are the same day at UTC-05:00.
	first := time.Date(2024, 5, 10, 22, 0, 0, 0, time.UTC)
	second := time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC)
	third := time.Date(2024, 5, 11, 7, 0, 0, 0, time.UTC)
	entries := []model.PeriodicForecastEntry{
		entryAt(first, 20, "01d", "clear sky"),
		entryAt(second, 17, "01n", "clear sky"),
		entryAt(third, 12, "01n", "clear sky"),
	}

	utc := groupDaily(entries, 0)
	assert.Len(t, utc, 2)

	offset := -5 * 3600
	local := groupDaily(entries, offset)
	require.Len(t, local, 2)
	assert.Equal(t, 17.0, local[0].TemperatureMinC)
	assert.Equal(t, 20.0, local[0].TemperatureMaxC)
	assert.Equal(t, 12.0, local[1].TemperatureMinC)
}

func TestGroupDaily_Invariants(t *testing.T) {
	start := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	var entries []model.PeriodicForecastEntry
	for i := 0; i < 40; i++ {
		temp := float64((i*7)%23) - 5
		entries = append(entries, entryAt(start.Add(time.Duration(i*3)*time.Hour), temp, "01d", "clear"))
	}

	offset := 3 * 3600
	zone := time.FixedZone("", offset)
	days := groupDaily(entries, offset)
	require.Len(t, days, 6)

	for i, d := range days {
		assert.LessOrEqual(t, d.TemperatureMinC, d.TemperatureMaxC)
		if i > 0 {
			assert.Greater(t, d.Epoch, days[i-1].Epoch)
			prev := time.Unix(days[i-1].Epoch, 0).In(zone)
			cur := time.Unix(d.Epoch, 0).In(zone)
			assert.NotEqual(t, prev.Format("2006-01-02"), cur.Format("2006-01-02"))
		}
	}
}

func TestGroupDaily_Empty(t *testing.T) {
	days := groupDaily(nil, 0)
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestGroupDaily_MissingWeather(t *testing.T) {
	e := model.PeriodicForecastEntry{Dt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC).Unix()}
	e.Main.Temp = 3

	days := groupDaily([]model.PeriodicForecastEntry{e}, 0)
	require.Len(t, days, 1)
	assert.Empty(t, days[0].ConditionCode)
	assert.Equal(t, 3.0, days[0].TemperatureMinC)
}
