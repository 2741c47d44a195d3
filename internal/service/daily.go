package service

import (
	"time"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// Local hours whose condition best represents a whole day.
const (
	middayStartHour = 11
	middayEndHour   = 14
)

type dayKey struct {
	year, yearDay int
}

// groupDaily folds 3-hour feed entries into one DailyPoint per local calendar
// day. Days are emitted in the order they are first seen, so entries must be
// sorted by time.
func groupDaily(entries []model.PeriodicForecastEntry, offsetSeconds int) []model.DailyPoint {
	zone := time.FixedZone("", offsetSeconds)
	days := make([]model.DailyPoint, 0)
	index := make(map[dayKey]int)

	for _, e := range entries {
		local := time.Unix(e.Dt, 0).In(zone)
		key := dayKey{local.Year(), local.YearDay()}
		cond := model.FirstCondition(e.Weather)

		i, ok := index[key]
		if !ok {
			index[key] = len(days)
			days = append(days, model.DailyPoint{
				Epoch:           e.Dt,
				TemperatureMinC: e.Main.Temp,
				TemperatureMaxC: e.Main.Temp,
				ConditionCode:   cond.Icon,
				Description:     cond.Description,
			})
			continue
		}

		day := &days[i]
		if e.Main.Temp < day.TemperatureMinC {
			day.TemperatureMinC = e.Main.Temp
		}
		if e.Main.Temp > day.TemperatureMaxC {
			day.TemperatureMaxC = e.Main.Temp
		}
		if h := local.Hour(); h >= middayStartHour && h <= middayEndHour {
			day.ConditionCode = cond.Icon
			day.Description = cond.Description
		}
	}
	return days
}
