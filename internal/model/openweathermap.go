package model

import "strconv"

// OpenWeatherMapCondition is an entry of the "weather" array shared by every OWM payload.
type OpenWeatherMapCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherMapError is the body OWM sends with non-2xx responses.
// cod is a string on some endpoints and a number on others.
type OpenWeatherMapError struct {
	Cod     interface{} `json:"cod"`
	Message string      `json:"message"`
}

// Code returns cod as a string, e.g. "404", or "" when absent.
func (e OpenWeatherMapError) Code() string {
	return codString(e.Cod)
}

func codString(cod interface{}) string {
	switch v := cod.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// OpenWeatherMapResponse is the /data/2.5/weather current-conditions payload.
type OpenWeatherMapResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Visibility int                       `json:"visibility"`
	Weather    []OpenWeatherMapCondition `json:"weather"`
	Timezone   int                       `json:"timezone"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Cod     interface{} `json:"cod"`
	Message string      `json:"message"`
}

// Code returns cod as a string. Some proxies answer 200 with cod "404".
func (r OpenWeatherMapResponse) Code() string {
	return codString(r.Cod)
}

// OneCallResponse is the /data/3.0/onecall combined forecast payload.
type OneCallResponse struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TimezoneOffset int     `json:"timezone_offset"`
	Hourly         []struct {
		Dt      int64                     `json:"dt"`
		Temp    float64                   `json:"temp"`
		Weather []OpenWeatherMapCondition `json:"weather"`
		Pop     float64                   `json:"pop"`
	} `json:"hourly"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather []OpenWeatherMapCondition `json:"weather"`
	} `json:"daily"`
	Alerts []struct {
		SenderName  string `json:"sender_name"`
		Event       string `json:"event"`
		Start       int64  `json:"start"`
		End         int64  `json:"end"`
		Description string `json:"description"`
	} `json:"alerts"`
}

// PeriodicForecastEntry is one 3-hour step of the /data/2.5/forecast feed.
type PeriodicForecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []OpenWeatherMapCondition `json:"weather"`
	Pop     float64                   `json:"pop"`
}

// PeriodicForecastResponse is the /data/2.5/forecast 5-day/3-hour payload.
type PeriodicForecastResponse struct {
	List []PeriodicForecastEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// FirstCondition returns the first entry of a weather array, or the zero value.
func FirstCondition(conditions []OpenWeatherMapCondition) OpenWeatherMapCondition {
	if len(conditions) == 0 {
		return OpenWeatherMapCondition{}
	}
	return conditions[0]
}
