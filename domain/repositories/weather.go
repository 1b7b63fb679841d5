package repositories

import "context"

// WeatherReport is the read-only weather snapshot shown next to the
// assistant. Unrelated to query dispatch.
type WeatherReport struct {
	Location     string  `json:"location"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
	Humidity     int     `json:"humidity"`
}

// WeatherProvider fetches current conditions for a location.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (WeatherReport, error)
}
