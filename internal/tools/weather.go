package tools

import (
	"context"
	"log/slog"
)

// Forecaster fetches a current-weather forecast as raw text.
type Forecaster interface {
	Forecast(ctx context.Context, latitude, longitude float64) (string, error)
}

// NewWeatherForecast returns the weather_forecast tool. It hands back the
// forecast body unchanged, and the empty string when the service is
// unreachable.
func NewWeatherForecast(f Forecaster, latitude, longitude float64) Tool {
	return &tool{
		name:        "weather_forecast",
		description: "Fetch the current weather from Open-Meteo as raw JSON.",
		params: []Param{
			{Name: "latitude", Type: "number", Description: "Latitude of the location (defaults to the configured one)"},
			{Name: "longitude", Type: "number", Description: "Longitude of the location (defaults to the configured one)"},
		},
		run: func(ctx context.Context, p Params) Result {
			lat, err := p.Float("latitude", latitude)
			if err != nil {
				return Fail(err)
			}
			lon, err := p.Float("longitude", longitude)
			if err != nil {
				return Fail(err)
			}

			text, err := f.Forecast(ctx, lat, lon)
			if err != nil {
				slog.Warn("weather forecast failed", "latitude", lat, "longitude", lon, "error", err)
				return Ok("")
			}
			return Ok(text)
		},
	}
}
