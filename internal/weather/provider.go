package weather

import (
	"context"
)

// Provider abstracts the weather data source (OpenWeatherMap).
// Lookup never returns a Go error; every failure is folded into a Failure.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, q WeatherQuery, credential string) WeatherResult
}
