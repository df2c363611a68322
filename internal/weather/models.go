package weather

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Units is the measurement system requested from the provider.
type Units string

const (
	UnitsMetric Units = "metric"
)

// ErrEmptyCity is returned when the city name is blank after trimming.
var ErrEmptyCity = errors.New("city name must not be empty")

var validate = validator.New()

// WeatherQuery is the normalized request unit: a city plus the unit system.
// It is immutable once built by NewQuery.
type WeatherQuery struct {
	city  string
	units Units
}

type queryFields struct {
	City string `validate:"required"`
}

// NewQuery trims city and builds a metric query.
func NewQuery(city string) (WeatherQuery, error) {
	f := queryFields{City: strings.TrimSpace(city)}
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return WeatherQuery{}, ErrEmptyCity
		}
		return WeatherQuery{}, err
	}
	return WeatherQuery{city: f.City, units: UnitsMetric}, nil
}

func (q WeatherQuery) City() string { return q.city }

func (q WeatherQuery) Units() Units { return q.units }

// WeatherResult is the outcome of a single lookup. It is either Success or
// Failure; no other type implements it.
type WeatherResult interface {
	weatherResult()
}

// Success carries the fields extracted from a 200 response. Pointer fields
// are nil when the upstream payload did not supply them.
type Success struct {
	City        string
	Temperature *float64
	Pressure    *float64
	Humidity    *float64
	Description *string
	WindSpeed   *float64
}

// Failure carries a user-facing message describing why the lookup failed.
type Failure struct {
	Message string
}

func (Success) weatherResult() {}
func (Failure) weatherResult() {}
