package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/i474232898/weather-report/internal/common"
	"github.com/i474232898/weather-report/internal/weather"
)

const rule = "--------------------------------------"

// Report is the JSON view of a WeatherResult. Exactly one of the success
// fields or Error is meaningful, as indicated by OK.
type Report struct {
	OK          bool     `json:"ok"`
	City        string   `json:"city,omitempty"`
	Temperature *float64 `json:"temperatureC"`
	Humidity    *float64 `json:"humidityPercent"`
	Pressure    *float64 `json:"pressureHpa"`
	WindSpeed   *float64 `json:"windSpeed"`
	Description *string  `json:"description"`
	Error       string   `json:"error,omitempty"`
}

// NewReport converts a result into its JSON view.
func NewReport(result weather.WeatherResult) Report {
	switch r := result.(type) {
	case weather.Success:
		return Report{
			OK:          true,
			City:        r.City,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			Pressure:    r.Pressure,
			WindSpeed:   r.WindSpeed,
			Description: r.Description,
		}
	case weather.Failure:
		return Report{Error: r.Message}
	default:
		return Report{Error: fmt.Sprintf("unsupported result %T", result)}
	}
}

// MarshalJSON drops the success-only fields from failure reports.
func (r Report) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return json.Marshal(struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}{false, r.Error})
	}
	type plain Report
	return json.Marshal(plain(r))
}

// Text renders the human-readable report for result.
func Text(result weather.WeatherResult) string {
	var b strings.Builder

	switch r := result.(type) {
	case weather.Success:
		fmt.Fprintf(&b, "\n📍 Weather Report for: %s\n", r.City)
		fmt.Fprintln(&b, rule)
		fmt.Fprintf(&b, "🌡 Temperature : %s °C\n", common.FormatFloat(r.Temperature))
		fmt.Fprintf(&b, "💧 Humidity    : %s %%\n", common.FormatFloat(r.Humidity))
		fmt.Fprintf(&b, "🔽 Pressure    : %s hPa\n", common.FormatFloat(r.Pressure))
		fmt.Fprintf(&b, "🌬 Wind Speed  : %s m/s\n", common.FormatFloat(r.WindSpeed))
		fmt.Fprintf(&b, "🌦 Condition   : %s\n", common.FormatString(r.Description))
	case weather.Failure:
		fmt.Fprintf(&b, "\n❌ Error: %s\n", r.Message)
	default:
		fmt.Fprintf(&b, "\n❌ Error: unsupported result %T\n", result)
	}

	return b.String()
}

// Render writes the text report for result to w.
func Render(w io.Writer, result weather.WeatherResult) error {
	_, err := io.WriteString(w, Text(result))
	return err
}

// RenderJSON writes the JSON report for result to w, followed by a newline.
func RenderJSON(w io.Writer, result weather.WeatherResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(result))
}
