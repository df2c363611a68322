package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-report/internal/common"
	"github.com/i474232898/weather-report/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenWeatherURL is the OpenWeatherMap current weather endpoint.
const DefaultOpenWeatherURL = "http://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider builds a provider against baseURL. An empty baseURL
// selects DefaultOpenWeatherURL.
func NewOpenWeatherProvider(cfg HTTPClientConfig, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: baseURL,
		client:  cfg.Client,
		circuit: newBreaker("openweather", cfg.Breaker),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// object is one level of the /weather response. Values stay raw so each
// field is decoded on its own; a field of the wrong type reads as absent.
type object map[string]json.RawMessage

func (o object) object(key string) object {
	var nested object
	if err := json.Unmarshal(o[key], &nested); err != nil {
		return nil
	}
	return nested
}

func (o object) number(key string) *float64 {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func (o object) text(key string) *string {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// first returns the first element of the list under key when it is an object.
func (o object) first(key string) object {
	var items []json.RawMessage
	if err := json.Unmarshal(o[key], &items); err != nil || len(items) == 0 {
		return nil
	}
	var item object
	if err := json.Unmarshal(items[0], &item); err != nil {
		return nil
	}
	return item
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// Lookup issues a single GET for q and classifies the outcome. It never
// retries; transport errors become a "Network error" Failure.
func (p *OpenWeatherProvider) Lookup(ctx context.Context, q weather.WeatherQuery, credential string) weather.WeatherResult {
	req, err := p.buildRequest(q, credential)
	if err != nil {
		return weather.Failure{Message: fmt.Sprintf("Network error: %v", err)}
	}

	log.Printf("DEBUG: GET %s", redactURL(req.URL, "appid"))

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Failure{Message: fmt.Sprintf("Network error: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Failure{Message: fmt.Sprintf("Network error: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		message := serverMessage(body)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return weather.Failure{Message: "Invalid API key: " + message}
		case http.StatusNotFound:
			return weather.Failure{Message: "City not found: " + q.City()}
		default:
			return weather.Failure{Message: fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, message)}
		}
	}

	var payload object
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Failure{Message: "Failed to decode JSON response"}
	}

	return extractSuccess(q, payload)
}

func (p *OpenWeatherProvider) buildRequest(q weather.WeatherQuery, credential string) (*http.Request, error) {
	values := url.Values{}
	values.Set("q", q.City())
	values.Set("appid", credential)
	values.Set("units", string(q.Units()))

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	return http.NewRequest(http.MethodGet, u, nil)
}

// serverMessage pulls the "message" field out of an error body. Non-string
// messages are printed as-is.
func serverMessage(body []byte) string {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return "Invalid response from server"
	}

	fields, ok := parsed.(map[string]any)
	if !ok {
		return "Unknown error"
	}
	message, ok := fields["message"]
	if !ok {
		return "Unknown error"
	}
	if message == nil {
		return common.Missing
	}
	return fmt.Sprint(message)
}

func extractSuccess(q weather.WeatherQuery, payload object) weather.Success {
	res := weather.Success{City: q.City()}
	if name := payload.text("name"); name != nil {
		res.City = *name
	}

	readings := payload.object("main")
	res.Temperature = readings.number("temp")
	res.Pressure = readings.number("pressure")
	res.Humidity = readings.number("humidity")

	res.Description = payload.first("weather").text("description")
	res.WindSpeed = payload.object("wind").number("speed")
	return res
}
