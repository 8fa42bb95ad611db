package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/voicegate/voicegate/internal/httpc"
	"github.com/voicegate/voicegate/pkg/tool"
)

const defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// Weather fetches current conditions from OpenWeatherMap.
type Weather struct {
	apiKey          string
	baseURL         string
	defaultLocation string
	client          *http.Client
}

// WeatherOption configures the weather tool.
type WeatherOption func(*Weather)

// WithWeatherBaseURL overrides the API endpoint.
func WithWeatherBaseURL(u string) WeatherOption {
	return func(w *Weather) { w.baseURL = u }
}

// WithDefaultLocation sets the location used when the model omits one.
func WithDefaultLocation(loc string) WeatherOption {
	return func(w *Weather) { w.defaultLocation = loc }
}

// NewWeather creates the weather tool.
func NewWeather(apiKey string, opts ...WeatherOption) *Weather {
	w := &Weather{
		apiKey:          apiKey,
		baseURL:         defaultWeatherURL,
		defaultLocation: "San Francisco",
		client:          httpc.Client,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name implements tool.Tool.
func (w *Weather) Name() string { return "weather" }

// Description implements tool.Tool.
func (w *Weather) Description() string {
	return "Get current weather information for a location"
}

// Parameters implements tool.Tool.
func (w *Weather) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City name or location to get weather for",
			},
			"units": map[string]any{
				"type":        "string",
				"enum":        []string{"metric", "imperial"},
				"description": "Units for temperature (metric=Celsius, imperial=Fahrenheit)",
			},
		},
		"required": []string{"location"},
	}
}

// weatherResponse is the subset of the OpenWeatherMap payload we read.
type weatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

// Execute fetches current conditions for the location parameter.
func (w *Weather) Execute(ctx context.Context, params map[string]any) (map[string]any, error) {
	location, _ := params["location"].(string)
	if location == "" {
		location = w.defaultLocation
	}
	units, _ := params["units"].(string)
	if units != "imperial" {
		units = "metric"
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("units", units)
	q.Set("appid", w.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("weather API error: %s", strings.TrimSpace(string(body)))
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("weather: empty conditions in response")
	}

	tempUnit := "°C"
	windUnit := "m/s"
	if units == "imperial" {
		tempUnit = "°F"
		windUnit = "mph"
	}

	return map[string]any{
		"location": strings.TrimSuffix(data.Name+", "+data.Sys.Country, ", "),
		"temperature": map[string]any{
			"current":    data.Main.Temp,
			"feels_like": data.Main.FeelsLike,
			"min":        data.Main.TempMin,
			"max":        data.Main.TempMax,
			"unit":       tempUnit,
		},
		"humidity": data.Main.Humidity,
		"wind": map[string]any{
			"speed": data.Wind.Speed,
			"unit":  windUnit,
		},
		"conditions":  data.Weather[0].Main,
		"description": data.Weather[0].Description,
		"timestamp":   data.Dt,
	}, nil
}

// Format implements tool.Tool.
func (w *Weather) Format(result map[string]any) string {
	temp, _ := result["temperature"].(map[string]any)
	wind, _ := result["wind"].(map[string]any)
	unit := temp["unit"]

	return fmt.Sprintf(
		"Weather in %v:\n"+
			"- Conditions: %v\n"+
			"- Temperature: %v%v (feels like %v%v)\n"+
			"- Humidity: %v%%\n"+
			"- Wind: %v %v",
		result["location"],
		result["description"],
		temp["current"], unit, temp["feels_like"], unit,
		result["humidity"],
		wind["speed"], wind["unit"],
	)
}

// Verify Weather implements tool.Tool at compile time.
var _ tool.Tool = (*Weather)(nil)
