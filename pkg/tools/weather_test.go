package tools_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voicegate/voicegate/pkg/tools"
)

const owmPayload = `{
	"name": "Oslo",
	"sys": {"country": "NO"},
	"main": {"temp": 4.2, "feels_like": 1.0, "temp_min": 2.0, "temp_max": 6.0, "humidity": 81},
	"wind": {"speed": 3.4},
	"weather": [{"main": "Clouds", "description": "overcast clouds"}],
	"dt": 1700000000
}`

func TestWeatherExecute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Oslo" {
			t.Errorf("expected location Oslo, got %q", q.Get("q"))
		}
		if q.Get("units") != "metric" {
			t.Errorf("expected metric units, got %q", q.Get("units"))
		}
		if q.Get("appid") != "test-key" {
			t.Errorf("expected api key to be passed")
		}
		w.Write([]byte(owmPayload))
	}))
	defer srv.Close()

	weather := tools.NewWeather("test-key", tools.WithWeatherBaseURL(srv.URL))
	result, err := weather.Execute(context.Background(), map[string]any{"location": "Oslo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result["location"] != "Oslo, NO" {
		t.Errorf("unexpected location %v", result["location"])
	}
	temp := result["temperature"].(map[string]any)
	if temp["current"] != 4.2 || temp["unit"] != "°C" {
		t.Errorf("unexpected temperature %v", temp)
	}
	if result["conditions"] != "Clouds" {
		t.Errorf("unexpected conditions %v", result["conditions"])
	}
}

func TestWeatherExecuteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	weather := tools.NewWeather("test-key", tools.WithWeatherBaseURL(srv.URL))
	_, err := weather.Execute(context.Background(), map[string]any{"location": "Atlantis"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "city not found") {
		t.Errorf("expected API message in error, got %v", err)
	}
}

func TestWeatherDefaultLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Bergen" {
			t.Errorf("expected default location Bergen, got %q", got)
		}
		w.Write([]byte(owmPayload))
	}))
	defer srv.Close()

	weather := tools.NewWeather("test-key",
		tools.WithWeatherBaseURL(srv.URL),
		tools.WithDefaultLocation("Bergen"),
	)
	if _, err := weather.Execute(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWeatherFormat(t *testing.T) {
	weather := tools.NewWeather("test-key")
	formatted := weather.Format(map[string]any{
		"location":    "Oslo, NO",
		"description": "overcast clouds",
		"humidity":    81,
		"temperature": map[string]any{"current": 4.2, "feels_like": 1.0, "unit": "°C"},
		"wind":        map[string]any{"speed": 3.4, "unit": "m/s"},
	})

	for _, want := range []string{"Weather in Oslo, NO", "overcast clouds", "4.2°C", "81%", "3.4 m/s"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("expected %q in formatted output:\n%s", want, formatted)
		}
	}
}

func TestClock(t *testing.T) {
	clock := tools.NewClock()
	ctx := context.Background()

	t.Run("UTC timezone", func(t *testing.T) {
		result, err := clock.Execute(ctx, map[string]any{"timezone": "UTC"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result["timezone"] != "UTC" {
			t.Errorf("unexpected timezone %v", result["timezone"])
		}
	})

	t.Run("unknown timezone errors", func(t *testing.T) {
		if _, err := clock.Execute(ctx, map[string]any{"timezone": "Nowhere/Oz"}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("default local time", func(t *testing.T) {
		result, err := clock.Execute(ctx, map[string]any{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result["time"] == "" || result["date"] == "" {
			t.Errorf("expected time fields, got %v", result)
		}
	})
}
