package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ceulain/sunshine-core/internal/infrastructure/config"
)

const testAPIKey = "test-key"

func newTestClient(baseURL string) *Client {
	return NewClient(config.WeatherConfig{
		APIKey:  testAPIKey,
		BaseURL: baseURL + "/",
		Timeout: 5,
	})
}

func TestFetchForecastSuccess(t *testing.T) {
	body := forecastJSON("Mountain View", jan05Noon, 7)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != forecastPath {
			t.Errorf("path = %s, want %s", r.URL.Path, forecastPath)
		}
		q := r.URL.Query()
		want := map[string]string{"q": "94043", "mode": "json", "units": "imperial", "cnt": "7", "appid": testAPIKey}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("query %s = %q, want %q", k, got, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body) //nolint:errcheck // test server
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).FetchForecast(context.Background(), "94043", "imperial", 7)
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	if string(got) != string(body) {
		t.Error("FetchForecast() did not return the body unchanged")
	}
}

func TestFetchForecastAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantMsg string
	}{
		{"not found", http.StatusNotFound, APIError{Cod: "404", Message: "city not found"}, "HTTP 404: city not found"},
		{"unauthorized", http.StatusUnauthorized, APIError{Cod: 401, Message: "Invalid API key"}, "HTTP 401: Invalid API key"},
		{"server error", http.StatusInternalServerError, "internal server error", "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if s, ok := tt.body.(string); ok {
					w.Write([]byte(s)) //nolint:errcheck // test server
					return
				}
				json.NewEncoder(w).Encode(tt.body) //nolint:errcheck // test server
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).FetchForecast(context.Background(), "nowhere", "metric", 14)
			if !errors.Is(err, ErrFetchFailed) {
				t.Fatalf("FetchForecast() error = %v, want ErrFetchFailed", err)
			}
			if !strings.HasSuffix(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want suffix %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFetchForecastNoAPIKey(t *testing.T) {
	client := NewClient(config.WeatherConfig{BaseURL: "http://127.0.0.1:1", Timeout: 1})
	if _, err := client.FetchForecast(context.Background(), "94043", "metric", 1); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("FetchForecast() error = %v, want ErrNoAPIKey", err)
	}
}

func TestFetchForecastContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).FetchForecast(ctx, "94043", "metric", 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FetchForecast() error = %v, want context.Canceled", err)
	}
}
