package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNominatimSearch(t *testing.T) {
	var gotQuery map[string]string
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Write([]byte(`[{"lat": "3.8567", "lon": "11.5021", "name": "Marché Central", "display_name": "Marché Central, Yaoundé"}]`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL)
	place, err := client.Search(context.Background(), "Marché Central")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place == nil {
		t.Fatal("expected a place, got nil")
	}
	if place.Name != "Marché Central" {
		t.Errorf("name = %q", place.Name)
	}
	if place.Coordinates.Lat != 3.8567 || place.Coordinates.Lng != 11.5021 {
		t.Errorf("coordinates = %+v", place.Coordinates)
	}

	if gotQuery["q"] != "Marché Central, Yaoundé" {
		t.Errorf("q = %q", gotQuery["q"])
	}
	if gotQuery["viewbox"] != "11.4,3.95,11.6,3.75" || gotQuery["bounded"] != "1" {
		t.Errorf("bounding params = viewbox %q bounded %q", gotQuery["viewbox"], gotQuery["bounded"])
	}
	if gotQuery["limit"] != "1" || gotQuery["format"] != "json" {
		t.Errorf("format params = limit %q format %q", gotQuery["limit"], gotQuery["format"])
	}
	if gotUserAgent != "map-api/1.0" {
		t.Errorf("User-Agent = %q", gotUserAgent)
	}
}

func TestNominatimSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	place, err := NewNominatimClient(server.URL).Search(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place != nil {
		t.Errorf("expected nil for empty result set, got %+v", place)
	}
}

func TestNominatimSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			},
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>blocked</html>"))
			},
		},
		{
			name: "unparseable coordinates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"lat": "not-a-number", "lon": "11.5", "name": "x"}]`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			if _, err := NewNominatimClient(server.URL).Search(context.Background(), "x"); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
