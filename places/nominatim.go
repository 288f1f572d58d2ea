package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yaounde-maps/map-api/models"
)

const (
	// defaultNominatimBaseURL is the public OSM geocoder.
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

	nominatimTimeout = 10 * time.Second

	// userAgent identifies this service per the Nominatim usage policy.
	userAgent = "map-api/1.0"
)

// NominatimClient geocodes free-text place names, bounded to the Yaoundé
// viewbox so out-of-region matches are discarded upstream.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimClient creates a client for the given base URL. An empty
// baseURL selects the public Nominatim server.
func NewNominatimClient(baseURL string) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	return &NominatimClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: nominatimTimeout},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Search geocodes a place name within the service area. Returns nil when
// nothing was found.
func (c *NominatimClient) Search(ctx context.Context, name string) (*models.Place, error) {
	params := url.Values{}
	params.Set("q", name+", Yaoundé")
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("bounded", "1")
	params.Set("viewbox", "11.4,3.95,11.6,3.75")
	params.Set("accept-language", "fr")

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimPlace
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", results[0].Lon, err)
	}

	return &models.Place{
		Name:        results[0].Name,
		Coordinates: models.GeoPoint{Lat: lat, Lng: lng},
	}, nil
}
