package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type MapboxProvider struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
}

func NewMapboxProvider(accessToken string) *MapboxProvider {
	return &MapboxProvider{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     "https://api.mapbox.com",
	}
}

func (m *MapboxProvider) Name() string { return "mapbox" }

type mapboxFeature struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	PlaceName string    `json:"place_name"`
	PlaceType []string  `json:"place_type"`
	Center    []float64 `json:"center"`
}

func (m *MapboxProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	features, err := m.places(ctx, address, nil)
	if err != nil {
		return nil, err
	}
	return &GeocodeResponse{Results: featuresToGeocode(features)}, nil
}

func (m *MapboxProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	query := strconv.FormatFloat(lng, 'f', 6, 64) + "," + strconv.FormatFloat(lat, 'f', 6, 64)
	features, err := m.places(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return &GeocodeResponse{Results: featuresToGeocode(features)}, nil
}

func (m *MapboxProvider) SearchPlaces(ctx context.Context, request *PlaceSearchRequest) (*PlaceSearchResponse, error) {
	params := url.Values{}
	if request.Location.Latitude != 0 && request.Location.Longitude != 0 {
		params.Set("proximity", fmt.Sprintf("%f,%f", request.Location.Longitude, request.Location.Latitude))
	}
	if request.Limit > 0 {
		params.Set("limit", strconv.Itoa(request.Limit))
	}

	features, err := m.places(ctx, request.Query, params)
	if err != nil {
		return nil, err
	}

	results := make([]PlaceResult, 0, len(features))
	for _, feature := range features {
		name := feature.Text
		if name == "" {
			name = feature.PlaceName
		}
		results = append(results, PlaceResult{
			PlaceID: feature.ID,
			Name:    name,
			Address: feature.PlaceName,
			Location: Location{
				Latitude:  feature.Center[1],
				Longitude: feature.Center[0],
			},
			Types: feature.PlaceType,
		})
	}

	return &PlaceSearchResponse{Results: results}, nil
}

func (m *MapboxProvider) places(ctx context.Context, query string, params url.Values) ([]mapboxFeature, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", m.accessToken)

	apiURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		m.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Mapbox API error: %s", string(body))
	}

	var mapboxResp struct {
		Features []mapboxFeature `json:"features"`
	}
	if err := json.Unmarshal(body, &mapboxResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Features without a usable center are skipped.
	features := mapboxResp.Features[:0]
	for _, f := range mapboxResp.Features {
		if len(f.Center) == 2 {
			features = append(features, f)
		}
	}
	return features, nil
}

func featuresToGeocode(features []mapboxFeature) []GeocodeResult {
	results := make([]GeocodeResult, len(features))
	for i, feature := range features {
		results[i] = GeocodeResult{
			PlaceID: feature.ID,
			Address: feature.PlaceName,
			Coordinates: Location{
				Latitude:  feature.Center[1],
				Longitude: feature.Center[0],
			},
			Types: feature.PlaceType,
		}
	}
	return results
}
