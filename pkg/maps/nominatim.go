package maps

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
)

// NominatimProvider talks to the public OpenStreetMap geocoder. It needs no
// key, which makes it the fallback of last resort.
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimProvider(baseURL, userAgent string) *NominatimProvider {
	return &NominatimProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (n *NominatimProvider) Name() string { return "nominatim" }

type nominatimPlace struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	Error       string `json:"error"`
}

func (p nominatimPlace) location() (Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}
	return Location{Latitude: lat, Longitude: lon}, nil
}

func (p nominatimPlace) toGeocode() (GeocodeResult, error) {
	loc, err := p.location()
	if err != nil {
		return GeocodeResult{}, err
	}
	return GeocodeResult{
		PlaceID:     strconv.FormatInt(p.PlaceID, 10),
		Address:     p.DisplayName,
		Coordinates: loc,
		Types:       []string{p.Class, p.Type},
	}, nil
}

func (n *NominatimProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("limit", "5")

	var places []nominatimPlace
	if err := n.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]GeocodeResult, 0, len(places))
	for _, p := range places {
		r, err := p.toGeocode()
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	return &GeocodeResponse{Results: results}, nil
}

func (n *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 7, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', 7, 64))

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}
	// Nominatim answers 200 with an error field when nothing is there.
	if place.Error != "" {
		return &GeocodeResponse{}, nil
	}

	r, err := place.toGeocode()
	if err != nil {
		return nil, err
	}
	return &GeocodeResponse{Results: []GeocodeResult{r}}, nil
}

func (n *NominatimProvider) SearchPlaces(ctx context.Context, request *PlaceSearchRequest) (*PlaceSearchResponse, error) {
	limit := request.Limit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", request.Query)
	params.Set("limit", strconv.Itoa(limit))

	var places []nominatimPlace
	if err := n.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]PlaceResult, 0, len(places))
	for _, p := range places {
		loc, err := p.location()
		if err != nil {
			continue
		}
		name := p.Name
		if name == "" {
			name = strings.SplitN(p.DisplayName, ",", 2)[0]
		}
		results = append(results, PlaceResult{
			PlaceID:  strconv.FormatInt(p.PlaceID, 10),
			Name:     name,
			Address:  p.DisplayName,
			Location: loc,
			Types:    []string{p.Class, p.Type},
		})
	}
	return &PlaceSearchResponse{Results: results}, nil
}

func (n *NominatimProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("format", "jsonv2")
	apiURL := n.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The public instance rejects requests without an identifying agent.
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Nominatim API error: %s", string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
