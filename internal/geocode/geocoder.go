package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zlecenia/internal/config"
)

var ErrNoMatch = errors.New("nie znaleziono lokalizacji")

type Result struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Geocoder resolves free-form Polish addresses, trying the provider first and
// falling back to the static city-center table.
type Geocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

func New(cfg config.GeocodeConfig, logger *log.Logger) *Geocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Geocoder{
		baseURL: strings.TrimRight(cfg.ProviderBaseURL, "/"),
		apiKey:  cfg.ProviderAPIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GeocodeWithFallback asks the provider, then scans the static table. The
// provider failing is not an error for callers; only a total miss is.
func (g *Geocoder) GeocodeWithFallback(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}, ErrNoMatch
	}

	if res, err := g.queryProvider(ctx, address); err == nil {
		return res, nil
	} else if g.logger != nil {
		g.logger.Printf("[Geocode] provider failed for %q, using fallback: %v", address, err)
	}

	if res, ok := FallbackCity(address); ok {
		return res, nil
	}
	return Result{}, ErrNoMatch
}

type providerHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *Geocoder) queryProvider(ctx context.Context, address string) (Result, error) {
	if g == nil || g.baseURL == "" {
		return Result{}, errors.New("geocode provider not configured")
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "pl")
	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocode provider status %d", resp.StatusCode)
	}

	var hits []providerHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Result{}, err
	}
	if len(hits) == 0 {
		return Result{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return Result{}, err
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return Result{}, err
	}
	return Result{Latitude: lat, Longitude: lng, Address: hits[0].DisplayName}, nil
}
