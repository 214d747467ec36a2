// Package geo implements the outbound geocoding and routing collaborators:
// Nominatim for free-text location search and OSRM for route computation.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fleetops_backend/platform/config"
	"fleetops_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Client issues provider calls. Both operations honour context cancellation;
// a per-call timeout turns a hung provider into an ordinary provider failure.
type Client struct {
	http         *http.Client
	nominatimURL string
	osrmURL      string
	userAgent    string
	timeout      time.Duration
	limiter      *rate.Limiter
	log          *logger.Logger
}

// NewClient creates a provider client. The rate limiter keeps search traffic
// within the public Nominatim usage policy (default 1 request per second).
func NewClient(cfg config.GeoConfig, log *logger.Logger) *Client {
	timeout := cfg.GetProviderTimeout()
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	perSecond := cfg.GetGeocodeRatePerSecond()
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Client{
		http:         &http.Client{},
		nominatimURL: cfg.GetNominatimBaseURL(),
		osrmURL:      cfg.GetOSRMBaseURL(),
		userAgent:    cfg.GetGeoUserAgent(),
		timeout:      timeout,
		limiter:      rate.NewLimiter(rate.Limit(perSecond), 1),
		log:          log,
	}
}

// SearchLocations queries the geocoding provider for up to limit candidates.
// An empty result set is returned as an empty slice, not an error.
func (c *Client) SearchLocations(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classify("geocode request failed", err)
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/search?%s", c.nominatimURL, params.Encode())

	var places []nominatimPlace
	if err := c.getJSON(ctx, reqURL, &places); err != nil {
		c.log.ProviderError("nominatim", "search", err)
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(places))
	for _, place := range places {
		lat, latErr := strconv.ParseFloat(place.Lat, 64)
		lon, lonErr := strconv.ParseFloat(place.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			PlaceID:     strconv.FormatInt(place.PlaceID, 10),
			DisplayName: place.DisplayName,
			Lat:         lat,
			Lon:         lon,
		})
	}

	return suggestions, nil
}

// CalculateRoute asks the routing provider for the driving route between two
// coordinate pairs. FuelCost on the result is left zero for the caller to derive.
func (c *Client) CalculateRoute(ctx context.Context, originLat, originLon, destLat, destLon float64) (*RouteResult, error) {
	// OSRM takes lon,lat pairs.
	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.osrmURL, originLon, originLat, destLon, destLat)

	var payload osrmResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		c.log.ProviderError("osrm", "route", err)
		return nil, err
	}

	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, providerErr("No route found between the selected locations.")
	}

	route := payload.Routes[0]
	return &RouteResult{
		DistanceKm:  route.Distance / 1000,
		DurationMin: int(route.Duration/60 + 0.5),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return classify("invalid provider request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return classify("provider request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return providerErr(fmt.Sprintf("upstream api error: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return classify("failed to decode provider payload", err)
	}

	return nil
}
