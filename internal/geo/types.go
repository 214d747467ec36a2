package geo

// Suggestion is one geocoding candidate returned by the search provider.
// It is immutable; its lifetime is one search response.
type Suggestion struct {
	PlaceID     string  `json:"placeId"`
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// RouteResult carries the metrics of one computed route. FuelCost is derived
// by the caller when the provider does not supply it.
type RouteResult struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin int     `json:"durationMin"`
	FuelCost    float64 `json:"fuelCost"`
}

// nominatimPlace mirrors the relevant parts of the OSM search payload.
type nominatimPlace struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// osrmResponse mirrors the relevant parts of the OSRM route payload.
// Distance is meters, Duration is seconds.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}
