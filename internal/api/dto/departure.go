package dto

type DepartureRequest struct {
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	EarliestDeparture string `json:"earliest_departure"`
	LatestArrival     string `json:"latest_arrival"`
}

// DepartureOptionResponse carries both clock representations: the canonical
// 24-hour form for machine consumption and the 12-hour form for display.
type DepartureOptionResponse struct {
	DepartAt         string `json:"depart_at"`
	DepartAtDisplay  string `json:"depart_at_display"`
	ArriveAt         string `json:"arrive_at"`
	ArriveAtDisplay  string `json:"arrive_at_display"`
	DurationSeconds  int    `json:"duration_seconds"`
	DistanceMeters   int    `json:"distance_meters"`
	TrafficCondition string `json:"traffic_condition"`
}

type DepartureResponse struct {
	Optimal DepartureOptionResponse   `json:"optimal"`
	Options []DepartureOptionResponse `json:"departure_time_options"`
}

type GeocodeRequest struct {
	Address string `json:"address"`
}

type GeocodeResponse struct {
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}
