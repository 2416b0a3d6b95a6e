package response_models

import "github.com/google/uuid"

type MapMarker struct {
	ActivityID uuid.UUID `json:"activity_id"`
	DayNumber  int       `json:"day_number"`
	Order      int       `json:"order"`
	Title      string    `json:"title"`
	Time       string    `json:"time"`
	Category   string    `json:"category"`
	Location   string    `json:"location,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
}

// MapLeg is the travel between two consecutive markers.
type MapLeg struct {
	From            uuid.UUID `json:"from"`
	To              uuid.UUID `json:"to"`
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds float64   `json:"duration_seconds"`
}

type TripMapResponse struct {
	TripID      uuid.UUID   `json:"trip_id"`
	Destination string      `json:"destination"`
	Markers     []MapMarker `json:"markers"`
	Legs        []MapLeg    `json:"legs,omitempty"`
}

type DestinationPin struct {
	TripID      uuid.UUID `json:"trip_id"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	StartDate   *string   `json:"start_date"`
}
