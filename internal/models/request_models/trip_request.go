package request_models

import (
	"encoding/json"

	"aitravel/internal/itinerary"
)

type CreateTripRequest struct {
	Title       string   `json:"title" binding:"max=200"`
	Destination string   `json:"destination" binding:"required,max=200"`
	StartDate   string   `json:"start_date"` // YYYY-MM-DD
	EndDate     string   `json:"end_date"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0,lte=10000000"`
	Travelers   *int     `json:"travelers" binding:"omitempty,min=1,max=100"`
	Status      string   `json:"status" binding:"omitempty,oneof=upcoming past saved"`
	Notes       string   `json:"notes"`
	ImageURL    string   `json:"image_url" binding:"max=512"`
}

// UpdateTripRequest changes only the fields that are present. An empty date
// string clears the date.
type UpdateTripRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Destination *string  `json:"destination" binding:"omitempty,min=1,max=200"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0,lte=10000000"`
	Travelers   *int     `json:"travelers" binding:"omitempty,min=1,max=100"`
	Status      *string  `json:"status" binding:"omitempty,oneof=upcoming past saved"`
	Notes       *string  `json:"notes"`
	ImageURL    *string  `json:"image_url" binding:"omitempty,max=512"`
}

type ListTripsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=upcoming past saved"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type SaveItineraryRequest struct {
	Days []itinerary.Day `json:"days"`
}

// MoveActivityRequest uses 1-based day numbers.
type MoveActivityRequest struct {
	FromDay    int    `json:"from_day" binding:"required,min=1"`
	ActivityID string `json:"activity_id" binding:"required"`
	ToDay      int    `json:"to_day" binding:"required,min=1"`
	Position   int    `json:"position"`
}

type AddDayRequest struct {
	Title string `json:"title" binding:"max=200"`
}

type AddActivityRequest struct {
	Time        string   `json:"time" binding:"max=16"`
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description"`
	Location    string   `json:"location" binding:"max=255"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Category    string   `json:"category"`
}

type SetCurrentItineraryRequest struct {
	TripID string `json:"trip_id" binding:"required,uuid"`
}

type CreateTripFromPlanRequest struct {
	TripPlan json.RawMessage `json:"tripPlan" binding:"required"`
}
