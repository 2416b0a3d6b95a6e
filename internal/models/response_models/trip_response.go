package response_models

import "github.com/google/uuid"

type TripResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Destination  string    `json:"destination"`
	StartDate    *string   `json:"start_date"` // YYYY-MM-DD or null
	EndDate      *string   `json:"end_date"`
	Budget       *float64  `json:"budget"`
	Travelers    int       `json:"travelers"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	ImageURL     string    `json:"image_url"`
	DurationDays int       `json:"duration_days"` // inclusive, 0 without dates
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`

	// Quick stats
	TotalDays       int `json:"total_days"`
	TotalActivities int `json:"total_activities"`

	Days []TripDayResponse `json:"days,omitempty"`
}

type TripDayResponse struct {
	ID         uuid.UUID          `json:"id"`
	DayNumber  int                `json:"day_number"`
	Date       *string            `json:"date"`
	Title      string             `json:"title"`
	Activities []ActivityResponse `json:"activities"`
}

type ActivityResponse struct {
	ID          uuid.UUID `json:"id"`
	Time        string    `json:"time"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Category    string    `json:"category"`
	Order       int       `json:"order"`
}

type TripListResponse struct {
	Items    []TripResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
}
