package response_models

import "aitravel/internal/itinerary"

// ChatResponse is returned by POST /api/chat without the usual envelope.
type ChatResponse struct {
	Success      bool            `json:"success"`
	ResponseText string          `json:"responseText"`
	TripPlan     *itinerary.Plan `json:"tripPlan,omitempty"`
	Error        string          `json:"error,omitempty"`
}

type LastPlanResponse struct {
	TripPlan *itinerary.Plan `json:"tripPlan"`
}
