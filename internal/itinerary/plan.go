// Package itinerary holds the in-memory editing logic of the itinerary
// builder. Every operation works on a copy and never mutates its input.
package itinerary

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	CategoryTransport     = "transport"
	CategoryActivity      = "activity"
	CategoryFood          = "food"
	CategoryAccommodation = "accommodation"
	CategoryOther         = "other"
)

// Bounds shared with the trip request bindings.
const (
	MaxTravelers = 100
	MaxBudget    = 10_000_000
)

// newID is swapped in tests.
var newID = uuid.NewString

// Plan is the trip-plan shape shared by the builder and the chat endpoint.
type Plan struct {
	Title       string   `json:"title,omitempty"`
	Destination string   `json:"destination,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	Travelers   int      `json:"travelers,omitempty"`
	Days        []Day    `json:"days"`
}

type Day struct {
	Number     int        `json:"day"`
	Date       string     `json:"date,omitempty"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	ID          string   `json:"id"`
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Category    string   `json:"category"`
	Order       int      `json:"order"`
}

// ActivityPatch carries the fields to change; nil fields are left alone.
type ActivityPatch struct {
	Time        *string  `json:"time"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Category    *string  `json:"category"`
}

// DefaultDayTitle is the title given to days created without one.
func DefaultDayTitle(n int) string {
	return fmt.Sprintf("Day %d", n)
}

// Clone deep-copies p.
func (p Plan) Clone() Plan {
	out := p
	if p.Budget != nil {
		b := *p.Budget
		out.Budget = &b
	}
	out.Days = make([]Day, len(p.Days))
	for i, d := range p.Days {
		out.Days[i] = d.clone()
	}
	return out
}

// ActivityCount is the number of activities across all days.
func (p Plan) ActivityCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Activities)
	}
	return n
}

func (d Day) clone() Day {
	out := d
	out.Activities = make([]Activity, len(d.Activities))
	for i, a := range d.Activities {
		out.Activities[i] = a.clone()
	}
	return out
}

func (a Activity) clone() Activity {
	out := a
	if a.Latitude != nil {
		v := *a.Latitude
		out.Latitude = &v
	}
	if a.Longitude != nil {
		v := *a.Longitude
		out.Longitude = &v
	}
	return out
}

func (d Day) indexOf(activityID string) int {
	for i, a := range d.Activities {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

func renumberOrder(acts []Activity) {
	for i := range acts {
		acts[i].Order = i
	}
}
