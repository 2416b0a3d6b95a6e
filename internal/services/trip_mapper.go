package services

import (
	"fmt"
	"time"

	"aitravel/internal/itinerary"
	"aitravel/internal/models/db_models"
	"aitravel/internal/models/response_models"
	"aitravel/pkg/utils"

	"github.com/google/uuid"
)

// planFromTrip converts stored days into the builder's plan shape.
func planFromTrip(trip *db_models.Trip) itinerary.Plan {
	plan := itinerary.Plan{
		Title:       trip.Title,
		Destination: trip.Destination,
		StartDate:   utils.FormatDate(trip.StartDate),
		EndDate:     utils.FormatDate(trip.EndDate),
		Budget:      trip.Budget,
		Travelers:   trip.Travelers,
		Days:        make([]itinerary.Day, 0, len(trip.Days)),
	}
	for _, d := range trip.Days {
		day := itinerary.Day{
			Number:     d.DayNumber,
			Date:       utils.FormatDate(d.Date),
			Title:      d.Title,
			Activities: make([]itinerary.Activity, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, itinerary.Activity{
				ID:          a.ID.String(),
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Latitude:    a.Latitude,
				Longitude:   a.Longitude,
				Category:    a.Category,
				Order:       a.Order,
			})
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

// ownedActivityIDs lists the activity row ids the trip currently has.
func ownedActivityIDs(trip *db_models.Trip) map[uuid.UUID]bool {
	owned := make(map[uuid.UUID]bool)
	for _, d := range trip.Days {
		for _, a := range d.Activities {
			owned[a.ID] = true
		}
	}
	return owned
}

// daysFromPlan builds rows for a plan. Row ids are derived from the trip id
// so writing the same plan twice yields the same rows. Activity ids are kept
// only when owned already holds them. Order follows list position.
func daysFromPlan(tripID uuid.UUID, plan itinerary.Plan, owned map[uuid.UUID]bool) ([]db_models.TripDay, error) {
	days := make([]db_models.TripDay, 0, len(plan.Days))
	seen := make(map[uuid.UUID]bool)
	for i, d := range plan.Days {
		date, err := utils.ParseDate(d.Date)
		if err != nil {
			return nil, err
		}
		title := d.Title
		if title == "" {
			title = itinerary.DefaultDayTitle(i + 1)
		}

		day := db_models.TripDay{
			DayNumber:  i + 1,
			Date:       date,
			Title:      title,
			Activities: make([]db_models.DayActivity, 0, len(d.Activities)),
		}
		day.ID = uuid.NewSHA1(tripID, []byte(fmt.Sprintf("day:%d", i+1)))
		for j, a := range d.Activities {
			id := activityRowID(tripID, a.ID, owned)
			if id == uuid.Nil || seen[id] {
				id = uuid.NewSHA1(tripID, []byte(fmt.Sprintf("day:%d:activity:%d", i+1, j)))
			}
			seen[id] = true
			category := a.Category
			if !itinerary.IsCategory(category) {
				category = itinerary.NormalizeCategory(category)
			}
			act := db_models.DayActivity{
				Time:        itinerary.NormalizeTime(a.Time),
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Latitude:    a.Latitude,
				Longitude:   a.Longitude,
				Category:    category,
				Order:       j,
			}
			act.ID = id
			day.Activities = append(day.Activities, act)
		}
		days = append(days, day)
	}
	return days, nil
}

// activityRowID keeps ids of the trip's own rows and maps any other non-empty
// id into the trip's namespace, so plans copied between trips never share keys.
func activityRowID(tripID uuid.UUID, id string, owned map[uuid.UUID]bool) uuid.UUID {
	if id == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(id); err == nil && owned[parsed] {
		return parsed
	}
	return uuid.NewSHA1(tripID, []byte("activity:"+id))
}

func toTripResponse(trip *db_models.Trip, withDays bool) *response_models.TripResponse {
	out := &response_models.TripResponse{
		ID:           trip.ID,
		Title:        trip.Title,
		Destination:  trip.Destination,
		StartDate:    datePtr(trip.StartDate),
		EndDate:      datePtr(trip.EndDate),
		Budget:       trip.Budget,
		Travelers:    trip.Travelers,
		Status:       string(trip.Status),
		Notes:        trip.Notes,
		ImageURL:     trip.ImageURL,
		DurationDays: durationDays(trip),
		CreatedAt:    utils.FormatRFC3339(trip.CreatedAt),
		UpdatedAt:    utils.FormatRFC3339(trip.UpdatedAt),
		TotalDays:    len(trip.Days),
	}
	for _, d := range trip.Days {
		out.TotalActivities += len(d.Activities)
	}
	if !withDays {
		return out
	}

	out.Days = make([]response_models.TripDayResponse, 0, len(trip.Days))
	for _, d := range trip.Days {
		day := response_models.TripDayResponse{
			ID:         d.ID,
			DayNumber:  d.DayNumber,
			Date:       datePtr(d.Date),
			Title:      d.Title,
			Activities: make([]response_models.ActivityResponse, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, response_models.ActivityResponse{
				ID:          a.ID,
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location:    a.Location,
				Latitude:    a.Latitude,
				Longitude:   a.Longitude,
				Category:    a.Category,
				Order:       a.Order,
			})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func datePtr(t *time.Time) *string {
	s := utils.FormatDate(t)
	if s == "" {
		return nil
	}
	return &s
}

func durationDays(trip *db_models.Trip) int {
	if trip.StartDate == nil || trip.EndDate == nil {
		return 0
	}
	return int(trip.EndDate.Sub(*trip.StartDate).Hours()/24) + 1
}
