package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aitravel/internal/itinerary"
	"aitravel/internal/models/db_models"
	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/repositories"
	"aitravel/pkg/logger"
	"aitravel/pkg/utils"

	"github.com/google/uuid"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, request request_models.CreateTripRequest) (*response_models.TripResponse, error)
	CreateTripFromPlan(ctx context.Context, userID string, plan itinerary.Plan) (*response_models.TripResponse, error)
	ListTrips(ctx context.Context, userID string, query request_models.ListTripsQuery) (*response_models.TripListResponse, error)
	GetTrip(ctx context.Context, userID, tripID string) (*response_models.TripResponse, error)
	UpdateTrip(ctx context.Context, userID, tripID string, request request_models.UpdateTripRequest) (*response_models.TripResponse, error)
	DeleteTrip(ctx context.Context, userID, tripID string) error

	SaveItinerary(ctx context.Context, userID, tripID string, days []itinerary.Day) (*response_models.TripResponse, error)
	MoveActivity(ctx context.Context, userID, tripID string, request request_models.MoveActivityRequest) (*response_models.TripResponse, error)
	AddDay(ctx context.Context, userID, tripID, title string) (*response_models.TripResponse, error)
	RemoveDay(ctx context.Context, userID, tripID string, dayNumber int) (*response_models.TripResponse, error)
	AddActivity(ctx context.Context, userID, tripID string, dayNumber int, request request_models.AddActivityRequest) (*response_models.TripResponse, error)
	UpdateActivity(ctx context.Context, userID, tripID string, dayNumber int, activityID string, patch itinerary.ActivityPatch) (*response_models.TripResponse, error)
	RemoveActivity(ctx context.Context, userID, tripID string, dayNumber int, activityID string) (*response_models.TripResponse, error)
}

type TripService struct {
	tripRepo repositories.TripRepository
	now      func() time.Time
}

func NewTripService(tripRepo repositories.TripRepository) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
		now:      time.Now,
	}
}

// DeriveStatus picks a status for a trip created without one: saved when it
// has no dates, past when it ended before today, upcoming otherwise.
func DeriveStatus(start, end *time.Time, now time.Time) db_models.TripStatus {
	if start == nil && end == nil {
		return db_models.TripStatusSaved
	}
	last := end
	if last == nil {
		last = start
	}
	if last.Before(utils.StartOfDay(now)) {
		return db_models.TripStatusPast
	}
	return db_models.TripStatusUpcoming
}

func (s *TripService) CreateTrip(ctx context.Context, userID string, request request_models.CreateTripRequest) (*response_models.TripResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrNotAuthenticated
	}
	destination := strings.TrimSpace(request.Destination)
	if destination == "" {
		return nil, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}

	start, end, err := parseDateRange(request.StartDate, request.EndDate)
	if err != nil {
		return nil, err
	}

	trip := &db_models.Trip{
		UserID:      uid,
		Title:       strings.TrimSpace(request.Title),
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      request.Budget,
		Travelers:   1,
		Notes:       request.Notes,
		ImageURL:    strings.TrimSpace(request.ImageURL),
		Days: []db_models.TripDay{
			{DayNumber: 1, Date: start, Title: itinerary.DefaultDayTitle(1)},
		},
	}
	if trip.Title == "" {
		trip.Title = "Trip to " + destination
	}
	if request.Travelers != nil {
		trip.Travelers = *request.Travelers
	}
	trip.Status = db_models.TripStatus(request.Status)
	if !trip.Status.Valid() {
		trip.Status = DeriveStatus(start, end, s.now())
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	logger.Log.Infow("trip created", "trip_id", trip.ID, "user_id", userID, "status", trip.Status)
	return toTripResponse(trip, true), nil
}

func (s *TripService) CreateTripFromPlan(ctx context.Context, userID string, plan itinerary.Plan) (*response_models.TripResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrNotAuthenticated
	}

	destination := strings.TrimSpace(plan.Destination)
	if destination == "" {
		destination = strings.TrimSpace(plan.Title)
	}
	if destination == "" {
		return nil, fmt.Errorf("%w: plan has no destination", utils.ErrInvalidInput)
	}

	start, end, err := parseDateRange(plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, err
	}

	if len(plan.Days) == 0 {
		plan = itinerary.AddDay(plan, "")
	}
	tripUUID := uuid.New()
	days, err := daysFromPlan(tripUUID, itinerary.Renumber(plan), nil)
	if err != nil {
		return nil, err
	}

	trip := &db_models.Trip{
		UserID:      uid,
		Title:       strings.TrimSpace(plan.Title),
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      plan.Budget,
		Travelers:   plan.Travelers,
		Status:      DeriveStatus(start, end, s.now()),
		Days:        days,
	}
	trip.ID = tripUUID
	if trip.Title == "" {
		trip.Title = "Trip to " + destination
	}
	if trip.Travelers < 1 {
		trip.Travelers = 1
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	logger.Log.Infow("trip created from plan", "trip_id", trip.ID, "user_id", userID, "days", len(days))
	return toTripResponse(trip, true), nil
}

func (s *TripService) ListTrips(ctx context.Context, userID string, query request_models.ListTripsQuery) (*response_models.TripListResponse, error) {
	filter := repositories.TripFilter{Status: query.Status, Page: query.Page, PageSize: query.PageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	trips, total, err := s.tripRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := &response_models.TripListResponse{
		Items:    make([]response_models.TripResponse, 0, len(trips)),
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	}
	for i := range trips {
		out.Items = append(out.Items, *toTripResponse(&trips[i], false))
	}
	return out, nil
}

func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*response_models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, userID, tripID, true)
	if err != nil {
		return nil, err
	}
	return toTripResponse(trip, true), nil
}

func (s *TripService) UpdateTrip(ctx context.Context, userID, tripID string, request request_models.UpdateTripRequest) (*response_models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, userID, tripID, true)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		trip.Title = strings.TrimSpace(*request.Title)
	}
	if request.Destination != nil {
		d := strings.TrimSpace(*request.Destination)
		if d == "" {
			return nil, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
		}
		trip.Destination = d
	}
	if request.StartDate != nil {
		if trip.StartDate, err = utils.ParseDate(*request.StartDate); err != nil {
			return nil, err
		}
	}
	if request.EndDate != nil {
		if trip.EndDate, err = utils.ParseDate(*request.EndDate); err != nil {
			return nil, err
		}
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return nil, utils.ErrInvalidDateRange
	}
	if request.Budget != nil {
		trip.Budget = request.Budget
	}
	if request.Travelers != nil {
		trip.Travelers = *request.Travelers
	}
	if request.Status != nil {
		trip.Status = db_models.TripStatus(*request.Status)
	}
	if request.Notes != nil {
		trip.Notes = *request.Notes
	}
	if request.ImageURL != nil {
		trip.ImageURL = strings.TrimSpace(*request.ImageURL)
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toTripResponse(trip, true), nil
}

func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	found, err := s.tripRepo.DeleteForUser(ctx, tripID, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !found {
		return utils.ErrTripNotFound
	}
	logger.Log.Infow("trip deleted", "trip_id", tripID, "user_id", userID)
	return nil
}

// SaveItinerary overwrites every day and activity of the trip. Saving the
// same days twice leaves the same rows.
func (s *TripService) SaveItinerary(ctx context.Context, userID, tripID string, days []itinerary.Day) (*response_models.TripResponse, error) {
	for _, d := range days {
		for _, a := range d.Activities {
			if strings.TrimSpace(a.Title) == "" {
				return nil, fmt.Errorf("%w: every activity needs a title", utils.ErrInvalidInput)
			}
		}
	}

	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		plan.Days = days
		return plan, nil
	})
}

func (s *TripService) MoveActivity(ctx context.Context, userID, tripID string, request request_models.MoveActivityRequest) (*response_models.TripResponse, error) {
	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		return itinerary.MoveActivity(plan, request.FromDay-1, request.ActivityID, request.ToDay-1, request.Position), nil
	})
}

func (s *TripService) AddDay(ctx context.Context, userID, tripID, title string) (*response_models.TripResponse, error) {
	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		return itinerary.AddDay(plan, title), nil
	})
}

func (s *TripService) RemoveDay(ctx context.Context, userID, tripID string, dayNumber int) (*response_models.TripResponse, error) {
	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		if dayNumber < 1 || dayNumber > len(plan.Days) {
			return plan, utils.ErrDayNotFound
		}
		return itinerary.RemoveDay(plan, dayNumber-1), nil
	})
}

func (s *TripService) AddActivity(ctx context.Context, userID, tripID string, dayNumber int, request request_models.AddActivityRequest) (*response_models.TripResponse, error) {
	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		if dayNumber < 1 || dayNumber > len(plan.Days) {
			return plan, utils.ErrDayNotFound
		}
		return itinerary.AddActivity(plan, dayNumber-1, itinerary.Activity{
			ID:          uuid.NewString(),
			Time:        request.Time,
			Title:       request.Title,
			Description: request.Description,
			Location:    request.Location,
			Latitude:    request.Latitude,
			Longitude:   request.Longitude,
			Category:    request.Category,
		}), nil
	})
}

func (s *TripService) UpdateActivity(ctx context.Context, userID, tripID string, dayNumber int, activityID string, patch itinerary.ActivityPatch) (*response_models.TripResponse, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", utils.ErrInvalidInput)
	}
	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		if err := requireActivity(plan, dayNumber, activityID); err != nil {
			return plan, err
		}
		return itinerary.UpdateActivity(plan, dayNumber-1, activityID, patch), nil
	})
}

func (s *TripService) RemoveActivity(ctx context.Context, userID, tripID string, dayNumber int, activityID string) (*response_models.TripResponse, error) {
	return s.mutate(ctx, userID, tripID, func(plan itinerary.Plan) (itinerary.Plan, error) {
		if err := requireActivity(plan, dayNumber, activityID); err != nil {
			return plan, err
		}
		return itinerary.RemoveActivity(plan, dayNumber-1, activityID), nil
	})
}

// mutate loads the trip's plan, applies edit and writes the result back as a
// full itinerary replacement.
func (s *TripService) mutate(ctx context.Context, userID, tripID string, edit func(itinerary.Plan) (itinerary.Plan, error)) (*response_models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, userID, tripID, true)
	if err != nil {
		return nil, err
	}

	plan, err := edit(planFromTrip(trip))
	if err != nil {
		return nil, err
	}

	days, err := daysFromPlan(trip.ID, plan, ownedActivityIDs(trip))
	if err != nil {
		return nil, err
	}
	if err := s.tripRepo.ReplaceItinerary(ctx, trip.ID, days); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	trip.Days = days
	return toTripResponse(trip, true), nil
}

func (s *TripService) loadTrip(ctx context.Context, userID, tripID string, withItinerary bool) (*db_models.Trip, error) {
	trip, err := s.tripRepo.FindByIDForUser(ctx, tripID, userID, withItinerary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func requireActivity(plan itinerary.Plan, dayNumber int, activityID string) error {
	if dayNumber < 1 || dayNumber > len(plan.Days) {
		return utils.ErrDayNotFound
	}
	for _, a := range plan.Days[dayNumber-1].Activities {
		if a.ID == activityID {
			return nil
		}
	}
	return utils.ErrActivityNotFound
}

func parseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	start, err := utils.ParseDate(startStr)
	if err != nil {
		return nil, nil, err
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, utils.ErrInvalidDateRange
	}
	return start, end, nil
}
