package services

import (
	"context"
	"fmt"

	"aitravel/internal/models/db_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/repositories"
	"aitravel/pkg/logger"
	"aitravel/pkg/utils"
)

const destinationPageSize = 100

type MapServiceInterface interface {
	TripMap(ctx context.Context, userID, tripID string) (*response_models.TripMapResponse, error)
	Destinations(ctx context.Context, userID string) ([]response_models.DestinationPin, error)
}

type MapService struct {
	tripRepo repositories.TripRepository
	matrix   DistanceMatrixService
}

// NewMapService accepts a nil matrix; trip maps then carry no legs.
func NewMapService(tripRepo repositories.TripRepository, matrix DistanceMatrixService) MapServiceInterface {
	return &MapService{
		tripRepo: tripRepo,
		matrix:   matrix,
	}
}

func (m *MapService) TripMap(ctx context.Context, userID, tripID string) (*response_models.TripMapResponse, error) {
	trip, err := m.tripRepo.FindByIDForUser(ctx, tripID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	out := &response_models.TripMapResponse{
		TripID:      trip.ID,
		Destination: trip.Destination,
		Markers:     markersFor(trip),
	}
	if m.matrix == nil || len(out.Markers) < 2 {
		return out, nil
	}

	points := make([]MatrixPoint, len(out.Markers))
	for i, mk := range out.Markers {
		points[i] = MatrixPoint{Lat: mk.Latitude, Lng: mk.Longitude}
	}
	edges, err := m.matrix.ComputeLegs(ctx, points)
	if err != nil {
		// the map is still useful without distances
		logger.Log.Warnw("distance matrix failed", "trip_id", trip.ID, "error", err)
		return out, nil
	}
	for i, e := range edges {
		if !e.Found || i+1 >= len(out.Markers) {
			continue
		}
		out.Legs = append(out.Legs, response_models.MapLeg{
			From:            out.Markers[i].ActivityID,
			To:              out.Markers[i+1].ActivityID,
			DistanceMeters:  e.DistanceMeters,
			DurationSeconds: e.DurationSeconds,
		})
	}
	return out, nil
}

func (m *MapService) Destinations(ctx context.Context, userID string) ([]response_models.DestinationPin, error) {
	pins := make([]response_models.DestinationPin, 0)
	for page := 1; ; page++ {
		trips, total, err := m.tripRepo.ListByUser(ctx, userID, repositories.TripFilter{Page: page, PageSize: destinationPageSize})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		for i := range trips {
			t := &trips[i]
			pins = append(pins, response_models.DestinationPin{
				TripID:      t.ID,
				Title:       t.Title,
				Destination: t.Destination,
				Status:      string(t.Status),
				StartDate:   datePtr(t.StartDate),
			})
		}
		if len(trips) == 0 || int64(len(pins)) >= total {
			return pins, nil
		}
	}
}

// markersFor lists activities with coordinates in day, then order sequence.
// Days and activities arrive sorted from the repository.
func markersFor(trip *db_models.Trip) []response_models.MapMarker {
	markers := make([]response_models.MapMarker, 0)
	for _, d := range trip.Days {
		for _, a := range d.Activities {
			if a.Latitude == nil || a.Longitude == nil {
				continue
			}
			markers = append(markers, response_models.MapMarker{
				ActivityID: a.ID,
				DayNumber:  d.DayNumber,
				Order:      a.Order,
				Title:      a.Title,
				Time:       a.Time,
				Category:   a.Category,
				Location:   a.Location,
				Latitude:   *a.Latitude,
				Longitude:  *a.Longitude,
			})
		}
	}
	return markers
}
