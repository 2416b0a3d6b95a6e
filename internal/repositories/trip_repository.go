package repositories

import (
	"context"
	"errors"

	dbm "aitravel/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRepository interface {
	Create(ctx context.Context, trip *dbm.Trip) error
	FindByIDForUser(ctx context.Context, id, userID string, withItinerary bool) (*dbm.Trip, error)
	ListByUser(ctx context.Context, userID string, filter TripFilter) ([]dbm.Trip, int64, error)
	Update(ctx context.Context, trip *dbm.Trip) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status dbm.TripStatus) error
	DeleteForUser(ctx context.Context, id, userID string) (bool, error)

	// ReplaceItinerary removes every day and activity of the trip and writes
	// days in their place, in one transaction.
	ReplaceItinerary(ctx context.Context, tripID uuid.UUID, days []dbm.TripDay) error
}

type TripFilter struct {
	Status   string
	Page     int
	PageSize int
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *dbm.Trip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days := trip.Days
		if err := tx.Omit(clause.Associations).Create(trip).Error; err != nil {
			return err
		}
		for i := range days {
			days[i].TripID = trip.ID
		}
		if err := insertDays(tx, days); err != nil {
			return err
		}
		trip.Days = days
		return nil
	})
}

func (r *tripRepository) FindByIDForUser(ctx context.Context, id, userID string, withItinerary bool) (*dbm.Trip, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	q := r.db.WithContext(ctx)
	if withItinerary {
		q = withDays(q)
	}

	var trip dbm.Trip
	err := q.Where("id = ? AND user_id = ?", id, userID).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListByUser(ctx context.Context, userID string, filter TripFilter) ([]dbm.Trip, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&dbm.Trip{}).Where("user_id = ?", userID)
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []dbm.Trip
	err := withDays(scoped()).
		Order("start_date IS NULL, start_date ASC, created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *dbm.Trip) error {
	return r.db.WithContext(ctx).
		Model(trip).
		Select("Title", "Destination", "StartDate", "EndDate", "Budget", "Travelers", "Status", "Notes", "ImageURL").
		Updates(trip).Error
}

func (r *tripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status dbm.TripStatus) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Trip{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *tripRepository) DeleteForUser(ctx context.Context, id, userID string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&dbm.Trip{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return wipeItinerary(tx, id)
	})
	return found, err
}

func (r *tripRepository) ReplaceItinerary(ctx context.Context, tripID uuid.UUID, days []dbm.TripDay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Wipe previous days and activities
		if err := wipeItinerary(tx, tripID.String()); err != nil {
			return err
		}

		// 2) Create days + activities
		for i := range days {
			days[i].TripID = tripID
		}
		return insertDays(tx, days)
	})
}

// wipeItinerary hard-deletes so that day numbers can be reused under the
// unique (trip_id, day_number) index.
func wipeItinerary(tx *gorm.DB, tripID string) error {
	dayIDs := tx.Unscoped().
		Model(&dbm.TripDay{}).
		Select("id").
		Where("trip_id = ?", tripID)

	if err := tx.Unscoped().
		Where("day_id IN (?)", dayIDs).
		Delete(&dbm.DayActivity{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().
		Where("trip_id = ?", tripID).
		Delete(&dbm.TripDay{}).Error
}

func insertDays(tx *gorm.DB, days []dbm.TripDay) error {
	for i := range days {
		d := &days[i]
		acts := d.Activities
		if err := tx.Omit(clause.Associations).Create(d).Error; err != nil {
			return err
		}
		if len(acts) == 0 {
			continue
		}
		for j := range acts {
			acts[j].DayID = d.ID
		}
		if err := tx.Create(&acts).Error; err != nil {
			return err
		}
		d.Activities = acts
	}
	return nil
}

func withDays(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Days.Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}
