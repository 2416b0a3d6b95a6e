package db_models

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusUpcoming TripStatus = "upcoming"
	TripStatusPast     TripStatus = "past"
	TripStatusSaved    TripStatus = "saved"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusUpcoming, TripStatusPast, TripStatusSaved:
		return true
	}
	return false
}

type Trip struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	Title       string     `gorm:"size:200"`
	Destination string     `gorm:"size:200;not null"`
	StartDate   *time.Time `gorm:"type:date"`
	EndDate     *time.Time `gorm:"type:date"`
	Budget      *float64
	Travelers   int        `gorm:"not null;default:1"`
	Status      TripStatus `gorm:"size:16;index;not null"`
	Notes       string     `gorm:"type:text"`
	ImageURL    string     `gorm:"size:512"`

	Days []TripDay `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

type TripDay struct {
	BaseModel
	TripID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_trip_day_number"`
	DayNumber int        `gorm:"not null;uniqueIndex:idx_trip_day_number"`
	Date      *time.Time `gorm:"type:date"`
	Title     string     `gorm:"size:200"`

	Activities []DayActivity `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE"`
}

type DayActivity struct {
	BaseModel
	DayID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Time        string    `gorm:"size:16"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Location    string    `gorm:"size:255"`
	Latitude    *float64
	Longitude   *float64
	Category    string `gorm:"size:20;not null;default:'other'"`
	Order       int    `gorm:"column:sort_order;not null;default:0"`
}
