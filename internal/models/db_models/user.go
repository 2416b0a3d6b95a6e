package db_models

import "github.com/lib/pq"

type User struct {
	BaseModel
	FirstName         string         `gorm:"size:100;not null"`
	LastName          string         `gorm:"size:100;not null"`
	Email             string         `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string         `gorm:"not null"`
	Phone             string         `gorm:"size:32"`
	Location          string         `gorm:"size:255"`
	Bio               string         `gorm:"type:text"`
	AvatarURL         string         `gorm:"size:512"`
	TravelPreferences pq.StringArray `gorm:"type:text[]"`

	Trips          []Trip          `gorm:"foreignKey:UserID"`
	PaymentMethods []PaymentMethod `gorm:"foreignKey:UserID"`
}
