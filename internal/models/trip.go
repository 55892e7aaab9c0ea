package models

import (
	"time"
)

// Trip represents a planned trip owned by a user
// DB: trips
type Trip struct {
	BaseModel
	UserID             uint      `gorm:"column:user_id;not null;index:trips_user_id_idx" json:"user_id"`
	Title              string    `gorm:"size:200;not null" json:"title"`
	DestinationCity    string    `gorm:"column:destination_city;size:100;not null;index" json:"destination_city"`
	DestinationCountry string    `gorm:"column:destination_country;size:100;not null;index" json:"destination_country"`
	StartDate          time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate            time.Time `gorm:"column:end_date;type:date;not null" json:"end_date"`
	Notes              string    `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Trip) TableName() string {
	return "trips"
}
