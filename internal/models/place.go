package models

import (
	"time"

	"gorm.io/gorm"
)

// Place categories stored in places.category
const (
	PlaceCategoryRestaurant = "restaurant"
	PlaceCategoryShopping   = "shopping"
	PlaceCategoryAttraction = "attraction"
	PlaceCategoryActivity   = "activity"
)

// Place represents the shared base record for a point of interest.
// Restaurant/shopping specializations live in their own extension tables
// keyed by place_id (variant rows, not subclassing).
// DB: places
type Place struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"column:name;size:200;not null;index:idx_places_name" json:"name"`
	City        string         `gorm:"column:city;size:100;not null;index:idx_places_city" json:"city"`
	Country     string         `gorm:"column:country;size:100;not null;index:idx_places_country" json:"country"`
	Address     *string        `gorm:"column:address;type:text" json:"address,omitempty"`
	Lat         *float64       `gorm:"column:lat;type:double precision" json:"lat,omitempty"`
	Lng         *float64       `gorm:"column:lng;type:double precision" json:"lng,omitempty"`
	Category    string         `gorm:"column:category;size:30;not null;index:idx_places_category" json:"category"`
	Description *string        `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index:idx_places_deleted" json:"-"`

	// Relations (populated only for the matching category)
	Restaurant    *RestaurantDetail    `gorm:"foreignKey:PlaceID" json:"restaurant,omitempty"`
	ShoppingVenue *ShoppingVenueDetail `gorm:"foreignKey:PlaceID" json:"shopping_venue,omitempty"`
}

func (Place) TableName() string {
	return "places"
}

// RestaurantDetail is the restaurant variant row for a place
// DB: restaurant_details
type RestaurantDetail struct {
	BaseModelWithoutSoftDelete
	PlaceID      uint    `gorm:"column:place_id;not null;uniqueIndex:restaurant_details_place_id_key" json:"place_id"`
	Cuisine      string  `gorm:"column:cuisine;size:100;not null;index:idx_restaurant_cuisine" json:"cuisine"`
	PriceRange   *string `gorm:"column:price_range;size:20" json:"price_range,omitempty"`
	OpeningHours *string `gorm:"column:opening_hours;size:200" json:"opening_hours,omitempty"`
}

func (RestaurantDetail) TableName() string {
	return "restaurant_details"
}

// ShoppingVenueDetail is the shopping variant row for a place
// DB: shopping_venue_details
type ShoppingVenueDetail struct {
	BaseModelWithoutSoftDelete
	PlaceID    uint    `gorm:"column:place_id;not null;uniqueIndex:shopping_venue_details_place_id_key" json:"place_id"`
	VenueType  string  `gorm:"column:venue_type;size:100;not null;index:idx_shopping_venue_type" json:"venue_type"`
	PriceLevel *string `gorm:"column:price_level;size:20" json:"price_level,omitempty"`
}

func (ShoppingVenueDetail) TableName() string {
	return "shopping_venue_details"
}
