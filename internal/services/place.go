package services

import (
	"errors"

	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPlaceNotFound = errors.New("place not found")

type PlaceService struct {
	db *database.DB
}

func NewPlaceService(db *database.DB) *PlaceService {
	return &PlaceService{db: db}
}

type PlaceFilter struct {
	Page     int
	Limit    int
	City     string
	Country  string
	Category string
	Cuisine  string // restaurant 변형 필터
	Query    string
}

type PlaceListResponse struct {
	Items      []models.Place `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// UpsertPlaceRequest is the internal catalog import payload. The variant
// block matching the category is written to its extension table.
type UpsertPlaceRequest struct {
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Address     *string  `json:"address,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Category    string   `json:"category"`
	Description *string  `json:"description,omitempty"`

	Restaurant *struct {
		Cuisine      string  `json:"cuisine"`
		PriceRange   *string `json:"price_range,omitempty"`
		OpeningHours *string `json:"opening_hours,omitempty"`
	} `json:"restaurant,omitempty"`
	ShoppingVenue *struct {
		VenueType  string  `json:"venue_type"`
		PriceLevel *string `json:"price_level,omitempty"`
	} `json:"shopping_venue,omitempty"`
}

// List retrieves catalog places with filtering and pagination
func (s *PlaceService) List(filter *PlaceFilter) (*PlaceListResponse, error) {
	// 페이지 파라미터 보정
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	var places []models.Place
	var total int64

	query := s.db.Model(&models.Place{}).
		Preload("Restaurant").
		Preload("ShoppingVenue")

	if filter.City != "" {
		query = query.Where("city ILIKE ?", filter.City)
	}
	if filter.Country != "" {
		query = query.Where("country ILIKE ?", filter.Country)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Cuisine != "" {
		query = query.Where(
			"id IN (?)",
			s.db.Model(&models.RestaurantDetail{}).Select("place_id").Where("cuisine ILIKE ?", filter.Cuisine),
		)
	}
	if filter.Query != "" {
		searchTerm := "%" + filter.Query + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&places).Error
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &PlaceListResponse{
		Items:      places,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetByID retrieves a place with its variant rows
func (s *PlaceService) GetByID(id uint) (*models.Place, error) {
	var place models.Place
	err := s.db.Preload("Restaurant").Preload("ShoppingVenue").First(&place, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return &place, nil
}

// Upsert inserts or refreshes a catalog place matched by (name, city, country).
// Variant rows follow the base record inside one transaction.
func (s *PlaceService) Upsert(req *UpsertPlaceRequest) (*models.Place, error) {
	var place models.Place

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("name = ? AND city ILIKE ? AND country ILIKE ?",
			req.Name, req.City, req.Country).First(&place).Error

		place.Name = req.Name
		place.City = req.City
		place.Country = req.Country
		place.Address = req.Address
		place.Lat = req.Lat
		place.Lng = req.Lng
		place.Category = req.Category
		place.Description = req.Description

		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			if err := tx.Create(&place).Error; err != nil {
				return err
			}
		} else if findErr != nil {
			return findErr
		} else if err := tx.Save(&place).Error; err != nil {
			return err
		}

		if req.Restaurant != nil {
			detail := models.RestaurantDetail{
				PlaceID:      place.ID,
				Cuisine:      req.Restaurant.Cuisine,
				PriceRange:   req.Restaurant.PriceRange,
				OpeningHours: req.Restaurant.OpeningHours,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "place_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"cuisine", "price_range", "opening_hours"}),
			}).Create(&detail).Error; err != nil {
				return err
			}
		}

		if req.ShoppingVenue != nil {
			detail := models.ShoppingVenueDetail{
				PlaceID:    place.ID,
				VenueType:  req.ShoppingVenue.VenueType,
				PriceLevel: req.ShoppingVenue.PriceLevel,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "place_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"venue_type", "price_level"}),
			}).Create(&detail).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(place.ID)
}
