package services

import (
	"errors"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/models"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

type TripService struct {
	db *database.DB
}

func NewTripService(db *database.DB) *TripService {
	return &TripService{db: db}
}

type CreateTripRequest struct {
	Title              string `json:"title"`
	DestinationCity    string `json:"destination_city"`
	DestinationCountry string `json:"destination_country"`
	StartDate          string `json:"start_date"` // YYYY-MM-DD
	EndDate            string `json:"end_date"`   // YYYY-MM-DD
	Notes              string `json:"notes,omitempty"`
}

type UpdateTripRequest struct {
	Title              *string `json:"title,omitempty"`
	DestinationCity    *string `json:"destination_city,omitempty"`
	DestinationCountry *string `json:"destination_country,omitempty"`
	StartDate          *string `json:"start_date,omitempty"`
	EndDate            *string `json:"end_date,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

type TripFilter struct {
	Page    int
	Limit   int
	Country string
	// 해당 날짜와 겹치는 여행만 (YYYY-MM-DD)
	ActiveOn string
	Query    string // 제목 검색
	Sort     string // -start_date, start_date, -created_at
}

type TripListResponse struct {
	Items      []models.Trip `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

const tripDateLayout = "2006-01-02"

// Create stores a new trip owned by userID
func (s *TripService) Create(userID uint, req *CreateTripRequest) (*models.Trip, error) {
	startDate, err := time.Parse(tripDateLayout, req.StartDate)
	if err != nil {
		return nil, errors.New("invalid start_date, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse(tripDateLayout, req.EndDate)
	if err != nil {
		return nil, errors.New("invalid end_date, expected YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, errors.New("end_date is before start_date")
	}

	trip := models.Trip{
		UserID:             userID,
		Title:              req.Title,
		DestinationCity:    req.DestinationCity,
		DestinationCountry: req.DestinationCountry,
		StartDate:          startDate,
		EndDate:            endDate,
		Notes:              req.Notes,
	}

	if err := s.db.Create(&trip).Error; err != nil {
		return nil, err
	}

	return &trip, nil
}

// List retrieves the user's trips with filtering and pagination
func (s *TripService) List(userID uint, filter *TripFilter) (*TripListResponse, error) {
	// 페이지 파라미터 보정
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	var trips []models.Trip
	var total int64

	query := s.db.Model(&models.Trip{}).Where("user_id = ?", userID)

	if filter.Country != "" {
		query = query.Where("destination_country ILIKE ?", filter.Country)
	}
	if filter.ActiveOn != "" {
		if day, err := time.Parse(tripDateLayout, filter.ActiveOn); err == nil {
			query = query.Where("start_date <= ? AND end_date >= ?", day, day)
		}
	}
	if filter.Query != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Query+"%")
	}

	query.Count(&total)

	switch filter.Sort {
	case "start_date":
		query = query.Order("start_date ASC")
	case "-created_at":
		query = query.Order("created_at DESC")
	default:
		// 기본: 다가오는 여행 우선
		query = query.Order("start_date DESC")
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Offset(offset).Limit(filter.Limit).Find(&trips).Error; err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &TripListResponse{
		Items:      trips,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetByID retrieves one of the user's trips
func (s *TripService) GetByID(userID, id uint) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// Update applies partial changes to one of the user's trips
func (s *TripService) Update(userID, id uint, req *UpdateTripRequest) (*models.Trip, error) {
	trip, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.DestinationCity != nil {
		trip.DestinationCity = *req.DestinationCity
	}
	if req.DestinationCountry != nil {
		trip.DestinationCountry = *req.DestinationCountry
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(tripDateLayout, *req.StartDate)
		if err != nil {
			return nil, errors.New("invalid start_date, expected YYYY-MM-DD")
		}
		trip.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(tripDateLayout, *req.EndDate)
		if err != nil {
			return nil, errors.New("invalid end_date, expected YYYY-MM-DD")
		}
		trip.EndDate = endDate
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}

	if trip.EndDate.Before(trip.StartDate) {
		return nil, errors.New("end_date is before start_date")
	}

	if err := s.db.Save(trip).Error; err != nil {
		return nil, err
	}

	return trip, nil
}

// Delete soft deletes one of the user's trips
func (s *TripService) Delete(userID, id uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Trip{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTripNotFound
	}
	return nil
}
