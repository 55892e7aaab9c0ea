package handlers

import (
	"fmt"
	"log"

	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type InternalHandler struct {
	cfg    *config.Config
	places *services.PlaceService
}

func NewInternalHandler(db *database.DB, cfg *config.Config) *InternalHandler {
	return &InternalHandler{
		cfg:    cfg,
		places: services.NewPlaceService(db),
	}
}

func SetupInternalRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewInternalHandler(db, cfg)

	// 내부 API (catalog importer용) - API Key 인증 필요
	router.Post("/places/import", h.ImportPlaces)
}

// ImportPlacesRequest 장소 카탈로그 임포트 요청
type ImportPlacesRequest struct {
	Places []services.UpsertPlaceRequest `json:"places"`
}

// ImportPlacesResponse 장소 카탈로그 임포트 응답
type ImportPlacesResponse struct {
	ProcessedCount int      `json:"processed_count"`
	Errors         []string `json:"errors,omitempty"`
}

// ImportPlaces godoc
// @Summary Import catalog places in bulk
// @Description Importer가 수집한 장소들을 (name, city, country) 기준으로 upsert
// @Tags internal
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Internal API Key"
// @Param request body ImportPlacesRequest true "Places to upsert"
// @Success 200 {object} ImportPlacesResponse
// @Router /internal/places/import [post]
func (h *InternalHandler) ImportPlaces(c *fiber.Ctx) error {
	// API Key 검증
	apiKey := c.Get("X-API-Key")
	if apiKey == "" || apiKey != h.cfg.InternalAPIKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or missing API key",
		})
	}

	var req ImportPlacesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Places) == 0 {
		return c.JSON(ImportPlacesResponse{ProcessedCount: 0})
	}

	processed := 0
	var importErrors []string

	for i := range req.Places {
		if _, err := h.places.Upsert(&req.Places[i]); err != nil {
			importErrors = append(importErrors, fmt.Sprintf("%s: %v", req.Places[i].Name, err))
			continue
		}
		processed++
	}

	log.Printf("[Internal] Imported %d/%d places", processed, len(req.Places))

	return c.JSON(ImportPlacesResponse{
		ProcessedCount: processed,
		Errors:         importErrors,
	})
}
