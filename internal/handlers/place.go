package handlers

import (
	"errors"
	"strconv"

	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PlaceHandler struct {
	service *services.PlaceService
}

func NewPlaceHandler(db *database.DB) *PlaceHandler {
	return &PlaceHandler{
		service: services.NewPlaceService(db),
	}
}

func SetupPlaceRoutes(router fiber.Router, db *database.DB) {
	h := NewPlaceHandler(db)

	router.Get("/", h.List)
	router.Get("/:id", h.Get)
}

// List godoc
// @Summary List catalog places
// @Tags places
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param city query string false "Filter by city"
// @Param country query string false "Filter by country"
// @Param category query string false "restaurant | shopping | attraction | activity"
// @Param cuisine query string false "Restaurant cuisine filter"
// @Param q query string false "Name/description search"
// @Success 200 {object} services.PlaceListResponse
// @Router /places [get]
func (h *PlaceHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := services.PlaceFilter{
		Page:     page,
		Limit:    limit,
		City:     c.Query("city"),
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Cuisine:  c.Query("cuisine"),
		Query:    c.Query("q"),
	}

	response, err := h.service.List(&filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}

// Get godoc
// @Summary Get place by ID
// @Tags places
// @Accept json
// @Produce json
// @Param id path int true "Place ID"
// @Success 200 {object} models.Place
// @Router /places/{id} [get]
func (h *PlaceHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid place ID"})
	}

	place, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPlaceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Place not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(place)
}
