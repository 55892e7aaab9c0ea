package handlers

import (
	"errors"
	"strconv"

	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TripHandler struct {
	service *services.TripService
}

func NewTripHandler(db *database.DB) *TripHandler {
	return &TripHandler{
		service: services.NewTripService(db),
	}
}

func SetupTripRoutes(router fiber.Router, db *database.DB) {
	h := NewTripHandler(db)

	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

// Create godoc
// @Summary Create a trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateTripRequest true "Trip data"
// @Success 201 {object} models.Trip
// @Router /trips [post]
func (h *TripHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	trip, err := h.service.Create(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(trip)
}

// List godoc
// @Summary List trips of the current user
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param country query string false "Filter by destination country"
// @Param active_on query string false "Only trips covering this date (YYYY-MM-DD)"
// @Param q query string false "Title search"
// @Param sort query string false "Sort order: start_date, -start_date, -created_at"
// @Success 200 {object} services.TripListResponse
// @Router /trips [get]
func (h *TripHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := services.TripFilter{
		Page:     page,
		Limit:    limit,
		Country:  c.Query("country"),
		ActiveOn: c.Query("active_on"),
		Query:    c.Query("q"),
		Sort:     c.Query("sort"),
	}

	response, err := h.service.List(userID, &filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}

// Get godoc
// @Summary Get trip by ID
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} models.Trip
// @Router /trips/{id} [get]
func (h *TripHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	trip, err := h.service.GetByID(userID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(trip)
}

// Update godoc
// @Summary Update a trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param request body services.UpdateTripRequest true "Fields to update"
// @Success 200 {object} models.Trip
// @Router /trips/{id} [put]
func (h *TripHandler) Update(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	var req services.UpdateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	trip, err := h.service.Update(userID, uint(id), &req)
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(trip)
}

// Delete godoc
// @Summary Delete a trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 204
// @Router /trips/{id} [delete]
func (h *TripHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	if err := h.service.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
