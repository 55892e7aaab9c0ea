package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/middleware"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/devjkoo/wayfarer/server/internal/telemetry"
	"github.com/devjkoo/wayfarer/server/pkg/agent"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
)

type SuggestionHandler struct {
	trips   *services.TripService
	service *services.SuggestionService
}

func NewSuggestionHandler(db *database.DB, cfg *config.Config) *SuggestionHandler {
	agentClient := agent.NewClient(cfg.AgentEndpoint, cfg.AgentAPIKey, cfg.AgentTimeoutSeconds)

	return &SuggestionHandler{
		trips: services.NewTripService(db),
		service: services.NewSuggestionService(
			services.NewSuggestionStore(db),
			agentClient,
			time.Duration(cfg.SuggestionTTLHours)*time.Hour,
		),
	}
}

// SetupSuggestionRoutes registers the suggestion endpoint on the trips group.
func SetupSuggestionRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewSuggestionHandler(db, cfg)

	router.Get("/:id/suggestions", h.Get)
}

// Get godoc
// @Summary Get suggestions for a trip
// @Description 여행의 목적지/기간으로 agent에 추천을 요청한다. 동일 요청은 TTL 동안 캐시에서 응답.
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param category query string false "places | activities | food | shopping (default places)"
// @Param interests query string false "Comma-separated interests"
// @Param budget_min query number false "Lower budget bound"
// @Param budget_max query number false "Upper budget bound"
// @Param cuisines query string false "Comma-separated cuisines (food category)"
// @Param venue_types query string false "Comma-separated venue types (shopping category)"
// @Success 200 {object} services.SuggestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /trips/{id}/suggestions [get]
func (h *SuggestionHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	tripID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	trip, err := h.trips.GetByID(userID, uint(tripID))
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trip not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	budgetMin, _ := strconv.ParseFloat(c.Query("budget_min", "0"), 64)
	budgetMax, _ := strconv.ParseFloat(c.Query("budget_max", "0"), 64)

	req := services.SuggestionRequest{
		City:       trip.DestinationCity,
		Country:    trip.DestinationCountry,
		StartDate:  trip.StartDate.Format("2006-01-02"),
		EndDate:    trip.EndDate.Format("2006-01-02"),
		Category:   c.Query("category", services.CategoryPlaces),
		Interests:  splitCSVParam(c.Query("interests")),
		BudgetMin:  budgetMin,
		BudgetMax:  budgetMax,
		Cuisines:   splitCSVParam(c.Query("cuisines")),
		VenueTypes: splitCSVParam(c.Query("venue_types")),
	}

	// UserContext carries the request span so the agent call nests under it
	response, err := h.service.GetSuggestions(c.UserContext(), req)
	if err != nil {
		// sentinel → status 매핑은 ErrorHandler가 담당
		return err
	}

	middleware.CountSuggestionSource(response.Source)
	if span := telemetry.SpanFromContext(c); span != nil {
		span.SetAttributes(attribute.String("suggestion.source", response.Source))
	}

	return c.JSON(response)
}

// splitCSVParam splits a comma-separated query value, dropping empty parts.
func splitCSVParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
