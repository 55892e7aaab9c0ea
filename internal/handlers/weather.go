package handlers

import (
	"strconv"

	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/devjkoo/wayfarer/server/pkg/weather"
	"github.com/gofiber/fiber/v2"
)

type WeatherHandler struct {
	service *services.WeatherService
}

func NewWeatherHandler(cfg *config.Config, cacheStore cache.Cache) *WeatherHandler {
	client := weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey)

	return &WeatherHandler{
		service: services.NewWeatherService(client, cacheStore),
	}
}

func SetupWeatherRoutes(router fiber.Router, cfg *config.Config, cacheStore cache.Cache) {
	h := NewWeatherHandler(cfg, cacheStore)

	router.Get("/current", h.Current)
	router.Get("/forecast", h.Forecast)
}

// Current godoc
// @Summary Current weather for a city
// @Tags weather
// @Accept json
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} weather.Current
// @Router /weather/current [get]
func (h *WeatherHandler) Current(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "city is required"})
	}

	current, err := h.service.Current(c.Context(), city)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "weather provider unavailable"})
	}

	return c.JSON(current)
}

// Forecast godoc
// @Summary Weather forecast for a city
// @Tags weather
// @Accept json
// @Produce json
// @Param city query string true "City name"
// @Param count query int false "Number of 3-hour buckets (max 40)"
// @Success 200 {array} weather.ForecastEntry
// @Router /weather/forecast [get]
func (h *WeatherHandler) Forecast(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "city is required"})
	}
	count, _ := strconv.Atoi(c.Query("count", "0"))

	entries, err := h.service.Forecast(c.Context(), city, count)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "weather provider unavailable"})
	}

	return c.JSON(entries)
}
