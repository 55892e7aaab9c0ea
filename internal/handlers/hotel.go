package handlers

import (
	"strconv"

	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/devjkoo/wayfarer/server/pkg/hotels"
	"github.com/gofiber/fiber/v2"
)

type HotelHandler struct {
	service *services.HotelService
}

func NewHotelHandler(cfg *config.Config, cacheStore cache.Cache) *HotelHandler {
	client := hotels.NewClient(cfg.HotelsAPIURL, cfg.HotelsAPIKey)

	return &HotelHandler{
		service: services.NewHotelService(client, cacheStore),
	}
}

func SetupHotelRoutes(router fiber.Router, cfg *config.Config, cacheStore cache.Cache) {
	h := NewHotelHandler(cfg, cacheStore)

	router.Get("/search", h.Search)
}

// Search godoc
// @Summary Search hotel availability
// @Tags hotels
// @Accept json
// @Produce json
// @Param city query string true "City name"
// @Param country query string false "Country name"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Param guests query int false "Guest count (default 2)"
// @Param price_min query number false "Lower nightly price bound"
// @Param price_max query number false "Upper nightly price bound"
// @Success 200 {array} hotels.Hotel
// @Router /hotels/search [get]
func (h *HotelHandler) Search(c *fiber.Ctx) error {
	city := c.Query("city")
	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")
	if city == "" || checkIn == "" || checkOut == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "city, check_in and check_out are required",
		})
	}

	guests, _ := strconv.Atoi(c.Query("guests", "2"))
	priceMin, _ := strconv.ParseFloat(c.Query("price_min", "0"), 64)
	priceMax, _ := strconv.ParseFloat(c.Query("price_max", "0"), 64)

	params := hotels.SearchParams{
		City:     city,
		Country:  c.Query("country"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   guests,
		PriceMin: priceMin,
		PriceMax: priceMax,
	}

	results, err := h.service.Search(c.Context(), params)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "hotel provider unavailable"})
	}

	return c.JSON(results)
}
