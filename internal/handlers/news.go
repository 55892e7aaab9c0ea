package handlers

import (
	"strconv"

	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/devjkoo/wayfarer/server/pkg/news"
	"github.com/gofiber/fiber/v2"
)

type NewsHandler struct {
	service *services.NewsService
}

func NewNewsHandler(cfg *config.Config, cacheStore cache.Cache) *NewsHandler {
	client := news.NewClient(cfg.NewsAPIURL, cfg.NewsAPIKey)

	return &NewsHandler{
		service: services.NewNewsService(client, cacheStore),
	}
}

func SetupNewsRoutes(router fiber.Router, cfg *config.Config, cacheStore cache.Cache) {
	h := NewNewsHandler(cfg, cacheStore)

	router.Get("/", h.Destination)
}

// Destination godoc
// @Summary Recent news for a destination
// @Tags news
// @Accept json
// @Produce json
// @Param q query string true "Destination query, e.g. city or country"
// @Param limit query int false "Max articles (default 10, max 50)"
// @Success 200 {array} news.Article
// @Router /news [get]
func (h *NewsHandler) Destination(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q is required"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	articles, err := h.service.Destination(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "news provider unavailable"})
	}

	return c.JSON(articles)
}
