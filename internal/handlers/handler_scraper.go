package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/price_scraper_app/internal/apperrors"
	portssvc "github.com/SscSPs/price_scraper_app/internal/core/ports/services"
	"github.com/SscSPs/price_scraper_app/internal/dto"
	"github.com/SscSPs/price_scraper_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const badPayloadMessage = "Please send the correct payload"

// scraperHandler handles HTTP requests related to scrapers.
type scraperHandler struct {
	scraperService portssvc.ScraperSvcFacade
}

func newScraperHandler(ss portssvc.ScraperSvcFacade) *scraperHandler {
	return &scraperHandler{scraperService: ss}
}

// registerScraperRoutes registers routes related to scrapers.
func registerScraperRoutes(rg *gin.RouterGroup, scraperService portssvc.ScraperSvcFacade) {
	h := newScraperHandler(scraperService)

	scrapers := rg.Group("/scrapers")
	{
		scrapers.GET("", h.listScrapers)
		scrapers.POST("", h.createScraper)
		scrapers.PUT("", h.updateScraper)
		scrapers.DELETE("", h.deleteScraper)
		scrapers.POST("/refresh", h.refreshStaleScrapers)
		scrapers.GET("/:id", h.getScraper)
		scrapers.POST("/:id/refresh", h.refreshScraper)
	}
}

// respondError writes the JSON error body for err.
// A price that cannot be found while refreshing a stored record fails the read itself, so it is a 500 there.
func respondError(c *gin.Context, logger *slog.Logger, err error, refreshing bool) {
	status := apperrors.HTTPStatus(err)
	if refreshing && apperrors.KindOf(err) == apperrors.KindUpstreamNotFound {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Scraper request failed", slog.String("error", err.Error()), slog.String("kind", apperrors.KindOf(err).String()))
	} else {
		logger.Warn("Scraper request rejected", slog.String("error", err.Error()), slog.String("kind", apperrors.KindOf(err).String()))
	}
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}

func parseScraperID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": badPayloadMessage})
		return 0, false
	}
	return id, true
}

// listScrapers godoc
// @Summary List scrapers
// @Description Lists every scraper. Stale values are scraped again before the response is written.
// @Tags scrapers
// @Produce json
// @Success 200 {object} dto.ListScrapersResponse
// @Failure 500 {object} map[string]string "Price could not be scraped or storage failure"
// @Router /scrapers [get]
func (h *scraperHandler) listScrapers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	scrapers, err := h.scraperService.ListScrapers(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, true)
		return
	}

	logger.Debug("Listed scrapers", slog.Int("count", len(scrapers)))
	c.JSON(http.StatusOK, dto.ToListScrapersResponse(scrapers))
}

// getScraper godoc
// @Summary Get a scraper
// @Description Returns one scraper, scraping a new value first when the stored one is stale.
// @Tags scrapers
// @Produce json
// @Param id path int true "Scraper ID"
// @Success 200 {object} dto.ScraperEnvelope
// @Failure 400 {object} map[string]string "Malformed or unknown id"
// @Failure 500 {object} map[string]string "Price could not be scraped or storage failure"
// @Router /scrapers/{id} [get]
func (h *scraperHandler) getScraper(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseScraperID(c)
	if !ok {
		return
	}

	scraper, err := h.scraperService.GetScraper(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, true)
		return
	}

	c.JSON(http.StatusOK, dto.ToScraperEnvelope(scraper))
}

// createScraper godoc
// @Summary Create a scraper
// @Description Starts tracking a currency. The value starts at 0 and is scraped on the first stale read.
// @Tags scrapers
// @Accept json
// @Produce json
// @Param scraper body dto.CreateScraperRequest true "Currency and frequency in seconds"
// @Success 201 {object} dto.ScraperEnvelope
// @Failure 400 {object} map[string]string "Malformed payload, currency already tracked or unknown to the price source"
// @Failure 500 {object} map[string]string "Price source unreachable or storage failure"
// @Router /scrapers [post]
func (h *scraperHandler) createScraper(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateScraperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateScraper", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": badPayloadMessage})
		return
	}

	logger.Info("Received request to create scraper", slog.String("currency", req.Currency), slog.Int("frequency", *req.Frequency))

	scraper, err := h.scraperService.CreateScraper(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, false)
		return
	}

	c.JSON(http.StatusCreated, dto.ToScraperEnvelope(scraper))
}

// updateScraper godoc
// @Summary Update a scraper frequency
// @Tags scrapers
// @Accept json
// @Produce json
// @Param scraper body dto.UpdateScraperRequest true "Scraper id and new frequency in seconds"
// @Success 200 {object} dto.ScraperEnvelope
// @Failure 400 {object} map[string]string "Malformed payload or unknown id"
// @Failure 500 {object} map[string]string "Storage failure"
// @Router /scrapers [put]
func (h *scraperHandler) updateScraper(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateScraperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateScraper", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": badPayloadMessage})
		return
	}

	scraper, err := h.scraperService.UpdateScraperFrequency(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, false)
		return
	}

	c.JSON(http.StatusOK, dto.ToScraperEnvelope(scraper))
}

// deleteScraper godoc
// @Summary Delete a scraper
// @Description Removes a scraper and returns the deleted record.
// @Tags scrapers
// @Accept json
// @Produce json
// @Param scraper body dto.DeleteScraperRequest true "Scraper id"
// @Success 200 {object} dto.ScraperEnvelope
// @Failure 400 {object} map[string]string "Malformed payload or unknown id"
// @Failure 500 {object} map[string]string "Storage failure"
// @Router /scrapers [delete]
func (h *scraperHandler) deleteScraper(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DeleteScraperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteScraper", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": badPayloadMessage})
		return
	}

	scraper, err := h.scraperService.DeleteScraper(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, logger, err, false)
		return
	}

	logger.Info("Scraper deleted", slog.Int64("scraper_id", scraper.ID))
	c.JSON(http.StatusOK, dto.ToScraperEnvelope(scraper))
}

// refreshStaleScrapers godoc
// @Summary Refresh stale scrapers
// @Description Scrapes a new value for every stale scraper and returns the full list.
// @Tags scrapers
// @Produce json
// @Success 200 {object} dto.ListScrapersResponse
// @Failure 500 {object} map[string]string "Price could not be scraped or storage failure"
// @Router /scrapers/refresh [post]
func (h *scraperHandler) refreshStaleScrapers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	scrapers, err := h.scraperService.RefreshStale(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, true)
		return
	}

	c.JSON(http.StatusOK, dto.ToListScrapersResponse(scrapers))
}

// refreshScraper godoc
// @Summary Refresh a scraper
// @Description Scrapes a new value for one scraper even when the stored one is fresh.
// @Tags scrapers
// @Produce json
// @Param id path int true "Scraper ID"
// @Success 200 {object} dto.ScraperEnvelope
// @Failure 400 {object} map[string]string "Malformed or unknown id"
// @Failure 500 {object} map[string]string "Price could not be scraped or storage failure"
// @Router /scrapers/{id}/refresh [post]
func (h *scraperHandler) refreshScraper(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseScraperID(c)
	if !ok {
		return
	}

	scraper, err := h.scraperService.RefreshScraper(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, true)
		return
	}

	c.JSON(http.StatusOK, dto.ToScraperEnvelope(scraper))
}
