package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
	"github.com/cajaviva/pos_settlement_app/internal/dto"
	"github.com/cajaviva/pos_settlement_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests for exchange rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{rateService: rs}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService)

	rates := rg.Group("/stores/:storeID/rates")
	{
		rates.GET("/:rateType", h.getRate)
		rates.PUT("/:rateType/manual", h.setManualRate)
		rates.GET("/:rateType/history", h.listRateHistory)
	}
}

// getRate godoc
// @Summary Get the current rate
// @Description Returns the cached rate for a store and rate type, fetching from the provider when the cache is cold or expired
// @Tags rates
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   rateType path string true "Rate type" Enums(OFFICIAL, PARALLEL, CASH, ALT_USD)
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Unknown rate type"
// @Failure 503 {object} map[string]string "Rate unavailable"
// @Security BearerAuth
// @Router /stores/{storeID}/rates/{rateType} [get]
func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	storeID := c.Param("storeID")

	rateType, err := domain.ParseRateType(c.Param("rateType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), storeID, rateType)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			logger.Error("Rate unavailable", slog.String("store_id", storeID), slog.String("rate_type", string(rateType)))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to get rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResponse(rateType, rate))
}

// setManualRate godoc
// @Summary Set a manual rate
// @Description Immediately replaces the cached rate for a store and rate type; the next successful automatic fetch overwrites it
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   rateType path string true "Rate type" Enums(OFFICIAL, PARALLEL, CASH, ALT_USD)
// @Param   rate body dto.SetManualRateRequest true "Manual rate value"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid rate value or rate type"
// @Security BearerAuth
// @Router /stores/{storeID}/rates/{rateType}/manual [put]
func (h *rateHandler) setManualRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	storeID := c.Param("storeID")

	rateType, err := domain.ParseRateType(c.Param("rateType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.SetManualRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for setManualRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rate, err := h.rateService.SetManualRate(c.Request.Context(), storeID, rateType, req.Value)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to set manual rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set manual rate"})
		return
	}

	logger.Info("Manual rate set", slog.String("store_id", storeID), slog.String("rate_type", string(rateType)))
	c.JSON(http.StatusOK, dto.ToRateResponse(rateType, rate))
}

// listRateHistory godoc
// @Summary List rate history
// @Description Returns the most recent fetched and manually set rates for a store and rate type, newest first
// @Tags rates
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   rateType path string true "Rate type" Enums(OFFICIAL, PARALLEL, CASH, ALT_USD)
// @Param   limit query int false "Maximum rows to return (default 50)"
// @Success 200 {array} dto.RateHistoryEntryResponse
// @Failure 400 {object} map[string]string "Unknown rate type"
// @Security BearerAuth
// @Router /stores/{storeID}/rates/{rateType}/history [get]
func (h *rateHandler) listRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	storeID := c.Param("storeID")

	rateType, err := domain.ParseRateType(c.Param("rateType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	rates, err := h.rateService.ListRateHistory(c.Request.Context(), storeID, rateType, limit)
	if err != nil {
		logger.Error("Failed to list rate history", slog.String("store_id", storeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRateHistoryResponse(rates))
}
