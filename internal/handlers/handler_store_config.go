package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
	"github.com/cajaviva/pos_settlement_app/internal/dto"
	"github.com/cajaviva/pos_settlement_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// storeConfigHandler handles HTTP requests for store settlement policy.
type storeConfigHandler struct {
	configService portssvc.StoreConfigSvcFacade
}

func newStoreConfigHandler(cs portssvc.StoreConfigSvcFacade) *storeConfigHandler {
	return &storeConfigHandler{configService: cs}
}

// registerStoreConfigRoutes registers routes related to store rate config.
func registerStoreConfigRoutes(rg *gin.RouterGroup, configService portssvc.StoreConfigSvcFacade) {
	h := newStoreConfigHandler(configService)

	configs := rg.Group("/stores/:storeID/rate-config")
	{
		configs.GET("", h.getConfig)
		configs.PUT("", h.upsertConfig)
	}
}

// getConfig godoc
// @Summary Get store rate config
// @Description Returns the settlement policy for a store
// @Tags store config
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Success 200 {object} dto.StoreConfigResponse
// @Failure 404 {object} map[string]string "Config not found"
// @Security BearerAuth
// @Router /stores/{storeID}/rate-config [get]
func (h *storeConfigHandler) getConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	storeID := c.Param("storeID")

	config, err := h.configService.GetConfig(c.Request.Context(), storeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store rate config not found"})
			return
		}
		logger.Error("Failed to get store rate config", slog.String("store_id", storeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve store rate config"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStoreConfigResponse(config))
}

// upsertConfig godoc
// @Summary Create or replace store rate config
// @Description Upserts the settlement policy for a store; exactly one config exists per store
// @Tags store config
// @Accept  json
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   config body dto.UpsertStoreConfigRequest true "Settlement policy"
// @Success 200 {object} dto.StoreConfigResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Security BearerAuth
// @Router /stores/{storeID}/rate-config [put]
func (h *storeConfigHandler) upsertConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	storeID := c.Param("storeID")

	var req dto.UpsertStoreConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsertConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	config, err := req.ToDomain(storeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updaterID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	saved, err := h.configService.UpsertConfig(c.Request.Context(), config, updaterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error upserting store rate config", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to upsert store rate config", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save store rate config"})
		return
	}

	logger.Info("Store rate config saved", slog.String("store_id", storeID))
	c.JSON(http.StatusOK, dto.ToStoreConfigResponse(saved))
}
