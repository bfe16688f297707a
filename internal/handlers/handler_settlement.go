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

// settlementHandler handles HTTP requests for sale settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
	configService     portssvc.StoreConfigSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade, cs portssvc.StoreConfigSvcFacade) *settlementHandler {
	return &settlementHandler{
		settlementService: ss,
		configService:     cs,
	}
}

// registerSettlementRoutes registers routes related to settlements.
func registerSettlementRoutes(rg *gin.RouterGroup, ss portssvc.SettlementSvcFacade, cs portssvc.StoreConfigSvcFacade) {
	h := newSettlementHandler(ss, cs)

	stores := rg.Group("/stores/:storeID")
	{
		stores.POST("/settlements", h.settle)
	}
}

// settle godoc
// @Summary Settle a sale
// @Description Validates the proposed payments against the sale total, freezes the applicable rates, and returns the settled payment set with change
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   settlement body dto.SettleRequest true "Sale total and proposed payments"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 402 {object} map[string]string "Insufficient payment or overpayment rejected"
// @Failure 404 {object} map[string]string "Store config not found"
// @Failure 503 {object} map[string]string "Exchange rate unavailable"
// @Security BearerAuth
// @Router /stores/{storeID}/settlements [post]
func (h *settlementHandler) settle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	storeID := c.Param("storeID")

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	total, payments, err := req.ToDomain()
	if err != nil {
		logger.Warn("Invalid settlement payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.configService.GetConfig(c.Request.Context(), storeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store rate config not found"})
			return
		}
		logger.Error("Failed to load store rate config", slog.String("store_id", storeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load store configuration"})
		return
	}

	logger = logger.With(slog.String("store_id", storeID), slog.String("sale_id", req.SaleID))

	result, err := h.settlementService.Settle(c.Request.Context(), req.SaleID, total, payments, *config)
	if err != nil {
		// Only the error kind and method reach the log; payment references
		// and amounts stay out of it.
		switch {
		case errors.Is(err, apperrors.ErrEmptyPaymentSet),
			errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrAmountOutOfBounds),
			errors.Is(err, apperrors.ErrInvalidRate):
			logger.Warn("Settlement rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientPayment),
			errors.Is(err, apperrors.ErrOverpaymentRejected):
			logger.Warn("Settlement rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateUnavailable):
			logger.Error("Settlement failed: rate unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			logger.Error("Settlement failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle sale"})
		}
		return
	}

	logger.Info("Sale settled", slog.Int("payments", len(result.Payments)))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(result))
}
