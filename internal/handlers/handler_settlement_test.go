package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/cajaviva/pos_settlement_app/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, saleID string, saleTotal domain.MoneyCents, payments []domain.ProposedPayment, config domain.StoreRateConfig) (*domain.SettlementResult, error) {
	args := m.Called(ctx, saleID, saleTotal, payments, config)
	result, _ := args.Get(0).(*domain.SettlementResult)
	return result, args.Error(1)
}

type MockStoreConfigService struct {
	mock.Mock
}

func (m *MockStoreConfigService) GetConfig(ctx context.Context, storeID string) (*domain.StoreRateConfig, error) {
	args := m.Called(ctx, storeID)
	config, _ := args.Get(0).(*domain.StoreRateConfig)
	return config, args.Error(1)
}

func (m *MockStoreConfigService) UpsertConfig(ctx context.Context, config domain.StoreRateConfig, updaterID string) (*domain.StoreRateConfig, error) {
	args := m.Called(ctx, config, updaterID)
	saved, _ := args.Get(0).(*domain.StoreRateConfig)
	return saved, args.Error(1)
}

type SettlementHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	settlementSvc *MockSettlementService
	configSvc     *MockStoreConfigService
}

func (s *SettlementHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.settlementSvc = new(MockSettlementService)
	s.configSvc = new(MockStoreConfigService)

	s.router = gin.New()
	registerSettlementRoutes(s.router.Group("/api/v1"), s.settlementSvc, s.configSvc)
}

func (s *SettlementHandlerTestSuite) postSettlement(storeID string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/stores/%s/settlements", storeID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *SettlementHandlerTestSuite) validRequest() dto.SettleRequest {
	return dto.SettleRequest{
		SaleID:           "sale-1",
		TotalCentsStrong: 1000,
		Payments: []dto.ProposedPaymentRequest{
			{Method: "CASH_USD", AmountCents: 1200, Currency: "USD"},
		},
	}
}

func (s *SettlementHandlerTestSuite) storeConfig() *domain.StoreRateConfig {
	return &domain.StoreRateConfig{
		StoreID: "store-1",
		RateTypes: map[domain.PaymentMethod]domain.RateType{
			domain.MethodCashStrong: domain.RateTypeCash,
		},
		Rounding:                domain.RoundingNearest,
		Precision:               2,
		PreferredChangeCurrency: domain.ChangeCurrencySame,
		AllowOverpayment:        true,
		MaxOverpaymentCents:     500,
		OverpaymentAction:       domain.OverpaymentChange,
		ExcessAction:            domain.ExcessFavorStore,
	}
}

func (s *SettlementHandlerTestSuite) TestSettle_Success() {
	config := s.storeConfig()
	s.configSvc.On("GetConfig", mock.Anything, "store-1").Return(config, nil).Once()

	result := &domain.SettlementResult{
		SaleID:           "sale-1",
		StoreID:          "store-1",
		TotalCentsStrong: 1000,
		PaidCentsStrong:  1200,
		Payments: []domain.SalePayment{{
			SalePaymentID:     "pay-1",
			SaleID:            "sale-1",
			PaymentOrder:      1,
			Method:            domain.MethodCashStrong,
			AmountCentsStrong: 1200,
			AmountCentsLocal:  43800,
			RateType:          domain.RateTypeCash,
			AppliedRate:       decimal.RequireFromString("36.5"),
			Status:            domain.PaymentConfirmed,
		}},
		Change: &domain.SaleChange{
			SaleChangeID:      "chg-1",
			SaleID:            "sale-1",
			ChangeCentsStrong: 200,
			ChangeCentsLocal:  7300,
			ChangeCurrency:    domain.CurrencyStrong,
			AppliedRate:       decimal.RequireFromString("36.5"),
			Breakdown: []domain.DenominationLine{
				{DenominationCents: 100, Count: 2, SubtotalCents: 200},
			},
		},
	}
	s.settlementSvc.On("Settle", mock.Anything, "sale-1",
		domain.NewMoneyCents(1000, domain.CurrencyStrong), mock.Anything, *config).
		Return(result, nil).Once()

	w := s.postSettlement("store-1", s.validRequest())

	s.Equal(http.StatusOK, w.Code)

	var resp dto.SettlementResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("sale-1", resp.SaleID)
	s.Equal(int64(1200), resp.PaidCentsStrong)
	s.Require().Len(resp.Payments, 1)
	s.Equal("CONFIRMED", resp.Payments[0].Status)
	s.Require().NotNil(resp.Change)
	s.Equal(int64(200), resp.Change.ChangeCentsStrong)

	s.settlementSvc.AssertExpectations(s.T())
	s.configSvc.AssertExpectations(s.T())
}

func (s *SettlementHandlerTestSuite) TestSettle_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stores/store-1/settlements",
		bytes.NewReader([]byte(`{"saleID":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.configSvc.AssertNotCalled(s.T(), "GetConfig", mock.Anything, mock.Anything)
}

func (s *SettlementHandlerTestSuite) TestSettle_MissingPayments() {
	body := s.validRequest()
	body.Payments = nil

	w := s.postSettlement("store-1", body)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *SettlementHandlerTestSuite) TestSettle_UnknownPaymentMethod() {
	body := s.validRequest()
	body.Payments[0].Method = "BARTER"

	w := s.postSettlement("store-1", body)
	s.Equal(http.StatusBadRequest, w.Code)
	s.configSvc.AssertNotCalled(s.T(), "GetConfig", mock.Anything, mock.Anything)
}

func (s *SettlementHandlerTestSuite) TestSettle_ConfigNotFound() {
	s.configSvc.On("GetConfig", mock.Anything, "store-9").
		Return(nil, apperrors.ErrNotFound).Once()

	w := s.postSettlement("store-9", s.validRequest())
	s.Equal(http.StatusNotFound, w.Code)
	s.settlementSvc.AssertNotCalled(s.T(), "Settle",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementHandlerTestSuite) TestSettle_ErrorMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"out of bounds", apperrors.ErrAmountOutOfBounds, http.StatusBadRequest},
		{"insufficient", apperrors.ErrInsufficientPayment, http.StatusPaymentRequired},
		{"overpayment rejected", apperrors.ErrOverpaymentRejected, http.StatusPaymentRequired},
		{"rate unavailable", apperrors.ErrRateUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.configSvc.On("GetConfig", mock.Anything, "store-1").Return(s.storeConfig(), nil).Once()
			s.settlementSvc.On("Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, fmt.Errorf("settle: %w", tt.err)).Once()

			w := s.postSettlement("store-1", s.validRequest())
			s.Equal(tt.wantStatus, w.Code)
		})
	}
}

func TestSettlementHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementHandlerTestSuite))
}
