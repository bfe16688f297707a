package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/cajaviva/pos_settlement_app/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) GetRate(ctx context.Context, storeID string, rateType domain.RateType) (domain.Rate, error) {
	args := m.Called(ctx, storeID, rateType)
	rate, _ := args.Get(0).(domain.Rate)
	return rate, args.Error(1)
}

func (m *MockRateService) SetManualRate(ctx context.Context, storeID string, rateType domain.RateType, value decimal.Decimal) (domain.Rate, error) {
	args := m.Called(ctx, storeID, rateType, value)
	rate, _ := args.Get(0).(domain.Rate)
	return rate, args.Error(1)
}

func (m *MockRateService) ListRateHistory(ctx context.Context, storeID string, rateType domain.RateType, limit int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, storeID, rateType, limit)
	rates, _ := args.Get(0).([]domain.ExchangeRate)
	return rates, args.Error(1)
}

type RateHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	rateSvc *MockRateService
}

func (s *RateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.rateSvc = new(MockRateService)

	s.router = gin.New()
	registerRateRoutes(s.router.Group("/api/v1"), s.rateSvc)
}

func (s *RateHandlerTestSuite) TestGetRate_Success() {
	fetchedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.rateSvc.On("GetRate", mock.Anything, "store-1", domain.RateTypeParallel).
		Return(domain.Rate{
			Value:     decimal.RequireFromString("36.5"),
			Origin:    domain.RateOriginAPI,
			FetchedAt: fetchedAt,
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-1/rates/PARALLEL", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var resp dto.RateResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("PARALLEL", resp.RateType)
	s.Equal("API", resp.Origin)
	s.True(decimal.RequireFromString("36.5").Equal(resp.Value))

	s.rateSvc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestGetRate_UnknownRateType() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-1/rates/BLACK_MARKET", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.rateSvc.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RateHandlerTestSuite) TestGetRate_Unavailable() {
	s.rateSvc.On("GetRate", mock.Anything, "store-1", domain.RateTypeOfficial).
		Return(domain.Rate{}, apperrors.ErrRateUnavailable).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-1/rates/OFFICIAL", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *RateHandlerTestSuite) TestSetManualRate_Success() {
	value := decimal.RequireFromString("40")
	s.rateSvc.On("SetManualRate", mock.Anything, "store-1", domain.RateTypeCash, value).
		Return(domain.Rate{
			Value:     value,
			Origin:    domain.RateOriginManual,
			FetchedAt: time.Now(),
		}, nil).Once()

	body, _ := json.Marshal(dto.SetManualRateRequest{Value: value})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/store-1/rates/CASH/manual", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var resp dto.RateResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("MANUAL", resp.Origin)
}

func (s *RateHandlerTestSuite) TestSetManualRate_InvalidValue() {
	value := decimal.RequireFromString("-1")
	s.rateSvc.On("SetManualRate", mock.Anything, "store-1", domain.RateTypeCash, value).
		Return(domain.Rate{}, apperrors.ErrInvalidRate).Once()

	body, _ := json.Marshal(dto.SetManualRateRequest{Value: value})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/store-1/rates/CASH/manual", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateHandlerTestSuite) TestListRateHistory() {
	rows := []domain.ExchangeRate{
		{
			ExchangeRateID: "hist-2",
			StoreID:        "store-1",
			RateType:       domain.RateTypeParallel,
			Value:          decimal.RequireFromString("37.1"),
			Origin:         domain.RateOriginAPI,
			FetchedAt:      time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			ExchangeRateID: "hist-1",
			StoreID:        "store-1",
			RateType:       domain.RateTypeParallel,
			Value:          decimal.RequireFromString("36.5"),
			Origin:         domain.RateOriginManual,
			FetchedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	s.rateSvc.On("ListRateHistory", mock.Anything, "store-1", domain.RateTypeParallel, 10).
		Return(rows, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-1/rates/PARALLEL/history?limit=10", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var resp []dto.RateHistoryEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 2)
	s.Equal("hist-2", resp[0].ExchangeRateID)
	s.Equal("MANUAL", resp[1].Origin)
}

func (s *RateHandlerTestSuite) TestListRateHistory_BadLimit() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-1/rates/PARALLEL/history?limit=zero", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.rateSvc.AssertNotCalled(s.T(), "ListRateHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RateHandlerTestSuite))
}
