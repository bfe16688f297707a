package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/cajaviva/pos_settlement_app/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StoreConfigHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	configSvc *MockStoreConfigService
}

func (s *StoreConfigHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.configSvc = new(MockStoreConfigService)

	s.router = gin.New()
	// Stand-in for the auth middleware: routes under test need a caller id.
	group := s.router.Group("/api/v1", func(c *gin.Context) {
		c.Set("callerID", "admin")
		c.Next()
	})
	registerStoreConfigRoutes(group, s.configSvc)
}

func (s *StoreConfigHandlerTestSuite) validBody() dto.UpsertStoreConfigRequest {
	return dto.UpsertStoreConfigRequest{
		RateTypes:               map[string]string{"CASH_USD": "CASH"},
		Rounding:                "NEAREST",
		Precision:               2,
		PreferredChangeCurrency: "SAME",
		AllowOverpayment:        true,
		MaxOverpaymentCents:     500,
		OverpaymentAction:       "CHANGE",
		ExcessAction:            "FAVOR_STORE",
	}
}

func (s *StoreConfigHandlerTestSuite) TestGetConfig() {
	config := &domain.StoreRateConfig{
		StoreID: "store-1",
		RateTypes: map[domain.PaymentMethod]domain.RateType{
			domain.MethodCashStrong: domain.RateTypeCash,
		},
		Rounding:                domain.RoundingNearest,
		Precision:               2,
		PreferredChangeCurrency: domain.ChangeCurrencySame,
		OverpaymentAction:       domain.OverpaymentChange,
		ExcessAction:            domain.ExcessFavorStore,
	}
	s.configSvc.On("GetConfig", mock.Anything, "store-1").Return(config, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-1/rate-config", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var resp dto.StoreConfigResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("store-1", resp.StoreID)
	s.Equal("CASH", resp.RateTypes["CASH_USD"])
	s.Equal("NEAREST", resp.Rounding)
}

func (s *StoreConfigHandlerTestSuite) TestGetConfig_NotFound() {
	s.configSvc.On("GetConfig", mock.Anything, "store-9").Return(nil, apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/store-9/rate-config", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *StoreConfigHandlerTestSuite) TestUpsertConfig() {
	saved := &domain.StoreRateConfig{
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
	s.configSvc.On("UpsertConfig", mock.Anything,
		mock.MatchedBy(func(config domain.StoreRateConfig) bool {
			return config.StoreID == "store-1" &&
				config.RateTypes[domain.MethodCashStrong] == domain.RateTypeCash &&
				config.Rounding == domain.RoundingNearest
		}), "admin").Return(saved, nil).Once()

	body, _ := json.Marshal(s.validBody())
	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/store-1/rate-config", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.configSvc.AssertExpectations(s.T())
}

func (s *StoreConfigHandlerTestSuite) TestUpsertConfig_UnknownEnum() {
	body := s.validBody()
	body.ExcessAction = "SPLIT_THE_DIFFERENCE"

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/store-1/rate-config", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.configSvc.AssertNotCalled(s.T(), "UpsertConfig", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreConfigHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(StoreConfigHandlerTestSuite))
}
