package dto

import (
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
)

// MethodLimitRequest bounds one payment method in strong cents.
type MethodLimitRequest struct {
	MinCents int64 `json:"minCents" binding:"gte=0"`
	MaxCents int64 `json:"maxCents" binding:"gte=0"`
}

// UpsertStoreConfigRequest creates or replaces a store's settlement policy.
type UpsertStoreConfigRequest struct {
	RateTypes                 map[string]string             `json:"rateTypes" binding:"required,dive,ratetype"`
	Rounding                  string                        `json:"rounding" binding:"required,roundingmode"`
	Precision                 uint8                         `json:"precision" binding:"lte=4"`
	PreferredChangeCurrency   string                        `json:"preferredChangeCurrency" binding:"required"`
	AutoConvertSmallChange    bool                          `json:"autoConvertSmallChange"`
	SmallChangeThresholdCents int64                         `json:"smallChangeThresholdCents" binding:"gte=0"`
	AllowOverpayment          bool                          `json:"allowOverpayment"`
	MaxOverpaymentCents       int64                         `json:"maxOverpaymentCents" binding:"gte=0"`
	OverpaymentAction         string                        `json:"overpaymentAction" binding:"required"`
	ExcessAction              string                        `json:"excessAction" binding:"required"`
	MethodLimits              map[string]MethodLimitRequest `json:"methodLimits,omitempty"`
}

// ToDomain parses the request into a domain config for the given store.
// Closed enums are validated here; domain.Validate re-checks invariants the
// binding tags cannot express.
func (r UpsertStoreConfigRequest) ToDomain(storeID string) (domain.StoreRateConfig, error) {
	config := domain.StoreRateConfig{
		StoreID:                   storeID,
		Precision:                 r.Precision,
		AutoConvertSmallChange:    r.AutoConvertSmallChange,
		SmallChangeThresholdCents: r.SmallChangeThresholdCents,
		AllowOverpayment:          r.AllowOverpayment,
		MaxOverpaymentCents:       r.MaxOverpaymentCents,
		RateTypes:                 make(map[domain.PaymentMethod]domain.RateType, len(r.RateTypes)),
	}

	var err error
	if config.Rounding, err = domain.ParseRoundingMode(r.Rounding); err != nil {
		return domain.StoreRateConfig{}, err
	}
	if config.PreferredChangeCurrency, err = domain.ParseChangeCurrency(r.PreferredChangeCurrency); err != nil {
		return domain.StoreRateConfig{}, err
	}
	if config.OverpaymentAction, err = domain.ParseOverpaymentAction(r.OverpaymentAction); err != nil {
		return domain.StoreRateConfig{}, err
	}
	if config.ExcessAction, err = domain.ParseExcessAction(r.ExcessAction); err != nil {
		return domain.StoreRateConfig{}, err
	}

	for methodStr, rateTypeStr := range r.RateTypes {
		method, err := domain.ParsePaymentMethod(methodStr)
		if err != nil {
			return domain.StoreRateConfig{}, err
		}
		rateType, err := domain.ParseRateType(rateTypeStr)
		if err != nil {
			return domain.StoreRateConfig{}, err
		}
		config.RateTypes[method] = rateType
	}

	if len(r.MethodLimits) > 0 {
		config.MethodLimits = make(map[domain.PaymentMethod]domain.MethodLimit, len(r.MethodLimits))
		for methodStr, limit := range r.MethodLimits {
			method, err := domain.ParsePaymentMethod(methodStr)
			if err != nil {
				return domain.StoreRateConfig{}, err
			}
			config.MethodLimits[method] = domain.MethodLimit{MinCents: limit.MinCents, MaxCents: limit.MaxCents}
		}
	}

	return config, nil
}

// StoreConfigResponse is the API shape of a store's settlement policy.
type StoreConfigResponse struct {
	StoreID                   string                        `json:"storeID"`
	RateTypes                 map[string]string             `json:"rateTypes"`
	Rounding                  string                        `json:"rounding"`
	Precision                 uint8                         `json:"precision"`
	PreferredChangeCurrency   string                        `json:"preferredChangeCurrency"`
	AutoConvertSmallChange    bool                          `json:"autoConvertSmallChange"`
	SmallChangeThresholdCents int64                         `json:"smallChangeThresholdCents"`
	AllowOverpayment          bool                          `json:"allowOverpayment"`
	MaxOverpaymentCents       int64                         `json:"maxOverpaymentCents"`
	OverpaymentAction         string                        `json:"overpaymentAction"`
	ExcessAction              string                        `json:"excessAction"`
	MethodLimits              map[string]MethodLimitRequest `json:"methodLimits,omitempty"`
}

// ToStoreConfigResponse converts a domain.StoreRateConfig to its API shape.
func ToStoreConfigResponse(config *domain.StoreRateConfig) StoreConfigResponse {
	resp := StoreConfigResponse{
		StoreID:                   config.StoreID,
		RateTypes:                 make(map[string]string, len(config.RateTypes)),
		Rounding:                  string(config.Rounding),
		Precision:                 config.Precision,
		PreferredChangeCurrency:   string(config.PreferredChangeCurrency),
		AutoConvertSmallChange:    config.AutoConvertSmallChange,
		SmallChangeThresholdCents: config.SmallChangeThresholdCents,
		AllowOverpayment:          config.AllowOverpayment,
		MaxOverpaymentCents:       config.MaxOverpaymentCents,
		OverpaymentAction:         string(config.OverpaymentAction),
		ExcessAction:              string(config.ExcessAction),
	}
	for method, rateType := range config.RateTypes {
		resp.RateTypes[string(method)] = string(rateType)
	}
	if len(config.MethodLimits) > 0 {
		resp.MethodLimits = make(map[string]MethodLimitRequest, len(config.MethodLimits))
		for method, limit := range config.MethodLimits {
			resp.MethodLimits[string(method)] = MethodLimitRequest{MinCents: limit.MinCents, MaxCents: limit.MaxCents}
		}
	}
	return resp
}
