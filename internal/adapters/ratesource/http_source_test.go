package ratesource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/adapters/ratesource"
	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, handler http.HandlerFunc) *ratesource.HTTPRateSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return ratesource.NewHTTPRateSource(map[domain.RateType]string{
		domain.RateTypeOfficial: server.URL,
	}, 2*time.Second)
}

func TestFetchRate_PromedioField(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fuente":"oficial","promedio":36.4224}`))
	})

	value, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("36.4224").Equal(value))
}

func TestFetchRate_PriceField(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":37.10}`))
	})

	value, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("37.10").Equal(value))
}

func TestFetchRate_RateField(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rate":40}`))
	})

	value, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("40").Equal(value))
}

func TestFetchRate_MissingEndpoint(t *testing.T) {
	source := ratesource.NewHTTPRateSource(map[domain.RateType]string{}, time.Second)

	_, err := source.FetchRate(context.Background(), domain.RateTypeParallel)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestFetchRate_NonSuccessStatus(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	assert.ErrorContains(t, err, "status 502")
}

func TestFetchRate_NonPositiveValue(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promedio":0}`))
	})

	_, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRate)
}

func TestFetchRate_BodyWithoutRateField(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fuente":"oficial"}`))
	})

	_, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	assert.ErrorContains(t, err, "no rate field")
}

func TestFetchRate_MalformedBody(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := source.FetchRate(context.Background(), domain.RateTypeOfficial)
	assert.ErrorContains(t, err, "decoding rate provider body")
}

func TestFetchRate_ContextCancelled(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"promedio":36.5}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := source.FetchRate(ctx, domain.RateTypeOfficial)
	assert.Error(t, err)
}
