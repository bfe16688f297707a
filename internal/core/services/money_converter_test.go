package services_test

import (
	"testing"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/cajaviva/pos_settlement_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_StrongToLocal_ExactMultiple(t *testing.T) {
	converter := services.NewMoneyConverter()

	// 10.00 USD at 36.5 VES/USD is exactly 365.00 VES, no rounding needed.
	got, err := converter.Convert(
		domain.NewMoneyCents(1000, domain.CurrencyStrong),
		decimal.RequireFromString("36.5"),
		domain.RoundingNearest, 2,
	)
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoneyCents(36500, domain.CurrencyLocal), got)
}

func TestConvert_LocalToStrong_ExactMultiple(t *testing.T) {
	converter := services.NewMoneyConverter()

	got, err := converter.Convert(
		domain.NewMoneyCents(36500, domain.CurrencyLocal),
		decimal.RequireFromString("36.5"),
		domain.RoundingNearest, 2,
	)
	require.NoError(t, err)
	assert.Equal(t, domain.NewMoneyCents(1000, domain.CurrencyStrong), got)
}

func TestConvert_RoundingModes(t *testing.T) {
	converter := services.NewMoneyConverter()

	tests := []struct {
		name      string
		cents     int64
		rate      string
		mode      domain.RoundingMode
		precision uint8
		want      int64
	}{
		// 10 cents * 3.65 = 36.5 cents: the canonical midpoint.
		{"nearest rounds half up", 10, "3.65", domain.RoundingNearest, 2, 37},
		{"banker rounds half to even (down)", 10, "3.65", domain.RoundingBanker, 2, 36},
		{"banker rounds half to even (up)", 10, "3.75", domain.RoundingBanker, 2, 38},
		{"up ceils", 10, "3.65", domain.RoundingUp, 2, 37},
		{"down truncates", 10, "3.65", domain.RoundingDown, 2, 36},
		// 10 cents * 3.61 = 36.1 cents: off-midpoint behavior.
		{"nearest off midpoint", 10, "3.61", domain.RoundingNearest, 2, 36},
		{"up off midpoint", 10, "3.61", domain.RoundingUp, 2, 37},
		{"down off midpoint", 10, "3.61", domain.RoundingDown, 2, 36},
		// Precision 0 rounds to whole major units (100-cent steps):
		// 33 cents * 36.5 = 1204.5 cents.
		{"precision 0 nearest", 33, "36.5", domain.RoundingNearest, 0, 1200},
		{"precision 0 up", 33, "36.5", domain.RoundingUp, 0, 1300},
		{"precision 0 down", 33, "36.5", domain.RoundingDown, 0, 1200},
		// Precision 1 rounds to 10-cent steps: 1204.5 -> 1200 (down), 1210 (up).
		{"precision 1 up", 33, "36.5", domain.RoundingUp, 1, 1210},
		{"precision 1 down", 33, "36.5", domain.RoundingDown, 1, 1200},
		// Sub-cent precision clamps to the one-cent boundary.
		{"precision 4 behaves like 2", 10, "3.65", domain.RoundingBanker, 4, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := converter.Convert(
				domain.NewMoneyCents(tt.cents, domain.CurrencyStrong),
				decimal.RequireFromString(tt.rate),
				tt.mode, tt.precision,
			)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Cents)
			assert.Equal(t, domain.CurrencyLocal, got.Currency)
		})
	}
}

func TestConvert_InvalidRate(t *testing.T) {
	converter := services.NewMoneyConverter()

	for _, rate := range []string{"0", "-36.5"} {
		_, err := converter.Convert(
			domain.NewMoneyCents(1000, domain.CurrencyStrong),
			decimal.RequireFromString(rate),
			domain.RoundingNearest, 2,
		)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRate, "rate %s", rate)
	}
}

func TestConvert_InvalidPrecision(t *testing.T) {
	converter := services.NewMoneyConverter()

	_, err := converter.Convert(
		domain.NewMoneyCents(1000, domain.CurrencyStrong),
		decimal.RequireFromString("36.5"),
		domain.RoundingNearest, 5,
	)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// Round-tripping through both directions must land within one minor unit of
// the original amount, for every rounding mode.
func TestConvert_RoundTripTolerance(t *testing.T) {
	converter := services.NewMoneyConverter()

	amounts := []int64{1, 3, 99, 100, 1000, 12345, 999999}
	rates := []string{"36.5", "37.123456", "6.18", "103.07", "1.01"}
	modes := []domain.RoundingMode{
		domain.RoundingUp, domain.RoundingDown,
		domain.RoundingNearest, domain.RoundingBanker,
	}

	for _, cents := range amounts {
		for _, rateStr := range rates {
			rate := decimal.RequireFromString(rateStr)
			for _, mode := range modes {
				local, err := converter.Convert(domain.NewMoneyCents(cents, domain.CurrencyStrong), rate, mode, 2)
				require.NoError(t, err)

				back, err := converter.Convert(local, rate, mode, 2)
				require.NoError(t, err)

				diff := back.Cents - cents
				if diff < 0 {
					diff = -diff
				}
				assert.LessOrEqual(t, diff, int64(1),
					"round trip of %d cents at rate %s with mode %s drifted by %d", cents, rateStr, mode, diff)
			}
		}
	}
}

// Identical inputs must produce identical outputs across repeated calls.
func TestConvert_Reproducible(t *testing.T) {
	converter := services.NewMoneyConverter()
	rate := decimal.RequireFromString("37.123456")
	amount := domain.NewMoneyCents(98765, domain.CurrencyStrong)

	first, err := converter.Convert(amount, rate, domain.RoundingBanker, 2)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := converter.Convert(amount, rate, domain.RoundingBanker, 2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
