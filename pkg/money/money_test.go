package money_test

import (
	"math"
	"testing"

	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		want    money.Amount
		wantErr error
	}{
		{"whole value", 10.00, 1000, nil},
		{"one cent", 0.01, 1, nil},
		{"large value", 1000000.99, 100000099, nil},
		{"sub-cent precision", 10.005, 0, money.ErrInvalidAmount},
		{"zero", 0, 0, money.ErrInvalidAmount},
		{"negative", -100, 0, money.ErrInvalidAmount},
		{"NaN", math.NaN(), 0, money.ErrInvalidAmount},
		{"positive infinity", math.Inf(1), 0, money.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBalance_AcceptsZero(t *testing.T) {
	got, err := money.ParseBalance(0)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), got)

	_, err = money.ParseBalance(-0.01)
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestAdd_Overflow(t *testing.T) {
	_, err := money.Add(math.MaxInt64, 1)
	require.ErrorIs(t, err, money.ErrAmountExceedsMaxSafeInt)

	got, err := money.Add(100, 50)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(150), got)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1234.50", money.Format(123450))
	assert.Equal(t, "0.01", money.Format(1))
	assert.Equal(t, "0.00", money.Format(0))
}

func TestFloat_RoundTripsDisplayPrecision(t *testing.T) {
	assert.InDelta(t, 900.00, money.Float(90000), 1e-9)
}
