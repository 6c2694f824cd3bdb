package bidding

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decimalPointer(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		name        string
		currentBid  *decimal.Decimal
		proposed    string
		expectedErr error
	}{
		{
			name:        "first_bid_no_current",
			currentBid:  nil,
			proposed:    "100",
			expectedErr: nil,
		},
		{
			name:        "higher_than_current",
			currentBid:  decimalPointer("100"),
			proposed:    "150",
			expectedErr: ErrBidNotLower,
		},
		{
			name:        "equal_to_current_is_not_lower",
			currentBid:  decimalPointer("100"),
			proposed:    "100",
			expectedErr: ErrBidNotLower,
		},
		{
			name:        "negative_amount",
			currentBid:  decimalPointer("100"),
			proposed:    "-5",
			expectedErr: ErrBidNotPositive,
		},
		{
			name:        "zero_amount",
			currentBid:  nil,
			proposed:    "0",
			expectedErr: ErrBidNotPositive,
		},
		{
			name:        "lower_than_current",
			currentBid:  decimalPointer("100"),
			proposed:    "50",
			expectedErr: nil,
		},
		{
			name:        "marginally_lower",
			currentBid:  decimalPointer("100"),
			proposed:    "99.99",
			expectedErr: nil,
		},
		{
			name:        "negative_without_current",
			currentBid:  nil,
			proposed:    "-1",
			expectedErr: ErrBidNotPositive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Admit(tc.currentBid, decimal.RequireFromString(tc.proposed))
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// Admit must be a pure decision: the same inputs always yield the same outcome,
// and the inputs are never mutated.
func TestAdmitDoesNotMutateCurrentBid(t *testing.T) {
	current := decimal.RequireFromString("100")

	require.NoError(t, Admit(&current, decimal.RequireFromString("80")))
	require.True(t, current.Equal(decimal.RequireFromString("100")))

	require.ErrorIs(t, Admit(&current, decimal.RequireFromString("120")), ErrBidNotLower)
	require.True(t, current.Equal(decimal.RequireFromString("100")))
}
