package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementTypeFor(t *testing.T) {
	tests := []struct {
		typ     AdjustmentType
		reason  AdjustmentReason
		want    MovementType
		wantErr error
	}{
		{AdjustStockIn, ReasonNone, MovementPurchase, nil},
		{AdjustStockOut, ReasonNone, MovementAdjustment, nil},
		{AdjustStockOut, ReasonExpired, MovementExpired, nil},
		{AdjustStockOut, ReasonDamaged, MovementDamaged, nil},
		{AdjustStockIn, ReasonDamaged, "", ErrInvalidAdjustmentReason},
		{AdjustStockOut, "stolen", "", ErrInvalidAdjustmentReason},
		{"transfer", ReasonNone, "", ErrInvalidAdjustmentType},
	}

	for _, tt := range tests {
		got, err := MovementTypeFor(tt.typ, tt.reason)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "%s/%s", tt.typ, tt.reason)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
