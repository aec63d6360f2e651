package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anoa.com/dispatchhub/internal/model"
	"anoa.com/dispatchhub/pkg/money"
)

func intPtr(v int) *int { return &v }

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name       string
		work       model.Work
		rate       float64
		wantPayout float64
		wantFee    float64
	}{
		{
			name:       "direct work has no fee",
			work:       model.Work{Charge: 50000, PaymentType: model.PaymentTypeDirect},
			rate:       0.1,
			wantPayout: 50000,
			wantFee:    0,
		},
		{
			name:       "cash work pays commission on the base",
			work:       model.Work{Charge: 50000, PaymentType: model.PaymentTypeCash},
			rate:       0.1,
			wantPayout: 50000,
			wantFee:    5000,
		},
		{
			name: "adjustment and subsidy extend the base",
			work: model.Work{
				Charge:      40000,
				Adjustment:  intPtr(5000),
				Subsidy:     intPtr(5000),
				PaymentType: model.PaymentTypeCash,
			},
			rate:       0.1,
			wantPayout: 50000,
			wantFee:    5000,
		},
		{
			name: "negative adjustment reduces the base",
			work: model.Work{
				Charge:      50000,
				Adjustment:  intPtr(-10000),
				PaymentType: model.PaymentTypeCash,
			},
			rate:       0.1,
			wantPayout: 40000,
			wantFee:    4000,
		},
		{
			name:       "fee is rounded to cents",
			work:       model.Work{Charge: 333, PaymentType: model.PaymentTypeCash},
			rate:       0.1,
			wantPayout: 333,
			wantFee:    33.3,
		},
		{
			name:       "direct ignores the rate entirely",
			work:       model.Work{Charge: 333, PaymentType: model.PaymentTypeDirect},
			rate:       0.25,
			wantPayout: 333,
			wantFee:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, fee := CalculatePayout(&tt.work, tt.rate)
			assert.Equal(t, tt.wantPayout, payout)
			assert.Equal(t, tt.wantFee, fee)
		})
	}
}

func TestCalculatePayoutNoDriftAcrossManyWorks(t *testing.T) {
	// Summing payout minus fee over many rows must stay exact to the cent.
	work := model.Work{Charge: 11, PaymentType: model.PaymentTypeCash}

	var total float64
	for i := 0; i < 1000; i++ {
		payout, fee := CalculatePayout(&work, 0.01)
		total = money.Add(total, payout-fee)
	}

	// 1000 * (11 - 0.11) = 10890 exactly.
	assert.Equal(t, 10890.0, total)
}
