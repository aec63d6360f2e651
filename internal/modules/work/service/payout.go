package service

import (
	"time"

	"anoa.com/dispatchhub/internal/model"
	"anoa.com/dispatchhub/internal/modules/work/dto"
	"anoa.com/dispatchhub/pkg/money"
)

// CalculatePayout derives the driver payout and the company fee for a work.
//
// Base amount = charge + adjustment + subsidy. For DIRECT works the customer
// pays the driver directly and no fee is recorded. For CASH works the company
// remits the cash and retains commissionRate of the base amount; the fee is
// rounded through pkg/money so that summing many rows never drifts.
func CalculatePayout(w *model.Work, commissionRate float64) (payout, fee float64) {
	base := w.Charge
	if w.Adjustment != nil {
		base += *w.Adjustment
	}
	if w.Subsidy != nil {
		base += *w.Subsidy
	}

	payout = float64(base)
	if w.PaymentType == model.PaymentTypeCash {
		fee = money.Round(payout * commissionRate)
	}
	return payout, fee
}

// withPayout decorates a work with its derived state, payout and fee.
// The stored model is never mutated.
func withPayout(w model.Work, commissionRate float64) dto.WorkResponse {
	payout, fee := CalculatePayout(&w, commissionRate)
	return dto.WorkResponse{
		Work:   w,
		State:  w.State(time.Now()),
		Payout: payout,
		Fee:    fee,
	}
}

func withPayoutAll(works []model.Work, commissionRate float64) []dto.WorkResponse {
	responses := make([]dto.WorkResponse, 0, len(works))
	for _, w := range works {
		responses = append(responses, withPayout(w, commissionRate))
	}
	return responses
}
