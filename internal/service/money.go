package service

import (
	"github.com/shopspring/decimal"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

// NetValue is the list price less percentage and flat discounts, floored
// at zero, plus the entry's share of additional charges. The result is
// rounded to cents.
func NetValue(list, discountPct, discountValue, charge decimal.Decimal) decimal.Decimal {
	discount := list.Mul(discountPct).Div(hundred).Add(discountValue)
	v := list.Sub(discount)
	if v.IsNegative() {
		v = zero
	}
	return v.Add(charge).Round(2)
}

// ApportionCharges spreads total over n entries. In split mode each entry
// gets an equal share truncated to cents and the first entry also takes
// the remainder, so the shares always add up to total. In single mode the
// first entry takes everything.
func ApportionCharges(total decimal.Decimal, n int, mode model.ChargeMode) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = zero
	}
	total = total.Round(2)
	if mode == model.ChargeSingle {
		out[0] = total
		return out
	}
	share := total.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	for i := range out {
		out[i] = share
	}
	out[0] = out[0].Add(total.Sub(share.Mul(decimal.NewFromInt(int64(n)))))
	return out
}
