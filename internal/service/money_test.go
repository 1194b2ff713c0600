package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/model"
)

func TestNetValue(t *testing.T) {
	tests := []struct {
		name                        string
		list, pct, discount, charge string
		want                        string
	}{
		{name: "discounts and charge", list: "100", pct: "10", discount: "5", charge: "20", want: "105"},
		{name: "no discount", list: "250", pct: "0", discount: "0", charge: "0", want: "250"},
		{name: "discount exceeds price", list: "100", pct: "50", discount: "80", charge: "0", want: "0"},
		{name: "floor applies before charge", list: "100", pct: "100", discount: "10", charge: "12.5", want: "12.5"},
		{name: "rounded to cents", list: "33.33", pct: "12.5", discount: "0", charge: "0", want: "29.16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetValue(dec(tt.list), dec(tt.pct), dec(tt.discount), dec(tt.charge))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestNetValue_NeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		list := decimal.New(rapid.Int64Range(0, 1_000_000).Draw(t, "list_cents"), -2)
		pct := decimal.NewFromInt(rapid.Int64Range(0, 100).Draw(t, "pct"))
		discount := decimal.New(rapid.Int64Range(0, 2_000_000).Draw(t, "discount_cents"), -2)
		charge := decimal.New(rapid.Int64Range(0, 100_000).Draw(t, "charge_cents"), -2)

		got := NetValue(list, pct, discount, charge)
		if got.IsNegative() {
			t.Fatalf("net value %s is negative", got)
		}
		if got.LessThan(charge) {
			t.Fatalf("net value %s is below the additional charge %s", got, charge)
		}
	})
}

func TestApportionCharges(t *testing.T) {
	split := ApportionCharges(dec("10"), 3, model.ChargeSplit)
	assert.Equal(t, []string{"3.34", "3.33", "3.33"}, asStrings(split))

	single := ApportionCharges(dec("10"), 3, model.ChargeSingle)
	assert.Equal(t, []string{"10", "0", "0"}, asStrings(single))

	one := ApportionCharges(dec("20"), 1, model.ChargeSplit)
	assert.Equal(t, []string{"20"}, asStrings(one))

	assert.Nil(t, ApportionCharges(dec("5"), 0, model.ChargeSplit))
}

func TestApportionCharges_SumsToTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := decimal.New(rapid.Int64Range(0, 10_000_000).Draw(t, "cents"), -2)
		n := rapid.IntRange(1, 25).Draw(t, "n")
		mode := rapid.SampledFrom([]model.ChargeMode{model.ChargeSplit, model.ChargeSingle}).Draw(t, "mode")

		sum := decimal.Zero
		for _, c := range ApportionCharges(total, n, mode) {
			if c.IsNegative() {
				t.Fatalf("negative share %s", c)
			}
			sum = sum.Add(c)
		}
		if !sum.Equal(total) {
			t.Fatalf("shares add up to %s, want %s", sum, total)
		}
	})
}

func asStrings(ds []decimal.Decimal) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}
