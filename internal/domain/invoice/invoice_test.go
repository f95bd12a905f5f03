package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rate(r float64) *float64 { return &r }

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals([]Line{
		{Qty: 2, UnitPriceCents: 1000, TaxRate: rate(0.10)},
	})
	assert.Equal(t, Totals{SubtotalCents: 2000, TaxCents: 200, TotalCents: 2200}, got)
}

func TestComputeTotals_HalfRoundsUp(t *testing.T) {
	got := ComputeTotals([]Line{{Qty: 1, UnitPriceCents: 5, TaxRate: rate(0.1)}})
	assert.Equal(t, Totals{SubtotalCents: 5, TaxCents: 1, TotalCents: 6}, got)
}

func TestComputeTotals_RoundsPerLine(t *testing.T) {
	lines := []Line{
		{Qty: 1, UnitPriceCents: 5, TaxRate: rate(0.1)},
		{Qty: 1, UnitPriceCents: 5, TaxRate: rate(0.1)},
	}
	// Rounding the sum (0.5 + 0.5) would give 1; per line gives 2.
	assert.Equal(t, int64(2), ComputeTotals(lines).TaxCents)
}

func TestComputeTotals_DefaultAndZeroRate(t *testing.T) {
	assert.Equal(t, int64(100), ComputeTotals([]Line{{Qty: 1, UnitPriceCents: 1000}}).TaxCents)
	assert.Equal(t, int64(0), ComputeTotals([]Line{{Qty: 1, UnitPriceCents: 1000, TaxRate: rate(0)}}).TaxCents)
}

func TestComputeTotals_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
}

func TestComputeTotals_TotalIsSubtotalPlusTax(t *testing.T) {
	lines := []Line{
		{Qty: 3, UnitPriceCents: 333, TaxRate: rate(0.15)},
		{Qty: 7, UnitPriceCents: 129},
		{Qty: 1, UnitPriceCents: 99999, TaxRate: rate(0.075)},
	}
	got := ComputeTotals(lines)
	assert.Equal(t, got.SubtotalCents+got.TaxCents, got.TotalCents)
}

func TestNextNumber(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"", "INV-0001"},
		{"INV-0001", "INV-0002"},
		{"INV-0041", "INV-0042"},
		{"INV-9999", "INV-10000"},
		{"INV-12abc", "INV-0013"},
		{"garbage", "INV-0001"},
		{"INV-", "INV-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.last, func(t *testing.T) {
			assert.Equal(t, tt.want, NextNumber(tt.last))
		})
	}
}

func TestAfterPayment(t *testing.T) {
	assert.Equal(t, StatusPaid, AfterPayment(StatusSent, 2200, 2200))
	assert.Equal(t, StatusPaid, AfterPayment(StatusDraft, 3000, 2200))
	assert.Equal(t, StatusSent, AfterPayment(StatusSent, 1000, 2200))
	assert.Equal(t, StatusPaid, AfterPayment(StatusPaid, 2200, 2200))
}

func TestAfterPaymentRemoval(t *testing.T) {
	assert.Equal(t, StatusSent, AfterPaymentRemoval(StatusPaid, 0, 2200))
	assert.Equal(t, StatusPaid, AfterPaymentRemoval(StatusPaid, 2200, 2200))
	assert.Equal(t, StatusDraft, AfterPaymentRemoval(StatusDraft, 0, 2200))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusPaid, StatusVoid} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("overdue").Valid())
}
