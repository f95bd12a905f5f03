package invoice

import "github.com/shopspring/decimal"

const DefaultTaxRate = 0.10

type Line struct {
	Qty            int
	UnitPriceCents int64
	// TaxRate nil means DefaultTaxRate; a zero rate is kept as zero.
	TaxRate *float64
}

type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// LineTax rounds each line on its own, half away from zero.
func LineTax(qty int, unitPriceCents int64, rate float64) int64 {
	return decimal.NewFromInt(int64(qty) * unitPriceCents).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		IntPart()
}

func ComputeTotals(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		rate := DefaultTaxRate
		if l.TaxRate != nil {
			rate = *l.TaxRate
		}
		t.SubtotalCents += int64(l.Qty) * l.UnitPriceCents
		t.TaxCents += LineTax(l.Qty, l.UnitPriceCents, rate)
	}
	t.TotalCents = t.SubtotalCents + t.TaxCents
	return t
}
