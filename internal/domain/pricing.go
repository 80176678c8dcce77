package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// Pricing is the per-backend policy for tax, numbering and time estimates.
// The primary store and the fallback intentionally carry different values.
type Pricing struct {
	TaxRate      decimal.Decimal
	NumberPrefix string
	NumberWidth  int

	// DefaultEstimate is added to the creation time. When EstimateFromMenu is
	// set the slowest item's preparation time wins if it is longer.
	DefaultEstimate  time.Duration
	EstimateFromMenu bool
}

func PrimaryPricing(taxRate float64) Pricing {
	return Pricing{
		TaxRate:         decimal.NewFromFloat(taxRate),
		NumberPrefix:    "ORD",
		NumberWidth:     6,
		DefaultEstimate: 30 * time.Minute,
	}
}

func FallbackPricing(taxRate float64) Pricing {
	return Pricing{
		TaxRate:          decimal.NewFromFloat(taxRate),
		NumberPrefix:     "MB",
		NumberWidth:      3,
		DefaultEstimate:  15 * time.Minute,
		EstimateFromMenu: true,
	}
}

type Totals struct {
	Subtotal float64
	Tax      float64
	Tip      float64
	Total    float64
}

// LineSubtotal is (unit price + customization prices) x quantity, rounded to cents.
func LineSubtotal(unitPrice float64, customizations []Customization, quantity int) float64 {
	unit := decimal.NewFromFloat(unitPrice)
	for _, c := range customizations {
		unit = unit.Add(decimal.NewFromFloat(c.AdditionalPrice))
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyPlaces).InexactFloat64()
}

// Price sums line subtotals and derives tax and total. Tip is added untaxed.
func (p Pricing) Price(items []LineItem, tip float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Subtotal))
	}
	subtotal = subtotal.Round(moneyPlaces)
	tax := subtotal.Mul(p.TaxRate).Round(moneyPlaces)
	tipD := decimal.NewFromFloat(tip).Round(moneyPlaces)
	total := subtotal.Add(tax).Add(tipD)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Tip:      tipD.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

func (p Pricing) FormatNumber(seq int64) string {
	return fmt.Sprintf("%s%0*d", p.NumberPrefix, p.NumberWidth, seq)
}

// Estimate returns the expected ready time for an order placed at now.
func (p Pricing) Estimate(now time.Time, prepMinutes []int) time.Time {
	d := p.DefaultEstimate
	if p.EstimateFromMenu {
		for _, m := range prepMinutes {
			if md := time.Duration(m) * time.Minute; md > d {
				d = md
			}
		}
	}
	return now.Add(d)
}

// CheckTotals verifies the money invariants of a stored order.
func (o *Order) CheckTotals() error {
	sum := decimal.Zero
	for i, item := range o.Items {
		want := LineSubtotal(item.UnitPrice, item.Customizations, item.Quantity)
		if !decimal.NewFromFloat(item.Subtotal).Equal(decimal.NewFromFloat(want)) {
			return fmt.Errorf("item %d subtotal %v, want %v", i, item.Subtotal, want)
		}
		sum = sum.Add(decimal.NewFromFloat(item.Subtotal))
	}
	if !sum.Round(moneyPlaces).Equal(decimal.NewFromFloat(o.Subtotal)) {
		return fmt.Errorf("subtotal %v, want %v", o.Subtotal, sum)
	}
	total := decimal.NewFromFloat(o.Subtotal).
		Add(decimal.NewFromFloat(o.Tax)).
		Add(decimal.NewFromFloat(o.Tip))
	if !total.Round(moneyPlaces).Equal(decimal.NewFromFloat(o.Total)) {
		return fmt.Errorf("total %v, want %v", o.Total, total)
	}
	return nil
}
