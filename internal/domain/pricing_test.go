package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_PrimaryExample(t *testing.T) {
	items := []LineItem{{UnitPrice: 100, Quantity: 2, Subtotal: LineSubtotal(100, nil, 2)}}

	got := PrimaryPricing(0.08).Price(items, 0)

	assert.Equal(t, 200.0, got.Subtotal)
	assert.Equal(t, 16.0, got.Tax)
	assert.Equal(t, 216.0, got.Total)
}

func TestPrice_FallbackExample(t *testing.T) {
	items := []LineItem{{UnitPrice: 100, Quantity: 2, Subtotal: LineSubtotal(100, nil, 2)}}

	got := FallbackPricing(0.18).Price(items, 0)

	assert.Equal(t, 200.0, got.Subtotal)
	assert.Equal(t, 36.0, got.Tax)
	assert.Equal(t, 236.0, got.Total)
}

func TestPrice_TipAndCustomizations(t *testing.T) {
	custom := []Customization{{Name: "extra cheese", AdditionalPrice: 20.5}}
	items := []LineItem{
		{UnitPrice: 245, Quantity: 1, Customizations: custom, Subtotal: LineSubtotal(245, custom, 1)},
		{UnitPrice: 55, Quantity: 3, Subtotal: LineSubtotal(55, nil, 3)},
	}

	got := PrimaryPricing(0.08).Price(items, 25)

	assert.Equal(t, 265.5, items[0].Subtotal)
	assert.Equal(t, 430.5, got.Subtotal)
	assert.Equal(t, 34.44, got.Tax)
	assert.Equal(t, 25.0, got.Tip)
	assert.Equal(t, 489.94, got.Total)
}

func TestPrice_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pricing := []Pricing{PrimaryPricing(0.08), FallbackPricing(0.18)}

	for i := 0; i < 500; i++ {
		p := pricing[i%2]
		n := rng.Intn(5) + 1
		o := &Order{}
		for j := 0; j < n; j++ {
			price := float64(rng.Intn(50000)) / 100
			qty := rng.Intn(9) + 1
			var custom []Customization
			if rng.Intn(2) == 0 {
				custom = []Customization{{Name: "c", AdditionalPrice: float64(rng.Intn(5000)) / 100}}
			}
			o.Items = append(o.Items, LineItem{
				UnitPrice:      price,
				Quantity:       qty,
				Customizations: custom,
				Subtotal:       LineSubtotal(price, custom, qty),
			})
		}
		totals := p.Price(o.Items, float64(rng.Intn(1000))/100)
		o.Subtotal, o.Tax, o.Tip, o.Total = totals.Subtotal, totals.Tax, totals.Tip, totals.Total

		require.NoError(t, o.CheckTotals(), "iteration %d", i)
	}
}

func TestCheckTotals_DetectsMismatch(t *testing.T) {
	o := &Order{
		Items:    []LineItem{{UnitPrice: 100, Quantity: 2, Subtotal: 200}},
		Subtotal: 200,
		Tax:      16,
		Total:    215,
	}
	assert.Error(t, o.CheckTotals())

	o.Total = 216
	assert.NoError(t, o.CheckTotals())

	o.Items[0].Subtotal = 100
	assert.Error(t, o.CheckTotals())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "ORD000001", PrimaryPricing(0.08).FormatNumber(1))
	assert.Equal(t, "ORD001234", PrimaryPricing(0.08).FormatNumber(1234))
	assert.Equal(t, "MB007", FallbackPricing(0.18).FormatNumber(7))
	assert.Equal(t, "MB1000", FallbackPricing(0.18).FormatNumber(1000))
}

func TestEstimate(t *testing.T) {
	now := time.Date(2024, 12, 8, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(30*time.Minute), PrimaryPricing(0.08).Estimate(now, []int{60}))

	fb := FallbackPricing(0.18)
	assert.Equal(t, now.Add(15*time.Minute), fb.Estimate(now, []int{5, 10}))
	assert.Equal(t, now.Add(45*time.Minute), fb.Estimate(now, []int{10, 45, 20}))
	assert.Equal(t, now.Add(15*time.Minute), fb.Estimate(now, nil))
}
