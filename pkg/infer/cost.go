package infer

import (
	"math"

	"github.com/shopspring/decimal"
)

// Cost is the per-unit price of a filament.
type Cost struct {
	PerGram float64 `json:"per_gram" yaml:"per_gram"`
	PerKg   float64 `json:"per_kg" yaml:"per_kg"`
}

var thousand = decimal.NewFromInt(1000)

// CostOf derives per-gram and per-kilogram prices from a spool price and
// net filament weight in grams. A non-positive weight, or an input that is
// not a finite number, yields zero for both.
func CostOf(price, weight float64) Cost {
	if weight <= 0 || !finite(price) || !finite(weight) {
		return Cost{}
	}
	p := decimal.NewFromFloat(price)
	w := decimal.NewFromFloat(weight)
	return Cost{
		PerGram: p.Div(w).InexactFloat64(),
		PerKg:   p.Mul(thousand).Div(w).InexactFloat64(),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
