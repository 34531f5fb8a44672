// Package quote implements the derived computations over a quote: totals,
// item editing, chapter grouping, and version history.
package quote

import (
	"fmt"
	"math"

	"github.com/teslaing/cotizador/internal/models"
)

// IGVRate is the Peruvian value-added tax applied to every quote. Fixed by
// business rule, not configurable.
const IGVRate = 0.18

// TaxDisplayMode controls how the IGV breakdown is presented. It never
// changes the computed amounts.
type TaxDisplayMode string

// Display modes.
const (
	TaxExcluded TaxDisplayMode = "sin-igv" // subtotal + IGV + total lines
	TaxIncluded TaxDisplayMode = "con-igv" // single total, prices already taxed
	TaxHidden   TaxDisplayMode = "oculto"  // single total, IGV line suppressed
)

// Valid reports whether m is a known display mode.
func (m TaxDisplayMode) Valid() bool {
	switch m {
	case TaxExcluded, TaxIncluded, TaxHidden:
		return true
	}
	return false
}

// Totals are derived from the items on every read; they are never stored
// as a source of truth.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	IGV      float64 `json:"igv"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums quantity × unit price over all items. Rows whose
// quantity or price is negative or not a number contribute zero. No
// intermediate rounding; callers format at the edge.
func ComputeTotals(items []models.LineItem) Totals {
	var subtotal float64
	for _, it := range items {
		q, p := it.Quantity, it.UnitPrice
		if math.IsNaN(q) || math.IsNaN(p) || q < 0 || p < 0 {
			continue
		}
		subtotal += q * p
	}
	return Totals{
		Subtotal: subtotal,
		IGV:      subtotal * IGVRate,
		Total:    subtotal * (1 + IGVRate),
	}
}

// FormattedTotals is the two-decimal rendering used by views and exports.
type FormattedTotals struct {
	Subtotal string `json:"subtotal"`
	IGV      string `json:"igv"`
	Total    string `json:"total"`
}

// Format renders each amount with exactly two decimals.
func (t Totals) Format() FormattedTotals {
	return FormattedTotals{
		Subtotal: fmt.Sprintf("%.2f", t.Subtotal),
		IGV:      fmt.Sprintf("%.2f", t.IGV),
		Total:    fmt.Sprintf("%.2f", t.Total),
	}
}

// DisplayTotal returns the final amount shown for any display mode. Every
// mode shows the taxed total; TaxHidden and TaxIncluded only change which
// breakdown lines appear.
func (t Totals) DisplayTotal(TaxDisplayMode) float64 { return t.Total }
