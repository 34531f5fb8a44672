// Package export renders a quote into shareable documents: a self-contained
// HTML page, a PDF, and a DOCX. The package only projects the quote and the
// display options into each format; layout engines are external.
package export

import (
	"time"

	"github.com/teslaing/cotizador/internal/quote"
)

// CompanyInfo is the letterhead identity printed on every document.
type CompanyInfo struct {
	Name    string `yaml:"name"`
	RUC     string `yaml:"ruc"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

// Options are the presentation toggles. They never change computed amounts,
// only which columns and breakdown lines appear.
type Options struct {
	HideUnitPrices bool
	HideItemTotals bool
	TaxMode        quote.TaxDisplayMode
	LogoBase64     string
	Company        CompanyInfo
	Date           time.Time
}

// showIGVLine reports whether the IGV breakdown rows are printed. Every
// mode prints the taxed total as the final amount.
func (o Options) showIGVLine() bool {
	return o.TaxMode == "" || o.TaxMode == quote.TaxExcluded
}

// taxNote is the caption under the totals block for the single-line modes.
func (o Options) taxNote() string {
	switch o.TaxMode {
	case quote.TaxIncluded:
		return "Los precios incluyen IGV (18%)"
	case quote.TaxHidden:
		return ""
	default:
		return ""
	}
}
