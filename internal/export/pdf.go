package export

import (
	"encoding/base64"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

// Column widths in grid units (12 total). The description column absorbs
// whatever the hidden columns free up.
func pdfColumns(opts Options) (desc, unit, qty, price, total int) {
	unit, qty = 1, 2
	if !opts.HideUnitPrices {
		price = 2
	}
	if !opts.HideItemTotals {
		total = 2
	}
	desc = 12 - unit - qty - price - total
	return
}

// RenderPDF lays the quote out with the same column and totals rules as the
// HTML renderer.
func RenderPDF(q *models.Quote, opts Options) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("export: nil quote")
	}
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	if opts.LogoBase64 != "" {
		logo, _ := base64.StdEncoding.DecodeString(opts.LogoBase64)
		m.AddRow(20, image.NewFromBytesCol(3, logo, extension.Png, props.Rect{Center: true}))
	}
	m.AddRow(9, text.NewCol(12, opts.Company.Name, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center}))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("COTIZACIÓN %s  ·  Versión %s  ·  %s",
		q.Numero, q.Version.String(), opts.Date.Format("02/01/2006")),
		props.Text{Size: 10, Align: align.Center}))
	m.AddRow(4)

	m.AddRow(6, text.NewCol(12, "Cliente: "+q.Client.Name, props.Text{Size: 10, Style: fontstyle.Bold}))
	if q.Client.Project != "" {
		m.AddRow(5, text.NewCol(12, "Proyecto: "+q.Client.Project, props.Text{Size: 9}))
	}
	if q.Client.Address != "" {
		m.AddRow(5, text.NewCol(12, "Dirección: "+q.Client.Address, props.Text{Size: 9}))
	}
	m.AddRow(3)

	descW, unitW, qtyW, priceW, totalW := pdfColumns(opts)
	for _, ch := range quote.GroupByChapter(q.Items) {
		m.AddRow(7, text.NewCol(12, ch.Label, props.Text{Size: 10, Style: fontstyle.Bold, Color: &props.Color{Red: 31, Green: 45, Blue: 61}}))
		header := []core.Col{
			text.NewCol(descW, "Descripción", props.Text{Size: 8, Style: fontstyle.Bold}),
			text.NewCol(unitW, "Und.", props.Text{Size: 8, Style: fontstyle.Bold}),
			text.NewCol(qtyW, "Cant.", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
		}
		if priceW > 0 {
			header = append(header, text.NewCol(priceW, "P. Unitario", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}))
		}
		if totalW > 0 {
			header = append(header, text.NewCol(totalW, "Total", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}))
		}
		m.AddRow(6, header...)

		for _, it := range ch.Items {
			cols := []core.Col{
				text.NewCol(descW, it.Description, props.Text{Size: 8}),
				text.NewCol(unitW, it.Unit, props.Text{Size: 8}),
				text.NewCol(qtyW, fmt.Sprintf("%.2f", it.Quantity), props.Text{Size: 8, Align: align.Right}),
			}
			if priceW > 0 {
				cols = append(cols, text.NewCol(priceW, fmt.Sprintf("%.2f", it.UnitPrice), props.Text{Size: 8, Align: align.Right}))
			}
			if totalW > 0 {
				cols = append(cols, text.NewCol(totalW, fmt.Sprintf("%.2f", it.LineTotal()), props.Text{Size: 8, Align: align.Right}))
			}
			m.AddRow(6, cols...)
			if it.Note != "" {
				m.AddRow(5, text.NewCol(descW, it.Note, props.Text{Size: 7, Style: fontstyle.Italic}))
			}
		}
	}

	m.AddRow(5)
	totals := quote.ComputeTotals(q.Items)
	tot := totals.Format()
	if opts.showIGVLine() {
		m.AddRow(5,
			text.NewCol(10, "Subtotal", props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, "S/ "+tot.Subtotal, props.Text{Size: 9, Align: align.Right}))
		m.AddRow(5,
			text.NewCol(10, "IGV (18%)", props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, "S/ "+tot.IGV, props.Text{Size: 9, Align: align.Right}))
	}
	m.AddRow(7,
		text.NewCol(10, "TOTAL", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, fmt.Sprintf("S/ %.2f", totals.DisplayTotal(opts.TaxMode)), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}))
	if note := opts.taxNote(); note != "" {
		m.AddRow(5, text.NewCol(12, note, props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Right}))
	}

	if q.Summary != "" {
		m.AddRow(4)
		m.AddRow(6, text.NewCol(12, "Resumen del proyecto", props.Text{Size: 10, Style: fontstyle.Bold}))
		m.AddRow(10, text.NewCol(12, q.Summary, props.Text{Size: 9}))
	}
	if q.Recommendations != "" {
		m.AddRow(6, text.NewCol(12, "Recomendaciones técnicas", props.Text{Size: 10, Style: fontstyle.Bold}))
		m.AddRow(10, text.NewCol(12, q.Recommendations, props.Text{Size: 9}))
	}

	m.AddRow(6, text.NewCol(12, "Condiciones comerciales", props.Text{Size: 10, Style: fontstyle.Bold}))
	for _, line := range termLines(q.Terms) {
		m.AddRow(5, text.NewCol(12, "· "+line, props.Text{Size: 9}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// termLines flattens the commercial terms into printable bullet lines.
func termLines(t models.CommercialTerms) []string {
	var out []string
	if t.PricesIncludeTax {
		out = append(out, "Los precios incluyen IGV.")
	} else {
		out = append(out, "Los precios no incluyen IGV.")
	}
	if t.PaymentTerms != "" {
		out = append(out, "Forma de pago: "+t.PaymentTerms)
	}
	if t.Validity != "" {
		out = append(out, "Validez de la oferta: "+t.Validity)
	}
	if t.Warranty != "" {
		out = append(out, "Garantía: "+t.Warranty)
	}
	if t.Other != "" {
		out = append(out, t.Other)
	}
	return out
}
