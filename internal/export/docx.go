package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

const (
	docxAccent = "1F2D3D"
	docxMuted  = "777777"
)

// RenderDOCX writes the quote as a Word document so clients can adjust
// wording before signing. Same column and totals rules as the other formats.
func RenderDOCX(q *models.Quote, opts Options) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("export: nil quote")
	}
	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText(opts.Company.Name).Size("32").Bold().Color(docxAccent)
	if opts.Company.RUC != "" || opts.Company.Address != "" {
		w.AddParagraph().AddText(joinNonEmpty(" · ", "RUC "+opts.Company.RUC, opts.Company.Address)).Size("18").Color(docxMuted)
	}
	w.AddParagraph().AddText(fmt.Sprintf("COTIZACIÓN %s · Versión %s · %s",
		q.Numero, q.Version.String(), opts.Date.Format("02/01/2006"))).Size("22").Bold()
	w.AddParagraph()

	w.AddParagraph().AddText("Cliente: " + q.Client.Name).Size("20").Bold()
	if q.Client.Project != "" {
		w.AddParagraph().AddText("Proyecto: " + q.Client.Project).Size("18")
	}
	if q.Client.Address != "" {
		w.AddParagraph().AddText("Dirección: " + q.Client.Address).Size("18")
	}
	w.AddParagraph()

	headers := []string{"Descripción", "Und.", "Cant."}
	if !opts.HideUnitPrices {
		headers = append(headers, "P. Unitario")
	}
	if !opts.HideItemTotals {
		headers = append(headers, "Total")
	}

	for _, ch := range quote.GroupByChapter(q.Items) {
		w.AddParagraph().AddText(ch.Label).Size("20").Bold().Color(docxAccent)
		tbl := w.AddTable(len(ch.Items)+1, len(headers), 9000, nil)
		for c, h := range headers {
			tbl.TableRows[0].TableCells[c].AddParagraph().AddText(h).Size("16").Bold()
		}
		for r, it := range ch.Items {
			cells := tbl.TableRows[r+1].TableCells
			desc := it.Description
			if it.Note != "" {
				desc += " (" + it.Note + ")"
			}
			row := []string{desc, it.Unit, fmt.Sprintf("%.2f", it.Quantity)}
			if !opts.HideUnitPrices {
				row = append(row, fmt.Sprintf("%.2f", it.UnitPrice))
			}
			if !opts.HideItemTotals {
				row = append(row, fmt.Sprintf("%.2f", it.LineTotal()))
			}
			for c, v := range row {
				cells[c].AddParagraph().AddText(v).Size("16")
			}
		}
		w.AddParagraph()
	}

	totals := quote.ComputeTotals(q.Items)
	tot := totals.Format()
	if opts.showIGVLine() {
		w.AddParagraph().AddText("Subtotal: S/ " + tot.Subtotal).Size("18")
		w.AddParagraph().AddText("IGV (18%): S/ " + tot.IGV).Size("18")
	}
	w.AddParagraph().AddText(fmt.Sprintf("TOTAL: S/ %.2f", totals.DisplayTotal(opts.TaxMode))).Size("24").Bold()
	if note := opts.taxNote(); note != "" {
		w.AddParagraph().AddText(note).Size("16").Color(docxMuted)
	}

	if q.Summary != "" {
		w.AddParagraph()
		w.AddParagraph().AddText("Resumen del proyecto").Size("20").Bold().Color(docxAccent)
		w.AddParagraph().AddText(q.Summary).Size("18")
	}
	if q.Recommendations != "" {
		w.AddParagraph().AddText("Recomendaciones técnicas").Size("20").Bold().Color(docxAccent)
		w.AddParagraph().AddText(q.Recommendations).Size("18")
	}

	w.AddParagraph().AddText("Condiciones comerciales").Size("20").Bold().Color(docxAccent)
	for _, line := range termLines(q.Terms) {
		w.AddParagraph().AddText("· " + line).Size("18")
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("export: write docx: %w", err)
	}
	return buf.Bytes(), nil
}

// joinNonEmpty joins the parts that carry content, skipping bare prefixes
// such as "RUC " when the value was empty.
func joinNonEmpty(sep string, parts ...string) string {
	var out string
	for _, p := range parts {
		if p == "" || p == "RUC " {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
