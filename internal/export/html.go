package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

// htmlDoc is the template context. Everything is precomputed so the template
// stays free of arithmetic.
type htmlDoc struct {
	Company  CompanyInfo
	Logo     template.URL
	Quote    *models.Quote
	Date     string
	Version  string
	Chapters []htmlChapter
	Totals   quote.FormattedTotals
	Final    string
	Opts     Options
	ShowIGV  bool
	TaxNote  string
}

type htmlChapter struct {
	Label string
	Rows  []htmlRow
}

type htmlRow struct {
	Description string
	Unit        string
	Quantity    string
	UnitPrice   string
	Total       string
	Note        string
}

var htmlTmpl = template.Must(template.New("quote").Parse(htmlTemplate))

// RenderHTML produces a fully self-contained document: inline CSS, inline
// logo, no external references. Output is deterministic for identical inputs.
func RenderHTML(q *models.Quote, opts Options) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("export: nil quote")
	}
	totals := quote.ComputeTotals(q.Items)
	doc := htmlDoc{
		Company: opts.Company,
		Quote:   q,
		Date:    opts.Date.Format("02/01/2006"),
		Version: q.Version.String(),
		Totals:  totals.Format(),
		Final:   fmt.Sprintf("%.2f", totals.DisplayTotal(opts.TaxMode)),
		Opts:    opts,
		ShowIGV: opts.showIGVLine(),
		TaxNote: opts.taxNote(),
	}
	if opts.LogoBase64 != "" {
		doc.Logo = template.URL("data:image/png;base64," + opts.LogoBase64)
	}
	for _, ch := range quote.GroupByChapter(q.Items) {
		hc := htmlChapter{Label: ch.Label}
		for _, it := range ch.Items {
			hc.Rows = append(hc.Rows, htmlRow{
				Description: it.Description,
				Unit:        it.Unit,
				Quantity:    fmt.Sprintf("%.2f", it.Quantity),
				UnitPrice:   fmt.Sprintf("%.2f", it.UnitPrice),
				Total:       fmt.Sprintf("%.2f", it.LineTotal()),
				Note:        it.Note,
			})
		}
		doc.Chapters = append(doc.Chapters, hc)
	}
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("export: render html: %w", err)
	}
	return buf.Bytes(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Cotización {{.Quote.Numero}}</title>
<style>
body{font-family:Arial,Helvetica,sans-serif;color:#1a1a1a;margin:40px;font-size:13px}
header{display:flex;justify-content:space-between;align-items:flex-start;border-bottom:3px solid #c8a038;padding-bottom:14px}
h1{font-size:22px;margin:0;color:#1f2d3d}
.meta{text-align:right;font-size:12px;color:#555}
.logo{max-height:70px}
.cliente{margin:18px 0;padding:12px;background:#f6f6f4;border-radius:4px}
.cliente td{padding:2px 14px 2px 0}
h2.capitulo{font-size:14px;background:#1f2d3d;color:#fff;padding:6px 10px;margin:22px 0 0}
table.items{width:100%;border-collapse:collapse}
table.items th{background:#e9e5da;text-align:left;padding:6px 8px;font-size:12px}
table.items td{border-bottom:1px solid #ddd;padding:6px 8px;vertical-align:top}
td.num,th.num{text-align:right;white-space:nowrap}
.nota{color:#777;font-size:11px}
.totales{margin-top:24px;margin-left:auto;width:280px;border-collapse:collapse}
.totales td{padding:5px 8px}
.totales .monto{text-align:right;font-variant-numeric:tabular-nums}
.totales tr.total td{border-top:2px solid #1f2d3d;font-weight:bold;font-size:15px}
.tax-note{text-align:right;color:#777;font-size:11px;margin-top:4px}
section.texto{margin-top:26px}
section.texto h3{font-size:13px;color:#1f2d3d;border-bottom:1px solid #c8a038;padding-bottom:3px}
footer{margin-top:40px;border-top:1px solid #ccc;padding-top:10px;font-size:11px;color:#777;text-align:center}
</style>
</head>
<body>
<header>
  <div>
    {{if .Logo}}<img class="logo" src="{{.Logo}}" alt="logo">{{end}}
    <h1>{{.Company.Name}}</h1>
    <div class="meta" style="text-align:left">{{if .Company.RUC}}RUC {{.Company.RUC}}{{end}}{{if .Company.Address}} · {{.Company.Address}}{{end}}</div>
  </div>
  <div class="meta">
    <strong>COTIZACIÓN {{.Quote.Numero}}</strong><br>
    Fecha: {{.Date}}<br>
    Versión: {{.Version}}<br>
    Estado: {{.Quote.State}}
  </div>
</header>

<div class="cliente">
<table>
<tr><td><strong>Cliente:</strong></td><td>{{.Quote.Client.Name}}</td></tr>
{{if .Quote.Client.Project}}<tr><td><strong>Proyecto:</strong></td><td>{{.Quote.Client.Project}}</td></tr>{{end}}
{{if .Quote.Client.Address}}<tr><td><strong>Dirección:</strong></td><td>{{.Quote.Client.Address}}</td></tr>{{end}}
{{if .Quote.Client.Floors}}<tr><td><strong>Pisos:</strong></td><td>{{.Quote.Client.Floors}}</td></tr>{{end}}
{{if .Quote.Client.Units}}<tr><td><strong>Departamentos:</strong></td><td>{{.Quote.Client.Units}}</td></tr>{{end}}
</table>
</div>

{{range .Chapters}}
<h2 class="capitulo">{{.Label}}</h2>
<table class="items">
<tr>
  <th>Descripción</th>
  <th>Und.</th>
  <th class="num">Cant.</th>
  {{if not $.Opts.HideUnitPrices}}<th class="num">P. Unitario</th>{{end}}
  {{if not $.Opts.HideItemTotals}}<th class="num">Total</th>{{end}}
</tr>
{{range .Rows}}
<tr>
  <td>{{.Description}}{{if .Note}}<div class="nota">{{.Note}}</div>{{end}}</td>
  <td>{{.Unit}}</td>
  <td class="num">{{.Quantity}}</td>
  {{if not $.Opts.HideUnitPrices}}<td class="num">{{.UnitPrice}}</td>{{end}}
  {{if not $.Opts.HideItemTotals}}<td class="num">{{.Total}}</td>{{end}}
</tr>
{{end}}
</table>
{{end}}

<table class="totales">
{{if .ShowIGV}}
<tr><td>Subtotal</td><td class="monto">S/ {{.Totals.Subtotal}}</td></tr>
<tr><td>IGV (18%)</td><td class="monto">S/ {{.Totals.IGV}}</td></tr>
{{end}}
<tr class="total"><td>TOTAL</td><td class="monto">S/ {{.Final}}</td></tr>
</table>
{{if .TaxNote}}<div class="tax-note">{{.TaxNote}}</div>{{end}}

{{if .Quote.Summary}}
<section class="texto">
<h3>Resumen del proyecto</h3>
<p>{{.Quote.Summary}}</p>
</section>
{{end}}

{{if .Quote.Recommendations}}
<section class="texto">
<h3>Recomendaciones técnicas</h3>
<p>{{.Quote.Recommendations}}</p>
</section>
{{end}}

<section class="texto">
<h3>Condiciones comerciales</h3>
<ul>
{{if .Quote.Terms.PricesIncludeTax}}<li>Los precios incluyen IGV.</li>{{else}}<li>Los precios no incluyen IGV.</li>{{end}}
{{if .Quote.Terms.PaymentTerms}}<li>Forma de pago: {{.Quote.Terms.PaymentTerms}}</li>{{end}}
{{if .Quote.Terms.Validity}}<li>Validez de la oferta: {{.Quote.Terms.Validity}}</li>{{end}}
{{if .Quote.Terms.Warranty}}<li>Garantía: {{.Quote.Terms.Warranty}}</li>{{end}}
{{if .Quote.Terms.Other}}<li>{{.Quote.Terms.Other}}</li>{{end}}
</ul>
</section>

<footer>
{{.Company.Name}}{{if .Company.Phone}} · {{.Company.Phone}}{{end}}{{if .Company.Email}} · {{.Company.Email}}{{end}}
</footer>
</body>
</html>
`
