package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/teslaing/cotizador/internal/models"
)

// reportTypeLabel is the printed heading for each report kind.
func reportTypeLabel(t models.ReportType) string {
	switch t {
	case models.ReportExecutive:
		return "Informe Ejecutivo"
	case models.ReportTechnical:
		return "Informe Técnico"
	default:
		return "Informe"
	}
}

// reportSection is one titled block of body text. Sections with empty bodies
// are skipped by every renderer.
type reportSection struct {
	Title string
	Body  string
}

func reportSections(r *models.Report) []reportSection {
	all := []reportSection{
		{"Contenido", r.Content},
		{"Resumen ejecutivo", r.ExecutiveSummary},
		{"Conclusiones", r.Conclusions},
		{"Recomendaciones", r.Recommendations},
	}
	out := all[:0]
	for _, s := range all {
		if strings.TrimSpace(s.Body) != "" {
			out = append(out, s)
		}
	}
	return out
}

type reportDoc struct {
	Company  CompanyInfo
	Logo     template.URL
	Report   *models.Report
	Kind     string
	Date     string
	Sections []reportSection
}

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// RenderReportHTML produces a self-contained report page with the same
// letterhead as the quote documents.
func RenderReportHTML(r *models.Report, opts Options) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("export: nil report")
	}
	doc := reportDoc{
		Company:  opts.Company,
		Report:   r,
		Kind:     reportTypeLabel(r.Type),
		Date:     opts.Date.Format("02/01/2006"),
		Sections: reportSections(r),
	}
	if opts.LogoBase64 != "" {
		doc.Logo = template.URL("data:image/png;base64," + opts.LogoBase64)
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("export: render report html: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReportPDF lays the report out with the quote letterhead and one
// heading per non-empty section.
func RenderReportPDF(r *models.Report, opts Options) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("export: nil report")
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
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("%s  ·  %s", strings.ToUpper(reportTypeLabel(r.Type)), opts.Date.Format("02/01/2006")),
		props.Text{Size: 10, Align: align.Center}))
	m.AddRow(4)
	m.AddRow(8, text.NewCol(12, r.Title, props.Text{Size: 12, Style: fontstyle.Bold}))

	for _, s := range reportSections(r) {
		m.AddRow(7, text.NewCol(12, s.Title, props.Text{Size: 10, Style: fontstyle.Bold, Color: &props.Color{Red: 31, Green: 45, Blue: 61}}))
		m.AddRow(10, text.NewCol(12, s.Body, props.Text{Size: 9}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: generate report pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderReportDOCX writes the report as a Word document so the text can be
// reworked before distribution.
func RenderReportDOCX(r *models.Report, opts Options) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("export: nil report")
	}
	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText(opts.Company.Name).Size("32").Bold().Color(docxAccent)
	if opts.Company.RUC != "" || opts.Company.Address != "" {
		w.AddParagraph().AddText(joinNonEmpty(" · ", "RUC "+opts.Company.RUC, opts.Company.Address)).Size("18").Color(docxMuted)
	}
	w.AddParagraph().AddText(fmt.Sprintf("%s · %s", reportTypeLabel(r.Type), opts.Date.Format("02/01/2006"))).Size("22").Bold()
	w.AddParagraph()
	w.AddParagraph().AddText(r.Title).Size("24").Bold()

	for _, s := range reportSections(r) {
		w.AddParagraph()
		w.AddParagraph().AddText(s.Title).Size("20").Bold().Color(docxAccent)
		w.AddParagraph().AddText(s.Body).Size("18")
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("export: write report docx: %w", err)
	}
	return buf.Bytes(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Report.Title}}</title>
<style>
body{font-family:Arial,Helvetica,sans-serif;color:#1a1a1a;margin:40px;font-size:13px}
header{display:flex;justify-content:space-between;align-items:flex-start;border-bottom:3px solid #c8a038;padding-bottom:14px}
h1{font-size:22px;margin:0;color:#1f2d3d}
.meta{text-align:right;font-size:12px;color:#555}
.logo{max-height:70px}
h2.titulo{font-size:18px;color:#1f2d3d;margin:24px 0 8px}
section.texto{margin-top:20px}
section.texto h3{font-size:13px;color:#1f2d3d;border-bottom:1px solid #c8a038;padding-bottom:3px}
section.texto p{white-space:pre-wrap}
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
    <strong>{{.Kind}}</strong><br>
    Fecha: {{.Date}}
  </div>
</header>

<h2 class="titulo">{{.Report.Title}}</h2>

{{range .Sections}}
<section class="texto">
<h3>{{.Title}}</h3>
<p>{{.Body}}</p>
</section>
{{end}}

<footer>
{{.Company.Name}}{{if .Company.Phone}} · {{.Company.Phone}}{{end}}{{if .Company.Email}} · {{.Company.Email}}{{end}}
</footer>
</body>
</html>
`
