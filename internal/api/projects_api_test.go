package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teslaing/cotizador/internal/branding"
	"github.com/teslaing/cotizador/internal/export"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quoteservice"
	"github.com/teslaing/cotizador/internal/session"
	"github.com/teslaing/cotizador/internal/testutil"
)

func sampleProject() models.Project {
	return models.Project{
		Name:   "Edificio Aurora",
		Client: "Constructora Sol SAC",
		State:  models.ProjectPlanning,
	}
}

func TestProjectCRUD(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/proyectos", sampleProject())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created models.Project
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Fatal("created project has no id")
	}
	if created.StartedAt == nil {
		t.Error("fechaInicio not stamped on create")
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/proyectos?cliente=sol", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Edificio Aurora") {
		t.Errorf("list body = %s", body)
	}

	created.Description = "Obra de 8 pisos"
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/proyectos/1", created)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Obra de 8 pisos") {
		t.Errorf("update body = %s", body)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/proyectos/1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/proyectos/1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}

	// Missing required fields are rejected.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/proyectos", models.Project{Name: "Sin cliente"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("create without client status = %d", resp.StatusCode)
	}
}

func TestProjectStateTransition(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/proyectos", sampleProject())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/proyectos/1/estado", ProjectStateRequest{Estado: models.ProjectCompleted})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("estado status = %d: %s", resp.StatusCode, body)
	}
	var p models.Project
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatal(err)
	}
	if p.State != models.ProjectCompleted {
		t.Errorf("estado = %s", p.State)
	}
	if p.EndedAt == nil {
		t.Error("fechaFin not stamped on completion")
	}

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/proyectos/1/estado", map[string]string{"estado": "magia"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid estado status = %d", resp.StatusCode)
	}
}

func TestProjectDetailAggregatesQuotes(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/proyectos", sampleProject())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	q := sampleQuote()
	q.Client.Project = "Edificio Aurora"
	q.State = models.StateApproved
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/cotizaciones", q)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save quote status = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/proyectos/1/detalle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detalle status = %d: %s", resp.StatusCode, body)
	}
	s := string(body)
	for _, want := range []string{`"totalCotizaciones":1`, `"cotizacionesAprobadas":1`, "COT-"} {
		if !strings.Contains(s, want) {
			t.Errorf("detalle body missing %q: %s", want, s)
		}
	}
}

func TestReportLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rep := models.Report{
		Title:       "Supervisión semanal",
		Type:        models.ReportTechnical,
		Content:     "Se revisaron los tableros de distribución.",
		Conclusions: "Instalación conforme.",
	}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/informes", rep)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created models.Report
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Fatal("created report has no id")
	}

	// A report for a project that does not exist is rejected.
	orphan := rep
	orphan.ProjectID = 999
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/informes", orphan)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("orphan report status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/informes/1/generar-html", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generar-html status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %s", ct)
	}
	html := string(body)
	for _, want := range []string{"Supervisión semanal", "Informe Técnico", "Instalación conforme."} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/informes/1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/informes/1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestSetBrandLogoAppliesToExports(t *testing.T) {
	db := testutil.TestDB(t)
	brand, err := branding.NewManager(t.TempDir(), export.CompanyInfo{Name: "Tesla Ingenieros EIRL"})
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := quoteservice.NewService(db, session.NewManager(), nil, nil, brand, nil, logger)
	srv := httptest.NewServer(NewRouter(svc, false, "", nil))
	defer srv.Close()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/cotizaciones", sampleQuote())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save quote status = %d: %s", resp.StatusCode, body)
	}
	var saved QuoteDetailResponse
	if err := json.Unmarshal(body, &saved); err != nil {
		t.Fatal(err)
	}

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/branding/logo", LogoRequest{LogoBase64: "aGVsbG8="})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logo status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/cotizaciones/"+saved.Cotizacion.Numero+"/generar-html", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generar-html status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "data:image/png;base64,aGVsbG8=") {
		t.Error("exported document does not carry the new logo")
	}

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/branding/logo", LogoRequest{LogoBase64: "no es base64!"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid logo status = %d", resp.StatusCode)
	}
}
