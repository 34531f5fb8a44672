package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teslaing/cotizador/internal/ai"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quoteservice"
	"github.com/teslaing/cotizador/internal/session"
	"github.com/teslaing/cotizador/internal/storage"
	"github.com/teslaing/cotizador/internal/testutil"
)

// fakeProvider replays scripted replies in order.
type fakeProvider struct {
	replies []string
	calls   int
}

func (f *fakeProvider) Send(_ context.Context, _ []ai.Message) (*ai.Reply, error) {
	if f.calls >= len(f.replies) {
		return nil, fmt.Errorf("no scripted reply left")
	}
	r := f.replies[f.calls]
	f.calls++
	return &ai.Reply{Text: r, Model: "fake"}, nil
}

func (f *fakeProvider) Model() string   { return "fake" }
func (f *fakeProvider) Available() bool { return true }

const quoteReply = "```json\n" + `{
  "cliente": {"nombre": "Constructora Sol SAC", "proyecto": "Edificio Aurora"},
  "items": [
    {"capitulo": "INSTALACIONES ELÉCTRICAS", "descripcion": "Punto de luz", "unidad": "pto", "cantidad": 10, "precioUnitario": 40},
    {"capitulo": "INSTALACIONES ELÉCTRICAS", "descripcion": "Tomacorriente doble", "unidad": "pto", "cantidad": 5, "precioUnitario": 45}
  ],
  "condicionesComerciales": {"preciosIncluyenIgv": false, "validez": "30 días"},
  "resumen": "Instalaciones eléctricas interiores"
}` + "\n```"

func newTestServer(t *testing.T, replies ...string) *httptest.Server {
	t.Helper()
	db := testutil.TestDB(t)
	uploads, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := quoteservice.NewService(db, session.NewManager(), &fakeProvider{replies: replies}, nil, nil, uploads, logger)
	srv := httptest.NewServer(NewRouter(svc, false, "", nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, data
}

func sampleQuote() models.Quote {
	return models.Quote{
		Client: models.Client{Name: "Constructora Sol SAC"},
		Items: []models.LineItem{
			{Description: "Punto de luz", Unit: "pto", Quantity: 10, UnitPrice: 40},
		},
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestAuthEnabled(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := quoteservice.NewService(db, session.NewManager(), nil, nil, nil, nil, logger)
	srv := httptest.NewServer(NewRouter(svc, true, "secreto", nil))
	defer srv.Close()

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/cotizaciones", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/cotizaciones", nil)
	req.Header.Set("Authorization", "Bearer secreto")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("with token: status = %d, want 200", resp2.StatusCode)
	}
}

func TestQuoteCRUD(t *testing.T) {
	srv := newTestServer(t)

	// Create.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/cotizaciones", sampleQuote())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created QuoteDetailResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	numero := created.Cotizacion.Numero
	if !strings.HasPrefix(numero, "COT-") {
		t.Errorf("numero = %q", numero)
	}
	if created.Totales.Total != "472.00" {
		t.Errorf("total = %q, want 472.00", created.Totales.Total)
	}

	// Read.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/cotizaciones/"+numero, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var got QuoteDetailResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Cotizacion.Client.Name != "Constructora Sol SAC" {
		t.Errorf("client = %q", got.Cotizacion.Client.Name)
	}

	// Update.
	updated := *got.Cotizacion
	updated.State = models.StateApproved
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/cotizaciones/"+numero, updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d: %s", resp.StatusCode, body)
	}

	// List.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/cotizaciones?estado=aprobada", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list QuoteListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || len(list.Cotizaciones) != 1 {
		t.Errorf("list = %d/%d, want 1/1", len(list.Cotizaciones), list.Total)
	}

	// Delete.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/cotizaciones/"+numero, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/cotizaciones/"+numero, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestClients(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/clientes", models.Client{Name: "Alfa EIRL", Project: "Nave industrial"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/clientes", models.Client{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty client status = %d, want 400", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/clientes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Alfa EIRL") {
		t.Errorf("body = %s", body)
	}
}

func createChatSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sesiones", CreateSessionRequest{
		Empresa:   "Constructora Sol SAC",
		Servicio:  "edificio-multifamiliar",
		Industria: "construcción",
		Contexto:  "Edificio de 5 pisos con 10 departamentos",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d: %s", resp.StatusCode, body)
	}
	var view SessionResponse
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatal(err)
	}
	if view.Paso != string(session.StepConfig) {
		t.Fatalf("paso = %q, want configuracion", view.Paso)
	}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+view.ID+"/iniciar-analisis", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("iniciar-analisis status = %d: %s", resp.StatusCode, body)
	}
	return view.ID
}

func TestChatGeneratesQuote(t *testing.T) {
	srv := newTestServer(t, quoteReply)
	id := createChatSession(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{
		Sesion:  id,
		Mensaje: "Genera la cotización",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d: %s", resp.StatusCode, body)
	}
	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		t.Fatal(err)
	}
	if !chat.Success {
		t.Error("success = false")
	}
	if chat.CotizacionGenerada == nil {
		t.Fatalf("no quote in response: %s", body)
	}
	if len(chat.CotizacionGenerada.Items) != 2 {
		t.Errorf("items = %d, want 2", len(chat.CotizacionGenerada.Items))
	}
	if chat.CotizacionGenerada.Version != models.FirstVersion {
		t.Errorf("version = %v, want 1.0", chat.CotizacionGenerada.Version)
	}
	if len(chat.BotonesContextuales) == 0 {
		t.Error("no contextual buttons")
	}

	// Session moved to the edit step.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get session status = %d", resp.StatusCode)
	}
	var view SessionResponse
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatal(err)
	}
	if view.Paso != string(session.StepEdit) {
		t.Errorf("paso = %q, want edicion", view.Paso)
	}
	if view.Totales.Total != "737.50" { // (400 + 225) * 1.18
		t.Errorf("total = %q", view.Totales.Total)
	}
}

func TestChatPlainReply(t *testing.T) {
	srv := newTestServer(t, "¿Cuántos pisos tiene el edificio?")
	id := createChatSession(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{
		Sesion:  id,
		Mensaje: "Necesito una cotización",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d: %s", resp.StatusCode, body)
	}
	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		t.Fatal(err)
	}
	if !chat.Success || chat.CotizacionGenerada != nil {
		t.Errorf("plain reply handled as quote: %s", body)
	}
	if !strings.Contains(chat.Respuesta, "pisos") {
		t.Errorf("respuesta = %q", chat.Respuesta)
	}
}

func TestChatWrongStep(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sesiones", CreateSessionRequest{Servicio: "oficina"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("create session failed")
	}
	var view SessionResponse
	_ = json.Unmarshal(body, &view)

	// Still at the configuration step.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: view.ID, Mensaje: "hola"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestChatUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: "nope", Mensaje: "hola"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRevisionFlowBumpsVersion(t *testing.T) {
	srv := newTestServer(t, quoteReply, quoteReply)
	id := createChatSession(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: id, Mensaje: "Genera la cotización"})

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+id+"/revision", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revision status = %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: id, Mensaje: "Agrega pozo a tierra"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second chat status = %d: %s", resp.StatusCode, body)
	}
	var chat ChatResponse
	_ = json.Unmarshal(body, &chat)
	if chat.CotizacionGenerada == nil || chat.CotizacionGenerada.Version != models.FirstVersion.Bump() {
		t.Fatalf("revision version = %+v, want 1.1", chat.CotizacionGenerada)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id, nil)
	var view SessionResponse
	_ = json.Unmarshal(body, &view)
	if len(view.Historial) != 2 {
		t.Errorf("historial = %d entries, want 2", len(view.Historial))
	}
}

func TestItemEditingAndRestore(t *testing.T) {
	srv := newTestServer(t, quoteReply)
	id := createChatSession(t, srv)
	doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: id, Mensaje: "Genera"})

	// Edit quantity of first item.
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/sesiones/"+id+"/items/0", UpdateItemRequest{Campo: "cantidad", Valor: "20"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update item status = %d: %s", resp.StatusCode, body)
	}
	var view SessionResponse
	_ = json.Unmarshal(body, &view)
	if view.Cotizacion.Items[0].Quantity != 20 {
		t.Errorf("quantity = %v, want 20", view.Cotizacion.Items[0].Quantity)
	}

	// Invalid numeric input keeps the previous value.
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/sesiones/"+id+"/items/0", UpdateItemRequest{Campo: "cantidad", Valor: "abc"})
	_ = json.Unmarshal(body, &view)
	if view.Cotizacion.Items[0].Quantity != 20 {
		t.Errorf("invalid input changed quantity to %v", view.Cotizacion.Items[0].Quantity)
	}

	// Add and remove.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+id+"/items", AddItemRequest{Capitulo: "EXTRAS"})
	_ = json.Unmarshal(body, &view)
	if len(view.Cotizacion.Items) != 3 {
		t.Fatalf("items = %d, want 3 after add", len(view.Cotizacion.Items))
	}
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/sesiones/"+id+"/items/2", nil)
	_ = json.Unmarshal(body, &view)
	if len(view.Cotizacion.Items) != 2 {
		t.Fatalf("items = %d, want 2 after remove", len(view.Cotizacion.Items))
	}

	// Restore the committed 1.0 snapshot: quantity back to 10.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+id+"/restaurar", RestoreRequest{Version: models.FirstVersion})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restore status = %d: %s", resp.StatusCode, body)
	}
	_ = json.Unmarshal(body, &view)
	if view.Cotizacion.Items[0].Quantity != 10 {
		t.Errorf("restored quantity = %v, want 10", view.Cotizacion.Items[0].Quantity)
	}
}

func TestGenerateSessionHTML(t *testing.T) {
	srv := newTestServer(t, quoteReply)
	id := createChatSession(t, srv)
	doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: id, Mensaje: "Genera"})

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+id+"/generar-html", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generar-html status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "_v1.0_") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.Contains(string(body), "Punto de luz") {
		t.Error("document missing item description")
	}
}

func TestGenerateWithoutQuote(t *testing.T) {
	srv := newTestServer(t)
	id := createChatSession(t, srv)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+id+"/generar-pdf", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 before a quote exists", resp.StatusCode)
	}
}

func TestSaveSessionQuote(t *testing.T) {
	srv := newTestServer(t, quoteReply)
	id := createChatSession(t, srv)
	doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: id, Mensaje: "Genera"})

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sesiones/"+id+"/guardar", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("guardar status = %d: %s", resp.StatusCode, body)
	}
	var saved QuoteDetailResponse
	_ = json.Unmarshal(body, &saved)
	if !strings.HasPrefix(saved.Cotizacion.Numero, "COT-") {
		t.Errorf("numero = %q", saved.Cotizacion.Numero)
	}

	// The stored quote is now listable.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/cotizaciones", nil)
	var list QuoteListResponse
	_ = json.Unmarshal(body, &list)
	if list.Total != 1 {
		t.Errorf("total = %d, want 1", list.Total)
	}
}

func TestSessionExportImportRoundTrip(t *testing.T) {
	srv := newTestServer(t, quoteReply)
	id := createChatSession(t, srv)
	doJSON(t, http.MethodPost, srv.URL+"/chat/chat-contextualizado", ChatRequest{Sesion: id, Mensaje: "Genera"})

	resp, exported := doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id+"/exportar", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exportar status = %d", resp.StatusCode)
	}

	// Import into a fresh session.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sesiones", CreateSessionRequest{})
	var fresh SessionResponse
	_ = json.Unmarshal(body, &fresh)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/sesiones/"+fresh.ID+"/importar", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp2.Body)
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("importar status = %d: %s", resp2.StatusCode, body)
	}
	var view SessionResponse
	_ = json.Unmarshal(body, &view)
	if view.Cotizacion == nil || len(view.Cotizacion.Items) != 2 {
		t.Errorf("imported session missing quote: %s", body)
	}
	if view.Paso != string(session.StepEdit) {
		t.Errorf("paso = %q, want edicion", view.Paso)
	}
}

func TestDocumentUpload(t *testing.T) {
	srv := newTestServer(t)
	id := createChatSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "metrado.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("20 puntos de luz\n"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/sesiones/"+id+"/documentos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", resp.StatusCode, body)
	}

	resp2, body2 := doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id+"/documentos", nil)
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp2.StatusCode)
	}
	if !strings.Contains(string(body2), "metrado.txt") {
		t.Errorf("list body = %s", body2)
	}

	// The file metadata is also visible on the session.
	_, body3 := doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id, nil)
	if !strings.Contains(string(body3), "metrado.txt") {
		t.Errorf("session body missing file: %s", body3)
	}
}

func TestDocumentDelete(t *testing.T) {
	srv := newTestServer(t)
	id := createChatSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "metrado.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("20 puntos de luz\n"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/sesiones/"+id+"/documentos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}

	resp2, _ := doJSON(t, http.MethodDelete, srv.URL+"/sesiones/"+id+"/documentos/metrado.txt", nil)
	if resp2.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp2.StatusCode)
	}

	_, body := doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id+"/documentos", nil)
	if strings.Contains(string(body), "metrado.txt") {
		t.Errorf("deleted document still listed: %s", body)
	}
	_, body = doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id, nil)
	if strings.Contains(string(body), "metrado.txt") {
		t.Errorf("deleted document still on session: %s", body)
	}

	resp3, _ := doJSON(t, http.MethodDelete, srv.URL+"/sesiones/"+id+"/documentos/metrado.txt", nil)
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d", resp3.StatusCode)
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	id := createChatSession(t, srv)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/sesiones/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp2, _ := doJSON(t, http.MethodGet, srv.URL+"/sesiones/"+id, nil)
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp2.StatusCode)
	}
}
