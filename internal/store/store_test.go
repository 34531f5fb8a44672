package store_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/store"
	"github.com/teslaing/cotizador/internal/testutil"
)

func newQuote(client string) *models.Quote {
	return &models.Quote{
		Client: models.Client{Name: client, Project: "Obra nueva"},
		Items: []models.LineItem{
			{Description: "Punto de luz", Unit: "pto", Quantity: 10, UnitPrice: 40},
		},
		Version: models.FirstVersion,
		State:   models.StateDraft,
	}
}

func TestSaveQuote_AssignsSequentialNumeros(t *testing.T) {
	db := testutil.TestDB(t)

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		rec, err := db.SaveQuote(newQuote("Cliente A"))
		if err != nil {
			t.Fatalf("SaveQuote: %v", err)
		}
		want := fmt.Sprintf("COT-%d-%04d", year, i)
		if rec.Quote.Numero != want {
			t.Errorf("numero = %q, want %q", rec.Quote.Numero, want)
		}
	}
}

func TestSaveQuote_ComputesTotals(t *testing.T) {
	db := testutil.TestDB(t)

	rec, err := db.SaveQuote(newQuote("Cliente A"))
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}
	if rec.Totals.Subtotal != 400 {
		t.Errorf("subtotal = %v, want 400", rec.Totals.Subtotal)
	}
	if rec.Totals.Total != 472 {
		t.Errorf("total = %v, want 472", rec.Totals.Total)
	}
}

func TestSaveQuote_RejectsMissingClient(t *testing.T) {
	db := testutil.TestDB(t)

	_, err := db.SaveQuote(&models.Quote{})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGetQuote_RoundTrip(t *testing.T) {
	db := testutil.TestDB(t)

	q := newQuote("Cliente A")
	q.Items[0].Chapter = "ILUMINACIÓN"
	rec, err := db.SaveQuote(q)
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}

	got, err := db.GetQuote(rec.Quote.Numero)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.Quote.Client.Name != "Cliente A" {
		t.Errorf("client = %q", got.Quote.Client.Name)
	}
	if len(got.Quote.Items) != 1 || got.Quote.Items[0].Chapter != "ILUMINACIÓN" {
		t.Errorf("items not preserved: %+v", got.Quote.Items)
	}
	if got.Totals.IGV != 72 {
		t.Errorf("igv = %v, want 72", got.Totals.IGV)
	}
}

func TestGetQuote_NotFound(t *testing.T) {
	db := testutil.TestDB(t)

	_, err := db.GetQuote("COT-2026-9999")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveQuote_UpdateKeepsNumero(t *testing.T) {
	db := testutil.TestDB(t)

	rec, err := db.SaveQuote(newQuote("Cliente A"))
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}
	numero := rec.Quote.Numero

	updated := rec.Quote.Clone()
	updated.State = models.StateApproved
	updated.Items[0].Quantity = 20
	if _, err := db.SaveQuote(updated); err != nil {
		t.Fatalf("SaveQuote update: %v", err)
	}

	got, err := db.GetQuote(numero)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.Quote.State != models.StateApproved {
		t.Errorf("state = %q", got.Quote.State)
	}
	if got.Totals.Subtotal != 800 {
		t.Errorf("subtotal = %v, want 800", got.Totals.Subtotal)
	}

	_, count, err := db.ListQuotes(store.ListFilter{})
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 after update", count)
	}
}

func TestListQuotes_FilterAndPaging(t *testing.T) {
	db := testutil.TestDB(t)

	for i := 0; i < 5; i++ {
		q := newQuote(fmt.Sprintf("Cliente %d", i))
		if i%2 == 0 {
			q.State = models.StateApproved
		}
		if _, err := db.SaveQuote(q); err != nil {
			t.Fatalf("SaveQuote: %v", err)
		}
	}

	approved, count, err := db.ListQuotes(store.ListFilter{Estado: models.StateApproved})
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if count != 3 || len(approved) != 3 {
		t.Errorf("approved count = %d/%d, want 3/3", len(approved), count)
	}
	for _, s := range approved {
		if s.Estado != models.StateApproved {
			t.Errorf("filter leaked state %q", s.Estado)
		}
	}

	page, count, err := db.ListQuotes(store.ListFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if count != 5 || len(page) != 2 {
		t.Errorf("page = %d rows, count = %d; want 2 rows, count 5", len(page), count)
	}
}

func TestDeleteQuote(t *testing.T) {
	db := testutil.TestDB(t)

	rec, err := db.SaveQuote(newQuote("Cliente A"))
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}
	if err := db.DeleteQuote(rec.Quote.Numero); err != nil {
		t.Fatalf("DeleteQuote: %v", err)
	}
	if err := db.DeleteQuote(rec.Quote.Numero); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestClients_UpsertAndList(t *testing.T) {
	db := testutil.TestDB(t)

	if err := db.UpsertClient(models.Client{Name: "Beta SAC", Project: "Torre 1"}); err != nil {
		t.Fatalf("UpsertClient: %v", err)
	}
	if err := db.UpsertClient(models.Client{Name: "Alfa EIRL"}); err != nil {
		t.Fatalf("UpsertClient: %v", err)
	}
	// Same name refreshes, does not duplicate.
	if err := db.UpsertClient(models.Client{Name: "Beta SAC", Project: "Torre 2", Floors: 8}); err != nil {
		t.Fatalf("UpsertClient: %v", err)
	}

	clients, err := db.ListClients()
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("len = %d, want 2", len(clients))
	}
	if clients[0].Name != "Alfa EIRL" || clients[1].Name != "Beta SAC" {
		t.Errorf("order = %q, %q", clients[0].Name, clients[1].Name)
	}
	if clients[1].Project != "Torre 2" || clients[1].Floors != 8 {
		t.Errorf("upsert did not refresh: %+v", clients[1])
	}

	if err := db.UpsertClient(models.Client{}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("empty name err = %v, want ErrInvalidInput", err)
	}
}
