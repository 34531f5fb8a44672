// Package models defines the domain types for the cotizador.
package models

import "time"

// QuoteState tags a quote's review status. It is informational: states are
// set by explicit actions, there is no enforced transition table.
type QuoteState string

// Quote states.
const (
	StateDraft    QuoteState = "borrador"
	StateInReview QuoteState = "en-revision"
	StateApproved QuoteState = "aprobada"
)

// DefaultChapter groups line items that arrive without a chapter label.
const DefaultChapter = "SIN CATEGORÍA"

// Client identifies who the quote is for. Free text; only a non-empty name
// is required for a quote to count as valid.
type Client struct {
	Name    string `json:"nombre"`
	Project string `json:"proyecto,omitempty"`
	Address string `json:"direccion,omitempty"`
	Floors  int    `json:"pisos,omitempty"`
	Units   int    `json:"departamentos,omitempty"`
}

// LineItem is one priced row within a quote. Chapter is a display/export
// grouping label and never participates in computation.
type LineItem struct {
	Chapter     string  `json:"capitulo,omitempty"`
	Description string  `json:"descripcion"`
	Unit        string  `json:"unidad,omitempty"`
	Quantity    float64 `json:"cantidad"`
	UnitPrice   float64 `json:"precioUnitario"`
	Note        string  `json:"observacion,omitempty"`
}

// LineTotal is quantity × unit price, computed on demand. Rows with a
// negative quantity or price contribute zero.
func (it LineItem) LineTotal() float64 {
	if it.Quantity < 0 || it.UnitPrice < 0 {
		return 0
	}
	return it.Quantity * it.UnitPrice
}

// ChapterOrDefault returns the item's chapter, falling back to DefaultChapter.
func (it LineItem) ChapterOrDefault() string {
	if it.Chapter == "" {
		return DefaultChapter
	}
	return it.Chapter
}

// CommercialTerms holds the free-text business conditions printed on the
// exported document.
type CommercialTerms struct {
	PricesIncludeTax bool   `json:"preciosIncluyenIgv"`
	PaymentTerms     string `json:"formaPago,omitempty"`
	Validity         string `json:"validez,omitempty"`
	Warranty         string `json:"garantia,omitempty"`
	Other            string `json:"otros,omitempty"`
}

// Quote is the central entity: a price proposal for an electrical-services
// project. Totals are always derived from Items, never stored here.
type Quote struct {
	Numero          string          `json:"numero,omitempty"`
	Client          Client          `json:"cliente"`
	Items           []LineItem      `json:"items"`
	Terms           CommercialTerms `json:"condicionesComerciales"`
	Summary         string          `json:"resumen,omitempty"`
	Recommendations string          `json:"recomendaciones,omitempty"`
	Version         Version         `json:"version"`
	State           QuoteState      `json:"estado"`
}

// Clone returns a deep copy of the quote. Snapshots in the version history
// must not alias the working items slice.
func (q *Quote) Clone() *Quote {
	if q == nil {
		return nil
	}
	out := *q
	out.Items = make([]LineItem, len(q.Items))
	copy(out.Items, q.Items)
	return &out
}

// HistoryEntry is an immutable snapshot of the quote at one version.
type HistoryEntry struct {
	Version   Version    `json:"version"`
	Timestamp time.Time  `json:"fecha"`
	State     QuoteState `json:"estado"`
	Snapshot  *Quote     `json:"snapshot"`
	Note      string     `json:"nota,omitempty"`
}

// ChatMessage is one turn of the quoting conversation.
type ChatMessage struct {
	Role      string    `json:"rol"` // "usuario" or "asistente"
	Content   string    `json:"contenido"`
	Timestamp time.Time `json:"fecha"`
}

// Chat roles.
const (
	RoleUser      = "usuario"
	RoleAssistant = "asistente"
)

// FileMeta describes an uploaded project file as recorded in the session.
type FileMeta struct {
	Name string `json:"nombre"`
	Type string `json:"tipo"`
	Size string `json:"tamano"`
}
