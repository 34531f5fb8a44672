package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

// SaveQuote inserts or replaces a quote. A quote without a numero gets the
// next sequential one for the current year. The returned record carries the
// assigned numero and recomputed totals.
func (db *DB) SaveQuote(q *models.Quote) (*QuoteRecord, error) {
	if q == nil || q.Client.Name == "" {
		return nil, fmt.Errorf("store: %w: quote needs a client name", apperr.ErrInvalidInput)
	}
	stored := q.Clone()
	if stored.State == "" {
		stored.State = models.StateDraft
	}
	if stored.Version == 0 {
		stored.Version = models.FirstVersion
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	now := db.now().UTC()
	if stored.Numero == "" {
		numero, err := nextNumero(tx, now)
		if err != nil {
			return nil, err
		}
		stored.Numero = numero
	}

	datos, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("store: encode quote: %w", err)
	}
	totals := quote.ComputeTotals(stored.Items)

	_, err = tx.Exec(`
		INSERT INTO cotizaciones (numero, cliente, proyecto, datos, subtotal, igv, total, estado, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(numero) DO UPDATE SET
			cliente    = excluded.cliente,
			proyecto   = excluded.proyecto,
			datos      = excluded.datos,
			subtotal   = excluded.subtotal,
			igv        = excluded.igv,
			total      = excluded.total,
			estado     = excluded.estado,
			version    = excluded.version,
			updated_at = excluded.updated_at
	`, stored.Numero, stored.Client.Name, stored.Client.Project, string(datos),
		totals.Subtotal, totals.IGV, totals.Total, string(stored.State), int(stored.Version), now, now)
	if err != nil {
		return nil, fmt.Errorf("store: upsert quote: %w", err)
	}

	// The upsert keeps the original created_at on updates.
	var created time.Time
	if err := tx.QueryRow(`SELECT created_at FROM cotizaciones WHERE numero = ?`, stored.Numero).Scan(&created); err != nil {
		return nil, fmt.Errorf("store: read created_at: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &QuoteRecord{Quote: stored, Totals: totals, CreatedAt: created, UpdatedAt: now}, nil
}

// nextNumero allocates the next COT-YYYY-NNNN for the current year. Runs
// inside the caller's transaction so concurrent saves cannot collide.
func nextNumero(tx *sql.Tx, now time.Time) (string, error) {
	prefix := fmt.Sprintf("COT-%d-", now.Year())
	var max sql.NullInt64
	err := tx.QueryRow(`
		SELECT MAX(CAST(substr(numero, ?) AS INTEGER))
		FROM cotizaciones WHERE numero LIKE ?
	`, len(prefix)+1, prefix+"%").Scan(&max)
	if err != nil {
		return "", fmt.Errorf("store: next numero: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, max.Int64+1), nil
}

// GetQuote loads one quote by numero.
func (db *DB) GetQuote(numero string) (*QuoteRecord, error) {
	var (
		datos                string
		created, updated     time.Time
		subtotal, igv, total float64
	)
	err := db.conn.QueryRow(`
		SELECT datos, subtotal, igv, total, created_at, updated_at
		FROM cotizaciones WHERE numero = ?
	`, numero).Scan(&datos, &subtotal, &igv, &total, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: quote %s: %w", numero, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get quote: %w", err)
	}
	var q models.Quote
	if err := json.Unmarshal([]byte(datos), &q); err != nil {
		return nil, fmt.Errorf("store: decode quote %s: %w", numero, err)
	}
	return &QuoteRecord{
		Quote:     &q,
		Totals:    quote.Totals{Subtotal: subtotal, IGV: igv, Total: total},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// ListQuotes returns one page of summaries, newest first, plus the total
// row count for the filter.
func (db *DB) ListQuotes(f ListFilter) ([]QuoteSummary, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	where, args := "", []any{}
	if f.Estado != "" {
		where = "WHERE estado = ?"
		args = append(args, string(f.Estado))
	}

	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM cotizaciones `+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("store: count quotes: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT numero, cliente, proyecto, total, estado, version, updated_at
		FROM cotizaciones `+where+`
		ORDER BY updated_at DESC, numero DESC
		LIMIT ? OFFSET ?
	`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list quotes: %w", err)
	}
	defer rows.Close()

	var out []QuoteSummary
	for rows.Next() {
		var (
			s       QuoteSummary
			estado  string
			version int
		)
		if err := rows.Scan(&s.Numero, &s.Cliente, &s.Proyecto, &s.Total, &estado, &version, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		s.Estado = models.QuoteState(estado)
		s.Version = models.Version(version)
		out = append(out, s)
	}
	return out, count, rows.Err()
}

// DeleteQuote removes a quote by numero.
func (db *DB) DeleteQuote(numero string) error {
	res, err := db.conn.Exec(`DELETE FROM cotizaciones WHERE numero = ?`, numero)
	if err != nil {
		return fmt.Errorf("store: delete quote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: quote %s: %w", numero, apperr.ErrNotFound)
	}
	return nil
}
