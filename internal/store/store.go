// Package store persists quotes and clients in SQLite. The full quote is
// kept as a JSON document; totals and state are mirrored into columns so
// listings and filters never deserialize every row.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cotizaciones (
	numero     TEXT PRIMARY KEY,
	cliente    TEXT NOT NULL DEFAULT '',
	proyecto   TEXT NOT NULL DEFAULT '',
	datos      TEXT NOT NULL,
	subtotal   REAL NOT NULL DEFAULT 0,
	igv        REAL NOT NULL DEFAULT 0,
	total      REAL NOT NULL DEFAULT 0,
	estado     TEXT NOT NULL DEFAULT 'borrador',
	version    INTEGER NOT NULL DEFAULT 10,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cotizaciones_estado ON cotizaciones(estado);
CREATE INDEX IF NOT EXISTS idx_cotizaciones_updated ON cotizaciones(updated_at);

CREATE TABLE IF NOT EXISTS clientes (
	nombre        TEXT PRIMARY KEY,
	proyecto      TEXT NOT NULL DEFAULT '',
	direccion     TEXT NOT NULL DEFAULT '',
	pisos         INTEGER NOT NULL DEFAULT 0,
	departamentos INTEGER NOT NULL DEFAULT 0,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS proyectos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre      TEXT NOT NULL,
	descripcion TEXT NOT NULL DEFAULT '',
	cliente     TEXT NOT NULL,
	estado      TEXT NOT NULL DEFAULT 'planificacion',
	started_at  DATETIME,
	ended_at    DATETIME,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_proyectos_estado ON proyectos(estado);
CREATE INDEX IF NOT EXISTS idx_proyectos_cliente ON proyectos(cliente);

CREATE TABLE IF NOT EXISTS informes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	titulo      TEXT NOT NULL,
	tipo        TEXT NOT NULL DEFAULT 'simple',
	proyecto_id INTEGER NOT NULL DEFAULT 0,
	contenido   TEXT NOT NULL DEFAULT '',
	resumen     TEXT NOT NULL DEFAULT '',
	conclusiones    TEXT NOT NULL DEFAULT '',
	recomendaciones TEXT NOT NULL DEFAULT '',
	estado      TEXT NOT NULL DEFAULT 'borrador',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_informes_proyecto ON informes(proyecto_id);
`

// Store is the persistence surface the API and MCP layers depend on.
type Store interface {
	SaveQuote(q *models.Quote) (*QuoteRecord, error)
	GetQuote(numero string) (*QuoteRecord, error)
	ListQuotes(f ListFilter) ([]QuoteSummary, int, error)
	DeleteQuote(numero string) error
	UpsertClient(c models.Client) error
	ListClients() ([]models.Client, error)
	SaveProject(p *models.Project) (*models.Project, error)
	GetProject(id int64) (*models.Project, error)
	ProjectDetail(id int64) (*ProjectDetail, error)
	ListProjects(f ProjectFilter) ([]models.Project, error)
	SetProjectState(id int64, state models.ProjectState) (*models.Project, error)
	DeleteProject(id int64) error
	SaveReport(r *models.Report) (*models.Report, error)
	GetReport(id int64) (*models.Report, error)
	ListReports(projectID int64) ([]models.Report, error)
	DeleteReport(id int64) error
	Close() error
}

// DB wraps a sql.DB with quote-specific operations.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

var _ Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// QuoteRecord is a stored quote plus its persistence metadata.
type QuoteRecord struct {
	Quote     *models.Quote `json:"cotizacion"`
	Totals    quote.Totals  `json:"totales"`
	CreatedAt time.Time     `json:"creadoEn"`
	UpdatedAt time.Time     `json:"actualizadoEn"`
}

// QuoteSummary is the listing projection; the item rows stay in the
// JSON column.
type QuoteSummary struct {
	Numero    string            `json:"numero"`
	Cliente   string            `json:"cliente"`
	Proyecto  string            `json:"proyecto,omitempty"`
	Total     float64           `json:"total"`
	Estado    models.QuoteState `json:"estado"`
	Version   models.Version    `json:"version"`
	UpdatedAt time.Time         `json:"actualizadoEn"`
}

// ListFilter selects and pages a quote listing. A zero Limit means the
// default page size.
type ListFilter struct {
	Estado models.QuoteState
	Limit  int
	Offset int
}

const defaultPageSize = 50
