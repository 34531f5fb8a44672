package store

import (
	"fmt"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
)

// UpsertClient records a client for reuse in later quotes. The name is the
// key; saving again refreshes the project details.
func (db *DB) UpsertClient(c models.Client) error {
	if c.Name == "" {
		return fmt.Errorf("store: %w: client needs a name", apperr.ErrInvalidInput)
	}
	_, err := db.conn.Exec(`
		INSERT INTO clientes (nombre, proyecto, direccion, pisos, departamentos, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(nombre) DO UPDATE SET
			proyecto      = excluded.proyecto,
			direccion     = excluded.direccion,
			pisos         = excluded.pisos,
			departamentos = excluded.departamentos,
			updated_at    = excluded.updated_at
	`, c.Name, c.Project, c.Address, c.Floors, c.Units, db.now().UTC())
	if err != nil {
		return fmt.Errorf("store: upsert client: %w", err)
	}
	return nil
}

// ListClients returns every recorded client ordered by name.
func (db *DB) ListClients() ([]models.Client, error) {
	rows, err := db.conn.Query(`
		SELECT nombre, proyecto, direccion, pisos, departamentos
		FROM clientes ORDER BY nombre
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list clients: %w", err)
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.Name, &c.Project, &c.Address, &c.Floors, &c.Units); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
