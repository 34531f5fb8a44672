package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
)

// ProjectFilter selects and pages a project listing. Client matches as a
// substring, case-insensitive.
type ProjectFilter struct {
	Estado  models.ProjectState
	Cliente string
	Limit   int
	Offset  int
}

// ProjectStats aggregates the quotes filed under a project.
type ProjectStats struct {
	TotalQuotes    int     `json:"totalCotizaciones"`
	ApprovedQuotes int     `json:"cotizacionesAprobadas"`
	ApprovedTotal  float64 `json:"valorTotal"`
}

// ProjectDetail is a project with its related quotes and their aggregate
// numbers. Quotes link to projects by name through their proyecto field.
type ProjectDetail struct {
	Project *models.Project `json:"proyecto"`
	Quotes  []QuoteSummary  `json:"cotizaciones"`
	Stats   ProjectStats    `json:"estadisticas"`
}

// SaveProject inserts a project, or replaces one when ID is set. New
// projects start in planning with the start date stamped.
func (db *DB) SaveProject(p *models.Project) (*models.Project, error) {
	if p == nil || p.Name == "" || p.Client == "" {
		return nil, fmt.Errorf("store: %w: project needs a name and a client", apperr.ErrInvalidInput)
	}
	stored := *p
	if !stored.State.Valid() {
		stored.State = models.ProjectPlanning
	}
	now := db.now().UTC()
	stored.UpdatedAt = now

	if stored.ID == 0 {
		stored.CreatedAt = now
		if stored.StartedAt == nil {
			stored.StartedAt = &now
		}
		res, err := db.conn.Exec(`
			INSERT INTO proyectos (nombre, descripcion, cliente, estado, started_at, ended_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, stored.Name, stored.Description, stored.Client, string(stored.State),
			stored.StartedAt, stored.EndedAt, now, now)
		if err != nil {
			return nil, fmt.Errorf("store: insert project: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("store: project id: %w", err)
		}
		stored.ID = id
		return &stored, nil
	}

	existing, err := db.GetProject(stored.ID)
	if err != nil {
		return nil, err
	}
	stored.CreatedAt = existing.CreatedAt
	if stored.StartedAt == nil {
		stored.StartedAt = existing.StartedAt
	}
	_, err = db.conn.Exec(`
		UPDATE proyectos
		SET nombre = ?, descripcion = ?, cliente = ?, estado = ?, started_at = ?, ended_at = ?, updated_at = ?
		WHERE id = ?
	`, stored.Name, stored.Description, stored.Client, string(stored.State),
		stored.StartedAt, stored.EndedAt, now, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update project: %w", err)
	}
	return &stored, nil
}

// GetProject loads one project by id.
func (db *DB) GetProject(id int64) (*models.Project, error) {
	row := db.conn.QueryRow(`
		SELECT id, nombre, descripcion, cliente, estado, started_at, ended_at, created_at, updated_at
		FROM proyectos WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: project %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get project: %w", err)
	}
	return p, nil
}

// ProjectDetail loads a project with its quotes and aggregate totals. Only
// approved quotes count towards the project value.
func (db *DB) ProjectDetail(id int64) (*ProjectDetail, error) {
	p, err := db.GetProject(id)
	if err != nil {
		return nil, err
	}
	rows, err := db.conn.Query(`
		SELECT numero, cliente, proyecto, total, estado, version, updated_at
		FROM cotizaciones WHERE proyecto = ?
		ORDER BY updated_at DESC, numero DESC
	`, p.Name)
	if err != nil {
		return nil, fmt.Errorf("store: project quotes: %w", err)
	}
	defer rows.Close()

	detail := &ProjectDetail{Project: p, Quotes: []QuoteSummary{}}
	for rows.Next() {
		var (
			s       QuoteSummary
			estado  string
			version int
		)
		if err := rows.Scan(&s.Numero, &s.Cliente, &s.Proyecto, &s.Total, &estado, &version, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Estado = models.QuoteState(estado)
		s.Version = models.Version(version)
		detail.Quotes = append(detail.Quotes, s)
		detail.Stats.TotalQuotes++
		if s.Estado == models.StateApproved {
			detail.Stats.ApprovedQuotes++
			detail.Stats.ApprovedTotal += s.Total
		}
	}
	return detail, rows.Err()
}

// ListProjects returns one page of projects, newest first.
func (db *DB) ListProjects(f ProjectFilter) ([]models.Project, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	where, args := "", []any{}
	if f.Estado != "" {
		where = "WHERE estado = ?"
		args = append(args, string(f.Estado))
	}
	if f.Cliente != "" {
		if where == "" {
			where = "WHERE cliente LIKE ? COLLATE NOCASE"
		} else {
			where += " AND cliente LIKE ? COLLATE NOCASE"
		}
		args = append(args, "%"+f.Cliente+"%")
	}

	rows, err := db.conn.Query(`
		SELECT id, nombre, descripcion, cliente, estado, started_at, ended_at, created_at, updated_at
		FROM proyectos `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SetProjectState moves a project to a new state. Closing states stamp the
// end date the first time they are reached.
func (db *DB) SetProjectState(id int64, state models.ProjectState) (*models.Project, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("store: %w: unknown project state %q", apperr.ErrInvalidInput, state)
	}
	p, err := db.GetProject(id)
	if err != nil {
		return nil, err
	}
	now := db.now().UTC()
	p.State = state
	p.UpdatedAt = now
	if state.Finished() && p.EndedAt == nil {
		p.EndedAt = &now
	}
	_, err = db.conn.Exec(`
		UPDATE proyectos SET estado = ?, ended_at = ?, updated_at = ? WHERE id = ?
	`, string(p.State), p.EndedAt, now, id)
	if err != nil {
		return nil, fmt.Errorf("store: set project state: %w", err)
	}
	return p, nil
}

// DeleteProject removes a project. Its reports stay, detached.
func (db *DB) DeleteProject(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM proyectos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: project %d: %w", id, apperr.ErrNotFound)
	}
	_, err = db.conn.Exec(`UPDATE informes SET proyecto_id = 0 WHERE proyecto_id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: detach reports: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p              models.Project
		estado         string
		started, ended sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Client, &estado,
		&started, &ended, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.State = models.ProjectState(estado)
	if started.Valid {
		t := started.Time
		p.StartedAt = &t
	}
	if ended.Valid {
		t := ended.Time
		p.EndedAt = &t
	}
	return &p, nil
}
