package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
)

// SaveReport inserts a report, or replaces one when ID is set. A non-zero
// ProjectID must name an existing project.
func (db *DB) SaveReport(r *models.Report) (*models.Report, error) {
	if r == nil || r.Title == "" {
		return nil, fmt.Errorf("store: %w: report needs a title", apperr.ErrInvalidInput)
	}
	stored := *r
	if !stored.Type.Valid() {
		stored.Type = models.ReportSimple
	}
	if stored.State == "" {
		stored.State = "borrador"
	}
	if stored.ProjectID != 0 {
		if _, err := db.GetProject(stored.ProjectID); err != nil {
			return nil, err
		}
	}
	now := db.now().UTC()
	stored.UpdatedAt = now

	if stored.ID == 0 {
		stored.CreatedAt = now
		res, err := db.conn.Exec(`
			INSERT INTO informes (titulo, tipo, proyecto_id, contenido, resumen, conclusiones, recomendaciones, estado, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, stored.Title, string(stored.Type), stored.ProjectID, stored.Content,
			stored.ExecutiveSummary, stored.Conclusions, stored.Recommendations, stored.State, now, now)
		if err != nil {
			return nil, fmt.Errorf("store: insert report: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("store: report id: %w", err)
		}
		stored.ID = id
		return &stored, nil
	}

	existing, err := db.GetReport(stored.ID)
	if err != nil {
		return nil, err
	}
	stored.CreatedAt = existing.CreatedAt
	_, err = db.conn.Exec(`
		UPDATE informes
		SET titulo = ?, tipo = ?, proyecto_id = ?, contenido = ?, resumen = ?, conclusiones = ?, recomendaciones = ?, estado = ?, updated_at = ?
		WHERE id = ?
	`, stored.Title, string(stored.Type), stored.ProjectID, stored.Content,
		stored.ExecutiveSummary, stored.Conclusions, stored.Recommendations, stored.State, now, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update report: %w", err)
	}
	return &stored, nil
}

// GetReport loads one report by id.
func (db *DB) GetReport(id int64) (*models.Report, error) {
	row := db.conn.QueryRow(`
		SELECT id, titulo, tipo, proyecto_id, contenido, resumen, conclusiones, recomendaciones, estado, created_at, updated_at
		FROM informes WHERE id = ?
	`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: report %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get report: %w", err)
	}
	return r, nil
}

// ListReports returns all reports, newest first, optionally scoped to one
// project.
func (db *DB) ListReports(projectID int64) ([]models.Report, error) {
	where, args := "", []any{}
	if projectID != 0 {
		where = "WHERE proyecto_id = ?"
		args = append(args, projectID)
	}
	rows, err := db.conn.Query(`
		SELECT id, titulo, tipo, proyecto_id, contenido, resumen, conclusiones, recomendaciones, estado, created_at, updated_at
		FROM informes `+where+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list reports: %w", err)
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// DeleteReport removes a report by id.
func (db *DB) DeleteReport(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM informes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: report %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func scanReport(row rowScanner) (*models.Report, error) {
	var (
		r    models.Report
		tipo string
	)
	if err := row.Scan(&r.ID, &r.Title, &tipo, &r.ProjectID, &r.Content,
		&r.ExecutiveSummary, &r.Conclusions, &r.Recommendations, &r.State,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Type = models.ReportType(tipo)
	return &r, nil
}
