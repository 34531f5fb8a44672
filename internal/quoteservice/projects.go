package quoteservice

import (
	"context"
	"fmt"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/export"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/store"
)

// SaveProject creates or updates a project record.
func (s *Service) SaveProject(_ context.Context, p *models.Project) (*models.Project, error) {
	return s.store.SaveProject(p)
}

// GetProject loads one project.
func (s *Service) GetProject(_ context.Context, id int64) (*models.Project, error) {
	return s.store.GetProject(id)
}

// ProjectDetail loads a project together with its quotes and the totals
// derived from them.
func (s *Service) ProjectDetail(_ context.Context, id int64) (*store.ProjectDetail, error) {
	return s.store.ProjectDetail(id)
}

// ListProjects returns the projects matching the filter, newest first.
func (s *Service) ListProjects(_ context.Context, f store.ProjectFilter) ([]models.Project, error) {
	return s.store.ListProjects(f)
}

// SetProjectState transitions a project. Finishing states stamp the end
// date.
func (s *Service) SetProjectState(_ context.Context, id int64, state models.ProjectState) (*models.Project, error) {
	return s.store.SetProjectState(id, state)
}

// DeleteProject removes a project. Its reports survive, detached.
func (s *Service) DeleteProject(_ context.Context, id int64) error {
	return s.store.DeleteProject(id)
}

// SaveReport creates or updates a report record.
func (s *Service) SaveReport(_ context.Context, r *models.Report) (*models.Report, error) {
	return s.store.SaveReport(r)
}

// GetReport loads one report.
func (s *Service) GetReport(_ context.Context, id int64) (*models.Report, error) {
	return s.store.GetReport(id)
}

// ListReports returns reports, optionally scoped to one project.
func (s *Service) ListReports(_ context.Context, projectID int64) ([]models.Report, error) {
	return s.store.ListReports(projectID)
}

// DeleteReport removes a report.
func (s *Service) DeleteReport(_ context.Context, id int64) error {
	return s.store.DeleteReport(id)
}

// ExportReport renders a stored report with the letterhead defaults.
// Returns the document bytes, the suggested filename, and the content type.
func (s *Service) ExportReport(id int64, format string) ([]byte, string, string, error) {
	r, err := s.store.GetReport(id)
	if err != nil {
		return nil, "", "", err
	}
	opts := s.exportOptions(nil)
	var (
		data []byte
		ct   string
	)
	switch format {
	case FormatHTML:
		data, err = export.RenderReportHTML(r, opts)
		ct = "text/html; charset=utf-8"
	case FormatPDF:
		data, err = export.RenderReportPDF(r, opts)
		ct = "application/pdf"
	case FormatDOCX:
		data, err = export.RenderReportDOCX(r, opts)
		ct = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return nil, "", "", fmt.Errorf("quoteservice: unknown export format %q: %w", format, apperr.ErrInvalidInput)
	}
	if err != nil {
		return nil, "", "", err
	}
	name := fmt.Sprintf("informe_%d_%s.%s", r.ID, opts.Date.Format("2006-01-02"), format)
	return data, name, ct, nil
}
