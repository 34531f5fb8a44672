package models

import "time"

// ProjectState tracks a project through its lifecycle.
type ProjectState string

// Project lifecycle states.
const (
	ProjectPlanning   ProjectState = "planificacion"
	ProjectInProgress ProjectState = "en-progreso"
	ProjectCompleted  ProjectState = "completado"
	ProjectCancelled  ProjectState = "cancelado"
)

// Valid reports whether the state is one of the known values.
func (s ProjectState) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Finished reports whether the state closes the project.
func (s ProjectState) Finished() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

// Project groups the quotes prepared for one client engagement. Quotes
// reference it by name through their proyecto field.
type Project struct {
	ID          int64        `json:"id"`
	Name        string       `json:"nombre"`
	Description string       `json:"descripcion,omitempty"`
	Client      string       `json:"cliente"`
	State       ProjectState `json:"estado"`
	StartedAt   *time.Time   `json:"fechaInicio,omitempty"`
	EndedAt     *time.Time   `json:"fechaFin,omitempty"`
	CreatedAt   time.Time    `json:"creadoEn"`
	UpdatedAt   time.Time    `json:"actualizadoEn"`
}

// ReportType selects the register of a written report.
type ReportType string

// Report types.
const (
	ReportSimple    ReportType = "simple"
	ReportExecutive ReportType = "ejecutivo"
	ReportTechnical ReportType = "tecnico"
)

// Valid reports whether the type is one of the known values.
func (t ReportType) Valid() bool {
	switch t {
	case ReportSimple, ReportExecutive, ReportTechnical:
		return true
	}
	return false
}

// Report is a written technical or executive document, optionally tied to
// a project, exported with the same letterhead as quotes.
type Report struct {
	ID               int64      `json:"id"`
	Title            string     `json:"titulo"`
	Type             ReportType `json:"tipo"`
	ProjectID        int64      `json:"proyectoId,omitempty"`
	Content          string     `json:"contenido,omitempty"`
	ExecutiveSummary string     `json:"resumenEjecutivo,omitempty"`
	Conclusions      string     `json:"conclusiones,omitempty"`
	Recommendations  string     `json:"recomendaciones,omitempty"`
	State            string     `json:"estado"`
	CreatedAt        time.Time  `json:"creadoEn"`
	UpdatedAt        time.Time  `json:"actualizadoEn"`
}
