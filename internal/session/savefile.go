package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

// SaveFileFormat is the layout version of the exported session file.
const SaveFileFormat = 1

// SaveFile is the user-downloadable JSON snapshot of a whole session. The
// field names are the wire layout consumed by the UI; loading one replaces
// the in-memory session wholesale, with no merge.
type SaveFile struct {
	Format          int                    `json:"version"`
	Date            time.Time              `json:"fecha"`
	Company         string                 `json:"empresa"`
	Service         string                 `json:"servicio"`
	Industry        string                 `json:"industria"`
	Context         string                 `json:"contexto"`
	Files           []models.FileMeta      `json:"archivos"`
	Quote           *models.Quote          `json:"cotizacion"`
	QuoteVersion    models.Version         `json:"versionCotizacion"`
	History         []models.HistoryEntry  `json:"historialVersiones"`
	Conversation    []models.ChatMessage   `json:"conversacion"`
	Terms           models.CommercialTerms `json:"condicionesComerciales"`
	Summary         string                 `json:"resumenEditable"`
	Recommendations string                 `json:"recomendacionesEditables"`
	HideUnitPrices  bool                   `json:"ocultarPreciosUnitarios"`
	HideItemTotals  bool                   `json:"ocultarTotalesPorItem"`
	TaxMode         string                 `json:"modoVisualizacionIGV"`
	LogoBase64      string                 `json:"logoBase64,omitempty"`
}

// Export snapshots the session into the save-file layout.
func (s *Session) Export() *SaveFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf := &SaveFile{
		Format:         SaveFileFormat,
		Date:           time.Now(),
		Company:        s.company,
		Service:        s.service,
		Industry:       s.industry,
		Context:        s.context,
		Files:          append([]models.FileMeta(nil), s.files...),
		Quote:          s.quote.Clone(),
		History:        s.history.List(),
		Conversation:   append([]models.ChatMessage(nil), s.conversation...),
		HideUnitPrices: s.hideUnitPrices,
		HideItemTotals: s.hideItemTotals,
		TaxMode:        string(s.taxMode),
		LogoBase64:     s.logoBase64,
	}
	if s.quote != nil {
		sf.QuoteVersion = s.quote.Version
		sf.Terms = s.quote.Terms
		sf.Summary = s.quote.Summary
		sf.Recommendations = s.quote.Recommendations
	}
	return sf
}

// Import replaces the entire session with the loaded file. The wizard lands
// on the edit step when a quote is present, otherwise back on chat.
func (s *Session) Import(sf *SaveFile) error {
	if sf == nil {
		return fmt.Errorf("session: nil save file")
	}
	if sf.Format != SaveFileFormat {
		return fmt.Errorf("session: unsupported save file version %d", sf.Format)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.company = sf.Company
	s.service = sf.Service
	s.industry = sf.Industry
	s.context = sf.Context
	s.files = append([]models.FileMeta(nil), sf.Files...)
	s.quote = sf.Quote.Clone()
	if s.quote != nil {
		s.quote.Version = sf.QuoteVersion
		s.quote.Terms = sf.Terms
		s.quote.Summary = sf.Summary
		s.quote.Recommendations = sf.Recommendations
	}
	s.history.Replace(sf.History)
	s.conversation = append([]models.ChatMessage(nil), sf.Conversation...)
	s.hideUnitPrices = sf.HideUnitPrices
	s.hideItemTotals = sf.HideItemTotals
	if m := quote.TaxDisplayMode(sf.TaxMode); m.Valid() {
		s.taxMode = m
	} else {
		s.taxMode = quote.TaxExcluded
	}
	s.logoBase64 = sf.LogoBase64
	s.revising = false
	s.busy = false
	if s.quote != nil {
		s.step = StepEdit
	} else {
		s.step = StepChat
	}
	return nil
}

// Encode renders the save file as indented JSON for download.
func (sf *SaveFile) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("session: encode save file: %w", err)
	}
	return data, nil
}

// DecodeSaveFile parses a previously exported session file.
func DecodeSaveFile(data []byte) (*SaveFile, error) {
	var sf SaveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("session: decode save file: %w", err)
	}
	return &sf, nil
}
