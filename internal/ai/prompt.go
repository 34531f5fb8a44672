package ai

import (
	"encoding/json"
	"strings"

	"github.com/teslaing/cotizador/internal/models"
)

// PromptInput carries everything the prompt builder needs for one turn.
type PromptInput struct {
	Service      string
	Industry     string
	Context      string
	Message      string
	DocExcerpts  []string             // extracted text from uploaded files
	History      []models.ChatMessage // prior turns, oldest first
	CurrentQuote *models.Quote        // nil before the first generation
	Revision     bool
}

const quoteSchemaBlock = `RESPONDE EN FORMATO JSON ESTRICTO cuando generes o modifiques la cotización:
{
  "cliente": {"nombre": "...", "proyecto": "...", "direccion": "...", "pisos": 0, "departamentos": 0},
  "items": [
    {"capitulo": "INSTALACIONES ELÉCTRICAS", "descripcion": "...", "unidad": "und", "cantidad": 1.0, "precioUnitario": 100.00, "observacion": "..."}
  ],
  "condicionesComerciales": {"preciosIncluyenIgv": false, "formaPago": "...", "validez": "30 días", "garantia": "...", "otros": "..."},
  "resumen": "Resumen ejecutivo del proyecto",
  "recomendaciones": "Recomendaciones técnicas"
}
- Precios realistas para el mercado peruano, en soles.
- Cantidades lógicas y descripciones profesionales.
- Agrupa los items por capítulo.
- NO incluyas texto adicional fuera del JSON cuando entregues la cotización.`

// BuildQuotePrompt assembles the user-turn text for one chat round. The
// model is asked conversational questions until it has enough to emit the
// quote JSON, which the parser then extracts.
func BuildQuotePrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("Eres un asistente experto en crear cotizaciones profesionales de servicios eléctricos para proyectos en Perú.\n")

	if in.Service != "" || in.Industry != "" {
		b.WriteString("\nSERVICIO: " + in.Service)
		if in.Industry != "" {
			b.WriteString(" | RUBRO: " + in.Industry)
		}
		b.WriteString("\n")
	}
	if in.Context != "" {
		b.WriteString("\nDESCRIPCIÓN DEL PROYECTO:\n" + in.Context + "\n")
	}

	if len(in.DocExcerpts) > 0 {
		b.WriteString("\nINFORMACIÓN DE DOCUMENTOS ANALIZADOS:\n")
		// Cap the excerpt count so the prompt stays bounded.
		excerpts := in.DocExcerpts
		if len(excerpts) > 3 {
			excerpts = excerpts[:3]
		}
		for _, doc := range excerpts {
			b.WriteString(doc + "\n")
		}
	}

	if len(in.History) > 0 {
		b.WriteString("\nHISTORIAL DE CONVERSACIÓN:\n")
		hist := in.History
		if len(hist) > 10 {
			hist = hist[len(hist)-10:]
		}
		for _, m := range hist {
			who := "Usuario"
			if m.Role == models.RoleAssistant {
				who = "Asistente"
			}
			b.WriteString(who + ": " + m.Content + "\n")
		}
	}

	if in.CurrentQuote != nil {
		if ctx, err := json.Marshal(in.CurrentQuote); err == nil {
			b.WriteString("\nCONTEXTO ACTUAL DE LA COTIZACIÓN:\n" + string(ctx) + "\n")
		}
		if in.Revision {
			b.WriteString("\nEl usuario pide una REVISIÓN: entrega la cotización completa actualizada, no solo los cambios.\n")
		}
	}

	b.WriteString("\nNUEVO MENSAJE DEL USUARIO:\n" + in.Message + "\n\n")
	b.WriteString(quoteSchemaBlock)
	return b.String()
}
