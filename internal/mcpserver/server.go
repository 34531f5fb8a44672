// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the quote catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/parser"
	"github.com/teslaing/cotizador/internal/quote"
	"github.com/teslaing/cotizador/internal/quoteservice"
	"github.com/teslaing/cotizador/internal/store"
)

// Server wraps the MCP server with the cotizador tools.
type Server struct {
	mcp *server.MCPServer
	svc *quoteservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *quoteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Cotizador",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("listar_cotizaciones",
		mcp.WithDescription("List stored quotes, optionally filtered by estado (borrador, en-revision, aprobada)."),
		mcp.WithString("estado", mcp.Description("Optional estado filter")),
	), s.listQuotes)

	s.mcp.AddTool(mcp.NewTool("leer_cotizacion",
		mcp.WithDescription("Read one stored quote with its computed totals."),
		mcp.WithString("numero", mcp.Required(), mcp.Description("Quote number, e.g. COT-2026-0001")),
	), s.readQuote)

	s.mcp.AddTool(mcp.NewTool("crear_cotizacion",
		mcp.WithDescription("Create a quote from JSON. The JSON MUST follow the canonical quote "+
			"format. Read the contract first via the formato_cotizacion tool or the "+
			"cotizador://formato-cotizacion resource."),
		mcp.WithString("cotizacion", mcp.Required(), mcp.Description("Quote JSON following the contract")),
	), s.createQuote)

	s.mcp.AddTool(mcp.NewTool("calcular_totales",
		mcp.WithDescription("Compute subtotal, IGV (18%) and total for a list of items without storing anything."),
		mcp.WithString("items", mcp.Required(), mcp.Description(`JSON array of items: [{"cantidad": 2, "precioUnitario": 100}]`)),
	), s.computeTotals)

	s.mcp.AddTool(mcp.NewTool("exportar_html",
		mcp.WithDescription("Render a stored quote as a self-contained HTML document."),
		mcp.WithString("numero", mcp.Required(), mcp.Description("Quote number to export")),
	), s.exportHTML)

	s.mcp.AddTool(mcp.NewTool("formato_cotizacion",
		mcp.WithDescription("Returns the canonical quote JSON contract. "+
			"Call this before creating quotes to ensure correct structure."),
	), s.getContract)

	// Resource: quote format contract.
	s.mcp.AddResource(
		mcp.NewResource("cotizador://formato-cotizacion", "Formato de Cotización",
			mcp.WithResourceDescription("Canonical quote JSON layout that crear_cotizacion expects."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listQuotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	estado := ""
	if v, err := req.RequireString("estado"); err == nil {
		estado = v
	}
	items, total, err := s.svc.ListQuotes(ctx, store.ListFilter{Estado: models.QuoteState(estado)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{"cotizaciones": items, "total": total}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readQuote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	numero, err := req.RequireString("numero")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.GetQuote(ctx, numero)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", numero)), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"cotizacion": rec.Quote,
		"totales":    rec.Totals.Format(),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createQuote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("cotizacion")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Run the payload through the same validation as chat replies.
	res, err := parser.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid quote JSON: %v", err)), nil
	}
	if !res.IsQuote() {
		return mcp.NewToolResultError("payload does not contain a quote object with items"), nil
	}

	q := res.Quote
	if q.Version == 0 {
		q.Version = models.FirstVersion
	}
	rec, err := s.svc.SaveQuote(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (total S/ %s)", rec.Quote.Numero, rec.Totals.Format().Total)), nil
}

func (s *Server) computeTotals(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var items []models.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid items JSON: %v", err)), nil
	}
	out, _ := json.MarshalIndent(quote.ComputeTotals(items).Format(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) exportHTML(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	numero, err := req.RequireString("numero")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, _, _, err := s.svc.ExportQuote(numero, quoteservice.FormatHTML)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(QuoteFormatContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "cotizador://formato-cotizacion",
			MIMEType: "text/markdown",
			Text:     QuoteFormatContract,
		},
	}, nil
}
