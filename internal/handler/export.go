// Package handler: export.go implements GET /export.
// Returns every cafe and its vibe scores as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// Exporter produces the flat cafe export.
type Exporter interface {
	Export(ctx context.Context, zip string) ([]domain.ExportRow, error)
}

// WithExporter enables GET /export.
func WithExporter(e Exporter) Option {
	return func(s *Server) { s.export = e }
}

// csvHeaders defines the column names written as the first row of any CSV
// export: fixed cafe columns followed by one lowercase column per vibe.
func csvHeaders() []string {
	h := []string{"cafe_id", "name", "zip_code", "stars", "latitude", "longitude", "vibe"}
	for _, v := range domain.AllVibes {
		h = append(h, v.Word())
	}
	return h
}

type exportRow struct {
	CafeID    openapi_types.UUID `json:"cafe_id"`
	Name      string             `json:"name"`
	ZipCode   string             `json:"zip_code"`
	Stars     int                `json:"stars"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
	Vibe      *domain.Vibe       `json:"vibe"`
	Scores    domain.VibeScores  `json:"scores"`
}

// GetExport handles GET /export.
// Use ?format=csv to receive CSV; default is JSON. ?zip_code= narrows the export.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	if s.export == nil {
		notFound(w, "export is not enabled")
		return
	}
	var zip, format *string
	query := r.URL.Query()
	for _, p := range []struct {
		name string
		dest any
	}{{"zip_code", &zip}, {"format", &format}} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, query, p.dest); err != nil {
			badRequest(w, fmt.Sprintf("invalid %s: %v", p.name, err))
			return
		}
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			badRequest(w, "format must be csv or json")
			return
		}
	}

	var zipCode string
	if zip != nil {
		zipCode = *zip
	}
	rows, err := s.export.Export(r.Context(), zipCode)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToJSON(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as an attachment.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(csvHeaders())
	for _, r := range rows {
		_ = cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cafes.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func domainRowToJSON(r domain.ExportRow) exportRow {
	return exportRow{
		CafeID:    r.CafeID,
		Name:      r.Name,
		ZipCode:   r.ZipCode,
		Stars:     r.Stars,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Vibe:      vibePtr(r.Vibe),
		Scores:    r.Scores,
	}
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Unknown coordinates and an unset vibe are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	rec := []string{
		r.CafeID.String(),
		r.Name,
		r.ZipCode,
		strconv.Itoa(r.Stars),
		formatOptionalFloat(r.Latitude),
		formatOptionalFloat(r.Longitude),
		string(r.Vibe),
	}
	for _, v := range domain.AllVibes {
		rec = append(rec, strconv.Itoa(r.Scores[v]))
	}
	return rec
}

// formatOptionalFloat returns the shortest representation of f, or "" if f is nil.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
