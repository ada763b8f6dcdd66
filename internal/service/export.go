package service

import (
	"context"
	"fmt"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/repo"
)

// exportPageSize is how many cafes Export reads per repo call.
const exportPageSize = 100

// ExportService assembles a flat export of every cafe and its vibe scores.
type ExportService struct {
	cafes repo.CafeRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(cafes repo.CafeRepo) *ExportService {
	return &ExportService{cafes: cafes}
}

// Export returns one ExportRow per cafe, optionally restricted to one ZIP code.
// Rows follow the repo's listing order. Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context, zip string) ([]domain.ExportRow, error) {
	if zip != "" {
		normalized, err := domain.NormalizeZip(zip)
		if err != nil {
			return nil, err
		}
		zip = normalized
	}

	rows := []domain.ExportRow{}
	for page := 1; ; page++ {
		p := domain.PaginationParams{Page: page, Limit: exportPageSize}
		cafes, total, err := s.cafes.ListPaged(ctx, zip, p)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		for _, c := range cafes {
			rows = append(rows, domain.NewExportRow(c))
		}
		if len(cafes) < exportPageSize || int64(len(rows)) >= total {
			return rows, nil
		}
	}
}
