package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
)

const SourceTag = "spreadsheet"

// Column names recognised in the header row, case-insensitive.
var columnAliases = map[string]string{
	"name":        "name",
	"ten":         "name",
	"address":     "address",
	"dia_chi":     "address",
	"lat":         "lat",
	"latitude":    "lat",
	"lon":         "lon",
	"lng":         "lon",
	"longitude":   "lon",
	"category":    "category",
	"price_range": "price_range",
	"price":       "price_range",
	"notes":       "notes",
	"promo":       "notes",
	"phone":       "phone",
	"website":     "website",
}

func OpenFile(filename string) (*excelize.File, error) {
	return excelize.OpenFile(filename)
}

// ReadSheet reads every shop row of a sheet. The first row is the header.
// Rows whose coordinates cannot be parsed are kept without a location.
func ReadSheet(f *excelize.File, sheetName string) ([]models.Shop, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.Shop{}, nil
	}

	columns := headerIndex(rows[0])
	cell := func(row []string, key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	shops := make([]models.Shop, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue // blank line
		}

		s := models.Shop{
			Name:       cell(row, "name"),
			Address:    cell(row, "address"),
			Category:   cell(row, "category"),
			PriceRange: cell(row, "price_range"),
			Notes:      cell(row, "notes"),
			Phone:      cell(row, "phone"),
			Website:    cell(row, "website"),
			Source:     SourceTag,
		}
		if loc, err := models.ParseCoordinate(cell(row, "lat"), cell(row, "lon")); err == nil {
			s.Location = &loc
		}
		shops = append(shops, s)
	}
	return shops, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := idx[canonical]; !dup {
				idx[canonical] = i
			}
		}
	}
	return idx
}

// Source serves the shops stored in a workbook. The file is read on every
// call so edits are picked up without a restart; the radius is left to the
// ranking step. Without a path it serves SampleShops.
type Source struct {
	path  string
	sheet string
	log   *zap.Logger
}

func NewSource(path, sheet string, log *zap.Logger) *Source {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Source{path: path, sheet: sheet, log: logger.OrNop(log)}
}

// Configured reports whether a workbook path was given.
func (s *Source) Configured() bool {
	return s.path != ""
}

// All returns every shop in the sheet, or the sample catalog when no
// workbook is configured.
func (s *Source) All() ([]models.Shop, error) {
	if !s.Configured() {
		return SampleShops(), nil
	}

	f, err := OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	shops, err := ReadSheet(f, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.sheet, err)
	}
	s.log.Debug("read shops from spreadsheet", zap.String("path", s.path), zap.Int("count", len(shops)))
	return shops, nil
}

func (s *Source) Search(ctx context.Context, _ models.Coordinate, _ float64) ([]models.Shop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.All()
}
