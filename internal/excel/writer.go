package excel

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"shop-finder/internal/models"
)

const DefaultResultSheet = "Ketqua"

// Sink persists ranked shops as a workbook.
type Sink struct {
	Sheet string
}

func (s Sink) Write(path string, shops []models.RankedShop) error {
	sheet := s.Sheet
	if sheet == "" {
		sheet = DefaultResultSheet
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return WriteResult(path, shops, sheet)
}

func WriteResult(path string, data []models.RankedShop, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	headers := []interface{}{
		"name", "address", "lat", "lon", "distance_km",
		"category", "price_range", "notes", "priority_score", "source",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, r := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var lat, lon interface{} = "", ""
		if r.Location != nil {
			lat, lon = r.Location.Lat, r.Location.Lon
		}
		row := []interface{}{
			r.Name, r.Address, lat, lon, r.DistanceKm,
			r.Category, r.PriceRange, r.Notes, r.PriorityScore, r.Source,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	return f.SaveAs(path)
}
