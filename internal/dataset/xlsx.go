package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/workbook"

	"github.com/xuri/excelize/v2"
)

func parseFloatCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Handle comma decimal separator.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ImportXLSX reads a workbook written by the exporter.
func ImportXLSX(path string) ([]domain.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	records, err := readWorkbook(f)
	if err != nil {
		return nil, fmt.Errorf("xlsx %q: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ImportXLSXReader is ImportXLSX for a workbook fetched over the network.
func ImportXLSXReader(r io.Reader) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) ([]domain.Record, error) {
	if idx, _ := f.GetSheetIndex(workbook.EquipmentSheet); idx == -1 {
		return nil, fmt.Errorf("missing sheet %q", workbook.EquipmentSheet)
	}
	rows, err := f.GetRows(workbook.EquipmentSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", workbook.EquipmentSheet, err)
	}

	records := make([]domain.Record, 0, len(rows))
	byName := make(map[string]int, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		name := cell(row, workbook.EqName)
		if name == "" {
			// Skip malformed/partial rows.
			continue
		}
		pv, _ := parseFloatCell(cell(row, workbook.EqProbabilityValue))
		byName[name] = len(records)
		records = append(records, domain.Record{
			Name:             name,
			Type:             cell(row, workbook.EqType),
			BestMonster:      cell(row, workbook.EqBestMonster),
			BestProbability:  cell(row, workbook.EqBestProbability),
			ProbabilityValue: pv,
			AllDrops:         []domain.DropEntry{},
		})
	}

	// The drops sheet is optional; records then simply have no drop sources.
	if idx, _ := f.GetSheetIndex(workbook.DropsSheet); idx == -1 {
		return records, nil
	}
	dropRows, err := f.GetRows(workbook.DropsSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", workbook.DropsSheet, err)
	}
	for i, row := range dropRows {
		if i == 0 {
			continue
		}
		idx, ok := byName[cell(row, workbook.DrName)]
		if !ok {
			continue
		}
		den, _ := parseFloatCell(cell(row, workbook.DrDenominator))
		records[idx].AllDrops = append(records[idx].AllDrops, domain.DropEntry{
			Monster:     cell(row, workbook.DrMonster),
			Probability: cell(row, workbook.DrProbability),
			Denominator: den,
		})
	}
	return records, nil
}
