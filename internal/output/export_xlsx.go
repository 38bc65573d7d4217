package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/aurceive/drop_viewer/internal/catalog"
	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/workbook"

	"github.com/xuri/excelize/v2"
)

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// DefaultExportPath builds <dir>/<yyyymmdd>_drop_viewer_<label>.xlsx.
func DefaultExportPath(dir, label string, now time.Time) string {
	label = unsafeFileChars.ReplaceAllString(label, "_")
	if label == "" || label == "_" {
		label = "all"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_drop_viewer_%s.xlsx", now.Format("20060102"), label))
}

// ExportRecordsXLSX writes records in view order: one row per record on the
// Equipment sheet, and their drop sources ranked by ascending denominator on the Drops sheet.
func ExportRecordsXLSX(path string, records []domain.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	eq := workbook.EquipmentSheet
	if err := f.SetSheetName("Sheet1", eq); err != nil {
		return err
	}
	if _, err := f.NewSheet(workbook.DropsSheet); err != nil {
		return err
	}

	if err := writeHeader(f, eq, workbook.EquipmentHeaders); err != nil {
		return err
	}
	if err := writeHeader(f, workbook.DropsSheet, workbook.DropsHeaders); err != nil {
		return err
	}

	dropRow := 2
	for i, r := range records {
		row := i + 2
		if err := f.SetSheetRow(eq, fmt.Sprintf("A%d", row), &[]any{
			r.Type, r.Name, r.BestMonster, r.BestProbability, r.ProbabilityValue, len(r.AllDrops),
		}); err != nil {
			return err
		}
		for rank, d := range catalog.SortedDrops(r.AllDrops) {
			if err := f.SetSheetRow(workbook.DropsSheet, fmt.Sprintf("A%d", dropRow), &[]any{
				r.Name, rank + 1, d.Monster, d.Probability, d.Denominator,
			}); err != nil {
				return err
			}
			dropRow++
		}
	}

	// Freeze the header row so long views stay readable.
	for _, sheet := range []string{eq, workbook.DropsSheet} {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(eq, "B", "C", 24); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s1", workbook.ColName(i+1)), h); err != nil {
			return err
		}
	}
	styleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	lastCol := workbook.ColName(len(headers))
	return f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", lastCol), styleID)
}
