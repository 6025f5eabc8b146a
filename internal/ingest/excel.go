package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/renovalabs/insightdocs/internal/models"
)

// loadExcel produces one fragment per sheet, rows joined by newlines and
// cells by tabs.
func loadExcel(path string) ([]models.Fragment, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel %s: %w", path, err)
	}
	defer f.Close()

	var fragments []models.Fragment
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q of %s: %w", sheet, path, err)
		}
		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		fragments = append(fragments, models.Fragment{
			Text:       text,
			SourcePath: path,
			Metadata:   map[string]string{"sheet": sheet},
		})
	}
	return fragments, nil
}
