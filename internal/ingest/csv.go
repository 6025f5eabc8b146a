package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/renovalabs/insightdocs/internal/models"
)

// loadCSV produces one fragment per data row, rendered as "header: value"
// lines so that column names stay attached to their values when the row is
// chunked and embedded.
func loadCSV(path string) ([]models.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	var fragments []models.Fragment
	for rowNum, record := range records[1:] {
		var b strings.Builder
		for i, value := range record {
			name := fmt.Sprintf("column_%d", i+1)
			if i < len(header) {
				name = header[i]
			}
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(value)
		}
		fragments = append(fragments, models.Fragment{
			Text:       b.String(),
			SourcePath: path,
			Metadata:   map[string]string{"row": strconv.Itoa(rowNum + 1)},
		})
	}
	return fragments, nil
}
