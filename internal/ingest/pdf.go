package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/renovalabs/insightdocs/internal/models"
)

// loadPDF extracts one fragment per page, preserving page order.
func loadPDF(path string) ([]models.Fragment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", path, err)
	}
	var fragments []models.Fragment
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fragments = append(fragments, models.Fragment{
			Text:       text,
			SourcePath: path,
			Metadata:   map[string]string{"page": strconv.Itoa(i)},
		})
	}
	return fragments, nil
}
