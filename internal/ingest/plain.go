package ingest

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/renovalabs/insightdocs/internal/models"
)

// loadPlain returns the whole file as a single fragment. Invalid UTF-8
// sequences are replaced with the replacement character.
func loadPlain(path string) ([]models.Fragment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return []models.Fragment{{
		Text:       text,
		SourcePath: path,
		Metadata:   map[string]string{},
	}}, nil
}
