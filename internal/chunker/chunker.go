// Package chunker splits fragments into fixed-size overlapping character windows.
package chunker

import (
	"fmt"

	"github.com/renovalabs/insightdocs/internal/models"
)

// Chunker splits fragment text into overlapping rune-based windows.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap (in runes).
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split is a pure function of its inputs: the same fragments always produce
// the same chunks in the same order. Chunks never span fragment boundaries
// and empty fragments produce no chunks.
func (c *Chunker) Split(fragments []models.Fragment) []models.Chunk {
	var chunks []models.Chunk
	for fragIdx, frag := range fragments {
		chunks = append(chunks, c.splitFragment(fragIdx, frag)...)
	}
	return chunks
}

func (c *Chunker) splitFragment(fragIdx int, frag models.Fragment) []models.Chunk {
	runes := []rune(frag.Text)
	if len(runes) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var chunks []models.Chunk
	index := 0
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := models.Chunk{
			ID:         fmt.Sprintf("%d:%d", fragIdx, index),
			SourcePath: frag.SourcePath,
			Fragment:   fragIdx,
			Text:       string(runes[start:end]),
			Index:      index,
		}
		if index > 0 {
			overlapEnd := start + c.overlap
			if overlapEnd > end {
				overlapEnd = end
			}
			chunk.Overlap = string(runes[start:overlapEnd])
		}
		chunks = append(chunks, chunk)
		if end >= len(runes) {
			break
		}
		index++
	}
	return chunks
}
