// Package models defines core data structures for fragments, chunks, and chat turns.
package models

// Fragment is a raw text unit extracted from one source file by its
// format-specific loader (a PDF page, a CSV row, a whole text file).
type Fragment struct {
	Text       string            `json:"text"`
	SourcePath string            `json:"source_path"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Chunk is a fixed-size overlapping slice of a fragment, the unit indexed
// for retrieval. Chunks never span fragment boundaries.
type Chunk struct {
	ID         string `json:"id"`
	SourcePath string `json:"source_path"`
	// Fragment is the position of the source fragment in ingestion order.
	Fragment int    `json:"fragment"`
	Text     string `json:"text"`
	// Overlap is the text this chunk repeats from the tail of the previous
	// chunk of the same fragment. Empty for the first chunk of a fragment.
	Overlap string `json:"overlap,omitempty"`
	// Index is the chunk's position within its fragment.
	Index int `json:"index"`
}

// ScoredChunk is a retrieval hit: a chunk with its similarity score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
