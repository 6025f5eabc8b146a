package models

// Turn roles. The transcript alternates user/assistant within a question,
// but a failed pipeline call leaves a user turn without an assistant turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a session transcript. Assistant turns carry the
// source documents their answer was grounded on.
type Turn struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Sources []string `json:"sources,omitempty"`
}

// Answer is the result of one question through the answer pipeline.
type Answer struct {
	Text string `json:"text"`
	// Sources are the chunks the completion was conditioned on, in
	// retrieval order.
	Sources []Chunk `json:"sources"`
}
