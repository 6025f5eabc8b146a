// Package answer turns a question into a grounded completion over retrieved chunks.
package answer

import (
	"strings"

	"github.com/renovalabs/insightdocs/internal/models"
)

// FallbackAnswer is the sentence the model is instructed to reply with when
// the retrieved documents do not contain the answer.
const FallbackAnswer = "A informação não está disponível nos documentos fornecidos."

const promptHeader = "Você é um assistente que responde perguntas com base nos documentos fornecidos."

// buildPrompt renders the retrieved chunks and the question into the fixed
// Portuguese instruction prompt.
func buildPrompt(question string, chunks []models.ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\nDocumentos:\n")
	for _, c := range chunks {
		sb.WriteString(c.Chunk.Text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Pergunta: ")
	sb.WriteString(question)
	sb.WriteString("\n\nResponda apenas com informações dos documentos acima. Se não puder encontrar uma resposta, diga: \"")
	sb.WriteString(FallbackAnswer)
	sb.WriteString("\"")
	return sb.String()
}
