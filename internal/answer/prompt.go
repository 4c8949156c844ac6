package answer

import (
	"strings"

	"github.com/slidetutor/slidetutor/internal/corpus"
	"github.com/slidetutor/slidetutor/internal/lang"
)

// buildPrompt assembles the single completion prompt: instruction block,
// one bullet per chunk, the conversation so far, then the question.
func buildPrompt(
	hits []corpus.RetrievalHit,
	question string,
	history []corpus.ConversationTurn,
	target lang.Language,
) string {
	var b strings.Builder

	b.WriteString("You are a knowledgeable course tutor. Answer the student's question using ")
	b.WriteString("only the information in the bullets below. You may restate or summarize ")
	b.WriteString("in your own words, but do not introduce new concepts. ")
	b.WriteString(lang.Instruction(target))
	b.WriteString("\n\nContext:\n")

	for _, h := range hits {
		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(h.Chunk.Content))
		b.WriteString("\n")
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range history {
			if turn.Role == corpus.RoleAssistant {
				b.WriteString("Tutor: ")
			} else {
				b.WriteString("Student: ")
			}
			b.WriteString(strings.TrimSpace(turn.Text))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nAnswer:")

	return b.String()
}
