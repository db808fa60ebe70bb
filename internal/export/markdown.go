package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/pdfchat/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(history *internal.ChatHistory, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Chat %s\n\n", history.ChatID)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(history.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range history.Messages {
		timestamp := ""
		if ts := internal.NormalizeTimestamp(msg.Timestamp); ts != "" {
			timestamp = fmt.Sprintf(" (%s)", ts)
		}

		actor := "assistant"
		content := msg.Answer
		if msg.IsQuestion() {
			actor = "user"
			content = msg.Question
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", actor, timestamp, escapeMarkdown(content))

		if i < len(history.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
