package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/pdfchat/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(history *internal.ChatHistory, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range history.Messages {
		obj := map[string]interface{}{
			"id": msg.ID,
		}
		if msg.Question != "" {
			obj["actor"] = "user"
			obj["content"] = msg.Question
		} else {
			obj["actor"] = "assistant"
			obj["content"] = msg.Answer
		}
		if msg.Timestamp != "" {
			obj["timestamp"] = internal.NormalizeTimestamp(msg.Timestamp)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
