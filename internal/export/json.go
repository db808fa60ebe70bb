package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/pdfchat/internal"
)

// JSONExporter exports transcripts in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a transcript to JSON format
func (e *JSONExporter) Export(history *internal.ChatHistory, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(history)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
