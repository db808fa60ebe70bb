package internal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pdfMagic is the first bytes of every well-formed PDF file.
var pdfMagic = []byte("%PDF-")

// ValidateFile checks one candidate file against the PDF content type
// and the configured size ceiling. It runs entirely locally, before
// any network call; a rejected file never reaches the upload request.
func ValidateFile(path string, maxBytes int64) error {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Filename: name, Reason: fmt.Sprintf("cannot read file: %v", err)}
	}
	if info.IsDir() {
		return &ValidationError{Filename: name, Reason: "is a directory"}
	}

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &ValidationError{Filename: name, Reason: "please upload PDF files only"}
	}

	if info.Size() > maxBytes {
		return &ValidationError{
			Filename: name,
			Reason:   fmt.Sprintf("file size should be less than %dMB", maxBytes/(1024*1024)),
		}
	}

	// Extension alone does not establish the MIME type; sniff the
	// header the way browsers resolve application/pdf.
	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Filename: name, Reason: fmt.Sprintf("cannot read file: %v", err)}
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	n, _ := f.Read(header)
	if n < len(pdfMagic) || !bytes.Equal(header[:len(pdfMagic)], pdfMagic) {
		return &ValidationError{Filename: name, Reason: "please upload PDF files only"}
	}

	return nil
}

// ValidateFiles filters candidates down to the valid ones. The error
// string of the last failing file is returned alongside; earlier
// failures are overwritten, matching the single visible error slot in
// the upload view.
func ValidateFiles(paths []string, maxBytes int64) (valid []string, lastErr string) {
	for _, path := range paths {
		if err := ValidateFile(path, maxBytes); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				lastErr = verr.Reason
			} else {
				lastErr = err.Error()
			}
			continue
		}
		valid = append(valid, path)
	}
	if len(valid) == 0 && lastErr == "" && len(paths) > 0 {
		lastErr = "no valid PDF files found"
	}
	return valid, lastErr
}
