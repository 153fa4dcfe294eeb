// Package pdfextract pulls plain text out of uploaded PDF files.
package pdfextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result holds the per-page text of one document.
type Result struct {
	// Pages is the total page count of the document.
	Pages int
	// Texts holds one entry per page that yielded non-blank text.
	Texts []string
}

// Extract reads every page of the PDF and returns the non-empty page texts.
// Pages that fail to decode are skipped rather than failing the document.
func Extract(content []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	result := &Result{Pages: reader.NumPage()}
	for i := 1; i <= result.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		result.Texts = append(result.Texts, text)
	}

	return result, nil
}
