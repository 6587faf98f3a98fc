// Package pdftext zieht den Text-Layer aus den ersten Seiten einer PDF-Datei.
package pdftext

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPages ist die Standard-Seitenzahl für die Rohtext-Extraktion.
const DefaultMaxPages = 2

// Extract liefert den zeilenweise zusammengefügten Text der ersten maxPages
// Seiten. Kaputte oder nicht lesbare PDFs ergeben einen leeren String, niemals
// einen Fehler. Ein einzelnes defektes Dokument darf den Batch nicht stoppen.
func Extract(path string, maxPages int) (text string) {
	// Die PDF-Bibliothek kann bei beschädigten Dateien panicen.
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var chunks []string
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText != "" {
			chunks = append(chunks, pageText)
		}
	}
	return strings.Join(chunks, "\n")
}
