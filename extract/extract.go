// Package extract implementiert die heuristische Metadaten-Extraktion aus
// rohem PDF-Text. Sie ist der Fallback-Pfad, wenn der GROBID-Service nicht
// erreichbar ist oder nichts liefert, und arbeitet rein positions- und
// musterbasiert. Jede Regel ist unabhängig und best-effort.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"paper-ingest/models"
)

var (
	authorLabelPattern   = regexp.MustCompile(`(?i)Authors?\s*[:\-]\s*(.+)`)
	keywordsLabelPattern = regexp.MustCompile(`(?i)(?:Keywords?|Index Terms?)\s*[:\-]\s*(.+)`)
	abstractPattern      = regexp.MustCompile(`(?is)\bAbstract\b\s*[:\-]?\s*(.+?)(?:\n\s*\n|\bIntroduction\b|\bKeywords\b)`)
	andSeparatorPattern  = regexp.MustCompile(`(?i)\s+and\s+`)
)

// maxAuthorLineLength: längere zweite Zeilen sind eher Affiliations oder
// Fließtext als eine Autorenzeile.
const maxAuthorLineLength = 120

// FromText baut einen Metadata-Record direkt aus dem Rohtext. Die Funktion
// liefert immer einen Record; nicht erkennbare Felder bleiben nil. Felder,
// die nur der strukturierte Pfad kennt (document_type, publication_date,
// journal/book/publisher, affiliations, countries), bleiben hier immer leer.
func FromText(text string) *models.Metadata {
	lines := nonBlankLines(text)
	return &models.Metadata{
		Title:          extractTitle(lines),
		Authors:        extractAuthors(lines),
		Year:           Year(text),
		Keywords:       extractKeywords(text),
		Abstract:       extractAbstract(text),
		RawTextSnippet: Snippet(text),
	}
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// extractTitle: die erste nicht-leere Zeile ist der Titel.
func extractTitle(lines []string) *string {
	if len(lines) == 0 {
		return nil
	}
	title := lines[0]
	return &title
}

// extractAuthors sucht in den ersten fünf Zeilen nach einem Author(s)-Label.
// Ohne Label wird die zweite Zeile als Autorenzeile behandelt, sofern sie kurz
// genug ist.
func extractAuthors(lines []string) []string {
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		if match := authorLabelPattern.FindStringSubmatch(line); match != nil {
			return SplitAuthors(match[1])
		}
	}
	if len(lines) > 1 && utf8.RuneCountInString(lines[1]) <= maxAuthorLineLength {
		return SplitAuthors(lines[1])
	}
	return nil
}

// extractKeywords nimmt den Rest der ersten Keywords:/Index Terms:-Zeile.
func extractKeywords(text string) []string {
	match := keywordsLabelPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	line := match[1]
	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		line = line[:idx]
	}
	return SplitKeywords(line)
}

// extractAbstract liefert den Text zwischen Abstract-Label und der nächsten
// Leerzeile bzw. dem Beginn von Introduction/Keywords, Whitespace-normalisiert.
func extractAbstract(text string) *string {
	match := abstractPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return NormalizeWhitespace(match[1])
}

// SplitAuthors zerlegt eine Autorenzeile an Kommas, Semikolons und dem Wort
// "and" und trimmt die Teile.
func SplitAuthors(line string) []string {
	normalized := andSeparatorPattern.ReplaceAllString(line, ",")
	normalized = strings.ReplaceAll(normalized, ";", ",")
	return splitTrimmed(normalized)
}

// SplitKeywords zerlegt eine Keyword-Zeile an Kommas und Semikolons.
func SplitKeywords(line string) []string {
	return splitTrimmed(strings.ReplaceAll(line, ";", ","))
}

func splitTrimmed(line string) []string {
	var parts []string
	for _, part := range strings.Split(line, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
