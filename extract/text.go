package extract

import (
	"regexp"
	"strings"
)

// SnippetLength ist die Anzahl Zeichen des Rohtexts, die pro Dokument zu
// Audit-Zwecken mitgespeichert wird.
const SnippetLength = 500

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// NormalizeWhitespace kollabiert Whitespace-Läufe zu einzelnen Leerzeichen und
// trimmt die Enden. Leere Ergebnisse werden zu nil.
func NormalizeWhitespace(value string) *string {
	normalized := strings.Join(strings.Fields(value), " ")
	if normalized == "" {
		return nil
	}
	return &normalized
}

// Snippet liefert die ersten SnippetLength Zeichen des Texts, getrimmt.
func Snippet(text string) *string {
	runes := []rune(text)
	if len(runes) > SnippetLength {
		runes = runes[:SnippetLength]
	}
	snippet := strings.TrimSpace(string(runes))
	if snippet == "" {
		return nil
	}
	return &snippet
}

// Year findet die erste vierstellige 19xx/20xx-Jahreszahl im Text.
func Year(text string) *int {
	match := yearPattern.FindString(text)
	if match == "" {
		return nil
	}
	year := 0
	for _, r := range match {
		year = year*10 + int(r-'0')
	}
	return &year
}

// FirstNonEmpty wertet die Quellen der Reihe nach aus und gibt den ersten
// nicht-leeren Wert zurück. Damit werden die Feld-Fallback-Ketten
// ("erst Quelle A, sonst Quelle B, sonst nichts") ohne verschachtelte
// Conditionals formuliert.
func FirstNonEmpty(sources ...func() *string) *string {
	for _, source := range sources {
		if value := source(); value != nil && *value != "" {
			return value
		}
	}
	return nil
}
