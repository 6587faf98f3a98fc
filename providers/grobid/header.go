package grobid

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"paper-ingest/extract"
	"paper-ingest/models"
)

var (
	fullDatePattern  = regexp.MustCompile(`\b(19|20)\d{2}-\d{2}-\d{2}\b`)
	yearMonthPattern = regexp.MustCompile(`\b(19|20)\d{2}-\d{2}\b`)
)

// documentTypes ist die geschlossene Menge an Klassifikationen, gegen die
// Keyword-Terme als Dokumenttyp-Kandidaten geprüft werden.
var documentTypes = map[string]bool{
	"article":    true,
	"review":     true,
	"book":       true,
	"chapter":    true,
	"conference": true,
	"preprint":   true,
}

// ParsePublicationDate parst ein Datum nach drei Mustern in Prioritätsfolge:
// volles ISO-Datum, Jahr-Monat (Tag wird 1), nacktes Jahr (Monat und Tag
// werden 1). Kein Treffer ergibt nil.
func ParsePublicationDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if match := fullDatePattern.FindString(value); match != "" {
		if t, err := time.Parse("2006-01-02", match); err == nil {
			return &t
		}
	}
	if match := yearMonthPattern.FindString(value); match != "" {
		if t, err := time.Parse("2006-01", match); err == nil {
			return &t
		}
	}
	if year := extract.Year(value); year != nil {
		t := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return nil
}

// metadataFromTEI setzt den Metadata-Record aus dem TEI-Header zusammen.
// Jedes Feld hat seine eigene Fallback-Kette; ein komplett leerer Record ist
// ein gültiges Ergebnis.
func metadataFromTEI(root *Node) *models.Metadata {
	m := &models.Metadata{}

	m.Title = extract.NormalizeWhitespace(root.FindText("titleStmt/title"))
	m.DocumentType = documentType(root)

	var authors, affiliations, countries []string
	collect := func(authorNodes []*Node) {
		for _, authorEl := range authorNodes {
			if name := authorName(authorEl); name != "" {
				authors = append(authors, name)
			}
			affiliations = append(affiliations, authorAffiliations(authorEl)...)
			countries = append(countries, authorCountries(authorEl)...)
		}
	}
	collect(root.FindAll("sourceDesc//author"))
	if len(authors) == 0 {
		collect(root.FindAll("titleStmt//author"))
	}
	m.Authors = authors
	m.Affiliations = sortedUnique(affiliations)
	m.Countries = sortedUnique(countries)

	for _, term := range root.FindAll("keywords//term") {
		if text := strings.TrimSpace(term.Text()); text != "" {
			m.Keywords = append(m.Keywords, text)
		}
	}

	m.PublicationDate, m.Year = publicationDate(root)

	m.JournalTitle, m.BookTitle = monographTitles(root)
	m.Publisher = extract.FirstNonEmpty(
		func() *string { return textPtr(root.FindText("publicationStmt/publisher")) },
		func() *string { return textPtr(root.FindText("monogr/imprint/publisher")) },
	)

	if abstractEl := root.FindFirst("profileDesc/abstract"); abstractEl != nil {
		m.Abstract = extract.NormalizeWhitespace(abstractEl.DeepText())
	}

	return m
}

// documentType: explizites type-Attribut am biblStruct, sonst erster
// classCode unter textClass, sonst ein kurzer Keyword-Term aus der
// geschlossenen Typ-Menge.
func documentType(root *Node) *string {
	return extract.FirstNonEmpty(
		func() *string {
			if biblStruct := root.FindFirst("biblStruct"); biblStruct != nil {
				return extract.NormalizeWhitespace(biblStruct.Attr("type"))
			}
			return nil
		},
		func() *string {
			for _, classCode := range root.FindAll("textClass//classCode") {
				if classCode.Text() != "" {
					if v := extract.NormalizeWhitespace(classCode.Text()); v != nil {
						return v
					}
				}
			}
			return nil
		},
		func() *string {
			for _, term := range root.FindAll("textClass//keywords//term") {
				text := term.Text()
				if text == "" || len(strings.Fields(text)) > 4 {
					continue
				}
				candidate := strings.ToLower(strings.TrimSpace(text))
				if documentTypes[candidate] {
					return &candidate
				}
			}
			return nil
		},
	)
}

// authorName fügt Vornamen und Nachnamen zu einem vollen Namen zusammen.
func authorName(authorEl *Node) string {
	surname := authorEl.FindText("surname")

	var forenames []string
	for _, forenameEl := range authorEl.FindAll("forename") {
		if text := strings.TrimSpace(forenameEl.Text()); text != "" {
			forenames = append(forenames, text)
		}
	}

	var parts []string
	if len(forenames) > 0 {
		parts = append(parts, strings.Join(forenames, " "))
	}
	if surname != "" {
		parts = append(parts, surname)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// authorAffiliations baut pro affiliation-Knoten einen normalisierten String
// aus allen orgName-Fragmenten plus dem Adresstext, komma-verbunden.
func authorAffiliations(authorEl *Node) []string {
	var affiliations []string
	for _, aff := range authorEl.FindAll("affiliation") {
		var parts []string
		for _, org := range aff.FindAll("orgName") {
			if text := extract.NormalizeWhitespace(org.DeepText()); text != nil {
				parts = append(parts, *text)
			}
		}
		if address := aff.FindFirst("address"); address != nil {
			if text := extract.NormalizeWhitespace(address.DeepText()); text != nil {
				parts = append(parts, *text)
			}
		}
		if len(parts) > 0 {
			if joined := extract.NormalizeWhitespace(strings.Join(parts, ", ")); joined != nil {
				affiliations = append(affiliations, *joined)
			}
		}
	}
	return affiliations
}

func authorCountries(authorEl *Node) []string {
	var countries []string
	for _, countryEl := range authorEl.FindAll("affiliation//address//country") {
		if country := extract.NormalizeWhitespace(countryEl.Text()); country != nil {
			countries = append(countries, *country)
		}
	}
	return countries
}

// publicationDate sucht zuerst in den publicationStmt-Datumsknoten (Attribut
// "when" vor Knotentext), dann im imprint-Abschnitt. Liefert ein Datum nur
// ein nacktes Jahr, wird Year ohne PublicationDate gesetzt.
func publicationDate(root *Node) (*time.Time, *int) {
	var year *int
	var pubDate *time.Time

	for _, dateEl := range root.FindAll("publicationStmt//date") {
		pubDate = ParsePublicationDate(dateValue(dateEl))
		if pubDate != nil {
			y := pubDate.Year()
			year = &y
			break
		}
		if text := dateEl.Text(); strings.TrimSpace(text) != "" {
			if year = extract.Year(text); year != nil {
				break
			}
		}
		if when := dateEl.Attr("when"); when != "" {
			if year = extract.Year(when); year != nil {
				break
			}
		}
	}

	if pubDate == nil {
		for _, dateEl := range root.FindAll("imprint//date") {
			if d := ParsePublicationDate(dateValue(dateEl)); d != nil {
				pubDate = d
				y := d.Year()
				year = &y
				break
			}
		}
	}

	return pubDate, year
}

// dateValue: das maschinenlesbare when-Attribut hat Vorrang vor dem Text.
func dateValue(dateEl *Node) string {
	if when := dateEl.Attr("when"); when != "" {
		return when
	}
	return dateEl.Text()
}

// monographTitles: level "j" markiert den Journal-Titel, level "m" den
// Buch-Titel. Fehlt beides, gilt der unmarkierte monogr-Titel als Buch-Titel.
func monographTitles(root *Node) (journal, book *string) {
	titles := root.FindAll("monogr/title")
	for _, titleEl := range titles {
		switch titleEl.Attr("level") {
		case "j":
			if journal == nil {
				journal = textPtr(titleEl.Text())
			}
		case "m":
			if book == nil {
				book = textPtr(titleEl.Text())
			}
		}
	}
	if journal == nil && book == nil && len(titles) > 0 {
		book = textPtr(titles[0].Text())
	}
	return journal, book
}

func textPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	sort.Strings(unique)
	return unique
}
