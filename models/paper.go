package models

import (
	"encoding/json"
	"time"
)

// Metadata repräsentiert die extrahierten bibliographischen Fakten eines
// Papers. Fehlende Felder sind nil, Listen-Felder sind entweder nicht-leer
// oder nil, nie leer-aber-vorhanden.
type Metadata struct {
	Title           *string    `json:"title,omitempty"`
	DocumentType    *string    `json:"document_type,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	JournalTitle    *string    `json:"journal_title,omitempty"`
	BookTitle       *string    `json:"book_title,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	Authors         []string   `json:"authors,omitempty"`
	Affiliations    []string   `json:"affiliations,omitempty"`
	Countries       []string   `json:"countries,omitempty"`
	Abstract        *string    `json:"abstract,omitempty"`
	Year            *int       `json:"year,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	RawTextSnippet  *string    `json:"raw_text_snippet,omitempty"`
}

// IsEmpty meldet, ob kein einziges Feld belegt ist. Der Snippet zählt nicht,
// da er unabhängig vom Extraktionspfad gesetzt wird.
func (m *Metadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.Title == nil && m.DocumentType == nil && m.PublicationDate == nil &&
		m.JournalTitle == nil && m.BookTitle == nil && m.Publisher == nil &&
		len(m.Authors) == 0 && len(m.Affiliations) == 0 && len(m.Countries) == 0 &&
		m.Abstract == nil && m.Year == nil && len(m.Keywords) == 0
}

// Paper repräsentiert eine Zeile der papers-Tabelle. Listen-Felder werden als
// JSONB gespeichert, damit Reihenfolge und exakte Strings erhalten bleiben.
type Paper struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FilePath string `json:"file_path" gorm:"column:file_path;uniqueIndex;size:1024;not null"`

	Title           *string    `json:"title,omitempty"`
	DocumentType    *string    `json:"document_type,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	JournalTitle    *string    `json:"journal_title,omitempty"`
	BookTitle       *string    `json:"book_title,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	Authors         []byte     `json:"authors,omitempty" gorm:"type:jsonb"`
	Affiliations    []byte     `json:"affiliations,omitempty" gorm:"type:jsonb"`
	Countries       []byte     `json:"countries,omitempty" gorm:"type:jsonb"`
	Abstract        *string    `json:"abstract,omitempty" gorm:"type:text"`
	Year            *int       `json:"year,omitempty"`
	Keywords        []byte     `json:"keywords,omitempty" gorm:"type:jsonb"`
	RawTextSnippet  *string    `json:"raw_text_snippet,omitempty" gorm:"type:text"`

	ProcessedAt time.Time `json:"processed_at"`
}

func (Paper) TableName() string { return "papers" }

// NewPaper baut aus Pfad und Metadata eine speicherbare Paper-Zeile.
func NewPaper(filePath string, m *Metadata) *Paper {
	return &Paper{
		FilePath:        filePath,
		Title:           m.Title,
		DocumentType:    m.DocumentType,
		PublicationDate: m.PublicationDate,
		JournalTitle:    m.JournalTitle,
		BookTitle:       m.BookTitle,
		Publisher:       m.Publisher,
		Authors:         marshalList(m.Authors),
		Affiliations:    marshalList(m.Affiliations),
		Countries:       marshalList(m.Countries),
		Abstract:        m.Abstract,
		Year:            m.Year,
		Keywords:        marshalList(m.Keywords),
		RawTextSnippet:  m.RawTextSnippet,
	}
}

// Metadata rekonstruiert das Metadata-Objekt aus einer gespeicherten Zeile.
func (p *Paper) Metadata() *Metadata {
	return &Metadata{
		Title:           p.Title,
		DocumentType:    p.DocumentType,
		PublicationDate: p.PublicationDate,
		JournalTitle:    p.JournalTitle,
		BookTitle:       p.BookTitle,
		Publisher:       p.Publisher,
		Authors:         unmarshalList(p.Authors),
		Affiliations:    unmarshalList(p.Affiliations),
		Countries:       unmarshalList(p.Countries),
		Abstract:        p.Abstract,
		Year:            p.Year,
		Keywords:        unmarshalList(p.Keywords),
		RawTextSnippet:  p.RawTextSnippet,
	}
}

// marshalList serialisiert eine Liste als JSONB-Wert; leere Listen werden als
// SQL-NULL gespeichert.
func marshalList(values []string) []byte {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return b
}

func unmarshalList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
