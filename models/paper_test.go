package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPaperRoundTrip(t *testing.T) {
	year := 2021
	pubDate := time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC)
	m := &Metadata{
		Title:           strPtr("Deep Learning for Protein Folding"),
		DocumentType:    strPtr("article"),
		PublicationDate: &pubDate,
		JournalTitle:    strPtr("Bioinformatics"),
		Publisher:       strPtr("OUP"),
		Authors:         []string{"Jane Doe", "John Smith"},
		Affiliations:    []string{"MIT", "Stanford"},
		Countries:       []string{"USA"},
		Abstract:        strPtr("We present a method."),
		Year:            &year,
		Keywords:        []string{"protein folding", "deep learning"},
		RawTextSnippet:  strPtr("Deep Learning for..."),
	}

	paper := NewPaper("/data/papers/folding.pdf", m)
	assert.Equal(t, "/data/papers/folding.pdf", paper.FilePath)

	got := paper.Metadata()
	require.Equal(t, m, got)

	// Order and exact strings survive the JSONB encoding.
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, got.Authors)
}

func TestPaperRoundTrip_AbsentFields(t *testing.T) {
	paper := NewPaper("/data/papers/empty.pdf", &Metadata{})

	assert.Nil(t, paper.Title)
	assert.Nil(t, paper.Authors)
	assert.Nil(t, paper.Keywords)

	got := paper.Metadata()
	assert.True(t, got.IsEmpty())
	assert.Nil(t, got.Authors)
	assert.Nil(t, got.Affiliations)
}

func TestMetadataIsEmpty(t *testing.T) {
	assert.True(t, (&Metadata{}).IsEmpty())
	assert.True(t, (*Metadata)(nil).IsEmpty())

	// The snippet alone does not make a record non-empty.
	assert.True(t, (&Metadata{RawTextSnippet: strPtr("text")}).IsEmpty())

	assert.False(t, (&Metadata{Title: strPtr("x")}).IsEmpty())
	year := 1999
	assert.False(t, (&Metadata{Year: &year}).IsEmpty())
	assert.False(t, (&Metadata{Authors: []string{"a"}}).IsEmpty())
}
