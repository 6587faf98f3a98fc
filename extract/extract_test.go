package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromText_Title(t *testing.T) {
	m := FromText("My Great Paper\nJane Doe\n")
	require.NotNil(t, m.Title)
	assert.Equal(t, "My Great Paper", *m.Title)
}

func TestFromText_EmptyText(t *testing.T) {
	m := FromText("")
	assert.Nil(t, m.Title)
	assert.Nil(t, m.Authors)
	assert.Nil(t, m.Year)
	assert.Nil(t, m.Keywords)
	assert.Nil(t, m.Abstract)
	assert.Nil(t, m.RawTextSnippet)
}

func TestFromText_StructuredOnlyFieldsStayEmpty(t *testing.T) {
	m := FromText("My Great Paper\nJane Doe\nKeywords: a, b\n")
	assert.Nil(t, m.DocumentType)
	assert.Nil(t, m.PublicationDate)
	assert.Nil(t, m.JournalTitle)
	assert.Nil(t, m.BookTitle)
	assert.Nil(t, m.Publisher)
	assert.Nil(t, m.Affiliations)
	assert.Nil(t, m.Countries)
}

func TestExtractAuthors_Label(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "colon label",
			text: "A Title\nAuthors: Jane Doe, John Smith\n",
			want: []string{"Jane Doe", "John Smith"},
		},
		{
			name: "singular dash label",
			text: "A Title\nAuthor - Jane Doe\n",
			want: []string{"Jane Doe"},
		},
		{
			name: "semicolons and and",
			text: "A Title\nAuthors: Jane Doe; John Smith and Alice Jones\n",
			want: []string{"Jane Doe", "John Smith", "Alice Jones"},
		},
		{
			name: "case insensitive and",
			text: "A Title\nAuthors: Jane Doe AND John Smith\n",
			want: []string{"Jane Doe", "John Smith"},
		},
		{
			name: "label beyond fifth line is ignored, second line used instead",
			text: "A Title\nJane Doe\nx\nx\nx\nAuthors: Ghost Writer\n",
			want: []string{"Jane Doe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromText(tt.text)
			assert.Equal(t, tt.want, m.Authors)
		})
	}
}

func TestExtractAuthors_SecondLineFallback(t *testing.T) {
	m := FromText("A Title\nJane Doe, John Smith\n")
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, m.Authors)

	// Overlong second lines are not author lines.
	long := strings.Repeat("x", 121)
	m = FromText("A Title\n" + long + "\n")
	assert.Nil(t, m.Authors)
}

func TestExtractKeywords(t *testing.T) {
	m := FromText("Title\n\nKeywords: a, b; c\n\nBody text\n")
	assert.Equal(t, []string{"a", "b", "c"}, m.Keywords)

	m = FromText("Title\nIndex Terms - alpha; beta\n")
	assert.Equal(t, []string{"alpha", "beta"}, m.Keywords)

	m = FromText("Title\nNo labels here\n")
	assert.Nil(t, m.Keywords)
}

func TestExtractAbstract(t *testing.T) {
	text := "Title\n\nAbstract: This is  the\nabstract text.\n\nMore body.\n"
	m := FromText(text)
	require.NotNil(t, m.Abstract)
	assert.Equal(t, "This is the abstract text.", *m.Abstract)

	// Stops at an Introduction heading even without a blank line.
	text = "Title\nAbstract\nSome findings here.\nIntroduction\nThe rest.\n"
	m = FromText(text)
	require.NotNil(t, m.Abstract)
	assert.Equal(t, "Some findings here.", *m.Abstract)

	m = FromText("Title\nNo such section.\n")
	assert.Nil(t, m.Abstract)
}

func TestYear(t *testing.T) {
	require.NotNil(t, Year("published in 1997, revised"))
	assert.Equal(t, 1997, *Year("published in 1997, revised"))
	assert.Equal(t, 2024, *Year("copyright 2024"))
	assert.Nil(t, Year("no year here"))
	assert.Nil(t, Year("year 1856 is out of range"))
	// Embedded digits do not count as a year token.
	assert.Nil(t, Year("id 320190 matches nothing"))
}

func TestNormalizeWhitespace(t *testing.T) {
	require.NotNil(t, NormalizeWhitespace("  a \t b\n c  "))
	assert.Equal(t, "a b c", *NormalizeWhitespace("  a \t b\n c  "))
	assert.Nil(t, NormalizeWhitespace("   \n\t "))
	assert.Nil(t, NormalizeWhitespace(""))
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := Snippet(long)
	require.NotNil(t, got)
	assert.Len(t, *got, SnippetLength)

	short := Snippet("  short text  ")
	require.NotNil(t, short)
	assert.Equal(t, "short text", *short)

	assert.Nil(t, Snippet(""))
	assert.Nil(t, Snippet("   "))
}

func TestFirstNonEmpty(t *testing.T) {
	val := func(s string) func() *string {
		return func() *string { return &s }
	}
	missing := func() *string { return nil }

	got := FirstNonEmpty(missing, val(""), val("hit"), val("later"))
	require.NotNil(t, got)
	assert.Equal(t, "hit", *got)

	assert.Nil(t, FirstNonEmpty(missing, val("")))
	assert.Nil(t, FirstNonEmpty())
}
