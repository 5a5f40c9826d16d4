package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace collapse", "  Test   String  ", "Test String"},
		{"html stripped", "<p>Hello <b>world</b></p>", "Hello world"},
		{"url-like value passes through", " https://acme.io/about?x=1 ", "https://acme.io/about?x=1"},
		{"special chars removed", "Acme! #1 @home", "Acme 1 @home"},
		{"punctuation runs collapsed", "wait... what,,, no---way", "wait. what, no-way"},
		{"edge punctuation trimmed", ",,Acme Corp.-  ", "Acme Corp"},
		{"only markup", "<div></div>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  Test   String  ",
		"<p>Hello <b>world</b></p>",
		"wait... what,,, no---way",
		"a ! b",
		"Acme, Inc. -- since 1998",
		"https://acme.io/path",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeCompanyName(t *testing.T) {
	assert.Equal(t, "Acme", NormalizeCompanyName("Acme Inc."))
	assert.Equal(t, "Acme", NormalizeCompanyName("ACME Technologies LLC"))
	assert.Equal(t, "Blue Bird", NormalizeCompanyName("blue bird holdings"))
	assert.Equal(t, "", NormalizeCompanyName(""))
}

func TestExtractKeywords(t *testing.T) {
	text := "cloud software for cloud teams and the cloud native enterprise software"

	got := ExtractKeywords(text, 3, 3)

	// "cloud" (3) then "software" (2) then first alphabetical singleton.
	assert.Equal(t, []string{"cloud", "software", "enterprise"}, got)
}

func TestExtractKeywords_FiltersStopwordsAndNumbers(t *testing.T) {
	got := ExtractKeywords("the 2024 report about analytics", 3, 10)
	assert.Equal(t, []string{"analytics", "report"}, got)
}
