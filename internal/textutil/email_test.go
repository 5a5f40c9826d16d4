package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	got := ExtractEmails("Contact us at sales@acme.io or Support@Acme.io today")

	assert.Equal(t, []string{"sales@acme.io", "support@acme.io"}, got)
}

func TestExtractEmails_BlocklistedDomains(t *testing.T) {
	assert.Nil(t, ExtractEmails("test@example.com admin@example.org root@test.org"))
}

func TestExtractEmails_Dedup(t *testing.T) {
	got := ExtractEmails("a@acme.io a@acme.io A@ACME.IO")
	assert.Equal(t, []string{"a@acme.io"}, got)
}

func TestExtractEmails_Empty(t *testing.T) {
	assert.Nil(t, ExtractEmails(""))
	assert.Nil(t, ExtractEmails("no emails here"))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"sales@acme.io", true},
		{"first.last+tag@sub.acme.co.uk", true},
		{"test@example.com", false},
		{"x@tempmail.com", false},
		{"not-an-email", false},
		{"", false},
		{"a b@acme.io", false},
		{"@acme.io", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateEmail(tt.email), tt.email)
	}
}
