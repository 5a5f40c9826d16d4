package textutil

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneRe matches candidate phone numbers in free text (US-centric with
// optional country code).
var PhoneRe = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// FormatPhone parses raw as a phone number (default region US when no
// country code is present) and returns it in international display format,
// e.g. "+1 650-253-0000". Invalid or unparseable input returns ("", false);
// it never panics.
func FormatPhone(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	num, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), true
}

// PhoneDigits strips everything but digits from a phone string.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhoneDigitCount reports whether the digit-only form of a phone
// number has a plausible length (10-15 digits).
func ValidPhoneDigitCount(s string) bool {
	n := len(PhoneDigits(s))
	return n >= 10 && n <= 15
}
