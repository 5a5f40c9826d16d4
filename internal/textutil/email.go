package textutil

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	emailExactRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Reserved and placeholder domains that never identify a real contact.
var invalidEmailDomains = map[string]bool{
	"example.com": true,
	"test.com":    true,
	"domain.com":  true,
	"localhost":   true,
	"example.org": true,
	"test.org":    true,
}

// Throwaway mail providers.
var disposableEmailDomains = map[string]bool{
	"tempmail.com":  true,
	"throwaway.com": true,
}

// ExtractEmails scans text for email addresses, drops addresses on
// reserved or disposable domains, and returns the survivors deduplicated
// and sorted.
func ExtractEmails(text string) []string {
	if text == "" {
		return nil
	}

	seen := map[string]bool{}
	for _, m := range emailRe.FindAllString(strings.ToLower(text), -1) {
		m = strings.TrimSpace(m)
		if ValidateEmail(m) {
			seen[m] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	emails := make([]string, 0, len(seen))
	for e := range seen {
		emails = append(emails, e)
	}
	sort.Strings(emails)
	return emails
}

// ValidateEmail checks structural validity and rejects reserved or
// disposable domains.
func ValidateEmail(email string) bool {
	if email == "" || !strings.Contains(email, "@") {
		return false
	}
	if !emailExactRe.MatchString(email) {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	if invalidEmailDomains[domain] || disposableEmailDomains[domain] {
		return false
	}
	return true
}
