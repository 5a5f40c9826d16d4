// Package textutil provides the text, contact, and URL normalization
// primitives shared by the extractors and the validation layer.
package textutil

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	urlLikeRe = regexp.MustCompile(`^https?://\S`)

	dotRunRe    = regexp.MustCompile(`\.{2,}`)
	commaRunRe  = regexp.MustCompile(`,{2,}`)
	hyphenRunRe = regexp.MustCompile(`-{2,}`)

	// Business suffixes stripped by NormalizeCompanyName.
	companySuffixRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(Inc|LLC|Ltd|Corp|Corporation|Limited|Company|GmbH|SA|BV|NV|AG)\.?`),
		regexp.MustCompile(`(?i)\b(Group|Holdings|Ventures|Solutions|Technologies|Tech|Software)\.?`),
		regexp.MustCompile(`(?i)\b(International|Global|Worldwide|Industries|Systems)\.?`),
	}

	titleCaser = cases.Title(language.English)
)

// Normalize cleans a scraped text value: strips HTML markup, collapses
// whitespace, removes characters outside the word/@.,- set, collapses
// repeated punctuation, and trims leading/trailing punctuation. Values
// that look like bare URLs are returned trimmed but otherwise untouched,
// since the character filter would destroy them. Normalize is total and
// idempotent; empty or empty-after-cleaning input yields "".
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if urlLikeRe.MatchString(s) {
		return s
	}

	if strings.Contains(s, "<") {
		s = stripMarkup(s)
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return r
		case r == '_' || r == '@' || r == '.' || r == ',' || r == '-':
			return r
		}
		return -1
	}, s)

	s = strings.Join(strings.Fields(s), " ")

	s = dotRunRe.ReplaceAllString(s, ".")
	s = commaRunRe.ReplaceAllString(s, ",")
	s = hyphenRunRe.ReplaceAllString(s, "-")

	return strings.Trim(s, ".,- ")
}

// NormalizeCompanyName strips common business suffixes, normalizes, and
// title-cases a company name.
func NormalizeCompanyName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.TrimSpace(name)
	for _, re := range companySuffixRes {
		name = re.ReplaceAllString(name, "")
	}
	name = Normalize(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(titleCaser.String(strings.ToLower(name)))
}

// stopwords excluded from keyword extraction.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "over": true, "after": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
}

// ExtractKeywords tokenizes text and returns up to max keywords ranked by
// frequency, excluding stopwords, numerics, and tokens shorter than minLen.
// Ties break alphabetically so the result is deterministic.
func ExtractKeywords(text string, minLen, max int) []string {
	if text == "" {
		return nil
	}

	freq := map[string]int{}
	for _, w := range strings.Fields(Normalize(strings.ToLower(text))) {
		if len(w) < minLen || stopwords[w] || isNumeric(w) {
			continue
		}
		freq[w]++
	}
	if len(freq) == 0 {
		return nil
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if max > 0 && len(words) > max {
		words = words[:max]
	}
	return words
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// stripMarkup drops tags from an HTML fragment, keeping text content.
func stripMarkup(s string) string {
	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
}
