package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/leadgen-cli/internal/textutil"
)

// Regex extractors scan the full page source with ordered pattern lists;
// the first match wins and numeric results are range-checked.
var (
	employeePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*employees`),
		regexp.MustCompile(`team of (\d+)\+?`),
		regexp.MustCompile(`(\d+)\+?\s*people`),
		regexp.MustCompile(`company size:\s*(\d+)`),
	}

	foundedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[Ff]ounded in (\d{4})`),
		regexp.MustCompile(`[Ee]stablished in (\d{4})`),
		regexp.MustCompile(`[Ss]ince (\d{4})`),
	}

	sizeRangeRe = regexp.MustCompile(`(\d+)-(\d+)\s+employees`)
	sizePlusRe  = regexp.MustCompile(`(\d+)\+\s+employees`)
	sizeLabelRe = regexp.MustCompile(`company size:\s*([^<>\n]+)`)

	revenueRangeRe  = regexp.MustCompile(`(?i)revenue[:\s]+\$(\d+(?:\.\d+)?[KMB]?)\s*-\s*\$(\d+(?:\.\d+)?[KMB]?)`)
	revenueSingleRe = regexp.MustCompile(`(?i)annual revenue[:\s]+\$(\d+(?:\.\d+)?[KMB]?)`)

	metaTechRe   = regexp.MustCompile(`(React|Angular|Vue|Python|Java|AWS|Azure|Docker)`)
	scriptTechRe = regexp.MustCompile(`(react|angular|vue|jquery|bootstrap)`)

	nonPhoneCharRe = regexp.MustCompile(`[^\d+]`)

	// Placeholder fragments that disqualify an extracted primary email.
	placeholderEmailFragments = []string{"example", "test", "placeholder"}
)

func extractName(p *Page) (string, bool) {
	return nameChain.First(p)
}

func extractLocation(p *Page) (string, bool) {
	return locationChain.First(p)
}

func extractIndustry(p *Page) (string, bool) {
	return industryChain.First(p)
}

func extractDescription(p *Page) (string, bool) {
	return descriptionChain.First(p)
}

func extractHeadquarters(p *Page) (string, bool) {
	return headquartersChain.First(p)
}

// extractEmail returns the first extracted address not containing a
// placeholder fragment. Addresses come back sorted from ExtractEmails, so
// the choice is deterministic.
func extractEmail(p *Page) (string, bool) {
	for _, e := range textutil.ExtractEmails(p.Source()) {
		if !containsAny(strings.ToLower(e), placeholderEmailFragments) {
			return e, true
		}
	}
	return "", false
}

// extractPhone returns the first phone-shaped match with at least ten
// significant characters, reduced to digits and a leading plus.
func extractPhone(p *Page) (string, bool) {
	for _, m := range textutil.PhoneRe.FindAllString(p.Source(), -1) {
		cleaned := nonPhoneCharRe.ReplaceAllString(m, "")
		if len(cleaned) >= 10 {
			return cleaned, true
		}
	}
	return "", false
}

func extractEmployees(p *Page) (int, bool) {
	src := strings.ToLower(p.Source())
	for _, re := range employeePatterns {
		m := re.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			continue
		}
		return n, true
	}
	return 0, false
}

func extractFoundedYear(p *Page) (int, bool) {
	maxYear := time.Now().Year()
	for _, re := range foundedPatterns {
		m := re.FindStringSubmatch(p.Source())
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil || year < 1800 || year > maxYear {
			continue
		}
		return year, true
	}
	return 0, false
}

// extractCompanySize reports a size range string. The patterns can
// disagree with extractEmployees on the same page; both run
// independently, first match wins, and no reconciliation is attempted.
func extractCompanySize(p *Page) (string, bool) {
	src := strings.ToLower(p.Source())
	if m := sizeRangeRe.FindStringSubmatch(src); m != nil {
		return m[1] + "-" + m[2], true
	}
	if m := sizePlusRe.FindStringSubmatch(src); m != nil {
		return m[1] + "+", true
	}
	if m := sizeLabelRe.FindStringSubmatch(src); m != nil {
		if v := textutil.Normalize(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}

func extractRevenueRange(p *Page) (string, bool) {
	if m := revenueRangeRe.FindStringSubmatch(p.Source()); m != nil {
		return "$" + m[1] + "-$" + m[2], true
	}
	if m := revenueSingleRe.FindStringSubmatch(p.Source()); m != nil {
		return "$" + m[1], true
	}
	return "", false
}

// extractTechnologies accumulates (rather than first-match) from two
// signal sources: meta tag content matched against the technology
// vocabulary, and script src paths matched lower-cased.
func extractTechnologies(p *Page) []string {
	seen := map[string]bool{}

	p.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		for _, m := range metaTechRe.FindAllString(content, -1) {
			seen[m] = true
		}
	})

	p.Find("script").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		for _, m := range scriptTechRe.FindAllString(strings.ToLower(src), -1) {
			seen[capitalize(m)] = true
		}
	})

	return sortedKeys(seen)
}

// extractKeywords accumulates from the keywords meta tag plus the text of
// all h1/h2/h3 elements, normalized token-wise and filtered to length > 2.
func extractKeywords(p *Page) []string {
	seen := map[string]bool{}

	if content, ok := p.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		for _, kw := range strings.Split(content, ",") {
			if v := textutil.Normalize(kw); len(v) > 2 {
				seen[v] = true
			}
		}
	}

	p.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		for _, word := range strings.Fields(s.Text()) {
			if v := textutil.Normalize(word); len(v) > 2 {
				seen[v] = true
			}
		}
	})

	return sortedKeys(seen)
}

// extractMetaData collects every meta tag with a name or property and a
// content value.
func extractMetaData(p *Page) map[string]string {
	meta := map[string]string{}
	p.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			name, ok = s.Attr("property")
		}
		content, hasContent := s.Attr("content")
		if ok && name != "" && hasContent && content != "" {
			meta[name] = content
		}
	})
	return meta
}

func extractSocialLinks(p *Page) map[string]string {
	return textutil.ExtractSocialLinks(p.Source())
}

// extractContactInfo aggregates every contact signal on the page: the
// full email set, all valid formatted phone numbers, and the address.
func extractContactInfo(p *Page) map[string]any {
	info := map[string]any{}

	if emails := textutil.ExtractEmails(p.Source()); len(emails) > 0 {
		info["emails"] = emails
	}

	seen := map[string]bool{}
	var phones []string
	for _, m := range textutil.PhoneRe.FindAllString(p.Source(), -1) {
		formatted, ok := textutil.FormatPhone(m)
		if ok && !seen[formatted] {
			seen[formatted] = true
			phones = append(phones, formatted)
		}
	}
	if len(phones) > 0 {
		info["phones"] = phones
	}

	if addr, ok := extractLocation(p); ok {
		info["address"] = addr
	}
	return info
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
