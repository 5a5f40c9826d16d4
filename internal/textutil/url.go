package textutil

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Domain labels that mark reserved or bogus registrations.
var suspiciousDomains = map[string]bool{
	"example":   true,
	"test":      true,
	"localhost": true,
}

// Query parameter fragments identifying tracking parameters. A parameter
// is dropped when its lower-cased key contains any of these.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "ref", "source", "medium",
}

// ValidateURL reports whether s is an http(s) URL with a real registrable
// domain. Bare hostnames (no public suffix) and reserved second-level
// domains (example, test, localhost) are rejected.
func ValidateURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	sld, _, ok := strings.Cut(etld1, ".")
	if !ok || suspiciousDomains[sld] {
		return false
	}
	return true
}

// ExtractDomain returns the registrable domain of a URL plus any subdomain
// other than "www", lower-cased. It returns ("", false) on unparseable
// input or hosts without a public suffix.
func ExtractDomain(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", false
	}

	sub := strings.TrimSuffix(host, etld1)
	sub = strings.TrimSuffix(sub, ".")
	if sub != "" && sub != "www" {
		return sub + "." + etld1, true
	}
	return etld1, true
}

// StripTrackingParams removes tracking query parameters from a URL while
// preserving the order of the remaining parameters. The input is returned
// unchanged when it cannot be parsed.
func StripTrackingParams(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.RawQuery == "" {
		return s
	}

	var kept []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		key, _, _ := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(key)
		if err != nil {
			decoded = key
		}
		if pair != "" && !isTrackingKey(decoded) {
			kept = append(kept, pair)
		}
	}

	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}

func isTrackingKey(key string) bool {
	key = strings.ToLower(key)
	for _, t := range trackingParams {
		if strings.Contains(key, t) {
			return true
		}
	}
	return false
}
