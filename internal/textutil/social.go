package textutil

import "regexp"

// socialPatterns locate profile links per platform in raw page source.
var socialPatterns = map[string]*regexp.Regexp{
	"linkedin":  regexp.MustCompile(`(?i)linkedin\.com/(?:company|in)/[^/"'\s?]+`),
	"twitter":   regexp.MustCompile(`(?i)twitter\.com/[^/"'\s?]+`),
	"facebook":  regexp.MustCompile(`(?i)facebook\.com/[^/"'\s?]+`),
	"instagram": regexp.MustCompile(`(?i)instagram\.com/[^/"'\s?]+`),
}

// ExtractSocialLinks scans text for social profile URLs. The first match
// per platform wins; matches are normalized to https, stripped of tracking
// parameters, and dropped when they fail URL validation.
func ExtractSocialLinks(text string) map[string]string {
	links := map[string]string{}
	for platform, re := range socialPatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		u := StripTrackingParams("https://" + m)
		if ValidateURL(u) {
			links[platform] = u
		}
	}
	return links
}
