package model

import "strings"

// revenueFloors maps the revenue filter vocabulary to dollar floors.
var revenueFloors = map[string]int64{
	"0":    0,
	"1M":   1_000_000,
	"5M":   5_000_000,
	"10M":  10_000_000,
	"50M":  50_000_000,
	"100M": 100_000_000,
	"500M": 500_000_000,
	"1B+":  1_000_000_000,
}

// FilterSpec is a post-hoc predicate set applied over scraped leads.
// Zero values pass; non-zero criteria are AND-composed.
type FilterSpec struct {
	MinEmployees  int      `json:"min_employees,omitempty"`
	Industries    []string `json:"industries,omitempty"`
	Location      string   `json:"location,omitempty"` // comma-separated substring terms
	Technologies  []string `json:"technologies,omitempty"`
	MinRevenue    string   `json:"min_revenue,omitempty"` // "1M".."1B+"
	FoundedAfter  int      `json:"founded_after,omitempty"`
	RequireEmail  bool     `json:"require_email,omitempty"`
	RequireSocial bool     `json:"require_social,omitempty"`
}

// IsZero reports whether no criteria are set.
func (f FilterSpec) IsZero() bool {
	return f.MinEmployees == 0 && len(f.Industries) == 0 && f.Location == "" &&
		len(f.Technologies) == 0 && (f.MinRevenue == "" || f.MinRevenue == "0") &&
		f.FoundedAfter == 0 && !f.RequireEmail && !f.RequireSocial
}

// Match reports whether the lead satisfies every set criterion.
func (f FilterSpec) Match(l *Lead) bool {
	if f.MinEmployees > 0 {
		if l.Employees == nil || *l.Employees < f.MinEmployees {
			return false
		}
	}
	if len(f.Industries) > 0 && !containsFold(f.Industries, l.Industry) {
		return false
	}
	if f.Location != "" && !matchLocation(f.Location, l.Location) {
		return false
	}
	if len(f.Technologies) > 0 && !intersects(f.Technologies, l.Technologies) {
		return false
	}
	if floor, ok := revenueFloors[f.MinRevenue]; ok && floor > 0 {
		if RevenueFloor(l.RevenueRange) < floor {
			return false
		}
	}
	if f.FoundedAfter > 0 {
		if l.FoundedYear == nil || *l.FoundedYear <= f.FoundedAfter {
			return false
		}
	}
	if f.RequireEmail && l.Email == "" {
		return false
	}
	if f.RequireSocial && !l.HasSocial() {
		return false
	}
	return true
}

// Apply returns the subset of leads matching the filter.
func (f FilterSpec) Apply(leads []Lead) []Lead {
	if f.IsZero() {
		return leads
	}
	var out []Lead
	for i := range leads {
		if f.Match(&leads[i]) {
			out = append(out, leads[i])
		}
	}
	return out
}

// RevenueFloor parses the lower bound of a revenue range string like
// "$1M-$5M" or "$500K" into dollars. Unparseable input yields 0.
func RevenueFloor(revRange string) int64 {
	s := strings.TrimSpace(revRange)
	if s == "" {
		return 0
	}
	if idx := strings.IndexAny(s, "-–"); idx > 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0
	}
	mult := int64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		mult, s = 1_000, s[:len(s)-1]
	case 'M', 'm':
		mult, s = 1_000_000, s[:len(s)-1]
	case 'B', 'b':
		mult, s = 1_000_000_000, s[:len(s)-1]
	}
	var whole, frac int64
	var fracDigits int
	inFrac := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if inFrac {
				frac = frac*10 + int64(r-'0')
				fracDigits++
			} else {
				whole = whole*10 + int64(r-'0')
			}
		case r == '.':
			inFrac = true
		case r == ',':
			// thousands separator
		default:
			return 0
		}
	}
	val := whole * mult
	if fracDigits > 0 {
		scale := int64(1)
		for i := 0; i < fracDigits; i++ {
			scale *= 10
		}
		val += frac * mult / scale
	}
	return val
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func intersects(want, have []string) bool {
	for _, w := range want {
		if containsFold(have, w) {
			return true
		}
	}
	return false
}

func matchLocation(terms, location string) bool {
	loc := strings.ToLower(location)
	for _, term := range strings.Split(terms, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(loc, term) {
			return true
		}
	}
	return false
}
