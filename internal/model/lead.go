// Package model defines the lead record produced by the scrape pipeline.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Lead is the structured record extracted from a single company website.
// Website is the natural key; everything else is optional and present only
// when a page signal produced a non-empty value after cleaning.
type Lead struct {
	Website      string            `json:"website"`
	Name         string            `json:"name,omitempty"`
	Email        string            `json:"email,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	Employees    *int              `json:"employees,omitempty"`
	Location     string            `json:"location,omitempty"`
	Industry     string            `json:"industry,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty"`
	Technologies []string          `json:"technologies,omitempty"`
	MetaData     map[string]string `json:"meta_data,omitempty"`
	ContactInfo  *ContactInfo      `json:"contact_info,omitempty"`
	Description  string            `json:"description,omitempty"`
	FoundedYear  *int              `json:"founded_year,omitempty"`
	CompanySize  string            `json:"company_size,omitempty"`
	RevenueRange string            `json:"revenue_range,omitempty"`
	Headquarters string            `json:"headquarters,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	LeadScore    int               `json:"lead_score,omitempty"`
	ScrapedAt    time.Time         `json:"scraped_at"`
}

// ContactInfo aggregates every contact signal found on the page, not just
// the primary email/phone promoted to the top-level fields.
type ContactInfo struct {
	Emails  []string `json:"emails,omitempty"`
	Phones  []string `json:"phones,omitempty"`
	Address string   `json:"address,omitempty"`
}

// HasSocial reports whether at least one social profile link was found.
func (l *Lead) HasSocial() bool {
	return len(l.SocialLinks) > 0
}

// Flatten converts a lead into a flat string map for tabular export.
// Nested keys are joined with "_" and list values with ", ", so
// contact_info.emails becomes the "contact_info_emails" column.
func (l *Lead) Flatten() map[string]string {
	out := map[string]string{
		"website": l.Website,
	}
	putStr := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	putStr("name", l.Name)
	putStr("email", l.Email)
	putStr("phone", l.Phone)
	putStr("location", l.Location)
	putStr("industry", l.Industry)
	putStr("description", l.Description)
	putStr("company_size", l.CompanySize)
	putStr("revenue_range", l.RevenueRange)
	putStr("headquarters", l.Headquarters)

	if l.Employees != nil {
		out["employees"] = fmt.Sprintf("%d", *l.Employees)
	}
	if l.FoundedYear != nil {
		out["founded_year"] = fmt.Sprintf("%d", *l.FoundedYear)
	}
	if l.LeadScore > 0 {
		out["lead_score"] = fmt.Sprintf("%d", l.LeadScore)
	}
	if !l.ScrapedAt.IsZero() {
		out["scraped_at"] = l.ScrapedAt.UTC().Format(time.RFC3339)
	}
	if len(l.Technologies) > 0 {
		out["technologies"] = strings.Join(l.Technologies, ", ")
	}
	if len(l.Keywords) > 0 {
		out["keywords"] = strings.Join(l.Keywords, ", ")
	}
	for platform, link := range l.SocialLinks {
		out["social_links_"+platform] = link
	}
	for name, content := range l.MetaData {
		out["meta_data_"+flatKey(name)] = content
	}
	if ci := l.ContactInfo; ci != nil {
		if len(ci.Emails) > 0 {
			out["contact_info_emails"] = strings.Join(ci.Emails, ", ")
		}
		if len(ci.Phones) > 0 {
			out["contact_info_phones"] = strings.Join(ci.Phones, ", ")
		}
		putStr("contact_info_address", ci.Address)
	}
	return out
}

// FlatColumns returns the sorted union of flattened keys across leads,
// which is the CSV/XLSX header row.
func FlatColumns(leads []Lead) []string {
	seen := map[string]bool{}
	for i := range leads {
		for k := range leads[i].Flatten() {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// flatKey makes a metadata name safe as a column key.
func flatKey(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '.', ' ', '/':
			return '_'
		}
		return r
	}, name)
}
