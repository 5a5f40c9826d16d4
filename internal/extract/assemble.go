package extract

import (
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Assemble runs every field extractor against the page and returns the
// cleaned record map. Fields whose extractors found nothing are absent,
// never present as nil; the assembler performs no validation or retry.
func Assemble(p *Page) map[string]any {
	raw := map[string]any{
		"website": p.URL(),
	}

	if v, ok := extractName(p); ok {
		raw["name"] = v
	}
	if v, ok := extractEmail(p); ok {
		raw["email"] = v
	}
	if v, ok := extractPhone(p); ok {
		raw["phone"] = v
	}
	if v, ok := extractEmployees(p); ok {
		raw["employees"] = v
	}
	if v, ok := extractLocation(p); ok {
		raw["location"] = v
	}
	if v, ok := extractIndustry(p); ok {
		raw["industry"] = v
	}
	if v := extractSocialLinks(p); len(v) > 0 {
		raw["social_links"] = v
	}
	if v := extractTechnologies(p); len(v) > 0 {
		raw["technologies"] = v
	}
	if v := extractMetaData(p); len(v) > 0 {
		raw["meta_data"] = v
	}
	if v := extractContactInfo(p); len(v) > 0 {
		raw["contact_info"] = v
	}
	if v, ok := extractDescription(p); ok {
		raw["description"] = v
	}
	if v, ok := extractFoundedYear(p); ok {
		raw["founded_year"] = v
	}
	if v, ok := extractCompanySize(p); ok {
		raw["company_size"] = v
	}
	if v, ok := extractRevenueRange(p); ok {
		raw["revenue_range"] = v
	}
	if v, ok := extractHeadquarters(p); ok {
		raw["headquarters"] = v
	}
	if v := extractKeywords(p); len(v) > 0 {
		raw["keywords"] = v
	}

	return CleanRecord(raw)
}

// ToLead converts a cleaned record map into the typed lead struct.
func ToLead(record map[string]any, scrapedAt time.Time) model.Lead {
	lead := model.Lead{
		ScrapedAt: scrapedAt,
	}

	lead.Website, _ = record["website"].(string)
	lead.Name, _ = record["name"].(string)
	lead.Email, _ = record["email"].(string)
	lead.Phone, _ = record["phone"].(string)
	lead.Location, _ = record["location"].(string)
	lead.Industry, _ = record["industry"].(string)
	lead.Description, _ = record["description"].(string)
	lead.CompanySize, _ = record["company_size"].(string)
	lead.RevenueRange, _ = record["revenue_range"].(string)
	lead.Headquarters, _ = record["headquarters"].(string)

	if n, ok := record["employees"].(int); ok {
		lead.Employees = &n
	}
	if y, ok := record["founded_year"].(int); ok {
		lead.FoundedYear = &y
	}
	if m, ok := record["social_links"].(map[string]string); ok {
		lead.SocialLinks = m
	}
	if m, ok := record["meta_data"].(map[string]string); ok {
		lead.MetaData = m
	}
	if s, ok := record["technologies"].([]string); ok {
		lead.Technologies = s
	}
	if s, ok := record["keywords"].([]string); ok {
		lead.Keywords = s
	}
	if ci, ok := record["contact_info"].(map[string]any); ok {
		info := &model.ContactInfo{}
		info.Emails, _ = ci["emails"].([]string)
		info.Phones, _ = ci["phones"].([]string)
		info.Address, _ = ci["address"].(string)
		if len(info.Emails) > 0 || len(info.Phones) > 0 || info.Address != "" {
			lead.ContactInfo = info
		}
	}

	return lead
}

// AssembleLead is the full page-to-lead transform: extract, clean, type.
func AssembleLead(p *Page, scrapedAt time.Time) model.Lead {
	return ToLead(Assemble(p), scrapedAt)
}
