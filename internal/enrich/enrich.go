// Package enrich fills gaps in scraped leads from Proxycurl company
// profiles and computes the lead score.
package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/textutil"
	"github.com/sells-group/leadgen-cli/pkg/proxycurl"
)

// Score weights. A lead holding all four signals scores the full 100.
const (
	scoreEmail    = 30
	scoreName     = 20
	scoreLinkedin = 25
	scoreWebsite  = 25
)

// Enricher looks up company profiles and merges them into leads.
type Enricher struct {
	client proxycurl.Client
}

// New creates an Enricher. A nil client disables profile lookups; Enrich
// then only recomputes the score.
func New(client proxycurl.Client) *Enricher {
	return &Enricher{client: client}
}

// Enrich merges the company profile for the lead's domain into the lead
// and refreshes its score. A missing profile is not an error.
func (e *Enricher) Enrich(ctx context.Context, lead *model.Lead) error {
	if e.client != nil {
		domain, ok := textutil.ExtractDomain(lead.Website)
		if !ok {
			return eris.Errorf("enrich: no domain in website %q", lead.Website)
		}

		profile, err := e.client.Company(ctx, domain)
		if err != nil {
			return eris.Wrapf(err, "enrich: lookup %s", domain)
		}
		if profile == nil {
			zap.L().Debug("no company profile", zap.String("domain", domain))
		} else {
			Apply(lead, profile)
		}
	}

	lead.LeadScore = Score(*lead)
	return nil
}

// Apply merges profile data into the lead. Scraped values always win;
// the profile only fills fields the page did not yield.
func Apply(lead *model.Lead, p *proxycurl.CompanyProfile) {
	if lead.Name == "" {
		lead.Name = p.Name
	}
	if lead.Industry == "" {
		lead.Industry = p.Industry
	}
	if lead.Description == "" {
		lead.Description = p.Description
	}
	if lead.FoundedYear == nil && p.FoundedYear > 0 {
		year := p.FoundedYear
		lead.FoundedYear = &year
	}
	if lead.Employees == nil && p.EmployeeCount > 0 {
		count := p.EmployeeCount
		lead.Employees = &count
	}
	if lead.Headquarters == "" {
		lead.Headquarters = p.HQ.Location()
	}
	if p.LinkedinURL != "" {
		if lead.SocialLinks == nil {
			lead.SocialLinks = map[string]string{}
		}
		if lead.SocialLinks["linkedin"] == "" {
			lead.SocialLinks["linkedin"] = p.LinkedinURL
		}
	}
	if len(lead.Keywords) == 0 && len(p.Specialities) > 0 {
		lead.Keywords = append([]string(nil), p.Specialities...)
	}
}

// Score rates lead quality from its contactability signals.
func Score(lead model.Lead) int {
	score := 0
	if textutil.ValidateEmail(lead.Email) {
		score += scoreEmail
	}
	if lead.Name != "" {
		score += scoreName
	}
	if lead.SocialLinks["linkedin"] != "" {
		score += scoreLinkedin
	}
	if textutil.ValidateURL(lead.Website) {
		score += scoreWebsite
	}
	if score > 100 {
		score = 100
	}
	return score
}
