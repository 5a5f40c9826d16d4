package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/proxycurl"
)

type fakeClient struct {
	profile *proxycurl.CompanyProfile
	err     error
	domains []string
}

func (f *fakeClient) Company(_ context.Context, domain string) (*proxycurl.CompanyProfile, error) {
	f.domains = append(f.domains, domain)
	return f.profile, f.err
}

func fullProfile() *proxycurl.CompanyProfile {
	return &proxycurl.CompanyProfile{
		Name:          "Acme Corp",
		Industry:      "Software Development",
		Description:   "Cloud tooling.",
		FoundedYear:   1998,
		EmployeeCount: 240,
		LinkedinURL:   "https://www.linkedin.com/company/acme/",
		Specialities:  []string{"cloud", "automation"},
		HQ:            &proxycurl.HQ{City: "Austin", State: "TX"},
	}
}

func TestApplyFillsOnlyMissingFields(t *testing.T) {
	emp := 100
	lead := model.Lead{
		Website:   "https://acme.io",
		Name:      "Acme (scraped)",
		Employees: &emp,
	}

	Apply(&lead, fullProfile())

	// Scraped values survive.
	assert.Equal(t, "Acme (scraped)", lead.Name)
	assert.Equal(t, 100, *lead.Employees)

	// Gaps are filled.
	assert.Equal(t, "Software Development", lead.Industry)
	assert.Equal(t, "Cloud tooling.", lead.Description)
	require.NotNil(t, lead.FoundedYear)
	assert.Equal(t, 1998, *lead.FoundedYear)
	assert.Equal(t, "Austin, TX", lead.Headquarters)
	assert.Equal(t, "https://www.linkedin.com/company/acme/", lead.SocialLinks["linkedin"])
	assert.Equal(t, []string{"cloud", "automation"}, lead.Keywords)
}

func TestApplyKeepsExistingLinkedin(t *testing.T) {
	lead := model.Lead{
		SocialLinks: map[string]string{"linkedin": "https://linkedin.com/company/acme-scraped"},
	}

	Apply(&lead, fullProfile())

	assert.Equal(t, "https://linkedin.com/company/acme-scraped", lead.SocialLinks["linkedin"])
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		lead model.Lead
		want int
	}{
		{"empty", model.Lead{}, 0},
		{"name only", model.Lead{Name: "Acme"}, 20},
		{"valid email", model.Lead{Email: "contact@acme.io"}, 30},
		{"invalid email ignored", model.Lead{Email: "not-an-email"}, 0},
		{"blocked domain ignored", model.Lead{Email: "x@example.com"}, 0},
		{"website", model.Lead{Website: "https://acme.io"}, 25},
		{"invalid website ignored", model.Lead{Website: "https://localhost"}, 0},
		{"linkedin", model.Lead{SocialLinks: map[string]string{"linkedin": "https://linkedin.com/company/acme"}}, 25},
		{
			"everything",
			model.Lead{
				Name:        "Acme",
				Email:       "contact@acme.io",
				Website:     "https://acme.io",
				SocialLinks: map[string]string{"linkedin": "https://linkedin.com/company/acme"},
			},
			100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.lead))
		})
	}
}

func TestEnrichMergesAndScores(t *testing.T) {
	client := &fakeClient{profile: fullProfile()}
	e := New(client)

	lead := model.Lead{Website: "https://acme.io", Email: "contact@acme.io"}
	require.NoError(t, e.Enrich(context.Background(), &lead))

	assert.Equal(t, []string{"acme.io"}, client.domains)
	assert.Equal(t, "Acme Corp", lead.Name)
	// email 30 + name 20 + linkedin 25 + website 25
	assert.Equal(t, 100, lead.LeadScore)
}

func TestEnrichMissingProfileStillScores(t *testing.T) {
	e := New(&fakeClient{})

	lead := model.Lead{Website: "https://acme.io", Name: "Acme"}
	require.NoError(t, e.Enrich(context.Background(), &lead))

	assert.Equal(t, 45, lead.LeadScore)
}

func TestEnrichNilClientOnlyScores(t *testing.T) {
	e := New(nil)

	lead := model.Lead{Website: "https://acme.io", Name: "Acme"}
	require.NoError(t, e.Enrich(context.Background(), &lead))

	assert.Equal(t, 45, lead.LeadScore)
}

func TestEnrichPropagatesLookupError(t *testing.T) {
	e := New(&fakeClient{err: errors.New("upstream down")})

	lead := model.Lead{Website: "https://acme.io"}
	err := e.Enrich(context.Background(), &lead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrich: lookup acme.io")
}
