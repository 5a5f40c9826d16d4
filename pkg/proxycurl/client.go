// Package proxycurl wraps the Proxycurl company enrichment API.
package proxycurl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const defaultBaseURL = "https://nubela.co/proxycurl/api"

// Client defines the Proxycurl operations used for lead enrichment.
type Client interface {
	// Company resolves a company domain to its enriched profile. It
	// returns (nil, nil) when Proxycurl has no record for the domain.
	Company(ctx context.Context, domain string) (*CompanyProfile, error)
}

// CompanyProfile is the subset of the company endpoint response the
// enrichment step consumes.
type CompanyProfile struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Industry        string   `json:"industry"`
	WebsiteURL      string   `json:"website"`
	LinkedinURL     string   `json:"linkedin_url"`
	FoundedYear     int      `json:"founded_year"`
	CompanySize     []int    `json:"company_size"`
	EmployeeCount   int      `json:"company_size_on_linkedin"`
	Specialities    []string `json:"specialities"`
	FollowerCount   int      `json:"follower_count"`
	HQ              *HQ      `json:"hq"`
	ProfilePicURL   string   `json:"profile_pic_url"`
	BackgroundCover string   `json:"background_cover_image_url"`
}

// HQ is a company headquarters location.
type HQ struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Location renders the headquarters as "City, State, Country", skipping
// empty parts.
func (h *HQ) Location() string {
	if h == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{h.City, h.State, h.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request pacing (60 req/min).
func WithRateLimit(perMinute int) Option {
	return func(c *httpClient) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Proxycurl API client throttled to 60 req/min by default.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Company(ctx context.Context, domain string) (*CompanyProfile, error) {
	if domain == "" {
		return nil, eris.New("proxycurl: empty domain")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "proxycurl: rate limit")
		}
	}

	q := url.Values{}
	q.Set("company_domain", domain)
	q.Set("enrich_profile", "enrich")
	endpoint := c.baseURL + "/linkedin/company/resolve?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "proxycurl: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "proxycurl: lookup %s", domain)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "proxycurl: read response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, resilience.NewTransientError(
			eris.Errorf("proxycurl: status %d: %s", resp.StatusCode, string(body)),
			resp.StatusCode,
		)
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("proxycurl: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var wrapper struct {
		URL string `json:"url"`
		CompanyProfile
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, eris.Wrap(err, "proxycurl: unmarshal response")
	}

	profile := wrapper.CompanyProfile
	if profile.LinkedinURL == "" {
		profile.LinkedinURL = wrapper.URL
	}
	return &profile, nil
}
