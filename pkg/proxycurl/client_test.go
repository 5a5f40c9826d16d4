package proxycurl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

func TestCompany(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   string
		wantNil   bool
		transient bool
		wantName  string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"url": "https://www.linkedin.com/company/acme/",
				"name": "Acme Corp",
				"industry": "Software Development",
				"founded_year": 1998,
				"company_size_on_linkedin": 240,
				"hq": {"city": "Austin", "state": "TX", "country": "US"}
			}`,
			wantName: "Acme Corp",
		},
		{
			name:    "not_found",
			status:  http.StatusNotFound,
			body:    `{"detail": "not found"}`,
			wantNil: true,
		},
		{
			name:      "rate_limit_is_transient",
			status:    http.StatusTooManyRequests,
			body:      `{"detail": "rate limited"}`,
			wantErr:   "status 429",
			transient: true,
		},
		{
			name:      "server_error_is_transient",
			status:    http.StatusBadGateway,
			body:      `bad gateway`,
			wantErr:   "status 502",
			transient: true,
		},
		{
			name:    "bad_request",
			status:  http.StatusBadRequest,
			body:    `{"detail": "invalid domain"}`,
			wantErr: "unexpected status 400",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/linkedin/company/resolve", r.URL.Path)
				assert.Equal(t, "acme.io", r.URL.Query().Get("company_domain"))
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))

			profile, err := c.Company(context.Background(), "acme.io")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.transient, resilience.IsTransient(err))
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, profile)
				return
			}
			require.NotNil(t, profile)
			assert.Equal(t, tt.wantName, profile.Name)
			assert.Equal(t, 1998, profile.FoundedYear)
			assert.Equal(t, 240, profile.EmployeeCount)
			assert.Equal(t, "https://www.linkedin.com/company/acme/", profile.LinkedinURL)
			assert.Equal(t, "Austin, TX, US", profile.HQ.Location())
		})
	}
}

func TestCompanyEmptyDomain(t *testing.T) {
	c := NewClient("test-key")
	_, err := c.Company(context.Background(), "")
	assert.Error(t, err)
}

func TestHQLocation(t *testing.T) {
	assert.Equal(t, "", (*HQ)(nil).Location())
	assert.Equal(t, "Austin", (&HQ{City: "Austin"}).Location())
	assert.Equal(t, "Austin, US", (&HQ{City: "Austin", Country: "US"}).Location())
}
