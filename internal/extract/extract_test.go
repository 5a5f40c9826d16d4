package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Corp - Home</title>
	<meta property="og:site_name" content="Acme Corp">
	<meta name="description" content="Acme builds cloud tooling.">
	<meta name="keywords" content="cloud, developer tools, automation">
	<meta name="generator" content="Built with React and Docker">
	<script src="/static/js/jquery.min.js"></script>
	<script src="https://cdn.acme.io/bootstrap.bundle.js"></script>
</head>
<body>
	<h1>Acme Corp</h1>
	<h2>Developer Platform</h2>
	<p>Founded in 1998, Acme has a team of 250 people.</p>
	<p>Call us: (650) 253-0000 or write to <a href="mailto:contact@acme.io">contact@acme.io</a>.</p>
	<p>Follow us on <a href="https://linkedin.com/company/acme">LinkedIn</a>.</p>
	<div class="address">Austin, TX</div>
	<p>Annual revenue: $5M and growing, 200-250 employees worldwide.</p>
</body>
</html>`

func fixture(t *testing.T) *Page {
	t.Helper()
	p, err := NewPage("https://acme.io", fixturePage)
	require.NoError(t, err)
	return p
}

func TestAssembleLead_Fixture(t *testing.T) {
	lead := AssembleLead(fixture(t), time.Now())

	assert.Equal(t, "https://acme.io", lead.Website)
	assert.Equal(t, "Acme Corp", lead.Name)
	assert.Equal(t, "contact@acme.io", lead.Email)
	require.NotNil(t, lead.FoundedYear)
	assert.Equal(t, 1998, *lead.FoundedYear)

	// Fields with no matching signal are absent, not zero-valued stand-ins.
	assert.Empty(t, lead.Industry)
	assert.Empty(t, lead.Headquarters)
}

func TestAssemble_NoNilValues(t *testing.T) {
	record := Assemble(fixture(t))

	for k, v := range record {
		assert.NotNil(t, v, k)
	}
	assert.NotContains(t, record, "industry")
}

func TestChainFirst_ConfidenceOrdering(t *testing.T) {
	// og:site_name beats both <title> and <h1>.
	p, err := NewPage("https://acme.io", fixturePage)
	require.NoError(t, err)

	name, ok := nameChain.First(p)
	assert.True(t, ok)
	assert.Equal(t, "Acme Corp", name)

	// Without the meta tag, <title> wins over <h1>.
	p2, err := NewPage("https://acme.io",
		`<html><head><title>Title Co</title></head><body><h1>Heading Co</h1></body></html>`)
	require.NoError(t, err)

	name, ok = nameChain.First(p2)
	assert.True(t, ok)
	assert.Equal(t, "Title Co", name)
}

func TestChainFirst_Exhausted(t *testing.T) {
	p, err := NewPage("https://acme.io", `<html><body><p>nothing</p></body></html>`)
	require.NoError(t, err)

	_, ok := industryChain.First(p)
	assert.False(t, ok)
}

func TestExtractEmployees_FirstMatchWins(t *testing.T) {
	p, err := NewPage("https://acme.io",
		`<html><body><p>We are 40 employees, a team of 99.</p></body></html>`)
	require.NoError(t, err)

	n, ok := extractEmployees(p)
	assert.True(t, ok)
	assert.Equal(t, 40, n)
}

func TestExtractFoundedYear_Bounds(t *testing.T) {
	cases := []struct {
		body string
		want int
		ok   bool
	}{
		{"Founded in 1998", 1998, true},
		{"Established in 1850", 1850, true},
		{"Since 1799", 0, false},
		{"Founded in 3021", 0, false},
		{"no year here", 0, false},
	}
	for _, tt := range cases {
		p, err := NewPage("https://acme.io", "<html><body><p>"+tt.body+"</p></body></html>")
		require.NoError(t, err)

		year, ok := extractFoundedYear(p)
		assert.Equal(t, tt.ok, ok, tt.body)
		assert.Equal(t, tt.want, year, tt.body)
	}
}

func TestExtractCompanySize(t *testing.T) {
	p, err := NewPage("https://acme.io",
		`<html><body><p>We have 50-100 employees across 3 offices.</p></body></html>`)
	require.NoError(t, err)

	size, ok := extractCompanySize(p)
	assert.True(t, ok)
	assert.Equal(t, "50-100", size)

	p2, err := NewPage("https://acme.io",
		`<html><body><p>Now 500+ employees strong.</p></body></html>`)
	require.NoError(t, err)

	size, ok = extractCompanySize(p2)
	assert.True(t, ok)
	assert.Equal(t, "500+", size)
}

func TestExtractRevenueRange(t *testing.T) {
	p, err := NewPage("https://acme.io",
		`<html><body><p>Revenue: $1M - $5M annually.</p></body></html>`)
	require.NoError(t, err)

	rev, ok := extractRevenueRange(p)
	assert.True(t, ok)
	assert.Equal(t, "$1M-$5M", rev)
}

func TestExtractTechnologies_MergedSet(t *testing.T) {
	techs := extractTechnologies(fixture(t))

	assert.Equal(t, []string{"Bootstrap", "Docker", "Jquery", "React"}, techs)
}

func TestExtractKeywords_MetaAndHeadings(t *testing.T) {
	kws := extractKeywords(fixture(t))

	assert.Contains(t, kws, "cloud")
	assert.Contains(t, kws, "automation")
	assert.Contains(t, kws, "Acme")
	assert.Contains(t, kws, "Platform")
	// Tokens of length <= 2 are dropped.
	for _, k := range kws {
		assert.Greater(t, len(k), 2)
	}
}

func TestExtractMetaData(t *testing.T) {
	meta := extractMetaData(fixture(t))

	assert.Equal(t, "Acme Corp", meta["og:site_name"])
	assert.Equal(t, "Acme builds cloud tooling.", meta["description"])
}

func TestExtractContactInfo(t *testing.T) {
	info := extractContactInfo(fixture(t))

	assert.Equal(t, []string{"contact@acme.io"}, info["emails"])
	assert.Equal(t, []string{"+1 650-253-0000"}, info["phones"])
	assert.Equal(t, "Austin, TX", info["address"])
}

func TestCleanValue(t *testing.T) {
	got, ok := CleanValue("  Test   String  ")
	assert.True(t, ok)
	assert.Equal(t, "Test String", got)

	got, ok = CleanValue([]string{" a list ", "", "<b>tag</b>"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a list", "tag"}, got)

	_, ok = CleanValue("")
	assert.False(t, ok)

	got, ok = CleanValue(map[string]any{"inner": "  x  ", "gone": ""})
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"inner": "x"}, got)

	got, ok = CleanValue(42)
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestCleanRecord_DropsEmptyFields(t *testing.T) {
	cleaned := CleanRecord(map[string]any{
		"name":  "  Acme  ",
		"email": "",
		"meta":  map[string]string{},
	})

	assert.Equal(t, map[string]any{"name": "Acme"}, cleaned)
}
