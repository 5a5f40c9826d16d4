package extract

import (
	"github.com/sells-group/leadgen-cli/internal/textutil"
)

// attrText selects an element's text content instead of an attribute.
const attrText = "text"

// Rule is one attempt in a fallback chain: a CSS selector plus the
// attribute to read ("text" for the element's text content).
type Rule struct {
	Selector string
	Attr     string
}

// Chain is an ordered list of rules encoding a confidence ordering:
// structured, machine-authored signals first, loose heading text last.
// The first rule that yields a non-empty value after cleaning wins.
type Chain []Rule

// First evaluates the chain against a page. It returns the first
// non-empty cleaned value, or ("", false) when the chain is exhausted.
func (c Chain) First(p *Page) (string, bool) {
	for _, r := range c {
		sel := p.Find(r.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		var raw string
		if r.Attr == attrText {
			raw = sel.Text()
		} else {
			raw, _ = sel.Attr(r.Attr)
		}
		if v := textutil.Normalize(raw); v != "" {
			return v, true
		}
	}
	return "", false
}

// Field chains, in the confidence order established for each field.
var (
	nameChain = Chain{
		{`meta[property="og:site_name"]`, "content"},
		{`meta[name="application-name"]`, "content"},
		{`meta[property="og:title"]`, "content"},
		{`title`, attrText},
		{`h1`, attrText},
		{`.company-name`, attrText},
		{`#company-name`, attrText},
	}

	locationChain = Chain{
		{`meta[property="business:contact_data:locality"]`, "content"},
		{`meta[property="og:locality"]`, "content"},
		{`.address`, attrText},
		{`.location`, attrText},
		{`[itemtype="http://schema.org/PostalAddress"]`, attrText},
	}

	industryChain = Chain{
		{`meta[property="business:industry"]`, "content"},
		{`.industry`, attrText},
		{`#industry`, attrText},
		{`[itemprop="industry"]`, attrText},
	}

	descriptionChain = Chain{
		{`meta[name="description"]`, "content"},
		{`meta[property="og:description"]`, "content"},
		{`.company-description`, attrText},
		{`.about-us`, attrText},
	}

	headquartersChain = Chain{
		{`[itemtype="http://schema.org/PostalAddress"]`, attrText},
		{`.headquarters`, attrText},
		{`.hq-location`, attrText},
		{`meta[property="business:contact_data:locality"]`, "content"},
	}
)
