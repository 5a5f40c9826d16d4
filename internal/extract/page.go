// Package extract turns a fetched page into a cleaned lead record by
// running a fixed set of field extractors, each an ordered fallback chain
// of selectors or regular expression patterns.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Page wraps a fetched page: the raw rendered source plus a parsed DOM
// for selector queries.
type Page struct {
	url    string
	source string
	doc    *goquery.Document
}

// NewPage parses rendered HTML into a queryable Page.
func NewPage(url, source string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse page")
	}
	return &Page{url: url, source: source, doc: doc}, nil
}

// URL returns the page's canonical URL.
func (p *Page) URL() string { return p.url }

// Source returns the raw rendered HTML.
func (p *Page) Source() string { return p.source }

// Find runs a CSS selector query against the parsed DOM.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}
