// Package extract pulls raw link targets out of HTML documents.
package extract

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLExtractor yields the href attribute of every anchor element.
// It streams tokens, so a consumer that stops early stops the tokenizer too.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns the raw href values of body's <a> tags in document order.
// Empty and whitespace-only hrefs are skipped. Values are not resolved.
// Malformed markup never aborts the sequence; the tokenizer recovers and
// the walk ends at EOF.
func (e *HTMLExtractor) Extract(body string) iter.Seq[string] {
	return func(yield func(string) bool) {
		z := html.NewTokenizer(strings.NewReader(body))
		for {
			switch z.Next() {
			case html.ErrorToken:
				return
			case html.StartTagToken, html.SelfClosingTagToken:
				name, hasAttr := z.TagName()
				if atom.Lookup(name) != atom.A || !hasAttr {
					continue
				}
				if href, ok := hrefAttr(z); ok {
					if !yield(href) {
						return
					}
				}
			}
		}
	}
}

// All collects every href of body into a slice.
func (e *HTMLExtractor) All(body string) []string {
	links := make([]string, 0)
	for href := range e.Extract(body) {
		links = append(links, href)
	}
	return links
}

// hrefAttr scans the remaining attributes of the current tag for href.
func hrefAttr(z *html.Tokenizer) (string, bool) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			href := strings.TrimSpace(string(val))
			return href, href != ""
		}
		if !more {
			return "", false
		}
	}
}
