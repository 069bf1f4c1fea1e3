// Package page is the queryable content model every extractor operates over.
// A Content wraps one parsed HTML document and is never mutated after Parse.
package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/coursepipe/core"
)

var (
	// ErrNoElementChild is returned when a node has no element children.
	ErrNoElementChild = errors.New("node has no element child")
	// ErrMissingHref is returned for anchors without an href attribute.
	ErrMissingHref = errors.New("link has no href")
	// ErrEmptyHref is returned for anchors whose href is blank.
	ErrEmptyHref = errors.New("link has an empty href")
	// ErrEmptyText is returned for anchors without visible text.
	ErrEmptyText = errors.New("link has no text")
)

// Content is a parsed page.
type Content struct {
	doc *goquery.Document
}

// Parse builds a Content from raw markup. The HTML5 tree builder inserts
// implied elements (tbody and friends) the same way a browser does.
func Parse(markup string) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Content{doc: doc}, nil
}

// Select returns every node matching m, in document order.
func (c *Content) Select(m goquery.Matcher) *goquery.Selection {
	return c.doc.FindMatcher(m)
}

// SelectFirst returns the first node matching m and whether one exists.
func (c *Content) SelectFirst(m goquery.Matcher) (*goquery.Selection, bool) {
	sel := c.doc.FindMatcher(m).First()
	return sel, sel.Length() > 0
}

// FirstElementChild returns the first element child of the first node in sel.
// Text and comment nodes are skipped.
func FirstElementChild(sel *goquery.Selection) (*goquery.Selection, error) {
	if sel.Length() == 0 {
		return nil, ErrNoElementChild
	}
	for n := sel.Get(0).FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return sel.FindNodes(n), nil
		}
	}
	return nil, ErrNoElementChild
}

// Text returns the trimmed text content of sel.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// Href returns the trimmed href of the first anchor in sel.
func Href(sel *goquery.Selection) (string, error) {
	href, ok := sel.First().Attr("href")
	if !ok {
		return "", ErrMissingHref
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return "", ErrEmptyHref
	}
	return href, nil
}

// LinkOf reads the display text and href of the first anchor in sel.
func LinkOf(sel *goquery.Selection) (core.Link, error) {
	href, err := Href(sel)
	if err != nil {
		return core.Link{}, err
	}
	text := Text(sel.First())
	if text == "" {
		return core.Link{}, ErrEmptyText
	}
	return core.Link{Text: text, Href: href}, nil
}
