// Package htmlscope implements read-only page scopes over saved HTML, so the
// price extractor can run without a browser.
package htmlscope

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"robotdriver/domain/interfaces"

	"github.com/PuerkitoBio/goquery"
)

// ErrReadOnly is returned by operations that would interact with the page
var ErrReadOnly = errors.New("static html scope is read-only")

var roleSelectors = map[string]string{
	"link":     "a[href], [role=link]",
	"button":   "button, input[type=submit], input[type=button], [role=button]",
	"heading":  "h1, h2, h3, h4, h5, h6, [role=heading]",
	"textbox":  "input:not([type]), input[type=text], input[type=email], input[type=password], input[type=search], textarea, [role=textbox]",
	"checkbox": "input[type=checkbox], [role=checkbox]",
	"img":      "img[alt], [role=img]",
}

// Document is a parsed HTML page
type Document struct {
	doc *goquery.Document
}

// FromReader - parses HTML from r
func FromReader(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	return &Document{doc: doc}, nil
}

// FromString - parses HTML from a string
func FromString(html string) (*Document, error) {
	return FromReader(strings.NewReader(html))
}

// Locator - finds elements by CSS selector in the whole document
func (d *Document) Locator(selector string) interfaces.Locator {
	return &Selection{sel: d.doc.Find(selector)}
}

// ByRole - finds elements by approximate ARIA role and accessible name
func (d *Document) ByRole(role string, name *regexp.Regexp) interfaces.Locator {
	return &Selection{sel: byRole(d.doc.Selection, role, name)}
}

// Selection is a read-only interfaces.Locator backed by goquery
type Selection struct {
	sel *goquery.Selection
}

func (s *Selection) Locator(selector string) interfaces.Locator {
	return &Selection{sel: s.sel.Find(selector)}
}

func (s *Selection) ByRole(role string, name *regexp.Regexp) interfaces.Locator {
	return &Selection{sel: byRole(s.sel, role, name)}
}

func (s *Selection) First() interfaces.Locator {
	return &Selection{sel: s.sel.First()}
}

func (s *Selection) FilterText(pattern *regexp.Regexp) interfaces.Locator {
	return &Selection{sel: s.sel.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return pattern.MatchString(el.Text())
	})}
}

func (s *Selection) Count() (int, error) {
	return s.sel.Length(), nil
}

func (s *Selection) InnerText() (string, error) {
	if s.sel.Length() == 0 {
		return "", fmt.Errorf("%w: no element matched", interfaces.ErrTimeout)
	}
	return collapse(s.sel.First().Text()), nil
}

func (s *Selection) AllInnerTexts() ([]string, error) {
	texts := make([]string, 0, s.sel.Length())
	s.sel.Each(func(_ int, el *goquery.Selection) {
		texts = append(texts, collapse(el.Text()))
	})
	return texts, nil
}

func (s *Selection) Click() error             { return ErrReadOnly }
func (s *Selection) Fill(string) error        { return ErrReadOnly }
func (s *Selection) Check(bool) error         { return ErrReadOnly }
func (s *Selection) SelectValue(string) error { return ErrReadOnly }
func (s *Selection) SelectLabel(string) error { return ErrReadOnly }

func (s *Selection) WaitVisible(time.Duration) error {
	if s.sel.Length() == 0 {
		return fmt.Errorf("%w: no element matched", interfaces.ErrTimeout)
	}
	return nil
}

func byRole(root *goquery.Selection, role string, name *regexp.Regexp) *goquery.Selection {
	selector, ok := roleSelectors[role]
	if !ok {
		selector = fmt.Sprintf("[role=%q]", role)
	}
	found := root.Find(selector)
	if name == nil {
		return found
	}
	return found.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return name.MatchString(accessibleName(el))
	})
}

// accessibleName - approximates the accessible name of an element
func accessibleName(el *goquery.Selection) string {
	for _, attr := range []string{"aria-label", "alt", "title"} {
		if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if text := collapse(el.Text()); text != "" {
		return text
	}
	for _, attr := range []string{"value", "placeholder"} {
		if v, ok := el.Attr(attr); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// collapse - trims text and folds whitespace runs into single spaces
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var (
	_ interfaces.Scope   = (*Document)(nil)
	_ interfaces.Locator = (*Selection)(nil)
)
