// Package markup wraps goquery with the small lookup surface link extraction needs.
// Parsing is structural only; scripts in the page are never executed.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const jsonLDType = "application/ld+json"

// Document is a parsed page scoped to a single extraction call.
type Document struct {
	doc *goquery.Document
}

// Element is a single element of a Document.
type Element struct {
	sel *goquery.Selection
}

// Parse builds a Document from raw markup. Malformed markup is recovered the
// way browsers do; an error is only returned when the input cannot be read.
func Parse(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// FindAll returns every tag element whose attr equals value (case-insensitive),
// in document order.
func (d *Document) FindAll(tag, attr, value string) []*Element {
	var elements []*Element
	d.doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), value) {
			elements = append(elements, &Element{sel: s})
		}
	})
	return elements
}

// FindFirst returns the first tag element whose attr equals value.
func (d *Document) FindFirst(tag, attr, value string) (*Element, bool) {
	var found *Element
	d.doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), value) {
			found = &Element{sel: s}
			return false
		}
		return true
	})
	return found, found != nil
}

// First returns the first element with the given tag name.
func (d *Document) First(tag string) (*Element, bool) {
	sel := d.doc.Find(tag).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Element{sel: sel}, true
}

// MetaContent returns the content of the first <meta attr="key"> element.
func (d *Document) MetaContent(attr, key string) (string, bool) {
	el, ok := d.FindFirst("meta", attr, key)
	if !ok {
		return "", false
	}
	return el.Attr("content")
}

// MetaAttributes returns the attributes of every <meta> element, in document order.
func (d *Document) MetaAttributes() []map[string]string {
	var metas []map[string]string
	d.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		attrs := make(map[string]string, len(s.Nodes[0].Attr))
		for _, a := range s.Nodes[0].Attr {
			attrs[strings.ToLower(a.Key)] = a.Val
		}
		metas = append(metas, attrs)
	})
	return metas
}

// JSONLD returns the raw text of every <script type="application/ld+json">
// block, in document order.
func (d *Document) JSONLD() []string {
	var blocks []string
	for _, el := range d.FindAll("script", "type", jsonLDType) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Text returns the combined text content of the element and its descendants.
func (e *Element) Text() string {
	return e.sel.Text()
}
