package percept

import (
	"strconv"
	"strings"

	"github.com/fwojciec/percept/sexp"
)

// ObjectTypeArticle is the object type carried by rules and inferences
// that produce Article content.
const ObjectTypeArticle = "article"

// Inline is a fragment of paragraph content. The set of implementations
// is closed: Text and Link. The unexported method seals the set so the
// compiler forces every kind to define its own canonical encoding.
type Inline interface {
	// Canonical returns the fragment's canonical encoding.
	Canonical() string

	inline()
}

// Text is a run of plain text inside a paragraph.
type Text string

// Canonical encodes the run as a bare atom.
func (t Text) Canonical() string { return sexp.String(string(t)) }

func (Text) inline() {}

// Link is a hyperlink reference inside a paragraph.
type Link struct {
	URL string
}

// Canonical encodes the link with its URL as a nested group.
func (l Link) Canonical() string {
	return sexp.Object("link", sexp.Object("url", sexp.String(l.URL)))
}

func (Link) inline() {}

// Element is a building block of an article body. The set of
// implementations is closed: Paragraph, Subheading, and Image.
type Element interface {
	// Canonical returns the element's canonical encoding.
	Canonical() string

	element()
}

// Paragraph is an ordered run of text and links.
type Paragraph struct {
	Content []Inline
}

// Canonical concatenates the content encodings in order. Order is
// hash-significant.
func (p Paragraph) Canonical() string {
	var b strings.Builder
	for _, item := range p.Content {
		b.WriteString(item.Canonical())
	}
	return sexp.Object("paragraph", b.String())
}

func (Paragraph) element() {}

// Subheading is a section heading inside an article body.
type Subheading struct {
	Text string
}

// Canonical encodes the heading text as a nested atom.
func (s Subheading) Canonical() string {
	return sexp.Object("subheading", sexp.String(s.Text))
}

func (Subheading) element() {}

// Image is an illustration with an optional caption.
type Image struct {
	URL     string
	Caption string
}

// Canonical encodes the image URL and caption. An empty caption
// vanishes entirely; it never encodes as an empty group.
func (i Image) Canonical() string {
	return sexp.Object("image",
		sexp.Object("url", sexp.String(i.URL))+sexp.Object("caption", sexp.String(i.Caption)))
}

func (Image) element() {}

// Body is the ordered element sequence of an article. Element order is
// preserved and hash-significant.
type Body struct {
	Elements []Element
}

// Canonical concatenates the element encodings in order.
func (b Body) Canonical() string {
	var sb strings.Builder
	for _, el := range b.Elements {
		sb.WriteString(el.Canonical())
	}
	return sexp.Object("body", sb.String())
}

// Article is a structured content document extracted from a web page.
type Article struct {
	Headline string
	Date     int64 // Unix seconds
	Author   string
	Body     Body
}

// Canonical returns the article's canonical form, the exact byte
// sequence its content address is computed over.
func (a *Article) Canonical() string {
	content := sexp.Object("headline", sexp.String(a.Headline)) +
		sexp.Object("date", sexp.String(strconv.FormatInt(a.Date, 10))) +
		sexp.Object("author", sexp.String(a.Author)) +
		a.Body.Canonical()
	return sexp.Object("article", content)
}

// Hash returns the article's content address.
func (a *Article) Hash() string {
	return sexp.Hash(a.Canonical())
}
