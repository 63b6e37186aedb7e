package goquery

import (
	"encoding/json"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// linkedData carries the fields read from a page's JSON-LD block.
type linkedData struct {
	DatePublished string      `json:"datePublished"`
	Author        authorField `json:"author"`
}

// authorField accepts the two shapes news pages use for authorship:
// a single object or a list of objects, each carrying a name.
type authorField struct {
	Name string
}

func (a *authorField) UnmarshalJSON(data []byte) error {
	var one struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &one); err == nil {
		a.Name = one.Name
		return nil
	}

	var many []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &many); err == nil && len(many) > 0 {
		a.Name = many[0].Name
	}

	// Other shapes read as no author and the caller falls back to the
	// profile default.
	return nil
}

// pageMetadata reads the publication date and author from the page's
// first JSON-LD block. A missing or malformed block falls back to the
// extraction time and the profile's default author.
func (e *Extractor) pageMetadata(doc *goquery.Document) (date int64, author string) {
	date = e.now()
	author = e.profile.DefaultAuthor

	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if raw == "" {
		return date, author
	}

	var meta linkedData
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return date, author
	}
	if meta.DatePublished != "" {
		date = e.parseDate(meta.DatePublished)
	}
	if meta.Author.Name != "" {
		author = meta.Author.Name
	}
	return date, author
}

// parseDate converts an ISO-8601 timestamp to Unix seconds. Values the
// page serves in other forms fall back to the extraction time.
func (e *Extractor) parseDate(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return e.now()
	}
	return t.Unix()
}
