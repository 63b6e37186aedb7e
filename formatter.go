package percept

import (
	"fmt"
	"strings"
	"time"
)

// FormatArticle renders an article as readable plain text: a
// Title/Author/Date header followed by each body element. Links render
// inline as [LINK: url], images as [IMAGE: url] with an optional
// caption line. The output is for human readers and never feeds the
// canonical encoder.
func FormatArticle(a *Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", a.Headline)
	fmt.Fprintf(&b, "Author: %s\n", a.Author)
	fmt.Fprintf(&b, "Date: %s\n\n", time.Unix(a.Date, 0).UTC().Format("2006-01-02 15:04:05"))

	for _, el := range a.Body.Elements {
		switch el := el.(type) {
		case Paragraph:
			for _, item := range el.Content {
				switch item := item.(type) {
				case Text:
					b.WriteString(string(item))
				case Link:
					fmt.Fprintf(&b, "[LINK: %s]", item.URL)
				}
			}
			b.WriteString("\n\n")
		case Subheading:
			fmt.Fprintf(&b, "\n## %s\n\n", el.Text)
		case Image:
			fmt.Fprintf(&b, "[IMAGE: %s]\n", el.URL)
			if el.Caption != "" {
				fmt.Fprintf(&b, "Caption: %s\n\n", el.Caption)
			}
		}
	}

	return b.String()
}
