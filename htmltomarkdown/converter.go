package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/percept"
)

// Ensure Converter implements percept.Converter at compile time.
var _ percept.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// Figure captions are lifted into image alt text before conversion so
// they survive the trip into an article body as image captions.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", percept.Errorf(percept.EINVALID, "empty HTML input")
	}

	html, err := liftFigureCaptions(html)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}

// liftFigureCaptions rewrites each figure into its image with the
// figcaption text as the alt attribute. Markdown has no figure
// construct, so without this the caption would detach from its image
// and read as a stray paragraph.
func liftFigureCaptions(html string) (string, error) {
	if !strings.Contains(html, "<figure") {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", percept.Errorf(percept.EINVALID, "parse HTML: %v", err)
	}

	doc.Find("figure").Each(func(_ int, figure *goquery.Selection) {
		img := figure.Find("img").First()
		if img.Length() == 0 {
			figure.Remove()
			return
		}
		if caption := strings.TrimSpace(figure.Find("figcaption").First().Text()); caption != "" {
			img.SetAttr("alt", caption)
		}
		figure.ReplaceWithSelection(img)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", percept.Errorf(percept.EINVALID, "render HTML: %v", err)
	}
	return out, nil
}
