package percept

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean content HTML (e.g., an article
	// subtree), not a full page.
	Convert(html string) (string, error)
}
