package percept

// Profile describes how to extract articles from one site: where to
// look for the main content and what to fall back to when page
// metadata is incomplete.
type Profile struct {
	// Name identifies the profile (e.g., "bbc").
	Name string

	// BaseURL resolves relative links found in article bodies.
	BaseURL string

	// DefaultAuthor is used when the page metadata names no author.
	DefaultAuthor string

	// ContentSelectors are CSS selectors tried in order to locate the
	// main content node.
	ContentSelectors []string
}

// Validate returns an error if the profile contains invalid fields.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "profile name required")
	}
	if p.BaseURL == "" {
		return Errorf(EINVALID, "profile base URL required")
	}
	if len(p.ContentSelectors) == 0 {
		return Errorf(EINVALID, "profile content selectors required")
	}
	return nil
}
