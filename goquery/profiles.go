package goquery

import "github.com/fwojciec/percept"

// BBCProfile describes bbc.com news and sport articles. Current pages
// nest the article under main#main-content; plain article and main
// cover older layouts.
func BBCProfile() percept.Profile {
	return percept.Profile{
		Name:          "bbc",
		BaseURL:       "https://www.bbc.com",
		DefaultAuthor: "BBC News",
		ContentSelectors: []string{
			"main#main-content article",
			"article",
			"main",
		},
	}
}
