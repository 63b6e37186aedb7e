package percept

import (
	"regexp"
	"strings"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	imageRe     = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)\s]+)\)$`)
	linkRe      = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
)

// ParseBody converts markdown content into an article body. Heading
// lines become subheadings, standalone image lines become images, and
// every other block becomes a paragraph whose links are lifted into
// inline references. Fenced code blocks are dropped so their contents
// cannot masquerade as headings.
func ParseBody(markdown string) Body {
	var body Body

	cleaned := codeBlockRe.ReplaceAllString(markdown, "")

	for _, block := range splitBlocks(cleaned) {
		if m := headingRe.FindStringSubmatch(block); m != nil {
			body.Elements = append(body.Elements, Subheading{Text: strings.TrimSpace(m[2])})
			continue
		}
		if m := imageRe.FindStringSubmatch(block); m != nil {
			body.Elements = append(body.Elements, Image{URL: m[2], Caption: strings.TrimSpace(m[1])})
			continue
		}
		if p := parseParagraph(block); len(p.Content) > 0 {
			body.Elements = append(body.Elements, p)
		}
	}

	return body
}

// splitBlocks splits markdown into blocks separated by blank lines.
// Soft-wrapped lines inside a block are joined with single spaces.
func splitBlocks(markdown string) []string {
	var blocks []string
	for _, raw := range blankLineRe.Split(markdown, -1) {
		lines := strings.Split(raw, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(line)
		}
		block := strings.TrimSpace(strings.Join(lines, " "))
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// parseParagraph lifts markdown links out of a text block. Text ahead
// of a link is flushed as its own run, the link reference follows, and
// the link's anchor text joins the run that comes after it.
func parseParagraph(block string) Paragraph {
	var p Paragraph
	var current strings.Builder

	rest := block
	for {
		loc := linkRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}

		current.WriteString(rest[:loc[0]])
		if current.Len() > 0 {
			p.Content = append(p.Content, Text(current.String()))
			current.Reset()
		}

		p.Content = append(p.Content, Link{URL: rest[loc[4]:loc[5]]})
		current.WriteString(rest[loc[2]:loc[3]])
		rest = rest[loc[1]:]
	}

	current.WriteString(rest)
	if s := current.String(); strings.TrimSpace(s) != "" {
		p.Content = append(p.Content, Text(s))
	}

	return p
}
