package split

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/statute-enricher/internal/types"
)

// FromHTML extracts readable text from an HTML statute source and splits it.
// Script and style elements are discarded; block elements are separated by
// newlines so line-anchored boundary detection still works.
func FromHTML(html string) ([]types.Section, error) {
	text, err := ExtractText(html)
	if err != nil {
		return nil, err
	}
	return Split(text), nil
}

// ExtractText converts HTML to plain text with one block element per line.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, td, section, article").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return // only leaf blocks, to avoid duplicated nested text
		}
		line := strings.TrimSpace(sel.Text())
		if line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	})

	if sb.Len() == 0 {
		// No block structure; fall back to the whole document text.
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
