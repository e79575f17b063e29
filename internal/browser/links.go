// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pdiddy/disclosure-fetch/pkg/types"
)

// ParseLinks extracts every anchor matching selector from a rendered HTML
// document. Anchors without an href attribute are skipped. Labels are the
// anchor text with whitespace runs collapsed, which is what a browser shows.
func ParseLinks(html, selector string) ([]types.DisclosureLink, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	links := []types.DisclosureLink{}
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		links = append(links, types.DisclosureLink{
			Href:  strings.TrimSpace(href),
			Label: visibleText(s.Text()),
		})
	})
	return links, nil
}

func visibleText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
