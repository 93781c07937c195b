package mydramalist

import (
	"regexp"

	"dramalist-backend/pkg/htmlutil"
)

const SourcePrimary = "original-selector"

// FallbackSelectors are tried in order when a search page holds no result cards.
var FallbackSelectors = []string{
	".list",
	".mdl-list",
	".search-results .item",
	".card",
	".box-body",
	".search-content",
	`a[href*="/"]`,
}

// SearchResult is the output of ExtractSearch.
type SearchResult struct {
	Hits []SearchHit
	// Strategy is SourcePrimary when result cards were found, the fallback selector
	// that produced the hits otherwise, and empty when nothing matched at all.
	Strategy string
}

// Fallback reports whether the hits came from an alternative selector.
func (r SearchResult) Fallback() bool {
	return r.Strategy != "" && r.Strategy != SourcePrimary
}

var yearRegex = regexp.MustCompile(`(\d{4})`)

// ExtractSearch reads search hits off a rendered search page. A page that matches
// nothing yields an empty (non-nil) list.
func ExtractSearch(doc htmlutil.Document, baseUrl string) SearchResult {
	boxes := doc.Find(".box")
	if len(boxes) > 0 {
		return SearchResult{
			Hits:     extractCards(boxes, baseUrl),
			Strategy: SourcePrimary,
		}
	}

	for _, selector := range FallbackSelectors {
		hits := extractFallback(doc.Find(selector), selector, baseUrl)
		if len(hits) > 0 {
			return SearchResult{Hits: hits, Strategy: selector}
		}
	}
	return SearchResult{Hits: []SearchHit{}}
}

func extractCards(boxes []htmlutil.Node, baseUrl string) []SearchHit {
	hits := make([]SearchHit, 0, len(boxes))
	for _, box := range boxes {
		anchor, _ := box.First("h6.title a")
		title := anchor.Text()
		if title == "" {
			continue
		}
		link := anchor.AttrOr("href", "")

		poster, _ := box.First("img.lazy")

		hit := SearchHit{
			Id:        IdFromPath(link),
			Title:     title,
			Link:      AbsoluteUrl(baseUrl, link),
			Poster:    htmlutil.LazyAttr(poster),
			Countries: []string{},
			Source:    SourcePrimary,
		}

		var mutedText string
		for _, n := range box.Find(".text-muted") {
			mutedText += n.Text()
		}
		if match := yearRegex.FindStringSubmatch(mutedText); len(match) > 1 {
			hit.Year = match[1]
		}

		for _, a := range box.Find(`.text-muted a[href*="/search?type="]`) {
			hit.Type += a.Text()
		}
		for _, n := range box.Find(`.text-muted a[href*="/search?country="]`) {
			hit.Countries = append(hit.Countries, n.Text())
		}
		for _, n := range box.Find(".score") {
			hit.Score += n.Text()
		}

		hits = append(hits, hit)
	}
	return hits
}

func extractFallback(elements []htmlutil.Node, selector, baseUrl string) []SearchHit {
	var hits []SearchHit
	for _, el := range elements {
		anchor, ok := el.First(`a[href*="/"]`)
		if !ok {
			continue
		}
		title := anchor.Text()
		link := anchor.AttrOr("href", "")
		if title == "" || link == "" {
			continue
		}
		hits = append(hits, SearchHit{
			Title:     title,
			Link:      AbsoluteUrl(baseUrl, link),
			Countries: []string{},
			Source:    "alternative-selector-" + selector,
		})
	}
	return hits
}
