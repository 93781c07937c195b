package mydramalist

import (
	"strings"

	"dramalist-backend/pkg/htmlutil"
)

func firstText(doc htmlutil.Document, selector string) string {
	n, _ := doc.First(selector)
	return n.Text()
}

func anchorTexts(doc htmlutil.Document, selector string) []string {
	out := []string{}
	for _, a := range doc.Find(selector) {
		out = append(out, a.Text())
	}
	return out
}

// ExtractDetails reads the main page of a title. Sub-page lists (cast, reviews,
// recommendations) are returned empty.
func ExtractDetails(doc htmlutil.Document, id string) Drama {
	cover, _ := doc.First(".film-cover img")

	drama := Drama{
		Id:              id,
		Title:           firstText(doc, ".film-title"),
		NativeTitle:     firstText(doc, ".mdl-aka-list"),
		Poster:          htmlutil.LazyAttr(cover),
		Synopsis:        firstText(doc, ".show-synopsis"),
		Genres:          anchorTexts(doc, ".show-genres a"),
		Tags:            anchorTexts(doc, ".show-tags a"),
		Info:            map[string]string{},
		Cast:            []CastGroup{},
		Reviews:         []Review{},
		Recommendations: []Recommendation{},
	}

	for _, row := range doc.Find(".box-body.light-b .mdl-info") {
		labelNode, _ := row.First(".mdl-info-label")
		valueNode, _ := row.First(".mdl-info-value")

		label := strings.TrimSpace(strings.TrimSuffix(labelNode.Text(), ":"))
		value := valueNode.Text()
		if label == "" || value == "" {
			continue
		}
		drama.Info[label] = value
	}

	return drama
}
