package mydramalist

import "dramalist-backend/pkg/htmlutil"

// ExtractRecommendations reads the recommendations page, one record per row.
func ExtractRecommendations(doc htmlutil.Document) []Recommendation {
	recommendations := []Recommendation{}
	for _, row := range doc.Find(".row.recs-box") {
		anchor, _ := row.First("b a")
		title, _ := row.First("b")
		poster, _ := row.First("img")
		summary, _ := row.First(".recs-body")

		recommendations = append(recommendations, Recommendation{
			Id:      IdFromPath(anchor.AttrOr("href", "")),
			Poster:  htmlutil.LazyAttr(poster),
			Title:   title.Text(),
			Summary: htmlutil.NormalizeSpace(summary.Text()),
		})
	}
	return recommendations
}
