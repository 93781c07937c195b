package mydramalist

import "dramalist-backend/pkg/htmlutil"

// ExtractReviews reads the reviews page.
//
// The first div of a review body is its rating block, the body text is whatever is
// left once that block is taken out.
func ExtractReviews(doc htmlutil.Document) []Review {
	reviews := []Review{}
	for _, section := range doc.Find(".review") {
		review := Review{Rating: []Rating{}}

		body, _ := section.First(".review-body")
		for _, row := range body.Find(".review-rating div") {
			stars, _ := row.First("span")
			review.Rating = append(review.Rating, Rating{
				Stars:    stars.Text(),
				Category: row.OwnText(),
			})
		}
		review.Review = htmlutil.NormalizeSpace(body.Without("div").Text())

		user, _ := section.First("b a")
		review.User = user.Text()

		votes, _ := section.First(".user-stats b")
		review.NumberOfVotes = votes.Text()

		status, _ := section.First(".actions .review-tag")
		review.WatchStatus = status.Text()

		reviews = append(reviews, review)
	}
	return reviews
}
