package mydramalist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dramalist-backend/pkg/htmlutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadFixture(t testing.TB, name string) htmlutil.Document {
	t.Helper()
	contents, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := htmlutil.Parse(string(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func parseInline(t testing.TB, markup string) htmlutil.Document {
	t.Helper()
	doc, err := htmlutil.Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractSearch(t *testing.T) {
	doc := loadFixture(t, "search.html")

	result := ExtractSearch(doc, DefaultBaseUrl)
	require.Equal(t, SourcePrimary, result.Strategy)
	require.False(t, result.Fallback())

	expected := []SearchHit{
		{
			Id:        "18452-goblin",
			Title:     "Guardian: The Lonely and Great God",
			Link:      "https://mydramalist.com/18452-goblin",
			Poster:    "https://i.mydramalist.com/2K2Jks.jpg",
			Year:      "2016",
			Type:      "Korean Drama",
			Countries: []string{"South Korea"},
			Score:     "8.8",
			Source:    SourcePrimary,
		},
		{
			Id:        "700101-goblin-special",
			Title:     "Goblin Special",
			Link:      "https://mydramalist.com/700101-goblin-special",
			Poster:    "https://i.mydramalist.com/eager-only.jpg",
			Year:      "2017",
			Type:      "Special",
			Countries: []string{"South Korea", "China"},
			Score:     "7.2",
			Source:    SourcePrimary,
		},
	}
	if diff := cmp.Diff(expected, result.Hits); diff != "" {
		t.Fatalf("search hits mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSearchIdIsSecondPathSegment(t *testing.T) {
	doc := loadFixture(t, "search.html")
	for _, hit := range ExtractSearch(doc, DefaultBaseUrl).Hits {
		require.Equal(t, IdFromPath(hit.Link), hit.Id)
		require.False(t, strings.Contains(hit.Id, "/"))
	}
}

func TestExtractSearchFallback(t *testing.T) {
	doc := loadFixture(t, "search_fallback.html")

	result := ExtractSearch(doc, DefaultBaseUrl)
	require.True(t, result.Fallback())
	require.Equal(t, ".search-results .item", result.Strategy)

	expected := []SearchHit{
		{
			Title:     "Move to Heaven",
			Link:      "https://mydramalist.com/25172-move-to-heaven",
			Countries: []string{},
			Source:    "alternative-selector-.search-results .item",
		},
		{
			Title:     "Nirvana in Fire",
			Link:      "https://mydramalist.com/9025-nirvana-in-fire",
			Countries: []string{},
			Source:    "alternative-selector-.search-results .item",
		},
	}
	if diff := cmp.Diff(expected, result.Hits); diff != "" {
		t.Fatalf("fallback hits mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSearchFallbackStopsAtFirstProductiveSelector(t *testing.T) {
	doc := parseInline(t, `<html><body>
		<div class="card"><a href="/1-first">First</a></div>
		<div class="box-body"><a href="/2-second">Second</a></div>
	</body></html>`)

	result := ExtractSearch(doc, DefaultBaseUrl)
	require.Equal(t, ".card", result.Strategy)
	require.Len(t, result.Hits, 1)
	require.Equal(t, "First", result.Hits[0].Title)
	require.Equal(t, "alternative-selector-.card", result.Hits[0].Source)
}

func TestExtractSearchNothingMatches(t *testing.T) {
	doc := loadFixture(t, "challenge.html")

	result := ExtractSearch(doc, DefaultBaseUrl)
	require.NotNil(t, result.Hits)
	require.Empty(t, result.Hits)
	require.Equal(t, "", result.Strategy)
	require.False(t, result.Fallback())
}

func TestExtractDetails(t *testing.T) {
	doc := loadFixture(t, "details.html")

	drama := ExtractDetails(doc, "18452-goblin")
	expected := Drama{
		Id:          "18452-goblin",
		Title:       "Guardian: The Lonely and Great God (2016)",
		NativeTitle: "도깨비",
		Poster:      "https://i.mydramalist.com/2K2Jkc_4c.jpg",
		Synopsis:    "In his previous life, Kim Shin was a powerful military commander.",
		Genres:      []string{"Comedy", "Romance", "Fantasy"},
		Tags:        []string{"Immortal Male Lead", "Grim Reaper"},
		Info: map[string]string{
			"Country":          "South Korea",
			"Episodes":         "16",
			"Aired":            "Dec 2, 2016 - Jan 21, 2017",
			"Original Network": "tvN",
		},
		Cast:            []CastGroup{},
		Reviews:         []Review{},
		Recommendations: []Recommendation{},
	}
	if diff := cmp.Diff(expected, drama); diff != "" {
		t.Fatalf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDetailsMissingMarkup(t *testing.T) {
	doc := loadFixture(t, "challenge.html")

	drama := ExtractDetails(doc, "1-x")
	require.Equal(t, "1-x", drama.Id)
	require.Equal(t, "", drama.Title)
	require.NotNil(t, drama.Genres)
	require.NotNil(t, drama.Tags)
	require.NotNil(t, drama.Info)
	require.NotNil(t, drama.Cast)
	require.NotNil(t, drama.Reviews)
	require.NotNil(t, drama.Recommendations)
}

func TestExtractCast(t *testing.T) {
	doc := loadFixture(t, "cast.html")

	expected := []CastGroup{
		{
			Category: "Director",
			People: []Person{
				{Name: "Lee Eung Bok", Image: "https://i.mydramalist.com/dir_s.jpg"},
			},
		},
		{
			Category: "Main Role",
			People: []Person{
				{Name: "Gong Yoo", Image: "https://i.mydramalist.com/gong_yoo.jpg"},
				{Name: "Kim Go Eun", Image: "https://i.mydramalist.com/kim_go_eun.jpg"},
			},
		},
		{
			Category: "Guest Role",
			People:   []Person{},
		},
	}
	if diff := cmp.Diff(expected, ExtractCast(doc)); diff != "" {
		t.Fatalf("cast mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCastMalformedGroupKeepsHeader(t *testing.T) {
	doc := parseInline(t, `<html><body><div class="box-body">
		<h3 class="header">Main Role</h3>
		<p>no list here</p>
		<h3 class="header">Support Role</h3>
		<ul><li><b>Yoo In Na</b><img src="yoo.jpg"></li></ul>
	</div></body></html>`)

	groups := ExtractCast(doc)
	require.Len(t, groups, 2)
	require.Equal(t, "Main Role", groups[0].Category)
	require.NotNil(t, groups[0].People)
	require.Empty(t, groups[0].People)
	require.Equal(t, []Person{{Name: "Yoo In Na", Image: "yoo.jpg"}}, groups[1].People)
}

func TestExtractRecommendations(t *testing.T) {
	doc := loadFixture(t, "recommendations.html")

	expected := []Recommendation{
		{
			Id:      "34703-hotel-del-luna",
			Poster:  "https://i.mydramalist.com/hotel_del_luna.jpg",
			Title:   "Hotel del Luna",
			Summary: "Both have an immortal lead bound to a mortal.",
		},
		{
			Id:      "25560-tale-of-the-nine-tailed",
			Poster:  "https://i.mydramalist.com/tale.jpg",
			Title:   "Tale of the Nine Tailed",
			Summary: "Supernatural beings among humans.",
		},
		{
			Title: "Unlinked Title",
		},
	}
	if diff := cmp.Diff(expected, ExtractRecommendations(doc)); diff != "" {
		t.Fatalf("recommendations mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractReviews(t *testing.T) {
	doc := loadFixture(t, "reviews.html")

	expected := []Review{
		{
			User:   "dramafan",
			Review: "A beautiful story about love and loss.",
			Rating: []Rating{
				{Stars: "9.0", Category: "Overall"},
				{Stars: "8", Category: "Story"},
				{Stars: "10", Category: "Acting/Cast"},
			},
			NumberOfVotes: "152",
			WatchStatus:   "Completed",
		},
		{
			Review:      "Short and sweet.",
			Rating:      []Rating{},
			WatchStatus: "Dropped",
		},
	}
	if diff := cmp.Diff(expected, ExtractReviews(doc)); diff != "" {
		t.Fatalf("reviews mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractReviewsSeparatesRatingBlock(t *testing.T) {
	doc := parseInline(t, `<html><body><div class="review">
		<div class="review-body">
			<div class="review-rating"><div>Story<span>8</span></div></div>
			Loved every minute.
		</div>
	</div></body></html>`)

	reviews := ExtractReviews(doc)
	require.Len(t, reviews, 1)
	require.Equal(t, []Rating{{Stars: "8", Category: "Story"}}, reviews[0].Rating)
	require.Equal(t, "Loved every minute.", reviews[0].Review)
	require.NotContains(t, reviews[0].Review, "Story")
}

func TestExtractReviewsUserIsFirstProfileLink(t *testing.T) {
	doc := parseInline(t, `<html><body><div class="review">
		<div class="review-header"><b><a href="/profile/dramafan">dramafan</a></b></div>
		<div class="review-body">
			Better than <b><a href="/34703-hotel-del-luna">Hotel del Luna</a></b>.
		</div>
	</div></body></html>`)

	reviews := ExtractReviews(doc)
	require.Len(t, reviews, 1)
	require.Equal(t, "dramafan", reviews[0].User)
}

func TestExtractCollapsesWrappedText(t *testing.T) {
	reviews := ExtractReviews(parseInline(t, `<html><body><div class="review">
		<div class="review-body">
			<div class="review-rating"><div>Story<span>8</span></div></div>
			The ending
			was    worth
			the wait.
		</div>
	</div></body></html>`))
	require.Len(t, reviews, 1)
	require.Equal(t, "The ending was worth the wait.", reviews[0].Review)

	recommendations := ExtractRecommendations(parseInline(t, `<html><body>
		<div class="row recs-box"><b><a href="/1-a">A</a></b>
			<div class="recs-body">
				Same writer,
				same   melancholy.
			</div>
		</div>
	</body></html>`))
	require.Len(t, recommendations, 1)
	require.Equal(t, "Same writer, same melancholy.", recommendations[0].Summary)
}

func TestExtractorsAreIdempotent(t *testing.T) {
	search := loadFixture(t, "search.html")
	require.Equal(t, ExtractSearch(search, DefaultBaseUrl), ExtractSearch(search, DefaultBaseUrl))

	details := loadFixture(t, "details.html")
	require.Equal(t, ExtractDetails(details, "18452-goblin"), ExtractDetails(details, "18452-goblin"))

	cast := loadFixture(t, "cast.html")
	require.Equal(t, ExtractCast(cast), ExtractCast(cast))

	recs := loadFixture(t, "recommendations.html")
	require.Equal(t, ExtractRecommendations(recs), ExtractRecommendations(recs))

	// reviews remove the rating block while reading, a second pass must still see it
	reviews := loadFixture(t, "reviews.html")
	first := ExtractReviews(reviews)
	second := ExtractReviews(reviews)
	require.Equal(t, first, second)
	require.Len(t, second[0].Rating, 3)
}

func TestPostersPreferLazyAttribute(t *testing.T) {
	markup := `<html><body>
		<div class="box"><h6 class="title"><a href="/1-a">A</a></h6><img class="lazy" src="eager.jpg" data-src="lazy.jpg"></div>
		<div class="film-cover"><img src="eager.jpg" data-src="lazy.jpg"></div>
		<div class="box-body"><h3 class="header">Main</h3><ul><li><b>P</b><img src="eager.jpg" data-src="lazy.jpg"></li></ul></div>
		<div class="row recs-box"><img src="eager.jpg" data-src="lazy.jpg"><b><a href="/2-b">B</a></b></div>
	</body></html>`
	doc := parseInline(t, markup)

	require.Equal(t, "lazy.jpg", ExtractSearch(doc, DefaultBaseUrl).Hits[0].Poster)
	require.Equal(t, "lazy.jpg", ExtractDetails(doc, "1-a").Poster)
	require.Equal(t, "lazy.jpg", ExtractCast(doc)[0].People[0].Image)
	require.Equal(t, "lazy.jpg", ExtractRecommendations(doc)[0].Poster)
}
