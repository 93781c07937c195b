package commands

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"dramalist-backend/internal/scrapers/mydramalist"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var stdout io.Writer = os.Stdout

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(stdout)
	return t
}

func printJSON(value any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func truncate(s string, n int) string {
	return text.Trim(strings.Join(strings.Fields(s), " "), n)
}

func renderSearchHits(hits []mydramalist.SearchHit) {
	t := newTable()
	t.AppendHeader(table.Row{"Id", "Title", "Year", "Type", "Countries", "Score", "Source"})
	for _, hit := range hits {
		t.AppendRow(table.Row{
			hit.Id,
			hit.Title,
			hit.Year,
			hit.Type,
			strings.Join(hit.Countries, ", "),
			hit.Score,
			hit.Source,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(hits)})
	t.Render()
}

func renderDrama(drama mydramalist.Drama) {
	t := newTable()
	t.SetTitle(drama.Title)
	t.AppendRows([]table.Row{
		{"Id", drama.Id},
		{"Native title", drama.NativeTitle},
		{"Poster", drama.Poster},
		{"Genres", strings.Join(drama.Genres, ", ")},
		{"Tags", strings.Join(drama.Tags, ", ")},
		{"Synopsis", truncate(drama.Synopsis, 120)},
	})
	t.AppendSeparator()
	labels := make([]string, 0, len(drama.Info))
	for label := range drama.Info {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		t.AppendRow(table.Row{label, drama.Info[label]})
	}
	t.Render()

	if len(drama.Cast) > 0 {
		renderCast(drama.Cast)
	}
	if len(drama.Recommendations) > 0 {
		renderRecommendations(drama.Recommendations)
	}
	if len(drama.Reviews) > 0 {
		renderReviews(drama.Reviews)
	}
}

func renderCast(groups []mydramalist.CastGroup) {
	t := newTable()
	t.AppendHeader(table.Row{"Category", "Name", "Image"})
	for _, group := range groups {
		if len(group.People) == 0 {
			t.AppendRow(table.Row{group.Category, "", ""})
			continue
		}
		for _, person := range group.People {
			t.AppendRow(table.Row{group.Category, person.Name, person.Image})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	t.Render()
}

func renderRecommendations(recommendations []mydramalist.Recommendation) {
	t := newTable()
	t.AppendHeader(table.Row{"Id", "Title", "Summary"})
	for _, rec := range recommendations {
		t.AppendRow(table.Row{rec.Id, rec.Title, truncate(rec.Summary, 80)})
	}
	t.Render()
}

func renderReviews(reviews []mydramalist.Review) {
	t := newTable()
	t.AppendHeader(table.Row{"User", "Status", "Votes", "Ratings", "Review"})
	for _, review := range reviews {
		ratings := make([]string, 0, len(review.Rating))
		for _, rating := range review.Rating {
			ratings = append(ratings, rating.Category+" "+rating.Stars)
		}
		t.AppendRow(table.Row{
			review.User,
			review.WatchStatus,
			review.NumberOfVotes,
			strings.Join(ratings, "\n"),
			truncate(review.Review, 80),
		})
	}
	t.Render()
}
