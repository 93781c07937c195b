package dramas

import (
	"context"
	"strings"

	"dramalist-backend/internal/scrapers/mydramalist"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
)

// ResolveTitle searches for title and returns the hit whose title is closest to it
// along with their similarity (0 to 1).
func (s Service) ResolveTitle(ctx context.Context, title string) (mydramalist.SearchHit, float64, error) {
	ctx, span := tracer.Start(ctx, "ResolveTitle")
	defer span.End()

	hits, err := s.SearchDramas(ctx, title)
	if err != nil {
		span.RecordError(err)
		return mydramalist.SearchHit{}, 0, err
	}

	target := strings.ToLower(strings.TrimSpace(title))
	var best mydramalist.SearchHit
	bestSimilarity := -1.0
	for _, hit := range hits {
		similarity := matchr.JaroWinkler(target, strings.ToLower(hit.Title), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = hit
		}
	}
	if bestSimilarity < 0 {
		return mydramalist.SearchHit{}, 0, s.fail(span, report_resolve_title, op_resolve_title, ErrNoMatch, title)
	}

	span.SetAttributes(
		attribute.String("match", best.Title),
		attribute.Float64("similarity", bestSimilarity),
	)
	return best, bestSimilarity, nil
}
