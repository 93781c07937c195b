// Package dramas is the extraction engine: it scopes a browser session to every
// operation, fetches the pages an operation needs and hands them to the extractors.
package dramas

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dramalist-backend/internal/components/assert"
	"dramalist-backend/internal/components/telemetry"
	"dramalist-backend/internal/fetch"
	"dramalist-backend/internal/scrapers/mydramalist"
	"dramalist-backend/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("internal/dramas")

const (
	report_search_dramas              = "search-dramas"
	report_get_drama_details          = "get-drama-details"
	report_get_drama_cast             = "get-drama-cast"
	report_get_drama_recommendations  = "get-drama-recommendations"
	report_get_drama_reviews          = "get-drama-reviews"
	report_resolve_title              = "resolve-title"
	report_search_hits                = "search-dramas.hits"
	report_empty_page                 = "extract.empty"
	report_search_fallback            = "search-dramas.fallback"
	report_search_fallback_screenshot = "search-dramas.fallback-screenshot"
)

const (
	op_search_dramas             = "search dramas"
	op_get_drama_details         = "get drama details"
	op_get_drama_cast            = "get drama cast"
	op_get_drama_recommendations = "get drama recommendations"
	op_get_drama_reviews         = "get drama reviews"
	op_resolve_title             = "resolve title"
)

// Flags select which sub-pages GetDramaDetails fetches on top of the main page.
type Flags struct {
	Cast            bool
	Recommendations bool
	Reviews         bool
}

type Options struct {
	// BaseUrl defaults to mydramalist.DefaultBaseUrl.
	BaseUrl string
	// DebugDir receives a screenshot whenever a search falls back to alternative
	// selectors, nothing is written when empty.
	DebugDir string
}

type Service struct {
	provider fetch.Provider
	urls     mydramalist.Urls
	debugDir string
	tel      telemetry.API
}

func NewService(provider fetch.Provider, options Options, tel telemetry.API) Service {
	assert.NotNil(provider)
	assert.NotNil(tel)

	baseUrl := options.BaseUrl
	if baseUrl == "" {
		baseUrl = mydramalist.DefaultBaseUrl
	}
	return Service{
		provider: provider,
		urls:     mydramalist.Urls{BaseUrl: baseUrl},
		debugDir: options.DebugDir,
		tel:      telemetry.NewScopedAPI("engine", tel),
	}
}

func (s Service) fail(span trace.Span, report, op string, err error, params ...any) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.tel.ReportBroken(report, append([]any{err}, params...)...)
	return &Error{Op: op, Err: err}
}

// load navigates session to url and parses the result, every call yields a new
// Document.
func (s Service) load(ctx context.Context, session fetch.Session, url string) (htmlutil.Document, error) {
	ctx, span := tracer.Start(ctx, "load")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	markup, err := session.Navigate(ctx, url)
	if err != nil {
		return htmlutil.Document{}, err
	}
	doc, err := htmlutil.Parse(markup)
	if err != nil {
		return htmlutil.Document{}, &fetch.FetchError{URL: url, Op: fetch.OpContent, Err: err}
	}
	s.tel.ReportDebug("parsed page", url, doc.Title(), len(markup))
	return doc, nil
}

func (s Service) warnIfEmpty(count int, page, url string) {
	if count == 0 {
		s.tel.ReportWarning(report_empty_page, page, url)
	}
}

// SearchDramas returns the hits of a title search, an empty list when the page holds
// nothing recognizable.
func (s Service) SearchDramas(ctx context.Context, query string) ([]mydramalist.SearchHit, error) {
	ctx, span := tracer.Start(ctx, "SearchDramas")
	defer span.End()

	if err := validateQuery(query); err != nil {
		return nil, err
	}

	session, err := s.provider.Open(ctx)
	if err != nil {
		return nil, s.fail(span, report_search_dramas, op_search_dramas, err, query)
	}
	defer session.Close()

	url := s.urls.Search(query)
	s.tel.ReportDebug("searching", query, url)
	doc, err := s.load(ctx, session, url)
	if err != nil {
		return nil, s.fail(span, report_search_dramas, op_search_dramas, err, query)
	}

	result := mydramalist.ExtractSearch(doc, s.urls.BaseUrl)
	if result.Strategy != mydramalist.SourcePrimary {
		s.debugFallback(session, doc, query, result)
	}

	s.tel.ReportCount(report_search_hits, int64(len(result.Hits)))
	s.warnIfEmpty(len(result.Hits), "search", url)
	span.SetAttributes(attribute.Int("hits", len(result.Hits)))
	return result.Hits, nil
}

const bodySampleLength = 1000

func sample(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// debugFallback records what a page that had no result cards looked like.
func (s Service) debugFallback(session fetch.Session, doc htmlutil.Document, query string, result mydramalist.SearchResult) {
	body, _ := doc.First("body")
	s.tel.ReportWarning(
		report_search_fallback,
		query,
		result.Strategy,
		len(result.Hits),
		sample(body.HTML(), bodySampleLength),
	)

	if s.debugDir == "" {
		return
	}
	shooter, ok := fetch.AsScreenshotter(session)
	if !ok {
		return
	}
	err := os.MkdirAll(s.debugDir, 0755)
	if err != nil {
		s.tel.ReportWarning(report_search_fallback_screenshot, err)
		return
	}
	path := filepath.Join(s.debugDir, fmt.Sprintf("search-%d.png", time.Now().UnixNano()))
	err = shooter.Screenshot(path)
	if err != nil {
		s.tel.ReportWarning(report_search_fallback_screenshot, err, path)
		return
	}
	s.tel.ReportDebug("saved debug screenshot", path)
}

// GetDramaDetails returns the main page of a title, plus each sub-page selected by
// flags. Sub-pages are fetched one after the other through the same session, the
// first failure fails the whole call.
func (s Service) GetDramaDetails(ctx context.Context, id string, flags Flags) (mydramalist.Drama, error) {
	ctx, span := tracer.Start(ctx, "GetDramaDetails")
	defer span.End()
	span.SetAttributes(
		attribute.String("id", id),
		attribute.Bool("cast", flags.Cast),
		attribute.Bool("recommendations", flags.Recommendations),
		attribute.Bool("reviews", flags.Reviews),
	)

	if err := validateId(id); err != nil {
		return mydramalist.Drama{}, err
	}

	session, err := s.provider.Open(ctx)
	if err != nil {
		return mydramalist.Drama{}, s.fail(span, report_get_drama_details, op_get_drama_details, err, id)
	}
	defer session.Close()

	url := s.urls.Details(id)
	doc, err := s.load(ctx, session, url)
	if err != nil {
		return mydramalist.Drama{}, s.fail(span, report_get_drama_details, op_get_drama_details, err, id)
	}
	drama := mydramalist.ExtractDetails(doc, id)
	if drama.Title == "" {
		s.tel.ReportWarning(report_empty_page, "details", url)
	}

	if flags.Cast {
		drama.Cast, err = s.cast(ctx, session, id)
		if err != nil {
			return mydramalist.Drama{}, s.fail(span, report_get_drama_details, op_get_drama_details, err, id, "cast")
		}
	}
	if flags.Recommendations {
		drama.Recommendations, err = s.recommendations(ctx, session, id)
		if err != nil {
			return mydramalist.Drama{}, s.fail(span, report_get_drama_details, op_get_drama_details, err, id, "recommendations")
		}
	}
	if flags.Reviews {
		drama.Reviews, err = s.reviews(ctx, session, id)
		if err != nil {
			return mydramalist.Drama{}, s.fail(span, report_get_drama_details, op_get_drama_details, err, id, "reviews")
		}
	}

	return drama, nil
}

func (s Service) cast(ctx context.Context, session fetch.Session, id string) ([]mydramalist.CastGroup, error) {
	url := s.urls.Cast(id)
	doc, err := s.load(ctx, session, url)
	if err != nil {
		return nil, err
	}
	groups := mydramalist.ExtractCast(doc)
	s.warnIfEmpty(len(groups), "cast", url)
	return groups, nil
}

func (s Service) recommendations(ctx context.Context, session fetch.Session, id string) ([]mydramalist.Recommendation, error) {
	url := s.urls.Recommendations(id)
	doc, err := s.load(ctx, session, url)
	if err != nil {
		return nil, err
	}
	recommendations := mydramalist.ExtractRecommendations(doc)
	s.warnIfEmpty(len(recommendations), "recommendations", url)
	return recommendations, nil
}

func (s Service) reviews(ctx context.Context, session fetch.Session, id string) ([]mydramalist.Review, error) {
	url := s.urls.Reviews(id)
	doc, err := s.load(ctx, session, url)
	if err != nil {
		return nil, err
	}
	reviews := mydramalist.ExtractReviews(doc)
	s.warnIfEmpty(len(reviews), "reviews", url)
	return reviews, nil
}

// subPage runs a single sub-page extraction in a session of its own.
func subPage[T any](
	ctx context.Context,
	s Service,
	name, report, op, id string,
	extract func(Service, context.Context, fetch.Session, string) ([]T, error),
) ([]T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	if err := validateId(id); err != nil {
		return nil, err
	}

	session, err := s.provider.Open(ctx)
	if err != nil {
		return nil, s.fail(span, report, op, err, id)
	}
	defer session.Close()

	out, err := extract(s, ctx, session, id)
	if err != nil {
		return nil, s.fail(span, report, op, err, id)
	}
	return out, nil
}

func (s Service) GetDramaCast(ctx context.Context, id string) ([]mydramalist.CastGroup, error) {
	return subPage(ctx, s, "GetDramaCast", report_get_drama_cast, op_get_drama_cast, id, Service.cast)
}

func (s Service) GetDramaRecommendations(ctx context.Context, id string) ([]mydramalist.Recommendation, error) {
	return subPage(ctx, s, "GetDramaRecommendations", report_get_drama_recommendations, op_get_drama_recommendations, id, Service.recommendations)
}

func (s Service) GetDramaReviews(ctx context.Context, id string) ([]mydramalist.Review, error) {
	return subPage(ctx, s, "GetDramaReviews", report_get_drama_reviews, op_get_drama_reviews, id, Service.reviews)
}
