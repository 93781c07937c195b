// Package api exposes the engine over a json REST api.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"dramalist-backend/internal/components/assert"
	"dramalist-backend/internal/components/chrono"
	"dramalist-backend/internal/components/telemetry"
	"dramalist-backend/internal/dramas"
	"dramalist-backend/internal/scrapers/mydramalist"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	report_request = "request"
	report_panic   = "panic"
)

// Engine is the set of operations the api serves.
type Engine interface {
	SearchDramas(ctx context.Context, query string) ([]mydramalist.SearchHit, error)
	GetDramaDetails(ctx context.Context, id string, flags dramas.Flags) (mydramalist.Drama, error)
	GetDramaCast(ctx context.Context, id string) ([]mydramalist.CastGroup, error)
	GetDramaRecommendations(ctx context.Context, id string) ([]mydramalist.Recommendation, error)
	GetDramaReviews(ctx context.Context, id string) ([]mydramalist.Review, error)
}

type Options struct {
	Version string
	// Clock defaults to the wall clock.
	Clock chrono.API
}

type server struct {
	engine  Engine
	tel     telemetry.API
	version string
	clock   chrono.API
}

type response struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type banner struct {
	Message       string `json:"message"`
	Documentation string `json:"documentation"`
}

type route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// New returns an echo instance with every route registered.
func New(engine Engine, tel telemetry.API, options Options) *echo.Echo {
	assert.NotNil(engine)
	assert.NotNil(tel)

	s := server{
		engine:  engine,
		tel:     telemetry.NewScopedAPI("api", tel),
		version: options.Version,
		clock:   options.Clock,
	}
	if s.version == "" {
		s.version = "1.0.0"
	}
	if s.clock == nil {
		s.clock = chrono.StandardImpl{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.tel.ReportWarning(report_request, v.RemoteIP, v.Method, v.URI, v.Status, v.Latency.String(), v.Error)
				return nil
			}
			slog.Info(
				"request",
				"remote_ip", v.RemoteIP,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.tel.ReportBroken(report_panic, err, c.Request().URL.String(), string(stack))
			return err
		},
	}))
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = s.errorHandler

	e.GET("/", s.root)
	e.GET("/api-docs", s.docs)
	e.GET("/api/health", s.health)

	dramasGroup := e.Group("/api/dramas")
	dramasGroup.GET("/search", s.searchDramas)
	dramasGroup.GET("/:id", s.getDramaDetails)
	dramasGroup.GET("/:id/cast", s.getDramaCast)
	dramasGroup.GET("/:id/recommendations", s.getDramaRecommendations)
	dramasGroup.GET("/:id/reviews", s.getDramaReviews)

	return e
}

// errorHandler writes every error in the same envelope as successful responses.
func (s server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var httpErr *echo.HTTPError
	var verr *dramas.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		message = verr.Message
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	}
	if message == "" {
		message = "Internal server error"
	}

	writeErr := c.JSON(status, failure{Success: false, Message: message})
	if writeErr != nil {
		s.tel.ReportBroken(report_request, writeErr)
	}
}

func list[T any](c echo.Context, items []T) error {
	count := len(items)
	return c.JSON(http.StatusOK, response{Success: true, Count: &count, Data: items})
}

func (s server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, banner{
		Message:       "MyDramaList Scraping API is working!",
		Documentation: "/api-docs",
	})
}

func (s server) docs(c echo.Context) error {
	routes := []route{}
	for _, r := range c.Echo().Routes() {
		routes = append(routes, route{Method: r.Method, Path: r.Path})
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	return c.JSON(http.StatusOK, response{Success: true, Data: routes})
}

func (s server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, health{
		Status:    "ok",
		Version:   s.version,
		Timestamp: s.clock.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s server) searchDramas(c echo.Context) error {
	hits, err := s.engine.SearchDramas(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return list(c, hits)
}

// flag only treats the literal "true" as set.
func flag(c echo.Context, name string) bool {
	return c.QueryParam(name) == "true"
}

func (s server) getDramaDetails(c echo.Context) error {
	drama, err := s.engine.GetDramaDetails(c.Request().Context(), c.Param("id"), dramas.Flags{
		Cast:            flag(c, "cast"),
		Recommendations: flag(c, "recommendations"),
		Reviews:         flag(c, "reviews"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: drama})
}

func (s server) getDramaCast(c echo.Context) error {
	cast, err := s.engine.GetDramaCast(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return list(c, cast)
}

func (s server) getDramaRecommendations(c echo.Context) error {
	recommendations, err := s.engine.GetDramaRecommendations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return list(c, recommendations)
}

func (s server) getDramaReviews(c echo.Context) error {
	reviews, err := s.engine.GetDramaReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return list(c, reviews)
}
