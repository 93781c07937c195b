// Package telemetry is the reporting surface every component of the engine talks to.
// Components never log directly, they report through an API so tests can assert on
// what was reported.
package telemetry

import (
	"fmt"

	"dramalist-backend/internal/components/assert"
)

// API receives everything a component wants to tell an operator.
//
// An `id` names the component and the operation that reported, lowercase with dashes
// between words and dots between levels, ex. `get-drama-cast` or `session.navigate`.
// What happened (the url, the error, the selector) goes into params, never into the id.
//
// note: fault injection point
type API interface {
	// ReportBroken is for failures an operator has to act on: a page that could not be
	// fetched, a browser that did not launch.
	ReportBroken(id string, params ...any)

	// ReportWarning is for degraded results that are still served: a search that fell
	// back to alternative selectors, a page that yielded no records.
	ReportWarning(id string, params ...any)

	// ReportDebug traces progress (urls, page titles, content sizes) and is dropped
	// outside of verbose runs.
	ReportDebug(msg string, params ...any)

	// ReportCount is a point-in-time sample, ex. the number of hits a search produced.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (and debug message) it forwards with a namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	assert.NotEmptyStr(namespace)
	assert.NotNil(inner)
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
