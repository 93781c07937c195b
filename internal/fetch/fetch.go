// Package fetch turns a url into the html of the page as a browser would render it.
//
// A Provider opens Sessions, a Session navigates. One Session is meant to serve one
// engine call, and it must be closed on every exit path.
package fetch

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/fetch")

const (
	report_session_open  = "session.open"
	report_session_close = "session.close"
	report_navigate      = "session.navigate"
	report_challenge     = "session.challenge"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultAcceptLanguage = "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
)

// Identity is the set of request headers every page source presents.
type Identity struct {
	UserAgent      string
	AcceptLanguage string
}

func (i Identity) withDefaults() Identity {
	if i.UserAgent == "" {
		i.UserAgent = DefaultUserAgent
	}
	if i.AcceptLanguage == "" {
		i.AcceptLanguage = DefaultAcceptLanguage
	}
	return i
}

func (i Identity) headers() map[string]string {
	return map[string]string{
		"Accept-Language": i.AcceptLanguage,
		"Accept":          DefaultAccept,
	}
}

// Provider hands out fresh, isolated sessions.
type Provider interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a single browsing session, it may navigate any number of times before it
// is closed.
type Session interface {
	// Navigate loads url and returns the markup once the document has loaded and any
	// anti-bot interstitial has been waited out.
	Navigate(ctx context.Context, url string) (string, error)
	Close() error
}

// Screenshotter is implemented by sessions that can capture what they currently show.
type Screenshotter interface {
	Screenshot(path string) error
}

// AsScreenshotter finds a Screenshotter in session or any session it wraps.
func AsScreenshotter(session Session) (Screenshotter, bool) {
	for session != nil {
		if s, ok := session.(Screenshotter); ok {
			return s, true
		}
		wrapper, ok := session.(interface{ Unwrap() Session })
		if !ok {
			return nil, false
		}
		session = wrapper.Unwrap()
	}
	return nil, false
}

const (
	OpLaunch   = "launch"
	OpNavigate = "navigate"
	OpContent  = "content"
)

// FetchError is returned for any failure to obtain a page.
type FetchError struct {
	URL string
	// Op is one of OpLaunch, OpNavigate or OpContent.
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is the cause of a FetchError when a page answered with a 4xx or 5xx.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected response status %s", e.Status)
}

// FetchRenderedHTML opens a session, loads url and closes the session again.
func FetchRenderedHTML(ctx context.Context, provider Provider, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "FetchRenderedHTML")
	defer span.End()

	session, err := provider.Open(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close()

	return session.Navigate(ctx, url)
}

// IsChallengeTitle reports whether a page title belongs to an anti-bot interstitial.
func IsChallengeTitle(title string) bool {
	return strings.Contains(title, "Attention Required") ||
		strings.Contains(title, "Security Check")
}
