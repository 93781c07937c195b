package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	pages       map[string]string
	fail        error
	closed      *atomic.Int32
	screenshots []string
}

func (s *fakeSession) Navigate(ctx context.Context, url string) (string, error) {
	if s.fail != nil {
		return "", &FetchError{URL: url, Op: OpNavigate, Err: s.fail}
	}
	return s.pages[url], nil
}

func (s *fakeSession) Screenshot(path string) error {
	s.screenshots = append(s.screenshots, path)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed.Add(1)
	return nil
}

type fakeProvider struct {
	pages   map[string]string
	fail    error
	openErr error
	opened  atomic.Int32
	closed  atomic.Int32
}

func (p *fakeProvider) Open(ctx context.Context) (Session, error) {
	if p.openErr != nil {
		return nil, &FetchError{Op: OpLaunch, Err: p.openErr}
	}
	p.opened.Add(1)
	return &fakeSession{pages: p.pages, fail: p.fail, closed: &p.closed}, nil
}

func TestIsChallengeTitle(t *testing.T) {
	table := []struct {
		title    string
		expected bool
	}{
		{title: "Attention Required! | Cloudflare", expected: true},
		{title: "Security Check", expected: true},
		{title: "Just a moment...", expected: false},
		{title: "Goblin - MyDramaList", expected: false},
		{title: "", expected: false},
	}
	for _, test := range table {
		require.Equal(t, test.expected, IsChallengeTitle(test.title), test.title)
	}
}

func TestFetchRenderedHTML(t *testing.T) {
	provider := &fakeProvider{pages: map[string]string{
		"https://mydramalist.com/18452-goblin": "<html><title>Goblin</title></html>",
	}}

	html, err := FetchRenderedHTML(context.Background(), provider, "https://mydramalist.com/18452-goblin")
	require.NoError(t, err)
	require.Equal(t, "<html><title>Goblin</title></html>", html)
	require.EqualValues(t, 1, provider.opened.Load())
	require.EqualValues(t, 1, provider.closed.Load())
}

func TestFetchRenderedHTMLClosesOnFailure(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED")
	provider := &fakeProvider{fail: cause}

	_, err := FetchRenderedHTML(context.Background(), provider, "https://mydramalist.com/search?q=x")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, OpNavigate, fetchErr.Op)
	require.Equal(t, "https://mydramalist.com/search?q=x", fetchErr.URL)
	require.ErrorIs(t, err, cause)
	require.EqualValues(t, 1, provider.closed.Load())
}

func TestFetchRenderedHTMLLaunchFailure(t *testing.T) {
	provider := &fakeProvider{openErr: errors.New("chromium not found")}

	_, err := FetchRenderedHTML(context.Background(), provider, "https://mydramalist.com")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, OpLaunch, fetchErr.Op)
	require.EqualValues(t, 0, provider.closed.Load())
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{
		URL: "https://mydramalist.com/1-x",
		Op:  OpNavigate,
		Err: &HTTPStatusError{StatusCode: 404, Status: "404 Not Found"},
	}
	require.Equal(t, "navigate https://mydramalist.com/1-x: unexpected response status 404 Not Found", err.Error())

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, 404, statusErr.StatusCode)

	require.Equal(t, "launch: boom", (&FetchError{Op: OpLaunch, Err: errors.New("boom")}).Error())
}

func TestAsScreenshotter(t *testing.T) {
	provider := &fakeProvider{}
	session, err := Limit(provider, 1).Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	shooter, ok := AsScreenshotter(session)
	require.True(t, ok)
	require.NoError(t, shooter.Screenshot("debug.png"))

	_, ok = AsScreenshotter(&httpSession{})
	require.False(t, ok)
}
