package fetch

import (
	"context"
	"errors"

	"dramalist-backend/internal/components/assert"
	"dramalist-backend/internal/components/telemetry"

	"github.com/playwright-community/playwright-go"
)

// DevelopmentArgs are passed to the bundled Chromium outside of production.
var DevelopmentArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-accelerated-2d-canvas",
	"--disable-gpu",
	"--window-size=1920x1080",
}

// ProductionArgs are passed to the Chromium found at ExecutablePath in production.
var ProductionArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--no-zygote",
	"--single-process",
	"--hide-scrollbars",
}

type BrowserOptions struct {
	// Production selects the explicit executable, the production args and lenient
	// https handling.
	Production     bool
	ExecutablePath string
	// Args replaces DevelopmentArgs or ProductionArgs when set.
	Args           []string
	Identity       Identity
	ViewportWidth  int
	ViewportHeight int
	Challenge      ChallengeWait
}

// LaunchOptions returns the Chromium launch options for o.
func (o BrowserOptions) LaunchOptions() playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     DevelopmentArgs,
	}
	if o.Production {
		opts.Args = ProductionArgs
		if o.ExecutablePath != "" {
			opts.ExecutablePath = playwright.String(o.ExecutablePath)
		}
	}
	if len(o.Args) > 0 {
		opts.Args = o.Args
	}
	return opts
}

// ContextOptions returns the options of the browser context every page lives in.
func (o BrowserOptions) ContextOptions() playwright.BrowserNewContextOptions {
	identity := o.Identity.withDefaults()
	width, height := o.ViewportWidth, o.ViewportHeight
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}
	opts := playwright.BrowserNewContextOptions{
		UserAgent:        playwright.String(identity.UserAgent),
		Viewport:         &playwright.Size{Width: width, Height: height},
		ExtraHttpHeaders: identity.headers(),
	}
	if o.Production {
		opts.IgnoreHttpsErrors = playwright.Bool(true)
	}
	return opts
}

// BrowserProvider launches a headless Chromium per session.
type BrowserProvider struct {
	options BrowserOptions
	tel     telemetry.API
}

func NewBrowserProvider(options BrowserOptions, tel telemetry.API) BrowserProvider {
	assert.NotNil(tel)
	return BrowserProvider{
		options: options,
		tel:     telemetry.NewScopedAPI("browser", tel),
	}
}

func (p BrowserProvider) Open(ctx context.Context) (Session, error) {
	_, span := tracer.Start(ctx, "BrowserProvider.Open")
	defer span.End()

	var cleanups []func() error
	abort := func(err error) (Session, error) {
		release(cleanups)
		p.tel.ReportBroken(report_session_open, err)
		return nil, &FetchError{Op: OpLaunch, Err: err}
	}

	pw, err := playwright.Run()
	if err != nil {
		return abort(err)
	}
	cleanups = append(cleanups, pw.Stop)

	browser, err := pw.Chromium.Launch(p.options.LaunchOptions())
	if err != nil {
		return abort(err)
	}
	cleanups = append(cleanups, func() error { return browser.Close() })

	bctx, err := browser.NewContext(p.options.ContextOptions())
	if err != nil {
		return abort(err)
	}
	cleanups = append(cleanups, func() error { return bctx.Close() })

	page, err := bctx.NewPage()
	if err != nil {
		return abort(err)
	}

	p.tel.ReportDebug("browser launched", p.options.Production)
	return &browserSession{
		page:     page,
		cleanups: cleanups,
		wait:     p.options.Challenge,
		tel:      p.tel,
	}, nil
}

// release runs cleanups last to first and joins their errors.
func release(cleanups []func() error) error {
	errs := make([]error, 0, len(cleanups))
	for i := len(cleanups) - 1; i >= 0; i-- {
		errs = append(errs, cleanups[i]())
	}
	return errors.Join(errs...)
}

type browserSession struct {
	page     playwright.Page
	cleanups []func() error
	wait     ChallengeWait
	tel      telemetry.API
}

func (s *browserSession) Navigate(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "browserSession.Navigate")
	defer span.End()

	s.tel.ReportDebug("navigating", url)
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(0),
	})
	if err != nil {
		s.tel.ReportBroken(report_navigate, url, err)
		return "", &FetchError{URL: url, Op: OpNavigate, Err: err}
	}

	title, err := s.page.Title()
	if err != nil {
		s.tel.ReportBroken(report_navigate, url, err)
		return "", &FetchError{URL: url, Op: OpContent, Err: err}
	}
	title = waitOutChallenge(ctx, s.tel, url, s.page.Title, s.wait, title)

	content, err := s.page.Content()
	if err != nil {
		s.tel.ReportBroken(report_navigate, url, err)
		return "", &FetchError{URL: url, Op: OpContent, Err: err}
	}
	s.tel.ReportDebug("page loaded", url, title, len(content))
	return content, nil
}

func (s *browserSession) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	return err
}

func (s *browserSession) Close() error {
	err := release(s.cleanups)
	if err != nil {
		s.tel.ReportWarning(report_session_close, err)
	}
	return err
}
