package fetch

import (
	"context"
	"net/http/cookiejar"
	"time"

	"dramalist-backend/internal/components/assert"
	"dramalist-backend/internal/components/telemetry"
	libtelemetry "dramalist-backend/lib/telemetry"
	"dramalist-backend/pkg/htmlutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

type HTTPOptions struct {
	Identity Identity
	Timeout  time.Duration
}

// HTTPProvider fetches pages without a browser. Scripts never run, so it only sees
// what the server sends and it cannot wait out an interstitial.
type HTTPProvider struct {
	options HTTPOptions
	tel     telemetry.API
}

func NewHTTPProvider(options HTTPOptions, tel telemetry.API) HTTPProvider {
	assert.NotNil(tel)
	if options.Timeout <= 0 {
		options.Timeout = 30 * time.Second
	}
	options.Identity = options.Identity.withDefaults()
	return HTTPProvider{
		options: options,
		tel:     telemetry.NewScopedAPI("http", tel),
	}
}

func (p HTTPProvider) Open(ctx context.Context) (Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		p.tel.ReportBroken(report_session_open, err)
		return nil, &FetchError{Op: OpLaunch, Err: err}
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", p.options.Identity.UserAgent)
	client.SetHeaders(p.options.Identity.headers())
	client.SetTimeout(p.options.Timeout)

	telemetry.InstrumentResty(client, p.tel)
	libtelemetry.TraceResty(client, "internal/fetch/http")

	return &httpSession{client: client, tel: p.tel}, nil
}

type httpSession struct {
	client *resty.Client
	tel    telemetry.API
}

func (s *httpSession) Navigate(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "httpSession.Navigate")
	defer span.End()

	res, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		s.tel.ReportBroken(report_navigate, url, err)
		return "", &FetchError{URL: url, Op: OpNavigate, Err: err}
	}
	if res.IsError() {
		return "", &FetchError{
			URL: url,
			Op:  OpNavigate,
			Err: &HTTPStatusError{
				StatusCode: res.StatusCode(),
				Status:     res.Status(),
			},
		}
	}

	content := res.String()
	doc, err := htmlutil.Parse(content)
	if err != nil {
		return "", &FetchError{URL: url, Op: OpContent, Err: err}
	}
	title := doc.Title()
	if IsChallengeTitle(title) {
		s.tel.ReportWarning(report_challenge, url, title, "static fetch cannot wait")
	}
	s.tel.ReportDebug("page loaded", url, title, len(content))
	return content, nil
}

func (s *httpSession) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
