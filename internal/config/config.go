// Package config holds the settings shared by every entrypoint.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dramalist-backend/internal/components/telemetry"
	"dramalist-backend/internal/dramas"
	"dramalist-backend/internal/fetch"
	"dramalist-backend/internal/scrapers/mydramalist"
	"dramalist-backend/lib/configutil"
	libtelemetry "dramalist-backend/lib/telemetry"
)

const (
	FetcherBrowser = "browser"
	FetcherHTTP    = "http"

	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Browser struct {
	// Environment is "development" or "production".
	Environment          string   `json:"environment"`
	ExecutablePath       string   `json:"executable_path"`
	Args                 []string `json:"args"`
	UserAgent            string   `json:"user_agent"`
	AcceptLanguage       string   `json:"accept_language"`
	Viewport             Viewport `json:"viewport"`
	ChallengeWaitSeconds int      `json:"challenge_wait_seconds"`
	ChallengePollMillis  int      `json:"challenge_poll_millis"`
}

type HTTP struct {
	TimeoutSeconds int `json:"timeout_seconds"`
}

type Server struct {
	Port int `json:"port"`
}

type Config struct {
	BaseUrl string `json:"base_url"`
	// Fetcher is "browser" or "http".
	Fetcher string `json:"fetcher"`
	// MaxSessions bounds concurrently open sessions, 0 means unbounded.
	MaxSessions int64               `json:"max_sessions"`
	DebugDir    string              `json:"debug_dir"`
	Browser     Browser             `json:"browser"`
	HTTP        HTTP                `json:"http"`
	Server      Server              `json:"server"`
	Telemetry   libtelemetry.Config `json:"telemetry"`
}

func Defaults() Config {
	return Config{
		BaseUrl: mydramalist.DefaultBaseUrl,
		Fetcher: FetcherBrowser,
		Browser: Browser{
			Environment:          EnvironmentDevelopment,
			UserAgent:            fetch.DefaultUserAgent,
			AcceptLanguage:       fetch.DefaultAcceptLanguage,
			Viewport:             Viewport{Width: 1920, Height: 1080},
			ChallengeWaitSeconds: int(fetch.DefaultChallengeWait / time.Second),
			ChallengePollMillis:  int(fetch.DefaultChallengePoll / time.Millisecond),
		},
		HTTP:   HTTP{TimeoutSeconds: 30},
		Server: Server{Port: 3000},
	}
}

// Load reads `path` (and its .local override) over Defaults, then applies the
// environment.
func Load(path string) (Config, error) {
	config, err := configutil.ReadConfigWithDefaults(path, Defaults())
	if err != nil {
		return Config{}, err
	}
	err = config.applyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, key := range []string{"NODE_ENV", "APP_ENV"} {
		if value, ok := lookup(key); ok && value == EnvironmentProduction {
			c.Browser.Environment = EnvironmentProduction
		}
	}
	if path, ok := lookup("CHROMIUM_PATH"); ok && path != "" {
		c.Browser.ExecutablePath = path
	}
	if port, ok := lookup("PORT"); ok && port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = parsed
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Fetcher {
	case FetcherBrowser, FetcherHTTP:
	default:
		return fmt.Errorf("unknown fetcher %q, expected %q or %q", c.Fetcher, FetcherBrowser, FetcherHTTP)
	}
	switch c.Browser.Environment {
	case EnvironmentDevelopment, EnvironmentProduction:
	default:
		return fmt.Errorf("unknown browser environment %q", c.Browser.Environment)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func (c Config) Production() bool {
	return c.Browser.Environment == EnvironmentProduction
}

func (c Config) identity() fetch.Identity {
	return fetch.Identity{
		UserAgent:      c.Browser.UserAgent,
		AcceptLanguage: c.Browser.AcceptLanguage,
	}
}

func (c Config) BrowserOptions() fetch.BrowserOptions {
	return fetch.BrowserOptions{
		Production:     c.Production(),
		ExecutablePath: c.Browser.ExecutablePath,
		Args:           c.Browser.Args,
		Identity:       c.identity(),
		ViewportWidth:  c.Browser.Viewport.Width,
		ViewportHeight: c.Browser.Viewport.Height,
		Challenge: fetch.ChallengeWait{
			Max:  time.Duration(c.Browser.ChallengeWaitSeconds) * time.Second,
			Poll: time.Duration(c.Browser.ChallengePollMillis) * time.Millisecond,
		},
	}
}

func (c Config) HTTPOptions() fetch.HTTPOptions {
	return fetch.HTTPOptions{
		Identity: c.identity(),
		Timeout:  time.Duration(c.HTTP.TimeoutSeconds) * time.Second,
	}
}

// Provider builds the page source selected by Fetcher, bounded by MaxSessions.
func (c Config) Provider(tel telemetry.API) fetch.Provider {
	var provider fetch.Provider
	switch c.Fetcher {
	case FetcherHTTP:
		provider = fetch.NewHTTPProvider(c.HTTPOptions(), tel)
	default:
		provider = fetch.NewBrowserProvider(c.BrowserOptions(), tel)
	}
	return fetch.Limit(provider, c.MaxSessions)
}

func (c Config) EngineOptions() dramas.Options {
	return dramas.Options{
		BaseUrl:  c.BaseUrl,
		DebugDir: c.DebugDir,
	}
}

// NewService wires a ready to use engine out of c.
func (c Config) NewService(tel telemetry.API) dramas.Service {
	return dramas.NewService(c.Provider(tel), c.EngineOptions(), tel)
}
