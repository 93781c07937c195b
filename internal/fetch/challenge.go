package fetch

import (
	"context"
	"time"

	"dramalist-backend/internal/components/telemetry"
)

const (
	DefaultChallengeWait = 10 * time.Second
	DefaultChallengePoll = time.Second
)

// ChallengeWait bounds how long a session waits for an interstitial to clear.
type ChallengeWait struct {
	Max  time.Duration
	Poll time.Duration
}

func (w ChallengeWait) withDefaults() ChallengeWait {
	if w.Max <= 0 {
		w.Max = DefaultChallengeWait
	}
	if w.Poll <= 0 {
		w.Poll = DefaultChallengePoll
	}
	return w
}

// waitOutChallenge re-reads the page title every Poll until it stops looking like an
// interstitial, Max elapses or ctx is done. It returns the last title it saw, an
// interstitial that never clears is not an error, the caller reads whatever content
// the page holds.
func waitOutChallenge(
	ctx context.Context,
	tel telemetry.API,
	url string,
	title func() (string, error),
	wait ChallengeWait,
	initial string,
) string {
	if !IsChallengeTitle(initial) {
		return initial
	}
	wait = wait.withDefaults()
	tel.ReportWarning(report_challenge, url, initial, wait.Max.String())

	deadline := time.NewTimer(wait.Max)
	defer deadline.Stop()
	ticker := time.NewTicker(wait.Poll)
	defer ticker.Stop()

	current := initial
	for {
		select {
		case <-ctx.Done():
			return current
		case <-deadline.C:
			tel.ReportDebug("challenge still present after wait", url, current)
			return current
		case <-ticker.C:
			next, err := title()
			if err != nil {
				tel.ReportDebug("failed to read title while waiting", url, err)
				continue
			}
			current = next
			if !IsChallengeTitle(current) {
				tel.ReportDebug("challenge cleared", url, current)
				return current
			}
		}
	}
}
