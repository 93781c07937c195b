package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Limit bounds how many sessions of provider may be open at once, Open blocks until
// a slot frees up or ctx is done. n <= 0 leaves provider unbounded.
func Limit(provider Provider, n int64) Provider {
	if n <= 0 {
		return provider
	}
	return limitedProvider{
		inner: provider,
		sem:   semaphore.NewWeighted(n),
	}
}

type limitedProvider struct {
	inner Provider
	sem   *semaphore.Weighted
}

func (p limitedProvider) Open(ctx context.Context) (Session, error) {
	err := p.sem.Acquire(ctx, 1)
	if err != nil {
		return nil, &FetchError{Op: OpLaunch, Err: err}
	}
	session, err := p.inner.Open(ctx)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}
	return &limitedSession{Session: session, sem: p.sem}, nil
}

type limitedSession struct {
	Session
	sem  *semaphore.Weighted
	once sync.Once
}

func (s *limitedSession) Unwrap() Session {
	return s.Session
}

func (s *limitedSession) Close() error {
	err := s.Session.Close()
	s.once.Do(func() { s.sem.Release(1) })
	return err
}
