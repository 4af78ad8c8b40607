package imgtag

import (
	"context"
	"sync/atomic"
)

// Session is the per-request state of a Factory: the random counter of the
// placeholder services and the fetch memo. Reset it between requests.
type Session struct {
	random  atomic.Int64
	fetcher *Fetcher
}

// NewSession creates a session around fetcher. A nil fetcher gets an
// uncached default client.
func NewSession(fetcher *Fetcher) *Session {
	if fetcher == nil {
		fetcher = NewFetcher(nil, nil)
	}
	return &Session{fetcher: fetcher}
}

// NextRandom returns the next value of the random counter, starting at 1.
func (s *Session) NextRandom() int {
	return int(s.random.Add(1))
}

// Fetcher returns the memoizing fetcher of the session.
func (s *Session) Fetcher() *Fetcher {
	return s.fetcher
}

// Reset rewinds the random counter and clears the fetch memo.
func (s *Session) Reset(ctx context.Context) error {
	s.random.Store(0)
	return s.fetcher.Clear(ctx)
}
