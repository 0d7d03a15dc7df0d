package browser

import (
	"context"
	"fmt"
	"sync"

	"robotdriver/domain/interfaces"

	"golang.org/x/sync/semaphore"
)

// SessionObserver is told about every session that opens and closes
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

// LimitedLauncher caps how many sessions are open at the same time. Launch
// blocks until a slot frees up or ctx is done.
type LimitedLauncher struct {
	next     interfaces.Launcher
	sem      *semaphore.Weighted
	observer SessionObserver
}

// NewLimitedLauncher - wraps next with a limit of max open sessions; observer may be nil
func NewLimitedLauncher(next interfaces.Launcher, max int, observer SessionObserver) *LimitedLauncher {
	if max < 1 {
		max = 1
	}
	return &LimitedLauncher{
		next:     next,
		sem:      semaphore.NewWeighted(int64(max)),
		observer: observer,
	}
}

func (l *LimitedLauncher) Launch(ctx context.Context, headless bool) (interfaces.Session, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a free browser slot: %w", err)
	}
	s, err := l.next.Launch(ctx, headless)
	if err != nil {
		l.sem.Release(1)
		return nil, err
	}
	if l.observer != nil {
		l.observer.SessionOpened()
	}
	return &limitedSession{Session: s, release: l.release}, nil
}

func (l *LimitedLauncher) release() {
	if l.observer != nil {
		l.observer.SessionClosed()
	}
	l.sem.Release(1)
}

type limitedSession struct {
	interfaces.Session
	release func()
	once    sync.Once
}

func (s *limitedSession) Close() error {
	err := s.Session.Close()
	s.once.Do(s.release)
	return err
}

var _ interfaces.Launcher = (*LimitedLauncher)(nil)
