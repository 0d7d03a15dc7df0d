package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"robotdriver/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout is applied to page operations when Options.Timeout is zero
const DefaultTimeout = 15 * time.Second

// Options configures a browser session
type Options struct {
	Headless bool
	Timeout  time.Duration
	Args     []string
}

type resource struct {
	name  string
	close func() error
}

// Session owns a playwright driver, a chromium browser, a fresh context and one page
type Session struct {
	page      interfaces.Page
	resources []resource
	logger    logrus.FieldLogger
	closeOnce sync.Once
}

var defaultArgs = []string{
	"--disable-dev-shm-usage",
	"--no-sandbox",
	"--disable-setuid-sandbox",
}

// Open - starts playwright, launches chromium and opens one page
func Open(ctx context.Context, opts Options, logger logrus.FieldLogger) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Args == nil {
		opts.Args = defaultArgs
	}

	s := &Session{logger: logger}

	drv, err := startDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	s.push("playwright", drv.Stop)

	browser, err := drv.Launch(opts.Headless, opts.Args)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	s.push("browser", browser.Close)

	bctx, err := browser.NewContext()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	s.push("context", bctx.Close)

	p, err := bctx.NewPage()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	p.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	acceptDialogs(p, logger)

	s.page = NewPage(p)
	logger.WithField("headless", opts.Headless).Debug("browser session opened")
	return s, nil
}

// push - registers a resource; resources are released in reverse order
func (s *Session) push(name string, closeFn func() error) {
	s.resources = append(s.resources, resource{name: name, close: closeFn})
}

// Page - returns the session page
func (s *Session) Page() interfaces.Page {
	return s.page
}

// Close - releases context, browser and driver, continuing past failures
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		for i := len(s.resources) - 1; i >= 0; i-- {
			r := s.resources[i]
			if err := r.close(); err != nil && !isClosedErr(err) {
				s.logger.WithError(err).Debugf("failed to close %s", r.name)
			}
		}
		s.resources = nil
	})
	return nil
}

func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

// Launcher opens playwright sessions with shared options
type Launcher struct {
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// NewLauncher - creates new session launcher
func NewLauncher(timeout time.Duration, logger logrus.FieldLogger) *Launcher {
	return &Launcher{Timeout: timeout, Logger: logger}
}

// Launch - opens a new session in the requested mode
func (l *Launcher) Launch(ctx context.Context, headless bool) (interfaces.Session, error) {
	s, err := Open(ctx, Options{Headless: headless, Timeout: l.Timeout}, l.Logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

var _ interfaces.Launcher = (*Launcher)(nil)
