// Package browsertest provides a scriptable in-memory page for tests.
//
// Elements are addressed by the query key the code under test builds:
// a CSS selector for Locator, "role=<role>[<name pattern>]" for ByRole,
// "<parent> >> <child>" for nested queries and "<key> >> filter=<pattern>"
// for FilterText. First() keeps the key but lifts strict mode: actions on a
// locator that was not narrowed with First() fail when Count is above one.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"robotdriver/domain/interfaces"
)

// ErrStrictMode is returned by actions on a locator matching several elements
var ErrStrictMode = errors.New("strict mode violation")

// Element is the scripted state behind one query key
type Element struct {
	Count    int
	Text     string
	Texts    []string
	Err      error // returned by Count, InnerText and AllInnerTexts
	ClickErr error
	FillErr  error
	WaitErr  error
	OnClick  func(p *Page)
}

// Page is a fake interfaces.Page
type Page struct {
	mu            sync.Mutex
	Elements      map[string]*Element
	Calls         []string
	CurrentURL    string
	Snapshot      string
	GotoErr       error
	OnGoto        func(p *Page, url string)
	WaitURLErr    error
	ScreenshotErr error
}

// NewPage - creates an empty fake page
func NewPage() *Page {
	return &Page{Elements: make(map[string]*Element)}
}

// Set - scripts the element behind key
func (p *Page) Set(key string, el *Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Elements[key] = el
	return p
}

// SetText - scripts a single visible element with text
func (p *Page) SetText(key, text string) *Page {
	return p.Set(key, &Element{Count: 1, Text: text, Texts: []string{text}})
}

// Remove - deletes the element behind key
func (p *Page) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Elements, key)
}

// Called - reports whether call was recorded
func (p *Page) Called(call string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.Calls {
		if c == call {
			return true
		}
	}
	return false
}

func (p *Page) record(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

func (p *Page) element(key string) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Elements[key]
}

// RoleKey - builds the query key used for ByRole lookups
func RoleKey(role string, name *regexp.Regexp) string {
	if name == nil {
		return "role=" + role
	}
	return fmt.Sprintf("role=%s[%s]", role, name.String())
}

func (p *Page) Locator(selector string) interfaces.Locator {
	return &Locator{page: p, key: selector}
}

func (p *Page) ByRole(role string, name *regexp.Regexp) interfaces.Locator {
	return &Locator{page: p, key: RoleKey(role, name)}
}

func (p *Page) Goto(url string) error {
	p.record("goto %s", url)
	if p.GotoErr != nil {
		return p.GotoErr
	}
	p.CurrentURL = url
	if p.OnGoto != nil {
		p.OnGoto(p, url)
	}
	return nil
}

func (p *Page) URL() string {
	return p.CurrentURL
}

func (p *Page) WaitLoaded() error {
	p.record("wait loaded")
	return nil
}

func (p *Page) WaitURL(url string) error {
	p.record("wait url %s", url)
	return p.WaitURLErr
}

func (p *Page) Screenshot(path string) error {
	p.record("screenshot %s", path)
	return p.ScreenshotErr
}

func (p *Page) AriaSnapshot() (string, error) {
	return p.Snapshot, nil
}

// Locator is a fake interfaces.Locator
type Locator struct {
	page  *Page
	key   string
	first bool
}

// Key - returns the query key of the locator
func (l *Locator) Key() string {
	return l.key
}

func (l *Locator) Locator(selector string) interfaces.Locator {
	return &Locator{page: l.page, key: l.key + " >> " + selector}
}

func (l *Locator) ByRole(role string, name *regexp.Regexp) interfaces.Locator {
	return &Locator{page: l.page, key: l.key + " >> " + RoleKey(role, name)}
}

// Strict - reports whether actions on l require a single match
func (l *Locator) Strict() bool {
	return !l.first
}

func (l *Locator) First() interfaces.Locator {
	return &Locator{page: l.page, key: l.key, first: true}
}

func (l *Locator) FilterText(pattern *regexp.Regexp) interfaces.Locator {
	return &Locator{page: l.page, key: l.key + " >> filter=" + pattern.String()}
}

func (l *Locator) Count() (int, error) {
	el := l.page.element(l.key)
	if el == nil {
		return 0, nil
	}
	return el.Count, el.Err
}

func (l *Locator) InnerText() (string, error) {
	el := l.page.element(l.key)
	if el == nil || el.Count == 0 {
		return "", fmt.Errorf("%w: no element for %s", interfaces.ErrTimeout, l.key)
	}
	if err := l.single(el); err != nil {
		return "", err
	}
	return el.Text, el.Err
}

func (l *Locator) AllInnerTexts() ([]string, error) {
	el := l.page.element(l.key)
	if el == nil {
		return nil, nil
	}
	return el.Texts, el.Err
}

func (l *Locator) Click() error {
	l.page.record("click %s", l.key)
	el := l.page.element(l.key)
	if el == nil || el.Count == 0 {
		return fmt.Errorf("%w: no element for %s", interfaces.ErrTimeout, l.key)
	}
	if err := l.single(el); err != nil {
		return err
	}
	if el.ClickErr != nil {
		return el.ClickErr
	}
	if el.OnClick != nil {
		el.OnClick(l.page)
	}
	return nil
}

func (l *Locator) Fill(text string) error {
	l.page.record("fill %s=%s", l.key, text)
	el := l.page.element(l.key)
	if el == nil || el.Count == 0 {
		return fmt.Errorf("%w: no element for %s", interfaces.ErrTimeout, l.key)
	}
	if err := l.single(el); err != nil {
		return err
	}
	return el.FillErr
}

func (l *Locator) Check(force bool) error {
	l.page.record("check %s force=%t", l.key, force)
	return l.present()
}

func (l *Locator) SelectValue(value string) error {
	l.page.record("select %s=%s", l.key, value)
	return l.present()
}

func (l *Locator) SelectLabel(label string) error {
	l.page.record("select %s label=%s", l.key, label)
	return l.present()
}

func (l *Locator) WaitVisible(timeout time.Duration) error {
	l.page.record("wait visible %s", l.key)
	el := l.page.element(l.key)
	if el == nil || el.Count == 0 {
		return fmt.Errorf("%w: waiting for %s", interfaces.ErrTimeout, l.key)
	}
	if err := l.single(el); err != nil {
		return err
	}
	return el.WaitErr
}

func (l *Locator) present() error {
	el := l.page.element(l.key)
	if el == nil || el.Count == 0 {
		return fmt.Errorf("%w: no element for %s", interfaces.ErrTimeout, l.key)
	}
	return l.single(el)
}

func (l *Locator) single(el *Element) error {
	if l.first || el.Count <= 1 {
		return nil
	}
	return fmt.Errorf("%w: %s resolved to %d elements", ErrStrictMode, l.key, el.Count)
}

// Session is a fake interfaces.Session
type Session struct {
	FakePage *Page
	Closed   bool
}

func (s *Session) Page() interfaces.Page {
	return s.FakePage
}

func (s *Session) Close() error {
	s.Closed = true
	return nil
}

// Launcher hands out one fake session per launch
type Launcher struct {
	mu       sync.Mutex
	NewPage  func() *Page
	Err      error
	Sessions []*Session
	Headless []bool
}

func (l *Launcher) Launch(ctx context.Context, headless bool) (interfaces.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Headless = append(l.Headless, headless)
	if l.Err != nil {
		return nil, l.Err
	}
	p := NewPage()
	if l.NewPage != nil {
		p = l.NewPage()
	}
	s := &Session{FakePage: p}
	l.Sessions = append(l.Sessions, s)
	return s, nil
}

var (
	_ interfaces.Page     = (*Page)(nil)
	_ interfaces.Locator  = (*Locator)(nil)
	_ interfaces.Launcher = (*Launcher)(nil)
)
