package browser

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"robotdriver/domain/interfaces"

	"github.com/playwright-community/playwright-go"
)

type page struct {
	page playwright.Page
}

// NewPage - wraps a playwright page into the driver neutral page
func NewPage(p playwright.Page) interfaces.Page {
	return &page{page: p}
}

// Locator - finds elements by CSS selector
func (p *page) Locator(selector string) interfaces.Locator {
	return &locator{loc: p.page.Locator(selector)}
}

// ByRole - finds elements by ARIA role and accessible name
func (p *page) ByRole(role string, name *regexp.Regexp) interfaces.Locator {
	opts := playwright.PageGetByRoleOptions{}
	if name != nil {
		opts.Name = name
	}
	return &locator{loc: p.page.GetByRole(playwright.AriaRole(role), opts)}
}

// Goto - navigates to the URL and waits for DOM content
func (p *page) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, wrapTimeout(err))
	}
	return nil
}

// URL - returns the current page URL
func (p *page) URL() string {
	return p.page.URL()
}

// WaitLoaded - waits for DOM content to be loaded
func (p *page) WaitLoaded() error {
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	return wrapTimeout(err)
}

// WaitURL - waits until the page reaches the URL
func (p *page) WaitURL(url string) error {
	return wrapTimeout(p.page.WaitForURL(url))
}

// Screenshot - saves a full page screenshot to path
func (p *page) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// AriaSnapshot - returns the accessibility tree of the document body as YAML
func (p *page) AriaSnapshot() (string, error) {
	return p.page.Locator("body").AriaSnapshot()
}

type locator struct {
	loc playwright.Locator
}

func (l *locator) Locator(selector string) interfaces.Locator {
	return &locator{loc: l.loc.Locator(selector)}
}

func (l *locator) ByRole(role string, name *regexp.Regexp) interfaces.Locator {
	opts := playwright.LocatorGetByRoleOptions{}
	if name != nil {
		opts.Name = name
	}
	return &locator{loc: l.loc.GetByRole(playwright.AriaRole(role), opts)}
}

func (l *locator) First() interfaces.Locator {
	return &locator{loc: l.loc.First()}
}

func (l *locator) FilterText(pattern *regexp.Regexp) interfaces.Locator {
	return &locator{loc: l.loc.Filter(playwright.LocatorFilterOptions{HasText: pattern})}
}

func (l *locator) Count() (int, error) {
	return l.loc.Count()
}

func (l *locator) InnerText() (string, error) {
	text, err := l.loc.InnerText()
	return text, wrapTimeout(err)
}

func (l *locator) AllInnerTexts() ([]string, error) {
	return l.loc.AllInnerTexts()
}

func (l *locator) Click() error {
	return wrapTimeout(l.loc.Click())
}

func (l *locator) Fill(text string) error {
	return wrapTimeout(l.loc.Fill(text))
}

func (l *locator) Check(force bool) error {
	return wrapTimeout(l.loc.Check(playwright.LocatorCheckOptions{Force: playwright.Bool(force)}))
}

func (l *locator) SelectValue(value string) error {
	_, err := l.loc.SelectOption(playwright.SelectOptionValues{Values: playwright.StringSlice(value)})
	return wrapTimeout(err)
}

func (l *locator) SelectLabel(label string) error {
	_, err := l.loc.SelectOption(playwright.SelectOptionValues{Labels: playwright.StringSlice(label)})
	return wrapTimeout(err)
}

func (l *locator) WaitVisible(timeout time.Duration) error {
	opts := playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}
	if timeout > 0 {
		opts.Timeout = playwright.Float(float64(timeout.Milliseconds()))
	}
	return wrapTimeout(l.loc.WaitFor(opts))
}

// wrapTimeout - tags playwright timeouts with interfaces.ErrTimeout
func wrapTimeout(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", interfaces.ErrTimeout, err)
	}
	return err
}
