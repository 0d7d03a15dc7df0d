package interfaces

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// Scope is a DOM subtree (one element or the whole page) that can be queried
type Scope interface {
	// Locator finds elements matching a CSS selector inside the scope
	Locator(selector string) Locator

	// ByRole finds elements by ARIA role whose accessible name matches name
	ByRole(role string, name *regexp.Regexp) Locator
}

// Locator defines the element operations the flows rely on
type Locator interface {
	Scope

	// First narrows the locator to its first match
	First() Locator

	// FilterText keeps matches whose text matches the pattern
	FilterText(pattern *regexp.Regexp) Locator

	// Count returns the number of matching elements
	Count() (int, error)

	// InnerText returns the rendered text of the single match
	InnerText() (string, error)

	// AllInnerTexts returns the rendered text of every match
	AllInnerTexts() ([]string, error)

	// Click clicks the single match
	Click() error

	// Fill replaces the value of an input
	Fill(text string) error

	// Check ticks a checkbox or radio button
	Check(force bool) error

	// SelectValue selects an option by value
	SelectValue(value string) error

	// SelectLabel selects an option by its visible label
	SelectLabel(label string) error

	// WaitVisible waits until the match is visible, zero means default timeout
	WaitVisible(timeout time.Duration) error
}

// Page defines a browser page
type Page interface {
	Scope

	// Goto navigates and waits for DOM content to be loaded
	Goto(url string) error

	// URL returns the current page URL
	URL() string

	// WaitLoaded waits for DOM content to be loaded
	WaitLoaded() error

	// WaitURL waits for the page to reach the given URL
	WaitURL(url string) error

	// Screenshot saves a full page screenshot
	Screenshot(path string) error

	// AriaSnapshot returns the accessibility tree of the page as YAML
	AriaSnapshot() (string, error)
}

// Session owns one browser, context and page
type Session interface {
	Page() Page
	Close() error
}

// Launcher opens browser sessions
type Launcher interface {
	Launch(ctx context.Context, headless bool) (Session, error)
}

// ErrTimeout is returned when a wait on the page gives up
var ErrTimeout = errors.New("browser operation timed out")
