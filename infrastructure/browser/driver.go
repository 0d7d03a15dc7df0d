package browser

import (
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// driver is the slice of playwright a Session needs to come up
type driver interface {
	Launch(headless bool, args []string) (browserHandle, error)
	Stop() error
}

type browserHandle interface {
	NewContext() (contextHandle, error)
	Close() error
}

type contextHandle interface {
	NewPage() (playwright.Page, error)
	Close() error
}

// startDriver is replaced in tests
var startDriver = func() (driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	return &pwDriver{pw: pw}, nil
}

type pwDriver struct {
	pw *playwright.Playwright
}

func (d *pwDriver) Launch(headless bool, args []string) (browserHandle, error) {
	b, err := d.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     args,
	})
	if err != nil {
		return nil, err
	}
	return &pwBrowser{b: b}, nil
}

func (d *pwDriver) Stop() error {
	return d.pw.Stop()
}

type pwBrowser struct {
	b playwright.Browser
}

func (b *pwBrowser) NewContext() (contextHandle, error) {
	c, err := b.b.NewContext()
	if err != nil {
		return nil, err
	}
	return &pwContext{c: c}, nil
}

func (b *pwBrowser) Close() error {
	return b.b.Close()
}

type pwContext struct {
	c playwright.BrowserContext
}

func (c *pwContext) NewPage() (playwright.Page, error) {
	return c.c.NewPage()
}

func (c *pwContext) Close() error {
	return c.c.Close()
}

// dialogSource is the page events hook used to auto-accept dialogs
type dialogSource interface {
	OnDialog(fn func(playwright.Dialog))
}

// acceptDialogs - accepts every JS dialog raised by p
func acceptDialogs(p dialogSource, logger logrus.FieldLogger) {
	p.OnDialog(func(dialog playwright.Dialog) {
		if err := dialog.Accept(); err != nil {
			logger.WithError(err).Debugf("failed to accept %s dialog", dialog.Type())
		}
	})
}
