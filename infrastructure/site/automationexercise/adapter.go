// Package automationexercise drives the demo shop at automationexercise.com.
package automationexercise

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"robotdriver/application/pricing"
	"robotdriver/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	BaseURL      = "https://automationexercise.com"
	LoginPath    = "/login"
	ProductsPath = "/products"
)

// Selectors prefer the data-qa attributes the site ships, they change less
// often than classes or copy. CSS lookups act on the first match.
const (
	selEmail       = `input[data-qa="login-email"]`
	selPassword    = `input[data-qa="login-password"]`
	selSubmit      = `button[data-qa="login-button"]`
	selSearchInput = "#search_product"
	selSearchBtn   = "#submit_search"
	selCards       = ".productinfo.text-center"
	selResults     = ".features_items"
)

var loginLinks = []string{`a[href="/login"]`, `a:has-text("Signup / Login")`}

var (
	logoutName      = regexp.MustCompile(`(?i)logout`)
	continueName    = regexp.MustCompile(`(?i)continue`)
	viewProductName = regexp.MustCompile(`(?i)view product`)
)

// loginLinkTimeout bounds the wait for the login form after following a link
const loginLinkTimeout = 5 * time.Second

// Registration holds the fixed profile used when creating an account
type Registration struct {
	Day, Month, Year    string
	FirstName, LastName string
	Address             string
	Country             string
	State, City         string
	Zipcode             string
	Mobile              string
}

// DefaultRegistration is the throwaway profile used by Signup
var DefaultRegistration = Registration{
	Day:       "1",
	Month:     "1",
	Year:      "1990",
	FirstName: "Test",
	LastName:  "User",
	Address:   "123 Test Street",
	Country:   "United States",
	State:     "CA",
	City:      "LA",
	Zipcode:   "90001",
	Mobile:    "+15555555555",
}

// Adapter implements interfaces.SiteAdapter and interfaces.Signupper
type Adapter struct {
	baseURL      string
	registration Registration
	logger       logrus.FieldLogger
}

// NewAdapter - creates new adapter; an empty baseURL means BaseURL
func NewAdapter(baseURL string, logger logrus.FieldLogger) *Adapter {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Adapter{
		baseURL:      strings.TrimRight(baseURL, "/"),
		registration: DefaultRegistration,
		logger:       logger,
	}
}

func (a *Adapter) url(path string) string {
	return a.baseURL + path
}

// GotoHome - opens the shop home page
func (a *Adapter) GotoHome(page interfaces.Page) error {
	return page.Goto(a.baseURL)
}

// EnsureLoginPage - makes the login form visible, trying the header links
// before navigating to the login path directly
func (a *Adapter) EnsureLoginPage(page interfaces.Page) error {
	n, err := page.Locator(selEmail).Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, sel := range loginLinks {
		loc := page.Locator(sel).First()
		n, err := loc.Count()
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if err := loc.Click(); err != nil {
			return fmt.Errorf("failed to follow login link: %w", err)
		}
		err = page.Locator(selEmail).First().WaitVisible(loginLinkTimeout)
		if err == nil {
			return nil
		}
		if !errors.Is(err, interfaces.ErrTimeout) {
			return err
		}
		a.logger.WithField("link", sel).Debug("login form did not appear, trying next")
	}

	if err := page.Goto(a.url(LoginPath)); err != nil {
		return err
	}
	return page.Locator(selEmail).First().WaitVisible(0)
}

// Login - submits credentials and reports whether a logout link appeared
func (a *Adapter) Login(page interfaces.Page, email, password string) (bool, error) {
	if err := a.EnsureLoginPage(page); err != nil {
		return false, err
	}
	if err := page.Locator(selEmail).First().Fill(email); err != nil {
		return false, fmt.Errorf("failed to fill email: %w", err)
	}
	if err := page.Locator(selPassword).First().Fill(password); err != nil {
		return false, fmt.Errorf("failed to fill password: %w", err)
	}
	if err := page.Locator(selSubmit).First().Click(); err != nil {
		return false, fmt.Errorf("failed to submit login: %w", err)
	}
	if err := page.WaitLoaded(); err != nil {
		return false, err
	}
	n, err := page.ByRole("link", logoutName).First().Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Signup - creates a new account; form failures are reported as false
func (a *Adapter) Signup(page interfaces.Page, email, password, name string) (bool, error) {
	if err := a.EnsureLoginPage(page); err != nil {
		return false, err
	}

	if err := a.submitSignup(page, email, name); err != nil {
		a.logger.WithError(err).Info("signup form failed")
		return false, nil
	}
	if err := a.submitRegistration(page, password); err != nil {
		a.logger.WithError(err).Info("registration form failed")
		return false, nil
	}

	cont := page.ByRole("link", continueName).First()
	n, err := cont.Count()
	if err != nil || n == 0 {
		return false, nil
	}
	if err := cont.Click(); err != nil {
		a.logger.WithError(err).Debug("continue link click failed")
	}
	if err := page.WaitLoaded(); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Adapter) submitSignup(page interfaces.Page, email, name string) error {
	if err := page.Locator(`input[data-qa="signup-name"]`).First().Fill(name); err != nil {
		return err
	}
	if err := page.Locator(`input[data-qa="signup-email"]`).First().Fill(email); err != nil {
		return err
	}
	if err := page.Locator(`button[data-qa="signup-button"]`).First().Click(); err != nil {
		return err
	}
	return page.WaitLoaded()
}

type formOp int

const (
	opFill formOp = iota
	opSelectValue
	opSelectLabel
)

type formStep struct {
	op       formOp
	selector string
	value    string
}

func (a *Adapter) submitRegistration(page interfaces.Page, password string) error {
	r := a.registration
	if err := page.Locator("input#id_gender1").First().Check(true); err != nil {
		a.logger.WithError(err).Debug("gender radio not checked")
	}

	steps := []formStep{
		{opFill, qaInput("password"), password},
		{opSelectValue, qaSelect("days"), r.Day},
		{opSelectValue, qaSelect("months"), r.Month},
		{opSelectValue, qaSelect("years"), r.Year},
		{opFill, qaInput("first_name"), r.FirstName},
		{opFill, qaInput("last_name"), r.LastName},
		{opFill, qaInput("address"), r.Address},
		{opSelectLabel, qaSelect("country"), r.Country},
		{opFill, qaInput("state"), r.State},
		{opFill, qaInput("city"), r.City},
		{opFill, qaInput("zipcode"), r.Zipcode},
		{opFill, qaInput("mobile_number"), r.Mobile},
	}
	for _, step := range steps {
		loc := page.Locator(step.selector).First()
		var err error
		switch step.op {
		case opFill:
			err = loc.Fill(step.value)
		case opSelectValue:
			err = loc.SelectValue(step.value)
		case opSelectLabel:
			err = loc.SelectLabel(step.value)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step.selector, err)
		}
	}

	if err := page.Locator(`button[data-qa="create-account"]`).First().Click(); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return page.WaitLoaded()
}

func qaInput(qa string) string  { return fmt.Sprintf(`input[data-qa="%s"]`, qa) }
func qaSelect(qa string) string { return fmt.Sprintf(`select[data-qa="%s"]`, qa) }

// SearchAndPrice - searches the catalogue and reads the price from the
// matching product card, the product page behind it, or a product link
func (a *Adapter) SearchAndPrice(page interfaces.Page, product string) (bool, string, error) {
	if err := page.Goto(a.url(ProductsPath)); err != nil {
		return false, "", err
	}
	if err := page.Locator(selSearchInput).First().Fill(product); err != nil {
		return false, "", fmt.Errorf("failed to fill search: %w", err)
	}
	if err := page.Locator(selSearchBtn).First().Click(); err != nil {
		return false, "", fmt.Errorf("failed to submit search: %w", err)
	}
	if err := page.Locator(selResults).First().WaitVisible(0); err != nil {
		return false, "", fmt.Errorf("search results did not appear: %w", err)
	}

	name := regexp.MustCompile("(?i)" + regexp.QuoteMeta(product))

	card := page.Locator(selCards).FilterText(name).First()
	n, err := card.Count()
	if err != nil {
		return false, "", err
	}
	if n > 0 {
		price, ok, err := pricing.ExtractFromScope(card)
		if err != nil {
			return true, "", err
		}
		if !ok {
			price = a.priceFromDetailPage(page, card)
		}
		return true, price, nil
	}

	link := page.ByRole("link", name).First()
	n, err = link.Count()
	if err != nil {
		return false, "", err
	}
	if n > 0 {
		if err := link.Click(); err != nil {
			return true, "", fmt.Errorf("failed to open product: %w", err)
		}
		if err := page.WaitLoaded(); err != nil {
			return true, "", err
		}
		price, _, err := pricing.ExtractFromScope(page)
		return true, price, err
	}

	return false, "", nil
}

// priceFromDetailPage - best effort jump to the product page of card
func (a *Adapter) priceFromDetailPage(page interfaces.Page, card interfaces.Locator) string {
	if err := card.ByRole("link", viewProductName).First().Click(); err != nil {
		a.logger.WithError(err).Debug("view product link not usable")
		return ""
	}
	if err := page.WaitLoaded(); err != nil {
		a.logger.WithError(err).Debug("product page did not load")
		return ""
	}
	price, _, err := pricing.ExtractFromScope(page)
	if err != nil {
		a.logger.WithError(err).Debug("price extraction on product page failed")
		return ""
	}
	return price
}

var (
	_ interfaces.SiteAdapter = (*Adapter)(nil)
	_ interfaces.Signupper   = (*Adapter)(nil)
)
