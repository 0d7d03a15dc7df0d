package interfaces

// SiteAdapter isolates site specific selectors and flows from the generic services
type SiteAdapter interface {
	// GotoHome navigates to the site home and waits for DOM readiness
	GotoHome(page Page) error

	// EnsureLoginPage makes the login form visible, navigating if needed
	EnsureLoginPage(page Page) error

	// Login attempts to authenticate and reports whether the session is logged in
	Login(page Page, email, password string) (bool, error)

	// SearchAndPrice finds a product by name and extracts its price text.
	// found reports that a product card or page was reached, price is empty
	// when no price text was visible.
	SearchAndPrice(page Page, product string) (found bool, price string, err error)
}

// Signupper is implemented by adapters that can create a new account
type Signupper interface {
	Signup(page Page, email, password, name string) (bool, error)
}
