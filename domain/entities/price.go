package entities

// DefaultProduct is looked up when a request names no product
const DefaultProduct = "Blue Top"

// Outcome codes reported in PriceResult.Error
const (
	OutcomeLoginFailed     = "login_failed"
	OutcomePriceNotFound   = "price_not_found"
	OutcomeProductNotFound = "product_not_found"
)

// PriceRequest carries the inputs of one login, search and price run
type PriceRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Product    string `json:"product"`
	Headless   *bool  `json:"headless,omitempty"`
	AutoSignup bool   `json:"auto_signup"`
}

// IsHeadless reports the requested browser mode, defaulting to headless
func (r PriceRequest) IsHeadless() bool {
	if r.Headless == nil {
		return true
	}
	return *r.Headless
}

// ProductName returns the requested product or DefaultProduct
func (r PriceRequest) ProductName() string {
	if r.Product == "" {
		return DefaultProduct
	}
	return r.Product
}

// PriceResult is the response of a price lookup
type PriceResult struct {
	OK        bool    `json:"ok"`
	Product   string  `json:"product"`
	Price     *string `json:"price"`
	Found     bool    `json:"found"`
	Login     bool    `json:"login"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Error     *string `json:"error"`
}
