package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"robotdriver/domain/interfaces"
)

// PricePattern matches price-like text such as "Rs. 500" or "$12.99"
var PricePattern = regexp.MustCompile(`(?i)(?:Rs\.?|[$€£₩])\s?\d[\d.,]*`)

// candidateSelectors are probed in order; they are where prices are usually
// rendered, which keeps page numbers and quantities from matching.
var candidateSelectors = []string{"h2", ".price", ".product-information span", "span"}

// FindPrice - returns the first price-like substring of text
func FindPrice(text string) (string, bool) {
	m := PricePattern.FindString(text)
	return m, m != ""
}

// ExtractFromScope - finds price text inside scope, probing likely places
// first and falling back to every visible text in the scope
func ExtractFromScope(scope interfaces.Scope) (string, bool, error) {
	for _, sel := range candidateSelectors {
		loc := scope.Locator(sel).First()
		n, err := loc.Count()
		if err != nil {
			return "", false, fmt.Errorf("failed to count %q: %w", sel, err)
		}
		if n == 0 {
			continue
		}
		text, err := loc.InnerText()
		if err != nil {
			return "", false, fmt.Errorf("failed to read %q: %w", sel, err)
		}
		if price, ok := FindPrice(strings.TrimSpace(text)); ok {
			return price, true, nil
		}
	}

	texts, err := scope.Locator("*").AllInnerTexts()
	if err != nil {
		return "", false, nil
	}
	price, ok := FindPrice(strings.Join(texts, " | "))
	return price, ok, nil
}
