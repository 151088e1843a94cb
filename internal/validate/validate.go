package validate

import (
	"regexp"
	"strings"

	"sellerhub/internal/domain"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Result collects every rule violation for a product submission; callers
// join Errors for a single user-facing message.
type Result struct {
	Valid  bool
	Errors []string
}

// Product checks a submission against the create-product rules. All rules
// run; nothing short-circuits, so every missing field is reported at once.
func Product(s domain.ProductSubmission) Result {
	var errs []string

	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, "Product title is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, "Product description is required")
	}
	if s.Category == "" {
		errs = append(errs, "Product category is required")
	}
	if s.Price == nil || s.Price.Sign() <= 0 {
		errs = append(errs, "Valid price is required")
	}
	if s.Quantity == nil || *s.Quantity < 0 {
		errs = append(errs, "Valid quantity is required")
	}
	if strings.TrimSpace(s.SellerID) == "" {
		errs = append(errs, "Seller ID is required")
	}
	if len(s.Images) == 0 {
		errs = append(errs, "At least one product image is required")
	}
	if s.SalePrice != nil && s.SalePrice.Sign() > 0 && s.Price != nil && !s.SalePrice.LessThan(*s.Price) {
		errs = append(errs, "Sale price must be less than regular price")
	}
	if s.Title != "" && len(s.Title) > 200 {
		errs = append(errs, "Product title must be less than 200 characters")
	}
	if s.Description != "" && len(s.Description) > 2000 {
		errs = append(errs, "Product description must be less than 2000 characters")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ID validates a simple resource identifier (user/product/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Status validates the product lifecycle enum.
func Status(s string) bool {
	return s == domain.StatusDraft || s == domain.StatusPublished
}
