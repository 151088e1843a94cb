package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sellerhub/internal/domain"
	"sellerhub/internal/repos"
	"sellerhub/internal/validate"
)

var ErrSKUExists = errors.New("SKU already exists. Please use a unique SKU.")

// CreateResult is the action's outcome envelope: either a created product
// plus confirmation message, or an error (with the individual validation
// messages when validation failed).
type CreateResult struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

type ProductService struct {
	Products *repos.ProductRepo
}

func NewProductService(products *repos.ProductRepo) *ProductService {
	return &ProductService{Products: products}
}

// Create validates the submission, enforces sku uniqueness, connects tags
// (creating them on first reference) and inserts the product.
func (s *ProductService) Create(sub domain.ProductSubmission) CreateResult {
	v := validate.Product(sub)
	if !v.Valid {
		return CreateResult{Success: false, Error: strings.Join(v.Errors, ", "), Errors: v.Errors}
	}

	// Pre-check the sku when one was supplied. The insert below still races
	// this check, so its unique violation maps to the same conflict message.
	if sub.SKU != "" {
		existing, err := s.Products.BySKU(sub.SKU)
		if err != nil {
			return CreateResult{Success: false, Error: err.Error()}
		}
		if existing != nil {
			return CreateResult{Success: false, Error: ErrSKUExists.Error()}
		}
	}

	images, _ := json.Marshal(sub.Images)
	specs := sub.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	specsJSON, _ := json.Marshal(specs)

	title := strings.TrimSpace(sub.Title)
	description := strings.TrimSpace(sub.Description)
	seoTitle := sub.SEOTitle
	if seoTitle == "" {
		seoTitle = title
	}
	seoDescription := sub.SEODescription
	if seoDescription == "" {
		seoDescription = description
	}
	status := sub.Status
	if status == "" {
		status = domain.StatusDraft
	}

	p := domain.Product{
		ID:                uuid.NewString(),
		SellerID:          strings.TrimSpace(sub.SellerID),
		Title:             title,
		Description:       description,
		ImagesJSON:        string(images),
		Category:          sub.Category,
		SpecsJSON:         string(specsJSON),
		Price:             *sub.Price,
		Quantity:          *sub.Quantity,
		SKU:               sub.SKU,
		EnableNegotiation: sub.EnableNegotiation,
		SEOTitle:          seoTitle,
		SEODescription:    seoDescription,
		Status:            status,
	}
	if sub.SalePrice != nil && sub.SalePrice.Sign() > 0 {
		p.SalePrice = decimal.NewNullDecimal(*sub.SalePrice)
	}
	if p.SKU == "" {
		p.SKU = fallbackSKU()
	}

	if err := s.Products.Create(p, sub.Tags); err != nil {
		if repos.IsUniqueViolation(err) {
			return CreateResult{Success: false, Error: "A product with this SKU already exists."}
		}
		return CreateResult{Success: false, Error: err.Error()}
	}

	if tags, err := s.Products.TagsFor(p.ID); err == nil {
		p.Tags = tags
	}

	verb := "saved as draft"
	if status == domain.StatusPublished {
		verb = "published"
	}
	return CreateResult{
		Success: true,
		Product: &p,
		Message: fmt.Sprintf("Product %q %s successfully!", p.Title, verb),
	}
}

// fallbackSKU keeps the PRD-<timestamp> shape but appends a random suffix
// so two creations in the same millisecond cannot collide.
func fallbackSKU() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "PRD-" + millis + "-" + strings.ToUpper(uuid.NewString()[:6])
}
