package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalog/internal/models"
)

// DefaultSellerDomains is the built-in seller email domain allow-list. It can
// be overridden through the SELLER_ALLOWED_DOMAINS configuration key.
var DefaultSellerDomains = []string{
	"mistore.in",
	"realmeofficial.in",
	"samsungindia.in",
	"lenovostore.in",
	"hpworld.in",
	"applestoreindia.in",
	"dellexclusive.in",
	"sonycenter.in",
	"oneplusstore.in",
	"asusexclusive.in",
	"gmail.com",
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error is a validation failure carrying every failing field and rule, so a
// caller can fix all problems in one round trip.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Engine validates products and sellers: field-level constraints first
// (struct tags plus the custom sku and seller_domain validators), then the
// ordered cross-field business rules.
type Engine struct {
	validate       *validator.Validate
	allowedDomains map[string]struct{}
}

// NewEngine creates an Engine enforcing the given seller domain allow-list.
func NewEngine(allowedDomains []string) *Engine {
	e := &Engine{
		validate:       validator.New(),
		allowedDomains: make(map[string]struct{}, len(allowedDomains)),
	}
	for _, d := range allowedDomains {
		e.allowedDomains[strings.ToLower(d)] = struct{}{}
	}

	// Report fields by their json names so API callers can match errors to
	// their request payload.
	e.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for a blank tag, so these cannot error.
	_ = e.validate.RegisterValidation("sku", validSKU)
	_ = e.validate.RegisterValidation("seller_domain", e.validSellerDomain)
	return e
}

// validSKU enforces the catalog SKU format: the code must contain at least
// one '-' and the segment after the last '-' must be exactly 3 decimal digits.
func validSKU(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !strings.Contains(value, "-") {
		return false
	}
	last := value[strings.LastIndex(value, "-")+1:]
	if len(last) != 3 {
		return false
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validSellerDomain checks the email's domain portion against the allow-list.
// Only the domain is matched case-insensitively.
func (e *Engine) validSellerDomain(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	_, ok := e.allowedDomains[strings.ToLower(addr[at+1:])]
	return ok
}

// businessRule is one cross-field invariant checked against a complete
// (merged) product. Rules are kept as an ordered list of pure predicates so
// they can be tested and extended without touching the engine's control flow.
type businessRule struct {
	name    string
	field   string
	message string
	ok      func(p *models.Product) bool
}

var businessRules = []businessRule{
	{
		name:    "stock_active",
		field:   "is_active",
		message: "is_active must be false when stock is zero",
		ok: func(p *models.Product) bool {
			return !(p.Stock == 0 && p.IsActive)
		},
	},
	{
		name:    "discount_rating",
		field:   "rating",
		message: "a discounted product must have a rating",
		ok: func(p *models.Product) bool {
			return !(p.DiscountPercent > 0 && p.Rating == 0)
		},
	},
}

// ValidateNew validates a freshly constructed product. All field-level
// failures are collected first; the first failing tag short-circuits only its
// own field. The cross-field business rules run afterwards and their failures
// are appended to the same error.
func (e *Engine) ValidateNew(p *models.Product) error {
	verr := &Error{}
	if err := e.collectFieldErrors(p, verr); err != nil {
		return err
	}
	for _, rule := range businessRules {
		if !rule.ok(p) {
			verr.Fields = append(verr.Fields, FieldError{Field: rule.field, Rule: rule.name, Message: rule.message})
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// ValidateUpdate validates a partial update against an existing product and
// returns the merged record. Field-level constraints apply only to the fields
// present in the patch; the cross-field business rules are always re-checked
// on the merged result, since either side of each rule's field pair may have
// changed and both sides are present after the merge.
func (e *Engine) ValidateUpdate(existing *models.Product, patch *models.ProductUpdate) (*models.Product, error) {
	verr := &Error{}
	if err := e.collectFieldErrors(patch, verr); err != nil {
		return nil, err
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	merged := patch.ApplyTo(*existing)
	for _, rule := range businessRules {
		if !rule.ok(&merged) {
			verr.Fields = append(verr.Fields, FieldError{Field: rule.field, Rule: rule.name, Message: rule.message})
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return &merged, nil
}

// Derived computes the price after discount and the volume of a valid
// product. Pure, never persisted.
func Derived(p *models.Product) models.Derived {
	return p.ComputeDerived()
}

// collectFieldErrors runs the tag-based validators on v and appends every
// failing field to verr. Non-validation errors (bad usage) are returned as-is.
func (e *Engine) collectFieldErrors(v interface{}, verr *Error) error {
	err := e.validate.Struct(v)
	if err == nil {
		return nil
	}
	ferrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range ferrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: fmt.Sprintf("field '%s' failed on the '%s' rule", fieldPath(fe), fe.Tag()),
		})
	}
	return nil
}

// fieldPath strips the root struct name from the error namespace, keeping
// nested paths like "seller.email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
