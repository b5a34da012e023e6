package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Form is a raw submission: field name mapped to the text the client sent.
// Values always arrive as text since the origin is a form-like request.
type Form map[string]string

// Draft is a normalized product record that has passed validation
// and is ready for persistence.
type Draft struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=100"`
	IsActive    bool            `json:"is_active"`
}

// FieldErrors maps a field name to one human-readable message per failing field
type FieldErrors map[string]string

// Error implements the error interface so callers can dispatch on the type
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report errors under the json name so they line up with the submitted fields
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateProduct checks a raw form against the product field rules and
// returns a normalized draft, or the full set of field errors. All
// violations are collected, not just the first. Only the fields named
// here are ever read from the form; anything else the client submitted
// is ignored.
func ValidateProduct(form Form) (*Draft, FieldErrors) {
	errs := FieldErrors{}

	draft := &Draft{
		Name:        form["name"],
		Description: form["description"],
		Category:    form["category"],
	}

	if raw, ok := nonBlank(form, "price"); !ok {
		errs["price"] = "This field is required"
	} else if price, err := decimal.NewFromString(raw); err != nil {
		errs["price"] = "Value must be a number"
	} else if price.IsNegative() {
		errs["price"] = "Value must be greater than or equal to 0"
	} else {
		draft.Price = price.Round(2)
	}

	if raw, ok := nonBlank(form, "quantity"); !ok {
		errs["quantity"] = "This field is required"
	} else if quantity, err := strconv.Atoi(raw); err != nil {
		errs["quantity"] = "Value must be a whole number"
	} else {
		draft.Quantity = quantity
	}

	// Checkbox convention: an omitted flag means false. The field is
	// computed from presence and truthiness, never validated.
	draft.IsActive = isTruthy(form["is_active"])

	if err := validate.Struct(draft); err != nil {
		if violations, ok := err.(validator.ValidationErrors); ok {
			for _, v := range violations {
				// Parse-stage errors take precedence over rule errors
				if _, seen := errs[v.Field()]; !seen {
					errs[v.Field()] = messageFor(v)
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return draft, nil
}

func nonBlank(form Form, field string) (string, bool) {
	raw, ok := form[field]
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// messageFor converts a validator violation to a readable message
func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Value is too long (maximum " + v.Param() + " characters)"
	case "gte":
		return "Value must be greater than or equal to " + v.Param()
	default:
		return "Invalid value"
	}
}
