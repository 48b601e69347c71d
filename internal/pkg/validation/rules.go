package validation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Result is the outcome of checking one field: either a usable value or a message
type Result[T any] struct {
	Value   T
	Message string
}

// Valid reports whether the field passed
func (r Result[T]) Valid() bool {
	return r.Message == ""
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{Message: msg}
}

// StringField validates a trimmed text input
type StringField struct {
	label string
	tags  []string
}

// String starts a text field rule; the label prefixes every message
func String(label string) *StringField {
	return &StringField{label: label}
}

// Required rejects blank input
func (f *StringField) Required() *StringField {
	f.tags = append(f.tags, "required")
	return f
}

// MaxLength caps the number of characters
func (f *StringField) MaxLength(n int) *StringField {
	f.tags = append(f.tags, "max="+strconv.Itoa(n))
	return f
}

// Email requires an address; blank input is left to Required
func (f *StringField) Email() *StringField {
	f.tags = append(f.tags, "email")
	return f
}

// Check validates raw input
func (f *StringField) Check(raw string) Result[string] {
	v := strings.TrimSpace(raw)
	if len(f.tags) == 0 || (v == "" && !slices.Contains(f.tags, "required")) {
		return ok(v)
	}
	if err := validate.Var(v, strings.Join(f.tags, ",")); err != nil {
		return fail[string](message(f.label, err))
	}
	return ok(v)
}

// IntField validates a whole-number input
type IntField struct {
	label    string
	required bool
	bounded  bool
	min, max int
}

// Int starts a numeric field rule
func Int(label string) *IntField {
	return &IntField{label: label}
}

// Required rejects blank input
func (f *IntField) Required() *IntField {
	f.required = true
	return f
}

// Between bounds the value, both ends inclusive
func (f *IntField) Between(min, max int) *IntField {
	f.bounded = true
	f.min, f.max = min, max
	return f
}

// Check validates raw input
func (f *IntField) Check(raw string) Result[int] {
	v := strings.TrimSpace(raw)
	if v == "" {
		if f.required {
			return fail[int](f.label + " is required")
		}
		return ok(0)
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fail[int](f.label + " must be a whole number")
	}

	if f.bounded {
		if err := validate.Var(n, fmt.Sprintf("gte=%d,lte=%d", f.min, f.max)); err != nil {
			return fail[int](fmt.Sprintf("%s must be between %d and %d", f.label, f.min, f.max))
		}
	}
	return ok(n)
}

// message turns a validator error into a human-readable sentence
func message(label string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return label + " is invalid"
	}

	e := verrs[0]
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return label + " must be at least " + e.Param() + " characters"
	case "max":
		return label + " must be at most " + e.Param() + " characters"
	case "email":
		return label + " must be a valid email address"
	case "oneof":
		return label + " must be one of: " + e.Param()
	default:
		return label + " validation failed: " + e.Tag()
	}
}
