// Package validation checks and sanitizes submitted form fields.
//
// Each field runs an ordered list of Rules. A Rule is a pure function that
// returns the value to hand to the next rule, or an error carrying the message
// to show beside the field. Every rule of every field runs, so a submission
// reports all of its problems at once.
package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rule returns the (possibly rewritten) value, or an error whose text is the
// user-facing message. A failing rule passes the value through unchanged.
type Rule func(value string) (string, error)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed any rule. Views use it to mark the
// offending inputs.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validator accumulates field errors across a whole submission.
type Validator struct {
	errs Errors
}

func New() *Validator {
	return &Validator{}
}

// Field runs rules over raw and returns the sanitized value.
func (v *Validator) Field(name, raw string, rules ...Rule) string {
	value := raw
	for _, rule := range rules {
		out, err := rule(value)
		if err != nil {
			v.errs = append(v.errs, FieldError{Field: name, Message: err.Error()})
			continue
		}
		value = out
	}
	return value
}

// Optional is Field, except an empty raw value skips every rule.
func (v *Validator) Optional(name, raw string, rules ...Rule) string {
	if raw == "" {
		return raw
	}
	return v.Field(name, raw, rules...)
}

// Each runs rules over every element of a repeated field.
func (v *Validator) Each(name string, raws []string, rules ...Rule) []string {
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		out = append(out, v.Field(name, raw, rules...))
	}
	return out
}

// Errors returns the collected failures in the order they occurred, or nil.
func (v *Validator) Errors() Errors {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

var validate = validator.New()

// Trim strips leading and trailing whitespace.
func Trim(value string) (string, error) {
	return strings.TrimSpace(value), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces HTML-significant characters with entities.
func Escape(value string) (string, error) {
	return htmlEscaper.Replace(value), nil
}

// Required fails on an empty value.
func Required(message string) Rule {
	return func(value string) (string, error) {
		if err := validate.Var(value, "required"); err != nil {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// Alphanumeric fails when the value holds anything but ASCII letters and digits.
// The empty string passes; pair it with Required where needed.
func Alphanumeric(message string) Rule {
	return func(value string) (string, error) {
		if err := validate.Var(value, "omitempty,alphanum"); err != nil {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// OneOf fails unless the value is exactly one of allowed. Allowed values must
// not contain spaces.
func OneOf(message string, allowed ...string) Rule {
	tag := "oneof=" + strings.Join(allowed, " ")
	return func(value string) (string, error) {
		if err := validate.Var(value, tag); err != nil {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// ISO8601 fails unless ParseDate accepts the value.
func ISO8601(message string) Rule {
	return func(value string) (string, error) {
		if _, err := ParseDate(value); err != nil {
			return value, errors.New(message)
		}
		return value, nil
	}
}

// Fractional seconds are accepted after any seconds field without being
// spelled out in the layout.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ErrInvalidDate is returned by ParseDate for anything that is not an extended
// ISO-8601 calendar date or date-time.
var ErrInvalidDate = errors.New("invalid ISO-8601 date")

// ParseDate parses an extended ISO-8601 date or date-time. Values without a
// zone are taken as UTC.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseOptionalDate returns nil for an empty value.
func ParseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Strings coerces a repeated form field into an ordered slice: no values
// becomes an empty, non-nil slice.
func Strings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
