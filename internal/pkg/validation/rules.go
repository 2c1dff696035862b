package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern, checked against the trimmed value
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// Year pattern - exactly 4 digits
	YearPattern = `^\d{4}$`
)

// Field bounds
const (
	MinMarks    = 0
	MaxMarks    = 100
	MinCapacity = 0
	MaxCapacity = 150

	MinJoinYear = 2021
	MaxJoinYear = 2026
	MinBatch    = 2020
	MaxBatch    = 2026
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Year  *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Year:  regexp.MustCompile(YearPattern),
}

// StringValidation checks a text field and yields the first failing message.
type StringValidation struct {
	Value          string
	Label          string
	Required       bool
	Pattern        *regexp.Regexp
	PatternMessage string
}

// NewStringValidation creates a new string validation for a required field
func NewStringValidation(value, label string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Label:    label,
		Required: true,
	}
}

// WithPattern sets regex pattern and the message used when it does not match
func (v *StringValidation) WithPattern(pattern *regexp.Regexp, message string) *StringValidation {
	v.Pattern = pattern
	v.PatternMessage = message
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns "" when the value passes, otherwise the message to show.
func (v *StringValidation) Validate() string {
	trimmed := strings.TrimSpace(v.Value)
	if trimmed == "" {
		if v.Required {
			return v.Label + " is required"
		}
		return ""
	}

	if v.Pattern != nil && !v.Pattern.MatchString(trimmed) {
		return v.PatternMessage
	}

	return ""
}

// NumericValidation checks a numeric text field against a closed range.
type NumericValidation struct {
	Raw      string
	Label    string
	Required bool
	Integer  bool
	Min      float64
	Max      float64

	// messages, defaulted from Label when empty
	MinMessage string
	MaxMessage string
}

// NewNumericValidation creates a new numeric validation for a required field
func NewNumericValidation(raw, label string) *NumericValidation {
	return &NumericValidation{
		Raw:      raw,
		Label:    label,
		Required: true,
	}
}

// WithRange sets the inclusive bounds
func (v *NumericValidation) WithRange(min, max float64) *NumericValidation {
	v.Min = min
	v.Max = max
	return v
}

// WithMessages overrides the out-of-range messages
func (v *NumericValidation) WithMessages(minMsg, maxMsg string) *NumericValidation {
	v.MinMessage = minMsg
	v.MaxMessage = maxMsg
	return v
}

// WithInteger requires a whole number
func (v *NumericValidation) WithInteger(integer bool) *NumericValidation {
	v.Integer = integer
	return v
}

// WithRequired sets if field is required
func (v *NumericValidation) WithRequired(required bool) *NumericValidation {
	v.Required = required
	return v
}

// Validate returns "" when the value passes, otherwise the message to show.
func (v *NumericValidation) Validate() string {
	raw := strings.TrimSpace(v.Raw)
	if raw == "" {
		if v.Required {
			return v.Label + " is required"
		}
		return ""
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return v.Label + " must be a valid number"
	}

	if v.Integer && value != float64(int64(value)) {
		return v.Label + " must be a whole number"
	}

	if value < v.Min {
		if v.MinMessage != "" {
			return v.MinMessage
		}
		return fmt.Sprintf("%s must be at least %s", v.Label, formatBound(v.Min))
	}

	if value > v.Max {
		if v.MaxMessage != "" {
			return v.MaxMessage
		}
		return fmt.Sprintf("%s must be at most %s", v.Label, formatBound(v.Max))
	}

	return ""
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValidateFirstName rejects blank first names
func ValidateFirstName(value string) string {
	return NewStringValidation(value, "First name").Validate()
}

// ValidateLastName rejects blank last names
func ValidateLastName(value string) string {
	return NewStringValidation(value, "Last name").Validate()
}

// ValidateProgram rejects blank program names
func ValidateProgram(value string) string {
	return NewStringValidation(value, "Program").Validate()
}

// ValidateExamName rejects blank exam names
func ValidateExamName(value string) string {
	return NewStringValidation(value, "Exam name").Validate()
}

// ValidateEmail checks presence and shape of an email address
func ValidateEmail(value string) string {
	return NewStringValidation(value, "Email").
		WithPattern(CompiledPatterns.Email, "Please enter a valid email address").
		Validate()
}

// ValidateDomainID requires a domain selection on the student form
func ValidateDomainID(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Domain is required"
	}
	return ""
}

// ValidateJoinYear accepts a 4-digit year in [2021, 2026]
func ValidateJoinYear(value string) string {
	return validateYear(value, "Join year", MinJoinYear, MaxJoinYear, "Join year must be 4 digits")
}

// ValidateBatch accepts a 4-digit year in [2020, 2026]
func ValidateBatch(value string) string {
	rangeMsg := fmt.Sprintf("Batch must be between %d and %d", MinBatch, MaxBatch)
	return validateYear(value, "Batch", MinBatch, MaxBatch, rangeMsg)
}

func validateYear(value, label string, min, max int, shapeMsg string) string {
	if msg := NewStringValidation(value, label).WithPattern(CompiledPatterns.Year, shapeMsg).Validate(); msg != "" {
		return msg
	}
	year, _ := strconv.Atoi(strings.TrimSpace(value))
	if year < min || year > max {
		return fmt.Sprintf("%s must be between %d and %d", label, min, max)
	}
	return ""
}

// ValidateExamMarks accepts a number in [0, 100]
func ValidateExamMarks(value string) string {
	return NewNumericValidation(value, "Exam marks").
		WithRange(MinMarks, MaxMarks).
		WithMessages(
			"Exam marks must be greater than or equal to 0",
			"Exam marks must be less than or equal to 100",
		).
		Validate()
}

// ValidateCutoffMarks accepts a number in [0, 100]
func ValidateCutoffMarks(value string) string {
	return NewNumericValidation(value, "Cutoff marks").
		WithRange(MinMarks, MaxMarks).
		Validate()
}

// ValidateCapacity accepts a whole number in [0, 150]
func ValidateCapacity(value string) string {
	return NewNumericValidation(value, "Capacity").
		WithInteger(true).
		WithRange(MinCapacity, MaxCapacity).
		Validate()
}

// FieldErrors maps a form field name to the message shown under it
type FieldErrors map[string]string

// Add records msg for field unless msg is empty
func (f FieldErrors) Add(field, msg string) {
	if msg != "" {
		f[field] = msg
	}
}

// HasErrors reports whether any field failed
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

// Get returns the message for field, "" when it passed
func (f FieldErrors) Get(field string) string {
	return f[field]
}
