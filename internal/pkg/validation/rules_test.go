package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredTextFields(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) string
		label    string
	}{
		{"first name", ValidateFirstName, "First name is required"},
		{"last name", ValidateLastName, "Last name is required"},
		{"program", ValidateProgram, "Program is required"},
		{"exam name", ValidateExamName, "Exam name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.validate(""))
			assert.Equal(t, tt.label, tt.validate("   \t"))
			assert.Empty(t, tt.validate(" x "))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.Equal(t, "Email is required", ValidateEmail(""))
	assert.Equal(t, "Please enter a valid email address", ValidateEmail("a@b"))
	assert.Equal(t, "Please enter a valid email address", ValidateEmail("a b@c.d"))
	assert.Empty(t, ValidateEmail("a@b.c"))
	assert.Empty(t, ValidateEmail("  ravi@uni.edu  "))
}

func TestValidateJoinYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Join year is required"},
		{"20", "Join year must be 4 digits"},
		{"20a5", "Join year must be 4 digits"},
		{"2020", "Join year must be between 2021 and 2026"},
		{"2027", "Join year must be between 2021 and 2026"},
		{"2021", ""},
		{"2026", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateJoinYear(tt.in), "input %q", tt.in)
	}
}

func TestValidateBatch(t *testing.T) {
	assert.Equal(t, "Batch is required", ValidateBatch(""))
	assert.Equal(t, "Batch must be between 2020 and 2026", ValidateBatch("19"))
	assert.Equal(t, "Batch must be between 2020 and 2026", ValidateBatch("2019"))
	assert.Equal(t, "Batch must be between 2020 and 2026", ValidateBatch("2030"))
	assert.Empty(t, ValidateBatch("2020"))
	assert.Empty(t, ValidateBatch("2026"))
}

func TestValidateExamMarks(t *testing.T) {
	assert.Equal(t, "Exam marks is required", ValidateExamMarks(""))
	assert.Equal(t, "Exam marks must be a valid number", ValidateExamMarks("abc"))
	assert.Equal(t, "Exam marks must be greater than or equal to 0", ValidateExamMarks("-1"))
	assert.Equal(t, "Exam marks must be less than or equal to 100", ValidateExamMarks("100.5"))
	assert.Empty(t, ValidateExamMarks("0"))
	assert.Empty(t, ValidateExamMarks("100"))
	assert.Empty(t, ValidateExamMarks("87.25"))
}

func TestValidateCutoffMarks(t *testing.T) {
	assert.Equal(t, "Cutoff marks is required", ValidateCutoffMarks(""))
	assert.Equal(t, "Cutoff marks must be at least 0", ValidateCutoffMarks("-0.5"))
	assert.Equal(t, "Cutoff marks must be at most 100", ValidateCutoffMarks("101"))
	assert.Empty(t, ValidateCutoffMarks("60"))
}

func TestValidateCapacity(t *testing.T) {
	assert.Equal(t, "Capacity is required", ValidateCapacity(""))
	assert.Equal(t, "Capacity must be a whole number", ValidateCapacity("12.5"))
	assert.Equal(t, "Capacity must be at least 0", ValidateCapacity("-3"))
	assert.Equal(t, "Capacity must be at most 150", ValidateCapacity("151"))
	assert.Empty(t, ValidateCapacity("0"))
	assert.Empty(t, ValidateCapacity("150"))
}

func TestValidateDomainID(t *testing.T) {
	assert.Equal(t, "Domain is required", ValidateDomainID(""))
	assert.Empty(t, ValidateDomainID("4"))
}
