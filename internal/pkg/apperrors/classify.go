package apperrors

import (
	"fmt"
	"strings"
	"unicode"
)

// Display strings shown to console users.
const (
	MsgDuplicateRecord     = "This record already exists. Please check your input."
	MsgDuplicateEmail      = "A student with this email address already exists. Please use a different email."
	MsgDuplicateRollNumber = "A student with this roll number already exists. Please contact the administrator."
	MsgDatabaseError       = "Database error occurred. Please try again."

	MsgStudentNotFound  = "The requested student could not be found. Please check the student ID and try again."
	MsgDomainNotFound   = "The requested domain could not be found. Please check the domain ID and try again."
	MsgResourceNotFound = "The requested resource could not be found. Please check your input and try again."
	MsgCapacityExceeded = "This domain has reached its maximum capacity. No more students can be admitted at this time."
	MsgPhotoUpload      = "Photo upload error. Please ensure you selected a valid image file (JPEG, PNG, GIF, or WebP)."
	MsgInvalidDegree    = `The program name must include a valid degree type (B.Tech, M.Tech, IM.Tech, M.Sc, or Ph.D). Examples: "Bachelor of Technology in CSE", "B.Tech CSE". Please update the program name.`
	MsgUnknownDept      = `The program name must include a recognized department (CSE, ECE, or AIDS). Examples: "Bachelor of Technology in CSE", "B.Tech ECE". Please update the program name.`
	MsgValidationFailed = "Validation failed. Please check all fields and ensure they meet the requirements."
	MsgInvalidRequest   = "Invalid request. Please check your input."

	MsgUnauthenticated = "Authentication required. Please log in again."
	MsgForbidden       = "You do not have permission to perform this action."
	MsgUnprocessable   = "Validation error. Please check your input and ensure all required fields are filled correctly."
	MsgServerError     = "Server error. Please try again later."
	MsgAutoFixSuffix   = " The system is attempting to fix this automatically. Please refresh the page in a moment."
	MsgBadGateway      = "Service temporarily unavailable. Please try again later."
	MsgUnavailable     = "Service unavailable. Please try again later."
	MsgNetwork         = "Network error. Please check your connection and try again."
	MsgUnexpected      = "An unexpected error occurred. Please try again."
)

// Classify turns any error from a backend call into the single sentence the
// console shows. It never panics and never returns "".
func Classify(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil || msg == "" {
			msg = MsgUnexpected
		}
	}()

	if err == nil {
		return MsgUnexpected
	}

	apiErr, ok := AsAPIError(err)
	if !ok {
		return err.Error()
	}
	if apiErr.IsNetworkError() {
		return MsgNetwork
	}
	return classifyResponse(apiErr)
}

func classifyResponse(e *APIError) string {
	body := e.Body
	if body == nil {
		body = &ErrorBody{}
	}

	switch {
	case strings.Contains(body.Type, "DUPLICATE") || strings.Contains(body.Type, "DATA_INTEGRITY"):
		return firstNonEmpty(body.Error, body.Message, duplicateFallback(body.Type))
	case strings.Contains(body.Type, "DATABASE") || strings.Contains(body.Type, "SQL"):
		lower := strings.ToLower(firstNonEmpty(body.Error, body.Message))
		if mentionsDuplicateEmail(lower) {
			return MsgDuplicateEmail
		}
		return firstNonEmpty(body.Error, body.Message, MsgDatabaseError)
	}

	message, isText := responseMessage(e, body)
	lower := strings.ToLower(message)

	switch e.StatusCode {
	case 400:
		if body.Errors.IsMap() && len(body.Errors.Fields) > 0 {
			lines := make([]string, 0, len(body.Errors.Fields))
			for _, fm := range body.Errors.Fields {
				lines = append(lines, formatFieldMessage(fm))
			}
			return strings.Join(lines, "\n")
		}
		if isText {
			if canned := classifyBadRequest(lower); canned != "" {
				return canned
			}
			return message
		}
		return MsgInvalidRequest
	case 401:
		return MsgUnauthenticated
	case 403:
		return MsgForbidden
	case 404:
		if isText {
			if strings.Contains(lower, "student") {
				return MsgStudentNotFound
			}
			if strings.Contains(lower, "domain") {
				return MsgDomainNotFound
			}
		}
		return MsgResourceNotFound
	case 409:
		if body.Type == "DUPLICATE_EMAIL" || (isText && strings.Contains(lower, "email") && strings.Contains(lower, "already exists")) {
			return MsgDuplicateEmail
		}
		if body.Type == "DUPLICATE_ROLL_NUMBER" || (isText && strings.Contains(lower, "roll") && strings.Contains(lower, "already exists")) {
			return MsgDuplicateRollNumber
		}
		if isText {
			return message
		}
		return MsgDuplicateRecord
	case 422:
		if body.Errors.IsMap() && len(body.Errors.Fields) > 0 {
			return formatFieldMessage(body.Errors.Fields[0])
		}
		if isText {
			return message
		}
		return MsgUnprocessable
	case 500:
		if isText {
			if strings.Contains(lower, "database") || strings.Contains(lower, "table") || strings.Contains(lower, "sql") {
				return message + MsgAutoFixSuffix
			}
			return message
		}
		return MsgServerError
	case 502:
		return MsgBadGateway
	case 503:
		return MsgUnavailable
	default:
		if isText && strings.TrimSpace(message) != "" {
			return message
		}
		return fmt.Sprintf("An error occurred (%d). Please try again or contact support if the issue persists.", e.StatusCode)
	}
}

// responseMessage picks message, then error, then a textual errors member,
// then the transport message. isText is false only when the errors member is
// an object and nothing textual precedes it.
func responseMessage(e *APIError, body *ErrorBody) (string, bool) {
	if body.Message != "" {
		return body.Message, true
	}
	if body.Error != "" {
		return body.Error, true
	}
	if body.Errors.IsText() && body.Errors.Text != "" {
		return body.Errors.Text, true
	}
	if body.Errors.IsMap() {
		return "", false
	}
	if e.Err != nil {
		return e.Err.Error(), true
	}
	return "", true
}

func classifyBadRequest(lower string) string {
	switch {
	case strings.Contains(lower, "student not found"):
		return MsgStudentNotFound
	case strings.Contains(lower, "domain not found"):
		return MsgDomainNotFound
	case strings.Contains(lower, "seat"), strings.Contains(lower, "capacity"), strings.Contains(lower, "exhausted"):
		return MsgCapacityExceeded
	case strings.Contains(lower, "photo"), strings.Contains(lower, "image file"):
		return MsgPhotoUpload
	case strings.Contains(lower, "invalid degree"), strings.Contains(lower, "degree type"):
		return MsgInvalidDegree
	case strings.Contains(lower, "department"):
		return MsgUnknownDept
	case strings.Contains(lower, "validation failed"):
		return MsgValidationFailed
	}
	return ""
}

// duplicateFallback is used when a DUPLICATE response carries no text of its own.
func duplicateFallback(errType string) string {
	switch errType {
	case "DUPLICATE_EMAIL":
		return MsgDuplicateEmail
	case "DUPLICATE_ROLL_NUMBER":
		return MsgDuplicateRollNumber
	}
	return MsgDuplicateRecord
}

func mentionsDuplicateEmail(lower string) bool {
	if !strings.Contains(lower, "email") {
		return false
	}
	return strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "unique") ||
		strings.Contains(lower, "already exists")
}

func formatFieldMessage(fm FieldMessage) string {
	return HumanizeField(fm.Field) + ": " + fm.Message
}

// HumanizeField turns a camelCase field name into "Camel Case".
func HumanizeField(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Recovery is the action offered next to a list-load failure.
type Recovery string

const (
	RecoveryRetry        Recovery = "retry"
	RecoveryCreateTables Recovery = "create-tables"
	RecoveryRefresh      Recovery = "refresh"
)

// RecoveryFor picks the action for an already classified message. Messages
// about missing tables offer table creation; messages saying the tables now
// exist offer a plain refresh.
func RecoveryFor(message string) Recovery {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "have been created") || strings.Contains(lower, "created successfully") {
		return RecoveryRefresh
	}
	if strings.Contains(lower, "database") ||
		strings.Contains(lower, "table") ||
		strings.Contains(lower, "doesn't exist") ||
		strings.Contains(lower, "being created") {
		return RecoveryCreateTables
	}
	return RecoveryRetry
}

// Label is the button caption for the recovery action.
func (r Recovery) Label() string {
	switch r {
	case RecoveryCreateTables:
		return "Create Tables"
	case RecoveryRefresh:
		return "Refresh Page"
	}
	return "Retry"
}
