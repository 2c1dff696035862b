package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/erpconsole/internal/pkg/apperrors"
)

// IDParam is a positive record id in the path
type IDParam struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// SubmissionForm carries the id rendered into every editor form
type SubmissionForm struct {
	SubmissionID string `form:"submissionId" binding:"omitempty,uuid"`
}

// BindID reads the :id path parameter
func BindID(c *gin.Context) (int64, error) {
	var p IDParam
	if err := c.ShouldBindUri(&p); err != nil {
		return 0, apperrors.NewBadRequestError(formatBindError(err, "Invalid record ID"))
	}
	return p.ID, nil
}

// BindSubmissionID reads the hidden submissionId field of a form post
func BindSubmissionID(c *gin.Context) (string, error) {
	var f SubmissionForm
	if err := c.ShouldBind(&f); err != nil {
		return "", apperrors.NewBadRequestError(formatBindError(err, "Invalid submission"))
	}
	return f.SubmissionID, nil
}

func formatBindError(err error, fallback string) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return formatValidationError(ve[0])
	}
	return fallback
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "uuid":
		return e.Field() + " must be a valid UUID"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
