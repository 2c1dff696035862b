package views

import (
	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/models/dto"
	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/validation"
)

// Page carries what the layout needs on every screen
type Page struct {
	Title string
	User  *models.UserProfile
	Flash string
	// Error is a classified, user-facing sentence
	Error string
}

// WelcomePage is shown to signed-out visitors
type WelcomePage struct {
	Page
	LoginURL string
}

// ErrorView is a full-page failure
type ErrorView struct {
	Page
	Status   int
	Recovery apperrors.Recovery
	BackURL  string
}

// DomainsListPage lists domain cards
type DomainsListPage struct {
	Page
	Domains []models.Domain
}

// DomainFormPage renders the domain dialog
type DomainFormPage struct {
	Page
	Editing      bool
	Domain       *models.Domain
	Form         dto.DomainForm
	FieldErrors  validation.FieldErrors
	SubmissionID string
	Action       string
}

// DomainConfirmPage asks the user to acknowledge an update's impact
type DomainConfirmPage struct {
	Page
	Domain       *models.Domain
	Form         dto.DomainForm
	Impact       *models.UpdateImpact
	Token        string
	SubmissionID string
}

// DomainDeletePage asks before a domain is deleted
type DomainDeletePage struct {
	Page
	Domain       *models.Domain
	Confirmation *services.DeleteConfirmation
}

// DomainViewPage shows one domain with its students
type DomainViewPage struct {
	Page
	Domain   *models.Domain
	Students []models.Student
	Sort     models.SortOrder
	ReadOnly bool
}

// StudentFormPage renders the student dialog
type StudentFormPage struct {
	Page
	Editing      bool
	Locked       bool
	Student      *models.Student
	Domain       *models.Domain
	Domains      []models.Domain
	Form         dto.StudentForm
	FieldErrors  validation.FieldErrors
	SubmissionID string
	Action       string
	CancelURL    string
}
