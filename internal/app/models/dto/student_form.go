package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/pkg/validation"
)

// StudentForm is the posted student editor form
type StudentForm struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Email     string `form:"email"`
	DomainID  string `form:"domainId"`
	JoinYear  string `form:"joinYear"`
	ExamMarks string `form:"examMarks"`
}

// NewStudentForm returns the admission form. defaultDomainID may be 0.
func NewStudentForm(defaultDomainID int64, defaultYear int) StudentForm {
	form := StudentForm{
		JoinYear:  strconv.Itoa(defaultYear),
		ExamMarks: "0",
	}
	if defaultDomainID > 0 {
		form.DomainID = strconv.FormatInt(defaultDomainID, 10)
	}
	return form
}

// StudentFormFrom prefills the edit form from a stored student
func StudentFormFrom(s *models.Student) StudentForm {
	form := StudentForm{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		DomainID:  strconv.FormatInt(s.DomainID, 10),
		JoinYear:  strconv.Itoa(s.JoinYear),
		ExamMarks: "0",
	}
	if s.ExamMarks != nil {
		form.ExamMarks = strconv.FormatFloat(*s.ExamMarks, 'f', -1, 64)
	}
	return form
}

// Sanitize applies the marks input clamp
func (f *StudentForm) Sanitize() {
	f.ExamMarks = validation.SanitizeMarks(f.ExamMarks)
}

// Validate checks every field and returns the failures by field name
func (f StudentForm) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Add("firstName", validation.ValidateFirstName(f.FirstName))
	errs.Add("lastName", validation.ValidateLastName(f.LastName))
	errs.Add("email", validation.ValidateEmail(f.Email))
	errs.Add("domainId", validation.ValidateDomainID(f.DomainID))
	errs.Add("joinYear", validation.ValidateJoinYear(f.JoinYear))
	errs.Add("examMarks", validation.ValidateExamMarks(f.ExamMarks))
	return errs
}

func (f StudentForm) parsed() (domainID int64, joinYear int, marks float64) {
	domainID, _ = strconv.ParseInt(strings.TrimSpace(f.DomainID), 10, 64)
	joinYear, _ = strconv.Atoi(strings.TrimSpace(f.JoinYear))
	marks, _ = strconv.ParseFloat(strings.TrimSpace(f.ExamMarks), 64)
	return domainID, joinYear, marks
}

// ToAdmission converts a validated form into an admission payload
func (f StudentForm) ToAdmission() models.StudentAdmissionRequest {
	domainID, joinYear, marks := f.parsed()
	return models.StudentAdmissionRequest{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		DomainID:  domainID,
		JoinYear:  joinYear,
		ExamMarks: marks,
	}
}

// ToUpdate converts a validated form into an update payload for studentID
func (f StudentForm) ToUpdate(studentID int64) models.StudentUpdateRequest {
	domainID, joinYear, marks := f.parsed()
	return models.StudentUpdateRequest{
		StudentID: studentID,
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		DomainID:  domainID,
		JoinYear:  joinYear,
		ExamMarks: marks,
	}
}
