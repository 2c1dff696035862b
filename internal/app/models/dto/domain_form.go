package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/pkg/validation"
)

// DomainForm is the posted domain editor form. Numeric inputs arrive as text.
type DomainForm struct {
	Program     string `form:"program"`
	Batch       string `form:"batch"`
	Capacity    string `form:"capacity"`
	ExamName    string `form:"examName"`
	CutoffMarks string `form:"cutoffMarks"`
}

// NewDomainForm returns the empty create form
func NewDomainForm(defaultYear int) DomainForm {
	return DomainForm{Batch: strconv.Itoa(defaultYear)}
}

// DomainFormFrom prefills the edit form from a stored domain
func DomainFormFrom(d *models.Domain, defaultYear int) DomainForm {
	form := DomainForm{
		Program:  d.Program,
		Batch:    d.Batch,
		Capacity: strconv.Itoa(d.Capacity),
		ExamName: d.ExamName,
	}
	if form.Batch == "" {
		form.Batch = strconv.Itoa(defaultYear)
	}
	if d.CutoffMarks != nil {
		form.CutoffMarks = strconv.FormatFloat(*d.CutoffMarks, 'f', -1, 64)
	}
	return form
}

// DomainFormFromRequest rebuilds the form for a payload held in a pending confirmation
func DomainFormFromRequest(r models.DomainRequest) DomainForm {
	return DomainForm{
		Program:     r.Program,
		Batch:       r.Batch,
		Capacity:    strconv.Itoa(r.Capacity),
		ExamName:    r.ExamName,
		CutoffMarks: strconv.FormatFloat(r.CutoffMarks, 'f', -1, 64),
	}
}

// Sanitize applies the numeric input clamps
func (f *DomainForm) Sanitize() {
	f.Capacity = validation.SanitizeCapacity(f.Capacity)
	f.CutoffMarks = validation.SanitizeMarks(f.CutoffMarks)
}

// Validate checks every field and returns the failures by field name
func (f DomainForm) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Add("program", validation.ValidateProgram(f.Program))
	errs.Add("batch", validation.ValidateBatch(f.Batch))
	errs.Add("capacity", validation.ValidateCapacity(f.Capacity))
	errs.Add("examName", validation.ValidateExamName(f.ExamName))
	errs.Add("cutoffMarks", validation.ValidateCutoffMarks(f.CutoffMarks))
	return errs
}

// ToRequest converts a validated form into the backend payload
func (f DomainForm) ToRequest() models.DomainRequest {
	capacity, _ := strconv.Atoi(strings.TrimSpace(f.Capacity))
	cutoff, _ := strconv.ParseFloat(strings.TrimSpace(f.CutoffMarks), 64)
	return models.DomainRequest{
		Program:     strings.TrimSpace(f.Program),
		Batch:       strings.TrimSpace(f.Batch),
		Capacity:    capacity,
		ExamName:    strings.TrimSpace(f.ExamName),
		CutoffMarks: cutoff,
	}
}
