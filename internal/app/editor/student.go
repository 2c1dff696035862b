package editor

import (
	"context"
	"strconv"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/models/dto"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
)

// StudentStore is the backend surface the student dialog writes through
type StudentStore interface {
	Admit(ctx context.Context, req models.StudentAdmissionRequest) (*models.Student, error)
	Update(ctx context.Context, req models.StudentUpdateRequest) (*models.Student, error)
}

// StudentOptions configure a student dialog
type StudentOptions struct {
	// DefaultDomainID preselects and locks the domain; 0 leaves it free
	DefaultDomainID int64
	DefaultYear     int
	OnSuccess       func(saved *models.Student)
}

// StudentDialog admits or edits a student. Domain and join year are fixed
// once a student exists, and also when the dialog was opened from a domain.
type StudentDialog struct {
	*Dialog[models.Student, dto.StudentForm]
	opts StudentOptions
}

// NewStudentDialog wires a dialog to store
func NewStudentDialog(store StudentStore, opts StudentOptions, m *metrics.Metrics) *StudentDialog {
	sd := &StudentDialog{opts: opts}

	hooks := Hooks[models.Student, dto.StudentForm]{
		Kind:      "student",
		Validate:  dto.StudentForm.Validate,
		OnSuccess: opts.OnSuccess,
		Save: func(ctx context.Context, existing *models.Student, form dto.StudentForm) (*models.Student, error) {
			form = sd.enforceLocks(existing, form)
			if existing == nil {
				return store.Admit(ctx, form.ToAdmission())
			}
			return store.Update(ctx, form.ToUpdate(existing.StudentID))
		},
	}
	sd.Dialog = NewDialog(hooks, m)
	return sd
}

// OpenFor opens the dialog prefilled from existing, or with admission defaults
func (d *StudentDialog) OpenFor(existing *models.Student) {
	if existing == nil {
		d.Open(nil, dto.NewStudentForm(d.opts.DefaultDomainID, d.opts.DefaultYear))
		return
	}
	form := dto.StudentFormFrom(existing)
	if existing.DomainID == 0 && d.opts.DefaultDomainID > 0 {
		form.DomainID = strconv.FormatInt(d.opts.DefaultDomainID, 10)
	}
	d.Open(existing, form)
}

// Locked reports whether domain and join year are read-only
func (d *StudentDialog) Locked() bool {
	return d.Snapshot().Mode == ModeEdit || d.opts.DefaultDomainID > 0
}

// enforceLocks overwrites locked fields so a tampered post cannot move them
func (d *StudentDialog) enforceLocks(existing *models.Student, form dto.StudentForm) dto.StudentForm {
	switch {
	case existing != nil:
		if existing.DomainID > 0 {
			form.DomainID = strconv.FormatInt(existing.DomainID, 10)
		} else if d.opts.DefaultDomainID > 0 {
			form.DomainID = strconv.FormatInt(d.opts.DefaultDomainID, 10)
		}
		form.JoinYear = strconv.Itoa(existing.JoinYear)
	case d.opts.DefaultDomainID > 0:
		form.DomainID = strconv.FormatInt(d.opts.DefaultDomainID, 10)
		form.JoinYear = strconv.Itoa(d.opts.DefaultYear)
	}
	return form
}
