package editor

import (
	"context"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/models/dto"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
)

// DomainStore is the backend surface the domain dialog writes through
type DomainStore interface {
	Create(ctx context.Context, req models.DomainRequest) (*models.Domain, error)
	Update(ctx context.Context, id int64, req models.DomainRequest) (*models.Domain, error)
	UpdateImpact(ctx context.Context, id int64, req models.DomainRequest) (*models.UpdateImpact, error)
}

// DomainOptions configure a domain dialog
type DomainOptions struct {
	// CheckImpact asks the backend before an edit is written
	CheckImpact bool
	DefaultYear int
	OnSuccess   func(saved *models.Domain)
}

// DomainDialog edits or creates a domain
type DomainDialog struct {
	*Dialog[models.Domain, dto.DomainForm]
	opts DomainOptions
}

// NewDomainDialog wires a dialog to store
func NewDomainDialog(store DomainStore, opts DomainOptions, m *metrics.Metrics) *DomainDialog {
	hooks := Hooks[models.Domain, dto.DomainForm]{
		Kind:      "domain",
		Validate:  dto.DomainForm.Validate,
		OnSuccess: opts.OnSuccess,
		Save: func(ctx context.Context, existing *models.Domain, form dto.DomainForm) (*models.Domain, error) {
			if existing == nil {
				return store.Create(ctx, form.ToRequest())
			}
			return store.Update(ctx, existing.DomainID, form.ToRequest())
		},
	}
	if opts.CheckImpact {
		hooks.Impact = func(ctx context.Context, existing *models.Domain, form dto.DomainForm) (*models.UpdateImpact, error) {
			return store.UpdateImpact(ctx, existing.DomainID, form.ToRequest())
		}
	}

	return &DomainDialog{
		Dialog: NewDialog(hooks, m),
		opts:   opts,
	}
}

// OpenFor opens the dialog with the form prefilled from existing, or empty for create
func (d *DomainDialog) OpenFor(existing *models.Domain) {
	if existing == nil {
		d.Open(nil, dto.NewDomainForm(d.opts.DefaultYear))
		return
	}
	d.Open(existing, dto.DomainFormFrom(existing, d.opts.DefaultYear))
}
