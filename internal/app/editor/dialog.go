// Package editor holds the record editor dialog: a small state machine that
// validates a form, optionally asks the backend for the impact of an edit,
// waits for the user to acknowledge that impact and only then writes.
package editor

import (
	"context"
	"sync"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
	"github.com/yigit/erpconsole/internal/pkg/validation"
)

// State of a dialog
type State int

const (
	Closed State = iota
	Open
	CheckingImpact
	ConfirmingImpact
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case CheckingImpact:
		return "checking_impact"
	case ConfirmingImpact:
		return "confirming_impact"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// Mode tells whether the dialog creates a record or edits an existing one
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Outcome of a Submit or Confirm call
type Outcome string

const (
	OutcomeInvalid      Outcome = "invalid"
	OutcomeNeedsConfirm Outcome = "needs_confirmation"
	OutcomeSaved        Outcome = "saved"
	OutcomeFailed       Outcome = "failed"
	OutcomeStale        Outcome = "stale"
)

// Hooks connect a dialog to a record kind. R is the stored record, F the form.
type Hooks[R any, F any] struct {
	// Kind labels logs and metrics, e.g. "domain"
	Kind string

	Validate func(form F) validation.FieldErrors

	// Impact is consulted before an edit is written. Nil disables the check.
	Impact func(ctx context.Context, existing *R, form F) (*models.UpdateImpact, error)

	// Save creates when existing is nil, otherwise updates
	Save func(ctx context.Context, existing *R, form F) (*R, error)

	OnSuccess func(saved *R)
}

// Snapshot is a copy of the dialog's observable fields
type Snapshot[R any, F any] struct {
	State       State
	Mode        Mode
	Existing    *R
	Form        F
	Error       string
	FieldErrors validation.FieldErrors
	Impact      *models.UpdateImpact
	Generation  uint64
}

// Dialog is safe for concurrent use. Backend calls run without the lock held;
// a result whose generation no longer matches is dropped.
type Dialog[R any, F any] struct {
	mu      sync.Mutex
	hooks   Hooks[R, F]
	metrics *metrics.Metrics

	state       State
	mode        Mode
	existing    *R
	form        F
	pending     *F
	impact      *models.UpdateImpact
	err         string
	fieldErrors validation.FieldErrors
	generation  uint64
}

// NewDialog creates a closed dialog. m may be nil.
func NewDialog[R any, F any](hooks Hooks[R, F], m *metrics.Metrics) *Dialog[R, F] {
	return &Dialog[R, F]{
		hooks:   hooks,
		metrics: m,
		state:   Closed,
	}
}

// Open starts a new dialog session. A nil existing record means create mode.
func (d *Dialog[R, F]) Open(existing *R, initial F) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	d.state = Open
	d.existing = existing
	d.mode = ModeCreate
	if existing != nil {
		d.mode = ModeEdit
	}
	d.form = initial
	d.pending = nil
	d.impact = nil
	d.err = ""
	d.fieldErrors = nil
}

// Restore reopens an edit session directly in ConfirmingImpact, used when the
// pending form comes back from the browser inside a confirmation token.
func (d *Dialog[R, F]) Restore(existing *R, pending F, impact *models.UpdateImpact) {
	d.Open(existing, pending)

	d.mu.Lock()
	defer d.mu.Unlock()
	p := pending
	d.pending = &p
	d.impact = impact
	d.state = ConfirmingImpact
}

// Close ends the session from any state. Results still in flight become stale.
func (d *Dialog[R, F]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Dialog[R, F]) closeLocked() {
	d.generation++
	d.state = Closed
	d.pending = nil
	d.impact = nil
	d.err = ""
	d.fieldErrors = nil
}

// Dismiss handles Escape or a backdrop click: the confirmation closes first,
// a second dismiss closes the dialog.
func (d *Dialog[R, F]) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case ConfirmingImpact:
		d.cancelConfirmLocked()
	case Closed:
	default:
		d.closeLocked()
	}
}

// CancelConfirm drops the pending payload without writing anything
func (d *Dialog[R, F]) CancelConfirm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == ConfirmingImpact {
		d.cancelConfirmLocked()
	}
}

func (d *Dialog[R, F]) cancelConfirmLocked() {
	d.state = Open
	d.pending = nil
	d.impact = nil
}

// Submit validates the form and then either parks it behind an impact
// confirmation or writes it.
func (d *Dialog[R, F]) Submit(ctx context.Context, form F) (Outcome, error) {
	d.mu.Lock()
	switch d.state {
	case Closed:
		d.mu.Unlock()
		return "", apperrors.ErrDialogClosed
	case CheckingImpact, Submitting, ConfirmingImpact:
		d.mu.Unlock()
		return "", apperrors.ErrSubmitInFlight
	}

	d.form = form
	d.err = ""
	d.fieldErrors = nil

	if d.hooks.Validate != nil {
		if errs := d.hooks.Validate(form); errs.HasErrors() {
			d.fieldErrors = errs
			d.mu.Unlock()
			d.metrics.IncrementEditorOutcome(d.hooks.Kind, string(OutcomeInvalid))
			return OutcomeInvalid, nil
		}
	}

	gen := d.generation
	existing := d.existing

	if d.mode == ModeEdit && d.hooks.Impact != nil {
		d.state = CheckingImpact
		d.mu.Unlock()

		impact, err := d.hooks.Impact(ctx, existing, form)

		d.mu.Lock()
		if gen != d.generation {
			d.mu.Unlock()
			d.dropStale(ctx, "impact", err)
			return OutcomeStale, nil
		}
		if err != nil {
			d.state = Open
			d.err = apperrors.Classify(err)
			d.mu.Unlock()
			d.logFailure(ctx, "impact", err)
			return OutcomeFailed, nil
		}
		if impact.HasImpact() {
			p := form
			d.pending = &p
			d.impact = impact
			d.state = ConfirmingImpact
			d.mu.Unlock()
			d.metrics.IncrementEditorOutcome(d.hooks.Kind, string(OutcomeNeedsConfirm))
			return OutcomeNeedsConfirm, nil
		}
		d.impact = impact
	}

	d.state = Submitting
	d.mu.Unlock()
	return d.write(ctx, gen, existing, form)
}

// Confirm writes the payload parked by an impact check
func (d *Dialog[R, F]) Confirm(ctx context.Context) (Outcome, error) {
	d.mu.Lock()
	if d.state != ConfirmingImpact || d.pending == nil {
		d.mu.Unlock()
		return "", apperrors.ErrNothingToConfirm
	}

	form := *d.pending
	d.pending = nil
	d.state = Submitting
	d.err = ""
	gen := d.generation
	existing := d.existing
	d.mu.Unlock()

	return d.write(ctx, gen, existing, form)
}

func (d *Dialog[R, F]) write(ctx context.Context, gen uint64, existing *R, form F) (Outcome, error) {
	saved, err := d.hooks.Save(ctx, existing, form)

	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		d.dropStale(ctx, "save", err)
		// the write went through, so listeners may still refresh
		if err == nil && d.hooks.OnSuccess != nil {
			d.hooks.OnSuccess(saved)
		}
		return OutcomeStale, nil
	}
	if err != nil {
		d.state = Open
		d.err = apperrors.Classify(err)
		d.mu.Unlock()
		d.logFailure(ctx, "save", err)
		return OutcomeFailed, nil
	}

	d.err = ""
	d.closeLocked()
	d.mu.Unlock()

	d.metrics.IncrementEditorOutcome(d.hooks.Kind, string(OutcomeSaved))
	if d.hooks.OnSuccess != nil {
		d.hooks.OnSuccess(saved)
	}
	return OutcomeSaved, nil
}

func (d *Dialog[R, F]) dropStale(ctx context.Context, step string, err error) {
	d.metrics.IncrementStaleResult()
	evt := logger.FromContext(ctx).Warn().
		Str("kind", d.hooks.Kind).
		Str("step", step)
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("Dropping editor result for a dialog that was closed or reopened")
}

func (d *Dialog[R, F]) logFailure(ctx context.Context, step string, err error) {
	d.metrics.IncrementEditorOutcome(d.hooks.Kind, string(OutcomeFailed))
	logger.FromContext(ctx).Info().
		Err(err).
		Str("kind", d.hooks.Kind).
		Str("step", step).
		Msg("Editor submission failed")
}

// Snapshot returns the current observable state
func (d *Dialog[R, F]) Snapshot() Snapshot[R, F] {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot[R, F]{
		State:      d.state,
		Mode:       d.mode,
		Existing:   d.existing,
		Form:       d.form,
		Error:      d.err,
		Impact:     d.impact,
		Generation: d.generation,
	}
	if d.fieldErrors != nil {
		s.FieldErrors = make(validation.FieldErrors, len(d.fieldErrors))
		for k, v := range d.fieldErrors {
			s.FieldErrors[k] = v
		}
	}
	return s
}

// State returns the current state
func (d *Dialog[R, F]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
