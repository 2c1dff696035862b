package controllers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/middleware"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
	"github.com/yigit/erpconsole/internal/pkg/submitguard"
)

// Flash codes carried in the redirect query after a write
const (
	flashDomainSaved     = "domain-saved"
	flashDomainDeleted   = "domain-deleted"
	flashStudentAdmitted = "student-admitted"
	flashStudentSaved    = "student-saved"
	flashStudentDeleted  = "student-deleted"
)

// EditorOptions are shared by the controllers that render editor dialogs
type EditorOptions struct {
	DefaultYear   int
	SubmissionTTL time.Duration
	Guard         submitguard.Guard
	Metrics       *metrics.Metrics
}

func newPage(c *gin.Context, title string) views.Page {
	return views.Page{
		Title: title,
		User:  middleware.CurrentUser(c),
		Flash: flashMessage(c),
	}
}

func flashMessage(c *gin.Context) string {
	switch c.Query("flash") {
	case flashDomainSaved:
		return services.DomainSavedFlash
	case flashDomainDeleted:
		return services.DomainDeletedFlash
	case flashStudentAdmitted:
		return services.AdmittedFlash(c.Query("roll"))
	case flashStudentSaved:
		return services.StudentSavedFlash
	case flashStudentDeleted:
		return services.StudentDeletedFlash
	}
	return ""
}

// redirectWithFlash answers a successful post with 303 so a reload does not resubmit
func redirectWithFlash(c *gin.Context, path, flash string, extra url.Values) {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	if flash != "" {
		q.Set("flash", flash)
	}
	target := path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

func newSubmissionID() string {
	return uuid.NewString()
}

func domainViewPath(id int64) string {
	return "/domains/" + formatID(id) + "/view"
}

// submissionClaim gates the first backend write of a form post on the
// submit-once guard. A resent form finds its id already claimed.
type submissionClaim struct {
	opts         EditorOptions
	submissionID string
	duplicate    bool
	claimed      bool
}

func (s *submissionClaim) claim(ctx context.Context) error {
	if s == nil || s.opts.Guard == nil || s.submissionID == "" {
		return nil
	}
	ok, err := s.opts.Guard.Claim(ctx, s.submissionID, s.opts.SubmissionTTL)
	if err != nil {
		// an unreachable guard store does not block writes
		logger.FromContext(ctx).Warn().Err(err).Msg("Submission guard unavailable")
		return nil
	}
	if !ok {
		s.duplicate = true
		s.opts.Metrics.IncrementDuplicateSubmission()
		logger.FromContext(ctx).Info().Str("submission_id", s.submissionID).Msg("Ignoring resent form")
		return apperrors.ErrDuplicateSubmission
	}
	s.claimed = true
	return nil
}

// release lets the user retry the same form after a failed write
func (s *submissionClaim) release(ctx context.Context) {
	if s == nil || !s.claimed || s.opts.Guard == nil {
		return
	}
	if err := s.opts.Guard.Release(ctx, s.submissionID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Failed to release submission")
	}
	s.claimed = false
}

// guardedDomainStore claims the submission before writing
type guardedDomainStore struct {
	DomainWriter
	claim *submissionClaim
}

func (s guardedDomainStore) Create(ctx context.Context, req models.DomainRequest) (*models.Domain, error) {
	if err := s.claim.claim(ctx); err != nil {
		return nil, err
	}
	return s.DomainWriter.Create(ctx, req)
}

func (s guardedDomainStore) Update(ctx context.Context, id int64, req models.DomainRequest) (*models.Domain, error) {
	if err := s.claim.claim(ctx); err != nil {
		return nil, err
	}
	return s.DomainWriter.Update(ctx, id, req)
}

// guardedStudentStore claims the submission before writing
type guardedStudentStore struct {
	StudentWriter
	claim *submissionClaim
}

func (s guardedStudentStore) Admit(ctx context.Context, req models.StudentAdmissionRequest) (*models.Student, error) {
	if err := s.claim.claim(ctx); err != nil {
		return nil, err
	}
	return s.StudentWriter.Admit(ctx, req)
}

func (s guardedStudentStore) Update(ctx context.Context, req models.StudentUpdateRequest) (*models.Student, error) {
	if err := s.claim.claim(ctx); err != nil {
		return nil, err
	}
	return s.StudentWriter.Update(ctx, req)
}
