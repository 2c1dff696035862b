package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/app/editor"
	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/models/dto"
	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/middleware"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/auth"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

// DomainWriter is the backend surface domain forms write through
type DomainWriter = editor.DomainStore

// MsgConfirmationExpired is shown when a confirmation token can no longer be used
const MsgConfirmationExpired = "This confirmation is no longer valid. Please submit the change again."

// DomainController handles domain pages
type DomainController struct {
	domainService   *services.DomainService
	databaseService *services.DatabaseService
	writer          DomainWriter
	tokens          *auth.ConfirmTokenService
	opts            EditorOptions
}

// NewDomainController creates a new DomainController
func NewDomainController(
	domainService *services.DomainService,
	databaseService *services.DatabaseService,
	writer DomainWriter,
	tokens *auth.ConfirmTokenService,
	opts EditorOptions,
) *DomainController {
	return &DomainController{
		domainService:   domainService,
		databaseService: databaseService,
		writer:          writer,
		tokens:          tokens,
		opts:            opts,
	}
}

func (dc *DomainController) newDialog(claim *submissionClaim) *editor.DomainDialog {
	return editor.NewDomainDialog(guardedDomainStore{DomainWriter: dc.writer, claim: claim}, editor.DomainOptions{
		CheckImpact: true,
		DefaultYear: dc.opts.DefaultYear,
	}, dc.opts.Metrics)
}

// ListDomains renders the domain cards
// @Summary List domains
// @Description Fetches every domain from the backend and renders one card per domain
// @Tags domains
// @Produce html
// @Param flash query string false "Feedback banner code"
// @Success 200 {string} string "Domains page"
// @Failure 502 {string} string "Backend unreachable"
// @Router /domains-list [get]
func (dc *DomainController) ListDomains(ctx *gin.Context) {
	page := views.DomainsListPage{Page: newPage(ctx, "Domains")}

	domains, err := dc.domainService.List(ctx.Request.Context())
	if err != nil {
		page.Error = apperrors.Classify(err)
		logger.FromContext(ctx.Request.Context()).Warn().Err(err).Msg("Failed to load domains")
		ctx.HTML(middleware.StatusFor(err), views.DomainsList, page)
		return
	}

	page.Domains = domains
	ctx.HTML(http.StatusOK, views.DomainsList, page)
}

// InitDatabase runs the "Create Tables" recovery action
// @Summary Create backend tables
// @Description Asks the backend to create its tables, waits briefly and reloads the domain list once
// @Tags domains
// @Produce html
// @Success 200 {string} string "Domains page"
// @Failure 429 {string} string "Requested too recently"
// @Router /database/init [post]
func (dc *DomainController) InitDatabase(ctx *gin.Context) {
	page := views.DomainsListPage{Page: newPage(ctx, "Domains")}

	domains, err := dc.databaseService.InitAndReload(ctx.Request.Context())
	if err != nil {
		page.Error = apperrors.Classify(err)
		logger.FromContext(ctx.Request.Context()).Warn().Err(err).Msg("Database initialisation failed")
		ctx.HTML(middleware.StatusFor(err), views.DomainsList, page)
		return
	}

	page.Domains = domains
	ctx.HTML(http.StatusOK, views.DomainsList, page)
}

// NewDomain renders an empty domain dialog
// @Summary Domain create form
// @Tags domains
// @Produce html
// @Success 200 {string} string "Domain form"
// @Router /domains/new [get]
func (dc *DomainController) NewDomain(ctx *gin.Context) {
	dialog := dc.newDialog(nil)
	dialog.OpenFor(nil)
	dc.renderForm(ctx, http.StatusOK, dialog)
}

// CreateDomain validates and creates a domain
// @Summary Create a domain
// @Tags domains
// @Accept x-www-form-urlencoded
// @Produce html
// @Param program formData string true "Program name"
// @Param batch formData string true "Batch year"
// @Param capacity formData int true "Seat capacity"
// @Param examName formData string true "Qualifying exam"
// @Param cutoffMarks formData number true "Cutoff marks"
// @Param submissionId formData string false "Submit-once id"
// @Success 303 {string} string "Redirect to the domains list"
// @Failure 422 {string} string "Form with field errors"
// @Router /domains [post]
func (dc *DomainController) CreateDomain(ctx *gin.Context) {
	dc.submitDomain(ctx, nil)
}

// EditDomain renders the domain dialog prefilled from the backend. A token
// query parameter restores a form whose confirmation was cancelled.
// @Summary Domain edit form
// @Tags domains
// @Produce html
// @Param id path int true "Domain ID"
// @Param token query string false "Cancelled confirmation"
// @Success 200 {string} string "Domain form"
// @Failure 404 {string} string "Domain not found"
// @Router /domains/{id}/edit [get]
func (dc *DomainController) EditDomain(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	existing, err := dc.domainService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	dialog := dc.newDialog(nil)
	if token := ctx.Query("token"); token != "" {
		if claims, err := dc.tokens.Verify(token, id); err == nil {
			dialog.Restore(existing, dto.DomainFormFromRequest(claims.Payload), claims.Impact())
			dialog.CancelConfirm()
			dc.renderForm(ctx, http.StatusOK, dialog)
			return
		}
	}

	dialog.OpenFor(existing)
	dc.renderForm(ctx, http.StatusOK, dialog)
}

// UpdateDomain validates an edit, checks its impact and writes it when no
// student is affected
// @Summary Update a domain
// @Tags domains
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "Domain ID"
// @Success 303 {string} string "Redirect to the domains list"
// @Success 200 {string} string "Impact confirmation"
// @Failure 422 {string} string "Form with field errors"
// @Router /domains/{id} [post]
func (dc *DomainController) UpdateDomain(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	existing, err := dc.domainService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}
	dc.submitDomain(ctx, existing)
}

func (dc *DomainController) submitDomain(ctx *gin.Context, existing *models.Domain) {
	var form dto.DomainForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleConsoleError(ctx, apperrors.NewBadRequestError("Invalid domain form"))
		return
	}
	form.Sanitize()

	submissionID, err := middleware.BindSubmissionID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	claim := &submissionClaim{opts: dc.opts, submissionID: submissionID}
	dialog := dc.newDialog(claim)
	dialog.OpenFor(existing)

	outcome, err := dialog.Submit(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}
	dc.finish(ctx, dialog, claim, outcome)
}

// ConfirmUpdate writes an update whose impact the user acknowledged
// @Summary Confirm a domain update
// @Tags domains
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "Domain ID"
// @Param token formData string true "Confirmation token"
// @Success 303 {string} string "Redirect to the domains list"
// @Failure 400 {string} string "Confirmation expired or invalid"
// @Router /domains/{id}/confirm [post]
func (dc *DomainController) ConfirmUpdate(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	claims, err := dc.tokens.Verify(ctx.PostForm("token"), id)
	if err != nil {
		code := apperrors.ErrTokenInvalid
		if errors.Is(err, auth.ErrExpiredToken) {
			code = apperrors.ErrTokenExpired
		}
		middleware.HandleConsoleError(ctx, apperrors.NewCustomError(code, err.Error()).WithStatusMsg(MsgConfirmationExpired))
		return
	}

	existing, err := dc.domainService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	claim := &submissionClaim{opts: dc.opts, submissionID: claims.SubmissionID}
	dialog := dc.newDialog(claim)
	dialog.Restore(existing, dto.DomainFormFromRequest(claims.Payload), claims.Impact())

	outcome, err := dialog.Confirm(ctx.Request.Context())
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}
	dc.finish(ctx, dialog, claim, outcome)
}

func (dc *DomainController) finish(ctx *gin.Context, dialog *editor.DomainDialog, claim *submissionClaim, outcome editor.Outcome) {
	snap := dialog.Snapshot()

	switch outcome {
	case editor.OutcomeSaved:
		redirectWithFlash(ctx, "/domains-list", flashDomainSaved, nil)
	case editor.OutcomeNeedsConfirm:
		dc.renderConfirm(ctx, snap, claim.submissionID)
	case editor.OutcomeInvalid:
		dc.renderForm(ctx, http.StatusUnprocessableEntity, dialog)
	case editor.OutcomeFailed:
		if claim.duplicate {
			redirectWithFlash(ctx, "/domains-list", "", nil)
			return
		}
		claim.release(ctx.Request.Context())
		dc.renderForm(ctx, http.StatusOK, dialog)
	default:
		redirectWithFlash(ctx, "/domains-list", "", nil)
	}
}

func (dc *DomainController) renderForm(ctx *gin.Context, status int, dialog *editor.DomainDialog) {
	snap := dialog.Snapshot()
	page := views.DomainFormPage{
		Page:         newPage(ctx, "Domain"),
		Editing:      snap.Mode == editor.ModeEdit,
		Domain:       snap.Existing,
		Form:         snap.Form,
		FieldErrors:  snap.FieldErrors,
		SubmissionID: newSubmissionID(),
		Action:       "/domains",
	}
	page.Error = snap.Error
	if snap.Existing != nil {
		page.Action = "/domains/" + formatID(snap.Existing.DomainID)
	}
	ctx.HTML(status, views.DomainForm, page)
}

func (dc *DomainController) renderConfirm(ctx *gin.Context, snap editor.Snapshot[models.Domain, dto.DomainForm], submissionID string) {
	token, err := dc.tokens.Issue(snap.Existing.DomainID, snap.Form.ToRequest(), snap.Impact, submissionID)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, views.DomainConfirm, views.DomainConfirmPage{
		Page:         newPage(ctx, "Confirm Update"),
		Domain:       snap.Existing,
		Form:         snap.Form,
		Impact:       snap.Impact,
		Token:        token,
		SubmissionID: submissionID,
	})
}

// DeletePrompt shows how many students a delete would remove
// @Summary Domain delete confirmation
// @Tags domains
// @Produce html
// @Param id path int true "Domain ID"
// @Success 200 {string} string "Delete confirmation"
// @Router /domains/{id}/delete [get]
func (dc *DomainController) DeletePrompt(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	domain, err := dc.domainService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	confirmation, err := dc.domainService.PrepareDelete(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, views.DomainDelete, views.DomainDeletePage{
		Page:         newPage(ctx, "Delete Domain"),
		Domain:       domain,
		Confirmation: confirmation,
	})
}

// DeleteDomain deletes a domain and, on the backend, its students
// @Summary Delete a domain
// @Tags domains
// @Produce html
// @Param id path int true "Domain ID"
// @Success 303 {string} string "Redirect to the domains list"
// @Router /domains/{id}/delete [post]
func (dc *DomainController) DeleteDomain(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	if err := dc.domainService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}
	redirectWithFlash(ctx, "/domains-list", flashDomainDeleted, nil)
}

// ViewDomain renders a domain with its students, sortable by exam marks
// @Summary Domain detail
// @Tags domains
// @Produce html
// @Param id path int true "Domain ID"
// @Param sort query string false "asc, desc or none" Enums(asc, desc, none)
// @Success 200 {string} string "Domain detail"
// @Router /domains/{id}/view [get]
func (dc *DomainController) ViewDomain(ctx *gin.Context) {
	dc.renderDetail(ctx, false)
}

// DomainStudents renders a read-only student list ordered by exam marks
// @Summary Domain students
// @Tags domains
// @Produce html
// @Param id path int true "Domain ID"
// @Success 200 {string} string "Students list"
// @Router /domains/{id}/students [get]
func (dc *DomainController) DomainStudents(ctx *gin.Context) {
	dc.renderDetail(ctx, true)
}

func (dc *DomainController) renderDetail(ctx *gin.Context, readOnly bool) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	detail, err := dc.domainService.Detail(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	order := models.SortAsc
	if !readOnly {
		order = models.ParseSortOrder(ctx.Query("sort"), models.SortAsc)
	}

	ctx.HTML(http.StatusOK, views.DomainView, views.DomainViewPage{
		Page:     newPage(ctx, detail.Domain.Program),
		Domain:   detail.Domain,
		Students: services.SortByExamMarks(detail.Students, order),
		Sort:     order,
		ReadOnly: readOnly,
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
