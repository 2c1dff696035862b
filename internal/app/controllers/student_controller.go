package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/erpconsole/internal/app/editor"
	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/models/dto"
	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/middleware"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

// StudentWriter is the backend surface student forms write through
type StudentWriter = editor.StudentStore

// StudentController handles student admission and editing
type StudentController struct {
	studentService *services.StudentService
	domainService  *services.DomainService
	writer         StudentWriter
	opts           EditorOptions
}

// NewStudentController creates a new StudentController
func NewStudentController(
	studentService *services.StudentService,
	domainService *services.DomainService,
	writer StudentWriter,
	opts EditorOptions,
) *StudentController {
	return &StudentController{
		studentService: studentService,
		domainService:  domainService,
		writer:         writer,
		opts:           opts,
	}
}

func (sc *StudentController) newDialog(claim *submissionClaim, domainID int64, onSuccess func(*models.Student)) *editor.StudentDialog {
	return editor.NewStudentDialog(guardedStudentStore{StudentWriter: sc.writer, claim: claim}, editor.StudentOptions{
		DefaultDomainID: domainID,
		DefaultYear:     sc.opts.DefaultYear,
		OnSuccess:       onSuccess,
	}, sc.opts.Metrics)
}

// domainQuery reads the domain a student page was opened from; 0 when absent
func domainQuery(ctx *gin.Context) int64 {
	id, err := strconv.ParseInt(ctx.Query("domainId"), 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// NewStudent renders the standalone admission page with a domain select
// @Summary Student admission form
// @Tags students
// @Produce html
// @Success 200 {string} string "Student form"
// @Router /students/new [get]
func (sc *StudentController) NewStudent(ctx *gin.Context) {
	dialog := sc.newDialog(nil, 0, nil)
	dialog.OpenFor(nil)
	sc.renderForm(ctx, http.StatusOK, dialog, 0)
}

// NewStudentForDomain renders the admission dialog with the domain locked
// @Summary Student admission form for a domain
// @Tags students
// @Produce html
// @Param id path int true "Domain ID"
// @Success 200 {string} string "Student form"
// @Router /domains/{id}/students/new [get]
func (sc *StudentController) NewStudentForDomain(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	dialog := sc.newDialog(nil, id, nil)
	dialog.OpenFor(nil)
	sc.renderForm(ctx, http.StatusOK, dialog, id)
}

// AdmitStudent validates and admits a student. The backend generates the
// roll number.
// @Summary Admit a student
// @Tags students
// @Accept x-www-form-urlencoded
// @Produce html
// @Param domainId query int false "Domain the form was opened from"
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param joinYear formData int true "Join year"
// @Param examMarks formData number true "Exam marks"
// @Success 303 {string} string "Redirect with the generated roll number"
// @Failure 422 {string} string "Form with field errors"
// @Router /students [post]
func (sc *StudentController) AdmitStudent(ctx *gin.Context) {
	sc.submitStudent(ctx, nil, domainQuery(ctx))
}

// EditStudent renders the student dialog with domain and join year locked
// @Summary Student edit form
// @Tags students
// @Produce html
// @Param id path int true "Student ID"
// @Param domainId query int false "Domain the page was opened from"
// @Success 200 {string} string "Student form"
// @Failure 404 {string} string "Student not found"
// @Router /students/{id}/edit [get]
func (sc *StudentController) EditStudent(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	existing, err := sc.studentService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	domainID := domainQuery(ctx)
	dialog := sc.newDialog(nil, domainID, nil)
	dialog.OpenFor(existing)
	sc.renderForm(ctx, http.StatusOK, dialog, domainID)
}

// UpdateStudent validates and saves a student edit
// @Summary Update a student
// @Tags students
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "Student ID"
// @Success 303 {string} string "Redirect to the domain page"
// @Failure 422 {string} string "Form with field errors"
// @Router /students/{id} [post]
func (sc *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	existing, err := sc.studentService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}
	sc.submitStudent(ctx, existing, domainQuery(ctx))
}

func (sc *StudentController) submitStudent(ctx *gin.Context, existing *models.Student, domainID int64) {
	var form dto.StudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleConsoleError(ctx, apperrors.NewBadRequestError("Invalid student form"))
		return
	}
	form.Sanitize()

	submissionID, err := middleware.BindSubmissionID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	var saved *models.Student
	claim := &submissionClaim{opts: sc.opts, submissionID: submissionID}
	dialog := sc.newDialog(claim, domainID, func(s *models.Student) { saved = s })
	dialog.OpenFor(existing)

	outcome, err := dialog.Submit(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	switch outcome {
	case editor.OutcomeSaved:
		sc.redirectAfterSave(ctx, existing, saved, domainID)
	case editor.OutcomeInvalid:
		sc.renderForm(ctx, http.StatusUnprocessableEntity, dialog, domainID)
	case editor.OutcomeFailed:
		if claim.duplicate {
			redirectWithFlash(ctx, sc.returnPath(existing, domainID), "", nil)
			return
		}
		claim.release(ctx.Request.Context())
		sc.renderForm(ctx, http.StatusOK, dialog, domainID)
	default:
		redirectWithFlash(ctx, sc.returnPath(existing, domainID), "", nil)
	}
}

func (sc *StudentController) returnPath(existing *models.Student, domainID int64) string {
	switch {
	case domainID > 0:
		return domainViewPath(domainID)
	case existing != nil && existing.DomainID > 0:
		return domainViewPath(existing.DomainID)
	}
	return "/domains-list"
}

func (sc *StudentController) redirectAfterSave(ctx *gin.Context, existing, saved *models.Student, domainID int64) {
	path := sc.returnPath(existing, domainID)
	if existing != nil {
		redirectWithFlash(ctx, path, flashStudentSaved, nil)
		return
	}

	var roll string
	if saved != nil {
		roll = saved.RollNumber
	}
	logger.FromContext(ctx.Request.Context()).Info().Str("roll_number", roll).Msg("Student admitted")
	redirectWithFlash(ctx, path, flashStudentAdmitted, url.Values{"roll": {roll}})
}

func (sc *StudentController) renderForm(ctx *gin.Context, status int, dialog *editor.StudentDialog, domainID int64) {
	snap := dialog.Snapshot()
	page := views.StudentFormPage{
		Page:         newPage(ctx, "Student"),
		Editing:      snap.Mode == editor.ModeEdit,
		Locked:       dialog.Locked(),
		Student:      snap.Existing,
		Form:         snap.Form,
		FieldErrors:  snap.FieldErrors,
		SubmissionID: newSubmissionID(),
		Action:       "/students",
		CancelURL:    sc.returnPath(snap.Existing, domainID),
	}
	page.Error = snap.Error

	if snap.Existing != nil {
		page.Action = "/students/" + formatID(snap.Existing.StudentID)
	}
	if domainID > 0 {
		page.Action += "?domainId=" + formatID(domainID)
	}

	rctx := ctx.Request.Context()
	if page.Locked {
		if id, err := strconv.ParseInt(snap.Form.DomainID, 10, 64); err == nil && id > 0 {
			domain, err := sc.domainService.Get(rctx, id)
			if err != nil {
				logger.FromContext(rctx).Warn().Err(err).Int64("domain_id", id).Msg("Failed to load domain for student form")
			}
			page.Domain = domain
		}
	} else {
		domains, err := sc.domainService.List(rctx)
		if err != nil && page.Error == "" {
			page.Error = apperrors.Classify(err)
		}
		page.Domains = domains
	}

	ctx.HTML(status, views.StudentForm, page)
}

// DeleteStudent removes a student after the browser's confirm prompt
// @Summary Delete a student
// @Tags students
// @Produce html
// @Param id path int true "Student ID"
// @Param domainId formData int false "Domain page to return to"
// @Success 303 {string} string "Redirect to the domain page"
// @Router /students/{id}/delete [post]
func (sc *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := middleware.BindID(ctx)
	if err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	if err := sc.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleConsoleError(ctx, err)
		return
	}

	domainID, _ := strconv.ParseInt(ctx.PostForm("domainId"), 10, 64)
	redirectWithFlash(ctx, sc.returnPath(nil, domainID), flashStudentDeleted, nil)
}
