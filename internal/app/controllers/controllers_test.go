package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/yigit/erpconsole/internal/app/controllers"
	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/repositories"
	"github.com/yigit/erpconsole/internal/app/routes"
	"github.com/yigit/erpconsole/internal/app/services"
	"github.com/yigit/erpconsole/internal/app/views"
	"github.com/yigit/erpconsole/internal/middleware"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/auth"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
	"github.com/yigit/erpconsole/internal/pkg/submitguard"
)

const sessionCookie = "id_token=test-session"

// fakeBackend is an in-memory stand-in for the records service
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	domains   map[int64]models.Domain
	students  map[int64][]models.Student
	impact    int64
	admitErr  *apperrors.ErrorBody
	listError *apperrors.ErrorBody
}

func (b *fakeBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)

	if r.URL.Path == "/api/auth/me" {
		if !strings.Contains(r.Header.Get("Cookie"), "id_token=") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, models.UserProfile{Name: "Jane Admin", Email: "jane@uni.edu"})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/api/health":
		_, _ = w.Write([]byte("Backend Working"))
	case r.URL.Path == "/api/database/init":
		b.listError = nil
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Database tables created successfully"})
	case r.URL.Path == "/api/domains" && r.Method == http.MethodGet:
		if b.listError != nil {
			writeJSON(w, http.StatusInternalServerError, b.listError)
			return
		}
		out := make([]models.Domain, 0, len(b.domains))
		for _, d := range b.domains {
			out = append(out, d)
		}
		writeJSON(w, http.StatusOK, out)
	case len(parts) >= 3 && parts[1] == "domains":
		id, _ := strconv.ParseInt(parts[2], 10, 64)
		d, ok := b.domains[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, apperrors.ErrorBody{Message: "Domain not found"})
			return
		}
		switch {
		case len(parts) == 4 && parts[3] == "impact":
			writeJSON(w, http.StatusOK, models.UpdateImpact{DomainID: id, AffectedStudentsCount: b.impact, Message: "3 students fall below the new cutoff"})
		case len(parts) == 4 && parts[3] == "delete-impact":
			writeJSON(w, http.StatusOK, models.UpdateImpact{DomainID: id, AffectedStudentsCount: int64(len(b.students[id]))})
		case r.Method == http.MethodPatch:
			var req models.DomainRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			d.Program, d.Capacity = req.Program, req.Capacity
			b.domains[id] = d
			writeJSON(w, http.StatusOK, d)
		case r.Method == http.MethodDelete:
			delete(b.domains, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, d)
		}
	case r.URL.Path == "/api/students/admit":
		if b.admitErr != nil {
			writeJSON(w, http.StatusConflict, b.admitErr)
			return
		}
		var req models.StudentAdmissionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, models.Student{StudentID: 11, RollNumber: "BT2026011", DomainID: req.DomainID, JoinYear: req.JoinYear})
	case len(parts) == 4 && parts[1] == "students" && parts[2] == "domain":
		id, _ := strconv.ParseInt(parts[3], 10, 64)
		writeJSON(w, http.StatusOK, b.students[id])
	default:
		http.NotFound(w, r)
	}
}

type ConsoleSuite struct {
	suite.Suite
	backend *fakeBackend
	router  *gin.Engine
}

func TestConsoleSuite(t *testing.T) {
	suite.Run(t, new(ConsoleSuite))
}

func (s *ConsoleSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cutoff := 60.0
	s.backend = &fakeBackend{
		domains: map[int64]models.Domain{
			1: {DomainID: 1, Program: "B.Tech CSE", Batch: "2024", Capacity: 60, ExamName: "JEE", CutoffMarks: &cutoff},
			2: {DomainID: 2, Program: "M.Tech ECE", Batch: "2025", Capacity: 20, ExamName: "GATE", CutoffMarks: &cutoff},
		},
		students: map[int64][]models.Student{},
	}
	srv := httptest.NewServer(s.backend)
	s.T().Cleanup(srv.Close)

	m := metrics.New(prometheus.NewRegistry())
	repos := repositories.NewRepositories(repositories.NewBackendClient(srv.URL, 2*time.Second, m))
	domainService := services.NewDomainService(repos.DomainRepository, repos.StudentRepository)
	databaseService := services.NewDatabaseService(repos.DatabaseRepository, repos.DomainRepository, 0, time.Minute)
	authService := services.NewAuthService(repos.AuthRepository)
	tokens := auth.NewConfirmTokenService(auth.ConfirmConfig{SecretKey: "controller-test-secret", TTL: time.Minute, Issuer: "test"})
	opts := controllers.EditorOptions{
		DefaultYear:   2026,
		SubmissionTTL: time.Minute,
		Guard:         submitguard.NewMemoryGuard(),
		Metrics:       m,
	}

	tmpl, err := views.Load()
	s.Require().NoError(err)

	router := gin.New()
	router.Use(middleware.RequestContext(zerolog.Nop()))
	router.SetHTMLTemplate(tmpl)
	routes.SetupRouter(router,
		controllers.NewAuthController(authService),
		controllers.NewDomainController(domainService, databaseService, repos.DomainRepository, tokens, opts),
		controllers.NewStudentController(services.NewStudentService(repos.StudentRepository), domainService, repos.StudentRepository, opts),
		controllers.NewHealthController(databaseService),
		middleware.NewAuthMiddleware(authService),
	)
	s.router = router
}

func (s *ConsoleSuite) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Cookie", sessionCookie)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func domainForm(capacity string) url.Values {
	return url.Values{
		"program":      {"B.Tech CSE"},
		"batch":        {"2024"},
		"capacity":     {capacity},
		"examName":     {"JEE"},
		"cutoffMarks":  {"70"},
		"submissionId": {uuid.NewString()},
	}
}

func studentForm(email string) url.Values {
	return url.Values{
		"firstName":    {"Asha"},
		"lastName":     {"Rao"},
		"email":        {email},
		"domainId":     {"1"},
		"joinYear":     {"2026"},
		"examMarks":    {"88.5"},
		"submissionId": {uuid.NewString()},
	}
}

var tokenPattern = regexp.MustCompile(`name="token" value="([^"]+)"`)

func (s *ConsoleSuite) TestWelcomePageWithoutSession() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Welcome to Academic ERP")
	s.Contains(w.Body.String(), "/login")
}

func (s *ConsoleSuite) TestHomeRedirectsToDomains() {
	w := s.do(http.MethodGet, "/", nil)
	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal("/domains-list", w.Header().Get("Location"))
}

func (s *ConsoleSuite) TestListShowsCardsAndFlash() {
	w := s.do(http.MethodGet, "/domains-list?flash=domain-saved", nil)
	s.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, "Domain saved successfully!")
	s.Contains(body, "M.Tech ECE")
	s.Contains(body, "Jane Admin")
}

func (s *ConsoleSuite) TestInvalidEmailMakesNoBackendWrite() {
	w := s.do(http.MethodPost, "/students?domainId=1", studentForm("not-an-email"))

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "Please enter a valid email address")
	s.Equal(0, s.backend.count("POST /api/students/admit"))
}

func (s *ConsoleSuite) TestDuplicateEmailShowsExactSentence() {
	s.backend.admitErr = &apperrors.ErrorBody{Type: "DUPLICATE_EMAIL"}

	w := s.do(http.MethodPost, "/students?domainId=1", studentForm("asha@uni.edu"))

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "A student with this email address already exists. Please use a different email.")
	s.Equal(1, s.backend.count("POST /api/students/admit"))
}

func (s *ConsoleSuite) TestAdmitRedirectsWithRollNumber() {
	w := s.do(http.MethodPost, "/students?domainId=1", studentForm("asha@uni.edu"))

	s.Require().Equal(http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	s.True(strings.HasPrefix(location, "/domains/1/view?"), location)

	w = s.do(http.MethodGet, location, nil)
	s.Contains(w.Body.String(), "Student admitted. Generated roll number: BT2026011")
}

func (s *ConsoleSuite) TestResentAdmitFormWritesOnce() {
	form := studentForm("asha@uni.edu")

	first := s.do(http.MethodPost, "/students?domainId=1", form)
	second := s.do(http.MethodPost, "/students?domainId=1", form)

	s.Equal(http.StatusSeeOther, first.Code)
	s.Equal(http.StatusSeeOther, second.Code)
	s.Equal(1, s.backend.count("POST /api/students/admit"))
}

func (s *ConsoleSuite) TestImpactConfirmationFlow() {
	s.backend.impact = 3

	w := s.do(http.MethodPost, "/domains/1", domainForm("40"))
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, "Confirm Domain Update")
	s.Contains(body, "3 students fall below the new cutoff")
	s.Equal(1, s.backend.count("POST /api/domains/1/impact"))
	s.Equal(0, s.backend.count("PATCH /api/domains/1"), "nothing is written before confirmation")

	match := tokenPattern.FindStringSubmatch(body)
	s.Require().Len(match, 2)

	confirm := url.Values{"token": {match[1]}}
	w = s.do(http.MethodPost, "/domains/1/confirm", confirm)
	s.Equal(http.StatusSeeOther, w.Code)
	s.Contains(w.Header().Get("Location"), "flash=domain-saved")
	s.Equal(1, s.backend.count("PATCH /api/domains/1"))
	s.Equal(40, s.backend.domains[1].Capacity)

	// a second click on Confirm reuses the submission id
	w = s.do(http.MethodPost, "/domains/1/confirm", confirm)
	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal(1, s.backend.count("PATCH /api/domains/1"))
}

func (s *ConsoleSuite) TestCancelledConfirmationRestoresForm() {
	s.backend.impact = 3

	w := s.do(http.MethodPost, "/domains/1", domainForm("45"))
	match := tokenPattern.FindStringSubmatch(w.Body.String())
	s.Require().Len(match, 2)

	w = s.do(http.MethodGet, "/domains/1/edit?token="+match[1], nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `name="capacity" value="45"`)
	s.Equal(0, s.backend.count("PATCH /api/domains/1"))
}

func (s *ConsoleSuite) TestZeroImpactUpdateWritesImmediately() {
	w := s.do(http.MethodPost, "/domains/1", domainForm("50"))

	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal(1, s.backend.count("PATCH /api/domains/1"))
}

func (s *ConsoleSuite) TestInvalidConfirmationToken() {
	w := s.do(http.MethodPost, "/domains/1/confirm", url.Values{"token": {"garbage"}})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), controllers.MsgConfirmationExpired)
	s.Equal(0, s.backend.count("PATCH /api/domains/1"))
}

func (s *ConsoleSuite) TestZeroImpactDeleteIssuesOneDelete() {
	w := s.do(http.MethodGet, "/domains/2/delete", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "No students are associated with this domain.")

	w = s.do(http.MethodPost, "/domains/2/delete", nil)
	s.Equal(http.StatusSeeOther, w.Code)
	s.Contains(w.Header().Get("Location"), "flash=domain-deleted")
	s.Equal(1, s.backend.count("DELETE /api/domains/2"))
}

func (s *ConsoleSuite) TestMissingDomainShowsClassifiedMessage() {
	w := s.do(http.MethodGet, "/domains/99/view", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), apperrors.MsgDomainNotFound)
}

func (s *ConsoleSuite) TestCreateTablesRecovery() {
	s.backend.listError = &apperrors.ErrorBody{Message: "Table 'erp.domains' doesn't exist"}

	w := s.do(http.MethodGet, "/domains-list", nil)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Contains(w.Body.String(), "Create Tables")

	before := s.backend.count("GET /api/domains")
	w = s.do(http.MethodPost, "/database/init", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(1, s.backend.count("POST /api/database/init"))
	s.Equal(before+1, s.backend.count("GET /api/domains"))
	s.Contains(w.Body.String(), "B.Tech CSE")

	w = s.do(http.MethodPost, "/database/init", nil)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal(1, s.backend.count("POST /api/database/init"))
}

func (s *ConsoleSuite) TestSortedDomainView() {
	low, high := 50.0, 95.0
	s.backend.students[1] = []models.Student{
		{StudentID: 1, FirstName: "Yusuf", ExamMarks: &low},
		{StudentID: 2, FirstName: "Zora"},
		{StudentID: 3, FirstName: "Xanthe", ExamMarks: &high},
	}

	w := s.do(http.MethodGet, "/domains/1/view?sort=desc", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Less(strings.Index(body, "Xanthe"), strings.Index(body, "Yusuf"))
	s.Less(strings.Index(body, "Yusuf"), strings.Index(body, "Zora"), "missing marks sort last")
	s.Contains(body, "3 students enrolled")
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Backend Working"))
	}))
	defer backend.Close()

	repos := repositories.NewRepositories(repositories.NewBackendClient(backend.URL, time.Second, nil))
	hc := controllers.NewHealthController(services.NewDatabaseService(repos.DatabaseRepository, repos.DomainRepository, 0, 0))

	router := gin.New()
	router.GET("/healthz", hc.Health)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Backend Working")
}
