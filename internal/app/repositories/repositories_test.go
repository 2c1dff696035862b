package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/metrics"
)

type recorded struct {
	method string
	path   string
	cookie string
	body   []byte
}

func newBackend(t *testing.T, handler http.HandlerFunc) (*Repositories, *[]recorded, *metrics.Metrics) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, cookie: r.Header.Get("Cookie"), body: body})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	m := metrics.New(prometheus.NewRegistry())
	client := NewBackendClient(srv.URL+"/", 2*time.Second, m)
	return NewRepositories(client), &calls, m
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDomainRepository_GetAllForwardsCookies(t *testing.T) {
	repos, calls, m := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"domainId": 1, "program": "B.Tech CSE", "batch": "2024", "capacity": 60, "studentCount": 12},
		})
	})

	ctx := WithForwardedCookies(context.Background(), "id_token=abc")
	domains, err := repos.DomainRepository.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "B.Tech CSE", domains[0].Program)
	require.NotNil(t, domains[0].StudentCount)
	assert.Equal(t, int64(12), *domains[0].StudentCount)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/api/domains", (*calls)[0].path)
	assert.Equal(t, "id_token=abc", (*calls)[0].cookie)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("domains.list", "200")))
}

func TestDomainRepository_WritesUseExpectedVerbs(t *testing.T) {
	repos, calls, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/domains/5/impact" || r.URL.Path == "/api/domains/5/delete-impact":
			writeJSON(w, http.StatusOK, models.UpdateImpact{DomainID: 5, AffectedStudentsCount: 3, Message: "3 students"})
		default:
			writeJSON(w, http.StatusOK, models.Domain{DomainID: 5, Program: "B.Tech ECE"})
		}
	})
	ctx := context.Background()
	req := models.DomainRequest{Program: "B.Tech ECE", Batch: "2024", Capacity: 40, ExamName: "JEE", CutoffMarks: 70}

	_, err := repos.DomainRepository.Create(ctx, req)
	require.NoError(t, err)
	impact, err := repos.DomainRepository.UpdateImpact(ctx, 5, req)
	require.NoError(t, err)
	assert.True(t, impact.HasImpact())
	_, err = repos.DomainRepository.Update(ctx, 5, req)
	require.NoError(t, err)
	_, err = repos.DomainRepository.DeleteImpact(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, repos.DomainRepository.Delete(ctx, 5))

	got := make([]string, 0, len(*calls))
	for _, c := range *calls {
		got = append(got, c.method+" "+c.path)
	}
	assert.Equal(t, []string{
		"POST /api/domains",
		"POST /api/domains/5/impact",
		"PATCH /api/domains/5",
		"GET /api/domains/5/delete-impact",
		"DELETE /api/domains/5",
	}, got)

	var sent models.DomainRequest
	require.NoError(t, json.Unmarshal((*calls)[2].body, &sent))
	assert.Equal(t, req, sent)
}

func TestStudentRepository(t *testing.T) {
	repos, calls, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/students/domain/2":
			writeJSON(w, http.StatusOK, []map[string]interface{}{
				{"studentId": 1, "rollNumber": "BT1", "examMarks": 80.5},
				{"studentId": 2, "rollNumber": "BT2"},
			})
		case "/api/students/admit":
			writeJSON(w, http.StatusOK, models.Student{StudentID: 3, RollNumber: "BT2026003"})
		default:
			writeJSON(w, http.StatusOK, models.Student{StudentID: 3})
		}
	})
	ctx := context.Background()

	students, err := repos.StudentRepository.GetByDomain(ctx, 2)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.NotNil(t, students[0].ExamMarks)
	assert.Nil(t, students[1].ExamMarks)

	admitted, err := repos.StudentRepository.Admit(ctx, models.StudentAdmissionRequest{FirstName: "A", DomainID: 2})
	require.NoError(t, err)
	assert.Equal(t, "BT2026003", admitted.RollNumber)

	_, err = repos.StudentRepository.Update(ctx, models.StudentUpdateRequest{StudentID: 3, FirstName: "B"})
	require.NoError(t, err)
	assert.Equal(t, "PATCH", (*calls)[2].method)
	assert.Equal(t, "/api/students/3", (*calls)[2].path)
}

func TestBackendClient_ErrorResponses(t *testing.T) {
	repos, _, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/students/admit":
			writeJSON(w, http.StatusConflict, map[string]string{"type": "DUPLICATE_EMAIL"})
		case "/api/domains":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>oops</html>"))
		}
	})
	ctx := context.Background()

	_, err := repos.StudentRepository.Admit(ctx, models.StudentAdmissionRequest{})
	apiErr, ok := apperrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, apperrors.MsgDuplicateEmail, apperrors.Classify(err))

	_, err = repos.DomainRepository.GetAll(ctx)
	apiErr, ok = apperrors.AsAPIError(err)
	require.True(t, ok)
	assert.Nil(t, apiErr.Body)
	assert.Equal(t, "request failed with status code 500", apperrors.Classify(err))
}

func TestBackendClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	repos := NewRepositories(NewBackendClient(url, time.Second, nil))
	_, err := repos.DomainRepository.GetAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.MsgNetwork, apperrors.Classify(err))
	assert.ErrorIs(t, err, apperrors.ErrBackendUnavailable)
}

func TestAuthAndDatabaseRepositories(t *testing.T) {
	repos, _, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			if r.Header.Get("Cookie") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusOK, models.UserProfile{Name: "Jane", Email: "jane@uni.edu"})
		case "/signout":
			http.SetCookie(w, &http.Cookie{Name: "id_token", Value: "", MaxAge: -1, Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/api/database/init":
			writeJSON(w, http.StatusOK, InitResult{Status: "success", Message: "Database tables created successfully"})
		case "/api/health":
			_, _ = w.Write([]byte("Backend Working\n"))
		}
	})

	_, err := repos.AuthRepository.CurrentUser(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	user, err := repos.AuthRepository.CurrentUser(WithForwardedCookies(context.Background(), "id_token=x"))
	require.NoError(t, err)
	assert.Equal(t, "J", user.Initial())

	cookies, err := repos.AuthRepository.SignOut(context.Background())
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "id_token", cookies[0].Name)

	result, err := repos.DatabaseRepository.Init(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)

	banner, err := repos.DatabaseRepository.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Backend Working", banner)
	assert.NotEmpty(t, repos.AuthRepository.LoginURL())
}
