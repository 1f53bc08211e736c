package handler

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merolabs/meroview-backend/internal/auth"
	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/response"
	"github.com/merolabs/meroview-backend/internal/service"
	"github.com/merolabs/meroview-backend/internal/simulation"
	"github.com/merolabs/meroview-backend/internal/store"
	"github.com/merolabs/meroview-backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

func seededRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func perform(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var eb response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
	return eb
}

func TestGetLiveReturnsFullState(t *testing.T) {
	engine := simulation.NewEngine(seededRng(1))
	h := NewLiveHandler(service.NewLiveService(engine, zerolog.Nop()))

	r := gin.New()
	r.GET("/live", h.GetLive)

	rec := perform(r, http.MethodGet, "/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state model.LiveState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.NotEmpty(t, state.Exam.Title)
	assert.NotEmpty(t, state.Students)
	assert.NotZero(t, state.Snapshot.Ts)

	total := 0
	for _, n := range state.Snapshot.StatusDist {
		total += n
	}
	assert.Equal(t, len(state.Students), total)
}

func TestGetLiveAdvancesPerRequest(t *testing.T) {
	engine := simulation.NewEngine(seededRng(2))
	h := NewLiveHandler(service.NewLiveService(engine, zerolog.Nop()))

	r := gin.New()
	r.GET("/live", h.GetLive)

	sum := func(state model.LiveState) int {
		n := 0
		for _, s := range state.Students {
			n += s.Completed
		}
		return n
	}

	var first, last model.LiveState
	rec := perform(r, http.MethodGet, "/live", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	for i := 0; i < 20; i++ {
		rec = perform(r, http.MethodGet, "/live", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &last))

	// each poll is a tick; progress compounds across requests.
	assert.Greater(t, sum(last), sum(first))
}

func newExamRouter(seed int64) *gin.Engine {
	svc := service.NewExamService(store.NewExamStore(), seededRng(seed), zerolog.Nop())
	h := NewExamHandler(svc)
	r := gin.New()
	r.GET("/exams", h.ListExams)
	return r
}

func TestListExamsOK(t *testing.T) {
	r := newExamRouter(1)

	rec := perform(r, http.MethodGet, "/exams", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ExamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Exams)
	_, err := time.Parse(time.RFC3339, resp.UpdatedAt)
	assert.NoError(t, err)
}

func TestListExamsRejectsUnknownStatus(t *testing.T) {
	r := newExamRouter(2)

	rec := perform(r, http.MethodGet, "/exams?status=Paused", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad query", decodeError(t, rec).Error)
}

func TestListExamsStatusFilterApplied(t *testing.T) {
	r := newExamRouter(3)

	rec := perform(r, http.MethodGet, "/exams?status=Completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ExamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, e := range resp.Exams {
		assert.Equal(t, model.ExamStatusCompleted, e.Status)
	}
}

func newStudentRouter(seed int64) *gin.Engine {
	svc := service.NewStudentService(store.NewStudentStore(), seededRng(seed), zerolog.Nop())
	h := NewStudentHandler(svc)
	r := gin.New()
	r.GET("/students", h.ListStudents)
	return r
}

func TestListStudentsOK(t *testing.T) {
	r := newStudentRouter(1)

	rec := perform(r, http.MethodGet, "/students?q=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.StudentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "Alice Johnson", resp.Students[0].Name)
}

func TestListStudentsRejectsUnknownStatus(t *testing.T) {
	r := newStudentRouter(2)

	// exam statuses are not valid student statuses.
	rec := perform(r, http.MethodGet, "/students?status=Scheduled", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad query", decodeError(t, rec).Error)
}

func newProfileRouter() *gin.Engine {
	svc := service.NewProfileService(store.NewProfileStore(), zerolog.Nop())
	h := NewProfileHandler(svc)
	r := gin.New()
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	return r
}

func TestGetProfile(t *testing.T) {
	r := newProfileRouter()

	rec := perform(r, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var p model.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "me", p.ID)
	// bio is always present on the wire, even when empty.
	assert.Contains(t, rec.Body.String(), `"bio"`)
}

func TestUpdateProfilePartial(t *testing.T) {
	r := newProfileRouter()

	rec := perform(r, http.MethodPut, "/profile", []byte(`{"name":"New Name"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var p model.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "New Name", p.Name)
	assert.Equal(t, "mero@example.com", p.Email)

	// the merge persisted.
	rec = perform(r, http.MethodGet, "/profile", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "New Name", p.Name)
}

func TestUpdateProfileRejectsInvalidPayload(t *testing.T) {
	r := newProfileRouter()

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email"}`},
		{"bad language", `{"language":"fr"}`},
		{"bad json", `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(r, http.MethodPut, "/profile", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			eb := decodeError(t, rec)
			assert.Equal(t, "Invalid payload", eb.Error)
			assert.NotEmpty(t, eb.Issues)
		})
	}
}

func newAuthRouter() (*gin.Engine, *auth.Service) {
	svc := auth.NewService("test-secret", time.Hour)
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r, svc
}

func TestLoginIssuesToken(t *testing.T) {
	r, svc := newAuthRouter()

	rec := perform(r, http.MethodPost, "/auth/login", []byte(`{"name":"Nadia","role":"Proctor"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Nadia", resp.User.Name)
	assert.Equal(t, model.RoleProctor, resp.User.Role)

	claims, err := svc.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
}

func TestLoginRequiresName(t *testing.T) {
	r, _ := newAuthRouter()

	rec := perform(r, http.MethodPost, "/auth/login", []byte(`{"role":"Teacher"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	eb := decodeError(t, rec)
	assert.Equal(t, "Invalid payload", eb.Error)
	assert.Contains(t, eb.Issues, "name")
}
