package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
	"github.com/yigit/cuetclass/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", apperrors.ErrResourceNotFound), http.StatusNotFound},
		{apperrors.NewForbiddenError("no"), http.StatusForbidden},
		{apperrors.ErrConflict, http.StatusConflict},
		{apperrors.ErrInFlight, http.StatusConflict},
		{apperrors.ErrValidationFailed, http.StatusUnprocessableEntity},
		{apperrors.ErrActionDisabled, http.StatusBadRequest},
		{apperrors.ErrBackendUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestMessage_PrefersCustomText(t *testing.T) {
	assert.Equal(t, "Please sign in to continue.", Message(apperrors.NewForbiddenError("Please sign in to continue.")))
	assert.NotContains(t, Message(errors.New("pq: secret detail")), "secret")
}

func newRouter(m *AuthMiddleware, role models.RoleType) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(func(c *gin.Context, status int, err error) {
		c.String(status, "page: %s", Message(err))
	}))
	r.Use(m.Session())
	r.GET("/x", m.RoleRequired(role), func(c *gin.Context) {
		v := GetViewer(c)
		c.String(http.StatusOK, "%s/%s", v.Role, v.ID)
	})
	return r
}

func TestAuthMiddleware_GatewayHeaders(t *testing.T) {
	r := newRouter(NewAuthMiddleware("sid", false, nil), models.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderUserID, "student-1")
	req.Header.Set(HeaderUserRole, "Student")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student/student-1", w.Body.String())
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, "sid", w.Result().Cookies()[0].Name)
}

func TestAuthMiddleware_WrongRoleIsForbidden(t *testing.T) {
	r := newRouter(NewAuthMiddleware("sid", false, nil), models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderUserID, "student-1")
	req.Header.Set(HeaderUserRole, "student")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "sufficient permissions")
}

func TestAuthMiddleware_DevViewerAndLiveErrors(t *testing.T) {
	m := NewAuthMiddleware("sid", false, map[models.RoleType]string{models.RoleTeacher: "teacher-1"})

	w := httptest.NewRecorder()
	newRouter(m, models.RoleTeacher).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "teacher/teacher-1", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Live", "1")
	w = httptest.NewRecorder()
	newRouter(m, models.RoleAdmin).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Please sign in to continue.", body.Error)
}

func TestAuthMiddleware_SignedTokens(t *testing.T) {
	tokens := auth.NewJWTService(auth.JWTConfig{SecretKey: "0123456789abcdef0123456789abcdef", TokenIssuer: "cuet-cms"})
	m := NewAuthMiddleware("sid", false, nil).WithTokens(tokens, "cuet_token")
	r := newRouter(m, models.RoleTeacher)

	token, err := tokens.IssueToken("teacher-2", models.RoleTeacher, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "teacher/teacher-2", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "cuet_token", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "teacher/teacher-2", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderUserID, "teacher-1")
	req.Header.Set(HeaderUserRole, "teacher")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSession_KeepsValidCookie(t *testing.T) {
	m := NewAuthMiddleware("sid", false, nil)
	r := gin.New()
	r.Use(m.Session())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionTopic(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "0b6f6f1e-7c39-4e3c-9a55-1f0c2f1f5b7a"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "0b6f6f1e-7c39-4e3c-9a55-1f0c2f1f5b7a", w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "forged", w.Body.String())
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "/missing", entry["path"])
}
