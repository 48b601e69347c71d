package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yigit/cuetclass/internal/app/models"
	"github.com/yigit/cuetclass/internal/pkg/apperrors"
	"github.com/yigit/cuetclass/internal/pkg/auth"
)

// Identity headers set by the fronting gateway
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// viewerKey is the gin context key of the current Viewer
const viewerKey = "viewer"

// Viewer is the person a page is rendered for
type Viewer struct {
	ID        string
	Role      models.RoleType
	SessionID string
}

// AuthMiddleware identifies the viewer and guards role sections. Sign-in is
// handled upstream; this only reads what the gateway forwards.
type AuthMiddleware struct {
	cookieName string
	secure     bool
	// devViewers stand in for the gateway when no identity header is present
	devViewers map[models.RoleType]string
	// tokens, when set, replaces the identity headers with a signed token
	tokens      *auth.JWTService
	tokenCookie string
}

// NewAuthMiddleware creates a new AuthMiddleware. devViewers may be nil.
func NewAuthMiddleware(cookieName string, secure bool, devViewers map[models.RoleType]string) *AuthMiddleware {
	return &AuthMiddleware{
		cookieName: cookieName,
		secure:     secure,
		devViewers: devViewers,
	}
}

// WithTokens makes the viewer identity come from a signed token in the
// Authorization header or the named cookie. Identity headers are then ignored.
func (m *AuthMiddleware) WithTokens(tokens *auth.JWTService, cookieName string) *AuthMiddleware {
	m.tokens = tokens
	m.tokenCookie = cookieName
	return m
}

// identity reads the viewer id and role of the request
func (m *AuthMiddleware) identity(c *gin.Context) (string, models.RoleType) {
	if m.tokens == nil {
		return strings.TrimSpace(c.GetHeader(HeaderUserID)),
			models.RoleType(strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderUserRole))))
	}

	raw, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil && m.tokenCookie != "" {
		raw, _ = c.Cookie(m.tokenCookie)
	}
	if raw == "" {
		return "", ""
	}
	claims, err := m.tokens.ValidateAndExtractClaims(raw)
	if err != nil {
		return "", ""
	}
	return claims.UserID, claims.Role()
}

// Session makes sure the browser carries a session id and records the viewer
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(m.cookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetCookie(m.cookieName, sid, 0, "/", "", m.secure, true)
		}

		id, role := m.identity(c)
		c.Set(viewerKey, Viewer{ID: id, Role: role, SessionID: sid})
		c.Next()
	}
}

// RoleRequired rejects viewers without the role
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := GetViewer(c)
		if v.ID == "" && v.Role == "" {
			if id, ok := m.devViewers[role]; ok {
				v.ID, v.Role = id, role
				c.Set(viewerKey, v)
			}
		}

		if v.ID == "" {
			_ = c.Error(apperrors.NewForbiddenError("Please sign in to continue."))
			c.Abort()
			return
		}
		if v.Role != role {
			_ = c.Error(apperrors.NewForbiddenError("You don't have sufficient permissions for this page."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetViewer returns the viewer recorded by Session
func GetViewer(c *gin.Context) Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(Viewer); ok {
			return viewer
		}
	}
	return Viewer{}
}

// SessionTopic is the notification topic of the request's session
func SessionTopic(c *gin.Context) string {
	return GetViewer(c).SessionID
}
