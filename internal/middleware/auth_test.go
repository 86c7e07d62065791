package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubTokens struct {
	claims *service.Claims
	err    error
}

func (s *stubTokens) SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (s *stubTokens) NewRefresh(ctx context.Context, sub uuid.UUID, ttl time.Duration) (string, string, time.Time, error) {
	return "", "", time.Time{}, errors.New("not implemented")
}

func (s *stubTokens) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	return s.claims, s.err
}

func setupRouter(tokens service.TokenProvider, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthRequired(tokens, zap.NewNop()))
	if len(roles) > 0 {
		group.Use(RoleRequired(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		id, _ := UserIDFromContext(c)
		role, _ := RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": string(role)})
	})
	return r
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	r := setupRouter(&stubTokens{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	r := setupRouter(&stubTokens{err: errors.New("bad token")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequiredValidToken(t *testing.T) {
	userID := uuid.New()
	r := setupRouter(&stubTokens{claims: &service.Claims{UserID: userID, Role: "user"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRoleRequiredForbidden(t *testing.T) {
	r := setupRouter(
		&stubTokens{claims: &service.Claims{UserID: uuid.New(), Role: "user"}},
		models.RoleAdmin, models.RoleSuperAdmin,
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRoleRequiredAllows(t *testing.T) {
	r := setupRouter(
		&stubTokens{claims: &service.Claims{UserID: uuid.New(), Role: "super_admin"}},
		models.RoleAdmin, models.RoleSuperAdmin,
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{`Bearer "abc"`, "abc", true},
		{"Bearer abc, extra", "abc", true},
		{"Bearer abc def", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractBearerToken(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ExtractBearerToken(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
