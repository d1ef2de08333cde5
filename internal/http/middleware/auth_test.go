// README: Tests for session middleware.
package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tabihi/internal/http/middleware"
	"tabihi/internal/infra"
	"tabihi/internal/types"
)

// stubValidator is a test double for infra.SessionValidator.
type stubValidator struct {
	uid  types.ID
	err  error
	seen []string
}

func (s *stubValidator) Validate(_ context.Context, token string) (types.ID, error) {
	s.seen = append(s.seen, token)
	return s.uid, s.err
}

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": middleware.CallerUID(c)})
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingToken(t *testing.T) {
	r := newTestRouter(middleware.Auth(&stubValidator{uid: "user1"}))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	r := newTestRouter(middleware.Auth(&stubValidator{uid: "user1"}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Token sometoken")
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidatorError(t *testing.T) {
	r := newTestRouter(middleware.Auth(&stubValidator{err: infra.ErrInvalidSession}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer expired")
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_BearerToken(t *testing.T) {
	v := &stubValidator{uid: "user123"}
	r := newTestRouter(middleware.Auth(v))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer validtoken")
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user123") {
		t.Errorf("expected uid user123 in body, got %s", w.Body.String())
	}
	if len(v.seen) != 1 || v.seen[0] != "validtoken" {
		t.Errorf("validator saw %v", v.seen)
	}
}

func TestAuth_SessionCookie(t *testing.T) {
	v := &stubValidator{uid: "cookie-user"}
	r := newTestRouter(middleware.Auth(v))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "cookietoken"})
	w := serve(r, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "cookie-user") {
		t.Fatalf("expected cookie session to authenticate, got %d %s", w.Code, w.Body.String())
	}
	if v.seen[0] != "cookietoken" {
		t.Errorf("validator saw %v", v.seen)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	v := &stubValidator{uid: "user1"}
	r := newTestRouter(middleware.OptionalAuth(v))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"uid":""`) {
		t.Fatalf("expected anonymous 200, got %d %s", w.Code, w.Body.String())
	}
	if len(v.seen) != 0 {
		t.Errorf("validator must not run without a token")
	}
}

func TestOptionalAuth_RejectsBadToken(t *testing.T) {
	r := newTestRouter(middleware.OptionalAuth(&stubValidator{err: errors.New("bad signature")}))
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer forged")
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
