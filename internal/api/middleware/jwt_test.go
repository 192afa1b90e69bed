package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func doAuthRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingToken(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	r := authRouter()

	w := doAuthRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_InvalidSignature(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	r := authRouter()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := tok.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	w := doAuthRequest(r, signed)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_DefaultsRoleToUser(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	r := authRouter()

	w := doAuthRequest(r, signToken(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != `{"role":"user","user_id":"u1"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestJWTAuth_TopLevelRoleClaim(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	r := authRouter()

	w := doAuthRequest(r, signToken(t, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != `{"role":"admin","user_id":"u1"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestJWTAuth_AppMetadataOverridesTopLevelRole(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	r := authRouter()

	w := doAuthRequest(r, signToken(t, jwt.MapClaims{
		"sub":          "u1",
		"role":         "user",
		"app_metadata": map[string]any{"role": "admin"},
		"exp":          time.Now().Add(time.Hour).Unix(),
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != `{"role":"admin","user_id":"u1"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestJWTAuth_MissingSubject(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	r := authRouter()

	w := doAuthRequest(r, signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
