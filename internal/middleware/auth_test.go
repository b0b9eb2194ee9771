package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.MustGet(ContextUserID).(uint),
			"role": c.MustGet(ContextUserRole).(string),
		})
	})
	return r
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	r := newAuthRouter(cfg)

	valid := signed(t, "secret", jwt.MapClaims{"sub": 7, "role": "owner", "exp": time.Now().Add(time.Hour).Unix()})
	expired := signed(t, "secret", jwt.MapClaims{"sub": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signed(t, "other", jwt.MapClaims{"sub": 7, "exp": time.Now().Add(time.Hour).Unix()})
	noSubject := signed(t, "secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/users", AuthMiddleware(cfg), RequireRole("owner"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	exp := time.Now().Add(time.Hour).Unix()
	owner := signed(t, "secret", jwt.MapClaims{"sub": 1, "role": "owner", "exp": exp})
	staff := signed(t, "secret", jwt.MapClaims{"sub": 2, "role": "staff", "exp": exp})

	for token, want := range map[string]int{owner: http.StatusCreated, staff: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("status = %d, want %d", w.Code, want)
		}
	}
}

func TestAuthMiddlewareRejectsOtherAlgorithms(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	r := newAuthRouter(cfg)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": 7, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
