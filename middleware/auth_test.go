package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"certimport-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func setupTestRouter() *gin.Engine {
	r := gin.New()

	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    role,
		})
	})

	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware())
	admin.Use(AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	imports := r.Group("/api/imports")
	imports.Use(AuthMiddleware())
	imports.Use(RoleMiddleware(RoleAdmin, RoleCertifier))
	imports.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "import access granted"})
	})

	return r
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupTestRouter()

	token, err := utils.GenerateToken(uuid.New(), "test@test.com", RoleCertifier)
	if err != nil {
		t.Fatal(err)
	}

	w := get(router, "/api/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	w := get(setupTestRouter(), "/api/test", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	w := get(setupTestRouter(), "/api/test", "not-a-valid-token")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	claims := utils.Claims{
		UserID: uuid.New(),
		Email:  "expired@test.com",
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expiredToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))

	w := get(setupTestRouter(), "/api/test", expiredToken)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareInvalidFormatNoBearer(t *testing.T) {
	router := setupTestRouter()
	token, _ := utils.GenerateToken(uuid.New(), "test@test.com", RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	// Missing "Bearer " prefix
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	token, _ := utils.GenerateToken(uuid.New(), "admin@test.com", RoleAdmin)

	w := get(setupTestRouter(), "/api/admin/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareBlocksCertifier(t *testing.T) {
	token, _ := utils.GenerateToken(uuid.New(), "certifier@test.com", RoleCertifier)

	w := get(setupTestRouter(), "/api/admin/test", token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoleMiddlewareAllowsListedRoles(t *testing.T) {
	router := setupTestRouter()

	for _, role := range []string{RoleAdmin, RoleCertifier} {
		token, _ := utils.GenerateToken(uuid.New(), role+"@test.com", role)
		w := get(router, "/api/imports/test", token)
		if w.Code != http.StatusOK {
			t.Errorf("role %s: expected status 200, got %d: %s", role, w.Code, w.Body.String())
		}
	}
}

func TestRoleMiddlewareBlocksOtherRoles(t *testing.T) {
	router := setupTestRouter()

	for _, role := range []string{RoleConsultant, RoleClient, ""} {
		token, _ := utils.GenerateToken(uuid.New(), "user@test.com", role)
		w := get(router, "/api/imports/test", token)
		if w.Code != http.StatusForbidden {
			t.Errorf("role %q: expected status 403, got %d: %s", role, w.Code, w.Body.String())
		}
	}
}

func TestRoleMiddlewareWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/test", RoleMiddleware(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
