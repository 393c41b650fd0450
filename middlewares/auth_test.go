package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hangoutspots/models"
	"hangoutspots/utils"
)

const testSecret = "test-secret"

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.Hex()})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newAuthRouter()
	userID := primitive.NewObjectID()

	token, err := utils.GenerateToken(testSecret, userID.Hex(), "a@b.c", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doRequest(r, tc.header); w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
		})
	}
}

func TestAuthRequiredRejectsExpiredToken(t *testing.T) {
	r := newAuthRouter()

	token, err := utils.GenerateToken(testSecret, primitive.NewObjectID().Hex(), "a@b.c", models.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if w := doRequest(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", w.Code)
	}
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	r := newAuthRouter()

	token, err := utils.GenerateToken("other-secret", primitive.NewObjectID().Hex(), "a@b.c", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if w := doRequest(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for forged token", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter(RequireRole(models.RoleAdmin))

	userToken, _ := utils.GenerateToken(testSecret, primitive.NewObjectID().Hex(), "u@b.c", models.RoleUser, time.Hour)
	adminToken, _ := utils.GenerateToken(testSecret, primitive.NewObjectID().Hex(), "a@b.c", models.RoleAdmin, time.Hour)

	if w := doRequest(r, "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Errorf("user role status = %d, want 403", w.Code)
	}
	if w := doRequest(r, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("admin role status = %d, want 200", w.Code)
	}
}
