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

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(UserIDKey)})
	})
	return r
}

func authRequest(header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		token, err := GenerateAccessToken(testSecret, 42, time.Hour)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if id, _ := parseBody(t, rec)["user_id"].(float64); id != 42 {
			t.Errorf("user_id = %v, want 42", id)
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		rec := serve(setupAuthRouter(), authRequest(""))
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		rec := serve(setupAuthRouter(), authRequest("Token abc"))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("expired_token", func(t *testing.T) {
		token, _ := GenerateAccessToken(testSecret, 42, -time.Minute)
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token, _ := GenerateAccessToken("other-secret", 42, time.Hour)
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unsigned_token_rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{UserID: 42})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		rec := serve(setupAuthRouter(), authRequest("Bearer "+signed))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing_user_id", func(t *testing.T) {
		token, _ := GenerateAccessToken(testSecret, 0, time.Hour)
		rec := serve(setupAuthRouter(), authRequest("Bearer "+token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
