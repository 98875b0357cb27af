package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonbook-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type userMap map[uint]*models.User

func (m userMap) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func newAuthRouter(users userMap) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := r.Group("/", AuthMiddleware(testSecret, users))
	auth.GET("/me", func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	auth.GET("/owner", RequireRole(models.RoleSalonOwner, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	id, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(testSecret, 42, models.RoleCustomer, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = GenerateToken("", 1, models.RoleCustomer, time.Hour)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	users := userMap{
		1: {ID: 1, Role: models.RoleCustomer},
		2: {ID: 2, Role: models.RoleSalonOwner},
	}
	r := newAuthRouter(users)

	customerToken, err := GenerateToken(testSecret, 1, models.RoleCustomer, time.Hour)
	require.NoError(t, err)
	ownerToken, err := GenerateToken(testSecret, 2, models.RoleSalonOwner, time.Hour)
	require.NoError(t, err)
	ghostToken, err := GenerateToken(testSecret, 9, models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	do := func(path string, setup func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if setup != nil {
			setup(req)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing token", func(t *testing.T) {
		w := do("/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, MsgLoginRequired, body["message"])
	})

	t.Run("bearer header", func(t *testing.T) {
		w := do("/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+customerToken) })
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		w := do("/me", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: customerToken}) })
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := do("/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ghostToken) })
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("customer on owner route", func(t *testing.T) {
		w := do("/owner", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+customerToken) })
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), MsgForbidden)
	})

	t.Run("owner on owner route", func(t *testing.T) {
		w := do("/owner", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ownerToken) })
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPasswordHash(t *testing.T) {
	PasswordCost = 4
	hash, err := HashPassword("customer123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("customer123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
