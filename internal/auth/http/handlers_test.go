package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tsirionantsoa/taskhub/internal/auth/service"
	"github.com/tsirionantsoa/taskhub/internal/credential"
	"github.com/tsirionantsoa/taskhub/internal/platform/database/databasetest"
	"github.com/tsirionantsoa/taskhub/internal/platform/middleware"
	userrepo "github.com/tsirionantsoa/taskhub/internal/users/repository"
	userservice "github.com/tsirionantsoa/taskhub/internal/users/service"
)

func setupRouter(t *testing.T, loginBurst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := databasetest.Open(t)
	hasher := credential.NewBcryptHasher(bcrypt.MinCost)
	users := userservice.NewUserService(userrepo.NewUserRepository(db), hasher)

	router := gin.New()
	limiter := middleware.NewIPRateLimiter(1, loginBurst)
	New(service.NewAuthService(users, hasher)).Register(router.Group("/api/auth"), limiter.Middleware())
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAuthHandlers(t *testing.T) {
	router := setupRouter(t, 10)

	rr := post(router, "/api/auth/register", `{"nom":"Ada","email":"ada@example.com","motDePasse":"secret"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var reg RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reg))
	assert.Equal(t, "USER", reg.Role)
	assert.Equal(t, "Inscription réussie. Bienvenue !", reg.Message)
	assert.NotEmpty(t, reg.PasswordHash)
	assert.NotEqual(t, "secret", reg.PasswordHash)

	t.Run("duplicate email is 400 with message", func(t *testing.T) {
		rr := post(router, "/api/auth/register", `{"nom":"B","email":"ada@example.com","motDePasse":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "ada@example.com")
	})

	t.Run("missing name is 400", func(t *testing.T) {
		rr := post(router, "/api/auth/register", `{"email":"b@example.com","motDePasse":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("login", func(t *testing.T) {
		rr := post(router, "/api/auth/login", `{"email":"ada@example.com","motDePasse":"secret"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		var p LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
		assert.Equal(t, reg.ID, p.ID)
		assert.Equal(t, "Connexion réussie !", p.Message)
		assert.NotContains(t, rr.Body.String(), reg.PasswordHash)
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		rr := post(router, "/api/auth/login", `{"email":"ada@example.com","motDePasse":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr2 := post(router, "/api/auth/login", `{"email":"ghost@example.com","motDePasse":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rr2.Code)
		assert.Equal(t, rr.Body.String(), rr2.Body.String())
	})
}

func TestLoginRateLimit(t *testing.T) {
	router := setupRouter(t, 2)

	for i := 0; i < 2; i++ {
		rr := post(router, "/api/auth/login", `{"email":"x@example.com","motDePasse":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}
	rr := post(router, "/api/auth/login", `{"email":"x@example.com","motDePasse":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
