package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsirionantsoa/taskhub/internal/platform/database/databasetest"
	"github.com/tsirionantsoa/taskhub/internal/projects/repository"
	"github.com/tsirionantsoa/taskhub/internal/projects/service"
	userdomain "github.com/tsirionantsoa/taskhub/internal/users/domain"
	userrepo "github.com/tsirionantsoa/taskhub/internal/users/repository"
)

func setupRouter(t *testing.T) (*gin.Engine, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := databasetest.Open(t)
	users := userrepo.NewUserRepository(db)
	owner := &userdomain.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: userdomain.RoleUser, CreatedAt: time.Now().UTC()}
	require.NoError(t, users.Create(context.Background(), owner))

	svc := service.NewProjectService(repository.NewProjectRepository(db), users)
	router := gin.New()
	New(svc).Register(router.Group("/api/projets"))
	return router, owner.ID
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestProjectHandlers(t *testing.T) {
	router, owner := setupRouter(t)
	ownerStr := strconv.FormatInt(owner, 10)

	rr := do(router, http.MethodPost, "/api/projets?userId="+ownerStr,
		`{"nom":"Site","description":"Refonte","dateDebut":"2025-06-01","dateFin":"2025-07-01"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var created ProjectView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, owner, created.OwnerID)
	require.NotNil(t, created.StartDate)
	assert.Equal(t, "2025-06-01", *created.StartDate)
	id := strconv.FormatInt(created.ID, 10)

	t.Run("create for unknown user is 400", func(t *testing.T) {
		rr := do(router, http.MethodPost, "/api/projets?userId=999", `{"nom":"n","description":"d"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create without name is 400", func(t *testing.T) {
		rr := do(router, http.MethodPost, "/api/projets?userId="+ownerStr, `{"description":"d"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create with bad date is 400", func(t *testing.T) {
		rr := do(router, http.MethodPost, "/api/projets?userId="+ownerStr, `{"nom":"n","description":"d","dateFin":"demain"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list by owner", func(t *testing.T) {
		rr := do(router, http.MethodGet, "/api/projets/liste/"+ownerStr, "")
		require.Equal(t, http.StatusOK, rr.Code)

		var out []ProjectView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "Site", out[0].Name)
	})

	t.Run("detail", func(t *testing.T) {
		rr := do(router, http.MethodGet, "/api/projets/detail/"+id, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"utilisateurId":`+ownerStr)

		rr = do(router, http.MethodGet, "/api/projets/detail/999", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("update clears end date", func(t *testing.T) {
		rr := do(router, http.MethodPut, "/api/projets/"+id, `{"nom":"","description":"","dateDebut":"2025-06-01","dateFin":""}`)
		require.Equal(t, http.StatusOK, rr.Code)

		var v ProjectView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
		assert.Equal(t, "Site", v.Name)
		assert.Equal(t, "Refonte", v.Description)
		assert.Nil(t, v.EndDate)
	})

	t.Run("delete then 404", func(t *testing.T) {
		rr := do(router, http.MethodDelete, "/api/projets/"+id, "")
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = do(router, http.MethodDelete, "/api/projets/"+id, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
