package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/middleware"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/roles"
	"github.com/society-admin/backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(users map[string]uuid.UUID) middleware.TokenValidator {
	return func(token string) (uuid.UUID, string, error) {
		id, ok := users[token]
		if !ok {
			return uuid.Nil, "", errors.New("bad token")
		}
		return id, token + "@society.test", nil
	}
}

func newRouter(t *testing.T, store *testutil.Profiles, tokens map[string]uuid.UUID, allowed ...models.Role) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.Use(middleware.Logger(zap.NewNop()))
	api := r.Group("")
	api.Use(middleware.JWT(tokenFor(tokens)), middleware.ResolveRole(roles.NewResolver(store), zap.NewNop()))
	api.GET("/protected", middleware.RequireRole(allowed...), func(c *gin.Context) {
		role, _ := middleware.Role(c)
		id, _ := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"role": role, "id": id, "email": middleware.UserEmail(c)})
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAndRoles(t *testing.T) {
	super := models.User{ID: uuid.New(), Email: "root@society.test", Role: models.RoleSuperadmin}
	manager := models.User{ID: uuid.New(), Email: "m@society.test", Role: models.RoleManager}
	orphan := uuid.New()
	store := testutil.NewProfiles(super, manager)
	tokens := map[string]uuid.UUID{"root": super.ID, "manager": manager.ID, "orphan": orphan}
	r := newRouter(t, store, tokens, models.RoleSuperadmin)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad token", "nope", http.StatusUnauthorized},
		{"no profile", "orphan", http.StatusForbidden},
		{"wrong role", "manager", http.StatusForbidden},
		{"allowed", "root", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := do(r, "root")
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "superadmin", body["role"])
	assert.Equal(t, super.ID.String(), body["id"])
	assert.Equal(t, "root@society.test", body["email"])
}

func TestResolveRole_RevocationIsImmediate(t *testing.T) {
	manager := models.User{ID: uuid.New(), Email: "m@society.test", Role: models.RoleManager}
	store := testutil.NewProfiles(manager)
	r := newRouter(t, store, map[string]uuid.UUID{"manager": manager.ID}, models.RoleManager)

	assert.Equal(t, http.StatusOK, do(r, "manager").Code)
	require.NoError(t, store.Delete(context.Background(), manager.ID))
	w := do(r, "manager")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), roles.RoleNotFoundMessage)
}

func TestResolveRole_StorageError(t *testing.T) {
	manager := models.User{ID: uuid.New(), Email: "m@society.test", Role: models.RoleManager}
	store := testutil.NewProfiles(manager)
	store.GetHook = func(uuid.UUID) error { return errors.New("too many connections") }
	r := newRouter(t, store, map[string]uuid.UUID{"manager": manager.ID}, models.RoleManager)

	w := do(r, "manager")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "too many connections")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
