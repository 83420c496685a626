package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAccessChecker answers membership checks from a fixed set of
// (user, establishment) pairs.
type fakeAccessChecker struct {
	members map[[2]int]bool
	err     error
}

func (f *fakeAccessChecker) HasAccess(_ context.Context, userID, establecimientoID int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[[2]int{userID, establecimientoID}], nil
}

type fakeAdminChecker struct {
	admins map[int]bool
}

func (f *fakeAdminChecker) IsPlatformAdmin(_ context.Context, userID int) (bool, error) {
	return f.admins[userID], nil
}

func testToken(t *testing.T, userID int, email string) string {
	t.Helper()
	token, err := generateJWT(userID, email)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "other-secret")
		token := testToken(t, 7, "ana@campo.com")
		t.Setenv("JWT_SECRET", "test-secret")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token binds user id", func(t *testing.T) {
		token := testToken(t, 7, "ana@campo.com")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": 7}`, w.Body.String())
	})
}

func TestEstablishmentMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := &fakeAccessChecker{members: map[[2]int]bool{
		{7, 1}: true,
	}}

	router := gin.New()
	router.GET("/establecimientos/:establecimientoId/rodeos",
		AuthMiddleware(), EstablishmentMiddleware(store),
		func(c *gin.Context) {
			estID, ok := establishmentIDFromContext(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"establecimiento_id": estID})
		})

	token := testToken(t, 7, "ana@campo.com")

	t.Run("member passes and binds establishment", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/establecimientos/1/rodeos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"establecimiento_id": 1}`, w.Body.String())
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/establecimientos/2/rodeos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-numeric establishment id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/establecimientos/abc/rodeos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		broken := &fakeAccessChecker{err: assert.AnError}
		r := gin.New()
		r.GET("/establecimientos/:establecimientoId/rodeos",
			AuthMiddleware(), EstablishmentMiddleware(broken),
			func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/establecimientos/1/rodeos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	store := &fakeAdminChecker{admins: map[int]bool{42: true}}

	router := gin.New()
	router.GET("/admin/establecimientos",
		AuthMiddleware(), AdminMiddleware(store),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("platform admin passes", func(t *testing.T) {
		token := testToken(t, 42, "admin@agromax.com")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/establecimientos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user is rejected even if owner", func(t *testing.T) {
		token := testToken(t, 7, "ana@campo.com")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/establecimientos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
