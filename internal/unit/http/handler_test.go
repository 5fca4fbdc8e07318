package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmplus/unit-booking-backend/internal/unit"
)

func TestSavePrices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := unit.NewMemoryRepository()
	r := gin.New()
	RegisterAdminRoutes(r.Group("/v1/admin"), NewHandler(repo))

	put := func(target, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	doc := `{"daily":{"2025-07-01":80}}`
	w := put("/v1/admin/units/A1/prices", doc)
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := repo.LoadPrices(context.Background(), "A1")
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(saved))

	t.Run("rejects invalid json", func(t *testing.T) {
		w := put("/v1/admin/units/A1/prices", "{broken")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		w := put("/v1/admin/units/A1/prices", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unit id sanitized", func(t *testing.T) {
		w := put("/v1/admin/units/a..b/prices", doc)
		require.Equal(t, http.StatusOK, w.Code)

		saved, err := repo.LoadPrices(context.Background(), "ab")
		require.NoError(t, err)
		assert.JSONEq(t, doc, string(saved))
	})
}
