package amenities_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/society-admin/backend/internal/amenities"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(store *testutil.Amenities) *gin.Engine {
	h := amenities.NewHandler(amenities.NewService(store, nil))
	r := gin.New()
	r.GET("/api/amenities", h.List)
	r.POST("/api/amenities/reorder", h.Reorder)
	r.PATCH("/api/amenities", h.Rename)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ListReturnsBareArray(t *testing.T) {
	r := newRouter(testutil.NewAmenities(defaultNames...))

	w := send(r, http.MethodGet, "/api/amenities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Amenity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 8)
	assert.Equal(t, "Swimming Pool", list[0].Name)
	assert.Contains(t, w.Body.String(), `"order_index":0`)
}

func TestHandler_Reorder(t *testing.T) {
	store := testutil.NewAmenities("A", "B", "C")
	r := newRouter(store)

	w := send(r, http.MethodPost, "/api/amenities/reorder", `{"orderedIds":[3,1,2]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = send(r, http.MethodGet, "/api/amenities", "")
	var list []models.Amenity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []int64{3, 1, 2}, ids(list))
}

func TestHandler_ReorderNotAnArray(t *testing.T) {
	for _, body := range []string{
		`{"orderedIds":"not-an-array"}`,
		`{"orderedIds":{"0":1}}`,
		`{"orderedIds":null}`,
		`{}`,
		`{"orderedIds":[1,"two"]}`,
	} {
		t.Run(body, func(t *testing.T) {
			store := testutil.NewAmenities("A", "B")
			w := send(newRouter(store), http.MethodPost, "/api/amenities/reorder", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
			assert.Zero(t, store.WriteCount())
		})
	}
}

func TestHandler_Rename(t *testing.T) {
	store := testutil.NewAmenities(defaultNames...)
	r := newRouter(store)

	w := send(r, http.MethodPatch, "/api/amenities", `{"id":2,"name":"Fitness Centre"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/api/amenities", `{"id":2}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/api/amenities", `{"id":"2","name":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/api/amenities", `{"id":2,"name":" "}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPatch, "/api/amenities", `{"id":99,"name":"Spa"}`).Code)
}
