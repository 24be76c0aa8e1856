// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tastedees/internal/core/product"
	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/sec"
)

type apiHarness struct {
	router http.Handler
	legacy *product.LegacyList
}

// withPrincipal stands in for cookie authentication.
func withPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test-User") != "" {
			p := sec.Principal{UserID: "user_1", Username: r.Header.Get("X-Test-User"), Role: sec.RoleAdmin}
			r = r.WithContext(ctxutil.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	f := newFixture(t)
	legacy := product.NewLegacyList(filepath.Join(t.TempDir(), "tshirts.json"))

	router := chi.NewRouter()
	router.Use(withPrincipal)
	router.Mount("/api/products", product.NewHandler(f.svc).Routes())
	router.Method(http.MethodPost, "/api/add-tshirt", product.NewLegacyHandler(legacy).Handler())

	return &apiHarness{router: router, legacy: legacy}
}

func (h *apiHarness) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authed {
		request.Header.Set("X-Test-User", "root")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, request)
	return rec
}

type productEnvelope struct {
	Success  bool               `json:"success"`
	Error    string             `json:"error"`
	Product  *product.Product   `json:"product"`
	Products []*product.Product `json:"products"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) productEnvelope {
	t.Helper()
	var env productEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

/*
TestHTTP_WritesRequireSession rejects anonymous writes with 401.
*/
func TestHTTP_WritesRequireSession(t *testing.T) {
	h := newAPIHarness(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/prod_1"},
		{http.MethodDelete, "/api/products/prod_1"},
		{http.MethodPost, "/api/add-tshirt"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := h.do(t, tt.method, tt.path, `{}`, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).Success)
		})
	}
}

func TestHTTP_ProductLifecycle(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/products",
		`{"name":"Tee","description":"Soft","price":25,"images":["file:///etc/passwd"]}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeEnvelope(t, rec).Product
	require.NotNil(t, created)
	assert.Empty(t, created.Images)

	rec = h.do(t, http.MethodGet, "/api/products", "", false)
	assert.Empty(t, decodeEnvelope(t, rec).Products)

	rec = h.do(t, http.MethodGet, "/api/products?source=admin", "", false)
	assert.Len(t, decodeEnvelope(t, rec).Products, 1)

	rec = h.do(t, http.MethodPut, "/api/products/"+created.ID, `{"images":["/images/x.png"]}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"/images/x.png"}, decodeEnvelope(t, rec).Product.Images)

	rec = h.do(t, http.MethodGet, "/api/products", "", false)
	assert.Len(t, decodeEnvelope(t, rec).Products, 1)

	rec = h.do(t, http.MethodGet, "/api/products/"+created.ID, "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/products/"+created.ID, "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/products/"+created.ID, "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeEnvelope(t, rec).Error)
}

func TestHTTP_CreateValidation(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/products", `{"name":"Tee"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Description is required", decodeEnvelope(t, rec).Error)

	rec = h.do(t, http.MethodPost, "/api/products", `{not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_LegacyAddTshirt(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/add-tshirt", `{"name":"Old Tee","price":15,"image":"/images/o.png"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success bool               `json:"success"`
		Item    product.LegacyItem `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "New Arrivals", body.Item.Category)
	assert.NotZero(t, body.Item.ID)

	form := url.Values{"name": {"Form Tee"}, "price": {"20"}}
	request := httptest.NewRequest(http.MethodPost, "/api/add-tshirt", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("X-Test-User", "root")
	formRec := httptest.NewRecorder()
	h.router.ServeHTTP(formRec, request)
	assert.Equal(t, http.StatusSeeOther, formRec.Code)
	assert.Equal(t, "/admin", formRec.Header().Get("Location"))

	items, err := h.legacy.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 20.0, items[1].Price)
}
