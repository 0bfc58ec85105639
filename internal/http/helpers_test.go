package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Drij77/ecommerce-graphql-api/internal/auth"
	apihttp "github.com/Drij77/ecommerce-graphql-api/internal/http"
	"github.com/Drij77/ecommerce-graphql-api/internal/repository"
	"github.com/Drij77/ecommerce-graphql-api/internal/service"
)

// Handler tests go through the real router, services and an in-memory store,
// so they exercise the same wiring as cmd/server.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo, err := repository.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.RunMigrations("../repository/migrations"))

	creds := auth.NewCredentials("handler-test-secret", time.Hour, 4)
	accounts := service.NewAccountService(repo, creds)
	catalog := service.NewCatalogService(repo)
	orders := service.NewOrderService(repo)

	router := apihttp.NewRouter(
		accounts,
		apihttp.NewAccountHandler(accounts),
		apihttp.NewProductHandler(catalog),
		apihttp.NewCategoryHandler(catalog),
		apihttp.NewOrderHandler(orders),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with an optional bearer token and decodes the
// response body into out (when out is non-nil).
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAccount(t *testing.T, srv *httptest.Server, email, role string) apihttp.AuthResponse {
	t.Helper()

	var payload apihttp.AuthResponse
	status := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
		"email":      email,
		"password":   "pass-123",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	}, &payload)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, payload.Token)
	return payload
}

func createTestCategory(t *testing.T, srv *httptest.Server, adminToken, name string) apihttp.CategoryResponse {
	t.Helper()

	var category apihttp.CategoryResponse
	status := doJSON(t, srv, http.MethodPost, "/categories", adminToken, map[string]string{
		"name":        name,
		"description": name,
	}, &category)
	require.Equal(t, http.StatusCreated, status)
	return category
}

func createTestProduct(t *testing.T, srv *httptest.Server, adminToken, categoryID, name string, price float64, inventory int) apihttp.ProductResponse {
	t.Helper()

	var product apihttp.ProductResponse
	status := doJSON(t, srv, http.MethodPost, "/products", adminToken, map[string]any{
		"name":        name,
		"price":       price,
		"inventory":   inventory,
		"category_id": categoryID,
	}, &product)
	require.Equal(t, http.StatusCreated, status)
	return product
}
