package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/Drij77/ecommerce-graphql-api/internal/http"
)

func TestAuthEndpoints(t *testing.T) {
	srv := setupServer(t)

	t.Run("register returns token and user", func(t *testing.T) {
		payload := registerAccount(t, srv, "alice@example.com", "")
		assert.Equal(t, "alice@example.com", payload.User.Email)
		assert.Equal(t, "CUSTOMER", payload.User.Role)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		var errResp apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
			"email":      "alice@example.com",
			"password":   "pass-123",
			"first_name": "Test",
			"last_name":  "User",
		}, &errResp)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "email_taken", errResp.Error)
	})

	t.Run("malformed registration is rejected", func(t *testing.T) {
		var errResp apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
			"email": "not-an-email",
		}, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", errResp.Error)
	})

	t.Run("login round-trip", func(t *testing.T) {
		var payload apihttp.AuthResponse
		status := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "pass-123",
		}, &payload)
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, payload.Token)

		var me apihttp.UserResponse
		status = doJSON(t, srv, http.MethodGet, "/me", payload.Token, nil, &me)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice@example.com", me.Email)
	})

	t.Run("wrong password and unknown email look alike", func(t *testing.T) {
		var first, second apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, &first)
		assert.Equal(t, http.StatusUnauthorized, status)

		status = doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "pass-123",
		}, &second)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, first.Error, second.Error)
	})
}

func TestAuthMiddleware_TokenHandling(t *testing.T) {
	srv := setupServer(t)
	admin := registerAccount(t, srv, "admin@example.com", "ADMIN")

	t.Run("missing token is anonymous", func(t *testing.T) {
		var errResp apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodGet, "/me", "", nil, &errResp)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "not_authenticated", errResp.Error)
	})

	t.Run("garbage token is anonymous, not an error", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodGet, "/me", "not-a-jwt", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("anonymous callers can still browse the catalog", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodGet, "/products", "", nil, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("valid token resolves the caller", func(t *testing.T) {
		var me apihttp.UserResponse
		status := doJSON(t, srv, http.MethodGet, "/me", admin.Token, nil, &me)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ADMIN", me.Role)
	})
}

func TestUsersEndpoint_AdminOnly(t *testing.T) {
	srv := setupServer(t)
	admin := registerAccount(t, srv, "admin@example.com", "ADMIN")
	customer := registerAccount(t, srv, "customer@example.com", "")

	status := doJSON(t, srv, http.MethodGet, "/users", customer.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var users []apihttp.UserResponse
	status = doJSON(t, srv, http.MethodGet, "/users", admin.Token, nil, &users)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, users, 2)
}

func TestProductEndpoints(t *testing.T) {
	srv := setupServer(t)
	admin := registerAccount(t, srv, "admin@example.com", "ADMIN")
	customer := registerAccount(t, srv, "customer@example.com", "")
	category := createTestCategory(t, srv, admin.Token, "Books")

	t.Run("create requires admin", func(t *testing.T) {
		body := map[string]any{
			"name": "Paperback", "price": 9.99, "inventory": 10, "category_id": category.ID,
		}
		status := doJSON(t, srv, http.MethodPost, "/products", customer.Token, body, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status = doJSON(t, srv, http.MethodPost, "/products", "", body, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	product := createTestProduct(t, srv, admin.Token, category.ID, "Paperback", 9.99, 10)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Books", product.Category.Name)

	t.Run("get by id", func(t *testing.T) {
		var got apihttp.ProductResponse
		status := doJSON(t, srv, http.MethodGet, "/products/"+product.ID, "", nil, &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, product.ID, got.ID)

		var errResp apihttp.ErrorResponse
		status = doJSON(t, srv, http.MethodGet, "/products/missing", "", nil, &errResp)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "product_not_found", errResp.Error)
	})

	t.Run("list with filters", func(t *testing.T) {
		createTestProduct(t, srv, admin.Token, category.ID, "Hardcover", 24.99, 5)

		var all []apihttp.ProductResponse
		status := doJSON(t, srv, http.MethodGet, "/products", "", nil, &all)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, all, 2)

		var cheap []apihttp.ProductResponse
		status = doJSON(t, srv, http.MethodGet, "/products?max_price=10", "", nil, &cheap)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, cheap, 1)
		assert.Equal(t, "Paperback", cheap[0].Name)

		var errResp apihttp.ErrorResponse
		status = doJSON(t, srv, http.MethodGet, "/products?min_price=abc", "", nil, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", errResp.Error)
	})

	t.Run("patch updates only provided fields", func(t *testing.T) {
		var updated apihttp.ProductResponse
		status := doJSON(t, srv, http.MethodPatch, "/products/"+product.ID, admin.Token,
			map[string]any{"price": 12.50}, &updated)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 12.50, updated.Price)
		assert.Equal(t, "Paperback", updated.Name)
		assert.Equal(t, 10, updated.Inventory)
	})

	t.Run("delete requires admin and is idempotent-safe", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodDelete, "/products/"+product.ID, customer.Token, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)

		var resp map[string]bool
		status = doJSON(t, srv, http.MethodDelete, "/products/"+product.ID, admin.Token, nil, &resp)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, resp["deleted"])

		status = doJSON(t, srv, http.MethodDelete, "/products/"+product.ID, admin.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	srv := setupServer(t)
	admin := registerAccount(t, srv, "admin@example.com", "ADMIN")
	customer := registerAccount(t, srv, "customer@example.com", "")

	status := doJSON(t, srv, http.MethodPost, "/categories", customer.Token,
		map[string]string{"name": "Books"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	category := createTestCategory(t, srv, admin.Token, "Books")

	var categories []apihttp.CategoryResponse
	status = doJSON(t, srv, http.MethodGet, "/categories", "", nil, &categories)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, categories, 1)

	var updated apihttp.CategoryResponse
	status = doJSON(t, srv, http.MethodPatch, "/categories/"+category.ID, admin.Token,
		map[string]string{"description": "Printed matter"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Books", updated.Name)
	assert.Equal(t, "Printed matter", updated.Description)

	status = doJSON(t, srv, http.MethodGet, "/categories/missing", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOrderEndpoints(t *testing.T) {
	srv := setupServer(t)
	admin := registerAccount(t, srv, "admin@example.com", "ADMIN")
	customer := registerAccount(t, srv, "customer@example.com", "")
	category := createTestCategory(t, srv, admin.Token, "Misc")
	a := createTestProduct(t, srv, admin.Token, category.ID, "Product A", 10.00, 5)
	b := createTestProduct(t, srv, admin.Token, category.ID, "Product B", 5.00, 2)

	orderBody := func(lines ...map[string]any) map[string]any {
		return map[string]any{"items": lines}
	}

	t.Run("anonymous order is rejected", func(t *testing.T) {
		var errResp apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodPost, "/orders", "",
			orderBody(map[string]any{"product_id": a.ID, "quantity": 1}), &errResp)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "not_authenticated", errResp.Error)
	})

	var order apihttp.OrderResponse
	status := doJSON(t, srv, http.MethodPost, "/orders", customer.Token, orderBody(
		map[string]any{"product_id": a.ID, "quantity": 2},
		map[string]any{"product_id": b.ID, "quantity": 2},
	), &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, 30.00, order.TotalAmount)
	require.Len(t, order.Items, 2)

	t.Run("inventory was decremented", func(t *testing.T) {
		var got apihttp.ProductResponse
		status := doJSON(t, srv, http.MethodGet, "/products/"+b.ID, "", nil, &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 0, got.Inventory)
	})

	t.Run("oversell is a conflict", func(t *testing.T) {
		var errResp apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodPost, "/orders", customer.Token,
			orderBody(map[string]any{"product_id": b.ID, "quantity": 1}), &errResp)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "insufficient_inventory", errResp.Error)
		assert.Contains(t, errResp.Message, "Product B")
	})

	t.Run("empty order is rejected", func(t *testing.T) {
		var errResp apihttp.ErrorResponse
		status := doJSON(t, srv, http.MethodPost, "/orders", customer.Token,
			map[string]any{"items": []any{}}, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", errResp.Error)
	})

	t.Run("owner and admin can read, strangers cannot", func(t *testing.T) {
		stranger := registerAccount(t, srv, "stranger@example.com", "")

		status := doJSON(t, srv, http.MethodGet, "/orders/"+order.ID, stranger.Token, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)

		var got apihttp.OrderResponse
		status = doJSON(t, srv, http.MethodGet, "/orders/"+order.ID, customer.Token, nil, &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, order.ID, got.ID)

		status = doJSON(t, srv, http.MethodGet, "/orders/"+order.ID, admin.Token, nil, &got)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("listing is scoped by role", func(t *testing.T) {
		var mine []apihttp.OrderResponse
		status := doJSON(t, srv, http.MethodGet, "/orders", customer.Token, nil, &mine)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, mine, 1)
		assert.Equal(t, customer.User.ID, mine[0].UserID)

		var all []apihttp.OrderResponse
		status = doJSON(t, srv, http.MethodGet, "/orders", admin.Token, nil, &all)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, all, 1)
	})

	t.Run("status updates are admin-only and validated", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPatch, "/orders/"+order.ID+"/status", customer.Token,
			map[string]string{"status": "PROCESSING"}, nil)
		assert.Equal(t, http.StatusForbidden, status)

		var updated apihttp.OrderResponse
		status = doJSON(t, srv, http.MethodPatch, "/orders/"+order.ID+"/status", admin.Token,
			map[string]string{"status": "PROCESSING"}, &updated)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "PROCESSING", updated.Status)

		var errResp apihttp.ErrorResponse
		status = doJSON(t, srv, http.MethodPatch, "/orders/"+order.ID+"/status", admin.Token,
			map[string]string{"status": "PENDING"}, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", errResp.Error)
	})
}
