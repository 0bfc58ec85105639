package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Drij77/ecommerce-graphql-api/internal/auth"
	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
	"github.com/Drij77/ecommerce-graphql-api/internal/repository"
	"github.com/Drij77/ecommerce-graphql-api/internal/service"
)

// Service tests run against a real in-memory store so the transactional
// behaviour under test is the real thing, not a mock's idea of it.
func setupStore(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("../repository/migrations"))
	return repo
}

func testCredentials() *auth.Credentials {
	return testCredentialsWithSecret("service-test-secret")
}

func testCredentialsWithSecret(secret string) *auth.Credentials {
	return auth.NewCredentials(secret, time.Hour, 4)
}

func registerUser(t *testing.T, accounts *service.AccountService, email, role string) *domain.User {
	t.Helper()

	payload, err := accounts.Register(context.Background(), service.RegisterInput{
		Email:     email,
		Password:  "pass-123",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	require.NoError(t, err)
	return payload.User
}

func createCategory(t *testing.T, catalog *service.CatalogService, admin *domain.User, name string) *domain.Category {
	t.Helper()

	category, err := catalog.CreateCategory(context.Background(), admin, service.CreateCategoryInput{
		Name:        name,
		Description: name,
	})
	require.NoError(t, err)
	return category
}

func createProduct(t *testing.T, catalog *service.CatalogService, admin *domain.User, categoryID, name string, price float64, inventory int) *domain.Product {
	t.Helper()

	product, err := catalog.CreateProduct(context.Background(), admin, service.CreateProductInput{
		Name:       name,
		Price:      price,
		Inventory:  inventory,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return product
}
