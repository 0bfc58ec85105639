package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

type CatalogStore interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return s.store.ListProducts(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Inventory   int
	CategoryID  string
}

func (in *CreateProductInput) Validate() error {
	if in.Name == "" {
		return domain.Validationf("product name is required")
	}
	if in.Price < 0 {
		return domain.Validationf("price must not be negative")
	}
	if in.Inventory < 0 {
		return domain.Validationf("inventory must not be negative")
	}
	if in.CategoryID == "" {
		return domain.Validationf("category id is required")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller *domain.User, input CreateProductInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Inventory:   input.Inventory,
		CategoryID:  category.ID,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput is a partial patch: nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Inventory   *int
	CategoryID  *string
}

func (in *UpdateProductInput) Validate() error {
	if in.Name != nil && *in.Name == "" {
		return domain.Validationf("product name must not be empty")
	}
	if in.Price != nil && *in.Price < 0 {
		return domain.Validationf("price must not be negative")
	}
	if in.Inventory != nil && *in.Inventory < 0 {
		return domain.Validationf("inventory must not be negative")
	}
	if in.CategoryID != nil && *in.CategoryID == "" {
		return domain.Validationf("category id must not be empty")
	}
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, caller *domain.User, id string, input UpdateProductInput) (*domain.Product, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Inventory != nil {
		product.Inventory = *input.Inventory
	}
	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		category, err := s.store.GetCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		product.Category = category
	}
	product.UpdatedAt = time.Now()

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller *domain.User, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrNotAuthorized
	}
	return s.store.DeleteProduct(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

type CreateCategoryInput struct {
	Name        string
	Description string
}

func (in *CreateCategoryInput) Validate() error {
	if in.Name == "" {
		return domain.Validationf("category name is required")
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, caller *domain.User, input CreateCategoryInput) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

func (in *UpdateCategoryInput) Validate() error {
	if in.Name != nil && *in.Name == "" {
		return domain.Validationf("category name must not be empty")
	}
	return nil
}

// Category deletion is intentionally not exposed.
func (s *CatalogService) UpdateCategory(ctx context.Context, caller *domain.User, id string, input UpdateCategoryInput) (*domain.Category, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	category.UpdatedAt = time.Now()

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
