package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

type OrderStore interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error
}

type OrderService struct {
	store OrderStore
}

func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	Items []OrderLineInput
}

func (in *CreateOrderInput) Validate() error {
	if len(in.Items) == 0 {
		return domain.Validationf("order must contain at least one item")
	}
	seen := make(map[string]bool, len(in.Items))
	for _, line := range in.Items {
		if line.ProductID == "" {
			return domain.Validationf("product id is required on every item")
		}
		if line.Quantity <= 0 {
			return domain.Validationf("quantity must be positive")
		}
		// A duplicated line would pass each per-line inventory check while
		// decrementing twice, so duplicates are rejected outright.
		if seen[line.ProductID] {
			return domain.Validationf("duplicate product %s in order", line.ProductID)
		}
		seen[line.ProductID] = true
	}
	return nil
}

// CreateOrder validates the request against current inventory, freezes
// per-line prices, and commits order, items and inventory decrements as one
// atomic unit. Either every line fits or nothing is written.
func (s *OrderService) CreateOrder(ctx context.Context, caller *domain.User, input CreateOrderInput) (*domain.Order, error) {
	if caller == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Read phase: the lines are independent, so the product lookups fan out.
	// Prices read here are the ones frozen into the order items.
	products := make([]*domain.Product, len(input.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, line := range input.Items {
		i, line := i, line
		g.Go(func() error {
			p, err := s.store.GetProduct(gctx, line.ProductID)
			if err != nil {
				return err
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Early inventory check for a friendly failure; the commit below
	// re-verifies atomically, so this is not what guards correctness.
	for i, line := range input.Items {
		if products[i].Inventory < line.Quantity {
			return nil, &domain.InsufficientInventoryError{
				ProductID:   products[i].ID,
				ProductName: products[i].Name,
			}
		}
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    caller.ID,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, line := range input.Items {
		item := domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: products[i].Price,
			CreatedAt: now,
		}
		order.TotalAmount += item.Subtotal()
		order.Items = append(order.Items, item)
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Reload so the response carries the post-commit product state.
	return s.store.GetOrder(ctx, order.ID)
}

func (s *OrderService) GetOrder(ctx context.Context, caller *domain.User, id string) (*domain.Order, error) {
	if caller == nil {
		return nil, domain.ErrNotAuthenticated
	}
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && order.UserID != caller.ID {
		return nil, domain.ErrNotAuthorized
	}
	return order, nil
}

// ListOrders returns every order for admins and only the caller's own
// orders otherwise.
func (s *OrderService) ListOrders(ctx context.Context, caller *domain.User) ([]*domain.Order, error) {
	if caller == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if caller.IsAdmin() {
		return s.store.ListOrders(ctx)
	}
	return s.store.ListOrdersByUser(ctx, caller.ID)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, caller *domain.User, id string, status string) (*domain.Order, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, domain.Validationf("invalid order status %q", status)
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.Validationf("cannot move order from %s to %s", order.Status, next)
	}

	if err := s.store.UpdateOrderStatus(ctx, id, next, time.Now()); err != nil {
		return nil, err
	}
	return s.store.GetOrder(ctx, id)
}
