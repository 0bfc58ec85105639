package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

// CreateOrder commits an order atomically: every line's inventory is
// decremented with a conditional update, and the order plus its items are
// inserted in the same transaction. If any line cannot be covered, the
// transaction rolls back and the store is left untouched — no partial order,
// no partial decrement. Competing orders for the same product serialize on
// the write transaction, so inventory can never go negative.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		if err := decrementInventory(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	orderQuery := `INSERT INTO orders (id, user_id, status, total_amount, created_at, updated_at)
	               VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, orderQuery,
		order.ID,
		order.UserID,
		string(order.Status),
		order.TotalAmount,
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, created_at)
	              VALUES (?, ?, ?, ?, ?, ?)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID,
			order.ID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			formatTime(item.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}
	return nil
}

// decrementInventory is the atomic decrement-if-sufficient step. Zero rows
// affected means the product is either gone or short on stock; the follow-up
// read inside the same transaction tells the two apart.
func decrementInventory(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET inventory = inventory - ? WHERE id = ? AND inventory >= ?`,
		quantity, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement inventory rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM products WHERE id = ?`, productID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("query product for inventory check: %w", err)
	}
	return &domain.InsufficientInventoryError{ProductID: productID, ProductName: name}
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, user_id, status, total_amount, created_at, updated_at
	          FROM orders WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if order.Items, err = r.loadOrderItems(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT id, user_id, status, total_amount, created_at, updated_at
	          FROM orders ORDER BY created_at DESC`
	return r.listOrders(ctx, query)
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT id, user_id, status, total_amount, created_at, updated_at
	          FROM orders WHERE user_id = ? ORDER BY created_at DESC`
	return r.listOrders(ctx, query, userID)
}

func (r *Repository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		if order.Items, err = r.loadOrderItems(ctx, order.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus sets the status and refreshes updated_at. Transition
// rules are enforced by the service before it calls this.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := fmt.Sprintf(`SELECT i.id, i.order_id, i.product_id, i.quantity, i.unit_price, i.created_at,
	       %s
	          FROM order_items i
	          JOIN products p ON p.id = i.product_id
	          JOIN categories c ON c.id = p.category_id
	          WHERE i.order_id = ?
	          ORDER BY i.created_at`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var p domain.Product
		var c domain.Category
		var iCreated, pCreated, pUpdated, cCreated, cUpdated string
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&iCreated,
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Inventory,
			&p.CategoryID,
			&pCreated,
			&pUpdated,
			&c.Name,
			&c.Description,
			&cCreated,
			&cUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}

		if item.CreatedAt, err = parseTime(iCreated); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(pCreated); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(pUpdated); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(cCreated); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(cUpdated); err != nil {
			return nil, err
		}
		c.ID = p.CategoryID
		p.Category = &c
		item.Product = &p
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status, createdAt, updatedAt string
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&status,
		&o.TotalAmount,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)

	var err error
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
