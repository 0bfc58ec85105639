package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

const productColumns = `p.id, p.name, p.description, p.price, p.inventory, p.category_id,
	       p.created_at, p.updated_at,
	       c.name, c.description, c.created_at, c.updated_at`

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, description, price, inventory, category_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Inventory,
		p.CategoryID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
	          FROM products p JOIN categories c ON c.id = p.category_id
	          WHERE p.id = ?`, productColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

// ListProducts applies the filter dimensions that are set; a zero filter
// returns every product.
func (r *Repository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
	          FROM products p JOIN categories c ON c.id = p.category_id`, productColumns)

	var conditions []string
	var args []any
	if filter.CategoryID != nil {
		conditions = append(conditions, "p.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "p.price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "p.price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY p.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

// UpdateProduct writes the full row; the service layer merges partial
// patches before calling it.
func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET name = ?, description = ?, price = ?, inventory = ?, category_id = ?, updated_at = ?
	          WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.Inventory,
		p.CategoryID,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var c domain.Category
	var pCreated, pUpdated, cCreated, cUpdated string
	if err := row.Scan(
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
		return nil, err
	}
	c.ID = p.CategoryID

	var err error
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
	p.Category = &c
	return &p, nil
}
