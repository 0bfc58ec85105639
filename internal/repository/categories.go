package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, description, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Description,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at
	          FROM categories WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category by id: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at
	          FROM categories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

// UpdateCategory writes the full row; field merging for partial patches is
// the service layer's job.
func (r *Repository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Description,
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	var createdAt, updatedAt string
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
