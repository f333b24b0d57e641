package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventplanner/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{
		DB: db,
	}
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c := &domain.Category{}
	var descNull sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &descNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if descNull.Valid {
		c.Description = descNull.String
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c := &domain.Category{}
		var descNull sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &descNull); err != nil {
			return nil, err
		}
		if descNull.Valid {
			c.Description = descNull.String
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
