package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventplanner/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, start_date, end_date, place, price, category_id, capacity, image, is_active, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var imageNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Place,
		&e.Price, &e.CategoryID, &e.Capacity, &imageNull, &e.IsActive,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageNull.Valid {
		e.Image = &imageNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, start_date, end_date, place, price, category_id, capacity, image, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, e.Place, e.Price,
		e.CategoryID, e.Capacity, e.Image, e.IsActive, e.CreatedBy,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	where := []string{}
	args := []interface{}{}
	n := 1
	if filter.CategoryID != nil {
		where = append(where, fmt.Sprintf("category_id = $%d", n))
		args = append(args, *filter.CategoryID)
		n++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, "%"+filter.Search+"%")
		n++
	}
	if filter.UpcomingOnly {
		where = append(where, "start_date > NOW()")
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events %s", whereClause)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events %s
		ORDER BY start_date ASC
		LIMIT $%d OFFSET $%d
	`, eventColumns, whereClause, n, n+1)
	args = append(args, p.PerPage, p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id int64, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(col string, val interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		add("end_date", *upd.EndDate)
	}
	if upd.Place != nil {
		add("place", *upd.Place)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if upd.Capacity != nil {
		add("capacity", *upd.Capacity)
	}
	if upd.Image != nil {
		add("image", *upd.Image)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
