package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Register performs the duplicate and capacity checks and the insert as one
// atomic unit. The event row is locked with FOR UPDATE so two concurrent
// registrations for the last spot serialize and exactly one sees the free
// spot; the unique index on (user_id, event_id) backs the duplicate check for
// races the EXISTS read cannot see.
func (r *registrationRepository) Register(ctx context.Context, userID, eventID int64, now time.Time) (*domain.Registration, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		capacity  int
		isActive  bool
		startDate time.Time
	)
	err = tx.QueryRowContext(ctx, `
		SELECT capacity, is_active, start_date
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventID).Scan(&capacity, &isActive, &startDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}
	if !isActive {
		return nil, domain.ErrEventInactive
	}
	if !startDate.After(now) {
		return nil, domain.ErrEventPassed
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)
	`, userID, eventID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, eventID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= capacity {
		return nil, domain.ErrEventFull
	}

	reg := domain.NewRegistration(userID, eventID, now)
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (user_id, event_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, eventID, now).Scan(&reg.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, event_id, created_at
		FROM registrations
		WHERE id = $1
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID int64) (*domain.Registration, error) {
	query := `
		SELECT id, user_id, event_id, created_at
		FROM registrations
		WHERE user_id = $1 AND event_id = $2
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, userID, eventID).
		Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ExistsByUserAndEvent(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)
	`, userID, eventID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) DeleteByUserAndEvent(ctx context.Context, userID, eventID int64) error {
	result, err := r.DB.ExecContext(ctx, `
		DELETE FROM registrations WHERE user_id = $1 AND event_id = $2
	`, userID, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID int64, p domain.PaginationParams) ([]*domain.RegistrationDetail, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.user_id, r.event_id, r.created_at,
		       e.id, e.title, e.description, e.start_date, e.end_date, e.place,
		       e.price, e.category_id, e.capacity, e.image, e.is_active,
		       e.created_by, e.created_at, e.updated_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	details := make([]*domain.RegistrationDetail, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		e := &domain.Event{}
		var imageNull sql.NullString
		if err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Place,
			&e.Price, &e.CategoryID, &e.Capacity, &imageNull, &e.IsActive,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if imageNull.Valid {
			e.Image = &imageNull.String
		}
		details = append(details, &domain.RegistrationDetail{Registration: reg, Event: e})
	}
	return details, total, rows.Err()
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID int64, p domain.PaginationParams) ([]*domain.RegistrationDetail, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, eventID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.user_id, r.event_id, r.created_at,
		       u.id, u.name, u.email, u.role, u.created_at, u.updated_at
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	details := make([]*domain.RegistrationDetail, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		u := &domain.User{}
		if err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt,
			&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		details = append(details, &domain.RegistrationDetail{Registration: reg, User: u})
	}
	return details, total, rows.Err()
}

func (r *registrationRepository) ListAll(ctx context.Context, p domain.PaginationParams) ([]*domain.RegistrationDetail, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.user_id, r.event_id, r.created_at,
		       e.id, e.title, e.description, e.start_date, e.end_date, e.place,
		       e.price, e.category_id, e.capacity, e.image, e.is_active,
		       e.created_by, e.created_at, e.updated_at,
		       u.id, u.name, u.email, u.role, u.created_at, u.updated_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	details := make([]*domain.RegistrationDetail, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		e := &domain.Event{}
		u := &domain.User{}
		var imageNull sql.NullString
		if err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.EventID, &reg.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Place,
			&e.Price, &e.CategoryID, &e.Capacity, &imageNull, &e.IsActive,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
			&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if imageNull.Valid {
			e.Image = &imageNull.String
		}
		details = append(details, &domain.RegistrationDetail{Registration: reg, Event: e, User: u})
	}
	return details, total, rows.Err()
}
