package user

import (
	"context"
	"database/sql"
	"errors"

	"login-service/internal/db"
)

// PostgresRepository is the canonical Repository backed by postgres.
type PostgresRepository struct {
	db *db.DB
}

func NewPostgresRepository(db *db.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `
	id, email,
	COALESCE(username, ''),
	COALESCE(password_hash, ''),
	COALESCE(google_id, ''),
	is_active, is_verified, created_at, updated_at
`

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email))
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username))
}

func (r *PostgresRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE google_id = $1
	`, googleID))
}

func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash, google_id, is_active, is_verified)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		RETURNING id, created_at, updated_at
	`,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.GoogleID,
		u.Active,
		u.Verified,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2,
		    username = NULLIF($3, ''),
		    password_hash = NULLIF($4, ''),
		    google_id = NULLIF($5, ''),
		    is_active = $6,
		    is_verified = $7,
		    updated_at = NOW()
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.GoogleID,
		u.Active,
		u.Verified,
	)

	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.GoogleID,
		&u.Active,
		&u.Verified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
