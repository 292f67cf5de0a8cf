package profile

import (
	"context"
	"database/sql"
	"errors"

	"login-service/internal/db"
)

type PostgresRepository struct {
	db *db.DB
}

func NewPostgresRepository(db *db.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id,
		       COALESCE(nickname, ''),
		       COALESCE(avatar_url, ''),
		       COALESCE(bio, ''),
		       COALESCE(phone, ''),
		       created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Nickname,
		&p.AvatarURL,
		&p.Bio,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) Save(ctx context.Context, p *Profile) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO user_profiles (user_id, nickname, avatar_url, bio, phone)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		ON CONFLICT (user_id) DO UPDATE
		SET nickname = EXCLUDED.nickname,
		    avatar_url = EXCLUDED.avatar_url,
		    bio = EXCLUDED.bio,
		    phone = EXCLUDED.phone,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`,
		p.UserID,
		p.Nickname,
		p.AvatarURL,
		p.Bio,
		p.Phone,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}
