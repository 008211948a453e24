package user

import (
	"context"
	"database/sql"

	"materiaux-bot/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Upsert(ctx context.Context, u User) error
	FindByID(ctx context.Context, id int64) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, u User) error {
	log := logger.FromCtx(ctx)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, name, telegram_username)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, telegram_username = EXCLUDED.telegram_username
	`, u.ID, u.Name, u.Username)

	if err != nil {
		log.Error("db: failed to upsert user",
			zap.Int64("user_id", u.ID),
			zap.Error(err),
		)
	}

	return err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, name, telegram_username, phone FROM users WHERE user_id = $1",
		id,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Phone)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
