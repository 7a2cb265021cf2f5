package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema создает таблицы, если они еще не существуют.
// Переводы ссылаются на карты по голому идентификатору: история переводов
// переживает удаление карты администратором.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		roles TEXT[] NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cards (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		number_enc TEXT NOT NULL,
		number_nonce TEXT NOT NULL,
		number_last4 TEXT NOT NULL,
		owner_name TEXT NOT NULL,
		expiration DATE NOT NULL,
		status TEXT NOT NULL,
		balance_minor BIGINT NOT NULL DEFAULT 0 CHECK (balance_minor >= 0),
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transfers (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		from_card_id UUID NOT NULL,
		to_card_id UUID NOT NULL,
		amount_minor BIGINT NOT NULL CHECK (amount_minor > 0),
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cards_user_id ON cards(user_id);
	CREATE INDEX IF NOT EXISTS idx_transfers_user_id ON transfers(user_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
