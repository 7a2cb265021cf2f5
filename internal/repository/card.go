package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

const cardColumns = `id, user_id, number_enc, number_nonce, number_last4, owner_name, expiration, status, balance_minor, created_at`

type CardRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewCardRepository(db *sql.DB, logger *logrus.Logger) *CardRepository {
	return &CardRepository{db: db, logger: logger}
}

func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	query := `
        INSERT INTO cards (` + cardColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		card.NumberEncrypted,
		card.NumberNonce,
		card.NumberLast4,
		card.OwnerName,
		card.Expiration,
		card.Status,
		card.BalanceMinor,
		card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("card not found")
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// ListByUser возвращает страницу карт пользователя.
// Порядок выдачи детерминирован: по времени создания, затем по id.
func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter model.CardFilter) ([]model.Card, error) {
	page := filter.Page.Normalize()

	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1`
	args := []interface{}{userID}
	if filter.Status != nil {
		query += ` AND status = $2`
		args = append(args, *filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT %d OFFSET %d`, page.Size, page.Offset())

	return r.queryCards(ctx, query, args...)
}

// ListAll возвращает страницу всех карт. Ограничение доступа — забота вызывающего.
func (r *CardRepository) ListAll(ctx context.Context, filter model.CardFilter) ([]model.Card, error) {
	page := filter.Page.Normalize()

	query := `SELECT ` + cardColumns + ` FROM cards`
	var args []interface{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT %d OFFSET %d`, page.Size, page.Offset())

	return r.queryCards(ctx, query, args...)
}

func (r *CardRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CardStatus) error {
	query := `UPDATE cards SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update card status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("card not found")
	}

	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM cards WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("card not found")
	}

	return nil
}

// CountExpiredActive возвращает число карт со статусом ACTIVE и истекшим
// сроком действия. Используется плановым аудитом.
func (r *CardRepository) CountExpiredActive(ctx context.Context, asOf time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM cards WHERE status = $1 AND expiration < $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, model.CardStatusActive, asOf).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expired cards: %w", err)
	}
	return count, nil
}

func (r *CardRepository) queryCards(ctx context.Context, query string, args ...interface{}) ([]model.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return cards, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (*model.Card, error) {
	var card model.Card
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.NumberEncrypted,
		&card.NumberNonce,
		&card.NumberLast4,
		&card.OwnerName,
		&card.Expiration,
		&card.Status,
		&card.BalanceMinor,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
