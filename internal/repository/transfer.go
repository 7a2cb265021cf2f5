package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

type TransferRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewTransferRepository(db *sql.DB, logger *logrus.Logger) *TransferRepository {
	return &TransferRepository{db: db, logger: logger}
}

// lockedCard — состояние строки карты, прочитанное под блокировкой FOR UPDATE
type lockedCard struct {
	Status       model.CardStatus
	BalanceMinor int64
}

// Perform выполняет перевод как одну атомарную транзакцию: блокирует обе
// строки карт, повторно проверяет статусы и достаточность средств уже под
// блокировкой, списывает, зачисляет и фиксирует запись перевода. Либо все
// три записи попадают в базу, либо ни одной.
//
// Строки блокируются в порядке возрастания id карты независимо от
// направления перевода, чтобы встречные переводы по одной паре карт не
// приводили к взаимной блокировке.
func (r *TransferRepository) Perform(ctx context.Context, transfer *model.Transfer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	first, second := transfer.FromCardID, transfer.ToCardID
	if second.String() < first.String() {
		first, second = second, first
	}

	cards := make(map[uuid.UUID]lockedCard, 2)
	for _, id := range []uuid.UUID{first, second} {
		locked, err := lockCard(ctx, tx, id)
		if err != nil {
			return err
		}
		cards[id] = locked
	}

	from := cards[transfer.FromCardID]
	to := cards[transfer.ToCardID]

	// Проверки на заблокированных строках: конкурентный перевод не может
	// увидеть устаревший баланс и увести карту в минус
	if from.Status != model.CardStatusActive || to.Status != model.CardStatusActive {
		return apperrors.InvalidRequest("both cards must be active")
	}
	if from.BalanceMinor < transfer.AmountMinor {
		return apperrors.InvalidRequest("insufficient funds")
	}

	if err := updateBalanceTx(ctx, tx, transfer.FromCardID, -transfer.AmountMinor); err != nil {
		return fmt.Errorf("failed to debit source card: %w", err)
	}
	if err := updateBalanceTx(ctx, tx, transfer.ToCardID, transfer.AmountMinor); err != nil {
		return fmt.Errorf("failed to credit destination card: %w", err)
	}

	query := `
        INSERT INTO transfers (id, user_id, from_card_id, to_card_id, amount_minor, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	if _, err := tx.ExecContext(ctx, query,
		transfer.ID,
		transfer.UserID,
		transfer.FromCardID,
		transfer.ToCardID,
		transfer.AmountMinor,
		transfer.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create transfer record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

// ListByUser возвращает страницу переводов, инициированных пользователем.
// Порядок выдачи детерминирован: по времени создания, затем по id.
func (r *TransferRepository) ListByUser(ctx context.Context, userID uuid.UUID, page model.PageRequest) ([]model.Transfer, error) {
	page = page.Normalize()

	query := fmt.Sprintf(`
        SELECT id, user_id, from_card_id, to_card_id, amount_minor, created_at
        FROM transfers
        WHERE user_id = $1
        ORDER BY created_at, id
        LIMIT %d OFFSET %d
    `, page.Size, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.FromCardID,
			&t.ToCardID,
			&t.AmountMinor,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return transfers, nil
}

func lockCard(ctx context.Context, tx *sql.Tx, id uuid.UUID) (lockedCard, error) {
	query := `SELECT status, balance_minor FROM cards WHERE id = $1 FOR UPDATE`

	var locked lockedCard
	err := tx.QueryRowContext(ctx, query, id).Scan(&locked.Status, &locked.BalanceMinor)
	if err != nil {
		if err == sql.ErrNoRows {
			return lockedCard{}, apperrors.NotFound("card not found")
		}
		return lockedCard{}, fmt.Errorf("failed to lock card: %w", err)
	}
	return locked, nil
}

func updateBalanceTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta int64) error {
	query := `UPDATE cards SET balance_minor = balance_minor + $1 WHERE id = $2`

	result, err := tx.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
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
