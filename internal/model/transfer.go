package model

import (
	"time"

	"github.com/google/uuid"
)

// Transfer — неизменяемая запись о выполненном переводе средств между картами.
// После создания запись никогда не изменяется и не удаляется.
type Transfer struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	FromCardID  uuid.UUID `json:"from_card_id" db:"from_card_id"`
	ToCardID    uuid.UUID `json:"to_card_id" db:"to_card_id"`
	AmountMinor int64     `json:"amount_minor" db:"amount_minor"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateTransferRequest struct {
	FromCardID  uuid.UUID `json:"from_card_id"`
	ToCardID    uuid.UUID `json:"to_card_id"`
	AmountMinor int64     `json:"amount_minor"`
}
