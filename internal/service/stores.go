package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/articlol/bank-rest/internal/model"
)

// UserStore — хранилище пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// CardStore — хранилище карт
type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter model.CardFilter) ([]model.Card, error)
	ListAll(ctx context.Context, filter model.CardFilter) ([]model.Card, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CardStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountExpiredActive(ctx context.Context, asOf time.Time) (int, error)
}

// TransferStore — хранилище переводов. Perform атомарно выполняет движение
// средств и фиксацию записи перевода.
type TransferStore interface {
	Perform(ctx context.Context, transfer *model.Transfer) error
	ListByUser(ctx context.Context, userID uuid.UUID, page model.PageRequest) ([]model.Transfer, error)
}
