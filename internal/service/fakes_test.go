package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeStore — in-memory замена репозиториев карт и переводов для тестов.
// Perform атомарен под общим мьютексом, как транзакция в реальной базе.
type fakeStore struct {
	mu        sync.Mutex
	cards     map[uuid.UUID]*model.Card
	order     []uuid.UUID
	transfers []model.Transfer
}

func newFakeStore() *fakeStore {
	return &fakeStore{cards: make(map[uuid.UUID]*model.Card)}
}

func (s *fakeStore) Create(_ context.Context, card *model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *card
	s.cards[card.ID] = &copied
	s.order = append(s.order, card.ID)
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, apperrors.NotFound("card not found")
	}
	copied := *card
	return &copied, nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID uuid.UUID, filter model.CardFilter) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Card
	for _, id := range s.order {
		card := s.cards[id]
		if card == nil || card.UserID != userID {
			continue
		}
		if filter.Status != nil && card.Status != *filter.Status {
			continue
		}
		matched = append(matched, *card)
	}
	return paginateCards(matched, filter.Page), nil
}

func (s *fakeStore) ListAll(_ context.Context, filter model.CardFilter) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Card
	for _, id := range s.order {
		card := s.cards[id]
		if card == nil {
			continue
		}
		if filter.Status != nil && card.Status != *filter.Status {
			continue
		}
		matched = append(matched, *card)
	}
	return paginateCards(matched, filter.Page), nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.CardStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return apperrors.NotFound("card not found")
	}
	card.Status = status
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return apperrors.NotFound("card not found")
	}
	delete(s.cards, id)
	return nil
}

func (s *fakeStore) CountExpiredActive(_ context.Context, asOf time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, card := range s.cards {
		if card.Status == model.CardStatusActive && card.Expiration.Before(asOf) {
			count++
		}
	}
	return count, nil
}

// Perform повторяет контракт транзакции перевода: проверки и запись — одно
// неделимое действие, частичного эффекта не бывает
func (s *fakeStore) Perform(_ context.Context, transfer *model.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.cards[transfer.FromCardID]
	if !ok {
		return apperrors.NotFound("card not found")
	}
	to, ok := s.cards[transfer.ToCardID]
	if !ok {
		return apperrors.NotFound("card not found")
	}
	if from.Status != model.CardStatusActive || to.Status != model.CardStatusActive {
		return apperrors.InvalidRequest("both cards must be active")
	}
	if from.BalanceMinor < transfer.AmountMinor {
		return apperrors.InvalidRequest("insufficient funds")
	}

	from.BalanceMinor -= transfer.AmountMinor
	to.BalanceMinor += transfer.AmountMinor
	s.transfers = append(s.transfers, *transfer)
	return nil
}

// fakeTransferStore дает fakeStore сигнатуру TransferStore: выборка
// переводов затеняет одноименную выборку карт
type fakeTransferStore struct {
	*fakeStore
}

func (s fakeTransferStore) ListByUser(_ context.Context, userID uuid.UUID, page model.PageRequest) ([]model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Transfer
	for _, t := range s.transfers {
		if t.UserID == userID {
			matched = append(matched, t)
		}
	}
	page = page.Normalize()
	start := page.Offset()
	if start >= len(matched) {
		return nil, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func paginateCards(cards []model.Card, page model.PageRequest) []model.Card {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(cards) {
		return nil
	}
	end := start + page.Size
	if end > len(cards) {
		end = len(cards)
	}
	return cards[start:end]
}

// fakeUserStore — in-memory замена репозитория пользователей
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperrors.InvalidRequest("email already exists")
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	copied := *user
	return &copied, nil
}
