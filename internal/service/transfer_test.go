package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

func newTransferService(t *testing.T) (*TransferService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewTransferService(store, fakeTransferStore{store}, nil, testLogger())
	return svc, store
}

func balanceOf(t *testing.T, store *fakeStore, id uuid.UUID) int64 {
	t.Helper()
	card, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%s): %v", id, err)
	}
	return card.BalanceMinor
}

func TestTransferSuccess(t *testing.T) {
	svc, store := newTransferService(t)
	userID := uuid.New()
	from := seedCard(t, store, userID, model.CardStatusActive, 500)
	to := seedCard(t, store, userID, model.CardStatusActive, 0)

	transfer, err := svc.Create(context.Background(), userCaller(userID), &model.CreateTransferRequest{
		FromCardID:  from.ID,
		ToCardID:    to.ID,
		AmountMinor: 100,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := balanceOf(t, store, from.ID); got != 400 {
		t.Errorf("баланс источника = %d, ожидалось 400", got)
	}
	if got := balanceOf(t, store, to.ID); got != 100 {
		t.Errorf("баланс получателя = %d, ожидалось 100", got)
	}

	// Создана ровно одна запись перевода с обеими картами и суммой
	records, err := fakeTransferStore{store}.ListByUser(context.Background(), userID, model.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("записей перевода %d, ожидалась 1", len(records))
	}
	rec := records[0]
	if rec.ID != transfer.ID || rec.FromCardID != from.ID || rec.ToCardID != to.ID || rec.AmountMinor != 100 {
		t.Fatalf("запись перевода не совпадает: %+v", rec)
	}
}

func TestTransferPreconditions(t *testing.T) {
	svc, store := newTransferService(t)
	userID := uuid.New()
	from := seedCard(t, store, userID, model.CardStatusActive, 100)
	to := seedCard(t, store, userID, model.CardStatusActive, 0)
	blocked := seedCard(t, store, userID, model.CardStatusBlocked, 100)
	foreign := seedCard(t, store, uuid.New(), model.CardStatusActive, 100)

	tests := []struct {
		name     string
		req      model.CreateTransferRequest
		caller   model.Caller
		wantKind apperrors.Kind
	}{
		{
			"перевод самому себе",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: from.ID, AmountMinor: 10},
			userCaller(userID), apperrors.KindInvalidRequest,
		},
		{
			"нулевая сумма",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: to.ID, AmountMinor: 0},
			userCaller(userID), apperrors.KindInvalidRequest,
		},
		{
			"отрицательная сумма",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: to.ID, AmountMinor: -5},
			userCaller(userID), apperrors.KindInvalidRequest,
		},
		{
			"несуществующая карта-источник",
			model.CreateTransferRequest{FromCardID: uuid.New(), ToCardID: to.ID, AmountMinor: 10},
			userCaller(userID), apperrors.KindNotFound,
		},
		{
			"несуществующая карта-получатель",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: uuid.New(), AmountMinor: 10},
			userCaller(userID), apperrors.KindNotFound,
		},
		{
			"чужая карта скрыта как не найденная",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: foreign.ID, AmountMinor: 10},
			userCaller(userID), apperrors.KindNotFound,
		},
		{
			"админ не получает обхода владения",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: to.ID, AmountMinor: 10},
			adminCaller(uuid.New()), apperrors.KindNotFound,
		},
		{
			"заблокированная карта",
			model.CreateTransferRequest{FromCardID: blocked.ID, ToCardID: to.ID, AmountMinor: 10},
			userCaller(userID), apperrors.KindInvalidRequest,
		},
		{
			"недостаточно средств",
			model.CreateTransferRequest{FromCardID: from.ID, ToCardID: to.ID, AmountMinor: 200},
			userCaller(userID), apperrors.KindInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.caller, &tt.req)
			if apperrors.KindOf(err) != tt.wantKind {
				t.Fatalf("ожидался класс %v, получено: %v", tt.wantKind, err)
			}

			// Отказ не оставляет частичного эффекта
			if got := balanceOf(t, store, from.ID); got != 100 {
				t.Fatalf("баланс источника изменился: %d", got)
			}
			if got := balanceOf(t, store, to.ID); got != 0 {
				t.Fatalf("баланс получателя изменился: %d", got)
			}
			records, _ := fakeTransferStore{store}.ListByUser(context.Background(), tt.caller.UserID, model.PageRequest{})
			if len(records) != 0 {
				t.Fatalf("создана запись перевода при отказе: %+v", records)
			}
		})
	}
}

// Сумма балансов пары карт неизменна при любой последовательности переводов,
// в том числе конкурентных встречных; баланс не уходит в минус
func TestTransferConcurrentConservation(t *testing.T) {
	svc, store := newTransferService(t)
	userID := uuid.New()
	a := seedCard(t, store, userID, model.CardStatusActive, 1000)
	b := seedCard(t, store, userID, model.CardStatusActive, 1000)

	const workers = 20
	const perWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		fromID, toID := a.ID, b.ID
		if w%2 == 1 {
			fromID, toID = b.ID, a.ID
		}
		wg.Add(1)
		go func(fromID, toID uuid.UUID) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// Отказ по балансу допустим, частичный эффект — нет
				_, _ = svc.Create(context.Background(), userCaller(userID), &model.CreateTransferRequest{
					FromCardID:  fromID,
					ToCardID:    toID,
					AmountMinor: 70,
				})
			}
		}(fromID, toID)
	}
	wg.Wait()

	balA := balanceOf(t, store, a.ID)
	balB := balanceOf(t, store, b.ID)
	if balA < 0 || balB < 0 {
		t.Fatalf("баланс ушел в минус: a=%d b=%d", balA, balB)
	}
	if balA+balB != 2000 {
		t.Fatalf("сумма балансов %d, ожидалось 2000", balA+balB)
	}

	// Число записей переводов соответствует фактическим движениям средств
	records, err := fakeTransferStore{store}.ListByUser(context.Background(), userID, model.PageRequest{Size: 100})
	if err != nil {
		t.Fatal(err)
	}
	var moved int64
	for _, rec := range records {
		if rec.FromCardID == a.ID {
			moved -= rec.AmountMinor
		} else {
			moved += rec.AmountMinor
		}
	}
	if balB-1000 != moved {
		t.Fatalf("записи переводов расходятся с балансами: сдвиг %d, по записям %d", balB-1000, moved)
	}
}

func TestTransferList(t *testing.T) {
	svc, store := newTransferService(t)
	alice := uuid.New()
	bob := uuid.New()
	aliceFrom := seedCard(t, store, alice, model.CardStatusActive, 300)
	aliceTo := seedCard(t, store, alice, model.CardStatusActive, 0)
	bobFrom := seedCard(t, store, bob, model.CardStatusActive, 300)
	bobTo := seedCard(t, store, bob, model.CardStatusActive, 0)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), userCaller(alice), &model.CreateTransferRequest{
			FromCardID: aliceFrom.ID, ToCardID: aliceTo.ID, AmountMinor: 10,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Create(context.Background(), userCaller(bob), &model.CreateTransferRequest{
		FromCardID: bobFrom.ID, ToCardID: bobTo.ID, AmountMinor: 10,
	}); err != nil {
		t.Fatal(err)
	}

	// Каждый видит только свои переводы
	own, err := svc.List(context.Background(), userCaller(alice), model.PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 3 {
		t.Fatalf("переводов %d, ожидалось 3", len(own))
	}
	for _, rec := range own {
		if rec.UserID != alice {
			t.Fatalf("чужой перевод в выдаче: %+v", rec)
		}
	}

	// Пагинация
	page, err := svc.List(context.Background(), userCaller(alice), model.PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 {
		t.Fatalf("вторая страница размера 2 из 3 записей: %d", len(page))
	}
}
