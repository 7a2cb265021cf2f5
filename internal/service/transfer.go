package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

// TransferService выполняет переводы между картами одного пользователя.
// Перевод всегда между собственными картами инициатора; обхода для
// администратора нет.
type TransferService struct {
	cardStore     CardStore
	transferStore TransferStore
	emailSender   *EmailSender
	logger        *logrus.Logger
}

func NewTransferService(cardStore CardStore, transferStore TransferStore, emailSender *EmailSender, logger *logrus.Logger) *TransferService {
	return &TransferService{
		cardStore:     cardStore,
		transferStore: transferStore,
		emailSender:   emailSender,
		logger:        logger,
	}
}

// Create выполняет перевод. Предусловия проверяются по порядку, каждое дает
// свой класс отказа: перевод самому себе, неположительная сумма, существование
// обеих карт, владение обеими картами (нарушение скрывается как "не найдено"),
// активность обеих карт, достаточность средств. Само движение средств
// атомарно: статусы и баланс перепроверяются в той же транзакции базы данных,
// которая выполняет запись.
func (s *TransferService) Create(ctx context.Context, caller model.Caller, req *model.CreateTransferRequest) (*model.Transfer, error) {
	if req.FromCardID == req.ToCardID {
		s.logger.Warn("Попытка перевода на ту же карту")
		return nil, apperrors.InvalidRequest("cannot transfer to the same card")
	}
	if req.AmountMinor <= 0 {
		s.logger.Warn("Попытка перевода неположительной суммы")
		return nil, apperrors.InvalidRequest("amount must be positive")
	}

	from, err := s.cardStore.GetByID(ctx, req.FromCardID)
	if err != nil {
		return nil, err
	}
	to, err := s.cardStore.GetByID(ctx, req.ToCardID)
	if err != nil {
		return nil, err
	}

	if from.UserID != caller.UserID || to.UserID != caller.UserID {
		s.logger.WithFields(logrus.Fields{
			"user_id":      caller.UserID,
			"from_card_id": req.FromCardID,
			"to_card_id":   req.ToCardID,
		}).Warn("Попытка перевода с использованием чужой карты")
		return nil, apperrors.NotFound("card not found")
	}

	if from.Status != model.CardStatusActive || to.Status != model.CardStatusActive {
		return nil, apperrors.InvalidRequest("both cards must be active")
	}
	if from.BalanceMinor < req.AmountMinor {
		s.logger.WithFields(logrus.Fields{
			"from_card_id": req.FromCardID,
			"amount_minor": req.AmountMinor,
		}).Warn("Недостаточно средств для перевода")
		return nil, apperrors.InvalidRequest("insufficient funds")
	}

	transfer := &model.Transfer{
		ID:          uuid.New(),
		UserID:      caller.UserID,
		FromCardID:  req.FromCardID,
		ToCardID:    req.ToCardID,
		AmountMinor: req.AmountMinor,
		CreatedAt:   time.Now(),
	}

	if err := s.transferStore.Perform(ctx, transfer); err != nil {
		s.logger.WithError(err).Error("Перевод не выполнен")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transfer_id":  transfer.ID,
		"user_id":      caller.UserID,
		"amount_minor": req.AmountMinor,
	}).Info("Перевод успешно выполнен")

	if s.emailSender != nil && caller.Email != "" {
		fromMasked := maskedFromLast4(from.NumberLast4)
		toMasked := maskedFromLast4(to.NumberLast4)
		go func() {
			if err := s.emailSender.SendTransferNotification(caller.Email, transfer.AmountMinor, fromMasked, toMasked); err != nil {
				s.logger.WithError(err).Warn("Не удалось отправить email уведомление")
			}
		}()
	}

	return transfer, nil
}

// List возвращает страницу переводов, инициированных вызывающим
func (s *TransferService) List(ctx context.Context, caller model.Caller, page model.PageRequest) ([]model.Transfer, error) {
	transfers, err := s.transferStore.ListByUser(ctx, caller.UserID, page)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении списка переводов")
		return nil, err
	}
	return transfers, nil
}
