package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/crypto"
	"github.com/articlol/bank-rest/internal/model"
)

// CardService управляет картами: создание, выборка, смена статуса, удаление.
// Открытый номер карты проходит через шифрование только на границе создания;
// хранится шифртекст с nonce, наружу уходит только маска.
type CardService struct {
	cardStore CardStore
	cipher    *crypto.Cipher
	policy    AccessPolicy
	logger    *logrus.Logger
}

func NewCardService(cardStore CardStore, cipher *crypto.Cipher, logger *logrus.Logger) *CardService {
	return &CardService{
		cardStore: cardStore,
		cipher:    cipher,
		logger:    logger,
	}
}

// CreateCard создает карту для вызывающего: статус ACTIVE, баланс 0.
// Номер шифруется, в ответе — маска номера, который вызывающий только что прислал.
func (s *CardService) CreateCard(ctx context.Context, caller model.Caller, req *model.CreateCardRequest) (*model.CardResponse, error) {
	expiration, err := time.Parse("2006-01-02", req.Expiration)
	if err != nil {
		return nil, apperrors.InvalidRequest("invalid expiration date")
	}

	ciphertext, nonce, err := s.cipher.Encrypt(req.CardNumber)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при шифровании номера карты")
		return nil, apperrors.Encryption(err)
	}

	card := &model.Card{
		ID:              uuid.New(),
		UserID:          caller.UserID,
		NumberEncrypted: ciphertext,
		NumberNonce:     nonce,
		NumberLast4:     req.CardNumber[len(req.CardNumber)-4:],
		OwnerName:       req.OwnerName,
		Expiration:      expiration,
		Status:          model.CardStatusActive,
		BalanceMinor:    0,
		CreatedAt:       time.Now(),
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		s.logger.WithError(err).Error("Ошибка при создании карты")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"card_id": card.ID,
		"user_id": caller.UserID,
		"last4":   card.NumberLast4,
	}).Info("Карта успешно создана")

	return cardResponse(card, crypto.MaskCardNumber(req.CardNumber)), nil
}

// GetCard возвращает карту, если у вызывающего есть к ней доступ
func (s *CardService) GetCard(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.CardResponse, error) {
	card, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeRead(caller, card.UserID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"card_id": id,
			"user_id": caller.UserID,
		}).Warn("Отказ в доступе к карте")
		return nil, err
	}
	return cardResponse(card, maskedFromLast4(card.NumberLast4)), nil
}

// ListCards возвращает страницу карт: админу — все, пользователю — только свои
func (s *CardService) ListCards(ctx context.Context, caller model.Caller, filter model.CardFilter) ([]model.CardResponse, error) {
	var (
		cards []model.Card
		err   error
	)
	if caller.IsAdmin() {
		cards, err = s.cardStore.ListAll(ctx, filter)
	} else {
		cards, err = s.cardStore.ListByUser(ctx, caller.UserID, filter)
	}
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении списка карт")
		return nil, err
	}

	responses := make([]model.CardResponse, 0, len(cards))
	for i := range cards {
		responses = append(responses, *cardResponse(&cards[i], maskedFromLast4(cards[i].NumberLast4)))
	}
	return responses, nil
}

// ChangeStatus переводит карту в запрошенный статус в рамках политики доступа
func (s *CardService) ChangeStatus(ctx context.Context, caller model.Caller, id uuid.UUID, rawStatus string) (*model.CardResponse, error) {
	status, err := model.ParseCardStatus(rawStatus)
	if err != nil {
		return nil, apperrors.InvalidRequest("invalid card status")
	}

	card, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.AuthorizeStatusChange(caller, card.UserID, status); err != nil {
		return nil, err
	}

	if err := s.cardStore.UpdateStatus(ctx, id, status); err != nil {
		s.logger.WithError(err).Error("Ошибка при смене статуса карты")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"card_id": id,
		"status":  status,
		"user_id": caller.UserID,
	}).Info("Статус карты изменен")

	card.Status = status
	return cardResponse(card, maskedFromLast4(card.NumberLast4)), nil
}

// DeleteCard удаляет карту; операция доступна только администратору
func (s *CardService) DeleteCard(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	if _, err := s.cardStore.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.policy.AuthorizeDelete(caller); err != nil {
		s.logger.WithFields(logrus.Fields{
			"card_id": id,
			"user_id": caller.UserID,
		}).Warn("Попытка удаления карты без прав администратора")
		return err
	}

	if err := s.cardStore.Delete(ctx, id); err != nil {
		s.logger.WithError(err).Error("Ошибка при удалении карты")
		return err
	}

	s.logger.WithField("card_id", id).Info("Карта удалена")
	return nil
}

// DecryptNumber восстанавливает открытый номер карты из шифртекста.
// Пути чтения API этим не пользуются; оставлено для аудита.
func (s *CardService) DecryptNumber(card *model.Card) (string, error) {
	plaintext, err := s.cipher.Decrypt(card.NumberEncrypted, card.NumberNonce)
	if err != nil {
		s.logger.WithField("card_id", card.ID).Error("Ошибка при расшифровке номера карты")
		return "", apperrors.Encryption(err)
	}
	return plaintext, nil
}

func cardResponse(card *model.Card, maskedNumber string) *model.CardResponse {
	return &model.CardResponse{
		ID:           card.ID,
		MaskedNumber: maskedNumber,
		OwnerName:    card.OwnerName,
		Expiration:   card.Expiration.Format("2006-01-02"),
		Status:       card.Status,
		BalanceMinor: card.BalanceMinor,
		CreatedAt:    card.CreatedAt,
	}
}

// maskedFromLast4 строит маску из сохраненной проекции последних 4 цифр,
// не расшифровывая номер
func maskedFromLast4(last4 string) string {
	return crypto.MaskCardNumber("************" + last4)
}
