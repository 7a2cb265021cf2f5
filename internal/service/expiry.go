package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// ExpiryAuditor — плановый аудит карт с истекшим сроком действия.
// Истечение срока не меняет статус карты и не блокирует переводы;
// задача только сообщает оператору о картах ACTIVE с просроченной датой.
type ExpiryAuditor struct {
	cardStore CardStore
	logger    *logrus.Logger
}

func NewExpiryAuditor(cardStore CardStore, logger *logrus.Logger) *ExpiryAuditor {
	return &ExpiryAuditor{cardStore: cardStore, logger: logger}
}

// Run выполняет один проход аудита
func (a *ExpiryAuditor) Run(ctx context.Context) error {
	count, err := a.cardStore.CountExpiredActive(ctx, time.Now())
	if err != nil {
		a.logger.WithError(err).Error("Ошибка аудита просроченных карт")
		return err
	}

	if count > 0 {
		a.logger.WithField("count", count).Warn("Обнаружены активные карты с истекшим сроком действия")
	} else {
		a.logger.Debug("Активных карт с истекшим сроком действия нет")
	}
	return nil
}
