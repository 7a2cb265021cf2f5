package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/config"
)

// EmailSender отправляет email уведомления о переводах
type EmailSender struct {
	dialer  *mail.Dialer
	from    string
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(cfg *config.Config, logger *logrus.Logger) *EmailSender {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}

	return &EmailSender{
		dialer:  d,
		from:    cfg.SMTPUser,
		logger:  logger,
		enabled: cfg.EmailEnabled,
	}
}

// SendTransferNotification отправляет уведомление о выполненном переводе.
// В письме только маскированные номера карт.
func (es *EmailSender) SendTransferNotification(email string, amountMinor int64, fromMasked, toMasked string) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := "Уведомление о переводе средств"
	content := fmt.Sprintf(`
		<h1>Уведомление о переводе</h1>
		<p>Сумма перевода: <strong>%d.%02d</strong></p>
		<p>С карты: <strong>%s</strong></p>
		<p>На карту: <strong>%s</strong></p>
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, amountMinor/100, amountMinor%100, fromMasked, toMasked, time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Ошибка отправки email")
		return fmt.Errorf("не удалось отправить email: %w", err)
	}

	es.logger.Infof("Email успешно отправлен на %s", to)
	return nil
}
