package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardStatus — статус карты
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

// ParseCardStatus проверяет, что строка является допустимым статусом карты
func ParseCardStatus(s string) (CardStatus, error) {
	switch CardStatus(s) {
	case CardStatusActive, CardStatusBlocked, CardStatusExpired:
		return CardStatus(s), nil
	}
	return "", fmt.Errorf("unknown card status: %q", s)
}

type Card struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	NumberEncrypted string     `json:"-" db:"number_enc"`   // AES-GCM, base64
	NumberNonce     string     `json:"-" db:"number_nonce"` // base64
	NumberLast4     string     `json:"-" db:"number_last4"`
	OwnerName       string     `json:"owner_name" db:"owner_name"`
	Expiration      time.Time  `json:"expiration" db:"expiration"`
	Status          CardStatus `json:"status" db:"status"`
	BalanceMinor    int64      `json:"balance_minor" db:"balance_minor"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

type CreateCardRequest struct {
	OwnerName  string `json:"owner_name"`
	CardNumber string `json:"card_number"`
	Expiration string `json:"expiration"` // YYYY-MM-DD
}

type ChangeCardStatusRequest struct {
	Status string `json:"status"`
}

// CardResponse — представление карты для ответа API.
// Номер всегда маскированный, шифртекст и nonce наружу не отдаются.
type CardResponse struct {
	ID           uuid.UUID  `json:"id"`
	MaskedNumber string     `json:"masked_number"`
	OwnerName    string     `json:"owner_name"`
	Expiration   string     `json:"expiration"`
	Status       CardStatus `json:"status"`
	BalanceMinor int64      `json:"balance_minor"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CardFilter — параметры выборки карт
type CardFilter struct {
	Status *CardStatus
	Page   PageRequest
}

// PageRequest — дескриптор страницы
type PageRequest struct {
	Page int
	Size int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Normalize приводит номер и размер страницы к допустимым значениям
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset возвращает смещение для SQL-запроса
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
