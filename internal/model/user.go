package model

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователя
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Enabled      bool      `json:"enabled" db:"enabled"`
	Roles        []string  `json:"roles" db:"roles"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Caller — проверенная личность вызывающего, извлеченная из JWT токена.
// Операции ядра доверяют этой тройке полностью и сами учетные данные не проверяют.
type Caller struct {
	UserID uuid.UUID
	Email  string
	Roles  []string
}

// IsAdmin сообщает, есть ли у вызывающего роль администратора
func (c Caller) IsAdmin() bool {
	for _, role := range c.Roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
