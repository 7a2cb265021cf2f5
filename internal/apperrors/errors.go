// Package apperrors определяет классы ошибок бизнес-логики.
//
// Каждая отклоненная операция ядра несет различимый класс, по которому
// HTTP-слой выбирает статус ответа. Детали persistence- и crypto-ошибок
// наружу не попадают.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind — класс ошибки
type Kind int

const (
	// KindInvalidRequest — некорректный запрос или нарушение бизнес-правила
	KindInvalidRequest Kind = iota + 1
	// KindNotFound — идентификатор не разрешился, либо нарушение владения,
	// намеренно скрытое как "не найдено"
	KindNotFound
	// KindEncryption — криптографическая операция не выполнена; фатально,
	// указывает на порчу ключа или конфигурации
	KindEncryption
	// KindInternal — прочие внутренние ошибки
	KindInternal
)

// Error — ошибка с классом и человекочитаемой причиной
type Error struct {
	ErrKind Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки по классу через errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.ErrKind == t.ErrKind && (t.Message == "" || t.Message == e.Message)
}

// InvalidRequest создает ошибку нарушения бизнес-правила
func InvalidRequest(format string, args ...interface{}) error {
	return &Error{ErrKind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound создает ошибку "не найдено"
func NotFound(format string, args ...interface{}) error {
	return &Error{ErrKind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Encryption оборачивает ошибку криптографической операции
func Encryption(err error) error {
	return &Error{ErrKind: KindEncryption, Message: "encryption failure", Err: err}
}

// Internal оборачивает внутреннюю ошибку
func Internal(msg string, err error) error {
	return &Error{ErrKind: KindInternal, Message: msg, Err: err}
}

// KindOf возвращает класс ошибки или KindInternal, если класс не задан
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrKind
	}
	return KindInternal
}

// IsNotFound сообщает, относится ли ошибка к классу "не найдено"
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsInvalidRequest сообщает, относится ли ошибка к классу некорректного запроса
func IsInvalidRequest(err error) bool {
	return KindOf(err) == KindInvalidRequest
}

// IsEncryption сообщает, относится ли ошибка к классу криптографического сбоя
func IsEncryption(err error) bool {
	return KindOf(err) == KindEncryption
}
