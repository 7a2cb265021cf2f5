package service

import (
	"github.com/google/uuid"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

// AccessPolicy — единая точка принятия решений о доступе к картам.
// Решение принимается по роли вызывающего и владению картой; состояния нет.
//
// Нарушение владения для обычного пользователя сообщается как "не найдено",
// а не "запрещено": существование чужой карты не должно отличаться от
// несуществования, иначе можно перебором выяснять действительные id.
type AccessPolicy struct{}

// AuthorizeRead решает, может ли вызывающий читать карту
func (AccessPolicy) AuthorizeRead(caller model.Caller, ownerID uuid.UUID) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.UserID != ownerID {
		return apperrors.NotFound("card not found")
	}
	return nil
}

// AuthorizeStatusChange решает, может ли вызывающий перевести карту в
// целевой статус. Администратору разрешен любой переход; владелец может
// запросить только BLOCKED.
func (p AccessPolicy) AuthorizeStatusChange(caller model.Caller, ownerID uuid.UUID, target model.CardStatus) error {
	if caller.IsAdmin() {
		return nil
	}
	if err := p.AuthorizeRead(caller, ownerID); err != nil {
		return err
	}
	if target != model.CardStatusBlocked {
		return apperrors.InvalidRequest("only block request allowed for user")
	}
	return nil
}

// AuthorizeDelete решает, может ли вызывающий удалить карту.
// Удаление доступно только администратору; для всех остальных это
// отдельный класс некорректного запроса, а не "не найдено".
func (AccessPolicy) AuthorizeDelete(caller model.Caller) error {
	if caller.IsAdmin() {
		return nil
	}
	return apperrors.InvalidRequest("only admin can delete card")
}
