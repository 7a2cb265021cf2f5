package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

func userCaller(id uuid.UUID) model.Caller {
	return model.Caller{UserID: id, Email: "user@test.com", Roles: []string{model.RoleUser}}
}

func adminCaller(id uuid.UUID) model.Caller {
	return model.Caller{UserID: id, Email: "admin@test.com", Roles: []string{model.RoleAdmin}}
}

func TestAuthorizeRead(t *testing.T) {
	var policy AccessPolicy
	owner := uuid.New()
	stranger := uuid.New()

	if err := policy.AuthorizeRead(userCaller(owner), owner); err != nil {
		t.Errorf("владелец должен читать свою карту: %v", err)
	}
	if err := policy.AuthorizeRead(adminCaller(stranger), owner); err != nil {
		t.Errorf("админ должен читать любую карту: %v", err)
	}

	// Чужая карта сообщается как "не найдено", не "запрещено"
	err := policy.AuthorizeRead(userCaller(stranger), owner)
	if !apperrors.IsNotFound(err) {
		t.Errorf("чужая карта должна давать NotFound, получено: %v", err)
	}
}

func TestAuthorizeStatusChange(t *testing.T) {
	var policy AccessPolicy
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name     string
		caller   model.Caller
		target   model.CardStatus
		wantKind apperrors.Kind
	}{
		{"владелец блокирует свою карту", userCaller(owner), model.CardStatusBlocked, 0},
		{"владелец не может активировать", userCaller(owner), model.CardStatusActive, apperrors.KindInvalidRequest},
		{"владелец не может пометить просроченной", userCaller(owner), model.CardStatusExpired, apperrors.KindInvalidRequest},
		{"админ ставит любой статус", adminCaller(stranger), model.CardStatusActive, 0},
		{"админ блокирует", adminCaller(stranger), model.CardStatusBlocked, 0},
		{"чужая карта скрыта как не найденная", userCaller(stranger), model.CardStatusBlocked, apperrors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeStatusChange(tt.caller, owner, tt.target)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("ожидался доступ, получено: %v", err)
				}
				return
			}
			if apperrors.KindOf(err) != tt.wantKind {
				t.Fatalf("ожидался класс %v, получено: %v", tt.wantKind, err)
			}
		})
	}
}

func TestAuthorizeDelete(t *testing.T) {
	var policy AccessPolicy
	id := uuid.New()

	if err := policy.AuthorizeDelete(adminCaller(id)); err != nil {
		t.Errorf("админ должен удалять карты: %v", err)
	}

	// Для не-админа это отдельный класс некорректного запроса
	err := policy.AuthorizeDelete(userCaller(id))
	if !apperrors.IsInvalidRequest(err) {
		t.Errorf("не-админ должен получать InvalidRequest, получено: %v", err)
	}
}
