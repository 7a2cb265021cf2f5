package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/model"
	"github.com/articlol/bank-rest/internal/service"
)

var cardNumberRegex = regexp.MustCompile(`^\d{16}$`)

// CardHandler обрабатывает запросы управления картами
type CardHandler struct {
	cardService *service.CardService
	logger      *logrus.Logger
}

func NewCardHandler(cardService *service.CardService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{cardService: cardService, logger: logger}
}

func (h *CardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListCards).Methods("GET")
	router.HandleFunc("", h.CreateCard).Methods("POST")
	router.HandleFunc("/{id}", h.GetCard).Methods("GET")
	router.HandleFunc("/{id}/status", h.ChangeStatus).Methods("PATCH")
	router.HandleFunc("/{id}", h.DeleteCard).Methods("DELETE")
}

// ListCards возвращает страницу карт с опциональным фильтром по статусу.
// Админ видит весь список, пользователь — только свои карты.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	filter := model.CardFilter{Page: pageFromQuery(r)}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := model.ParseCardStatus(raw)
		if err != nil {
			writeBadRequest(w, h.logger, "invalid card status")
			return
		}
		filter.Status = &status
	}

	cards, err := h.cardService.ListCards(r.Context(), caller, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, cards)
}

// CreateCard создает новую карту для вызывающего
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	var req model.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Ошибка декодирования запроса создания карты")
		writeBadRequest(w, h.logger, "invalid request body")
		return
	}

	// Проверка формы запроса: присутствие полей, 16 цифр, дата в будущем
	if strings.TrimSpace(req.OwnerName) == "" {
		writeBadRequest(w, h.logger, "owner name is required")
		return
	}
	if !cardNumberRegex.MatchString(req.CardNumber) {
		writeBadRequest(w, h.logger, "card number must be 16 digits")
		return
	}
	expiration, err := time.Parse("2006-01-02", req.Expiration)
	if err != nil {
		writeBadRequest(w, h.logger, "invalid expiration date")
		return
	}
	if !expiration.After(time.Now()) {
		writeBadRequest(w, h.logger, "expiration date must be in the future")
		return
	}

	h.logger.WithField("user_id", caller.UserID).Info("Попытка создания новой карты")

	card, err := h.cardService.CreateCard(r.Context(), caller, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, card)
}

// GetCard возвращает карту по id
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, h.logger, "invalid card id")
		return
	}

	card, err := h.cardService.GetCard(r.Context(), caller, cardID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, card)
}

// ChangeStatus меняет статус карты
func (h *CardHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, h.logger, "invalid card id")
		return
	}

	var req model.ChangeCardStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Ошибка декодирования запроса смены статуса")
		writeBadRequest(w, h.logger, "invalid request body")
		return
	}

	card, err := h.cardService.ChangeStatus(r.Context(), caller, cardID, req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, card)
}

// DeleteCard удаляет карту
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	cardID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, h.logger, "invalid card id")
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), caller, cardID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

// pageFromQuery разбирает параметры пагинации из строки запроса
func pageFromQuery(r *http.Request) model.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return model.PageRequest{Page: page, Size: size}.Normalize()
}
