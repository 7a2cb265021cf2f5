package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/model"
	"github.com/articlol/bank-rest/internal/service"
)

// TransferHandler обрабатывает запросы переводов между картами
type TransferHandler struct {
	transferService *service.TransferService
	logger          *logrus.Logger
}

func NewTransferHandler(transferService *service.TransferService, logger *logrus.Logger) *TransferHandler {
	return &TransferHandler{transferService: transferService, logger: logger}
}

func (h *TransferHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListTransfers).Methods("GET")
	router.HandleFunc("", h.CreateTransfer).Methods("POST")
}

// ListTransfers возвращает страницу переводов вызывающего
func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	transfers, err := h.transferService.List(r.Context(), caller, pageFromQuery(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, transfers)
}

// CreateTransfer создает перевод между двумя картами вызывающего
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	var req model.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Ошибка декодирования запроса перевода")
		writeBadRequest(w, h.logger, "invalid request body")
		return
	}
	if req.FromCardID == uuid.Nil || req.ToCardID == uuid.Nil {
		writeBadRequest(w, h.logger, "from_card_id and to_card_id are required")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":      caller.UserID,
		"amount_minor": req.AmountMinor,
	}).Info("Попытка выполнения перевода")

	transfer, err := h.transferService.Create(r.Context(), caller, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, transfer)
}
