package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
)

// errorResponse — структура ответа об ошибке
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *logrus.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("Ошибка кодирования ответа")
	}
}

// writeError отображает класс ошибки на HTTP статус. Детали внутренних и
// криптографических сбоев наружу не уходят.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		logger.WithError(err).Error("Внутренняя ошибка")
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	switch appErr.ErrKind {
	case apperrors.KindInvalidRequest:
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: appErr.Message})
	case apperrors.KindNotFound:
		writeJSON(w, logger, http.StatusNotFound, errorResponse{Error: appErr.Message})
	case apperrors.KindEncryption:
		logger.WithError(err).Error("Криптографический сбой")
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		logger.WithError(err).Error("Внутренняя ошибка")
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, logger *logrus.Logger, message string) {
	writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: message})
}
