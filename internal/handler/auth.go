package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/model"
	"github.com/articlol/bank-rest/internal/service"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService *service.AuthService
	logger      *logrus.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// RegisterRoutes регистрирует маршруты аутентификации
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.Register).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
}

// Register обрабатывает запрос на регистрацию нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.WithError(err).Warn("Не удалось декодировать запрос регистрации")
		writeBadRequest(w, h.logger, "invalid request body")
		return
	}

	if !emailRegex.MatchString(input.Email) {
		writeBadRequest(w, h.logger, "invalid email format")
		return
	}
	if strings.TrimSpace(input.FullName) == "" {
		writeBadRequest(w, h.logger, "full name is required")
		return
	}
	if len(input.Password) < 8 {
		writeBadRequest(w, h.logger, "password must be at least 8 characters")
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
	})
}

// Login обрабатывает запрос на вход и возвращает JWT токен
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.WithError(err).Warn("Не удалось декодировать запрос входа")
		writeBadRequest(w, h.logger, "invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		// Неверные учетные данные не детализируем
		writeJSON(w, h.logger, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, model.LoginResponse{Token: token})
}
