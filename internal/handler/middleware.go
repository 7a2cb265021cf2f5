package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/model"
	"github.com/articlol/bank-rest/internal/service"
)

type contextKey string

const callerContextKey contextKey = "caller"

// CallerFromContext извлекает личность вызывающего из контекста запроса
func CallerFromContext(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(model.Caller)
	return caller, ok
}

// AuthMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization и помещает личность вызывающего в контекст запроса
func AuthMiddleware(authService *service.AuthService, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Error("Отсутствует заголовок Authorization")
				http.Error(w, "Заголовок Authorization обязателен", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Error("Неверный формат заголовка Authorization")
				http.Error(w, "Неверный формат заголовка Authorization", http.StatusUnauthorized)
				return
			}

			caller, err := authService.ParseToken(parts[1])
			if err != nil {
				logger.WithError(err).Error("Неверный токен")
				http.Error(w, "Неверный токен", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
