package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

// AuthService отвечает за регистрацию, вход и выпуск JWT токенов
type AuthService struct {
	userStore   UserStore
	jwtSecret   string
	issuer      string
	audience    string
	tokenExpiry time.Duration
	logger      *logrus.Logger
}

func NewAuthService(userStore UserStore, jwtSecret, issuer, audience string, tokenExpiry time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userStore:   userStore,
		jwtSecret:   jwtSecret,
		issuer:      issuer,
		audience:    audience,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// tokenClaims — клеймы токена: стандартный набор плюс email и список ролей
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Register регистрирует нового пользователя с ролью USER
func (s *AuthService) Register(ctx context.Context, input model.RegisterRequest) (*model.User, error) {
	s.logger.WithField("email", input.Email).Info("Попытка регистрации нового пользователя")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось захешировать пароль")
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hashedPassword),
		Enabled:      true,
		Roles:        []string{model.RoleUser},
		CreatedAt:    time.Now(),
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		s.logger.WithError(err).Error("Не удалось создать пользователя в базе данных")
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("Пользователь успешно зарегистрирован")
	return user, nil
}

// Login проверяет учетные данные и возвращает подписанный JWT токен
func (s *AuthService) Login(ctx context.Context, input model.LoginRequest) (string, error) {
	s.logger.WithField("email", input.Email).Info("Попытка входа пользователя")

	user, err := s.userStore.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.WithError(err).Warn("Пользователь не найден или неверные учётные данные")
		return "", apperrors.InvalidRequest("invalid credentials")
	}

	if !user.Enabled {
		s.logger.WithField("user_id", user.ID).Warn("Попытка входа отключенного пользователя")
		return "", apperrors.InvalidRequest("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.Warn("Неверный пароль при попытке входа")
		return "", apperrors.InvalidRequest("invalid credentials")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось сгенерировать JWT токен")
		return "", fmt.Errorf("ошибка генерации токена: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Пользователь успешно вошёл в систему")
	return token, nil
}

// GenerateToken выпускает подписанный токен с фиксированным временем жизни
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
		Email: user.Email,
		Roles: user.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken проверяет подпись и срок действия токена и возвращает
// тройку (id, email, роли) вызывающего
func (s *AuthService) ParseToken(tokenString string) (model.Caller, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)

	if err != nil || !token.Valid {
		s.logger.WithError(err).Warn("Невалидный JWT токен")
		return model.Caller{}, fmt.Errorf("невалидный токен: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.logger.Error("Не удалось извлечь идентификатор пользователя из токена")
		return model.Caller{}, fmt.Errorf("некорректные claims токена: %w", err)
	}

	return model.Caller{
		UserID: userID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}, nil
}
