package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/config"
	"github.com/articlol/bank-rest/internal/crypto"
	"github.com/articlol/bank-rest/internal/handler"
	"github.com/articlol/bank-rest/internal/repository"
	"github.com/articlol/bank-rest/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	if err := repository.EnsureSchema(context.Background(), db); err != nil {
		logger.Fatalf("Ошибка инициализации схемы БД: %v", err)
	}

	// Инициализация шифрования номеров карт
	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		logger.Fatalf("Ошибка инициализации шифрования: %v", err)
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	userRepo := repository.NewUserRepository(db, logger)
	cardRepo := repository.NewCardRepository(db, logger)
	transferRepo := repository.NewTransferRepository(db, logger)

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	emailSender := service.NewEmailSender(cfg, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenExpiry, logger)
	cardService := service.NewCardService(cardRepo, cipher, logger)
	transferService := service.NewTransferService(cardRepo, transferRepo, emailSender, logger)
	expiryAuditor := service.NewExpiryAuditor(cardRepo, logger)

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	authHandler := handler.NewAuthHandler(authService, logger)
	cardHandler := handler.NewCardHandler(cardService, logger)
	transferHandler := handler.NewTransferHandler(transferService, logger)

	// Настройка маршрутизатора
	router := mux.NewRouter()

	// 1. Публичные маршруты для аутентификации
	publicRouter := router.PathPrefix("/api/auth").Subrouter()
	authHandler.RegisterRoutes(publicRouter)

	// 2. Защищенные API маршруты (требуется JWT токен)
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.AuthMiddleware(authService, logger))

	cardRouter := apiRouter.PathPrefix("/cards").Subrouter()
	cardHandler.RegisterRoutes(cardRouter)

	transferRouter := apiRouter.PathPrefix("/transfers").Subrouter()
	transferHandler.RegisterRoutes(transferRouter)

	// Плановый аудит просроченных карт
	logger.Info("Настройка планировщика аудита просроченных карт...")
	c := cron.New()
	_, err = c.AddFunc("0 */12 * * *", func() {
		if err := expiryAuditor.Run(context.Background()); err != nil {
			logger.WithError(err).Error("Ошибка аудита просроченных карт")
		}
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика: %v", err)
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Infof("Запуск сервера на порту :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	c.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}
