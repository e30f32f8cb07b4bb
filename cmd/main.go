package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"thesisvault/internal/auth"
	"thesisvault/internal/config"
	"thesisvault/internal/handler"
	"thesisvault/internal/logger"
	"thesisvault/internal/repository"
	"thesisvault/internal/service"
	"thesisvault/internal/service/storage"
)

func connectWithRetry(dsn, dbName string, maxAttempts int, delay time.Duration) (*sqlx.DB, error) {
	// Сначала подключаемся к системной базе postgres, которая всегда существует
	pgDSN := strings.Replace(dsn, "dbname="+dbName, "dbname=postgres", 1)
	pgDB, err := sqlx.Connect("postgres", pgDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres database: %v", err)
	}
	defer pgDB.Close()

	// Проверяем, существует ли база данных приложения
	var exists bool
	err = pgDB.Get(&exists, "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)", dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	// Если базы нет, создаем её
	if !exists {
		log.Info().Str("database", dbName).Msg("database does not exist, creating")
		if _, err = pgDB.Exec("CREATE DATABASE " + dbName); err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	var db *sqlx.DB
	for i := 0; i < maxAttempts; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxAttempts).
			Msg("failed to connect to database")
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %v", maxAttempts, err)
}

func runMigrations(cfg *config.Config) error {
	databaseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	var m *migrate.Migrate
	var err error

	for i := 0; i < 5; i++ {
		m, err = migrate.New("file://migrations", databaseURL)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("failed to create migrate instance")
		time.Sleep(time.Second * 5)
	}

	if err != nil {
		return fmt.Errorf("failed to create migrate instance after retries: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		log.Warn().Uint("version", version).Msg("found dirty database state, forcing version")
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func main() {
	// Загружаем конфигурации
	appConfig, err := config.NewConfig(".app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(appConfig.Log.Level, appConfig.Log.Format)

	// Подключаемся к базе данных
	db, err := connectWithRetry(appConfig.Database.GetDSN(), appConfig.Database.Name, 5, time.Second*5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database after retries")
	}
	defer db.Close()

	if err := runMigrations(appConfig); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	// Хранилище документов: бэкенд выбирается один раз на весь процесс
	storageConfig, err := storage.NewConfig(".storage.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load storage config")
	}

	router, err := storage.NewRouter(storageConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init storage backend")
	}
	log.Info().Str("backend", router.Backend().Name()).Msg("storage backend selected")

	// Подключение к сервису авторизации
	authConfig, err := auth.NewConfig(".auth.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load auth config")
	}

	authClient, err := auth.NewClient(authConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create auth client")
	}

	// Инициализация репозиториев
	thesisRepo := repository.NewThesisRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Инициализация сервисов
	auditService := service.NewAuditService(auditRepo)
	documentService := service.NewDocumentService(documentRepo, thesisRepo, router.Backend(), auditService)
	resolverService := service.NewResolverService(documentRepo, router.Backend(), router.LocalRoot())
	workflowService := service.NewWorkflowService(thesisRepo, documentRepo, auditService)
	scheduleService := service.NewScheduleService(eventRepo)

	// Инициализация хендлеров
	documentHandler := handler.NewDocumentHandler(documentService, resolverService, authClient)
	thesisHandler := handler.NewThesisHandler(workflowService, documentService, authClient)
	eventHandler := handler.NewEventHandler(scheduleService, authClient)

	// Настройка HTTP роутера
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// HTTP маршруты
	r.Route("/v1", func(r chi.Router) {
		r.Route("/theses", func(r chi.Router) {
			r.Post("/", thesisHandler.CreateThesis)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", thesisHandler.GetThesis)
				r.Delete("/", thesisHandler.DeleteThesis)
				r.Post("/status", thesisHandler.TransitionThesis)
				r.Post("/documents", documentHandler.UploadDocument)
			})
		})

		r.Route("/documents/{uuid}", func(r chi.Router) {
			r.Get("/", documentHandler.ResolveDocument)
			r.Delete("/", documentHandler.DeleteDocument)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEvent)
			r.Get("/overlaps", eventHandler.FindOverlaps)
			r.Put("/{id}", eventHandler.UpdateEvent)
		})
	})

	// Создаем HTTP сервер
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler: r,
	}

	// Канал для сигналов завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем HTTP сервер
	go func() {
		log.Info().Str("port", appConfig.Server.Port).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()

	// Ожидаем сигнал завершения
	<-quit
	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("error closing database connection")
	}

	log.Info().Msg("server exited properly")
}
