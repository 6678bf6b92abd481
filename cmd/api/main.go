package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/config"
	"github.com/yourusername/exam-api/internal/handler"
	"github.com/yourusername/exam-api/internal/middleware"
	pgRepo "github.com/yourusername/exam-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/exam-api/internal/repository/redis"
	"github.com/yourusername/exam-api/internal/service"
	"github.com/yourusername/exam-api/internal/ws"
	"github.com/yourusername/exam-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	examRepo := pgRepo.NewExamRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Живая лента для админ-панели
	hub := ws.NewHub()

	// Отправка писем с итогами (опционально)
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		log.Println("Email notifications enabled")
	}

	// Инициализируем сервисы
	examService := service.NewExamService(examRepo, questionRepo, cacheRepo)
	sessionService := service.NewSessionService(resultRepo, examRepo, questionRepo, userRepo, examService, emailService, hub)
	resultService := service.NewResultService(resultRepo)

	// Инициализируем обработчики
	examHandler := handler.NewExamHandler(examService, resultService)
	sessionHandler := handler.NewSessionHandler(sessionService, resultService)
	wsHandler := handler.NewWSHandler(hub)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Инициализируем Gin
	router := gin.Default()
	router.Use(middleware.RequestID())

	if gin.Mode() == gin.ReleaseMode {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		exams := api.Group("/exams")
		exams.Use(authMiddleware.RequireAuth())
		{
			// Админские маршруты без ID
			adminExams := exams.Group("")
			adminExams.Use(authMiddleware.AdminOnly())
			{
				adminExams.GET("", examHandler.ListExams)
				adminExams.POST("/generate", examHandler.GenerateExam)
				adminExams.GET("/pool/stats", examHandler.GetPoolStats)
			}

			// Студент получает доступный ему экзамен (без правильных ответов)
			exams.GET("/available", authMiddleware.StudentOnly(), examHandler.GetAvailableExam)

			// Группа маршрутов, требующих examID
			examWithID := exams.Group("/:id")
			examWithID.Use(middleware.ExtractUintParam("id", "examID")) // Применяем middleware
			{
				examWithID.POST("/start", authMiddleware.StudentOnly(), sessionHandler.StartSession)

				adminExamWithID := examWithID.Group("")
				adminExamWithID.Use(authMiddleware.AdminOnly())
				{
					adminExamWithID.GET("", examHandler.GetExam)
					adminExamWithID.POST("/close", examHandler.CloseExam)
					adminExamWithID.GET("/results", examHandler.GetExamResults)
				}
			}
		}

		results := api.Group("/results")
		results.Use(authMiddleware.RequireAuth())
		{
			results.GET("/my", authMiddleware.StudentOnly(), sessionHandler.GetMyResults)

			adminResults := results.Group("/user/:id")
			adminResults.Use(authMiddleware.AdminOnly(), middleware.ExtractUintParam("id", "userID"))
			{
				adminResults.GET("", sessionHandler.GetUserResults)
			}

			resultWithID := results.Group("/:id")
			resultWithID.Use(middleware.ExtractUintParam("id", "resultID"))
			{
				resultWithID.GET("", authMiddleware.AdminOnly(), sessionHandler.GetSessionDetail)
				resultWithID.POST("/answer", authMiddleware.StudentOnly(), sessionHandler.RecordAnswer)
				resultWithID.POST("/finish", authMiddleware.StudentOnly(), sessionHandler.FinishSession)
			}
		}

		// WebSocket-лента завершений для админ-панели
		api.GET("/ws/admin", authMiddleware.RequireAuth(), authMiddleware.AdminOnly(), wsHandler.HandleAdminFeed)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
