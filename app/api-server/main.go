package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/quizmentor/quizmentor/config"
	"github.com/quizmentor/quizmentor/internal/api/handlers"
	"github.com/quizmentor/quizmentor/internal/api/middleware"
	"github.com/quizmentor/quizmentor/internal/api/routes"
	"github.com/quizmentor/quizmentor/internal/cache"
	"github.com/quizmentor/quizmentor/internal/interview"
	"github.com/quizmentor/quizmentor/internal/logger"
	"github.com/quizmentor/quizmentor/internal/providers/embedding"
	"github.com/quizmentor/quizmentor/internal/providers/llm"
	mongorepo "github.com/quizmentor/quizmentor/internal/repositories/mongo"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/services"
	"github.com/quizmentor/quizmentor/internal/storage"
	"github.com/quizmentor/quizmentor/internal/workers"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New()
	ctx := context.Background()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	lg.Info("PostgreSQL connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	lg.Info("MongoDB connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	lg.Info("Redis connected")

	// Google credentials are ambient (ADC) unless a key file is given.
	var gopts []option.ClientOption
	if f := os.Getenv("GOOGLE_CREDENTIALS_FILE"); f != "" {
		gopts = append(gopts, option.WithCredentialsFile(f))
	}

	model := os.Getenv("VERTEX_MODEL")
	if model == "" {
		model = "gemini-1.5-pro"
	}
	ai, err := llm.NewVertexGemini(ctx,
		os.Getenv("GOOGLE_PROJECT_ID"),
		os.Getenv("GOOGLE_LOCATION"),
		model,
		gopts...,
	)
	if err != nil {
		log.Fatalf("Vertex init error: %v", err)
	}
	defer ai.Close()

	embedder, err := embedding.NewVertexEmbedder(ctx,
		os.Getenv("GOOGLE_PROJECT_ID"),
		os.Getenv("GOOGLE_LOCATION"),
		os.Getenv("VERTEX_EMBEDDING_MODEL"),
		gopts...,
	)
	if err != nil {
		log.Fatalf("Vertex embedder init error: %v", err)
	}
	defer embedder.Close()

	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket, gopts...)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		uploader = up
	} else {
		lg.Warn("GCS_BUCKET not set; dispute attachments disabled")
	}

	// repositories
	courseRepo := pgrepo.NewCourseRepo(config.PostgresDB)
	personaRepo := pgrepo.NewPersonaRepo(config.PostgresDB)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	quizRepo := pgrepo.NewQuizRepo(config.PostgresDB)
	performanceRepo := pgrepo.NewPerformanceRepo(config.PostgresDB)
	disputeRepo := pgrepo.NewDisputeRepo(config.PostgresDB)
	settingRepo := pgrepo.NewSettingRepo(config.PostgresDB)
	historyRepo := mongorepo.NewHistoryRepo(config.MongoDatabase())

	rc := cache.NewRedisCache(config.RedisClient)
	registry := interview.NewRegistry()

	// services
	interviewSvc := services.NewInterviewService(registry, courseRepo, personaRepo, historyRepo, performanceRepo, ai, lg)
	courseSvc := services.NewCourseService(courseRepo, rc)
	personaSvc := services.NewPersonaService(personaRepo)
	userSvc := services.NewUserService(userRepo)
	quizSvc := services.NewQuizService(quizRepo, performanceRepo, config.RedisClient, embedder, lg)
	disputeSvc := services.NewDisputeService(disputeRepo, uploader)
	settingsSvc := services.NewSettingsService(settingRepo, rc)
	performanceSvc := services.NewPerformanceService(performanceRepo)

	// quiz generation worker pool
	pool := &workers.QuizGenWorkerPool{
		Redis:     config.RedisClient,
		Quizzes:   quizSvc,
		Courses:   courseSvc,
		Generator: ai,
		Logger:    lg,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Interview:   handlers.NewInterviewHandler(interviewSvc),
		InterviewWS: handlers.NewInterviewWSHandler(interviewSvc, config.RedisClient),
		Course:      handlers.NewCourseHandler(courseSvc),
		Persona:     handlers.NewPersonaHandler(personaSvc),
		User:        handlers.NewUserHandler(userSvc),
		Quiz:        handlers.NewQuizHandler(quizSvc),
		Dispute:     handlers.NewDisputeHandler(disputeSvc),
		Settings:    handlers.NewSettingsHandler(settingsSvc),
		Performance: handlers.NewPerformanceHandler(performanceSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
