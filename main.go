package main

import (
	"log"
	"time"

	"learning-service/internal/config"
	"learning-service/internal/db"
	"learning-service/internal/event"
	"learning-service/internal/handlers"
	"learning-service/internal/middleware"
	"learning-service/internal/repository"
	"learning-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.ServiceConfig
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(cfg.MongoURI)
	defer db.DisconnectMongo()

	if cfg.RedisAddr != "" {
		db.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	} else {
		log.Println("Redis not configured, rate limiting disabled")
	}

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, learning events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FEAddress},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.DatabaseName)

	questionRepo := repository.NewQuestionRepository(database)
	assessmentRepo := repository.NewAssessmentRepository(database)
	resultRepo := repository.NewResultRepository(database)
	userRepo := repository.NewUserRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	pathRepo := repository.NewLearningPathRepository(database)
	historyRepo := repository.NewCooldownHistoryRepository(database)
	conceptLinkRepo := repository.NewConceptLinkRepository(database)

	assessmentService := service.NewAssessmentService(assessmentRepo, questionRepo, resultRepo, cfg)
	questionService := service.NewQuestionService(questionRepo, assessmentRepo, resultRepo)
	cooldownService := service.NewCooldownService(userRepo, historyRepo, cfg)
	adviceService := service.NewAdviceService(conceptLinkRepo)
	recommendationService := service.NewRecommendationService(userRepo, resultRepo, courseRepo, pathRepo)
	userService := service.NewUserService(userRepo, courseRepo)

	assessmentHandler := handlers.NewAssessmentHandler(assessmentService, cooldownService, adviceService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	userHandler := handlers.NewUserHandler(userService, cooldownService)

	setupAssessmentRoutes(r, assessmentHandler, publisher, cfg)
	setupQuestionRoutes(r, questionHandler, cfg)
	setupRecommendationRoutes(r, recommendationHandler, publisher)
	setupUserRoutes(r, userHandler, publisher, cfg)

	r.Run(":" + cfg.Port)
}

func setupAssessmentRoutes(r *gin.Engine, h *handlers.AssessmentHandler, publisher *event.EventPublisher, cfg *config.Config) {
	publicAssessment := r.Group("/public/learning/assessment")
	{
		publicAssessment.GET("/:id", h.GetAssessment)
		publicAssessment.GET("/course/:courseId", h.GetAssessmentForCourse)
	}

	protectedAssessment := r.Group("/protected/learning/assessment")
	protectedAssessment.Use(middleware.Auth(cfg.JWTSecret))
	protectedAssessment.Use(middleware.RateLimit(db.RedisClient, cfg.RateLimitPerMin))
	{
		protectedAssessment.POST("/", middleware.RequirePermission(middleware.WriteAssessmentPermission), h.CreateAssessment)
		protectedAssessment.POST("/generate", middleware.RequirePermission(middleware.WriteAssessmentPermission), h.GenerateAssessment)
		protectedAssessment.PUT("/:id", middleware.RequirePermission(middleware.UpdateAssessmentPermission), h.UpdateAssessment)
		protectedAssessment.DELETE("/:id", middleware.RequirePermission(middleware.DeleteAssessmentPermission), h.DeleteAssessment)
		protectedAssessment.GET("/:id/eligibility", h.CheckEligibility)
		protectedAssessment.GET("/:id/stats", middleware.RequirePermission(middleware.ReadLearningStatsPermission), h.GetAssessmentStats)

		protectedAssessment.POST("/:id/submit", middleware.RequirePermission(middleware.SubmitAssessmentPermission), func(c *gin.Context) {
			h.SubmitAssessment(c)
			if publisher != nil {
				publisher.Publish("assessment.submitted", gin.H{
					"assessment_id": c.Param("id"),
					"user_id":       c.GetHeader("X-User-ID"),
				})
			}
		})

		protectedAssessment.POST("/advice", h.GetAdvice)
		protectedAssessment.GET("/:id/results", middleware.RequirePermission(middleware.ReadAllResultPermission), h.GetResultsByAssessment)
	}

	protectedConceptLink := r.Group("/protected/learning/concept-link")
	protectedConceptLink.Use(middleware.Auth(cfg.JWTSecret))
	protectedConceptLink.Use(middleware.RateLimit(db.RedisClient, cfg.RateLimitPerMin))
	protectedConceptLink.Use(middleware.RequirePermission(middleware.AdminPermission))
	{
		protectedConceptLink.POST("/", h.CreateConceptLink)
		protectedConceptLink.GET("/", h.ListConceptLinks)
		protectedConceptLink.PUT("/:id", h.UpdateConceptLink)
		protectedConceptLink.DELETE("/:id", h.DeleteConceptLink)
	}

	publicResults := r.Group("/public/learning/user")
	{
		publicResults.GET("/:id/results", h.GetResultsByUser)
	}
}

func setupQuestionRoutes(r *gin.Engine, h *handlers.QuestionHandler, cfg *config.Config) {
	publicQuestion := r.Group("/public/learning/question")
	{
		publicQuestion.GET("/", h.ListQuestions)
		publicQuestion.GET("/:id", h.GetQuestion)
		publicQuestion.GET("/assessment/:id", h.ListQuestionsByAssessment)
	}

	protectedQuestion := r.Group("/protected/learning/question")
	protectedQuestion.Use(middleware.Auth(cfg.JWTSecret))
	protectedQuestion.Use(middleware.RateLimit(db.RedisClient, cfg.RateLimitPerMin))
	{
		protectedQuestion.POST("/", middleware.RequirePermission(middleware.WriteQuestionPermission), h.CreateQuestion)
		protectedQuestion.PUT("/:id", middleware.RequirePermission(middleware.UpdateQuestionPermission), h.UpdateQuestion)
		protectedQuestion.DELETE("/:id", middleware.RequirePermission(middleware.DeleteQuestionPermission), h.DeleteQuestion)
		protectedQuestion.POST("/:id/assessment/:assessmentId", middleware.RequirePermission(middleware.UpdateQuestionPermission), h.AttachToAssessment)
		protectedQuestion.DELETE("/:id/assessment/:assessmentId", middleware.RequirePermission(middleware.UpdateQuestionPermission), h.DetachFromAssessment)
	}
}

func setupRecommendationRoutes(r *gin.Engine, h *handlers.RecommendationHandler, publisher *event.EventPublisher) {
	publicRecommendation := r.Group("/public/learning/recommendation")
	{
		publicRecommendation.GET("/user/:id/courses", func(c *gin.Context) {
			h.GetCourseRecommendations(c)
			if publisher != nil {
				publisher.Publish("recommendation.courses", gin.H{"user_id": c.Param("id")})
			}
		})
		publicRecommendation.GET("/user/:id/paths", func(c *gin.Context) {
			h.GetLearningPathRecommendations(c)
			if publisher != nil {
				publisher.Publish("recommendation.paths", gin.H{"user_id": c.Param("id")})
			}
		})
		publicRecommendation.POST("/user/:id/personalized", func(c *gin.Context) {
			h.GetPersonalizedRecommendations(c)
			if publisher != nil {
				publisher.Publish("recommendation.personalized", gin.H{"user_id": c.Param("id")})
			}
		})
		publicRecommendation.GET("/course/:id/similar", h.GetSimilarCourses)
	}
}

func setupUserRoutes(r *gin.Engine, h *handlers.UserHandler, publisher *event.EventPublisher, cfg *config.Config) {
	publicUser := r.Group("/public/learning/user")
	{
		publicUser.GET("/:id", h.GetUser)
		publicUser.GET("/:id/cooldown", h.GetCooldown)
	}

	protectedUser := r.Group("/protected/learning/user")
	protectedUser.Use(middleware.Auth(cfg.JWTSecret))
	protectedUser.Use(middleware.RateLimit(db.RedisClient, cfg.RateLimitPerMin))
	{
		protectedUser.POST("/:id/course/:courseId/start", func(c *gin.Context) {
			h.StartCourse(c)
			if publisher != nil {
				publisher.Publish("course.started", gin.H{
					"user_id":   c.Param("id"),
					"course_id": c.Param("courseId"),
				})
			}
		})
		protectedUser.POST("/:id/course/:courseId/complete", func(c *gin.Context) {
			h.CompleteCourse(c)
			if publisher != nil {
				publisher.Publish("course.completed", gin.H{
					"user_id":   c.Param("id"),
					"course_id": c.Param("courseId"),
				})
			}
		})
		protectedUser.PUT("/:id/preferences", h.UpdatePreferences)
		protectedUser.GET("/:id/cooldown/history", h.GetCooldownHistory)
		protectedUser.DELETE("/cooldown/history/:historyId", middleware.RequirePermission(middleware.AdminPermission), h.DeleteCooldownHistory)
	}
}
