package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"testprep-service/internal/adaptive"
	"testprep-service/internal/db"
	"testprep-service/internal/event"
	"testprep-service/internal/handlers"
	"testprep-service/internal/repository"
	"testprep-service/internal/selection"
	"testprep-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, study events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database("testprep")

	// Catalogs
	questionRepo := repository.NewQuestionRepository(database)
	questionService := service.NewQuestionService(questionRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)

	testRepo := repository.NewTestRepository(database)

	// Performance tracking and adaptive selection
	performanceRepo := repository.NewPerformanceRepository(database)
	tracker := adaptive.NewTracker(performanceRepo)
	performanceHandler := handlers.NewPerformanceHandler(tracker)
	selector := selection.NewSelector(questionRepo, tracker)

	// Profiles
	profileRepo := repository.NewProfileRepository(database)
	profileService := service.NewProfileService(profileRepo)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Practice sessions
	sessionRepo := repository.NewSessionRepository(database)
	practiceService := service.NewPracticeService(sessionRepo, tracker, profileService)
	practiceHandler := handlers.NewPracticeHandler(practiceService, selector, questionService)

	// Exams
	resultRepo := repository.NewResultRepository(database)
	examService := service.NewExamService(testRepo, resultRepo, profileService)
	examHandler := handlers.NewExamHandler(examService)

	// Public routes - catalog lookups need no user
	publicQuestion := r.Group("/public/prep/question")
	{
		publicQuestion.GET("/", questionHandler.ListQuestions)
		publicQuestion.GET("/:id", questionHandler.GetQuestion)
	}

	publicTest := r.Group("/public/prep/test")
	{
		publicTest.GET("/", examHandler.ListTests)
		publicTest.GET("/:id", examHandler.GetTest)
	}

	// Protected routes - everything keyed by the authenticated user
	authRequired := func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}

	protectedQuestion := r.Group("/protected/prep/question", authRequired)
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	performance := r.Group("/protected/prep/performance", authRequired)
	{
		performance.GET("/", performanceHandler.GetPerformance)
		performance.POST("/outcome", func(c *gin.Context) {
			performanceHandler.RecordOutcome(c)
			if publisher != nil {
				publisher.Publish("prep.performance.outcome_recorded", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		performance.GET("/recommended", performanceHandler.GetRecommendedSubjects)
		performance.GET("/weakest", performanceHandler.GetWeakestSubjects)
		performance.GET("/difficulty", performanceHandler.GetRecommendedDifficulty)
	}

	practice := r.Group("/protected/prep/practice", authRequired)
	{
		practice.POST("/", func(c *gin.Context) {
			practiceHandler.StartSession(c)
			if publisher != nil {
				publisher.Publish("prep.practice.started", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		practice.POST("/answer", practiceHandler.AnswerQuestion)
		practice.POST("/finish", func(c *gin.Context) {
			practiceHandler.FinishSession(c)
			if publisher != nil {
				publisher.Publish("prep.practice.finished", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		practice.GET("/current", practiceHandler.GetCurrentSession)
		practice.GET("/history", practiceHandler.GetHistory)
		practice.GET("/history/:id", practiceHandler.GetSession)
		practice.GET("/stats", practiceHandler.GetStats)
	}

	exam := r.Group("/protected/prep/exam", authRequired)
	{
		exam.POST("/", func(c *gin.Context) {
			examHandler.StartExam(c)
			if publisher != nil {
				publisher.Publish("prep.exam.started", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		exam.POST("/answer", examHandler.AnswerQuestion)
		exam.POST("/finish", func(c *gin.Context) {
			examHandler.FinishExam(c)
			if publisher != nil {
				publisher.Publish("prep.exam.finished", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		exam.GET("/current", examHandler.GetCurrentExam)
		exam.GET("/results", examHandler.GetResults)
		exam.GET("/results/:id", examHandler.GetResult)
		exam.GET("/highest", examHandler.GetHighestScore)
	}

	profile := r.Group("/protected/prep/profile", authRequired)
	{
		profile.GET("/", profileHandler.GetProfile)
		profile.POST("/target-score", profileHandler.SetTargetScore)
		profile.PUT("/weak-areas", profileHandler.UpdateWeakAreas)
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":7700"
	}
	r.Run(addr)
}
