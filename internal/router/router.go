package router

import (
	"fmt"
	"time"

	"vox-populi/internal/auth"
	"vox-populi/internal/clock"
	"vox-populi/internal/handlers"
	"vox-populi/internal/metrics"
	"vox-populi/internal/repository"
	"vox-populi/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	DB          *gorm.DB
	Tokens      *auth.TokenManager
	Clock       clock.Clock
	Metrics     *metrics.Metrics
	Log         *logrus.Entry
	CORSOrigins []string
}

// New wires services, handlers and routes into a gin engine
func New(deps Deps) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	repo := repository.NewRepository(deps.DB)

	// Initialize services
	userService := services.NewUserService(repo, deps.Log)
	questionService := services.NewQuestionService(repo, deps.Clock, deps.Log)
	answerService := services.NewAnswerService(repo, deps.Clock, deps.Log)
	replyService := services.NewReplyService(repo, deps.Clock, deps.Metrics, deps.Log)
	resultsService := services.NewResultsService(repo, deps.Clock)
	recordService := services.NewRecordService(repo, deps.Clock)

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(questionService, answerService, deps.Log)
	replyHandler := handlers.NewReplyHandler(replyService, deps.Log)
	resultsHandler := handlers.NewResultsHandler(resultsService, recordService, userService, deps.Log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Log.WithField("component", "http")))
	router.Use(deps.Metrics.Middleware())

	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/", handlers.Index)
	router.GET("/health", handlers.Health(deps.DB))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := router.Group("/api")
	api.Use(auth.Authenticate(deps.Tokens, userService, deps.Log.WithField("component", "auth")))
	{
		staff := auth.RequireStaff()
		member := auth.RequireAuth()

		// Questions: public read, staff write
		api.GET("/questions", questionHandler.ListQuestions)
		api.POST("/questions", staff, questionHandler.CreateQuestion)
		api.GET("/questions/:id", questionHandler.GetQuestion)
		api.PUT("/questions/:id", staff, questionHandler.UpdateQuestion)
		api.PATCH("/questions/:id", staff, questionHandler.UpdateQuestion)
		api.DELETE("/questions/:id", staff, questionHandler.DeleteQuestion)

		// Answers
		api.GET("/questions/:id/answers", questionHandler.ListQuestionAnswers)
		api.POST("/questions/:id/answers", staff, questionHandler.CreateQuestionAnswer)
		api.GET("/answers", questionHandler.ListAnswers)
		api.GET("/answers/:id", questionHandler.GetAnswer)
		api.PUT("/answers/:id", staff, questionHandler.UpdateAnswer)
		api.PATCH("/answers/:id", staff, questionHandler.UpdateAnswer)
		api.DELETE("/answers/:id", staff, questionHandler.DeleteAnswer)

		// The caller's own reply to a question
		myReply := api.Group("/questions/:id/reply", member)
		{
			myReply.GET("", replyHandler.GetMyReply)
			myReply.POST("", replyHandler.CreateMyReply)
			myReply.PUT("", replyHandler.UpdateMyReply)
			myReply.PATCH("", replyHandler.UpdateMyReply)
			myReply.DELETE("", replyHandler.DeleteMyReply)
		}

		// Aggregates, visible once a question concludes
		api.GET("/questions/:id/replies", replyHandler.ListQuestionReplies)
		api.GET("/questions/:id/results", resultsHandler.GetResults)

		// Replies by id
		replies := api.Group("/replies", member)
		{
			replies.GET("", replyHandler.ListMyReplies)
			replies.GET("/:id", replyHandler.GetReply)
			replies.PUT("/:id", replyHandler.UpdateReply)
			replies.PATCH("/:id", replyHandler.UpdateReply)
			replies.DELETE("/:id", replyHandler.DeleteReply)
		}

		api.GET("/record", member, resultsHandler.GetRecord)
		api.GET("/profile", member, resultsHandler.GetProfile)
		api.PATCH("/profile", member, resultsHandler.UpdateProfile)
	}

	return router, nil
}
