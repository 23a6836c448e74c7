package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/emilythestrangee/askseniors/backend/internal/auth"
	"github.com/emilythestrangee/askseniors/backend/internal/config"
	"github.com/emilythestrangee/askseniors/backend/internal/database"
	"github.com/emilythestrangee/askseniors/backend/internal/handlers"
	"github.com/emilythestrangee/askseniors/backend/internal/mail"
	"github.com/emilythestrangee/askseniors/backend/internal/metrics"
	"github.com/emilythestrangee/askseniors/backend/internal/middleware"
)

type Server struct {
	cfg         *config.Config
	db          database.Service
	issuer      *auth.Issuer
	handler     *handlers.Handler
	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics
	logger      *slog.Logger
}

// New wires the handlers onto an open database.
func New(cfg *config.Config, db database.Service, mailer mail.Mailer, clock clockwork.Clock, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, clock)
	registry := metrics.NewRegistry()
	handler := handlers.NewHandler(handlers.Deps{
		DB:          db.GetDB(),
		Config:      cfg,
		Issuer:      issuer,
		Mailer:      mailer,
		Clock:       clock,
		VoteMetrics: metrics.NewVoteMetrics(registry),
		Logger:      logger,
	})

	return &Server{
		cfg:         cfg,
		db:          db,
		issuer:      issuer,
		handler:     handler,
		registry:    registry,
		httpMetrics: metrics.NewHTTPMetrics(registry),
		logger:      logger,
	}
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config, db database.Service, mailer mail.Mailer, clock clockwork.Clock, logger *slog.Logger) *http.Server {
	s := New(cfg, db, mailer, clock, logger)

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.logger), s.httpMetrics.Middleware())

	// CORS configuration
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*" {
		// Credentials rule out a literal "*"; echo the caller's origin instead.
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		stats := s.db.Health()
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler(s.registry)))

	requireAuth := middleware.AuthMiddleware(s.issuer)
	optionalAuth := middleware.OptionalAuth(s.issuer)

	api := r.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", s.handler.Auth.Register)
		authRoutes.POST("/login", s.handler.Auth.Login)
		authRoutes.PUT("/activate/:token", s.handler.Auth.Activate)
		authRoutes.POST("/resend-activation", s.handler.Auth.ResendActivation)
		authRoutes.POST("/forgot-password", s.handler.Auth.ForgotPassword)
		authRoutes.PUT("/set-password", s.handler.Auth.SetPassword)
		authRoutes.GET("/current", requireAuth, s.handler.Auth.CurrentUser)
		authRoutes.POST("/change-password", requireAuth, s.handler.Auth.ChangePassword)
		authRoutes.POST("/logout", requireAuth, s.handler.Auth.Logout)

		// Votes resolve the caller themselves so that anonymous requests
		// get the same 401 body as every other voting error.
		question := api.Group("/question")
		question.GET("/", s.handler.Question.GetAllQuestions)
		question.GET("/ques", optionalAuth, s.handler.Question.GetQuestionsWithStatus)
		question.GET("/:id/answer", optionalAuth, s.handler.Answer.GetAnswers)
		question.POST("/:id/vote", optionalAuth, s.handler.Vote.VoteQuestion)
		question.POST("/", requireAuth, s.handler.Question.AddQuestion)
		question.POST("/:id/answer", requireAuth, s.handler.Answer.AnswerQuestion)
		question.DELETE("/:id", requireAuth, s.handler.Question.DeleteQuestion)

		answer := api.Group("/answer")
		answer.GET("/:id/comments", optionalAuth, s.handler.Comment.GetComments)
		answer.POST("/:id/vote", optionalAuth, s.handler.Vote.VoteAnswer)
		answer.POST("/:id/comments", requireAuth, s.handler.Comment.AddComment)

		comment := api.Group("/comment")
		comment.POST("/:id/like", optionalAuth, s.handler.Vote.LikeComment)
	}

	return r
}
