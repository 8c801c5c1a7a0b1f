package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pollpay/internal/config"
	"pollpay/internal/handler"
	"pollpay/internal/middleware"
	"pollpay/internal/redis"
	"pollpay/internal/services"
	"pollpay/internal/transport/httpdto"
	"pollpay/internal/websocket"
	"pollpay/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

type Handlers struct {
	Auth   *handler.AuthHandler
	Poll   *handler.PollHandler
	Wallet *handler.WalletHandler
	WS     *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.Server.Environment == logger.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	if limiter != nil {
		s.engine.Use(middleware.RateLimitMiddleware(limiter))
	}

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	auth := s.engine.Group("/api/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	authed := s.engine.Group("/api/v1", middleware.AuthMiddleware(authService))
	{
		polls := authed.Group("/polls")
		polls.POST("", handlers.Poll.Create)
		polls.GET("/discover", handlers.Poll.Discover)
		polls.GET("/user/created", handlers.Poll.ListCreated)
		polls.GET("/user/voted", handlers.Poll.ListVoted)
		polls.GET("/:id", handlers.Poll.Get)
		polls.PUT("/:id/close", handlers.Poll.Close)
		if limiter != nil {
			polls.POST("/:id/vote", middleware.VoteRateLimitMiddleware(limiter), handlers.Poll.Vote)
		} else {
			polls.POST("/:id/vote", handlers.Poll.Vote)
		}

		wallet := authed.Group("/wallet")
		wallet.GET("/balance", handlers.Wallet.Balance)
		wallet.GET("/history", handlers.Wallet.History)
		wallet.POST("/deposit", handlers.Wallet.Deposit)
		wallet.POST("/withdraw", handlers.Wallet.Withdraw)
		wallet.GET("/poll-fee/:maxVotes", handlers.Wallet.PollFee)
		wallet.GET("/can-afford/:maxVotes", handlers.Wallet.CanAfford)
	}

	if handlers.WS != nil {
		s.engine.GET("/ws", handlers.WS.Connect)
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down with a
// five second drain.
func (s *Server) Start() error {
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.Server.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
