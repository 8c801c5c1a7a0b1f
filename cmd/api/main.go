package main

import (
	"context"
	"log"

	"pollpay/internal/config"
	"pollpay/internal/events"
	"pollpay/internal/handler"
	pollredis "pollpay/internal/redis"
	"pollpay/internal/repository"
	"pollpay/internal/server"
	"pollpay/internal/services"
	"pollpay/internal/websocket"
	"pollpay/pkg/database"
	"pollpay/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.Server.Environment)
	logger.SetGlobalLogger(l)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := pollredis.NewClient(cfg.Redis)
	if err := pollredis.Ping(redisClient); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	users := repository.NewUserRepository(db)
	polls := repository.NewPollRepository(db)
	votes := repository.NewVoteRepository(db)
	ledger := repository.NewWalletTransactionRepository(db)

	hooks := events.NewPublisher(redisClient, l)
	walletService := services.NewWalletService(db, users, polls, votes, ledger, l)
	pollService := services.NewPollService(polls, votes, users, walletService, hooks, l)
	voteService := services.NewVoteService(db, polls, votes, users, walletService, hooks, l)
	authService := services.NewAuthService(users, cfg.Auth)

	hub := websocket.NewHub()
	bridge := websocket.NewRedisBridge(pollredis.NewSubscriber(redisClient), hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	go func() {
		channels := []string{
			events.ChannelPrefixPoll + "*",
			events.ChannelPrefixUser + "*",
		}
		if err := bridge.Run(ctx, channels); err != nil && ctx.Err() == nil {
			l.Errorf("websocket redis bridge stopped: %v", err)
		}
	}()

	maxDeposit, err := decimal.NewFromString(cfg.Wallet.MaxDepositAmount)
	if err != nil {
		log.Fatalf("Invalid WALLET_MAX_DEPOSIT: %v", err)
	}
	minWithdrawal, err := decimal.NewFromString(cfg.Wallet.MinWithdrawalAmount)
	if err != nil {
		log.Fatalf("Invalid WALLET_MIN_WITHDRAWAL: %v", err)
	}

	limiter := pollredis.NewRateLimiter(redisClient, pollredis.DefaultRateLimitConfig())

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Poll:   handler.NewPollHandler(pollService, voteService),
		Wallet: handler.NewWalletHandler(walletService, maxDeposit, minWithdrawal),
		WS:     websocket.NewHandler(authService, hub),
	}, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
}
