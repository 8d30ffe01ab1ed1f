package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go-payguard/cmd/payguard/config"
	"go-payguard/internal/payguard"
	"go-payguard/internal/payguard/data/database"
	"go-payguard/internal/payguard/data/dbrepository"
	"go-payguard/internal/payguard/orderstore"
	"go-payguard/internal/payguard/provision"
	"go-payguard/internal/payguard/recordsource"
	"go-payguard/internal/payguard/service"
	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/jwtfactory"
	"go-payguard/pkg/logging"
	"go-payguard/pkg/pgxstorage"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(zapcore.DebugLevel)
	if err != nil {
		log.Fatal(err)
	}

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB)
	storage, err := pgxstorage.New(dbFactory)
	if err != nil {
		log.Fatal(err)
	}
	repository := dbrepository.New(storage, logger)
	rotationStore := dbrepository.NewRotationStore(storage, cfg.Verification.SuffixMin)
	transactionManager := pgxstorage.NewTransactionsManager(storage)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)
	tokenFactory := jwtfactory.New(tokenAuth, cfg.JWTConfig.ExpirationTime)

	rotation := verification.NewRotation(rotationStore, cfg.Verification.SuffixMin, cfg.Verification.SuffixMax)
	source := recordsource.New(cfg.RecordSource, logger)
	notifier := orderstore.NewNotifier(cfg.OrderStore, logger)
	verifier := verification.NewVerifier(
		cfg.Verification,
		verification.NewGenerator(),
		rotation,
		source,
		notifier,
		logger,
	)
	registry := verification.NewRegistry()

	ordersService := service.NewOrders(
		transactionManager,
		repository,
		repository,
		decimal.NewFromFloat(cfg.PointsRatio),
		logger,
	)
	walletService := service.NewWallet(transactionManager, repository, logger)
	authorizationService := service.NewAuthorization(repository, transactionManager, tokenFactory)
	panelClient := provision.NewPanelClient(cfg.Panel, logger)
	renewalService := provision.NewRenewal(cfg.Renewal, transactionManager, walletService, panelClient, logger)

	server := payguard.NewServer(
		cfg.Server,
		tokenAuth,
		payguard.Services{
			Verifier:      verifier,
			Registry:      registry,
			Orders:        ordersService,
			Wallet:        walletService,
			Renewal:       renewalService,
			Authorization: authorizationService,
		},
		logger,
	)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(rootCtx context.Context, cfg *config.Config, server *payguard.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
