package payguard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-payguard/internal/payguard/handlers"
	"go-payguard/internal/payguard/middleware"
	"go-payguard/internal/payguard/verification"
	"go-payguard/pkg/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

type Services struct {
	Verifier      handlers.SessionStarter
	Registry      *verification.Registry
	Orders        handlers.OrdersService
	Wallet        handlers.WalletService
	Renewal       handlers.RenewalService
	Authorization handlers.AuthService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: createMux(tokenAuth, services, logger),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *chi.Mux {
	sessionStartHandler := handlers.NewSessionStartHandler(services.Verifier, services.Registry, logger)
	sessionStatusHandler := handlers.NewSessionStatusHandler(services.Registry, logger)
	sessionCancelHandler := handlers.NewSessionCancelHandler(services.Registry, logger)
	paymentSuccessHandler := handlers.NewPaymentSuccessHandler(services.Orders, logger)
	paymentFailedHandler := handlers.NewPaymentFailedHandler(services.Orders, logger)
	orderCheckHandler := handlers.NewOrderCheckHandler(services.Orders, logger)
	ordersListingHandler := handlers.NewOrdersListingHandler(services.Orders, logger)
	pointsGettingHandler := handlers.NewPointsGettingHandler(services.Wallet, logger)
	pointsAddHandler := handlers.NewPointsAddHandler(services.Wallet, logger)
	pointsDeductHandler := handlers.NewPointsDeductHandler(services.Wallet, logger)
	renewHandler := handlers.NewRenewRequesterHandler(services.Renewal, logger)
	registerHandler := handlers.NewRegisterHandler(services.Authorization, logger)
	authorizationHandler := handlers.NewAuthorizationHandler(services.Authorization, logger)

	loggerContext := middleware.NewLoggerContext()
	panicRecovery := middleware.NewPanicRecovery(logger)

	router := chi.NewRouter()
	router.Use(loggerContext.CreateHandler)
	router.Use(panicRecovery.CreateHandler)

	router.Route("/api", func(router chi.Router) {
		router.Post("/users/register", registerHandler.ServeHTTP)
		router.Post("/users/login", authorizationHandler.ServeHTTP)

		router.Route("/payment/session", func(router chi.Router) {
			router.Post("/", sessionStartHandler.ServeHTTP)
			router.Get("/{orderID}", sessionStatusHandler.ServeHTTP)
			router.Delete("/{orderID}", sessionCancelHandler.ServeHTTP)
		})

		router.Get("/payment_success", paymentSuccessHandler.ServeHTTP)
		router.Get("/payment_failed", paymentFailedHandler.ServeHTTP)
		router.Get("/check_order", orderCheckHandler.ServeHTTP)
		router.Get("/list_orders", ordersListingHandler.ServeHTTP)

		router.Group(func(router chi.Router) {
			router.Use(jwtauth.Verifier(tokenAuth))
			router.Use(jwtauth.Authenticator(tokenAuth))

			router.Get("/user/points", pointsGettingHandler.ServeHTTP)
			router.Post("/points/add", pointsAddHandler.ServeHTTP)
			router.Post("/points/deduct", pointsDeductHandler.ServeHTTP)
			router.Post("/instance/renew", renewHandler.ServeHTTP)
		})
	})

	return router
}
