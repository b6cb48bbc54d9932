package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diagnostics-backend/internal/config"
	"diagnostics-backend/internal/handlers"
	"diagnostics-backend/internal/middleware"
	"diagnostics-backend/internal/notify"
	"diagnostics-backend/internal/payment"
	"diagnostics-backend/internal/routes"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/internal/store/memstore"
	"diagnostics-backend/internal/store/mongostore"
	"diagnostics-backend/internal/store/sqlstore"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout)
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store.Repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case config.DriverMySQL:
		return sqlstore.Open(cfg.MySQLDSN, logger)
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store, data will not survive a restart")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// newDispatcher enables each channel whose credentials are configured.
func newDispatcher(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*notify.Dispatcher, error) {
	opts := []notify.Option{notify.WithTimeout(cfg.NotifyTimeout)}

	if cfg.EmailEnabled() {
		sender, err := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFrom)
		if err != nil {
			return nil, err
		}
		opts = append(opts, notify.WithEmail(sender))
	} else {
		logger.Warn().Msg("EMAIL_USER/EMAIL_PASS not set, email notifications disabled")
	}

	if cfg.SMSEnabled() {
		opts = append(opts, notify.WithSMS(notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)))
	} else {
		logger.Warn().Msg("Twilio credentials not set, SMS notifications disabled")
	}

	if cfg.PushEnabled() {
		sender, err := notify.NewFCMSender(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, notify.WithPush(sender))
	} else {
		logger.Info().Msg("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
	}

	return notify.New(logger, opts...), nil
}

func newPaymentGateway(cfg *config.Config) payment.Gateway {
	if !cfg.PaymentsEnabled() {
		return nil
	}
	return payment.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransProduction)
}

func runServer() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repos, err := openStore(connectCtx, cfg, logger)
	if err != nil {
		return err
	}
	if err := repos.Backend.EnsureSchema(connectCtx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	dispatcher, err := newDispatcher(connectCtx, cfg, logger)
	if err != nil {
		return err
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(logger), middleware.Recovery(logger))

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	defer limiter.Stop()

	h := handlers.New(repos, dispatcher, newPaymentGateway(cfg), handlers.Options{
		TokenSecret:       cfg.JWTSecret,
		TokenTTL:          cfg.TokenTTL,
		ClinicName:        cfg.ClinicName,
		AdminEmail:        cfg.AdminEmail,
		RegistrationEmail: cfg.RegistrationEmail,
		AdminTopic:        cfg.FCMAdminTopic,
	}, logger)

	routes.SetupRoutes(r, h, routes.Options{
		CORSOrigin:  cfg.CORSOrigin,
		RequireAuth: cfg.RequireAuth,
		TokenSecret: cfg.JWTSecret,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("notifications still in flight at shutdown")
	}
	if err := repos.Backend.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("store close")
	}
	logger.Info().Msg("server stopped")
	return nil
}
