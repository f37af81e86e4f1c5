package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ashes-live/internal/common/pagination"
	"ashes-live/internal/config"
	pgRepo "ashes-live/internal/infra/adapter/persistence/postgres"
	"ashes-live/internal/infra/db"
	"ashes-live/internal/observability/logging"
	"ashes-live/internal/observability/tracing"
	"ashes-live/internal/resilience/circuitbreaker"
	pkgconfig "ashes-live/pkg/config"

	cardUC "ashes-live/internal/usecase/card"
	relUC "ashes-live/internal/usecase/release"

	hhttp "ashes-live/internal/handler/http"
	hauth "ashes-live/internal/handler/http/auth"
	hcard "ashes-live/internal/handler/http/card"
	"ashes-live/internal/handler/http/middleware"
	hrelease "ashes-live/internal/handler/http/release"
	"ashes-live/internal/handler/http/requestid"
	authservice "ashes-live/internal/service/auth"
)

const maxRequestBody = 1 << 20

// @title           Ashes Live API
// @version         1.0
// @description     Card database, release collections and account tokens for Ashes Reborn.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token in the form "Bearer {token}".

func main() {
	configPath := flag.String("config", pkgconfig.GetEnvString("SECURITY_CONFIG", "configs/security.yaml"), "path to the security config file")
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	securityCfg := loadSecurityConfig(logger, *configPath)
	secret := validateJWTSecret(logger, securityCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	shutdownTracing := tracing.Init("ashes-live-api")
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	version := pkgconfig.GetEnvString("VERSION", "dev")
	components := setupServer(ctx, logger, database, securityCfg, secret, version)
	runServer(ctx, cancel, logger, components, version)
}

// loadSecurityConfig reads the YAML security config, falling back to the
// built-in defaults when the file does not exist.
func loadSecurityConfig(logger *slog.Logger, path string) *config.SecurityConfig {
	cfg, err := config.LoadSecurityConfig(path)
	if err == nil {
		logger.Info("security config loaded", slog.String("path", path))
		return cfg
	}
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("security config not found, using defaults", slog.String("path", path))
		return config.DefaultSecurityConfig()
	}
	logger.Error("failed to load security config", slog.String("path", path), slog.Any("error", err))
	os.Exit(1)
	return nil
}

// validateJWTSecret reads the token signing secret named by the security
// config and exits when it is missing or weak.
func validateJWTSecret(logger *slog.Logger, cfg *config.SecurityConfig) []byte {
	secret := os.Getenv(cfg.GetJWTSecretEnv())
	if err := hauth.ValidateSecret(secret); err != nil {
		logger.Error("invalid token signing secret",
			slog.String("env", cfg.GetJWTSecretEnv()),
			slog.Any("error", err))
		os.Exit(1)
	}
	return []byte(secret)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler      http.Handler
	TokenLimiter *middleware.RateLimiter
}

// setupServer builds the services, registers every route and wraps the mux
// in the middleware chain.
func setupServer(ctx context.Context, logger *slog.Logger, database *sql.DB, securityCfg *config.SecurityConfig, secret []byte, version string) *ServerComponents {
	breaker := circuitbreaker.NewDBCircuitBreaker(database)

	releaseRepo := pgRepo.NewReleaseRepo(breaker)
	releaseSvc := &relUC.Service{Repo: releaseRepo}
	cardSvc := &cardUC.Service{Repo: pgRepo.NewCardRepo(breaker), Releases: releaseRepo}
	authSvc := authservice.NewAuthService(pgRepo.NewUserRepo(breaker), authservice.CredentialRequirements{
		MinPasswordLength: securityCfg.GetMinPasswordLength(),
		WeakPasswords:     securityCfg.GetWeakPasswords(),
	})
	bootstrapAdmin(ctx, logger, authSvc)

	issuer := hauth.NewTokenIssuer(secret, securityCfg.GetJWTExpiry())
	authn := hauth.Middleware{Issuer: issuer, Users: authSvc}

	ipExtractor, err := middleware.NewIPExtractorFromEnv()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	rps, burst := securityCfg.GetTokenRateLimit()
	tokenLimiter := middleware.NewRateLimiter("auth_token", rps, burst, ipExtractor)
	logger.Info("token endpoint rate limit",
		slog.Float64("requests_per_second", rps),
		slog.Int("burst", burst))

	mux := http.NewServeMux()
	mux.Handle("POST   /auth/token", tokenLimiter.Middleware(hauth.TokenHandler(authSvc, issuer)))
	mux.Handle("GET    /health", &hhttp.HealthHandler{DB: database, Breaker: breaker, Version: version})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	hcard.Register(mux, cardSvc, authn, pagination.LoadFromEnv(), logger)
	hrelease.Register(mux, releaseSvc, authn)

	return &ServerComponents{
		Handler:      applyMiddleware(logger, mux),
		TokenLimiter: tokenLimiter,
	}
}

// bootstrapAdmin creates the admin account named by ADMIN_EMAIL and
// ADMIN_PASSWORD when both are set and the account does not exist yet.
func bootstrapAdmin(ctx context.Context, logger *slog.Logger, svc *authservice.AuthService) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	_, err := svc.Register(ctx, email, password, true)
	switch {
	case err == nil:
		logger.Info("admin account created", slog.String("email", email))
	case errors.Is(err, authservice.ErrEmailTaken):
		logger.Debug("admin account already exists", slog.String("email", email))
	default:
		logger.Error("failed to create admin account", slog.Any("error", err))
		os.Exit(1)
	}
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: Request ID → Tracing → Logging → Recovery →
// Metrics → Security Headers → CORS → Body Limit → Timeout.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	timeout := pkgconfig.GetEnvDuration("HTTP_HANDLER_TIMEOUT", 30*time.Second)

	return hhttp.Chain(
		http.TimeoutHandler(handler, timeout, `{"error":"request timed out"}`),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		middleware.SecurityHeaders(middleware.LoadSecurityHeadersConfig()),
		middleware.CORS(corsConfig),
		hhttp.LimitRequestBody(maxRequestBody),
	)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, components *ServerComponents, version string) {
	cleanupCfg := hhttp.LoadCleanupConfigFromEnv()
	go hhttp.StartRateLimitCleanup(ctx, components.TokenLimiter, cleanupCfg, "auth_token")
	logger.Info("token rate limit cleanup started",
		slog.Duration("interval", cleanupCfg.Interval),
		slog.Duration("idle", cleanupCfg.Idle))

	addr := pkgconfig.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
