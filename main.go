package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelydev/apiGrants/config"
	"github.com/kelydev/apiGrants/controllers"
	"github.com/kelydev/apiGrants/database"
	"github.com/kelydev/apiGrants/jobs"
	"github.com/kelydev/apiGrants/logger"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/routes"
	"github.com/kelydev/apiGrants/session"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const tokenIssuer = "apiGrants"

func main() {
	// Load .env before reading configuration.
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()
	logger.Log = zl

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg.DB, zl)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		zl.Info("database schema applied")
	}

	profiles := repository.ProfileStore{DB: db}
	var (
		auth   session.Authenticator
		issuer controllers.TokenIssuer
	)
	switch cfg.Auth.Mode {
	case "remote":
		auth = session.NewRemoteAuthenticator(cfg.Auth.URL, cfg.Auth.APIKey, nil, profiles)
	default:
		jwtAuth := session.NewJWTAuthenticator(cfg.Auth.JWTSecret, tokenIssuer, profiles)
		auth, issuer = jwtAuth, jwtAuth
	}
	zl.Info("session lookups configured", zap.String("mode", cfg.Auth.Mode))

	sessions := session.NewManager(cfg.Auth.SessionSecret, cfg.Auth.SecureCookie, cfg.Auth.TokenTTL)
	guard := session.NewGuard(auth, sessions.RequestToken,
		session.WithSignInPath(cfg.Guard.SignInPath),
		session.WithLoadingTimeout(cfg.Guard.LoadingTimeout),
		session.WithLookupTimeout(cfg.Guard.LookupTimeout),
		session.WithLogger(zl.Named("guard")),
	)

	r := routes.SetupRoutes(routes.Deps{
		DB:        db,
		Guard:     guard,
		Auth:      auth,
		Issuer:    issuer,
		Sessions:  sessions,
		TokenTTL:  cfg.Auth.TokenTTL,
		UploadDir: cfg.Server.UploadDir,
		Logger:    zl,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go jobs.NewReconciler(db, zl.Named("reconciler")).
		WithInterval(cfg.Jobs.ReconcileInterval).
		Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
