package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	httpapi "github.com/stocklane/stocklane/internal/http"
	"github.com/stocklane/stocklane/internal/provider"
	"github.com/stocklane/stocklane/internal/service"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/internal/store/drivers/sqlite"
	"github.com/stocklane/stocklane/pkg/cryptox"
	"github.com/stocklane/stocklane/pkg/jwtx"
	"github.com/stocklane/stocklane/pkg/mailx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer
	mailer mailx.Sender

	sessionService      *service.SessionService
	loginService        *service.LoginService
	registerService     *service.RegisterService
	verificationService *service.VerificationService
	resetService        *service.ResetService
	oauthService        *service.OAuthService
	userService         *service.UserService
	totpService         *service.TOTPService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "stocklane",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	signer, err := jwtx.NewSigner(cfg.AuthSecret, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMailer()
	app.initServices()

	if err := app.seedAdmin(); err != nil {
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// seedAdmin provisions the initial admin user when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured. A no-op once the user exists.
func (app *Application) seedAdmin() error {
	if app.cfg.AdminEmail == "" || app.cfg.AdminPassword == "" {
		return nil
	}

	_, err := app.userService.Create(context.Background(), service.CreateUserRequest{
		Name:     "Administrator",
		Email:    app.cfg.AdminEmail,
		Password: app.cfg.AdminPassword,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	app.logger.Info("seeded admin user", "email", app.cfg.AdminEmail)
	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("stocklane starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down stocklane...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("stocklane stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP not configured, emails will be logged instead")
		app.mailer = &mailx.LogSender{Logger: app.logger}
		return
	}

	mailer, err := mailx.NewMailer(mailx.Config{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})
	if err != nil {
		app.logger.Error("failed to initialize mailer, falling back to log sender", "error", err)
		app.mailer = &mailx.LogSender{Logger: app.logger}
		return
	}
	app.mailer = mailer
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:  app.db,
		Signer: app.signer,
	}

	app.verificationService = &service.VerificationService{
		Store:  app.db,
		Mailer: app.mailer,
	}

	app.loginService = &service.LoginService{
		Store:        app.db,
		Sessions:     app.sessionService,
		Verification: app.verificationService,
		Mailer:       app.mailer,
	}

	app.registerService = &service.RegisterService{
		Store:        app.db,
		Verification: app.verificationService,
	}

	app.resetService = &service.ResetService{
		Store:  app.db,
		Mailer: app.mailer,
	}

	verifiers := map[string]provider.Verifier{}
	if app.cfg.GoogleClientID != "" {
		verifiers[domain.ProviderGoogle] = &provider.GoogleVerifier{ClientID: app.cfg.GoogleClientID}
	}
	if app.cfg.GitHubEnabled {
		verifiers[domain.ProviderGitHub] = &provider.GitHubVerifier{}
	}
	app.oauthService = &service.OAuthService{
		Store:     app.db,
		Sessions:  app.sessionService,
		Login:     app.loginService,
		Verifiers: verifiers,
	}

	app.userService = &service.UserService{Store: app.db}
	app.totpService = &service.TOTPService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.SecureCookies,
		app.cfg.TrustProxy,
		app.cfg.Locales,
		app.cfg.DefaultLocale,
	)

	router.SessionService = app.sessionService
	router.LoginService = app.loginService
	router.RegisterService = app.registerService
	router.VerificationService = app.verificationService
	router.ResetService = app.resetService
	router.OAuthService = app.oauthService
	router.UserService = app.userService
	router.TOTPService = app.totpService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
