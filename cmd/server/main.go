package main

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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/internship-portal/internal/config"
	"github.com/iliyamo/internship-portal/internal/database"
	"github.com/iliyamo/internship-portal/internal/handler"
	"github.com/iliyamo/internship-portal/internal/logging"
	"github.com/iliyamo/internship-portal/internal/metrics"
	"github.com/iliyamo/internship-portal/internal/middleware"
	"github.com/iliyamo/internship-portal/internal/queue"
	"github.com/iliyamo/internship-portal/internal/repository"
	"github.com/iliyamo/internship-portal/internal/router"
	"github.com/iliyamo/internship-portal/internal/service"
	"github.com/iliyamo/internship-portal/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	policy, err := handler.PolicyByName(cfg.ErrorPolicy)
	if err != nil {
		return err
	}
	jm, err := utils.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	version, err := database.Migrate(db)
	if err != nil {
		return err
	}
	logger.Info("schema ready", "version", version)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	var rdb *redis.Client
	if cfg.DenylistEnabled || cfg.Cache.Enabled {
		rdb, err = config.NewRedisClient(ctx, cfg.Redis)
		switch {
		case err != nil && cfg.DenylistEnabled:
			return fmt.Errorf("token denylist needs redis: %w", err)
		case err != nil:
			logger.Warn("redis unavailable, response cache disabled", "err", err)
		default:
			defer rdb.Close()
		}
	}

	var (
		verifier utils.Verifier = jm
		denylist utils.Denylist
	)
	if cfg.DenylistEnabled {
		tokens := repository.NewTokenRepo(rdb, cfg.DenylistPrefix)
		verifier, denylist = utils.NewDenylistVerifier(jm, tokens), tokens
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
		consumer := queue.NewConsumer(cfg.AMQPURL, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event consumer stopped", "err", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	recruiters := repository.NewRecruiterRepo(db)
	companies := repository.NewCompanyRepo(db)
	internshipRepo := repository.NewInternshipRepo(db)

	hasher := utils.NewBcryptHasher(cfg.BcryptCost)
	dir := service.NewDirectory(users, students, recruiters, companies, hasher, logger)
	auth := service.NewAuth(service.AuthDeps{
		Directory:  dir,
		Hasher:     hasher,
		Issuer:     jm,
		Verifier:   verifier,
		Denylist:   denylist,
		AdminToken: cfg.AdminToken,
		Events:     events,
		Metrics:    rec,
		Logger:     logger,
	})
	internships := service.NewInternships(internshipRepo, events, rec, logger)
	profiles := service.NewProfiles(students, recruiters, companies, events, rec, logger)
	dashboards := service.NewDashboards(users, companies, internshipRepo)

	if n, err := dir.RepairProfiles(ctx); n > 0 || err != nil {
		logger.Warn("repaired interrupted registrations", "repaired", n, "err", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(policy, logger)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e, handler.Health(db, logger), metrics.Handler(reg))
	api := router.API(e, middleware.Authenticate(verifier, dir, rec, logger))
	router.RegisterAuth(api, handler.NewAuthHandler(auth))
	router.RegisterUser(api, handler.NewUserHandler(dir))
	router.RegisterStudent(api, handler.NewStudentHandler(profiles, internships))
	router.RegisterRecruiter(api, handler.NewRecruiterHandler(profiles, internships, dashboards))
	router.RegisterAdmin(api, handler.NewAdminHandler(profiles, dashboards, dir))
	router.RegisterInternship(api, handler.NewInternshipHandler(internships), middleware.NewRedisCache(cfg.Cache, rdb, logger))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
