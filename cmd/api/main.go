package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/logger"
	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/commands"
	"school-attendance/backend/internal/middleware"
	"school-attendance/backend/internal/pkg/clock"
	"school-attendance/backend/internal/pkg/config"
	"school-attendance/backend/internal/pkg/repository/postgresql"
	"school-attendance/backend/internal/repository/postgres/user"
	"school-attendance/backend/internal/repository/redis/session"
	"school-attendance/backend/internal/router"
)

const namespace = "ATTENDANCE"

type settings struct {
	Args conf.Args
	Web  struct {
		APIHost         string        `conf:"default:0.0.0.0:8080"`
		ReadTimeout     time.Duration `conf:"default:15s"`
		WriteTimeout    time.Duration `conf:"default:15s"`
		IdleTimeout     time.Duration `conf:"default:60s"`
		ShutdownTimeout time.Duration `conf:"default:10s"`
	}
	Config struct {
		Path string `conf:"default:config.yaml"`
	}
	Admin struct {
		Name string `conf:"default:Administrator"`
	}
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, commands.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg settings

	if err := conf.Parse(os.Args[1:], namespace, &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage(namespace, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating usage")
			}
			fmt.Println(usage)
			fmt.Println("commands: serve | migrate | seed-admin <email> <password>")
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing settings")
	}

	file, err := config.NewConfig(cfg.Config.Path)
	if err != nil {
		return err
	}

	log, err := logger.New("attendance-api", file.LogLevel, file.Debug)
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := postgresql.New(ctx, postgresql.Config{
		User:       file.DBUsername,
		Password:   file.DBPassword,
		Host:       file.DBHost,
		Port:       file.DBPort,
		Name:       file.DBName,
		DisableTLS: file.DisableTLS,
		Debug:      file.Debug,
	})
	if err != nil {
		return errors.Wrap(err, "connecting to postgres")
	}
	defer db.Close()

	switch cmd := cfg.Args.Num(0); cmd {
	case "migrate":
		return commands.MigrateUP(ctx, db, log)
	case "seed-admin":
		email, password := cfg.Args.Num(1), cfg.Args.Num(2)
		if email == "" || password == "" {
			return errors.New("usage: seed-admin <email> <password>")
		}
		return commands.SeedAdmin(ctx, user.NewRepository(db), log, cfg.Admin.Name, email, password)
	case "", "serve":
		return serve(ctx, cfg, file, db, log)
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

func serve(ctx context.Context, cfg settings, file *config.Config, db *postgresql.Database, log *zap.Logger) error {
	if err := commands.MigrateUP(ctx, db, log); err != nil {
		return err
	}

	rdb, err := session.Connect(ctx, file.RedisAddr, file.RedisPassword, file.RedisDB)
	if err != nil {
		return errors.Wrap(err, "connecting to redis")
	}
	defer rdb.Close()

	a, err := auth.New(file.JWTKey, file.AccessTTL, file.RefreshTTL, session.NewRepository(rdb))
	if err != nil {
		return errors.Wrap(err, "constructing auth")
	}

	clk, err := clock.New(file.Timezone)
	if err != nil {
		return err
	}

	app := web.NewApp(log, middleware.RequestID(), middleware.Logger(log))
	router.NewRouter(app, db, rdb, a, clk, log, file.AllowedOrigins).Init()

	srv := &http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      app,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		log.Info("shutdown started", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(ctx, cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
			return errors.Wrap(err, "stopping server gracefully")
		}

		log.Info("shutdown complete")
	}

	return nil
}
