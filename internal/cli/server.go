package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"proctor-quiz-service/internal/app"
	"proctor-quiz-service/internal/config"
	"proctor-quiz-service/internal/infra/file"
	"proctor-quiz-service/internal/infra/memory"
	pgstore "proctor-quiz-service/internal/infra/postgres"
	redisstore "proctor-quiz-service/internal/infra/redis"
	"proctor-quiz-service/internal/infra/sqlite"
	"proctor-quiz-service/internal/logger"
	"proctor-quiz-service/internal/notify"
	transport "proctor-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "5000"
	}

	bank, err := app.LoadQuestionBank(ctx, file.NewQuestionLoader(cfg.Quiz.QuestionsPath))
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Quiz.QuestionsPath).Msg("question bank unavailable")
		return err
	}
	log.Info().Int("questions", bank.Len()).Str("path", cfg.Quiz.QuestionsPath).Msg("question bank loaded")

	store, closeStore, err := openResultStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []app.Option{app.WithLogger(log)}
	if cfg.Notify.WebhookURL != "" {
		timeout := config.TTLDuration(cfg.Notify.Timeout, 5*time.Second)
		opts = append(opts, app.WithNotifier(notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.PassMark, timeout)))
		log.Info().Dur("timeout", timeout).Msg("webhook notifications enabled")
	}
	service := app.NewQuizService(bank, store, opts...)

	gin.SetMode(ginMode(cfg.Server.GinMode))
	router := transport.NewRouter(service, transport.Options{
		HideAnswers:    cfg.Quiz.HideAnswers,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("results", cfg.Results.Driver).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openResultStore picks the persistence backend named by results.driver.
// The returned close func is always safe to call.
func openResultStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (app.ResultStore, func(), error) {
	noop := func() {}
	switch cfg.Results.Driver {
	case "", config.DriverFile:
		log.Info().Str("path", cfg.Results.Path).Msg("using file result store")
		return file.NewResultStore(cfg.Results.Path), noop, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory result store; results are lost on restart")
		return memory.NewResultStore(), noop, nil

	case config.DriverRedis:
		if cfg.Redis.Addr == "" {
			return nil, noop, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return redisstore.NewResultStore(client, cfg.Redis.Key), func() { _ = client.Close() }, nil

	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		return pgstore.NewResultStore(pool), pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.NewResultStore(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown results driver %q", cfg.Results.Driver)
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	}
	return gin.ReleaseMode
}
