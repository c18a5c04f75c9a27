package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/internal/metrics"
	"github.com/cltl/micro-portraits/internal/queue"
	mid "github.com/cltl/micro-portraits/internal/server/middleware"
	"github.com/cltl/micro-portraits/internal/storage"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/portrait"
	pgxstore "github.com/cltl/micro-portraits/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rabbitmq/amqp091-go"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// channelQueue enqueues on an AMQP channel. Channels are not safe for
// concurrent publishing, so every request opens its own.
type channelQueue struct {
	conn *amqp091.Connection
}

func (q channelQueue) Enqueue(queueName string, data []byte) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return queue.PublishFIFO(ch, queueName, data)
}

// New builds the echo instance serving app.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("256M"))

	RegisterRoutes(e, app)
	return e
}

// Init connects every backing service named in cfg and serves the API
// until SIGINT or SIGTERM.
func Init(cfg config.Config) {
	err := config.Require(map[string]string{
		"database.url":          cfg.Database.URL,
		"server.auth_url":       cfg.Server.AuthURL,
		"server.master_api_key": cfg.Server.MasterAPIKey,
	})
	if err != nil {
		logger.Fatal("[Server] Incomplete configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.Server.AuthURL + "/jwks"})
	if err != nil {
		logger.Fatal("[Server] Failed to load jwks keys", "err", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("[Server] Failed to connect to database", "err", err)
	}
	defer pool.Close()

	conn, err := queue.Dial(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("[Server] Failed to connect to queue", "err", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("[Server] Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.ExtractQueue}); err != nil {
		logger.Fatal("[Server] Failed to declare queues", "err", err)
	}
	ch.Close()

	s3Client, err := storage.NewS3Client(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("[Server] Failed to create S3 client", "err", err)
	}

	extractor, err := portrait.NewExtractorClient(portrait.NewExtractorClientParams{
		Surface:  cfg.Extraction.Surface,
		Language: cfg.Extraction.Language,
		NoCoref:  cfg.Extraction.NoCoref,
	})
	if err != nil {
		logger.Fatal("[Server] Failed to create extractor", "err", err)
	}

	e := New(&mid.App{
		Extractor:    extractor,
		Store:        pgxstore.NewPortraitDBStorageWithConnection(pool),
		Queue:        channelQueue{conn: conn},
		Files:        storage.NewBucket(s3Client, cfg.S3),
		Metrics:      metrics.New(),
		Keyfunc:      k.Keyfunc,
		MasterAPIKey: cfg.Server.MasterAPIKey,
	})
	e.Use(middleware.RequestLogger())

	go func() {
		logger.Info("[Server] Starting server", "port", cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("[Server] Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Server] Failed to shutdown server", "err", err)
	}
}
