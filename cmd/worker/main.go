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

	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/internal/metrics"
	"github.com/cltl/micro-portraits/internal/queue"
	"github.com/cltl/micro-portraits/internal/storage"
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/leaselock"
	s3loader "github.com/cltl/micro-portraits/pkg/loader/s3"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/logger/console"
	"github.com/cltl/micro-portraits/pkg/portrait"
	pgxstore "github.com/cltl/micro-portraits/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	util.LoadEnv()

	cfg, err := config.Load("")
	if err != nil {
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{}))
		logger.Error("[Worker] Invalid configuration", "err", err)
		os.Exit(1)
	}
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  cfg.Log.Debug,
		Prefix: "worker",
	}))
	defer logger.Close()

	if err := config.Require(map[string]string{"database.url": cfg.Database.URL}); err != nil {
		logger.Fatal("[Worker] Incomplete configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s3Client, err := storage.NewS3Client(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("[Worker] Failed to create S3 client", "err", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("[Worker] Unable to connect to database", "err", err)
	}
	defer pool.Close()

	extractor, err := portrait.NewExtractorClient(portrait.NewExtractorClientParams{
		Surface:  cfg.Extraction.Surface,
		Language: cfg.Extraction.Language,
		NoCoref:  cfg.Extraction.NoCoref,
	})
	if err != nil {
		logger.Fatal("[Worker] Failed to create extractor", "err", err)
	}

	conn, err := queue.Dial(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("[Worker] Failed to connect to queue", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("[Worker] Failed to open channel", "err", err)
	}
	defer ch.Close()
	if err := queue.SetupQueues(ch, []string{queue.ExtractQueue}); err != nil {
		logger.Fatal("[Worker] Failed to declare queues", "err", err)
	}

	hostname, _ := os.Hostname()
	m := metrics.New()
	proc := &queue.Processor{
		Name:      hostname,
		Loader:    s3loader.NewS3DocumentLoaderWithClient(cfg.S3.Bucket, s3Client),
		Extractor: extractor,
		Store:     pgxstore.NewPortraitDBStorageWithConnection(pool),
		Locks:     leaselock.New(pool),
		Events:    queue.ChannelPublisher{Ch: ch},
		Metrics:   m,
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Server.MetricsPort,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("[Worker] Serving metrics", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[Worker] Metrics server stopped", "err", err)
		}
	}()

	// A separate channel with prefetch=1 so only one document is
	// extracted at a time per worker.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("[Worker] Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()
	if err := consumerCh.Qos(1, 0, false); err != nil {
		logger.Fatal("[Worker] Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.ExtractQueue,
		fmt.Sprintf("%s_consumer", queue.ExtractQueue),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("[Worker] Failed to start consuming", "queue", queue.ExtractQueue, "err", err)
	}

	logger.Info("[Worker] Listening for messages", "queue", queue.ExtractQueue)
	proc.Run(ctx, consumerCh, msgs, queue.ExtractQueue)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Worker] Failed to stop metrics server", "err", err)
	}
	logger.Info("[Worker] Shutdown signal received, exiting...")
}
