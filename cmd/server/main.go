package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/divitngoc/order-handler/internal/adapter/cache"
	"github.com/divitngoc/order-handler/internal/adapter/in_memory"
	"github.com/divitngoc/order-handler/internal/adapter/pg"
	httpapi "github.com/divitngoc/order-handler/internal/api/http"
	"github.com/divitngoc/order-handler/internal/book"
	"github.com/divitngoc/order-handler/internal/config"
	"github.com/divitngoc/order-handler/internal/core"
	"github.com/divitngoc/order-handler/internal/domain"
	"github.com/divitngoc/order-handler/internal/locks"
	"github.com/divitngoc/order-handler/internal/logging"
	"github.com/divitngoc/order-handler/internal/metrics"
	"github.com/divitngoc/order-handler/internal/port"
	"github.com/divitngoc/order-handler/internal/report"
	"github.com/divitngoc/order-handler/internal/sim"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo port.Repository
	if cfg.Postgres.DSN != "" {
		pgRepo, err := pg.NewRepo(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pgRepo.Close()
		repo = pgRepo
	} else {
		repo = in_memory.NewRepo()
	}

	var bookCache port.Cache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		defer redisCache.Close()
		bookCache = redisCache
	} else {
		bookCache = in_memory.NewCache()
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	books := book.NewRegistry()
	lockReg := locks.NewRegistry()
	seq := core.NewSequence()

	matcher := core.NewMatcher(books, lockReg, repo, m, logger)
	dispatch := core.NewDispatch(matcher, cfg.Engine.Workers, cfg.Engine.QueueSize, logger)
	handler := core.NewHandler(books, lockReg, dispatch, repo, bookCache, m, logger)
	server := httpapi.NewServer(handler, seq, repo, reg)

	matcher.OnRemoved(func(o *domain.Order) {
		logger.Debug("order left the book", zap.Uint64("order_id", o.ID), zap.String("symbol", o.Symbol))
		server.Forget(o.ID)
	})

	dispatch.Start(ctx)
	defer dispatch.Stop()

	if cfg.Simulator.Enabled {
		for i := 0; i < cfg.Simulator.Producers; i++ {
			producer := sim.NewProducer(handler, seq, cfg.Simulator.Symbols, cfg.Simulator.Interval, logger)
			go producer.Run(ctx)
		}
	}
	if cfg.Report.Interval > 0 {
		symbols := cfg.Report.Symbols
		if len(symbols) == 0 {
			symbols = cfg.Simulator.Symbols
		}
		go report.NewReporter(handler, symbols, cfg.Report.Interval).Run(ctx)
	}

	logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
	if err := server.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
