package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/olyamironova/exchange-engine/internal/adapter/cache"
	"github.com/olyamironova/exchange-engine/internal/adapter/pg"
	"github.com/olyamironova/exchange-engine/internal/api/dto"
	grpcapi "github.com/olyamironova/exchange-engine/internal/api/grpc"
	httpapi "github.com/olyamironova/exchange-engine/internal/api/http"
	"github.com/olyamironova/exchange-engine/internal/api/metrics"
	"github.com/olyamironova/exchange-engine/internal/api/ws"
	"github.com/olyamironova/exchange-engine/internal/config"
	"github.com/olyamironova/exchange-engine/internal/core"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	dto.TickScale = cfg.TickScale

	ctx := context.Background()
	repo, err := pg.NewPgRepo(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect to Postgres", zap.Error(err))
	}
	defer repo.Close(ctx)

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)

	met := metrics.New("exchange")
	engine := core.NewEngine(repo, redisCache, log).WithMetrics(met)

	wsServer := ws.NewServer(engine, log)
	engine.WithBroadcaster(wsServer)

	symbols, err := repo.ListSymbols(ctx)
	if err != nil {
		log.Warn("failed to list symbols for startup recovery", zap.Error(err))
	} else if err := engine.LoadOpenOrdersFromRepo(ctx, symbols); err != nil {
		log.Warn("failed to restore open orders", zap.Error(err))
	}

	go func() {
		log.Info("starting websocket server", zap.String("addr", cfg.WSAddr))
		if err := wsServer.Run(cfg.WSAddr); err != nil {
			log.Error("websocket server stopped", zap.Error(err))
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", met.Handler())
		log.Info("starting metrics server", zap.String("addr", cfg.MetricsAddr))
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	grpcServer := grpcapi.NewGRPCServer(engine)
	go func() {
		log.Info("starting gRPC server", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Run(cfg.GRPCAddr); err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	httpServer := httpapi.NewHTTPServer(engine)
	httpServer.RateLimitWindow = cfg.RateLimitWindow
	log.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
	if err := httpServer.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
