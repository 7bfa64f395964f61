package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	apix "github.com/jakkaphatm/chatcart/api"

	catalogx "github.com/jakkaphatm/chatcart/agent/catalog"
	conductorx "github.com/jakkaphatm/chatcart/agent/conductor"
	contractx "github.com/jakkaphatm/chatcart/agent/contract"
	metricsx "github.com/jakkaphatm/chatcart/agent/metrics"
	orchestratorx "github.com/jakkaphatm/chatcart/agent/orchestrator"
	plannerx "github.com/jakkaphatm/chatcart/agent/planner"
	sessionx "github.com/jakkaphatm/chatcart/agent/session"
	toolx "github.com/jakkaphatm/chatcart/agent/tool"
	configx "github.com/jakkaphatm/chatcart/pkg/config"
	_ "github.com/jakkaphatm/chatcart/pkg/logger/autoload"
	openrouterx "github.com/jakkaphatm/chatcart/pkg/openrouter"
)

type AppConfig struct {
	Addr             string `envconfig:"ADDR" default:":8080"`
	DemoMode         bool   `envconfig:"DEMO_MODE" split_words:"true" default:"false"`
	DatabaseDSN      string `envconfig:"DATABASE_DSN" split_words:"true"`
	MetricsRedisAddr string `envconfig:"METRICS_REDIS_ADDR" split_words:"true"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	var (
		store        sessionx.Store
		metricsStore metricsx.Store
		repo         catalogx.Repository
		thePlanner   contractx.Planner
	)

	if appCfg.DemoMode {
		log.Info().Msg("demo mode: in-memory stores, rule-based planner, seeded catalog")
		store = sessionx.NewMemoryStore()
		metricsStore = metricsx.NewMemoryStore()
		repo = catalogx.NewMemoryRepository(catalogx.DemoProducts(), catalogx.DemoOrders(time.Now()))
		thePlanner = plannerx.NewRuleOnly()
	} else {
		sessionCfg := configx.MustNew[sessionx.UpstashRedisConfig]("SESSION_REDIS")
		upstash, err := sessionx.NewUpstashRedisStore(*sessionCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("session store init failed")
		}
		store = upstash

		if appCfg.MetricsRedisAddr == "" {
			log.Fatal().Msg("METRICS_REDIS_ADDR is required outside demo mode")
		}
		redisClient := redis.NewClient(&redis.Options{Addr: appCfg.MetricsRedisAddr})
		redisMetrics, err := metricsx.NewRedisStore(redisClient)
		if err != nil {
			log.Fatal().Err(err).Msg("metrics store init failed")
		}
		metricsStore = redisMetrics

		if appCfg.DatabaseDSN == "" {
			log.Fatal().Msg("DATABASE_DSN is required outside demo mode")
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(appCfg.DatabaseDSN)))
		db := bun.NewDB(sqldb, pgdialect.New())
		bunRepo, err := catalogx.NewBunRepository(db)
		if err != nil {
			log.Fatal().Err(err).Msg("catalog repository init failed")
		}
		repo = bunRepo

		openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
		client := openrouterx.NewClient(*openRouterCfg)
		if client == nil {
			log.Fatal().Msg("openrouter client init failed, check OPENROUTER_API_KEY")
		}
		modelPlanner, err := plannerx.New(client, *openRouterCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("planner init failed")
		}
		thePlanner = modelPlanner
	}

	registry := toolx.NewRegistry()
	tools := map[string]func() error{
		toolx.NameRecommend: func() error {
			return registry.Register(toolx.NameRecommend, toolx.NewRecommend(repo))
		},
		toolx.NameCheckStock: func() error {
			return registry.Register(toolx.NameCheckStock, toolx.NewCheckStock(repo))
		},
		toolx.NameAuthorizePayment: func() error {
			return registry.Register(toolx.NameAuthorizePayment, toolx.NewAuthorizePayment(repo))
		},
	}
	for name, register := range tools {
		if err := register(); err != nil {
			log.Fatal().Err(err).Str("tool", name).Msg("tool registration failed")
		}
	}

	executor, err := orchestratorx.New(registry, metricsStore)
	if err != nil {
		log.Fatal().Err(err).Msg("orchestrator init failed")
	}

	cond, err := conductorx.New(store, thePlanner, executor)
	if err != nil {
		log.Fatal().Err(err).Msg("conductor init failed")
	}

	handler, err := apix.NewHandler(cond, registry, metricsStore)
	if err != nil {
		log.Fatal().Err(err).Msg("api handler init failed")
	}

	srv := &http.Server{
		Addr:         appCfg.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", appCfg.Addr).Strs("tools", registry.Names()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown incomplete")
	}
}
