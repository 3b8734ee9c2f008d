package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/version"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/FredHutch/slurm-node-dashboard/internal/app/docs"
	"github.com/FredHutch/slurm-node-dashboard/internal/app/router"
	docsmodule "github.com/FredHutch/slurm-node-dashboard/internal/module/docs"
	"github.com/FredHutch/slurm-node-dashboard/internal/module/power"
	"github.com/FredHutch/slurm-node-dashboard/internal/module/slurm"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/cache"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/embedding"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/postgres"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/prometheus"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/log"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/options"
)

// @title           slurm-node-dashboard
// @version         0.1.0
// @description     Slurm node dashboard backend
// @schema			http
// @BasePath        /
func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Slurm node dashboard backend server.")
	app.HelpFlag.Short('h')
	opts := options.Bind(app)
	// Cross-flag validation
	app.PreAction(func(*kingpin.ParseContext) error {
		if err := opts.Validate(); err != nil {
			return err
		}
		for _, s := range opts.Cluster.Rules {
			if _, err := slurm.ParseRule(s); err != nil {
				return err
			}
		}
		return nil
	})
	app.Version(version.Print("slurm-node-dashboard"))

	if _, err := app.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("failed to parse commandline arguments: %w", err))
		app.Usage(os.Args[1:])
		os.Exit(2)
	}

	// 创建 Logger
	logger, logClose, err := log.NewLogger(opts.Log.Output, opts.Log.Format, opts.Log.File, opts.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to create logger: %v\n", err)
		os.Exit(1)
	}
	var closers cleanup
	closers.add(logClose)
	defer closers.run()
	// os.Exit 不会执行 defer, 退出前手动关闭数据库与日志文件
	fail := func() {
		closers.run()
		os.Exit(1)
	}
	logger.Info("starting slurm-node-dashboard", "version", version.Info(), "build", version.BuildContext())

	// 上游客户端
	slurmrestClient := slurmrest.New(http.DefaultClient, slurmrest.Config{
		Protocol:   opts.Slurm.Protocol,
		Server:     opts.Slurm.Server,
		Port:       opts.Slurm.Port,
		APIVersion: opts.Slurm.APIVersion,
		Account:    opts.Slurm.Account,
		Token:      opts.Slurm.Token,
	}, opts.Slurm.Timeout, logger)

	// 未配置 Prometheus 时保持接口值为 nil, 功率接口返回 404 状态
	var promQuerier power.RangeQuerier
	if opts.Prometheus.URL != "" {
		promClient, err := prometheus.New(opts.Prometheus.URL, nil, opts.Prometheus.Timeout, logger)
		if err != nil {
			logger.Error("unable to create prometheus client", "err", err, "url", opts.Prometheus.URL)
			fail()
		}
		promQuerier = promClient
	} else {
		logger.Warn("PROMETHEUS_URL not configured, power endpoints will report no data")
	}

	rules := make([]slurm.ClusterRule, 0, len(opts.Cluster.Rules))
	for _, s := range opts.Cluster.Rules {
		r, _ := slurm.ParseRule(s)
		rules = append(rules, r)
	}

	// 创建各模块路由
	nodeCache := cache.New(slurmrestClient, opts.Cache.NodeTTL, logger, cache.WithSingleFlight(opts.Cache.SingleFlight))
	slurmRouter := slurm.NewRouter(
		slurm.NewNodeAggregator(nodeCache),
		slurm.NewClusterAggregator(slurmrestClient, rules, logger),
		slurm.NewPassthrough(slurmrestClient, opts.Cache.PassthroughTTL),
		logger,
	)
	powerRouter := power.NewRouter(power.New(promQuerier, nodeCache, power.Config{
		Window:    opts.Power.Window,
		Step:      opts.Power.Step,
		MaxPoints: opts.Power.MaxPoints,
	}, logger), logger)
	router.Register(
		slurmRouter,
		powerRouter,
	)

	// 文档检索为可选功能, 未配置或连接失败时接口返回 503
	var (
		retriever *docsmodule.Retriever
		checks    []router.HealthCheck
	)
	if opts.Postgres.DSN != "" {
		dbctx, dbcancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, err := postgres.New(dbctx, opts.Postgres.DSN,
			postgres.WithMaxConns(opts.Postgres.MaxConns),
			postgres.WithMaxConnIdleTime(5*time.Minute),
			postgres.WithApplicationName("slurm-node-dashboard"),
			postgres.WithStatementTimeout(10*time.Second),
		)
		dbcancel()
		if err != nil {
			logger.Error("unable to connect to postgres, document search disabled", "err", err)
		} else {
			closers.add(db.Close)
			embedder, err := embedding.New(http.DefaultClient, opts.Embedding.BaseURL, opts.Embedding.APIKey, opts.Embedding.Model, opts.Embedding.Timeout, logger)
			if err != nil {
				logger.Error("unable to create embedding client", "err", err)
				fail()
			}
			retriever = docsmodule.NewRetriever(embedder, db, opts.Embedding.Threshold, opts.Embedding.Limit, logger)
			checks = append(checks, db.Ping)
		}
	}
	router.Register(docsmodule.NewRouter(retriever, logger))

	// Build router
	r := router.New(logger, checks...)
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.Mount(r)

	srv := &http.Server{
		Addr:              opts.Server.ListenAddr,
		Handler:           router.WithCORS(r, opts.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in background
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", opts.Server.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", slog.Any("err", err))
			fail()
		}
	case <-quit:
		// proceed to shutdown
	}
	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), opts.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
	}
	logger.Info("server exiting")
}
