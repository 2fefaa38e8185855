/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// The asset-gateway command runs the HTTP gateway in front of a Fabric
// network: it provisions identities through the organization CA, executes
// chaincode transactions under per-request identities, and serves the
// account signup/login flow backed by MongoDB.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexliesenfeld/health"
	fabconfig "github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/simpleasset/gateway/pkg/auth"
	"github.com/simpleasset/gateway/pkg/config"
	"github.com/simpleasset/gateway/pkg/enroll"
	"github.com/simpleasset/gateway/pkg/format"
	"github.com/simpleasset/gateway/pkg/ledger"
	"github.com/simpleasset/gateway/pkg/metrics"
	"github.com/simpleasset/gateway/pkg/restapi/operation"
	"github.com/simpleasset/gateway/pkg/session"
	"github.com/simpleasset/gateway/pkg/wallet"
)

func main() {
	configPath := flag.String("config", "", "path to the gateway config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	w, err := wallet.NewFileSystemWallet(cfg.WalletPath)
	if err != nil {
		return err
	}

	sdk, err := fabsdk.New(fabconfig.FromFile(cfg.ConnectionProfile))
	if err != nil {
		return err
	}
	defer sdk.Close()

	ca, err := enroll.NewFabricCA(sdk, cfg.Organization)
	if err != nil {
		return err
	}
	enrollSvc := enroll.NewService(w, ca, cfg.MSPID, logger)

	sessions := session.NewManager(w, session.NewFabricConnector(cfg.ConnectionProfile), logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ops := metrics.NewOperations(registry)

	executor := ledger.NewExecutor(sessions, cfg.Channel, cfg.Chaincode, ops, logger)

	users, err := auth.NewMongoStore(startCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := users.Close(closeCtx); err != nil {
			logger.Warn("failed to close MongoDB client", zap.Error(err))
		}
	}()

	issuer, err := auth.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}
	accounts := auth.NewService(users, issuer)

	renderer, err := format.NewRenderer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(auth.Middleware(issuer))

	controller := operation.NewController(&operation.Config{
		Enroller:    enrollSvc,
		Executor:    executor,
		Accounts:    accounts,
		Renderer:    renderer,
		Affiliation: cfg.Affiliation,
		AdminLabel:  cfg.AdminLabel,
		CallTimeout: cfg.CallTimeout,
		TokenTTL:    cfg.TokenTTL,
		Logger:      logger,
	})
	controller.Register(e)

	e.GET("/healthz", echo.WrapHandler(healthHandler(cfg.WalletPath, users)))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", zap.String("address", cfg.ListenAddress))
		errCh <- e.Start(cfg.ListenAddress)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return e.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	})
}

func healthHandler(walletPath string, users *auth.MongoStore) http.Handler {
	checker := health.NewChecker(
		health.WithTimeout(5*time.Second),
		health.WithCheck(health.Check{
			Name: "mongodb",
			Check: func(ctx context.Context) error {
				return users.Ping(ctx)
			},
		}),
		health.WithCheck(health.Check{
			Name: "wallet",
			Check: func(context.Context) error {
				_, err := os.Stat(walletPath)
				return err
			},
		}),
	)
	return health.NewHandler(checker)
}
