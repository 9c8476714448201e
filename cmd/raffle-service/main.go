package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/app/setup"
	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/auth"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := pflag.String("config", "", "path to the YAML config (defaults to $RAFFLE_CONFIG_PATH, then env only)")
	sweepOnce := pflag.Bool("sweep-once", false, "run one expiration sweep and exit")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	issueToken := pflag.String("issue-admin-token", "", "print an admin JWT for the given subject and exit")
	tokenTTL := pflag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by --issue-admin-token")
	pflag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg := config.MustLoad(*configPath)
	appLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	slog.SetDefault(appLogger)

	switch {
	case *issueToken != "":
		token, err := auth.IssueToken(cfg.Auth.JWTSecret, *issueToken, auth.RoleAdmin, *tokenTTL)
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	case *migrateOnly:
		if err := migrate.RunMigrations(postgres.MustInitDB(cfg), appLogger); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		appLogger.Info("migrations applied")
		return
	}

	deps, err := setup.InitializeDependencies(cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	if *sweepOnce {
		released, err := ucs.OrderUsecase.SweepExpiredOrders(context.Background(), ucs.OrderUsecase.Now())
		ucs.OrderUsecase.WaitForEvents()
		if err != nil {
			appLogger.Error("sweep failed", "released", released, "error", err)
			os.Exit(1)
		}
		appLogger.Info("sweep finished", "released", released)
		return
	}

	servers, err := setup.InitializeServers(deps, ucs)
	if err != nil {
		log.Fatalf("failed to init servers: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	servers.Tasks.StartAll(ctx)

	go func() {
		appLogger.Info("http server started", "addr", servers.HTTPAddr)
		if err := servers.HTTP.Start(servers.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("http server failed", "error", err)
			stop()
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", servers.GRPCAddr)
		if err != nil {
			appLogger.Error("failed to listen for grpc", "addr", servers.GRPCAddr, "error", err)
			stop()
			return
		}
		appLogger.Info("grpc server started", "addr", servers.GRPCAddr)
		if err := servers.GRPC.Serve(lis); err != nil {
			appLogger.Error("grpc server failed", "error", err)
			stop()
		}
	}()

	go func() {
		appLogger.Info("ops server started", "addr", servers.Ops.Addr)
		if err := servers.Ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("ops server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	servers.Health.Shutdown()
	if err := servers.HTTP.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("http shutdown", "error", err)
	}
	servers.GRPC.GracefulStop()
	servers.Tasks.Wait()
	ucs.OrderUsecase.WaitForEvents()
	if err := servers.Ops.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("ops shutdown", "error", err)
	}
	appLogger.Info("stopped")
}
