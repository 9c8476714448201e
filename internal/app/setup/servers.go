package setup

import (
	"errors"
	"net"
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/app/background"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/router"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/webhook"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/ops"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

type Servers struct {
	HTTP     *echo.Echo
	HTTPAddr string
	GRPC     *grpc.Server
	Health   *health.Server
	GRPCAddr string
	Ops      *http.Server
	Tasks    *background.BackgroundTasks
}

// NewRetrier builds the retry executor from the configured policy.
func NewRetrier(deps *Dependencies) *background.Retrier {
	policy := domain.RetryPolicy{
		MaxAttempts: deps.Config.Retry.MaxAttempts,
		Backoff:     deps.Config.Retry.Backoff,
	}
	return background.NewRetrier(policy, deps.Metrics, deps.Logger)
}

func InitializeServers(deps *Dependencies, ucs *UseCases) (*Servers, error) {
	cfg := deps.Config
	if cfg.Webhook.Secret == "" {
		return nil, errors.New("webhook.secret is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	httpServer := router.New(router.Handlers{
		Orders:  handlers.NewOrderHandler(ucs.OrderUsecase, deps.Logger),
		Raffles: handlers.NewRaffleHandler(ucs.RaffleUsecase, deps.Logger),
		Admin:   handlers.NewAdminHandler(ucs.OrderUsecase, deps.Logger),
		Webhook: handlers.NewWebhookHandler(deps.Queue, deps.Dedupe, deps.Metrics, deps.Logger),
	}, router.Options{
		JWTSecret: cfg.Auth.JWTSecret,
		Verifier: webhook.Verifier{
			Secret:    []byte(cfg.Webhook.Secret),
			Tolerance: cfg.Webhook.Tolerance,
		},
		Logger: deps.Logger,
	})

	grpcServer, healthServer := grpcapi.NewServer(
		grpcapi.NewOperationsHandler(ucs.OrderUsecase, deps.Failures, deps.Logger),
		cfg.Auth.JWTSecret,
	)

	retrier := NewRetrier(deps)
	var sweeper *background.Sweeper
	if cfg.Sweeper.Enabled {
		sweeper = background.NewSweeper(ucs.OrderUsecase, cfg.Sweeper.Interval, retrier, deps.Logger)
	}
	worker := background.NewSettlementWorker(
		deps.Subscriber,
		cfg.Queue.NotificationTopic,
		cfg.Queue.GroupID,
		ucs.OrderUsecase,
		deps.Failures,
		retrier,
		deps.Metrics,
		deps.Logger,
	)

	return &Servers{
		HTTP:     httpServer,
		HTTPAddr: net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		GRPC:     grpcServer,
		Health:   healthServer,
		GRPCAddr: net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port),
		Ops: ops.NewServer(
			net.JoinHostPort(cfg.OpsServer.Host, cfg.OpsServer.Port),
			deps.Registry,
			deps.ReadinessChecks(),
			deps.Logger,
		),
		Tasks: background.NewBackgroundTasks(sweeper, worker),
	}, nil
}
