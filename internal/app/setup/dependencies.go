package setup

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/ops"
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/dedupe"
	publisher "github.com/LavaJover/shvark-raffle-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/memqueue"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/rabbitmq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config   *config.RaffleConfig
	Logger   *slog.Logger
	DB       *gorm.DB
	Registry *prometheus.Registry
	Metrics  *metrics.RaffleMetrics

	TxManager    domain.TxManager
	Repositories domain.Repositories
	Failures     domain.SettlementFailureRepository

	Queue      domain.NotificationQueue
	Subscriber domain.SubscriberPort
	Events     domain.OrderEventPublisher
	Dedupe     domain.NotificationDeduplicator
	Notifier   domain.AnomalyNotifier
	Redis      *redis.Client

	closers []func() error
}

// InitializeDependencies opens the database and every configured broker.
// Migrations run first when raffle_db.migrations_on_start is set.
func InitializeDependencies(cfg *config.RaffleConfig, logger *slog.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}
	if sqlDB, err := db.DB(); err == nil {
		deps.closers = append(deps.closers, sqlDB.Close)
	}

	if cfg.RaffleDB.MigrationsOnStart {
		if err := migrate.RunMigrations(db, logger); err != nil {
			deps.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewRaffleMetrics(deps.Registry)

	deps.TxManager = repository.NewGormTxManager(db, cfg.Reservation.LockTimeout)
	deps.Repositories = repository.NewRepositories(db)
	deps.Failures = repository.NewDefaultSettlementFailureRepository(db)

	steps := []struct {
		name string
		init func() error
	}{
		{"notification queue", deps.initQueue},
		{"order events", deps.initEvents},
		{"webhook dedupe", deps.initDedupe},
		{"anomaly notifier", deps.initNotifier},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			deps.Close()
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return deps, nil
}

func (d *Dependencies) kafkaBrokers() []string {
	return []string{net.JoinHostPort(d.Config.KafkaService.Host, d.Config.KafkaService.Port)}
}

func (d *Dependencies) initQueue() error {
	cfg := d.Config.Queue
	switch strings.ToLower(cfg.Driver) {
	case "kafka":
		pub := publisher.NewDefaultKafkaPublisher(d.kafkaBrokers())
		d.closers = append(d.closers, pub.Close)
		d.Queue = publisher.NewNotificationQueue(pub, cfg.NotificationTopic)
		d.Subscriber = publisher.NewDefaultKafkaSubscriber(d.kafkaBrokers(), d.Logger)
	case "memory", "":
		queue := memqueue.New(cfg.BufferSize)
		d.closers = append(d.closers, queue.Close)
		d.Queue = publisher.NewNotificationQueue(queue, cfg.NotificationTopic)
		d.Subscriber = queue
	default:
		return fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
	d.Logger.Info("notification queue ready", "driver", cfg.Driver, "topic", cfg.NotificationTopic)
	return nil
}

func (d *Dependencies) initEvents() error {
	cfg := d.Config.Events
	switch strings.ToLower(cfg.Driver) {
	case "kafka":
		pub := publisher.NewDefaultKafkaPublisher(d.kafkaBrokers())
		d.closers = append(d.closers, pub.Close)
		d.Events = publisher.NewOrderEventPublisher(pub, cfg.Topic)
	case "rabbitmq":
		pub, err := rabbitmq.NewPublisher(d.Config.RabbitMQ.URL)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, pub.Close)
		d.Events = publisher.NewOrderEventPublisher(pub, cfg.Topic)
	case "none", "":
		d.Logger.Info("order events disabled")
		return nil
	default:
		return fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
	d.Logger.Info("order events ready", "driver", cfg.Driver, "topic", cfg.Topic)
	return nil
}

func (d *Dependencies) initDedupe() error {
	ttl := 2 * d.Config.Webhook.Tolerance
	if !d.Config.Redis.Enabled {
		d.Dedupe = dedupe.NewMemoryDeduplicator(ttl)
		return nil
	}

	client, err := dedupe.NewRedisClient(d.Config.Redis.Addr, d.Config.Redis.Password, d.Config.Redis.DB, d.Config.Redis.Timeout)
	if err != nil {
		return err
	}
	d.closers = append(d.closers, client.Close)
	d.Redis = client
	d.Dedupe = dedupe.NewRedisDeduplicator(client, ttl)
	d.Logger.Info("webhook dedupe backed by redis", "addr", d.Config.Redis.Addr, "ttl", ttl)
	return nil
}

func (d *Dependencies) initNotifier() error {
	var notifiers notifier.Multi
	if d.Config.Telegram.Token != "" {
		tg, err := notifier.NewTelegramNotifier(d.Config.Telegram.Token, d.Config.Telegram.ChatID)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, tg)
	}
	if d.Config.Alerts.CallbackURL != "" {
		notifiers = append(notifiers, notifier.NewCallbackNotifier(d.Config.Alerts.CallbackURL, d.Config.Alerts.Timeout))
	}

	switch len(notifiers) {
	case 0:
		d.Logger.Info("anomaly alerts disabled")
	case 1:
		d.Notifier = notifiers[0]
	default:
		d.Notifier = notifiers
	}
	return nil
}

// ReadinessChecks are served on /readyz.
func (d *Dependencies) ReadinessChecks() map[string]ops.Check {
	checks := map[string]ops.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases brokers and the database in reverse order of opening.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Warn("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
}
