package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"bestbosses/internal/access"
	"bestbosses/internal/boss"
	bossstore "bestbosses/internal/boss/store"
	"bestbosses/internal/directory"
	directoryhandler "bestbosses/internal/directory/handler"
	"bestbosses/internal/nomination"
	nominationhandler "bestbosses/internal/nomination/handler"
	nominationmetrics "bestbosses/internal/nomination/metrics"
	"bestbosses/internal/nomination/service"
	nominationstore "bestbosses/internal/nomination/store"
	"bestbosses/internal/notify"
	notifymetrics "bestbosses/internal/notify/metrics"
	notifystore "bestbosses/internal/notify/store"
	"bestbosses/internal/platform/config"
	"bestbosses/internal/platform/httpserver"
	"bestbosses/internal/platform/jwt"
	"bestbosses/internal/platform/kafka"
	"bestbosses/internal/platform/logger"
	"bestbosses/internal/platform/metrics"
	"bestbosses/internal/platform/middleware"
	platformredis "bestbosses/internal/platform/redis"
	"bestbosses/internal/profile"
	profilehandler "bestbosses/internal/profile/handler"
	profilestore "bestbosses/internal/profile/store"
)

// main wires the stores, the lifecycle engine, the notification pipeline and
// the HTTP surface, then supervises everything under one errgroup. Business
// logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence: postgres when configured, in-memory otherwise.
	var (
		db          *sql.DB
		nominations nomination.Store
		profiles    profile.Store
		bosses      boss.Store
	)
	if cfg.PostgresURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		nominations = nominationstore.NewPostgres(db)
		profiles = profilestore.NewPostgres(db)
		bosses = bossstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		nominations = nomination.NewInMemoryStore()
		profiles = profile.NewInMemoryStore()
		bosses = boss.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	group, ctx := errgroup.WithContext(ctx)

	// Notification pipeline. The outbox write always shares the lifecycle
	// transaction; how messages reach the worker depends on what is
	// configured: kafka relay, broker-less poller, or a plain channel.
	deliveries := make(chan notify.Message, 256)
	var outbox notify.Outbox
	switch {
	case db != nil:
		pgOutbox := notifystore.NewPostgres(db)
		outbox = pgOutbox
		if len(cfg.Kafka.Brokers) > 0 {
			producer, err := kafka.NewClient(cfg.Kafka)
			if err != nil {
				log.Error("kafka producer", "error", err)
				os.Exit(1)
			}
			defer producer.Close()
			if err := kafka.EnsureTopic(ctx, producer, cfg.Kafka.Topic); err != nil {
				log.Error("kafka topic bootstrap", "error", err)
				os.Exit(1)
			}
			consumerClient, err := kafka.NewConsumerClient(cfg.Kafka)
			if err != nil {
				log.Error("kafka consumer", "error", err)
				os.Exit(1)
			}
			defer consumerClient.Close()

			relay := kafka.NewRelay(producer, pgOutbox, newRelayTx(db), cfg.Kafka.Topic, log)
			consumer := kafka.NewConsumer(consumerClient, deliveries, log)
			group.Go(func() error { return ignoreCancel(relay.Run(ctx)) })
			group.Go(func() error { return ignoreCancel(consumer.Run(ctx)) })
			log.Info("notifications via kafka", "topic", cfg.Kafka.Topic)
		} else {
			poller := notify.NewPoller(pgOutbox, newRelayTx(db), deliveries, log)
			group.Go(func() error { return ignoreCancel(poller.Run(ctx)) })
			log.Info("notifications via outbox poller")
		}
	default:
		memOutbox := notify.NewInMemoryOutbox()
		outbox = memOutbox
		group.Go(func() error {
			return ignoreCancel(pump(ctx, memOutbox.Messages(), deliveries))
		})
		log.Info("notifications via in-memory queue")
	}

	var dispatcher notify.Dispatcher
	if cfg.SMTP.Host != "" {
		dispatcher = notify.NewSMTPDispatcher(cfg.SMTP, log)
	} else {
		dispatcher = notify.NewLogDispatcher(log)
		log.Warn("no SMTP host configured, notifications are logged only")
	}
	worker := notify.NewWorker(dispatcher, deliveries, log, notifymetrics.New())
	group.Go(func() error { return ignoreCancel(worker.Run(ctx)) })

	// Domain wiring.
	stores := service.Stores{
		Nominations: nominations,
		Profiles:    profiles,
		Bosses:      bosses,
		Outbox:      outbox,
	}
	var lifecycleBoundary service.Tx
	if db != nil {
		lifecycleBoundary = newLifecycleTx(db, stores)
	} else {
		lifecycleBoundary = service.NewMemoryTx(stores)
	}

	engine := service.NewEngine(lifecycleBoundary, stores, cfg.PublicBaseURL, log, nominationmetrics.New())
	gate := access.NewGate(profiles, cfg.AdminEmail)

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := directory.NewCache(redisClient, cfg.DirectoryCacheTTL, log)
	listing := directory.NewService(bosses, cache)
	resolver := directory.NewResolver(bosses, nominations, profiles)

	tokens := jwt.NewService(cfg.JWTSigningKey, "bestbosses")
	httpMetrics := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Latency(httpMetrics))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	nominationhandler.New(engine, gate, cache, tokens, log).Register(router)
	directoryhandler.New(listing, resolver, gate, tokens, log).Register(router)
	profilehandler.New(profiles, tokens, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)
	group.Go(func() error {
		log.Info("starting bestbosses", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// pump forwards the in-memory outbox stream onto the shared delivery channel.
func pump(ctx context.Context, in <-chan notify.Message, out chan<- notify.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// ignoreCancel keeps an orderly shutdown from reporting context
// cancellation as a failure.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
