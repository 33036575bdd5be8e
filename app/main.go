package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	domcart "example.com/shop-console/app/internal/domain/cart"
	"example.com/shop-console/app/internal/config"
	"example.com/shop-console/app/internal/infra/logging"
	"example.com/shop-console/app/internal/infra/persistence/memory"
	"example.com/shop-console/app/internal/infra/persistence/mysql"
	"example.com/shop-console/app/internal/infra/persistence/postgres"
	"example.com/shop-console/app/internal/infra/persistence/redis"
	"example.com/shop-console/app/internal/infra/persistence/sqlite"
	"example.com/shop-console/app/internal/infra/security"
	"example.com/shop-console/app/internal/infra/shopapi"
	"example.com/shop-console/app/internal/infra/telemetry"
	apihttp "example.com/shop-console/app/internal/interface/http"
	cartuc "example.com/shop-console/app/internal/usecase/cart"
	checkoutuc "example.com/shop-console/app/internal/usecase/checkout"
)

const (
	version         = "v1.0.0"
	redisCartTTL    = 30 * 24 * time.Hour
	serviceTokenTTL = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

type cartStorage interface {
	domcart.Storage
	Ping(ctx context.Context) error
}

func main() {
	if err := config.LoadDotEnv(".env", "../.env"); err != nil {
		logrus.WithError(err).Fatal("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := logging.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		log.WithError(err).Fatal("init tracer provider")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("shutdown tracer provider")
		}
	}()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.CartBackend).Fatal("open cart storage")
	}
	defer closeStorage()
	log.WithField("backend", cfg.CartBackend).Info("cart storage ready")

	opts := []shopapi.Option{
		shopapi.WithTimeout(cfg.ShopAPITimeout),
		shopapi.WithTracerProvider(tp),
	}
	if cfg.ShopAPITokenSecret != "" {
		opts = append(opts, shopapi.WithTokenSource(security.NewServiceTokenSigner(cfg.ShopAPITokenSecret, serviceTokenTTL)))
	}
	client, err := shopapi.New(cfg.ShopAPIURL, opts...)
	if err != nil {
		log.WithError(err).Fatal("create shop api client")
	}

	sessions, err := cartuc.NewSessions(storage, log, cfg.CartSessions)
	if err != nil {
		log.WithError(err).Fatal("create cart sessions")
	}
	checkout := checkoutuc.NewService(client.Coupons, client.Orders, log, checkoutuc.WithBackendLocation(cfg.ShopAPILocation))
	api := apihttp.NewAPI(apihttp.Dependencies{
		ShopClient:      client,
		Sessions:        sessions,
		CheckoutService: checkout,
		Storage:         storage,
		Logger:          log,
		SessionCookie:   cfg.SessionCookie,
		CookieSecure:    cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).WithField("shop_api", cfg.ShopAPIURL).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("serve")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
}

func openStorage(ctx context.Context, cfg config.Config) (cartStorage, func(), error) {
	switch cfg.CartBackend {
	case config.BackendMemory:
		return memory.NewCartStorage(), func() {}, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendMySQL:
		db, err := mysql.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		s := mysql.NewCartStorage(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, func() { _ = db.Close() }, nil

	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewCartStorage(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(cfg.RedisAddr)
		s := redis.NewCartStorage(client, redisCartTTL)
		if err := s.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return s, func() { _ = client.Close() }, nil
	}
	return nil, nil, errors.New("unknown cart backend " + cfg.CartBackend)
}
