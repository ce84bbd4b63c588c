package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grupomm-oficial/mm-frota/internal/auth"
	"github.com/grupomm-oficial/mm-frota/internal/cache"
	"github.com/grupomm-oficial/mm-frota/internal/config"
	"github.com/grupomm-oficial/mm-frota/internal/db"
	"github.com/grupomm-oficial/mm-frota/internal/fleet"
	"github.com/grupomm-oficial/mm-frota/internal/handlers"
	"github.com/grupomm-oficial/mm-frota/internal/messaging"
	"github.com/grupomm-oficial/mm-frota/internal/middleware"
	log "github.com/sirupsen/logrus"

	_ "time/tzdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger := config.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	client, err := db.ConnectMongo(cfg.Mongo.URI)
	if err != nil {
		return err
	}
	store := db.NewStore(client, cfg.Mongo.Database, cfg.Mongo.Transactions)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()
	logger.WithFields(log.Fields{
		"database":     cfg.Mongo.Database,
		"transactions": cfg.Mongo.Transactions,
	}).Info("Connected to MongoDB")

	summaries, closeCache := summaryCollection(cfg.Redis, store.Summaries, logger)
	defer closeCache()

	publisher, closePublisher := eventPublisher(cfg.MQTT, logger)
	defer closePublisher()

	resolver, authService, err := identity(ctx, cfg.Auth, store.Users)
	if err != nil {
		return err
	}

	svc := fleet.NewService(fleet.Dependencies{
		Vehicles:     store.Vehicles,
		Drivers:      store.Drivers,
		Routes:       store.Routes,
		Refuelings:   store.Refuelings,
		Maintenances: store.Maintenances,
		Summaries:    summaries,
		Tx:           store,
		Events:       publisher,
		Logger:       logger,
		Location:     cfg.Timezone,
	})

	proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return err
	}

	var authn handlers.Authenticator
	if authService != nil {
		authn = authService
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Fleet:   handlers.NewFleetHandler(svc, logger, cfg.Timezone),
		Auth:    handlers.NewAuthHandler(authn, logger),
		AuthMW:  middleware.NewAuthMiddleware(resolver, logger),
		Limiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		Proxies: proxies,
		Health: func(r *http.Request) error {
			return store.Ping(r.Context())
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// summaryCollection puts the Redis read-through cache in front of the
// summaries collection when REDIS_ADDR is set.
func summaryCollection(cfg config.RedisConfig, next db.SummaryCollection, logger *log.Logger) (db.SummaryCollection, func()) {
	if cfg.Addr == "" {
		return next, func() {}
	}
	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, summaries are read from MongoDB")
		return next, func() {}
	}
	logger.WithField("addr", cfg.Addr).Info("Summary cache enabled")
	return cache.NewSummaryCache(next, redisCache, cfg.SummaryTTL, logger), func() { _ = redisCache.Close() }
}

// eventPublisher sends lifecycle events to MQTT when a broker is set and
// logs them otherwise.
func eventPublisher(cfg config.MQTTConfig, logger *log.Logger) (fleet.Publisher, func()) {
	if cfg.Broker == "" {
		return messaging.NewLogPublisher(logger), func() {}
	}
	publisher, err := messaging.ConnectMQTT(cfg.Broker, cfg.ClientID, cfg.TopicPrefix)
	if err != nil {
		logger.WithError(err).Warn("MQTT unavailable, events are only logged")
		return messaging.NewLogPublisher(logger), func() {}
	}
	logger.WithField("broker", cfg.Broker).Info("Publishing events to MQTT")
	return publisher, publisher.Close
}

// identity builds the token resolver. Password login exists only with the
// jwt provider.
func identity(ctx context.Context, cfg config.AuthConfig, users db.UserCollection) (auth.Resolver, *auth.Service, error) {
	if cfg.Provider == config.AuthProviderFirebase {
		resolver, err := auth.NewFirebaseResolver(ctx, cfg.FirebaseCredentials, users)
		if err != nil {
			return nil, nil, err
		}
		return resolver, nil, nil
	}
	svc := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry, users)
	return svc, svc, nil
}
