package bootstrap

import (
	"fmt"
	"io"
	"net/http"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/config"
	"fxrates-exporter/internal/domain"
	infraconfig "fxrates-exporter/internal/infrastructure/config"
	"fxrates-exporter/internal/infrastructure/export"
	"fxrates-exporter/internal/infrastructure/prompt"
	"fxrates-exporter/internal/infrastructure/provider"
	redisstore "fxrates-exporter/internal/infrastructure/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProvideHTTPClient returns the upstream client. Per-attempt deadlines are
// set by the fetcher from the request timeout, so the client has none.
func ProvideHTTPClient() *http.Client {
	return &http.Client{}
}

func ProvideFetcher(cfg config.Config, client *http.Client, log *zap.Logger) (application.RateFetcher, error) {
	switch cfg.Provider {
	case "exchangerateapi", "":
		return &provider.ExchangeRateAPI{
			BaseURL: cfg.ExchangeAPIBase,
			Client:  client,
			Backoff: cfg.RetryBackoff,
			Log:     log,
		}, nil
	case "static":
		log.Warn("using bundled sample rates", zap.String("provider", cfg.Provider))
		return provider.NewStatic(nil), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown PROVIDER %q", cfg.Provider)
	}
}

// ProvideDecider picks how existing files are handled. "prompt" asks on in
// when it is a terminal and cancels otherwise.
func ProvideDecider(cfg config.Config, log *zap.Logger, in io.Reader, out io.Writer) (application.Decider, error) {
	if cfg.OnConflict != "prompt" {
		d, err := prompt.ParseDecision(cfg.OnConflict)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: ON_CONFLICT: %w", err)
		}
		return prompt.Static{Decision: d}, nil
	}
	if !prompt.IsTerminal(in) {
		log.Warn("stdin is not a terminal; existing files will be kept", zap.String("on_conflict", cfg.OnConflict))
		return prompt.Static{Decision: domain.DecisionCancel}, nil
	}
	return prompt.WithTimeout(prompt.NewTerminal(in, out), cfg.ConfirmTimeout, log), nil
}

func ProvideSaver(d application.Decider, log *zap.Logger) application.Saver {
	return export.NewWriter(d, log)
}

// ProvideRunLock returns a Redis backed lock for LOCK_BACKEND=redis and a
// no-op lock otherwise.
func ProvideRunLock(cfg config.Config, log *zap.Logger) (application.RunLock, func(), error) {
	if cfg.LockBackend != "redis" {
		return application.NoopLock{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = infraconfig.DefaultLockTTL
	}
	cleanup := func() {
		log.Debug("closing redis", zap.String("addr", cfg.RedisAddr))
		_ = client.Close()
	}
	return redisstore.New(client, ttl, uuid.NewString()), cleanup, nil
}

func ProvideExporter(f application.RateFetcher, s application.Saver, lock application.RunLock, log *zap.Logger) *application.Exporter {
	return application.NewExporter(f, s, application.WithLock(lock), application.WithLogger(log))
}
