package di

import (
	"fmt"

	"MarTrade/internal/domain/repository"
	"MarTrade/internal/handler/api"
	internalrepo "MarTrade/internal/repository"
	"MarTrade/internal/service/ratelimit"
	"MarTrade/internal/service/symbols"
	"MarTrade/internal/service/twelvedata"
	"MarTrade/internal/services/fallback"
	"MarTrade/internal/usecase"
	"MarTrade/pkg/cache"
	"MarTrade/pkg/config"
	xhttp "MarTrade/pkg/http"
	pkgkafka "MarTrade/pkg/kafka"
	applogger "MarTrade/pkg/logger"
	"MarTrade/pkg/metrics"
	"MarTrade/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideThrottle creates the outbound request throttle shared by one upstream client.
func ProvideThrottle(cfg *config.Config) *ratelimit.Throttle {
	return ratelimit.NewThrottle(cfg.TwelveData.RequestInterval)
}

// ProvideLimiter creates the inbound per-client limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideUpstream creates the TwelveData REST client.
func ProvideUpstream(
	cfg *config.Config,
	throttle *ratelimit.Throttle,
	log *applogger.Logger,
	m repository.Metrics,
) repository.Upstream {
	return twelvedata.New(cfg.TwelveData.APIKey,
		twelvedata.WithBaseURL(cfg.TwelveData.BaseURL),
		twelvedata.WithDoer(xhttp.NewClient(xhttp.WithTimeout(cfg.TwelveData.Timeout))),
		twelvedata.WithThrottle(throttle),
		twelvedata.WithLogger(log.With(applogger.String("component", "twelvedata"))),
		twelvedata.WithMetrics(m),
	)
}

// ProvideResolver builds the futures table from the builtin mappings and config.
func ProvideResolver(cfg *config.Config) (*symbols.Resolver, error) {
	r, err := symbols.New(cfg.TwelveData.Futures)
	if err != nil {
		return nil, fmt.Errorf("symbols: %w", err)
	}
	return r, nil
}

// ProvideFallback builds the fallback snapshots. Every futures code the
// resolver knows must have one.
func ProvideFallback(cfg *config.Config, resolver *symbols.Resolver) (*fallback.Provider, error) {
	p, err := fallback.NewProvider(cfg.TwelveData.Futures)
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	for _, code := range resolver.Supported() {
		if !p.Has(code) {
			return nil, fmt.Errorf("fallback: no snapshot for supported code %s", code)
		}
	}
	return p, nil
}

// ProvideChartCache creates the chart image cache for the configured backend.
func ProvideChartCache(cfg *config.Config) (cache.Service, error) {
	cc := cfg.ChartCache
	if cc.Backend == "memory" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cc.MaxSize)), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cc.Redis.Host),
		cache.WithRedisPort(cc.Redis.Port),
		cache.WithRedisPassword(cc.Redis.Password),
		cache.WithRedisDB(cc.Redis.DB),
		cache.WithRedisPrefix(cc.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("chart cache: %w", err)
	}
	if cc.Backend == "layered" {
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cc.MaxSize),
			cache.WithLayeredMemoryTTL(cc.TTL),
		), nil
	}
	return rc, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideQuotePublisher creates the quote event publisher. A nil producer
// yields a nil publisher and quotes are not published.
func ProvideQuotePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.QuotePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaQuotePublisher(producer, cfg.Kafka.Topic)
}

// ProvideMarketData creates the market data use case.
func ProvideMarketData(
	cfg *config.Config,
	upstream repository.Upstream,
	resolver *symbols.Resolver,
	fb *fallback.Provider,
	charts cache.Service,
	publisher repository.QuotePublisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.MarketData {
	opts := []usecase.Option{
		usecase.WithFallback(fb),
		usecase.WithChartCache(charts, cfg.ChartCache.TTL),
		usecase.WithMetrics(m),
		usecase.WithLogger(log.With(applogger.String("component", "market_data"))),
		usecase.WithSummaryCodes(cfg.TwelveData.Symbols),
	}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	return usecase.NewMarketData(upstream, resolver, opts...)
}

// ProvideMarketHandler creates the HTTP handler.
func ProvideMarketHandler(log *applogger.Logger, md *usecase.MarketData) *api.MarketEchoHandler {
	return api.NewMarketEchoHandler(log, md)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.MarketEchoHandler,
	limiter *ratelimit.Limiter,
	charts cache.Service,
	publisher repository.QuotePublisher,
) *server.App {
	return server.New(cfg, log, handler, limiter, charts, publisher)
}
