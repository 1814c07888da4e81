package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/storeqa/api-common/apiclient"
	"github.com/storeqa/api-common/session"
)

// ResultsStore defines the Redis surface the sink needs
type ResultsStore interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// SinkConfig configures the Redis results sink
type SinkConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" json:"write_timeout"`
	PoolSize       int           `yaml:"pool_size" json:"pool_size"`
	ResultTTL      time.Duration `yaml:"result_ttl" json:"result_ttl"`
	KeyPrefix      string        `yaml:"key_prefix" json:"key_prefix"`
	TokenTTL       time.Duration `yaml:"token_ttl" json:"token_ttl"`
}

func (c *SinkConfig) ApplyDefaults() {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 1000 * time.Millisecond
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 1000 * time.Millisecond
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 1000 * time.Millisecond
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.ResultTTL == 0 {
		c.ResultTTL = 24 * time.Hour
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "storeqa:results"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
}

// NewRedisStore connects to the results store at redisURL
// (redis://[user:password@]host[:port][/db]).
func NewRedisStore(cfg *SinkConfig, redisURL string) (ResultsStore, error) {
	cfg.ApplyDefaults()

	parsedURL, err := url.Parse(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results store URL: %w", err)
	}

	host := parsedURL.Hostname()
	port := parsedURL.Port()
	if port == "" {
		port = "6379"
	}

	redisOpts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	}

	if parsedURL.User != nil {
		if password, ok := parsedURL.User.Password(); ok {
			redisOpts.Password = password
		}
	}

	if len(parsedURL.Path) > 1 {
		if db, err := strconv.Atoi(parsedURL.Path[1:]); err == nil {
			redisOpts.DB = db
		}
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to results store at %s: %w", redisOpts.Addr, err)
	}

	return client, nil
}

// Envelope is the published record: a run summary plus the signed token
// identifying which run and worker produced it.
type Envelope struct {
	Token   string     `json:"token"`
	Worker  string     `json:"worker"`
	Summary RunSummary `json:"summary"`
}

// RedisSink publishes run summaries for cross-worker aggregation
type RedisSink struct {
	store  ResultsStore
	cfg    SinkConfig
	secret string
	worker string
	logger apiclient.Logger
}

// SinkOption is a functional option for configuring a RedisSink
type SinkOption func(*RedisSink)

// WithSinkLogger sets the logger for the RedisSink
func WithSinkLogger(logger apiclient.Logger) SinkOption {
	return func(s *RedisSink) {
		s.logger = logger
	}
}

// NewRedisSink creates a sink publishing through the store. secret signs the
// run tokens; worker names this publisher in the envelope.
func NewRedisSink(store ResultsStore, cfg SinkConfig, secret, worker string, opts ...SinkOption) *RedisSink {
	cfg.ApplyDefaults()

	s := &RedisSink{
		store:  store,
		cfg:    cfg,
		secret: secret,
		worker: worker,
		logger: apiclient.NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish signs and stores one run summary. The record lands in the list
// <key_prefix>:<run_id> with the configured TTL.
func (s *RedisSink) Publish(ctx context.Context, summary RunSummary) error {
	token, _, err := session.Generate(s.secret, summary.RunID, s.worker, s.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to sign run token: %w", err)
	}

	payload, err := json.Marshal(Envelope{
		Token:   token,
		Worker:  s.worker,
		Summary: summary,
	})
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	key := s.cfg.KeyPrefix + ":" + summary.RunID

	if err := s.store.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish run summary: %w", err)
	}
	if err := s.store.Expire(ctx, key, s.cfg.ResultTTL).Err(); err != nil {
		s.logger.Warn("failed to set TTL on published summary", "key", key, "error", err)
	}

	s.logger.Info("published run summary", "key", key, "worker", s.worker,
		"endpoints", len(summary.Endpoints))
	return nil
}
