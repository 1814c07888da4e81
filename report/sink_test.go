package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeqa/api-common/session"
)

// fakeStore implements ResultsStore for testing
type fakeStore struct {
	pushedKey    string
	pushedValues [][]byte
	expiredKey   string
	expiredTTL   time.Duration
	pushErr      error
	expireErr    error
}

func (f *fakeStore) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.pushedKey = key
	for _, v := range values {
		if b, ok := v.([]byte); ok {
			f.pushedValues = append(f.pushedValues, b)
		}
	}
	return redis.NewIntResult(int64(len(values)), f.pushErr)
}

func (f *fakeStore) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expiredKey = key
	f.expiredTTL = expiration
	return redis.NewBoolResult(f.expireErr == nil, f.expireErr)
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Close() error {
	return nil
}

func TestRedisSink_Publish(t *testing.T) {
	store := &fakeStore{}
	sink := NewRedisSink(store, SinkConfig{}, "sink-secret", "worker-7")

	agg := NewAggregator()
	agg.Add(Record{Endpoint: "/productsList", Method: "GET", Status: 200, Duration: 100 * time.Millisecond})
	summary := agg.Summary()

	require.NoError(t, sink.Publish(context.Background(), summary))

	assert.Equal(t, "storeqa:results:"+summary.RunID, store.pushedKey)
	assert.Equal(t, store.pushedKey, store.expiredKey)
	assert.Equal(t, 24*time.Hour, store.expiredTTL)
	require.Len(t, store.pushedValues, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal(store.pushedValues[0], &env))
	assert.Equal(t, "worker-7", env.Worker)
	assert.Equal(t, summary.RunID, env.Summary.RunID)

	// The token must verify against the sink secret and name the run
	claims, err := session.Verify(env.Token, "sink-secret")
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, claims.RunID)
	assert.Equal(t, "worker-7", claims.Worker)
}

func TestRedisSink_PublishError(t *testing.T) {
	store := &fakeStore{pushErr: errors.New("connection refused")}
	sink := NewRedisSink(store, SinkConfig{}, "secret", "worker-1")

	err := sink.Publish(context.Background(), NewAggregator().Summary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish run summary")
}

func TestRedisSink_ExpireFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{expireErr: errors.New("timeout")}
	sink := NewRedisSink(store, SinkConfig{}, "secret", "worker-1")

	assert.NoError(t, sink.Publish(context.Background(), NewAggregator().Summary()))
}

func TestSinkConfig_ApplyDefaults(t *testing.T) {
	cfg := &SinkConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, 1000*time.Millisecond, cfg.ConnectTimeout)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 24*time.Hour, cfg.ResultTTL)
	assert.Equal(t, "storeqa:results", cfg.KeyPrefix)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(&SinkConfig{}, "://bad-url")
	require.Error(t, err)
}
