package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zpam/spamnb/pkg/config"
	"go.uber.org/zap"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	first := NewRecord(1000, 200, 0.9, 0.95, 0.92)
	first.TP, first.FP, first.FN, first.TN = 120, 6, 10, 64
	second := NewRecord(1000, 200, 0.8, 0.85, 0.82)
	other := NewRecord(5000, 100, 0.97, 0.98, 0.99)

	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, other))

	c, err := store.Load(ctx)
	require.NoError(t, err)

	require.Len(t, c["1000"], 2, "both runs for the same size must be kept")
	require.Len(t, c["5000"], 1)
	assert.Equal(t, first.RunID, c["1000"][0].RunID)
	assert.Equal(t, second.RunID, c["1000"][1].RunID)
	assert.Equal(t, 120, c["1000"][0].TP)
	assert.InDelta(t, 0.8, c["1000"][1].ACC, 1e-12)
	assert.Equal(t, 3, c.Len())
}

func TestJSONStore(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "result.json"))
	defer store.Close()

	c, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c)

	exerciseStore(t, store)
}

func TestJSONStoreReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	legacy := `{
    "1000": [
        {
            "trainNum": 1000,
            "testNum": 200,
            "ACC": 0.915,
            "precisonRate": 0.93,
            "recallRate": 0.94,
            "datatime": 1650000000.5
        }
    ]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	store := NewJSONStore(path)
	require.NoError(t, store.Append(context.Background(), NewRecord(1000, 50, 1, 1, 1)))

	c, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c["1000"], 2)
	assert.InDelta(t, 0.93, c["1000"][0].PrecisionRate, 1e-12)
	assert.Equal(t, int64(1650000000), c["1000"][0].Time().Unix())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"precisonRate"`)
	assert.Contains(t, string(raw), `"datatime"`)
}

func TestSQLStoreSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLStore(ctx, config.SQLConfig{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "metrics.db"),
	})
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLStoreUnsupportedDriver(t *testing.T) {
	_, err := NewSQLStore(context.Background(), config.SQLConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 1})
	defer client.Close()
	return client.Ping(context.Background()).Err() == nil
}

func TestRedisStore(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, config.RedisConfig{
		URL:       "redis://localhost:6379",
		KeyPrefix: "spamnb:test",
		Database:  1,
	})
	require.NoError(t, err)
	defer func() {
		store.Reset(ctx)
		store.Close()
	}()
	require.NoError(t, store.Reset(ctx))

	exerciseStore(t, store)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig().Metrics
	cfg.Path = filepath.Join(t.TempDir(), "result.json")

	store, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, store)

	cfg.Backend = "sql"
	cfg.SQL.DSN = filepath.Join(t.TempDir(), "m.db")
	store, err = Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, store)
	store.Close()

	cfg.Backend = "csv"
	_, err = Open(ctx, cfg, zap.NewNop())
	assert.Error(t, err)
}
