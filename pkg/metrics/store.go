package metrics

import (
	"context"
	"fmt"

	"github.com/zpam/spamnb/pkg/config"
	"go.uber.org/zap"
)

// Store is an append-only collection of evaluation records.
//
// Stores are not safe for concurrent runs against the same backing file or
// table; two evaluators appending at once may lose a record with the json
// backend.
type Store interface {
	// Append adds a record under its training size
	Append(ctx context.Context, r Record) error

	// Load returns every record grouped by training size
	Load(ctx context.Context) (Collection, error)

	// Close releases the backend
	Close() error
}

// Open creates the store selected by cfg.Backend
func Open(ctx context.Context, cfg config.MetricsConfig, logger *zap.Logger) (Store, error) {
	logger.Debug("Opening metrics store", zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case "json", "":
		return NewJSONStore(cfg.Path), nil
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	case "sql":
		return NewSQLStore(ctx, cfg.SQL)
	default:
		return nil, fmt.Errorf("unknown metrics backend: %s", cfg.Backend)
	}
}
