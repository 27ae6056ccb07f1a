package metadata

import (
	"context"

	"go.uber.org/zap"

	"github.com/RubbaBoy/QilletniMetadata/config"
	"github.com/RubbaBoy/QilletniMetadata/db"
)

// Connect opens the configured backend and builds a Store over it. A nil
// cfg loads configuration from the environment. Open and bootstrap failures
// are absorbed: the returned store reports IsConnected false and every
// operation fails with ErrNotConnected.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			logger.Warnw("Failed to load metadata config; store disconnected", "error", err)
			return New(ctx, nil, db.FlavorPostgres, logger)
		}
		cfg = loaded
	}

	database, flavor, err := db.Open(cfg, logger)
	if err != nil {
		logger.Warnw("Failed to open metadata database; store disconnected",
			"backend", cfg.Backend,
			"error", err,
		)
		return New(ctx, nil, flavor, logger)
	}

	return New(ctx, database, flavor, logger)
}
