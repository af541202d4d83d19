package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchrail/searchrail/internal/config"
	storepkg "github.com/searchrail/searchrail/internal/store"
	storepg "github.com/searchrail/searchrail/internal/store/postgres"
	storelite "github.com/searchrail/searchrail/internal/store/sqlite"
)

// NewStore returns a store.Store for the configured driver.
// For postgres a bootstrap check runs asynchronously so startup is not
// blocked on schema application; sqlite applies its schema inline because
// the file is local and cheap.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		go func() {
			bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
			bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
			defer cancel()

			if err := storepg.Bootstrap(bootstrapCtx, cfg.PostgresDSN); err != nil {
				log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap check failed")
			} else {
				log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap check completed")
			}
		}()

		return storepg.NewWithDB(db, cfg.MaxConflictRetries), nil

	case "sqlite":
		db, err := storelite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := storelite.EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
		return storelite.NewWithDB(db, cfg.MaxConflictRetries), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
