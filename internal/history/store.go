package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/model"
)

// Store is the persisted price history. All query operations are scoped to
// one group; "previous" always means strictly before today.
type Store interface {
	// AllTimeBest returns the lowest best price ever recorded for the
	// group. ok is false when the group has no history.
	AllTimeBest(ctx context.Context, group string) (price float64, ok bool, err error)

	// PreviousBest returns the most recent record strictly before today,
	// or nil when none exists.
	PreviousBest(ctx context.Context, group string) (*model.PriceHistoryRecord, error)

	// PreviousTopIDs returns the item keys recorded on the single most
	// recent run date before today.
	PreviousTopIDs(ctx context.Context, group string) (map[string]bool, error)

	// RecordRun upserts today's best-price record and one item record per
	// top item. RunDate fields are stamped by the store.
	RecordRun(ctx context.Context, best model.PriceHistoryRecord, topItems []model.ItemHistoryRecord) error

	// GroupHistory returns all best-price records for a group, most
	// recent first. Used by diagnostics tooling.
	GroupHistory(ctx context.Context, group string) ([]model.PriceHistoryRecord, error)

	// Close releases the underlying database handle.
	Close() error
}

// Open creates the configured history store backend.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, logger)
	case "postgres":
		return OpenPostgres(ctx, cfg.Postgres, logger)
	default:
		return nil, fmt.Errorf("unknown history database driver %q", cfg.Driver)
	}
}

// today formats a timestamp as the ISO run date.
func today(now func() time.Time) string {
	return now().Format("2006-01-02")
}
