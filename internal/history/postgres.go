package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/database"
	"github.com/Glx28/billigst-mat/internal/model"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS price_history (
	id         BIGSERIAL PRIMARY KEY,
	group_name TEXT NOT NULL,
	run_date   TEXT NOT NULL,
	best_price DOUBLE PRECISION NOT NULL,
	best_item  TEXT NOT NULL,
	best_store TEXT,
	unit_label TEXT,
	UNIQUE(group_name, run_date)
)`,
	`CREATE TABLE IF NOT EXISTS item_history (
	id         BIGSERIAL PRIMARY KEY,
	group_name TEXT NOT NULL,
	run_date   TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	item_name  TEXT NOT NULL,
	unit_price DOUBLE PRECISION NOT NULL,
	price      DOUBLE PRECISION,
	store      TEXT,
	UNIQUE(group_name, run_date, item_key)
)`,
	`CREATE INDEX IF NOT EXISTS idx_ph_group ON price_history(group_name)`,
	`CREATE INDEX IF NOT EXISTS idx_ih_group ON item_history(group_name)`,
}

// PostgresStore is the pooled history store for shared deployments.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// OpenPostgres connects to postgres and ensures the history schema exists.
func OpenPostgres(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create history schema: %w", err)
		}
	}

	logger.Debug("history database initialized", "host", cfg.Host, "database", cfg.Name)

	return &PostgresStore{pool: pool, logger: logger, now: time.Now}, nil
}

func (s *PostgresStore) AllTimeBest(ctx context.Context, group string) (float64, bool, error) {
	var best *float64
	err := s.pool.QueryRow(ctx,
		`SELECT MIN(best_price) FROM price_history WHERE group_name = $1`,
		group,
	).Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("query all-time best: %w", err)
	}
	if best == nil {
		return 0, false, nil
	}
	return *best, true, nil
}

func (s *PostgresStore) PreviousBest(ctx context.Context, group string) (*model.PriceHistoryRecord, error) {
	rec := model.PriceHistoryRecord{GroupName: group}
	var store, label *string
	err := s.pool.QueryRow(ctx,
		`SELECT best_price, best_item, best_store, unit_label, run_date
		 FROM price_history
		 WHERE group_name = $1 AND run_date < $2
		 ORDER BY run_date DESC LIMIT 1`,
		group, today(s.now),
	).Scan(&rec.BestPrice, &rec.BestItem, &store, &label, &rec.RunDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query previous best: %w", err)
	}
	if store != nil {
		rec.BestStore = *store
	}
	if label != nil {
		rec.UnitLabel = *label
	}
	return &rec, nil
}

func (s *PostgresStore) PreviousTopIDs(ctx context.Context, group string) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT item_key FROM item_history
		 WHERE group_name = $1 AND run_date = (
			SELECT MAX(run_date) FROM item_history
			WHERE group_name = $1 AND run_date < $2
		 )`,
		group, today(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("query previous top ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan item key: %w", err)
		}
		ids[key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item keys: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) RecordRun(ctx context.Context, best model.PriceHistoryRecord, topItems []model.ItemHistoryRecord) error {
	runDate := today(s.now)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO price_history (group_name, run_date, best_price, best_item, best_store, unit_label)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (group_name, run_date)
		 DO UPDATE SET best_price = EXCLUDED.best_price,
		               best_item  = EXCLUDED.best_item,
		               best_store = EXCLUDED.best_store,
		               unit_label = EXCLUDED.unit_label`,
		best.GroupName, runDate, best.BestPrice, best.BestItem, best.BestStore, best.UnitLabel,
	)
	if err != nil {
		return fmt.Errorf("upsert price history: %w", err)
	}

	for _, item := range topItems {
		_, err = tx.Exec(ctx,
			`INSERT INTO item_history (group_name, run_date, item_key, item_name, unit_price, price, store)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (group_name, run_date, item_key)
			 DO UPDATE SET unit_price = EXCLUDED.unit_price,
			               price      = EXCLUDED.price,
			               store      = EXCLUDED.store`,
			item.GroupName, runDate, item.ItemKey, item.ItemName, item.UnitPrice, item.Price, item.Store,
		)
		if err != nil {
			return fmt.Errorf("upsert item history: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit record run: %w", err)
	}
	return nil
}

func (s *PostgresStore) GroupHistory(ctx context.Context, group string) ([]model.PriceHistoryRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT best_price, best_item, best_store, unit_label, run_date
		 FROM price_history
		 WHERE group_name = $1
		 ORDER BY run_date DESC`,
		group,
	)
	if err != nil {
		return nil, fmt.Errorf("query group history: %w", err)
	}
	defer rows.Close()

	var records []model.PriceHistoryRecord
	for rows.Next() {
		rec := model.PriceHistoryRecord{GroupName: group}
		var store, label *string
		if err := rows.Scan(&rec.BestPrice, &rec.BestItem, &store, &label, &rec.RunDate); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if store != nil {
			rec.BestStore = *store
		}
		if label != nil {
			rec.UnitLabel = *label
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
