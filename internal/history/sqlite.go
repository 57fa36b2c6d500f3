package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Glx28/billigst-mat/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS price_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	group_name TEXT NOT NULL,
	run_date   TEXT NOT NULL,
	best_price REAL NOT NULL,
	best_item  TEXT NOT NULL,
	best_store TEXT,
	unit_label TEXT,
	UNIQUE(group_name, run_date)
);

CREATE TABLE IF NOT EXISTS item_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	group_name TEXT NOT NULL,
	run_date   TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	item_name  TEXT NOT NULL,
	unit_price REAL NOT NULL,
	price      REAL,
	store      TEXT,
	UNIQUE(group_name, run_date, item_key)
);

CREATE INDEX IF NOT EXISTS idx_ph_group ON price_history(group_name);
CREATE INDEX IF NOT EXISTS idx_ih_group ON item_history(group_name);
`

// SQLiteStore is the file-backed history store for single-binary runs.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// OpenSQLite opens (and if needed creates) the sqlite history database.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	logger.Debug("history database initialized", "path", path)

	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

func (s *SQLiteStore) AllTimeBest(ctx context.Context, group string) (float64, bool, error) {
	var best sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(best_price) FROM price_history WHERE group_name = ?`,
		group,
	).Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("query all-time best: %w", err)
	}
	if !best.Valid {
		return 0, false, nil
	}
	return best.Float64, true, nil
}

func (s *SQLiteStore) PreviousBest(ctx context.Context, group string) (*model.PriceHistoryRecord, error) {
	rec := model.PriceHistoryRecord{GroupName: group}
	var store, label sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT best_price, best_item, best_store, unit_label, run_date
		 FROM price_history
		 WHERE group_name = ? AND run_date < ?
		 ORDER BY run_date DESC LIMIT 1`,
		group, today(s.now),
	).Scan(&rec.BestPrice, &rec.BestItem, &store, &label, &rec.RunDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query previous best: %w", err)
	}
	rec.BestStore = store.String
	rec.UnitLabel = label.String
	return &rec, nil
}

func (s *SQLiteStore) PreviousTopIDs(ctx context.Context, group string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_key FROM item_history
		 WHERE group_name = ? AND run_date = (
			SELECT MAX(run_date) FROM item_history
			WHERE group_name = ? AND run_date < ?
		 )`,
		group, group, today(s.now),
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

func (s *SQLiteStore) RecordRun(ctx context.Context, best model.PriceHistoryRecord, topItems []model.ItemHistoryRecord) error {
	runDate := today(s.now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO price_history (group_name, run_date, best_price, best_item, best_store, unit_label)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(group_name, run_date)
		 DO UPDATE SET best_price = excluded.best_price,
		               best_item  = excluded.best_item,
		               best_store = excluded.best_store,
		               unit_label = excluded.unit_label`,
		best.GroupName, runDate, best.BestPrice, best.BestItem, best.BestStore, best.UnitLabel,
	)
	if err != nil {
		return fmt.Errorf("upsert price history: %w", err)
	}

	for _, item := range topItems {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO item_history (group_name, run_date, item_key, item_name, unit_price, price, store)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(group_name, run_date, item_key)
			 DO UPDATE SET unit_price = excluded.unit_price,
			               price      = excluded.price,
			               store      = excluded.store`,
			item.GroupName, runDate, item.ItemKey, item.ItemName, item.UnitPrice, item.Price, item.Store,
		)
		if err != nil {
			return fmt.Errorf("upsert item history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GroupHistory(ctx context.Context, group string) ([]model.PriceHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT best_price, best_item, best_store, unit_label, run_date
		 FROM price_history
		 WHERE group_name = ?
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
		var store, label sql.NullString
		if err := rows.Scan(&rec.BestPrice, &rec.BestItem, &store, &label, &rec.RunDate); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.BestStore = store.String
		rec.UnitLabel = label.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
