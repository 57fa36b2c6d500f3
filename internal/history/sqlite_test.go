package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Glx28/billigst-mat/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func fixedDay(day string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", day)
		return ts
	}
}

func record(group, item, store string, price float64) model.PriceHistoryRecord {
	return model.PriceHistoryRecord{
		GroupName: group,
		BestPrice: price,
		BestItem:  item,
		BestStore: store,
		UnitLabel: "kr/kg",
	}
}

func TestSQLiteStoreEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.AllTimeBest(ctx, "chicken"); err != nil || ok {
		t.Errorf("AllTimeBest() = ok %v, err %v, want no rows", ok, err)
	}
	prev, err := store.PreviousBest(ctx, "chicken")
	if err != nil {
		t.Fatalf("PreviousBest() error = %v", err)
	}
	if prev != nil {
		t.Errorf("PreviousBest() = %+v, want nil", prev)
	}
	ids, err := store.PreviousTopIDs(ctx, "chicken")
	if err != nil {
		t.Fatalf("PreviousTopIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("PreviousTopIDs() = %v, want empty", ids)
	}
}

func TestSQLiteStoreRecordAndQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.now = fixedDay("2026-03-01")
	items := []model.ItemHistoryRecord{
		{GroupName: "chicken", ItemKey: "etilbudsavis:1", ItemName: "Kyllingfilet", UnitPrice: 99.0, Price: 49.5, Store: "SPAR"},
		{GroupName: "chicken", ItemKey: "kassal:2", ItemName: "Kyllinglår", UnitPrice: 112.0, Price: 89.6, Store: "Meny"},
	}
	if err := store.RecordRun(ctx, record("chicken", "Kyllingfilet", "SPAR", 99.0), items); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	store.now = fixedDay("2026-03-08")
	if err := store.RecordRun(ctx, record("chicken", "Kyllingfilet", "Meny", 89.0), items[:1]); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	best, ok, err := store.AllTimeBest(ctx, "chicken")
	if err != nil || !ok {
		t.Fatalf("AllTimeBest() = ok %v, err %v", ok, err)
	}
	if best != 89.0 {
		t.Errorf("AllTimeBest() = %v, want 89.0", best)
	}

	// The run dated today must not count as previous.
	prev, err := store.PreviousBest(ctx, "chicken")
	if err != nil {
		t.Fatalf("PreviousBest() error = %v", err)
	}
	if prev == nil || prev.RunDate != "2026-03-01" || prev.BestPrice != 99.0 {
		t.Errorf("PreviousBest() = %+v, want 2026-03-01 @ 99.0", prev)
	}
	if prev.BestStore != "SPAR" || prev.UnitLabel != "kr/kg" {
		t.Errorf("PreviousBest() store/label = %q/%q", prev.BestStore, prev.UnitLabel)
	}

	ids, err := store.PreviousTopIDs(ctx, "chicken")
	if err != nil {
		t.Fatalf("PreviousTopIDs() error = %v", err)
	}
	if len(ids) != 2 || !ids["etilbudsavis:1"] || !ids["kassal:2"] {
		t.Errorf("PreviousTopIDs() = %v, want both keys from 2026-03-01", ids)
	}

	history, err := store.GroupHistory(ctx, "chicken")
	if err != nil {
		t.Fatalf("GroupHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("GroupHistory() len = %d, want 2", len(history))
	}
	if history[0].RunDate != "2026-03-08" || history[1].RunDate != "2026-03-01" {
		t.Errorf("GroupHistory() order = %s, %s, want newest first", history[0].RunDate, history[1].RunDate)
	}
}

func TestSQLiteStoreUpsertSameDay(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.now = fixedDay("2026-03-01")

	items := []model.ItemHistoryRecord{
		{GroupName: "milk", ItemKey: "onlinestore:9", ItemName: "Lettmelk", UnitPrice: 22.0, Price: 22.0, Store: "Oda"},
	}
	if err := store.RecordRun(ctx, record("milk", "Lettmelk", "Oda", 22.0), items); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	items[0].UnitPrice = 19.9
	if err := store.RecordRun(ctx, record("milk", "Lettmelk", "Oda", 19.9), items); err != nil {
		t.Fatalf("RecordRun() rerun error = %v", err)
	}

	history, err := store.GroupHistory(ctx, "milk")
	if err != nil {
		t.Fatalf("GroupHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("GroupHistory() len = %d, want 1 after same-day rerun", len(history))
	}
	if history[0].BestPrice != 19.9 {
		t.Errorf("BestPrice = %v, want latest value 19.9", history[0].BestPrice)
	}
}

func TestSQLiteStoreGroupsAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.now = fixedDay("2026-03-01")

	if err := store.RecordRun(ctx, record("milk", "Lettmelk", "Oda", 22.0), nil); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	if _, ok, err := store.AllTimeBest(ctx, "chicken"); err != nil || ok {
		t.Errorf("AllTimeBest(chicken) = ok %v, err %v, want no rows", ok, err)
	}
}
