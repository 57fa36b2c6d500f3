// Command history dumps the stored price history for one product group.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/history"
)

func main() {
	configPath := flag.String("config", "configs/groups.yaml", "path to config file")
	group := flag.String("group", "", "product group to dump")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if *group == "" {
		fmt.Fprintln(os.Stderr, "usage: history -group <name> [-config <path>]")
		os.Exit(2)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := history.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.GroupHistory(ctx, *group)
	if err != nil {
		logger.Error("failed to read history", "group", *group, "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Printf("no history for group %q\n", *group)
		return
	}

	fmt.Printf("%-12s %10s %-8s %-24s %s\n", "DATE", "BEST", "UNIT", "STORE", "ITEM")
	for _, r := range records {
		fmt.Printf("%-12s %10.2f %-8s %-24s %s\n",
			r.RunDate, r.BestPrice, r.UnitLabel, r.BestStore, r.BestItem)
	}

	if best, ok, err := store.AllTimeBest(ctx, *group); err != nil {
		logger.Error("failed to read all-time best", "error", err)
	} else if ok {
		fmt.Printf("\nall-time best: %.2f %s\n", best, records[0].UnitLabel)
	}
	if prev, err := store.PreviousBest(ctx, *group); err != nil {
		logger.Error("failed to read previous best", "error", err)
	} else if prev != nil {
		fmt.Printf("previous best: %.2f %s on %s (%s @ %s)\n",
			prev.BestPrice, prev.UnitLabel, prev.RunDate, prev.BestItem, prev.BestStore)
	}
}
