package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Glx28/billigst-mat/internal/cache"
	"github.com/Glx28/billigst-mat/internal/config"
	"github.com/Glx28/billigst-mat/internal/history"
	"github.com/Glx28/billigst-mat/internal/model"
	"github.com/Glx28/billigst-mat/internal/notify"
	"github.com/Glx28/billigst-mat/internal/pipeline"
	"github.com/Glx28/billigst-mat/internal/preview"
	"github.com/Glx28/billigst-mat/internal/rank"
	"github.com/Glx28/billigst-mat/internal/source/coop"
	"github.com/Glx28/billigst-mat/internal/source/etilbudsavis"
	"github.com/Glx28/billigst-mat/internal/source/kassal"
	"github.com/Glx28/billigst-mat/internal/source/ngdata"
	"github.com/Glx28/billigst-mat/internal/source/oda"
	"github.com/Glx28/billigst-mat/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/groups.yaml", "path to config file")
	mode := flag.String("mode", "normal", "run mode: normal or holdbart")
	dryRun := flag.Bool("dry-run", false, "skip liveness checks, email and snapshot")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *mode != "normal" && *mode != "holdbart" {
		logger.Error("invalid mode", "mode", *mode)
		os.Exit(1)
	}

	runID := model.NewRunID()
	logger = logger.With("run_id", runID)
	slog.SetDefault(logger)
	logger.Info("starting billigst-mat",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"mode", *mode,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		"groups", len(cfg.Groups),
		"db_driver", cfg.Database.Driver,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	store, err := history.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(ctx, cfg, store, *mode, *dryRun, runID, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("billigst-mat finished")
}

func run(ctx context.Context, cfg *config.Config, store history.Store, mode string, dryRun bool, runID model.RunID, logger *slog.Logger) error {
	etClient, err := newEtilbudsavisClient(cfg.Sources, logger)
	if err != nil {
		return err
	}

	detector := rank.NewDetector(store, rank.Policy{
		NewBestEpsilon: cfg.Pipeline.NewBestEpsilon,
		PriceDropRatio: cfg.Pipeline.PriceDropRatio,
	}, logger)

	var validator pipeline.Validator
	if !dryRun {
		validator = kassal.NewValidator(logger)
	}
	processor := pipeline.NewProcessor(detector, validator, cfg.Pipeline, cfg.Notify.TopN, logger)

	var holdbartPool []*model.Offer
	termCache := cache.New()
	if mode == "holdbart" {
		logger.Info("holdbart mode: fetching catalog offers")
		raws, err := etClient.HoldbartOffers(ctx)
		if err != nil {
			logger.Error("holdbart catalog fetch failed", "error", err)
		}
		holdbartPool = etilbudsavis.ToOffers(raws)
		logger.Info("holdbart catalog fetched", "offers", len(holdbartPool))
	} else {
		fetchTerms(ctx, cfg, etClient, termCache, logger)
	}

	var onlineOffers []*model.Offer
	if mode == "normal" {
		onlineOffers = fetchOnlineStores(ctx, cfg.Sources, logger)
	}

	var results []*pipeline.GroupResult
	var allTriggers []model.Trigger
	for _, group := range cfg.Groups {
		offers := groupOffers(group, mode, termCache, onlineOffers, holdbartPool)
		result, err := processor.ProcessGroup(ctx, group, offers)
		if err != nil {
			return fmt.Errorf("process group %s: %w", group.Name, err)
		}
		results = append(results, result)
		allTriggers = append(allTriggers, result.Triggers...)
	}

	pipeline.SortResults(results)
	promos := pipeline.CollectPromos(results)

	printSummary(results, allTriggers, promos)

	subject := notify.Subject(len(allTriggers))
	if mode == "holdbart" {
		best := notify.HoldbartBest(results)
		if len(best) == 0 {
			logger.Info("holdbart mode: no holdbart product is #1, skipping email")
			fmt.Println("ℹ️  Holdbart: ingen produkter er billigst i noen kategori — ingen e-post sendt.")
			return nil
		}
		logger.Info("holdbart tops categories", "count", len(best))
		fmt.Println("🏷️  Holdbart er billigst i:")
		for _, line := range best {
			fmt.Println(line)
		}
		subject = notify.HoldbartSubject(len(best))
	}

	snapshot := preview.FromResults(runID, results, allTriggers, promos)

	if dryRun {
		logger.Info("dry run: skipping email and snapshot")
		return nil
	}

	shouldSend := true
	if mode == "holdbart" && !preview.Changed(preview.DefaultPath, snapshot, logger) {
		shouldSend = false
		logger.Info("holdbart content unchanged, skipping email")
		fmt.Println("✅ Holdbart-innhold uendret siden forrige kjøring — e-post ikke sendt.")
	}

	if shouldSend {
		if err := sendDigest(ctx, cfg.Notify.SMTP, subject, results, allTriggers, promos, logger); err != nil {
			return err
		}
	}

	if err := snapshot.Save(preview.DefaultPath); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("saved run snapshot", "path", preview.DefaultPath)
	return nil
}

func newEtilbudsavisClient(src config.SourcesConfig, logger *slog.Logger) (*etilbudsavis.Client, error) {
	lat, err := strconv.ParseFloat(src.Etilbudsavis.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse etilbudsavis lat: %w", err)
	}
	lng, err := strconv.ParseFloat(src.Etilbudsavis.Lng, 64)
	if err != nil {
		return nil, fmt.Errorf("parse etilbudsavis lng: %w", err)
	}
	radius, err := strconv.Atoi(src.Etilbudsavis.Radius)
	if err != nil {
		return nil, fmt.Errorf("parse etilbudsavis radius: %w", err)
	}
	return etilbudsavis.NewClient(src.Etilbudsavis.APIKey, lat, lng, radius,
		etilbudsavis.WithTimeout(src.Timeout),
		etilbudsavis.WithLogger(logger),
	), nil
}

// fetchTerms fills the shared term cache with catalog and kassal search
// results. Each unique search term across all groups is fetched once.
func fetchTerms(ctx context.Context, cfg *config.Config, etClient *etilbudsavis.Client, termCache *cache.OfferCache, logger *slog.Logger) {
	var kassalClient *kassal.Client
	if cfg.Sources.Kassal.Token != "" {
		kassalClient = kassal.NewClient(cfg.Sources.Kassal.Token, kassal.WithLogger(logger))
	}

	seen := make(map[string]bool)
	for _, group := range cfg.Groups {
		for _, term := range group.SearchTerms {
			if seen[term] {
				continue
			}
			seen[term] = true

			raws, err := etClient.SearchOffers(ctx, term, etilbudsavis.SearchOptions{})
			if err != nil {
				logger.Error("etilbudsavis search failed", "term", term, "error", err)
			} else {
				termCache.Put(term, etilbudsavis.ToOffers(raws))
			}

			if kassalClient == nil {
				continue
			}
			offers, err := kassalClient.Search(ctx, term, 20)
			if err != nil {
				logger.Error("kassal search failed", "term", term, "error", err)
				continue
			}
			termCache.Append(term, offers)
		}
	}
	logger.Info("search terms fetched", "terms", len(termCache.Terms()))
}

// fetchOnlineStores scrapes the configured online store category pages:
// Meny, Spar and Joker through the ngdata API, coop.no weekly offers and
// Oda product listings. Results are shared by every group.
func fetchOnlineStores(ctx context.Context, src config.SourcesConfig, logger *slog.Logger) []*model.Offer {
	var offers []*model.Offer

	links, err := config.LoadStoreLinks(src.StoreLinksPath)
	if err != nil {
		logger.Error("failed to load store links", "error", err)
		links = map[string][]string{}
	}

	var ngURLs []string
	for _, store := range []string{"meny", "spar", "joker"} {
		ngURLs = append(ngURLs, links[store]...)
	}
	if len(ngURLs) > 0 {
		ng := ngdata.NewClient(ngdata.WithLogger(logger))
		fetched, err := ng.FetchURLs(ctx, ngURLs)
		if err != nil {
			logger.Error("ngdata fetch failed", "error", err)
		}
		offers = append(offers, fetched...)
	}

	offers = append(offers, coop.NewScraper(logger).ScrapeAll()...)

	if odaURLs := links["oda"]; len(odaURLs) > 0 {
		offers = append(offers, oda.NewScraper(logger).ScrapePages(ctx, odaURLs)...)
	}

	logger.Info("online stores fetched", "offers", len(offers))
	return offers
}

// groupOffers assembles the raw offer pool for one group from the shared
// caches. Holdbart offers only participate in holdbart mode.
func groupOffers(group config.GroupConfig, mode string, termCache *cache.OfferCache, online, holdbart []*model.Offer) []*model.Offer {
	if mode == "holdbart" {
		return pipeline.FilterStores(holdbart, nil, []string{"holdbart"})
	}

	var offers []*model.Offer
	for _, term := range group.SearchTerms {
		if cached, ok := termCache.Get(term); ok {
			offers = append(offers, cached...)
		}
	}
	offers = append(offers, online...)
	return pipeline.FilterStores(offers, []string{"holdbart"}, nil)
}

func printSummary(results []*pipeline.GroupResult, triggers []model.Trigger, promos []*model.Offer) {
	rule := strings.Repeat("=", 60)
	fmt.Println("\n" + rule)
	for _, r := range results {
		fmt.Println(r.Leaderboard)
	}

	if len(triggers) > 0 {
		fmt.Println("🔔 Triggers:")
		for _, t := range triggers {
			fmt.Printf("  • [%s] %s\n", t.Type, t.Message)
		}
	} else {
		fmt.Println("✅ Ingen nye varsler.")
	}

	if len(promos) > 0 {
		fmt.Println("\n🏷️  Spesialtilbud:")
		for _, o := range promos {
			fmt.Println(notify.PromoLine(o))
		}
	}
	fmt.Println(rule + "\n")
}

func sendDigest(ctx context.Context, smtp config.SMTPConfig, subject string, results []*pipeline.GroupResult, triggers []model.Trigger, promos []*model.Offer, logger *slog.Logger) error {
	body := notify.BuildText(results, triggers)

	if !notify.Configured(smtp) {
		logger.Warn("email not configured, skipping send")
		fmt.Println("\n--- EMAIL PREVIEW (not sent) ---")
		fmt.Println("Subject: " + subject)
		fmt.Println(body)
		fmt.Println("--- END PREVIEW ---")
		return nil
	}

	html, err := notify.BuildHTML(results, triggers, promos)
	if err != nil {
		return err
	}

	mailer, err := notify.NewSMTPMailer(smtp)
	if err != nil {
		return err
	}
	if err := mailer.Send(ctx, subject, body, html); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	logger.Info("email sent", "to", smtp.To, "triggers", len(triggers))
	return nil
}
