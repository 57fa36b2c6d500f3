package config

import "time"

// Config is the root configuration for a billigst-mat run.
type Config struct {
	Groups   []GroupConfig  `yaml:"groups"`
	Notify   NotifyConfig   `yaml:"notify"`
	Database DatabaseConfig `yaml:"database"`
	Sources  SourcesConfig  `yaml:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// GroupConfig defines one product group (leaderboard category).
type GroupConfig struct {
	Name            string   `yaml:"name"`
	DisplayName     string   `yaml:"display_name"`
	BaseUnit        string   `yaml:"base_unit"` // kilogram, liter or piece
	SearchTerms     []string `yaml:"search_terms"`
	IncludeAny      []string `yaml:"include_any"`
	Exclude         []string `yaml:"exclude"`
	ExcludeCategory []string `yaml:"exclude_category"`
	Threshold       float64  `yaml:"threshold"` // alert threshold in kr/base_unit, 0 = none
	TopN            int      `yaml:"top_n"`     // leaderboard length, 0 = notify default
}

// NotifyConfig holds email digest settings.
type NotifyConfig struct {
	TopN int        `yaml:"top_n"` // default leaderboard length
	SMTP SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds the outgoing mail server connection.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// DatabaseConfig selects and configures the price history backend.
type DatabaseConfig struct {
	Driver     string   `yaml:"driver"`      // "sqlite" or "postgres"
	SQLitePath string   `yaml:"sqlite_path"` // path to the sqlite file
	Postgres   DBConfig `yaml:"postgres"`
}

// DBConfig holds a PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SourcesConfig holds per-source fetcher settings.
type SourcesConfig struct {
	Etilbudsavis EtilbudsavisConfig `yaml:"etilbudsavis"`
	Kassal       KassalConfig       `yaml:"kassal"`

	// StoreLinksPath points to the online store links file. Each section
	// header like [oda] starts a store, following lines are category URLs.
	StoreLinksPath string `yaml:"store_links_path"`

	Timeout time.Duration `yaml:"timeout"` // per-request HTTP timeout
}

// EtilbudsavisConfig holds Tjek squid API settings.
type EtilbudsavisConfig struct {
	APIKey string `yaml:"api_key"`
	Lat    string `yaml:"lat"`    // geo latitude for offer search
	Lng    string `yaml:"lng"`    // geo longitude
	Radius string `yaml:"radius"` // search radius in metres
}

// KassalConfig holds kassal.app API settings.
type KassalConfig struct {
	Token string `yaml:"token"`
}

// PipelineConfig holds alerting policy constants. The defaults match the
// behavior the alert history was built with; changing them changes alerting
// behavior silently.
type PipelineConfig struct {
	// MergeTolerance is the absolute price distance (kr) within which
	// cross-store offers count as tied winners.
	MergeTolerance float64 `yaml:"merge_tolerance"`

	// PriceDropRatio is the previous-best multiplier below which a
	// price_drop trigger fires (0.9 = a >10% drop).
	PriceDropRatio float64 `yaml:"price_drop_ratio"`

	// NewBestEpsilon guards the all-time-best comparison against float
	// noise.
	NewBestEpsilon float64 `yaml:"new_best_epsilon"`
}
