package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTopN           = 5
	DefaultSMTPPort       = 587
	DefaultDBDriver       = "sqlite"
	DefaultSQLitePath     = "data/price_history.db"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 1
	DefaultSourceTimeout  = 30 * time.Second
	DefaultGeoLat         = "59.9139" // Oslo
	DefaultGeoLng         = "10.7522"
	DefaultGeoRadius      = "30000" // 30 km
	DefaultMergeTolerance = 0.1
	DefaultPriceDropRatio = 0.9
	DefaultNewBestEpsilon = 0.01
)

func (c *Config) applyDefaults() {
	// Notify defaults
	if c.Notify.TopN == 0 {
		c.Notify.TopN = DefaultTopN
	}
	if c.Notify.SMTP.Port == 0 {
		c.Notify.SMTP.Port = DefaultSMTPPort
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDBDriver
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = DefaultSQLitePath
	}
	if c.Database.Postgres.Port == 0 {
		c.Database.Postgres.Port = DefaultDBPort
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Database.Postgres.MaxConns == 0 {
		c.Database.Postgres.MaxConns = DefaultMaxConns
	}
	if c.Database.Postgres.MinConns == 0 {
		c.Database.Postgres.MinConns = DefaultMinConns
	}

	// Source defaults
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = DefaultSourceTimeout
	}
	if c.Sources.Etilbudsavis.Lat == "" {
		c.Sources.Etilbudsavis.Lat = DefaultGeoLat
	}
	if c.Sources.Etilbudsavis.Lng == "" {
		c.Sources.Etilbudsavis.Lng = DefaultGeoLng
	}
	if c.Sources.Etilbudsavis.Radius == "" {
		c.Sources.Etilbudsavis.Radius = DefaultGeoRadius
	}

	// Pipeline policy defaults
	if c.Pipeline.MergeTolerance == 0 {
		c.Pipeline.MergeTolerance = DefaultMergeTolerance
	}
	if c.Pipeline.PriceDropRatio == 0 {
		c.Pipeline.PriceDropRatio = DefaultPriceDropRatio
	}
	if c.Pipeline.NewBestEpsilon == 0 {
		c.Pipeline.NewBestEpsilon = DefaultNewBestEpsilon
	}

	// Per-group defaults
	for i := range c.Groups {
		g := &c.Groups[i]
		if g.DisplayName == "" {
			g.DisplayName = g.Name
		}
		if g.BaseUnit == "" {
			g.BaseUnit = "kilogram"
		}
		if g.TopN == 0 {
			g.TopN = c.Notify.TopN
		}
	}
}
