package config

import (
	"errors"
	"fmt"
)

var validBaseUnits = map[string]bool{
	"kilogram": true,
	"liter":    true,
	"piece":    true,
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return errors.New("at least one group is required")
	}

	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("groups[%d].name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group name %q", g.Name)
		}
		seen[g.Name] = true
		if !validBaseUnits[g.BaseUnit] {
			return fmt.Errorf("groups[%d].base_unit must be kilogram, liter or piece, got %q", i, g.BaseUnit)
		}
		if g.Threshold < 0 {
			return fmt.Errorf("groups[%d].threshold cannot be negative", i)
		}
		if g.TopN < 1 {
			return fmt.Errorf("groups[%d].top_n must be >= 1", i)
		}
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.Pipeline.MergeTolerance < 0 {
		return errors.New("pipeline.merge_tolerance cannot be negative")
	}
	if c.Pipeline.PriceDropRatio <= 0 || c.Pipeline.PriceDropRatio >= 1 {
		return fmt.Errorf("pipeline.price_drop_ratio must be in (0, 1), got %v", c.Pipeline.PriceDropRatio)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
