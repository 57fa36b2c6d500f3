package etilbudsavis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SearchOptions controls offer search pagination.
type SearchOptions struct {
	Limit  int // Page size, defaults to 50
	Offset int
}

// SearchOffers searches catalog offers matching the query near the
// configured location. Offers outside their validity window are dropped;
// offers with missing or unparseable dates are kept.
func (c *Client) SearchOffers(ctx context.Context, query string, opts SearchOptions) ([]RawOffer, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("r_lat", formatCoord(c.lat))
	params.Set("r_lng", formatCoord(c.lng))
	params.Set("r_radius", strconv.Itoa(c.radius))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(opts.Offset))
	params.Set("order_by", "-score")

	var offers []RawOffer
	if err := c.get(ctx, "/offers/search", params, &offers); err != nil {
		return nil, fmt.Errorf("search offers %q: %w", query, err)
	}

	now := time.Now().UTC()
	valid := make([]RawOffer, 0, len(offers))
	for _, o := range offers {
		if o.currentlyValid(now) {
			valid = append(valid, o)
		}
	}

	c.logger.Info("catalog search complete",
		"query", query,
		"total", len(offers),
		"valid", len(valid),
	)
	return valid, nil
}

// HoldbartOffers fetches all offers from the active Holdbart catalog.
// Holdbart products often carry generic names that term search misses,
// so the whole catalog is pulled instead.
func (c *Client) HoldbartOffers(ctx context.Context) ([]RawOffer, error) {
	params := url.Values{}
	params.Set("r_lat", formatCoord(c.lat))
	params.Set("r_lng", formatCoord(c.lng))
	params.Set("r_radius", strconv.Itoa(holdbartRadius))
	params.Set("dealer_ids", HoldbartDealerID)

	var catalogs []RawCatalog
	if err := c.get(ctx, "/catalogs", params, &catalogs); err != nil {
		return nil, fmt.Errorf("list holdbart catalogs: %w", err)
	}

	if len(catalogs) == 0 {
		c.logger.Warn("no active holdbart catalog found")
		return nil, nil
	}

	// The first entry is the most recent catalog.
	catalogID := catalogs[0].ID
	c.logger.Info("holdbart catalog found", "catalog_id", catalogID)

	params = url.Values{}
	params.Set("catalog_ids", catalogID)
	params.Set("r_lat", formatCoord(c.lat))
	params.Set("r_lng", formatCoord(c.lng))
	params.Set("r_radius", strconv.Itoa(holdbartRadius))
	params.Set("limit", "100")

	var offers []RawOffer
	if err := c.get(ctx, "/offers", params, &offers); err != nil {
		return nil, fmt.Errorf("fetch holdbart catalog %s: %w", catalogID, err)
	}

	c.logger.Info("holdbart catalog fetched",
		"catalog_id", catalogID,
		"offers", len(offers),
	)
	return offers, nil
}

func (o *RawOffer) currentlyValid(now time.Time) bool {
	from, err := parseTime(o.RunFrom)
	if err != nil {
		return true
	}
	till, err := parseTime(o.RunTill)
	if err != nil {
		return true
	}
	return !now.Before(from) && !now.After(till)
}

// parseTime accepts the timestamp variants the API emits.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
		"2006-01-02",
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
