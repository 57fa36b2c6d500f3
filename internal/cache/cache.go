package cache

import (
	"sync"
	"time"

	"github.com/Glx28/billigst-mat/internal/model"
)

// OfferCache is the thread-safe per-run offer store.
type OfferCache struct {
	mu sync.RWMutex

	// Offers indexed by the search term they were fetched for.
	bySearch map[string][]*model.Offer

	// Last successful fetch timestamp per search term.
	fetchedAt map[string]time.Time
}

// New returns an empty offer cache.
func New() *OfferCache {
	return &OfferCache{
		bySearch:  make(map[string][]*model.Offer),
		fetchedAt: make(map[string]time.Time),
	}
}

// Put stores the offers fetched for a search term, replacing any
// previous entry. The cache keeps its own copy.
func (c *OfferCache) Put(term string, offers []*model.Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bySearch[term] = model.CloneAll(offers)
	c.fetchedAt[term] = time.Now()
}

// Get returns a deep copy of the offers for a search term.
func (c *OfferCache) Get(term string) ([]*model.Offer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	offers, ok := c.bySearch[term]
	if !ok {
		return nil, false
	}
	return model.CloneAll(offers), true
}

// Append merges additional offers into an existing search term entry.
func (c *OfferCache) Append(term string, offers []*model.Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bySearch[term] = append(c.bySearch[term], model.CloneAll(offers)...)
	c.fetchedAt[term] = time.Now()
}

// Terms returns the search terms that have cached results.
func (c *OfferCache) Terms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	terms := make([]string, 0, len(c.bySearch))
	for term := range c.bySearch {
		terms = append(terms, term)
	}
	return terms
}

// FetchedAt returns when a search term was last stored.
func (c *OfferCache) FetchedAt(term string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ts, ok := c.fetchedAt[term]
	return ts, ok
}
