package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memo caches CostRecipe results keyed by the recipe contents, the catalog
// version and the hourly rate. A hit returns the same breakdown a fresh call
// would produce.
type Memo struct {
	cache *cache.Cache
}

// NewMemo creates a memo whose entries expire after ttl.
func NewMemo(ttl time.Duration) *Memo {
	return &Memo{cache: cache.New(ttl, 2*ttl)}
}

// CostRecipe returns the breakdown for r and whether it was served from cache.
func (m *Memo) CostRecipe(r Recipe, c Catalog, hourlyRate float64) (CostBreakdown, bool) {
	key, err := memoKey(r, c, hourlyRate)
	if err != nil {
		return CostRecipe(r, c, hourlyRate), false
	}

	if v, ok := m.cache.Get(key); ok {
		return cloneBreakdown(v.(CostBreakdown)), true
	}

	b := CostRecipe(r, c, hourlyRate)
	m.cache.SetDefault(key, cloneBreakdown(b))
	return b, false
}

// Len returns the number of cached entries, including expired ones not yet evicted.
func (m *Memo) Len() int {
	return m.cache.ItemCount()
}

// Flush drops every cached entry.
func (m *Memo) Flush() {
	m.cache.Flush()
}

func memoKey(r Recipe, c Catalog, hourlyRate float64) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte(c.Version()))
	writeFloat(h, hourlyRate)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func cloneBreakdown(b CostBreakdown) CostBreakdown {
	if b.Warnings != nil {
		b.Warnings = append([]Warning(nil), b.Warnings...)
	}
	return b
}
