package ephemeris

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ppiankov/rectifica/internal/cache"
	"github.com/ppiankov/rectifica/internal/model"
)

// Memoized wraps a provider with a cache layer. Positions are a pure
// function of the instant and the provider configuration, so cached entries
// never go stale; TTLs only bound storage growth.
type Memoized struct {
	inner       Provider
	cache       cache.Cache
	fingerprint string // identifies the provider configuration (ayanamsa model)
}

// NewMemoized wraps the provider with the given cache. The fingerprint must
// change whenever the provider configuration changes, or persisted entries
// from a different ayanamsa setting would be served.
func NewMemoized(inner Provider, c cache.Cache, fingerprint string) *Memoized {
	return &Memoized{inner: inner, cache: c, fingerprint: fingerprint}
}

// Positions returns cached positions when available, computing and storing
// them otherwise
func (m *Memoized) Positions(in model.Instant) ([]model.PlanetaryPosition, error) {
	if !in.Resolved {
		return nil, fmt.Errorf("%w: instant has no resolved UTC offset", model.ErrInvalidInstant)
	}

	key := cache.Key(m.fingerprint, strconv.FormatInt(in.UTC().UnixNano(), 10))

	if data, found := m.cache.Get(key); found {
		var positions []model.PlanetaryPosition
		if err := json.Unmarshal(data, &positions); err == nil {
			return positions, nil
		}
		// Corrupt entry: fall through and recompute
		_ = m.cache.Delete(key)
	}

	positions, err := m.inner.Positions(in)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(positions); err == nil {
		_ = m.cache.Set(key, data, 0)
	}

	return positions, nil
}
