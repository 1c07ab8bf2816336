package achievementdomain

import (
	"fmt"
	"math"
)

// Catalog is an immutable, validated set of category definitions.
type Catalog struct {
	categories map[CategoryID]Category
}

// NewCatalog validates categories and builds a catalog. Every id from
// AllCategories must appear exactly once and thresholds must be
// non-negative and strictly increasing from bronze to platinum.
func NewCatalog(categories []Category) (*Catalog, error) {
	known := make(map[CategoryID]bool, len(AllCategories()))
	for _, id := range AllCategories() {
		known[id] = true
	}

	byID := make(map[CategoryID]Category, len(categories))
	for _, c := range categories {
		if !known[c.ID] {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidCatalog, ErrUnknownCategory, c.ID)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: category %s defined twice", ErrInvalidCatalog, c.ID)
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		byID[c.ID] = c.clone()
	}

	for _, id := range AllCategories() {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: category %s is not defined", ErrInvalidCatalog, id)
		}
	}

	return &Catalog{categories: byID}, nil
}

// DefaultCatalog returns the catalog built from DefaultCategories.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCategories())
	if err != nil {
		panic(err)
	}
	return c
}

// WithOverrides returns a new catalog with the given thresholds replaced.
// Tiers not named in an override keep their current threshold.
func (c *Catalog) WithOverrides(overrides map[CategoryID]map[Tier]float64) (*Catalog, error) {
	categories := c.Categories()
	for id := range overrides {
		if _, ok := c.categories[id]; !ok {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidCatalog, ErrUnknownCategory, id)
		}
	}
	for i, cat := range categories {
		for tier, v := range overrides[cat.ID] {
			categories[i].Thresholds[tier] = v
		}
	}
	return NewCatalog(categories)
}

// Category returns the definition for id.
func (c *Catalog) Category(id CategoryID) (Category, error) {
	cat, ok := c.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	return cat.clone(), nil
}

// Categories returns copies of every category in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, id := range AllCategories() {
		out = append(out, c.categories[id].clone())
	}
	return out
}

// Qualify returns the highest tier whose threshold is at or below value,
// or TierNone when value is below the bronze threshold.
func (c *Catalog) Qualify(id CategoryID, value float64) (Tier, error) {
	cat, ok := c.categories[id]
	if !ok {
		return TierNone, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return TierNone, fmt.Errorf("%w: %v", ErrInvalidMetric, value)
	}

	tiers := AllTiers()
	for i := len(tiers) - 1; i >= 0; i-- {
		if cat.Thresholds[tiers[i]] <= value {
			return tiers[i], nil
		}
	}
	return TierNone, nil
}

// NextTier returns the tier above current and its threshold. ok is false
// once current is platinum.
func (c *Catalog) NextTier(id CategoryID, current Tier) (next Tier, threshold float64, ok bool) {
	cat, found := c.categories[id]
	if !found || current >= TierPlatinum {
		return TierNone, 0, false
	}
	next = current + 1
	return next, cat.Thresholds[next], true
}

// ParseOverrides converts config threshold overrides keyed by name.
func ParseOverrides(raw map[string]map[string]float64) (map[CategoryID]map[Tier]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[CategoryID]map[Tier]float64, len(raw))
	for rawID, tiers := range raw {
		id, err := ParseCategoryID(rawID)
		if err != nil {
			return nil, err
		}
		out[id] = make(map[Tier]float64, len(tiers))
		for rawTier, v := range tiers {
			t, err := ParseTier(rawTier)
			if err != nil {
				return nil, err
			}
			if !t.Valid() {
				return nil, fmt.Errorf("%w: %q", ErrUnknownTier, rawTier)
			}
			out[id][t] = v
		}
	}
	return out, nil
}
