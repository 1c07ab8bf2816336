package leaderboarddomain

import (
	"fmt"
	"strings"
	"time"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
)

// Scope selects which achievement data feeds a leaderboard.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeCategory Scope = "category"
	ScopeTier     Scope = "tier"
	ScopeWindowed Scope = "windowed"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeCategory, ScopeTier, ScopeWindowed:
		return true
	}
	return false
}

// Timeframe is either all-time or bounded by a window.
type Timeframe string

const (
	TimeframeAllTime  Timeframe = "all_time"
	TimeframeWindowed Timeframe = "windowed"
)

// Valid reports whether t is a known timeframe.
func (t Timeframe) Valid() bool {
	return t == TimeframeAllTime || t == TimeframeWindowed
}

// Definition is one ranking view over achievement records.
type Definition struct {
	ID             int64                         `json:"id"`
	Name           string                        `json:"name"`
	Scope          Scope                         `json:"scope"`
	CategoryFilter *achievementdomain.CategoryID `json:"category_filter,omitempty"`
	TierFilter     achievementdomain.Tier        `json:"tier_filter,omitempty"`
	Timeframe      Timeframe                     `json:"timeframe"`
	WindowStart    *time.Time                    `json:"window_start,omitempty"`
	WindowEnd      *time.Time                    `json:"window_end,omitempty"`
	Active         bool                          `json:"active"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

// Windowed reports whether the definition only counts records unlocked
// inside its window.
func (d Definition) Windowed() bool {
	return d.Scope == ScopeWindowed || d.Timeframe == TimeframeWindowed
}

// Validate checks the definition is internally consistent.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if !d.Scope.Valid() {
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidDefinition, d.Scope)
	}
	if !d.Timeframe.Valid() {
		return fmt.Errorf("%w: unknown timeframe %q", ErrInvalidDefinition, d.Timeframe)
	}
	if d.CategoryFilter != nil {
		if _, err := achievementdomain.ParseCategoryID(string(*d.CategoryFilter)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
	}
	if d.TierFilter != achievementdomain.TierNone && !d.TierFilter.Valid() {
		return fmt.Errorf("%w: unknown tier filter", ErrInvalidDefinition)
	}

	switch d.Scope {
	case ScopeCategory:
		if d.CategoryFilter == nil {
			return fmt.Errorf("%w: category scope needs a category filter", ErrInvalidDefinition)
		}
	case ScopeTier:
		if d.TierFilter == achievementdomain.TierNone {
			return fmt.Errorf("%w: tier scope needs a tier filter", ErrInvalidDefinition)
		}
	}

	if d.Windowed() {
		if d.WindowStart == nil || d.WindowEnd == nil {
			return fmt.Errorf("%w: windowed leaderboards need a start and an end", ErrInvalidDefinition)
		}
		if !d.WindowStart.Before(*d.WindowEnd) {
			return fmt.Errorf("%w: window start must be before window end", ErrInvalidDefinition)
		}
	}
	return nil
}

// Includes reports whether a record passes the category and window filters.
// The tier filter is applied after grouping, in Summarize.
func (d Definition) Includes(r achievementdomain.Record) bool {
	if d.CategoryFilter != nil && r.Category != *d.CategoryFilter {
		return false
	}
	if d.Windowed() {
		if d.WindowStart == nil || d.WindowEnd == nil {
			return false
		}
		if r.UnlockedAt.Before(*d.WindowStart) || !r.UnlockedAt.Before(*d.WindowEnd) {
			return false
		}
	}
	return true
}
