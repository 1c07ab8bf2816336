package leaderboarddomain

import (
	"fmt"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
)

// TierWeights maps each tier to the points it contributes to a score.
type TierWeights map[achievementdomain.Tier]int

// DefaultTierWeights returns bronze 1, silver 2, gold 3, platinum 4.
func DefaultTierWeights() TierWeights {
	return TierWeights{
		achievementdomain.TierBronze:   1,
		achievementdomain.TierSilver:   2,
		achievementdomain.TierGold:     3,
		achievementdomain.TierPlatinum: 4,
	}
}

// Weight returns the weight for t, zero for TierNone.
func (w TierWeights) Weight(t achievementdomain.Tier) int {
	return w[t]
}

// Validate requires a non-negative, non-decreasing weight for every tier.
func (w TierWeights) Validate() error {
	prev := 0
	for _, tier := range achievementdomain.AllTiers() {
		weight, ok := w[tier]
		if !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidWeights, tier)
		}
		if weight < 0 {
			return fmt.Errorf("%w: negative weight for %s", ErrInvalidWeights, tier)
		}
		if weight < prev {
			return fmt.Errorf("%w: weight for %s is lower than the tier below it", ErrInvalidWeights, tier)
		}
		prev = weight
	}
	return nil
}

// ParseTierWeights overlays config values keyed by tier name on the defaults.
func ParseTierWeights(raw map[string]int) (TierWeights, error) {
	weights := DefaultTierWeights()
	for name, v := range raw {
		tier, err := achievementdomain.ParseTier(name)
		if err != nil || tier == achievementdomain.TierNone {
			return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidWeights, name)
		}
		weights[tier] = v
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}
