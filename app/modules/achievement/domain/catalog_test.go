package achievementdomain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualify_ThresholdBoundaries(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name  string
		value float64
		want  Tier
	}{
		{"below bronze", 49, TierNone},
		{"exactly bronze", 50, TierBronze},
		{"between bronze and silver", 74.9, TierBronze},
		{"exactly silver", 75, TierSilver},
		{"just below gold", 89, TierSilver},
		{"exactly gold", 90, TierGold},
		{"exactly platinum", 100, TierPlatinum},
		{"above platinum", 250, TierPlatinum},
		{"zero", 0, TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Qualify(CategoryProfileCompletion, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQualify_Errors(t *testing.T) {
	catalog := DefaultCatalog()

	_, err := catalog.Qualify("mood_tracker", 10)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := catalog.Qualify(CategorySkillBuilder, v)
		assert.ErrorIs(t, err, ErrInvalidMetric, "value %v", v)
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	missing := DefaultCategories()[1:]

	duplicate := append(DefaultCategories(), DefaultCategories()[0])

	unknown := append(DefaultCategories(), Category{ID: "interview_prep", Name: "Interview Prep"})

	nonIncreasing := DefaultCategories()
	nonIncreasing[0].Thresholds[TierGold] = 75

	missingTier := DefaultCategories()
	delete(missingTier[2].Thresholds, TierPlatinum)

	negative := DefaultCategories()
	negative[3].Thresholds[TierBronze] = -1

	tests := []struct {
		name       string
		categories []Category
	}{
		{"missing category", missing},
		{"duplicate category", duplicate},
		{"unknown category", unknown},
		{"non-increasing thresholds", nonIncreasing},
		{"missing tier threshold", missingTier},
		{"negative threshold", negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.categories)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	categories := DefaultCategories()
	catalog, err := NewCatalog(categories)
	require.NoError(t, err)

	categories[0].Thresholds[TierBronze] = 1
	cat, err := catalog.Category(CategoryProfileCompletion)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cat.Thresholds[TierBronze])

	cat.Thresholds[TierBronze] = 2
	tier, err := catalog.Qualify(CategoryProfileCompletion, 2)
	require.NoError(t, err)
	assert.Equal(t, TierNone, tier)
}

func TestCatalog_WithOverrides(t *testing.T) {
	base := DefaultCatalog()

	tuned, err := base.WithOverrides(map[CategoryID]map[Tier]float64{
		CategoryApplicationMilestone: {TierBronze: 2},
	})
	require.NoError(t, err)

	tier, err := tuned.Qualify(CategoryApplicationMilestone, 2)
	require.NoError(t, err)
	assert.Equal(t, TierBronze, tier)

	tier, err = base.Qualify(CategoryApplicationMilestone, 2)
	require.NoError(t, err)
	assert.Equal(t, TierNone, tier)

	_, err = base.WithOverrides(map[CategoryID]map[Tier]float64{
		CategoryApplicationMilestone: {TierSilver: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = base.WithOverrides(map[CategoryID]map[Tier]float64{"unknown": {TierBronze: 1}})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides(map[string]map[string]float64{
		"skill_builder": {"Bronze": 2, "gold": 12},
	})
	require.NoError(t, err)
	assert.Equal(t, map[CategoryID]map[Tier]float64{
		CategorySkillBuilder: {TierBronze: 2, TierGold: 12},
	}, got)

	_, err = ParseOverrides(map[string]map[string]float64{"skill_builder": {"diamond": 1}})
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = ParseOverrides(map[string]map[string]float64{"skill_builder": {"none": 1}})
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = ParseOverrides(map[string]map[string]float64{"karma": {"gold": 1}})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestTier_OrderAndText(t *testing.T) {
	tiers := AllTiers()
	for i := 1; i < len(tiers); i++ {
		if !(tiers[i] > tiers[i-1]) {
			t.Fatalf("tiers not ascending at %d: %s <= %s", i, tiers[i], tiers[i-1])
		}
	}

	b, err := json.Marshal(map[string]Tier{"tier": TierGold})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"gold"}`, string(b))

	var decoded struct {
		Tier Tier `json:"tier"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"tier":"Platinum"}`), &decoded))
	assert.Equal(t, TierPlatinum, decoded.Tier)

	err = json.Unmarshal([]byte(`{"tier":"diamond"}`), &decoded)
	assert.True(t, errors.Is(err, ErrUnknownTier))
}

func TestBuildProgress(t *testing.T) {
	records := []Record{
		{UserID: 1, Category: CategoryApplicationMilestone, Tier: TierBronze},
		{UserID: 1, Category: CategoryApplicationMilestone, Tier: TierSilver},
		{UserID: 1, Category: CategoryProfileCompletion, Tier: TierPlatinum},
	}

	progress := BuildProgress(DefaultCatalog(), records)
	require.Len(t, progress, len(AllCategories()))

	byID := make(map[CategoryID]Progress)
	for _, p := range progress {
		byID[p.Category] = p
	}

	assert.Equal(t, TierSilver, byID[CategoryApplicationMilestone].CurrentTier)
	assert.Equal(t, TierGold, byID[CategoryApplicationMilestone].NextTier)
	assert.Equal(t, 30.0, byID[CategoryApplicationMilestone].NextThreshold)

	assert.True(t, byID[CategoryProfileCompletion].Completed)

	assert.Equal(t, TierNone, byID[CategorySkillBuilder].CurrentTier)
	assert.Equal(t, TierBronze, byID[CategorySkillBuilder].NextTier)
	assert.Equal(t, 3.0, byID[CategorySkillBuilder].NextThreshold)
}

func TestHighestTierByCategory(t *testing.T) {
	records := []Record{
		{Category: CategoryProfileCompletion, Tier: TierGold},
		{Category: CategoryProfileCompletion, Tier: TierBronze},
		{Category: CategorySkillBuilder, Tier: TierBronze},
	}
	assert.Equal(t, map[CategoryID]Tier{
		CategoryProfileCompletion: TierGold,
		CategorySkillBuilder:      TierBronze,
	}, HighestTierByCategory(records))
	assert.Equal(t, TierGold, HighestTier(records))
	assert.Equal(t, TierNone, HighestTier(nil))
}
