package achievementdomain

import (
	"fmt"
	"maps"
	"math"
	"strings"
)

// CategoryID identifies an achievement category. The set is closed; see
// AllCategories.
type CategoryID string

const (
	CategoryProfileCompletion    CategoryID = "profile_completion"
	CategoryApplicationMilestone CategoryID = "application_milestone"
	CategoryJobPostingMilestone  CategoryID = "job_posting_milestone"
	CategoryShortlistMilestone   CategoryID = "shortlist_milestone"
	CategorySkillBuilder         CategoryID = "skill_builder"
)

// AllCategories returns every category id in display order. A catalog must
// define each of them.
func AllCategories() []CategoryID {
	return []CategoryID{
		CategoryProfileCompletion,
		CategoryApplicationMilestone,
		CategoryJobPostingMilestone,
		CategoryShortlistMilestone,
		CategorySkillBuilder,
	}
}

// ParseCategoryID validates s against the closed set.
func ParseCategoryID(s string) (CategoryID, error) {
	id := CategoryID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories() {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Audience is the side of the marketplace a category is meant for.
type Audience string

const (
	AudienceSeeker   Audience = "seeker"
	AudienceEmployer Audience = "employer"
)

// Category is the static definition of an achievement category.
type Category struct {
	ID          CategoryID
	Name        string
	Description string
	Audience    Audience
	Unit        string
	Thresholds  map[Tier]float64
}

// Threshold returns the minimum metric value for t.
func (c Category) Threshold(t Tier) (float64, bool) {
	v, ok := c.Thresholds[t]
	return v, ok
}

func (c Category) clone() Category {
	c.Thresholds = maps.Clone(c.Thresholds)
	return c
}

func (c Category) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: category %s has no name", ErrInvalidCatalog, c.ID)
	}
	prev := math.Inf(-1)
	for _, t := range AllTiers() {
		v, ok := c.Thresholds[t]
		if !ok {
			return fmt.Errorf("%w: category %s has no %s threshold", ErrInvalidCatalog, c.ID, t)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: category %s %s threshold %v is not a non-negative number", ErrInvalidCatalog, c.ID, t, v)
		}
		if v <= prev {
			return fmt.Errorf("%w: category %s %s threshold %v does not exceed the previous tier", ErrInvalidCatalog, c.ID, t, v)
		}
		prev = v
	}
	for t := range c.Thresholds {
		if !t.Valid() {
			return fmt.Errorf("%w: category %s has threshold for %s", ErrInvalidCatalog, c.ID, t)
		}
	}
	return nil
}

// DefaultCategories returns the built-in category definitions.
func DefaultCategories() []Category {
	return []Category{
		{
			ID:          CategoryProfileCompletion,
			Name:        "Profile Completion",
			Description: "Fill in your profile to stand out to employers.",
			Audience:    AudienceSeeker,
			Unit:        "percent",
			Thresholds:  map[Tier]float64{TierBronze: 50, TierSilver: 75, TierGold: 90, TierPlatinum: 100},
		},
		{
			ID:          CategoryApplicationMilestone,
			Name:        "Application Milestone",
			Description: "Apply to jobs that match your goals.",
			Audience:    AudienceSeeker,
			Unit:        "applications",
			Thresholds:  map[Tier]float64{TierBronze: 5, TierSilver: 15, TierGold: 30, TierPlatinum: 50},
		},
		{
			ID:          CategoryJobPostingMilestone,
			Name:        "Job Posting Milestone",
			Description: "Publish openings to reach candidates.",
			Audience:    AudienceEmployer,
			Unit:        "postings",
			Thresholds:  map[Tier]float64{TierBronze: 1, TierSilver: 5, TierGold: 15, TierPlatinum: 30},
		},
		{
			ID:          CategoryShortlistMilestone,
			Name:        "Shortlist Milestone",
			Description: "Shortlist applicants for your openings.",
			Audience:    AudienceEmployer,
			Unit:        "shortlisted applications",
			Thresholds:  map[Tier]float64{TierBronze: 3, TierSilver: 10, TierGold: 25, TierPlatinum: 50},
		},
		{
			ID:          CategorySkillBuilder,
			Name:        "Skill Builder",
			Description: "Add the skills you bring to the table.",
			Audience:    AudienceSeeker,
			Unit:        "skills",
			Thresholds:  map[Tier]float64{TierBronze: 3, TierSilver: 5, TierGold: 10, TierPlatinum: 20},
		},
	}
}
