package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	"github.com/shopspring/decimal"
)

// TestDataGenerator builds realistic fixtures from a seeded faker so runs
// are reproducible.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator, seeded from the clock when no
// seed is given.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s))}
}

// UserIDs returns count distinct positive user ids.
func (g *TestDataGenerator) UserIDs(count int) []int64 {
	seen := make(map[int64]struct{}, count)
	out := make([]int64, 0, count)
	for len(out) < count {
		id := int64(g.faker.IntRange(1, 1_000_000))
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Scenario returns a valid career scenario with a few decisions.
func (g *TestDataGenerator) Scenario(userID int64) careerdomain.Scenario {
	duration := g.faker.IntRange(12, 120)
	decisions := make([]careerdomain.Decision, g.faker.IntRange(1, 4))
	for i := range decisions {
		decisions[i] = careerdomain.Decision{
			Label:           g.faker.JobTitle(),
			MonthOffset:     g.faker.IntRange(0, duration),
			ImmediateChange: decimal.NewFromInt(int64(g.faker.IntRange(0, 20))).Div(decimal.NewFromInt(100)),
			GrowthRate:      decimal.NewFromInt(int64(g.faker.IntRange(0, 8))).Div(decimal.NewFromInt(100)),
		}
	}
	return careerdomain.Scenario{
		UserID:         userID,
		Title:          g.faker.JobTitle() + " path",
		StartingSalary: decimal.NewFromInt(int64(g.faker.IntRange(40, 160)) * 1000),
		DurationMonths: duration,
		Decisions:      decisions,
	}
}
