package careerdomain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxDurationMonths bounds a scenario to fifty years.
const MaxDurationMonths = 600

// Decision is one career move. ImmediateChange and GrowthRate are fractions:
// 0.15 is a 15% raise, 0.03 is 3% annual growth.
type Decision struct {
	Label           string          `json:"label"`
	MonthOffset     int             `json:"month_offset"`
	ImmediateChange decimal.Decimal `json:"immediate_change"`
	GrowthRate      decimal.Decimal `json:"growth_rate"`
}

// Scenario is a what-if salary plan owned by a user.
type Scenario struct {
	ID             uuid.UUID       `json:"id"`
	UserID         int64           `json:"user_id"`
	Title          string          `json:"title"`
	StartingSalary decimal.Decimal `json:"starting_salary"`
	DurationMonths int             `json:"duration_months"`
	Decisions      []Decision      `json:"decisions"`
	CreatedAt      time.Time       `json:"created_at"`
}

var minusOne = decimal.NewFromInt(-1)

// Validate checks the scenario can be projected.
func (s Scenario) Validate() error {
	if s.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidScenario)
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidScenario)
	}
	if !s.StartingSalary.IsPositive() {
		return fmt.Errorf("%w: starting salary must be positive", ErrInvalidScenario)
	}
	if s.DurationMonths < 1 || s.DurationMonths > MaxDurationMonths {
		return fmt.Errorf("%w: duration must be between 1 and %d months", ErrInvalidScenario, MaxDurationMonths)
	}
	for i, d := range s.Decisions {
		if d.MonthOffset < 0 || d.MonthOffset > s.DurationMonths {
			return fmt.Errorf("%w: decision %d month offset %d is outside the scenario", ErrInvalidScenario, i, d.MonthOffset)
		}
		if d.ImmediateChange.LessThanOrEqual(minusOne) {
			return fmt.Errorf("%w: decision %d immediate change must be greater than -1", ErrInvalidScenario, i)
		}
	}
	return nil
}
