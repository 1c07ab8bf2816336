package careerdomain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func scenario(decisions ...Decision) Scenario {
	return Scenario{
		ID:             uuid.New(),
		UserID:         1,
		Title:          "Senior track",
		StartingSalary: dec("100000"),
		DurationMonths: 24,
		Decisions:      decisions,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestProject(t *testing.T) {
	t.Run("no decisions keeps the starting salary", func(t *testing.T) {
		p, err := Project(scenario())
		require.NoError(t, err)
		assertDecimal(t, "100000", p.FinalSalary)
		assertDecimal(t, "80000", p.Range.Min)
		assertDecimal(t, "120000", p.Range.Max)
		require.Len(t, p.Timeline, 1)
	})

	t.Run("immediate change then prorated growth", func(t *testing.T) {
		// 100000 * 1.10 = 110000; growth 6% over 12 remaining months = 116600
		p, err := Project(scenario(Decision{Label: "Promotion", MonthOffset: 12, ImmediateChange: dec("0.10"), GrowthRate: dec("0.06")}))
		require.NoError(t, err)
		assertDecimal(t, "116600", p.FinalSalary)
		assertDecimal(t, "93280", p.Range.Min)
		assertDecimal(t, "116600", p.Range.Median)
		assertDecimal(t, "128260", p.Range.P75)
		assertDecimal(t, "134090", p.Range.P90)
		assertDecimal(t, "139920", p.Range.Max)
	})

	t.Run("decisions apply in month order", func(t *testing.T) {
		// month 0: growth 12% over 24 months -> 124000
		// month 18: -10% -> 111600; growth 0 -> 111600
		late := Decision{Label: "Career switch", MonthOffset: 18, ImmediateChange: dec("-0.10")}
		early := Decision{Label: "Upskill", MonthOffset: 0, GrowthRate: dec("0.12")}
		p, err := Project(scenario(late, early))
		require.NoError(t, err)
		assertDecimal(t, "111600", p.FinalSalary)
		require.Len(t, p.Timeline, 3)
		assert.Equal(t, "Upskill", p.Timeline[1].Label)
		assert.Equal(t, "Career switch", p.Timeline[2].Label)
		assert.True(t, p.Timeline[2].Salary.Equal(p.FinalSalary))
	})

	t.Run("decision at the end adds no growth", func(t *testing.T) {
		p, err := Project(scenario(Decision{MonthOffset: 24, ImmediateChange: dec("0.05"), GrowthRate: dec("0.50")}))
		require.NoError(t, err)
		assertDecimal(t, "105000", p.FinalSalary)
	})

	t.Run("rounds to cents", func(t *testing.T) {
		s := scenario(Decision{MonthOffset: 0, ImmediateChange: dec("0.033333")})
		s.StartingSalary = dec("1000.005")
		p, err := Project(s)
		require.NoError(t, err)
		assert.LessOrEqual(t, -p.FinalSalary.Exponent(), int32(2))
	})

	t.Run("does not reorder the caller's decisions", func(t *testing.T) {
		s := scenario(Decision{Label: "b", MonthOffset: 5}, Decision{Label: "a", MonthOffset: 1})
		_, err := Project(s)
		require.NoError(t, err)
		assert.Equal(t, "b", s.Decisions[0].Label)
	})
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Scenario)
	}{
		{name: "missing user", mutate: func(s *Scenario) { s.UserID = 0 }},
		{name: "blank title", mutate: func(s *Scenario) { s.Title = "  " }},
		{name: "zero salary", mutate: func(s *Scenario) { s.StartingSalary = decimal.Zero }},
		{name: "negative salary", mutate: func(s *Scenario) { s.StartingSalary = dec("-1") }},
		{name: "zero duration", mutate: func(s *Scenario) { s.DurationMonths = 0 }},
		{name: "duration too long", mutate: func(s *Scenario) { s.DurationMonths = MaxDurationMonths + 1 }},
		{name: "offset past end", mutate: func(s *Scenario) { s.Decisions = []Decision{{MonthOffset: 25}} }},
		{name: "negative offset", mutate: func(s *Scenario) { s.Decisions = []Decision{{MonthOffset: -1}} }},
		{name: "salary wiped out", mutate: func(s *Scenario) { s.Decisions = []Decision{{ImmediateChange: dec("-1")}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scenario()
			tt.mutate(&s)
			err := s.Validate()
			assert.True(t, errors.Is(err, ErrInvalidScenario), "got %v", err)
			_, err = Project(s)
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}

	assert.NoError(t, scenario(Decision{MonthOffset: 24, ImmediateChange: dec("-0.99")}).Validate())
}
