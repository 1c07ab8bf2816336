package careerdomain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Range multipliers applied to the projected final salary.
var (
	MinMultiplier    = decimal.RequireFromString("0.8")
	MedianMultiplier = decimal.NewFromInt(1)
	P75Multiplier    = decimal.RequireFromString("1.1")
	P90Multiplier    = decimal.RequireFromString("1.15")
	MaxMultiplier    = decimal.RequireFromString("1.2")
)

var twelve = decimal.NewFromInt(12)

// SalaryRange brackets the projected salary.
type SalaryRange struct {
	Min    decimal.Decimal `json:"min"`
	Median decimal.Decimal `json:"median"`
	P75    decimal.Decimal `json:"p75"`
	P90    decimal.Decimal `json:"p90"`
	Max    decimal.Decimal `json:"max"`
}

// TimelinePoint is the projected end-of-scenario salary after the decision
// at Month has been applied. Month 0 with an empty label is the start.
type TimelinePoint struct {
	Month  int             `json:"month"`
	Label  string          `json:"label,omitempty"`
	Salary decimal.Decimal `json:"salary"`
}

// Projection is the result of Project.
type Projection struct {
	StartingSalary decimal.Decimal `json:"starting_salary"`
	FinalSalary    decimal.Decimal `json:"final_salary"`
	Range          SalaryRange     `json:"range"`
	Timeline       []TimelinePoint `json:"timeline"`
}

// Project applies each decision in month order: the immediate change first,
// then growth over the months left until the scenario ends. Amounts are
// rounded to cents only in the returned projection.
func Project(s Scenario) (Projection, error) {
	if err := s.Validate(); err != nil {
		return Projection{}, err
	}

	decisions := make([]Decision, len(s.Decisions))
	copy(decisions, s.Decisions)
	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].MonthOffset < decisions[j].MonthOffset
	})

	salary := s.StartingSalary
	timeline := make([]TimelinePoint, 0, len(decisions)+1)
	timeline = append(timeline, TimelinePoint{Month: 0, Salary: cents(salary)})

	for _, d := range decisions {
		salary = salary.Add(salary.Mul(d.ImmediateChange))

		monthsUntilEnd := max(s.DurationMonths-d.MonthOffset, 0)
		years := decimal.NewFromInt(int64(monthsUntilEnd)).Div(twelve)
		salary = salary.Add(salary.Mul(d.GrowthRate).Mul(years))

		timeline = append(timeline, TimelinePoint{Month: d.MonthOffset, Label: d.Label, Salary: cents(salary)})
	}

	return Projection{
		StartingSalary: cents(s.StartingSalary),
		FinalSalary:    cents(salary),
		Range: SalaryRange{
			Min:    cents(salary.Mul(MinMultiplier)),
			Median: cents(salary.Mul(MedianMultiplier)),
			P75:    cents(salary.Mul(P75Multiplier)),
			P90:    cents(salary.Mul(P90Multiplier)),
			Max:    cents(salary.Mul(MaxMultiplier)),
		},
		Timeline: timeline,
	}, nil
}

func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
