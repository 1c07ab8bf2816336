package careerdb

import (
	"time"

	"github.com/google/uuid"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// CareerScenario is the persisted form of careerdomain.Scenario.
type CareerScenario struct {
	bun.BaseModel `bun:"table:career_scenarios,alias:cs"`

	ID             uuid.UUID               `bun:"id,pk,type:uuid"`
	UserID         int64                   `bun:"user_id,notnull"`
	Title          string                  `bun:"title,notnull"`
	StartingSalary decimal.Decimal         `bun:"starting_salary,type:numeric(14,2),notnull"`
	DurationMonths int                     `bun:"duration_months,notnull"`
	Decisions      []careerdomain.Decision `bun:"decisions,type:jsonb,notnull"`
	CreatedAt      time.Time               `bun:"created_at,notnull,default:current_timestamp"`
}

func (m *CareerScenario) toDomain() careerdomain.Scenario {
	decisions := m.Decisions
	if decisions == nil {
		decisions = []careerdomain.Decision{}
	}
	return careerdomain.Scenario{
		ID:             m.ID,
		UserID:         m.UserID,
		Title:          m.Title,
		StartingSalary: m.StartingSalary,
		DurationMonths: m.DurationMonths,
		Decisions:      decisions,
		CreatedAt:      m.CreatedAt,
	}
}

func fromDomain(s *careerdomain.Scenario) *CareerScenario {
	decisions := s.Decisions
	if decisions == nil {
		decisions = []careerdomain.Decision{}
	}
	return &CareerScenario{
		ID:             s.ID,
		UserID:         s.UserID,
		Title:          s.Title,
		StartingSalary: s.StartingSalary,
		DurationMonths: s.DurationMonths,
		Decisions:      decisions,
		CreatedAt:      s.CreatedAt,
	}
}
