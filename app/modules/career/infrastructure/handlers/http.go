package careerhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	authhandlers "github.com/hirelane/engage/app/modules/auth/infrastructure/handlers"
	careerservice "github.com/hirelane/engage/app/modules/career/application"
	careerdomain "github.com/hirelane/engage/app/modules/career/domain"
	"github.com/hirelane/engage/app/shared"
	"github.com/shopspring/decimal"
)

// CareerHTTPHandlers implements HTTPHandlers.
type CareerHTTPHandlers struct {
	service careerservice.Service
	logger  *slog.Logger
}

// NewHTTPHandlers creates the career HTTP handlers.
func NewHTTPHandlers(service careerservice.Service, logger *slog.Logger) HTTPHandlers {
	return &CareerHTTPHandlers{service: service, logger: logger}
}

// Amounts and rates travel as decimal strings so no precision is lost.

type DecisionView struct {
	Label           string `json:"label,omitempty"`
	MonthOffset     int    `json:"month_offset" minimum:"0"`
	ImmediateChange string `json:"immediate_change,omitempty" doc:"Fraction, e.g. 0.1 for a 10% raise"`
	GrowthRate      string `json:"growth_rate,omitempty" doc:"Annual growth fraction"`
}

type ScenarioView struct {
	ID             string         `json:"id"`
	UserID         int64          `json:"user_id"`
	Title          string         `json:"title"`
	StartingSalary string         `json:"starting_salary"`
	DurationMonths int            `json:"duration_months"`
	Decisions      []DecisionView `json:"decisions"`
	CreatedAt      time.Time      `json:"created_at"`
}

type TimelinePointView struct {
	Month  int    `json:"month"`
	Label  string `json:"label,omitempty"`
	Salary string `json:"salary"`
}

type ProjectionView struct {
	StartingSalary string              `json:"starting_salary"`
	FinalSalary    string              `json:"final_salary"`
	Range          map[string]string   `json:"range"`
	Timeline       []TimelinePointView `json:"timeline"`
}

type CreateScenarioInput struct {
	Body struct {
		UserID         int64          `json:"user_id,omitempty" doc:"Defaults to the caller"`
		Title          string         `json:"title" minLength:"1"`
		StartingSalary string         `json:"starting_salary"`
		DurationMonths int            `json:"duration_months" minimum:"1" maximum:"600"`
		Decisions      []DecisionView `json:"decisions,omitempty"`
	}
}

type ScenarioOutput struct {
	Body ScenarioView
}

type ScenarioIDInput struct {
	ID string `path:"id" format:"uuid"`
}

type UserInput struct {
	UserID int64 `path:"userId" minimum:"1"`
}

type ScenariosOutput struct {
	Body struct {
		Scenarios []ScenarioView `json:"scenarios"`
	}
}

type ProjectionOutput struct {
	Body struct {
		Scenario   ScenarioView   `json:"scenario"`
		Projection ProjectionView `json:"projection"`
	}
}

type ChartOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// Register adds the career routes to api.
func (h *CareerHTTPHandlers) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-career-scenario",
		Method:        http.MethodPost,
		Path:          "/api/career/scenarios",
		Summary:       "Create a career scenario",
		Tags:          []string{"Career"},
		DefaultStatus: http.StatusCreated,
	}, h.HandleCreateScenario, authhandlers.Secured())

	huma.Register(api, huma.Operation{
		OperationID: "get-career-scenario",
		Method:      http.MethodGet,
		Path:        "/api/career/scenarios/{id}",
		Summary:     "Get a career scenario",
		Tags:        []string{"Career"},
	}, h.HandleGetScenario, authhandlers.Secured())

	huma.Register(api, huma.Operation{
		OperationID: "list-user-career-scenarios",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/career/scenarios",
		Summary:     "List a user's career scenarios",
		Tags:        []string{"Career"},
	}, h.HandleListScenarios, authhandlers.Secured())

	huma.Register(api, huma.Operation{
		OperationID: "project-career-scenario",
		Method:      http.MethodGet,
		Path:        "/api/career/scenarios/{id}/projection",
		Summary:     "Project the salary outcome of a scenario",
		Tags:        []string{"Career"},
	}, h.HandleProjectScenario, authhandlers.Secured())

	huma.Register(api, huma.Operation{
		OperationID: "chart-career-scenario",
		Method:      http.MethodGet,
		Path:        "/api/career/scenarios/{id}/chart",
		Summary:     "Render the projection as a PNG chart",
		Tags:        []string{"Career"},
	}, h.HandleChart, authhandlers.Secured())
}

func (h *CareerHTTPHandlers) HandleCreateScenario(ctx context.Context, input *CreateScenarioInput) (*ScenarioOutput, error) {
	userID := input.Body.UserID
	if userID == 0 {
		claims, ok := authhandlers.ClaimsFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}
		userID = claims.UserID
	}
	if err := authhandlers.RequireActFor(ctx, userID); err != nil {
		return nil, err
	}

	scenario, err := scenarioFromInput(userID, input)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	created, err := h.service.CreateScenario(ctx, scenario)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	return &ScenarioOutput{Body: toScenarioView(*created)}, nil
}

func scenarioFromInput(userID int64, input *CreateScenarioInput) (careerdomain.Scenario, error) {
	salary, err := decimal.NewFromString(input.Body.StartingSalary)
	if err != nil {
		return careerdomain.Scenario{}, fmt.Errorf("starting_salary: %w", err)
	}
	scenario := careerdomain.Scenario{
		UserID:         userID,
		Title:          input.Body.Title,
		StartingSalary: salary,
		DurationMonths: input.Body.DurationMonths,
		Decisions:      make([]careerdomain.Decision, 0, len(input.Body.Decisions)),
	}
	for i, d := range input.Body.Decisions {
		immediate, err := parseRate(d.ImmediateChange)
		if err != nil {
			return scenario, fmt.Errorf("decisions[%d].immediate_change: %w", i, err)
		}
		growth, err := parseRate(d.GrowthRate)
		if err != nil {
			return scenario, fmt.Errorf("decisions[%d].growth_rate: %w", i, err)
		}
		scenario.Decisions = append(scenario.Decisions, careerdomain.Decision{
			Label:           d.Label,
			MonthOffset:     d.MonthOffset,
			ImmediateChange: immediate,
			GrowthRate:      growth,
		})
	}
	return scenario, nil
}

func parseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (h *CareerHTTPHandlers) HandleGetScenario(ctx context.Context, input *ScenarioIDInput) (*ScenarioOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("career scenario not found")
	}
	scenario, err := h.service.GetScenario(ctx, id)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	if err := authhandlers.RequireActFor(ctx, scenario.UserID); err != nil {
		return nil, err
	}
	return &ScenarioOutput{Body: toScenarioView(*scenario)}, nil
}

func (h *CareerHTTPHandlers) HandleListScenarios(ctx context.Context, input *UserInput) (*ScenariosOutput, error) {
	if err := authhandlers.RequireActFor(ctx, input.UserID); err != nil {
		return nil, err
	}
	scenarios, err := h.service.ListScenarios(ctx, input.UserID)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &ScenariosOutput{}
	out.Body.Scenarios = make([]ScenarioView, 0, len(scenarios))
	for _, s := range scenarios {
		out.Body.Scenarios = append(out.Body.Scenarios, toScenarioView(s))
	}
	return out, nil
}

func (h *CareerHTTPHandlers) HandleProjectScenario(ctx context.Context, input *ScenarioIDInput) (*ProjectionOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("career scenario not found")
	}
	projected, err := h.service.ProjectScenario(ctx, id)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	if err := authhandlers.RequireActFor(ctx, projected.Scenario.UserID); err != nil {
		return nil, err
	}

	p := projected.Projection
	out := &ProjectionOutput{}
	out.Body.Scenario = toScenarioView(projected.Scenario)
	out.Body.Projection = ProjectionView{
		StartingSalary: p.StartingSalary.StringFixed(2),
		FinalSalary:    p.FinalSalary.StringFixed(2),
		Range: map[string]string{
			"min":    p.Range.Min.StringFixed(2),
			"median": p.Range.Median.StringFixed(2),
			"p75":    p.Range.P75.StringFixed(2),
			"p90":    p.Range.P90.StringFixed(2),
			"max":    p.Range.Max.StringFixed(2),
		},
		Timeline: make([]TimelinePointView, 0, len(p.Timeline)),
	}
	for _, pt := range p.Timeline {
		out.Body.Projection.Timeline = append(out.Body.Projection.Timeline, TimelinePointView{
			Month:  pt.Month,
			Label:  pt.Label,
			Salary: pt.Salary.StringFixed(2),
		})
	}
	return out, nil
}

func (h *CareerHTTPHandlers) HandleChart(ctx context.Context, input *ScenarioIDInput) (*ChartOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("career scenario not found")
	}
	chart, err := h.service.ProjectionChart(ctx, id)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	if err := authhandlers.RequireActFor(ctx, chart.UserID); err != nil {
		return nil, err
	}
	return &ChartOutput{ContentType: "image/png", Body: chart.PNG}, nil
}

func (h *CareerHTTPHandlers) toHTTPError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, careerdomain.ErrScenarioNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, careerdomain.ErrInvalidScenario):
		return huma.Error422UnprocessableEntity(err.Error())
	case shared.IsStorageError(err):
		h.logger.ErrorContext(ctx, "Career storage unavailable", attr.Error(err))
		return huma.Error503ServiceUnavailable("career storage unavailable")
	default:
		h.logger.ErrorContext(ctx, "Career request failed", attr.Error(err))
		return huma.Error500InternalServerError("internal error")
	}
}

func toScenarioView(s careerdomain.Scenario) ScenarioView {
	view := ScenarioView{
		ID:             s.ID.String(),
		UserID:         s.UserID,
		Title:          s.Title,
		StartingSalary: s.StartingSalary.StringFixed(2),
		DurationMonths: s.DurationMonths,
		Decisions:      make([]DecisionView, 0, len(s.Decisions)),
		CreatedAt:      s.CreatedAt,
	}
	for _, d := range s.Decisions {
		view.Decisions = append(view.Decisions, DecisionView{
			Label:           d.Label,
			MonthOffset:     d.MonthOffset,
			ImmediateChange: d.ImmediateChange.String(),
			GrowthRate:      d.GrowthRate.String(),
		})
	}
	return view
}
