package achievementhandlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/danielgtaylor/huma/v2"
	achievementservice "github.com/hirelane/engage/app/modules/achievement/application"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	authdomain "github.com/hirelane/engage/app/modules/auth/domain"
	authhandlers "github.com/hirelane/engage/app/modules/auth/infrastructure/handlers"
	"github.com/hirelane/engage/app/shared"
)

// AchievementHTTPHandlers implements HTTPHandlers.
type AchievementHTTPHandlers struct {
	service achievementservice.Service
	logger  *slog.Logger
}

// NewHTTPHandlers creates the achievement HTTP handlers.
func NewHTTPHandlers(service achievementservice.Service, logger *slog.Logger) HTTPHandlers {
	return &AchievementHTTPHandlers{service: service, logger: logger}
}

type CategoryView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Audience    string             `json:"audience"`
	Unit        string             `json:"unit"`
	Thresholds  map[string]float64 `json:"thresholds"`
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []CategoryView `json:"categories"`
	}
}

type RecordView struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Category   string    `json:"category"`
	Tier       string    `json:"tier"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type UserInput struct {
	UserID int64 `path:"userId" minimum:"1" doc:"User id"`
}

type UserAchievementsOutput struct {
	Body struct {
		Achievements []RecordView `json:"achievements"`
	}
}

type UserProgressOutput struct {
	Body struct {
		Progress []achievementdomain.Progress `json:"progress"`
	}
}

type EvaluateInput struct {
	Body struct {
		UserID   int64   `json:"user_id" minimum:"1"`
		Category string  `json:"category" doc:"Achievement category id"`
		Value    float64 `json:"value" minimum:"0" doc:"Current raw metric value"`
	}
}

type EvaluateOutput struct {
	Status int
	Body   struct {
		Unlocked bool        `json:"unlocked"`
		Record   *RecordView `json:"record,omitempty"`
	}
}

// Register adds the achievement routes to api.
func (h *AchievementHTTPHandlers) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-achievement-categories",
		Method:      http.MethodGet,
		Path:        "/api/achievements/categories",
		Summary:     "List achievement categories and thresholds",
		Tags:        []string{"Achievements"},
	}, h.HandleListCategories)

	huma.Register(api, huma.Operation{
		OperationID: "get-user-achievements",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/achievements",
		Summary:     "List a user's unlocked tiers",
		Tags:        []string{"Achievements"},
	}, h.HandleGetUserAchievements, authhandlers.Secured())

	huma.Register(api, huma.Operation{
		OperationID: "get-user-achievement-progress",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/achievements/progress",
		Summary:     "Show progress towards the next tier per category",
		Tags:        []string{"Achievements"},
	}, h.HandleGetUserProgress, authhandlers.Secured())

	huma.Register(api, huma.Operation{
		OperationID: "evaluate-achievement",
		Method:      http.MethodPost,
		Path:        "/api/achievements/evaluate",
		Summary:     "Evaluate a metric value for a user",
		Tags:        []string{"Achievements"},
	}, h.HandleEvaluate, authhandlers.Secured(authdomain.RoleAdmin, authdomain.RoleService))
}

func (h *AchievementHTTPHandlers) HandleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	out := &ListCategoriesOutput{}
	for _, c := range h.service.ListCategories(ctx) {
		view := CategoryView{
			ID:          string(c.ID),
			Name:        c.Name,
			Description: c.Description,
			Audience:    string(c.Audience),
			Unit:        c.Unit,
			Thresholds:  make(map[string]float64, len(c.Thresholds)),
		}
		for tier, v := range c.Thresholds {
			view.Thresholds[tier.String()] = v
		}
		out.Body.Categories = append(out.Body.Categories, view)
	}
	return out, nil
}

func (h *AchievementHTTPHandlers) HandleGetUserAchievements(ctx context.Context, input *UserInput) (*UserAchievementsOutput, error) {
	if err := authhandlers.RequireActFor(ctx, input.UserID); err != nil {
		return nil, err
	}
	records, err := h.service.GetUserAchievements(ctx, input.UserID)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &UserAchievementsOutput{}
	out.Body.Achievements = make([]RecordView, 0, len(records))
	for _, r := range records {
		out.Body.Achievements = append(out.Body.Achievements, toView(r))
	}
	return out, nil
}

func (h *AchievementHTTPHandlers) HandleGetUserProgress(ctx context.Context, input *UserInput) (*UserProgressOutput, error) {
	if err := authhandlers.RequireActFor(ctx, input.UserID); err != nil {
		return nil, err
	}
	progress, err := h.service.GetUserCategoryProgress(ctx, input.UserID)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &UserProgressOutput{}
	out.Body.Progress = progress
	return out, nil
}

func (h *AchievementHTTPHandlers) HandleEvaluate(ctx context.Context, input *EvaluateInput) (*EvaluateOutput, error) {
	record, err := h.service.Evaluate(ctx, input.Body.UserID, achievementdomain.CategoryID(input.Body.Category), input.Body.Value)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}

	out := &EvaluateOutput{Status: http.StatusOK}
	if record != nil {
		view := toView(*record)
		out.Status = http.StatusCreated
		out.Body.Unlocked = true
		out.Body.Record = &view
	}
	return out, nil
}

func (h *AchievementHTTPHandlers) toHTTPError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, achievementdomain.ErrUnknownCategory), errors.Is(err, achievementdomain.ErrInvalidMetric):
		return huma.Error422UnprocessableEntity(err.Error())
	case shared.IsStorageError(err):
		h.logger.ErrorContext(ctx, "Achievement storage unavailable", attr.Error(err))
		return huma.Error503ServiceUnavailable("achievement storage unavailable")
	default:
		h.logger.ErrorContext(ctx, "Achievement request failed", attr.Error(err))
		return huma.Error500InternalServerError("internal error")
	}
}

func toView(r achievementdomain.Record) RecordView {
	return RecordView{
		ID:         r.ID,
		UserID:     r.UserID,
		Category:   string(r.Category),
		Tier:       r.Tier.String(),
		UnlockedAt: r.UnlockedAt,
	}
}
