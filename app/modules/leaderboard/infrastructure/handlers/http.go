package leaderboardhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/danielgtaylor/huma/v2"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	authdomain "github.com/hirelane/engage/app/modules/auth/domain"
	authhandlers "github.com/hirelane/engage/app/modules/auth/infrastructure/handlers"
	leaderboardservice "github.com/hirelane/engage/app/modules/leaderboard/application"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	"github.com/hirelane/engage/app/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LeaderboardHTTPHandlers implements HTTPHandlers.
type LeaderboardHTTPHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewHTTPHandlers creates the leaderboard HTTP handlers. clock anchors
// relative window expressions such as "next monday".
func NewHTTPHandlers(service leaderboardservice.Service, clock shared.Clock, logger *slog.Logger) HTTPHandlers {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &LeaderboardHTTPHandlers{service: service, logger: logger, now: clock.Now}
}

type DefinitionsOutput struct {
	Body struct {
		Leaderboards []leaderboarddomain.Definition `json:"leaderboards"`
	}
}

type ListDefinitionsInput struct {
	ActiveOnly bool `query:"active" default:"true" doc:"Only list active leaderboards"`
}

type CreateDefinitionInput struct {
	Body struct {
		Name           string `json:"name" minLength:"1"`
		Scope          string `json:"scope" enum:"global,category,tier,windowed"`
		CategoryFilter string `json:"category_filter,omitempty"`
		TierFilter     string `json:"tier_filter,omitempty" doc:"Minimum tier: bronze, silver, gold or platinum"`
		Timeframe      string `json:"timeframe,omitempty" enum:"all_time,windowed"`
		WindowStart    string `json:"window_start,omitempty" doc:"RFC3339, YYYY-MM-DD or a phrase like 'last monday'"`
		WindowEnd      string `json:"window_end,omitempty"`
	}
}

type DefinitionOutput struct {
	Body leaderboarddomain.Definition
}

type LeaderboardIDInput struct {
	ID int64 `path:"id" minimum:"1"`
}

type SetActiveInput struct {
	ID   int64 `path:"id" minimum:"1"`
	Body struct {
		Active bool `json:"active"`
	}
}

type EntriesInput struct {
	ID     int64 `path:"id" minimum:"1"`
	Limit  int   `query:"limit" doc:"Page size; 0 uses the default"`
	Offset int   `query:"offset"`
}

type EntriesOutput struct {
	Body struct {
		Entries []leaderboarddomain.Entry `json:"entries"`
	}
}

type AcceptedOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

type RebuildOutput struct {
	Body struct {
		Users int `json:"users"`
	}
}

type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type UserInput struct {
	UserID int64 `path:"userId" minimum:"1"`
}

type UserScoresOutput struct {
	Body struct {
		Entries []leaderboarddomain.Entry `json:"entries"`
	}
}

type StandingsOutput struct {
	Body struct {
		Standings []leaderboardservice.Standing `json:"standings"`
	}
}

// Register adds the leaderboard routes to api.
func (h *LeaderboardHTTPHandlers) Register(api huma.API) {
	admin := authhandlers.Secured(authdomain.RoleAdmin)

	huma.Register(api, huma.Operation{
		OperationID: "list-leaderboards",
		Method:      http.MethodGet,
		Path:        "/api/leaderboards",
		Summary:     "List leaderboard definitions",
		Tags:        []string{"Leaderboards"},
	}, h.HandleListDefinitions)

	huma.Register(api, huma.Operation{
		OperationID:   "create-leaderboard",
		Method:        http.MethodPost,
		Path:          "/api/leaderboards",
		Summary:       "Create a leaderboard definition",
		Tags:          []string{"Leaderboards"},
		DefaultStatus: http.StatusCreated,
	}, h.HandleCreateDefinition, admin)

	huma.Register(api, huma.Operation{
		OperationID: "set-leaderboard-active",
		Method:      http.MethodPatch,
		Path:        "/api/leaderboards/{id}/active",
		Summary:     "Activate or deactivate a leaderboard",
		Tags:        []string{"Leaderboards"},
	}, h.HandleSetActive, admin)

	huma.Register(api, huma.Operation{
		OperationID: "get-leaderboard-entries",
		Method:      http.MethodGet,
		Path:        "/api/leaderboards/{id}/entries",
		Summary:     "Page through a leaderboard in rank order",
		Tags:        []string{"Leaderboards"},
	}, h.HandleGetEntries)

	huma.Register(api, huma.Operation{
		OperationID:   "refresh-leaderboard",
		Method:        http.MethodPost,
		Path:          "/api/leaderboards/{id}/refresh",
		Summary:       "Recompute ranks for a leaderboard",
		Tags:          []string{"Leaderboards"},
		DefaultStatus: http.StatusAccepted,
	}, h.HandleRefresh, admin)

	huma.Register(api, huma.Operation{
		OperationID: "rebuild-leaderboards",
		Method:      http.MethodPost,
		Path:        "/api/leaderboards/rebuild",
		Summary:     "Recompute every score and rank from achievement records",
		Tags:        []string{"Leaderboards"},
	}, h.HandleRebuild, admin)

	huma.Register(api, huma.Operation{
		OperationID: "export-leaderboard",
		Method:      http.MethodGet,
		Path:        "/api/leaderboards/{id}/export",
		Summary:     "Download a leaderboard as an xlsx workbook",
		Tags:        []string{"Leaderboards"},
	}, h.HandleExport, admin)

	huma.Register(api, huma.Operation{
		OperationID: "recompute-user-leaderboard-score",
		Method:      http.MethodPost,
		Path:        "/api/users/{userId}/leaderboard-score",
		Summary:     "Recompute a user's leaderboard scores",
		Tags:        []string{"Leaderboards"},
	}, h.HandleRecomputeUser, authhandlers.Secured(authdomain.RoleAdmin, authdomain.RoleService))

	huma.Register(api, huma.Operation{
		OperationID: "get-user-standings",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/standings",
		Summary:     "Show a user's score and rank on every active leaderboard",
		Tags:        []string{"Leaderboards"},
	}, h.HandleGetStandings, authhandlers.Secured())
}

func (h *LeaderboardHTTPHandlers) HandleListDefinitions(ctx context.Context, input *ListDefinitionsInput) (*DefinitionsOutput, error) {
	defs, err := h.service.ListDefinitions(ctx, input.ActiveOnly)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &DefinitionsOutput{}
	out.Body.Leaderboards = defs
	if out.Body.Leaderboards == nil {
		out.Body.Leaderboards = []leaderboarddomain.Definition{}
	}
	return out, nil
}

func (h *LeaderboardHTTPHandlers) HandleCreateDefinition(ctx context.Context, input *CreateDefinitionInput) (*DefinitionOutput, error) {
	def, err := h.definitionFromInput(input)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	created, err := h.service.CreateDefinition(ctx, def)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	return &DefinitionOutput{Body: *created}, nil
}

func (h *LeaderboardHTTPHandlers) definitionFromInput(input *CreateDefinitionInput) (leaderboarddomain.Definition, error) {
	def := leaderboarddomain.Definition{
		Name:      strings.TrimSpace(input.Body.Name),
		Scope:     leaderboarddomain.Scope(input.Body.Scope),
		Timeframe: leaderboarddomain.Timeframe(input.Body.Timeframe),
	}
	if input.Body.CategoryFilter != "" {
		category, err := achievementdomain.ParseCategoryID(input.Body.CategoryFilter)
		if err != nil {
			return def, err
		}
		def.CategoryFilter = &category
	}
	if input.Body.TierFilter != "" {
		tier, err := achievementdomain.ParseTier(input.Body.TierFilter)
		if err != nil {
			return def, err
		}
		def.TierFilter = tier
	}

	now := h.now()
	if input.Body.WindowStart != "" {
		start, err := leaderboarddomain.ParseWindowBoundary(input.Body.WindowStart, now)
		if err != nil {
			return def, fmt.Errorf("window_start: %w", err)
		}
		def.WindowStart = &start
	}
	if input.Body.WindowEnd != "" {
		end, err := leaderboarddomain.ParseWindowBoundary(input.Body.WindowEnd, now)
		if err != nil {
			return def, fmt.Errorf("window_end: %w", err)
		}
		def.WindowEnd = &end
	}
	return def, nil
}

func (h *LeaderboardHTTPHandlers) HandleSetActive(ctx context.Context, input *SetActiveInput) (*DefinitionOutput, error) {
	def, err := h.service.SetDefinitionActive(ctx, input.ID, input.Body.Active)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	return &DefinitionOutput{Body: *def}, nil
}

func (h *LeaderboardHTTPHandlers) HandleGetEntries(ctx context.Context, input *EntriesInput) (*EntriesOutput, error) {
	entries, err := h.service.GetLeaderboardEntries(ctx, input.ID, input.Limit, input.Offset)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &EntriesOutput{}
	out.Body.Entries = entries
	if out.Body.Entries == nil {
		out.Body.Entries = []leaderboarddomain.Entry{}
	}
	return out, nil
}

func (h *LeaderboardHTTPHandlers) HandleRefresh(ctx context.Context, input *LeaderboardIDInput) (*AcceptedOutput, error) {
	if err := h.service.EnqueueRefresh(ctx, input.ID); err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &AcceptedOutput{}
	out.Body.Status = "accepted"
	return out, nil
}

func (h *LeaderboardHTTPHandlers) HandleRebuild(ctx context.Context, _ *struct{}) (*RebuildOutput, error) {
	users, err := h.service.Rebuild(ctx)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &RebuildOutput{}
	out.Body.Users = users
	return out, nil
}

func (h *LeaderboardHTTPHandlers) HandleExport(ctx context.Context, input *LeaderboardIDInput) (*ExportOutput, error) {
	data, err := h.service.ExportLeaderboard(ctx, input.ID)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	return &ExportOutput{
		ContentType:        xlsxContentType,
		ContentDisposition: fmt.Sprintf(`attachment; filename="leaderboard-%d.xlsx"`, input.ID),
		Body:               data,
	}, nil
}

func (h *LeaderboardHTTPHandlers) HandleRecomputeUser(ctx context.Context, input *UserInput) (*UserScoresOutput, error) {
	byBoard, err := h.service.SyncUser(ctx, input.UserID)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &UserScoresOutput{}
	out.Body.Entries = make([]leaderboarddomain.Entry, 0, len(byBoard))
	for _, e := range byBoard {
		out.Body.Entries = append(out.Body.Entries, e)
	}
	sort.Slice(out.Body.Entries, func(i, j int) bool {
		return out.Body.Entries[i].LeaderboardID < out.Body.Entries[j].LeaderboardID
	})
	return out, nil
}

func (h *LeaderboardHTTPHandlers) HandleGetStandings(ctx context.Context, input *UserInput) (*StandingsOutput, error) {
	if err := authhandlers.RequireActFor(ctx, input.UserID); err != nil {
		return nil, err
	}
	standings, err := h.service.GetUserStandings(ctx, input.UserID)
	if err != nil {
		return nil, h.toHTTPError(ctx, err)
	}
	out := &StandingsOutput{}
	out.Body.Standings = standings
	if out.Body.Standings == nil {
		out.Body.Standings = []leaderboardservice.Standing{}
	}
	return out, nil
}

func (h *LeaderboardHTTPHandlers) toHTTPError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, leaderboarddomain.ErrLeaderboardNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, leaderboarddomain.ErrInvalidDefinition),
		errors.Is(err, leaderboarddomain.ErrInvalidWindow),
		errors.Is(err, leaderboarddomain.ErrInvalidPage):
		return huma.Error422UnprocessableEntity(err.Error())
	case shared.IsStorageError(err):
		h.logger.ErrorContext(ctx, "Leaderboard storage unavailable", attr.Error(err))
		return huma.Error503ServiceUnavailable("leaderboard storage unavailable")
	default:
		h.logger.ErrorContext(ctx, "Leaderboard request failed", attr.Error(err))
		return huma.Error500InternalServerError("internal error")
	}
}
