package leaderboardhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	authdomain "github.com/hirelane/engage/app/modules/auth/domain"
	authhandlers "github.com/hirelane/engage/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/hirelane/engage/app/modules/auth/infrastructure/jwt"
	leaderboardservice "github.com/hirelane/engage/app/modules/leaderboard/application"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	"github.com/hirelane/engage/app/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "leaderboard-handlers-secret-32ch!"

var testNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func setupAPI(t *testing.T, svc *FakeService) humatest.TestAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, api := humatest.New(t)
	api.UseMiddleware(authhandlers.NewAuthMiddleware(api, authjwt.NewProvider(testSecret, ""), logger))
	NewHTTPHandlers(svc, shared.NewFixedClock(testNow), logger).Register(api)
	return api
}

func bearer(t *testing.T, userID int64, role authdomain.Role) string {
	t.Helper()
	token, err := authjwt.NewProvider(testSecret, "").GenerateToken(userID, role, time.Hour)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func TestHandleListDefinitions(t *testing.T) {
	var gotActiveOnly []bool
	svc := &FakeService{
		ListDefinitionsFunc: func(_ context.Context, activeOnly bool) ([]leaderboarddomain.Definition, error) {
			gotActiveOnly = append(gotActiveOnly, activeOnly)
			return []leaderboarddomain.Definition{{ID: 1, Name: "Global", Scope: leaderboarddomain.ScopeGlobal, Timeframe: leaderboarddomain.TimeframeAllTime, Active: true}}, nil
		},
	}
	api := setupAPI(t, svc)

	resp := api.Get("/api/leaderboards")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = api.Get("/api/leaderboards?active=false")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Leaderboards []leaderboarddomain.Definition `json:"leaderboards"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Leaderboards, 1)
	assert.Equal(t, "Global", body.Leaderboards[0].Name)
	assert.Equal(t, []bool{true, false}, gotActiveOnly)
}

func TestHandleCreateDefinition(t *testing.T) {
	var got leaderboarddomain.Definition
	svc := &FakeService{
		CreateDefinitionFunc: func(_ context.Context, def leaderboarddomain.Definition) (*leaderboarddomain.Definition, error) {
			got = def
			if def.Scope == leaderboarddomain.ScopeWindowed && def.WindowStart == nil {
				return nil, leaderboarddomain.ErrInvalidDefinition
			}
			def.ID = 12
			def.Active = true
			return &def, nil
		},
	}
	api := setupAPI(t, svc)

	tests := []struct {
		name     string
		role     authdomain.Role
		body     map[string]any
		wantCode int
	}{
		{
			name:     "category board",
			role:     authdomain.RoleAdmin,
			body:     map[string]any{"name": "Skill builders", "scope": "category", "category_filter": "skill_builder", "tier_filter": "silver"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "windowed with dates",
			role:     authdomain.RoleAdmin,
			body:     map[string]any{"name": "October", "scope": "windowed", "window_start": "2026-10-01", "window_end": "2026-11-01"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "windowed without bounds",
			role:     authdomain.RoleAdmin,
			body:     map[string]any{"name": "Broken", "scope": "windowed"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown category",
			role:     authdomain.RoleAdmin,
			body:     map[string]any{"name": "Karma", "scope": "category", "category_filter": "karma"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unparseable window",
			role:     authdomain.RoleAdmin,
			body:     map[string]any{"name": "Soon", "scope": "windowed", "window_start": "whenever"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "seeker not allowed",
			role:     authdomain.RoleSeeker,
			body:     map[string]any{"name": "Mine", "scope": "global"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Post("/api/leaderboards", bearer(t, 1, tt.role), tt.body)
			assert.Equal(t, tt.wantCode, resp.Code, resp.Body.String())
		})
	}

	resp := api.Post("/api/leaderboards", bearer(t, 1, authdomain.RoleAdmin), map[string]any{
		"name": "October", "scope": "windowed", "window_start": "2026-10-01", "window_end": "2026-11-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	require.NotNil(t, got.WindowStart)
	require.NotNil(t, got.WindowEnd)
	assert.True(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Equal(*got.WindowStart))
	assert.True(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC).Equal(*got.WindowEnd))

	resp = api.Post("/api/leaderboards", bearer(t, 1, authdomain.RoleAdmin), map[string]any{
		"name": "Gold club", "scope": "tier", "tier_filter": "gold",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, achievementdomain.TierGold, got.TierFilter)
}

func TestHandleSetActive(t *testing.T) {
	svc := &FakeService{
		SetDefinitionActiveFunc: func(_ context.Context, id int64, active bool) (*leaderboarddomain.Definition, error) {
			if id == 404 {
				return nil, leaderboarddomain.ErrLeaderboardNotFound
			}
			return &leaderboarddomain.Definition{ID: id, Name: "Global", Active: active}, nil
		},
	}
	api := setupAPI(t, svc)

	resp := api.Patch("/api/leaderboards/1/active", bearer(t, 1, authdomain.RoleAdmin), map[string]any{"active": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var def leaderboarddomain.Definition
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &def))
	assert.False(t, def.Active)

	resp = api.Patch("/api/leaderboards/404/active", bearer(t, 1, authdomain.RoleAdmin), map[string]any{"active": true})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleGetEntries(t *testing.T) {
	svc := &FakeService{
		GetLeaderboardEntriesFunc: func(_ context.Context, id int64, limit, offset int) ([]leaderboarddomain.Entry, error) {
			switch {
			case id == 404:
				return nil, leaderboarddomain.ErrLeaderboardNotFound
			case offset < 0 || limit < 0:
				return nil, leaderboarddomain.ErrInvalidPage
			case id == 503:
				return nil, shared.NewStorageError("ListLeaderboardPage", errors.New("connection refused"))
			}
			return []leaderboarddomain.Entry{
				{LeaderboardID: id, UserID: 3, Score: 7, Rank: 1},
				{LeaderboardID: id, UserID: 4, Score: 7, Rank: 1},
				{LeaderboardID: id, UserID: 5, Score: 2, Rank: 3},
			}, nil
		},
	}
	api := setupAPI(t, svc)

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{name: "first page", path: "/api/leaderboards/1/entries?limit=3", wantCode: http.StatusOK},
		{name: "negative offset", path: "/api/leaderboards/1/entries?offset=-1", wantCode: http.StatusUnprocessableEntity},
		{name: "unknown leaderboard", path: "/api/leaderboards/404/entries", wantCode: http.StatusNotFound},
		{name: "storage unavailable", path: "/api/leaderboards/503/entries", wantCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(tt.path)
			assert.Equal(t, tt.wantCode, resp.Code, resp.Body.String())
		})
	}

	resp := api.Get("/api/leaderboards/1/entries")
	var body struct {
		Entries []leaderboarddomain.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	ranks := make([]int, 0, len(body.Entries))
	for _, e := range body.Entries {
		ranks = append(ranks, e.Rank)
	}
	assert.Equal(t, []int{1, 1, 3}, ranks)
}

func TestHandleRefreshAndRebuild(t *testing.T) {
	svc := &FakeService{
		RebuildFunc: func(context.Context) (int, error) { return 5, nil },
	}
	api := setupAPI(t, svc)

	resp := api.Post("/api/leaderboards/1/refresh", bearer(t, 1, authdomain.RoleAdmin), map[string]any{})
	require.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())

	resp = api.Post("/api/leaderboards/rebuild", bearer(t, 1, authdomain.RoleAdmin), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body struct {
		Users int `json:"users"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Users)

	resp = api.Post("/api/leaderboards/rebuild", bearer(t, 2, authdomain.RoleEmployer), map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	assert.Equal(t, []string{"EnqueueRefresh", "Rebuild"}, svc.Trace())
}

func TestHandleExport(t *testing.T) {
	svc := &FakeService{
		ExportLeaderboardFunc: func(_ context.Context, id int64) ([]byte, error) {
			return []byte("PK-workbook"), nil
		},
	}
	api := setupAPI(t, svc)

	resp := api.Get("/api/leaderboards/3/export", bearer(t, 1, authdomain.RoleAdmin))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, xlsxContentType, resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "leaderboard-3.xlsx")
	assert.Equal(t, "PK-workbook", resp.Body.String())
}

func TestHandleRecomputeUser(t *testing.T) {
	svc := &FakeService{
		SyncUserFunc: func(_ context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error) {
			return map[int64]leaderboarddomain.Entry{
				2: {LeaderboardID: 2, UserID: userID, Score: 3},
				1: {LeaderboardID: 1, UserID: userID, Score: 5},
			}, nil
		},
	}
	api := setupAPI(t, svc)

	resp := api.Post("/api/users/9/leaderboard-score", bearer(t, 1, authdomain.RoleService), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body struct {
		Entries []leaderboarddomain.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, int64(1), body.Entries[0].LeaderboardID)
	assert.Equal(t, 5, body.Entries[0].Score)

	resp = api.Post("/api/users/9/leaderboard-score", bearer(t, 9, authdomain.RoleSeeker), map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestHandleGetStandings(t *testing.T) {
	svc := &FakeService{
		GetUserStandingsFunc: func(_ context.Context, userID int64) ([]leaderboardservice.Standing, error) {
			return []leaderboardservice.Standing{{LeaderboardID: 1, LeaderboardName: "Global", Score: 4, Rank: 2}}, nil
		},
	}
	api := setupAPI(t, svc)

	resp := api.Get("/api/users/6/standings", bearer(t, 6, authdomain.RoleSeeker))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Get("/api/users/6/standings", bearer(t, 7, authdomain.RoleSeeker))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = api.Get("/api/users/6/standings")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
