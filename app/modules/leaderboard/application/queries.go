package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	"github.com/hirelane/engage/app/shared"
	"github.com/uptrace/bun"
)

type definitionResult = results.OperationResult[*leaderboarddomain.Definition, error]

// GetLeaderboardEntries returns one page of a leaderboard. A zero limit uses
// the default page size; limits above the maximum are capped.
func (s *LeaderboardService) GetLeaderboardEntries(ctx context.Context, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error) {
	identifier := fmt.Sprintf("%d:%d:%d", leaderboardID, limit, offset)
	return shared.Run(s.ops, ctx, "GetLeaderboardEntries", identifier, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]leaderboarddomain.Entry, error], error) {
		if limit < 0 || offset < 0 {
			return results.FailureResult[[]leaderboarddomain.Entry, error](leaderboarddomain.ErrInvalidPage), nil
		}
		if limit == 0 {
			limit = s.config.DefaultPageSize
		}
		limit = min(limit, s.config.MaxPageSize)

		if _, err := s.repo.GetDefinition(ctx, db, leaderboardID); err != nil {
			if errors.Is(err, leaderboarddb.ErrNotFound) {
				return results.FailureResult[[]leaderboarddomain.Entry, error](leaderboarddomain.ErrLeaderboardNotFound), nil
			}
			return results.OperationResult[[]leaderboarddomain.Entry, error]{}, shared.NewStorageError("GetDefinition", err)
		}

		entries, err := s.repo.ListLeaderboardPage(ctx, db, leaderboardID, limit, offset)
		if err != nil {
			return results.OperationResult[[]leaderboarddomain.Entry, error]{}, shared.NewStorageError("ListLeaderboardPage", err)
		}
		return results.SuccessResult[[]leaderboarddomain.Entry, error](entries), nil
	})
}

// GetUserStandings returns the user's rank on every leaderboard they appear on.
func (s *LeaderboardService) GetUserStandings(ctx context.Context, userID int64) ([]Standing, error) {
	return shared.Run(s.ops, ctx, "GetUserStandings", fmt.Sprint(userID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]Standing, error], error) {
		defs, err := s.repo.ListDefinitions(ctx, db, false)
		if err != nil {
			return results.OperationResult[[]Standing, error]{}, shared.NewStorageError("ListDefinitions", err)
		}
		entries, err := s.repo.ListUserEntries(ctx, db, userID)
		if err != nil {
			return results.OperationResult[[]Standing, error]{}, shared.NewStorageError("ListUserEntries", err)
		}

		byID := make(map[int64]leaderboarddomain.Definition, len(defs))
		for _, d := range defs {
			byID[d.ID] = d
		}

		standings := make([]Standing, 0, len(entries))
		for _, e := range entries {
			def, ok := byID[e.LeaderboardID]
			if !ok || !def.Active {
				continue
			}
			standings = append(standings, Standing{
				LeaderboardID:    def.ID,
				LeaderboardName:  def.Name,
				Scope:            def.Scope,
				Score:            e.Score,
				AchievementCount: e.AchievementCount,
				Rank:             e.Rank,
			})
		}
		return results.SuccessResult[[]Standing, error](standings), nil
	})
}

// CreateDefinition validates and stores a new leaderboard definition.
func (s *LeaderboardService) CreateDefinition(ctx context.Context, def leaderboarddomain.Definition) (*leaderboarddomain.Definition, error) {
	return shared.Run(s.ops, ctx, "CreateDefinition", def.Name, func(ctx context.Context, db bun.IDB) (definitionResult, error) {
		if def.Timeframe == "" {
			def.Timeframe = leaderboarddomain.TimeframeAllTime
			if def.Scope == leaderboarddomain.ScopeWindowed {
				def.Timeframe = leaderboarddomain.TimeframeWindowed
			}
		}
		if err := def.Validate(); err != nil {
			return results.FailureResult[*leaderboarddomain.Definition, error](err), nil
		}

		now := s.clock.Now()
		def.ID = 0
		def.CreatedAt = now
		def.UpdatedAt = now
		if err := s.repo.CreateDefinition(ctx, db, &def); err != nil {
			return definitionResult{}, shared.NewStorageError("CreateDefinition", err)
		}
		return results.SuccessResult[*leaderboarddomain.Definition, error](&def), nil
	})
}

// SetDefinitionActive toggles whether a leaderboard receives new entries.
func (s *LeaderboardService) SetDefinitionActive(ctx context.Context, leaderboardID int64, active bool) (*leaderboarddomain.Definition, error) {
	return shared.Run(s.ops, ctx, "SetDefinitionActive", fmt.Sprint(leaderboardID), func(ctx context.Context, db bun.IDB) (definitionResult, error) {
		def, err := s.repo.SetDefinitionActive(ctx, db, leaderboardID, active, s.clock.Now())
		if err != nil {
			if errors.Is(err, leaderboarddb.ErrNotFound) {
				return results.FailureResult[*leaderboarddomain.Definition, error](leaderboarddomain.ErrLeaderboardNotFound), nil
			}
			return definitionResult{}, shared.NewStorageError("SetDefinitionActive", err)
		}
		return results.SuccessResult[*leaderboarddomain.Definition, error](def), nil
	})
}

// ListDefinitions returns definitions ordered by id.
func (s *LeaderboardService) ListDefinitions(ctx context.Context, activeOnly bool) ([]leaderboarddomain.Definition, error) {
	return shared.Run(s.ops, ctx, "ListDefinitions", fmt.Sprint(activeOnly), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]leaderboarddomain.Definition, error], error) {
		defs, err := s.repo.ListDefinitions(ctx, db, activeOnly)
		if err != nil {
			return results.OperationResult[[]leaderboarddomain.Definition, error]{}, shared.NewStorageError("ListDefinitions", err)
		}
		return results.SuccessResult[[]leaderboarddomain.Definition, error](defs), nil
	})
}
