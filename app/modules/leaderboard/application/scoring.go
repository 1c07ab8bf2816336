package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	"github.com/hirelane/engage/app/shared"
	"github.com/uptrace/bun"
)

type entriesResult = results.OperationResult[map[int64]leaderboarddomain.Entry, error]

// RecomputeUserScore loads the user's records once and upserts an entry on
// every active leaderboard, including explicit zero entries.
func (s *LeaderboardService) RecomputeUserScore(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error) {
	return shared.Run(s.ops, ctx, "RecomputeUserScore", fmt.Sprint(userID), func(ctx context.Context, db bun.IDB) (entriesResult, error) {
		defs, err := s.repo.ListDefinitions(ctx, db, true)
		if err != nil {
			return entriesResult{}, shared.NewStorageError("ListDefinitions", err)
		}

		records, err := s.achievements.FindAchievements(ctx, db, userID, nil)
		if err != nil {
			return entriesResult{}, shared.NewStorageError("FindAchievements", err)
		}

		now := s.clock.Now()
		out := make(map[int64]leaderboarddomain.Entry, len(defs))
		for _, def := range defs {
			prev, err := s.repo.FindLeaderboardEntry(ctx, db, def.ID, userID)
			if err != nil && !errors.Is(err, leaderboarddb.ErrNotFound) {
				return entriesResult{}, shared.NewStorageError("FindLeaderboardEntry", err)
			}

			entry := leaderboarddomain.NewEntry(def.ID, userID, leaderboarddomain.Summarize(records, s.weights, def), prev, now)
			if err := s.repo.UpsertLeaderboardEntry(ctx, db, &entry); err != nil {
				return entriesResult{}, shared.NewStorageError("UpsertLeaderboardEntry", err)
			}
			out[def.ID] = entry
		}

		return results.SuccessResult[map[int64]leaderboarddomain.Entry, error](out), nil
	})
}

// RefreshRanking locks the definition row, reads every entry, ranks them and
// writes all ranks with one bulk update.
func (s *LeaderboardService) RefreshRanking(ctx context.Context, leaderboardID int64) error {
	count, err := shared.Run(s.ops, ctx, "RefreshRanking", fmt.Sprint(leaderboardID), func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		if _, err := s.repo.LockDefinition(ctx, db, leaderboardID); err != nil {
			if errors.Is(err, leaderboarddb.ErrNotFound) {
				return results.FailureResult[int, error](leaderboarddomain.ErrLeaderboardNotFound), nil
			}
			return results.OperationResult[int, error]{}, shared.NewStorageError("LockDefinition", err)
		}

		entries, err := s.repo.ListLeaderboardEntries(ctx, db, leaderboardID)
		if err != nil {
			return results.OperationResult[int, error]{}, shared.NewStorageError("ListLeaderboardEntries", err)
		}

		ranks := leaderboarddomain.CompetitionRanks(entries)
		if err := s.repo.BulkUpdateRanks(ctx, db, leaderboardID, ranks); err != nil {
			return results.OperationResult[int, error]{}, shared.NewStorageError("BulkUpdateRanks", err)
		}
		return results.SuccessResult[int, error](len(entries)), nil
	})
	if err != nil {
		return err
	}

	s.publishRanked(ctx, leaderboardID, count)
	return nil
}

// EnqueueRefresh hands the refresh to the scheduler, falling back to an
// inline refresh when scheduling fails.
func (s *LeaderboardService) EnqueueRefresh(ctx context.Context, leaderboardID int64) error {
	scheduler := s.currentScheduler()
	if scheduler == nil {
		return s.RefreshRanking(ctx, leaderboardID)
	}
	if err := scheduler.ScheduleRefresh(ctx, leaderboardID); err != nil {
		s.logger.WarnContext(ctx, "Failed to schedule ranking refresh, refreshing inline",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("leaderboard_id", leaderboardID),
			attr.Error(err),
		)
		return s.RefreshRanking(ctx, leaderboardID)
	}
	return nil
}

// SyncUser recomputes the user's entries then refreshes each touched leaderboard.
func (s *LeaderboardService) SyncUser(ctx context.Context, userID int64) (map[int64]leaderboarddomain.Entry, error) {
	entries, err := s.RecomputeUserScore(ctx, userID)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, id := range sortedKeys(entries) {
		if err := s.EnqueueRefresh(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return entries, errors.Join(errs...)
}

// Rebuild recomputes every user that has achievements, then refreshes every
// active leaderboard once.
func (s *LeaderboardService) Rebuild(ctx context.Context) (int, error) {
	userIDs, err := s.achievements.ListUserIDs(ctx, nil)
	if err != nil {
		return 0, shared.NewStorageError("ListUserIDs", err)
	}

	for _, userID := range userIDs {
		if _, err := s.RecomputeUserScore(ctx, userID); err != nil {
			return 0, err
		}
	}

	defs, err := s.ListDefinitions(ctx, true)
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if err := s.RefreshRanking(ctx, def.ID); err != nil {
			return 0, err
		}
	}

	s.logger.InfoContext(ctx, "Leaderboards rebuilt",
		attr.Int("users", len(userIDs)),
		attr.Int("leaderboards", len(defs)),
	)
	return len(userIDs), nil
}

func sortedKeys(m map[int64]leaderboarddomain.Entry) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
