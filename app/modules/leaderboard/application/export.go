package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	"github.com/hirelane/engage/app/shared"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	rankingSheet = "Ranking"
)

// ExportLeaderboard renders a Summary sheet and a Ranking sheet with one row
// per entry.
func (s *LeaderboardService) ExportLeaderboard(ctx context.Context, leaderboardID int64) ([]byte, error) {
	def, err := s.repo.GetDefinition(ctx, nil, leaderboardID)
	if err != nil {
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return nil, leaderboarddomain.ErrLeaderboardNotFound
		}
		return nil, shared.NewStorageError("GetDefinition", err)
	}
	entries, err := s.repo.ListLeaderboardEntries(ctx, nil, leaderboardID)
	if err != nil {
		return nil, shared.NewStorageError("ListLeaderboardEntries", err)
	}
	return RenderWorkbook(*def, entries, s.clock.Now())
}

// RenderWorkbook builds the xlsx bytes for a leaderboard.
func RenderWorkbook(def leaderboarddomain.Definition, entries []leaderboarddomain.Entry, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(rankingSheet); err != nil {
		return nil, fmt.Errorf("failed to create ranking sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, def, len(entries), generatedAt); err != nil {
		return nil, err
	}
	if err := writeRankingSheet(f, entries, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, def leaderboarddomain.Definition, entries int, generatedAt time.Time) error {
	rows := [][2]any{
		{"Leaderboard", def.Name},
		{"Scope", string(def.Scope)},
		{"Timeframe", string(def.Timeframe)},
		{"Active", def.Active},
		{"Entries", entries},
		{"Generated", generatedAt.UTC().Format(time.RFC3339)},
	}
	if def.CategoryFilter != nil {
		rows = append(rows, [2]any{"Category filter", string(*def.CategoryFilter)})
	}
	if def.TierFilter != achievementdomain.TierNone {
		rows = append(rows, [2]any{"Minimum tier", def.TierFilter.String()})
	}
	if def.WindowStart != nil && def.WindowEnd != nil {
		rows = append(rows,
			[2]any{"Window start", def.WindowStart.UTC().Format(time.RFC3339)},
			[2]any{"Window end", def.WindowEnd.UTC().Format(time.RFC3339)},
		)
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &[]any{row[0], row[1]}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}

func writeRankingSheet(f *excelize.File, entries []leaderboarddomain.Entry, headerStyle int) error {
	categories := achievementdomain.AllCategories()
	tiers := achievementdomain.AllTiers()

	header := []any{"Rank", "User ID", "Score", "Achievements"}
	for _, c := range categories {
		header = append(header, string(c))
	}
	for _, t := range tiers {
		header = append(header, t.String())
	}
	if err := f.SetSheetRow(rankingSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write ranking header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(rankingSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style ranking header: %w", err)
	}

	sorted := make([]leaderboarddomain.Entry, len(entries))
	copy(sorted, entries)
	leaderboarddomain.SortEntries(sorted)

	for i, e := range sorted {
		row := []any{e.Rank, e.UserID, e.Score, e.AchievementCount}
		for _, c := range categories {
			row = append(row, e.CategoryScores[c])
		}
		for _, t := range tiers {
			row = append(row, e.TierCounts[t])
		}
		if err := f.SetSheetRow(rankingSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write ranking row: %w", err)
		}
	}
	return nil
}
