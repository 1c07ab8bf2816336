package leaderboardservice

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	leaderboarddomain "github.com/hirelane/engage/app/modules/leaderboard/domain"
	leaderboarddb "github.com/hirelane/engage/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

type entryKey struct {
	leaderboardID int64
	userID        int64
}

// FakeLeaderboardRepo keeps definitions and entries in memory.
type FakeLeaderboardRepo struct {
	mu      sync.Mutex
	trace   []string
	defs    map[int64]leaderboarddomain.Definition
	entries map[entryKey]leaderboarddomain.Entry
	nextID  int64

	ListDefinitionsFunc        func(ctx context.Context, db bun.IDB, activeOnly bool) ([]leaderboarddomain.Definition, error)
	UpsertLeaderboardEntryFunc func(ctx context.Context, db bun.IDB, entry *leaderboarddomain.Entry) error
	BulkUpdateRanksFunc        func(ctx context.Context, db bun.IDB, leaderboardID int64, ranks map[int64]int) error
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		trace:   []string{},
		defs:    map[int64]leaderboarddomain.Definition{},
		entries: map[entryKey]leaderboarddomain.Entry{},
	}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

func (f *FakeLeaderboardRepo) CreateDefinition(_ context.Context, _ bun.IDB, def *leaderboarddomain.Definition) error {
	f.record("CreateDefinition")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	def.ID = f.nextID
	f.defs[def.ID] = *def
	return nil
}

func (f *FakeLeaderboardRepo) GetDefinition(_ context.Context, _ bun.IDB, id int64) (*leaderboarddomain.Definition, error) {
	f.record("GetDefinition")
	return f.getDefinition(id)
}

func (f *FakeLeaderboardRepo) LockDefinition(_ context.Context, _ bun.IDB, id int64) (*leaderboarddomain.Definition, error) {
	f.record("LockDefinition")
	return f.getDefinition(id)
}

func (f *FakeLeaderboardRepo) getDefinition(id int64) (*leaderboarddomain.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	def, ok := f.defs[id]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	return &def, nil
}

func (f *FakeLeaderboardRepo) ListDefinitions(ctx context.Context, db bun.IDB, activeOnly bool) ([]leaderboarddomain.Definition, error) {
	f.record("ListDefinitions")
	if f.ListDefinitionsFunc != nil {
		return f.ListDefinitionsFunc(ctx, db, activeOnly)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []leaderboarddomain.Definition{}
	for _, d := range f.defs {
		if activeOnly && !d.Active {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeLeaderboardRepo) SetDefinitionActive(_ context.Context, _ bun.IDB, id int64, active bool, now time.Time) (*leaderboarddomain.Definition, error) {
	f.record("SetDefinitionActive")
	f.mu.Lock()
	defer f.mu.Unlock()
	def, ok := f.defs[id]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	def.Active = active
	def.UpdatedAt = now
	f.defs[id] = def
	return &def, nil
}

func (f *FakeLeaderboardRepo) FindLeaderboardEntry(_ context.Context, _ bun.IDB, leaderboardID, userID int64) (*leaderboarddomain.Entry, error) {
	f.record("FindLeaderboardEntry")
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryKey{leaderboardID, userID}]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	return &e, nil
}

func (f *FakeLeaderboardRepo) UpsertLeaderboardEntry(ctx context.Context, db bun.IDB, entry *leaderboarddomain.Entry) error {
	f.record("UpsertLeaderboardEntry")
	if f.UpsertLeaderboardEntryFunc != nil {
		return f.UpsertLeaderboardEntryFunc(ctx, db, entry)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := entryKey{entry.LeaderboardID, entry.UserID}
	if existing, ok := f.entries[key]; ok {
		entry.Rank = existing.Rank
	}
	f.entries[key] = *entry
	return nil
}

func (f *FakeLeaderboardRepo) ListLeaderboardEntries(_ context.Context, _ bun.IDB, leaderboardID int64) ([]leaderboarddomain.Entry, error) {
	f.record("ListLeaderboardEntries")
	return f.entriesFor(leaderboardID), nil
}

func (f *FakeLeaderboardRepo) ListLeaderboardPage(_ context.Context, _ bun.IDB, leaderboardID int64, limit, offset int) ([]leaderboarddomain.Entry, error) {
	f.record("ListLeaderboardPage")
	all := f.entriesFor(leaderboardID)
	if offset >= len(all) {
		return []leaderboarddomain.Entry{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (f *FakeLeaderboardRepo) ListUserEntries(_ context.Context, _ bun.IDB, userID int64) ([]leaderboarddomain.Entry, error) {
	f.record("ListUserEntries")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leaderboarddomain.Entry
	for k, e := range f.entries {
		if k.userID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaderboardID < out[j].LeaderboardID })
	return out, nil
}

func (f *FakeLeaderboardRepo) BulkUpdateRanks(ctx context.Context, db bun.IDB, leaderboardID int64, ranks map[int64]int) error {
	f.record("BulkUpdateRanks")
	if f.BulkUpdateRanksFunc != nil {
		return f.BulkUpdateRanksFunc(ctx, db, leaderboardID, ranks)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, rank := range ranks {
		key := entryKey{leaderboardID, userID}
		if e, ok := f.entries[key]; ok {
			e.Rank = rank
			f.entries[key] = e
		}
	}
	return nil
}

func (f *FakeLeaderboardRepo) entriesFor(leaderboardID int64) []leaderboarddomain.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []leaderboarddomain.Entry{}
	for k, e := range f.entries {
		if k.leaderboardID == leaderboardID {
			out = append(out, e)
		}
	}
	leaderboarddomain.SortEntries(out)
	return out
}

// --- Seeding and accessors for assertions ---

func (f *FakeLeaderboardRepo) SeedDefinition(def leaderboarddomain.Definition) leaderboarddomain.Definition {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	def.ID = f.nextID
	f.defs[def.ID] = def
	return def
}

func (f *FakeLeaderboardRepo) SeedEntry(e leaderboarddomain.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entryKey{e.LeaderboardID, e.UserID}] = e
}

func (f *FakeLeaderboardRepo) Entry(leaderboardID, userID int64) (leaderboarddomain.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryKey{leaderboardID, userID}]
	return e, ok
}

func (f *FakeLeaderboardRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// ------------------------
// Fake Achievement Source
// ------------------------

// FakeAchievements serves a fixed record set.
type FakeAchievements struct {
	Records []achievementdomain.Record
	Err     error
}

func (f *FakeAchievements) LockUserCategory(context.Context, bun.IDB, int64, achievementdomain.CategoryID) error {
	return nil
}

func (f *FakeAchievements) FindAchievements(_ context.Context, _ bun.IDB, userID int64, category *achievementdomain.CategoryID) ([]achievementdomain.Record, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var out []achievementdomain.Record
	for _, r := range f.Records {
		if r.UserID == userID && (category == nil || r.Category == *category) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeAchievements) InsertAchievement(_ context.Context, _ bun.IDB, r *achievementdomain.Record) error {
	f.Records = append(f.Records, *r)
	return nil
}

func (f *FakeAchievements) ListUserIDs(context.Context, bun.IDB) ([]int64, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	seen := map[int64]bool{}
	var ids []int64
	for _, r := range f.Records {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

var _ achievementdb.Repository = (*FakeAchievements)(nil)

// ------------------------
// Fake Publisher and Scheduler
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published[topic] = append(p.Published[topic], msgs...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Published[topic])
}

type FakeScheduler struct {
	mu        sync.Mutex
	Scheduled []int64
	Err       error
}

func (s *FakeScheduler) ScheduleRefresh(_ context.Context, leaderboardID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scheduled = append(s.Scheduled, leaderboardID)
	return nil
}
