package achievementservice

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	achievementdomain "github.com/hirelane/engage/app/modules/achievement/domain"
	achievementdb "github.com/hirelane/engage/app/modules/achievement/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Achievement Repo
// ------------------------

// FakeAchievementRepo keeps records in memory and enforces the
// (user, category, tier) uniqueness the real table has.
type FakeAchievementRepo struct {
	mu      sync.Mutex
	trace   []string
	records []achievementdomain.Record
	nextID  int64

	LockUserCategoryFunc  func(ctx context.Context, db bun.IDB, userID int64, category achievementdomain.CategoryID) error
	FindAchievementsFunc  func(ctx context.Context, db bun.IDB, userID int64, category *achievementdomain.CategoryID) ([]achievementdomain.Record, error)
	InsertAchievementFunc func(ctx context.Context, db bun.IDB, record *achievementdomain.Record) error
	ListUserIDsFunc       func(ctx context.Context, db bun.IDB) ([]int64, error)
}

func NewFakeAchievementRepo() *FakeAchievementRepo {
	return &FakeAchievementRepo{trace: []string{}}
}

func (f *FakeAchievementRepo) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

func (f *FakeAchievementRepo) LockUserCategory(ctx context.Context, db bun.IDB, userID int64, category achievementdomain.CategoryID) error {
	f.record("LockUserCategory")
	if f.LockUserCategoryFunc != nil {
		return f.LockUserCategoryFunc(ctx, db, userID, category)
	}
	return nil
}

func (f *FakeAchievementRepo) FindAchievements(ctx context.Context, db bun.IDB, userID int64, category *achievementdomain.CategoryID) ([]achievementdomain.Record, error) {
	f.record("FindAchievements")
	if f.FindAchievementsFunc != nil {
		return f.FindAchievementsFunc(ctx, db, userID, category)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []achievementdomain.Record
	for _, r := range f.records {
		if r.UserID != userID {
			continue
		}
		if category != nil && r.Category != *category {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *FakeAchievementRepo) InsertAchievement(ctx context.Context, db bun.IDB, record *achievementdomain.Record) error {
	f.record("InsertAchievement")
	if f.InsertAchievementFunc != nil {
		return f.InsertAchievementFunc(ctx, db, record)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.UserID == record.UserID && r.Category == record.Category && r.Tier == record.Tier {
			return achievementdb.ErrConflict
		}
	}
	f.nextID++
	record.ID = f.nextID
	f.records = append(f.records, *record)
	return nil
}

func (f *FakeAchievementRepo) ListUserIDs(ctx context.Context, db bun.IDB) ([]int64, error) {
	f.record("ListUserIDs")
	if f.ListUserIDsFunc != nil {
		return f.ListUserIDsFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[int64]bool{}
	var ids []int64
	for _, r := range f.records {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

// --- Accessors for assertions ---

func (f *FakeAchievementRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAchievementRepo) Records() []achievementdomain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]achievementdomain.Record, len(f.records))
	copy(out, f.records)
	return out
}

// Ensure the fake actually satisfies the interface
var _ achievementdb.Repository = (*FakeAchievementRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
	Err       error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.Err != nil {
		return p.Err
	}
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

var _ message.Publisher = (*FakePublisher)(nil)

// ------------------------
// Fake Clock
// ------------------------

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}
