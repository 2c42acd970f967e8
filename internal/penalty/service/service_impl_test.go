package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/parkwise/internal/clock"
	"github.com/smallbiznis/parkwise/internal/config"
	"github.com/smallbiznis/parkwise/internal/errs"
	"github.com/smallbiznis/parkwise/internal/lock"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/internal/penalty/repository"
	"github.com/smallbiznis/parkwise/pkg/db/pagination"
	"github.com/smallbiznis/parkwise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&penaltydomain.PenaltyRecord{}))
	return db
}

type fixture struct {
	svc   penaltydomain.Service
	clock *clock.FakeClock
	store penaltydomain.HistoryStore
}

func newFixture(t *testing.T, store penaltydomain.HistoryStore, locker lock.Locker) fixture {
	t.Helper()
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.Provide()
	if store == nil {
		store = repository.NewGormStore(db, repo, node)
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}

	policy := config.DefaultPolicy()
	policy.Blacklist = penaltydomain.BlacklistPolicy{MaxAllowedPenalties: 3, Window: window}

	clk := clock.NewFakeClock(now)
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Policy:     config.NewStaticPolicy(policy),
		Clock:      clk,
		Locker:     locker,
		Store:      store,
		Repo:       repo,
		Calculator: NewCalculator(),
		Evaluator:  NewBlacklistEvaluator(clk),
	})
	return fixture{svc: svc, clock: clk, store: store}
}

func TestService_Assess_UsesConfiguredFees(t *testing.T) {
	f := newFixture(t, nil, nil)

	items, err := f.svc.Assess(context.Background(), penaltydomain.Violations{
		Overstayed: true,
		ExtraHours: 7,
		LostTicket: true,
	})
	require.NoError(t, err)

	// default fees: 10/h capped at 50, lost ticket 100
	assert.True(t, items.Overstay.Equal(money.MustParse("50")))
	assert.True(t, items.LostTicket.Equal(money.MustParse("100")))
	assert.True(t, items.Misuse.IsZero())
	assert.True(t, items.Total.Equal(money.MustParse("150")))
}

func TestService_Record_EscalatesAfterThreshold(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := f.svc.Record(ctx, "user-1", penaltyAt(now.Add(-time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, penaltydomain.BlacklistStatusNone, res.Status)
		assert.Equal(t, i+1, res.WindowCount)
	}

	res, err := f.svc.Record(ctx, "user-1", penaltyAt(now))
	require.NoError(t, err)
	assert.Equal(t, penaltydomain.BlacklistStatusCandidate, res.Status)
	assert.Equal(t, 4, res.WindowCount)

	summary, err := f.svc.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Count)
	assert.True(t, summary.Total.Equal(money.MustParse("40")))

	other, err := f.svc.History(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Count)
}

func TestService_Record_OldPenaltiesLeaveTheWindow(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Record(ctx, "user-1", penaltyAt(now.Add(-window-time.Duration(i+1)*time.Hour)))
		require.NoError(t, err)
	}

	res, err := f.svc.Record(ctx, "user-1", penaltyAt(now))
	require.NoError(t, err)
	assert.Equal(t, penaltydomain.BlacklistStatusNone, res.Status)
	assert.Equal(t, 1, res.WindowCount)

	// the clock moving forward does not resurrect anything
	f.clock.Advance(time.Hour)
	res, err = f.svc.Record(ctx, "user-1", penaltyAt(f.clock.Now()))
	require.NoError(t, err)
	assert.Equal(t, 2, res.WindowCount)
}

func TestService_Record_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, "  ", penaltyAt(now))
	assert.ErrorIs(t, err, penaltydomain.ErrInvalidUserID)

	_, err = f.svc.Record(ctx, "user-1", penaltydomain.Penalty{Type: "SPEEDING", Amount: money.MustParse("1"), Timestamp: now})
	assert.ErrorIs(t, err, penaltydomain.ErrInvalidPenaltyType)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	summary, err := f.svc.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count, "rejected penalties are not persisted")
}

func TestService_Record_ConcurrentSubmissionsSerialize(t *testing.T) {
	f := newFixture(t, repository.NewMemoryStore(), nil)
	ctx := context.Background()

	const n = 12
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		candidates int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Record(ctx, "user-1", penaltyAt(now))
			if !assert.NoError(t, err) {
				return
			}
			if res.Status == penaltydomain.BlacklistStatusCandidate {
				mu.Lock()
				candidates++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	summary, err := f.svc.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, n, summary.Count, "no submission is lost")
	assert.Equal(t, n-3, candidates, "every submission after the third sees the earlier ones")
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) {
	return nil, lock.ErrNotAcquired
}

func TestService_Record_LockUnavailable(t *testing.T) {
	f := newFixture(t, repository.NewMemoryStore(), busyLocker{})

	_, err := f.svc.Record(context.Background(), "user-1", penaltyAt(now))
	assert.ErrorIs(t, err, penaltydomain.ErrLockUnavailable)
}

type failingStore struct {
	*repository.MemoryStore
}

func (failingStore) Append(context.Context, string, penaltydomain.Penalty) error {
	return errors.New("disk full")
}

func TestService_Record_StoreFailureIsReturned(t *testing.T) {
	f := newFixture(t, failingStore{repository.NewMemoryStore()}, nil)

	_, err := f.svc.Record(context.Background(), "user-1", penaltyAt(now))
	require.Error(t, err)
	assert.False(t, errs.IsValidation(err))
}

func TestService_ListPenalties_Pages(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	for i := 5; i >= 1; i-- {
		_, err := f.svc.Record(ctx, "user-1", penaltyAt(now.Add(-time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	first, err := f.svc.ListPenalties(ctx, "user-1", pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.PageInfo.HasMore)
	assert.True(t, first.Items[0].Timestamp.Equal(now.Add(-5*time.Minute)))

	second, err := f.svc.ListPenalties(ctx, "user-1", pagination.Pagination{PageSize: 2, PageToken: first.PageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.True(t, second.Items[0].Timestamp.Equal(now.Add(-3*time.Minute)))

	third, err := f.svc.ListPenalties(ctx, "user-1", pagination.Pagination{PageSize: 2, PageToken: second.PageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.False(t, third.PageInfo.HasMore)

	_, err = f.svc.ListPenalties(ctx, "user-1", pagination.Pagination{PageToken: "not-a-token"})
	assert.ErrorIs(t, err, pagination.ErrInvalidPageToken)
}
