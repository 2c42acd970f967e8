package repository

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"gorm.io/gorm"
)

// gormStore is the HistoryStore backed by penalty_records.
type gormStore struct {
	db    *gorm.DB
	repo  penaltydomain.Repository
	genID *snowflake.Node
}

func NewGormStore(db *gorm.DB, repo penaltydomain.Repository, genID *snowflake.Node) penaltydomain.HistoryStore {
	return &gormStore{db: db, repo: repo, genID: genID}
}

func (s *gormStore) Load(ctx context.Context, userID string) (*penaltydomain.PenaltyHistory, error) {
	records, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]penaltydomain.Penalty, 0, len(records))
	for _, rec := range records {
		entries = append(entries, rec.Penalty())
	}
	return penaltydomain.NewPenaltyHistory(userID, entries...), nil
}

func (s *gormStore) Append(ctx context.Context, userID string, p penaltydomain.Penalty) error {
	return s.repo.Insert(ctx, s.db, &penaltydomain.PenaltyRecord{
		ID:         s.genID.Generate(),
		UserID:     userID,
		Type:       p.Type,
		Amount:     p.Amount,
		OccurredAt: p.Timestamp.UTC(),
		CreatedAt:  time.Now().UTC(),
	})
}

// MemoryStore keeps histories in process memory. It backs tests and
// single-instance deployments without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]penaltydomain.Penalty
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]penaltydomain.Penalty)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*penaltydomain.PenaltyHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return penaltydomain.NewPenaltyHistory(userID, s.entries[userID]...), nil
}

func (s *MemoryStore) Append(_ context.Context, userID string, p penaltydomain.Penalty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = append(s.entries[userID], p)
	return nil
}

var _ penaltydomain.HistoryStore = (*MemoryStore)(nil)
