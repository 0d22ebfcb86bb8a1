package events

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
)

// SequenceRepository hands out per-partition event sequence numbers.
type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type sqlSequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository keeps counters in the event_sequences table.
func NewSequenceRepository(db *sql.DB) SequenceRepository {
	return &sqlSequenceRepository{db: db}
}

const nextSequenceQuery = `
INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
VALUES ($1, 1, NOW())
ON CONFLICT (partition_key) DO UPDATE
SET last_sequence = event_sequences.last_sequence + 1,
    updated_at = NOW()
RETURNING last_sequence`

func (r *sqlSequenceRepository) NextSequence(ctx context.Context, partitionKey string) (next int64, err error) {
	if partitionKey == "" {
		return 0, errors.New("partition key is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.QueryRowContext(ctx, nextSequenceQuery, partitionKey).Scan(&next); err != nil {
		return 0, errors.Wrap(err, "increment sequence")
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit tx")
	}
	return next, nil
}

// MemorySequences counts in process. Sequences restart with the process.
type MemorySequences struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequences() *MemorySequences {
	return &MemorySequences{last: make(map[string]int64)}
}

func (m *MemorySequences) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, errors.New("partition key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[partitionKey]++
	return m.last[partitionKey], nil
}
