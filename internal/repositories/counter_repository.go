package repositories

import (
	"fmt"
)

// CounterRepository allocates per-gym member numbers. The counter is the one
// place concurrent writers can legitimately race, so NextMemberID must always
// run inside the member-creation transaction: if the transaction rolls back,
// the allocated number is discarded with it and no member exists without a
// valid number.
type CounterRepository interface {
	NextMemberID(executor SQLExecutor, gymID int64) (int64, error)
}

type counterRepository struct{}

// NewCounterRepository creates a new instance of CounterRepository.
func NewCounterRepository() CounterRepository {
	return &counterRepository{}
}

// NextMemberID atomically increments and returns the gym's member counter.
// The upsert is a single statement, so two concurrent transactions can never
// observe the same value; the loser of a conflict is serialized behind the
// winner by the row lock.
func (r *counterRepository) NextMemberID(executor SQLExecutor, gymID int64) (int64, error) {
	query := `INSERT INTO member_counters (gym_id, last_value) VALUES ($1, 1)
	          ON CONFLICT (gym_id) DO UPDATE SET last_value = member_counters.last_value + 1
	          RETURNING last_value`

	var next int64
	if err := executor.QueryRow(query, gymID).Scan(&next); err != nil {
		return 0, fmt.Errorf("%w: allocating member number for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	return next, nil
}
