// Package ledger persists completion history outside the vault. The vault
// stays the source of truth for progression state; the ledger only records
// what happened and when, so history survives checkbox un-toggles.
package ledger

import (
	"context"
	"time"
)

// Completion is one recorded quest completion.
type Completion struct {
	ID          string
	Quest       string
	CompletedAt time.Time
	XP          float64
	CP          float64
	Coins       float64
}

// StepRecord is one cascade step of a completion, in execution order.
type StepRecord struct {
	Entity    string
	Kind      string
	Delta     float64
	Status    string
	LeveledUp bool
	Level     int
}

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	RecordCompletion(ctx context.Context, c Completion, steps []StepRecord) error
	ListCompletions(ctx context.Context, limit int) ([]Completion, error)
	ListSteps(ctx context.Context, completionID string) ([]StepRecord, error)
}
