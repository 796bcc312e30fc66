package sqlite

import (
	"context"
	"fmt"
	"time"

	"questforge/internal/ledger"
)

func (c *Client) RecordCompletion(ctx context.Context, comp ledger.Completion, steps []ledger.StepRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO completions (id, quest, completed_at, xp, cp, coins)
	VALUES (?, ?, ?, ?, ?, ?)
	`, comp.ID, comp.Quest, comp.CompletedAt.UTC().Format(time.RFC3339), comp.XP, comp.CP, comp.Coins)
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}

	for i, step := range steps {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO steps (completion_id, seq, entity, kind, delta, status, leveled_up, level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, comp.ID, i, step.Entity, step.Kind, step.Delta, step.Status, boolToInt(step.LeveledUp), step.Level)
		if err != nil {
			return fmt.Errorf("inserting step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing completion: %w", err)
	}
	return nil
}

func (c *Client) ListCompletions(ctx context.Context, limit int) ([]ledger.Completion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.db.QueryContext(ctx, `
	SELECT id, quest, completed_at, xp, cp, coins
	FROM completions
	ORDER BY completed_at DESC, id
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var completions []ledger.Completion
	for rows.Next() {
		var comp ledger.Completion
		var completedAt string
		if err := rows.Scan(&comp.ID, &comp.Quest, &completedAt, &comp.XP, &comp.CP, &comp.Coins); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		comp.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing completion time %q: %w", completedAt, err)
		}
		completions = append(completions, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completion rows: %w", err)
	}
	return completions, nil
}

func (c *Client) ListSteps(ctx context.Context, completionID string) ([]ledger.StepRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT entity, kind, delta, status, leveled_up, level
	FROM steps
	WHERE completion_id = ?
	ORDER BY seq
	`, completionID)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var steps []ledger.StepRecord
	for rows.Next() {
		var step ledger.StepRecord
		var leveledUp int
		if err := rows.Scan(&step.Entity, &step.Kind, &step.Delta, &step.Status, &leveledUp, &step.Level); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		step.LeveledUp = leveledUp != 0
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating step rows: %w", err)
	}
	return steps, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
