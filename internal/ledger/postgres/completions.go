package postgres

import (
	"context"
	"fmt"

	"questforge/internal/ledger"
)

func (c *Client) RecordCompletion(ctx context.Context, comp ledger.Completion, steps []ledger.StepRecord) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO completions (id, quest, completed_at, xp, cp, coins)
	VALUES ($1, $2, $3, $4, $5, $6)
	`, comp.ID, comp.Quest, comp.CompletedAt, comp.XP, comp.CP, comp.Coins)
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}

	for i, step := range steps {
		_, err = tx.Exec(ctx, `
		INSERT INTO steps (completion_id, seq, entity, kind, delta, status, leveled_up, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, comp.ID, i, step.Entity, step.Kind, step.Delta, step.Status, step.LeveledUp, step.Level)
		if err != nil {
			return fmt.Errorf("inserting step %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing completion: %w", err)
	}
	return nil
}

func (c *Client) ListCompletions(ctx context.Context, limit int) ([]ledger.Completion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.pool.Query(ctx, `
	SELECT id, quest, completed_at, xp, cp, coins
	FROM completions
	ORDER BY completed_at DESC, id
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var completions []ledger.Completion
	for rows.Next() {
		var comp ledger.Completion
		if err := rows.Scan(&comp.ID, &comp.Quest, &comp.CompletedAt, &comp.XP, &comp.CP, &comp.Coins); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		completions = append(completions, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completion rows: %w", err)
	}
	return completions, nil
}

func (c *Client) ListSteps(ctx context.Context, completionID string) ([]ledger.StepRecord, error) {
	rows, err := c.pool.Query(ctx, `
	SELECT entity, kind, delta, status, leveled_up, level
	FROM steps
	WHERE completion_id = $1
	ORDER BY seq
	`, completionID)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var steps []ledger.StepRecord
	for rows.Next() {
		var step ledger.StepRecord
		if err := rows.Scan(&step.Entity, &step.Kind, &step.Delta, &step.Status, &step.LeveledUp, &step.Level); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating step rows: %w", err)
	}
	return steps, nil
}
