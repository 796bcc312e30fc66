package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS completions (
		id           TEXT PRIMARY KEY,
		quest        TEXT NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL,
		xp           DOUBLE PRECISION NOT NULL DEFAULT 0,
		cp           DOUBLE PRECISION NOT NULL DEFAULT 0,
		coins        DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS steps (
		id            BIGSERIAL PRIMARY KEY,
		completion_id TEXT NOT NULL REFERENCES completions(id) ON DELETE CASCADE,
		seq           INTEGER NOT NULL,
		entity        TEXT NOT NULL,
		kind          TEXT NOT NULL,
		delta         DOUBLE PRECISION NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		leveled_up    BOOLEAN NOT NULL DEFAULT FALSE,
		level         INTEGER NOT NULL DEFAULT 0,
		CONSTRAINT uq_step UNIQUE (completion_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_completions_at ON completions (completed_at);
	CREATE INDEX IF NOT EXISTS idx_steps_completion ON steps (completion_id, seq);
	`

	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("executing DDL: %w", err)
	}
	return nil
}
