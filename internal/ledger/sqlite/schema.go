package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS completions (
		id           TEXT PRIMARY KEY,
		quest        TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		xp           REAL NOT NULL DEFAULT 0,
		cp           REAL NOT NULL DEFAULT 0,
		coins        REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS steps (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		completion_id TEXT NOT NULL REFERENCES completions(id) ON DELETE CASCADE,
		seq           INTEGER NOT NULL,
		entity        TEXT NOT NULL,
		kind          TEXT NOT NULL,
		delta         REAL NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		leveled_up    INTEGER NOT NULL DEFAULT 0,
		level         INTEGER NOT NULL DEFAULT 0,
		CONSTRAINT uq_step UNIQUE (completion_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_completions_at ON completions (completed_at);
	CREATE INDEX IF NOT EXISTS idx_steps_completion ON steps (completion_id, seq);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}
