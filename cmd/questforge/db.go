package main

import (
	"context"
	"fmt"
	"strings"

	"questforge/internal/ledger"
	"questforge/internal/ledger/postgres"
	"questforge/internal/ledger/sqlite"
)

func openLedger(ctx context.Context, dsn string) (ledger.Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported ledger DSN scheme in %q", dsn)
	}
}
