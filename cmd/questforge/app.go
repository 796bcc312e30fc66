package main

import (
	"context"

	"questforge/internal/config"
	"questforge/internal/ledger"
	"questforge/internal/service"
	"questforge/internal/vault"
)

// app bundles everything a command needs: the loaded settings, the wired
// service, and the ledger connection to close on exit.
type app struct {
	cfg *config.Config
	svc *service.Service
	led ledger.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return nil, err
	}

	store, err := vault.NewFS(cfg.Vault)
	if err != nil {
		return nil, err
	}

	var led ledger.Store
	if cfg.Ledger.DSN != "" {
		led, err = openLedger(ctx, cfg.Ledger.DSN)
		if err != nil {
			return nil, err
		}
		if err := led.EnsureSchema(ctx); err != nil {
			led.Close(ctx)
			return nil, err
		}
	}

	svc := service.New(cfg, store, led)
	if err := svc.Refresh(ctx); err != nil {
		if led != nil {
			led.Close(ctx)
		}
		return nil, err
	}
	return &app{cfg: cfg, svc: svc, led: led}, nil
}

func (a *app) Close(ctx context.Context) {
	if a.led != nil {
		a.led.Close(ctx)
	}
}
