package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow vault changes and keep the entity indexes fresh",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	fmt.Fprintf(os.Stdout, "Watching %s. Press Ctrl-C to stop.\n", a.cfg.Vault)
	if err := a.svc.Watch(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
