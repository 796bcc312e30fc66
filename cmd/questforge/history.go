package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	var id string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded quest completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit, id)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum completions to show")
	cmd.Flags().StringVar(&id, "id", "", "Show the cascade steps of one completion")
	return cmd
}

func runHistory(limit int, id string) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if id != "" {
		steps, err := a.svc.HistorySteps(ctx, id)
		if err != nil {
			return err
		}
		if len(steps) == 0 {
			fmt.Fprintln(os.Stdout, "No steps recorded for that completion.")
			return nil
		}
		for _, step := range steps {
			fmt.Fprintf(os.Stdout, "%-8s %-13s %-14s +%s", step.Status, step.Kind, step.Entity, formatNumber(step.Delta))
			if step.LeveledUp {
				fmt.Fprintf(os.Stdout, " (level up! now %d)", step.Level)
			}
			fmt.Fprintln(os.Stdout)
		}
		return nil
	}

	completions, err := a.svc.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		fmt.Fprintln(os.Stdout, "No completions recorded.")
		return nil
	}
	for _, comp := range completions {
		fmt.Fprintf(os.Stdout, "%s  %s  %s XP  %s coins  (%s)\n",
			comp.CompletedAt.Format("2006-01-02 15:04"),
			comp.Quest,
			formatNumber(comp.XP),
			formatNumber(comp.Coins),
			comp.ID,
		)
	}
	return nil
}
