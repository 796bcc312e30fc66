package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func completeCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "complete <quest>",
		Short: "Complete a quest and apply its progression cascade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(args[0], undo)
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Uncheck the quest instead (progression already granted is kept)")
	return cmd
}

func runComplete(ref string, undo bool) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if undo {
		if err := a.svc.Uncomplete(ctx, ref); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Unchecked %q.\n", ref)
		return nil
	}

	report, err := a.svc.Complete(ctx, ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Completed %q.\n", report.Quest)
	for _, line := range report.Lines() {
		fmt.Fprintf(os.Stdout, "  %s\n", line)
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d cascade steps failed", len(failed))
	}
	return nil
}
