package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"questforge/internal/progress"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset [kind...]",
		Short: "Rewind progression to level 1 (all kinds, or just the ones named)",
		Long: `Rewind progression fields in the skill tree back to their starting values.
Kinds: stat, skill, class, master-class, player. With no kind, everything
is reset. Other front-matter fields and note bodies are untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(args, yes)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func runReset(args []string, yes bool) error {
	ctx := context.Background()

	kinds := make([]progress.Kind, 0, len(args))
	for _, arg := range args {
		kind := progress.Kind(arg)
		if !kind.IsValid() {
			return fmt.Errorf("unknown kind %q", arg)
		}
		kinds = append(kinds, kind)
	}

	if !yes {
		fmt.Fprint(os.Stdout, "This rewinds progression and cannot be undone. Continue? [y/N] ")
		var answer string
		fmt.Fscanln(os.Stdin, &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stdout, "Aborted.")
			return nil
		}
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	counts, err := a.svc.Reset(ctx, kinds...)
	if err != nil {
		return err
	}

	total := 0
	for _, kind := range []progress.Kind{
		progress.KindStat,
		progress.KindSkill,
		progress.KindClass,
		progress.KindMasterClass,
		progress.KindPlayer,
	} {
		if n := counts[kind]; n > 0 {
			fmt.Fprintf(os.Stdout, "  %-13s %d\n", kind, n)
			total += n
		}
	}
	if total == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to reset.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Reset %d documents.\n", total)
	return nil
}
