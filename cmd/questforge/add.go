package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"questforge/internal/quest"
)

func addCmd() *cobra.Command {
	var skill string
	var class string
	var stats []string
	var xp float64
	var cp float64
	var coins float64
	var priority string
	var difficulty string
	var due string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Append a new gamified task to the quest file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(quest.Draft{
				Title:      strings.Join(args, " "),
				Skill:      skill,
				Class:      class,
				Stats:      stats,
				XP:         xp,
				CP:         cp,
				Coins:      coins,
				Priority:   priority,
				Difficulty: difficulty,
				Due:        due,
			})
		},
	}
	cmd.Flags().StringVar(&skill, "skill", "", "Skill the quest trains")
	cmd.Flags().StringVar(&class, "class", "", "Class tag for the quest")
	cmd.Flags().StringSliceVar(&stats, "stat", nil, "Stat the quest improves directly (repeatable)")
	cmd.Flags().Float64Var(&xp, "xp", 0, "Experience reward (default from config)")
	cmd.Flags().Float64Var(&cp, "cp", 0, "Class point reward")
	cmd.Flags().Float64Var(&coins, "coins", 0, "Coin reward (default: a tenth of the XP)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority label")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty label")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func runAdd(draft quest.Draft) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	line, err := a.svc.AddQuest(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added to %s:\n  %s\n", a.cfg.TasksFile, line)
	return nil
}
