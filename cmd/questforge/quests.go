package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"questforge/internal/quest"
)

func questsCmd() *cobra.Command {
	var all bool
	var completed bool
	cmd := &cobra.Command{
		Use:   "quests",
		Short: "List quests from the gamified task file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuests(all, completed)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include completed quests")
	cmd.Flags().BoolVar(&completed, "completed", false, "Show only completed quests")
	return cmd
}

func runQuests(all, completed bool) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	quests, err := a.svc.Quests(ctx)
	if err != nil {
		return err
	}

	shown := 0
	for _, q := range quests {
		if !all {
			if completed != q.Completed {
				continue
			}
		}
		printQuest(q)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(os.Stdout, "No quests found.")
	}
	return nil
}

func printQuest(q quest.Quest) {
	marker := " "
	if q.Completed {
		marker = "x"
	}
	fmt.Fprintf(os.Stdout, "[%s] %s (%s XP", marker, q.Title, formatNumber(q.XP))
	if q.CP > 0 {
		fmt.Fprintf(os.Stdout, ", %s CP", formatNumber(q.CP))
	}
	if q.Coins > 0 {
		fmt.Fprintf(os.Stdout, ", %s coins", formatNumber(q.Coins))
	}
	fmt.Fprint(os.Stdout, ")")
	if len(q.Skills) > 0 {
		fmt.Fprintf(os.Stdout, " skills: %s", strings.Join(q.Skills, ", "))
	}
	if len(q.Stats) > 0 {
		fmt.Fprintf(os.Stdout, " stats: %s", strings.Join(q.Stats, ", "))
	}
	if q.Due != "" {
		fmt.Fprintf(os.Stdout, " due: %s", q.Due)
	}
	fmt.Fprintln(os.Stdout)

	for _, sub := range q.Subtasks {
		subMarker := " "
		if sub.Completed {
			subMarker = "x"
		}
		fmt.Fprintf(os.Stdout, "    [%s] %s\n", subMarker, sub.Text)
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
