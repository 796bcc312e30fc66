package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the player's level, experience, and coins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	player, err := a.svc.Player(ctx)
	if err != nil {
		return err
	}
	if len(player) == 0 {
		fmt.Fprintln(os.Stdout, "No player data yet. Complete a quest to create it.")
		return nil
	}

	// the interesting fields first, everything else alphabetically
	for _, key := range []string{"name", "level", "xp", "xpRequired", "total_exp", "coins"} {
		if value, ok := player[key]; ok {
			fmt.Fprintf(os.Stdout, "%-12s %v\n", key, value)
			delete(player, key)
		}
	}
	rest := make([]string, 0, len(player))
	for key := range player {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(os.Stdout, "%-12s %v\n", key, player[key])
	}
	return nil
}
