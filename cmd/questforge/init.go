package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"questforge/internal/config"
	"questforge/internal/vault"
)

func initCmd() *cobra.Command {
	var vaultPath string
	var playerName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a questforge config and a starter skill tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(vaultPath) == "" {
				return fmt.Errorf("--vault is required")
			}
			return runInit(vaultPath, playerName)
		},
	}
	cmd.Flags().StringVar(&vaultPath, "vault", "", "Path to the markdown vault")
	cmd.Flags().StringVar(&playerName, "player", "Adventurer", "Player name")
	return cmd
}

func runInit(vaultPath, playerName string) error {
	ctx := context.Background()

	if _, err := os.Stat(config.DefaultPath); err == nil {
		return fmt.Errorf("%s already exists", config.DefaultPath)
	}

	configContents := fmt.Sprintf(`vault: %s
tasks_file: GamifiedTasks.md
player_file: SkillTree/PlayerData.md
skill_tree_folder: SkillTree
master_class_folder: SkillTree/Master-Class
stat_folder: SkillTree/Stat
xp_per_task: 10
coin_per_task: 5
metadata_style: tags
ledger:
  dsn: sqlite://questforge.db
`, vaultPath)
	if err := os.WriteFile(config.DefaultPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", config.DefaultPath, err)
	}

	store, err := vault.NewFS(vaultPath)
	if err != nil {
		return err
	}

	starter := map[string]string{
		"GamifiedTasks.md": "# Quests\n\n- [ ] Take a walk #gamified-task [xp:: 10] [cp:: 5] [skills:: Endurance]\n",
		"SkillTree/PlayerData.md": fmt.Sprintf(
			"---\nname: %s\nlevel: 1\nxp: 0\nxpRequired: 1000\ntotal_exp: 0\ncoins: 0\n---\n", playerName),
		"SkillTree/Master-Class/Fitness.md":     "---\nname: Fitness\nlevel: 1\ncurrentCP: 0\nrequiredCP: 100\n---\n",
		"SkillTree/Fitness/Class/Athlete.md":    "---\nname: Athlete\nmasterClass: Fitness\nlevel: 1\ncurrentCP: 0\nrequiredCP: 50\n---\n",
		"SkillTree/Fitness/Skills/Endurance.md": "---\nname: Endurance\nclass: Athlete\nstats:\n  - Constitution\nlevel: 1\ncurrentCP: 0\nrequiredCP: 20\n---\n",
		"SkillTree/Stat/Constitution.md":        "---\nname: Constitution\nlevel: 1\ncurrent: 0\nrequired: 10\nvalue: 0\n---\n",
	}
	for path, text := range starter {
		if err := store.Create(ctx, path, text); err != nil {
			if errors.Is(err, vault.ErrExists) {
				continue
			}
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Wrote %s and a starter skill tree in %s.\n", config.DefaultPath, vaultPath)
	return nil
}
