package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questforge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("minimal config gets defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "vault: ./vault\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Vault != "./vault" {
			t.Fatalf("unexpected vault: %q", cfg.Vault)
		}
		if cfg.TasksFile != "GamifiedTasks.md" {
			t.Fatalf("unexpected tasks file: %q", cfg.TasksFile)
		}
		if cfg.PlayerFile != "SkillTree/PlayerData.md" {
			t.Fatalf("unexpected player file: %q", cfg.PlayerFile)
		}
		if cfg.XPPerTask != 10 || cfg.CoinPerTask != 5 {
			t.Fatalf("unexpected per-task defaults: %v/%v", cfg.XPPerTask, cfg.CoinPerTask)
		}
		if cfg.MetadataStyle != "tags" {
			t.Fatalf("unexpected style: %q", cfg.MetadataStyle)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, strings.Join([]string{
			"vault: /data/vault",
			"metadata_style: emoji",
			"xp_per_task: 25",
			"stat_folder: SkillTree/Attributes",
			"ledger:",
			"  dsn: sqlite://questforge.db",
		}, "\n")))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.MetadataStyle != "emoji" {
			t.Fatalf("unexpected style: %q", cfg.MetadataStyle)
		}
		if cfg.XPPerTask != 25 {
			t.Fatalf("unexpected xp_per_task: %v", cfg.XPPerTask)
		}
		if cfg.StatFolder != "SkillTree/Attributes" {
			t.Fatalf("unexpected stat folder: %q", cfg.StatFolder)
		}
		if cfg.Ledger.DSN != "sqlite://questforge.db" {
			t.Fatalf("unexpected ledger dsn: %q", cfg.Ledger.DSN)
		}
	})

	t.Run("missing vault", func(t *testing.T) {
		if _, err := Load(writeConfig(t, "xp_per_task: 5\n")); err == nil {
			t.Fatalf("expected error for missing vault")
		}
	})

	t.Run("bad metadata style", func(t *testing.T) {
		if _, err := Load(writeConfig(t, "vault: ./v\nmetadata_style: fancy\n")); err == nil {
			t.Fatalf("expected error for bad style")
		}
	})

	t.Run("negative xp", func(t *testing.T) {
		if _, err := Load(writeConfig(t, "vault: ./v\nxp_per_task: -1\n")); err == nil {
			t.Fatalf("expected error for negative xp_per_task")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
