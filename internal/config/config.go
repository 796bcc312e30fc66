package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the settings file, relative to the
// working directory.
const DefaultPath = "questforge.yaml"

type Config struct {
	Vault             string       `yaml:"vault"`
	TasksFile         string       `yaml:"tasks_file"`
	PlayerFile        string       `yaml:"player_file"`
	SkillTreeFolder   string       `yaml:"skill_tree_folder"`
	MasterClassFolder string       `yaml:"master_class_folder"`
	ClassFolder       string       `yaml:"class_folder"`
	SkillFolder       string       `yaml:"skill_folder"`
	StatFolder        string       `yaml:"stat_folder"`
	XPPerTask         float64      `yaml:"xp_per_task"`
	CoinPerTask       float64      `yaml:"coin_per_task"`
	MetadataStyle     string       `yaml:"metadata_style"`
	Ledger            LedgerConfig `yaml:"ledger"`
}

type LedgerConfig struct {
	DSN string `yaml:"dsn"`
}

// Default returns the settings used when a field is left unset: the
// conventional SkillTree layout with a tasks file at the vault root.
func Default() Config {
	return Config{
		TasksFile:         "GamifiedTasks.md",
		PlayerFile:        "SkillTree/PlayerData.md",
		SkillTreeFolder:   "SkillTree",
		MasterClassFolder: "SkillTree/Master-Class",
		ClassFolder:       "SkillTree/Master-Class/Class",
		SkillFolder:       "SkillTree/Master-Class/Class/Skills",
		StatFolder:        "SkillTree/Stat",
		XPPerTask:         10,
		CoinPerTask:       5,
		MetadataStyle:     "tags",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Vault) == "" {
		return fmt.Errorf("vault path is required")
	}
	if cfg.MetadataStyle != "tags" && cfg.MetadataStyle != "emoji" {
		return fmt.Errorf("metadata_style must be tags or emoji, got %q", cfg.MetadataStyle)
	}
	if cfg.XPPerTask < 0 {
		return fmt.Errorf("xp_per_task must not be negative")
	}
	if cfg.CoinPerTask < 0 {
		return fmt.Errorf("coin_per_task must not be negative")
	}
	for name, value := range map[string]string{
		"tasks_file":          cfg.TasksFile,
		"player_file":         cfg.PlayerFile,
		"skill_tree_folder":   cfg.SkillTreeFolder,
		"master_class_folder": cfg.MasterClassFolder,
		"class_folder":        cfg.ClassFolder,
		"skill_folder":        cfg.SkillFolder,
		"stat_folder":         cfg.StatFolder,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}
