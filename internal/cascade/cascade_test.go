package cascade

import (
	"context"
	"testing"
	"time"

	"questforge/internal/frontmatter"
	"questforge/internal/progress"
	"questforge/internal/quest"
	"questforge/internal/resolve"
	"questforge/internal/vault"
)

func testVault(t *testing.T, docs map[string]string) vault.Store {
	t.Helper()
	v, err := vault.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()
	for path, text := range docs {
		if err := v.Write(ctx, path, text); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return v
}

func testRunner(t *testing.T, store vault.Store) *Runner {
	t.Helper()
	ctx := context.Background()
	masters := resolve.NewIndex(store, "SkillTree/Master-Class")
	stats := resolve.NewIndex(store, "SkillTree/Stat")
	if err := masters.Rebuild(ctx); err != nil {
		t.Fatalf("rebuild masters: %v", err)
	}
	if err := stats.Rebuild(ctx); err != nil {
		t.Fatalf("rebuild stats: %v", err)
	}
	r := NewRunner(store, "SkillTree", "SkillTree/PlayerData.md", masters, stats)
	r.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func readFields(t *testing.T, store vault.Store, path string) map[string]any {
	t.Helper()
	text, err := store.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	doc, err := frontmatter.Decode(text)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return doc.Fields
}

func TestRunFullCascade(t *testing.T) {
	ctx := context.Background()
	store := testVault(t, map[string]string{
		"SkillTree/Combat/Skills/Swordsmanship.md": "---\nname: Swordsmanship\nclass: Warrior\nstats:\n  - Strength\nlevel: 1\ncurrentCP: 0\nrequiredCP: 20\n---\n",
		"SkillTree/Combat/Class/Warrior.md":        "---\nname: Warrior\nmasterClass: Combat\nlevel: 1\ncurrentCP: 0\nrequiredCP: 50\n---\n",
		"SkillTree/Master-Class/Combat.md":         "---\nname: Combat\nlevel: 1\ncurrentCP: 0\nrequiredCP: 100\n---\n",
		"SkillTree/Stat/Strength.md":               "---\nname: Strength\nlevel: 1\ncurrent: 0\nrequired: 10\nvalue: 0\n---\n",
		"SkillTree/PlayerData.md":                  "---\nname: Adventurer\nlevel: 1\nxp: 0\nxpRequired: 1000\ntotal_exp: 0\ncoins: 5\n---\n",
	})
	runner := testRunner(t, store)

	report, err := runner.Run(ctx, quest.Quest{
		Title:  "Defeat the bandit camp",
		XP:     200,
		CP:     20,
		Coins:  20,
		Skills: []string{"Swordsmanship"},
		Stats:  []string{"Strength"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.ID == "" {
		t.Fatalf("report has no id")
	}

	wantSteps := []struct {
		entity string
		kind   progress.Kind
		status StepStatus
	}{
		{"Swordsmanship", progress.KindSkill, StepApplied},
		{"Warrior", progress.KindClass, StepApplied},
		{"Combat", progress.KindMasterClass, StepApplied},
		{"Strength", progress.KindStat, StepApplied},
		{"Strength", progress.KindStat, StepApplied},
		{"Adventurer", progress.KindPlayer, StepApplied},
	}
	if len(report.Steps) != len(wantSteps) {
		t.Fatalf("steps = %#v", report.Steps)
	}
	for i, want := range wantSteps {
		got := report.Steps[i]
		if got.Entity != want.entity || got.Kind != want.kind || got.Status != want.status {
			t.Errorf("step %d = %+v, want %s %s %s", i, got, want.kind, want.entity, want.status)
		}
	}
	if !report.Steps[0].LeveledUp || report.Steps[0].Level != 2 {
		t.Errorf("skill step = %+v, want level up to 2", report.Steps[0])
	}

	skill := readFields(t, store, "SkillTree/Combat/Skills/Swordsmanship.md")
	if skill["level"] != 2 || skill["currentCP"] != 0 || skill["requiredCP"] != 80 {
		t.Errorf("skill fields = %#v", skill)
	}
	if skill["class"] != "Warrior" {
		t.Errorf("unrelated fields must survive the rewrite, got %#v", skill)
	}

	class := readFields(t, store, "SkillTree/Combat/Class/Warrior.md")
	if class["level"] != 1 || class["currentCP"] != 20 || class["requiredCP"] != 50 {
		t.Errorf("class fields = %#v", class)
	}

	master := readFields(t, store, "SkillTree/Master-Class/Combat.md")
	if master["level"] != 1 || master["currentCP"] != 20 {
		t.Errorf("master class fields = %#v", master)
	}

	// Strength is reached through the skill and through the quest tag, so it
	// gets the delta twice: 0+20 crosses the 10-point threshold (level 2,
	// remainder 10), then +20 more sits below the level-2 requirement of 40.
	stat := readFields(t, store, "SkillTree/Stat/Strength.md")
	if stat["level"] != 2 || stat["current"] != 30 || stat["required"] != 40 || stat["value"] != 15 {
		t.Errorf("stat fields = %#v", stat)
	}

	player := readFields(t, store, "SkillTree/PlayerData.md")
	if player["level"] != 1 || player["xp"] != 200 || player["xpRequired"] != 1000 {
		t.Errorf("player fields = %#v", player)
	}
	if player["total_exp"] != 200 || player["coins"] != 25 {
		t.Errorf("player totals = %#v", player)
	}
}

func TestRunUnknownSkillIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := testVault(t, map[string]string{
		"SkillTree/PlayerData.md": "---\nlevel: 1\nxp: 0\nxpRequired: 1000\n---\n",
	})
	runner := testRunner(t, store)

	report, err := runner.Run(ctx, quest.Quest{Title: "Mystery", XP: 10, CP: 5, Coins: 1, Skills: []string{"Basket Weaving"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Steps) != 2 {
		t.Fatalf("steps = %#v", report.Steps)
	}
	if report.Steps[0].Status != StepSkipped || report.Steps[0].Kind != progress.KindSkill {
		t.Errorf("skill step = %+v", report.Steps[0])
	}
	// the player is still paid even when every skill step skips
	if report.Steps[1].Status != StepApplied || report.Steps[1].Kind != progress.KindPlayer {
		t.Errorf("player step = %+v", report.Steps[1])
	}
}

func TestRunMissingStatIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := testVault(t, map[string]string{
		"SkillTree/PlayerData.md": "---\nlevel: 1\nxp: 0\nxpRequired: 1000\n---\n",
	})
	runner := testRunner(t, store)

	report, err := runner.Run(ctx, quest.Quest{Title: "Train", XP: 10, CP: 5, Stats: []string{"Wisdom"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Steps[0].Status != StepSkipped || report.Steps[0].Entity != "Wisdom" {
		t.Errorf("stat step = %+v", report.Steps[0])
	}
}

func TestRunCreatesPlayerDocument(t *testing.T) {
	ctx := context.Background()
	store := testVault(t, map[string]string{})
	runner := testRunner(t, store)

	report, err := runner.Run(ctx, quest.Quest{Title: "First steps", XP: 1500, Coins: 150})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	last := report.Steps[len(report.Steps)-1]
	if last.Status != StepApplied || !last.LeveledUp || last.Level != 2 {
		t.Fatalf("player step = %+v", last)
	}

	player := readFields(t, store, "SkillTree/PlayerData.md")
	// 1500 XP crosses the 1000-point level-1 requirement, leaving 500 toward
	// the 3000 required for level 3.
	if player["level"] != 2 || player["xp"] != 500 || player["xpRequired"] != 3000 {
		t.Errorf("player fields = %#v", player)
	}
	if player["coins"] != 150 || player["total_exp"] != 1500 {
		t.Errorf("player totals = %#v", player)
	}
}

func TestRunMalformedEntityFails(t *testing.T) {
	ctx := context.Background()
	store := testVault(t, map[string]string{
		"SkillTree/Combat/Skills/Haggling.md": "---\nname: Haggling\nclass: Trader\nstats: Charisma\n---\n",
		"SkillTree/Combat/Class/Trader.md":    "---\nname: Trader\nbroken: [\n",
		"SkillTree/PlayerData.md":             "---\nlevel: 1\nxp: 0\nxpRequired: 1000\n---\n",
	})
	runner := testRunner(t, store)

	report, err := runner.Run(ctx, quest.Quest{Title: "Barter", XP: 10, CP: 5, Skills: []string{"Haggling"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var classStep *Step
	for i := range report.Steps {
		if report.Steps[i].Kind == progress.KindClass {
			classStep = &report.Steps[i]
		}
	}
	if classStep == nil || classStep.Status != StepFailed {
		t.Fatalf("class step = %+v", classStep)
	}
	if len(report.Failed()) != 1 {
		t.Errorf("failed = %#v", report.Failed())
	}
}
