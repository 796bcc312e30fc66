package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"questforge/internal/config"
	"questforge/internal/ledger"
	"questforge/internal/progress"
	"questforge/internal/quest"
	"questforge/internal/vault"
)

type fakeLedger struct {
	completions []ledger.Completion
	steps       map[string][]ledger.StepRecord
}

func (f *fakeLedger) Close(ctx context.Context) error        { return nil }
func (f *fakeLedger) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeLedger) RecordCompletion(ctx context.Context, c ledger.Completion, steps []ledger.StepRecord) error {
	if f.steps == nil {
		f.steps = map[string][]ledger.StepRecord{}
	}
	f.completions = append(f.completions, c)
	f.steps[c.ID] = steps
	return nil
}

func (f *fakeLedger) ListCompletions(ctx context.Context, limit int) ([]ledger.Completion, error) {
	return f.completions, nil
}

func (f *fakeLedger) ListSteps(ctx context.Context, completionID string) ([]ledger.StepRecord, error) {
	return f.steps[completionID], nil
}

const tasksFile = `# Quests

- [ ] Defeat the bandit camp #gamified-task [xp:: 200] [cp:: 20] [skills:: Swordsmanship] [stats:: Strength]
	- [ ] Scout the camp
	- [x] Sharpen the blade ✅ 2025-05-30
- [ ] Sweep the floor #gamified-task
`

func testService(t *testing.T) (*Service, vault.Store, *fakeLedger) {
	t.Helper()
	store, err := vault.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	ctx := context.Background()
	docs := map[string]string{
		"GamifiedTasks.md":                         tasksFile,
		"SkillTree/Combat/Skills/Swordsmanship.md": "---\nname: Swordsmanship\nclass: Warrior\nstats:\n  - Strength\nlevel: 1\ncurrentCP: 0\nrequiredCP: 20\n---\n",
		"SkillTree/Combat/Class/Warrior.md":        "---\nname: Warrior\nmasterClass: Combat\nlevel: 1\ncurrentCP: 0\nrequiredCP: 50\n---\n",
		"SkillTree/Master-Class/Combat.md":         "---\nname: Combat\nlevel: 1\ncurrentCP: 0\nrequiredCP: 100\n---\n",
		"SkillTree/Stat/Strength.md":               "---\nname: Strength\nlevel: 1\ncurrent: 0\nrequired: 10\nvalue: 0\n---\n",
		"SkillTree/PlayerData.md":                  "---\nname: Adventurer\nlevel: 1\nxp: 0\nxpRequired: 1000\ntotal_exp: 0\ncoins: 5\n---\n",
	}
	for path, text := range docs {
		if err := store.Write(ctx, path, text); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	cfg := config.Default()
	cfg.Vault = "unused"

	led := &fakeLedger{}
	svc := New(&cfg, store, led)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store, led
}

func TestQuests(t *testing.T) {
	svc, _, _ := testService(t)
	quests, err := svc.Quests(context.Background())
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	if len(quests) != 2 {
		t.Fatalf("expected 2 quests, got %#v", quests)
	}

	bandit := quests[0]
	if bandit.Title != "Defeat the bandit camp" || bandit.XP != 200 || bandit.CP != 20 || bandit.Coins != 20 {
		t.Errorf("quest = %+v", bandit)
	}
	if len(bandit.Subtasks) != 2 || !bandit.Subtasks[1].Completed {
		t.Errorf("subtasks = %+v", bandit.Subtasks)
	}

	// no reward metadata at all falls back to the configured per-task values
	sweep := quests[1]
	if sweep.XP != 10 || sweep.Coins != 5 {
		t.Errorf("default rewards = %+v", sweep)
	}
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	svc, store, led := testService(t)

	report, err := svc.Complete(ctx, "Defeat the bandit camp")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(report.Failed()) != 0 {
		t.Fatalf("failed steps: %#v", report.Failed())
	}
	// skill, class, master class, stat twice, player
	if len(report.Steps) != 6 {
		t.Fatalf("steps = %#v", report.Steps)
	}

	content, err := store.Read(ctx, "GamifiedTasks.md")
	if err != nil {
		t.Fatalf("read tasks: %v", err)
	}
	if !strings.Contains(content, "- [x] Defeat the bandit camp #gamified-task") {
		t.Errorf("line not checked off:\n%s", content)
	}
	if !strings.Contains(content, "✅ 2025-06-01") {
		t.Errorf("completion date missing:\n%s", content)
	}

	player, err := svc.Player(ctx)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if player["xp"] != 200 || player["coins"] != 25 {
		t.Errorf("player = %#v", player)
	}

	if len(led.completions) != 1 {
		t.Fatalf("ledger completions = %#v", led.completions)
	}
	recorded := led.completions[0]
	if recorded.Quest != "Defeat the bandit camp" || recorded.XP != 200 || recorded.ID != report.ID {
		t.Errorf("recorded = %+v", recorded)
	}
	if len(led.steps[report.ID]) != 6 {
		t.Errorf("recorded steps = %#v", led.steps[report.ID])
	}

	if _, err := svc.Complete(ctx, "Defeat the bandit camp"); !errors.Is(err, ErrAlreadyComplete) {
		t.Fatalf("expected ErrAlreadyComplete, got %v", err)
	}
}

func TestCompleteUnknownQuest(t *testing.T) {
	svc, _, _ := testService(t)
	if _, err := svc.Complete(context.Background(), "No Such Quest"); !errors.Is(err, ErrQuestNotFound) {
		t.Fatalf("expected ErrQuestNotFound, got %v", err)
	}
}

func TestUncomplete(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := testService(t)

	if _, err := svc.Complete(ctx, "Sweep the floor"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.Uncomplete(ctx, "Sweep the floor"); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}

	content, err := store.Read(ctx, "GamifiedTasks.md")
	if err != nil {
		t.Fatalf("read tasks: %v", err)
	}
	if !strings.Contains(content, "- [ ] Sweep the floor #gamified-task") {
		t.Errorf("line not unchecked:\n%s", content)
	}
	if strings.Contains(content, "Sweep the floor #gamified-task ✅") {
		t.Errorf("completion date not stripped:\n%s", content)
	}

	// progression applied on completion stays applied
	player, err := svc.Player(ctx)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if player["total_exp"] != 10 {
		t.Errorf("player = %#v", player)
	}
}

func TestToggleSubtask(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := testService(t)

	if err := svc.ToggleSubtask(ctx, "Defeat the bandit camp", 0, true); err != nil {
		t.Fatalf("toggle subtask: %v", err)
	}
	q, err := svc.FindQuest(ctx, "Defeat the bandit camp")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !q.Subtasks[0].Completed {
		t.Errorf("subtask not completed: %+v", q.Subtasks)
	}
	if q.Completed {
		t.Errorf("quest itself must stay open")
	}

	if err := svc.ToggleSubtask(ctx, "Defeat the bandit camp", 5, true); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestAddQuest(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := testService(t)

	line, err := svc.AddQuest(ctx, quest.Draft{Title: "Forge a sword", Skill: "Swordsmanship"})
	if err != nil {
		t.Fatalf("add quest: %v", err)
	}
	if !strings.Contains(line, "#gamified-task") {
		t.Fatalf("line = %q", line)
	}

	quests, err := svc.Quests(ctx)
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	q := quests[len(quests)-1]
	if q.Title != "Forge a sword" {
		t.Fatalf("parsed back = %+v", q)
	}
	// draft XP left at zero picks up the configured per-task XP
	if q.XP != 10 {
		t.Errorf("xp = %v", q.XP)
	}
	if len(q.Skills) != 1 || q.Skills[0] != "Swordsmanship" {
		t.Errorf("skills = %#v", q.Skills)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := testService(t)

	if _, err := svc.Complete(ctx, "Defeat the bandit camp"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	counts, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	want := map[progress.Kind]int{
		progress.KindSkill:       1,
		progress.KindClass:       1,
		progress.KindMasterClass: 1,
		progress.KindStat:        1,
		progress.KindPlayer:      1,
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("reset %s count = %d, want %d", kind, counts[kind], n)
		}
	}

	player, err := svc.Player(ctx)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if player["level"] != 1 || player["xp"] != 0 || player["xpRequired"] != 1000 || player["coins"] != 0 {
		t.Errorf("player after reset = %#v", player)
	}
	if player["name"] != "Adventurer" {
		t.Errorf("non-progression fields must survive reset, got %#v", player)
	}
}

func TestResetSingleKind(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := testService(t)

	if _, err := svc.Complete(ctx, "Defeat the bandit camp"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	counts, err := svc.Reset(ctx, progress.KindStat)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if counts[progress.KindStat] != 1 || len(counts) != 1 {
		t.Errorf("counts = %#v", counts)
	}

	// the player keeps its progression when only stats are reset
	player, err := svc.Player(ctx)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if player["xp"] != 200 {
		t.Errorf("player = %#v", player)
	}
}
