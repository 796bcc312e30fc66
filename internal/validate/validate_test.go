package validate

import (
	"context"
	"testing"

	"questforge/internal/config"
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

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Vault = "unused"
	return &cfg
}

func issuesByCode(report *Report) map[string][]Issue {
	byCode := map[string][]Issue{}
	for _, issue := range report.Issues {
		byCode[issue.Code] = append(byCode[issue.Code], issue)
	}
	return byCode
}

func TestRunCleanVault(t *testing.T) {
	store := testVault(t, map[string]string{
		"GamifiedTasks.md":                         "- [ ] Train #gamified-task [skills:: Swordsmanship]\n",
		"SkillTree/Combat/Skills/Swordsmanship.md": "---\nname: Swordsmanship\nclass: Warrior\nstats: Strength\nlevel: 1\ncurrentCP: 5\nrequiredCP: 20\n---\n",
		"SkillTree/Combat/Class/Warrior.md":        "---\nname: Warrior\nmasterClass: Combat\nlevel: 1\ncurrentCP: 5\nrequiredCP: 50\n---\n",
		"SkillTree/Master-Class/Combat.md":         "---\nname: Combat\nlevel: 1\ncurrentCP: 5\nrequiredCP: 100\n---\n",
		"SkillTree/Stat/Strength.md":               "---\nname: Strength\nlevel: 1\ncurrent: 5\nrequired: 10\nvalue: 0\n---\n",
	})

	report, err := Run(context.Background(), store, testConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected clean report, got %#v", report.Issues)
	}
}

func TestRunFlagsBrokenVault(t *testing.T) {
	store := testVault(t, map[string]string{
		"GamifiedTasks.md": "- [ ] Train #gamified-task [skills:: Basket Weaving]\n- [x] Done #gamified-task [skills:: Basket Weaving] ✅ 2025-05-01\n",
		// class document missing entirely
		"SkillTree/Combat/Skills/Swordsmanship.md": "---\nname: Swordsmanship\nclass: Warrior\nstats: Strength\n---\n",
		// master class named but absent, stat counter past its threshold
		"SkillTree/Arts/Skills/Painting.md": "---\nname: Painting\nclass: Artist\nstats: Focus\n---\n",
		"SkillTree/Arts/Class/Artist.md":    "---\nname: Artist\nmasterClass: Creativity\n---\n",
		"SkillTree/Stat/Focus.md":           "---\nname: Focus\nlevel: 1\ncurrent: 12\nrequired: 10\nvalue: 0\n---\n",
		"SkillTree/Stat/Strength.md":        "---\nname: Strength\nlevel: 1\ncurrent: 0\nrequired: 10\nvalue: 0\n---\n",
		"SkillTree/Stat/strength2.md":       "---\nname: STRENGTH\n---\n",
		"SkillTree/Stat/broken.md":          "---\nname: [\n",
	})

	report, err := Run(context.Background(), store, testConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	byCode := issuesByCode(report)

	if len(byCode[codeMalformedFrontmatter]) != 1 {
		t.Errorf("malformed = %#v", byCode[codeMalformedFrontmatter])
	}
	if len(byCode[codeUnresolvedClass]) != 1 || byCode[codeUnresolvedClass][0].Entity != "Swordsmanship" {
		t.Errorf("unresolved class = %#v", byCode[codeUnresolvedClass])
	}
	if len(byCode[codeUnresolvedMaster]) != 1 || byCode[codeUnresolvedMaster][0].Entity != "Artist" {
		t.Errorf("unresolved master = %#v", byCode[codeUnresolvedMaster])
	}
	if len(byCode[codeDuplicateName]) != 1 {
		t.Errorf("duplicates = %#v", byCode[codeDuplicateName])
	}
	if len(byCode[codePointsOutOfRange]) != 1 || byCode[codePointsOutOfRange][0].Entity != "Focus" {
		t.Errorf("out of range = %#v", byCode[codePointsOutOfRange])
	}
	// only the open quest is flagged, the completed one is history
	if len(byCode[codeUnresolvedSkill]) != 1 {
		t.Errorf("unresolved skill = %#v", byCode[codeUnresolvedSkill])
	}

	if report.Errors() == 0 || report.Warnings() == 0 {
		t.Errorf("severity counts: errors=%d warnings=%d", report.Errors(), report.Warnings())
	}
}

func TestRunMissingMasterClassWarns(t *testing.T) {
	store := testVault(t, map[string]string{
		"SkillTree/Combat/Skills/Boxing.md": "---\nname: Boxing\nclass: Brawler\nstats: Strength\n---\n",
		"SkillTree/Combat/Class/Brawler.md": "---\nname: Brawler\n---\n",
		"SkillTree/Stat/Strength.md":        "---\nname: Strength\n---\n",
	})

	report, err := Run(context.Background(), store, testConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	byCode := issuesByCode(report)
	if len(byCode[codeMissingMaster]) != 1 || byCode[codeMissingMaster][0].Severity != SeverityWarn {
		t.Fatalf("missing master = %#v", report.Issues)
	}
}
