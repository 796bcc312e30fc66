package taskmeta

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Run("emoji shorthand", func(t *testing.T) {
		fields := Extract("- [ ] Defeat the Slime King #gamified-task ✨200 ⭐50 🪙20 🛠️Swordsmanship 📅2024-06-01")
		if got := fields.XP(); got != 200 {
			t.Fatalf("xp = %v, want 200", got)
		}
		if got := fields.CP(); got != 50 {
			t.Fatalf("cp = %v, want 50", got)
		}
		if got := fields.Coins(); got != 20 {
			t.Fatalf("coins = %v, want 20", got)
		}
		if got := fields.String("due"); got != "2024-06-01" {
			t.Fatalf("due = %q", got)
		}
		if got := fields.List("skills"); !reflect.DeepEqual(got, []string{"Swordsmanship"}) {
			t.Fatalf("skills = %#v", got)
		}
	})

	t.Run("bracketed fields win over emoji", func(t *testing.T) {
		fields := Extract("- [ ] Train [xp:: 50] ✨999")
		if got := fields.XP(); got != 50 {
			t.Fatalf("xp = %v, want 50", got)
		}
	})

	t.Run("curly wins over pipe", func(t *testing.T) {
		fields := Extract("- [x] Study // xp: 10 | cp: 2 {xp: 25}")
		if got := fields.XP(); got != 25 {
			t.Fatalf("xp = %v, want 25", got)
		}
		if got := fields.CP(); got != 2 {
			t.Fatalf("cp = %v, want 2", got)
		}
	})

	t.Run("pipe comment", func(t *testing.T) {
		fields := Extract("- [ ] Run errands // xp: 15 | priority: High | due: 2024-02-02")
		if got := fields.XP(); got != 15 {
			t.Fatalf("xp = %v", got)
		}
		if got := fields.String("priority"); got != "High" {
			t.Fatalf("priority = %q", got)
		}
		if got := fields.String("due"); got != "2024-02-02" {
			t.Fatalf("due = %q", got)
		}
	})

	t.Run("curly block with quotes", func(t *testing.T) {
		fields := Extract("- [ ] Forge {xp: 30, skills: 'Smithing, Mining'}")
		if got := fields.XP(); got != 30 {
			t.Fatalf("xp = %v", got)
		}
		if got := fields.List("skills"); !reflect.DeepEqual(got, []string{"Smithing", "Mining"}) {
			t.Fatalf("skills = %#v", got)
		}
	})

	t.Run("malformed curly contributes nothing", func(t *testing.T) {
		fields := Extract("- [ ] Broken {xp: } ✨40")
		if got := fields.XP(); got != 40 {
			t.Fatalf("xp = %v, want emoji fallback 40", got)
		}
	})

	t.Run("tag paths become fields", func(t *testing.T) {
		fields := Extract("- [ ] Spar #gamified-task #skill/Boxing #class/Brawler #priority/low")
		if got := fields.String("skill"); got != "Boxing" {
			t.Fatalf("skill = %q", got)
		}
		if got := fields.String("class"); got != "Brawler" {
			t.Fatalf("class = %q", got)
		}
		if got := fields.String("priority"); got != "low" {
			t.Fatalf("priority = %q", got)
		}
	})

	t.Run("bracket priority value", func(t *testing.T) {
		fields := Extract("- [ ] Plan 🔺[High Priority]")
		if got := fields.String("priority"); got != "High Priority" {
			t.Fatalf("priority = %q", got)
		}
	})

	t.Run("keys are lowercased", func(t *testing.T) {
		fields := Extract("- [ ] Mixed [XP:: 12]")
		if got := fields.XP(); got != 12 {
			t.Fatalf("xp = %v", got)
		}
	})
}

func TestTags(t *testing.T) {
	got := Tags("- [ ] Spar #gamified-task #skill/Boxing plain text")
	want := []string{"gamified-task", "skill/Boxing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tags = %#v, want %#v", got, want)
	}
	if Tags("no tags here") != nil {
		t.Fatalf("expected nil for tagless line")
	}
}

func TestFieldsCoinsDefault(t *testing.T) {
	fields := Extract("- [x] Write chapter ✨200")
	if got := fields.Coins(); got != 20 {
		t.Fatalf("coins = %v, want 20 (round of xp*0.1)", got)
	}

	fields = Extract("- [x] Tiny task ✨4")
	if got := fields.Coins(); got != 0 {
		t.Fatalf("coins = %v, want 0", got)
	}

	fields = Extract("- [x] Odd task ✨15")
	if got := fields.Coins(); got != 2 {
		t.Fatalf("coins = %v, want 2", got)
	}
}

func TestFieldsList(t *testing.T) {
	fields := Fields{"stats": []any{"Strength", " Focus "}}
	if got := fields.List("stats"); !reflect.DeepEqual(got, []string{"Strength", "Focus"}) {
		t.Fatalf("stats = %#v", got)
	}
	fields = Fields{"stats": "Strength, Focus"}
	if got := fields.List("stats"); !reflect.DeepEqual(got, []string{"Strength", "Focus"}) {
		t.Fatalf("stats = %#v", got)
	}
	if got := fields.List("missing"); got != nil {
		t.Fatalf("missing = %#v", got)
	}
}
