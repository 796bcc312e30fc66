// Package cascade applies a completed quest's points across the entity
// hierarchy: each quest skill, its class, that class's master class and the
// skill's stats receive the class-point delta, quest-tagged stats receive it
// directly, and the player receives the experience and coin deltas. Steps
// run strictly in that order and each is an independent read-modify-write;
// there is no cross-entity transaction, so a failure partway leaves earlier
// writes in place and the report tells the user exactly what happened.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"questforge/internal/frontmatter"
	"questforge/internal/progress"
	"questforge/internal/quest"
	"questforge/internal/resolve"
	"questforge/internal/vault"
)

type StepStatus string

const (
	StepApplied StepStatus = "applied"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// Step records the outcome of one entity update.
type Step struct {
	Entity    string
	Kind      progress.Kind
	Delta     float64
	Status    StepStatus
	LeveledUp bool
	Level     int
	Reason    string
}

// Describe renders the step the way it is shown to the user.
func (s Step) Describe() string {
	switch s.Status {
	case StepApplied:
		line := fmt.Sprintf("+%s %s to %s: %s", formatPoints(s.Delta), pointsUnit(s.Kind), s.Kind, s.Entity)
		if s.LeveledUp {
			line += fmt.Sprintf(" (level up! now %d)", s.Level)
		}
		return line
	case StepSkipped:
		return fmt.Sprintf("skipped %s %s: %s", s.Kind, s.Entity, s.Reason)
	default:
		return fmt.Sprintf("FAILED %s %s: %s", s.Kind, s.Entity, s.Reason)
	}
}

// Report is the full outcome of one quest completion. ID is minted fresh
// per run and gives the completion a stable identity independent of the
// quest's line-derived one.
type Report struct {
	ID          string
	Quest       string
	XP          float64
	CP          float64
	Coins       float64
	CompletedAt time.Time
	Steps       []Step
}

func (r *Report) Failed() []Step {
	var failed []Step
	for _, step := range r.Steps {
		if step.Status == StepFailed {
			failed = append(failed, step)
		}
	}
	return failed
}

func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Steps))
	for _, step := range r.Steps {
		lines = append(lines, step.Describe())
	}
	return lines
}

// Runner executes cascades against one vault. The master-class and stat
// indexes are owned by the caller, which decides when to rebuild them.
type Runner struct {
	store         vault.Store
	skillTreeRoot string
	playerFile    string
	masters       *resolve.Index
	stats         *resolve.Index
	now           func() time.Time
}

func NewRunner(store vault.Store, skillTreeRoot, playerFile string, masters, stats *resolve.Index) *Runner {
	return &Runner{
		store:         store,
		skillTreeRoot: skillTreeRoot,
		playerFile:    playerFile,
		masters:       masters,
		stats:         stats,
		now:           time.Now,
	}
}

// Run applies the quest's progression. Entity updates are sequential and
// awaited one by one; the master-class step depends on the class document
// just re-read. A stat reachable both through a skill and directly on the
// quest is updated twice, matching the observed product behavior.
func (r *Runner) Run(ctx context.Context, q quest.Quest) (*Report, error) {
	report := &Report{
		ID:          uuid.NewString(),
		Quest:       q.Title,
		XP:          q.XP,
		CP:          q.CP,
		Coins:       q.Coins,
		CompletedAt: r.now(),
	}

	skills, err := resolve.Skills(ctx, r.store, r.skillTreeRoot)
	if err != nil {
		return nil, fmt.Errorf("discovering skills: %w", err)
	}

	for _, name := range q.Skills {
		skill, ok := resolve.FindSkill(skills, name)
		if !ok {
			report.Steps = append(report.Steps, Step{
				Entity: name, Kind: progress.KindSkill, Delta: q.CP,
				Status: StepSkipped, Reason: "no such skill in the skill tree",
			})
			continue
		}

		report.Steps = append(report.Steps, r.applyCP(ctx, skill.Path, progress.KindSkill, skill.Name, q.CP))
		classStep := r.applyCP(ctx, skill.ClassPath, progress.KindClass, skill.Class, q.CP)
		report.Steps = append(report.Steps, classStep)
		report.Steps = append(report.Steps, r.applyMasterClass(ctx, skill, q.CP))

		statNames := make([]string, 0, len(skill.Stats))
		for statName := range skill.Stats {
			statNames = append(statNames, statName)
		}
		sort.Strings(statNames)
		for _, statName := range statNames {
			report.Steps = append(report.Steps, r.applyStat(ctx, statName, q.CP))
		}
	}

	for _, statName := range q.Stats {
		report.Steps = append(report.Steps, r.applyStat(ctx, statName, q.CP))
	}

	report.Steps = append(report.Steps, r.applyPlayer(ctx, q.XP, q.Coins))
	return report, nil
}

// applyMasterClass re-reads the class document for its masterClass field and
// resolves the named master class by front-matter name.
func (r *Runner) applyMasterClass(ctx context.Context, skill resolve.Skill, delta float64) Step {
	step := Step{Kind: progress.KindMasterClass, Delta: delta}

	text, err := r.store.Read(ctx, skill.ClassPath)
	if err != nil {
		step.Entity = skill.Class
		step.Status = StepSkipped
		step.Reason = "class document unavailable"
		return step
	}
	doc, err := frontmatter.Decode(text)
	if err != nil {
		step.Entity = skill.Class
		step.Status = StepSkipped
		step.Reason = "class front matter unreadable"
		return step
	}
	name, _ := doc.Fields["masterClass"].(string)
	if name == "" {
		step.Entity = skill.Class
		step.Status = StepSkipped
		step.Reason = "class names no master class"
		return step
	}

	step.Entity = name
	path, err := r.masters.Resolve(name)
	if err != nil {
		step.Status = StepSkipped
		step.Reason = "no master class document matches"
		return step
	}
	return r.applyCP(ctx, path, progress.KindMasterClass, name, delta)
}

func (r *Runner) applyStat(ctx context.Context, name string, delta float64) Step {
	path, err := r.stats.Resolve(name)
	if err != nil {
		return Step{
			Entity: name, Kind: progress.KindStat, Delta: delta,
			Status: StepSkipped, Reason: "no stat document matches",
		}
	}
	return r.applyCP(ctx, path, progress.KindStat, name, delta)
}

// applyCP performs one read-modify-write leveling update on the entity
// document at path. Missing documents skip the step; write failures fail it.
func (r *Runner) applyCP(ctx context.Context, path string, kind progress.Kind, name string, delta float64) Step {
	step := Step{Entity: name, Kind: kind, Delta: delta}

	text, err := r.store.Read(ctx, path)
	if errors.Is(err, vault.ErrNotFound) {
		step.Status = StepSkipped
		step.Reason = "document not found"
		return step
	}
	if err != nil {
		step.Status = StepFailed
		step.Reason = err.Error()
		return step
	}
	doc, err := frontmatter.Decode(text)
	if err != nil {
		step.Status = StepFailed
		step.Reason = fmt.Sprintf("could not update %s: malformed front matter", path)
		return step
	}

	fields := doc.Fields
	var result progress.Result
	if kind == progress.KindStat {
		result = progress.Apply(kind, progress.State{
			Level:    intField(fields, "level", 1),
			Current:  numField(fields, "current"),
			Required: numField(fields, "required"),
			Value:    numField(fields, "value"),
		}, delta)
		fields["level"] = result.Level
		fields["current"] = numValue(result.Current)
		fields["required"] = numValue(result.Required)
		fields["value"] = numValue(result.Value)
	} else {
		result = progress.Apply(kind, progress.State{
			Level:    intField(fields, "level", 1),
			Current:  numField(fields, "currentCP"),
			Required: numField(fields, "requiredCP"),
		}, delta)
		fields["level"] = result.Level
		fields["currentCP"] = numValue(result.Current)
		fields["requiredCP"] = numValue(result.Required)
	}

	if err := r.writeDoc(ctx, path, fields, doc.Body); err != nil {
		step.Status = StepFailed
		step.Reason = err.Error()
		return step
	}
	step.Status = StepApplied
	step.LeveledUp = result.LeveledUp
	step.Level = result.Level
	return step
}

// applyPlayer awards experience and coins. A missing player document is
// created on first write rather than skipped: the player always exists
// conceptually even before the user authors the file.
func (r *Runner) applyPlayer(ctx context.Context, xp, coins float64) Step {
	step := Step{Entity: "player", Kind: progress.KindPlayer, Delta: xp}

	fields := map[string]any{}
	body := ""
	text, err := r.store.Read(ctx, r.playerFile)
	switch {
	case errors.Is(err, vault.ErrNotFound):
		// first write creates the document
	case err != nil:
		step.Status = StepFailed
		step.Reason = err.Error()
		return step
	default:
		doc, err := frontmatter.Decode(text)
		if err != nil {
			step.Status = StepFailed
			step.Reason = fmt.Sprintf("could not update %s: malformed front matter", r.playerFile)
			return step
		}
		fields = doc.Fields
		body = doc.Body
	}

	if name, ok := fields["name"].(string); ok && name != "" {
		step.Entity = name
	}

	result := progress.Apply(progress.KindPlayer, progress.State{
		Level:    intField(fields, "level", 1),
		Current:  numField(fields, "xp"),
		Required: numField(fields, "xpRequired"),
	}, xp)
	fields["level"] = result.Level
	fields["xp"] = numValue(result.Current)
	fields["xpRequired"] = numValue(result.Required)
	fields["total_exp"] = numValue(numField(fields, "total_exp") + xp)
	fields["coins"] = numValue(numField(fields, "coins") + coins)

	if err := r.writeDoc(ctx, r.playerFile, fields, body); err != nil {
		step.Status = StepFailed
		step.Reason = err.Error()
		return step
	}
	step.Status = StepApplied
	step.LeveledUp = result.LeveledUp
	step.Level = result.Level
	return step
}

func (r *Runner) writeDoc(ctx context.Context, path string, fields map[string]any, body string) error {
	text, err := frontmatter.Encode(fields, body)
	if err != nil {
		return fmt.Errorf("could not update %s: %w", path, err)
	}
	if err := r.store.Write(ctx, path, text); err != nil {
		return fmt.Errorf("could not update %s: %w", path, err)
	}
	return nil
}

func numField(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

func intField(fields map[string]any, key string, fallback int) int {
	if _, ok := fields[key]; !ok {
		return fallback
	}
	n := numField(fields, key)
	if n == 0 {
		return fallback
	}
	return int(n)
}

// numValue stores integral floats as ints so the YAML stays tidy.
func numValue(v float64) any {
	if v == math.Trunc(v) {
		return int(v)
	}
	return v
}

func formatPoints(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%g", v)
}

func pointsUnit(kind progress.Kind) string {
	if kind == progress.KindPlayer {
		return "XP"
	}
	return "CP"
}
