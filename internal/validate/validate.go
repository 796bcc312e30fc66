// Package validate checks the vault for problems that would make a cascade
// skip or fail: broken front matter, dangling entity references, duplicate
// names, and progression fields that drifted out of range.
package validate

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"questforge/internal/config"
	"questforge/internal/frontmatter"
	"questforge/internal/quest"
	"questforge/internal/resolve"
	"questforge/internal/vault"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMalformedFrontmatter = "malformed_frontmatter"
	codeDuplicateName        = "duplicate_name"
	codeUnresolvedClass      = "unresolved_class"
	codeUnresolvedMaster     = "unresolved_master_class"
	codeUnresolvedStat       = "unresolved_stat"
	codeUnresolvedSkill      = "unresolved_skill"
	codeMissingMaster        = "missing_master_class"
	codePointsOutOfRange     = "points_out_of_range"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Entity   string
	FilePath string
}

type Report struct {
	Issues []Issue
}

func (r *Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r *Report) Warnings() int {
	return len(r.Issues) - r.Errors()
}

// Run scans the whole vault. It never fails on a bad document, only on I/O:
// every document problem becomes an issue in the report.
func Run(ctx context.Context, store vault.Store, cfg *config.Config) (*Report, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	issues := make([]Issue, 0)

	masters := resolve.NewIndex(store, cfg.MasterClassFolder)
	if err := masters.Rebuild(ctx); err != nil {
		return nil, err
	}
	stats := resolve.NewIndex(store, cfg.StatFolder)
	if err := stats.Rebuild(ctx); err != nil {
		return nil, err
	}

	root := strings.TrimSuffix(cfg.SkillTreeFolder, "/") + "/"
	paths, err := store.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("scanning skill tree: %w", err)
	}

	seen := map[string]string{}
	for _, docPath := range paths {
		text, err := store.Read(ctx, docPath)
		if err != nil {
			continue
		}
		doc, err := frontmatter.Decode(text)
		if err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeMalformedFrontmatter,
				Message:  "front matter cannot be parsed",
				FilePath: docPath,
			})
			continue
		}

		name, _ := doc.Fields["name"].(string)
		if name != "" {
			key := path.Dir(docPath) + "|" + resolve.Normalize(name)
			if first, dup := seen[key]; dup {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeDuplicateName,
					Message:  fmt.Sprintf("name already claimed by %s", first),
					Entity:   name,
					FilePath: docPath,
				})
			} else {
				seen[key] = docPath
			}
		}

		issues = append(issues, checkProgressBounds(doc.Fields, name, docPath)...)
	}

	skills, err := resolve.Skills(ctx, store, cfg.SkillTreeFolder)
	if err != nil {
		return nil, err
	}
	for _, skill := range skills {
		issues = append(issues, checkSkillLinks(ctx, store, masters, stats, skill)...)
	}

	issues = append(issues, checkQuestSkills(ctx, store, cfg, skills)...)

	return &Report{Issues: issues}, nil
}

// checkSkillLinks verifies that everything a skill cascades into exists.
func checkSkillLinks(ctx context.Context, store vault.Store, masters, stats *resolve.Index, skill resolve.Skill) []Issue {
	var issues []Issue

	text, err := store.Read(ctx, skill.ClassPath)
	if err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeUnresolvedClass,
			Message:  fmt.Sprintf("class %q has no document at %s", skill.Class, skill.ClassPath),
			Entity:   skill.Name,
			FilePath: skill.Path,
		})
	} else if doc, err := frontmatter.Decode(text); err == nil {
		masterName, _ := doc.Fields["masterClass"].(string)
		if masterName == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeMissingMaster,
				Message:  "class names no master class, cascade will stop at the class",
				Entity:   skill.Class,
				FilePath: skill.ClassPath,
			})
		} else if _, err := masters.Resolve(masterName); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeUnresolvedMaster,
				Message:  fmt.Sprintf("master class %q has no document", masterName),
				Entity:   skill.Class,
				FilePath: skill.ClassPath,
			})
		}
	}

	for statName := range skill.Stats {
		if _, err := stats.Resolve(statName); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeUnresolvedStat,
				Message:  fmt.Sprintf("stat %q has no document", statName),
				Entity:   skill.Name,
				FilePath: skill.Path,
			})
		}
	}
	return issues
}

// checkQuestSkills flags open quests pointing at skills the tree does not
// have. Completing such a quest would silently skip the whole skill branch.
func checkQuestSkills(ctx context.Context, store vault.Store, cfg *config.Config, skills []resolve.Skill) []Issue {
	content, err := store.Read(ctx, cfg.TasksFile)
	if errors.Is(err, vault.ErrNotFound) {
		return nil
	}
	if err != nil {
		return nil
	}

	var issues []Issue
	for _, q := range quest.Parse(content) {
		if q.Completed {
			continue
		}
		for _, skillName := range q.Skills {
			if _, ok := resolve.FindSkill(skills, skillName); !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeUnresolvedSkill,
					Message:  fmt.Sprintf("quest %q trains unknown skill %q", q.Title, skillName),
					Entity:   q.Title,
					FilePath: cfg.TasksFile,
				})
			}
		}
	}
	return issues
}

// checkProgressBounds flags progression counters that should have rolled
// into a level-up already. The cascade tolerates them, but they usually mean
// a hand edit went wrong.
func checkProgressBounds(fields map[string]any, name, docPath string) []Issue {
	var issues []Issue

	check := func(currentKey, requiredKey string) {
		current, okCurrent := asNumber(fields[currentKey])
		required, okRequired := asNumber(fields[requiredKey])
		if !okCurrent || !okRequired {
			return
		}
		if current < 0 || (required > 0 && current >= required) {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codePointsOutOfRange,
				Message:  fmt.Sprintf("%s %v is outside [0, %v)", currentKey, current, required),
				Entity:   name,
				FilePath: docPath,
			})
		}
	}

	check("currentCP", "requiredCP")
	check("current", "required")
	check("xp", "xpRequired")
	return issues
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
