package resolve

import (
	"context"
	"fmt"
	"path"
	"strings"

	"questforge/internal/frontmatter"
	"questforge/internal/vault"
)

// Skill is a skill document plus the conventional paths of the entities it
// cascades into. Class and stat paths follow the SkillTree layout
// (<root>/<MasterClass>/Class/<Class>.md, <root>/<MasterClass>/Stat/<Stat>.md);
// the master class itself is resolved later from the class's own front
// matter, since users may reorganize master classes freely.
type Skill struct {
	Name        string
	Path        string
	Class       string
	ClassPath   string
	MasterClass string
	Stats       map[string]string
	Description string
}

// Skills scans the skill tree for documents under a Skills folder carrying
// name, class and stats fields. Files missing any of the three are not
// skills and are skipped.
func Skills(ctx context.Context, store vault.Store, root string) ([]Skill, error) {
	root = strings.TrimSuffix(root, "/")
	paths, err := store.List(ctx, root+"/")
	if err != nil {
		return nil, fmt.Errorf("scanning skill tree: %w", err)
	}

	var skills []Skill
	for _, docPath := range paths {
		if !strings.Contains(docPath, "/Skills/") {
			continue
		}
		text, err := store.Read(ctx, docPath)
		if err != nil {
			continue
		}
		doc, err := frontmatter.Decode(text)
		if err != nil {
			continue
		}

		name, _ := doc.Fields["name"].(string)
		class, _ := doc.Fields["class"].(string)
		statsValue, hasStats := doc.Fields["stats"]
		if strings.TrimSpace(name) == "" || strings.TrimSpace(class) == "" || !hasStats {
			continue
		}

		rel := strings.TrimPrefix(docPath, root+"/")
		parts := strings.Split(rel, "/")
		if len(parts) < 2 {
			continue
		}
		masterClass := parts[0]

		stats := map[string]string{}
		for _, statName := range stringList(statsValue) {
			stats[statName] = path.Join(root, masterClass, "Stat", statName+".md")
		}

		description, _ := doc.Fields["description"].(string)
		skills = append(skills, Skill{
			Name:        name,
			Path:        docPath,
			Class:       class,
			ClassPath:   path.Join(root, masterClass, "Class", class+".md"),
			MasterClass: masterClass,
			Stats:       stats,
			Description: description,
		})
	}
	return skills, nil
}

// FindSkill returns the skill whose name matches under the Normalize rule.
func FindSkill(skills []Skill, name string) (Skill, bool) {
	want := Normalize(name)
	for _, skill := range skills {
		if Normalize(skill.Name) == want {
			return skill, true
		}
	}
	return Skill{}, false
}

func stringList(value any) []string {
	switch v := value.(type) {
	case string:
		var items []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return items
	case []any:
		var items []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				items = append(items, strings.TrimSpace(s))
			}
		}
		return items
	default:
		return nil
	}
}
