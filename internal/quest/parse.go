package quest

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"questforge/internal/taskmeta"
)

// MarkerTag flags a checklist line as a gamified task.
const MarkerTag = "#gamified-task"

var (
	headerRe  = regexp.MustCompile(`^- \[( |x)\] (.*?)\s*` + MarkerTag + `(.*)$`)
	subtaskRe = regexp.MustCompile(`^[ \t]+- \[( |x)\] (.+?)(?: ✅ (\d{4}-\d{2}-\d{2}))?\s*$`)
)

// Parse scans a whole document and returns its quests in line order.
//
// Field sources merge lowest priority first: the document's leading front
// matter, then a --- YAML block immediately above the header line, then the
// inline syntaxes in taskmeta's order. A malformed source contributes
// nothing; parsing never fails for the whole document.
func Parse(content string) []Quest {
	lines := strings.Split(content, "\n")

	globals := taskmeta.Fields{}
	start := 0
	if end := closingDelimiter(lines); end > 0 {
		globals = decodeYAMLBlock(lines[1:end])
		start = end + 1
	}

	var quests []Quest
	for i := start; i < len(lines); i++ {
		m := headerRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}

		fields := taskmeta.Fields{}
		merge(fields, globals)
		merge(fields, precedingYAMLBlock(lines, i))
		merge(fields, taskmeta.Extract(lines[i]))

		q := questFromFields(fields)
		q.Title = taskmeta.StripInline(m[2])
		q.Line = i
		q.ID = fmt.Sprintf("%s-%d", q.Title, i)
		q.Completed = m[1] == "x"
		q.Tags = taskmeta.Tags(lines[i])

		for j := i + 1; j < len(lines); j++ {
			sm := subtaskRe.FindStringSubmatch(lines[j])
			if sm == nil {
				break
			}
			q.Subtasks = append(q.Subtasks, Subtask{
				Text:      sm[2],
				Completed: sm[1] == "x",
				Line:      j,
			})
			i = j
		}

		quests = append(quests, q)
	}
	return quests
}

func questFromFields(f taskmeta.Fields) Quest {
	skills := f.List("skills")
	if len(skills) == 0 {
		skills = f.List("skill")
	}
	deps := f.List("dependencies")
	if len(deps) == 0 {
		deps = f.List("depends")
	}

	return Quest{
		XP:           f.XP(),
		CP:           f.CP(),
		Coins:        f.Coins(),
		ClassName:    f.String("class"),
		Skills:       skills,
		Stats:        f.List("stats"),
		Dependencies: deps,
		Rewards:      f.List("rewards"),
		Priority:     f.String("priority"),
		Difficulty:   f.String("difficulty"),
		Due:          f.String("due"),
		Recur:        f.String("recur"),
		Description:  f.String("description"),
		Type:         f.String("type"),
		Giver:        f.String("giver"),
		Status:       f.String("status"),
		Today:        f.String("special") == "today",
	}
}

// closingDelimiter returns the line index of the delimiter ending a leading
// front-matter block, or -1 when the document has none.
func closingDelimiter(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1
	}
	for j := 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "---" {
			return j
		}
	}
	return -1
}

// precedingYAMLBlock parses a --- delimited block that ends on the line
// directly above idx, used for per-quest defaults.
func precedingYAMLBlock(lines []string, idx int) taskmeta.Fields {
	if idx < 2 || strings.TrimSpace(lines[idx-1]) != "---" {
		return nil
	}
	start := -1
	for j := idx - 2; j >= 0; j-- {
		if strings.TrimSpace(lines[j]) == "---" {
			start = j
			break
		}
	}
	if start < 0 {
		return nil
	}
	return decodeYAMLBlock(lines[start+1 : idx-1])
}

// decodeYAMLBlock parses lines as a YAML mapping, best effort: anything
// malformed yields an empty field set.
func decodeYAMLBlock(lines []string) taskmeta.Fields {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &m); err != nil {
		return nil
	}
	fields := taskmeta.Fields{}
	for key, value := range m {
		fields[strings.ToLower(key)] = value
	}
	return fields
}

func merge(dst taskmeta.Fields, src taskmeta.Fields) {
	for key, value := range src {
		dst[key] = value
	}
}
