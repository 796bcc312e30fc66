package quest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	checklistRe  = regexp.MustCompile(`^\s*- \[( |x)\]`)
	completionRe = regexp.MustCompile(` ?✅ \d{4}-\d{2}-\d{2}`)
)

// Toggle rewrites the checklist marker of exactly one line. Checking flips
// the marker to [x] and appends or refreshes a "✅ YYYY-MM-DD" suffix;
// unchecking resets the marker and strips the suffix. No other line is
// touched, so quest and sibling-subtask metadata survive the rewrite.
func Toggle(content string, line int, done bool, date string) (string, error) {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return "", fmt.Errorf("line %d out of range", line)
	}
	if !checklistRe.MatchString(lines[line]) {
		return "", fmt.Errorf("line %d is not a checklist item", line)
	}
	lines[line] = toggleLine(lines[line], done, date)
	return strings.Join(lines, "\n"), nil
}

func toggleLine(line string, done bool, date string) string {
	if done {
		line = strings.Replace(line, "[ ]", "[x]", 1)
		if completionRe.MatchString(line) {
			return completionRe.ReplaceAllString(line, " ✅ "+date)
		}
		return line + " ✅ " + date
	}
	line = strings.Replace(line, "[x]", "[ ]", 1)
	return completionRe.ReplaceAllString(line, "")
}
