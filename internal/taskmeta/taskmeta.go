// Package taskmeta extracts gamification metadata from a single checklist
// line. Four syntaxes coexist on one line: hash-tag paths (#skill/Name),
// emoji shorthand (✨100), a trailing pipe comment (// xp: 100 | cp: 5) and
// inline fields in either [key:: value] or {key: value} form. Each syntax is
// an extractor producing a partial field set; extractors run in fixed order
// and later ones overwrite earlier ones, so the order below is the conflict
// priority from lowest to highest.
package taskmeta

import (
	"encoding/json"
	"regexp"
	"strings"
)

type extractor func(line string) Fields

// Ordered lowest to highest priority. On conflicting keys the bracketed
// [key:: value] form wins, then the curly block, the pipe comment, emoji
// shorthand, and hash-tag segments last.
var extractors = []extractor{
	extractTagFields,
	extractEmoji,
	extractPipe,
	extractCurly,
	extractBracket,
}

// Extract merges all syntaxes found on line into one field set. Keys are
// lowercased. Extraction never fails; malformed segments contribute nothing.
func Extract(line string) Fields {
	merged := Fields{}
	for _, ex := range extractors {
		for key, value := range ex(line) {
			merged[strings.ToLower(key)] = value
		}
	}
	return merged
}

var tagRe = regexp.MustCompile(`#([\w/-]+)`)

// StripInline removes every recognized metadata token from s, leaving the
// human-readable text. Used to derive clean quest titles.
func StripInline(s string) string {
	s = curlyRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	s = emojiRe.ReplaceAllString(s, "")
	s = skillEmojiRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// Tags returns every #tag on the line, without the leading hash.
func Tags(line string) []string {
	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(line, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// extractTagFields turns #category/value tags into fields, e.g.
// #skill/Archery contributes skill=Archery.
func extractTagFields(line string) Fields {
	fields := Fields{}
	for _, tag := range Tags(line) {
		key, value, ok := strings.Cut(tag, "/")
		if ok && value != "" {
			fields[key] = value
		}
	}
	return fields
}

var bracketRe = regexp.MustCompile(`\[([a-zA-Z0-9_-]+)::\s*([^\]]+)\]`)

func extractBracket(line string) Fields {
	fields := Fields{}
	for _, m := range bracketRe.FindAllStringSubmatch(line, -1) {
		fields[m[1]] = strings.TrimSpace(m[2])
	}
	return fields
}

var (
	curlyRe       = regexp.MustCompile(`\{[^{}]*\}`)
	curlyKeyRe    = regexp.MustCompile(`([a-zA-Z0-9_]+)\s*:`)
	singleQuoteRe = regexp.MustCompile(`'([^']*)'`)
)

// extractCurly parses the first {...} span on the line as a relaxed JSON
// object: bare keys are quoted and single quotes doubled before parsing.
// A span that still fails to parse contributes nothing.
func extractCurly(line string) Fields {
	span := curlyRe.FindString(line)
	if span == "" {
		return nil
	}
	inner := span[1 : len(span)-1]
	inner = singleQuoteRe.ReplaceAllString(inner, `"$1"`)
	inner = curlyKeyRe.ReplaceAllString(inner, `"$1":`)

	parsed := map[string]any{}
	if err := json.Unmarshal([]byte("{"+inner+"}"), &parsed); err != nil {
		return nil
	}
	fields := Fields{}
	for key, value := range parsed {
		fields[key] = value
	}
	return fields
}

// extractPipe parses a trailing comment of the form
// "// key: value | key: value". A curly span embedded in the comment belongs
// to extractCurly and is stripped first.
func extractPipe(line string) Fields {
	idx := strings.Index(line, "//")
	if idx < 0 {
		return nil
	}
	comment := curlyRe.ReplaceAllString(line[idx+2:], "")

	fields := Fields{}
	for _, pair := range strings.Split(comment, "|") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			fields[key] = value
		}
	}
	return fields
}
