package taskmeta

import (
	"regexp"
	"strings"
)

// emojiFields maps shorthand glyphs to field names. Each glyph is followed by
// either a bracketed value or the next whitespace-delimited token.
var emojiFields = map[string]string{
	"🛫": "start",
	"📅": "due",
	"🔺": "priority",
	"🔁": "recur",
	"🔍": "difficulty",
	"✨": "xp",
	"🪙": "coins",
	"⭐": "cp",
}

var (
	emojiRe = regexp.MustCompile(`(🛫|📅|🔺|🔁|🔍|✨|🪙|⭐)\s*(\[[^\]]+\]|\S+)`)

	// The tool glyph names a skill and, unlike the single-token glyphs above,
	// captures a run of word characters and spaces so multi-word skill names
	// survive. The variation selector is optional.
	skillEmojiRe = regexp.MustCompile(`🛠\x{FE0F}?\s*([0-9A-Za-z_][0-9A-Za-z_ -]*)`)
)

func extractEmoji(line string) Fields {
	fields := Fields{}
	for _, m := range emojiRe.FindAllStringSubmatch(line, -1) {
		value := strings.TrimSpace(m[2])
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			value = value[1 : len(value)-1]
		}
		fields[emojiFields[m[1]]] = value
	}
	if m := skillEmojiRe.FindStringSubmatch(line); m != nil {
		if _, ok := fields["skills"]; !ok {
			fields["skills"] = strings.TrimSpace(m[1])
		}
	}
	return fields
}
