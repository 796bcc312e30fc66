package quest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"questforge/internal/progress"
)

// MetadataStyle selects the dialect GenerateTaskLine writes. Both dialects
// parse back to the same quest.
type MetadataStyle string

const (
	StyleTags  MetadataStyle = "tags"
	StyleEmoji MetadataStyle = "emoji"
)

// Draft holds the user-supplied values for a new gamified task line.
type Draft struct {
	Title      string
	Skill      string
	Class      string
	Stats      []string
	XP         float64
	CP         float64
	Coins      float64
	Priority   string
	Difficulty string
	Due        string
}

var tagUnsafeRe = regexp.MustCompile(`\s+`)

// GenerateTaskLine renders a new open checklist line carrying the draft's
// metadata in the requested dialect. Coins left at zero default to a tenth
// of the XP, matching the extractor's fallback.
func GenerateTaskLine(d Draft, style MetadataStyle) string {
	coins := d.Coins
	if coins == 0 {
		coins = progress.CoinsForXP(d.XP)
	}

	var parts []string
	parts = append(parts, "- [ ]", strings.TrimSpace(d.Title), MarkerTag)

	if style == StyleEmoji {
		parts = append(parts,
			"⭐"+formatNumber(d.CP),
			"✨"+formatNumber(d.XP),
			"🪙"+formatNumber(coins),
		)
		if d.Priority != "" {
			parts = append(parts, "🔺["+d.Priority+"]")
		}
		if d.Difficulty != "" {
			parts = append(parts, "🔍["+d.Difficulty+"]")
		}
		if d.Due != "" {
			parts = append(parts, "📅"+d.Due)
		}
		if len(d.Stats) > 0 {
			parts = append(parts, fmt.Sprintf("[stats:: %s]", strings.Join(d.Stats, ", ")))
		}
	} else {
		parts = append(parts,
			fmt.Sprintf("[xp:: %s]", formatNumber(d.XP)),
			fmt.Sprintf("[cp:: %s]", formatNumber(d.CP)),
			fmt.Sprintf("[coins:: %s]", formatNumber(coins)),
		)
		if len(d.Stats) > 0 {
			parts = append(parts, fmt.Sprintf("[stats:: %s]", strings.Join(d.Stats, ", ")))
		}
		if d.Due != "" {
			parts = append(parts, fmt.Sprintf("[due:: %s]", d.Due))
		}
	}

	if d.Skill != "" {
		parts = append(parts, "#skill/"+tagSafe(d.Skill))
	}
	if d.Class != "" {
		parts = append(parts, "#class/"+tagSafe(d.Class))
	}
	if style != StyleEmoji {
		if d.Priority != "" {
			parts = append(parts, "#priority/"+tagSafe(d.Priority))
		}
		if d.Difficulty != "" {
			parts = append(parts, "#difficulty/"+tagSafe(d.Difficulty))
		}
	}
	return strings.Join(parts, " ")
}

func tagSafe(value string) string {
	return tagUnsafeRe.ReplaceAllString(strings.TrimSpace(value), "-")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
