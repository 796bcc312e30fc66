// Package quest parses gamified checklist items out of markdown documents
// and rewrites their completion state line by line. A quest is ephemeral:
// the document line that produced it stays the source of truth, and every
// full parse recomputes the whole sequence.
package quest

// Subtask is an indented checklist line belonging to a quest.
type Subtask struct {
	Text      string
	Completed bool
	Line      int
}

// Quest is one gamified checklist item with its merged metadata. Line is the
// zero-based index of the header line in the source document; ID derives
// from it and is therefore not stable across edits that shift lines; stable
// references belong to the ledger.
type Quest struct {
	ID        string
	Title     string
	Line      int
	Completed bool
	Today     bool

	XP    float64
	CP    float64
	Coins float64

	ClassName    string
	Skills       []string
	Stats        []string
	Dependencies []string
	Rewards      []string
	Tags         []string

	Priority    string
	Difficulty  string
	Due         string
	Recur       string
	Description string
	Type        string
	Giver       string
	Status      string

	Subtasks []Subtask
}
