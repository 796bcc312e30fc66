package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"questforge/internal/cascade"
	"questforge/internal/ledger"
	"questforge/internal/quest"
)

// QuestService is the surface the tools need; *service.Service satisfies it.
type QuestService interface {
	Quests(ctx context.Context) ([]quest.Quest, error)
	Complete(ctx context.Context, ref string) (*cascade.Report, error)
	AddQuest(ctx context.Context, d quest.Draft) (string, error)
	Player(ctx context.Context) (map[string]any, error)
	History(ctx context.Context, limit int) ([]ledger.Completion, error)
	HistorySteps(ctx context.Context, completionID string) ([]ledger.StepRecord, error)
}

type ListQuestsInput struct {
	Status string `json:"status,omitempty" jsonschema:"open, completed, or all (default open)"`
}

type CompleteQuestInput struct {
	Quest string `json:"quest" jsonschema:"quest title or id"`
}

type AddQuestInput struct {
	Title      string   `json:"title" jsonschema:"quest title"`
	Skill      string   `json:"skill,omitempty" jsonschema:"skill the quest trains"`
	Stats      []string `json:"stats,omitempty" jsonschema:"stats the quest improves directly"`
	XP         float64  `json:"xp,omitempty" jsonschema:"experience reward"`
	CP         float64  `json:"cp,omitempty" jsonschema:"class point reward"`
	Coins      float64  `json:"coins,omitempty" jsonschema:"coin reward, defaults to a tenth of the xp"`
	Priority   string   `json:"priority,omitempty" jsonschema:"priority label"`
	Difficulty string   `json:"difficulty,omitempty" jsonschema:"difficulty label"`
	Due        string   `json:"due,omitempty" jsonschema:"due date YYYY-MM-DD"`
}

type PlayerStatusInput struct{}

type QuestHistoryInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"maximum completions to return"`
	ID    string `json:"id,omitempty" jsonschema:"completion id to expand into its cascade steps"`
}

type QuestOutput struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Completed bool            `json:"completed"`
	XP        float64         `json:"xp"`
	CP        float64         `json:"cp"`
	Coins     float64         `json:"coins"`
	Skills    []string        `json:"skills,omitempty"`
	Stats     []string        `json:"stats,omitempty"`
	Due       string          `json:"due,omitempty"`
	Priority  string          `json:"priority,omitempty"`
	Subtasks  []SubtaskOutput `json:"subtasks,omitempty"`
}

type SubtaskOutput struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type ListQuestsOutput struct {
	Quests []QuestOutput `json:"quests"`
}

type StepOutput struct {
	Entity    string  `json:"entity"`
	Kind      string  `json:"kind"`
	Delta     float64 `json:"delta"`
	Status    string  `json:"status"`
	LeveledUp bool    `json:"leveled_up,omitempty"`
	Level     int     `json:"level,omitempty"`
}

type CompleteQuestOutput struct {
	ID    string       `json:"id"`
	Quest string       `json:"quest"`
	XP    float64      `json:"xp"`
	CP    float64      `json:"cp"`
	Coins float64      `json:"coins"`
	Steps []StepOutput `json:"steps"`
}

type AddQuestOutput struct {
	Line string `json:"line"`
}

type PlayerStatusOutput struct {
	Player map[string]any `json:"player"`
}

type CompletionOutput struct {
	ID          string       `json:"id"`
	Quest       string       `json:"quest"`
	CompletedAt string       `json:"completed_at"`
	XP          float64      `json:"xp"`
	CP          float64      `json:"cp"`
	Coins       float64      `json:"coins"`
	Steps       []StepOutput `json:"steps,omitempty"`
}

type QuestHistoryOutput struct {
	Completions []CompletionOutput `json:"completions"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_quests",
		Description: "List quests from the gamified task file",
	}, s.handleListQuests)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "complete_quest",
		Description: "Complete a quest and apply its progression cascade",
	}, s.handleCompleteQuest)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "add_quest",
		Description: "Append a new gamified task to the quest file",
	}, s.handleAddQuest)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "player_status",
		Description: "Return the player's level, experience, and coins",
	}, s.handlePlayerStatus)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "quest_history",
		Description: "List recorded quest completions",
	}, s.handleQuestHistory)
}

func (s *Server) handleListQuests(ctx context.Context, req *sdk.CallToolRequest, input ListQuestsInput) (*sdk.CallToolResult, ListQuestsOutput, error) {
	status := input.Status
	if status == "" {
		status = "open"
	}
	if status != "open" && status != "completed" && status != "all" {
		return nil, ListQuestsOutput{}, fmt.Errorf("status must be open, completed, or all")
	}

	quests, err := s.svc.Quests(ctx)
	if err != nil {
		return nil, ListQuestsOutput{}, err
	}

	output := make([]QuestOutput, 0, len(quests))
	for _, q := range quests {
		if status == "open" && q.Completed || status == "completed" && !q.Completed {
			continue
		}
		output = append(output, questOutput(q))
	}
	return nil, ListQuestsOutput{Quests: output}, nil
}

func (s *Server) handleCompleteQuest(ctx context.Context, req *sdk.CallToolRequest, input CompleteQuestInput) (*sdk.CallToolResult, CompleteQuestOutput, error) {
	if input.Quest == "" {
		return nil, CompleteQuestOutput{}, fmt.Errorf("quest is required")
	}
	report, err := s.svc.Complete(ctx, input.Quest)
	if err != nil {
		return nil, CompleteQuestOutput{}, err
	}

	steps := make([]StepOutput, 0, len(report.Steps))
	for _, step := range report.Steps {
		steps = append(steps, StepOutput{
			Entity:    step.Entity,
			Kind:      string(step.Kind),
			Delta:     step.Delta,
			Status:    string(step.Status),
			LeveledUp: step.LeveledUp,
			Level:     step.Level,
		})
	}
	return nil, CompleteQuestOutput{
		ID:    report.ID,
		Quest: report.Quest,
		XP:    report.XP,
		CP:    report.CP,
		Coins: report.Coins,
		Steps: steps,
	}, nil
}

func (s *Server) handleAddQuest(ctx context.Context, req *sdk.CallToolRequest, input AddQuestInput) (*sdk.CallToolResult, AddQuestOutput, error) {
	if input.Title == "" {
		return nil, AddQuestOutput{}, fmt.Errorf("title is required")
	}
	line, err := s.svc.AddQuest(ctx, quest.Draft{
		Title:      input.Title,
		Skill:      input.Skill,
		Stats:      input.Stats,
		XP:         input.XP,
		CP:         input.CP,
		Coins:      input.Coins,
		Priority:   input.Priority,
		Difficulty: input.Difficulty,
		Due:        input.Due,
	})
	if err != nil {
		return nil, AddQuestOutput{}, err
	}
	return nil, AddQuestOutput{Line: line}, nil
}

func (s *Server) handlePlayerStatus(ctx context.Context, req *sdk.CallToolRequest, input PlayerStatusInput) (*sdk.CallToolResult, PlayerStatusOutput, error) {
	player, err := s.svc.Player(ctx)
	if err != nil {
		return nil, PlayerStatusOutput{}, err
	}
	return nil, PlayerStatusOutput{Player: player}, nil
}

func (s *Server) handleQuestHistory(ctx context.Context, req *sdk.CallToolRequest, input QuestHistoryInput) (*sdk.CallToolResult, QuestHistoryOutput, error) {
	completions, err := s.svc.History(ctx, input.Limit)
	if err != nil {
		return nil, QuestHistoryOutput{}, err
	}

	output := make([]CompletionOutput, 0, len(completions))
	for _, comp := range completions {
		if input.ID != "" && comp.ID != input.ID {
			continue
		}
		out := CompletionOutput{
			ID:          comp.ID,
			Quest:       comp.Quest,
			CompletedAt: comp.CompletedAt.Format(time.RFC3339),
			XP:          comp.XP,
			CP:          comp.CP,
			Coins:       comp.Coins,
		}
		if input.ID != "" {
			steps, err := s.svc.HistorySteps(ctx, comp.ID)
			if err != nil {
				return nil, QuestHistoryOutput{}, err
			}
			for _, step := range steps {
				out.Steps = append(out.Steps, StepOutput{
					Entity:    step.Entity,
					Kind:      step.Kind,
					Delta:     step.Delta,
					Status:    step.Status,
					LeveledUp: step.LeveledUp,
					Level:     step.Level,
				})
			}
		}
		output = append(output, out)
	}
	return nil, QuestHistoryOutput{Completions: output}, nil
}

func questOutput(q quest.Quest) QuestOutput {
	subtasks := make([]SubtaskOutput, 0, len(q.Subtasks))
	for _, sub := range q.Subtasks {
		subtasks = append(subtasks, SubtaskOutput{Text: sub.Text, Completed: sub.Completed})
	}
	return QuestOutput{
		ID:        q.ID,
		Title:     q.Title,
		Completed: q.Completed,
		XP:        q.XP,
		CP:        q.CP,
		Coins:     q.Coins,
		Skills:    append([]string{}, q.Skills...),
		Stats:     append([]string{}, q.Stats...),
		Due:       q.Due,
		Priority:  q.Priority,
		Subtasks:  subtasks,
	}
}
