// Package service coordinates the vault, the quest file and the cascade. It
// owns the entity indexes and the ledger connection and exposes the
// operations the CLI and the MCP server share.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"questforge/internal/cascade"
	"questforge/internal/config"
	"questforge/internal/ledger"
	"questforge/internal/quest"
	"questforge/internal/resolve"
	"questforge/internal/vault"
)

var (
	ErrQuestNotFound   = errors.New("quest not found")
	ErrAlreadyComplete = errors.New("quest is already complete")
)

type Service struct {
	cfg     *config.Config
	store   vault.Store
	masters *resolve.Index
	stats   *resolve.Index
	runner  *cascade.Runner
	ledger  ledger.Store
	now     func() time.Time
}

// New wires a service over the given vault. The ledger store may be nil, in
// which case completions are applied but not recorded.
func New(cfg *config.Config, store vault.Store, led ledger.Store) *Service {
	masters := resolve.NewIndex(store, cfg.MasterClassFolder)
	stats := resolve.NewIndex(store, cfg.StatFolder)
	return &Service{
		cfg:     cfg,
		store:   store,
		masters: masters,
		stats:   stats,
		runner:  cascade.NewRunner(store, cfg.SkillTreeFolder, cfg.PlayerFile, masters, stats),
		ledger:  led,
		now:     time.Now,
	}
}

// Refresh rebuilds the master-class and stat indexes from the vault.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.masters.Rebuild(ctx); err != nil {
		return err
	}
	return s.stats.Rebuild(ctx)
}

// Quests parses the tasks file. A missing file is an empty quest log, not an
// error. Quests carrying no reward metadata at all fall back to the
// configured per-task XP and coins.
func (s *Service) Quests(ctx context.Context) ([]quest.Quest, error) {
	content, err := s.store.Read(ctx, s.cfg.TasksFile)
	if errors.Is(err, vault.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	quests := quest.Parse(content)
	for i := range quests {
		if quests[i].XP == 0 && quests[i].CP == 0 && quests[i].Coins == 0 {
			quests[i].XP = s.cfg.XPPerTask
			quests[i].Coins = s.cfg.CoinPerTask
		}
	}
	return quests, nil
}

// FindQuest locates a quest by its ID, or by title under the usual
// case-insensitive whitespace-stripped name matching.
func (s *Service) FindQuest(ctx context.Context, ref string) (quest.Quest, error) {
	quests, err := s.Quests(ctx)
	if err != nil {
		return quest.Quest{}, err
	}
	for _, q := range quests {
		if q.ID == ref {
			return q, nil
		}
	}
	want := resolve.Normalize(ref)
	for _, q := range quests {
		if resolve.Normalize(q.Title) == want {
			return q, nil
		}
	}
	return quest.Quest{}, fmt.Errorf("%w: %s", ErrQuestNotFound, ref)
}

// Complete checks the quest's line off and runs the progression cascade,
// recording the outcome in the ledger when one is configured. The checkbox
// write happens first: even if a later entity write fails, the quest stays
// complete and the report says which steps need attention.
func (s *Service) Complete(ctx context.Context, ref string) (*cascade.Report, error) {
	q, err := s.FindQuest(ctx, ref)
	if err != nil {
		return nil, err
	}
	if q.Completed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyComplete, q.Title)
	}

	content, err := s.store.Read(ctx, s.cfg.TasksFile)
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}
	updated, err := quest.Toggle(content, q.Line, true, s.now().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, s.cfg.TasksFile, updated); err != nil {
		return nil, fmt.Errorf("writing tasks file: %w", err)
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	report, err := s.runner.Run(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.ledger != nil {
		if err := s.record(ctx, report); err != nil {
			return report, fmt.Errorf("recording completion: %w", err)
		}
	}
	return report, nil
}

// Uncomplete unchecks the quest's line. Progression already applied is not
// reversed; the ledger keeps the completion on record.
func (s *Service) Uncomplete(ctx context.Context, ref string) error {
	q, err := s.FindQuest(ctx, ref)
	if err != nil {
		return err
	}
	if !q.Completed {
		return nil
	}

	content, err := s.store.Read(ctx, s.cfg.TasksFile)
	if err != nil {
		return fmt.Errorf("reading tasks file: %w", err)
	}
	updated, err := quest.Toggle(content, q.Line, false, "")
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, s.cfg.TasksFile, updated); err != nil {
		return fmt.Errorf("writing tasks file: %w", err)
	}
	return nil
}

// ToggleSubtask flips one subtask of the quest. Subtasks carry no rewards,
// so no cascade runs.
func (s *Service) ToggleSubtask(ctx context.Context, ref string, index int, done bool) error {
	q, err := s.FindQuest(ctx, ref)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(q.Subtasks) {
		return fmt.Errorf("quest %s has no subtask %d", q.Title, index)
	}

	content, err := s.store.Read(ctx, s.cfg.TasksFile)
	if err != nil {
		return fmt.Errorf("reading tasks file: %w", err)
	}
	updated, err := quest.Toggle(content, q.Subtasks[index].Line, done, s.now().Format("2006-01-02"))
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, s.cfg.TasksFile, updated); err != nil {
		return fmt.Errorf("writing tasks file: %w", err)
	}
	return nil
}

// AddQuest appends a generated task line to the tasks file, creating the
// file when the vault does not have one yet.
func (s *Service) AddQuest(ctx context.Context, d quest.Draft) (string, error) {
	if strings.TrimSpace(d.Title) == "" {
		return "", fmt.Errorf("quest title is required")
	}
	if d.XP == 0 {
		d.XP = s.cfg.XPPerTask
	}

	line := quest.GenerateTaskLine(d, quest.MetadataStyle(s.cfg.MetadataStyle))

	content, err := s.store.Read(ctx, s.cfg.TasksFile)
	if errors.Is(err, vault.ErrNotFound) {
		content = "# Quests\n"
	} else if err != nil {
		return "", fmt.Errorf("reading tasks file: %w", err)
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"

	if err := s.store.Write(ctx, s.cfg.TasksFile, content); err != nil {
		return "", fmt.Errorf("writing tasks file: %w", err)
	}
	return line, nil
}

// Player reads the player document's fields. A vault without one yet yields
// an empty field set.
func (s *Service) Player(ctx context.Context) (map[string]any, error) {
	fields, _, err := s.readFields(ctx, s.cfg.PlayerFile)
	if errors.Is(err, vault.ErrNotFound) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// History lists recorded completions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ledger.Completion, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("no ledger configured")
	}
	return s.ledger.ListCompletions(ctx, limit)
}

// HistorySteps lists the cascade steps of one recorded completion.
func (s *Service) HistorySteps(ctx context.Context, completionID string) ([]ledger.StepRecord, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("no ledger configured")
	}
	return s.ledger.ListSteps(ctx, completionID)
}

func (s *Service) record(ctx context.Context, report *cascade.Report) error {
	comp := ledger.Completion{
		ID:          report.ID,
		Quest:       report.Quest,
		CompletedAt: report.CompletedAt,
		XP:          report.XP,
		CP:          report.CP,
		Coins:       report.Coins,
	}
	steps := make([]ledger.StepRecord, 0, len(report.Steps))
	for _, step := range report.Steps {
		steps = append(steps, ledger.StepRecord{
			Entity:    step.Entity,
			Kind:      string(step.Kind),
			Delta:     step.Delta,
			Status:    string(step.Status),
			LeveledUp: step.LeveledUp,
			Level:     step.Level,
		})
	}
	return s.ledger.RecordCompletion(ctx, comp, steps)
}
