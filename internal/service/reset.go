package service

import (
	"context"
	"fmt"
	"strings"

	"questforge/internal/frontmatter"
	"questforge/internal/progress"
)

// Reset rewinds progression to its starting state for the selected kinds,
// or for everything when no kind is given. Other front-matter fields and
// document bodies are left alone. It returns how many documents of each
// kind were reset.
func (s *Service) Reset(ctx context.Context, kinds ...progress.Kind) (map[progress.Kind]int, error) {
	selected := map[progress.Kind]bool{}
	for _, kind := range kinds {
		if !kind.IsValid() {
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		selected[kind] = true
	}
	all := len(selected) == 0

	paths, err := s.store.List(ctx, strings.TrimSuffix(s.cfg.SkillTreeFolder, "/")+"/")
	if err != nil {
		return nil, fmt.Errorf("scanning skill tree: %w", err)
	}

	counts := map[progress.Kind]int{}
	for _, path := range paths {
		fields, body, err := s.readFields(ctx, path)
		if err != nil {
			continue
		}
		kind, ok := s.classify(path, fields)
		if !ok || (!all && !selected[kind]) {
			continue
		}

		resetFields(kind, fields)
		text, err := frontmatter.Encode(fields, body)
		if err != nil {
			return counts, fmt.Errorf("resetting %s: %w", path, err)
		}
		if err := s.store.Write(ctx, path, text); err != nil {
			return counts, fmt.Errorf("resetting %s: %w", path, err)
		}
		counts[kind]++
	}

	// the player file may live outside the skill tree folder
	if (all || selected[progress.KindPlayer]) && counts[progress.KindPlayer] == 0 {
		if fields, body, err := s.readFields(ctx, s.cfg.PlayerFile); err == nil {
			resetFields(progress.KindPlayer, fields)
			text, err := frontmatter.Encode(fields, body)
			if err != nil {
				return counts, fmt.Errorf("resetting %s: %w", s.cfg.PlayerFile, err)
			}
			if err := s.store.Write(ctx, s.cfg.PlayerFile, text); err != nil {
				return counts, fmt.Errorf("resetting %s: %w", s.cfg.PlayerFile, err)
			}
			counts[progress.KindPlayer]++
		}
	}
	return counts, nil
}

// classify decides what kind of entity a document is. The player is known
// by path; everything else by the shape of its front matter, so users are
// free to rearrange folders.
func (s *Service) classify(path string, fields map[string]any) (progress.Kind, bool) {
	if path == s.cfg.PlayerFile {
		return progress.KindPlayer, true
	}
	if _, ok := fields["class"]; ok {
		return progress.KindSkill, true
	}
	if _, ok := fields["masterClass"]; ok {
		return progress.KindClass, true
	}
	if _, ok := fields["value"]; ok {
		return progress.KindStat, true
	}
	if _, ok := fields["current"]; ok {
		return progress.KindStat, true
	}
	if _, ok := fields["currentCP"]; ok {
		return progress.KindMasterClass, true
	}
	return "", false
}

func resetFields(kind progress.Kind, fields map[string]any) {
	fields["level"] = 1
	switch kind {
	case progress.KindStat:
		fields["current"] = 0
		fields["required"] = int(progress.RequiredPoints(kind, 1))
		fields["value"] = 0
	case progress.KindPlayer:
		fields["xp"] = 0
		fields["xpRequired"] = int(progress.RequiredPoints(kind, 1))
		fields["total_exp"] = 0
		fields["coins"] = 0
	default:
		fields["currentCP"] = 0
		fields["requiredCP"] = int(progress.RequiredPoints(kind, 1))
	}
}

func (s *Service) readFields(ctx context.Context, path string) (map[string]any, string, error) {
	text, err := s.store.Read(ctx, path)
	if err != nil {
		return nil, "", err
	}
	doc, err := frontmatter.Decode(text)
	if err != nil {
		return nil, "", err
	}
	return doc.Fields, doc.Body, nil
}
