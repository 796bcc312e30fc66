package service

import (
	"context"
	"fmt"
	"strings"
)

type watcher interface {
	Watch(ctx context.Context, onChange func(path string)) error
}

// Watch follows vault changes and rebuilds the entity indexes whenever a
// document under the skill tree changes. It blocks until the context is
// cancelled. Vaults that cannot be watched (anything but the filesystem
// store) report an error immediately.
func (s *Service) Watch(ctx context.Context) error {
	w, ok := s.store.(watcher)
	if !ok {
		return fmt.Errorf("vault store does not support watching")
	}

	prefix := strings.TrimSuffix(s.cfg.SkillTreeFolder, "/") + "/"
	return w.Watch(ctx, func(path string) {
		if !strings.HasPrefix(path, prefix) {
			return
		}
		// best effort: a failed rebuild keeps the previous index
		_ = s.Refresh(ctx)
	})
}
