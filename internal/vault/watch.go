package vault

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reports vault-relative paths of markdown documents that change on
// disk until ctx is cancelled. onChange runs on the watcher goroutine, so
// consumers that rebuild indexes should do their own locking. New
// subdirectories are added to the watch as they appear.
func (v *FS) Watch(ctx context.Context, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting vault watcher: %w", err)
	}

	if err := addRecursive(watcher, v.root); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					// a freshly created directory needs its own watch
					_ = addRecursive(watcher, event.Name)
				}
				if !strings.HasSuffix(strings.ToLower(event.Name), ".md") {
					continue
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
					event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
					if rel, err := filepath.Rel(v.root, event.Name); err == nil {
						onChange(filepath.ToSlash(rel))
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
