// Package resolve locates entity documents by their front-matter name. The
// vault has no foreign keys: a skill names its class, a class names its
// master class, and lookups scan a folder for a document whose name field
// matches. An Index keeps that scan in memory and is rebuilt on change
// notification instead of per call.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"questforge/internal/frontmatter"
	"questforge/internal/vault"
)

var ErrNotFound = errors.New("entity not found")

// Normalize is the name-matching rule: case-insensitive with all whitespace
// stripped.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Index maps normalized front-matter names to document paths under one
// folder prefix.
type Index struct {
	store  vault.Store
	folder string

	mu     sync.RWMutex
	byName map[string]string
}

func NewIndex(store vault.Store, folder string) *Index {
	if folder != "" && !strings.HasSuffix(folder, "/") {
		folder += "/"
	}
	return &Index{
		store:  store,
		folder: folder,
		byName: map[string]string{},
	}
}

func (ix *Index) Folder() string { return ix.folder }

// Rebuild rescans the folder. Documents with unreadable or malformed front
// matter are skipped; the first document claiming a name wins, and listing
// order is alphabetical, so resolution is deterministic.
func (ix *Index) Rebuild(ctx context.Context) error {
	paths, err := ix.store.List(ctx, ix.folder)
	if err != nil {
		return fmt.Errorf("rebuilding index for %s: %w", ix.folder, err)
	}

	byName := map[string]string{}
	for _, path := range paths {
		text, err := ix.store.Read(ctx, path)
		if err != nil {
			continue
		}
		doc, err := frontmatter.Decode(text)
		if err != nil {
			continue
		}
		name, ok := doc.Fields["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		key := Normalize(name)
		if _, exists := byName[key]; !exists {
			byName[key] = path
		}
	}

	ix.mu.Lock()
	ix.byName = byName
	ix.mu.Unlock()
	return nil
}

// Resolve returns the path of the document whose front-matter name matches.
func (ix *Index) Resolve(name string) (string, error) {
	ix.mu.RLock()
	path, ok := ix.byName[Normalize(name)]
	ix.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrNotFound, name, ix.folder)
	}
	return path, nil
}

// Len reports how many entities the index currently holds.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byName)
}
