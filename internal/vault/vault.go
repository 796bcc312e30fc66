// Package vault is the document-store adapter: a named collection of UTF-8
// markdown documents addressed by slash-separated relative paths.
package vault

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrExists   = errors.New("document already exists")
)

// Store is the contract the progression core consumes. Implementations own
// durability and path layout; the core only reads and rewrites whole
// documents.
type Store interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, text string) error
	Create(ctx context.Context, path, text string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
