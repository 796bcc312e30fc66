// Package frontmatter encodes and decodes the delimited YAML header
// carried at the top of vault documents. The body below the header is treated
// as opaque text and survives a decode/encode round trip byte for byte.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMalformed marks a header whose closing delimiter is missing or whose
// YAML does not parse. Readers recover by treating the file as body-only;
// writers surface it, since updating a file we cannot parse would lose data.
var ErrMalformed = errors.New("malformed front matter")

type Document struct {
	Fields map[string]any
	Body   string
}

// Decode splits raw into front-matter fields and body. A document that does
// not open with a --- line has no front matter: Fields is empty and Body is
// raw, unchanged.
func Decode(raw string) (*Document, error) {
	trimmed := strings.TrimPrefix(raw, "\ufeff")
	if !strings.HasPrefix(trimmed, delimiter+"\n") {
		return &Document{Fields: map[string]any{}, Body: raw}, nil
	}

	rest := trimmed[len(delimiter)+1:]
	block, body, err := splitAtClosingDelimiter(rest)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return &Document{Fields: fields, Body: body}, nil
}

// Encode serializes fields between --- delimiters and appends body verbatim.
func Encode(fields map[string]any, body string) (string, error) {
	data, err := yaml.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteString("\n")
	}
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.WriteString(body)
	return b.String(), nil
}

// splitAtClosingDelimiter finds the next line containing only --- and returns
// the YAML block before it and the body after it.
func splitAtClosingDelimiter(rest string) (block, body string, err error) {
	if rest == delimiter {
		return "", "", nil
	}
	if strings.HasPrefix(rest, delimiter+"\n") {
		return "", rest[len(delimiter)+1:], nil
	}
	if idx := strings.Index(rest, "\n"+delimiter+"\n"); idx >= 0 {
		return rest[:idx+1], rest[idx+1+len(delimiter)+1:], nil
	}
	if strings.HasSuffix(rest, "\n"+delimiter) {
		return rest[:len(rest)-len(delimiter)], "", nil
	}
	return "", "", ErrMalformed
}
