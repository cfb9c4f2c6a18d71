// Package emotion maps localized emotion tags to meme categories and
// extracts tags from generated text.
package emotion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	. "github.com/Akuma-real/memegate/internal/logging"
)

// Entry pairs a localized display name with its category slug.
type Entry struct {
	Name string
	Slug string
}

// builtin is the default tag table, in display order.
var builtin = []Entry{
	{"生气", "angry"},
	{"开心", "happy"},
	{"悲伤", "sad"},
	{"惊讶", "surprised"},
	{"疑惑", "confused"},
	{"色色", "color"},
	{"色", "color"},
	{"死机", "cpu"},
	{"笨蛋", "fool"},
	{"给钱", "givemoney"},
	{"喜欢", "like"},
	{"看", "see"},
	{"害羞", "shy"},
	{"下班", "work"},
	{"剪刀", "scissors"},
	{"不回我", "reply"},
	{"喵", "meow"},
	{"八嘎", "baka"},
	{"早", "morning"},
	{"睡觉", "sleep"},
	{"唉", "sigh"},
}

// table is an immutable snapshot of the tag map. Readers grab the current
// snapshot; Reload swaps in a complete replacement, never a partial merge.
type table struct {
	slugs map[string]string
	names []string // insertion order: builtin first, then override additions
}

// Registry resolves localized tag names to category slugs.
// It is safe for concurrent use; Reload atomically replaces the table.
type Registry struct {
	current      atomic.Pointer[table]
	overridePath string
}

// NewRegistry builds a registry from the builtin table. If overridePath is
// non-empty and the file exists, it is merged in immediately; a broken
// override file is logged and ignored at construction time.
func NewRegistry(overridePath string) *Registry {
	r := &Registry{overridePath: overridePath}
	r.current.Store(buildTable(builtin, nil))
	if overridePath != "" {
		if err := r.Reload(); err != nil && !os.IsNotExist(err) {
			L_warn("emotion: initial override load failed", "path", overridePath, "error", err)
		}
	}
	return r
}

func buildTable(base []Entry, extra []Entry) *table {
	t := &table{slugs: make(map[string]string, len(base)+len(extra))}
	for _, e := range base {
		if _, seen := t.slugs[e.Name]; !seen {
			t.names = append(t.names, e.Name)
		}
		t.slugs[e.Name] = e.Slug
	}
	for _, e := range extra {
		if _, seen := t.slugs[e.Name]; !seen {
			t.names = append(t.names, e.Name)
		}
		t.slugs[e.Name] = e.Slug
	}
	return t
}

// Resolve maps a display name to its category slug. Exact match only.
func (r *Registry) Resolve(name string) (string, bool) {
	slug, ok := r.current.Load().slugs[name]
	return slug, ok
}

// Names returns all display names: builtin order first, then override
// additions in file order.
func (r *Registry) Names() []string {
	t := r.current.Load()
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// OverridePath returns the configured override file path.
func (r *Registry) OverridePath() string {
	return r.overridePath
}

// Reload re-reads the override file and merges it over the builtin table,
// atomically swapping the live snapshot. On any error the previous table is
// retained unchanged.
func (r *Registry) Reload() error {
	if r.overridePath == "" {
		return nil
	}

	data, err := os.ReadFile(r.overridePath)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("failed to read override file: %w", err)
	}

	extra, err := decodeOrdered(data)
	if err != nil {
		return fmt.Errorf("failed to parse override file: %w", err)
	}

	r.current.Store(buildTable(builtin, extra))
	L_info("emotion: override merged", "path", r.overridePath, "entries", len(extra))
	return nil
}

// decodeOrdered parses a flat JSON object of name -> slug, preserving the
// key order of the file (encoding/json maps would lose it).
func decodeOrdered(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var slug string
		if err := dec.Decode(&slug); err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		entries = append(entries, Entry{Name: key, Slug: slug})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return entries, nil
}
