package memestore

import (
	"os"

	. "github.com/Akuma-real/memegate/internal/logging"
)

// Resolver is the subset of the emotion registry the audit needs.
type Resolver interface {
	Names() []string
	Resolve(name string) (string, bool)
}

// Audit walks every known category and logs its health: missing directories,
// empty categories, and per-category image counts. It never fails; problems
// are operator-facing log lines only.
func (s *Store) Audit(reg Resolver) {
	L_info("memestore: audit", "root", s.root)

	if _, err := os.Stat(s.root); err != nil {
		L_error("memestore: root missing", "root", s.root, "error", err)
		return
	}

	seen := make(map[string]bool)
	for _, name := range reg.Names() {
		slug, ok := reg.Resolve(name)
		if !ok || seen[slug] {
			continue
		}
		seen[slug] = true

		dir := s.CategoryDir(slug)
		if _, err := os.Stat(dir); err != nil {
			L_warn("memestore: category directory missing", "category", slug, "dir", dir)
			continue
		}

		names, err := s.List(slug)
		if err != nil {
			L_warn("memestore: category unreadable", "category", slug, "error", err)
			continue
		}
		if len(names) == 0 {
			L_warn("memestore: category empty", "category", slug)
		} else {
			L_info("memestore: category ok", "category", slug, "images", len(names))
		}
	}
}
