// Package memestore manages the on-disk meme library:
// one directory per category slug, flat image files inside.
package memestore

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	. "github.com/Akuma-real/memegate/internal/logging"
)

// OverrideFilename is the optional tag override file inside the meme root.
const OverrideFilename = "emotions.json"

// imageExts are the file extensions recognized as meme assets.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store provides access to the meme library rooted at a single directory.
// It holds no in-memory state; the filesystem is the source of truth.
type Store struct {
	root string
}

// New creates a Store rooted at root, creating the directory if absent.
func New(root string) (*Store, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create meme root: %w", err)
	}
	L_info("memestore: initialized", "root", root)
	return &Store{root: root}, nil
}

// Root returns the meme root directory.
func (s *Store) Root() string {
	return s.root
}

// OverridePath returns the path of the tag override file.
func (s *Store) OverridePath() string {
	return filepath.Join(s.root, OverrideFilename)
}

// CategoryDir returns the directory for a category slug.
func (s *Store) CategoryDir(slug string) string {
	return filepath.Join(s.root, slug)
}

// List returns the image filenames in a category, filtered to recognized
// extensions. A missing category directory yields an empty list, not an error.
func (s *Store) List(slug string) ([]string, error) {
	entries, err := os.ReadDir(s.CategoryDir(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read category %s: %w", slug, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// PickRandom returns the absolute path of one image chosen uniformly at
// random from a category. Returns an error if the category has no images.
func (s *Store) PickRandom(slug string) (string, error) {
	names, err := s.List(slug)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("category %s has no images", slug)
	}
	name := names[rand.Intn(len(names))]
	return filepath.Join(s.CategoryDir(slug), name), nil
}

// Save writes data into a category directory under the given filename,
// creating the directory if needed. Returns the absolute path.
func (s *Store) Save(slug, filename string, data []byte) (string, error) {
	dir := s.CategoryDir(slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create category directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	L_debug("memestore: saved", "path", path, "size", len(data))
	return path, nil
}
