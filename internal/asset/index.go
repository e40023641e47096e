// Package asset finds, decodes and caches the source images shown on the
// hologram facets.
package asset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.jetify.com/typeid/v2"
)

// IDPrefix is the typeid prefix of asset IDs.
const IDPrefix = "asset"

// Entry is one indexed source file.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"` // slash-separated path relative to the index root
	Path     string `json:"-"`
	MimeType string `json:"mimeType"`
}

// Index lists the still images under a directory in name order.
type Index struct {
	entries []Entry
	byID    map[string]int
	byName  map[string]int
}

// BuildIndex scans dir recursively for decodable images. Other files,
// including videos, are skipped.
func BuildIndex(dir string) (*Index, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		mt := GuessMimeType(path)
		if !IsImage(mt) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: filepath.ToSlash(rel), Path: path, MimeType: mt})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("asset: scan %s: %w", dir, err)
	}
	return NewIndex(entries), nil
}

// NewIndex sorts entries by name and assigns IDs to those without one.
func NewIndex(entries []Entry) *Index {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	idx := &Index{
		entries: entries,
		byID:    make(map[string]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for i := range idx.entries {
		if idx.entries[i].ID == "" {
			idx.entries[i].ID = NewID()
		}
		idx.byID[idx.entries[i].ID] = i
		idx.byName[strings.ToLower(idx.entries[i].Name)] = i
	}
	return idx
}

// NewID returns a fresh asset ID such as asset_01h455vb4pex5vsknk084sn02q.
func NewID() string {
	return typeid.MustGenerate(IDPrefix).String()
}

// Entries returns the indexed files in name order.
func (idx *Index) Entries() []Entry {
	return append([]Entry(nil), idx.entries...)
}

// Lookup finds an entry by asset ID or, case-insensitively, by name.
func (idx *Index) Lookup(key string) (Entry, bool) {
	if i, ok := idx.byID[key]; ok {
		return idx.entries[i], true
	}
	if i, ok := idx.byName[strings.ToLower(key)]; ok {
		return idx.entries[i], true
	}
	return Entry{}, false
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// ValidateID checks that id is an asset typeid.
func ValidateID(id string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("asset: invalid id %q: %w", id, err)
	}
	if parsed.Prefix() != IDPrefix {
		return fmt.Errorf("asset: expected prefix %q but got %q in id %q", IDPrefix, parsed.Prefix(), id)
	}
	return nil
}
