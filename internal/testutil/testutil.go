// Package testutil provides test helpers for repo-summary tests.
package testutil

import (
	"math/bits"
	"os"
	"path/filepath"
	"testing"

	"github.com/opmodel/repo-summary/internal/gvariant"
)

// CommitRef is an entry of the summary ref list.
type CommitRef struct {
	Name     string
	Size     uint64
	Checksum []byte
	Metadata []gvariant.Item // {sv} entries
}

// CacheEntry is an entry of the xa.cache mapping.
type CacheEntry struct {
	Ref       string
	Installed uint64
	Download  uint64
	Metadata  string
}

// Summary describes a summary document to serialise.
type Summary struct {
	Refs          []CommitRef
	Title         *string
	DefaultBranch *string
	Cache         []CacheEntry
	NoCache       bool

	// Extra holds additional {sv} entries appended to the metadata dictionary.
	Extra []gvariant.Item
}

var (
	varEntry   = gvariant.DictEntryOf(gvariant.TypeString, gvariant.TypeVariant)
	commitType = gvariant.MustParseType("(s(taya{sv}))")
	cacheEntry = gvariant.MustParseType("{s(tts)}")
)

// Bytes serialises the document. Cache sizes are stored big-endian and the
// cache mapping is boxed in a variant inside its {sv} entry.
func (s Summary) Bytes() []byte {
	refs := make([]gvariant.Item, 0, len(s.Refs))
	for _, r := range s.Refs {
		refs = append(refs, gvariant.NewTuple(
			gvariant.NewString(r.Name),
			gvariant.NewTuple(
				gvariant.NewUint64(r.Size),
				gvariant.NewBytes(r.Checksum),
				gvariant.NewArray(varEntry, r.Metadata...),
			),
		))
	}

	var meta []gvariant.Item
	if s.Title != nil {
		meta = append(meta, VarEntry("xa.title", gvariant.NewString(*s.Title)))
	}
	if s.DefaultBranch != nil {
		meta = append(meta, VarEntry("xa.default-branch", gvariant.NewString(*s.DefaultBranch)))
	}
	if !s.NoCache {
		entries := make([]gvariant.Item, 0, len(s.Cache))
		for _, c := range s.Cache {
			entries = append(entries, gvariant.NewDictEntry(
				gvariant.NewString(c.Ref),
				gvariant.NewTuple(
					BigEndianUint64(c.Installed),
					BigEndianUint64(c.Download),
					gvariant.NewString(c.Metadata),
				),
			))
		}
		meta = append(meta, VarEntry("xa.cache", gvariant.NewVariant(gvariant.NewArray(cacheEntry, entries...))))
	}
	meta = append(meta, s.Extra...)

	return gvariant.NewTuple(
		gvariant.NewArray(commitType, refs...),
		gvariant.NewArray(varEntry, meta...),
	).Bytes()
}

// VarEntry returns the {sv} entry key -> <value>.
func VarEntry(key string, value gvariant.Item) gvariant.Item {
	return gvariant.NewDictEntry(gvariant.NewString(key), gvariant.NewVariant(value))
}

// BigEndianUint64 returns a uint64 item whose bytes hold v big-endian.
func BigEndianUint64(v uint64) gvariant.Item {
	return gvariant.NewUint64(bits.ReverseBytes64(v))
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// WriteRepo creates a repository directory containing a summary file with
// the given contents and returns its path.
func WriteRepo(t *testing.T, summary []byte) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "summary"), summary, 0o644); err != nil {
		t.Fatalf("failed to write summary: %v", err)
	}
	return dir
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
