// Package summary reads the summary file of an OSTree-style repository.
package summary

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/opmodel/repo-summary/internal/gvariant"
)

// FileName is the name of the summary file inside a repository.
const FileName = "summary"

// Metadata keys written by flatpak build-update-repo.
const (
	KeyTitle         = "xa.title"
	KeyDefaultBranch = "xa.default-branch"
	KeyCache         = "xa.cache"
)

var (
	// Type is the type of a summary document.
	Type = gvariant.MustParseType("(a(s(taya{sv}))a{sv})")

	// CacheType is the type of the serialized variant held in the xa.cache
	// entry. On disk the entry value is v(v(a{s(tts)})).
	CacheType = gvariant.MustParseType("a{s(tts)}")
)

// Path returns the location of the summary file in repo.
func Path(repo string) string {
	return filepath.Join(repo, FileName)
}

// Document is a parsed summary. It references the buffer it was parsed
// from, which must stay unmodified for the lifetime of the Document.
type Document struct {
	root gvariant.Value
}

// Parse interprets buf as a summary document.
func Parse(buf []byte) (*Document, error) {
	root, err := gvariant.Parse(buf, Type)
	if err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the underlying value.
func (d *Document) Root() gvariant.Value { return d.root }

// Metadata returns the document-level a{sv} dictionary.
func (d *Document) Metadata() (gvariant.Value, error) {
	return d.root.Child(1)
}

// NumRefs returns the length of the ref list.
func (d *Document) NumRefs() (int, error) {
	list, err := d.root.Child(0)
	if err != nil {
		return 0, err
	}
	return list.NumChildren()
}

// Ref is one entry of the ref list.
type Ref struct {
	Name       string
	CommitSize uint64
	Checksum   []byte
	Metadata   gvariant.Value
}

// ChecksumHex returns the commit checksum as lowercase hex.
func (r Ref) ChecksumHex() string {
	return hex.EncodeToString(r.Checksum)
}

// ListRefs returns the entries of the ref list in serialised order. When
// opts.Branch is set only the ref with exactly that name is returned.
func ListRefs(d *Document, opts Options) ([]Ref, error) {
	list, err := d.root.Child(0)
	if err != nil {
		return nil, err
	}
	var refs []Ref
	for entry, err := range list.All() {
		if err != nil {
			return nil, err
		}
		ref, err := decodeRef(entry)
		if err != nil {
			return nil, err
		}
		if opts.Branch != nil && *opts.Branch != ref.Name {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func decodeRef(entry gvariant.Value) (Ref, error) {
	var ref Ref
	name, err := entry.Child(0)
	if err != nil {
		return ref, err
	}
	if ref.Name, err = name.Str(); err != nil {
		return ref, err
	}
	commit, err := entry.Child(1)
	if err != nil {
		return ref, err
	}
	size, err := commit.Child(0)
	if err != nil {
		return ref, err
	}
	if ref.CommitSize, err = size.Uint64(); err != nil {
		return ref, err
	}
	checksum, err := commit.Child(1)
	if err != nil {
		return ref, err
	}
	if ref.Checksum, err = checksum.Bytes(); err != nil {
		return ref, err
	}
	if ref.Metadata, err = commit.Child(2); err != nil {
		return ref, err
	}
	return ref, nil
}

// beUint64 decodes a uint64 stored big-endian regardless of the document's
// byte order.
func beUint64(v gvariant.Value) (uint64, error) {
	if !v.Type().Equal(gvariant.TypeUint64) {
		return 0, &gvariant.TypeMismatchError{Want: "t", Got: v.Type()}
	}
	return binary.BigEndian.Uint64(v.Raw()), nil
}
