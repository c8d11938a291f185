package summary

import (
	"fmt"

	"github.com/opmodel/repo-summary/internal/gvariant"
)

// Options controls what Summarize and ListRefs report.
type Options struct {
	// Branch selects a single ref by exact name. Nil lists everything.
	Branch *string
}

// RefEntry is one row of the xa.cache mapping.
type RefEntry struct {
	Ref           string `json:"ref" yaml:"ref"`
	InstalledSize uint64 `json:"installedSize" yaml:"installedSize"`
	DownloadSize  uint64 `json:"downloadSize" yaml:"downloadSize"`

	// Metadata is the raw commit metadata string. It is only shown when
	// Report.MetadataRequested is set.
	Metadata string `json:"-" yaml:"-"`
}

// Report is the data displayed for a summary query.
type Report struct {
	// Title and DefaultBranch are only looked up when no branch was given.
	Title         *string
	DefaultBranch *string

	// HasCache reports whether the document carries an xa.cache entry.
	HasCache bool

	// BranchCount is the number of cache entries, set when no branch was given.
	BranchCount *int

	// Branch is the queried ref, if any.
	Branch *string

	Refs []RefEntry

	// MetadataRequested is set when a branch was given and matched.
	MetadataRequested bool
}

// Summarize extracts the display data from d. Missing optional metadata is
// not an error; present metadata of the wrong type is.
func Summarize(d *Document, opts Options) (*Report, error) {
	meta, err := d.Metadata()
	if err != nil {
		return nil, err
	}

	report := &Report{Branch: opts.Branch}
	if opts.Branch == nil {
		if report.Title, err = lookupString(meta, KeyTitle); err != nil {
			return nil, err
		}
		if report.DefaultBranch, err = lookupString(meta, KeyDefaultBranch); err != nil {
			return nil, err
		}
	}

	cache, ok, err := lookupCache(meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyCache, err)
	}
	if !ok {
		return report, nil
	}
	report.HasCache = true

	if opts.Branch == nil {
		n, err := cache.NumChildren()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyCache, err)
		}
		report.BranchCount = &n
	}

	for e, err := range cache.Entries() {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyCache, err)
		}
		entry, err := decodeCacheEntry(e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", KeyCache, err)
		}
		if opts.Branch != nil && *opts.Branch != entry.Ref {
			continue
		}
		report.Refs = append(report.Refs, entry)
		if opts.Branch != nil {
			report.MetadataRequested = true
		}
	}
	return report, nil
}

// lookupCache unwraps both variant boxes around the cache: the {sv} entry
// value and the serialized cache variant stored inside it.
func lookupCache(meta gvariant.Value) (gvariant.Value, bool, error) {
	boxed, ok, err := meta.Lookup(KeyCache, nil)
	if err != nil || !ok {
		return gvariant.Value{}, ok, err
	}
	if boxed.Type().Kind() != gvariant.KindVariant {
		return gvariant.Value{}, false, &gvariant.TypeMismatchError{Want: "v", Got: boxed.Type()}
	}
	cache, err := boxed.Variant()
	if err != nil {
		return gvariant.Value{}, false, err
	}
	if !cache.Type().Equal(CacheType) {
		return gvariant.Value{}, false, &gvariant.TypeMismatchError{Want: CacheType.String(), Got: cache.Type()}
	}
	return cache, true, nil
}

func lookupString(meta gvariant.Value, key string) (*string, error) {
	v, ok, err := meta.Lookup(key, gvariant.TypeString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	s, err := v.Str()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &s, nil
}

func decodeCacheEntry(e gvariant.Entry) (RefEntry, error) {
	var entry RefEntry
	var err error
	if entry.Ref, err = e.Key.Str(); err != nil {
		return entry, err
	}
	fields := make([]gvariant.Value, 3)
	for i := range fields {
		if fields[i], err = e.Value.Child(i); err != nil {
			return entry, err
		}
	}
	if entry.InstalledSize, err = beUint64(fields[0]); err != nil {
		return entry, err
	}
	if entry.DownloadSize, err = beUint64(fields[1]); err != nil {
		return entry, err
	}
	if entry.Metadata, err = fields[2].Str(); err != nil {
		return entry, err
	}
	return entry, nil
}
