package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/repo-summary/internal/gvariant"
	"github.com/opmodel/repo-summary/internal/summary"
)

// Renderer writes summary data to Out in the configured format.
type Renderer struct {
	Out    io.Writer
	Format OutputFormat
	Units  SizeUnits

	// Color enables lipgloss styles in text and table output.
	Color bool

	// Canonical emits RFC 8785 canonical JSON. Numbers above 2^53 lose
	// precision in this form.
	Canonical bool
}

type reportView struct {
	Title         *string   `json:"title,omitempty" yaml:"title,omitempty"`
	DefaultBranch *string   `json:"defaultBranch,omitempty" yaml:"defaultBranch,omitempty"`
	HasCache      bool      `json:"hasCache" yaml:"hasCache"`
	BranchCount   *int      `json:"branchCount,omitempty" yaml:"branchCount,omitempty"`
	Branch        *string   `json:"branch,omitempty" yaml:"branch,omitempty"`
	Refs          []refView `json:"refs" yaml:"refs"`
}

type refView struct {
	Ref           string  `json:"ref" yaml:"ref"`
	InstalledSize uint64  `json:"installedSize" yaml:"installedSize"`
	DownloadSize  uint64  `json:"downloadSize" yaml:"downloadSize"`
	Installed     string  `json:"installed" yaml:"installed"`
	Download      string  `json:"download" yaml:"download"`
	Metadata      *string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type commitView struct {
	Ref        string `json:"ref" yaml:"ref"`
	Checksum   string `json:"checksum" yaml:"checksum"`
	CommitSize uint64 `json:"commitSize" yaml:"commitSize"`
	Metadata   string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Report renders the result of summary.Summarize.
func (r *Renderer) Report(rep *summary.Report) error {
	switch r.Format {
	case FormatJSON, FormatYAML:
		return r.encode(r.reportView(rep))
	case FormatTable:
		r.reportHeader(rep)
		if len(rep.Refs) > 0 {
			t := NewTable("REF", "INSTALLED", "DOWNLOAD").SetStyle(r.tableStyle())
			for _, e := range rep.Refs {
				t.Row(e.Ref, FormatSize(e.InstalledSize, r.Units), FormatSize(e.DownloadSize, r.Units))
			}
			fmt.Fprintln(r.Out, t.String())
		}
		r.reportMetadata(rep)
		return nil
	default:
		r.reportHeader(rep)
		s := styler{enabled: r.Color}
		for _, e := range rep.Refs {
			fmt.Fprintf(r.Out, "%s (installed: %s, download: %s)\n",
				s.render(StyleNoun, e.Ref),
				FormatSize(e.InstalledSize, r.Units),
				FormatSize(e.DownloadSize, r.Units))
			if rep.MetadataRequested {
				io.WriteString(r.Out, e.Metadata)
			}
		}
		return nil
	}
}

func (r *Renderer) reportHeader(rep *summary.Report) {
	s := styler{enabled: r.Color}
	if rep.Title != nil {
		fmt.Fprintf(r.Out, "%s %s\n", s.render(StyleLabel, "Title:"), *rep.Title)
	}
	if rep.DefaultBranch != nil {
		fmt.Fprintf(r.Out, "%s %s\n", s.render(StyleLabel, "Default branch:"), *rep.DefaultBranch)
	}
	if rep.BranchCount != nil {
		fmt.Fprintf(r.Out, "%d branches\n", *rep.BranchCount)
	}
}

// reportMetadata prints the metadata strings after the table.
func (r *Renderer) reportMetadata(rep *summary.Report) {
	if !rep.MetadataRequested {
		return
	}
	for _, e := range rep.Refs {
		io.WriteString(r.Out, e.Metadata)
	}
}

func (r *Renderer) reportView(rep *summary.Report) reportView {
	view := reportView{
		Title:         rep.Title,
		DefaultBranch: rep.DefaultBranch,
		HasCache:      rep.HasCache,
		BranchCount:   rep.BranchCount,
		Branch:        rep.Branch,
		Refs:          make([]refView, 0, len(rep.Refs)),
	}
	for _, e := range rep.Refs {
		rv := refView{
			Ref:           e.Ref,
			InstalledSize: e.InstalledSize,
			DownloadSize:  e.DownloadSize,
			Installed:     FormatSize(e.InstalledSize, r.Units),
			Download:      FormatSize(e.DownloadSize, r.Units),
		}
		if rep.MetadataRequested {
			md := e.Metadata
			rv.Metadata = &md
		}
		view.Refs = append(view.Refs, rv)
	}
	return view
}

// Refs renders the ref list of a summary. Commit metadata is included when
// withMetadata is set.
func (r *Renderer) Refs(refs []summary.Ref, withMetadata bool) error {
	views := make([]commitView, 0, len(refs))
	for _, ref := range refs {
		cv := commitView{Ref: ref.Name, Checksum: ref.ChecksumHex(), CommitSize: ref.CommitSize}
		if withMetadata {
			text, err := gvariant.Print(ref.Metadata)
			if err != nil {
				return fmt.Errorf("printing metadata of %s: %w", ref.Name, err)
			}
			cv.Metadata = text
		}
		views = append(views, cv)
	}

	switch r.Format {
	case FormatJSON, FormatYAML:
		return r.encode(views)
	case FormatTable:
		if len(views) == 0 {
			return nil
		}
		t := NewTable("REF", "COMMIT", "SIZE").SetStyle(r.tableStyle())
		for _, cv := range views {
			t.Row(cv.Ref, cv.Checksum, FormatSize(cv.CommitSize, r.Units))
		}
		fmt.Fprintln(r.Out, t.String())
		for _, cv := range views {
			if cv.Metadata != "" {
				fmt.Fprintln(r.Out, cv.Metadata)
			}
		}
		return nil
	default:
		s := styler{enabled: r.Color}
		for _, cv := range views {
			fmt.Fprintf(r.Out, "%s %s (%s)\n",
				s.render(StyleNoun, cv.Ref),
				cv.Checksum,
				s.render(StyleDim, FormatSize(cv.CommitSize, r.Units)))
			if cv.Metadata != "" {
				fmt.Fprintln(r.Out, cv.Metadata)
			}
		}
		return nil
	}
}

// Dump prints v in GVariant text form.
func (r *Renderer) Dump(v gvariant.Value) error {
	text, err := gvariant.Print(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Out, text)
	return err
}

func (r *Renderer) tableStyle() TableStyle {
	if r.Color {
		return DefaultTableStyle()
	}
	return PlainTableStyle()
}

func (r *Renderer) encode(v any) error {
	var data []byte
	var err error
	switch r.Format {
	case FormatYAML:
		data, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling yaml: %w", err)
		}
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling json: %w", err)
		}
		if r.Canonical {
			if data, err = jcs.Transform(data); err != nil {
				return fmt.Errorf("canonicalizing json: %w", err)
			}
		}
		data = append(data, '\n')
	}
	_, err = r.Out.Write(data)
	return err
}
