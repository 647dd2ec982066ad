package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/moor/internal/adapters/detector"
	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/moor/internal/ui/output"
	"go.trai.ch/moor/internal/ui/style"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// report collects the outcome of one resolution pass in declaration order.
type report struct {
	workspace string
	entries   []reportEntry
}

// reportEntry pairs a request with its resolution. A nil revision marks a
// failed request.
type reportEntry struct {
	request  domain.DependencyRequest
	revision *domain.ResolvedRevision
}

func (r *report) add(req domain.DependencyRequest, rev *domain.ResolvedRevision) {
	r.entries = append(r.entries, reportEntry{request: req, revision: rev})
}

// failed returns the number of requests without a resolution.
func (r *report) failed() int {
	var n int
	for _, e := range r.entries {
		if e.revision == nil {
			n++
		}
	}
	return n
}

// reportOutput picks the styled or plain renderer for the resolved mode.
func reportOutput(w io.Writer, mode detector.OutputMode) *termenv.Output {
	if mode == detector.ModePlain {
		return output.NewPlain(w)
	}
	return output.New(w)
}

// renderText writes the human-readable report.
func (r *report) renderText(w io.Writer, mode detector.OutputMode) error {
	out := reportOutput(w, mode)
	green := termenv.RGBColor(string(style.Green))
	red := termenv.RGBColor(string(style.Red))
	slate := termenv.RGBColor(string(style.Slate))

	var b strings.Builder
	header := fmt.Sprintf("%s: %d dependencies", r.workspace, len(r.entries))
	b.WriteString(out.String(header).Bold().String() + "\n")

	for _, e := range r.entries {
		if e.revision == nil {
			mark := out.String(style.Cross).Foreground(red).String()
			b.WriteString(fmt.Sprintf("  %s %s\n", mark, e.request.Key()))
			continue
		}

		mark := out.String(style.Check).Foreground(green).String()
		line := fmt.Sprintf("  %s %s@%s", mark, e.revision.ID(), e.revision.Revision())
		if e.revision.Revision() != e.request.Revision {
			line += fmt.Sprintf(" (from %s)", e.request.Revision)
		}
		line += " " + out.String("["+e.revision.ResolverName()+"]").Foreground(slate).String()
		b.WriteString(line + "\n")
	}

	if failed := r.failed(); failed > 0 {
		summary := fmt.Sprintf("%d of %d dependencies failed to resolve", failed, len(r.entries))
		b.WriteString(out.String(summary).Foreground(red).String() + "\n")
	}

	_, err := out.WriteString(b.String())
	return err
}

// reportDocument is the JSON shape of a resolution report.
type reportDocument struct {
	Workspace string           `json:"workspace"`
	Resolved  int              `json:"resolved"`
	Failed    int              `json:"failed"`
	Modules   []moduleDocument `json:"modules"`
}

type moduleDocument struct {
	Organization string    `json:"organization"`
	Name         string    `json:"name"`
	Requested    string    `json:"requested"`
	Resolved     bool      `json:"resolved"`
	Revision     string    `json:"revision,omitempty"`
	Resolver     string    `json:"resolver,omitempty"`
	Published    time.Time `json:"published,omitzero"`
	Forced       bool      `json:"forced,omitempty"`
}

// renderJSON writes the machine-readable report.
func (r *report) renderJSON(w io.Writer) error {
	doc := reportDocument{
		Workspace: r.workspace,
		Resolved:  len(r.entries) - r.failed(),
		Failed:    r.failed(),
		Modules:   make([]moduleDocument, 0, len(r.entries)),
	}

	for _, e := range r.entries {
		mod := moduleDocument{
			Organization: e.request.ID.Org.String(),
			Name:         e.request.ID.Name.String(),
			Requested:    e.request.Revision,
		}
		if e.revision != nil {
			mod.Resolved = true
			mod.Revision = e.revision.Revision()
			mod.Resolver = e.revision.ResolverName()
			mod.Published = e.revision.Published()
			mod.Forced = e.revision.Forced()
		}
		doc.Modules = append(doc.Modules, mod)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// lockDocument is the YAML shape of the lock file.
type lockDocument struct {
	Workspace string         `yaml:"workspace"`
	Revisions []lockRevision `yaml:"revisions"`
}

type lockRevision struct {
	Organization string    `yaml:"org"`
	Name         string    `yaml:"name"`
	Requested    string    `yaml:"requested"`
	Revision     string    `yaml:"revision"`
	Resolver     string    `yaml:"resolver"`
	Published    time.Time `yaml:"published,omitempty"`
}

// writeLock records the fully resolved revisions at path. It is only called
// after a clean pass, so every entry carries a revision.
func (a *App) writeLock(path string, rep *report) error {
	doc := lockDocument{
		Workspace: rep.workspace,
		Revisions: make([]lockRevision, 0, len(rep.entries)),
	}

	for _, e := range rep.entries {
		doc.Revisions = append(doc.Revisions, lockRevision{
			Organization: e.revision.ID().Org.String(),
			Name:         e.revision.ID().Name.String(),
			Requested:    e.request.Revision,
			Revision:     e.revision.Revision(),
			Resolver:     e.revision.ResolverName(),
			Published:    e.revision.Published(),
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	a.logger.Info("wrote lock file " + path)
	return nil
}

// renderDependencies writes the merged dependency list with the declaration
// details that survive merging.
func renderDependencies(w io.Writer, mode detector.OutputMode, workspace string, requests []domain.DependencyRequest) error {
	out := reportOutput(w, mode)
	slate := termenv.RGBColor(string(style.Slate))

	var b strings.Builder
	header := fmt.Sprintf("%s: %d dependencies after merging", workspace, len(requests))
	b.WriteString(out.String(header).Bold().String() + "\n")

	for _, req := range requests {
		line := "  " + req.Key()
		if flags := requestFlags(req); flags != "" {
			line += " " + out.String("("+flags+")").Foreground(slate).String()
		}
		b.WriteString(line + "\n")

		for _, src := range req.Configurations.SourceConfigurations() {
			b.WriteString(fmt.Sprintf("    configuration %s: %s\n", src, strings.Join(req.Configurations[src], ", ")))
		}
		for _, art := range req.Artifacts {
			b.WriteString("    artifact " + art.FileName() + "\n")
		}
		for _, rule := range req.Exclusions {
			b.WriteString("    excludes " + rule.String() + "\n")
		}
	}

	_, err := out.WriteString(b.String())
	return err
}

// requestFlags summarizes the non-default request flags.
func requestFlags(req domain.DependencyRequest) string {
	var flags []string
	if !req.Transitive {
		flags = append(flags, "intransitive")
	}
	if req.Force {
		flags = append(flags, "force")
	}
	if req.Changing {
		flags = append(flags, "changing")
	}
	return strings.Join(flags, ", ")
}
