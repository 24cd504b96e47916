package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// Format selects the output encoding of Render.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts the format names and the usual short forms.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", mdwerror.Newf("unknown report format %q", s).
		WithCode(mdwerror.CodeInvalidInput).
		WithDetail("supported", []string{"markdown", "json", "yaml"})
}

// Render writes s to w in the given format.
func Render(w io.Writer, s *Summary, format Format) error {
	var err error
	switch format {
	case FormatMarkdown:
		err = renderMarkdown(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(s); err == nil {
			err = enc.Close()
		}
	default:
		return mdwerror.Newf("unknown report format %q", string(format)).WithCode(mdwerror.CodeInvalidInput)
	}
	if err != nil {
		return mdwerror.Wrap(err, "render report").WithDetail("format", string(format))
	}
	return nil
}

// mdWriter keeps the first write error so the markdown code stays linear.
type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func (m *mdWriter) table(header []string, rows [][]string) {
	if len(rows) == 0 {
		m.printf("_none_\n\n")
		return
	}
	m.printf("| %s |\n", strings.Join(header, " | "))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	m.printf("|%s|\n", strings.Join(sep, "|"))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = cell(c)
		}
		m.printf("| %s |\n", strings.Join(cells, " | "))
	}
	m.printf("\n")
}

func cell(s string) string {
	if s == "" {
		return " "
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderMarkdown(w io.Writer, s *Summary) error {
	m := &mdWriter{w: w}

	title := s.Workspace
	if title == "" {
		title = "workspace"
	}
	m.printf("# %s\n\n", title)
	m.printf("Run `%s`, generated %s.\n\n", s.RunID, s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	m.printf("## Published parameters\n\n")
	var rows [][]string
	for _, p := range s.Parameters {
		value := p.Default
		if p.Resolved != "" {
			value = p.Default + " → " + p.Resolved
		}
		rows = append(rows, []string{p.Name, p.Kind, value, p.Descriptor, yesNo(p.Optional), yesNo(p.Scripted)})
	}
	m.table([]string{"Name", "Kind", "Default", "Prompt", "Optional", "Scripted"}, rows)

	for _, section := range []struct {
		title    string
		datasets []Dataset
	}{
		{"Source datasets", s.Sources},
		{"Destination datasets", s.Destinations},
	} {
		m.printf("## %s\n\n", section.title)
		rows = nil
		for _, d := range section.datasets {
			rows = append(rows, []string{d.Keyword, d.Format, d.Location})
		}
		m.table([]string{"Keyword", "Format", "Location"}, rows)
	}

	m.printf("## Feature types\n\n")
	rows = nil
	for _, ft := range s.FeatureTypes {
		role := "destination"
		if ft.Source {
			role = "source"
		}
		target := ""
		if !ft.Source {
			target = ft.Schema + "." + ft.Table
			if ft.LookupError != "" {
				target = "unresolved: " + ft.LookupError
			}
		}
		dataset := ft.Dataset
		if ft.Unlinked {
			dataset = "(unlinked)"
		}
		rows = append(rows, []string{ft.Name, role, dataset, fmt.Sprintf("%d", len(ft.Columns)), target})
	}
	m.table([]string{"Name", "Role", "Dataset", "Columns", "Target"}, rows)

	for _, ft := range s.FeatureTypes {
		if len(ft.Columns) == 0 {
			continue
		}
		m.printf("### %s\n\n", ft.Name)
		rows = nil
		for _, c := range ft.Columns {
			rows = append(rows, []string{c.Name, c.Type})
		}
		m.table([]string{"Column", "Type"}, rows)
	}

	m.printf("## Transformers\n\n")
	rows = nil
	for _, t := range s.Transformers {
		rows = append(rows, []string{t.Identifier, t.Type, t.Version})
	}
	m.table([]string{"Identifier", "Type", "Version"}, rows)

	m.printf("## Field maps\n\n")
	if s.FieldMapError != "" {
		m.printf("Field maps could not be read: %s\n\n", s.FieldMapError)
	}
	if s.FieldMapConflict {
		m.printf("> **Warning:** field maps come from both renamer transformers and drawn lines; entries may overlap.\n\n")
	}
	rows = nil
	for _, e := range s.FieldMaps {
		rows = append(rows, []string{e.Old, e.New})
	}
	m.table([]string{"Old", "New"}, rows)

	return m.err
}
