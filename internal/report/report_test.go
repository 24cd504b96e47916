package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/internal/fmw"
)

func loadSummary(t *testing.T, name string) *Summary {
	t.Helper()
	ws, err := fmw.ParseFile("../fmw/testdata/"+name, fmw.WithLogger(log.Discard()))
	if err != nil {
		t.Fatalf("ParseFile(%s) error = %v", name, err)
	}
	return Build(ws)
}

func TestBuild_DestSchema(t *testing.T) {
	s := loadSummary(t, "destschema.fmw")

	if s.RunID == "" || s.Workspace != "destschema.fmw" {
		t.Errorf("RunID = %q, Workspace = %q", s.RunID, s.Workspace)
	}
	if len(s.Parameters) != 5 || len(s.Sources) != 1 || len(s.Destinations) != 1 {
		t.Errorf("counts: params %d sources %d destinations %d", len(s.Parameters), len(s.Sources), len(s.Destinations))
	}
	if len(s.Transformers) != 1 {
		t.Errorf("Transformers = %d, want only the enabled one", len(s.Transformers))
	}

	var dest *FeatureType
	for i := range s.FeatureTypes {
		if !s.FeatureTypes[i].Source {
			dest = &s.FeatureTypes[i]
		}
	}
	if dest == nil {
		t.Fatal("no destination feature type")
	}
	if dest.Schema != "WHSE_LEGAL_ADMIN_BOUNDARIES" || dest.Table != "ABMS_COUNTIES_SP" || dest.LookupError != "" {
		t.Errorf("destination = %+v", dest)
	}
	if dest.Dataset != "ORACLE8I_1" || len(dest.Columns) != 2 {
		t.Errorf("destination dataset/columns = %q, %d", dest.Dataset, len(dest.Columns))
	}

	for _, p := range s.Parameters {
		if p.Name == "DEST_DB" && (!p.Scripted || p.Resolved != "") {
			t.Errorf("DEST_DB = %+v, scripted default must stay unresolved", p)
		}
	}
	if s.FieldMapConflict || len(s.FieldMaps) != 0 {
		t.Errorf("unexpected field maps: %v", s.FieldMaps)
	}
}

func TestBuild_FieldMapConflict(t *testing.T) {
	s := loadSummary(t, "fieldmap.fmw")
	if !s.FieldMapConflict || len(s.FieldMaps) != 5 {
		t.Errorf("conflict = %v, field maps = %d", s.FieldMapConflict, len(s.FieldMaps))
	}
	for _, ft := range s.FeatureTypes {
		if !ft.Source && !ft.Unlinked {
			t.Errorf("destination %s should be unlinked", ft.Name)
		}
	}
}

func TestRender_Markdown(t *testing.T) {
	s := loadSummary(t, "fieldmap.fmw")

	var buf bytes.Buffer
	if err := Render(&buf, s, FormatMarkdown); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# fieldmap.fmw",
		"## Published parameters",
		"| DEST_SCHEMA | TEXT | WHSE_BASEMAPPING |",
		"## Feature types",
		"| transport.road_segment | destination | (unlinked) | 0 | transport.road_segment |",
		"### roads",
		"**Warning:**",
		"| RD_NAME | ROAD_NAME |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestRender_JSONAndYAML(t *testing.T) {
	s := loadSummary(t, "destschema.fmw")

	var buf bytes.Buffer
	if err := Render(&buf, s, FormatJSON); err != nil {
		t.Fatalf("Render(json) error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["workspace"] != "destschema.fmw" {
		t.Errorf("workspace = %v", decoded["workspace"])
	}

	buf.Reset()
	if err := Render(&buf, s, FormatYAML); err != nil {
		t.Fatalf("Render(yaml) error = %v", err)
	}
	var y map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &y); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	fts, ok := y["feature_types"].([]any)
	if !ok || len(fts) != 2 {
		t.Errorf("feature_types = %v", y["feature_types"])
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
