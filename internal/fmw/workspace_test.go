package fmw

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	"github.com/msto63/fmwkit/foundation/core/log"
)

func testLogger() (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText, Output: buf, Name: "test"}), buf
}

func parseFixture(t *testing.T, name string) (*Workspace, *bytes.Buffer) {
	t.Helper()
	logger, buf := testLogger()
	ws, err := ParseFile("testdata/"+name, WithLogger(logger))
	if err != nil {
		t.Fatalf("ParseFile(%s) error = %v", name, err)
	}
	return ws, buf
}

func TestParseFile_DestSchema(t *testing.T) {
	ws, _ := parseFixture(t, "destschema.fmw")

	if ws.Name() != "destschema.fmw" {
		t.Errorf("Name() = %q", ws.Name())
	}
	if got := len(ws.Datasets()); got != 2 {
		t.Errorf("Datasets() = %d, want 2", got)
	}
	if src := ws.SourceDatasets(); len(src) != 1 || src[0].Format() != "FILEGDB" {
		t.Errorf("SourceDatasets() = %v", src)
	}
	if dst := ws.DestinationDatasets(); len(dst) != 1 || dst[0].Keyword() != "ORACLE8I_1" {
		t.Errorf("DestinationDatasets() = %v", dst)
	}

	fts := ws.FeatureTypes()
	if len(fts) != 2 {
		t.Fatalf("FeatureTypes() = %d, want 2", len(fts))
	}
	if fts[0].Dataset == nil || fts[0].Dataset.Keyword() != "FILEGDB_1" {
		t.Errorf("source feature type dataset = %v", fts[0].Dataset)
	}
	if len(fts[0].Columns) != 3 || fts[0].Columns[1].Name() != "COUNTY_NAME" {
		t.Errorf("source columns = %v", fts[0].Columns)
	}

	dest := ws.DestinationFeatureTypes()
	if len(dest) != 1 {
		t.Fatalf("DestinationFeatureTypes() = %d, want 1", len(dest))
	}
	resolved, err := ws.Dereference(dest[0].NodeName())
	if err != nil {
		t.Fatalf("Dereference() error = %v", err)
	}
	if want := "WHSE_LEGAL_ADMIN_BOUNDARIES.ABMS_COUNTIES_SP"; resolved != want {
		t.Errorf("Dereference(NODE_NAME) = %q, want %q", resolved, want)
	}

	schema, err := ws.DestinationSchema(dest[0])
	if err != nil || schema != "WHSE_LEGAL_ADMIN_BOUNDARIES" {
		t.Errorf("DestinationSchema() = %q, %v", schema, err)
	}
	table, err := ws.DestinationTable(dest[0])
	if err != nil || table != "ABMS_COUNTIES_SP" {
		t.Errorf("DestinationTable() = %q, %v", table, err)
	}

	if got := len(ws.Transformers(false)); got != 2 {
		t.Errorf("Transformers(false) = %d, want 2", got)
	}
	enabled := ws.Transformers(true)
	if len(enabled) != 1 || enabled[0].Type() != "Tester" {
		t.Errorf("Transformers(true) = %v", enabled)
	}
	if v, ok := enabled[0].Param("TEST_CLAUSE"); !ok || v != "COUNTY_ID > 0" {
		t.Errorf("Param(TEST_CLAUSE) = %q, %v", v, ok)
	}
	if enabled[0].Line() != 52 {
		t.Errorf("transformer Line() = %d, want 52", enabled[0].Line())
	}
}

func TestFeatureTypes_CountAndColumns(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("%d feature types", n), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("#! <WORKSPACE>\n#! <FEATURE_TYPES>\n")
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "#! <FEATURE_TYPE IS_SOURCE=\"false\" NODE_NAME=\"ft%d\" KEYWORD=\"K\" EXTRA=\"x%d\">\n", i, i)
				for c := 0; c <= i; c++ {
					fmt.Fprintf(&b, "#!   <FEAT_ATTRIBUTE ATTR_NAME=\"c%d\"/>\n", c)
				}
				b.WriteString("#! </FEATURE_TYPE>\n")
			}
			b.WriteString("#! </FEATURE_TYPES>\n#! </WORKSPACE>\n")

			logger, _ := testLogger()
			ws, err := ParseString(b.String(), WithLogger(logger))
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			fts := ws.FeatureTypes()
			if len(fts) != n {
				t.Fatalf("FeatureTypes() = %d, want %d", len(fts), n)
			}
			for i, ft := range fts {
				rec := ft.Record()
				if rec["EXTRA"] != fmt.Sprintf("x%d", i) || rec[AttrNodeName] != fmt.Sprintf("ft%d", i) {
					t.Errorf("record %d attributes = %v", i, rec)
				}
				cols, ok := rec[FlatColumns].([]map[string]string)
				if !ok || len(cols) != i+1 {
					t.Errorf("record %d COLUMNS = %v, want %d", i, rec[FlatColumns], i+1)
				}
				if ft.Dataset != nil {
					t.Errorf("feature type %d should have no dataset", i)
				}
			}
		})
	}
}

func TestFeatureType_UnmatchedDatasetLogged(t *testing.T) {
	ws, buf := parseFixture(t, "fieldmap.fmw")

	dest := ws.DestinationFeatureTypes()
	if len(dest) != 1 {
		t.Fatalf("DestinationFeatureTypes() = %d, want 1", len(dest))
	}
	if dest[0].Dataset != nil {
		t.Errorf("unmatched feature type got dataset %v", dest[0].Dataset)
	}
	if !strings.Contains(buf.String(), "feature type has no matching dataset") {
		t.Errorf("missing linkage warning in log:\n%s", buf.String())
	}

	schema, err := ws.DestinationSchema(dest[0])
	if err != nil || schema != "transport" {
		t.Errorf("DestinationSchema() = %q, %v", schema, err)
	}
}

func TestEntity_PropertyCaseInsensitive(t *testing.T) {
	ws, _ := parseFixture(t, "destschema.fmw")
	ds := ws.Datasets()[0]

	for _, name := range []string{"FORMAT", "format", "Format"} {
		if v, ok := ds.Property(name); !ok || v != "FILEGDB" {
			t.Errorf("Property(%q) = %q, %v", name, v, ok)
		}
	}
	if v, ok := ds.Property("role"); !ok || v != "READER" {
		t.Errorf("Property(role) = %q, %v", v, ok)
	}
	if c, ok := DatasetProperties.Canonical("is_source"); !ok || c != AttrIsSource {
		t.Errorf("Canonical(is_source) = %q, %v", c, ok)
	}
}

func TestDestinationSchema_Layers(t *testing.T) {
	const params = `#! <GLOBAL_PARAMETERS>
#! <GLOBAL_PARAMETER GUI_LINE="GUI TEXT DEST_SCHEMA_1 Schema:" DEFAULT_VALUE="NUMBERED"/>
%s#! </GLOBAL_PARAMETERS>
`
	tests := []struct {
		name    string
		ft      string
		extra   string
		want    string
		wantErr bool
	}{
		{
			name: "qualifier wins",
			ft:   `NODE_NAME="A.B" FEATURE_TYPE_NAME_QUALIFIER="QUAL"`,
			want: "QUAL",
		},
		{
			name: "two part node name",
			ft:   `NODE_NAME="SCHEMA.TABLE"`,
			want: "SCHEMA",
		},
		{
			name:  "three parts fall through to parameter",
			ft:    `NODE_NAME="DB.SCHEMA.TABLE"`,
			extra: `#! <GLOBAL_PARAMETER GUI_LINE="GUI TEXT DEST_SCHEMA Schema:" DEFAULT_VALUE="PARAM"/>` + "\n",
			want:  "PARAM",
		},
		{
			name: "numbered parameter last",
			ft:   `NODE_NAME="TABLE"`,
			want: "NUMBERED",
		},
		{
			name:  "unresolved reference falls through",
			ft:    `NODE_NAME="$(MISSING).TABLE"`,
			extra: `#! <GLOBAL_PARAMETER GUI_LINE="GUI TEXT DEST_SCHEMA Schema:" DEFAULT_VALUE="PARAM"/>` + "\n",
			want:  "PARAM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "#! <WORKSPACE>\n#! <FEATURE_TYPES>\n" +
				`#! <FEATURE_TYPE IS_SOURCE="false" ` + tt.ft + "/>\n" +
				"#! </FEATURE_TYPES>\n" +
				fmt.Sprintf(params, tt.extra) +
				"#! </WORKSPACE>\n"
			logger, _ := testLogger()
			ws, err := ParseString(src, WithLogger(logger))
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			got, err := ws.DestinationSchema(ws.FeatureTypes()[0])
			if (err != nil) != tt.wantErr {
				t.Fatalf("DestinationSchema() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DestinationSchema() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDestinationSchema_NotResolved(t *testing.T) {
	src := "#! <WORKSPACE>\n#! <FEATURE_TYPES>\n" +
		`#! <FEATURE_TYPE IS_SOURCE="false" NODE_NAME="TABLE"/>` + "\n" +
		"#! </FEATURE_TYPES>\n#! </WORKSPACE>\n"
	logger, _ := testLogger()
	ws, err := ParseString(src, WithLogger(logger))
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	_, err = ws.DestinationSchema(ws.FeatureTypes()[0])
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("DestinationSchema() error = %v, want LookupError", err)
	}
	if le.Name != "TABLE" {
		t.Errorf("LookupError.Name = %q", le.Name)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{
			name:     "malformed xml maps to file line",
			src:      "# usage\n\n#! <WORKSPACE>\n#! <DATASETS>\n#! </WORKSPACE>\n",
			wantLine: 5,
		},
		{
			name:     "wrong root",
			src:      "#! <OTHER>\n#! </OTHER>\n",
			wantLine: 1,
		},
		{
			name:     "missing required dataset attribute",
			src:      "#! <WORKSPACE>\n#! <DATASETS>\n#! <DATASET KEYWORD=\"A\" IS_SOURCE=\"true\"/>\n#! </DATASETS>\n#! </WORKSPACE>\n",
			wantLine: 3,
		},
		{
			name:     "missing column name",
			src:      "#! <WORKSPACE>\n#! <FEATURE_TYPES>\n#! <FEATURE_TYPE IS_SOURCE=\"true\" NODE_NAME=\"a\">\n#! <FEAT_ATTRIBUTE ATTR_TYPE=\"x\"/>\n#! </FEATURE_TYPE>\n#! </FEATURE_TYPES>\n#! </WORKSPACE>\n",
			wantLine: 4,
		},
		{
			name:     "duplicate parameter",
			src:      "#! <WORKSPACE>\n#! <GLOBAL_PARAMETERS>\n#! <GLOBAL_PARAMETER GUI_LINE=\"GUI TEXT A a:\"/>\n#! <GLOBAL_PARAMETER GUI_LINE=\"GUI TEXT A again:\"/>\n#! </GLOBAL_PARAMETERS>\n#! </WORKSPACE>\n",
			wantLine: 4,
		},
		{
			name:     "bad gui line",
			src:      "#! <WORKSPACE>\n#! <GLOBAL_PARAMETERS>\n#! <GLOBAL_PARAMETER GUI_LINE=\"TEXT A\"/>\n#! </GLOBAL_PARAMETERS>\n#! </WORKSPACE>\n",
			wantLine: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testLogger()
			_, err := ParseString(tt.src, WithLogger(logger))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("ParseString() error = %v, want FormatError", err)
			}
			if fe.Line != tt.wantLine {
				t.Errorf("FormatError.Line = %d, want %d (%v)", fe.Line, tt.wantLine, err)
			}
			if mdwerror.GetCode(err) != mdwerror.CodeInvalidFormat {
				t.Errorf("code = %v", mdwerror.GetCode(err))
			}
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.fmw")
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("ParseFile() error = %v, want NOT_FOUND", err)
	}
}

func TestParse_LogsTimer(t *testing.T) {
	_, buf := parseFixture(t, "destschema.fmw")
	out := buf.String()
	if !strings.Contains(out, "parse workspace") || !strings.Contains(out, "workspace=destschema.fmw") {
		t.Errorf("expected parse timer entry in log:\n%s", out)
	}
}
