package fmw

import (
	"errors"
	"reflect"
	"testing"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

func TestParseGUILine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    PublishedParameter
		wantErr bool
	}{
		{
			name: "plain text",
			line: "GUI TEXT DEST_SCHEMA Destination Schema:",
			want: PublishedParameter{Kind: "TEXT", Name: "DEST_SCHEMA", Descriptor: "Destination Schema:"},
		},
		{
			name: "flags",
			line: "GUI OPTIONAL IGNORE PASSWORD PW Password:",
			want: PublishedParameter{Kind: "PASSWORD", Name: "PW", Descriptor: "Password:", Optional: true, Ignored: true},
		},
		{
			name: "choice options",
			line: "GUI CHOICE MODE A%B%C Load Mode:",
			want: PublishedParameter{Kind: "CHOICE", Name: "MODE", Descriptor: "Load Mode:", Options: []string{"A", "B", "C"}},
		},
		{
			name: "no descriptor",
			line: "GUI TEXT NAME",
			want: PublishedParameter{Kind: "TEXT", Name: "NAME"},
		},
		{name: "missing GUI", line: "TEXT NAME x", wantErr: true},
		{name: "missing name", line: "GUI OPTIONAL TEXT", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PublishedParameter
			err := parseGUILine(&p, tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGUILine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(p, tt.want) {
				t.Errorf("parseGUILine() = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestPublishedParameters_Fixture(t *testing.T) {
	ws, _ := parseFixture(t, "destschema.fmw")

	params := ws.PublishedParameters()
	if len(params) != 5 {
		t.Fatalf("PublishedParameters() = %d, want 5", len(params))
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	want := []string{"SRC_GDB", "DEST_SCHEMA", "DEST_PASSWORD", "DEST_DB", "LOAD_MODE"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	p, ok := ws.Parameter("DEST_DB")
	if !ok || !p.Scripted() || !p.Ignored {
		t.Errorf("DEST_DB = %+v, want scripted and ignored", p)
	}
	if p, _ := ws.Parameter("DEST_PASSWORD"); !p.Optional {
		t.Error("DEST_PASSWORD should be optional")
	}
	if p, _ := ws.Parameter("LOAD_MODE"); !reflect.DeepEqual(p.Options, []string{"TRUNCATE", "APPEND"}) {
		t.Errorf("LOAD_MODE options = %v", p.Options)
	}
}

func TestDereference(t *testing.T) {
	ws, _ := parseFixture(t, "destschema.fmw")

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "full reference", value: "$(DEST_SCHEMA)", want: "WHSE_LEGAL_ADMIN_BOUNDARIES"},
		{name: "suffix", value: "$(DEST_SCHEMA).ABMS_COUNTIES_SP", want: "WHSE_LEGAL_ADMIN_BOUNDARIES.ABMS_COUNTIES_SP"},
		{name: "prefix", value: "DB.$(DEST_SCHEMA)", want: "DB.WHSE_LEGAL_ADMIN_BOUNDARIES"},
		{name: "literal", value: "PLAIN.VALUE", want: "PLAIN.VALUE"},
		{name: "embedded not recognised", value: "x$(DEST_SCHEMA)y", want: "x$(DEST_SCHEMA)y"},
		{name: "scripted left unchanged", value: "$(DEST_DB)", want: "$(DEST_DB)"},
		{name: "scripted suffix unchanged", value: "$(DEST_DB).T", want: "$(DEST_DB).T"},
		{name: "descriptor fallback", value: "$(Destination Schema:)", want: "WHSE_LEGAL_ADMIN_BOUNDARIES"},
		{name: "empty default", value: "$(DEST_PASSWORD)", want: ""},
		{name: "unknown", value: "$(NOPE)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ws.Dereference(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dereference(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				var le *LookupError
				if !errors.As(err, &le) || le.Name != "NOPE" {
					t.Errorf("error = %v, want LookupError for NOPE", err)
				}
				if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
					t.Errorf("code = %v, want NOT_FOUND", mdwerror.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("Dereference(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDereference_Idempotent(t *testing.T) {
	ws, _ := parseFixture(t, "destschema.fmw")

	for _, v := range []string{"$(DEST_SCHEMA)", "$(SRC_GDB)", "$(DEST_SCHEMA).T", "$(DEST_DB)", "plain"} {
		once, err := ws.Dereference(v)
		if err != nil {
			t.Fatalf("Dereference(%q) error = %v", v, err)
		}
		twice, err := ws.Dereference(once)
		if err != nil {
			t.Fatalf("Dereference(%q) error = %v", once, err)
		}
		if once != twice {
			t.Errorf("Dereference not idempotent for %q: %q then %q", v, once, twice)
		}
	}
}

func TestScripted_CaseSensitive(t *testing.T) {
	tests := []struct {
		descriptor string
		want       bool
	}{
		{"Python Script:", true},
		{"python script:", false},
		{"PYTHON SCRIPT:", false},
		{"Python Script", false},
	}
	for _, tt := range tests {
		p := PublishedParameter{Descriptor: tt.descriptor}
		if got := p.Scripted(); got != tt.want {
			t.Errorf("Scripted(%q) = %v, want %v", tt.descriptor, got, tt.want)
		}
	}
}
