package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/msto63/fmwkit/internal/fmw"
)

// Summary is a serialisable overview of one workspace.
type Summary struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Workspace   string    `json:"workspace" yaml:"workspace"`

	Parameters   []Parameter   `json:"parameters" yaml:"parameters"`
	Sources      []Dataset     `json:"sources" yaml:"sources"`
	Destinations []Dataset     `json:"destinations" yaml:"destinations"`
	FeatureTypes []FeatureType `json:"feature_types" yaml:"feature_types"`
	Transformers []Transformer `json:"transformers" yaml:"transformers"`

	FieldMaps        []fmw.FieldMapEntry `json:"field_maps" yaml:"field_maps"`
	FieldMapConflict bool                `json:"field_map_conflict" yaml:"field_map_conflict"`
	FieldMapError    string              `json:"field_map_error,omitempty" yaml:"field_map_error,omitempty"`
}

type Parameter struct {
	Name       string `json:"name" yaml:"name"`
	Kind       string `json:"kind" yaml:"kind"`
	Default    string `json:"default" yaml:"default"`
	Resolved   string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Optional   bool   `json:"optional" yaml:"optional"`
	Scripted   bool   `json:"scripted" yaml:"scripted"`
}

type Dataset struct {
	Keyword  string `json:"keyword" yaml:"keyword"`
	Format   string `json:"format" yaml:"format"`
	Location string `json:"location" yaml:"location"`
}

type FeatureType struct {
	Name     string   `json:"name" yaml:"name"`
	Source   bool     `json:"source" yaml:"source"`
	Dataset  string   `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Columns  []Column `json:"columns" yaml:"columns"`
	Schema   string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Table    string   `json:"table,omitempty" yaml:"table,omitempty"`
	Unlinked bool     `json:"unlinked,omitempty" yaml:"unlinked,omitempty"`

	// LookupError holds why schema or table could not be resolved.
	LookupError string `json:"lookup_error,omitempty" yaml:"lookup_error,omitempty"`
}

type Column struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type Transformer struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Type       string `json:"type" yaml:"type"`
	Version    string `json:"version" yaml:"version"`
}

// Build collects the summary of ws. Lookup failures are recorded per
// feature type and never fail the build.
func Build(ws *fmw.Workspace) *Summary {
	s := &Summary{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Workspace:   ws.Name(),
	}

	for _, p := range ws.PublishedParameters() {
		param := Parameter{
			Name:       p.Name,
			Kind:       p.Kind,
			Default:    p.Default,
			Descriptor: p.Descriptor,
			Optional:   p.Optional,
			Scripted:   p.Scripted(),
		}
		if v, err := ws.Dereference(p.Default); err == nil && v != p.Default {
			param.Resolved = v
		}
		s.Parameters = append(s.Parameters, param)
	}

	for _, d := range ws.SourceDatasets() {
		s.Sources = append(s.Sources, datasetOf(d))
	}
	for _, d := range ws.DestinationDatasets() {
		s.Destinations = append(s.Destinations, datasetOf(d))
	}

	for _, ft := range ws.FeatureTypes() {
		s.FeatureTypes = append(s.FeatureTypes, featureTypeOf(ws, ft))
	}

	for _, t := range ws.Transformers(true) {
		s.Transformers = append(s.Transformers, Transformer{
			Identifier: t.Identifier(),
			Type:       t.Type(),
			Version:    t.Version(),
		})
	}

	set, err := ws.FieldMaps()
	if err != nil {
		s.FieldMapError = err.Error()
	} else {
		s.FieldMaps = set.All()
		s.FieldMapConflict = set.Conflict != nil
	}
	return s
}

func datasetOf(d *fmw.Dataset) Dataset {
	return Dataset{Keyword: d.Keyword(), Format: d.Format(), Location: d.Location()}
}

func featureTypeOf(ws *fmw.Workspace, ft *fmw.FeatureType) FeatureType {
	out := FeatureType{
		Name:     ft.Name(),
		Source:   ft.IsSource(),
		Unlinked: ft.Dataset == nil,
	}
	if ft.Dataset != nil {
		out.Dataset = ft.Dataset.Keyword()
	}
	for _, c := range ft.Columns {
		out.Columns = append(out.Columns, Column{Name: c.Name(), Type: c.Type()})
	}
	if ft.IsSource() {
		return out
	}

	schema, err := ws.DestinationSchema(ft)
	if err != nil {
		out.LookupError = err.Error()
	}
	out.Schema = schema
	table, err := ws.DestinationTable(ft)
	if err != nil && out.LookupError == "" {
		out.LookupError = err.Error()
	}
	out.Table = table
	return out
}
