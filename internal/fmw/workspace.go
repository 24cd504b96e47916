package fmw

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	"github.com/msto63/fmwkit/foundation/core/log"
)

// Workspace is the object model of one parsed workspace file. It is built
// by Parse and not modified afterwards.
type Workspace struct {
	name     string
	sections *RawSections
	tree     *ElementNode

	datasets     []*Dataset
	featureTypes []*FeatureType
	transformers []*Transformer
	params       []PublishedParameter
	paramIndex   map[string]int

	logger *log.Logger
}

type options struct {
	logger *log.Logger
	name   string
}

// Option configures Parse.
type Option func(*options)

// WithLogger sets the logger used during parsing and by accessors. The
// package default logger is used otherwise.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithName sets the workspace name reported in logs and summaries.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// ParseFile parses the workspace file at path. The file name is used as the
// workspace name unless WithName is given.
func ParseFile(path string, opts ...Option) (*Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "open workspace").
			WithCode(mdwerror.CodeNotFound).
			WithDetail("path", path)
	}
	defer f.Close()

	return Parse(f, append([]Option{WithName(filepath.Base(path))}, opts...)...)
}

// ParseString parses a workspace held in memory.
func ParseString(s string, opts ...Option) (*Workspace, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Parse reads a workspace file and builds its object model. Malformed input
// fails the whole parse with a FormatError.
func Parse(r io.Reader, opts ...Option) (*Workspace, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.GetDefault()
	}
	logger := o.logger.WithField("component", "fmw")
	if o.name != "" {
		logger = logger.WithField("workspace", o.name)
	}

	timer := logger.StartTimer("parse workspace")

	sections, err := SplitReader(r)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	tree, err := ParseTree(strings.NewReader(sections.XMLDocument()))
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.Line > 0 {
			fe.Line = sections.SourceLine(fe.Line)
			var coded *mdwerror.Error
			if errors.As(err, &coded) {
				coded.WithDetail("line", fe.Line)
			}
		}
		timer.StopWithError(err)
		return nil, err
	}

	w := &Workspace{
		name:       o.name,
		sections:   sections,
		tree:       tree,
		paramIndex: make(map[string]int),
		logger:     logger,
	}
	if err := w.load(); err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	timer.WithField("datasets", len(w.datasets)).
		WithField("feature_types", len(w.featureTypes)).
		WithField("transformers", len(w.transformers)).
		Stop()
	return w, nil
}

func (w *Workspace) load() error {
	if w.tree.Tag != TagWorkspace {
		return formatErr("fmw.Parse", w.line(w.tree), "document root is <%s>, expected <%s>", w.tree.Tag, TagWorkspace)
	}

	for _, n := range sectionChildren(w.tree, TagDatasets, TagDataset) {
		if err := DatasetProperties.validate(n, w.line(n)); err != nil {
			return err
		}
		w.datasets = append(w.datasets, &Dataset{entity{node: n, table: DatasetProperties, line: w.line(n)}})
	}

	for _, n := range sectionChildren(w.tree, TagFeatureTypes, TagFeatureType) {
		ft, err := w.loadFeatureType(n)
		if err != nil {
			return err
		}
		w.featureTypes = append(w.featureTypes, ft)
	}

	for _, n := range sectionChildren(w.tree, TagTransformers, TagTransformer) {
		if err := TransformerProperties.validate(n, w.line(n)); err != nil {
			return err
		}
		w.transformers = append(w.transformers, newTransformer(n, w.line(n), w.logger))
	}

	for _, n := range sectionChildren(w.tree, TagGlobalParameters, TagGlobalParameter) {
		if err := w.loadParameter(n); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) loadFeatureType(n *ElementNode) (*FeatureType, error) {
	line := w.line(n)
	if err := FeatureTypeProperties.validate(n, line); err != nil {
		return nil, err
	}
	ft := &FeatureType{entity: entity{node: n, table: FeatureTypeProperties, line: line}}

	for _, c := range n.ChildrenByTag(TagFeatAttribute) {
		if err := ColumnProperties.validate(c, w.line(c)); err != nil {
			return nil, err
		}
		ft.Columns = append(ft.Columns, &Column{entity{node: c, table: ColumnProperties, line: w.line(c)}})
	}

	keyword := ft.Keyword()
	for _, d := range w.datasets {
		if d.Keyword() == keyword {
			ft.Dataset = d
			break
		}
	}
	if ft.Dataset == nil {
		w.logger.Warn("feature type has no matching dataset", log.Fields{
			"feature_type": ft.Name(),
			"keyword":      keyword,
			"line":         line,
		})
	}
	return ft, nil
}

func (w *Workspace) loadParameter(n *ElementNode) error {
	p := PublishedParameter{Default: n.AttrValue(AttrDefaultValue), Line: w.line(n)}
	guiLine, ok := n.Attr(AttrGUILine)
	if !ok {
		return formatErr("fmw.Parse", p.Line, "published parameter without %s", AttrGUILine)
	}
	if err := parseGUILine(&p, guiLine); err != nil {
		return err
	}
	if prev, dup := w.paramIndex[p.Name]; dup {
		return formatErr("fmw.Parse", p.Line, "published parameter %s already declared on line %d", p.Name, w.params[prev].Line)
	}
	w.paramIndex[p.Name] = len(w.params)
	w.params = append(w.params, p)
	return nil
}

// line maps a node's document line to the workspace file line.
func (w *Workspace) line(n *ElementNode) int {
	return w.sections.SourceLine(n.Line)
}

// sectionChildren returns the tag children of every container section
// directly below root.
func sectionChildren(root *ElementNode, container, tag string) []*ElementNode {
	var out []*ElementNode
	for _, c := range root.ChildrenByTag(container) {
		out = append(out, c.ChildrenByTag(tag)...)
	}
	return out
}

// Name returns the workspace name, empty when none was given.
func (w *Workspace) Name() string { return w.name }

// Tree returns the parsed XML document.
func (w *Workspace) Tree() *ElementNode { return w.tree }

// Sections returns the raw sections of the file.
func (w *Workspace) Sections() *RawSections { return w.sections }

// Datasets returns every dataset in document order.
func (w *Workspace) Datasets() []*Dataset {
	return append([]*Dataset(nil), w.datasets...)
}

// SourceDatasets returns the datasets read by the workspace.
func (w *Workspace) SourceDatasets() []*Dataset {
	return filter(w.datasets, (*Dataset).IsSource)
}

// DestinationDatasets returns the datasets written by the workspace.
func (w *Workspace) DestinationDatasets() []*Dataset {
	return filter(w.datasets, func(d *Dataset) bool { return !d.IsSource() })
}

// FeatureTypes returns every feature type in document order.
func (w *Workspace) FeatureTypes() []*FeatureType {
	return append([]*FeatureType(nil), w.featureTypes...)
}

func (w *Workspace) SourceFeatureTypes() []*FeatureType {
	return filter(w.featureTypes, (*FeatureType).IsSource)
}

func (w *Workspace) DestinationFeatureTypes() []*FeatureType {
	return filter(w.featureTypes, func(f *FeatureType) bool { return !f.IsSource() })
}

// Transformers returns the transformers, optionally only enabled ones.
func (w *Workspace) Transformers(enabledOnly bool) []*Transformer {
	if !enabledOnly {
		return append([]*Transformer(nil), w.transformers...)
	}
	return filter(w.transformers, (*Transformer).Enabled)
}

func filter[T any](in []T, keep func(T) bool) []T {
	var out []T
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// DestinationSchema resolves the schema a feature type is written to. The
// layers are tried in order: the name qualifier attribute, the first part
// of a two-part dereferenced NODE_NAME, then the DEST_SCHEMA and
// DEST_SCHEMA_1 published parameters.
func (w *Workspace) DestinationSchema(ft *FeatureType) (string, error) {
	if q := ft.Qualifier(); q != "" {
		return q, nil
	}

	if node := ft.NodeName(); node != "" {
		resolved, err := w.Dereference(node)
		if err != nil {
			w.logger.Debug("node name not resolved", log.Fields{"node_name": node, "error": err.Error()})
		} else if parts := strings.Split(resolved, "."); len(parts) == 2 && parts[0] != "" && !strings.Contains(parts[0], "$(") {
			return parts[0], nil
		}
	}

	for _, name := range destSchemaParams {
		p, ok := w.Parameter(name)
		if !ok || p.Default == "" {
			continue
		}
		v, err := w.Dereference(p.Default)
		if err != nil || v == "" {
			continue
		}
		return v, nil
	}

	return "", lookupErr("fmw.DestinationSchema", ft.Name(), "destination schema not resolved")
}

// DestinationTable returns the last part of the dereferenced NODE_NAME.
func (w *Workspace) DestinationTable(ft *FeatureType) (string, error) {
	name := ft.NodeName()
	if name == "" {
		name = ft.Name()
	}
	resolved, err := w.Dereference(name)
	if err != nil {
		return "", err
	}
	if i := strings.LastIndex(resolved, "."); i >= 0 {
		return resolved[i+1:], nil
	}
	return resolved, nil
}
