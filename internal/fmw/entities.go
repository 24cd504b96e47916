package fmw

import (
	"strings"

	"github.com/msto63/fmwkit/foundation/core/log"
)

// Property describes one known attribute of an entity.
type Property struct {
	Name     string
	Required bool
}

// PropertyTable lists the attributes an entity kind is known to carry.
// Lookups through the table ignore case; required properties are checked
// when a workspace is loaded.
type PropertyTable struct {
	kind  string
	props []Property
	index map[string]string
}

func newPropertyTable(kind string, props ...Property) *PropertyTable {
	t := &PropertyTable{kind: kind, props: props, index: make(map[string]string, len(props))}
	for _, p := range props {
		t.index[strings.ToUpper(p.Name)] = p.Name
	}
	return t
}

// Kind returns the entity kind the table describes.
func (t *PropertyTable) Kind() string { return t.kind }

// Properties returns the known properties in declaration order.
func (t *PropertyTable) Properties() []Property {
	return append([]Property(nil), t.props...)
}

// Canonical maps a property name in any case to its declared spelling.
func (t *PropertyTable) Canonical(name string) (string, bool) {
	c, ok := t.index[strings.ToUpper(name)]
	return c, ok
}

// validate reports the first required property missing from n.
func (t *PropertyTable) validate(n *ElementNode, line int) error {
	for _, p := range t.props {
		if !p.Required {
			continue
		}
		if _, ok := n.Attr(p.Name); !ok {
			return formatErr("fmw.validate", line, "%s <%s> is missing required attribute %s", t.kind, n.Tag, p.Name)
		}
	}
	return nil
}

var (
	DatasetProperties = newPropertyTable("dataset",
		Property{Name: AttrKeyword, Required: true},
		Property{Name: AttrFormat, Required: true},
		Property{Name: AttrDataset},
		Property{Name: AttrIsSource, Required: true},
	)

	FeatureTypeProperties = newPropertyTable("feature type",
		Property{Name: AttrIsSource, Required: true},
		Property{Name: AttrNodeName, Required: true},
		Property{Name: AttrKeyword},
		Property{Name: AttrFeatureName},
		Property{Name: AttrNameQualifier},
	)

	TransformerProperties = newPropertyTable("transformer",
		Property{Name: AttrType, Required: true},
		Property{Name: AttrIdentifier},
		Property{Name: AttrVersion},
		Property{Name: AttrEnabled},
	)

	ColumnProperties = newPropertyTable("column",
		Property{Name: AttrAttrName, Required: true},
		Property{Name: AttrAttrType},
	)
)

// entity is the common base of the typed workspace records.
type entity struct {
	node  *ElementNode
	table *PropertyTable
	line  int
}

// Node returns the element the entity was built from.
func (e *entity) Node() *ElementNode { return e.node }

// Line returns the line of the workspace file where the entity starts.
func (e *entity) Line() int { return e.line }

// Attrs returns a copy of the entity's attributes.
func (e *entity) Attrs() map[string]string { return e.node.AttrMap() }

// Property looks up an attribute ignoring case. Known names resolve through
// the property table; other names are matched against the attributes
// directly.
func (e *entity) Property(name string) (string, bool) {
	if c, ok := e.table.Canonical(name); ok {
		return e.node.Attr(c)
	}
	for _, a := range e.node.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (e *entity) prop(name string) string {
	v, _ := e.Property(name)
	return v
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// Dataset is a reader or writer connection of the workspace.
type Dataset struct {
	entity
}

func (d *Dataset) Keyword() string { return d.prop(AttrKeyword) }
func (d *Dataset) Format() string  { return d.prop(AttrFormat) }

// Location returns the DATASET attribute, usually a path or a connection
// reference.
func (d *Dataset) Location() string { return d.prop(AttrDataset) }

func (d *Dataset) IsSource() bool { return isTrue(d.prop(AttrIsSource)) }

// Column is one FEAT_ATTRIBUTE of a feature type.
type Column struct {
	entity
}

func (c *Column) Name() string { return c.prop(AttrAttrName) }
func (c *Column) Type() string { return c.prop(AttrAttrType) }

// FeatureType is a table or layer read or written by the workspace.
type FeatureType struct {
	entity
	Columns []*Column

	// Dataset is the first dataset with the same KEYWORD, nil when none
	// matched.
	Dataset *Dataset
}

// Name returns FEATURE_TYPE_NAME, falling back to NODE_NAME.
func (f *FeatureType) Name() string {
	if v := f.prop(AttrFeatureName); v != "" {
		return v
	}
	return f.prop(AttrNodeName)
}

func (f *FeatureType) NodeName() string  { return f.prop(AttrNodeName) }
func (f *FeatureType) Keyword() string   { return f.prop(AttrKeyword) }
func (f *FeatureType) Qualifier() string { return f.prop(AttrNameQualifier) }
func (f *FeatureType) IsSource() bool    { return isTrue(f.prop(AttrIsSource)) }

// Record returns the feature type's attributes verbatim plus ELEMENT_NAME
// and a COLUMNS list holding one attribute map per column.
func (f *FeatureType) Record() map[string]any {
	rec := make(map[string]any, len(f.node.Attrs)+2)
	for _, a := range f.node.Attrs {
		rec[a.Name] = a.Value
	}
	rec[FlatElementName] = f.node.Tag
	cols := make([]map[string]string, len(f.Columns))
	for i, c := range f.Columns {
		cols[i] = c.Attrs()
	}
	rec[FlatColumns] = cols
	return rec
}

// Transformer is one processing step of the workspace graph.
type Transformer struct {
	entity

	// Params holds every XFORM_PARM below the transformer in document
	// order, nested ones included.
	Params []*ElementNode

	logger *log.Logger
}

func (t *Transformer) Type() string       { return t.prop(AttrType) }
func (t *Transformer) Identifier() string { return t.prop(AttrIdentifier) }
func (t *Transformer) Version() string    { return t.prop(AttrVersion) }

// Enabled reports whether the transformer takes part in a run. A missing
// ENABLED attribute counts as enabled.
func (t *Transformer) Enabled() bool {
	v, ok := t.Property(AttrEnabled)
	return !ok || isTrue(v)
}

// Param returns the PARM_VALUE of the first parameter named name.
func (t *Transformer) Param(name string) (string, bool) {
	for _, p := range t.Params {
		if p.AttrValue(AttrParmName) == name {
			return p.Attr(AttrParmValue)
		}
	}
	return "", false
}

func newTransformer(n *ElementNode, line int, logger *log.Logger) *Transformer {
	t := &Transformer{entity: entity{node: n, table: TransformerProperties, line: line}}
	for _, c := range n.Children {
		t.Params = append(t.Params, FindAll(c, TagXformParm)...)
	}
	t.logger = logger.WithFields(log.Fields{
		"transformer": t.Identifier(),
		"type":        t.Type(),
	})
	return t
}
