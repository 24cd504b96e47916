package fmw

import "regexp"

// Line markers of the workspace file.
const (
	xmlMarker   = "#!"
	usageMarker = "#"

	// A single space after a marker belongs to the marker.
	markerPad = " "
)

// Element tags of the workspace XML document.
const (
	TagWorkspace        = "WORKSPACE"
	TagDatasets         = "DATASETS"
	TagDataset          = "DATASET"
	TagFeatureTypes     = "FEATURE_TYPES"
	TagFeatureType      = "FEATURE_TYPE"
	TagFeatAttribute    = "FEAT_ATTRIBUTE"
	TagTransformers     = "TRANSFORMERS"
	TagTransformer      = "TRANSFORMER"
	TagXformParm        = "XFORM_PARM"
	TagGlobalParameters = "GLOBAL_PARAMETERS"
	TagGlobalParameter  = "GLOBAL_PARAMETER"
)

// Attribute names used by accessors.
const (
	AttrKeyword       = "KEYWORD"
	AttrFormat        = "FORMAT"
	AttrDataset       = "DATASET"
	AttrIsSource      = "IS_SOURCE"
	AttrNodeName      = "NODE_NAME"
	AttrNameQualifier = "FEATURE_TYPE_NAME_QUALIFIER"
	AttrFeatureName   = "FEATURE_TYPE_NAME"
	AttrAttrName      = "ATTR_NAME"
	AttrAttrType      = "ATTR_TYPE"
	AttrType          = "TYPE"
	AttrIdentifier    = "IDENTIFIER"
	AttrVersion       = "VERSION"
	AttrEnabled       = "ENABLED"
	AttrParmName      = "PARM_NAME"
	AttrParmValue     = "PARM_VALUE"
	AttrGUILine       = "GUI_LINE"
	AttrDefaultValue  = "DEFAULT_VALUE"
)

// Keys added by Flatten next to the element attributes.
const (
	FlatElementName = "ELEMENT_NAME"
	FlatChildren    = "CHILDREN"
	FlatText        = "TEXT"
	FlatColumns     = "COLUMNS"
)

// ScriptedDescriptor marks a published parameter whose value is produced
// by a script. Compared case-sensitively.
const ScriptedDescriptor = "Python Script:"

// Destination schema fallbacks, tried in order after the feature type's
// own attributes.
var destSchemaParams = []string{"DEST_SCHEMA", "DEST_SCHEMA_1"}

// AttributeRenamer settings.
const (
	renamerType        = "AttributeRenamer"
	renamerPairVersion = "1"
)

// Parameters that may carry the renamer list, first match wins.
var renamerListParams = []string{"ATTR_LIST", "SELECTED_ATTR_LIST"}

// Drawn-line field maps in the script tail.
const (
	drawnLineToken = "@RenameAttributes("
	drawnLineOpen  = "@RenameAttributes(FME_STRICT,"
	drawnLineClose = ")"
	listSeparator  = ","
	lineContinue   = `\`
)

// GUI_LINE flags that may precede the parameter kind.
var guiFlags = map[string]bool{
	"OPTIONAL": true,
	"IGNORE":   true,
}

var (
	xmlDeclPattern  = regexp.MustCompile(`^#!\s*<\?xml\s.*\?>\s*$`)
	startTagPattern = regexp.MustCompile(`^\s*<([A-Za-z_][\w.\-]*)`)
	closeTagPattern = regexp.MustCompile(`^\s*</([A-Za-z_][\w.\-]*)\s*>\s*$`)

	// $(NAME), $(NAME).suffix and prefix.$(NAME)
	fullRefPattern   = regexp.MustCompile(`^\$\(([^()]+)\)$`)
	suffixRefPattern = regexp.MustCompile(`^\$\(([^()]+)\)(\..*)$`)
	prefixRefPattern = regexp.MustCompile(`^(.*\.)\$\(([^()]+)\)$`)

	// usage argument lines: --NAME value
	usageArgPattern = regexp.MustCompile(`(?s)^--(\S+)\s*(.*)$`)
)
