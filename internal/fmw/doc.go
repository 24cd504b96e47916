// Package fmw parses FME workspace files.
//
// A workspace file mixes three parts: a command-line usage header made of
// "#" comment lines, an XML document whose lines carry a "#!" marker, and
// a script tail after the document's closing root tag. Split recovers the
// three parts, ParseTree turns the XML into an ElementNode tree and Parse
// builds a Workspace with typed access to datasets, feature types,
// transformers and published parameters.
//
// Parameter references of the form $(NAME) are resolved with
// Workspace.Dereference. Field maps are collected from AttributeRenamer
// transformers and from @RenameAttributes calls in the script tail; when
// both are present the result carries a ConflictWarning.
//
// Example:
//
//	ws, err := fmw.ParseFile("load_counties.fmw")
//	if err != nil {
//	    return err
//	}
//	for _, ft := range ws.DestinationFeatureTypes() {
//	    schema, _ := ws.DestinationSchema(ft)
//	    table, _ := ws.DestinationTable(ft)
//	    fmt.Println(schema + "." + table)
//	}
package fmw
