// Package report defines the record types emitted by a scan and their three
// renderings: a structured map (lossless, for JSON output), a markdown block,
// and a plain-text block. Records are immutable value objects; all renderings
// are pure functions of the record's fields and preserve source declaration
// order.
package report

import (
	"fmt"
	"strings"
)

// DynamicType is the sentinel type spelling for fields declared without a
// type annotation (Dart's implicit dynamic).
const DynamicType = "dynamic"

// FieldInfo describes one instance field: its name and the literal spelling
// of its declared type (or DynamicType).
type FieldInfo struct {
	Name string
	Type string
}

// ImportInfo describes one import directive as written: the URI literal, the
// optional `as` prefix, and whether the import is deferred.
type ImportInfo struct {
	URI        string
	Prefix     string
	IsDeferred bool
}

// Record is one unit of renderable analysis output: either an imports
// summary or a class-fields summary for one file. The two variants are a
// closed set; the unexported method keeps it that way.
type Record interface {
	// FilePath returns the originating file path, "" for in-memory scans.
	FilePath() string

	// Map returns the structured form with a fixed key set per variant.
	// Suitable for JSON encoding; see ClassFieldsFromMap / FileImportsFromMap
	// for the reverse direction.
	Map() map[string]any

	// Markdown renders the record as a markdown block. withPath controls
	// whether the file line is included, so a caller printing several records
	// for one file can show the path once.
	Markdown(withPath bool) string

	// Text renders the record as a plain-text block, same withPath rule.
	Text(withPath bool) string

	record()
}

// ClassFields reports the instance fields one class declares, in source
// declaration order, after filtering.
type ClassFields struct {
	ClassName string
	Fields    []FieldInfo
	Path      string
}

// FileImports reports the imports of one file, in source declaration order.
type FileImports struct {
	Imports []ImportInfo
	Path    string
}

func (ClassFields) record() {}
func (FileImports) record() {}

// FilePath implements Record.
func (r ClassFields) FilePath() string { return r.Path }

// FilePath implements Record.
func (r FileImports) FilePath() string { return r.Path }

// Map returns {"className", "filePath", "fields"} with each field as a
// {"name", "type"} map.
func (r ClassFields) Map() map[string]any {
	fields := make([]any, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = map[string]any{"name": f.Name, "type": f.Type}
	}
	return map[string]any{
		"className": r.ClassName,
		"filePath":  r.Path,
		"fields":    fields,
	}
}

// Map returns {"filePath", "imports"} with each import as a
// {"uri", "prefix", "isDeferred"} map.
func (r FileImports) Map() map[string]any {
	imports := make([]any, len(r.Imports))
	for i, imp := range r.Imports {
		imports[i] = map[string]any{
			"uri":        imp.URI,
			"prefix":     imp.Prefix,
			"isDeferred": imp.IsDeferred,
		}
	}
	return map[string]any{
		"filePath": r.Path,
		"imports":  imports,
	}
}

// Markdown renders a heading with the class name, an optional file line, and
// one bullet per field:
//
//	## User
//	File: `lib/user.dart`
//	- int id
//	- String name
func (r ClassFields) Markdown(withPath bool) string {
	var sb strings.Builder
	sb.WriteString("## " + r.ClassName + "\n")
	if withPath && r.Path != "" {
		sb.WriteString("File: `" + r.Path + "`\n")
	}
	for _, f := range r.Fields {
		sb.WriteString("- " + f.Type + " " + f.Name + "\n")
	}
	return sb.String()
}

// Markdown renders an Imports heading, an optional file line, and one bullet
// per import with the URI in inline code:
//
//	## Imports
//	File: `lib/user.dart`
//	- `dart:io`
//	- `dart:async` as async (deferred)
func (r FileImports) Markdown(withPath bool) string {
	var sb strings.Builder
	sb.WriteString("## Imports\n")
	if withPath && r.Path != "" {
		sb.WriteString("File: `" + r.Path + "`\n")
	}
	for _, imp := range r.Imports {
		sb.WriteString("- `" + imp.URI + "`" + imp.suffix() + "\n")
	}
	return sb.String()
}

// Text renders the class name (with the path in parentheses when requested)
// and one indented line per field.
func (r ClassFields) Text(withPath bool) string {
	var sb strings.Builder
	if withPath && r.Path != "" {
		sb.WriteString(r.ClassName + " (" + r.Path + ")\n")
	} else {
		sb.WriteString(r.ClassName + "\n")
	}
	for _, f := range r.Fields {
		sb.WriteString("  " + f.Type + " " + f.Name + "\n")
	}
	return sb.String()
}

// Text renders an Imports header and one indented line per import, using the
// same prefix/deferred suffix rule as Markdown.
func (r FileImports) Text(withPath bool) string {
	var sb strings.Builder
	if withPath && r.Path != "" {
		sb.WriteString("Imports (" + r.Path + ")\n")
	} else {
		sb.WriteString("Imports\n")
	}
	for _, imp := range r.Imports {
		sb.WriteString("  " + imp.URI + imp.suffix() + "\n")
	}
	return sb.String()
}

// suffix renders the optional `as <prefix>` and `(deferred)` markers shared
// by both renderings.
func (i ImportInfo) suffix() string {
	s := ""
	if i.Prefix != "" {
		s += " as " + i.Prefix
	}
	if i.IsDeferred {
		s += " (deferred)"
	}
	return s
}

// ClassFieldsFromMap reconstructs a ClassFields record from its Map form.
// It accepts both the in-memory shape produced by Map and the shape produced
// by a JSON decode round-trip.
func ClassFieldsFromMap(m map[string]any) (ClassFields, error) {
	name, err := stringKey(m, "className")
	if err != nil {
		return ClassFields{}, err
	}
	path, err := stringKey(m, "filePath")
	if err != nil {
		return ClassFields{}, err
	}
	raw, ok := m["fields"].([]any)
	if !ok {
		return ClassFields{}, fmt.Errorf("report: fields is not a list")
	}
	fields := make([]FieldInfo, 0, len(raw))
	for _, entry := range raw {
		fm, ok := entry.(map[string]any)
		if !ok {
			return ClassFields{}, fmt.Errorf("report: field entry is not a map")
		}
		fname, err := stringKey(fm, "name")
		if err != nil {
			return ClassFields{}, err
		}
		ftype, err := stringKey(fm, "type")
		if err != nil {
			return ClassFields{}, err
		}
		fields = append(fields, FieldInfo{Name: fname, Type: ftype})
	}
	return ClassFields{ClassName: name, Fields: fields, Path: path}, nil
}

// FileImportsFromMap reconstructs a FileImports record from its Map form.
func FileImportsFromMap(m map[string]any) (FileImports, error) {
	path, err := stringKey(m, "filePath")
	if err != nil {
		return FileImports{}, err
	}
	raw, ok := m["imports"].([]any)
	if !ok {
		return FileImports{}, fmt.Errorf("report: imports is not a list")
	}
	imports := make([]ImportInfo, 0, len(raw))
	for _, entry := range raw {
		im, ok := entry.(map[string]any)
		if !ok {
			return FileImports{}, fmt.Errorf("report: import entry is not a map")
		}
		uri, err := stringKey(im, "uri")
		if err != nil {
			return FileImports{}, err
		}
		prefix, err := stringKey(im, "prefix")
		if err != nil {
			return FileImports{}, err
		}
		deferred, ok := im["isDeferred"].(bool)
		if !ok {
			return FileImports{}, fmt.Errorf("report: isDeferred is not a bool")
		}
		imports = append(imports, ImportInfo{URI: uri, Prefix: prefix, IsDeferred: deferred})
	}
	return FileImports{Imports: imports, Path: path}, nil
}

func stringKey(m map[string]any, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("report: %s is not a string", key)
	}
	return v, nil
}
