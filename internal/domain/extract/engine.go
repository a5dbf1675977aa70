// Package extract walks one parsed file's declarations and turns them into
// report records, applying the filter policy along the way. Extraction is
// lazy: records are produced one at a time through a pull-driven iterator,
// and a caller that stops ranging stops the walk.
package extract

import (
	"iter"

	"github.com/corey/dartscan/internal/domain/policy"
	"github.com/corey/dartscan/internal/domain/report"
	"github.com/corey/dartscan/internal/ports"
)

// Extract yields the report records for one parsed file: a single
// FileImports record when the file has imports (never an empty one),
// followed by one ClassFields record per class that keeps at least one
// field. Import records always precede class records; within each group,
// source order is preserved. filePath may be "" for in-memory sources and is
// carried into every record.
func Extract(tree *ports.SyntaxTree, filePath string, pol *policy.Policy) iter.Seq[report.Record] {
	return func(yield func(report.Record) bool) {
		if tree == nil {
			return
		}
		if !pol.NoImports() {
			imports := collectImports(tree.Directives)
			if len(imports) > 0 {
				if !yield(report.FileImports{Imports: imports, Path: filePath}) {
					return
				}
			}
		}
		if pol.NoClasses() {
			return
		}
		for _, decl := range tree.Declarations {
			if decl.Kind != ports.DeclClass {
				continue
			}
			fields := keptFields(decl.Members, pol)
			if len(fields) == 0 {
				continue
			}
			if !yield(report.ClassFields{ClassName: decl.Name, Fields: fields, Path: filePath}) {
				return
			}
		}
	}
}

// collectImports builds ImportInfo values from the import directives, in
// source order. Degraded directives (empty URI) are kept as-is; one
// malformed import never fails the file.
func collectImports(directives []ports.Directive) []report.ImportInfo {
	var imports []report.ImportInfo
	for _, d := range directives {
		if d.Kind != ports.DirectiveImport {
			continue
		}
		imports = append(imports, report.ImportInfo{
			URI:        d.URI,
			Prefix:     d.Prefix,
			IsDeferred: d.IsDeferred,
		})
	}
	return imports
}

// keptFields runs every instance-field name of a class through the policy.
// Static fields and non-field members are skipped. Type and finality are
// resolved once per member; every name in a multi-name declaration shares
// them.
func keptFields(members []ports.Member, pol *policy.Policy) []report.FieldInfo {
	var fields []report.FieldInfo
	for _, m := range members {
		if m.Kind != ports.MemberField || m.IsStatic {
			continue
		}
		typ := m.Type
		if typ == "" {
			typ = report.DynamicType
		}
		for _, name := range m.Names {
			if pol.KeepField(name, typ, m.IsFinal) {
				fields = append(fields, report.FieldInfo{Name: name, Type: typ})
			}
		}
	}
	return fields
}
