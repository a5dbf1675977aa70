package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/dartscan/internal/domain/policy"
	"github.com/corey/dartscan/internal/domain/report"
	"github.com/corey/dartscan/internal/ports"
)

func collect(t *testing.T, tree *ports.SyntaxTree, path string, pol *policy.Policy) []report.Record {
	t.Helper()
	var records []report.Record
	for rec := range Extract(tree, path, pol) {
		records = append(records, rec)
	}
	return records
}

func mustPolicy(t *testing.T, opts policy.Options) *policy.Policy {
	t.Helper()
	pol, err := policy.New(opts)
	require.NoError(t, err)
	return pol
}

// userTree mirrors:
//
//	import 'dart:io';
//	import 'dart:async' deferred as async;
//	class User {
//	  final int id = 0;
//	  String name = '';
//	  static int ignored = 0;
//	}
func userTree() *ports.SyntaxTree {
	return &ports.SyntaxTree{
		Directives: []ports.Directive{
			{Kind: ports.DirectiveImport, URI: "dart:io"},
			{Kind: ports.DirectiveImport, URI: "dart:async", Prefix: "async", IsDeferred: true},
		},
		Declarations: []ports.Declaration{
			{
				Kind: ports.DeclClass,
				Name: "User",
				Members: []ports.Member{
					{Kind: ports.MemberField, Names: []string{"id"}, Type: "int", IsFinal: true},
					{Kind: ports.MemberField, Names: []string{"name"}, Type: "String"},
					{Kind: ports.MemberField, Names: []string{"ignored"}, Type: "int", IsStatic: true},
				},
			},
		},
	}
}

func TestExtract_EmptyTree(t *testing.T) {
	assert.Empty(t, collect(t, &ports.SyntaxTree{}, "a.dart", policy.Default()))
	assert.Empty(t, collect(t, nil, "a.dart", policy.Default()))
}

func TestExtract_DefaultPolicyScenario(t *testing.T) {
	records := collect(t, userTree(), "lib/user.dart", policy.Default())
	require.Len(t, records, 2)

	imports, ok := records[0].(report.FileImports)
	require.True(t, ok, "imports record must come first")
	assert.Equal(t, report.FileImports{
		Imports: []report.ImportInfo{
			{URI: "dart:io"},
			{URI: "dart:async", Prefix: "async", IsDeferred: true},
		},
		Path: "lib/user.dart",
	}, imports)

	class, ok := records[1].(report.ClassFields)
	require.True(t, ok)
	assert.Equal(t, "User", class.ClassName)
	assert.Equal(t, "lib/user.dart", class.Path)
	// static `ignored` is absent
	assert.Equal(t, []report.FieldInfo{
		{Name: "id", Type: "int"},
		{Name: "name", Type: "String"},
	}, class.Fields)
}

func TestExtract_ImportsAlwaysPrecedeClasses(t *testing.T) {
	records := collect(t, userTree(), "", policy.Default())
	require.Len(t, records, 2)
	assert.IsType(t, report.FileImports{}, records[0])
	assert.IsType(t, report.ClassFields{}, records[1])
}

func TestExtract_NoImportRecordForImportlessFile(t *testing.T) {
	tree := userTree()
	tree.Directives = nil

	records := collect(t, tree, "a.dart", policy.Default())
	require.Len(t, records, 1)
	assert.IsType(t, report.ClassFields{}, records[0])
}

func TestExtract_OtherDirectivesIgnored(t *testing.T) {
	tree := &ports.SyntaxTree{
		Directives: []ports.Directive{{Kind: ports.DirectiveOther}},
	}
	assert.Empty(t, collect(t, tree, "a.dart", policy.Default()))
}

func TestExtract_StaticOnlyClassYieldsNoRecord(t *testing.T) {
	tree := &ports.SyntaxTree{
		Declarations: []ports.Declaration{{
			Kind: ports.DeclClass,
			Name: "Config",
			Members: []ports.Member{
				{Kind: ports.MemberField, Names: []string{"instance"}, Type: "Config", IsStatic: true},
			},
		}},
	}
	assert.Empty(t, collect(t, tree, "a.dart", policy.Default()))
}

func TestExtract_FullyFilteredClassYieldsNoRecord(t *testing.T) {
	pol := mustPolicy(t, policy.Options{PrivateOnly: true})
	records := collect(t, userTree(), "a.dart", pol)

	// imports still reported; class drops out entirely, never an empty record
	require.Len(t, records, 1)
	assert.IsType(t, report.FileImports{}, records[0])
}

func TestExtract_PrivateOnlyKeepsPrivateField(t *testing.T) {
	tree := userTree()
	tree.Declarations[0].Members = append(tree.Declarations[0].Members,
		ports.Member{Kind: ports.MemberField, Names: []string{"_token"}, Type: "String", IsFinal: true})

	pol := mustPolicy(t, policy.Options{PrivateOnly: true})
	records := collect(t, tree, "a.dart", pol)
	require.Len(t, records, 2)

	class := records[1].(report.ClassFields)
	assert.Equal(t, []report.FieldInfo{{Name: "_token", Type: "String"}}, class.Fields)
}

func TestExtract_NoImportsAndNoClasses(t *testing.T) {
	tree := userTree()

	pol := mustPolicy(t, policy.Options{NoImports: true})
	records := collect(t, tree, "a.dart", pol)
	require.Len(t, records, 1)
	assert.IsType(t, report.ClassFields{}, records[0])

	pol = mustPolicy(t, policy.Options{NoClasses: true})
	records = collect(t, tree, "a.dart", pol)
	require.Len(t, records, 1)
	assert.IsType(t, report.FileImports{}, records[0])

	pol = mustPolicy(t, policy.Options{NoImports: true, NoClasses: true})
	assert.Empty(t, collect(t, tree, "a.dart", pol))
}

func TestExtract_UntypedFieldGetsDynamicSentinel(t *testing.T) {
	tree := &ports.SyntaxTree{
		Declarations: []ports.Declaration{{
			Kind: ports.DeclClass,
			Name: "Bag",
			Members: []ports.Member{
				{Kind: ports.MemberField, Names: []string{"stuff"}},
			},
		}},
	}
	records := collect(t, tree, "", policy.Default())
	require.Len(t, records, 1)

	class := records[0].(report.ClassFields)
	assert.Equal(t, []report.FieldInfo{{Name: "stuff", Type: report.DynamicType}}, class.Fields)
}

func TestExtract_MultiNameDeclarationSharesTypeAndFinality(t *testing.T) {
	tree := &ports.SyntaxTree{
		Declarations: []ports.Declaration{{
			Kind: ports.DeclClass,
			Name: "Point",
			Members: []ports.Member{
				{Kind: ports.MemberField, Names: []string{"x", "y"}, Type: "double", IsFinal: true},
			},
		}},
	}
	records := collect(t, tree, "", policy.Default())
	require.Len(t, records, 1)

	class := records[0].(report.ClassFields)
	assert.Equal(t, []report.FieldInfo{
		{Name: "x", Type: "double"},
		{Name: "y", Type: "double"},
	}, class.Fields)

	// with --no-final, both names drop together
	pol := mustPolicy(t, policy.Options{NoFinal: true})
	assert.Empty(t, collect(t, tree, "", pol))
}

func TestExtract_NonFieldMembersSkipped(t *testing.T) {
	tree := &ports.SyntaxTree{
		Declarations: []ports.Declaration{{
			Kind: ports.DeclClass,
			Name: "Service",
			Members: []ports.Member{
				{Kind: ports.MemberOther},
				{Kind: ports.MemberField, Names: []string{"url"}, Type: "String"},
				{Kind: ports.MemberOther},
			},
		}},
	}
	records := collect(t, tree, "", policy.Default())
	require.Len(t, records, 1)
	assert.Equal(t, []report.FieldInfo{{Name: "url", Type: "String"}},
		records[0].(report.ClassFields).Fields)
}

func TestExtract_NonClassDeclarationsSkipped(t *testing.T) {
	tree := &ports.SyntaxTree{
		Declarations: []ports.Declaration{
			{Kind: ports.DeclOther},
			{Kind: ports.DeclClass, Name: "A", Members: []ports.Member{
				{Kind: ports.MemberField, Names: []string{"v"}, Type: "int"},
			}},
		},
	}
	records := collect(t, tree, "", policy.Default())
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].(report.ClassFields).ClassName)
}

func TestExtract_ShortCircuit(t *testing.T) {
	// Two classes; the consumer stops after the first record. The sequence
	// must end cleanly without yielding the second class.
	tree := &ports.SyntaxTree{
		Declarations: []ports.Declaration{
			{Kind: ports.DeclClass, Name: "First", Members: []ports.Member{
				{Kind: ports.MemberField, Names: []string{"a"}, Type: "int"},
			}},
			{Kind: ports.DeclClass, Name: "Second", Members: []ports.Member{
				{Kind: ports.MemberField, Names: []string{"b"}, Type: "int"},
			}},
		},
	}

	var got []report.Record
	for rec := range Extract(tree, "", policy.Default()) {
		got = append(got, rec)
		break
	}
	require.Len(t, got, 1)
	assert.Equal(t, "First", got[0].(report.ClassFields).ClassName)
}

func TestExtract_MalformedImportDegradesToEmptyURI(t *testing.T) {
	tree := &ports.SyntaxTree{
		Directives: []ports.Directive{{Kind: ports.DirectiveImport}},
	}
	records := collect(t, tree, "broken.dart", policy.Default())
	require.Len(t, records, 1)
	assert.Equal(t, []report.ImportInfo{{URI: ""}},
		records[0].(report.FileImports).Imports)
}
