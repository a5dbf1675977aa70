// Package treesitter implements the ports.Parser contract for Dart using the
// tree-sitter runtime and the go-sitter-forest Dart grammar. Parsing is
// best-effort: tree-sitter produces a partial tree for malformed source, and
// the adapter degrades individual entries (an import without a resolvable
// literal gets an empty URI) instead of failing the file.
package treesitter

import (
	"strings"

	forest_dart "github.com/alexaandru/go-sitter-forest/dart"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/dartscan/internal/ports"
)

// Parser turns Dart source text into the neutral ports.SyntaxTree shape the
// extraction engine consumes.
type Parser struct {
	lang *tree_sitter.Language
}

// NewParser creates a parser with the compiled-in Dart grammar.
func NewParser() *Parser {
	return &Parser{lang: tree_sitter.NewLanguage(forest_dart.GetLanguage())}
}

// Parse implements ports.Parser.
func (p *Parser) Parse(source []byte) (*ports.SyntaxTree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.lang); err != nil {
		return nil, err
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return &ports.SyntaxTree{}, nil
	}
	defer tree.Close()

	out := &ports.SyntaxTree{}
	root := tree.RootNode()
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Kind() {
		case "import_or_export", "library_import", "import_specification":
			out.Directives = append(out.Directives, buildDirective(child, source))
		case "library_name", "part_directive", "part_of_directive":
			out.Directives = append(out.Directives, ports.Directive{Kind: ports.DirectiveOther})
		case "class_definition":
			out.Declarations = append(out.Declarations, buildClass(child, source))
		case "enum_declaration", "mixin_declaration", "extension_declaration":
			out.Declarations = append(out.Declarations, ports.Declaration{Kind: ports.DeclOther})
		default:
			// comments, top-level functions and variables, error nodes
		}
	}
	return out, nil
}

// buildDirective classifies one directive node. Exports and other
// non-import directives come back as DirectiveOther; the engine skips them.
func buildDirective(n *tree_sitter.Node, source []byte) ports.Directive {
	d := ports.Directive{Kind: ports.DirectiveOther}
	isImport := false
	sawAs := false

	walk(n, func(c *tree_sitter.Node) {
		switch c.Kind() {
		case "import":
			isImport = true
		case "deferred":
			d.IsDeferred = true
		case "as":
			sawAs = true
		case "identifier":
			if sawAs && d.Prefix == "" {
				d.Prefix = nodeText(c, source)
			}
		case "uri", "string_literal":
			if d.URI == "" {
				d.URI = stripQuotes(nodeText(c, source))
			}
		}
	})

	if !isImport {
		return ports.Directive{Kind: ports.DirectiveOther}
	}
	d.Kind = ports.DirectiveImport
	return d
}

// buildClass extracts the class name and its member list.
func buildClass(n *tree_sitter.Node, source []byte) ports.Declaration {
	decl := ports.Declaration{Kind: ports.DeclClass}
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "identifier":
			if decl.Name == "" {
				decl.Name = nodeText(c, source)
			}
		case "class_body":
			decl.Members = buildMembers(c, source)
		}
	}
	return decl
}

// memberOtherKinds are class-body members the report never models: methods,
// accessors, constructors, operators.
var memberOtherKinds = map[string]bool{
	"method_signature":               true,
	"function_signature":             true,
	"getter_signature":               true,
	"setter_signature":               true,
	"operator_signature":             true,
	"constructor_signature":          true,
	"constant_constructor_signature": true,
	"factory_constructor_signature":  true,
}

func buildMembers(body *tree_sitter.Node, source []byte) []ports.Member {
	var members []ports.Member
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		c := body.Child(i)
		kind := c.Kind()
		switch {
		case kind == "declaration":
			members = append(members, buildField(c, source))
		case memberOtherKinds[kind]:
			members = append(members, ports.Member{Kind: ports.MemberOther})
		default:
			// braces, semicolons, function bodies, comments
		}
	}
	return members
}

// fieldTypeKinds are the direct children of a field declaration that spell
// its type. The type text is the source span from the first to the last of
// them, which keeps generics and nullability markers intact (Future<int>?).
var fieldTypeKinds = map[string]bool{
	"type_identifier": true,
	"type_arguments":  true,
	"nullable_type":   true,
	"function_type":   true,
	"record_type":     true,
	"void_type":       true,
	"?":               true,
}

// nameListKinds hold the declared names of a field group.
var nameListKinds = map[string]bool{
	"initialized_identifier_list":   true,
	"static_final_declaration_list": true,
	"identifier_list":               true,
}

// buildField reads one `declaration` member. A declaration with no name list
// (a constructor, for instance) is reported as MemberOther so the engine
// skips it.
func buildField(n *tree_sitter.Node, source []byte) ports.Member {
	m := ports.Member{Kind: ports.MemberField}
	typeStart, typeEnd := -1, -1

	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		kind := c.Kind()
		switch {
		case kind == "static":
			m.IsStatic = true
		case kind == "final_builtin" || kind == "const_builtin":
			m.IsFinal = true
		case kind == "late" || kind == "covariant" || kind == "external":
			// modifiers with no bearing on the report
		case kind == "inferred_type":
			// `var`: explicitly untyped
		case fieldTypeKinds[kind]:
			if typeStart < 0 {
				typeStart = int(c.StartByte())
			}
			typeEnd = int(c.EndByte())
		case nameListKinds[kind]:
			m.Names = append(m.Names, declaredNames(c, source)...)
		case kind == "initialized_identifier" || kind == "static_final_declaration":
			// some grammar versions inline the list items
			if id := childByKind(c, "identifier"); id != nil {
				m.Names = append(m.Names, nodeText(id, source))
			}
		}
	}

	if len(m.Names) == 0 {
		return ports.Member{Kind: ports.MemberOther}
	}
	if typeStart >= 0 && typeEnd <= len(source) {
		m.Type = strings.TrimSpace(string(source[typeStart:typeEnd]))
	}
	return m
}

// declaredNames collects the identifier of every item in a name list. Each
// item shares the group's type and mutability.
func declaredNames(list *tree_sitter.Node, source []byte) []string {
	var names []string
	for i := uint(0); i < uint(list.ChildCount()); i++ {
		c := list.Child(i)
		switch c.Kind() {
		case "initialized_identifier", "static_final_declaration":
			if id := childByKind(c, "identifier"); id != nil {
				names = append(names, nodeText(id, source))
			}
		case "identifier":
			names = append(names, nodeText(c, source))
		}
	}
	return names
}

// walk visits n and every descendant in source order.
func walk(n *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	visit(n)
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// childByKind finds the first direct child with the given kind.
func childByKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// nodeText returns the source text for a node.
func nodeText(n *tree_sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(start) >= len(source) || int(end) > len(source) {
		return ""
	}
	return string(source[start:end])
}

// stripQuotes removes the surrounding quotes (and a raw-string marker) from
// a Dart string literal. Unterminated literals come back as written.
func stripQuotes(lit string) string {
	lit = strings.TrimPrefix(lit, "r")
	if len(lit) >= 2 {
		first, last := lit[0], lit[len(lit)-1]
		if (first == '\'' || first == '"') && first == last {
			return lit[1 : len(lit)-1]
		}
	}
	return lit
}
