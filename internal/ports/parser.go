// Package ports defines the interfaces (contracts) between the extraction
// core and its collaborators. Domain logic depends only on these types,
// never on the concrete tree-sitter or fsnotify adapters.
package ports

// DirectiveKind discriminates top-level directives. Anything that is not an
// import (library names, parts, exports) is DirectiveOther and is skipped by
// the extraction engine.
type DirectiveKind uint8

const (
	DirectiveOther DirectiveKind = iota
	DirectiveImport
)

// DeclarationKind discriminates top-level declarations. Non-class
// declarations (enums, functions, typedefs, top-level variables) are
// DeclOther and are skipped.
type DeclarationKind uint8

const (
	DeclOther DeclarationKind = iota
	DeclClass
)

// MemberKind discriminates class body members. Methods, getters, setters,
// and constructors are MemberOther and are skipped.
type MemberKind uint8

const (
	MemberOther MemberKind = iota
	MemberField
)

// Directive is one top-level directive in source order. For imports, URI is
// the literal as written with its quotes stripped, or "" when the literal is
// missing or malformed. Prefix is the identifier bound with `as` ("" when
// absent). IsDeferred reports the `deferred` marker.
type Directive struct {
	Kind       DirectiveKind
	URI        string
	Prefix     string
	IsDeferred bool
}

// Member is one entry of a class body. A single field declaration may
// introduce several names sharing one type annotation and one mutability
// flag. Type is the literal source spelling, or "" when the declaration carries
// no annotation.
type Member struct {
	Kind     MemberKind
	Names    []string
	Type     string
	IsFinal  bool
	IsStatic bool
}

// Declaration is one top-level declaration in source order.
type Declaration struct {
	Kind    DeclarationKind
	Name    string
	Members []Member
}

// SyntaxTree is the parsed structural view of one source file. Directives
// and Declarations preserve source order.
type SyntaxTree struct {
	Directives   []Directive
	Declarations []Declaration
}

// Parser turns raw source text into a SyntaxTree. Implementations parse
// best-effort: malformed source yields a partial tree with degraded entries
// (e.g. an import with an empty URI), not an error.
type Parser interface {
	Parse(source []byte) (*SyntaxTree, error)
}
