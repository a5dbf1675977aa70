// Package policy holds the filter configuration for a scan and the pure
// predicates that decide which fields survive. A Policy is immutable once
// constructed and safe for concurrent reads.
package policy

import (
	"fmt"
	"strings"
)

// privateMarker prefixes library-private Dart identifiers.
const privateMarker = "_"

// asyncWrapper is the single wrapper type expanded into the primitive
// closure (Future<T>, Future<T?>).
const asyncWrapper = "Future"

// primitiveBases is the closed set of primitive-like type names. This list
// is a fixed policy choice with no extension mechanism; behavior for other
// wrapper types or generics is deliberately undefined.
var primitiveBases = []string{"int", "double", "num", "bool", "String", "DateTime"}

// Options are the raw filter switches, one per CLI flag.
type Options struct {
	PrivateOnly  bool // --private-only
	NoPrimitives bool // --no-primitives
	FinalOnly    bool // --final-only
	NoFinal      bool // --no-final
	NoClasses    bool // --no-classes
	NoImports    bool // --no-imports
	Markdown     bool // --markdown
}

// FlagNames returns the CLI flag names of the enabled options. Display
// metadata only; nothing in the scan path branches on these strings.
func (o Options) FlagNames() []string {
	var names []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{o.PrivateOnly, "--private-only"},
		{o.NoPrimitives, "--no-primitives"},
		{o.FinalOnly, "--final-only"},
		{o.NoFinal, "--no-final"},
		{o.NoClasses, "--no-classes"},
		{o.NoImports, "--no-imports"},
		{o.Markdown, "--markdown"},
	} {
		if f.set {
			names = append(names, f.name)
		}
	}
	return names
}

// Policy is a validated, immutable filter configuration. The primitive
// closure is precomputed once at construction, never per field.
type Policy struct {
	opts       Options
	primitives map[string]struct{}
}

// New validates the options and builds a Policy. FinalOnly and NoFinal
// together are a programmer error and fail here, before any scanning begins.
func New(opts Options) (*Policy, error) {
	if opts.FinalOnly && opts.NoFinal {
		return nil, fmt.Errorf("policy: --final-only and --no-final are mutually exclusive")
	}
	p := &Policy{opts: opts}
	if opts.NoPrimitives {
		p.primitives = primitiveClosure()
	}
	return p, nil
}

// Default returns the permissive policy (no filtering).
func Default() *Policy {
	p, err := New(Options{})
	if err != nil {
		panic(err) // empty options are always valid
	}
	return p
}

// primitiveClosure expands each base type T into {T, T?, Future<T>,
// Future<T?>}.
func primitiveClosure() map[string]struct{} {
	set := make(map[string]struct{}, len(primitiveBases)*4)
	for _, base := range primitiveBases {
		set[base] = struct{}{}
		set[base+"?"] = struct{}{}
		set[asyncWrapper+"<"+base+">"] = struct{}{}
		set[asyncWrapper+"<"+base+"?>"] = struct{}{}
	}
	return set
}

// Options returns a copy of the options the policy was built from.
func (p *Policy) Options() Options { return p.opts }

// NoClasses reports whether class-field extraction is suppressed.
func (p *Policy) NoClasses() bool { return p.opts.NoClasses }

// NoImports reports whether import extraction is suppressed.
func (p *Policy) NoImports() bool { return p.opts.NoImports }

// Markdown reports whether the presentation layer should render markdown.
// The extraction engine itself never consults this.
func (p *Policy) Markdown() bool { return p.opts.Markdown }

// KeepField reports whether a field survives all three predicates:
// visibility, finality, and primitiveness. The predicates are independent
// and side-effect free; evaluation order does not matter.
func (p *Policy) KeepField(name, typ string, isFinal bool) bool {
	return p.keepVisibility(name) && p.keepFinality(isFinal) && p.keepType(typ)
}

func (p *Policy) keepVisibility(name string) bool {
	return !p.opts.PrivateOnly || strings.HasPrefix(name, privateMarker)
}

func (p *Policy) keepFinality(isFinal bool) bool {
	return (!p.opts.FinalOnly || isFinal) && (!p.opts.NoFinal || !isFinal)
}

func (p *Policy) keepType(typ string) bool {
	if !p.opts.NoPrimitives {
		return true
	}
	_, primitive := p.primitives[typ]
	return !primitive
}
