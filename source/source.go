// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package source locates the doc comments of Go declarations so they can
// be handed to the annotations parser.
//
// Doc comments are returned verbatim, comment markers included, since the
// parser sanitizes both the // and /** */ styles itself.
package source

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"strings"

	"github.com/z5labs/annotations/config"
	"github.com/z5labs/annotations/internal/try"
)

// ErrUnknownSymbol is returned by [File.Lookup] when a symbol has no declaration.
var ErrUnknownSymbol = errors.New("unknown symbol")

// SyntaxError occurs when a Go source file fails to parse.
type SyntaxError struct {
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e SyntaxError) Error() string {
	return fmt.Sprintf("failed to parse go source %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e SyntaxError) Unwrap() error {
	return e.Cause
}

// File indexes the doc comments of a parsed Go source file.
type File struct {
	Package string

	types   map[string]*ast.CommentGroup
	funcs   map[string]*ast.CommentGroup
	methods map[string]map[string]*ast.CommentGroup
	fields  map[string]map[string]*ast.CommentGroup
}

// ParseFile reads and parses the Go source file at path within fsys.
func ParseFile(fsys fs.FS, path string) (_ *File, err error) {
	r := config.NewFileReader(fsys, path)
	defer try.Close(&err, r)

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(path, b)
}

// Parse parses Go source held in memory. The name is only used for
// error reporting.
func Parse(name string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, name, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, SyntaxError{Path: name, Cause: err}
	}

	f := &File{
		Package: af.Name.Name,
		types:   make(map[string]*ast.CommentGroup),
		funcs:   make(map[string]*ast.CommentGroup),
		methods: make(map[string]map[string]*ast.CommentGroup),
		fields:  make(map[string]map[string]*ast.CommentGroup),
	}
	for _, decl := range af.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			f.indexFunc(d)
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				f.indexTypes(d)
			}
		}
	}
	return f, nil
}

func (f *File) indexFunc(d *ast.FuncDecl) {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		f.funcs[d.Name.Name] = d.Doc
		return
	}

	recv := receiverName(d.Recv.List[0].Type)
	if recv == "" {
		return
	}
	methods, ok := f.methods[recv]
	if !ok {
		methods = make(map[string]*ast.CommentGroup)
		f.methods[recv] = methods
	}
	methods[d.Name.Name] = d.Doc
}

func (f *File) indexTypes(d *ast.GenDecl) {
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		doc := ts.Doc
		// an ungrouped declaration attaches its doc to the GenDecl
		if doc == nil && !d.Lparen.IsValid() {
			doc = d.Doc
		}
		f.types[ts.Name.Name] = doc

		st, ok := ts.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			continue
		}
		fields := make(map[string]*ast.CommentGroup)
		for _, field := range st.Fields.List {
			for _, name := range field.Names {
				fields[name.Name] = field.Doc
			}
			if len(field.Names) == 0 {
				if name := receiverName(field.Type); name != "" {
					fields[name] = field.Doc
				}
			}
		}
		f.fields[ts.Name.Name] = fields
	}
}

// receiverName unwraps pointers, generic instantiations and package
// selectors down to the bare type name.
func receiverName(expr ast.Expr) string {
	for {
		switch x := expr.(type) {
		case *ast.Ident:
			return x.Name
		case *ast.StarExpr:
			expr = x.X
		case *ast.ParenExpr:
			expr = x.X
		case *ast.IndexExpr:
			expr = x.X
		case *ast.IndexListExpr:
			expr = x.X
		case *ast.SelectorExpr:
			return x.Sel.Name
		default:
			return ""
		}
	}
}

// Type returns the doc comment of the named type declaration.
func (f *File) Type(name string) (string, bool) {
	doc, ok := f.types[name]
	return text(doc, ok)
}

// Func returns the doc comment of the named top level function.
func (f *File) Func(name string) (string, bool) {
	doc, ok := f.funcs[name]
	return text(doc, ok)
}

// Method returns the doc comment of a method declared on recv.
func (f *File) Method(recv, name string) (string, bool) {
	doc, ok := f.methods[recv][name]
	return text(doc, ok)
}

// Field returns the doc comment of a struct field.
func (f *File) Field(typ, field string) (string, bool) {
	doc, ok := f.fields[typ][field]
	return text(doc, ok)
}

// Lookup resolves a symbol written as Name or Type.Member. A bare name is
// tried as a type before a function and a member as a method before a
// field. A declaration without a doc comment yields an empty string.
func (f *File) Lookup(symbol string) (string, error) {
	typ, member, ok := strings.Cut(symbol, ".")
	if !ok {
		if doc, ok := f.Type(symbol); ok {
			return doc, nil
		}
		if doc, ok := f.Func(symbol); ok {
			return doc, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	if doc, ok := f.Method(typ, member); ok {
		return doc, nil
	}
	if doc, ok := f.Field(typ, member); ok {
		return doc, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
}

func text(doc *ast.CommentGroup, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	if doc == nil {
		return "", true
	}

	lines := make([]string, len(doc.List))
	for i, c := range doc.List {
		lines[i] = c.Text
	}
	return strings.Join(lines, "\n"), true
}
