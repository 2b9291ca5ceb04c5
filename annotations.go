// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package annotations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/annotations/hydrate"
	"github.com/z5labs/annotations/internal/scan"
	"github.com/z5labs/annotations/internal/slogfield"
	"github.com/z5labs/annotations/value"
)

// Option configures a [Parser].
type Option func(*Parser)

// WithTypeResolver enables object hydration for annotation keys
// which name a type known to r.
func WithTypeResolver(r hydrate.TypeResolver) Option {
	return func(p *Parser) {
		p.resolver = r
	}
}

// WithCache makes the [Parser] read parsed docblocks through c.
// A cache should only ever be shared by parsers with the same [hydrate.TypeResolver].
func WithCache(c Cache) Option {
	return func(p *Parser) {
		p.cache = c
	}
}

// WithLogger configures the [slog.Logger] used for debug records.
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser extracts annotations from docblocks. A Parser holds no mutable
// state of its own and is safe for concurrent use.
type Parser struct {
	resolver hydrate.TypeResolver
	cache    Cache
	log      *slog.Logger
}

// NewParser returns a fully initialized Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse extracts the annotations of the given docblock using a [Parser]
// without type resolution or caching.
func Parse(text string) (Bag, error) {
	return defaultParser.Parse(text)
}

// DeclarationError occurs when the value of a single declaration can't be
// coerced or hydrated. It fails the parse of the whole docblock.
type DeclarationError struct {
	Key   string
	Line  int
	Cause error
}

// Error implements the [builtin.error] interface.
func (e DeclarationError) Error() string {
	return fmt.Sprintf("invalid annotation @%s on line %d: %s", e.Key, e.Line, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e DeclarationError) Unwrap() error {
	return e.Cause
}

// Parse extracts the annotations of the given docblock. The docblock may be
// given with or without its comment delimiters. A docblock without any
// annotations results in an empty [Bag].
func (p *Parser) Parse(text string) (Bag, error) {
	return p.ParseContext(context.Background(), text)
}

// ParseContext is like [Parser.Parse] but logs with the given context so
// records can be correlated with the caller's span.
func (p *Parser) ParseContext(ctx context.Context, text string) (Bag, error) {
	if p.cache == nil {
		return p.parse(ctx, text)
	}
	return p.cache.Load(text, func(text string) (Bag, error) {
		return p.parse(ctx, text)
	})
}

func (p *Parser) parse(ctx context.Context, text string) (Bag, error) {
	groups := scan.Aggregate(scan.Tokenize(text))

	b := Bag{
		keys:    make([]string, 0, len(groups)),
		entries: make(map[string]Entry, len(groups)),
	}
	for _, g := range groups {
		vals := make([]value.Value, 0, len(g.Tokens))
		for _, tok := range g.Tokens {
			v, err := p.coerce(ctx, g.Key, tok.Token)
			if err != nil {
				p.log.DebugContext(
					ctx,
					"failed to parse docblock",
					slogfield.Annotation(g.Key),
					slogfield.Line(tok.Line),
					slogfield.Error(err),
				)
				return Bag{}, DeclarationError{Key: g.Key, Line: tok.Line, Cause: err}
			}
			vals = append(vals, v)
		}

		b.keys = append(b.keys, g.Key)
		b.entries[g.Key] = Entry{
			values: vals,
			list:   len(vals) > 1,
		}
	}

	p.log.DebugContext(ctx, "parsed docblock", slogfield.Int("annotations", len(b.keys)))
	return b, nil
}

func (p *Parser) coerce(ctx context.Context, k string, tok value.Token) (value.Value, error) {
	if tok.Implicit {
		return value.Coerce(tok)
	}

	cast, text := value.SplitCast(tok.Text)
	v, err := value.CoerceAs(cast, text)
	if err != nil {
		return value.Value{}, err
	}

	s, ok := v.Structured()
	if !ok {
		return v, nil
	}
	if cast != value.CastConcrete && !(isContainer(s) && hydrate.Resolvable(p.resolver, k)) {
		return v, nil
	}

	obj, err := hydrate.Hydrate(p.resolver, k, s)
	if err != nil {
		return value.Value{}, err
	}
	p.log.DebugContext(ctx, "hydrated annotation", slogfield.Annotation(k), slogfield.Type(fmt.Sprintf("%T", obj)))
	return value.Object(obj), nil
}

func isContainer(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	default:
		return false
	}
}
