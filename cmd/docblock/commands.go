// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"io"

	"github.com/z5labs/annotations"
	"github.com/z5labs/annotations/internal/slogfield"
	"github.com/z5labs/annotations/internal/try"
	"github.com/z5labs/annotations/source"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

func parseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the annotations of a docblock read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			r := app.stdin
			if len(args) == 1 {
				fr := app.open(args[0])
				defer try.Close(&err, fr)
				r = fr
			}

			b, err := io.ReadAll(r)
			if err != nil {
				return err
			}

			bag, err := app.parse(cmd.Context(), string(b), sourceName(args), "")
			if err != nil {
				return err
			}
			return renderers[app.cfg.Format](cmd.OutOrStdout(), single(bag))
		},
	}
}

func inspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.go> <symbol>...",
		Short: "Print the annotations of Go declaration doc comments",
		Long: `Print the annotations of Go declaration doc comments.

A symbol is either a type or function name, or a method or struct
field written as Type.Member. Several symbols are parsed concurrently
and printed keyed by symbol.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			fr := app.open(args[0])
			defer try.Close(&err, fr)

			src, err := io.ReadAll(fr)
			if err != nil {
				return err
			}
			f, err := source.Parse(args[0], src)
			if err != nil {
				return err
			}

			symbols := args[1:]
			bags := make([]annotations.Bag, len(symbols))

			g, gctx := errgroup.WithContext(cmd.Context())
			for i, symbol := range symbols {
				g.Go(func() (err error) {
					defer try.Recover(&err)

					doc, err := f.Lookup(symbol)
					if err != nil {
						return err
					}

					bags[i], err = app.parse(gctx, doc, args[0], symbol)
					return err
				})
			}
			err = g.Wait()
			if err != nil {
				return err
			}

			d := document{names: symbols, bags: bags}
			if len(symbols) == 1 {
				d = single(bags[0])
			}
			return renderers[app.cfg.Format](cmd.OutOrStdout(), d)
		},
	}
}

// parse runs the parser in its own span. symbol is empty when the
// docblock wasn't read from a Go declaration.
func (app *App) parse(ctx context.Context, text, src, symbol string) (annotations.Bag, error) {
	attrs := []attribute.KeyValue{attribute.String("docblock.source", src)}
	fields := []any{slogfield.Source(src)}
	if symbol != "" {
		attrs = append(attrs, attribute.String("docblock.symbol", symbol))
		fields = append(fields, slogfield.Symbol(symbol))
	}

	spanCtx, span := app.tracer.Start(ctx, "parse", trace.WithAttributes(attrs...))
	defer span.End()

	log := app.log.With(fields...)

	bag, err := app.parser.ParseContext(spanCtx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(spanCtx, "failed to parse docblock", slogfield.Error(err))
		return annotations.Bag{}, err
	}

	span.SetAttributes(attribute.Int("docblock.annotations", bag.Len()))
	log.InfoContext(spanCtx, "parsed docblock", slogfield.Annotations(bag.Keys()))
	return bag, nil
}

func sourceName(args []string) string {
	if len(args) == 0 {
		return "stdin"
	}
	return args[0]
}
