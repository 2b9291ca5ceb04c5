// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/z5labs/annotations"
	"github.com/z5labs/annotations/internal/try"

	"github.com/bndr/gotabulate"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// document is the output of a command: either a single bag or
// several bags keyed by the symbol they were read from.
type document struct {
	names []string
	bags  []annotations.Bag
}

func single(b annotations.Bag) document {
	return document{bags: []annotations.Bag{b}}
}

func (d document) keyed() bool {
	return d.names != nil
}

type renderFunc func(io.Writer, document) error

var renderers = map[string]renderFunc{
	"json":    renderJSON,
	"yaml":    renderYAML,
	"table":   renderTable,
	"msgpack": renderMsgpack,
}

func renderJSON(w io.Writer, d document) error {
	var raw bytes.Buffer
	if !d.keyed() {
		b, err := json.Marshal(d.bags[0])
		if err != nil {
			return err
		}
		raw.Write(b)
	} else {
		raw.WriteByte('{')
		for i, name := range d.names {
			if i > 0 {
				raw.WriteByte(',')
			}
			kb, err := json.Marshal(name)
			if err != nil {
				return err
			}
			bb, err := json.Marshal(d.bags[i])
			if err != nil {
				return err
			}
			raw.Write(kb)
			raw.WriteByte(':')
			raw.Write(bb)
		}
		raw.WriteByte('}')
	}

	var out bytes.Buffer
	err := json.Indent(&out, raw.Bytes(), "", "  ")
	if err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// bagNode keeps the declaration order of the bag instead of the
// sorted key order yaml.v3 uses for maps.
func bagNode(b annotations.Bag) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for k, e := range b.All() {
		var v yaml.Node
		err := v.Encode(e.Interface())
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &v)
	}
	return n, nil
}

func renderYAML(w io.Writer, d document) (err error) {
	var doc *yaml.Node
	if !d.keyed() {
		doc, err = bagNode(d.bags[0])
		if err != nil {
			return err
		}
	} else {
		doc = &yaml.Node{Kind: yaml.MappingNode}
		for i, name := range d.names {
			n, err := bagNode(d.bags[i])
			if err != nil {
				return err
			}
			doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, n)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer try.Close(&err, enc)
	return enc.Encode(doc)
}

func renderTable(w io.Writer, d document) error {
	headers := []string{"annotation", "kind", "value"}
	if d.keyed() {
		headers = append([]string{"symbol"}, headers...)
	}

	var rows [][]string
	for i, b := range d.bags {
		for k, e := range b.All() {
			kinds := make([]string, 0, e.Len())
			for _, v := range e.Values() {
				kinds = append(kinds, v.Kind().String())
			}

			val, err := json.Marshal(e)
			if err != nil {
				return err
			}

			row := []string{k, strings.Join(kinds, ","), string(val)}
			if d.keyed() {
				row = append([]string{d.names[i]}, row...)
			}
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		_, err := io.WriteString(w, "<>\n")
		return err
	}

	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	_, err := fmt.Fprintln(w, t.Render("grid"))
	return err
}

func renderMsgpack(w io.Writer, d document) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if !d.keyed() {
		return enc.Encode(d.bags[0].Map())
	}

	m := make(map[string]any, len(d.names))
	for i, name := range d.names {
		m[name] = d.bags[i].Map()
	}
	return enc.Encode(m)
}
