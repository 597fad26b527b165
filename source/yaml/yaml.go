// Package yaml provides a Source driver for YAML argument trees, useful when
// arguments arrive from configuration rather than a request payload.
package yaml

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	argbind "github.com/motoki-dev/argbind"
	eng "github.com/motoki-dev/argbind/internal/engine"
)

// Bytes wraps YAML input as an argbind.Source.
func Bytes(b []byte) argbind.Source { return argbind.SourceFromEngine(NewBytes(b)) }

// Reader wraps an io.Reader of YAML input as an argbind.Source.
func Reader(r io.Reader) argbind.Source { return argbind.SourceFromEngine(NewReader(r)) }

// NewBytes tokenizes YAML input into an engine.TokenSource. The document is
// fully decoded up front; decoding errors surface from the first NextToken.
func NewBytes(b []byte) eng.TokenSource {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return &sliceSource{err: err}
	}
	toks, err := emit(&doc, nil, 0)
	return &sliceSource{toks: toks, err: err}
}

// NewReader tokenizes YAML from r into an engine.TokenSource.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &sliceSource{err: err}
	}
	return NewBytes(b)
}

type sliceSource struct {
	toks []eng.Token
	pos  int
	err  error
}

func (s *sliceSource) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *sliceSource) Location() int64 { return -1 }

const maxAliasDepth = 64

func emit(n *yaml.Node, out []eng.Token, depth int) ([]eng.Token, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("yaml: alias nesting exceeds %d levels", maxAliasDepth)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return append(out, eng.Token{Kind: eng.KindNull, Offset: -1}), nil
		}
		return emit(n.Content[0], out, depth+1)
	case yaml.MappingNode:
		out = append(out, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			out = append(out, eng.Token{Kind: eng.KindKey, String: n.Content[i].Value, Offset: -1})
			var err error
			out, err = emit(n.Content[i+1], out, depth+1)
			if err != nil {
				return nil, err
			}
		}
		return append(out, eng.Token{Kind: eng.KindEndObject, Offset: -1}), nil
	case yaml.SequenceNode:
		out = append(out, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			var err error
			out, err = emit(c, out, depth+1)
			if err != nil {
				return nil, err
			}
		}
		return append(out, eng.Token{Kind: eng.KindEndArray, Offset: -1}), nil
	case yaml.AliasNode:
		return emit(n.Alias, out, depth+1)
	case yaml.ScalarNode:
		return append(out, scalarToken(n)), nil
	default:
		return append(out, eng.Token{Kind: eng.KindNull, Offset: -1}), nil
	}
}

func scalarToken(n *yaml.Node) eng.Token {
	switch n.Tag {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}
	case "!!bool":
		return eng.Token{Kind: eng.KindBool, Bool: n.Value == "true" || n.Value == "True" || n.Value == "TRUE", Offset: -1}
	case "!!int", "!!float":
		return eng.Token{Kind: eng.KindNumber, Number: n.Value, Offset: -1}
	default:
		return eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}
	}
}
