package argbind

import (
	"context"
	"encoding/json"
	"io"
)

// DecodeValue consumes tokens from the Source and builds a Value tree. Map
// entry order follows the input; numbers surface as json.Number scalars.
func DecodeValue(src Source) (Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		return Value{}, err
	}
	return decodeValue(src, tok)
}

// BindFrom decodes src into a Value and binds it, or its named member when
// name is non-empty, to T.
func BindFrom[T any](ctx context.Context, b *Binder, src Source, name string) (T, error) {
	v, err := DecodeValue(src)
	if err != nil {
		var zero T
		return zero, err
	}
	return Bind[T](ctx, b, v, name)
}

func decodeValue(src Source, tok Token) (Value, error) {
	switch tok.Kind {
	case TokenBeginObject:
		return decodeMapValue(src)
	case TokenBeginArray:
		return decodeListValue(src)
	case TokenString:
		return Scalar(tok.String), nil
	case TokenNumber:
		return Scalar(json.Number(tok.Number)), nil
	case TokenBool:
		return Scalar(tok.Bool), nil
	case TokenNull:
		return Value{}, nil
	default:
		return Value{}, io.ErrUnexpectedEOF
	}
}

func decodeMapValue(src Source) (Value, error) {
	var entries []MapEntry
	for {
		tok, err := src.NextToken()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == TokenEndObject {
			return Map(entries...), nil
		}
		if tok.Kind != TokenKey {
			return Value{}, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return Value{}, err
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry(tok.String, v))
	}
}

func decodeListValue(src Source) (Value, error) {
	var elems []Value
	for {
		tok, err := src.NextToken()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == TokenEndArray {
			return List(elems...), nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
}
