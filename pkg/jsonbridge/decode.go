// Package jsonbridge moves data between JSON text, generic JSON trees and
// runtime values. It backs the JSON global.
package jsonbridge

import (
	stderrors "errors"
	"io"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// api writes JSON the way JSON.stringify does: no HTML escaping, compact.
var api = jsoniter.Config{EscapeHTML: false}.Froze()

var errUnexpectedEnd = stderrors.New("Unexpected end of JSON input")

// Decode parses text into a JSON tree of nil, bool, float64, string, []any
// and *linkedhashmap.Map nodes. Malformed input is a *errors.SyntaxError
// carrying the parser's message.
func Decode(text string) (any, error) {
	iter := jsoniter.ParseString(api, text)
	tree := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, syntaxError(iter.Error)
	}
	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || iter.Error == nil {
		return nil, errors.Syntaxf("Unexpected non-whitespace character after JSON")
	}
	return tree, nil
}

// Parse is JSON.parse without a reviver.
func Parse(text string) (values.Value, error) {
	tree, err := Decode(text)
	if err != nil {
		return values.Undefined, err
	}
	return values.FromJSON(tree), nil
}

func syntaxError(err error) *errors.SyntaxError {
	return (&errors.SyntaxError{Msg: err.Error()}).CausedBy(err)
}

func readValue(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return readNumber(iter)
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.ArrayValue:
		arr := []any{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr = append(arr, readValue(it))
			return it.Error == nil || it.Error == io.EOF
		})
		return arr
	case jsoniter.ObjectValue:
		obj := values.NewJSONObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Put(key, readValue(it))
			return it.Error == nil || it.Error == io.EOF
		})
		return obj
	}
	if iter.Error == io.EOF {
		iter.Error = errUnexpectedEnd
		return nil
	}
	iter.ReportError("JSON.parse", "unexpected token")
	return nil
}

func readNumber(iter *jsoniter.Iterator) any {
	s := string(iter.ReadNumber())
	if iter.Error != nil && iter.Error != io.EOF {
		return nil
	}
	if !validNumber(s) {
		iter.ReportError("JSON.parse", "invalid number "+strconv.Quote(s))
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		iter.ReportError("JSON.parse", err.Error())
		return nil
	}
	return f
}

// validNumber checks the JSON number grammar: -?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?
func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
