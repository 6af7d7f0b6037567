package jsonbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	jsoniter "github.com/json-iterator/go"

	"jscore/pkg/values"
)

// Encode renders a JSON tree as text. A non-empty indent pretty-prints with
// that string per level.
func Encode(tree any, indent string) (string, error) {
	stream := jsoniter.NewStream(api, nil, 256)
	if err := writeTree(stream, tree); err != nil {
		return "", err
	}
	if stream.Error != nil {
		return "", stream.Error
	}
	return finish(stream.Buffer(), indent)
}

func finish(compact []byte, indent string) (string, error) {
	if indent == "" {
		return string(compact), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeTree(stream *jsoniter.Stream, tree any) error {
	switch x := tree.(type) {
	case nil:
		stream.WriteNil()
	case bool:
		stream.WriteBool(x)
	case float64:
		writeNumber(stream, x)
	case int:
		stream.WriteInt(x)
	case int64:
		stream.WriteInt64(x)
	case json.Number:
		stream.WriteRaw(string(x))
	case string:
		writeString(stream, x)
	case []any:
		stream.WriteArrayStart()
		for i, el := range x {
			if i > 0 {
				stream.WriteMore()
			}
			if err := writeTree(stream, el); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
	case *linkedhashmap.Map:
		stream.WriteObjectStart()
		it := x.Iterator()
		first := true
		for it.Next() {
			if !first {
				stream.WriteMore()
			}
			first = false
			writeString(stream, fmt.Sprint(it.Key()))
			stream.WriteRaw(":")
			if err := writeTree(stream, it.Value()); err != nil {
				return err
			}
		}
		stream.WriteObjectEnd()
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		stream.WriteObjectStart()
		for i, k := range keys {
			if i > 0 {
				stream.WriteMore()
			}
			writeString(stream, k)
			stream.WriteRaw(":")
			if err := writeTree(stream, x[k]); err != nil {
				return err
			}
		}
		stream.WriteObjectEnd()
	default:
		return fmt.Errorf("jsonbridge: unsupported JSON node %T", tree)
	}
	return nil
}

// writeNumber uses the ECMAScript number formatting; non-finite numbers have
// no JSON form and are written as null.
func writeNumber(stream *jsoniter.Stream, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		stream.WriteNil()
		return
	}
	stream.WriteRaw(values.NumberToString(f))
}

// writeString quotes s. jsoniter spells \b and \f as \u0008 and \u000c, so
// strings holding them are quoted here instead.
func writeString(stream *jsoniter.Stream, s string) {
	if !strings.ContainsAny(s, "\b\f") {
		stream.WriteString(s)
		return
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				b.WriteString(strconv.FormatInt(int64(r)&0xF, 16))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	stream.WriteRaw(b.String())
}
