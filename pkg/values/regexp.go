package values

import (
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/golang/groupcache/lru"

	"jscore/pkg/errors"
)

const defaultRegExpCacheSize = 64

type regexpData struct {
	source string
	flags  string
	re     *regexp2.Regexp
	global bool
	sticky bool
}

var (
	regexpCacheMu sync.Mutex
	regexpCache   = lru.New(defaultRegExpCacheSize)
)

// SetRegExpCacheSize bounds the number of compiled patterns kept around.
// Zero means no limit.
func SetRegExpCacheSize(n int) {
	regexpCacheMu.Lock()
	defer regexpCacheMu.Unlock()
	regexpCache.MaxEntries = n
	for n > 0 && regexpCache.Len() > n {
		regexpCache.RemoveOldest()
	}
}

func compileRegExp(pattern, flags string) (*regexp2.Regexp, error) {
	key := flags + "/" + pattern
	regexpCacheMu.Lock()
	defer regexpCacheMu.Unlock()
	if re, ok := regexpCache.Get(key); ok {
		return re.(*regexp2.Regexp), nil
	}

	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g', 'y', 'u', 'd':
		default:
			return nil, errors.Syntaxf("Invalid regular expression flags '%s'", flags)
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, errors.Syntaxf("Invalid regular expression: /%s/%s: %v", pattern, flags, err).CausedBy(err)
	}
	regexpCache.Add(key, re)
	return re, nil
}

// NewRegExp compiles pattern into a RegExp object with source, flags and
// lastIndex properties. Unknown or repeated flags and malformed patterns are
// SyntaxErrors.
func NewRegExp(pattern, flags string) (*Object, error) {
	for i, f := range flags {
		if !strings.ContainsRune("dgimsuy", f) || strings.ContainsRune(flags[i+1:], f) {
			return nil, errors.Syntaxf("Invalid regular expression flags '%s'", flags)
		}
	}
	re, err := compileRegExp(pattern, flags)
	if err != nil {
		return nil, err
	}
	o := newObject(KindRegExp, RegExpPrototype)
	o.regexp = &regexpData{
		source: pattern,
		flags:  flags,
		re:     re,
		global: strings.ContainsRune(flags, 'g'),
		sticky: strings.ContainsRune(flags, 'y'),
	}
	o.SetProperty("lastIndex", NewDataProperty(NumberValue(0), true, false, false))
	o.SetProperty("source", NewDataProperty(NewString(pattern), false, false, true))
	o.SetProperty("flags", NewDataProperty(NewString(flags), false, false, true))
	o.SetProperty("global", NewDataProperty(BooleanValue(o.regexp.global), false, false, true))
	return o, nil
}

func (o *Object) IsRegExp() bool { return o.regexp != nil }

// RegExpSource returns the pattern and flags of a RegExp object.
func (o *Object) RegExpSource() (pattern, flags string) {
	if o.regexp == nil {
		return "", ""
	}
	return o.regexp.source, o.regexp.flags
}

// RegExpExec runs the pattern against s. Global and sticky patterns start at
// lastIndex and advance it. The result is an Array of the match and its
// groups with index and input properties, or Null. Indices count code points.
func RegExpExec(o *Object, s string) (Value, error) {
	data := o.regexp
	if data == nil {
		return Undefined, errors.Typef("RegExp.prototype.exec called on incompatible receiver %s", o.Inspect())
	}
	input := []rune(s)
	start := 0
	if data.global || data.sticky {
		li, err := o.Get("lastIndex")
		if err != nil {
			return Undefined, err
		}
		n, err := li.ToLength()
		if err != nil {
			return Undefined, err
		}
		if n > int64(len(input)) {
			return Null, o.Set("lastIndex", NumberValue(0), true)
		}
		start = int(n)
	}

	m, err := data.re.FindRunesMatchStartingAt(input, start)
	if err != nil {
		return Undefined, errors.Rangef("RegExp execution failed: %v", err).CausedBy(err)
	}
	if m != nil && data.sticky && m.Index != start {
		m = nil
	}
	if m == nil {
		if data.global || data.sticky {
			if err := o.Set("lastIndex", NumberValue(0), true); err != nil {
				return Undefined, err
			}
		}
		return Null, nil
	}
	if data.global || data.sticky {
		if err := o.Set("lastIndex", NumberValue(float64(m.Index+m.Length)), true); err != nil {
			return Undefined, err
		}
	}

	groups := m.Groups()
	elems := make([]Value, len(groups))
	for i, g := range groups {
		if len(g.Captures) == 0 {
			elems[i] = Undefined
			continue
		}
		elems[i] = NewString(g.String())
	}
	result := NewArrayObject(elems)
	result.createDataProperty("index", NumberValue(float64(m.Index)))
	result.createDataProperty("input", NewString(s))
	return ObjectValue(result), nil
}
