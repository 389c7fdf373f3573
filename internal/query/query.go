// Package query parses the loader configuration string that arrives
// alongside a markup file, e.g. "?svgo=false" or "?{svgo: {path: 'x'}}".
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingMarker = errors.New("query string must start with '?'")
	ErrBadLiteral    = errors.New("malformed object literal in query string")
)

// Kind discriminates the possible shapes of an option value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNull
	KindList
	KindRaw
)

// Value is a tagged variant holding one configuration value. Values
// from the token form are strings, booleans, nulls or string lists;
// the object-literal form can additionally carry arbitrary nested
// data, surfaced as KindRaw.
type Value struct {
	kind Kind
	str  string
	b    bool
	list []Value
	raw  any
}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Null() Value           { return Value{kind: KindNull} }

func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

func Raw(v any) Value { return Value{kind: KindRaw, raw: v} }

func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload; empty unless Kind is KindString.
func (v Value) Str() string { return v.str }

// Bool returns the boolean payload; false unless Kind is KindBool.
func (v Value) Bool() bool { return v.b }

// List returns the accumulated values; nil unless Kind is KindList.
func (v Value) List() []Value { return v.list }

// Raw returns the untyped payload of an object-literal value.
func (v Value) Raw() any { return v.raw }

// Options maps option names to their parsed values.
type Options map[string]Value

// Parse turns a raw configuration string into Options. The input is
// either empty, "?{...}" holding a relaxed object literal, or "?" plus
// a ","/"&"-separated token list of name=value pairs and flags.
func Parse(raw string) (Options, error) {
	if raw == "" {
		return Options{}, nil
	}
	rest, ok := strings.CutPrefix(raw, "?")
	if !ok {
		return nil, ErrMissingMarker
	}
	if rest == "" {
		return Options{}, nil
	}

	if strings.HasPrefix(rest, "{") && strings.HasSuffix(rest, "}") {
		return parseLiteral(rest)
	}

	opts := Options{}
	tokens := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == '&'
	})
	for _, token := range tokens {
		parseToken(opts, token)
	}
	return opts, nil
}

func parseToken(opts Options, token string) {
	name, rawValue, ok := strings.Cut(token, "=")
	if !ok {
		switch {
		case strings.HasPrefix(token, "-"):
			opts[decode(token[1:])] = Bool(false)
		case strings.HasPrefix(token, "+"):
			opts[decode(token[1:])] = Bool(true)
		default:
			opts[decode(token)] = Bool(true)
		}
		return
	}

	value := typed(decode(rawValue))

	if suffixed, ok := strings.CutSuffix(name, "[]"); ok {
		key := decode(suffixed)
		prev := opts[key]
		if prev.kind != KindList {
			prev = List()
		}
		prev.list = append(prev.list, value)
		opts[key] = prev
		return
	}

	opts[decode(name)] = value
}

// typed promotes the literal tokens null, true and false; anything
// else stays a string.
func typed(s string) Value {
	switch s {
	case "null":
		return Null()
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return String(s)
}

func decode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// parseLiteral handles the "?{...}" escape hatch: a relaxed object
// literal allowing unquoted keys, single quotes and trailing commas.
// The literal is normalized into a YAML flow mapping and decoded with
// yaml.v3, so arbitrarily nested configuration survives as KindRaw.
func parseLiteral(literal string) (Options, error) {
	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(normalizeLiteral(literal)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLiteral, err)
	}

	opts := make(Options, len(decoded))
	for name, value := range decoded {
		opts[name] = fromAny(value)
	}
	return opts, nil
}

func fromAny(v any) Value {
	switch tv := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(tv)
	case string:
		return String(tv)
	}
	return Raw(v)
}

// normalizeLiteral rewrites the relaxed dialect into YAML flow syntax:
// a space is inserted after every colon and trailing commas are
// dropped, both only outside quoted strings.
func normalizeLiteral(literal string) string {
	var out strings.Builder
	out.Grow(len(literal) + 8)

	var inSingle, inDouble bool
	runes := []rune(literal)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inSingle:
			if r == '\'' {
				inSingle = false
			}
		case inDouble:
			if r == '\\' && i+1 < len(runes) {
				out.WriteRune(r)
				i++
				r = runes[i]
			} else if r == '"' {
				inDouble = false
			}
		case r == '\'':
			inSingle = true
		case r == '"':
			inDouble = true
		case r == ':':
			out.WriteRune(r)
			if i+1 < len(runes) && runes[i+1] != ' ' {
				out.WriteRune(' ')
			}
			continue
		case r == ',':
			if next := nextNonSpace(runes, i+1); next == '}' || next == ']' {
				continue
			}
		}
		out.WriteRune(r)
	}
	return out.String()
}

func nextNonSpace(runes []rune, from int) rune {
	for _, r := range runes[from:] {
		if r != ' ' && r != '\t' && r != '\n' {
			return r
		}
	}
	return 0
}
