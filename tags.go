package rson

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rson-go/rson/internal/cursor"
)

// reservedTagNames are the built-in tag names of spec.md §4.6: the
// pass-through and transform tag names themselves, plus the type
// names the spec additionally reserves so a user can't redefine them
// as a no-op Tagged wrapper. Grounded on original_source/rson.py's
// builtin_decorators set, extended with the type-alias names spec.md
// §4.6 adds on top of it (integer, double, date, time, record,
// unknown).
var reservedTagNames = map[string]bool{
	"object": true, "bool": true, "int": true, "integer": true,
	"float": true, "double": true, "string": true, "list": true,
	"record": true, "set": true, "dict": true, "table": true,
	"date": true, "time": true, "complex": true, "bytestring": true,
	"duration": true, "datetime": true, "base64": true, "unknown": true,
}

// parseTag handles '@': the decorator grammar of spec.md §4.6,
// `@` ident (`.` ident)* mandatory-whitespace object. Grounded on
// original_source/rson.py's decorator_name regex and the
// decorate_object/decorate_list/decorate_string/decorate_number/
// decorate_builtin dispatch-by-input-shape functions, generalized from
// Python values to *Value and from five shape-keyed dispatchers to one
// switch keyed on tag name first, then on the parsed operand's Kind.
func (p *parser) parseTag() (*Value, error) {
	startPos := p.c.Pos()
	p.c.SkipByte() // '@'

	name, err := p.readTagName()
	if err != nil {
		return nil, err
	}

	if err := p.requireTagWhitespace(); err != nil {
		return nil, err
	}

	if b, ok := p.c.PeekByte(); ok && b == '@' {
		return nil, newError(p.c.Pos(), TagNest, "tag applied to a tagged value", "")
	}

	operand, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if operand.Kind() == KindTagged {
		return nil, newError(startPos, TagNest, "tag applied to a tagged value", "")
	}

	return applyTag(startPos, name, operand)
}

// readTagName reads ident (`.` ident)*; the dot is an interior
// separator only (spec.md §4.2: "never at the start or end, and never
// doubled").
func (p *parser) readTagName() (string, error) {
	pos := p.c.Pos()
	b, ok := p.c.PeekByte()
	if !ok || !cursor.IsIdentStart(b) {
		return "", newError(pos, UnexpectedByte, "expected tag name", "")
	}

	name := scanIdentifier(p.c)
	for {
		b, ok := p.c.PeekByte()
		if !ok || b != '.' {
			break
		}
		nb, ok := p.c.PeekByteAt(1)
		if !ok || !cursor.IsIdentStart(nb) {
			break
		}
		p.c.SkipByte() // '.'
		name += "." + scanIdentifier(p.c)
	}
	return name, nil
}

// requireTagWhitespace enforces spec.md §4.6's "the whitespace is
// syntactically required": at least one space/tab/CR/LF/comment must
// separate the tag name from its operand.
func (p *parser) requireTagWhitespace() error {
	b, ok := p.c.PeekByte()
	if !ok {
		return newError(p.c.Pos(), UnexpectedEof, "expected whitespace after tag name", "")
	}
	if b != ' ' && b != '\t' && b != '\r' && b != '\n' && b != '#' {
		return newErrorf(p.c.Pos(), UnexpectedByte, "missing whitespace after tag name", "expected whitespace after tag name, got %q", b)
	}
	p.c.SkipSpaceAndComments()
	return nil
}

func applyTag(pos cursor.Pos, name string, v *Value) (*Value, error) {
	switch name {
	case "object":
		return v, nil
	case "bool":
		if v.Kind() != KindBool {
			return nil, tagShapeErr(pos, name, v)
		}
		return v, nil
	case "int":
		if v.Kind() != KindInt {
			return nil, tagShapeErr(pos, name, v)
		}
		return v, nil
	case "float":
		switch v.Kind() {
		case KindInt, KindFloat:
			return v, nil
		case KindString:
			return parseFloatTag(pos, v.stringVal)
		default:
			return nil, tagShapeErr(pos, name, v)
		}
	case "string":
		if v.Kind() != KindString {
			return nil, tagShapeErr(pos, name, v)
		}
		return v, nil
	case "list":
		if v.Kind() != KindList {
			return nil, tagShapeErr(pos, name, v)
		}
		return v, nil
	case "record":
		if v.Kind() != KindRecord {
			return nil, tagShapeErr(pos, name, v)
		}
		return v, nil
	case "duration":
		switch v.Kind() {
		case KindInt:
			return NewDuration(time.Duration(float64(v.intVal) * float64(time.Second))), nil
		case KindFloat:
			return NewDuration(time.Duration(v.floatVal * float64(time.Second))), nil
		default:
			return nil, tagShapeErr(pos, name, v)
		}
	case "datetime":
		if v.Kind() != KindString {
			return nil, tagShapeErr(pos, name, v)
		}
		return parseDateTimeTag(pos, v.stringVal)
	case "base64":
		if v.Kind() != KindString {
			return nil, tagShapeErr(pos, name, v)
		}
		decoded, err := base64.StdEncoding.DecodeString(v.stringVal)
		if err != nil {
			return nil, newErrorfCause(pos, TagShape, "invalid base64", err, "invalid base64 string: %v", err)
		}
		return NewBytes(decoded), nil
	case "bytestring":
		if v.Kind() != KindString {
			return nil, tagShapeErr(pos, name, v)
		}
		return bytestringTag(pos, v.stringVal)
	case "set":
		if v.Kind() != KindList {
			return nil, tagShapeErr(pos, name, v)
		}
		return NewSet(v.items)
	case "complex":
		if v.Kind() != KindList || len(v.items) != 2 {
			return nil, tagShapeErr(pos, name, v)
		}
		re, ok1 := numericFloat(v.items[0])
		im, ok2 := numericFloat(v.items[1])
		if !ok1 || !ok2 {
			return nil, tagShapeErr(pos, name, v)
		}
		return NewComplex(re, im), nil
	case "dict":
		if v.Kind() != KindRecord {
			return nil, tagShapeErr(pos, name, v)
		}
		pairs := make([]Pair, len(v.recordVal))
		for i, rp := range v.recordVal {
			key, err := NewString(rp.Key)
			if err != nil {
				return nil, err
			}
			pairs[i] = Pair{Key: key, Val: rp.Val}
		}
		return NewDict(pairs)
	default:
		if reservedTagNames[name] {
			return nil, tagShapeErr(pos, name, v)
		}
		return NewTagged(name, v)
	}
}

func tagShapeErr(pos cursor.Pos, name string, v *Value) error {
	return newErrorf(pos, TagShape, "tag applied to wrong-shape value", "@%s cannot be applied to a %s", name, v.Kind())
}

func numericFloat(v *Value) (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// parseFloatTag implements @float "..." (spec.md §4.6): a C99
// hex-float string, NaN, +Infinity, -Infinity, case-insensitively, no
// underscores. Grounded on original_source/rson.py's decorate_string
// float branch (`item.lower() in ('nan','-inf','+inf','inf')`),
// extended to also accept the hex-float form strconv.ParseFloat
// already supports natively.
func parseFloatTag(pos cursor.Pos, s string) (*Value, error) {
	if strings.Contains(s, "_") {
		return nil, newErrorf(pos, TagShape, "underscore not allowed in @float string", "underscore not allowed in @float %q", s)
	}
	switch strings.ToLower(s) {
	case "nan":
		return NewFloat(math.NaN()), nil
	case "+infinity", "infinity", "+inf", "inf":
		return NewFloat(math.Inf(1)), nil
	case "-infinity", "-inf":
		return NewFloat(math.Inf(-1)), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, newErrorfCause(pos, TagShape, "invalid @float string", err, "invalid @float string %q", s)
	}
	return NewFloat(f), nil
}

// parseDateTimeTag implements @datetime "..." (spec.md §4.6): a UTC
// RFC 3339 timestamp. original_source/rson.py's decorate_string
// datetime branch requires item[-1].lower() == 'z' and raises
// SemanticErr otherwise; a numeric-offset suffix (+hh:mm), though it
// matches RFC 3339 generally, is rejected to match that ground truth.
func parseDateTimeTag(pos cursor.Pos, s string) (*Value, error) {
	if s == "" || (s[len(s)-1] != 'Z' && s[len(s)-1] != 'z') {
		return nil, newErrorf(pos, TagShape, "invalid @datetime string", "@datetime requires a 'Z'-suffixed UTC timestamp, got %q", s)
	}
	var lastErr error
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewDateTime(t), nil
		}
		lastErr = err
	}
	return nil, newErrorfCause(pos, TagShape, "invalid @datetime string", lastErr, "invalid RFC 3339 timestamp %q", s)
}

// bytestringTag implements @bytestring "..." (spec.md §4.6): a
// unicode string whose content is all <= U+00FF, re-encoded as that
// many octets (the Go analogue of original_source/rson.py's
// `item.encode('latin-1')`).
func bytestringTag(pos cursor.Pos, s string) (*Value, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, newErrorf(pos, TagShape, "code point out of byte range", "code point U+%04X exceeds U+00FF in @bytestring", r)
		}
		out = append(out, byte(r))
	}
	return NewBytes(out), nil
}
