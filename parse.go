package rson

import (
	"bytes"
	"unicode/utf8"

	"github.com/rson-go/rson/internal/cursor"
)

// ParseOptions holds the knobs Parse accepts. There is deliberately
// little here: spec.md §5 fixes the parser as synchronous, in-memory,
// and single-threaded, leaving nesting depth as the only
// caller-tunable resource limit.
type ParseOptions struct {
	maxDepth int
}

// ParseOption configures a Parse call, following the functional-options
// shape the teacher's own public constructors don't need but the rest
// of the retrieved example pack uses throughout for client/server
// construction (e.g. grpc.DialOption-style variadic options).
type ParseOption func(*ParseOptions)

// WithMaxDepth overrides the nesting-depth guard (spec.md §4.5), whose
// default is 1024.
func WithMaxDepth(n int) ParseOption {
	return func(o *ParseOptions) { o.maxDepth = n }
}

// Parse consumes exactly one RSON document from data: optional BOM,
// whitespace, one value, whitespace, end of input (spec.md §4.8).
// Trailing non-whitespace content fails with TrailingGarbage; input
// that is not valid UTF-8, or that holds a byte-order mark anywhere
// but at byte offset 0, fails with Encoding before any parsing is
// attempted.
func Parse(data []byte, opts ...ParseOption) (*Value, error) {
	if !utf8.Valid(data) {
		return nil, &Error{Kind: Encoding, MessageKey: "invalid encoding", Detail: "input is not valid UTF-8"}
	}
	if len(data) > 0 {
		if i := bytes.Index(data[1:], []byte("\xEF\xBB\xBF")); i >= 0 {
			return nil, &Error{Kind: Encoding, Offset: i + 1, MessageKey: "misplaced byte-order mark", Detail: "a byte-order mark is only allowed at byte offset 0"}
		}
	}

	o := ParseOptions{maxDepth: maxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	c := cursor.New(data)
	c.ConsumeBOM()

	p := newParser(c, o.maxDepth)
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	c.SkipSpaceAndComments()
	if !c.AtEOF() {
		b, _ := c.PeekByte()
		return nil, newErrorf(c.Pos(), TrailingGarbage, "trailing content after document", "unexpected trailing byte %q after document", b)
	}
	return v, nil
}

// ParseValue parses a single RSON value from c without requiring it
// to consume the rest of the input, for embedding RSON values inside
// a larger caller-controlled grammar (spec.md §6: "parse_value(cursor)
// -> Result<Value, Error> — single object, for embedding"). It uses
// the default nesting-depth guard; embed via Parse's options if a
// caller needs a different one.
func ParseValue(c *cursor.Cursor) (*Value, error) {
	p := newParser(c, maxDepth)
	return p.parseValue()
}

// Canonicalize walks v and its children, a no-op on any tree Parse
// produced (built-in tags are already resolved eagerly at parse time)
// but available for values assembled programmatically via the New*
// constructors with unresolved Tagged nodes a caller wants validated
// against the built-in taxonomy (spec.md §6's "reversible
// tag-canonical form").
func Canonicalize(v *Value) (*Value, error) {
	if v == nil {
		return nil, nil
	}
	switch v.kind {
	case KindTagged:
		inner, err := Canonicalize(v.tagVal)
		if err != nil {
			return nil, err
		}
		if !reservedTagNames[v.tagName] {
			return NewTagged(v.tagName, inner)
		}
		return applyTag(cursor.Pos{}, v.tagName, inner)
	case KindList, KindSet:
		items := make([]*Value, len(v.items))
		for i, it := range v.items {
			cv, err := Canonicalize(it)
			if err != nil {
				return nil, err
			}
			items[i] = cv
		}
		if v.kind == KindSet {
			return NewSet(items)
		}
		return NewList(items), nil
	case KindRecord:
		pairs := make([]RecordPair, len(v.recordVal))
		for i, p := range v.recordVal {
			cv, err := Canonicalize(p.Val)
			if err != nil {
				return nil, err
			}
			pairs[i] = RecordPair{Key: p.Key, Val: cv}
		}
		return NewRecord(pairs)
	case KindDict, KindTable:
		pairs := make([]Pair, len(v.pairsVal))
		for i, p := range v.pairsVal {
			ck, err := Canonicalize(p.Key)
			if err != nil {
				return nil, err
			}
			cv, err := Canonicalize(p.Val)
			if err != nil {
				return nil, err
			}
			pairs[i] = Pair{Key: ck, Val: cv}
		}
		if v.kind == KindDict {
			return NewDict(pairs)
		}
		return NewTable(pairs), nil
	default:
		return v, nil
	}
}
