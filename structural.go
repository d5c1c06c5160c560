package rson

import (
	"github.com/rson-go/rson/internal/cursor"
	"github.com/rson-go/rson/internal/debug"
)

// maxDepth is the default nesting-depth guard (spec.md §4.5: "a
// conservative cap (e.g. 1024) is implementation-defined").
const maxDepth = 1024

// parser threads the cursor plus the one piece of additional state
// structural parsing needs: a nesting-depth counter. Grounded on the
// teacher's jsondecoder.go Decoder, which threads a *Scanner through
// parseValue/parseArray/parseObject by method receiver; depth takes
// the place of the teacher's recursion-free token stream, since this
// grammar recurses directly instead of emitting a flat token stream.
type parser struct {
	c        *cursor.Cursor
	depth    int
	maxDepth int
}

func newParser(c *cursor.Cursor, maxDepth int) *parser {
	return &parser{c: c, maxDepth: maxDepth}
}

func (p *parser) enter(pos cursor.Pos) error {
	p.depth++
	if p.depth > p.maxDepth {
		return newError(pos, DepthLimit, "nesting too deep", "")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// parseValue dispatches on the first non-whitespace byte, per the
// table in spec.md §4.5. Grounded on the teacher's
// jsondecoder.go:parseValue switch-on-first-byte shape, generalized
// from JSON's six shapes to RSON's number/string/bool/null plus
// {dict,record}/{table,list}/grouping/tag disambiguation.
func (p *parser) parseValue() (*Value, error) {
	p.c.SkipSpaceAndComments()
	pos := p.c.Pos()
	if err := p.enter(pos); err != nil {
		return nil, err
	}
	defer p.leave()

	b, ok := p.c.PeekByte()
	if !ok {
		return nil, newError(pos, UnexpectedEof, "unexpected end of input", "")
	}

	debug.Printf("parseValue: %q at %d", b, pos.Offset)

	switch {
	case b == '{':
		return p.parseBraced()
	case b == '[':
		return p.parseBracketed()
	case b == '(':
		return p.parseParenthesized()
	case b == '@':
		return p.parseTag()
	case b == '"' || b == '\'':
		return p.parseStringValue()
	case (b == 'u' || b == 'U' || b == 'b' || b == 'B') && nextIsQuote(p.c, 1):
		return p.parseStringValue()
	case b == '+' || b == '-' || cursor.IsDigit(b):
		return parseNumber(p.c)
	case cursor.IsIdentStart(b):
		return p.parseKeyword()
	default:
		return nil, newErrorf(pos, UnexpectedByte, "unexpected byte", "unexpected byte %q", b)
	}
}

func (p *parser) parseStringValue() (*Value, error) {
	lit, err := parseStringLiteral(p.c)
	if err != nil {
		return nil, err
	}
	if lit.isBytes {
		return NewBytes(lit.bytes), nil
	}
	return NewString(lit.text)
}

// parseKeyword reads an identifier and resolves it to one of the three
// literal keywords; any other identifier is UnexpectedByte, since
// spec.md §1 lists "supporting bare-word identifiers as values" under
// Non-goals.
func (p *parser) parseKeyword() (*Value, error) {
	pos := p.c.Pos()
	word := scanIdentifier(p.c)
	if v, ok := builtinKeywords[word]; ok {
		return v, nil
	}
	return nil, newErrorf(pos, UnexpectedByte, "bare word is not a value", "%q is not a valid literal; bare-word identifiers are not values", word)
}

// parseBraced handles '{': always dict-or-record-shaped, never a bare
// Set (spec.md §8's Must-not-parse corpus lists `{"a"}` as invalid;
// original_source/rson.py's parse_rson has no bare-brace-to-Set
// fallback — the only Set production is `@set [...]`, a tag over a
// List). An empty body is an empty Record; any non-empty body must
// have a ':' after its first key.
func (p *parser) parseBraced() (*Value, error) {
	p.c.SkipByte() // '{'
	p.c.SkipSpaceAndComments()

	if b, ok := p.c.PeekByte(); ok && b == '}' {
		p.c.SkipByte()
		return NewRecord(nil)
	}

	key, val, err := p.parseFirstPair()
	if err != nil {
		return nil, err
	}
	return p.parseDictOrRecordBody(key, val)
}

// parseFirstPair parses "value ':' value" for the first entry of a
// '{' body, which is always dict/record-shaped. Grounded on spec.md
// §9's "peek past the opener's whitespace for '… :'" design note: the
// key is parsed exactly once, then threaded straight into the body
// builder instead of being discarded and re-parsed, which is what
// keeps disambiguation linear instead of retrying the whole candidate
// subtree on every nesting level.
func (p *parser) parseFirstPair() (key, val *Value, err error) {
	key, err = p.parseValue()
	if err != nil {
		return nil, nil, err
	}
	p.c.SkipSpaceAndComments()
	if err := p.expectByte(':'); err != nil {
		return nil, nil, err
	}
	p.c.SkipSpaceAndComments()
	val, err = p.parseValue()
	if err != nil {
		return nil, nil, err
	}
	return key, val, nil
}

// parseDictOrRecordBody builds a Dict or Record given the first
// key/value pair already parsed (by parseBraced) and the opener
// already consumed. Keys that are string literals make a Record; any
// other key kind makes a Dict (spec.md §4.5: "Keys must be strings"
// for Record, "may support richer keys" in general — RSON routes
// richer keys through Dict instead).
func (p *parser) parseDictOrRecordBody(firstKey, firstVal *Value) (*Value, error) {
	var recordPairs []RecordPair
	var dictPairs []Pair
	allStringKeys := true

	addPair := func(key, val *Value) {
		if key.Kind() == KindString {
			recordPairs = append(recordPairs, RecordPair{Key: key.stringVal, Val: val})
		} else {
			allStringKeys = false
		}
		dictPairs = append(dictPairs, Pair{Key: key, Val: val})
	}
	addPair(firstKey, firstVal)

	for {
		p.c.SkipSpaceAndComments()
		b, ok := p.c.PeekByte()
		if !ok {
			return nil, newError(p.c.Pos(), UnexpectedEof, "unterminated object", "")
		}
		if b == '}' {
			p.c.SkipByte()
			break
		}
		if b != ',' {
			return nil, newErrorf(p.c.Pos(), UnexpectedByte, "expected , or }", "unexpected byte %q in object", b)
		}
		p.c.SkipByte()
		p.c.SkipSpaceAndComments()
		if b2, ok := p.c.PeekByte(); ok && b2 == '}' {
			p.c.SkipByte()
			break
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.c.SkipSpaceAndComments()
		if err := p.expectByte(':'); err != nil {
			return nil, err
		}
		p.c.SkipSpaceAndComments()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		addPair(key, val)
	}

	if allStringKeys {
		return NewRecord(recordPairs)
	}
	return NewDict(dictPairs)
}

// parseBracketed handles '[': table-vs-list, per spec.md §4.5's
// "table if the first entry is value : value; else list". The first
// entry is parsed exactly once and threaded into whichever body
// builder applies, instead of being discarded and re-parsed (see
// parseFirstPair).
func (p *parser) parseBracketed() (*Value, error) {
	p.c.SkipByte() // '['
	p.c.SkipSpaceAndComments()

	if b, ok := p.c.PeekByte(); ok && b == ']' {
		p.c.SkipByte()
		return NewList(nil), nil
	}

	first, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.c.SkipSpaceAndComments()
	if b, ok := p.c.PeekByte(); ok && b == ':' {
		p.c.SkipByte()
		p.c.SkipSpaceAndComments()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return p.parseTableBody(first, val)
	}
	return p.parseListBody(first)
}

// parseTableBody builds a Table given the first key/value pair
// already parsed and the opener already consumed. Tables allow
// duplicate keys (spec.md §3, §4.5).
func (p *parser) parseTableBody(firstKey, firstVal *Value) (*Value, error) {
	pairs := []Pair{{Key: firstKey, Val: firstVal}}
	for {
		p.c.SkipSpaceAndComments()
		b, ok := p.c.PeekByte()
		if !ok {
			return nil, newError(p.c.Pos(), UnexpectedEof, "unterminated table", "")
		}
		if b == ']' {
			p.c.SkipByte()
			return NewTable(pairs), nil
		}
		if b != ',' {
			return nil, newErrorf(p.c.Pos(), UnexpectedByte, "expected , or ]", "unexpected byte %q in table", b)
		}
		p.c.SkipByte()
		p.c.SkipSpaceAndComments()
		if b2, ok := p.c.PeekByte(); ok && b2 == ']' {
			p.c.SkipByte()
			return NewTable(pairs), nil
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.c.SkipSpaceAndComments()
		if err := p.expectByte(':'); err != nil {
			return nil, err
		}
		p.c.SkipSpaceAndComments()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: key, Val: val})
	}
}

// parseListBody builds a List given its first item already parsed and
// the opener already consumed.
func (p *parser) parseListBody(first *Value) (*Value, error) {
	items := []*Value{first}
	for {
		p.c.SkipSpaceAndComments()
		b, ok := p.c.PeekByte()
		if !ok {
			return nil, newError(p.c.Pos(), UnexpectedEof, "unterminated container", "")
		}
		if b == ']' {
			p.c.SkipByte()
			return NewList(items), nil
		}
		if b != ',' {
			return nil, newErrorf(p.c.Pos(), UnexpectedByte, "expected , or closer", "unexpected byte %q", b)
		}
		p.c.SkipByte()
		p.c.SkipSpaceAndComments()
		if b2, ok := p.c.PeekByte(); ok && b2 == ']' {
			p.c.SkipByte()
			return NewList(items), nil
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, val)
	}
}

// parseParenthesized handles '(': either a single grouped value, or
// (spec.md §4.4) two-or-more same-kind string literals concatenated.
func (p *parser) parseParenthesized() (*Value, error) {
	p.c.SkipByte() // '('
	p.c.SkipSpaceAndComments()

	if b, ok := p.c.PeekByte(); !ok || b == ')' {
		return nil, newError(p.c.Pos(), UnexpectedByte, "empty grouping", "")
	}

	if b, ok := p.c.PeekByte(); ok && (b == '"' || b == '\'' ||
		((b == 'u' || b == 'U' || b == 'b' || b == 'B') && nextIsQuote(p.c, 1))) {
		return p.parseGroupOrConcat()
	}

	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.c.SkipSpaceAndComments()
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return val, nil
}

// parseGroupOrConcat implements the adjacent-string-concatenation hack
// (spec.md §4.4, §9): a run of two-or-more same-kind string literals
// separated only by whitespace concatenates to one literal of that
// kind; a single literal is plain grouping.
func (p *parser) parseGroupOrConcat() (*Value, error) {
	var lits []stringLiteral
	for {
		lit, err := parseStringLiteral(p.c)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)

		p.c.SkipSpaceAndComments()
		b, ok := p.c.PeekByte()
		if !ok {
			return nil, newError(p.c.Pos(), UnexpectedEof, "unterminated grouping", "")
		}
		if b == ')' {
			p.c.SkipByte()
			break
		}
		if b == '"' || b == '\'' ||
			((b == 'u' || b == 'U' || b == 'b' || b == 'B') && nextIsQuote(p.c, 1)) {
			continue
		}
		return nil, newErrorf(p.c.Pos(), UnexpectedByte, "expected string literal or )", "unexpected byte %q inside a string grouping", b)
	}

	if len(lits) == 1 {
		if lits[0].isBytes {
			return NewBytes(lits[0].bytes), nil
		}
		return NewString(lits[0].text)
	}

	isBytes := lits[0].isBytes
	for _, l := range lits[1:] {
		if l.isBytes != isBytes {
			return nil, newError(p.c.Pos(), TagShape, "mixed string kinds in concatenation", "cannot concatenate a byte-string with a unicode string")
		}
	}
	if isBytes {
		var buf []byte
		for _, l := range lits {
			buf = append(buf, l.bytes...)
		}
		return NewBytes(buf), nil
	}
	var text string
	for _, l := range lits {
		text += l.text
	}
	return NewString(text)
}

func (p *parser) expectByte(want byte) error {
	b, ok := p.c.PeekByte()
	if !ok {
		return newErrorf(p.c.Pos(), UnexpectedEof, "expected byte", "expected %q, got end of input", want)
	}
	if b != want {
		return newErrorf(p.c.Pos(), UnexpectedByte, "unexpected byte", "expected %q, got %q", want, b)
	}
	p.c.SkipByte()
	return nil
}
