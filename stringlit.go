package rson

import (
	"unicode/utf8"

	"github.com/rson-go/rson/internal/cursor"
)

// stringLiteral is the result of reading one quoted literal: either a
// Unicode string or a byte string, before the value model's own
// invariant checks (NewString's surrogate rejection) run.
type stringLiteral struct {
	isBytes bool
	text    string // valid when !isBytes
	bytes   []byte // valid when isBytes
}

// parseStringLiteral reads one RSON string or byte-string literal
// (spec.md §4.4): an optional u/U/b/B prefix, one of four delimiters
// ("  '  """  '''), and its escape-processed content.
//
// Grounded on the teacher's encoding/json/decoder.go ParseString,
// whose escape-scanning loop (read byte, switch on '\\' vs closing
// quote vs default) is the same shape generalized from one delimiter
// and one escape alphabet to RSON's four delimiters, two prefixes, and
// fuller escape alphabet (\x, \u, \U, line continuation).
func parseStringLiteral(c *cursor.Cursor) (stringLiteral, error) {
	isBytes := false
	if b, ok := c.PeekByte(); ok {
		switch b {
		case 'u', 'U':
			if nextIsQuote(c, 1) {
				c.SkipByte()
			}
		case 'b', 'B':
			if nextIsQuote(c, 1) {
				isBytes = true
				c.SkipByte()
			}
		}
	}

	quote, triple, err := readOpenDelimiter(c)
	if err != nil {
		return stringLiteral{}, err
	}

	var buf []byte
	for {
		b, ok := c.PeekByte()
		if !ok {
			return stringLiteral{}, newError(c.Pos(), UnexpectedEof, "unterminated string literal", "")
		}
		if b == quote {
			if !triple {
				c.SkipByte()
				break
			}
			if closedTripleQuote(c, quote) {
				c.SkipByte()
				c.SkipByte()
				c.SkipByte()
				break
			}
			c.SkipByte()
			buf = append(buf, quote)
			continue
		}
		if b == '\\' {
			c.SkipByte()
			if err := decodeEscape(c, isBytes, &buf); err != nil {
				return stringLiteral{}, err
			}
			continue
		}
		if b < 0x20 {
			if triple && (b == '\t' || b == '\n' || b == '\r') {
				c.SkipByte()
				buf = append(buf, b)
				continue
			}
			return stringLiteral{}, newErrorf(c.Pos(), BadControlChar, "control character in string", "unescaped control character %#02x in string literal", b)
		}
		if isBytes && b >= 0x80 {
			return stringLiteral{}, newErrorf(c.Pos(), UnexpectedByte, "non-ASCII byte in byte-string literal", "raw byte %#02x not allowed in a byte-string literal; use \\x", b)
		}
		// Copy the raw byte (part of an ASCII char, or part of a
		// valid multi-byte UTF-8 sequence we pass through verbatim).
		c.SkipByte()
		buf = append(buf, b)
	}

	if isBytes {
		return stringLiteral{isBytes: true, bytes: buf}, nil
	}
	if !utf8.Valid(buf) {
		return stringLiteral{}, newError(c.Pos(), Encoding, "invalid UTF-8 in string literal", "")
	}
	return stringLiteral{text: string(buf)}, nil
}

func nextIsQuote(c *cursor.Cursor, offset int) bool {
	b, ok := c.PeekByteAt(offset)
	return ok && (b == '"' || b == '\'')
}

// readOpenDelimiter consumes the opening delimiter and reports which
// quote character it used and whether it was the triple form.
func readOpenDelimiter(c *cursor.Cursor) (quote byte, triple bool, err error) {
	b, ok := c.PeekByte()
	if !ok || (b != '"' && b != '\'') {
		return 0, false, newError(c.Pos(), UnexpectedByte, "expected string delimiter", "")
	}
	quote = b
	isTriple := true
	for i := 0; i < 3; i++ {
		nb, ok := c.PeekByteAt(i)
		if !ok || nb != quote {
			isTriple = false
			break
		}
	}
	if isTriple {
		c.SkipByte()
		c.SkipByte()
		c.SkipByte()
		return quote, true, nil
	}
	c.SkipByte()
	return quote, false, nil
}

// closedTripleQuote reports, without consuming, whether the cursor is
// at the closing triple delimiter (three consecutive quote bytes).
func closedTripleQuote(c *cursor.Cursor, quote byte) bool {
	for i := 0; i < 3; i++ {
		b, ok := c.PeekByteAt(i)
		if !ok || b != quote {
			return false
		}
	}
	return true
}

// decodeEscape handles the byte(s) following a '\\' already consumed
// by the caller, appending the decoded content to buf.
func decodeEscape(c *cursor.Cursor, isBytes bool, buf *[]byte) error {
	b, ok := c.PeekByte()
	if !ok {
		return newError(c.Pos(), UnexpectedEof, "unterminated escape sequence", "")
	}
	switch b {
	case '\\', '/', '"', '\'':
		c.SkipByte()
		*buf = append(*buf, b)
		return nil
	case 'b':
		c.SkipByte()
		*buf = append(*buf, '\b')
		return nil
	case 'f':
		c.SkipByte()
		*buf = append(*buf, '\f')
		return nil
	case 'n':
		c.SkipByte()
		*buf = append(*buf, '\n')
		return nil
	case 'r':
		c.SkipByte()
		*buf = append(*buf, '\r')
		return nil
	case 't':
		c.SkipByte()
		*buf = append(*buf, '\t')
		return nil
	case '\n':
		c.SkipByte()
		return nil
	case '\r':
		c.SkipByte()
		if nb, ok := c.PeekByte(); ok && nb == '\n' {
			c.SkipByte()
		}
		return nil
	case 'x':
		c.SkipByte()
		n, err := readHexDigits(c, 2)
		if err != nil {
			return err
		}
		if isBytes {
			*buf = append(*buf, byte(n))
		} else {
			appendRune(buf, rune(n))
		}
		return nil
	case 'u':
		if isBytes {
			return newError(c.Pos(), BadEscape, "\\u not allowed in byte-string literal", "")
		}
		c.SkipByte()
		n, err := readHexDigits(c, 4)
		if err != nil {
			return err
		}
		if n >= 0xD800 && n <= 0xDFFF {
			return newErrorf(c.Pos(), BadEscape, "surrogate escape", "surrogate code point \\u%04X is not a valid Unicode scalar value", n)
		}
		appendRune(buf, rune(n))
		return nil
	case 'U':
		if isBytes {
			return newError(c.Pos(), BadEscape, "\\U not allowed in byte-string literal", "")
		}
		c.SkipByte()
		n, err := readHexDigits(c, 8)
		if err != nil {
			return err
		}
		if n > 0x10FFFF || (n >= 0xD800 && n <= 0xDFFF) {
			return newErrorf(c.Pos(), BadEscape, "invalid Unicode scalar value", "\\U%08X is not a valid Unicode scalar value", n)
		}
		appendRune(buf, rune(n))
		return nil
	default:
		return newErrorf(c.Pos(), BadEscape, "unknown escape", "unknown escape sequence \\%c", b)
	}
}

func readHexDigits(c *cursor.Cursor, n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		b, ok := c.PeekByte()
		if !ok || !cursor.IsHexDigit(b) {
			return 0, newErrorf(c.Pos(), BadEscape, "short hex escape", "expected %d hex digits", n)
		}
		v = v<<4 | uint32(cursor.HexDigitValue(b))
		c.SkipByte()
	}
	return v, nil
}

func appendRune(buf *[]byte, r rune) {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	*buf = append(*buf, tmp[:n]...)
}
