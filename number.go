package rson

import (
	"strconv"
	"strings"

	"github.com/rson-go/rson/internal/cursor"
)

// parseNumber reads an RSON number literal (spec.md §4.3): an
// optional sign, one of five radix prefixes, digits, and an optional
// fractional/exponent part. Grounded on the teacher's
// encoding/json/decoder.go ParseNumber/ReadDigits: capture the
// literal's bytes lexically first, decide Int vs Float from what was
// seen, then convert once via strconv — generalized from JSON's
// single decimal grammar to RSON's five radices.
func parseNumber(c *cursor.Cursor) (*Value, error) {
	start := c.StartToken()

	isFloat := false
	radix := 10

	b, _ := c.PeekByte()
	if b == '+' || b == '-' {
		c.SkipByte()
	}

	// Radix prefix. Only decimal and hex admit a fractional/exponent
	// part (spec.md §4.3).
	if b2, ok := c.PeekByte(); ok && b2 == '0' {
		if b3, ok3 := c.PeekByteAt(1); ok3 {
			switch b3 {
			case 'b', 'B':
				c.SkipByte()
				c.SkipByte()
				radix = 2
			case 'o', 'O', 'c', 'C':
				c.SkipByte()
				c.SkipByte()
				radix = 8
			case 'x', 'X':
				c.SkipByte()
				c.SkipByte()
				radix = 16
			}
		}
	}

	digitOK := digitPredicateFor(radix)

	firstByte, ok := c.PeekByte()
	if !ok {
		return nil, newError(c.Pos(), UnexpectedEof, "unexpected end of input in number", "")
	}
	if firstByte == '_' || !digitOK(firstByte) {
		return nil, newErrorf(c.Pos(), BadNumber, "invalid digit", "invalid first digit %q for the chosen radix", firstByte)
	}
	if err := consumeDigitRun(c, digitOK); err != nil {
		return nil, err
	}
	if err := rejectInvalidDigitRun(c, radix); err != nil {
		return nil, err
	}

	if radix == 10 {
		if b, ok := c.PeekByte(); ok && b == '.' {
			if nb, ok := c.PeekByteAt(1); ok && cursor.IsDigit(nb) {
				isFloat = true
				c.SkipByte()
				if err := consumeDigitRun(c, cursor.IsDigit[byte]); err != nil {
					return nil, err
				}
			}
		}
		if b, ok := c.PeekByte(); ok && (b == 'e' || b == 'E') {
			if err := consumeExponent(c); err != nil {
				return nil, err
			}
			isFloat = true
		}
	} else if radix == 16 {
		if b, ok := c.PeekByte(); ok && b == '.' {
			isFloat = true
			c.SkipByte()
			if err := consumeDigitRun(c, cursor.IsHexDigit[byte]); err != nil {
				return nil, err
			}
		}
		if isFloat {
			b, ok := c.PeekByte()
			if !ok || (b != 'p' && b != 'P') {
				return nil, newError(c.Pos(), BadNumber, "hex float requires p exponent", "")
			}
			if err := consumeExponent(c); err != nil {
				return nil, err
			}
		}
	}
	if b, ok := c.PeekByte(); ok && cursor.IsIdentCont(b) {
		return nil, newErrorf(c.Pos(), BadNumber, "invalid trailing character in number", "unexpected character %q after number", b)
	}

	lit := string(c.EndToken())
	return convertNumberLiteral(lit, radix, isFloat, start)
}

func digitPredicateFor(radix int) func(byte) bool {
	switch radix {
	case 2:
		return cursor.IsBinDigit[byte]
	case 8:
		return cursor.IsOctDigit[byte]
	case 16:
		return cursor.IsHexDigit[byte]
	default:
		return cursor.IsDigit[byte]
	}
}

// consumeDigitRun consumes digits and single underscores that
// separate them. Per spec.md §4.3, '_' is never the first digit and
// is never adjacent to '.' or an exponent marker; consumeDigitRun
// enforces the "not adjacent to a non-digit" half of that by simply
// never allowing two underscores in a row and requiring a digit
// immediately after each one, which also rules out a trailing '_'.
func consumeDigitRun(c *cursor.Cursor, isDigit func(byte) bool) error {
	lastWasUnderscore := false
	any := false
	for {
		b, ok := c.PeekByte()
		if !ok {
			break
		}
		if isDigit(b) {
			c.SkipByte()
			lastWasUnderscore = false
			any = true
			continue
		}
		if b == '_' {
			if !any || lastWasUnderscore {
				return newError(c.Pos(), BadNumber, "misplaced underscore", "")
			}
			if nb, ok := c.PeekByteAt(1); !ok || !isDigit(nb) {
				return newError(c.Pos(), BadNumber, "misplaced underscore", "")
			}
			c.SkipByte()
			lastWasUnderscore = true
			continue
		}
		break
	}
	if !any {
		return newError(c.Pos(), BadNumber, "expected digit", "")
	}
	return nil
}

// rejectInvalidDigitRun reports a BadNumber error if the byte right
// after a digit run is itself identifier-like, which means the digit
// run stopped on a character the radix's digit set forbids (spec.md
// §4.3: "Over-range digits ... fail because the digit set forbids
// them, not because of value range") rather than on a legitimate
// continuation (a decimal exponent marker, or '.').
func rejectInvalidDigitRun(c *cursor.Cursor, radix int) error {
	b, ok := c.PeekByte()
	if !ok || !cursor.IsIdentCont(b) {
		return nil
	}
	if radix == 10 && (b == 'e' || b == 'E') {
		return nil
	}
	return newErrorf(c.Pos(), BadNumber, "invalid digit for radix", "invalid digit %q for the chosen radix", b)
}

func consumeExponent(c *cursor.Cursor) error {
	c.SkipByte() // 'e'/'E'/'p'/'P'
	if b, ok := c.PeekByte(); ok && (b == '+' || b == '-') {
		c.SkipByte()
	}
	return consumeDigitRun(c, cursor.IsDigit[byte])
}

func convertNumberLiteral(lit string, radix int, isFloat bool, start cursor.Pos) (*Value, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	if !isFloat {
		body, neg := stripSign(clean)
		body = stripRadixPrefix(body, radix)
		n, err := strconv.ParseUint(body, radix, 64)
		if err != nil {
			return nil, newErrorfCause(start, BadNumber, "integer out of range", err, "invalid integer literal %q", lit)
		}
		signed := int64(n)
		if neg {
			signed = -signed
		}
		return NewInt(signed), nil
	}
	if radix == 16 {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return nil, newErrorfCause(start, BadNumber, "invalid hex float", err, "invalid hex float literal %q", lit)
		}
		return NewFloat(f), nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil, newErrorfCause(start, BadNumber, "invalid float", err, "invalid float literal %q", lit)
	}
	return NewFloat(f), nil
}

func stripSign(s string) (body string, neg bool) {
	if strings.HasPrefix(s, "+") {
		return s[1:], false
	}
	if strings.HasPrefix(s, "-") {
		return s[1:], true
	}
	return s, false
}

func stripRadixPrefix(s string, radix int) string {
	switch radix {
	case 2, 8, 16:
		if len(s) >= 2 {
			return s[2:]
		}
		return s
	default:
		return s
	}
}
