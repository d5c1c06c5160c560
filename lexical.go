package rson

import "github.com/rson-go/rson/internal/cursor"

// builtinKeywords are the only bare words spec.md §4.5 accepts as
// values; any other identifier-shaped token is a syntax error, since
// spec.md §1 lists bare-word identifiers under Non-goals.
var builtinKeywords = map[string]*Value{
	"true":  trueValue,
	"false": falseValue,
	"null":  nullValue,
}

// scanIdentifier consumes an ASCII identifier (spec.md §4.2:
// identifier-start followed by identifier-continue) starting at the
// cursor's current position and returns its text. The caller must
// have already confirmed the current byte is IsIdentStart.
func scanIdentifier(c *cursor.Cursor) string {
	c.StartToken()
	c.SkipByte()
	for {
		b, ok := c.PeekByte()
		if !ok || !cursor.IsIdentCont(b) {
			break
		}
		c.SkipByte()
	}
	return string(c.EndToken())
}
