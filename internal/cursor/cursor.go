// Package cursor implements the UTF-8 byte cursor the RSON grammar is
// built on.
//
// Unlike the teacher's internal/scanner.Scanner, which wraps an
// io.Reader behind a refillable window so a streaming pipeline can
// process arbitrarily large input, this cursor is backed by a byte
// slice already fully in memory (spec.md §6 fixes the input as a
// single UTF-8 byte slice), which makes Checkpoint/Restore an O(1)
// integer save/restore instead of window bookkeeping.
package cursor

import "unicode/utf8"

// EOF is the sentinel rune returned by PeekRune/AdvanceRune at the end
// of input. It is never a valid Unicode scalar value.
const EOF rune = -1

// Pos is a diagnostic position: byte offset plus 0-based line and
// column, matching spec.md §6's "byte offset, line, column" error
// fields.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// Checkpoint is an opaque, O(1) save point produced by Cursor.Checkpoint
// and consumed by Cursor.Restore.
type Checkpoint struct {
	pos, line, col int
}

// Cursor is a forward cursor over a UTF-8 byte slice with O(1)
// checkpoint/restore. It is the sole mutable state threaded through
// the parser's combinators (spec.md §5).
type Cursor struct {
	data       []byte
	pos        int
	line, col  int
	tokenStart int // -1 when not recording a token
}

// New returns a Cursor over data. The caller is responsible for
// validating data is well-formed UTF-8 (see rson.Parse) before
// constructing a Cursor from it.
func New(data []byte) *Cursor {
	return &Cursor{data: data, tokenStart: -1}
}

// Len reports the number of unconsumed bytes.
func (c *Cursor) Len() int {
	return len(c.data) - c.pos
}

// AtEOF reports whether the cursor has consumed all input.
func (c *Cursor) AtEOF() bool {
	return c.pos >= len(c.data)
}

// Pos returns the cursor's current diagnostic position.
func (c *Cursor) Pos() Pos {
	return Pos{Offset: c.pos, Line: c.line, Col: c.col}
}

// Checkpoint saves the cursor's position for a later Restore.
func (c *Cursor) Checkpoint() Checkpoint {
	return Checkpoint{pos: c.pos, line: c.line, col: c.col}
}

// Restore rewinds the cursor to a previously saved Checkpoint.
func (c *Cursor) Restore(cp Checkpoint) {
	c.pos, c.line, c.col = cp.pos, cp.line, cp.col
}

// PeekByte returns the byte at the current position without
// consuming it. ok is false at end of input.
func (c *Cursor) PeekByte() (b byte, ok bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

// PeekByteAt returns the byte n positions past the current one
// (n == 0 is equivalent to PeekByte) without consuming anything.
func (c *Cursor) PeekByteAt(n int) (b byte, ok bool) {
	i := c.pos + n
	if i < 0 || i >= len(c.data) {
		return 0, false
	}
	return c.data[i], true
}

// AdvanceByte consumes and returns the byte at the current position.
func (c *Cursor) AdvanceByte() (b byte, ok bool) {
	b, ok = c.PeekByte()
	if !ok {
		return 0, false
	}
	c.pos++
	switch {
	case b == '\n':
		c.line++
		c.col = 0
	case b&0xC0 != 0x80:
		// Not a UTF-8 continuation byte: this is the first byte of a
		// code point (ASCII, or the lead byte of a multi-byte
		// sequence), so it's the point to advance the column on.
		c.col++
	}
	return b, true
}

// SkipByte consumes the current byte, discarding it. It panics if
// called at end of input; callers must check PeekByte/AtEOF first.
func (c *Cursor) SkipByte() {
	if _, ok := c.AdvanceByte(); !ok {
		panic("cursor: SkipByte at end of input")
	}
}

// PeekRune decodes, without consuming, the rune starting at the
// current position, along with its width in bytes. It returns
// (EOF, 0) at end of input and (utf8.RuneError, 1) on invalid UTF-8 —
// the latter should not occur for input rson.Parse has validated.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.pos >= len(c.data) {
		return EOF, 0
	}
	return utf8.DecodeRune(c.data[c.pos:])
}

// AdvanceRune consumes and returns the rune starting at the current
// position, along with its width in bytes.
func (c *Cursor) AdvanceRune() (r rune, size int) {
	r, size = c.PeekRune()
	for i := 0; i < size; i++ {
		c.AdvanceByte()
	}
	return r, size
}

// ConsumeBOM consumes a leading UTF-8 byte-order mark (EF BB BF) if
// the cursor is at byte offset 0 and the input starts with one. It is
// a no-op everywhere else, matching spec.md §4.2: a BOM is whitespace
// only at offset 0.
func (c *Cursor) ConsumeBOM() bool {
	if c.pos != 0 {
		return false
	}
	if len(c.data) >= 3 && c.data[0] == 0xEF && c.data[1] == 0xBB && c.data[2] == 0xBF {
		c.pos = 3
		return true
	}
	return false
}

// SkipSpaceAndComments advances past RSON whitespace (space, tab, CR,
// LF) and '#' line comments, per spec.md §4.2: comments are
// whitespace for every other production's purposes.
func (c *Cursor) SkipSpaceAndComments() {
	for {
		b, ok := c.PeekByte()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			c.AdvanceByte()
		case '#':
			c.skipComment()
		default:
			return
		}
	}
}

func (c *Cursor) skipComment() {
	for {
		b, ok := c.PeekByte()
		if !ok {
			return
		}
		switch b {
		case '\n':
			c.AdvanceByte()
			return
		case '\r':
			c.AdvanceByte()
			if nb, ok := c.PeekByte(); ok && nb == '\n' {
				c.AdvanceByte()
			}
			return
		default:
			c.AdvanceByte()
		}
	}
}

// StartToken begins recording a token at the current position and
// returns the position it started at, mirroring the teacher's
// Scanner.StartToken/EndToken pair but over a slice instead of a
// refillable window.
func (c *Cursor) StartToken() Pos {
	if c.tokenStart >= 0 {
		panic("cursor: StartToken called while already recording")
	}
	c.tokenStart = c.pos
	return c.Pos()
}

// EndToken stops recording and returns the bytes consumed since the
// matching StartToken call.
func (c *Cursor) EndToken() []byte {
	if c.tokenStart < 0 {
		panic("cursor: EndToken called without StartToken")
	}
	tok := c.data[c.tokenStart:c.pos]
	c.tokenStart = -1
	return tok
}
