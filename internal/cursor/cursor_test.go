package cursor

import "testing"

func assertPos(t *testing.T, c *Cursor, offset, line, col int) {
	t.Helper()
	pos := c.Pos()
	if pos.Offset != offset || pos.Line != line || pos.Col != col {
		t.Fatalf("Pos: expected (%d,%d,%d) got (%d,%d,%d)", offset, line, col, pos.Offset, pos.Line, pos.Col)
	}
}

func TestCursorReadAndPos(t *testing.T) {
	c := New([]byte("bonjour"))
	assertPos(t, c, 0, 0, 0)
	c.SkipByte()
	c.SkipByte()
	assertPos(t, c, 2, 0, 2)
	b, ok := c.PeekByte()
	if !ok || b != 'n' {
		t.Fatalf("PeekByte: got %q, %v", b, ok)
	}
	assertPos(t, c, 2, 0, 2)
}

func TestCursorNewlineResetsColumn(t *testing.T) {
	c := New([]byte("ab\ncd"))
	for i := 0; i < 3; i++ {
		c.SkipByte()
	}
	assertPos(t, c, 3, 1, 0)
}

func TestCursorCheckpointRestore(t *testing.T) {
	c := New([]byte("hello world"))
	cp := c.Checkpoint()
	for !c.AtEOF() {
		c.SkipByte()
	}
	c.Restore(cp)
	assertPos(t, c, 0, 0, 0)
}

func TestCursorStartEndToken(t *testing.T) {
	c := New([]byte("hello world"))
	c.StartToken()
	for i := 0; i < 5; i++ {
		c.SkipByte()
	}
	tok := c.EndToken()
	if string(tok) != "hello" {
		t.Fatalf("got %q", tok)
	}
}

func TestCursorColumnCountsCodePointsNotBytes(t *testing.T) {
	// "é" is a 2-byte UTF-8 sequence but a single code point; the
	// column should advance by 1, not 2.
	c := New([]byte("é!"))
	r, size := c.AdvanceRune()
	if r != 'é' || size != 2 {
		t.Fatalf("got %q, size %d", r, size)
	}
	assertPos(t, c, 2, 0, 1)
}

func TestCursorSkipSpaceAndComments(t *testing.T) {
	c := New([]byte("   # a comment\n  x"))
	c.SkipSpaceAndComments()
	b, ok := c.PeekByte()
	if !ok || b != 'x' {
		t.Fatalf("got %q, %v", b, ok)
	}
}

func TestCursorConsumeBOMOnlyAtStart(t *testing.T) {
	c := New([]byte("\xEF\xBB\xBFx"))
	if !c.ConsumeBOM() {
		t.Fatalf("expected BOM to be consumed")
	}
	b, ok := c.PeekByte()
	if !ok || b != 'x' {
		t.Fatalf("got %q", b)
	}

	c2 := New([]byte("x\xEF\xBB\xBF"))
	c2.SkipByte()
	if c2.ConsumeBOM() {
		t.Fatalf("BOM should only be consumed at offset 0")
	}
}
