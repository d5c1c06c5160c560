package rson

import (
	"testing"

	"github.com/rson-go/rson/internal/cursor"
)

func parseLit(t *testing.T, s string) stringLiteral {
	t.Helper()
	c := cursor.New([]byte(s))
	lit, err := parseStringLiteral(c)
	if err != nil {
		t.Fatalf("parseStringLiteral(%q): %v", s, err)
	}
	if !c.AtEOF() {
		t.Fatalf("parseStringLiteral(%q) left input unconsumed", s)
	}
	return lit
}

func TestParseStringLiteralBasics(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`""`, ""},
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`'test \" \''`, `test " '`},
		{`"a\nb\tc"`, "a\nb\tc"},
		{`"\x41\x42"`, "AB"},
		{`"AB"`, "AB"},
		{`"\U00000041"`, "A"},
		{`"""multi
line"""`, "multi\nline"},
		{"'''a\tb'''", "a\tb"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			lit := parseLit(t, tc.input)
			if lit.isBytes || lit.text != tc.want {
				t.Fatalf("got %+v, want text %q", lit, tc.want)
			}
		})
	}
}

func TestParseStringLiteralLineContinuation(t *testing.T) {
	lit := parseLit(t, "\"a\\\nb\"")
	if lit.text != "ab" {
		t.Fatalf("got %q, want %q", lit.text, "ab")
	}
}

func TestParseByteStringLiteral(t *testing.T) {
	lit := parseLit(t, `b"foo"`)
	if !lit.isBytes || string(lit.bytes) != "foo" {
		t.Fatalf("got %+v", lit)
	}

	lit2 := parseLit(t, `b"\x80\xff"`)
	if !lit2.isBytes || len(lit2.bytes) != 2 || lit2.bytes[0] != 0x80 || lit2.bytes[1] != 0xff {
		t.Fatalf("got %+v", lit2)
	}
}

func TestParseStringLiteralRejectsBadCases(t *testing.T) {
	tests := []string{
		`"unterminated`,
		"\"bare\ncontrol\"",     // bare newline in single-quoted string
		`"\uD800"`,              // bare surrogate
		"b\"\\u0041\"",          // \u forbidden in byte strings
		"b\"\\U00000041\"",      // \U forbidden in byte strings
		"b\"\xc2\x80\"",         // non-ASCII raw byte in byte string
		`"\q"`,                  // unknown escape
		`"\x4"`,                 // short hex escape
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			c := cursor.New([]byte(input))
			if _, err := parseStringLiteral(c); err == nil {
				t.Fatalf("parseStringLiteral(%q): expected error", input)
			}
		})
	}
}
