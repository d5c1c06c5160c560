package rson

import (
	"math"
	"testing"
)

// TestParseMustParse encodes spec.md §8's "must-parse" corpus verbatim.
func TestParseMustParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, v *Value)
	}{
		{"object null", `@object null`, func(t *testing.T, v *Value) {
			if v.Kind() != KindNull {
				t.Fatalf("got %v", v.Kind())
			}
		}},
		{"bool true", `@bool true`, func(t *testing.T, v *Value) {
			if v.Kind() != KindBool || v.Bool() != true {
				t.Fatalf("got %v", v)
			}
		}},
		{"false", `false`, func(t *testing.T, v *Value) {
			if v.Kind() != KindBool || v.Bool() != false {
				t.Fatalf("got %v", v)
			}
		}},
		{"zero", `0`, func(t *testing.T, v *Value) {
			if v.Kind() != KindInt || v.Int() != 0 {
				t.Fatalf("got %v", v)
			}
		}},
		{"float zero tag", `@float 0.0`, func(t *testing.T, v *Value) {
			if v.Kind() != KindFloat || v.Float() != 0.0 || math.Signbit(v.Float()) {
				t.Fatalf("got %v", v)
			}
		}},
		{"negative zero", `-0.0`, func(t *testing.T, v *Value) {
			if v.Kind() != KindFloat || !math.Signbit(v.Float()) {
				t.Fatalf("got %v, want -0.0", v)
			}
			other := NewFloat(0.0)
			if !v.Equal(other) {
				t.Fatalf("-0.0 should equal +0.0 for collision purposes")
			}
		}},
		{"escaped string", `"test-\x32-\u0032-\U00000032"`, func(t *testing.T, v *Value) {
			if v.Kind() != KindString || v.String() != "test-2-2-2" {
				t.Fatalf("got %q", v.String())
			}
		}},
		{"quote escapes", `'test \" \''`, func(t *testing.T, v *Value) {
			if v.Kind() != KindString || v.String() != `test " '` {
				t.Fatalf("got %q", v.String())
			}
		}},
		{"empty list", `[]`, func(t *testing.T, v *Value) {
			if v.Kind() != KindList || len(v.Items()) != 0 {
				t.Fatalf("got %v", v)
			}
		}},
		{"list trailing comma", `[1,]`, func(t *testing.T, v *Value) {
			if v.Kind() != KindList || len(v.Items()) != 1 || v.Items()[0].Int() != 1 {
				t.Fatalf("got %v", v)
			}
		}},
		{"record trailing comma", `{"a":"b",}`, func(t *testing.T, v *Value) {
			if v.Kind() != KindRecord {
				t.Fatalf("got %v", v.Kind())
			}
			val, ok := v.RecordLookup("a")
			if !ok || val.String() != "b" {
				t.Fatalf("got %v", v)
			}
		}},
		{"adjacent string concat", `(  "aaa"  "bbb"  )`, func(t *testing.T, v *Value) {
			if v.Kind() != KindString || v.String() != "aaabbb" {
				t.Fatalf("got %q", v.String())
			}
		}},
		{"set", `@set [1,2,3]`, func(t *testing.T, v *Value) {
			if v.Kind() != KindSet || len(v.Items()) != 3 {
				t.Fatalf("got %v", v)
			}
		}},
		{"datetime", `@datetime "2017-11-22T23:32:07.100497Z"`, func(t *testing.T, v *Value) {
			if v.Kind() != KindDateTime {
				t.Fatalf("got %v", v.Kind())
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Parse([]byte(tc.input))
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.input, err)
			}
			tc.check(t, v)
		})
	}
}

// TestParseMustNotParse encodes spec.md §8's "must-not-parse" corpus.
func TestParseMustNotParse(t *testing.T) {
	tests := []string{
		"_1", "0b0123", "0o999", "0xGHij", "[,]", `{"a"}`,
		`{"a":1, "a":2}`, "@set {}", "@dict []", "@object @object {}",
		"\"\\uD800\\uDD01\"",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse([]byte(input)); err == nil {
				t.Fatalf("Parse(%q): expected error, got none", input)
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse([]byte(""))
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != UnexpectedEof {
		t.Fatalf("got %v, want UnexpectedEof", err)
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	_, err := Parse([]byte("1 2"))
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != TrailingGarbage {
		t.Fatalf("got %v, want TrailingGarbage", err)
	}
}

func TestParseBOM(t *testing.T) {
	v, err := Parse([]byte("\xEF\xBB\xBF1"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Kind() != KindInt || v.Int() != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{0xFF, 0xFE})
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != Encoding {
		t.Fatalf("got %v, want Encoding", err)
	}
}

func TestParseWhitespaceAndComments(t *testing.T) {
	a, err := Parse([]byte(`[1,2,3]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse([]byte(`
		# leading comment
		[
			1, # comment after element
			2,
			3
		]
	`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("whitespace/comments changed the parsed tree: %v != %v", a, b)
	}
}

func TestParseTrailingCommaInsensitive(t *testing.T) {
	a, err := Parse([]byte(`[1,2]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse([]byte(`[1,2,]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("trailing comma changed the parsed tree")
	}
}

func TestParseDepthLimit(t *testing.T) {
	input := ""
	for i := 0; i < 10; i++ {
		input += "["
	}
	input += "1"
	for i := 0; i < 10; i++ {
		input += "]"
	}
	if _, err := Parse([]byte(input), WithMaxDepth(3)); err == nil {
		t.Fatalf("expected DepthLimit error")
	} else if rerr, ok := err.(*Error); !ok || rerr.Kind != DepthLimit {
		t.Fatalf("got %v, want DepthLimit", err)
	}

	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("Parse with default depth: %v", err)
	}
}

func TestParseTableVsList(t *testing.T) {
	v, err := Parse([]byte(`["a":1, "b":2]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Kind() != KindTable || len(v.TablePairs()) != 2 {
		t.Fatalf("got %v", v)
	}

	v2, err := Parse([]byte(`[1, 2, 3]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v2.Kind() != KindList {
		t.Fatalf("got %v", v2.Kind())
	}
}

func TestParseDictVsSet(t *testing.T) {
	v, err := Parse([]byte(`{"a":1, "b":2}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Kind() != KindRecord {
		t.Fatalf("got %v", v.Kind())
	}

	// { } is always dict/record-shaped; a Set can only be produced via
	// the @set tag over a List, never a bare brace body.
	if _, err := Parse([]byte(`{1, 2, 3}`)); err == nil {
		t.Fatalf("expected error for bare-brace {1, 2, 3}")
	}

	v2, err := Parse([]byte(`@set [1, 2, 3]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v2.Kind() != KindSet {
		t.Fatalf("got %v", v2.Kind())
	}
}
