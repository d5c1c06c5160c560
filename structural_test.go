package rson

import "testing"

func mustParse(t *testing.T, input string) *Value {
	t.Helper()
	v, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return v
}

func TestStructuralListVsTable(t *testing.T) {
	list := mustParse(t, `[1, 2, 3]`)
	if list.Kind() != KindList {
		t.Fatalf("got %v", list.Kind())
	}

	table := mustParse(t, `["a": 1, "b": 2]`)
	if table.Kind() != KindTable {
		t.Fatalf("got %v", table.Kind())
	}
	pairs := table.TablePairs()
	if len(pairs) != 2 || pairs[0].Key.String() != "a" || pairs[0].Val.Int() != 1 {
		t.Fatalf("got %+v", pairs)
	}
}

func TestStructuralTableAllowsDuplicateKeys(t *testing.T) {
	v := mustParse(t, `["a":1, "a":2]`)
	if v.Kind() != KindTable || len(v.TablePairs()) != 2 {
		t.Fatalf("got %v", v)
	}
}

func TestStructuralBareBraceSetRejected(t *testing.T) {
	if _, err := Parse([]byte(`{1, 2, 3}`)); err == nil {
		t.Fatalf("expected error: { } is always dict/record-shaped, never a bare Set")
	}
	if _, err := Parse([]byte(`{"a"}`)); err == nil {
		t.Fatalf("expected error for {\"a\"}")
	}
}

func TestStructuralSetVsRecord(t *testing.T) {
	set := mustParse(t, `@set [1, 2, 3]`)
	if set.Kind() != KindSet || len(set.Items()) != 3 {
		t.Fatalf("got %v", set)
	}

	rec := mustParse(t, `{"a": 1, "b": 2}`)
	if rec.Kind() != KindRecord {
		t.Fatalf("got %v", rec.Kind())
	}
}

func TestStructuralEmptyBraceIsRecord(t *testing.T) {
	v := mustParse(t, `{}`)
	if v.Kind() != KindRecord || len(v.RecordPairs()) != 0 {
		t.Fatalf("got %v", v)
	}
}

func TestStructuralRichKeyMakesDict(t *testing.T) {
	v := mustParse(t, `{1: "a", 2: "b"}`)
	if v.Kind() != KindDict {
		t.Fatalf("got %v", v.Kind())
	}
	pairs := v.DictPairs()
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs", len(pairs))
	}
}

func TestStructuralDictMixedKeyTypesRejected(t *testing.T) {
	if _, err := Parse([]byte(`{1: "a", "x": "b"}`)); err == nil {
		t.Fatalf("expected DictKeyType error")
	}
}

func TestStructuralDuplicateRecordKeyRejected(t *testing.T) {
	_, err := Parse([]byte(`{"a":1, "a":2}`))
	rerr, ok := err.(*Error)
	if !ok || rerr.Kind != DuplicateKey {
		t.Fatalf("got %v, want DuplicateKey", err)
	}
}

func TestStructuralLeadingCommaRejected(t *testing.T) {
	if _, err := Parse([]byte(`[,]`)); err == nil {
		t.Fatalf("expected error for [,]")
	}
	if _, err := Parse([]byte(`[,1]`)); err == nil {
		t.Fatalf("expected error for [,1]")
	}
}

func TestStructuralGroupingParens(t *testing.T) {
	v := mustParse(t, `(1)`)
	if v.Kind() != KindInt || v.Int() != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestStructuralAdjacentStringConcat(t *testing.T) {
	v := mustParse(t, `("aaa" "bbb" "ccc")`)
	if v.Kind() != KindString || v.String() != "aaabbbccc" {
		t.Fatalf("got %v", v)
	}
}

func TestStructuralAdjacentByteStringConcat(t *testing.T) {
	v := mustParse(t, `(b"aa" b"bb")`)
	if v.Kind() != KindBytes || string(v.Bytes()) != "aabb" {
		t.Fatalf("got %v", v)
	}
}

func TestStructuralMixedKindConcatRejected(t *testing.T) {
	if _, err := Parse([]byte(`("aaa" b"bbb")`)); err == nil {
		t.Fatalf("expected error mixing string and byte-string in concatenation")
	}
}

func TestStructuralNestedContainers(t *testing.T) {
	v := mustParse(t, `{"items": [1, 2, {"nested": true}], "count": 3}`)
	if v.Kind() != KindRecord {
		t.Fatalf("got %v", v.Kind())
	}
	items, ok := v.RecordLookup("items")
	if !ok || items.Kind() != KindList || len(items.Items()) != 3 {
		t.Fatalf("got %+v", items)
	}
}

func TestStructuralCommentsAreWhitespace(t *testing.T) {
	v := mustParse(t, "[1, # comment\n 2]")
	if v.Kind() != KindList || len(v.Items()) != 2 {
		t.Fatalf("got %v", v)
	}
}
