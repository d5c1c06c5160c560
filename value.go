package rson

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind identifies which variant of the RSON value model (spec.md §3)
// a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindRecord
	KindSet
	KindDict
	KindTable
	KindComplex
	KindDateTime
	KindDuration
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	case KindSet:
		return "set"
	case KindDict:
		return "dict"
	case KindTable:
		return "table"
	case KindComplex:
		return "complex"
	case KindDateTime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindTagged:
		return "tagged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RecordPair is one key/value entry of a Record. Record keys are
// always strings (spec.md §4.5: "Keys must be strings").
type RecordPair struct {
	Key string
	Val *Value
}

// Pair is one key/value entry of a Dict or a Table. Unlike
// RecordPair, the key may be any Value.
type Pair struct {
	Key *Value
	Val *Value
}

// Value is an immutable node of the parsed RSON value tree
// (spec.md §3). The zero Value is not meaningful; always obtain a
// Value through one of the New* constructors, which enforce the
// per-variant invariants the spec requires (record-key uniqueness,
// tag non-nesting, surrogate rejection, dict key homogeneity) so that
// an ill-formed Value cannot exist.
//
// Loosely grounded on the teacher's token.Scalar, which packs its
// type into a uint8 alongside the literal bytes instead of boxing
// into an interface{}; a tree of variants needs real per-node
// storage, so Value is a small tagged struct rather than a bit flag,
// but the motivation — predictable allocation instead of any-boxing —
// is the same one that shaped Scalar.
type Value struct {
	kind Kind

	boolVal   bool
	intVal    int64
	floatVal  float64
	stringVal string
	bytesVal  []byte
	items     []*Value
	recordVal []RecordPair
	pairsVal  []Pair
	re, im    float64
	timeVal   time.Time
	durVal    time.Duration
	tagName   string
	tagVal    *Value
}

// Kind reports which variant v holds.
func (v *Value) Kind() Kind { return v.kind }

var nullValue = &Value{kind: KindNull}
var trueValue = &Value{kind: KindBool, boolVal: true}
var falseValue = &Value{kind: KindBool, boolVal: false}

// NewNull returns the Null value.
func NewNull() *Value { return nullValue }

// NewBool returns a Bool value.
func NewBool(b bool) *Value {
	if b {
		return trueValue
	}
	return falseValue
}

// NewInt returns an Int value.
func NewInt(n int64) *Value {
	return &Value{kind: KindInt, intVal: n}
}

// NewFloat returns a Float value. +0.0 and -0.0 are kept as distinct
// bit patterns (spec.md §3) and NaN is preserved bit-for-bit; equality
// semantics for both live in Equal, not in construction.
func NewFloat(f float64) *Value {
	return &Value{kind: KindFloat, floatVal: f}
}

// NewString returns a String value. It rejects any unpaired UTF-16
// surrogate half, per spec.md §3's "no unpaired surrogate half may
// survive parsing".
func NewString(s string) (*Value, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("rson: invalid UTF-8 in string value")
	}
	for _, r := range s {
		if r >= 0xD800 && r <= 0xDFFF {
			return nil, fmt.Errorf("rson: unpaired surrogate in string value")
		}
	}
	return &Value{kind: KindString, stringVal: s}, nil
}

// NewBytes returns a Bytes value. Bytes carry no text semantics and
// are not validated as UTF-8.
func NewBytes(b []byte) *Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Value{kind: KindBytes, bytesVal: cp}
}

// NewList returns a List value over items, in order.
func NewList(items []*Value) *Value {
	return &Value{kind: KindList, items: items}
}

// NewRecord returns a Record value, rejecting duplicate keys under
// string equality (spec.md §3, §4.5).
func NewRecord(pairs []RecordPair) (*Value, error) {
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if _, dup := seen[p.Key]; dup {
			return nil, &Error{Kind: DuplicateKey, MessageKey: "duplicate record key", Detail: fmt.Sprintf("duplicate key %q", p.Key)}
		}
		seen[p.Key] = struct{}{}
	}
	return &Value{kind: KindRecord, recordVal: pairs}, nil
}

// NewSet returns a Set value, rejecting duplicates under the
// equality relation of spec.md §3.
func NewSet(items []*Value) (*Value, error) {
	for i := 1; i < len(items); i++ {
		for j := 0; j < i; j++ {
			if items[i].Equal(items[j]) {
				return nil, &Error{Kind: DuplicateKey, MessageKey: "duplicate set element"}
			}
		}
	}
	return &Value{kind: KindSet, items: items}, nil
}

// NewDict returns a Dict value. Keys must be pairwise unique under
// §3 equality and must all share the same concrete Kind (spec.md §3,
// §4.5: "the parser may reject mixed-type key sets").
func NewDict(pairs []Pair) (*Value, error) {
	var keyKind Kind
	for i, p := range pairs {
		if i == 0 {
			keyKind = p.Key.kind
		} else if p.Key.kind != keyKind {
			return nil, &Error{Kind: DictKeyType, MessageKey: "mixed dict key types"}
		}
	}
	for i := 1; i < len(pairs); i++ {
		for j := 0; j < i; j++ {
			if pairs[i].Key.Equal(pairs[j].Key) {
				return nil, &Error{Kind: DuplicateKey, MessageKey: "duplicate dict key"}
			}
		}
	}
	return &Value{kind: KindDict, pairsVal: pairs}, nil
}

// NewTable returns a Table value: an ordered sequence of key/value
// pairs that may repeat keys (spec.md §3, §4.5).
func NewTable(pairs []Pair) *Value {
	return &Value{kind: KindTable, pairsVal: pairs}
}

// NewComplex returns a Complex value.
func NewComplex(re, im float64) *Value {
	return &Value{kind: KindComplex, re: re, im: im}
}

// NewDateTime returns a DateTime value.
func NewDateTime(t time.Time) *Value {
	return &Value{kind: KindDateTime, timeVal: t}
}

// NewDuration returns a Duration value, stored as the given
// time.Duration (nanosecond resolution).
func NewDuration(d time.Duration) *Value {
	return &Value{kind: KindDuration, durVal: d}
}

// NewTagged returns a Tagged value wrapping v under name. It rejects
// wrapping a value that is already Tagged: "Tagged never nests"
// (spec.md §3).
func NewTagged(name string, v *Value) (*Value, error) {
	if v.kind == KindTagged {
		return nil, &Error{Kind: TagNest, MessageKey: "tag applied to a tagged value"}
	}
	return &Value{kind: KindTagged, tagName: name, tagVal: v}, nil
}

// Accessors. Each panics if called on a Value of the wrong Kind
// (except String, which renders a debug form for non-String kinds),
// mirroring the teacher's token.Scalar.ToString ("panics if not a
// string") rather than returning an (value, ok) pair for every field —
// callers are expected to switch on Kind first.

func (v *Value) Bool() bool { v.mustBe(KindBool); return v.boolVal }
func (v *Value) Int() int64 { v.mustBe(KindInt); return v.intVal }
func (v *Value) Float() float64 {
	v.mustBe(KindFloat)
	return v.floatVal
}
func (v *Value) String() string {
	switch v.kind {
	case KindString:
		return v.stringVal
	case KindTagged:
		return fmt.Sprintf("@%s %v", v.tagName, v.tagVal)
	default:
		return fmt.Sprintf("%s(%v)", v.kind, v.debugPayload())
	}
}
func (v *Value) Bytes() []byte { v.mustBe(KindBytes); return v.bytesVal }
func (v *Value) Items() []*Value {
	if v.kind != KindList && v.kind != KindSet {
		panic("rson: Items called on " + v.kind.String())
	}
	return v.items
}
func (v *Value) RecordPairs() []RecordPair { v.mustBe(KindRecord); return v.recordVal }
func (v *Value) DictPairs() []Pair         { v.mustBe(KindDict); return v.pairsVal }
func (v *Value) TablePairs() []Pair        { v.mustBe(KindTable); return v.pairsVal }
func (v *Value) Complex() (re, im float64) { v.mustBe(KindComplex); return v.re, v.im }
func (v *Value) Time() time.Time           { v.mustBe(KindDateTime); return v.timeVal }
func (v *Value) Duration() time.Duration   { v.mustBe(KindDuration); return v.durVal }
func (v *Value) TagName() string           { v.mustBe(KindTagged); return v.tagName }
func (v *Value) TagValue() *Value          { v.mustBe(KindTagged); return v.tagVal }

func (v *Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("rson: expected %s, got %s", k, v.kind))
	}
}

func (v *Value) debugPayload() any {
	switch v.kind {
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindBytes:
		return v.bytesVal
	default:
		return nil
	}
}

// RecordLookup returns the value for key and whether it was present.
func (v *Value) RecordLookup(key string) (*Value, bool) {
	v.mustBe(KindRecord)
	for _, p := range v.recordVal {
		if p.Key == key {
			return p.Val, true
		}
	}
	return nil, false
}

// Equal implements the equality relation of spec.md §3: numeric
// cross-variant equality, structural equality for containers, NaN
// poisoning, and +0.0 == -0.0 for collision purposes.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if isNumericKind(v.kind) && isNumericKind(other.kind) {
		return numericEqual(v, other)
	}
	if v.kind == KindDict && other.kind == KindRecord {
		return dictRecordEqual(v.pairsVal, other.recordVal)
	}
	if v.kind == KindRecord && other.kind == KindDict {
		return dictRecordEqual(other.pairsVal, v.recordVal)
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindString:
		return v.stringVal == other.stringVal
	case KindBytes:
		return bytesEqual(v.bytesVal, other.bytesVal)
	case KindList:
		return listEqual(v.items, other.items)
	case KindRecord:
		return recordEqual(v.recordVal, other.recordVal)
	case KindSet:
		return setEqual(v.items, other.items)
	case KindDict:
		return dictEqual(v.pairsVal, other.pairsVal)
	case KindTable:
		return tableEqual(v.pairsVal, other.pairsVal)
	case KindComplex:
		return v.re == other.re && v.im == other.im
	case KindDateTime:
		return v.timeVal.Equal(other.timeVal)
	case KindDuration:
		return v.durVal == other.durVal
	case KindTagged:
		return v.tagName == other.tagName && v.tagVal.Equal(other.tagVal)
	default:
		return false
	}
}

func isNumericKind(k Kind) bool { return k == KindInt || k == KindFloat }

func numericEqual(a, b *Value) bool {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return a.intVal == b.intVal
	case a.kind == KindFloat && b.kind == KindFloat:
		if math.IsNaN(a.floatVal) || math.IsNaN(b.floatVal) {
			return false
		}
		return a.floatVal == b.floatVal
	case a.kind == KindInt && b.kind == KindFloat:
		return intEqualsFloat(a.intVal, b.floatVal)
	default: // Float, Int
		return intEqualsFloat(b.intVal, a.floatVal)
	}
}

// intEqualsFloat reports whether n converts exactly to f.
func intEqualsFloat(n int64, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f != math.Trunc(f) {
		return false
	}
	// Outside the int64 range the conversion below is not defined.
	if f >= 1<<63 || f < -(1<<63) {
		return false
	}
	return int64(f) == n
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func listEqual(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// recordEqual compares two Records ignoring key order, per spec.md §3
// ("Records equal when same key-set ... and same value per key, order
// ignored").
func recordEqual(a, b []RecordPair) bool {
	if len(a) != len(b) {
		return false
	}
	for _, pa := range a {
		found := false
		for _, pb := range b {
			if pa.Key == pb.Key {
				if !pa.Val.Equal(pb.Val) {
					return false
				}
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// setEqual compares two Sets as unordered collections.
func setEqual(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, va := range a {
		matched := false
		for j, vb := range b {
			if used[j] {
				continue
			}
			if va.Equal(vb) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// dictEqual compares two Dicts as unordered key/value collections,
// and also against a Record of the same key/value shape (spec.md §3:
// "Dicts equal a Record of same key/value shape").
func dictEqual(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, pa := range a {
		matched := false
		for j, pb := range b {
			if used[j] {
				continue
			}
			if pa.Key.Equal(pb.Key) && pa.Val.Equal(pb.Val) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// dictRecordEqual compares a Dict against a Record of the same
// key/value shape (spec.md §3: "Dicts equal a Record of same
// key/value shape"), order ignored on both sides. Only a Dict whose
// keys are all Strings can match any Record, since Record keys are
// plain strings.
func dictRecordEqual(pairs []Pair, recPairs []RecordPair) bool {
	if len(pairs) != len(recPairs) {
		return false
	}
	used := make([]bool, len(recPairs))
	for _, p := range pairs {
		if p.Key.kind != KindString {
			return false
		}
		matched := false
		for j, rp := range recPairs {
			if used[j] {
				continue
			}
			if p.Key.stringVal == rp.Key && p.Val.Equal(rp.Val) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// tableEqual compares two Tables as ordered lists of pairs.
func tableEqual(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Key.Equal(b[i].Key) || !a[i].Val.Equal(b[i].Val) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal: Equal(a, b) implies
// a.Hash() == b.Hash(). It is suitable for use as a dict/set bucket
// key (spec.md §6: "hashing for dict keys").
func (v *Value) Hash() uint64 {
	if v == nil {
		return 0
	}
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	mix := func(x uint64) {
		h ^= x
		h *= prime
	}
	switch {
	case isNumericKind(v.kind):
		// Any two numerically-equal Int/Float values must hash equal;
		// hash the float64 view, which is what numericEqual compares
		// on for any mixed pair.
		f := v.floatVal
		if v.kind == KindInt {
			f = float64(v.intVal)
		}
		if f == 0 {
			f = 0 // -0.0 equals +0.0, so both hash as +0.0
		}
		if math.IsNaN(f) {
			// Every NaN is unique under Equal, so no two NaNs may
			// collide-and-compare-equal; a fixed, non-repeating
			// component keeps the contract without breaking hash
			// determinism for a single value's own Hash().
			mix(uint64(math.Float64bits(f)))
			return h
		}
		mix(math.Float64bits(f))
	case v.kind == KindString:
		mix(fnv64a(v.stringVal))
	case v.kind == KindBytes:
		mix(fnv64aBytes(v.bytesVal))
	case v.kind == KindBool:
		if v.boolVal {
			mix(1)
		}
	case v.kind == KindNull:
		mix(0)
	case v.kind == KindRecord || v.kind == KindDict:
		// A Dict can equal a Record (dictRecordEqual), so both hash alike.
		mix(fnv64a(KindRecord.String()))
	case v.kind == KindTagged:
		mix(fnv64a(v.tagName))
		mix(v.tagVal.Hash())
	default:
		mix(fnv64a(v.String()))
	}
	return h
}

func fnv64a(s string) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

func fnv64aBytes(b []byte) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	for i := 0; i < len(b); i++ {
		h ^= uint64(b[i])
		h *= prime
	}
	return h
}

// GoString renders a debugging form of v; it is not RSON and not
// meant to be parsed back.
func (v *Value) GoString() string {
	var b strings.Builder
	writeDebug(&b, v)
	return b.String()
}

func writeDebug(b *strings.Builder, v *Value) {
	if v == nil {
		b.WriteString("<nil>")
		return
	}
	switch v.kind {
	case KindList, KindSet:
		b.WriteString(v.kind.String())
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeDebug(b, it)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
