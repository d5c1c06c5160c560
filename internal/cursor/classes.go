package cursor

// Byte/rune classification helpers, generalized from the teacher's
// internal/scanner/charutil.go (IsAlpha/IsDigit/IsAlnum/IsCtrl,
// generic over byte|rune) to the classes spec.md §4.2 needs: ASCII
// identifier-start/continue, and the digit alphabets of the five
// number radices in §4.3.

// IsSpace reports whether b is one of the four RSON whitespace bytes
// (space, tab, CR, LF). No other byte is whitespace per spec.md §4.2.
func IsSpace[T byte | rune](b T) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// IsCtrl reports whether b is a C0 control code point.
func IsCtrl[T byte | rune](b T) bool {
	return b < 0x20
}

// IsIdentStart reports whether b can start an identifier or tag-name
// segment: an ASCII letter or underscore. spec.md §9 resolves the
// "Unicode letter categories" Open Question to ASCII-only, fail-closed.
func IsIdentStart[T byte | rune](b T) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

// IsIdentCont reports whether b can continue an identifier or
// tag-name segment: a letter, digit, or underscore.
func IsIdentCont[T byte | rune](b T) bool {
	return IsIdentStart(b) || IsDigit(b)
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '9'
}

// IsBinDigit reports whether b is a valid digit in a 0b literal.
func IsBinDigit[T byte | rune](b T) bool {
	return b == '0' || b == '1'
}

// IsOctDigit reports whether b is a valid digit in a 0o/0c literal.
func IsOctDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '7'
}

// IsHexDigit reports whether b is a valid digit in a 0x literal or a
// \x/\u/\U escape.
func IsHexDigit[T byte | rune](b T) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// HexDigitValue returns the numeric value of a hex digit byte; the
// caller must have checked IsHexDigit first.
func HexDigitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}
