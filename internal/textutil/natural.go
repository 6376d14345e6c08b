package textutil

import "strings"

// NaturalCompare orders a and b by splitting them into alternating runs of
// digits and non-digits. Digit runs compare by numeric value, other runs
// byte-wise. When two strings are equal under that rule (for example
// "title_01" and "title_1") the plain byte order decides, so the result is a
// total order.
func NaturalCompare(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		aDigit, bDigit := isDigit(a[ai]), isDigit(b[bi])
		switch {
		case aDigit && bDigit:
			aEnd := scanDigits(a, ai)
			bEnd := scanDigits(b, bi)
			if c := compareNumeric(a[ai:aEnd], b[bi:bEnd]); c != 0 {
				return c
			}
			ai, bi = aEnd, bEnd
		case aDigit != bDigit:
			if a[ai] < b[bi] {
				return -1
			}
			return 1
		default:
			aEnd := scanText(a, ai)
			bEnd := scanText(b, bi)
			if a[ai:aEnd] != b[bi:bEnd] {
				// A shorter run sorts against the byte that follows it.
				return strings.Compare(a[ai:], b[bi:])
			}
			ai, bi = aEnd, bEnd
		}
	}
	switch {
	case ai < len(a):
		return 1
	case bi < len(b):
		return -1
	}
	return strings.Compare(a, b)
}

// NaturalLess reports whether a sorts before b in natural order.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func scanDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func scanText(s string, i int) int {
	for i < len(s) && !isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
