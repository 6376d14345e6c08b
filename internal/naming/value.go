package naming

import "strconv"

// Value is a template field value. Capture groups holding a canonical decimal
// integer become integers so numeric format specs apply to them; everything
// else stays a string.
type Value struct {
	str   string
	num   int
	isInt bool
}

// Int wraps an integer field value.
func Int(n int) Value {
	return Value{num: n, isInt: true}
}

// String wraps a string field value.
func String(s string) Value {
	return Value{str: s}
}

// CaptureValue converts a captured substring, promoting it to an integer when
// the integer prints back to exactly the same text ("7" but not "07").
func CaptureValue(s string) Value {
	n, err := strconv.Atoi(s)
	if err == nil && strconv.Itoa(n) == s {
		return Int(n)
	}
	return String(s)
}

// IsInt reports whether v holds an integer.
func (v Value) IsInt() bool {
	return v.isInt
}

// String returns the plain textual form of v.
func (v Value) String() string {
	if v.isInt {
		return strconv.Itoa(v.num)
	}
	return v.str
}

// Captures holds the groups produced by a Matcher for one path.
type Captures struct {
	// Positional lists every group, named or not, in declaration order.
	Positional []Value
	// Named maps group names to their values.
	Named map[string]Value
}

// Lookup returns the named capture.
func (c Captures) Lookup(name string) (Value, bool) {
	v, ok := c.Named[name]
	return v, ok
}

// At returns the capture at zero-based position pos.
func (c Captures) At(pos int) (Value, bool) {
	if pos < 0 || pos >= len(c.Positional) {
		return Value{}, false
	}
	return c.Positional[pos], true
}
