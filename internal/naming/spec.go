package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatSpec is the parsed form of [[fill]align][sign][#][0][width][,|_][.precision][type].
type formatSpec struct {
	fill      rune
	align     byte
	sign      byte
	alternate bool
	zero      bool
	width     int
	grouping  byte
	precision int // -1 when absent
	verb      byte
}

func parseSpec(s string) (formatSpec, error) {
	spec := formatSpec{precision: -1}
	if s == "" {
		return spec, nil
	}
	if r, size := utf8.DecodeRuneInString(s); size < len(s) && isAlign(s[size]) {
		spec.fill = r
		spec.align = s[size]
		s = s[size+1:]
	} else if isAlign(s[0]) {
		spec.align = s[0]
		s = s[1:]
	}
	if s != "" && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		spec.sign = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '#' {
		spec.alternate = true
		s = s[1:]
	}
	if s != "" && s[0] == '0' {
		spec.zero = true
		s = s[1:]
	}
	width, s := leadingInt(s)
	spec.width = width
	if s != "" && (s[0] == ',' || s[0] == '_') {
		spec.grouping = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		precision, rest := leadingInt(s[1:])
		if len(rest) == len(s)-1 {
			return spec, errors.New("format specifier missing precision")
		}
		spec.precision = precision
		s = rest
	}
	if len(s) > 1 {
		return spec, fmt.Errorf("invalid format specifier %q", s)
	}
	if s != "" {
		switch s[0] {
		case 'd', 'b', 'o', 'x', 'X', 's':
			spec.verb = s[0]
		default:
			return spec, fmt.Errorf("unsupported format code %q", s)
		}
	}
	return spec, nil
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '=' || c == '^'
}

// leadingInt consumes a run of decimal digits and returns its value and the rest.
func leadingInt(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s[i:]
	}
	return n, s[i:]
}

func (s formatSpec) apply(v Value) (string, error) {
	if v.IsInt() {
		return s.applyInt(v.num)
	}
	return s.applyString(v.str)
}

func (s formatSpec) applyInt(n int) (string, error) {
	if s.verb == 's' {
		return "", errors.New("format code 's' cannot be used with an integer value")
	}
	if s.precision >= 0 {
		return "", errors.New("precision not allowed with an integer value")
	}
	base, prefix := 10, ""
	switch s.verb {
	case 'b':
		base, prefix = 2, "0b"
	case 'o':
		base, prefix = 8, "0o"
	case 'x':
		base, prefix = 16, "0x"
	case 'X':
		base, prefix = 16, "0X"
	}
	if s.grouping == ',' && base != 10 {
		return "", errors.New("cannot use ',' with a non-decimal format code")
	}
	negative := n < 0
	magnitude := uint64(n)
	if negative {
		magnitude = uint64(-(n + 1)) + 1
	}
	digits := strconv.FormatUint(magnitude, base)
	if s.verb == 'X' {
		digits = strings.ToUpper(digits)
	}
	if s.grouping != 0 {
		every := 3
		if base != 10 {
			every = 4
		}
		digits = group(digits, every, s.grouping)
	}
	head := ""
	switch {
	case negative:
		head = "-"
	case s.sign == '+':
		head = "+"
	case s.sign == ' ':
		head = " "
	}
	if s.alternate {
		head += prefix
	}

	fill, align := s.padding()
	if align == 0 {
		align = '>'
		if s.zero {
			align = '='
		}
	}
	if align == '=' {
		if n := s.width - utf8.RuneCountInString(head) - utf8.RuneCountInString(digits); n > 0 {
			return head + strings.Repeat(string(fill), n) + digits, nil
		}
		return head + digits, nil
	}
	return pad(head+digits, s.width, fill, align), nil
}

func (s formatSpec) applyString(str string) (string, error) {
	switch {
	case s.verb != 0 && s.verb != 's':
		return "", fmt.Errorf("format code '%c' cannot be used with a string value %q", s.verb, str)
	case s.sign != 0:
		return "", errors.New("sign not allowed with a string value")
	case s.alternate:
		return "", errors.New("alternate form (#) not allowed with a string value")
	case s.grouping != 0:
		return "", errors.New("cannot group digits of a string value")
	case s.align == '=':
		return "", errors.New("'=' alignment not allowed with a string value")
	}
	if s.precision >= 0 && utf8.RuneCountInString(str) > s.precision {
		str = string([]rune(str)[:s.precision])
	}
	fill, align := s.padding()
	if align == 0 {
		align = '<'
	}
	return pad(str, s.width, fill, align), nil
}

// padding returns the fill character and the explicit alignment, if any.
// The 0 flag pads with zeros under every alignment unless a fill is given.
func (s formatSpec) padding() (rune, byte) {
	fill := s.fill
	if fill == 0 {
		fill = ' '
		if s.zero {
			fill = '0'
		}
	}
	return fill, s.align
}

func pad(s string, width int, fill rune, align byte) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	f := string(fill)
	switch align {
	case '<':
		return s + strings.Repeat(f, n)
	case '^':
		left := n / 2
		return strings.Repeat(f, left) + s + strings.Repeat(f, n-left)
	default:
		return strings.Repeat(f, n) + s
	}
}

func group(digits string, every int, sep byte) string {
	if len(digits) <= every {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % every
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += every {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+every])
	}
	return b.String()
}
