package naming

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// DefaultTemplate numbers episodes from one and keeps the source extension.
const DefaultTemplate = "E{offset_index}{extension}"

// Built-in field names available to every template.
const (
	FieldIndex       = "index"
	FieldOffsetIndex = "offset_index"
	FieldExtension   = "extension"
)

// FormatError reports a template that cannot be parsed or rendered.
type FormatError struct {
	Template string
	Field    string
	Reason   string
}

func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("output format %q: field {%s}: %s", e.Template, e.Field, e.Reason)
	}
	return fmt.Sprintf("output format %q: %s", e.Template, e.Reason)
}

// Fields carries the values one destination is rendered from.
type Fields struct {
	Index       int
	OffsetIndex int
	Extension   string
	Captures    Captures
}

// Template is a parsed output format.
type Template struct {
	text  string
	parts []part
}

type part struct {
	literal string
	field   *field
}

type field struct {
	raw  string
	name string
	pos  int // -1 for named fields
	conv byte
	spec formatSpec
}

func (f *field) label() string {
	if f.pos >= 0 {
		return strconv.Itoa(f.pos)
	}
	return f.name
}

// ParseTemplate parses text using str.format-style fields: {name}, {0}, {}
// (automatic numbering), an optional !s or !r conversion and a format spec
// after ":". Literal braces are written {{ and }}.
func ParseTemplate(text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &FormatError{Template: text, Reason: "empty template"}
	}
	t := &Template{text: text}
	var (
		lit        strings.Builder
		autoNext   int
		usedAuto   bool
		usedManual bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, &FormatError{Template: text, Reason: "unmatched '{'"}
			}
			body := text[i+1 : i+1+end]
			if strings.ContainsRune(body, '{') {
				return nil, &FormatError{Template: text, Field: body, Reason: "nested replacement fields are not supported"}
			}
			f, err := parseField(text, body)
			if err != nil {
				return nil, err
			}
			if f.name == "" && f.pos < 0 {
				if usedManual {
					return nil, &FormatError{Template: text, Field: body, Reason: "cannot switch from manual field numbering to automatic numbering"}
				}
				usedAuto = true
				f.pos = autoNext
				autoNext++
			} else if f.pos >= 0 {
				if usedAuto {
					return nil, &FormatError{Template: text, Field: body, Reason: "cannot switch from automatic field numbering to manual numbering"}
				}
				usedManual = true
			}
			if lit.Len() > 0 {
				t.parts = append(t.parts, part{literal: lit.String()})
				lit.Reset()
			}
			t.parts = append(t.parts, part{field: f})
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, &FormatError{Template: text, Reason: "single '}' encountered"}
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		t.parts = append(t.parts, part{literal: lit.String()})
	}
	return t, nil
}

func parseField(text, body string) (*field, error) {
	f := &field{raw: body, pos: -1}
	name := body
	var specText string
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		specText = name[idx+1:]
		name = name[:idx]
	}
	if idx := strings.IndexByte(name, '!'); idx >= 0 {
		conv := name[idx+1:]
		name = name[:idx]
		if conv != "s" && conv != "r" {
			return nil, &FormatError{Template: text, Field: body, Reason: fmt.Sprintf("unknown conversion %q", conv)}
		}
		f.conv = conv[0]
	}
	if strings.ContainsAny(name, ".[]") {
		return nil, &FormatError{Template: text, Field: body, Reason: "attribute and index access are not supported"}
	}
	if name != "" && isDigits(name) {
		pos, err := strconv.Atoi(name)
		if err != nil {
			return nil, &FormatError{Template: text, Field: body, Reason: "invalid position"}
		}
		f.pos = pos
	} else {
		f.name = name
	}
	spec, err := parseSpec(specText)
	if err != nil {
		return nil, &FormatError{Template: text, Field: body, Reason: err.Error()}
	}
	f.spec = spec
	return f, nil
}

// Validate checks every referenced field against the built-ins and the
// groups m declares, and checks that built-in fields are compatible with
// their format specs. Capture values are only known per path, so their
// format compatibility is checked at Render.
func (t *Template) Validate(m *Matcher) error {
	for _, p := range t.parts {
		f := p.field
		if f == nil {
			continue
		}
		if f.pos >= 0 {
			if f.pos >= m.GroupCount() {
				return &FormatError{Template: t.text, Field: f.raw, Reason: fmt.Sprintf("input regex has %d capture group(s)", m.GroupCount())}
			}
			continue
		}
		if sample, ok := builtinSample(f.name); ok {
			if _, err := f.format(sample); err != nil {
				return &FormatError{Template: t.text, Field: f.raw, Reason: err.Error()}
			}
			continue
		}
		if !m.HasGroup(f.name) {
			if m.String() == "" {
				return &FormatError{Template: t.text, Field: f.raw, Reason: "no input regex is configured to capture it"}
			}
			return &FormatError{Template: t.text, Field: f.raw, Reason: "input regex has no group with this name"}
		}
	}
	return nil
}

func builtinSample(name string) (Value, bool) {
	switch name {
	case FieldIndex, FieldOffsetIndex:
		return Int(1), true
	case FieldExtension:
		return String(".mkv"), true
	}
	return Value{}, false
}

// Render produces the destination path, relative to the output root and
// slash separated. The result may contain directories but may not be
// absolute or climb out of the root.
func (t *Template) Render(fields Fields) (string, error) {
	var b strings.Builder
	for _, p := range t.parts {
		if p.field == nil {
			b.WriteString(p.literal)
			continue
		}
		value, ok := fields.lookup(p.field)
		if !ok {
			return "", &FormatError{Template: t.text, Field: p.field.raw, Reason: "value not available"}
		}
		out, err := p.field.format(value)
		if err != nil {
			return "", &FormatError{Template: t.text, Field: p.field.raw, Reason: err.Error()}
		}
		b.WriteString(out)
	}
	return t.checkDestination(b.String())
}

func (t *Template) checkDestination(rendered string) (string, error) {
	rendered = strings.ReplaceAll(rendered, `\`, "/")
	if strings.TrimSpace(rendered) == "" {
		return "", &FormatError{Template: t.text, Reason: "rendered an empty path"}
	}
	if path.IsAbs(rendered) {
		return "", &FormatError{Template: t.text, Reason: fmt.Sprintf("rendered absolute path %q", rendered)}
	}
	cleaned := path.Clean(rendered)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", &FormatError{Template: t.text, Reason: fmt.Sprintf("rendered path %q escapes the output root", rendered)}
	}
	return cleaned, nil
}

// String returns the template source.
func (t *Template) String() string {
	return t.text
}

func (f Fields) lookup(fl *field) (Value, bool) {
	if fl.pos >= 0 {
		return f.Captures.At(fl.pos)
	}
	switch fl.name {
	case FieldIndex:
		return Int(f.Index), true
	case FieldOffsetIndex:
		return Int(f.OffsetIndex), true
	case FieldExtension:
		return String(f.Extension), true
	}
	return f.Captures.Lookup(fl.name)
}

func (f *field) format(v Value) (string, error) {
	switch f.conv {
	case 's':
		v = String(v.String())
	case 'r':
		if v.IsInt() {
			v = String(v.String())
		} else {
			v = String("'" + v.String() + "'")
		}
	}
	return f.spec.apply(v)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
