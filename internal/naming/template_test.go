package naming

import (
	"errors"
	"testing"
)

func mustMatcher(t *testing.T, pattern string) *Matcher {
	t.Helper()
	m, err := CompileMatcher(pattern)
	if err != nil {
		t.Fatalf("CompileMatcher(%q): %v", pattern, err)
	}
	return m
}

func mustTemplate(t *testing.T, text string) *Template {
	t.Helper()
	tmpl, err := ParseTemplate(text)
	if err != nil {
		t.Fatalf("ParseTemplate(%q): %v", text, err)
	}
	return tmpl
}

func TestTemplateNamedCaptureScenario(t *testing.T) {
	m := mustMatcher(t, `Season (?P<season>\d+) Disc (?P<disc>\d+)/.*`)
	tmpl := mustTemplate(t, "S{season}D{disc}E{offset_index:02d}{extension}")
	if err := tmpl.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	caps, ok := m.Match("Season 1 Disc 2/title_4.mkv")
	if !ok {
		t.Fatal("expected match")
	}
	got, err := tmpl.Render(Fields{Index: 4, OffsetIndex: 5, Extension: ".mkv", Captures: caps})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "S1D2E05.mkv" {
		t.Fatalf("got %q, want S1D2E05.mkv", got)
	}
}

func TestTemplateDefault(t *testing.T) {
	tmpl := mustTemplate(t, DefaultTemplate)
	if err := tmpl.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got, err := tmpl.Render(Fields{Index: 0, OffsetIndex: 1, Extension: ".mkv"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "E1.mkv" {
		t.Fatalf("got %q", got)
	}
}

func TestTemplateRendering(t *testing.T) {
	m := mustMatcher(t, `(?P<show>[^/]+)/Disc (\d+)/`)
	caps, ok := m.Match("Show Name/Disc 3/title_1.mkv")
	if !ok {
		t.Fatal("expected match")
	}
	fields := Fields{Index: 11, OffsetIndex: 12, Extension: ".mkv", Captures: caps}
	tests := []struct {
		template string
		want     string
	}{
		{"{show}/Season 01/E{offset_index:03}{extension}", "Show Name/Season 01/E012.mkv"},
		{"{0} - {1:02d}x{index}{extension}", "Show Name - 03x11.mkv"},
		{"{show!r}{extension}", "'Show Name'.mkv"},
		{"{show:.4}{extension}", "Show.mkv"},
		{"{show:*^13}{extension}", "**Show Name**.mkv"},
		{"{show:>11}{extension}", "  Show Name.mkv"},
		{"{offset_index:<4}|", "12  |"},
		{"{offset_index:+}{extension}", "+12.mkv"},
		{"{offset_index:#x}{extension}", "0xc.mkv"},
		{"{offset_index:08b}{extension}", "00001100.mkv"},
		{"{{literal}}/{offset_index}{extension}", "{literal}/12.mkv"},
		{"{1!s:>3}{extension}", "  3.mkv"},
		{"{offset_index:<04d}|", "1200|"},
		{"{offset_index:^06}|", "001200|"},
		{"{offset_index:>04}|", "0012|"},
		{"{offset_index:x<04d}|", "12xx|"},
		{"{1:=+04d}|", "+003|"},
		{"{show:012}|", "Show Name000|"},
		{"{show:>012}|", "000Show Name|"},
		{"./a/../E{offset_index}{extension}", "E12.mkv"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			tmpl := mustTemplate(t, tt.template)
			if err := tmpl.Validate(m); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			got, err := tmpl.Render(fields)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateAutoNumbering(t *testing.T) {
	m := mustMatcher(t, `Disc (\d+)/title_(\d+)`)
	caps, _ := m.Match("Disc 2/title_7.mkv")
	tmpl := mustTemplate(t, "D{}T{:02d}{extension}")
	if err := tmpl.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got, err := tmpl.Render(Fields{Extension: ".mkv", Captures: caps})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "D2T07.mkv" {
		t.Fatalf("got %q", got)
	}
}

func TestTemplateGrouping(t *testing.T) {
	tmpl := mustTemplate(t, "{index:,}_{offset_index:_x}")
	got, err := tmpl.Render(Fields{Index: 1234567, OffsetIndex: 0x12345})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "1,234,567_1_2345" {
		t.Fatalf("got %q", got)
	}
}

func TestParseTemplateErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"E{offset_index",
		"E}offset_index",
		"{0}{}",
		"{}{0}",
		"{show.name}",
		"{show[0]}",
		"{show!x}",
		"{offset_index:02q}",
		"{offset_index:02dd}",
		"{offset_index:.}",
		"{a{b}}",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseTemplate(text)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError for %q, got %v", text, err)
			}
		})
	}
}

func TestValidateRejectsUnknownCaptures(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		template string
	}{
		{"missing named group", `Disc (?P<disc>\d+)`, "S{season}E{offset_index}{extension}"},
		{"no regex", "", "S{season}{extension}"},
		{"position out of range", `Disc (\d+)`, "{1}{extension}"},
		{"positional without regex", "", "{0}{extension}"},
		{"numeric code on extension", "", "E{offset_index}{extension:d}"},
		{"precision on index", "", "E{index:.2}{extension}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := mustTemplate(t, tt.template)
			err := tmpl.Validate(mustMatcher(t, tt.pattern))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestRenderRejectsUnsafeDestinations(t *testing.T) {
	m := mustMatcher(t, `(?P<name>[^/]+)/`)
	for _, tt := range []struct {
		template string
		path     string
	}{
		{"/abs/E{offset_index}{extension}", "Disc/a.mkv"},
		{"../E{offset_index}{extension}", "Disc/a.mkv"},
		{"{name}/../../E{offset_index}{extension}", "Disc/a.mkv"},
		{"{name}", "./a.mkv"},
	} {
		t.Run(tt.template, func(t *testing.T) {
			tmpl := mustTemplate(t, tt.template)
			if err := tmpl.Validate(m); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			caps, ok := m.Match(tt.path)
			if !ok {
				t.Fatalf("expected %q to match", tt.path)
			}
			if _, err := tmpl.Render(Fields{OffsetIndex: 1, Extension: ".mkv", Captures: caps}); err == nil {
				t.Fatal("expected unsafe destination to be rejected")
			}
		})
	}
}

func TestRenderRejectsNumericSpecOnStringCapture(t *testing.T) {
	m := mustMatcher(t, `Disc (?P<disc>\w+)/`)
	tmpl := mustTemplate(t, "D{disc:02d}{extension}")
	if err := tmpl.Validate(m); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	caps, _ := m.Match("Disc A/title_1.mkv")
	_, err := tmpl.Render(Fields{Extension: ".mkv", Captures: caps})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}
