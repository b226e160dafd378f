package section

import "testing"

func TestMatchLine_StrictAcceptsNumberedHeaders(t *testing.T) {
	cases := []struct {
		line      string
		raw       string
		canonical string
		title     string
	}{
		{"1. Introduction", "1.", "1", "Introduction"},
		{"12. Scope", "12.", "12", "Scope"},
		{"1.2 Purpose", "1.2", "1.2", "Purpose"},
		{"2.3.1. Detail", "2.3.1.", "2.3.1", "Detail"},
		{"A1. Annex", "A1.", "A1", "Annex"},
		{"A1.2.3 Deep annex", "A1.2.3", "A1.2.3", "Deep annex"},
		{"3.1.2.3.5.1. Very deep", "3.1.2.3.5.1.", "3.1.2.3.5.1", "Very deep"},
		{"1.", "1.", "1", ""},
	}
	m := NewMatcher(ModeStrict)
	for _, tc := range cases {
		got, ok := m.MatchLine(tc.line)
		if !ok {
			t.Errorf("%q: expected a match", tc.line)
			continue
		}
		if got.Raw != tc.raw {
			t.Errorf("%q: raw = %q, want %q", tc.line, got.Raw, tc.raw)
		}
		if got.Canonical != tc.canonical {
			t.Errorf("%q: canonical = %q, want %q", tc.line, got.Canonical, tc.canonical)
		}
		if got.Title != tc.title {
			t.Errorf("%q: title = %q, want %q", tc.line, got.Title, tc.title)
		}
	}
}

func TestMatchLine_StrictRejectsNonHeaders(t *testing.T) {
	lines := []string{
		"",
		"Plain body text.",
		"1 Introduction",      // no dot after first group
		"1984 was a year",     // three digits never form a group
		"a1. lowercase letter",
		"B2. only A is a valid prefix",
		"--- PAGE 3 ---",
		" 1. leading space",
	}
	m := NewMatcher(ModeStrict)
	for _, line := range lines {
		if got, ok := m.MatchLine(line); ok {
			t.Errorf("%q: unexpected match %+v", line, got)
		}
	}
}

func TestMatchLine_LooseRequiresTwoComponents(t *testing.T) {
	m := NewMatcher(ModeLoose)

	if _, ok := m.MatchLine("1. Single component"); ok {
		t.Error("loose mode should reject a single numeric component")
	}
	if _, ok := m.MatchLine("3 dogs walked by"); ok {
		t.Error("loose mode should reject a bare number")
	}

	got, ok := m.MatchLine("1.2 Purpose")
	if !ok {
		t.Fatal("loose mode should accept two components")
	}
	if got.Raw != "1.2" {
		t.Errorf("raw = %q, want %q", got.Raw, "1.2")
	}

	if _, ok := m.MatchLine("A1.1.1. Annex detail"); !ok {
		t.Error("loose mode should accept a letter-prefixed multi-component token")
	}
}

func TestFindAll_DocumentOrder(t *testing.T) {
	text := "preface\n2.1 Later first\nbody\n1.5 Earlier second\nmore"
	m := NewMatcher(ModeStrict)
	matches := m.FindAll(text)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Canonical != "2.1" || matches[1].Canonical != "1.5" {
		t.Errorf("expected document order [2.1 1.5], got [%s %s]",
			matches[0].Canonical, matches[1].Canonical)
	}
	if matches[0].Start >= matches[1].Start {
		t.Error("match offsets should be strictly increasing")
	}
}

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"1.":       "1",
		"1.2.":     "1.2",
		"A1.2.3.":  "A1.2.3",
		"2.3.1":    "2.3.1",
		" 1.1. ":   "1.1",
	}
	for in, want := range cases {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}
