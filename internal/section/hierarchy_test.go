package section

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve_LevelMatchesPartCount(t *testing.T) {
	cases := []struct {
		token  string
		level  int
		parent string
	}{
		{"1", 1, ""},
		{"2.3", 2, "2"},
		{"2.3.1", 3, "2.3"},
		{"A1", 1, ""},
		{"A1.2", 2, "A1"},
		{"3.1.2.3.5.1", 6, "3.1.2.3.5"},
	}
	for _, tc := range cases {
		h, err := Resolve(tc.token)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error %v", tc.token, err)
			continue
		}
		if h.Level != tc.level {
			t.Errorf("Resolve(%q): level = %d, want %d", tc.token, h.Level, tc.level)
		}
		if h.Parent != tc.parent {
			t.Errorf("Resolve(%q): parent = %q, want %q", tc.token, h.Parent, tc.parent)
		}
		if len(h.Ancestry) != tc.level-1 {
			t.Errorf("Resolve(%q): ancestry length = %d, want %d", tc.token, len(h.Ancestry), tc.level-1)
		}
	}
}

func TestResolve_AncestryIsPrefixChain(t *testing.T) {
	h, err := Resolve("2.3.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2", "2.3"}
	if len(h.Ancestry) != len(want) {
		t.Fatalf("ancestry = %v, want %v", h.Ancestry, want)
	}
	for i := range want {
		if h.Ancestry[i] != want[i] {
			t.Errorf("ancestry[%d] = %q, want %q", i, h.Ancestry[i], want[i])
		}
		if !strings.HasPrefix("2.3.1", h.Ancestry[i]) {
			t.Errorf("ancestry[%d] = %q is not a prefix of the token", i, h.Ancestry[i])
		}
	}
}

func TestResolve_LetterPrefixCarriedLiterally(t *testing.T) {
	h, err := Resolve("A1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Parent != "A1.2" {
		t.Errorf("parent = %q, want %q", h.Parent, "A1.2")
	}
	if h.Ancestry[0] != "A1" {
		t.Errorf("ancestry[0] = %q, want %q (letter must not be stripped)", h.Ancestry[0], "A1")
	}
}

func TestResolve_InvalidTokens(t *testing.T) {
	for _, token := range []string{"", "1..2", ".1", "1."} {
		_, err := Resolve(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Resolve(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}
