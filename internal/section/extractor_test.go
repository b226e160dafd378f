package section

import (
	"reflect"
	"testing"
)

func TestExtract_BasicDocument(t *testing.T) {
	text := "1. Intro\nBody text.\n1.1. Sub\nMore text.\n2. Next\nFinal."
	records := Extract(text, Options{})
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	want := []struct {
		number  string
		title   string
		content string
		level   int
		parent  string
	}{
		{"1", "Intro", "Body text.", 1, ""},
		{"1.1", "Sub", "More text.", 2, "1"},
		{"2", "Next", "Final.", 1, ""},
	}
	for i, w := range want {
		r := records[i]
		if r.Number != w.number || r.Title != w.title || r.Content != w.content {
			t.Errorf("record %d = {%q %q %q}, want {%q %q %q}",
				i, r.Number, r.Title, r.Content, w.number, w.title, w.content)
		}
		if r.Level != w.level || r.Parent != w.parent {
			t.Errorf("record %d: level/parent = %d/%q, want %d/%q", i, r.Level, r.Parent, w.level, w.parent)
		}
	}
}

func TestExtract_NoHeadersReturnsEmpty(t *testing.T) {
	records := Extract("Just ordinary prose.\nNothing numbered here.", Options{})
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
	if records := Extract("", Options{}); len(records) != 0 {
		t.Errorf("expected 0 records for empty input, got %d", len(records))
	}
}

func TestExtract_PreambleSwitch(t *testing.T) {
	text := "Some preface text.\n1. First\nBody."

	discarded := Extract(text, Options{})
	if len(discarded) != 1 {
		t.Fatalf("preamble discarded: expected 1 record, got %d", len(discarded))
	}
	if discarded[0].Number != "1" {
		t.Errorf("expected first record to be section 1, got %q", discarded[0].Number)
	}

	kept := Extract(text, Options{IncludePreamble: true})
	if len(kept) != 2 {
		t.Fatalf("preamble kept: expected 2 records, got %d", len(kept))
	}
	pre := kept[0]
	if pre.Number != "" || pre.Level != 0 {
		t.Errorf("preamble record number/level = %q/%d, want \"\"/0", pre.Number, pre.Level)
	}
	if pre.Content != "Some preface text." {
		t.Errorf("preamble content = %q", pre.Content)
	}
}

func TestExtract_PageMarkersStripped(t *testing.T) {
	text := "1. Intro\nStart of body.\n--- PAGE 2 ---\nEnd of body.\n2. Next\nMore."
	records := Extract(text, Options{})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	want := "Start of body.\nEnd of body."
	if records[0].Content != want {
		t.Errorf("content = %q, want %q (marker must not split the section)", records[0].Content, want)
	}
}

func TestExtract_NoMonotonicityCorrection(t *testing.T) {
	// Out-of-order and repeated numbering must pass through literally.
	text := "2.1 X\nfirst\n1.5 Y\nsecond\n2.1 X again\nthird"
	records := Extract(text, Options{})
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	got := []string{records[0].Number, records[1].Number, records[2].Number}
	want := []string{"2.1", "1.5", "2.1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("numbers = %v, want %v (no reordering, no merging)", got, want)
	}
}

func TestExtract_EmptyBodySections(t *testing.T) {
	text := "1. First\n1.1. Nested immediately\nBody."
	records := Extract(text, Options{})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Content != "" {
		t.Errorf("expected empty content for back-to-back headers, got %q", records[0].Content)
	}
}

func TestExtract_LetterPrefixedAncestry(t *testing.T) {
	text := "A1.1 Foo\nbody\nA1.1.1 Bar\nbody2"
	records := Extract(text, Options{})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Parent != "A1.1" {
		t.Errorf("parent = %q, want %q", records[1].Parent, "A1.1")
	}
	if !reflect.DeepEqual(records[1].Ancestry, []string{"A1", "A1.1"}) {
		t.Errorf("ancestry = %v, want [A1 A1.1]", records[1].Ancestry)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	text := "1. A\nbody\n1.1 B\nbody\n2. C\nbody"
	first := Extract(text, Options{IncludePreamble: true})
	second := Extract(text, Options{IncludePreamble: true})
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated extraction of identical input must be identical")
	}
}
