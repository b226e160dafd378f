package chunk

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dgallion1/sectionize/internal/section"
)

func TestBuild_NestedLineage(t *testing.T) {
	text := "1. Intro\nBody text.\n1.1. Sub\nMore text.\n2. Next\nFinal."
	chunks := FromText(text, section.Options{})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	want := []struct {
		id        string
		header    string
		preceding []string
	}{
		{"chunk_001", "1.", []string{}},
		{"chunk_002", "1.1.", []string{"1."}},
		{"chunk_003", "2.", []string{}},
	}
	for i, w := range want {
		c := chunks[i]
		if c.ID != w.id {
			t.Errorf("chunk %d: id = %q, want %q", i, c.ID, w.id)
		}
		if c.Header != w.header {
			t.Errorf("chunk %d: header = %q, want %q", i, c.Header, w.header)
		}
		if !reflect.DeepEqual(c.PrecedingHeaderIDs, w.preceding) {
			t.Errorf("chunk %d: preceding = %v, want %v", i, c.PrecedingHeaderIDs, w.preceding)
		}
		if c.Role != "" {
			t.Errorf("chunk %d: role must be initialized empty, got %q", i, c.Role)
		}
	}
}

func TestBuild_NoHeadersReturnsEmpty(t *testing.T) {
	chunks := FromText("Nothing numbered here.\nJust prose.", section.Options{})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
	if got := Build(nil); got != nil {
		t.Errorf("expected nil for nil records, got %v", got)
	}
}

func TestBuild_LetterPrefixedNesting(t *testing.T) {
	text := "A1.1 Foo\nbody\nA1.1.1 Bar\nbody2"
	chunks := FromText(text, section.Options{})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !reflect.DeepEqual(chunks[1].PrecedingHeaderIDs, []string{"A1.1"}) {
		t.Errorf("preceding = %v, want [A1.1] (letter-prefixed parent, not bare numeric)",
			chunks[1].PrecedingHeaderIDs)
	}
	if !reflect.DeepEqual(chunks[1].PrecedingChunkIDs, []string{"chunk_001"}) {
		t.Errorf("preceding chunk ids = %v, want [chunk_001]", chunks[1].PrecedingChunkIDs)
	}
}

func TestBuild_OutOfOrderNumberingPassesThrough(t *testing.T) {
	text := "2.1 X\nfirst body\n1.5 Y\nsecond body"
	chunks := FromText(text, section.Options{})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Header != "2.1" || chunks[1].Header != "1.5" {
		t.Errorf("headers = [%q %q], want document order [2.1 1.5]", chunks[0].Header, chunks[1].Header)
	}
	// 1.5 has the same depth as 2.1, so 2.1 is popped first.
	if len(chunks[1].PrecedingHeaderIDs) != 0 {
		t.Errorf("preceding = %v, want empty", chunks[1].PrecedingHeaderIDs)
	}
}

func TestBuild_DeepHierarchy(t *testing.T) {
	text := "3.1. A\nb\n3.1.2. B\nb\n3.1.2.3. C\nb\n3.1.2.3.5. D\nb\n3.1.2.3.5.1. E\nb"
	chunks := FromText(text, section.Options{})
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}
	last := chunks[4]
	wantHeaders := []string{"3.1.", "3.1.2.", "3.1.2.3.", "3.1.2.3.5."}
	wantChunks := []string{"chunk_001", "chunk_002", "chunk_003", "chunk_004"}
	if !reflect.DeepEqual(last.PrecedingHeaderIDs, wantHeaders) {
		t.Errorf("preceding headers = %v, want %v", last.PrecedingHeaderIDs, wantHeaders)
	}
	if !reflect.DeepEqual(last.PrecedingChunkIDs, wantChunks) {
		t.Errorf("preceding chunk ids = %v, want %v", last.PrecedingChunkIDs, wantChunks)
	}
}

func TestBuild_SiblingPopsDeeperBranch(t *testing.T) {
	// 2.2 closes 2.1 and everything under it.
	text := "2. A\nb\n2.1. B\nb\n2.1.1. C\nb\n2.2. D\nb"
	chunks := FromText(text, section.Options{})
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if !reflect.DeepEqual(chunks[3].PrecedingHeaderIDs, []string{"2."}) {
		t.Errorf("preceding = %v, want [2.]", chunks[3].PrecedingHeaderIDs)
	}
}

func TestBuild_IDsStrictlyIncreasing(t *testing.T) {
	var text string
	for i := 1; i <= 12; i++ {
		text += fmt.Sprintf("%d. Section %d\nbody\n", i, i)
	}
	chunks := FromText(text, section.Options{})
	if len(chunks) != 12 {
		t.Fatalf("expected 12 chunks, got %d", len(chunks))
	}
	seen := make(map[string]bool)
	for i, c := range chunks {
		want := fmt.Sprintf("chunk_%03d", i+1)
		if c.ID != want {
			t.Errorf("chunk %d: id = %q, want %q", i, c.ID, want)
		}
		if seen[c.ID] {
			t.Errorf("duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestBuild_StackDepthsStrictlyIncreasing(t *testing.T) {
	// Re-implements the walk, asserting the invariant the builder relies on:
	// depths on the stack strictly increase from bottom to top.
	text := "1. A\nb\n1.1. B\nb\n1.1.1. C\nb\n1.2. D\nb\n2. E\nb\n2.1.1. F\nb\n2.1. G\nb"
	records := section.Extract(text, section.Options{})

	var depths []int
	for _, rec := range records {
		for len(depths) > 0 && depths[len(depths)-1] >= rec.Level {
			depths = depths[:len(depths)-1]
		}
		for i := 1; i < len(depths); i++ {
			if depths[i] <= depths[i-1] {
				t.Fatalf("stack depths not strictly increasing: %v", depths)
			}
		}
		depths = append(depths, rec.Level)
	}
}

func TestBuild_PreambleChunkDoesNotJoinStack(t *testing.T) {
	text := "Preface text here.\n1. First\nbody\n1.1. Second\nbody"
	chunks := FromText(text, section.Options{IncludePreamble: true})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Header != "" {
		t.Errorf("preamble chunk header = %q, want empty", chunks[0].Header)
	}
	// Section 1.1 nests only under 1., not under the preamble.
	if !reflect.DeepEqual(chunks[2].PrecedingHeaderIDs, []string{"1."}) {
		t.Errorf("preceding = %v, want [1.]", chunks[2].PrecedingHeaderIDs)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	text := "1. A\nbody\n1.1 B\nbody\n2. C\nbody"
	first := FromText(text, section.Options{})
	second := FromText(text, section.Options{})
	if !reflect.DeepEqual(first, second) {
		t.Error("two passes over identical input must produce identical chunks")
	}
}

func TestBuild_TitleOnlySectionKeepsText(t *testing.T) {
	// Folded single-line layout: the whole section sits on the header line.
	text := "1.2 Entire section on one line including its body."
	chunks := FromText(text, section.Options{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "Entire section on one line including its body." {
		t.Errorf("text = %q", chunks[0].Text)
	}
}

func TestBuild_TitleCarriedAlongsideBody(t *testing.T) {
	text := "2.1. Career Field Manager (CFM)\nProvides oversight of training."
	chunks := FromText(text, section.Options{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Title != "Career Field Manager (CFM)" {
		t.Errorf("title = %q", chunks[0].Title)
	}
	if chunks[0].Text != "Provides oversight of training." {
		t.Errorf("text = %q", chunks[0].Text)
	}
}

func TestUnstructured(t *testing.T) {
	chunks := Unstructured("  Whole document as one blob.  ")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.ID != "chunk_001" || c.Header != "" || c.Role != "" {
		t.Errorf("unexpected chunk %+v", c)
	}
	if c.Text != "Whole document as one blob." {
		t.Errorf("text = %q", c.Text)
	}
	if got := Unstructured("   "); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}
