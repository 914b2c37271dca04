package prefilter

import "testing"

func TestContainsGate(t *testing.T) {
	g := &containsGate{scan: newMemmem([]byte("tag"), false)}

	if got := g.Find([]byte("a tag somewhere"), 0); got != 0 {
		t.Errorf("Find = %d, want 0", got)
	}
	if got := g.Find([]byte("a tag somewhere"), 2); got != 2 {
		t.Errorf("Find = %d, want 2", got)
	}
	if got := g.Find([]byte("a tag somewhere"), 3); got != -1 {
		t.Errorf("Find past the occurrence = %d, want -1", got)
	}
	if got := g.Find([]byte("no match"), 0); got != -1 {
		t.Errorf("Find = %d, want -1", got)
	}
}

func TestSuffixGate(t *testing.T) {
	g := newSuffixGate(seqOf(false, "ing", "ed"))

	tests := []struct {
		haystack string
		start    int
		want     int
	}{
		{"running", 0, 0},
		{"running", 4, 4},
		{"jumped", 0, 0},
		{"jumping jack", 0, -1},
		{"", 0, -1},
		{"ing", 0, 0},
	}
	for _, tt := range tests {
		if got := g.Find([]byte(tt.haystack), tt.start); got != tt.want {
			t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
		}
	}
}

func TestSuffixGateCommonTail(t *testing.T) {
	// Both suffixes end in "ng"; a subject without that tail is
	// rejected by the single common comparison.
	g := newSuffixGate(seqOf(false, "ring", "song"))

	if got := g.Find([]byte("a ring"), 0); got != 0 {
		t.Errorf("Find = %d, want 0", got)
	}
	if got := g.Find([]byte("a song"), 0); got != 0 {
		t.Errorf("Find = %d, want 0", got)
	}
	// Ends in "ng" but matches neither suffix.
	if got := g.Find([]byte("a lung"), 0); got != -1 {
		t.Errorf("Find = %d, want -1", got)
	}
	if got := g.Find([]byte("a ride"), 0); got != -1 {
		t.Errorf("Find = %d, want -1", got)
	}
}

func TestChain(t *testing.T) {
	c := &chain{
		scan:    newMemmem([]byte("lead"), false),
		confirm: &containsGate{scan: newMemmem([]byte("tail"), false)},
	}

	if got := c.Find([]byte("xx lead .. tail"), 0); got != 3 {
		t.Errorf("Find = %d, want 3", got)
	}
	if got := c.Find([]byte("xx lead only"), 0); got != -1 {
		t.Errorf("Find without confirmation = %d, want -1", got)
	}
	if got := c.Find([]byte("tail only"), 0); got != -1 {
		t.Errorf("Find without the lead = %d, want -1", got)
	}
	if c.IsComplete() {
		t.Error("IsComplete() = true")
	}
}
