package ranking

import "testing"

type course struct {
	ID    string
	Title string
}

func courseID(c course) string { return c.ID }

func TestMergerKeepsBestSource(t *testing.T) {
	m := NewMerger[course]()
	m.Add("c1", course{ID: "c1"}, SourceContentBased)
	m.Add("c1", course{ID: "c1"}, SourceGapDriven)
	m.Add("c1", course{ID: "c1"}, SourceCollaborative)

	if m.Len() != 1 {
		t.Fatalf("Expected 1 unique candidate, got %d", m.Len())
	}
	src, ok := m.SourceOf("c1")
	if !ok || src != SourceGapDriven {
		t.Errorf("Expected best source gap_driven, got %v", src)
	}
}

func TestMergerRankOrdering(t *testing.T) {
	m := NewMerger[course]()
	m.Add("low", course{ID: "low"}, SourceContentBased)
	m.Add("mid", course{ID: "mid"}, SourceCollaborative)
	m.Add("high", course{ID: "high"}, SourceGapDriven)

	ranked := m.Ranked()
	want := []string{"high", "mid", "low"}
	for i, c := range ranked {
		if c.ID != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], c.ID)
		}
	}
}

func TestMergerStableTiebreak(t *testing.T) {
	m := NewMerger[course]()
	m.Add("a", course{ID: "a"}, SourceCollaborative)
	m.Add("b", course{ID: "b"}, SourceCollaborative)
	m.Add("c", course{ID: "c"}, SourceCollaborative)

	ranked := m.Ranked()
	want := []string{"a", "b", "c"}
	for i, c := range ranked {
		if c.ID != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], c.ID)
		}
	}
}

func TestMergerPromotionDoesNotDuplicate(t *testing.T) {
	m := NewMerger[course]()
	m.AddAll([]course{{ID: "a"}, {ID: "b"}}, SourceContentBased, courseID)
	m.AddAll([]course{{ID: "b"}, {ID: "c"}}, SourceGapDriven, courseID)

	ranked := m.Ranked()
	if len(ranked) != 3 {
		t.Fatalf("Expected 3 unique candidates, got %d", len(ranked))
	}
	// b was promoted to gap_driven, so it outranks a.
	if ranked[0].ID != "b" || ranked[1].ID != "c" {
		t.Errorf("Expected b, c first (gap driven), got %s, %s", ranked[0].ID, ranked[1].ID)
	}
	if ranked[2].ID != "a" {
		t.Errorf("Expected a last, got %s", ranked[2].ID)
	}
}

func TestMergerIgnoresEmptyID(t *testing.T) {
	m := NewMerger[course]()
	m.Add("", course{}, SourceGapDriven)
	if m.Len() != 0 {
		t.Errorf("Expected empty IDs to be ignored, got %d candidates", m.Len())
	}
}
