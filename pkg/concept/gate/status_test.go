package gate

import (
	"reflect"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
)

func TestEvaluate(t *testing.T) {
	concepts := []concept.Concept{
		{ID: "basics", Proficiency: 0.95},
		{ID: "loops", Proficiency: 0.4},
		{ID: "recursion", Proficiency: 0},
		{ID: "review", Proficiency: 0.8},
	}
	edges := []concept.Edge{
		{From: "basics", To: "loops"},
		{From: "loops", To: "recursion"},
		{From: "loops", To: "review"},
	}

	got := Default().Evaluate(concepts, edges)
	want := []Status{StatusMastered, StatusAvailable, StatusLocked, StatusMastered}
	if len(got) != len(want) {
		t.Fatalf("Evaluate() returned %d statuses, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Concept.ID != concepts[i].ID {
			t.Errorf("status %d is for %s, want %s", i, s.Concept.ID, concepts[i].ID)
		}
		if s.Status != want[i] {
			t.Errorf("%s status = %s, want %s", s.Concept.ID, s.Status, want[i])
		}
	}

	if !reflect.DeepEqual(got[2].Blockers, []string{"loops"}) {
		t.Errorf("recursion blockers = %v, want [loops]", got[2].Blockers)
	}
	if !reflect.DeepEqual(got[3].Blockers, []string{"loops"}) {
		t.Errorf("review blockers = %v, want [loops] even though mastered", got[3].Blockers)
	}

	counts := Counts(got)
	if counts[StatusMastered] != 2 || counts[StatusAvailable] != 1 || counts[StatusLocked] != 1 {
		t.Errorf("Counts() = %v", counts)
	}
}

func TestEvaluateAgreesWithLockedConcepts(t *testing.T) {
	concepts := []concept.Concept{
		{ID: "a", Proficiency: 0.1},
		{ID: "b", Proficiency: 0.2},
		{ID: "c", Proficiency: 0.3},
		{ID: "d", Proficiency: 0.75},
	}
	edges := []concept.Edge{
		{From: "a", To: "b"},
		{From: "d", To: "c"},
		{From: "c", To: "a"},
	}
	g := Default()
	locked := g.LockedConcepts(concepts, edges)

	for _, s := range g.Evaluate(concepts, edges) {
		if s.Status == StatusMastered {
			continue
		}
		if (s.Status == StatusLocked) != locked.Has(s.Concept.ID) {
			t.Errorf("%s: Evaluate says %s, LockedConcepts has=%v", s.Concept.ID, s.Status, locked.Has(s.Concept.ID))
		}
	}
}

func TestFrontier(t *testing.T) {
	concepts := []concept.Concept{
		{ID: "a", Proficiency: 0.9},
		{ID: "b", Proficiency: 0.1},
		{ID: "c", Proficiency: 0.1},
		{ID: "d", Proficiency: 0.1},
	}
	edges := []concept.Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
	}

	var ids []string
	for _, c := range Default().Frontier(concepts, edges) {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "d"}) {
		t.Errorf("Frontier() = %v, want [b d]", ids)
	}
}
