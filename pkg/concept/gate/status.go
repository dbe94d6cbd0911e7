package gate

import "github.com/matzehuels/conceptmap/pkg/concept"

// Status summarizes where a learner stands on a concept.
type Status string

const (
	// StatusMastered means proficiency is at or above the threshold.
	StatusMastered Status = "mastered"
	// StatusAvailable means every direct prerequisite is mastered but the
	// concept itself is not.
	StatusAvailable Status = "available"
	// StatusLocked means at least one direct prerequisite is unmastered.
	StatusLocked Status = "locked"
)

// ConceptStatus is the evaluated state of one concept.
type ConceptStatus struct {
	Concept  concept.Concept
	Status   Status
	Blockers []string // unmastered direct prerequisites, in edge order
}

// Evaluate returns the status of every concept in input order.
//
// Mastery takes precedence over lock state: a concept whose own proficiency
// meets the threshold is reported as mastered even if a prerequisite has since
// dropped below it. Blockers are still listed in that case.
func (g Gate) Evaluate(concepts []concept.Concept, edges []concept.Edge) []ConceptStatus {
	idx := concept.Index(concepts)
	blockers := make(map[string][]string)
	for _, e := range edges {
		prereq, ok := idx[e.From]
		if !ok {
			continue
		}
		if _, ok := idx[e.To]; !ok {
			continue
		}
		if !g.IsMastered(prereq) {
			blockers[e.To] = append(blockers[e.To], e.From)
		}
	}

	out := make([]ConceptStatus, len(concepts))
	for i, c := range concepts {
		s := ConceptStatus{Concept: c, Blockers: blockers[c.ID]}
		switch {
		case g.IsMastered(c):
			s.Status = StatusMastered
		case len(s.Blockers) > 0:
			s.Status = StatusLocked
		default:
			s.Status = StatusAvailable
		}
		out[i] = s
	}
	return out
}

// Frontier returns the concepts a learner can work on next: unlocked and not
// yet mastered, in input order.
func (g Gate) Frontier(concepts []concept.Concept, edges []concept.Edge) []concept.Concept {
	var out []concept.Concept
	for _, s := range g.Evaluate(concepts, edges) {
		if s.Status == StatusAvailable {
			out = append(out, s.Concept)
		}
	}
	return out
}

// Counts tallies statuses.
func Counts(statuses []ConceptStatus) map[Status]int {
	out := make(map[Status]int, 3)
	for _, s := range statuses {
		out[s.Status]++
	}
	return out
}
