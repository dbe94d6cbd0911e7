// Package gate derives lock state and prerequisite mastery for curriculum
// concepts.
//
// A concept is locked when at least one of its direct prerequisites has a
// proficiency below the mastery threshold. Lock derivation is purely local to
// each edge and never follows prerequisite chains, so a concept several hops
// away from an unmastered root may still be unlocked. Cycles cannot cause
// non-termination, but two mutually-prerequisite concepts can lock each
// other permanently; components.FindCycles reports such pairs.
//
// Edges whose source or target is not among the supplied concepts are
// skipped. No function in this package returns an error.
package gate

import (
	"math"
	"slices"

	"github.com/matzehuels/conceptmap/pkg/concept"
)

// DefaultThreshold is the proficiency at or above which a concept counts as
// mastered.
const DefaultThreshold = 0.7

// Gate evaluates prerequisite state against a fixed mastery threshold.
// The zero value uses a threshold of 0, under which every concept is mastered;
// use [New] or [Default].
type Gate struct {
	threshold float64
}

// New creates a gate with the given mastery threshold, clamped to [0,1].
// A NaN threshold falls back to [DefaultThreshold].
func New(threshold float64) Gate {
	if math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	return Gate{threshold: max(0, min(threshold, 1))}
}

// Default creates a gate with [DefaultThreshold].
func Default() Gate { return New(DefaultThreshold) }

// Threshold returns the mastery threshold.
func (g Gate) Threshold() float64 { return g.threshold }

// IsMastered reports whether c meets the mastery threshold.
func (g Gate) IsMastered(c concept.Concept) bool {
	return c.Proficiency >= g.threshold
}

// IDSet is a set of concept IDs.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the IDs in ascending order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Prerequisite is a direct prerequisite of a concept with its mastery flag.
type Prerequisite struct {
	Concept  concept.Concept
	Mastered bool
}

// LockedConcepts returns the IDs of concepts that have at least one direct
// prerequisite below the threshold.
func (g Gate) LockedConcepts(concepts []concept.Concept, edges []concept.Edge) IDSet {
	idx := concept.Index(concepts)
	locked := make(IDSet)
	for _, e := range edges {
		prereq, ok := idx[e.From]
		if !ok {
			continue
		}
		if _, ok := idx[e.To]; !ok {
			continue
		}
		if !g.IsMastered(prereq) {
			locked[e.To] = struct{}{}
		}
	}
	return locked
}

// Prerequisites returns the direct prerequisites of id in edge order.
func (g Gate) Prerequisites(id string, concepts []concept.Concept, edges []concept.Edge) []Prerequisite {
	idx := concept.Index(concepts)
	if _, ok := idx[id]; !ok {
		return nil
	}
	var out []Prerequisite
	for _, e := range edges {
		if e.To != id {
			continue
		}
		prereq, ok := idx[e.From]
		if !ok {
			continue
		}
		out = append(out, Prerequisite{Concept: prereq, Mastered: g.IsMastered(prereq)})
	}
	return out
}

// Dependents returns the concepts that list id as a direct prerequisite,
// in edge order.
func (g Gate) Dependents(id string, concepts []concept.Concept, edges []concept.Edge) []concept.Concept {
	idx := concept.Index(concepts)
	if _, ok := idx[id]; !ok {
		return nil
	}
	var out []concept.Concept
	for _, e := range edges {
		if e.From != id {
			continue
		}
		if dep, ok := idx[e.To]; ok {
			out = append(out, dep)
		}
	}
	return out
}

// IsLocked reports whether any direct prerequisite of id is unmastered.
// Concepts with no prerequisites, and unknown IDs, are never locked.
func (g Gate) IsLocked(id string, concepts []concept.Concept, edges []concept.Edge) bool {
	for _, p := range g.Prerequisites(id, concepts, edges) {
		if !p.Mastered {
			return true
		}
	}
	return false
}
