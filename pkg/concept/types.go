package concept

import (
	"errors"
	"math"
)

var (
	// ErrInvalidConceptID is returned by [Graph.Validate] when a concept has
	// an empty identifier.
	ErrInvalidConceptID = errors.New("concept ID must not be empty")

	// ErrDuplicateConceptID is returned by [Graph.Validate] when two concepts
	// share the same identifier.
	ErrDuplicateConceptID = errors.New("duplicate concept ID")
)

// Depth tiers used for radial placement.
const (
	TierFoundation   = 1
	TierIntermediate = 2
	TierAdvanced     = 3
)

// Concept is a unit of curriculum knowledge with a mastery estimate.
//
// Proficiency and Confidence are expected to lie in [0,1]; use [Concept.Clamp]
// to enforce that after external mutation.
type Concept struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Proficiency float64 `json:"proficiency"`          // 0 = untested
	Confidence  float64 `json:"confidence,omitempty"` // certainty of Proficiency
	DepthTier   int     `json:"depth_tier,omitempty"` // 1 = foundation, 3+ = advanced
}

// DisplayName returns the name if set, otherwise the ID.
func (c Concept) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Clamp returns a copy of c with Proficiency and Confidence limited to [0,1].
// NaN scores become 0. A DepthTier below 1 becomes [TierFoundation].
func (c Concept) Clamp() Concept {
	c.Proficiency = clampUnit(c.Proficiency)
	c.Confidence = clampUnit(c.Confidence)
	if c.DepthTier < TierFoundation {
		c.DepthTier = TierFoundation
	}
	return c
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(v, 1))
}

// Edge is a directed prerequisite relation: From must be mastered before To
// is unlocked.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Reverse returns the edge with its endpoints swapped.
func (e Edge) Reverse() Edge { return Edge{From: e.To, To: e.From} }

// Position is a 2D coordinate assigned to a concept by a layout.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Norm returns the Euclidean distance of p from the origin.
func (p Position) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Index maps concept IDs to concepts. When IDs repeat, the first occurrence
// wins, matching lookup-by-scan semantics.
func Index(concepts []Concept) map[string]Concept {
	idx := make(map[string]Concept, len(concepts))
	for _, c := range concepts {
		if _, ok := idx[c.ID]; !ok {
			idx[c.ID] = c
		}
	}
	return idx
}
