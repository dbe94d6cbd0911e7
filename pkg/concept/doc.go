// Package concept defines the curriculum graph model shared by the analysis,
// gating, layout, and rendering packages.
//
// # Overview
//
// A curriculum is a directed graph of [Concept] nodes connected by
// prerequisite [Edge] values. An edge From→To means "From must be mastered
// before To is unlocked". Each concept carries a proficiency estimate in
// [0,1], a confidence in that estimate, and a depth tier used for radial
// placement (1 = foundation, 2 = intermediate, 3+ = advanced).
//
// The graph is intentionally loose: edges may reference concepts that are
// not present, multiple edges may target the same concept, and cycles are
// allowed. Every algorithm in this module treats a dangling reference as
// "not found" and skips it rather than failing.
//
// # Serialization
//
// [Graph] is the canonical JSON format:
//
//	{
//	  "concepts": [
//	    {"id": "vars", "name": "Variables", "proficiency": 0.9, "depth_tier": 1},
//	    {"id": "loops", "name": "Loops", "proficiency": 0.2, "depth_tier": 2}
//	  ],
//	  "edges": [{"from": "vars", "to": "loops"}]
//	}
//
// Use [ReadGraphFile] and [WriteGraphFile] for files, or [ReadGraph] and
// [WriteGraph] for streams. Reading normalizes scores (see [Graph.Normalize])
// and rejects empty or duplicate concept IDs.
//
// [Layout] is the serialization format for computed positions. Layouts are
// ephemeral: recompute them whenever the graph structure changes.
package concept
