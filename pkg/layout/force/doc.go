// Package force computes tier-aware, force-directed layouts for concept
// graphs.
//
// # Overview
//
// [ComputeLayout] runs a velocity-Verlet style particle simulation in the
// manner of d3-force. Each tick the simulation "temperature" alpha decays
// toward zero, every force adds to node velocities in proportion to alpha,
// velocities are damped, and positions advance. The loop runs a fixed number
// of ticks derived from the decay schedule (see [Iterations]), so the call is
// synchronous and its cost depends only on the graph size.
//
// # Forces
//
//   - Many-body repulsion between every pair of nodes, limited to a maximum
//     interaction distance.
//   - Link attraction pulling linked nodes toward a target separation.
//   - Centering, translating the whole layout so its mean sits at the origin.
//   - Collision, keeping nodes at least two collision radii apart.
//   - Radial tier bias, pulling each node toward a ring whose radius depends
//     on its depth tier: tier 1 at 0.3×R, tier 2 at 0.7×R, tier 3+ at R.
//
// # Scaling
//
// Distances, radii and the repulsion strength are multiplied by
// [ScaleFactor], sqrt(n/10) floored at 1, so that layouts stay readable from
// a handful of nodes up to several hundred.
//
// # Determinism
//
// Initial placement is a phyllotaxis spiral rotated by an angle derived from
// [Options.Seed]; the same seed and input always produce the same layout.
// Different seeds produce different but statistically similar layouts.
//
// The engine never touches caller data: nodes and links are copied into
// internal simulation state at the start of each call.
package force
