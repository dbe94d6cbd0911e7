package force

import (
	"math"
	"math/rand/v2"
)

// Node is a layout input: an ID and the depth tier that selects its ring.
type Node struct {
	ID   string `json:"id"`
	Tier int    `json:"tier"`
}

// Link connects two node IDs. Direction does not affect the layout.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Position is a 2D coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the outcome of a simulation run.
type Result struct {
	Positions  map[string]Position
	Iterations int
	Scale      float64
}

const (
	initialRadius   = 10.0
	distanceMin2    = 1.0
	phyllotaxisStep = math.Pi * (3 - 2.23606797749979) // golden angle, 3-sqrt(5)
	seedMix         = 0x9e3779b97f4a7c15
)

// ComputeLayout runs the simulation and returns a position for every input
// node ID. See [Simulate].
func ComputeLayout(nodes []Node, links []Link, opts *Options) map[string]Position {
	return Simulate(nodes, links, opts).Positions
}

// Simulate runs the force simulation to completion and reports positions
// together with the iteration count and scale factor used.
//
// An empty node list returns an empty result without simulating. Links whose
// endpoints are unknown, and self-links, are ignored. When IDs repeat, the
// first node wins. Every input ID is a key in the result; any ID absent from
// the final simulation state maps to the origin.
//
// opts may be nil for defaults. The caller's slices are never modified.
func Simulate(nodes []Node, links []Link, opts *Options) Result {
	if len(nodes) == 0 {
		return Result{Positions: map[string]Position{}}
	}

	var o Options
	if opts != nil {
		o = *opts
	}
	o.sanitize()

	sim := newSimulation(nodes, links, o)
	iterations := Iterations(o)
	for range iterations {
		sim.tick()
	}

	out := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		out[n.ID] = Position{}
	}
	for id, i := range sim.index {
		p := sim.particles[i]
		out[id] = Position{X: p.x, Y: p.y}
	}
	return Result{Positions: out, Iterations: iterations, Scale: sim.scale}
}

// particle is the mutable simulation state of one node.
type particle struct {
	x, y   float64
	vx, vy float64
	ring   float64 // target radial distance
}

// spring is a resolved link; bias splits the correction between endpoints
// in proportion to their degrees.
type spring struct {
	source, target int
	bias           float64
}

type simulation struct {
	particles []particle
	springs   []spring
	index     map[string]int
	opts      Options
	scale     float64
	alpha     float64
	rng       *rand.Rand
}

func newSimulation(nodes []Node, links []Link, o Options) *simulation {
	index := make(map[string]int, len(nodes))
	tiers := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := index[n.ID]; ok {
			continue
		}
		index[n.ID] = len(tiers)
		tiers = append(tiers, n.Tier)
	}

	scale := ScaleFactor(len(tiers))
	o = o.scaled(scale)
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^seedMix))

	offset := rng.Float64() * 2 * math.Pi
	particles := make([]particle, len(tiers))
	for i, tier := range tiers {
		r := initialRadius * scale * math.Sqrt(0.5+float64(i))
		a := offset + float64(i)*phyllotaxisStep
		particles[i] = particle{
			x:    r * math.Cos(a),
			y:    r * math.Sin(a),
			ring: TierRadius(tier, o.BaseRadius),
		}
	}

	degree := make([]int, len(tiers))
	springs := make([]spring, 0, len(links))
	for _, l := range links {
		s, okS := index[l.Source]
		t, okT := index[l.Target]
		if !okS || !okT || s == t {
			continue
		}
		degree[s]++
		degree[t]++
		springs = append(springs, spring{source: s, target: t})
	}
	for i := range springs {
		ds, dt := degree[springs[i].source], degree[springs[i].target]
		springs[i].bias = float64(ds) / float64(ds+dt)
	}

	return &simulation{
		particles: particles,
		springs:   springs,
		index:     index,
		opts:      o,
		scale:     scale,
		alpha:     1,
		rng:       rng,
	}
}

// tick advances the simulation one step.
func (s *simulation) tick() {
	s.alpha += (0 - s.alpha) * s.opts.AlphaDecay

	s.applyCharge()
	s.applyLinks()
	s.applyCenter()
	s.applyCollide()
	s.applyRadial()

	damping := 1 - s.opts.VelocityDecay
	for i := range s.particles {
		p := &s.particles[i]
		p.vx *= damping
		p.vy *= damping
		p.x += p.vx
		p.y += p.vy
	}
}

// jiggle returns a tiny random offset used to separate coincident nodes.
func (s *simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// applyCharge applies pairwise repulsion with magnitude |strength|·alpha/d.
func (s *simulation) applyCharge() {
	strength := s.opts.ChargeStrength * s.alpha
	maxDist2 := s.opts.ChargeDistanceMax * s.opts.ChargeDistanceMax

	for i := range s.particles {
		pi := &s.particles[i]
		for j := range s.particles {
			if i == j {
				continue
			}
			pj := &s.particles[j]
			x, y := pj.x-pi.x, pj.y-pi.y
			l := x*x + y*y
			if l >= maxDist2 {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			w := strength / l
			pi.vx += x * w
			pi.vy += y * w
		}
	}
}

// applyLinks pulls linked nodes toward LinkDistance, using velocity-predicted
// positions.
func (s *simulation) applyLinks() {
	for _, sp := range s.springs {
		src, tgt := &s.particles[sp.source], &s.particles[sp.target]
		x := tgt.x + tgt.vx - src.x - src.vx
		y := tgt.y + tgt.vy - src.y - src.vy
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - s.opts.LinkDistance) / l * s.alpha * s.opts.LinkStrength
		x *= l
		y *= l
		tgt.vx -= x * sp.bias
		tgt.vy -= y * sp.bias
		src.vx += x * (1 - sp.bias)
		src.vy += y * (1 - sp.bias)
	}
}

// applyCenter translates all nodes so their mean lies at the origin.
func (s *simulation) applyCenter() {
	var sx, sy float64
	for _, p := range s.particles {
		sx += p.x
		sy += p.y
	}
	n := float64(len(s.particles))
	sx, sy = sx/n, sy/n
	for i := range s.particles {
		s.particles[i].x -= sx
		s.particles[i].y -= sy
	}
}

// applyCollide separates nodes whose predicted positions are closer than two
// collision radii. The push is not scaled by alpha.
func (s *simulation) applyCollide() {
	r := 2 * s.opts.CollideRadius
	r2 := r * r
	for i := range s.particles {
		pi := &s.particles[i]
		xi, yi := pi.x+pi.vx, pi.y+pi.vy
		for j := i + 1; j < len(s.particles); j++ {
			pj := &s.particles[j]
			x := xi - (pj.x + pj.vx)
			y := yi - (pj.y + pj.vy)
			l := x*x + y*y
			if l >= r2 {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l * s.opts.CollideStrength
			x *= l
			y *= l
			// Equal radii split the correction evenly.
			pi.vx += x * 0.5
			pi.vy += y * 0.5
			pj.vx -= x * 0.5
			pj.vy -= y * 0.5
		}
	}
}

// applyRadial pulls each node toward its tier ring around the origin.
func (s *simulation) applyRadial() {
	k0 := s.opts.RadialStrength * s.alpha
	for i := range s.particles {
		p := &s.particles[i]
		dx, dy := p.x, p.y
		if dx == 0 {
			dx = 1e-6
		}
		if dy == 0 {
			dy = 1e-6
		}
		r := math.Sqrt(dx*dx + dy*dy)
		k := (p.ring - r) * k0 / r
		p.vx += dx * k
		p.vy += dy * k
	}
}
