package pomcp

import "github.com/chewxy/math32"

// BeliefNode is a node in the belief tree: it owns a ParticleSet, an
// ActionMapping (action children), an optional HistoricalData object, and a
// value-estimator binding.
//
// The zero value is not usable; construct via newBareBeliefNode (internal,
// used while wiring a fresh child) or BeliefTree.Reset (the root).
type BeliefNode[A comparable, O comparable] struct {
	id int // -1 until registered by BeliefTree.addNode

	particles *ParticleSet
	mapping   ActionMapping[A, O]

	historicalData HistoricalData[A, O]
	hasEstimator   bool

	nextActionToTry    int
	tLastAddedParticle int64

	bestActionValid bool
	bestAction      A
	bestMeanQValue  float64
}

// newBareBeliefNode constructs a belief with no id, ActionMapping,
// HistoricalData or value estimator yet -- the state ActionNode.AddChild
// produces before BeliefTree finishes wiring it.
func newBareBeliefNode[A comparable, O comparable]() *BeliefNode[A, O] {
	return &BeliefNode[A, O]{
		id:        -1,
		particles: NewParticleSet(),
	}
}

// ID returns the belief's stable id, or -1 if not yet registered.
func (b *BeliefNode[A, O]) ID() int { return b.id }

// NParticles returns the number of particles currently held.
func (b *BeliefNode[A, O]) NParticles() int { return b.particles.Size() }

// Particles returns the belief's particles in their current order.
func (b *BeliefNode[A, O]) Particles() []HistoryEntry { return b.particles.All() }

// Mapping returns the belief's ActionMapping (nil until BeliefTree finishes
// wiring a newly-created node).
func (b *BeliefNode[A, O]) Mapping() ActionMapping[A, O] { return b.mapping }

// HistoricalData returns the belief's historical-data object, or nil if the
// model carries none (legal on the root).
func (b *BeliefNode[A, O]) HistoricalData() HistoricalData[A, O] { return b.historicalData }

// HasValueEstimator reports whether an EstimationStrategy has bound a value
// estimator to this belief yet.
func (b *BeliefNode[A, O]) HasValueEstimator() bool { return b.hasEstimator }

// Add appends a particle, bumps nParticles, and stamps tLastAddedParticle
// with a strictly-increasing tick.
func (b *BeliefNode[A, O]) Add(entry HistoryEntry) {
	b.particles.Add(entry)
	b.tLastAddedParticle++
}

// TLastAddedParticle returns the tick stamped by the most recent Add.
func (b *BeliefNode[A, O]) TLastAddedParticle() int64 { return b.tLastAddedParticle }

// SampleAParticle returns a uniformly random particle, or nil if empty.
func (b *BeliefNode[A, O]) SampleAParticle(rng RandomGenerator) HistoryEntry {
	return b.particles.Sample(rng)
}

// GetNextActionToTry returns and post-increments a monotone counter, used by
// mappings that enumerate actions by integer id.
func (b *BeliefNode[A, O]) GetNextActionToTry() int {
	v := b.nextActionToTry
	b.nextActionToTry++
	return v
}

// GetChild performs a read-only lookup of the belief reached via
// (action, obs), returning nil when either level is missing.
func (b *BeliefNode[A, O]) GetChild(action A, obs O) *BeliefNode[A, O] {
	if b.mapping == nil {
		return nil
	}
	node := b.mapping.GetActionNode(action)
	if node == nil {
		return nil
	}
	return node.GetChild(obs)
}

// AddChild ensures an ActionNode exists for action (creating it if absent),
// then delegates to it to ensure a belief exists for obs, returning the
// child and whether it was newly created. The returned child, when new, is
// bare: BeliefTree.CreateOrGetChild finishes wiring it.
func (b *BeliefNode[A, O]) AddChild(action A, obs O) (child *BeliefNode[A, O], isNew bool) {
	node := b.mapping.GetActionNode(action)
	if node == nil {
		node = b.mapping.CreateActionNode(action)
	}
	return node.AddChild(obs)
}

// CreateOrGetChild is BeliefNode's half of BeliefTree.createOrGetChild: it
// only establishes the structural (action, obs) link via AddChild. The
// `tree` parameter is accepted to match BeliefTree's call site but is unused
// here -- completing a new child's wiring is BeliefTree's responsibility.
func (b *BeliefNode[A, O]) CreateOrGetChild(tree *BeliefTree[A, O], action A, obs O) (child *BeliefNode[A, O], isNew bool) {
	return b.AddChild(action, obs)
}

// GetUcbAction returns argmax_a [ meanQ(a) + c*sqrt(ln(N)/n(a)) ] over all
// existing action children, tie-broken by the first maximizer in mapping
// iteration order. It requires at least one child and every child's
// n(a) >= 1; the outer planner is expected to exhaust unvisited actions
// first.
func (b *BeliefNode[A, O]) GetUcbAction(c float64) (A, bool) {
	actions := b.mapping.Actions()
	if len(actions) == 0 {
		var zero A
		reportEmptyDomain("BeliefNode.GetUcbAction: no action children")
		return zero, false
	}
	logN := math32.Log(float32(b.NParticles()))

	var bestAction A
	bestFound := false
	var bestScore float32
	for _, a := range actions {
		n := b.mapping.GetVisitCount(a)
		if n < 1 {
			reportStructural("BeliefNode.GetUcbAction: action child with visitCount < 1 encountered")
			continue
		}
		meanQ := float32(b.mapping.GetMeanQValue(a))
		score := meanQ + float32(c)*math32.Sqrt(logN/float32(n))
		if !bestFound || score > bestScore {
			bestFound = true
			bestAction = a
			bestScore = score
		}
	}
	if !bestFound {
		var zero A
		return zero, false
	}
	return bestAction, true
}

// GetBestAction returns argmax_a meanQ(a) over existing children, updating
// the cached best action/value. When no child has been visited yet it
// returns the mapping's fallback, a random unvisited action drawn with rng;
// the sentinel ("no action", false) is returned only when that fallback
// finds no action either.
func (b *BeliefNode[A, O]) GetBestAction(rng RandomGenerator) (A, bool) {
	a, ok := b.mapping.GetBestAction(rng)
	if !ok {
		reportEmptyDomain("BeliefNode.GetBestAction: no action children")
		b.bestActionValid = false
		return a, false
	}
	b.bestAction = a
	b.bestMeanQValue = b.mapping.GetMaxQValue()
	b.bestActionValid = true
	return a, true
}

// GetBestMeanQValue returns the cached best mean Q-value, recomputing it
// first.
func (b *BeliefNode[A, O]) GetBestMeanQValue(rng RandomGenerator) float64 {
	b.GetBestAction(rng)
	return b.bestMeanQValue
}

// UpdateQValue records a single backup (visitCount += 1, totalQ += delta) for
// action, routed through the mapping's Update so the unvisited-bin
// bookkeeping stays consistent regardless of whether the caller backs up via
// BeliefNode or drives the mapping directly.
func (b *BeliefNode[A, O]) UpdateQValue(action A, delta float64) {
	b.mapping.Update(action, 1, delta)
	b.mapping.Recalculate()
}

// UpdateQValueReplace replaces a previously-backed-up value (totalQ +=
// newV-oldV; visitCount -= 1 when reduceParticles), routed through the same
// mapping.Update path as UpdateQValue for the same reason.
func (b *BeliefNode[A, O]) UpdateQValueReplace(action A, oldV, newV float64, reduceParticles bool) {
	deltaN := 0
	if reduceParticles {
		deltaN = -1
	}
	b.mapping.Update(action, deltaN, newV-oldV)
	b.mapping.Recalculate()
}

// DistL1Independent is the mean pairwise state distance between this
// belief's particles and other's: (1/(n*m)) * sum_i sum_j d(s_i, s_j').
// It is symmetric up to floating-point tolerance.
func (b *BeliefNode[A, O]) DistL1Independent(other *BeliefNode[A, O]) float64 {
	n, m := b.particles.Size(), other.particles.Size()
	if n == 0 || m == 0 {
		reportEmptyDomain("BeliefNode.DistL1Independent: one of the beliefs has no particles")
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		si := b.particles.Get(i).State()
		for j := 0; j < m; j++ {
			sj := other.particles.Get(j).State()
			sum += si.DistanceTo(sj)
		}
	}
	return sum / float64(n*m)
}
