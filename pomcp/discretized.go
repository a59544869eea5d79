package pomcp

import "sort"

// intSlotSet is an unordered set of ints supporting O(1) add/remove/contains
// and O(1) uniform random sampling via a slice + index map, the same
// swap-remove bookkeeping ParticleSet uses for particles.
type intSlotSet struct {
	slots []int
	index map[int]int
}

func newIntSlotSet() *intSlotSet {
	return &intSlotSet{index: make(map[int]int)}
}

func (s *intSlotSet) has(v int) bool {
	_, found := s.index[v]
	return found
}

func (s *intSlotSet) add(v int) {
	if s.has(v) {
		return
	}
	s.index[v] = len(s.slots)
	s.slots = append(s.slots, v)
}

func (s *intSlotSet) remove(v int) {
	i, found := s.index[v]
	if !found {
		return
	}
	last := len(s.slots) - 1
	if i != last {
		moved := s.slots[last]
		s.slots[i] = moved
		s.index[moved] = i
	}
	s.slots = s.slots[:last]
	delete(s.index, v)
}

func (s *intSlotSet) len() int { return len(s.slots) }

// random returns a uniformly random element and true, or (0, false) if empty.
func (s *intSlotSet) random(rng RandomGenerator) (int, bool) {
	if len(s.slots) == 0 {
		return 0, false
	}
	return s.slots[rng.Intn(len(s.slots))], true
}

// sortedCopy returns the set's elements in ascending order, used where a
// deterministic enumeration is needed (GetUnvisitedActions).
func (s *intSlotSet) sortedCopy() []int {
	out := make([]int, len(s.slots))
	copy(out, s.slots)
	sort.Ints(out)
	return out
}

// discretizedEntry is a single bin's action-child record. It does not
// duplicate statistics: visitCount/totalQValue/meanQValue are read straight
// from the owned ActionNode, which is the single source of truth for those
// fields. This keeps "the mapping's totals agree with its entries'" trivially
// true instead of requiring two copies to be kept in sync.
type discretizedEntry[A comparable, O comparable] struct {
	binNumber int
	node      *ActionNode[A, O]
}

func (e *discretizedEntry[A, O]) visitCount() int    { return e.node.visitCount }
func (e *discretizedEntry[A, O]) totalQValue() float64 { return e.node.totalQ }
func (e *discretizedEntry[A, O]) meanQValue() float64  { return e.node.meanQ }

// applyDelta updates the owned node by a raw (deltaN, deltaQ) pair, as used
// by ActionMapping.Update -- the backup entry point the outer search driver
// calls directly. A resulting negative visitCount is a structural violation:
// it is reported and clamped to zero.
func (e *discretizedEntry[A, O]) applyDelta(deltaN int, deltaQ float64) {
	e.node.visitCount += deltaN
	e.node.totalQ += deltaQ
	if e.node.visitCount < 0 {
		reportStructural("DiscretizedActionMap: update drove visitCount negative for bin %d", e.binNumber)
		e.node.visitCount = 0
	}
	if e.node.visitCount == 0 {
		e.node.meanQ = 0
	} else {
		e.node.meanQ = e.node.totalQ / float64(e.node.visitCount)
	}
}

// DiscretizedActionMap is the concrete ActionMapping that manages a finite
// bin set. It is constructed with (model, observationPool) and takes
// numberOfBins from model.NumberOfBins(); on Initialize it populates the
// unvisited-bin set with bins 0..numberOfBins-1.
type DiscretizedActionMap[A comparable, O comparable] struct {
	owner   *BeliefNode[A, O]
	model   Model[A, O]
	obsPool ObservationPool[O]

	numberOfBins int
	entries      map[int]*discretizedEntry[A, O]
	unvisited    *intSlotSet

	totalVisitCount int

	dirty bool

	bestBinValid     bool
	bestBinNumber    int
	highestQValue    float64

	robustBinValid    bool
	robustBinNumber   int
	highestVisitCount int
	robustQValue      float64
}

// NewDiscretizedActionMap constructs a DiscretizedActionMap for the given
// model and observation pool, but does not yet populate the unvisited-bin
// set: call Initialize before use.
func NewDiscretizedActionMap[A comparable, O comparable](model Model[A, O], obsPool ObservationPool[O]) *DiscretizedActionMap[A, O] {
	if obsPool == nil {
		obsPool = IdentityObservationPool[O]{}
	}
	return &DiscretizedActionMap[A, O]{
		model:        model,
		obsPool:      obsPool,
		numberOfBins: model.NumberOfBins(),
		entries:      make(map[int]*discretizedEntry[A, O]),
		unvisited:    newIntSlotSet(),
	}
}

// Initialize populates the unvisited-bin set with bin ids 0..numberOfBins-1.
func (m *DiscretizedActionMap[A, O]) Initialize() {
	for bin := 0; bin < m.numberOfBins; bin++ {
		m.unvisited.add(bin)
	}
}

func (m *DiscretizedActionMap[A, O]) SetOwner(belief *BeliefNode[A, O]) { m.owner = belief }
func (m *DiscretizedActionMap[A, O]) Owner() *BeliefNode[A, O]          { return m.owner }

func (m *DiscretizedActionMap[A, O]) ensureEntry(bin int, action A) *discretizedEntry[A, O] {
	e, ok := m.entries[bin]
	if !ok {
		e = &discretizedEntry[A, O]{binNumber: bin, node: newActionNode[A, O](action, m.obsPool)}
		m.entries[bin] = e
	}
	return e
}

func (m *DiscretizedActionMap[A, O]) GetActionNode(a A) *ActionNode[A, O] {
	bin := m.model.ActionBin(a)
	e, ok := m.entries[bin]
	if !ok {
		return nil
	}
	return e.node
}

func (m *DiscretizedActionMap[A, O]) CreateActionNode(a A) *ActionNode[A, O] {
	bin := m.model.ActionBin(a)
	return m.ensureEntry(bin, a).node
}

func (m *DiscretizedActionMap[A, O]) NChildren() int { return len(m.entries) }

// Actions returns the action of every entry created so far, ordered by
// ascending bin number.
func (m *DiscretizedActionMap[A, O]) Actions() []A {
	bins := m.sortedBins()
	out := make([]A, 0, len(bins))
	for _, bin := range bins {
		out = append(out, m.entries[bin].node.action)
	}
	return out
}

func (m *DiscretizedActionMap[A, O]) TotalVisitCount() int { return m.totalVisitCount }

// DeleteUnvisitedAction removes bin from the unvisited set explicitly --
// called by the outer planner when it commits the first visit to a sampled
// action, without necessarily going through Update yet.
func (m *DiscretizedActionMap[A, O]) DeleteUnvisitedAction(bin int) {
	m.unvisited.remove(bin)
}

func (m *DiscretizedActionMap[A, O]) HasUnvisitedActions() bool { return m.unvisited.len() > 0 }

func (m *DiscretizedActionMap[A, O]) GetUnvisitedActions() []A {
	bins := m.unvisited.sortedCopy()
	out := make([]A, 0, len(bins))
	for _, bin := range bins {
		out = append(out, m.model.SampleAnAction(bin))
	}
	return out
}

// GetRandomUnvisitedAction draws a uniform bin from the unvisited set and
// asks the model to sample a concrete action for it. The bin is NOT removed
// by sampling: removal only happens through DeleteUnvisitedAction or
// transitively through Update.
func (m *DiscretizedActionMap[A, O]) GetRandomUnvisitedAction(rng RandomGenerator) (A, bool) {
	bin, ok := m.unvisited.random(rng)
	if !ok {
		var zero A
		reportEmptyDomain("DiscretizedActionMap.GetRandomUnvisitedAction: no unvisited bins")
		return zero, false
	}
	return m.model.SampleAnAction(bin), true
}

func (m *DiscretizedActionMap[A, O]) GetVisitCount(a A) int {
	if e, ok := m.entries[m.model.ActionBin(a)]; ok {
		return e.visitCount()
	}
	return 0
}

func (m *DiscretizedActionMap[A, O]) GetTotalQValue(a A) float64 {
	if e, ok := m.entries[m.model.ActionBin(a)]; ok {
		return e.totalQValue()
	}
	return 0
}

func (m *DiscretizedActionMap[A, O]) GetMeanQValue(a A) float64 {
	if e, ok := m.entries[m.model.ActionBin(a)]; ok {
		return e.meanQValue()
	}
	return 0
}

// Update applies (deltaN, deltaQ) to a's entry, creating it if missing. A
// bin transitioning from visitCount==0 to nonzero is removed from the
// unvisited set; the reverse transition (a negative-delta rollback) re-adds
// it, preserving the invariant that the unvisited set is exactly the set of
// visitCount==0 actions.
func (m *DiscretizedActionMap[A, O]) Update(a A, deltaN int, deltaQ float64) {
	bin := m.model.ActionBin(a)
	e := m.ensureEntry(bin, a)
	before := e.visitCount()
	wasUnvisited := before == 0
	e.applyDelta(deltaN, deltaQ)
	m.totalVisitCount += e.visitCount() - before
	nowUnvisited := e.visitCount() == 0
	if wasUnvisited && !nowUnvisited {
		m.unvisited.remove(bin)
	} else if !wasUnvisited && nowUnvisited {
		m.unvisited.add(bin)
	}
	m.dirty = true
}

// Recalculate rescans all entries and rebuilds the best/robust caches and
// TotalVisitCount from scratch.
func (m *DiscretizedActionMap[A, O]) Recalculate() {
	m.totalVisitCount = 0
	m.bestBinValid = false
	m.robustBinValid = false
	bestMeanQ := 0.0
	robustVisits := -1
	robustMeanQ := 0.0

	for _, bin := range m.sortedBins() {
		e := m.entries[bin]
		m.totalVisitCount += e.visitCount()

		if e.visitCount() > 0 {
			if !m.bestBinValid || e.meanQValue() > bestMeanQ {
				m.bestBinValid = true
				m.bestBinNumber = bin
				bestMeanQ = e.meanQValue()
			}
		}

		if !m.robustBinValid ||
			e.visitCount() > robustVisits ||
			(e.visitCount() == robustVisits && e.meanQValue() > robustMeanQ) {
			m.robustBinValid = true
			m.robustBinNumber = bin
			robustVisits = e.visitCount()
			robustMeanQ = e.meanQValue()
		}
	}
	m.highestQValue = bestMeanQ
	m.highestVisitCount = robustVisits
	m.robustQValue = robustMeanQ
	m.dirty = false
}

func (m *DiscretizedActionMap[A, O]) sortedBins() []int {
	bins := make([]int, 0, len(m.entries))
	for bin := range m.entries {
		bins = append(bins, bin)
	}
	sort.Ints(bins)
	return bins
}

func (m *DiscretizedActionMap[A, O]) ensureFresh() {
	if m.dirty {
		m.Recalculate()
	}
}

// GetBestAction returns the action for bestBinNumber if any entry has been
// visited, otherwise a random unvisited action.
func (m *DiscretizedActionMap[A, O]) GetBestAction(rng RandomGenerator) (A, bool) {
	m.ensureFresh()
	if !m.bestBinValid {
		reportEmptyDomain("DiscretizedActionMap.GetBestAction: no visited entries")
		return m.GetRandomUnvisitedAction(rng)
	}
	return m.model.SampleAnAction(m.bestBinNumber), true
}

func (m *DiscretizedActionMap[A, O]) GetMaxQValue() float64 {
	m.ensureFresh()
	return m.highestQValue
}

func (m *DiscretizedActionMap[A, O]) GetRobustAction() (A, bool) {
	m.ensureFresh()
	if !m.robustBinValid {
		var zero A
		reportEmptyDomain("DiscretizedActionMap.GetRobustAction: no entries")
		return zero, false
	}
	return m.model.SampleAnAction(m.robustBinNumber), true
}

func (m *DiscretizedActionMap[A, O]) GetRobustQValue() float64 {
	m.ensureFresh()
	return m.robustQValue
}

var _ ActionMapping[int, int] = (*DiscretizedActionMap[int, int])(nil)
