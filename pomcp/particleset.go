package pomcp

// State is a single sampled state. Concrete models implement DistanceTo with
// whatever metric is meaningful for their state representation.
type State interface {
	DistanceTo(other State) float64
}

// HistoryEntry is a particle: a history entry whose terminal state
// represents one sample from a belief. HistoryEntries are owned by an
// external history pool; BeliefNode only holds non-owning references to them.
type HistoryEntry interface {
	State() State
}

// ParticleSet is an insertion-ordered collection of HistoryEntry particles
// with O(1) contains/remove by identity, backing exactly one BeliefNode.
//
// HistoryEntry values are compared by identity (Go interface equality, which
// for the pointer-typed implementations models are expected to use reduces
// to pointer identity) -- never by value.
type ParticleSet struct {
	entries []HistoryEntry
	index   map[HistoryEntry]int
}

// NewParticleSet returns an empty ParticleSet.
func NewParticleSet() *ParticleSet {
	return &ParticleSet{
		index: make(map[HistoryEntry]int),
	}
}

// Size returns the number of particles currently held.
func (p *ParticleSet) Size() int {
	return len(p.entries)
}

// Contains reports whether e is currently held, by identity.
func (p *ParticleSet) Contains(e HistoryEntry) bool {
	_, found := p.index[e]
	return found
}

// Add appends e to the set. If e is already present this is a soft failure:
// it is logged and otherwise a no-op.
func (p *ParticleSet) Add(e HistoryEntry) {
	if p.Contains(e) {
		reportStructural("ParticleSet.Add: duplicate particle insertion")
		return
	}
	p.index[e] = len(p.entries)
	p.entries = append(p.entries, e)
}

// Remove deletes e from the set by swapping the last element into e's slot
// and popping the tail, keeping Remove O(1). It is a programming error to
// remove an entry that is not present; this is reported but not fatal.
func (p *ParticleSet) Remove(e HistoryEntry) {
	i, found := p.index[e]
	if !found {
		reportStructural("ParticleSet.Remove: entry not present")
		return
	}
	last := len(p.entries) - 1
	if i != last {
		moved := p.entries[last]
		p.entries[i] = moved
		p.index[moved] = i
	}
	p.entries = p.entries[:last]
	delete(p.index, e)
}

// Get returns the particle at index i. i must be in [0, Size()); violating
// this is a programming error, not a recoverable condition, and panics like
// any other out-of-range slice access.
func (p *ParticleSet) Get(i int) HistoryEntry {
	return p.entries[i]
}

// IndexOf returns the current index of e, or -1 if e is not present.
func (p *ParticleSet) IndexOf(e HistoryEntry) int {
	if i, found := p.index[e]; found {
		return i
	}
	return -1
}

// Sample returns a uniformly random particle using rng. It requires a
// non-empty set; on an empty set it reports an empty-domain query and
// returns nil.
func (p *ParticleSet) Sample(rng RandomGenerator) HistoryEntry {
	if len(p.entries) == 0 {
		reportEmptyDomain("ParticleSet.Sample: empty particle set")
		return nil
	}
	return p.entries[rng.Intn(len(p.entries))]
}

// All returns the particles in their current order (insertion order, up to
// swap-remove reordering). The returned slice is owned by the caller; it is
// a copy so later mutation of the set does not alias it.
func (p *ParticleSet) All() []HistoryEntry {
	out := make([]HistoryEntry, len(p.entries))
	copy(out, p.entries)
	return out
}
