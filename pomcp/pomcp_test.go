package pomcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// intState is a trivial State used across the tests: distance is absolute
// difference, mirroring the kind of stub scorer hiveGo's mcts_test.go uses
// for its dummyScorer.
type intState int

func (s intState) DistanceTo(other State) float64 {
	o := other.(intState)
	d := int(s) - int(o)
	if d < 0 {
		d = -d
	}
	return float64(d)
}

type intEntry struct {
	v intState
}

func (e *intEntry) State() State { return e.v }

func newIntEntry(v int) *intEntry { return &intEntry{v: intState(v)} }

// testModel is a minimal Model[int, int] where actions and bins coincide.
type testModel struct {
	bins int
}

func (m *testModel) CreateRootHistoricalData() HistoricalData[int, int] { return nil }
func (m *testModel) SampleAnAction(bin int) int                         { return bin }
func (m *testModel) NumberOfBins() int                                  { return m.bins }
func (m *testModel) ActionBin(action int) int                           { return action }

type testActionPool struct {
	model *testModel
}

func (p *testActionPool) CreateActionMapping(belief *BeliefNode[int, int]) ActionMapping[int, int] {
	return NewDiscretizedActionMap[int, int](p.model, IdentityObservationPool[int]{})
}

func buildTree(t *testing.T, bins int) (*BeliefTree[int, int], *testModel) {
	t.Helper()
	model := &testModel{bins: bins}
	tree := NewBeliefTree[int, int](model, &testActionPool{model: model}, nil)
	tree.Reset()
	tree.InitializeRoot()
	return tree, model
}

// --- Scenario 1: Tree bootstrap ---

func TestBeliefTree_Bootstrap(t *testing.T) {
	tree, _ := buildTree(t, 4)
	require.Equal(t, 1, tree.GetNumberOfNodes())
	require.Equal(t, 0, tree.GetRoot().ID())
	require.Equal(t, 0, tree.GetRoot().NParticles())
}

// --- Scenario 2: Unvisited enumeration ---

func TestDiscretizedActionMap_UnvisitedEnumeration(t *testing.T) {
	tree, _ := buildTree(t, 4)
	root := tree.GetRoot()
	mapping := root.Mapping().(*DiscretizedActionMap[int, int])

	require.True(t, mapping.HasUnvisitedActions())
	require.Len(t, mapping.GetUnvisitedActions(), 4)

	mapping.Update(0, 1, 0.5)
	require.Len(t, mapping.GetUnvisitedActions(), 3)
	for _, a := range mapping.GetUnvisitedActions() {
		require.NotEqual(t, 0, a)
	}
	require.Equal(t, 1, mapping.GetVisitCount(0))
	require.InDelta(t, 0.5, mapping.GetMeanQValue(0), 1e-9)
}

// --- Scenario 3: UCB selection ---

func TestBeliefNode_GetUcbAction(t *testing.T) {
	tree, _ := buildTree(t, 2)
	root := tree.GetRoot()
	for i := 0; i < 100; i++ {
		root.Add(newIntEntry(i))
	}
	mapping := root.Mapping().(*DiscretizedActionMap[int, int])
	mapping.Update(0, 10, 10.0) // meanQ = 1.0, n = 10
	mapping.Update(1, 1, 0.5)   // meanQ = 0.5, n = 1

	action, ok := root.GetUcbAction(1.0)
	require.True(t, ok)
	require.Equal(t, 1, action) // B has the higher UCB score despite the lower meanQ
}

// --- Scenario 4: Best vs robust divergence ---

func TestDiscretizedActionMap_BestVsRobust(t *testing.T) {
	tree, _ := buildTree(t, 2)
	root := tree.GetRoot()
	mapping := root.Mapping().(*DiscretizedActionMap[int, int])
	mapping.Update(0, 50, 40.0) // A: n=50, meanQ=0.8
	mapping.Update(1, 5, 6.0)   // B: n=5,  meanQ=1.2

	best, ok := mapping.GetBestAction(NewRandomGenerator(1))
	require.True(t, ok)
	require.Equal(t, 1, best) // B

	robust, ok := mapping.GetRobustAction()
	require.True(t, ok)
	require.Equal(t, 0, robust) // A
}

// --- Scenario 5: Particle swap-remove ---

func TestParticleSet_SwapRemove(t *testing.T) {
	p := NewParticleSet()
	e1, e2, e3, e4 := newIntEntry(1), newIntEntry(2), newIntEntry(3), newIntEntry(4)
	p.Add(e1)
	p.Add(e2)
	p.Add(e3)
	p.Add(e4)

	p.Remove(e2)

	require.Equal(t, 3, p.Size())
	require.Equal(t, HistoryEntry(e1), p.Get(0))
	require.Equal(t, HistoryEntry(e4), p.Get(1))
	require.Equal(t, HistoryEntry(e3), p.Get(2))
	require.Equal(t, 1, p.IndexOf(e4))
	require.Equal(t, 2, p.IndexOf(e3))
	require.False(t, p.Contains(e2))
}

// --- Scenario 6: Child reuse ---

func TestBeliefTree_CreateOrGetChild_Idempotent(t *testing.T) {
	tree, _ := buildTree(t, 2)
	root := tree.GetRoot()

	child1 := tree.CreateOrGetChild(root, 0, 7)
	require.Equal(t, 2, tree.GetNumberOfNodes())
	require.NotNil(t, child1.Mapping())

	child2 := tree.CreateOrGetChild(root, 0, 7)
	require.Same(t, child1, child2)
	require.Equal(t, 2, tree.GetNumberOfNodes())
}

// --- NodeIDs tracks the dense directory as children are born ---

func TestBeliefTree_NodeIDs(t *testing.T) {
	tree, _ := buildTree(t, 2)
	root := tree.GetRoot()
	require.Equal(t, []int{0}, tree.NodeIDs())

	child := tree.CreateOrGetChild(root, 0, 1)
	require.Equal(t, []int{0, 1}, tree.NodeIDs())
	require.Equal(t, 1, child.ID())

	grandchild := tree.CreateOrGetChild(child, 1, 2)
	require.Equal(t, []int{0, 1, 2}, tree.NodeIDs())
	require.Equal(t, 2, grandchild.ID())
}

// --- Round-trip: update then inverse update restores aggregate stats ---

func TestDiscretizedActionMap_UpdateRoundTrip(t *testing.T) {
	tree, _ := buildTree(t, 3)
	root := tree.GetRoot()
	mapping := root.Mapping().(*DiscretizedActionMap[int, int])

	mapping.Update(0, 1, 0.7)
	require.Equal(t, 1, mapping.TotalVisitCount())

	mapping.Update(0, -1, -0.7)
	require.Equal(t, 0, mapping.TotalVisitCount())
	require.Equal(t, 0.0, mapping.GetTotalQValue(0))
	require.True(t, mapping.HasUnvisitedActions())
	require.Len(t, mapping.GetUnvisitedActions(), 3)
}

// --- Recalculate is idempotent ---

func TestDiscretizedActionMap_RecalculateIdempotent(t *testing.T) {
	tree, _ := buildTree(t, 3)
	root := tree.GetRoot()
	mapping := root.Mapping().(*DiscretizedActionMap[int, int])

	mapping.Update(0, 3, 3.0)
	mapping.Update(1, 1, 2.0)
	mapping.Update(2, 7, 3.5)

	before := mapping.GetRobustQValue()
	mapping.Recalculate()
	after := mapping.GetRobustQValue()
	require.Equal(t, before, after)

	robust, ok := mapping.GetRobustAction()
	require.True(t, ok)
	require.Equal(t, 2, robust) // highest visit count
}

// --- DistL1Independent symmetry ---

func TestBeliefNode_DistL1Independent_Symmetric(t *testing.T) {
	tree, _ := buildTree(t, 1)
	root := tree.GetRoot()
	other := tree.CreateOrGetChild(root, 0, 0)

	for _, v := range []int{1, 5, 9} {
		root.Add(newIntEntry(v))
	}
	for _, v := range []int{2, 2, 20} {
		other.Add(newIntEntry(v))
	}

	d1 := root.DistL1Independent(other)
	d2 := other.DistL1Independent(root)
	require.InDelta(t, d1, d2, 1e-9)
}

// --- ParticleSet contract violations are soft ---

func TestParticleSet_DuplicateAddIsNoOp(t *testing.T) {
	p := NewParticleSet()
	e := newIntEntry(1)
	p.Add(e)
	p.Add(e)
	require.Equal(t, 1, p.Size())
}

// --- Empty-domain queries return sentinels, not panics ---

func TestBeliefNode_GetUcbAction_NoChildren(t *testing.T) {
	tree, _ := buildTree(t, 2)
	root := tree.GetRoot()
	_, ok := root.GetUcbAction(1.0)
	require.False(t, ok)
}

func TestDiscretizedActionMap_GetBestAction_FallsBackToUnvisited(t *testing.T) {
	tree, _ := buildTree(t, 3)
	root := tree.GetRoot()
	mapping := root.Mapping().(*DiscretizedActionMap[int, int])

	action, ok := mapping.GetBestAction(NewRandomGenerator(2))
	require.True(t, ok)
	require.GreaterOrEqual(t, action, 0)
	require.Less(t, action, 3)
}

func TestParticleSet_SampleEmpty(t *testing.T) {
	p := NewParticleSet()
	require.Nil(t, p.Sample(NewRandomGenerator(1)))
}
