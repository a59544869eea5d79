package pomcp

// ActionMapping maintains the action children of a belief: it tracks which
// actions are unvisited, and computes the "best" (highest mean return) and
// "robust" (highest visit count) actions and their Q-values.
//
// DiscretizedActionMap is the only concrete implementation in this core; the
// interface exists so a continuous-action variant can be added later without
// touching BeliefNode.
type ActionMapping[A comparable, O comparable] interface {
	// SetOwner binds the mapping to its belief. Installed once at belief-
	// creation time; never reassigned.
	SetOwner(belief *BeliefNode[A, O])
	Owner() *BeliefNode[A, O]

	// GetActionNode returns the existing ActionNode for a, or nil.
	GetActionNode(a A) *ActionNode[A, O]
	// CreateActionNode creates (or returns the existing) ActionNode for a.
	CreateActionNode(a A) *ActionNode[A, O]

	// NChildren returns the number of action entries created so far.
	NChildren() int

	// Actions returns the actions of every entry created so far, in a
	// stable iteration order. Used by BeliefNode.GetUcbAction, whose
	// tie-break rule is "the first maximizer in mapping iteration order".
	Actions() []A

	// TotalVisitCount is the sum of every entry's visit count.
	TotalVisitCount() int

	// GetBestAction returns the action with the highest mean Q-value, and
	// whether an action was returned. If no entry has been visited, it falls
	// back to a random unvisited action, hence the explicit rng; the bool is
	// false only when that fallback finds no unvisited action either.
	// GetMaxQValue is its scalar.
	GetBestAction(rng RandomGenerator) (A, bool)
	GetMaxQValue() float64

	// GetRobustAction returns the action with the highest visit count, tied
	// broken per the mapping's own policy, and whether any entry exists at
	// all.
	GetRobustAction() (A, bool)
	GetRobustQValue() float64

	// HasUnvisitedActions, GetUnvisitedActions and GetRandomUnvisitedAction
	// expose the unvisited-action set.
	HasUnvisitedActions() bool
	GetUnvisitedActions() []A
	GetRandomUnvisitedAction(rng RandomGenerator) (A, bool)

	// Per-action statistics. All return zero values for an action with no
	// entry yet.
	GetVisitCount(a A) int
	GetTotalQValue(a A) float64
	GetMeanQValue(a A) float64

	// Update applies a delta visit count and delta Q total to a's entry,
	// creating the entry if it did not exist.
	Update(a A, deltaN int, deltaQ float64)

	// Recalculate rescans all entries and rebuilds the best/robust caches
	// and TotalVisitCount from scratch. Required after bulk edits; also
	// correct (if not incremental) after any single Update.
	Recalculate()
}
