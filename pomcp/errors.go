// Package pomcp implements the belief-tree core of an online Monte-Carlo
// planner for partially observable sequential decision problems: a POMDP
// solver in the UCT/POMCP family with belief-tree reuse.
//
// It covers the belief tree and its action/observation mapping layer --
// particle storage, action-child expansion under an exploration policy,
// observation branching, and value backups -- plus a discretized-action
// specialization. The simulation/rollout policy, value-estimation
// heuristics, and particle filtering across real steps are external
// collaborators (see Model, EstimationStrategy and friends in model.go).
package pomcp

import (
	"k8s.io/klog/v2"
)

// Diagnostic conditions are reported through klog rather than returned as
// errors: they are recoverable and the planner prefers to keep planning over
// halting on them.

// reportStructural logs a structural violation: an id mismatch or collision
// in the node directory, a duplicate particle insertion, removal of an absent
// particle, or an update driving a visit count negative. The caller then
// continues: most call sites leave state unchanged, while an id collision is
// overwritten and a negative visit count is clamped to zero.
func reportStructural(format string, args ...any) {
	klog.Errorf("pomcp: structural violation: "+format, args...)
}

// reportEmptyDomain logs an empty-domain query: best/UCB action requested on
// a childless belief, or a particle sample on an empty ParticleSet. The
// caller is expected to have already picked a sentinel return value.
func reportEmptyDomain(format string, args ...any) {
	klog.V(1).Infof("pomcp: empty-domain query: "+format, args...)
}
