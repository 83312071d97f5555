// evaluator.go: Constraint evaluation and graph pruning
//
// The evaluator walks every surviving descriptor's relation lists and
// classifies it as dependency-satisfied or not and conflict-free or not.
// Invalid descriptors are removed from the graph before ordering. All
// recoverable conditions are absorbed here and surfaced through the report
// and the logger; only a broken internal invariant aborts the run.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

// evaluate classifies every surviving descriptor in input order and records
// ordering edges between survivors. Order of iteration does not affect the
// classification outcome; it is preserved so diagnostics come out in a stable
// sequence.
//
// The only error returned is the fatal index-inconsistency invariant: the node
// list claims an id the index does not hold, which means the context builder
// corrupted internal state. Everything else is handled by exclusion.
func (rc *resolutionContext) evaluate() error {
	for _, id := range rc.nodes {
		d, ok := rc.index[id]
		if !ok {
			return NewIndexInconsistencyError(id)
		}

		if !rc.evaluateDependencies(d) {
			continue
		}
		if !rc.evaluateConflicts(d) {
			continue
		}
		rc.recordOrderingHints(d)
	}

	rc.pruneExcluded()
	return nil
}

// evaluateDependencies checks every DependsOn reference. Dependencies are
// AND-ed: the first unsatisfied reference excludes the declaring descriptor.
// Returns false when the descriptor was excluded.
func (rc *resolutionContext) evaluateDependencies(d Descriptor) bool {
	for _, ref := range d.DependsOn {
		target, ok := rc.index[ref.TargetDescriptorID]
		if !ok {
			rc.logger.Warn("Dependency target missing, descriptor excluded",
				"descriptor", d.label(),
				"target_id", ref.TargetDescriptorID.String())
			rc.exclude(d, Exclusion{
				Descriptor: d,
				Reason:     ExclusionMissingDependency,
				Reference:  &ref,
			})
			return false
		}

		if !ref.MatchesDescriptor(target) {
			rc.logger.Warn("Dependency version outside window, descriptor excluded",
				"descriptor", d.label(),
				"target", target.label(),
				"target_version", target.Version,
				"min_version", ref.MinVersion,
				"max_version", ref.MaxVersion)
			rc.exclude(d, Exclusion{
				Descriptor: d,
				Reason:     ExclusionVersionMismatch,
				Reference:  &ref,
			})
			return false
		}

		// A satisfied dependency also orders the dependent after its target,
		// so initialization can rely on dependencies being ready.
		rc.addEdge(target.DescriptorID, d.DescriptorID)
	}
	return true
}

// evaluateConflicts checks the descriptor's ConflictsWith references against
// every other descriptor in the batch. The first match excludes the declaring
// descriptor and stops the scan.
//
// The exclusion is intentionally asymmetric: if A declares a conflict with B,
// only A is removed. B survives unless B independently declares a conflict
// with A. This is a documented semantic contract of the engine; callers that
// need mutual exclusion must declare the conflict on both sides. The scan
// deliberately ignores in-pass exclusions of the other party so that mutual
// declarations remove both descriptors regardless of input order.
//
// Returns false when the descriptor was excluded.
func (rc *resolutionContext) evaluateConflicts(d Descriptor) bool {
	for _, ref := range d.ConflictsWith {
		for _, otherID := range rc.nodes {
			if otherID == d.DescriptorID {
				continue
			}
			other := rc.index[otherID]
			if !ref.MatchesDescriptor(other) {
				continue
			}

			rc.logger.Warn("Conflict declared, descriptor excluded",
				"descriptor", d.label(),
				"conflicts_with", other.label(),
				"conflict_version", other.Version)
			conflicting := other
			rc.exclude(d, Exclusion{
				Descriptor:      d,
				Reason:          ExclusionConflict,
				Reference:       &ref,
				ConflictingWith: &conflicting,
			})
			return false
		}
	}
	return true
}

// recordOrderingHints adds graph edges for LoadBefore and LoadAfter
// references. Hints are soft: a reference with no matching target, or whose
// target is already excluded, is silently skipped.
func (rc *resolutionContext) recordOrderingHints(d Descriptor) {
	for _, ref := range d.LoadBefore {
		if target, ok := rc.orderingTarget(ref); ok {
			rc.addEdge(d.DescriptorID, target.DescriptorID)
		}
	}
	for _, ref := range d.LoadAfter {
		if target, ok := rc.orderingTarget(ref); ok {
			rc.addEdge(target.DescriptorID, d.DescriptorID)
		}
	}
}

// orderingTarget resolves an ordering reference to a surviving, matching
// descriptor.
func (rc *resolutionContext) orderingTarget(ref Reference) (Descriptor, bool) {
	target, ok := rc.index[ref.TargetDescriptorID]
	if !ok || rc.isExcluded(target.DescriptorID) {
		return Descriptor{}, false
	}
	if !ref.MatchesDescriptor(target) {
		return Descriptor{}, false
	}
	return target, true
}

// pruneExcluded removes excluded nodes and any edges touching them. After
// this the graph contains only descriptors eligible for the output.
func (rc *resolutionContext) pruneExcluded() {
	for id := range rc.excluded {
		delete(rc.successors, id)
	}
	for _, targets := range rc.successors {
		for id := range rc.excluded {
			delete(targets, id)
		}
	}
}
