// context.go: Per-call resolution context with dedup, identity index, and graph
//
// The resolution context is transient: it is built fresh for every resolution
// call and discarded afterwards. No shared mutable state survives between
// calls, which is what makes the resolver itself stateless and reentrant.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"github.com/google/uuid"
)

// resolutionContext holds the working state of a single resolution run: the
// deduplicated descriptor list, the identity index, the ordering graph, and
// the exclusion bookkeeping shared with the report.
type resolutionContext struct {
	logger Logger
	report *Report

	// nodes lists surviving descriptor ids in original input order. Input
	// order is the tie-break for the sorter, so it is preserved everywhere.
	nodes []uuid.UUID

	// index maps descriptor id to the surviving descriptor.
	index map[uuid.UUID]Descriptor

	// position maps descriptor id to its original input position.
	position map[uuid.UUID]int

	// successors is the ordering graph adjacency: an edge a -> b means b must
	// be ordered after a.
	successors map[uuid.UUID]map[uuid.UUID]struct{}

	// excluded maps descriptor id to the reason it was removed. Duplicates
	// are recorded in the report only; their id stays owned by the first
	// occurrence, so they never appear here.
	excluded map[uuid.UUID]ExclusionReason
}

// newResolutionContext snapshots the input, deduplicates by descriptor id
// (first occurrence in input order wins), indexes the survivors, and seeds the
// graph with one node per survivor and no edges.
//
// Structurally invalid descriptors (nil id) are excluded here as well: a nil
// id cannot be indexed or referenced, and letting it into the graph would make
// every other nil-id descriptor collide with it.
func newResolutionContext(input []Descriptor, logger Logger, report *Report) *resolutionContext {
	rc := &resolutionContext{
		logger:     logger,
		report:     report,
		nodes:      make([]uuid.UUID, 0, len(input)),
		index:      make(map[uuid.UUID]Descriptor, len(input)),
		position:   make(map[uuid.UUID]int, len(input)),
		successors: make(map[uuid.UUID]map[uuid.UUID]struct{}, len(input)),
		excluded:   make(map[uuid.UUID]ExclusionReason),
	}

	for pos, d := range input {
		if err := d.Validate(); err != nil {
			logger.Warn("Descriptor failed validation, excluded",
				"descriptor", d.label(),
				"error", err)
			report.record(Exclusion{Descriptor: d, Reason: ExclusionInvalid})
			continue
		}

		if _, seen := rc.index[d.DescriptorID]; seen {
			logger.Warn("Duplicate descriptor id, excluded",
				"descriptor_id", d.DescriptorID.String(),
				"descriptor", d.label(),
				"error", NewDuplicateDescriptorError(d.DescriptorID, d.Name))
			report.record(Exclusion{Descriptor: d, Reason: ExclusionDuplicate})
			continue
		}

		rc.index[d.DescriptorID] = d
		rc.position[d.DescriptorID] = pos
		rc.nodes = append(rc.nodes, d.DescriptorID)
		rc.successors[d.DescriptorID] = make(map[uuid.UUID]struct{})
	}

	return rc
}

// exclude marks a surviving descriptor as removed and records the exclusion.
func (rc *resolutionContext) exclude(d Descriptor, ex Exclusion) {
	if _, already := rc.excluded[d.DescriptorID]; already {
		return
	}
	rc.excluded[d.DescriptorID] = ex.Reason
	rc.report.record(ex)
}

// isExcluded reports whether the id has been removed from the run.
func (rc *resolutionContext) isExcluded(id uuid.UUID) bool {
	_, ok := rc.excluded[id]
	return ok
}

// addEdge records that after must be ordered after before.
func (rc *resolutionContext) addEdge(before, after uuid.UUID) {
	if before == after {
		return // self-ordering hints are meaningless
	}
	rc.successors[before][after] = struct{}{}
}

// survivors returns the ids still in the graph, in input order. Called after
// evaluation, this is the pruned node set the sorter operates on.
func (rc *resolutionContext) survivors() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rc.nodes))
	for _, id := range rc.nodes {
		if !rc.isExcluded(id) {
			out = append(out, id)
		}
	}
	return out
}
