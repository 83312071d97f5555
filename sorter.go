// sorter.go: Deterministic topological ordering of the pruned graph
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"github.com/google/uuid"
)

// sort produces the final total order over the pruned graph: for every edge
// "A before B", A precedes B in the output. Zero-dependency nodes are selected
// repeatedly, ties broken by original input position rather than by id or map
// iteration, so two runs over an equal input sequence yield byte-identical
// output.
//
// A true ordering cycle never deadlocks the sorter and is not an error: when
// no zero-dependency node remains, the earliest unplaced node by input order
// is forced out, which breaks the cycle deterministically. Unresolvable cyclic
// ordering hints degrade to best-effort input order.
func (rc *resolutionContext) sort() []Descriptor {
	pending := rc.survivors()

	indegree := make(map[uuid.UUID]int, len(pending))
	for _, id := range pending {
		indegree[id] = 0
	}
	for _, id := range pending {
		for succ := range rc.successors[id] {
			indegree[succ]++
		}
	}

	ordered := make([]Descriptor, 0, len(pending))
	placed := make(map[uuid.UUID]bool, len(pending))

	for len(ordered) < len(pending) {
		next, forced := rc.selectNext(pending, indegree, placed)

		if forced {
			rc.report.CycleFallbacks++
			rc.logger.Warn("Ordering cycle detected, falling back to input order",
				"descriptor", rc.index[next].label())
		}

		placed[next] = true
		ordered = append(ordered, rc.index[next])
		for succ := range rc.successors[next] {
			indegree[succ]--
		}
	}

	return ordered
}

// selectNext returns the earliest unplaced node with no unplaced
// prerequisites. When none exists the graph is cyclic and the earliest
// unplaced node is forced; forced reports that fallback.
func (rc *resolutionContext) selectNext(pending []uuid.UUID, indegree map[uuid.UUID]int, placed map[uuid.UUID]bool) (next uuid.UUID, forced bool) {
	for _, id := range pending {
		if !placed[id] && indegree[id] == 0 {
			return id, false
		}
	}
	for _, id := range pending {
		if !placed[id] {
			return id, true
		}
	}
	// Unreachable: callers only invoke selectNext while unplaced nodes remain.
	return uuid.Nil, false
}
