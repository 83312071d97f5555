// report.go: Structured exclusion diagnostics for resolution runs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"time"

	"github.com/agilira/go-timecache"
	"github.com/google/uuid"
)

// ExclusionReason classifies why a descriptor was excluded from the output.
type ExclusionReason string

const (
	// ExclusionInvalid indicates the descriptor failed structural validation
	// (nil descriptor id) and could not participate in resolution.
	ExclusionInvalid ExclusionReason = "invalid_descriptor"
	// ExclusionDisabled indicates the host's manifest store marked the
	// descriptor as disabled before resolution started.
	ExclusionDisabled ExclusionReason = "disabled"
	// ExclusionDuplicate indicates another descriptor with the same id
	// appeared earlier in the input; the first occurrence wins.
	ExclusionDuplicate ExclusionReason = "duplicate_id"
	// ExclusionMissingDependency indicates a DependsOn reference whose target
	// id is absent from the batch.
	ExclusionMissingDependency ExclusionReason = "missing_dependency"
	// ExclusionVersionMismatch indicates a DependsOn target exists but its
	// version lies outside the reference's window (or does not parse).
	ExclusionVersionMismatch ExclusionReason = "version_mismatch"
	// ExclusionConflict indicates one of the descriptor's ConflictsWith
	// references matched another descriptor in the batch.
	ExclusionConflict ExclusionReason = "conflict"
)

// Exclusion records one excluded descriptor together with the constraint that
// disqualified it. No descriptor is ever dropped without a corresponding
// Exclusion entry.
type Exclusion struct {
	// Descriptor is the excluded descriptor as it appeared in the input.
	Descriptor Descriptor `json:"descriptor"`

	// Reason classifies the exclusion.
	Reason ExclusionReason `json:"reason"`

	// Reference is the unmet dependency reference or the conflict reference
	// that matched, when one applies.
	Reference *Reference `json:"reference,omitempty"`

	// ConflictingWith identifies the other party for conflict exclusions.
	ConflictingWith *Descriptor `json:"conflicting_with,omitempty"`

	// Timestamp records when the exclusion was decided.
	Timestamp time.Time `json:"timestamp"`
}

// Report is the side-channel diagnostic record of a single resolution run.
// The ordered output contains only survivors; everything that was removed is
// accounted for here.
type Report struct {
	// InputCount is the number of descriptors supplied by the caller.
	InputCount int `json:"input_count"`

	// OutputCount is the number of descriptors in the ordered output.
	OutputCount int `json:"output_count"`

	// Exclusions lists every excluded descriptor in the order the exclusions
	// were decided.
	Exclusions []Exclusion `json:"exclusions,omitempty"`

	// CycleFallbacks counts how many times the sorter had to break a true
	// ordering cycle by falling back to input order.
	CycleFallbacks int `json:"cycle_fallbacks,omitempty"`
}

// Excluded reports whether any exclusion was recorded for the given id.
func (r *Report) Excluded(id uuid.UUID) bool {
	_, ok := r.ExclusionFor(id)
	return ok
}

// ExclusionFor returns the first exclusion recorded for the given id.
func (r *Report) ExclusionFor(id uuid.UUID) (Exclusion, bool) {
	for _, ex := range r.Exclusions {
		if ex.Descriptor.DescriptorID == id {
			return ex, true
		}
	}
	return Exclusion{}, false
}

// record appends an exclusion entry stamped with the cached wall clock.
func (r *Report) record(ex Exclusion) {
	ex.Timestamp = timecache.CachedTime()
	r.Exclusions = append(r.Exclusions, ex)
}
