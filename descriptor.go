// descriptor.go: Core descriptor data model shared by every extension point
//
// A descriptor is the unit of contribution in the plugin system: one plain data
// record declaring an identity and its relations to other descriptors. Pages,
// views, services, dock panels, and config schemas all contribute the same shape
// and are resolved by the same engine.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"github.com/google/uuid"
)

// Descriptor declares one plugin-contributed capability and its relation
// constraints. It is immutable once constructed: the resolver never mutates a
// descriptor, and NewDescriptor copies every relation list so later changes to
// the caller's slices cannot leak into a resolution run.
//
// Identity is the triple (OwnerID, DescriptorID, Version). DescriptorID must be
// unique within a single resolution batch; duplicates are a data-integrity
// condition handled by exclusion, not a crash.
//
// The four relation lists are all optional:
//   - DependsOn: hard requirements. Every reference must match a descriptor in
//     the batch or the declaring descriptor is excluded.
//   - ConflictsWith: hard exclusions. If any reference matches another
//     descriptor in the batch, the declaring descriptor is excluded.
//   - LoadBefore: soft ordering hint placing this descriptor before the target.
//   - LoadAfter: soft ordering hint placing this descriptor after the target.
type Descriptor struct {
	// Core identity
	OwnerID      uuid.UUID `json:"owner_id" yaml:"owner_id"`
	DescriptorID uuid.UUID `json:"descriptor_id" yaml:"descriptor_id"`
	Version      string    `json:"version" yaml:"version"`

	// Human-readable name used only in diagnostics and log output.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Relation constraints
	DependsOn     []Reference `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	ConflictsWith []Reference `json:"conflicts_with,omitempty" yaml:"conflicts_with,omitempty"`
	LoadBefore    []Reference `json:"load_before,omitempty" yaml:"load_before,omitempty"`
	LoadAfter     []Reference `json:"load_after,omitempty" yaml:"load_after,omitempty"`
}

// Reference points from one descriptor to another identity plus an acceptable
// version window. A reference matches a candidate descriptor iff owner id and
// descriptor id are equal and the candidate's version lies within
// [MinVersion, MaxVersion] inclusive, compared with semantic-version precedence.
//
// An empty MinVersion or MaxVersion leaves that side of the window unbounded.
type Reference struct {
	TargetOwnerID      uuid.UUID `json:"target_owner_id" yaml:"target_owner_id"`
	TargetDescriptorID uuid.UUID `json:"target_descriptor_id" yaml:"target_descriptor_id"`
	MinVersion         string    `json:"min_version,omitempty" yaml:"min_version,omitempty"`
	MaxVersion         string    `json:"max_version,omitempty" yaml:"max_version,omitempty"`
}

// NewDescriptor creates a descriptor with defensively copied relation lists.
func NewDescriptor(ownerID, descriptorID uuid.UUID, version string) Descriptor {
	return Descriptor{
		OwnerID:      ownerID,
		DescriptorID: descriptorID,
		Version:      version,
	}
}

// WithDependsOn returns a copy of the descriptor with the given dependency
// references. The input slice is copied.
func (d Descriptor) WithDependsOn(refs ...Reference) Descriptor {
	d.DependsOn = copyReferences(refs)
	return d
}

// WithConflictsWith returns a copy of the descriptor with the given conflict
// references. The input slice is copied.
func (d Descriptor) WithConflictsWith(refs ...Reference) Descriptor {
	d.ConflictsWith = copyReferences(refs)
	return d
}

// WithLoadBefore returns a copy of the descriptor with the given load-before
// references. The input slice is copied.
func (d Descriptor) WithLoadBefore(refs ...Reference) Descriptor {
	d.LoadBefore = copyReferences(refs)
	return d
}

// WithLoadAfter returns a copy of the descriptor with the given load-after
// references. The input slice is copied.
func (d Descriptor) WithLoadAfter(refs ...Reference) Descriptor {
	d.LoadAfter = copyReferences(refs)
	return d
}

// Validate checks the structural integrity of the descriptor identity.
//
// A nil DescriptorID can never be indexed or referenced and is rejected up
// front; everything else (unparsable versions, dangling references) is handled
// by exclusion during resolution rather than by validation errors.
func (d Descriptor) Validate() error {
	if d.DescriptorID == uuid.Nil {
		return NewInvalidDescriptorError(d.Name)
	}
	return nil
}

// Clone returns a deep copy of the descriptor, including relation lists.
func (d Descriptor) Clone() Descriptor {
	clone := d
	clone.DependsOn = copyReferences(d.DependsOn)
	clone.ConflictsWith = copyReferences(d.ConflictsWith)
	clone.LoadBefore = copyReferences(d.LoadBefore)
	clone.LoadAfter = copyReferences(d.LoadAfter)
	return clone
}

// label returns the identifier used in diagnostics: the human-readable name
// when present, otherwise the descriptor id.
func (d Descriptor) label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.DescriptorID.String()
}

func copyReferences(refs []Reference) []Reference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]Reference, len(refs))
	copy(out, refs)
	return out
}
