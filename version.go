// version.go: Semantic version window matching for descriptor references
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	semver "github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// Matches reports whether the reference matches a candidate identity.
//
// Identity equality on owner id and descriptor id is exact. The version check
// uses semantic-version precedence (major.minor.patch with pre-release ordering
// per the semver rules), not lexical comparison, and both window bounds are
// inclusive. An empty MinVersion or MaxVersion leaves that side unbounded.
//
// The engine favors exclusion over crashing: an unparsable candidate version or
// window bound makes the reference non-matching instead of raising an error.
func (r Reference) Matches(ownerID, descriptorID uuid.UUID, version string) bool {
	if r.TargetOwnerID != ownerID || r.TargetDescriptorID != descriptorID {
		return false
	}
	return r.versionInWindow(version)
}

// MatchesDescriptor reports whether the reference matches the given descriptor.
func (r Reference) MatchesDescriptor(d Descriptor) bool {
	return r.Matches(d.OwnerID, d.DescriptorID, d.Version)
}

// versionInWindow checks the inclusive [MinVersion, MaxVersion] window.
func (r Reference) versionInWindow(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}

	if r.MinVersion != "" {
		minV, err := semver.NewVersion(r.MinVersion)
		if err != nil {
			return false
		}
		if v.LessThan(minV) {
			return false
		}
	}

	if r.MaxVersion != "" {
		maxV, err := semver.NewVersion(r.MaxVersion)
		if err != nil {
			return false
		}
		if v.GreaterThan(maxV) {
			return false
		}
	}

	return true
}
