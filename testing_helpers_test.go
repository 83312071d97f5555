// testing_helpers_test.go: Shared fixtures for resolution engine tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"github.com/google/uuid"
)

// testOwner is the owning-plugin id used by most fixtures.
var testOwner = uuid.MustParse("7f000001-0000-4000-8000-000000000001")

// testID builds a stable, non-nil descriptor id from a small ordinal.
func testID(n byte) uuid.UUID {
	var id uuid.UUID
	id[0] = 0xd5
	id[15] = n
	return id
}

// testDescriptor builds a descriptor owned by testOwner.
func testDescriptor(name string, n byte, version string) Descriptor {
	d := NewDescriptor(testOwner, testID(n), version)
	d.Name = name
	return d
}

// refTo builds an unbounded reference to a descriptor id under testOwner.
func refTo(n byte) Reference {
	return Reference{
		TargetOwnerID:      testOwner,
		TargetDescriptorID: testID(n),
	}
}

// refToWindow builds a version-bounded reference under testOwner.
func refToWindow(n byte, minVersion, maxVersion string) Reference {
	ref := refTo(n)
	ref.MinVersion = minVersion
	ref.MaxVersion = maxVersion
	return ref
}

// descriptorIDs extracts the id sequence of an ordered result for comparisons.
func descriptorIDs(ds []Descriptor) []uuid.UUID {
	out := make([]uuid.UUID, len(ds))
	for i, d := range ds {
		out[i] = d.DescriptorID
	}
	return out
}

// descriptorNames extracts the name sequence of an ordered result.
func descriptorNames(ds []Descriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}
