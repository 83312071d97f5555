// errors.go: structured error definitions for the descriptor resolution engine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"github.com/agilira/go-errors"
	"github.com/google/uuid"
)

// Error codes for the go-descriptors system
const (
	// Descriptor validation errors (1000-1099)
	ErrCodeInvalidDescriptor = "RESOLVE_1001"

	// Internal invariant errors (1100-1199)
	ErrCodeIndexInconsistency = "RESOLVE_1101"

	// Resolution data-integrity conditions (1200-1299)
	// These are recorded in reports and logs; they are never returned to
	// callers because the engine recovers from them by exclusion.
	ErrCodeDuplicateDescriptor = "RESOLVE_1201"

	// Manifest store errors (1300-1399)
	ErrCodeManifestPath  = "MANIFEST_1301"
	ErrCodeManifestParse = "MANIFEST_1302"
	ErrCodeManifestWrite = "MANIFEST_1303"
	ErrCodeManifestWatch = "MANIFEST_1304"

	// Extension point registry errors (1400-1499)
	ErrCodeDuplicateExtensionPoint = "EXTPOINT_1401"
	ErrCodeExtensionPointNotFound  = "EXTPOINT_1402"
)

// Descriptor validation error constructors

func NewInvalidDescriptorError(name string) *errors.Error {
	return errors.New(ErrCodeInvalidDescriptor, "Invalid descriptor").
		WithUserMessage("Descriptor id is required and cannot be the nil UUID").
		WithContext("descriptor_name", name).
		WithSeverity("error")
}

// Internal invariant error constructors

// NewIndexInconsistencyError signals corrupted internal resolver state: the
// identity index claimed a descriptor id exists but the lookup returned
// nothing. This is the one fatal resolution error; continuing would risk a
// silently wrong ordering, so resolution aborts with this diagnostic.
func NewIndexInconsistencyError(id uuid.UUID) *errors.Error {
	return errors.New(ErrCodeIndexInconsistency, "Descriptor index inconsistency").
		WithUserMessage("Internal resolver state is corrupted; resolution aborted").
		WithContext("descriptor_id", id.String()).
		WithSeverity("critical")
}

// Resolution diagnostics constructors

func NewDuplicateDescriptorError(id uuid.UUID, name string) *errors.Error {
	return errors.New(ErrCodeDuplicateDescriptor, "Duplicate descriptor id").
		WithUserMessage("Descriptor ids must be unique within a resolution batch").
		WithContext("descriptor_id", id.String()).
		WithContext("descriptor_name", name).
		WithSeverity("warning")
}

// Manifest store error constructors

func NewManifestPathError(path string, message string) *errors.Error {
	return errors.New(ErrCodeManifestPath, "Manifest path error: "+message).
		WithUserMessage("Invalid manifest file path").
		WithContext("manifest_path", path).
		WithSeverity("error")
}

func NewManifestParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeManifestParse, "Manifest parse error").
		WithUserMessage("Failed to parse manifest file").
		WithContext("manifest_path", path).
		WithSeverity("error")
}

func NewManifestWriteError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeManifestWrite, "Manifest write error").
		WithUserMessage("Failed to persist manifest file").
		WithContext("manifest_path", path).
		WithSeverity("error")
}

func NewManifestWatchError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeManifestWatch, "Manifest watch error").
		WithUserMessage("Manifest file monitoring failed").
		WithContext("manifest_path", path).
		WithSeverity("error")
}

// Extension point registry error constructors

func NewDuplicateExtensionPointError(name string) *errors.Error {
	return errors.New(ErrCodeDuplicateExtensionPoint, "Duplicate extension point").
		WithUserMessage("Extension point names must be unique within a registry").
		WithContext("extension_point", name).
		WithSeverity("error")
}

func NewExtensionPointNotFoundError(name string) *errors.Error {
	return errors.New(ErrCodeExtensionPointNotFound, "Extension point not found").
		WithUserMessage("The requested extension point is not registered").
		WithContext("extension_point", name).
		WithSeverity("error")
}
