// Package godescriptors provides a deterministic, conflict-free resolution engine
// for plugin-contributed descriptors. Given an arbitrary, unordered collection of
// descriptors declaring mutual dependencies, conflicts, and relative load-order
// hints, it produces a single stable ordering, excluding the descriptors that
// cannot be satisfied instead of ever discarding the whole batch.
//
// Key Features:
//   - Deterministic output: equal input sequences always produce byte-identical
//     ordering, stable across process restarts
//   - Partial-failure tolerance: missing dependencies, version mismatches, and
//     conflicts exclude only the affected descriptors
//   - Semantic version windows on every cross-descriptor reference
//   - Explicit extension-point registry for provider aggregation, including
//     reverse (teardown) ordering
//   - Injected manifest store for persisted enable/disable state
//   - Structured exclusion reports and pluggable structured logging
//
// Basic Usage:
//
//	resolver := godescriptors.NewResolver(godescriptors.ResolverConfig{
//		Logger: myLogger,
//	})
//
//	ordered, report, err := resolver.ResolveWithReport(descriptors)
//	if err != nil {
//		log.Fatal(err) // only internal invariant violations surface here
//	}
//
//	for _, d := range ordered {
//		registerExtension(d)
//	}
//	for _, ex := range report.Exclusions {
//		log.Printf("excluded %s: %s", ex.Descriptor.DescriptorID, ex.Reason)
//	}
//
// Resolution is a synchronous pure computation with no I/O. Every call builds its
// own transient context, so a single Resolver is safe for concurrent use from
// multiple goroutines without locking.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package godescriptors
