// resolver_test.go: Resolution pipeline scenario tests
//
// Covers the classification semantics end to end: deduplication, dependency
// satisfaction, conflict asymmetry, manifest filtering, and the exclusion
// report contract (no descriptor dropped without a diagnostic).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_EmptyInput(t *testing.T) {
	resolver := NewResolver(ResolverConfig{})

	ordered, report, err := resolver.ResolveWithReport(nil)
	require.NoError(t, err)
	assert.Empty(t, ordered)
	assert.Empty(t, report.Exclusions)
	assert.Equal(t, 0, report.InputCount)
	assert.Equal(t, 0, report.OutputCount)
}

func TestResolver_SimpleChain(t *testing.T) {
	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(1))

	ordered, err := NewResolver(ResolverConfig{}).Resolve([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, descriptorNames(ordered))
}

func TestResolver_DependencyOrdersDependentAfterTarget(t *testing.T) {
	// B comes first in the input but depends on A; the dependency edge must
	// win over input order.
	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(1))

	ordered, err := NewResolver(ResolverConfig{}).Resolve([]Descriptor{b, a})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, descriptorNames(ordered))
}

func TestResolver_MissingDependency(t *testing.T) {
	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(99))

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, descriptorNames(ordered))

	ex, found := report.ExclusionFor(testID(2))
	require.True(t, found)
	assert.Equal(t, ExclusionMissingDependency, ex.Reason)
	require.NotNil(t, ex.Reference)
	assert.Equal(t, testID(99), ex.Reference.TargetDescriptorID)
}

func TestResolver_DependencyVersionMismatch(t *testing.T) {
	a := testDescriptor("A", 1, "0.9.9")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refToWindow(1, "1.0.0", "2.0.0"))

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, descriptorNames(ordered))

	ex, found := report.ExclusionFor(testID(2))
	require.True(t, found)
	assert.Equal(t, ExclusionVersionMismatch, ex.Reason)
}

func TestResolver_DependenciesAreANDed(t *testing.T) {
	// One satisfied and one unsatisfied dependency still excludes.
	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(1), refTo(99))

	ordered, err := NewResolver(ResolverConfig{}).Resolve([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, descriptorNames(ordered))
}

func TestResolver_ConflictAsymmetry(t *testing.T) {
	// A declares the conflict, B does not: only A is removed.
	a := testDescriptor("A", 1, "1.0.0").WithConflictsWith(refTo(2))
	b := testDescriptor("B", 2, "1.0.0")

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, descriptorNames(ordered))

	ex, found := report.ExclusionFor(testID(1))
	require.True(t, found)
	assert.Equal(t, ExclusionConflict, ex.Reason)
	require.NotNil(t, ex.ConflictingWith)
	assert.Equal(t, testID(2), ex.ConflictingWith.DescriptorID)
}

func TestResolver_MutualConflictDeclarations(t *testing.T) {
	a := testDescriptor("A", 1, "1.0.0").WithConflictsWith(refTo(2))
	b := testDescriptor("B", 2, "1.0.0").WithConflictsWith(refTo(1))

	for _, input := range [][]Descriptor{{a, b}, {b, a}} {
		ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport(input)
		require.NoError(t, err)
		assert.Empty(t, ordered, "both sides declared, both must go")
		assert.Len(t, report.Exclusions, 2)
	}
}

func TestResolver_ConflictWindowRespected(t *testing.T) {
	// The conflict reference only fires inside its version window.
	a := testDescriptor("A", 1, "1.0.0").WithConflictsWith(refToWindow(2, "2.0.0", "3.0.0"))
	b := testDescriptor("B", 2, "1.5.0")

	ordered, err := NewResolver(ResolverConfig{}).Resolve([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, descriptorNames(ordered))
}

func TestResolver_DuplicateIDFirstWins(t *testing.T) {
	first := testDescriptor("first", 1, "1.0.0")
	second := testDescriptor("second", 1, "2.0.0")
	other := testDescriptor("other", 2, "1.0.0")

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport([]Descriptor{first, second, other})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "other"}, descriptorNames(ordered))

	require.Len(t, report.Exclusions, 1)
	assert.Equal(t, ExclusionDuplicate, report.Exclusions[0].Reason)
	assert.Equal(t, "second", report.Exclusions[0].Descriptor.Name)
}

func TestResolver_ExclusionMonotonicity(t *testing.T) {
	// A descriptor with an unsatisfied dependency never appears, no matter
	// what its conflict and ordering declarations say.
	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0").
		WithDependsOn(refTo(99)).
		WithConflictsWith(refTo(77)).
		WithLoadBefore(refTo(1))

	ordered, err := NewResolver(ResolverConfig{}).Resolve([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, descriptorNames(ordered))
}

func TestResolver_NilDescriptorIDExcluded(t *testing.T) {
	valid := testDescriptor("ok", 1, "1.0.0")
	invalid := Descriptor{OwnerID: testOwner, Name: "broken", Version: "1.0.0"}

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport([]Descriptor{invalid, valid})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, descriptorNames(ordered))

	require.Len(t, report.Exclusions, 1)
	assert.Equal(t, ExclusionInvalid, report.Exclusions[0].Reason)
}

func TestResolver_ManifestDisabledFiltered(t *testing.T) {
	manifest := NewMemoryManifestStore()
	require.NoError(t, manifest.SetEnabled(testID(2), false))

	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0")

	resolver := NewResolver(ResolverConfig{Manifest: manifest})
	ordered, report, err := resolver.ResolveWithReport([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, descriptorNames(ordered))

	ex, found := report.ExclusionFor(testID(2))
	require.True(t, found)
	assert.Equal(t, ExclusionDisabled, ex.Reason)
}

func TestResolver_DisabledDependencyExcludesDependent(t *testing.T) {
	// Disabling a descriptor removes it before resolution, so dependents see
	// a missing dependency.
	manifest := NewMemoryManifestStore()
	require.NoError(t, manifest.SetEnabled(testID(1), false))

	a := testDescriptor("A", 1, "1.0.0")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(1))

	resolver := NewResolver(ResolverConfig{Manifest: manifest})
	ordered, report, err := resolver.ResolveWithReport([]Descriptor{a, b})
	require.NoError(t, err)
	assert.Empty(t, ordered)
	assert.Len(t, report.Exclusions, 2)
}

func TestResolver_ReportAccountsForEveryDescriptor(t *testing.T) {
	input := []Descriptor{
		testDescriptor("A", 1, "1.0.0"),
		testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(99)),
		testDescriptor("C", 3, "1.0.0").WithConflictsWith(refTo(1)),
		testDescriptor("dup", 1, "3.0.0"),
		testDescriptor("D", 4, "1.0.0"),
	}

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport(input)
	require.NoError(t, err)

	assert.Equal(t, len(input), report.InputCount)
	assert.Equal(t, len(ordered), report.OutputCount)
	assert.Equal(t, len(input), len(ordered)+len(report.Exclusions),
		"every input descriptor is either in the output or in the report")
}

func TestResolver_OutputNeverContainsExcludedOrDuplicateIDs(t *testing.T) {
	input := []Descriptor{
		testDescriptor("A", 1, "1.0.0"),
		testDescriptor("dupA", 1, "2.0.0"),
		testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(99)),
		testDescriptor("C", 3, "1.0.0"),
	}

	ordered, report, err := NewResolver(ResolverConfig{}).ResolveWithReport(input)
	require.NoError(t, err)

	seen := make(map[uuid.UUID]bool)
	for _, d := range ordered {
		assert.False(t, seen[d.DescriptorID], "no id appears twice in the output")
		seen[d.DescriptorID] = true
	}
	for _, ex := range report.Exclusions {
		if ex.Reason == ExclusionDuplicate {
			continue // the id itself survives through the first occurrence
		}
		assert.False(t, seen[ex.Descriptor.DescriptorID],
			"excluded descriptor %s must not appear in the output", ex.Descriptor.Name)
	}
}

func TestResolver_ExclusionsAreLogged(t *testing.T) {
	logger := NewTestLogger()
	resolver := NewResolver(ResolverConfig{Logger: logger})

	a := testDescriptor("A", 1, "1.0.0")
	dup := testDescriptor("dup", 1, "2.0.0")
	b := testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(99))
	c := testDescriptor("C", 3, "1.0.0").WithConflictsWith(refTo(1))

	_, err := resolver.Resolve([]Descriptor{a, dup, b, c})
	require.NoError(t, err)

	assert.True(t, logger.HasMessage("WARN", "Duplicate descriptor id, excluded"))
	assert.True(t, logger.HasMessage("WARN", "Dependency target missing, descriptor excluded"))
	assert.True(t, logger.HasMessage("WARN", "Conflict declared, descriptor excluded"))
}

func TestResolver_Metrics(t *testing.T) {
	resolver := NewResolver(ResolverConfig{})

	input := []Descriptor{
		testDescriptor("A", 1, "1.0.0"),
		testDescriptor("dup", 1, "2.0.0"),
		testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(99)),
		testDescriptor("C", 3, "1.0.0").WithConflictsWith(refTo(1)),
	}
	_, err := resolver.Resolve(input)
	require.NoError(t, err)

	metrics := resolver.Metrics()
	assert.Equal(t, int64(1), metrics.Resolutions)
	assert.Equal(t, int64(4), metrics.DescriptorsIn)
	assert.Equal(t, int64(1), metrics.DescriptorsOut)
	assert.Equal(t, int64(1), metrics.Duplicates)
	assert.Equal(t, int64(1), metrics.DependencyExclusions)
	assert.Equal(t, int64(1), metrics.ConflictExclusions)
}

func TestResolver_ConcurrentResolutions(t *testing.T) {
	resolver := NewResolver(ResolverConfig{})
	input := []Descriptor{
		testDescriptor("A", 1, "1.0.0"),
		testDescriptor("B", 2, "1.0.0").WithDependsOn(refTo(1)),
		testDescriptor("C", 3, "1.0.0").WithLoadBefore(refTo(1)),
	}

	done := make(chan []string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			ordered, err := resolver.Resolve(input)
			if err != nil {
				done <- nil
				return
			}
			done <- descriptorNames(ordered)
		}()
	}

	want := []string{"C", "A", "B"}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done, "each concurrent call sees the same order")
	}
}
