// resolver.go: The descriptor resolution engine entry point
//
// Resolution is the full deduplicate -> evaluate -> prune -> sort pipeline.
// The resolver holds no per-call state: every call builds its own transient
// resolution context, so a single Resolver can be shared by every extension
// point and invoked concurrently without locking.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"sync/atomic"
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Logger receives diagnostic output for every recoverable exclusion.
	// Defaults to the silent logger when nil.
	Logger Logger

	// Manifest supplies persisted enable/disable state per descriptor.
	// Descriptors marked disabled are excluded before deduplication. When
	// nil, every descriptor is considered enabled.
	Manifest ManifestStore
}

// Resolver orders and filters descriptor batches. It is stateless apart from
// operational counters and safe for concurrent use.
type Resolver struct {
	logger   Logger
	manifest ManifestStore
	metrics  resolverMetrics
}

// resolverMetrics tracks operational counters across resolution runs.
type resolverMetrics struct {
	resolutions          atomic.Int64
	descriptorsIn        atomic.Int64
	descriptorsOut       atomic.Int64
	duplicates           atomic.Int64
	dependencyExclusions atomic.Int64
	conflictExclusions   atomic.Int64
	disabledExclusions   atomic.Int64
	cycleFallbacks       atomic.Int64
}

// ResolverMetrics is a point-in-time snapshot of resolver counters.
type ResolverMetrics struct {
	Resolutions          int64 `json:"resolutions"`
	DescriptorsIn        int64 `json:"descriptors_in"`
	DescriptorsOut       int64 `json:"descriptors_out"`
	Duplicates           int64 `json:"duplicates"`
	DependencyExclusions int64 `json:"dependency_exclusions"`
	ConflictExclusions   int64 `json:"conflict_exclusions"`
	DisabledExclusions   int64 `json:"disabled_exclusions"`
	CycleFallbacks       int64 `json:"cycle_fallbacks"`
}

// NewResolver creates a resolver with the given configuration.
func NewResolver(config ResolverConfig) *Resolver {
	logger := config.Logger
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Resolver{
		logger:   logger,
		manifest: config.Manifest,
	}
}

// Resolve produces the deterministic, conflict-free, dependency-valid ordering
// of the given descriptor batch. Excluded descriptors are simply absent from
// the result; their exclusion reasons are logged. Use ResolveWithReport when
// the exclusions need to be inspected programmatically.
//
// The input slice is snapshotted at the start of the call and never re-read;
// callers must not mutate it concurrently with the call. The only error
// returned is the fatal internal-invariant violation; every data-level problem
// (duplicate id, unsatisfied dependency, conflict, cycle) is absorbed.
func (r *Resolver) Resolve(descriptors []Descriptor) ([]Descriptor, error) {
	ordered, _, err := r.ResolveWithReport(descriptors)
	return ordered, err
}

// ResolveWithReport is Resolve plus the structured exclusion report for the
// run. The report accounts for every descriptor that is absent from the
// ordered output.
func (r *Resolver) ResolveWithReport(descriptors []Descriptor) ([]Descriptor, *Report, error) {
	report := &Report{InputCount: len(descriptors)}

	input := r.filterDisabled(descriptors, report)

	rc := newResolutionContext(input, r.logger, report)
	if err := rc.evaluate(); err != nil {
		r.logger.Error("Resolution aborted on internal invariant violation", "error", err)
		return nil, nil, err
	}

	ordered := rc.sort()
	report.OutputCount = len(ordered)

	r.recordMetrics(report)
	r.logger.Debug("Resolution completed",
		"input", report.InputCount,
		"output", report.OutputCount,
		"excluded", len(report.Exclusions),
		"cycle_fallbacks", report.CycleFallbacks)

	return ordered, report, nil
}

// Metrics returns a snapshot of the resolver's operational counters.
func (r *Resolver) Metrics() ResolverMetrics {
	return ResolverMetrics{
		Resolutions:          r.metrics.resolutions.Load(),
		DescriptorsIn:        r.metrics.descriptorsIn.Load(),
		DescriptorsOut:       r.metrics.descriptorsOut.Load(),
		Duplicates:           r.metrics.duplicates.Load(),
		DependencyExclusions: r.metrics.dependencyExclusions.Load(),
		ConflictExclusions:   r.metrics.conflictExclusions.Load(),
		DisabledExclusions:   r.metrics.disabledExclusions.Load(),
		CycleFallbacks:       r.metrics.cycleFallbacks.Load(),
	}
}

// filterDisabled removes descriptors the manifest store marks as disabled,
// recording one exclusion per removal. Without a manifest store the input is
// passed through untouched.
func (r *Resolver) filterDisabled(descriptors []Descriptor, report *Report) []Descriptor {
	if r.manifest == nil {
		return descriptors
	}

	enabled := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if r.manifest.Enabled(d.DescriptorID) {
			enabled = append(enabled, d)
			continue
		}
		r.logger.Info("Descriptor disabled by manifest, excluded",
			"descriptor", d.label(),
			"descriptor_id", d.DescriptorID.String())
		report.record(Exclusion{Descriptor: d, Reason: ExclusionDisabled})
	}
	return enabled
}

// recordMetrics folds one run's report into the resolver counters.
func (r *Resolver) recordMetrics(report *Report) {
	r.metrics.resolutions.Add(1)
	r.metrics.descriptorsIn.Add(int64(report.InputCount))
	r.metrics.descriptorsOut.Add(int64(report.OutputCount))
	r.metrics.cycleFallbacks.Add(int64(report.CycleFallbacks))

	for _, ex := range report.Exclusions {
		switch ex.Reason {
		case ExclusionDuplicate:
			r.metrics.duplicates.Add(1)
		case ExclusionMissingDependency, ExclusionVersionMismatch:
			r.metrics.dependencyExclusions.Add(1)
		case ExclusionConflict:
			r.metrics.conflictExclusions.Add(1)
		case ExclusionDisabled:
			r.metrics.disabledExclusions.Add(1)
		}
	}
}
