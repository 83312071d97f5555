// extension_point.go: Static extension-point registry and provider aggregation
//
// Extension points whose descriptors come from many providers are modeled as
// explicit registry entries: a name, a direction flag, and one accessor per
// registered provider. This replaces runtime attribute inspection with
// registration metadata, so "how to collect descriptors from a provider" is
// plain data instead of type introspection.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package godescriptors

import (
	"sort"
	"sync"
)

// Direction governs how an extension point's resolved sequence is consumed.
type Direction string

const (
	// DirectionForward consumes the sorted sequence as-is (initialization,
	// registration).
	DirectionForward Direction = "forward"
	// DirectionReverse consumes the sorted sequence reversed. Used for
	// teardown and unregistration ordering, where resources are released in
	// the opposite order they were acquired.
	DirectionReverse Direction = "reverse"
)

// ProviderFunc is the zero-argument accessor a provider registers to
// contribute its descriptors to an extension point.
type ProviderFunc func() []Descriptor

// ExtensionPoint aggregates descriptors from registered providers and resolves
// the merged batch in its configured direction.
type ExtensionPoint struct {
	name      string
	direction Direction
	resolver  *Resolver
	logger    Logger

	mu        sync.RWMutex
	providers []ProviderFunc
}

// Name returns the extension point name.
func (ep *ExtensionPoint) Name() string {
	return ep.name
}

// Direction returns the configured consumption direction.
func (ep *ExtensionPoint) Direction() Direction {
	return ep.direction
}

// AddProvider registers a descriptor accessor. Providers are collected in
// registration order, which is the input order the resolver's tie-break sees.
func (ep *ExtensionPoint) AddProvider(provider ProviderFunc) {
	if provider == nil {
		return
	}
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.providers = append(ep.providers, provider)
}

// Resolve collects descriptors from every registered provider, merges them in
// registration order, resolves the batch, and reverses the result when the
// point is marked for reverse consumption.
func (ep *ExtensionPoint) Resolve() ([]Descriptor, error) {
	ordered, _, err := ep.ResolveWithReport()
	return ordered, err
}

// ResolveWithReport is Resolve plus the run's exclusion report.
func (ep *ExtensionPoint) ResolveWithReport() ([]Descriptor, *Report, error) {
	ep.mu.RLock()
	providers := make([]ProviderFunc, len(ep.providers))
	copy(providers, ep.providers)
	ep.mu.RUnlock()

	var merged []Descriptor
	for _, provider := range providers {
		merged = append(merged, provider()...)
	}

	ep.logger.Debug("Extension point collected descriptors",
		"extension_point", ep.name,
		"providers", len(providers),
		"descriptors", len(merged))

	ordered, report, err := ep.resolver.ResolveWithReport(merged)
	if err != nil {
		return nil, nil, err
	}

	if ep.direction == DirectionReverse {
		reverseDescriptors(ordered)
	}
	return ordered, report, nil
}

// ExtensionPointRegistry holds the static table of extension points for a
// host. Registration happens once at startup; lookups and resolution are safe
// for concurrent use afterwards.
type ExtensionPointRegistry struct {
	resolver *Resolver
	logger   Logger

	mu     sync.RWMutex
	points map[string]*ExtensionPoint
}

// NewExtensionPointRegistry creates a registry backed by the given resolver.
// A nil resolver gets a default one with silent logging.
func NewExtensionPointRegistry(resolver *Resolver) *ExtensionPointRegistry {
	if resolver == nil {
		resolver = NewResolver(ResolverConfig{})
	}
	return &ExtensionPointRegistry{
		resolver: resolver,
		logger:   resolver.logger,
		points:   make(map[string]*ExtensionPoint),
	}
}

// Register creates an extension point entry. Names must be unique within the
// registry; an empty direction defaults to forward.
func (r *ExtensionPointRegistry) Register(name string, direction Direction) (*ExtensionPoint, error) {
	if direction == "" {
		direction = DirectionForward
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.points[name]; exists {
		return nil, NewDuplicateExtensionPointError(name)
	}

	ep := &ExtensionPoint{
		name:      name,
		direction: direction,
		resolver:  r.resolver,
		logger:    r.logger,
	}
	r.points[name] = ep

	r.logger.Debug("Extension point registered",
		"extension_point", name,
		"direction", string(direction))
	return ep, nil
}

// Point returns the extension point registered under name.
func (r *ExtensionPointRegistry) Point(name string) (*ExtensionPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ep, exists := r.points[name]
	if !exists {
		return nil, NewExtensionPointNotFoundError(name)
	}
	return ep, nil
}

// Names returns the registered extension point names in sorted order.
func (r *ExtensionPointRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.points))
	for name := range r.points {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func reverseDescriptors(ds []Descriptor) {
	for i, j := 0, len(ds)-1; i < j; i, j = i+1, j-1 {
		ds[i], ds[j] = ds[j], ds[i]
	}
}
