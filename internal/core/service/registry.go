package service

import (
	"fmt"
	"sync"

	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

// ComponentRegistry holds the pluggable adapters a run can be wired with:
// baseline stores keyed by store type and run reporters keyed by reporter
// type. Registration happens once during bootstrap.
type ComponentRegistry struct {
	mu             sync.RWMutex
	baselineStores map[string]ports.BaselineStore
	runReporters   map[string]ports.RunReporter
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		baselineStores: make(map[string]ports.BaselineStore),
		runReporters:   make(map[string]ports.RunReporter),
	}
}

func (r *ComponentRegistry) RegisterBaselineStore(store ports.BaselineStore) error {
	if store == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil baseline store")
	}
	storeType := store.Type()
	if storeType == "" {
		return errors.New(errors.CodeInternal, "baseline store type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.baselineStores[storeType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("baseline store type '%s' already registered", storeType))
	}
	r.baselineStores[storeType] = store
	return nil
}

func (r *ComponentRegistry) GetBaselineStore(storeType string) (ports.BaselineStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, exists := r.baselineStores[storeType]
	if !exists {
		return nil, errors.New(errors.CodeConfigValidation, fmt.Sprintf("baseline store type '%s' not found", storeType))
	}
	return store, nil
}

func (r *ComponentRegistry) RegisterRunReporter(reporterType string, reporter ports.RunReporter) error {
	if reporter == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil run reporter")
	}
	if reporterType == "" {
		return errors.New(errors.CodeInternal, "run reporter type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runReporters[reporterType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("run reporter type '%s' already registered", reporterType))
	}
	r.runReporters[reporterType] = reporter
	return nil
}

func (r *ComponentRegistry) GetRunReporter(reporterType string) (ports.RunReporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reporter, exists := r.runReporters[reporterType]
	if !exists {
		return nil, errors.New(errors.CodeConfigValidation, fmt.Sprintf("run reporter type '%s' not found", reporterType))
	}
	return reporter, nil
}
