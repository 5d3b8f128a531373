package indicator

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// ScorerRegistry maps strategy identifiers to scorers.
type ScorerRegistry interface {
	RegisterScorer(scorer Scorer) error
	GetScorer(name string) (Scorer, error)
	ListScorers() []string
	RemoveScorer(name string) error
}

// ScorerRegistryV1 manages all available scorers.
type ScorerRegistryV1 struct {
	scorers map[string]Scorer
	mu      sync.RWMutex
}

// NewScorerRegistry creates an empty scorer registry.
func NewScorerRegistry() ScorerRegistry {
	return &ScorerRegistryV1{
		scorers: make(map[string]Scorer),
		mu:      sync.RWMutex{},
	}
}

// NewDefaultScorerRegistry creates a registry holding the built-in scorers.
func NewDefaultScorerRegistry() ScorerRegistry {
	registry := NewScorerRegistry()
	_ = registry.RegisterScorer(NewPrecomputedScorer())
	_ = registry.RegisterScorer(NewTechnicalScorer())

	return registry
}

// RegisterScorer adds a scorer to the registry.
func (r *ScorerRegistryV1) RegisterScorer(scorer Scorer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := scorer.Name()
	if _, exists := r.scorers[name]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "RegisterScorer: scorer with name %s already registered", name)
	}

	r.scorers[name] = scorer

	return nil
}

// GetScorer retrieves a scorer by name.
func (r *ScorerRegistryV1) GetScorer(name string) (Scorer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scorer, exists := r.scorers[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "GetScorer: scorer with name %s not found", name)
	}

	return scorer, nil
}

// ListScorers returns the registered scorer names in sorted order.
func (r *ScorerRegistryV1) ListScorers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scorers))
	for name := range r.scorers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// RemoveScorer removes a scorer from the registry.
func (r *ScorerRegistryV1) RemoveScorer(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scorers[name]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "RemoveScorer: scorer with name %s not found", name)
	}

	delete(r.scorers, name)

	return nil
}
