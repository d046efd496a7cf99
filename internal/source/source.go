package source

import (
	"context"
	"fmt"

	"TalentScout/internal/domain"
)

// Connector captures a single external candidate provider (LinkedIn,
// CV-Library, Naukri, etc.). Each connector is independently configured and
// independently fallible; a disabled connector reports Enabled() == false and
// is skipped by the orchestrator.
type Connector interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, job *domain.Job) ([]domain.RawCandidate, error)
}

// Registry keeps a mapping from provider names to their connectors.
type Registry struct {
	connectors map[string]Connector
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{connectors: map[string]Connector{}}
}

// Register adds or replaces a connector implementation.
func (r *Registry) Register(connector Connector) {
	if r.connectors == nil {
		r.connectors = map[string]Connector{}
	}
	r.connectors[connector.Name()] = connector
}

// Resolve returns a connector by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Connector, error) {
	if connector, ok := r.connectors[name]; ok {
		return connector, nil
	}
	return nil, fmt.Errorf("provider %s is not registered", name)
}
