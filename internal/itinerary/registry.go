package itinerary

import (
	"fmt"
	"itinsort/internal/domain"
	"slices"
)

// Registry maps sorting type names to strategies. It is built once at
// startup and only read afterwards.
type Registry struct {
	strategies map[string]Strategy
	names      []string
}

func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		name := string(s.Kind())
		if _, ok := r.strategies[name]; ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateStrategy, name)
		}
		r.strategies[name] = s
		r.names = append(r.names, name)
	}
	slices.Sort(r.names)
	return r, nil
}

// Kinds lists every strategy the service ships with.
var Kinds = []Kind{KindFastest, KindCheapest, KindBest}

// DefaultRegistry holds one strategy per entry of Kinds.
func DefaultRegistry() *Registry {
	strategies := make([]Strategy, 0, len(Kinds))
	for _, kind := range Kinds {
		s, err := NewStrategy(kind)
		if err != nil {
			panic(err)
		}
		strategies = append(strategies, s)
	}
	r, err := NewRegistry(strategies...)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the registered sorting types in lexical order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

func (r *Registry) Resolve(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
	}
	return s, nil
}
