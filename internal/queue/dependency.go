package queue

import (
	"fmt"
	"sort"

	"orderdesk/internal/model"
)

// dependencyGraph stores directed depends-on edges. blockedBy keeps each
// dependent's prerequisites in insertion order; blocks is the reverse
// index.
type dependencyGraph struct {
	blockedBy map[string][]string
	blocks    map[string]map[string]struct{}
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{
		blockedBy: make(map[string][]string),
		blocks:    make(map[string]map[string]struct{}),
	}
}

// add records dependent -> prerequisite. It reports false when the edge
// already existed.
func (g *dependencyGraph) add(dependent, prerequisite string) bool {
	for _, existing := range g.blockedBy[dependent] {
		if existing == prerequisite {
			return false
		}
	}
	g.blockedBy[dependent] = append(g.blockedBy[dependent], prerequisite)
	if g.blocks[prerequisite] == nil {
		g.blocks[prerequisite] = make(map[string]struct{})
	}
	g.blocks[prerequisite][dependent] = struct{}{}
	return true
}

func (g *dependencyGraph) prerequisites(code string) []string {
	return append([]string(nil), g.blockedBy[code]...)
}

// dependentsOf returns every code whose edge list contains code, sorted.
func (g *dependencyGraph) dependentsOf(code string) []string {
	set := g.blocks[code]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for dependent := range set {
		out = append(out, dependent)
	}
	sort.Slice(out, func(i, j int) bool { return lessCode(out[i], out[j]) })
	return out
}

// removeAllEdgesReferencing deletes code's own edge list and strips code
// from every other edge list.
func (g *dependencyGraph) removeAllEdgesReferencing(code string) {
	for _, prerequisite := range g.blockedBy[code] {
		delete(g.blocks[prerequisite], code)
		if len(g.blocks[prerequisite]) == 0 {
			delete(g.blocks, prerequisite)
		}
	}
	delete(g.blockedBy, code)

	for dependent := range g.blocks[code] {
		remaining := g.blockedBy[dependent][:0]
		for _, prerequisite := range g.blockedBy[dependent] {
			if prerequisite != code {
				remaining = append(remaining, prerequisite)
			}
		}
		if len(remaining) == 0 {
			delete(g.blockedBy, dependent)
		} else {
			g.blockedBy[dependent] = remaining
		}
	}
	delete(g.blocks, code)
}

func (g *dependencyGraph) snapshot() map[string][]string {
	out := make(map[string][]string, len(g.blockedBy))
	for dependent, prerequisites := range g.blockedBy {
		out[dependent] = append([]string(nil), prerequisites...)
	}
	return out
}

func (g *dependencyGraph) restore(edges map[string][]string) {
	g.blockedBy = make(map[string][]string, len(edges))
	g.blocks = make(map[string]map[string]struct{})
	for dependent, prerequisites := range edges {
		for _, prerequisite := range prerequisites {
			if prerequisite != dependent {
				g.add(dependent, prerequisite)
			}
		}
	}
}

// unmet returns the prerequisites of code that are not completed orders
// in history.
func (s *Store) unmet(code string) []string {
	var out []string
	for _, prerequisite := range s.deps.blockedBy[code] {
		done, ok := s.history[prerequisite]
		if !ok || done.Status != model.StatusCompleted {
			out = append(out, prerequisite)
		}
	}
	return out
}

// AddDependency records that dependent cannot complete before
// prerequisite. Adding an existing edge is a no-op.
func (s *Store) AddDependency(dependent, prerequisite, actor string) error {
	dependent = normalizeCode(dependent)
	prerequisite = normalizeCode(prerequisite)

	if dependent == prerequisite {
		return model.ErrSelfDependency
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(dependent); !ok {
		return fmt.Errorf("order %s: %w", dependent, model.ErrOrderNotFound)
	}
	if _, ok := s.lookup(prerequisite); !ok {
		return fmt.Errorf("order %s: %w", prerequisite, model.ErrOrderNotFound)
	}

	if s.deps.add(dependent, prerequisite) {
		s.logger.Debug().
			Str("order_code", dependent).
			Str("depends_on", prerequisite).
			Str("actor", actor).
			Msg("dependency added")
	}
	return nil
}

// CanComplete reports whether every prerequisite of code is completed.
// It is vacuously true for an order without dependencies.
func (s *Store) CanComplete(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unmet(normalizeCode(code))) == 0
}

// Dependencies returns the prerequisites of code in insertion order.
func (s *Store) Dependencies(code string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.prerequisites(normalizeCode(code))
}

// Dependents returns the orders that depend on code.
func (s *Store) Dependents(code string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.dependentsOf(normalizeCode(code))
}
