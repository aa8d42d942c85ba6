// Package shadergen turns a set of EntryPoints, each a shaderblock.Block
// tree, into WGSL source (Generator) and into the set of buffer fields and
// textures those blocks actually touch (Indexer). The two walk the exact
// same trees with the same visitation order so that a field the Indexer
// never saw can be safely dropped from the struct layout the Generator
// later emits against.
package shadergen

import (
	"fmt"

	"github.com/Carmen-Shannon/gfx-core/shaderblock"
)

// Stage is the programmable graphics stage an EntryPoint executes in.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// DependencyType controls which direction a NamedDependency constrains
// ordering relative to the entry point that declares it.
type DependencyType int

const (
	// After requires the named entry point to be emitted before this one.
	After DependencyType = iota
	// Before requires this entry point to be emitted before the named one.
	Before
)

// NamedDependency orders one EntryPoint relative to another by name.
type NamedDependency struct {
	Name string
	Type DependencyType
}

// EntryPoint is one independently orderable unit of shader code: a stage, a
// name used for dependency resolution, its Block tree, and
// the dependencies that constrain when it may run relative to its peers.
type EntryPoint struct {
	Name         string
	Stage        Stage
	Code         shaderblock.Block
	Dependencies []NamedDependency
}

// NewEntryPoint builds an EntryPoint, accepting a string or Block for code.
func NewEntryPoint(name string, stage Stage, code any, deps ...NamedDependency) EntryPoint {
	return EntryPoint{Name: name, Stage: stage, Code: shaderblock.ToBlock(code), Dependencies: deps}
}

// MissingDependencyError reports that, in strict mode, an entry point named
// a dependency that does not exist among the entry points being sorted.
type MissingDependencyError struct {
	Names []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("shadergen: missing dependency entry points: %v", e.Names)
}

// CyclicDependencyError reports that the dependency graph could not be
// linearized.
type CyclicDependencyError struct{}

func (e *CyclicDependencyError) Error() string {
	return "shadergen: cyclic entry point dependency"
}

// SortEntryPoints orders entryPoints so that every After/Before constraint
// is satisfied, using Kahn's algorithm with ties broken by original
// declaration order (stable). When strict is false (the default tolerance),
// dependencies naming an entry point absent from the set are silently
// ignored rather than rejected.
func SortEntryPoints(entryPoints []EntryPoint, strict bool) ([]EntryPoint, error) {
	indexByName := make(map[string]int, len(entryPoints))
	for i, ep := range entryPoints {
		if ep.Name != "" {
			indexByName[ep.Name] = i
		}
	}

	n := len(entryPoints)
	adj := make([][]int, n)  // adj[i] = nodes that depend on i (edges i -> j means i before j)
	indegree := make([]int, n)
	var missing []string

	addEdge := func(before, after int) {
		adj[before] = append(adj[before], after)
		indegree[after]++
	}

	for i, ep := range entryPoints {
		for _, dep := range ep.Dependencies {
			j, ok := indexByName[dep.Name]
			if !ok {
				if strict {
					missing = append(missing, dep.Name)
				}
				continue
			}
			switch dep.Type {
			case Before:
				// i must run before the named entry point: edge i -> j.
				addEdge(i, j)
			default: // After
				// the named entry point must run before i: edge j -> i.
				addEdge(j, i)
			}
		}
	}
	if strict && len(missing) > 0 {
		return nil, &MissingDependencyError{Names: missing}
	}

	// Kahn's algorithm, tie-broken by ascending original index for determinism.
	remaining := append([]int(nil), indegree...)
	available := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if remaining[i] == 0 {
			available = append(available, i)
		}
	}

	order := make([]int, 0, n)
	for len(available) > 0 {
		// Pick the smallest original index among currently-available nodes.
		best := 0
		for k := 1; k < len(available); k++ {
			if available[k] < available[best] {
				best = k
			}
		}
		node := available[best]
		available = append(available[:best], available[best+1:]...)
		order = append(order, node)

		for _, next := range adj[node] {
			remaining[next]--
			if remaining[next] == 0 {
				available = append(available, next)
			}
		}
	}

	if len(order) != n {
		return nil, &CyclicDependencyError{}
	}

	sorted := make([]EntryPoint, n)
	for i, idx := range order {
		sorted[i] = entryPoints[idx]
	}
	return sorted, nil
}
