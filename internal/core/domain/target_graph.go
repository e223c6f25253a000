// Package domain contains the core value types of the incremental build cache: target and
// action graphs, rule keys, content hashes and the errors shared between layers.
package domain

import (
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// TargetNode is a declarative rule definition as produced by the parser.
type TargetNode struct {
	Target BuildTarget
	Type   string
	Deps   []BuildTarget
	// Args holds the rule-type specific arguments, decoded but not interpreted.
	Args map[string]any
	// RawInputsHash digests the node's definition and is supplied by the parser.
	RawInputsHash uint64
}

// Equal compares two nodes by value.
func (n *TargetNode) Equal(other *TargetNode) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.Target == other.Target &&
		n.Type == other.Type &&
		n.RawInputsHash == other.RawInputsHash &&
		slices.Equal(n.Deps, other.Deps) &&
		reflect.DeepEqual(n.Args, other.Args)
}

// TargetGraph is an immutable DAG of target nodes once Validate has succeeded.
type TargetGraph struct {
	nodes          map[BuildTarget]*TargetNode
	executionOrder []BuildTarget
}

// NewTargetGraph creates a new empty TargetGraph.
func NewTargetGraph() *TargetGraph {
	return &TargetGraph{
		nodes: make(map[BuildTarget]*TargetNode),
	}
}

// AddNode adds a node to the graph.
// It returns an error if a node with the same target already exists.
func (g *TargetGraph) AddNode(n *TargetNode) error {
	if _, exists := g.nodes[n.Target]; exists {
		return WithMeta(ErrTargetAlreadyExists, "target", n.Target.String())
	}
	node := *n
	node.Deps = SortBuildTargets(slices.Clone(n.Deps))
	g.nodes[n.Target] = &node
	return nil
}

// Validate checks for missing dependencies and cycles using a depth-first topological sort.
// It populates the bottom-up order used by Walk.
func (g *TargetGraph) Validate() error {
	g.executionOrder = make([]BuildTarget, 0, len(g.nodes))
	visited := make(map[BuildTarget]int) // 0: unvisited, 1: visiting, 2: visited
	var path []BuildTarget

	var visit func(u BuildTarget) error
	visit = func(u BuildTarget) error {
		visited[u] = 1
		path = append(path, u)

		node, exists := g.nodes[u]
		if !exists {
			return WithMeta(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range node.Deps {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, target := range g.Targets() {
		if visited[target] == 0 {
			if err := visit(target); err != nil {
				return err
			}
		}
	}

	return nil
}

func buildCycleError(path []BuildTarget, dep BuildTarget) error {
	startIdx := slices.Index(path, dep)
	names := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		names = append(names, node.String())
	}
	names = append(names, dep.String())
	return WithMeta(ErrCycleDetected, "cycle", strings.Join(names, " -> "))
}

// Walk yields nodes bottom-up: every node after all of its dependencies.
// It assumes Validate() has been called and returned nil.
func (g *TargetGraph) Walk() iter.Seq[*TargetNode] {
	return func(yield func(*TargetNode) bool) {
		for _, target := range g.executionOrder {
			if !yield(g.nodes[target]) {
				return
			}
		}
	}
}

// Node returns the node for a target.
func (g *TargetGraph) Node(target BuildTarget) (*TargetNode, bool) {
	n, ok := g.nodes[target]
	return n, ok
}

// Targets returns every target in sorted order.
func (g *TargetGraph) Targets() []BuildTarget {
	return SortBuildTargets(slices.Collect(maps.Keys(g.nodes)))
}

// Len returns the number of nodes.
func (g *TargetGraph) Len() int {
	return len(g.nodes)
}

// Equal compares two graphs by node and edge set.
func (g *TargetGraph) Equal(other *TargetGraph) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil || len(g.nodes) != len(other.nodes) {
		return false
	}
	for target, node := range g.nodes {
		if !node.Equal(other.nodes[target]) {
			return false
		}
	}
	return true
}
