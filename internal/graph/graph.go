// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package graph maintains the cell dependency graph: for each producer
// position, the set of consumer positions whose formulas read it. It exists
// to drive transitive cache invalidation when a producer changes.
//
// Implements: prd004-dependency-graph R1, R2;
//
//	docs/ARCHITECTURE § Dependency Graph.
package graph

import (
	"sort"

	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Graph stores forward adjacency: producer → set of consumers. Consumer
// out-edges (which cells a formula reads) are recoverable from the cell's
// own content and are not duplicated here.
type Graph struct {
	consumers map[types.Position]map[types.Position]struct{}
}

func New() *Graph {
	return &Graph{
		consumers: make(map[types.Position]map[types.Position]struct{}),
	}
}

// AddEdge records that consumer reads producer. Idempotent.
func (g *Graph) AddEdge(producer, consumer types.Position) {
	set, ok := g.consumers[producer]
	if !ok {
		set = make(map[types.Position]struct{})
		g.consumers[producer] = set
	}
	set[consumer] = struct{}{}
}

// RemoveEdge deletes a single producer→consumer edge if present.
func (g *Graph) RemoveEdge(producer, consumer types.Position) {
	set, ok := g.consumers[producer]
	if !ok {
		return
	}
	delete(set, consumer)
	if len(set) == 0 {
		delete(g.consumers, producer)
	}
}

// Consumers returns the direct consumers of producer in position order.
func (g *Graph) Consumers(producer types.Position) []types.Position {
	set, ok := g.consumers[producer]
	if !ok {
		return nil
	}
	out := make([]types.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// DropProducer removes the producer's entire consumer set.
func (g *Graph) DropProducer(producer types.Position) {
	delete(g.consumers, producer)
}

// WalkConsumers visits every transitive consumer of start exactly once.
// The graph is a DAG, but the visited set also bounds work when several
// paths reach the same consumer.
func (g *Graph) WalkConsumers(start types.Position, visit func(types.Position)) {
	seen := make(map[types.Position]struct{})

	var walk func(pos types.Position)
	walk = func(pos types.Position) {
		for consumer := range g.consumers[pos] {
			if _, ok := seen[consumer]; ok {
				continue
			}
			seen[consumer] = struct{}{}
			visit(consumer)
			walk(consumer)
		}
	}
	walk(start)
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, set := range g.consumers {
		n += len(set)
	}
	return n
}
