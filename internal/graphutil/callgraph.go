// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphutil builds the callable-level call graph of a control-flow
// registry and detects the recursive cycles that leave revert states
// unresolved. The graph satisfies the yourbasic graph.Iterator interface and
// Gonum's graph.Directed, so it can be fed to both cycle detection and dot
// rendering.
package graphutil

import (
	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/analysis/lang"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
)

// CallGraph is the call graph over the (contract, callable) keys of a
// registry: there is an edge from caller to callee for every call or modifier
// invocation whose resolved, implemented target is registered.
type CallGraph struct {
	// order is the vertex universe size; node ids are 0..order-1.
	order int

	// IDMap maps node ids to key nodes. Subgraphs restrict it.
	IDMap map[int64]KeyNode

	// Keys are the node ids present in this (sub)graph, ascending.
	Keys []int64

	// Edges is the adjacency set: Edges[x][y] means a call from x to y.
	Edges map[int64]map[int64]bool
}

// NewCallGraph builds the call graph of a fully constructed registry. Call
// and modifier-invocation targets are resolved per calling contract context,
// with the same scope rules the revert classifier uses.
func NewCallGraph(g *cfg.CFG) CallGraph {
	registryKeys := g.Keys()
	ids := make(map[cfg.CallableKey]int64, len(registryKeys))
	idmap := make(map[int64]KeyNode, len(registryKeys))
	keys := make([]int64, len(registryKeys))
	edges := make(map[int64]map[int64]bool, len(registryKeys))

	for i, key := range registryKeys {
		id := int64(i)
		ids[key] = id
		idmap[id] = KeyNode{id: id, Key: key}
		keys[i] = id
		edges[id] = map[int64]bool{}
	}

	g.ForEachFlow(func(key cfg.CallableKey, flow *cfg.FunctionFlow) {
		from := ids[key]
		flow.ForEachReachable(func(node *cfg.Node, addChild func(*cfg.Node)) {
			var callee lang.Callable
			if node.ModifierInvocation != nil {
				if modifier := lang.ResolveModifierInvocation(node.ModifierInvocation, key.Contract); modifier != nil && modifier.IsImplemented() {
					callee = modifier
				}
			}
			if node.FunctionCall != nil {
				if function := lang.ResolveFunctionCall(node.FunctionCall, key.Contract); function != nil && function.IsImplemented() {
					callee = function
				}
			}
			if callee != nil {
				calledKey := cfg.CallableKey{
					Contract: lang.FindScopeContract(callee, key.Contract),
					Callable: callee,
				}
				if to, ok := ids[calledKey]; ok {
					edges[from][to] = true
				}
			}
			for _, exit := range node.Exits {
				addChild(exit)
			}
		})
	})

	return CallGraph{
		order: len(registryKeys),
		IDMap: idmap,
		Keys:  keys,
		Edges: edges,
	}
}

// subgraph returns the graph restricted to the given node ids. Edges with an
// endpoint outside the restriction are dropped; the vertex universe (order)
// stays the same so ids remain consistent across subgraphs.
func (cg CallGraph) subgraph(include []int64) CallGraph {
	idmap := make(map[int64]KeyNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for i, id := range include {
		keys[i] = id
		idmap[id] = cg.IDMap[id]
	}
	for _, id := range include {
		edges[id] = map[int64]bool{}
		for to := range cg.Edges[id] {
			if _, ok := idmap[to]; ok {
				edges[id][to] = true
			}
		}
	}

	return CallGraph{
		order: cg.order,
		IDMap: idmap,
		Keys:  keys,
		Edges: edges,
	}
}

// Order implements the yourbasic graph.Iterator interface.
func (cg CallGraph) Order() int {
	return cg.order
}

// Visit implements the yourbasic graph.Iterator interface.
func (cg CallGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := cg.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range cg.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Node implements the Gonum graph.Graph interface.
func (cg CallGraph) Node(id int64) graph.Node {
	if node, ok := cg.IDMap[id]; ok {
		return node
	}
	return nil
}

// Nodes implements the Gonum graph.Graph interface.
func (cg CallGraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, 0, len(cg.Keys))
	for _, id := range cg.Keys {
		nodes = append(nodes, cg.IDMap[id])
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// From implements the Gonum graph.Graph interface.
func (cg CallGraph) From(id int64) graph.Nodes {
	var nodes []graph.Node
	for _, to := range cg.Keys {
		if cg.Edges[id][to] {
			nodes = append(nodes, cg.IDMap[to])
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// To implements the Gonum graph.Directed interface.
func (cg CallGraph) To(id int64) graph.Nodes {
	var nodes []graph.Node
	for _, from := range cg.Keys {
		if cg.Edges[from][id] {
			nodes = append(nodes, cg.IDMap[from])
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween implements the Gonum graph.Graph interface.
func (cg CallGraph) HasEdgeBetween(xid, yid int64) bool {
	return cg.Edges[xid][yid] || cg.Edges[yid][xid]
}

// HasEdgeFromTo implements the Gonum graph.Directed interface.
func (cg CallGraph) HasEdgeFromTo(uid, vid int64) bool {
	return cg.Edges[uid][vid]
}

// Edge implements the Gonum graph.Graph interface.
func (cg CallGraph) Edge(uid, vid int64) graph.Edge {
	if cg.Edges[uid][vid] {
		return KeyEdge{from: cg.IDMap[uid], to: cg.IDMap[vid]}
	}
	return nil
}

// KeyNode wraps a registry key as a graph node.
type KeyNode struct {
	id int64

	// Key is the (contract, callable) key this node stands for.
	Key cfg.CallableKey
}

// ID implements the Gonum graph.Node interface.
func (n KeyNode) ID() int64 { return n.id }

// DOTID names the node in dot output.
func (n KeyNode) DOTID() string { return n.Key.String() }

func (n KeyNode) String() string { return n.Key.String() }

// KeyEdge is a directed caller-to-callee edge.
type KeyEdge struct {
	from KeyNode
	to   KeyNode
}

// From implements the Gonum graph.Edge interface.
func (e KeyEdge) From() graph.Node { return e.from }

// To implements the Gonum graph.Edge interface.
func (e KeyEdge) To() graph.Node { return e.to }

// ReversedEdge implements the Gonum graph.Edge interface.
func (e KeyEdge) ReversedEdge() graph.Edge { return KeyEdge{from: e.to, to: e.from} }
