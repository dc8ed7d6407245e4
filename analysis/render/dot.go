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

// Package render renders flow graphs and call graphs to Graphviz dot, for
// debugging and reporting.
package render

import (
	"strconv"
	"strings"

	"github.com/awslabs/ar-sol-tools/analysis/cfg"
	"github.com/awslabs/ar-sol-tools/analysis/lang"
	"github.com/awslabs/ar-sol-tools/internal/graphutil"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/iterator"
)

// MarshalFlow renders one flow graph as a directed dot graph. Node labels
// carry the node's role (entry, exit, revert, placeholder, call or modifier
// target).
func MarshalFlow(flow *cfg.FunctionFlow, name string) ([]byte, error) {
	return dot.Marshal(newFlowGraph(flow), sanitizeName(name), "", "  ")
}

// MarshalCallGraph renders the callable-level call graph as a directed dot
// graph.
func MarshalCallGraph(cg graphutil.CallGraph, name string) ([]byte, error) {
	return dot.Marshal(cg, sanitizeName(name), "", "  ")
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// flowGraph adapts a FunctionFlow to Gonum's graph.Directed. It contains the
// nodes reachable from entry plus the exit and revert nodes, which may be
// unreachable after pruning.
type flowGraph struct {
	flow  *cfg.FunctionFlow
	byID  map[int64]*flowNode
	order []int64
}

func newFlowGraph(flow *cfg.FunctionFlow) *flowGraph {
	g := &flowGraph{flow: flow, byID: map[int64]*flowNode{}}
	add := func(n *cfg.Node) {
		if _, ok := g.byID[n.ID()]; !ok {
			g.byID[n.ID()] = &flowNode{node: n, flow: flow}
			g.order = append(g.order, n.ID())
		}
	}
	flow.ForEachReachable(func(node *cfg.Node, addChild func(*cfg.Node)) {
		add(node)
		for _, exit := range node.Exits {
			addChild(exit)
		}
	})
	add(flow.Exit)
	add(flow.Revert)
	return g
}

// Node implements the Gonum graph.Graph interface.
func (g *flowGraph) Node(id int64) graph.Node {
	if node, ok := g.byID[id]; ok {
		return node
	}
	return nil
}

// Nodes implements the Gonum graph.Graph interface.
func (g *flowGraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.byID[id])
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// From implements the Gonum graph.Graph interface.
func (g *flowGraph) From(id int64) graph.Nodes {
	from, ok := g.byID[id]
	if !ok {
		return graph.Empty
	}
	var nodes []graph.Node
	for _, exit := range from.node.Exits {
		if to, ok := g.byID[exit.ID()]; ok {
			nodes = append(nodes, to)
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// To implements the Gonum graph.Directed interface.
func (g *flowGraph) To(id int64) graph.Nodes {
	to, ok := g.byID[id]
	if !ok {
		return graph.Empty
	}
	var nodes []graph.Node
	for _, entry := range to.node.Entries {
		if from, ok := g.byID[entry.ID()]; ok {
			nodes = append(nodes, from)
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween implements the Gonum graph.Graph interface.
func (g *flowGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo implements the Gonum graph.Directed interface.
func (g *flowGraph) HasEdgeFromTo(uid, vid int64) bool {
	from, ok := g.byID[uid]
	if !ok {
		return false
	}
	for _, exit := range from.node.Exits {
		if exit.ID() == vid {
			return true
		}
	}
	return false
}

// Edge implements the Gonum graph.Graph interface.
func (g *flowGraph) Edge(uid, vid int64) graph.Edge {
	if g.HasEdgeFromTo(uid, vid) {
		return flowEdge{from: g.byID[uid], to: g.byID[vid]}
	}
	return nil
}

type flowNode struct {
	node *cfg.Node
	flow *cfg.FunctionFlow
}

// ID implements the Gonum graph.Node interface.
func (n *flowNode) ID() int64 { return n.node.ID() }

// DOTID names the node in dot output.
func (n *flowNode) DOTID() string { return "n" + itoa(n.node.ID()) }

// Attributes labels the node with its role.
func (n *flowNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.label()}}
}

func (n *flowNode) label() string {
	switch {
	case n.node == n.flow.Entry:
		return "entry"
	case n.node == n.flow.Exit:
		return "exit"
	case n.node == n.flow.Revert:
		return "revert"
	case n.node.IsPlaceholder:
		return "placeholder"
	case n.node.FunctionCall != nil:
		return "call " + lang.CallableName(n.node.FunctionCall.Declaration)
	case n.node.ModifierInvocation != nil:
		return "modifier " + lang.CallableName(n.node.ModifierInvocation.Declaration)
	default:
		return "n" + itoa(n.node.ID())
	}
}

type flowEdge struct {
	from *flowNode
	to   *flowNode
}

// From implements the Gonum graph.Edge interface.
func (e flowEdge) From() graph.Node { return e.from }

// To implements the Gonum graph.Edge interface.
func (e flowEdge) To() graph.Node { return e.to }

// ReversedEdge implements the Gonum graph.Edge interface.
func (e flowEdge) ReversedEdge() graph.Edge { return flowEdge{from: e.to, to: e.from} }

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
