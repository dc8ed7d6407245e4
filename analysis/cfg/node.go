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

// Package cfg builds and stores one control-flow graph per
// (contract-context, callable) pair. Nodes are owned by a NodeArena for the
// lifetime of the analysis; flow graphs and inter-node references are
// non-owning handles into the arena, which allows cyclic graphs without any
// lifetime bookkeeping.
package cfg

import (
	"fmt"

	"github.com/awslabs/ar-sol-tools/analysis/lang"
)

// Node is a vertex of a control-flow graph. Entries and Exits are kept
// mutually consistent: b appears in a.Exits iff a appears in b.Entries.
type Node struct {
	id int64

	// Entries are the predecessor nodes, in insertion order.
	Entries []*Node

	// Exits are the successor nodes, in insertion order.
	Exits []*Node

	// FunctionCall is the resolved call reference attached to this node, if
	// any. Mutually exclusive with ModifierInvocation.
	FunctionCall *lang.Invocation

	// ModifierInvocation is the modifier invocation attached to this node,
	// if any. Mutually exclusive with FunctionCall.
	ModifierInvocation *lang.Invocation

	// IsPlaceholder marks the node generated for a modifier's placeholder
	// statement.
	IsPlaceholder bool
}

// ID returns the arena-assigned identifier of the node. IDs are unique and
// stable for the lifetime of the arena.
func (n *Node) ID() int64 { return n.id }

// NodeArena exclusively owns every graph node created during one analysis of
// a compilation unit. Nodes are never freed individually; the whole arena is
// discarded when the analysis completes.
type NodeArena struct {
	nodes []*Node
}

// NewNode allocates a fresh node in the arena and returns its handle.
func (a *NodeArena) NewNode() *Node {
	node := &Node{id: int64(len(a.nodes))}
	a.nodes = append(a.nodes, node)
	return node
}

// Nodes returns all nodes allocated so far, in allocation order.
func (a *NodeArena) Nodes() []*Node {
	return a.nodes
}

// ConnectNodes adds an edge from a to b, maintaining the entry/exit
// consistency invariant.
func ConnectNodes(a, b *Node) {
	if a == nil || b == nil {
		panic("cfg: cannot connect nil nodes")
	}
	a.Exits = append(a.Exits, b)
	b.Entries = append(b.Entries, a)
}

// RemoveEntry deletes from in n.Entries, preserving the order of the
// remaining entries. Removing an absent entry is a no-op.
func (n *Node) RemoveEntry(from *Node) {
	kept := n.Entries[:0]
	for _, e := range n.Entries {
		if e != from {
			kept = append(kept, e)
		}
	}
	n.Entries = kept
}

// CheckConsistency panics if the node carries both a call and a modifier
// invocation tag. Called by the analyses before interpreting the tags.
func (n *Node) CheckConsistency() {
	if n.FunctionCall != nil && n.ModifierInvocation != nil {
		panic(fmt.Sprintf("cfg: node %d carries both a call and a modifier invocation", n.id))
	}
}
