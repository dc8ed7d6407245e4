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

package cfg

// FunctionFlow is the control-flow graph of one callable body. It owns no
// nodes; all three handles point into the registry's arena.
type FunctionFlow struct {
	// Entry is the node where execution of the callable starts.
	Entry *Node

	// Exit is the normal exit: every path that returns normally reaches it.
	Exit *Node

	// Revert is the revert exit: every path that aborts execution reaches
	// it.
	Revert *Node
}

// ForEachReachable runs a breadth-first traversal from the flow's entry node,
// calling visit for every reachable node. The visit callback decides whether
// the node's successors are expanded by calling addChild on each successor it
// wants to explore; nodes are visited at most once.
func (f *FunctionFlow) ForEachReachable(visit func(node *Node, addChild func(*Node))) {
	seen := map[*Node]bool{f.Entry: true}
	queue := []*Node{f.Entry}
	addChild := func(child *Node) {
		if !seen[child] {
			seen[child] = true
			queue = append(queue, child)
		}
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visit(node, addChild)
	}
}
