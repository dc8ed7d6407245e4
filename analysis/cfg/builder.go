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

import "github.com/awslabs/ar-sol-tools/analysis/lang"

// FlowBuilder constructs the flow graph of one callable body, allocating its
// nodes from the given arena. The registry invokes it exactly once per
// (contract, callable) key.
type FlowBuilder func(arena *NodeArena, callable lang.Callable) *FunctionFlow

// BuildFlow is the statement-level flow builder. It wires entry, normal exit
// and revert exit, chains the modifier invocations of a function before its
// body, and tags nodes with resolved calls, modifier invocations and
// placeholder markers.
func BuildFlow(arena *NodeArena, callable lang.Callable) *FunctionFlow {
	flow := &FunctionFlow{
		Entry:  arena.NewNode(),
		Exit:   arena.NewNode(),
		Revert: arena.NewNode(),
	}
	builder := &flowBuilder{arena: arena, flow: flow}

	current := flow.Entry
	if function, ok := callable.(*lang.FunctionDefinition); ok {
		for _, invocation := range function.ModifierInvocations {
			if _, isModifier := invocation.Declaration.(*lang.ModifierDefinition); !isModifier {
				// Base constructor invocations share the syntax but have no
				// effect on the function's flow.
				continue
			}
			node := arena.NewNode()
			node.ModifierInvocation = invocation
			ConnectNodes(current, node)
			current = node
		}
	}

	current = builder.appendBlock(current, callable.Body())
	ConnectNodes(current, flow.Exit)
	return flow
}

type flowBuilder struct {
	arena *NodeArena
	flow  *FunctionFlow
}

func (b *flowBuilder) appendBlock(current *Node, block *lang.Block) *Node {
	if block == nil {
		return current
	}
	for _, statement := range block.Statements {
		current = b.appendStatement(current, statement)
	}
	return current
}

// appendStatement extends the graph at current with one statement and returns
// the node from which the following statement continues. Statements that
// leave the normal flow (return, revert) continue from a fresh node that
// stays unreachable unless a later join connects into it.
func (b *flowBuilder) appendStatement(current *Node, statement lang.Statement) *Node {
	switch s := statement.(type) {
	case *lang.Block:
		return b.appendBlock(current, s)

	case *lang.ReturnStatement:
		ConnectNodes(current, b.flow.Exit)
		return b.arena.NewNode()

	case *lang.RevertStatement:
		ConnectNodes(current, b.flow.Revert)
		return b.arena.NewNode()

	case *lang.PlaceholderStatement:
		node := b.arena.NewNode()
		node.IsPlaceholder = true
		ConnectNodes(current, node)
		return node

	case *lang.ExpressionStatement:
		if s.Call == nil {
			return current
		}
		node := b.arena.NewNode()
		node.FunctionCall = s.Call
		ConnectNodes(current, node)
		return node

	case *lang.IfStatement:
		join := b.arena.NewNode()
		thenStart := b.arena.NewNode()
		ConnectNodes(current, thenStart)
		ConnectNodes(b.appendBlock(thenStart, s.TrueBody), join)
		if s.FalseBody != nil {
			elseStart := b.arena.NewNode()
			ConnectNodes(current, elseStart)
			ConnectNodes(b.appendBlock(elseStart, s.FalseBody), join)
		} else {
			ConnectNodes(current, join)
		}
		return join

	case *lang.LoopStatement:
		head := b.arena.NewNode()
		ConnectNodes(current, head)
		bodyStart := b.arena.NewNode()
		ConnectNodes(head, bodyStart)
		ConnectNodes(b.appendBlock(bodyStart, s.Body), head)
		after := b.arena.NewNode()
		ConnectNodes(head, after)
		return after

	default:
		panic("cfg: unknown statement type")
	}
}
