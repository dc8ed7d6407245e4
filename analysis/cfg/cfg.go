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

import (
	"fmt"

	"github.com/awslabs/ar-sol-tools/analysis/lang"
)

// CallableKey identifies one analyzable unit: a callable evaluated as if
// invoked through a specific most-derived contract. Contract is nil for free
// functions. Under linearized multiple inheritance the same source function
// resolves its internal virtual calls differently per calling contract, so
// each context gets its own flow graph and revert classification.
type CallableKey struct {
	Contract *lang.ContractDefinition
	Callable lang.Callable
}

// String renders the key as Context:Contract.callable for reports and logs.
func (k CallableKey) String() string {
	if k.Contract == nil {
		return lang.CallableName(k.Callable)
	}
	return k.Contract.ContractName + ":" + lang.CallableName(k.Callable)
}

// CFG is the per-compilation-unit registry of control-flow graphs. It owns
// the node arena and maps every (contract-context, callable) key to the flow
// graph of the callable's body.
type CFG struct {
	arena NodeArena
	build FlowBuilder
	flows map[CallableKey]*FunctionFlow

	// keys preserves registration order for deterministic enumeration.
	keys []CallableKey
}

// NewCFG returns an empty registry that constructs flows with the given
// builder.
func NewCFG(build FlowBuilder) *CFG {
	return &CFG{
		build: build,
		flows: map[CallableKey]*FunctionFlow{},
	}
}

// ConstructFlow walks the program and creates one flow graph per key:
// (nil, function) for every implemented free function, and
// (contract, callable) for every contract and every implemented function or
// modifier directly defined anywhere in that contract's linearized
// inheritance chain. Returns false if the diagnostic sink holds errors
// accumulated by earlier phases.
func (g *CFG) ConstructFlow(program *lang.Program, reporter *lang.ErrorReporter) bool {
	if reporter.HasErrors() {
		// The program did not validate; its hierarchy annotations cannot be
		// trusted enough to walk.
		return false
	}

	for _, function := range program.FreeFunctions {
		if function.IsImplemented() && function.IsFree() {
			g.addFlow(CallableKey{Contract: nil, Callable: function})
		}
	}

	for _, contract := range program.Contracts {
		for _, base := range contract.LinearizedBaseContracts() {
			for _, function := range base.DefinedFunctions() {
				if function.IsImplemented() {
					g.addFlow(CallableKey{Contract: contract, Callable: function})
				}
			}
			for _, modifier := range base.FunctionModifiers() {
				if modifier.IsImplemented() {
					g.addFlow(CallableKey{Contract: contract, Callable: modifier})
				}
			}
		}
	}

	return !reporter.HasErrors()
}

func (g *CFG) addFlow(key CallableKey) {
	if _, exists := g.flows[key]; exists {
		return
	}
	g.flows[key] = g.build(&g.arena, key.Callable)
	g.keys = append(g.keys, key)
}

// FlowOf returns the flow graph of the callable evaluated in the given
// contract context. Querying a key that was never registered is a defect and
// panics.
func (g *CFG) FlowOf(callable lang.Callable, contract *lang.ContractDefinition) *FunctionFlow {
	key := CallableKey{Contract: contract, Callable: callable}
	flow, ok := g.flows[key]
	if !ok {
		panic(fmt.Sprintf("cfg: no flow registered for %s", key))
	}
	return flow
}

// HasFlow reports whether the key is registered.
func (g *CFG) HasFlow(key CallableKey) bool {
	_, ok := g.flows[key]
	return ok
}

// Keys returns all registered keys in registration order.
func (g *CFG) Keys() []CallableKey {
	return g.keys
}

// ForEachFlow enumerates every (key, flow) pair in registration order.
func (g *CFG) ForEachFlow(do func(key CallableKey, flow *FunctionFlow)) {
	for _, key := range g.keys {
		do(key, g.flows[key])
	}
}

// Arena returns the node arena owning every node of every registered flow.
func (g *CFG) Arena() *NodeArena {
	return &g.arena
}
