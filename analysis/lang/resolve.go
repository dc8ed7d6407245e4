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

package lang

import "fmt"

// ResolveFunctionCall resolves a call expression in the given contract
// context. A Static lookup binds to the named declaration; a Virtual lookup
// resolves to the most derived override visible from the context. Returns nil
// when the invocation does not reference a function.
func ResolveFunctionCall(invocation *Invocation, context *ContractDefinition) *FunctionDefinition {
	function, ok := invocation.Declaration.(*FunctionDefinition)
	if !ok {
		return nil
	}
	switch invocation.Lookup {
	case Static:
		return function
	case Virtual:
		return resolveVirtualFunction(function, context)
	default:
		panic(fmt.Sprintf("lang: invalid lookup discipline %d for call to %s", invocation.Lookup, function.FunctionName))
	}
}

// ResolveModifierInvocation resolves a modifier invocation in the given
// contract context, honoring the required lookup discipline. Returns nil when
// the invocation does not reference a modifier (e.g. a base constructor
// argument list).
func ResolveModifierInvocation(invocation *Invocation, context *ContractDefinition) *ModifierDefinition {
	modifier, ok := invocation.Declaration.(*ModifierDefinition)
	if !ok {
		return nil
	}
	switch invocation.Lookup {
	case Static:
		return modifier
	case Virtual:
		return resolveVirtualModifier(modifier, context)
	default:
		panic(fmt.Sprintf("lang: invalid lookup discipline %d for modifier %s", invocation.Lookup, modifier.ModifierName))
	}
}

// FindScopeContract finds the right scope for a called callable: when calling
// a base function the most derived contract is kept, but the called contract
// is used when it is not in the caller's hierarchy (e.g. a library function),
// and nil for a free function.
func FindScopeContract(callable Callable, callingContract *ContractDefinition) *ContractDefinition {
	if declaring := callable.DeclaringContract(); declaring != nil {
		if callingContract != nil && callingContract.DerivesFrom(declaring) {
			return callingContract
		}
		return declaring
	}
	return nil
}

func resolveVirtualFunction(function *FunctionDefinition, context *ContractDefinition) *FunctionDefinition {
	if function.IsFree() || context == nil {
		return function
	}
	for _, contract := range context.LinearizedBaseContracts() {
		for _, candidate := range contract.Functions {
			if candidate.FunctionName == function.FunctionName {
				return candidate
			}
		}
	}
	// The type checker guarantees an override is visible whenever a virtual
	// lookup was required.
	panic(fmt.Sprintf("lang: virtual function %s not found in hierarchy of %s", function.FunctionName, context.ContractName))
}

func resolveVirtualModifier(modifier *ModifierDefinition, context *ContractDefinition) *ModifierDefinition {
	if context == nil {
		return modifier
	}
	for _, contract := range context.LinearizedBaseContracts() {
		for _, candidate := range contract.Modifiers {
			if candidate.ModifierName == modifier.ModifierName {
				return candidate
			}
		}
	}
	panic(fmt.Sprintf("lang: virtual modifier %s not found in hierarchy of %s", modifier.ModifierName, context.ContractName))
}
